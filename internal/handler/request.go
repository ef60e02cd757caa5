package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/google/uuid"
)

// UserIDHeader carries the acting user for write requests. Authentication
// happens upstream; the API trusts this header.
const UserIDHeader = "X-User-ID"

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// pathUUID parses the named path value as a UUID.
func pathUUID(r *http.Request, name, op string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.Invalid(op, fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

// decodeJSON reads a single JSON object from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid(op, "Request body is required")
		}
		return domain.Invalid(op, "Request body is not valid JSON")
	}
	return nil
}

// actingUser returns the user acting for the agency. An explicit body value
// wins over the header; with neither, the agency acts for itself.
func actingUser(r *http.Request, agencyID uuid.UUID, fromBody *uuid.UUID, op string) (uuid.UUID, error) {
	if fromBody != nil {
		return *fromBody, nil
	}
	if v := strings.TrimSpace(r.Header.Get(UserIDHeader)); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, domain.Invalid(op, "Invalid "+UserIDHeader+" header")
		}
		return id, nil
	}
	return agencyID, nil
}

// parseFilters reads listing filters from the query string.
//
// Query parameters:
// - category, location, q: exact category, exact location, text search
// - min_price, max_price: bounds in cents
// - space_id: restrict to one agency space
// - page, per_page: pagination
func parseFilters(r *http.Request, op string) (domain.AdFilters, error) {
	q := r.URL.Query()
	filters := domain.AdFilters{
		Category: strings.TrimSpace(q.Get("category")),
		Location: strings.TrimSpace(q.Get("location")),
		Query:    strings.TrimSpace(q.Get("q")),
	}

	var err error
	if filters.MinPriceCents, err = optionalInt64(q.Get("min_price"), "min_price", op); err != nil {
		return filters, err
	}
	if filters.MaxPriceCents, err = optionalInt64(q.Get("max_price"), "max_price", op); err != nil {
		return filters, err
	}
	if v := q.Get("space_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filters, domain.Invalid(op, "Invalid space_id")
		}
		filters.SpaceID = &id
	}

	// Page values that do not parse fall back to defaults.
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.PageSize, _ = strconv.Atoi(q.Get("per_page"))
	return filters, nil
}

func optionalInt64(raw, name, op string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.Invalid(op, fmt.Sprintf("Invalid %s", name))
	}
	return &v, nil
}
