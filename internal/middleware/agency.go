package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/google/uuid"
)

// AgencySpaceHeader selects the agency space a request acts on. Employees of
// several agencies send it with each request.
const AgencySpaceHeader = "X-Agency-Space"

type contextKey string

const agencySpaceKey contextKey = "agency_space"

// AgencySpace parses the X-Agency-Space header into the request context.
// A malformed value is rejected with 400.
func AgencySpace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(AgencySpaceHeader))
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, domain.EINVALID, "Invalid "+AgencySpaceHeader+" header")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), agencySpaceKey, id)))
	})
}

// AgencySpaceFromContext returns the space selected for the request, if any.
func AgencySpaceFromContext(ctx context.Context) *uuid.UUID {
	id, ok := ctx.Value(agencySpaceKey).(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}
