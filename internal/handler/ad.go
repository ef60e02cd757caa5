// Package handler contains the JSON HTTP handlers for the adboard API.
//
// This file implements the ranked listings and ad creation.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/DukeRupert/adboard/internal/middleware"
	"github.com/DukeRupert/adboard/internal/service"
	"github.com/google/uuid"
)

// defaultSimilarLimit is used when the similar-ads request has no limit.
const defaultSimilarLimit = 4

// maxSimilarLimit caps the similar-ads limit parameter.
const maxSimilarLimit = 20

// =============================================================================
// Request Types
// =============================================================================

// CreateAdRequest is the body of POST /api/agencies/{id}/ads.
type CreateAdRequest struct {
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	PriceCents        int64           `json:"price_cents"`
	Category          string          `json:"category"`
	Location          string          `json:"location"`
	Metadata          json.RawMessage `json:"metadata,omitempty"`
	CreatedBy         *uuid.UUID      `json:"created_by,omitempty"`
	RequireModeration bool            `json:"require_moderation"`
}

// =============================================================================
// Handler Configuration
// =============================================================================

// AdHandler serves ranked listings and ad creation.
type AdHandler struct {
	ranking service.RankingService
	quota   service.QuotaService
	logger  *slog.Logger
}

// NewAdHandler creates a new AdHandler.
func NewAdHandler(
	ranking service.RankingService,
	quota service.QuotaService,
	logger *slog.Logger,
) *AdHandler {
	return &AdHandler{
		ranking: ranking,
		quota:   quota,
		logger:  logger,
	}
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers all ad routes with the provided mux.
//
// Routes:
// - GET  /api/ads                   -> Search
// - GET  /api/ads/{id}              -> Show (counts a view)
// - GET  /api/ads/{id}/similar      -> Similar
// - GET  /api/agencies/{id}/ads     -> AgencyAds
// - POST /api/agencies/{id}/ads     -> Create
func (h *AdHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/ads", h.Search)
	mux.HandleFunc("GET /api/ads/{id}", h.Show)
	mux.HandleFunc("GET /api/ads/{id}/similar", h.Similar)
	mux.HandleFunc("GET /api/agencies/{id}/ads", h.AgencyAds)
	mux.HandleFunc("POST /api/agencies/{id}/ads", h.Create)
}

// =============================================================================
// GET /api/ads - Ranked Search
// =============================================================================

// Search returns one page of published ads in ranked order.
func (h *AdHandler) Search(w http.ResponseWriter, r *http.Request) {
	const op = "AdHandler.Search"

	filters, err := parseFilters(r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	page, err := h.ranking.Search(r.Context(), filters)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toRankedListResponse(page))
}

// =============================================================================
// GET /api/ads/{id} - Show Ad
// =============================================================================

// Show returns a published ad and records the view.
func (h *AdHandler) Show(w http.ResponseWriter, r *http.Request) {
	const op = "AdHandler.Show"

	id, err := pathUUID(r, "id", op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	ad, err := h.ranking.View(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toAdResponse(*ad))
}

// =============================================================================
// GET /api/ads/{id}/similar - Similar Ads
// =============================================================================

// Similar returns ranked ads from the same category.
func (h *AdHandler) Similar(w http.ResponseWriter, r *http.Request) {
	const op = "AdHandler.Similar"

	id, err := pathUUID(r, "id", op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	limit := defaultSimilarLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			BadRequestResponse(w, r, h.logger, op, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSimilarLimit)
	}

	items, err := h.ranking.Similar(r.Context(), id, limit)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": toRankedAdResponses(items)})
}

// =============================================================================
// GET /api/agencies/{id}/ads - Agency Storefront
// =============================================================================

// AgencyAds returns one agency's published ads in ranked order. A space
// selected through the X-Agency-Space header narrows the listing when the
// query string does not name one.
func (h *AdHandler) AgencyAds(w http.ResponseWriter, r *http.Request) {
	const op = "AdHandler.AgencyAds"

	agencyID, err := pathUUID(r, "id", op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	filters, err := parseFilters(r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if filters.SpaceID == nil {
		filters.SpaceID = middleware.AgencySpaceFromContext(r.Context())
	}

	page, err := h.ranking.AgencyAds(r.Context(), agencyID, filters)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toRankedListResponse(page))
}

// =============================================================================
// POST /api/agencies/{id}/ads - Create Ad
// =============================================================================

// Create publishes a new ad for the agency if its quota allows.
func (h *AdHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "AdHandler.Create"

	agencyID, err := pathUUID(r, "id", op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req CreateAdRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	createdBy, err := actingUser(r, agencyID, req.CreatedBy, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	ad, err := h.quota.CreateAd(r.Context(), domain.CreateAdParams{
		Agency: domain.AgencyContext{
			AgencyID: agencyID,
			SpaceID:  middleware.AgencySpaceFromContext(r.Context()),
		},
		CreatedBy:         createdBy,
		Title:             strings.TrimSpace(req.Title),
		Description:       strings.TrimSpace(req.Description),
		PriceCents:        req.PriceCents,
		Category:          strings.TrimSpace(req.Category),
		Location:          strings.TrimSpace(req.Location),
		Metadata:          req.Metadata,
		RequireModeration: req.RequireModeration,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/ads/"+ad.ID.String())
	writeJSON(w, http.StatusCreated, toAdResponse(*ad))
}
