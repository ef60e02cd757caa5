package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/DukeRupert/adboard/internal/service"
	"github.com/google/uuid"
)

// PurchaseBoostRequest is the body of POST /api/ads/{id}/boosts.
type PurchaseBoostRequest struct {
	BoostID uuid.UUID `json:"boost_id"`
}

// BoostHandler serves the boost catalog and the boost lifecycle.
type BoostHandler struct {
	boosts service.BoostService
	logger *slog.Logger
	now    func() time.Time
}

// NewBoostHandler creates a new BoostHandler.
func NewBoostHandler(boosts service.BoostService, logger *slog.Logger) *BoostHandler {
	return &BoostHandler{
		boosts: boosts,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterRoutes registers all boost routes with the provided mux.
//
// Routes:
// - GET  /api/boosts                   -> Catalog
// - GET  /api/ads/{id}/boosts          -> ListForAd
// - POST /api/ads/{id}/boosts          -> Purchase
// - POST /api/ad-boosts/{id}/activate  -> Activate
// - POST /api/ad-boosts/{id}/cancel    -> Cancel
func (h *BoostHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/boosts", h.Catalog)
	mux.HandleFunc("GET /api/ads/{id}/boosts", h.ListForAd)
	mux.HandleFunc("POST /api/ads/{id}/boosts", h.Purchase)
	mux.HandleFunc("POST /api/ad-boosts/{id}/activate", h.Activate)
	mux.HandleFunc("POST /api/ad-boosts/{id}/cancel", h.Cancel)
}

// Catalog lists the purchasable boosts.
func (h *BoostHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	boosts, err := h.boosts.ListCatalog(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	items := make([]BoostResponse, len(boosts))
	for i, b := range boosts {
		items[i] = toBoostResponse(b)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// ListForAd lists every boost applied to an ad.
func (h *BoostHandler) ListForAd(w http.ResponseWriter, r *http.Request) {
	const op = "BoostHandler.ListForAd"

	adID, err := pathUUID(r, "id", op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	boosts, err := h.boosts.ListForAd(r.Context(), adID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": toAdBoostResponses(boosts)})
}

// Purchase records a pending boost for an ad.
func (h *BoostHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	const op = "BoostHandler.Purchase"

	adID, err := pathUUID(r, "id", op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req PurchaseBoostRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if req.BoostID == uuid.Nil {
		BadRequestResponse(w, r, h.logger, op, "boost_id is required")
		return
	}

	ab, err := h.boosts.Purchase(r.Context(), adID, req.BoostID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAdBoostResponse(*ab))
}

// Activate starts a pending boost now.
func (h *BoostHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "BoostHandler.Activate", func(id uuid.UUID) (*domain.AdBoost, error) {
		return h.boosts.Activate(r.Context(), id, h.now())
	})
}

// Cancel withdraws a pending or active boost.
func (h *BoostHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "BoostHandler.Cancel", func(id uuid.UUID) (*domain.AdBoost, error) {
		return h.boosts.Cancel(r.Context(), id)
	})
}

func (h *BoostHandler) transition(w http.ResponseWriter, r *http.Request, op string, apply func(uuid.UUID) (*domain.AdBoost, error)) {
	id, err := pathUUID(r, "id", op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	ab, err := apply(id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toAdBoostResponse(*ab))
}

func toAdBoostResponses(boosts []domain.AdBoost) []AdBoostResponse {
	out := make([]AdBoostResponse, len(boosts))
	for i, b := range boosts {
		out[i] = toAdBoostResponse(b)
	}
	return out
}
