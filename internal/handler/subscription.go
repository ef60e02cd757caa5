package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/adboard/internal/service"
	"github.com/google/uuid"
)

// PurchaseSubscriptionRequest is the body of
// POST /api/agencies/{id}/subscriptions.
type PurchaseSubscriptionRequest struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
}

// SubscriptionHandler serves the plan catalog and agency subscriptions.
type SubscriptionHandler struct {
	subscriptions service.SubscriptionService
	logger        *slog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptions service.SubscriptionService, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// RegisterRoutes registers all subscription routes with the provided mux.
//
// Routes:
// - GET  /api/subscriptions                -> Plans
// - GET  /api/agencies/{id}/subscriptions  -> History
// - POST /api/agencies/{id}/subscriptions  -> Purchase
func (h *SubscriptionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/subscriptions", h.Plans)
	mux.HandleFunc("GET /api/agencies/{id}/subscriptions", h.History)
	mux.HandleFunc("POST /api/agencies/{id}/subscriptions", h.Purchase)
}

// Plans lists the plans currently offered.
func (h *SubscriptionHandler) Plans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.subscriptions.ListPlans(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	items := make([]PlanResponse, len(plans))
	for i, p := range plans {
		items[i] = toPlanResponse(p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// History lists every subscription the agency has held.
func (h *SubscriptionHandler) History(w http.ResponseWriter, r *http.Request) {
	const op = "SubscriptionHandler.History"

	agencyID, err := pathUUID(r, "id", op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	subs, err := h.subscriptions.History(r.Context(), agencyID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	items := make([]AgencySubscriptionResponse, len(subs))
	for i, s := range subs {
		items[i] = toAgencySubscriptionResponse(s)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Purchase activates a plan for the agency. The response lists any ads and
// spaces deactivated to fit the new plan.
func (h *SubscriptionHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	const op = "SubscriptionHandler.Purchase"

	agencyID, err := pathUUID(r, "id", op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req PurchaseSubscriptionRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if req.SubscriptionID == uuid.Nil {
		BadRequestResponse(w, r, h.logger, op, "subscription_id is required")
		return
	}

	result, err := h.subscriptions.Purchase(r.Context(), agencyID, req.SubscriptionID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPurchaseResponse(result))
}
