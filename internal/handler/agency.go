package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/DukeRupert/adboard/internal/service"
)

// CreateSpaceRequest is the body of POST /api/agencies/{id}/spaces.
type CreateSpaceRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// AgencyHandler serves quota usage and agency spaces.
type AgencyHandler struct {
	quota  service.QuotaService
	logger *slog.Logger
}

// NewAgencyHandler creates a new AgencyHandler.
func NewAgencyHandler(quota service.QuotaService, logger *slog.Logger) *AgencyHandler {
	return &AgencyHandler{
		quota:  quota,
		logger: logger,
	}
}

// RegisterRoutes registers all agency routes with the provided mux.
//
// Routes:
// - GET  /api/agencies/{id}/quota  -> Quota
// - POST /api/agencies/{id}/spaces -> CreateSpace
func (h *AgencyHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/agencies/{id}/quota", h.Quota)
	mux.HandleFunc("POST /api/agencies/{id}/spaces", h.CreateSpace)
}

// Quota reports the agency's usage against its active plan.
func (h *AgencyHandler) Quota(w http.ResponseWriter, r *http.Request) {
	const op = "AgencyHandler.Quota"

	agencyID, err := pathUUID(r, "id", op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	usage, err := h.quota.GetUsage(r.Context(), agencyID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	sub, err := h.quota.GetActiveSubscription(r.Context(), agencyID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuotaResponse(usage, sub))
}

// CreateSpace opens a new agency space if the quota allows.
func (h *AgencyHandler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	const op = "AgencyHandler.CreateSpace"

	agencyID, err := pathUUID(r, "id", op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req CreateSpaceRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	space, err := h.quota.CreateSpace(r.Context(), domain.CreateSpaceParams{
		AgencyID: agencyID,
		Name:     strings.TrimSpace(req.Name),
		Address:  strings.TrimSpace(req.Address),
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSpaceResponse(*space))
}
