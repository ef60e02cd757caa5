// Package jobs contains the background job handlers run by the worker.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/DukeRupert/adboard/internal/worker"
	"github.com/google/uuid"
)

// BoostExpirer is the part of service.BoostService used by ExpireBoostHandler.
type BoostExpirer interface {
	Expire(ctx context.Context, adBoostID uuid.UUID, now time.Time) (*domain.AdBoost, error)
}

// ExpireBoostHandler moves an active boost to expired once its window ends.
type ExpireBoostHandler struct {
	boosts BoostExpirer
	logger *slog.Logger
	now    func() time.Time
}

// NewExpireBoostHandler creates a new handler for boost expiry jobs.
func NewExpireBoostHandler(boosts BoostExpirer, logger *slog.Logger) *ExpireBoostHandler {
	return &ExpireBoostHandler{
		boosts: boosts,
		logger: logger,
		now:    time.Now,
	}
}

// Type returns the job type identifier.
func (h *ExpireBoostHandler) Type() string {
	return worker.JobTypeExpireBoost
}

// Handle expires the boost named in the payload.
func (h *ExpireBoostHandler) Handle(ctx context.Context, payload []byte) error {
	p, err := worker.DecodePayload[worker.ExpireBoostPayload](payload)
	if err != nil {
		return err
	}

	ab, err := h.boosts.Expire(ctx, p.AdBoostID, h.now())
	if err != nil {
		if domain.IsNotFound(err) {
			return worker.NewPermanentError(err)
		}
		return err
	}

	// The job can run slightly before EndDate if clocks drift; retry until
	// the window has actually closed.
	if ab.State == domain.BoostStateActive {
		return fmt.Errorf("boost %s still running until %v", ab.ID, ab.EndDate)
	}

	h.logger.Info("Boost expiry processed", "ad_boost_id", ab.ID, "ad_id", ab.AdID, "state", ab.State)
	return nil
}
