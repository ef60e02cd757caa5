package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/DukeRupert/adboard/internal/worker"
	"github.com/google/uuid"
)

// SubscriptionExpirer is the part of service.SubscriptionService used by
// ExpireSubscriptionHandler.
type SubscriptionExpirer interface {
	Expire(ctx context.Context, userSubscriptionID uuid.UUID, now time.Time) (bool, error)
}

// ExpireSubscriptionHandler clears the status flag of a subscription whose
// term has ended.
type ExpireSubscriptionHandler struct {
	subscriptions SubscriptionExpirer
	logger        *slog.Logger
	now           func() time.Time
}

// NewExpireSubscriptionHandler creates a new handler for subscription
// expiry jobs.
func NewExpireSubscriptionHandler(subscriptions SubscriptionExpirer, logger *slog.Logger) *ExpireSubscriptionHandler {
	return &ExpireSubscriptionHandler{
		subscriptions: subscriptions,
		logger:        logger,
		now:           time.Now,
	}
}

// Type returns the job type identifier.
func (h *ExpireSubscriptionHandler) Type() string {
	return worker.JobTypeExpireSubscription
}

// Handle expires the subscription named in the payload. A subscription that
// was replaced or renewed in the meantime is left alone.
func (h *ExpireSubscriptionHandler) Handle(ctx context.Context, payload []byte) error {
	p, err := worker.DecodePayload[worker.ExpireSubscriptionPayload](payload)
	if err != nil {
		return err
	}

	changed, err := h.subscriptions.Expire(ctx, p.UserSubscriptionID, h.now())
	if err != nil {
		return err
	}

	h.logger.Info("Subscription expiry processed",
		"user_subscription_id", p.UserSubscriptionID,
		"agency_id", p.AgencyID,
		"changed", changed,
	)
	return nil
}
