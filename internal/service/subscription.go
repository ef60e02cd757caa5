package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/DukeRupert/adboard/internal/metrics"
	"github.com/google/uuid"
)

// SubscriptionService sells agency plans and keeps quota in line with them.
type SubscriptionService interface {
	// ListPlans returns the plans currently offered.
	ListPlans(ctx context.Context) ([]domain.Subscription, error)

	// Purchase activates subscriptionID for the agency. Payment is
	// simulated. Any live subscription is replaced; renewing the same plan
	// extends from its current end date. Quota is enforced against the new
	// plan in the same transaction.
	Purchase(ctx context.Context, agencyID, subscriptionID uuid.UUID) (*PurchaseResult, error)

	// History returns every subscription the agency has held, newest first.
	History(ctx context.Context, agencyID uuid.UUID) ([]domain.AgencySubscription, error)

	// Expire clears the status of a subscription whose end date has passed.
	// Returns false when there was nothing to expire.
	Expire(ctx context.Context, userSubscriptionID uuid.UUID, now time.Time) (bool, error)
}

// PurchaseResult describes a completed purchase.
type PurchaseResult struct {
	Subscription domain.AgencySubscription
	Downgrade    domain.DowngradeResult
}

type subscriptionService struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(store Store, logger *slog.Logger) SubscriptionService {
	return &subscriptionService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (s *subscriptionService) ListPlans(ctx context.Context) ([]domain.Subscription, error) {
	const op = "SubscriptionService.ListPlans"

	plans, err := s.store.ListPlans(ctx)
	if err != nil {
		s.logger.Error("failed to list plans", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list plans")
	}
	return plans, nil
}

func (s *subscriptionService) Purchase(ctx context.Context, agencyID, subscriptionID uuid.UUID) (*PurchaseResult, error) {
	const op = "SubscriptionService.Purchase"

	plan, err := s.store.GetPlan(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "subscription", subscriptionID.String())
		}
		s.logger.Error("failed to get plan", "error", err, "op", op, "subscription_id", subscriptionID)
		return nil, domain.Internal(err, op, "Failed to retrieve plan")
	}
	if !plan.IsActive {
		return nil, domain.Invalid(op, "This plan is no longer offered")
	}

	now := s.now()
	result := &PurchaseResult{}
	err = s.store.WithAgencyLock(ctx, agencyID, func(tx Store) error {
		current, err := activeSubscription(ctx, tx, agencyID, now, s.logger)
		if err != nil {
			return err
		}

		start, end := domain.SubscriptionTerm(plan, current, now)

		if _, err := tx.DeactivateUserSubscriptions(ctx, agencyID); err != nil {
			return err
		}

		us, err := tx.InsertUserSubscription(ctx, domain.UserSubscription{
			UserID:         agencyID,
			SubscriptionID: plan.ID,
			Status:         true,
			StartDate:      start,
			EndDate:        end,
		})
		if err != nil {
			return err
		}
		result.Subscription = domain.AgencySubscription{UserSubscription: us, Plan: plan}

		downgrade, err := enforceQuota(ctx, tx, agencyID, plan, s.logger)
		if err != nil {
			return err
		}
		result.Downgrade = *downgrade

		return tx.EnqueueExpireSubscription(ctx, us.ID, agencyID, us.EndDate)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "agency", agencyID.String())
		}
		s.logger.Error("failed to purchase subscription", "error", err, "op", op, "agency_id", agencyID)
		return nil, domain.Internal(err, op, "Failed to purchase subscription")
	}

	metrics.SubscriptionsPurchased.WithLabelValues(plan.Label).Inc()
	s.logger.Info("subscription purchased",
		"agency_id", agencyID,
		"plan", plan.Label,
		"start_date", result.Subscription.StartDate,
		"end_date", result.Subscription.EndDate,
	)
	return result, nil
}

func (s *subscriptionService) History(ctx context.Context, agencyID uuid.UUID) ([]domain.AgencySubscription, error) {
	const op = "SubscriptionService.History"

	subs, err := s.store.ListSubscriptionHistory(ctx, agencyID)
	if err != nil {
		s.logger.Error("failed to list subscriptions", "error", err, "op", op, "agency_id", agencyID)
		return nil, domain.Internal(err, op, "Failed to list subscriptions")
	}
	return subs, nil
}

func (s *subscriptionService) Expire(ctx context.Context, userSubscriptionID uuid.UUID, now time.Time) (bool, error) {
	const op = "SubscriptionService.Expire"

	changed, err := s.store.ExpireUserSubscription(ctx, userSubscriptionID, now)
	if err != nil {
		s.logger.Error("failed to expire subscription", "error", err, "op", op, "user_subscription_id", userSubscriptionID)
		return false, domain.Internal(err, op, "Failed to expire subscription")
	}
	if changed {
		s.logger.Info("subscription expired", "user_subscription_id", userSubscriptionID)
	}
	return changed, nil
}
