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

// BoostService manages the boost catalog and the lifecycle of boosts
// applied to ads.
type BoostService interface {
	// ListCatalog returns the purchasable boosts.
	ListCatalog(ctx context.Context) ([]domain.Boost, error)

	// ListForAd returns every boost ever applied to an ad, newest first.
	ListForAd(ctx context.Context, adID uuid.UUID) ([]domain.AdBoost, error)

	// Purchase records a pending boost for an ad. Payment is simulated; the
	// boost has no ranking effect until Activate.
	Purchase(ctx context.Context, adID, boostID uuid.UUID) (*domain.AdBoost, error)

	// Activate starts a pending boost at now and schedules its expiry.
	Activate(ctx context.Context, adBoostID uuid.UUID, now time.Time) (*domain.AdBoost, error)

	// Cancel withdraws a pending or active boost.
	Cancel(ctx context.Context, adBoostID uuid.UUID) (*domain.AdBoost, error)

	// Expire marks an active boost expired if its window ended at or before
	// now. It is a no-op for boosts that are still running or already
	// cancelled or expired.
	Expire(ctx context.Context, adBoostID uuid.UUID, now time.Time) (*domain.AdBoost, error)
}

type boostService struct {
	store  Store
	logger *slog.Logger
}

// NewBoostService creates a new BoostService.
func NewBoostService(store Store, logger *slog.Logger) BoostService {
	return &boostService{
		store:  store,
		logger: logger,
	}
}

func (s *boostService) ListCatalog(ctx context.Context) ([]domain.Boost, error) {
	const op = "BoostService.ListCatalog"

	boosts, err := s.store.ListBoosts(ctx)
	if err != nil {
		s.logger.Error("failed to list boosts", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list boosts")
	}
	return boosts, nil
}

func (s *boostService) ListForAd(ctx context.Context, adID uuid.UUID) ([]domain.AdBoost, error) {
	const op = "BoostService.ListForAd"

	if _, err := s.store.GetAd(ctx, adID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "ad", adID.String())
		}
		s.logger.Error("failed to get ad", "error", err, "op", op, "ad_id", adID)
		return nil, domain.Internal(err, op, "Failed to retrieve ad")
	}

	boosts, err := s.store.ListAdBoosts(ctx, adID)
	if err != nil {
		s.logger.Error("failed to list ad boosts", "error", err, "op", op, "ad_id", adID)
		return nil, domain.Internal(err, op, "Failed to list boosts")
	}
	return boosts, nil
}

func (s *boostService) Purchase(ctx context.Context, adID, boostID uuid.UUID) (*domain.AdBoost, error) {
	const op = "BoostService.Purchase"

	ad, err := s.store.GetAd(ctx, adID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "ad", adID.String())
		}
		s.logger.Error("failed to get ad", "error", err, "op", op, "ad_id", adID)
		return nil, domain.Internal(err, op, "Failed to retrieve ad")
	}
	if !ad.IsPublished() {
		return nil, domain.Invalid(op, "Only published ads can be boosted")
	}

	boost, err := s.store.GetBoost(ctx, boostID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "boost", boostID.String())
		}
		s.logger.Error("failed to get boost", "error", err, "op", op, "boost_id", boostID)
		return nil, domain.Internal(err, op, "Failed to retrieve boost")
	}

	ab, err := s.store.InsertAdBoost(ctx, adID, boostID)
	if err != nil {
		s.logger.Error("failed to create ad boost", "error", err, "op", op, "ad_id", adID)
		return nil, domain.Internal(err, op, "Failed to purchase boost")
	}
	ab.PriorityLevel = boost.PriorityLevel

	metrics.BoostTransitions.WithLabelValues(ab.State.String()).Inc()
	s.logger.Info("boost purchased", "ad_boost_id", ab.ID, "ad_id", adID, "boost", boost.Label)
	return &ab, nil
}

func (s *boostService) Activate(ctx context.Context, adBoostID uuid.UUID, now time.Time) (*domain.AdBoost, error) {
	const op = "BoostService.Activate"

	var ab domain.AdBoost
	err := s.store.InTx(ctx, func(tx Store) error {
		var err error
		ab, err = tx.GetAdBoostForUpdate(ctx, adBoostID)
		if err != nil {
			return err
		}

		boost, err := tx.GetBoost(ctx, ab.BoostID)
		if err != nil {
			return err
		}

		if err := ab.Activate(boost, now); err != nil {
			return domain.Conflict(op, err.Error())
		}
		if err := tx.UpdateAdBoost(ctx, ab); err != nil {
			return err
		}

		return tx.EnqueueExpireBoost(ctx, ab.ID, ab.AdID, *ab.EndDate)
	})
	if err != nil {
		return nil, s.wrapError(err, op, adBoostID, "Failed to activate boost")
	}

	metrics.BoostTransitions.WithLabelValues(ab.State.String()).Inc()
	s.logger.Info("boost activated", "ad_boost_id", ab.ID, "ad_id", ab.AdID, "end_date", ab.EndDate)
	return &ab, nil
}

func (s *boostService) Cancel(ctx context.Context, adBoostID uuid.UUID) (*domain.AdBoost, error) {
	const op = "BoostService.Cancel"

	var ab domain.AdBoost
	err := s.store.InTx(ctx, func(tx Store) error {
		var err error
		ab, err = tx.GetAdBoostForUpdate(ctx, adBoostID)
		if err != nil {
			return err
		}
		if err := ab.TransitionTo(domain.BoostStateCancelled); err != nil {
			return domain.Conflict(op, err.Error())
		}
		return tx.UpdateAdBoost(ctx, ab)
	})
	if err != nil {
		return nil, s.wrapError(err, op, adBoostID, "Failed to cancel boost")
	}

	metrics.BoostTransitions.WithLabelValues(ab.State.String()).Inc()
	s.logger.Info("boost cancelled", "ad_boost_id", ab.ID, "ad_id", ab.AdID)
	return &ab, nil
}

func (s *boostService) Expire(ctx context.Context, adBoostID uuid.UUID, now time.Time) (*domain.AdBoost, error) {
	const op = "BoostService.Expire"

	var (
		ab      domain.AdBoost
		expired bool
	)
	err := s.store.InTx(ctx, func(tx Store) error {
		var err error
		ab, err = tx.GetAdBoostForUpdate(ctx, adBoostID)
		if err != nil {
			return err
		}
		if ab.State != domain.BoostStateActive {
			return nil
		}
		expired, err = ab.Expire(now)
		if err != nil || !expired {
			return err
		}
		return tx.UpdateAdBoost(ctx, ab)
	})
	if err != nil {
		return nil, s.wrapError(err, op, adBoostID, "Failed to expire boost")
	}

	if expired {
		metrics.BoostTransitions.WithLabelValues(ab.State.String()).Inc()
		s.logger.Info("boost expired", "ad_boost_id", ab.ID, "ad_id", ab.AdID)
	}
	return &ab, nil
}

func (s *boostService) wrapError(err error, op string, adBoostID uuid.UUID, msg string) error {
	var domainErr *domain.Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return domain.NotFound(op, "ad boost", adBoostID.String())
	}
	s.logger.Error("boost update failed", "error", err, "op", op, "ad_boost_id", adBoostID)
	return domain.Internal(err, op, msg)
}
