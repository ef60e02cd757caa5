// Package service contains the business logic layer.
//
// This file implements the quota service: active-subscription lookup, ad and
// space quota checks, downgrade enforcement and quota-guarded creation.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/DukeRupert/adboard/internal/metrics"
	"github.com/google/uuid"
)

// =============================================================================
// Interface Definition
// =============================================================================

// QuotaService defines operations for checking and enforcing how many ads
// and spaces an agency may keep active.
type QuotaService interface {
	// GetActiveSubscription returns the agency's live subscription, or nil
	// (without error) if it has none. Returns a NotFound error for an unknown
	// agency.
	GetActiveSubscription(ctx context.Context, agencyID uuid.UUID) (*domain.AgencySubscription, error)

	// CanCreateAd reports whether the agency may publish one more ad.
	CanCreateAd(ctx context.Context, agencyID uuid.UUID) (bool, error)

	// GetAdQuotaRemaining returns how many more ads the agency may publish.
	GetAdQuotaRemaining(ctx context.Context, agencyID uuid.UUID) (int, error)

	// CanCreateSpace reports whether the agency may open one more space.
	CanCreateSpace(ctx context.Context, agencyID uuid.UUID) (bool, error)

	// GetSpaceQuotaRemaining returns how many more spaces the agency may open.
	GetSpaceQuotaRemaining(ctx context.Context, agencyID uuid.UUID) (int, error)

	// GetUsage returns used and allowed counts for both resources.
	GetUsage(ctx context.Context, agencyID uuid.UUID) (*domain.QuotaUsage, error)

	// EnforceQuotaDowngrade deactivates the newest active ads and spaces
	// beyond the limits of sub. Running it twice changes nothing the second
	// time.
	EnforceQuotaDowngrade(ctx context.Context, agencyID uuid.UUID, sub domain.Subscription) (*domain.DowngradeResult, error)

	// CreateAd checks the ad quota and inserts the ad under the agency lock.
	// Returns a QuotaExceeded error when the agency is at its limit. Ads
	// created for moderation start pending and skip the quota check.
	CreateAd(ctx context.Context, params domain.CreateAdParams) (*domain.Ad, error)

	// CreateSpace checks the space quota and inserts the space under the
	// agency lock.
	CreateSpace(ctx context.Context, params domain.CreateSpaceParams) (*domain.AgencySpace, error)
}

// =============================================================================
// Implementation
// =============================================================================

type quotaService struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewQuotaService creates a new QuotaService.
func NewQuotaService(store Store, logger *slog.Logger) QuotaService {
	return &quotaService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// GetActiveSubscription returns the agency's live subscription.
func (s *quotaService) GetActiveSubscription(ctx context.Context, agencyID uuid.UUID) (*domain.AgencySubscription, error) {
	const op = "QuotaService.GetActiveSubscription"

	if err := s.requireAgency(ctx, op, agencyID); err != nil {
		return nil, err
	}

	sub, err := activeSubscription(ctx, s.store, agencyID, s.now(), s.logger)
	if err != nil {
		s.logger.Error("failed to load subscriptions", "error", err, "op", op, "agency_id", agencyID)
		return nil, domain.Internal(err, op, "Failed to load subscription")
	}
	return sub, nil
}

// CanCreateAd reports whether the agency may publish one more ad.
func (s *quotaService) CanCreateAd(ctx context.Context, agencyID uuid.UUID) (bool, error) {
	remaining, err := s.GetAdQuotaRemaining(ctx, agencyID)
	if err != nil {
		return false, err
	}
	return remaining > 0, nil
}

// GetAdQuotaRemaining returns max(0, max_ads - active ads).
func (s *quotaService) GetAdQuotaRemaining(ctx context.Context, agencyID uuid.UUID) (int, error) {
	usage, err := s.GetUsage(ctx, agencyID)
	if err != nil {
		return 0, err
	}
	return usage.AdsRemaining(), nil
}

// CanCreateSpace reports whether the agency may open one more space.
func (s *quotaService) CanCreateSpace(ctx context.Context, agencyID uuid.UUID) (bool, error) {
	remaining, err := s.GetSpaceQuotaRemaining(ctx, agencyID)
	if err != nil {
		return false, err
	}
	return remaining > 0, nil
}

// GetSpaceQuotaRemaining returns max(0, max_spaces - active spaces).
func (s *quotaService) GetSpaceQuotaRemaining(ctx context.Context, agencyID uuid.UUID) (int, error) {
	usage, err := s.GetUsage(ctx, agencyID)
	if err != nil {
		return 0, err
	}
	return usage.SpacesRemaining(), nil
}

// GetUsage returns the agency's current usage against its plan. Limits are
// zero when there is no active subscription.
func (s *quotaService) GetUsage(ctx context.Context, agencyID uuid.UUID) (*domain.QuotaUsage, error) {
	const op = "QuotaService.GetUsage"

	if err := s.requireAgency(ctx, op, agencyID); err != nil {
		return nil, err
	}

	usage, err := loadUsage(ctx, s.store, agencyID, s.now(), s.logger)
	if err != nil {
		s.logger.Error("failed to load quota usage", "error", err, "op", op, "agency_id", agencyID)
		return nil, domain.Internal(err, op, "Failed to load quota usage")
	}
	return usage, nil
}

// EnforceQuotaDowngrade brings the agency's active ads and spaces within the
// limits of sub.
func (s *quotaService) EnforceQuotaDowngrade(ctx context.Context, agencyID uuid.UUID, sub domain.Subscription) (*domain.DowngradeResult, error) {
	const op = "QuotaService.EnforceQuotaDowngrade"

	var result *domain.DowngradeResult
	err := s.store.WithAgencyLock(ctx, agencyID, func(tx Store) error {
		var err error
		result, err = enforceQuota(ctx, tx, agencyID, sub, s.logger)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "agency", agencyID.String())
		}
		s.logger.Error("failed to enforce quota", "error", err, "op", op, "agency_id", agencyID)
		return nil, domain.Internal(err, op, "Failed to enforce quota")
	}

	return result, nil
}

// CreateAd creates an ad for an agency if its quota allows it.
func (s *quotaService) CreateAd(ctx context.Context, params domain.CreateAdParams) (*domain.Ad, error) {
	const op = "QuotaService.CreateAd"

	if strings.TrimSpace(params.Title) == "" {
		return nil, domain.Invalid(op, "Title is required")
	}
	if params.PriceCents < 0 {
		return nil, domain.Invalid(op, "Price cannot be negative")
	}

	agencyID := params.Agency.AgencyID
	var ad domain.Ad
	err := s.store.WithAgencyLock(ctx, agencyID, func(tx Store) error {
		if err := s.authorize(ctx, tx, op, agencyID, params.CreatedBy); err != nil {
			return err
		}

		if params.Agency.HasSpace() {
			space, err := tx.GetSpace(ctx, *params.Agency.SpaceID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return domain.NotFound(op, "space", params.Agency.SpaceID.String())
				}
				return err
			}
			if space.AgencyID != agencyID {
				return domain.NotFound(op, "space", params.Agency.SpaceID.String())
			}
			if !space.IsActive() {
				return domain.Invalid(op, "Ads cannot be listed under an inactive space")
			}
		}

		// Pending ads consume no quota.
		if params.RequireModeration {
			var err error
			ad, err = tx.InsertAd(ctx, params, domain.AdStatusPending)
			return err
		}

		usage, err := loadUsage(ctx, tx, agencyID, s.now(), s.logger)
		if err != nil {
			return err
		}
		if usage.AdsRemaining() == 0 {
			metrics.QuotaDenied(string(domain.QuotaResourceAd))
			s.logger.Info("ad quota exceeded",
				"agency_id", agencyID,
				"used", usage.AdsUsed,
				"limit", usage.AdsLimit,
			)
			return domain.QuotaExceeded(op, domain.QuotaResourceAd, usage.AdsUsed, usage.AdsLimit)
		}

		ad, err = tx.InsertAd(ctx, params, domain.AdStatusValid)
		return err
	})
	if err != nil {
		return nil, s.wrapLockedError(err, op, agencyID, "Failed to create ad")
	}

	s.logger.Info("ad created", "ad_id", ad.ID, "agency_id", agencyID, "status", ad.Status)
	return &ad, nil
}

// CreateSpace creates an agency space if the quota allows it.
func (s *quotaService) CreateSpace(ctx context.Context, params domain.CreateSpaceParams) (*domain.AgencySpace, error) {
	const op = "QuotaService.CreateSpace"

	if strings.TrimSpace(params.Name) == "" {
		return nil, domain.Invalid(op, "Name is required")
	}

	var space domain.AgencySpace
	err := s.store.WithAgencyLock(ctx, params.AgencyID, func(tx Store) error {
		usage, err := loadUsage(ctx, tx, params.AgencyID, s.now(), s.logger)
		if err != nil {
			return err
		}
		if usage.SpacesRemaining() == 0 {
			metrics.QuotaDenied(string(domain.QuotaResourceSpace))
			s.logger.Info("space quota exceeded",
				"agency_id", params.AgencyID,
				"used", usage.SpacesUsed,
				"limit", usage.SpacesLimit,
			)
			return domain.QuotaExceeded(op, domain.QuotaResourceSpace, usage.SpacesUsed, usage.SpacesLimit)
		}

		space, err = tx.InsertSpace(ctx, params)
		return err
	})
	if err != nil {
		return nil, s.wrapLockedError(err, op, params.AgencyID, "Failed to create space")
	}

	s.logger.Info("space created", "space_id", space.ID, "agency_id", params.AgencyID)
	return &space, nil
}

// requireAgency returns a NotFound error when the agency does not exist.
func (s *quotaService) requireAgency(ctx context.Context, op string, agencyID uuid.UUID) error {
	if _, err := s.store.GetAgency(ctx, agencyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "agency", agencyID.String())
		}
		s.logger.Error("failed to get agency", "error", err, "op", op, "agency_id", agencyID)
		return domain.Internal(err, op, "Failed to retrieve agency")
	}
	return nil
}

// authorize checks that the acting user may act for the agency.
func (s *quotaService) authorize(ctx context.Context, st Store, op string, agencyID, userID uuid.UUID) error {
	ok, err := st.IsAgencyMember(ctx, agencyID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Forbidden(op, "You do not have access to this agency")
	}
	return nil
}

// wrapLockedError maps errors returned from an agency-locked block.
func (s *quotaService) wrapLockedError(err error, op string, agencyID uuid.UUID, msg string) error {
	var domainErr *domain.Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return domain.NotFound(op, "agency", agencyID.String())
	}
	s.logger.Error(strings.ToLower(msg), "error", err, "op", op, "agency_id", agencyID)
	return domain.Internal(err, op, msg)
}

// =============================================================================
// Shared Quota Logic
// =============================================================================

// activeSubscription loads live subscriptions and picks one. More than one
// live row is a data anomaly: it is logged and counted, and the pick is
// deterministic.
func activeSubscription(ctx context.Context, st SubscriptionStore, agencyID uuid.UUID, now time.Time, logger *slog.Logger) (*domain.AgencySubscription, error) {
	subs, err := st.ListActiveSubscriptions(ctx, agencyID, now)
	if err != nil {
		return nil, err
	}
	if len(subs) > 1 {
		metrics.SubscriptionAnomaliesTotal.Inc()
		logger.Warn("agency has multiple active subscriptions",
			"agency_id", agencyID,
			"count", len(subs),
		)
	}
	return domain.PickActiveSubscription(subs), nil
}

// loadUsage counts active ads and spaces and pairs them with the live plan's
// limits.
func loadUsage(ctx context.Context, st Store, agencyID uuid.UUID, now time.Time, logger *slog.Logger) (*domain.QuotaUsage, error) {
	sub, err := activeSubscription(ctx, st, agencyID, now, logger)
	if err != nil {
		return nil, err
	}

	adsUsed, err := st.CountActiveAds(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	spacesUsed, err := st.CountActiveSpaces(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	usage := &domain.QuotaUsage{AdsUsed: adsUsed, SpacesUsed: spacesUsed}
	if sub != nil {
		plan := sub.Plan
		usage.Plan = &plan
		usage.AdsLimit = plan.MaxAds
		usage.SpacesLimit = plan.MaxSpaces
	}
	return usage, nil
}

// enforceQuota deactivates the newest surplus ads and spaces. It must run
// inside WithAgencyLock.
func enforceQuota(ctx context.Context, st Store, agencyID uuid.UUID, sub domain.Subscription, logger *slog.Logger) (*domain.DowngradeResult, error) {
	result := &domain.DowngradeResult{AgencyID: agencyID}

	adsUsed, err := st.CountActiveAds(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	if surplus := domain.Surplus(adsUsed, sub.MaxAds); surplus > 0 {
		ids, err := st.ListNewestActiveAdIDs(ctx, agencyID, surplus)
		if err != nil {
			return nil, err
		}
		if _, err := st.DeactivateAds(ctx, ids); err != nil {
			return nil, err
		}
		result.DeactivatedAdIDs = ids
	}

	spacesUsed, err := st.CountActiveSpaces(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	if surplus := domain.Surplus(spacesUsed, sub.MaxSpaces); surplus > 0 {
		ids, err := st.ListNewestActiveSpaceIDs(ctx, agencyID, surplus)
		if err != nil {
			return nil, err
		}
		if _, err := st.DeactivateSpaces(ctx, ids); err != nil {
			return nil, err
		}
		result.DeactivatedSpaceIDs = ids
	}

	if result.Changed() {
		metrics.QuotaDeactivated(string(domain.QuotaResourceAd), len(result.DeactivatedAdIDs))
		metrics.QuotaDeactivated(string(domain.QuotaResourceSpace), len(result.DeactivatedSpaceIDs))
		logger.Info("quota downgrade enforced",
			"agency_id", agencyID,
			"plan", sub.Label,
			"ads_deactivated", len(result.DeactivatedAdIDs),
			"spaces_deactivated", len(result.DeactivatedSpaceIDs),
		)
	}

	return result, nil
}
