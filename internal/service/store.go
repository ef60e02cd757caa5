package service

import (
	"context"
	"time"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/google/uuid"
)

// =============================================================================
// Storage Interfaces
// =============================================================================
//
// Services talk to storage through these interfaces so the ranking and quota
// rules can be exercised without a database. Lookups of missing rows return
// sql.ErrNoRows; services translate that into domain.NotFound.

// AgencyStore reads agency accounts and memberships.
type AgencyStore interface {
	GetAgency(ctx context.Context, id uuid.UUID) (domain.Agency, error)
	IsAgencyMember(ctx context.Context, agencyID, userID uuid.UUID) (bool, error)
}

// AdStore persists ads and produces ranking candidates.
type AdStore interface {
	GetAd(ctx context.Context, id uuid.UUID) (domain.Ad, error)
	InsertAd(ctx context.Context, params domain.CreateAdParams, status domain.AdStatus) (domain.Ad, error)
	IncrementAdViews(ctx context.Context, id uuid.UUID) error
	CountActiveAds(ctx context.Context, agencyID uuid.UUID) (int, error)
	ListNewestActiveAdIDs(ctx context.Context, agencyID uuid.UUID, limit int) ([]uuid.UUID, error)

	// DeactivateAds moves the given ads from valid to the quota-deactivated
	// status. Ads not currently valid are skipped.
	DeactivateAds(ctx context.Context, ids []uuid.UUID) (int, error)

	// ListRankingCandidates returns every published ad matching filters with
	// its effective boost priority and owner subscription amount at now.
	// Rows are in storage order; callers rank them.
	ListRankingCandidates(ctx context.Context, filters domain.AdFilters, now time.Time) ([]domain.Candidate, error)
}

// SpaceStore persists agency spaces.
type SpaceStore interface {
	GetSpace(ctx context.Context, id uuid.UUID) (domain.AgencySpace, error)
	InsertSpace(ctx context.Context, params domain.CreateSpaceParams) (domain.AgencySpace, error)
	CountActiveSpaces(ctx context.Context, agencyID uuid.UUID) (int, error)
	ListNewestActiveSpaceIDs(ctx context.Context, agencyID uuid.UUID, limit int) ([]uuid.UUID, error)
	DeactivateSpaces(ctx context.Context, ids []uuid.UUID) (int, error)
}

// SubscriptionStore persists the plan catalog and agency subscriptions.
type SubscriptionStore interface {
	ListPlans(ctx context.Context) ([]domain.Subscription, error)
	GetPlan(ctx context.Context, id uuid.UUID) (domain.Subscription, error)
	ListActiveSubscriptions(ctx context.Context, agencyID uuid.UUID, now time.Time) ([]domain.AgencySubscription, error)
	ListSubscriptionHistory(ctx context.Context, agencyID uuid.UUID) ([]domain.AgencySubscription, error)
	InsertUserSubscription(ctx context.Context, us domain.UserSubscription) (domain.UserSubscription, error)
	DeactivateUserSubscriptions(ctx context.Context, agencyID uuid.UUID) (int, error)

	// ExpireUserSubscription clears the status of a subscription whose end
	// date is not after now. It reports whether a row changed.
	ExpireUserSubscription(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}

// BoostStore persists the boost catalog and boosts applied to ads.
type BoostStore interface {
	ListBoosts(ctx context.Context) ([]domain.Boost, error)
	GetBoost(ctx context.Context, id uuid.UUID) (domain.Boost, error)
	InsertAdBoost(ctx context.Context, adID, boostID uuid.UUID) (domain.AdBoost, error)
	ListAdBoosts(ctx context.Context, adID uuid.UUID) ([]domain.AdBoost, error)

	// GetAdBoostForUpdate loads an ad boost and locks it until the enclosing
	// transaction ends.
	GetAdBoostForUpdate(ctx context.Context, id uuid.UUID) (domain.AdBoost, error)
	UpdateAdBoost(ctx context.Context, b domain.AdBoost) error
}

// JobStore schedules background jobs.
type JobStore interface {
	EnqueueExpireBoost(ctx context.Context, adBoostID, adID uuid.UUID, endDate time.Time) error
	EnqueueExpireSubscription(ctx context.Context, userSubscriptionID, agencyID uuid.UUID, endDate time.Time) error
}

// Store is the full storage surface used by the services.
type Store interface {
	AgencyStore
	AdStore
	SpaceStore
	SubscriptionStore
	BoostStore
	JobStore

	// InTx runs fn inside a transaction. Calling InTx on a store already
	// bound to a transaction reuses it.
	InTx(ctx context.Context, fn func(Store) error) error

	// WithAgencyLock runs fn inside a transaction holding the agency's row
	// lock, serializing quota checks, inserts and enforcement for that
	// agency. Returns sql.ErrNoRows if the agency does not exist.
	WithAgencyLock(ctx context.Context, agencyID uuid.UUID, fn func(Store) error) error
}
