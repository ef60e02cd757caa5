package handler

import (
	"context"
	"time"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/DukeRupert/adboard/internal/service"
	"github.com/google/uuid"
)

// =============================================================================
// Service stubs
// =============================================================================

type stubRanking struct {
	search    func(ctx context.Context, f domain.AdFilters) (*domain.RankedPage, error)
	agencyAds func(ctx context.Context, agencyID uuid.UUID, f domain.AdFilters) (*domain.RankedPage, error)
	similar   func(ctx context.Context, adID uuid.UUID, limit int) ([]domain.RankedAd, error)
	view      func(ctx context.Context, adID uuid.UUID) (*domain.Ad, error)
}

func (s *stubRanking) Search(ctx context.Context, f domain.AdFilters) (*domain.RankedPage, error) {
	return s.search(ctx, f)
}

func (s *stubRanking) AgencyAds(ctx context.Context, agencyID uuid.UUID, f domain.AdFilters) (*domain.RankedPage, error) {
	return s.agencyAds(ctx, agencyID, f)
}

func (s *stubRanking) Similar(ctx context.Context, adID uuid.UUID, limit int) ([]domain.RankedAd, error) {
	return s.similar(ctx, adID, limit)
}

func (s *stubRanking) View(ctx context.Context, adID uuid.UUID) (*domain.Ad, error) {
	return s.view(ctx, adID)
}

type stubQuota struct {
	service.QuotaService // unimplemented methods panic

	usage       func(ctx context.Context, agencyID uuid.UUID) (*domain.QuotaUsage, error)
	active      func(ctx context.Context, agencyID uuid.UUID) (*domain.AgencySubscription, error)
	createAd    func(ctx context.Context, p domain.CreateAdParams) (*domain.Ad, error)
	createSpace func(ctx context.Context, p domain.CreateSpaceParams) (*domain.AgencySpace, error)
}

func (s *stubQuota) GetUsage(ctx context.Context, agencyID uuid.UUID) (*domain.QuotaUsage, error) {
	return s.usage(ctx, agencyID)
}

func (s *stubQuota) GetActiveSubscription(ctx context.Context, agencyID uuid.UUID) (*domain.AgencySubscription, error) {
	return s.active(ctx, agencyID)
}

func (s *stubQuota) CreateAd(ctx context.Context, p domain.CreateAdParams) (*domain.Ad, error) {
	return s.createAd(ctx, p)
}

func (s *stubQuota) CreateSpace(ctx context.Context, p domain.CreateSpaceParams) (*domain.AgencySpace, error) {
	return s.createSpace(ctx, p)
}

type stubBoosts struct {
	service.BoostService

	catalog   func(ctx context.Context) ([]domain.Boost, error)
	listForAd func(ctx context.Context, adID uuid.UUID) ([]domain.AdBoost, error)
	purchase  func(ctx context.Context, adID, boostID uuid.UUID) (*domain.AdBoost, error)
	activate  func(ctx context.Context, id uuid.UUID, now time.Time) (*domain.AdBoost, error)
	cancel    func(ctx context.Context, id uuid.UUID) (*domain.AdBoost, error)
}

func (s *stubBoosts) ListCatalog(ctx context.Context) ([]domain.Boost, error) {
	return s.catalog(ctx)
}

func (s *stubBoosts) ListForAd(ctx context.Context, adID uuid.UUID) ([]domain.AdBoost, error) {
	return s.listForAd(ctx, adID)
}

func (s *stubBoosts) Purchase(ctx context.Context, adID, boostID uuid.UUID) (*domain.AdBoost, error) {
	return s.purchase(ctx, adID, boostID)
}

func (s *stubBoosts) Activate(ctx context.Context, id uuid.UUID, now time.Time) (*domain.AdBoost, error) {
	return s.activate(ctx, id, now)
}

func (s *stubBoosts) Cancel(ctx context.Context, id uuid.UUID) (*domain.AdBoost, error) {
	return s.cancel(ctx, id)
}

type stubSubscriptions struct {
	service.SubscriptionService

	plans    func(ctx context.Context) ([]domain.Subscription, error)
	history  func(ctx context.Context, agencyID uuid.UUID) ([]domain.AgencySubscription, error)
	purchase func(ctx context.Context, agencyID, subID uuid.UUID) (*service.PurchaseResult, error)
}

func (s *stubSubscriptions) ListPlans(ctx context.Context) ([]domain.Subscription, error) {
	return s.plans(ctx)
}

func (s *stubSubscriptions) History(ctx context.Context, agencyID uuid.UUID) ([]domain.AgencySubscription, error) {
	return s.history(ctx, agencyID)
}

func (s *stubSubscriptions) Purchase(ctx context.Context, agencyID, subID uuid.UUID) (*service.PurchaseResult, error) {
	return s.purchase(ctx, agencyID, subID)
}
