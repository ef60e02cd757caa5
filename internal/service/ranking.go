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

// Listing surfaces, used as metric labels.
const (
	SurfaceSearch  = "search"
	SurfaceAgency  = "agency"
	SurfaceSimilar = "similar"
)

// RankingConfig bounds listing page sizes.
type RankingConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultRankingConfig returns the page sizes used when none are configured.
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{DefaultPageSize: 20, MaxPageSize: 100}
}

// RankingService produces ranked ad listings.
type RankingService interface {
	// Search ranks every published ad matching filters and returns the
	// requested page.
	Search(ctx context.Context, filters domain.AdFilters) (*domain.RankedPage, error)

	// AgencyAds ranks one agency's published ads.
	AgencyAds(ctx context.Context, agencyID uuid.UUID, filters domain.AdFilters) (*domain.RankedPage, error)

	// Similar ranks published ads in the same category as adID, excluding
	// adID itself, and returns at most limit of them.
	Similar(ctx context.Context, adID uuid.UUID, limit int) ([]domain.RankedAd, error)

	// View returns a published ad and records one view.
	View(ctx context.Context, adID uuid.UUID) (*domain.Ad, error)
}

type rankingService struct {
	store  Store
	config RankingConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewRankingService creates a new RankingService.
func NewRankingService(store Store, config RankingConfig, logger *slog.Logger) RankingService {
	if config.DefaultPageSize < 1 {
		config.DefaultPageSize = DefaultRankingConfig().DefaultPageSize
	}
	if config.MaxPageSize < config.DefaultPageSize {
		config.MaxPageSize = config.DefaultPageSize
	}
	return &rankingService{
		store:  store,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// Search ranks the marketplace listing.
func (s *rankingService) Search(ctx context.Context, filters domain.AdFilters) (*domain.RankedPage, error) {
	const op = "RankingService.Search"

	if err := validateFilters(op, filters); err != nil {
		return nil, err
	}

	ranked, err := s.rank(ctx, op, SurfaceSearch, filters)
	if err != nil {
		return nil, err
	}

	page := domain.PaginateRanked(ranked, filters.Page, s.pageSize(filters.PageSize))
	return &page, nil
}

// AgencyAds ranks an agency storefront.
func (s *rankingService) AgencyAds(ctx context.Context, agencyID uuid.UUID, filters domain.AdFilters) (*domain.RankedPage, error) {
	const op = "RankingService.AgencyAds"

	if err := validateFilters(op, filters); err != nil {
		return nil, err
	}

	if _, err := s.store.GetAgency(ctx, agencyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "agency", agencyID.String())
		}
		s.logger.Error("failed to get agency", "error", err, "op", op, "agency_id", agencyID)
		return nil, domain.Internal(err, op, "Failed to retrieve agency")
	}

	filters.OwnerID = &agencyID
	ranked, err := s.rank(ctx, op, SurfaceAgency, filters)
	if err != nil {
		return nil, err
	}

	page := domain.PaginateRanked(ranked, filters.Page, s.pageSize(filters.PageSize))
	return &page, nil
}

// Similar ranks ads from the same category.
func (s *rankingService) Similar(ctx context.Context, adID uuid.UUID, limit int) ([]domain.RankedAd, error) {
	const op = "RankingService.Similar"

	ad, err := s.store.GetAd(ctx, adID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "ad", adID.String())
		}
		s.logger.Error("failed to get ad", "error", err, "op", op, "ad_id", adID)
		return nil, domain.Internal(err, op, "Failed to retrieve ad")
	}

	ranked, err := s.rank(ctx, op, SurfaceSimilar, domain.AdFilters{
		Category:  ad.Category,
		ExcludeID: &ad.ID,
	})
	if err != nil {
		return nil, err
	}

	limit = s.pageSize(limit)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// View returns a published ad and counts the view.
func (s *rankingService) View(ctx context.Context, adID uuid.UUID) (*domain.Ad, error) {
	const op = "RankingService.View"

	ad, err := s.store.GetAd(ctx, adID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "ad", adID.String())
		}
		s.logger.Error("failed to get ad", "error", err, "op", op, "ad_id", adID)
		return nil, domain.Internal(err, op, "Failed to retrieve ad")
	}
	if !ad.IsPublished() {
		return nil, domain.NotFound(op, "ad", adID.String())
	}

	if err := s.store.IncrementAdViews(ctx, adID); err != nil {
		// The view counter is best effort.
		s.logger.Warn("failed to count ad view", "error", err, "op", op, "ad_id", adID)
	} else {
		ad.ViewsCount++
	}
	return &ad, nil
}

// rank loads all eligible candidates and orders them. Pagination happens
// afterwards so page boundaries follow the ranked order.
func (s *rankingService) rank(ctx context.Context, op, surface string, filters domain.AdFilters) ([]domain.RankedAd, error) {
	started := time.Now()

	candidates, err := s.store.ListRankingCandidates(ctx, filters, s.now())
	if err != nil {
		s.logger.Error("failed to load ranking candidates", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to load ads")
	}

	ranked := domain.RankAds(candidates)
	metrics.RankingObserved(surface, len(candidates), time.Since(started))
	return ranked, nil
}

func (s *rankingService) pageSize(requested int) int {
	if requested < 1 {
		return s.config.DefaultPageSize
	}
	return min(requested, s.config.MaxPageSize)
}

func validateFilters(op string, f domain.AdFilters) error {
	if f.MinPriceCents != nil && *f.MinPriceCents < 0 {
		return domain.Invalid(op, "Minimum price cannot be negative")
	}
	if f.MinPriceCents != nil && f.MaxPriceCents != nil && *f.MinPriceCents > *f.MaxPriceCents {
		return domain.Invalid(op, "Minimum price cannot exceed maximum price")
	}
	return nil
}
