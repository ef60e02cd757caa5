package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/DukeRupert/adboard/internal/repository"
	"github.com/DukeRupert/adboard/internal/worker"
	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// pgStore implements Store on top of the sqlc queries.
type pgStore struct {
	db      *sql.DB
	tx      *sql.Tx
	queries *repository.Queries
}

// NewStore creates a Store backed by PostgreSQL.
func NewStore(db *sql.DB, queries *repository.Queries) Store {
	return &pgStore{db: db, queries: queries}
}

// InTx runs fn in a transaction, committing if fn returns nil.
func (s *pgStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&pgStore{db: s.db, tx: tx, queries: s.queries.WithTx(tx)}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// WithAgencyLock takes SELECT ... FOR UPDATE on the agency row before
// running fn.
func (s *pgStore) WithAgencyLock(ctx context.Context, agencyID uuid.UUID, fn func(Store) error) error {
	return s.InTx(ctx, func(txs Store) error {
		if _, err := txs.(*pgStore).queries.LockAgency(ctx, agencyID); err != nil {
			return err
		}
		return fn(txs)
	})
}

// =============================================================================
// Agencies
// =============================================================================

func (s *pgStore) GetAgency(ctx context.Context, id uuid.UUID) (domain.Agency, error) {
	row, err := s.queries.GetAgency(ctx, id)
	if err != nil {
		return domain.Agency{}, err
	}
	return domain.Agency{ID: row.ID, Name: row.Name, Email: row.Email, CreatedAt: row.CreatedAt}, nil
}

func (s *pgStore) IsAgencyMember(ctx context.Context, agencyID, userID uuid.UUID) (bool, error) {
	return s.queries.IsAgencyMember(ctx, repository.IsAgencyMemberParams{
		UserID:   userID,
		AgencyID: agencyID,
	})
}

// =============================================================================
// Ads
// =============================================================================

func (s *pgStore) GetAd(ctx context.Context, id uuid.UUID) (domain.Ad, error) {
	row, err := s.queries.GetAd(ctx, id)
	if err != nil {
		return domain.Ad{}, err
	}
	return repoAdToDomain(row), nil
}

func (s *pgStore) InsertAd(ctx context.Context, params domain.CreateAdParams, status domain.AdStatus) (domain.Ad, error) {
	row, err := s.queries.CreateAd(ctx, repository.CreateAdParams{
		UserID:      params.Agency.AgencyID,
		CreatedBy:   params.CreatedBy,
		SpaceID:     toNullUUID(params.Agency.SpaceID),
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		PriceCents:  params.PriceCents,
		Category:    strings.TrimSpace(params.Category),
		Location:    strings.TrimSpace(params.Location),
		Status:      status.String(),
		Metadata:    toNullRawMessage(params.Metadata),
	})
	if err != nil {
		return domain.Ad{}, err
	}
	return repoAdToDomain(row), nil
}

func (s *pgStore) IncrementAdViews(ctx context.Context, id uuid.UUID) error {
	return s.queries.IncrementAdViews(ctx, id)
}

func (s *pgStore) CountActiveAds(ctx context.Context, agencyID uuid.UUID) (int, error) {
	n, err := s.queries.CountActiveAdsByUser(ctx, agencyID)
	return int(n), err
}

func (s *pgStore) ListNewestActiveAdIDs(ctx context.Context, agencyID uuid.UUID, limit int) ([]uuid.UUID, error) {
	return s.queries.ListNewestActiveAdIDsByUser(ctx, repository.ListNewestActiveAdIDsByUserParams{
		UserID: agencyID,
		Limit:  int32(limit),
	})
}

func (s *pgStore) DeactivateAds(ctx context.Context, ids []uuid.UUID) (int, error) {
	n, err := s.queries.SetAdsStatus(ctx, repository.SetAdsStatusParams{
		NewStatus:  domain.QuotaDeactivatedAdStatus.String(),
		Ids:        ids,
		FromStatus: domain.AdStatusValid.String(),
	})
	return int(n), err
}

func (s *pgStore) ListRankingCandidates(ctx context.Context, filters domain.AdFilters, now time.Time) ([]domain.Candidate, error) {
	rows, err := s.queries.ListRankingCandidates(ctx, repository.ListRankingCandidatesParams{
		Now:       now,
		Category:  toNullString(filters.Category),
		Location:  toNullString(filters.Location),
		Query:     toNullString(filters.Query),
		MinPrice:  toNullInt64(filters.MinPriceCents),
		MaxPrice:  toNullInt64(filters.MaxPriceCents),
		OwnerID:   toNullUUID(filters.OwnerID),
		SpaceID:   toNullUUID(filters.SpaceID),
		ExcludeID: toNullUUID(filters.ExcludeID),
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Candidate, len(rows))
	for i, r := range rows {
		ad := domain.Ad{
			ID:          r.ID,
			UserID:      r.UserID,
			SpaceID:     fromNullUUID(r.SpaceID),
			Title:       r.Title,
			Description: r.Description,
			PriceCents:  r.PriceCents,
			Category:    r.Category,
			Location:    r.Location,
			Status:      domain.AdStatus(r.Status),
			ViewsCount:  r.ViewsCount,
			Metadata:    fromNullRawMessage(r.Metadata),
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		}
		candidates[i] = domain.NewCandidate(ad, int(r.MaxBoostPriority), r.SubscriptionAmount)
	}
	return candidates, nil
}

// =============================================================================
// Spaces
// =============================================================================

func (s *pgStore) GetSpace(ctx context.Context, id uuid.UUID) (domain.AgencySpace, error) {
	row, err := s.queries.GetSpace(ctx, id)
	if err != nil {
		return domain.AgencySpace{}, err
	}
	return repoSpaceToDomain(row), nil
}

func (s *pgStore) InsertSpace(ctx context.Context, params domain.CreateSpaceParams) (domain.AgencySpace, error) {
	row, err := s.queries.CreateSpace(ctx, repository.CreateSpaceParams{
		AgencyID: params.AgencyID,
		Name:     strings.TrimSpace(params.Name),
		Address:  strings.TrimSpace(params.Address),
	})
	if err != nil {
		return domain.AgencySpace{}, err
	}
	return repoSpaceToDomain(row), nil
}

func (s *pgStore) CountActiveSpaces(ctx context.Context, agencyID uuid.UUID) (int, error) {
	n, err := s.queries.CountActiveSpacesByAgency(ctx, agencyID)
	return int(n), err
}

func (s *pgStore) ListNewestActiveSpaceIDs(ctx context.Context, agencyID uuid.UUID, limit int) ([]uuid.UUID, error) {
	return s.queries.ListNewestActiveSpaceIDsByAgency(ctx, repository.ListNewestActiveSpaceIDsByAgencyParams{
		AgencyID: agencyID,
		Limit:    int32(limit),
	})
}

func (s *pgStore) DeactivateSpaces(ctx context.Context, ids []uuid.UUID) (int, error) {
	n, err := s.queries.DeactivateSpaces(ctx, ids)
	return int(n), err
}

// =============================================================================
// Subscriptions
// =============================================================================

func (s *pgStore) ListPlans(ctx context.Context) ([]domain.Subscription, error) {
	rows, err := s.queries.ListSubscriptionPlans(ctx)
	if err != nil {
		return nil, err
	}
	plans := make([]domain.Subscription, len(rows))
	for i, r := range rows {
		plans[i] = repoPlanToDomain(r)
	}
	return plans, nil
}

func (s *pgStore) GetPlan(ctx context.Context, id uuid.UUID) (domain.Subscription, error) {
	row, err := s.queries.GetSubscriptionPlan(ctx, id)
	if err != nil {
		return domain.Subscription{}, err
	}
	return repoPlanToDomain(row), nil
}

func (s *pgStore) ListActiveSubscriptions(ctx context.Context, agencyID uuid.UUID, now time.Time) ([]domain.AgencySubscription, error) {
	rows, err := s.queries.ListActiveUserSubscriptions(ctx, repository.ListActiveUserSubscriptionsParams{
		UserID: agencyID,
		Now:    now,
	})
	if err != nil {
		return nil, err
	}
	subs := make([]domain.AgencySubscription, len(rows))
	for i, r := range rows {
		subs[i] = repoAgencySubscriptionToDomain(repository.ListUserSubscriptionHistoryRow(r))
	}
	return subs, nil
}

func (s *pgStore) ListSubscriptionHistory(ctx context.Context, agencyID uuid.UUID) ([]domain.AgencySubscription, error) {
	rows, err := s.queries.ListUserSubscriptionHistory(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	subs := make([]domain.AgencySubscription, len(rows))
	for i, r := range rows {
		subs[i] = repoAgencySubscriptionToDomain(r)
	}
	return subs, nil
}

func (s *pgStore) InsertUserSubscription(ctx context.Context, us domain.UserSubscription) (domain.UserSubscription, error) {
	row, err := s.queries.CreateUserSubscription(ctx, repository.CreateUserSubscriptionParams{
		UserID:         us.UserID,
		SubscriptionID: us.SubscriptionID,
		Status:         us.Status,
		StartDate:      us.StartDate,
		EndDate:        us.EndDate,
	})
	if err != nil {
		return domain.UserSubscription{}, err
	}
	return domain.UserSubscription(row), nil
}

func (s *pgStore) DeactivateUserSubscriptions(ctx context.Context, agencyID uuid.UUID) (int, error) {
	n, err := s.queries.DeactivateUserSubscriptions(ctx, agencyID)
	return int(n), err
}

func (s *pgStore) ExpireUserSubscription(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	n, err := s.queries.ExpireUserSubscription(ctx, repository.ExpireUserSubscriptionParams{ID: id, Now: now})
	return n > 0, err
}

// =============================================================================
// Boosts
// =============================================================================

func (s *pgStore) ListBoosts(ctx context.Context) ([]domain.Boost, error) {
	rows, err := s.queries.ListBoosts(ctx)
	if err != nil {
		return nil, err
	}
	boosts := make([]domain.Boost, len(rows))
	for i, r := range rows {
		boosts[i] = repoBoostToDomain(r)
	}
	return boosts, nil
}

func (s *pgStore) GetBoost(ctx context.Context, id uuid.UUID) (domain.Boost, error) {
	row, err := s.queries.GetBoost(ctx, id)
	if err != nil {
		return domain.Boost{}, err
	}
	return repoBoostToDomain(row), nil
}

func (s *pgStore) InsertAdBoost(ctx context.Context, adID, boostID uuid.UUID) (domain.AdBoost, error) {
	row, err := s.queries.CreateAdBoost(ctx, repository.CreateAdBoostParams{AdID: adID, BoostID: boostID})
	if err != nil {
		return domain.AdBoost{}, err
	}
	return domain.AdBoost{
		ID:        row.ID,
		AdID:      row.AdID,
		BoostID:   row.BoostID,
		State:     domain.BoostState(row.State),
		StartDate: fromNullTime(row.StartDate),
		EndDate:   fromNullTime(row.EndDate),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (s *pgStore) ListAdBoosts(ctx context.Context, adID uuid.UUID) ([]domain.AdBoost, error) {
	rows, err := s.queries.ListAdBoostsByAd(ctx, adID)
	if err != nil {
		return nil, err
	}
	boosts := make([]domain.AdBoost, len(rows))
	for i, r := range rows {
		boosts[i] = repoAdBoostToDomain(repository.GetAdBoostForUpdateRow(r))
	}
	return boosts, nil
}

func (s *pgStore) GetAdBoostForUpdate(ctx context.Context, id uuid.UUID) (domain.AdBoost, error) {
	row, err := s.queries.GetAdBoostForUpdate(ctx, id)
	if err != nil {
		return domain.AdBoost{}, err
	}
	return repoAdBoostToDomain(row), nil
}

func (s *pgStore) UpdateAdBoost(ctx context.Context, b domain.AdBoost) error {
	return s.queries.UpdateAdBoostState(ctx, repository.UpdateAdBoostStateParams{
		ID:        b.ID,
		State:     b.State.String(),
		StartDate: toNullTime(b.StartDate),
		EndDate:   toNullTime(b.EndDate),
	})
}

// =============================================================================
// Jobs
// =============================================================================

func (s *pgStore) EnqueueExpireBoost(ctx context.Context, adBoostID, adID uuid.UUID, endDate time.Time) error {
	_, err := worker.EnqueueExpireBoost(ctx, s.queries, adBoostID, adID, endDate)
	return err
}

func (s *pgStore) EnqueueExpireSubscription(ctx context.Context, userSubscriptionID, agencyID uuid.UUID, endDate time.Time) error {
	_, err := worker.EnqueueExpireSubscription(ctx, s.queries, userSubscriptionID, agencyID, endDate)
	return err
}

// =============================================================================
// Mappers
// =============================================================================

func repoAdToDomain(r repository.Ad) domain.Ad {
	return domain.Ad{
		ID:          r.ID,
		UserID:      r.UserID,
		SpaceID:     fromNullUUID(r.SpaceID),
		Title:       r.Title,
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Category:    r.Category,
		Location:    r.Location,
		Status:      domain.AdStatus(r.Status),
		ViewsCount:  r.ViewsCount,
		Metadata:    fromNullRawMessage(r.Metadata),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func repoSpaceToDomain(r repository.AgencySpace) domain.AgencySpace {
	return domain.AgencySpace{
		ID:        r.ID,
		AgencyID:  r.AgencyID,
		Name:      r.Name,
		Address:   r.Address,
		Status:    domain.SpaceStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func repoPlanToDomain(r repository.Subscription) domain.Subscription {
	return domain.Subscription{
		ID:           r.ID,
		Label:        r.Label,
		Amount:       r.Amount,
		MaxAds:       int(r.MaxAds),
		MaxSpaces:    int(r.MaxSpaces),
		DurationDays: int(r.DurationDays),
		IsActive:     r.IsActive,
	}
}

func repoAgencySubscriptionToDomain(r repository.ListUserSubscriptionHistoryRow) domain.AgencySubscription {
	return domain.AgencySubscription{
		UserSubscription: domain.UserSubscription{
			ID:             r.ID,
			UserID:         r.UserID,
			SubscriptionID: r.SubscriptionID,
			Status:         r.Status,
			StartDate:      r.StartDate,
			EndDate:        r.EndDate,
			CreatedAt:      r.CreatedAt,
		},
		Plan: domain.Subscription{
			ID:           r.SubscriptionID,
			Label:        r.Label,
			Amount:       r.Amount,
			MaxAds:       int(r.MaxAds),
			MaxSpaces:    int(r.MaxSpaces),
			DurationDays: int(r.DurationDays),
			IsActive:     r.IsActive,
		},
	}
}

func repoBoostToDomain(r repository.Boost) domain.Boost {
	return domain.Boost{
		ID:            r.ID,
		Label:         r.Label,
		PriceCents:    r.PriceCents,
		DurationDays:  int(r.DurationDays),
		PriorityLevel: int(r.PriorityLevel),
	}
}

func repoAdBoostToDomain(r repository.GetAdBoostForUpdateRow) domain.AdBoost {
	return domain.AdBoost{
		ID:            r.ID,
		AdID:          r.AdID,
		BoostID:       r.BoostID,
		PriorityLevel: int(r.PriorityLevel),
		State:         domain.BoostState(r.State),
		StartDate:     fromNullTime(r.StartDate),
		EndDate:       fromNullTime(r.EndDate),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// toNullString converts a string to sql.NullString. Blank strings are NULL.
func toNullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{
		String: s,
		Valid:  s != "",
	}
}

// toNullInt64 converts an optional int64 to sql.NullInt64.
func toNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// toNullUUID converts a *uuid.UUID to uuid.NullUUID.
func toNullUUID(u *uuid.UUID) uuid.NullUUID {
	if u == nil {
		return uuid.NullUUID{Valid: false}
	}
	return uuid.NullUUID{UUID: *u, Valid: true}
}

// fromNullUUID converts uuid.NullUUID to *uuid.UUID.
func fromNullUUID(nu uuid.NullUUID) *uuid.UUID {
	if nu.Valid {
		return &nu.UUID
	}
	return nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(nt sql.NullTime) *time.Time {
	if nt.Valid {
		return &nt.Time
	}
	return nil
}

func toNullRawMessage(m json.RawMessage) pqtype.NullRawMessage {
	if len(m) == 0 {
		return pqtype.NullRawMessage{}
	}
	return pqtype.NullRawMessage{RawMessage: m, Valid: true}
}

func fromNullRawMessage(m pqtype.NullRawMessage) json.RawMessage {
	if m.Valid {
		return m.RawMessage
	}
	return nil
}
