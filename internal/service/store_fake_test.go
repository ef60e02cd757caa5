package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/DukeRupert/adboard/internal/worker"
	"github.com/google/uuid"
)

// fakeStore is an in-memory Store. Transactions do not roll back; the
// agency lock is a real mutex so concurrent quota checks serialize.
type fakeStore struct {
	*fakeState
	locked bool
}

type fakeJob struct {
	JobType string
	Payload any
	RunAt   time.Time
}

type fakeState struct {
	mu        sync.Mutex
	agencyMu  sync.Mutex
	agencies  map[uuid.UUID]domain.Agency
	members   map[[2]uuid.UUID]bool
	ads       []domain.Ad
	spaces    []domain.AgencySpace
	plans     []domain.Subscription
	userSubs  []domain.UserSubscription
	boosts    []domain.Boost
	adBoosts  []domain.AdBoost
	jobs      []fakeJob
	failWith  error
	viewCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{fakeState: &fakeState{
		agencies: make(map[uuid.UUID]domain.Agency),
		members:  make(map[[2]uuid.UUID]bool),
	}}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// Fixtures
// =============================================================================

func (f *fakeStore) addAgency(name string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.agencies[id] = domain.Agency{ID: id, Name: name, Email: strings.ToLower(name) + "@example.com"}
	return id
}

func (f *fakeStore) addMember(agencyID, userID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[[2]uuid.UUID{agencyID, userID}] = true
}

func (f *fakeStore) addPlan(label string, amount int64, maxAds, maxSpaces int) domain.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := domain.Subscription{
		ID:           uuid.New(),
		Label:        label,
		Amount:       amount,
		MaxAds:       maxAds,
		MaxSpaces:    maxSpaces,
		DurationDays: 30,
		IsActive:     true,
	}
	f.plans = append(f.plans, p)
	return p
}

func (f *fakeStore) subscribe(agencyID uuid.UUID, plan domain.Subscription, start, end time.Time) domain.UserSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	us := domain.UserSubscription{
		ID:             uuid.New(),
		UserID:         agencyID,
		SubscriptionID: plan.ID,
		Status:         true,
		StartDate:      start,
		EndDate:        end,
		CreatedAt:      start,
	}
	f.userSubs = append(f.userSubs, us)
	return us
}

func (f *fakeStore) addAd(owner uuid.UUID, status domain.AdStatus, createdAt time.Time, mutate ...func(*domain.Ad)) domain.Ad {
	f.mu.Lock()
	defer f.mu.Unlock()
	ad := domain.Ad{
		ID:        uuid.New(),
		UserID:    owner,
		Title:     "Ad",
		Category:  "cars",
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	for _, m := range mutate {
		m(&ad)
	}
	f.ads = append(f.ads, ad)
	return ad
}

func (f *fakeStore) addSpace(agencyID uuid.UUID, status domain.SpaceStatus, createdAt time.Time) domain.AgencySpace {
	f.mu.Lock()
	defer f.mu.Unlock()
	sp := domain.AgencySpace{
		ID:        uuid.New(),
		AgencyID:  agencyID,
		Name:      "Space",
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	f.spaces = append(f.spaces, sp)
	return sp
}

func (f *fakeStore) addBoost(label string, days, priority int) domain.Boost {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := domain.Boost{ID: uuid.New(), Label: label, PriceCents: 999, DurationDays: days, PriorityLevel: priority}
	f.boosts = append(f.boosts, b)
	return b
}

func (f *fakeStore) addActiveBoost(adID uuid.UUID, boost domain.Boost, end time.Time) domain.AdBoost {
	f.mu.Lock()
	defer f.mu.Unlock()
	start := end.Add(-boost.Duration())
	ab := domain.AdBoost{
		ID:            uuid.New(),
		AdID:          adID,
		BoostID:       boost.ID,
		PriorityLevel: boost.PriorityLevel,
		State:         domain.BoostStateActive,
		StartDate:     &start,
		EndDate:       &end,
	}
	f.adBoosts = append(f.adBoosts, ab)
	return ab
}

func (f *fakeStore) adStatus(id uuid.UUID) domain.AdStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.ads {
		if a.ID == id {
			return a.Status
		}
	}
	return ""
}

func (f *fakeStore) spaceStatus(id uuid.UUID) domain.SpaceStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.spaces {
		if s.ID == id {
			return s.Status
		}
	}
	return ""
}

func (f *fakeStore) countAds(owner uuid.UUID, status domain.AdStatus) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.ads {
		if a.UserID == owner && a.Status == status {
			n++
		}
	}
	return n
}

// =============================================================================
// Transactions
// =============================================================================

func (f *fakeStore) InTx(ctx context.Context, fn func(Store) error) error {
	return fn(f)
}

func (f *fakeStore) WithAgencyLock(ctx context.Context, agencyID uuid.UUID, fn func(Store) error) error {
	if !f.locked {
		f.agencyMu.Lock()
		defer f.agencyMu.Unlock()
	}
	f.mu.Lock()
	_, ok := f.agencies[agencyID]
	f.mu.Unlock()
	if !ok {
		return sql.ErrNoRows
	}
	return fn(&fakeStore{fakeState: f.fakeState, locked: true})
}

// =============================================================================
// Agencies
// =============================================================================

func (f *fakeStore) GetAgency(ctx context.Context, id uuid.UUID) (domain.Agency, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.agencies[id]
	if !ok {
		return domain.Agency{}, sql.ErrNoRows
	}
	return a, nil
}

func (f *fakeStore) IsAgencyMember(ctx context.Context, agencyID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return agencyID == userID || f.members[[2]uuid.UUID{agencyID, userID}], nil
}

// =============================================================================
// Ads
// =============================================================================

func (f *fakeStore) GetAd(ctx context.Context, id uuid.UUID) (domain.Ad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.ads {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Ad{}, sql.ErrNoRows
}

func (f *fakeStore) InsertAd(ctx context.Context, params domain.CreateAdParams, status domain.AdStatus) (domain.Ad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.Ad{}, f.failWith
	}
	ad := domain.Ad{
		ID:          uuid.New(),
		UserID:      params.Agency.AgencyID,
		SpaceID:     params.Agency.SpaceID,
		Title:       params.Title,
		Description: params.Description,
		PriceCents:  params.PriceCents,
		Category:    params.Category,
		Location:    params.Location,
		Status:      status,
		Metadata:    params.Metadata,
		CreatedAt:   time.Now(),
	}
	f.ads = append(f.ads, ad)
	return ad, nil
}

func (f *fakeStore) IncrementAdViews(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.viewCalls++
	for i := range f.ads {
		if f.ads[i].ID == id {
			f.ads[i].ViewsCount++
		}
	}
	return nil
}

func (f *fakeStore) CountActiveAds(ctx context.Context, agencyID uuid.UUID) (int, error) {
	return f.countAds(agencyID, domain.AdStatusValid), nil
}

func (f *fakeStore) ListNewestActiveAdIDs(ctx context.Context, agencyID uuid.UUID, limit int) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []domain.Ad
	for _, a := range f.ads {
		if a.UserID == agencyID && a.Status == domain.AdStatusValid {
			active = append(active, a)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if !active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].CreatedAt.After(active[j].CreatedAt)
		}
		return active[i].ID.String() > active[j].ID.String()
	})
	ids := make([]uuid.UUID, 0, limit)
	for i := 0; i < len(active) && i < limit; i++ {
		ids = append(ids, active[i].ID)
	}
	return ids, nil
}

func (f *fakeStore) DeactivateAds(ctx context.Context, ids []uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for i := range f.ads {
		for _, id := range ids {
			if f.ads[i].ID == id && f.ads[i].Status == domain.AdStatusValid {
				f.ads[i].Status = domain.QuotaDeactivatedAdStatus
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeStore) ListRankingCandidates(ctx context.Context, filters domain.AdFilters, now time.Time) ([]domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	var out []domain.Candidate
	for _, a := range f.ads {
		if !a.IsPublished() || !matches(a, filters) {
			continue
		}

		var boosts []domain.AdBoost
		for _, ab := range f.adBoosts {
			if ab.AdID == a.ID {
				boosts = append(boosts, ab)
			}
		}

		var amount int64
		if sub := domain.PickActiveSubscription(f.activeSubsLocked(a.UserID, now)); sub != nil {
			amount = sub.Plan.Amount
		}

		out = append(out, domain.NewCandidate(a, domain.MaxEffectivePriority(boosts, now), amount))
	}
	return out, nil
}

func matches(a domain.Ad, f domain.AdFilters) bool {
	switch {
	case f.Category != "" && a.Category != f.Category:
		return false
	case f.Location != "" && a.Location != f.Location:
		return false
	case f.MinPriceCents != nil && a.PriceCents < *f.MinPriceCents:
		return false
	case f.MaxPriceCents != nil && a.PriceCents > *f.MaxPriceCents:
		return false
	case f.OwnerID != nil && a.UserID != *f.OwnerID:
		return false
	case f.SpaceID != nil && (a.SpaceID == nil || *a.SpaceID != *f.SpaceID):
		return false
	case f.ExcludeID != nil && a.ID == *f.ExcludeID:
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		return strings.Contains(strings.ToLower(a.Title), q) || strings.Contains(strings.ToLower(a.Description), q)
	}
	return true
}

// =============================================================================
// Spaces
// =============================================================================

func (f *fakeStore) GetSpace(ctx context.Context, id uuid.UUID) (domain.AgencySpace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.spaces {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.AgencySpace{}, sql.ErrNoRows
}

func (f *fakeStore) InsertSpace(ctx context.Context, params domain.CreateSpaceParams) (domain.AgencySpace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sp := domain.AgencySpace{
		ID:        uuid.New(),
		AgencyID:  params.AgencyID,
		Name:      params.Name,
		Address:   params.Address,
		Status:    domain.SpaceStatusActive,
		CreatedAt: time.Now(),
	}
	f.spaces = append(f.spaces, sp)
	return sp, nil
}

func (f *fakeStore) CountActiveSpaces(ctx context.Context, agencyID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.spaces {
		if s.AgencyID == agencyID && s.IsActive() {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ListNewestActiveSpaceIDs(ctx context.Context, agencyID uuid.UUID, limit int) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []domain.AgencySpace
	for _, s := range f.spaces {
		if s.AgencyID == agencyID && s.IsActive() {
			active = append(active, s)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	ids := make([]uuid.UUID, 0, limit)
	for i := 0; i < len(active) && i < limit; i++ {
		ids = append(ids, active[i].ID)
	}
	return ids, nil
}

func (f *fakeStore) DeactivateSpaces(ctx context.Context, ids []uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for i := range f.spaces {
		for _, id := range ids {
			if f.spaces[i].ID == id && f.spaces[i].IsActive() {
				f.spaces[i].Status = domain.SpaceStatusInactive
				n++
			}
		}
	}
	return n, nil
}

// =============================================================================
// Subscriptions
// =============================================================================

func (f *fakeStore) ListPlans(ctx context.Context) ([]domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Subscription
	for _, p := range f.plans {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetPlan(ctx context.Context, id uuid.UUID) (domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.planLocked(id)
}

func (f *fakeStore) planLocked(id uuid.UUID) (domain.Subscription, error) {
	for _, p := range f.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Subscription{}, sql.ErrNoRows
}

func (f *fakeStore) activeSubsLocked(agencyID uuid.UUID, now time.Time) []domain.AgencySubscription {
	var out []domain.AgencySubscription
	for _, us := range f.userSubs {
		if us.UserID != agencyID || !us.IsActiveAt(now) {
			continue
		}
		plan, _ := f.planLocked(us.SubscriptionID)
		out = append(out, domain.AgencySubscription{UserSubscription: us, Plan: plan})
	}
	return out
}

func (f *fakeStore) ListActiveSubscriptions(ctx context.Context, agencyID uuid.UUID, now time.Time) ([]domain.AgencySubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.activeSubsLocked(agencyID, now), nil
}

func (f *fakeStore) ListSubscriptionHistory(ctx context.Context, agencyID uuid.UUID) ([]domain.AgencySubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AgencySubscription
	for i := len(f.userSubs) - 1; i >= 0; i-- {
		us := f.userSubs[i]
		if us.UserID != agencyID {
			continue
		}
		plan, _ := f.planLocked(us.SubscriptionID)
		out = append(out, domain.AgencySubscription{UserSubscription: us, Plan: plan})
	}
	return out, nil
}

func (f *fakeStore) InsertUserSubscription(ctx context.Context, us domain.UserSubscription) (domain.UserSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	us.ID = uuid.New()
	us.CreatedAt = time.Now()
	f.userSubs = append(f.userSubs, us)
	return us, nil
}

func (f *fakeStore) DeactivateUserSubscriptions(ctx context.Context, agencyID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for i := range f.userSubs {
		if f.userSubs[i].UserID == agencyID && f.userSubs[i].Status {
			f.userSubs[i].Status = false
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ExpireUserSubscription(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.userSubs {
		us := &f.userSubs[i]
		if us.ID == id && us.Status && !us.EndDate.After(now) {
			us.Status = false
			return true, nil
		}
	}
	return false, nil
}

// =============================================================================
// Boosts
// =============================================================================

func (f *fakeStore) ListBoosts(ctx context.Context) ([]domain.Boost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Boost(nil), f.boosts...), nil
}

func (f *fakeStore) GetBoost(ctx context.Context, id uuid.UUID) (domain.Boost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.boosts {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Boost{}, sql.ErrNoRows
}

func (f *fakeStore) InsertAdBoost(ctx context.Context, adID, boostID uuid.UUID) (domain.AdBoost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ab := domain.AdBoost{
		ID:        uuid.New(),
		AdID:      adID,
		BoostID:   boostID,
		State:     domain.BoostStatePending,
		CreatedAt: time.Now(),
	}
	f.adBoosts = append(f.adBoosts, ab)
	return ab, nil
}

func (f *fakeStore) ListAdBoosts(ctx context.Context, adID uuid.UUID) ([]domain.AdBoost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AdBoost
	for _, ab := range f.adBoosts {
		if ab.AdID == adID {
			out = append(out, ab)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAdBoostForUpdate(ctx context.Context, id uuid.UUID) (domain.AdBoost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ab := range f.adBoosts {
		if ab.ID == id {
			for _, b := range f.boosts {
				if b.ID == ab.BoostID {
					ab.PriorityLevel = b.PriorityLevel
				}
			}
			return ab, nil
		}
	}
	return domain.AdBoost{}, sql.ErrNoRows
}

func (f *fakeStore) UpdateAdBoost(ctx context.Context, b domain.AdBoost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.adBoosts {
		if f.adBoosts[i].ID == b.ID {
			f.adBoosts[i] = b
			return nil
		}
	}
	return sql.ErrNoRows
}

// =============================================================================
// Jobs
// =============================================================================

func (f *fakeStore) EnqueueExpireBoost(ctx context.Context, adBoostID, adID uuid.UUID, endDate time.Time) error {
	return f.enqueue(worker.JobTypeExpireBoost, worker.ExpireBoostPayload{AdBoostID: adBoostID, AdID: adID}, endDate)
}

func (f *fakeStore) EnqueueExpireSubscription(ctx context.Context, userSubscriptionID, agencyID uuid.UUID, endDate time.Time) error {
	return f.enqueue(worker.JobTypeExpireSubscription, worker.ExpireSubscriptionPayload{
		UserSubscriptionID: userSubscriptionID,
		AgencyID:           agencyID,
	}, endDate)
}

func (f *fakeStore) enqueue(jobType string, payload any, runAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, fakeJob{JobType: jobType, Payload: payload, RunAt: runAt})
	return nil
}
