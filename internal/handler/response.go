package handler

import (
	"encoding/json"
	"time"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/DukeRupert/adboard/internal/service"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// Response Types
// =============================================================================

// AdResponse is the public representation of an ad.
type AdResponse struct {
	ID          uuid.UUID       `json:"id"`
	AgencyID    uuid.UUID       `json:"agency_id"`
	SpaceID     *uuid.UUID      `json:"space_id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	PriceCents  int64           `json:"price_cents"`
	Category    string          `json:"category,omitempty"`
	Location    string          `json:"location,omitempty"`
	Status      string          `json:"status"`
	ViewsCount  int64           `json:"views_count"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BadgeResponse describes the label shown next to a ranked ad.
type BadgeResponse struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Level int    `json:"level,omitempty"`
}

// RankedAdResponse is one entry of a ranked listing.
type RankedAdResponse struct {
	AdResponse
	Position  int            `json:"position"`
	Tier      string         `json:"tier"`
	TierLabel string         `json:"tier_label"`
	Badge     *BadgeResponse `json:"badge,omitempty"`
}

// PaginationResponse mirrors domain.PageData.
type PaginationResponse struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int   `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_previous"`
	Pages      []int `json:"pages"` // Page links to show; -1 marks a gap
}

// RankedListResponse wraps a page of ranked ads.
type RankedListResponse struct {
	Items      []RankedAdResponse `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
}

type SpaceResponse struct {
	ID        uuid.UUID `json:"id"`
	AgencyID  uuid.UUID `json:"agency_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// PlanResponse describes a subscription plan.
type PlanResponse struct {
	ID           uuid.UUID `json:"id"`
	Label        string    `json:"label"`
	Amount       int64     `json:"amount"`
	MaxAds       int       `json:"max_ads"`
	MaxSpaces    int       `json:"max_spaces"`
	DurationDays int       `json:"duration_days"`
}

// AgencySubscriptionResponse is a subscription held by an agency.
type AgencySubscriptionResponse struct {
	ID        uuid.UUID    `json:"id"`
	Plan      PlanResponse `json:"plan"`
	Active    bool         `json:"active"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
}

// QuotaResponse reports usage against the active plan.
type QuotaResponse struct {
	AdsUsed         int                         `json:"ads_used"`
	AdsLimit        int                         `json:"ads_limit"`
	AdsRemaining    int                         `json:"ads_remaining"`
	SpacesUsed      int                         `json:"spaces_used"`
	SpacesLimit     int                         `json:"spaces_limit"`
	SpacesRemaining int                         `json:"spaces_remaining"`
	Subscription    *AgencySubscriptionResponse `json:"subscription"`
}

// PurchaseResponse is returned after a subscription purchase.
type PurchaseResponse struct {
	Subscription        AgencySubscriptionResponse `json:"subscription"`
	DeactivatedAdIDs    []uuid.UUID                `json:"deactivated_ad_ids"`
	DeactivatedSpaceIDs []uuid.UUID                `json:"deactivated_space_ids"`
}

type BoostResponse struct {
	ID            uuid.UUID `json:"id"`
	Label         string    `json:"label"`
	PriceCents    int64     `json:"price_cents"`
	DurationDays  int       `json:"duration_days"`
	PriorityLevel int       `json:"priority_level"`
}

// AdBoostResponse is a boost applied to an ad.
type AdBoostResponse struct {
	ID            uuid.UUID  `json:"id"`
	AdID          uuid.UUID  `json:"ad_id"`
	BoostID       uuid.UUID  `json:"boost_id"`
	PriorityLevel int        `json:"priority_level"`
	State         string     `json:"state"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// =============================================================================
// Conversions
// =============================================================================

// tierLabel turns a tier into its display label ("Boosted", "Subscribed").
func tierLabel(t domain.Tier) string {
	return cases.Title(language.English).String(t.String())
}

func toAdResponse(ad domain.Ad) AdResponse {
	return AdResponse{
		ID:          ad.ID,
		AgencyID:    ad.UserID,
		SpaceID:     ad.SpaceID,
		Title:       ad.Title,
		Description: ad.Description,
		PriceCents:  ad.PriceCents,
		Category:    ad.Category,
		Location:    ad.Location,
		Status:      ad.Status.String(),
		ViewsCount:  ad.ViewsCount,
		Metadata:    ad.Metadata,
		CreatedAt:   ad.CreatedAt,
	}
}

func toRankedAdResponses(items []domain.RankedAd) []RankedAdResponse {
	out := make([]RankedAdResponse, len(items))
	for i, item := range items {
		out[i] = RankedAdResponse{
			AdResponse: toAdResponse(item.Ad),
			Position:   item.Position,
			Tier:       item.Tier.String(),
			TierLabel:  tierLabel(item.Tier),
		}
		if item.Badge != nil {
			out[i].Badge = &BadgeResponse{
				Label: item.Badge.Label,
				Color: item.Badge.Color,
				Level: item.Badge.Level,
			}
		}
	}
	return out
}

func toRankedListResponse(page *domain.RankedPage) RankedListResponse {
	return RankedListResponse{
		Items: toRankedAdResponses(page.Items),
		Pagination: PaginationResponse{
			Page:       page.CurrentPage,
			PerPage:    page.PerPage,
			Total:      page.Total,
			TotalPages: page.TotalPages,
			HasNext:    page.HasNext,
			HasPrev:    page.HasPrevious,
			Pages:      domain.PageRange(page.CurrentPage, page.TotalPages),
		},
	}
}

func toSpaceResponse(s domain.AgencySpace) SpaceResponse {
	return SpaceResponse{
		ID:        s.ID,
		AgencyID:  s.AgencyID,
		Name:      s.Name,
		Address:   s.Address,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
	}
}

func toPlanResponse(p domain.Subscription) PlanResponse {
	return PlanResponse{
		ID:           p.ID,
		Label:        p.Label,
		Amount:       p.Amount,
		MaxAds:       p.MaxAds,
		MaxSpaces:    p.MaxSpaces,
		DurationDays: p.DurationDays,
	}
}

func toAgencySubscriptionResponse(s domain.AgencySubscription) AgencySubscriptionResponse {
	return AgencySubscriptionResponse{
		ID:        s.ID,
		Plan:      toPlanResponse(s.Plan),
		Active:    s.Status,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
	}
}

func toQuotaResponse(usage *domain.QuotaUsage, sub *domain.AgencySubscription) QuotaResponse {
	resp := QuotaResponse{
		AdsUsed:         usage.AdsUsed,
		AdsLimit:        usage.AdsLimit,
		AdsRemaining:    usage.AdsRemaining(),
		SpacesUsed:      usage.SpacesUsed,
		SpacesLimit:     usage.SpacesLimit,
		SpacesRemaining: usage.SpacesRemaining(),
	}
	if sub != nil {
		s := toAgencySubscriptionResponse(*sub)
		resp.Subscription = &s
	}
	return resp
}

func toPurchaseResponse(r *service.PurchaseResult) PurchaseResponse {
	resp := PurchaseResponse{
		Subscription:        toAgencySubscriptionResponse(r.Subscription),
		DeactivatedAdIDs:    r.Downgrade.DeactivatedAdIDs,
		DeactivatedSpaceIDs: r.Downgrade.DeactivatedSpaceIDs,
	}
	if resp.DeactivatedAdIDs == nil {
		resp.DeactivatedAdIDs = []uuid.UUID{}
	}
	if resp.DeactivatedSpaceIDs == nil {
		resp.DeactivatedSpaceIDs = []uuid.UUID{}
	}
	return resp
}

func toBoostResponse(b domain.Boost) BoostResponse {
	return BoostResponse{
		ID:            b.ID,
		Label:         b.Label,
		PriceCents:    b.PriceCents,
		DurationDays:  b.DurationDays,
		PriorityLevel: b.PriorityLevel,
	}
}

func toAdBoostResponse(b domain.AdBoost) AdBoostResponse {
	return AdBoostResponse{
		ID:            b.ID,
		AdID:          b.AdID,
		BoostID:       b.BoostID,
		PriorityLevel: b.PriorityLevel,
		State:         b.State.String(),
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		CreatedAt:     b.CreatedAt,
	}
}
