// Package domain contains core business types and interfaces.
//
// This file implements the tiered ad ranking used by every listing surface:
// boosted ads first, then ads from subscribed agencies, then everything else.
package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Tiers
// =============================================================================

// Tier is a ranking class. Lower values sort first.
type Tier int

const (
	TierBoosted    Tier = 1
	TierSubscribed Tier = 2
	TierStandard   Tier = 3
)

// String returns the machine name of the tier.
func (t Tier) String() string {
	switch t {
	case TierBoosted:
		return "boosted"
	case TierSubscribed:
		return "subscribed"
	default:
		return "standard"
	}
}

// AdSnapshot is the ranking input for one eligible ad. Callers build it from
// the ad row, its currently effective boosts and its owner's live
// subscription; missing boost or subscription data is represented by 0.
type AdSnapshot struct {
	AdID                     uuid.UUID
	ViewsCount               int64
	CreatedAt                time.Time
	MaxActiveBoostPriority   int
	AgencySubscriptionAmount int64
}

// Tier returns the ranking class of the snapshot.
func (s AdSnapshot) Tier() Tier {
	if s.MaxActiveBoostPriority > 0 {
		return TierBoosted
	}
	if s.AgencySubscriptionAmount > 0 {
		return TierSubscribed
	}
	return TierStandard
}

// secondaryKey returns the in-tier sort key (higher sorts first).
func (s AdSnapshot) secondaryKey() int64 {
	switch s.Tier() {
	case TierBoosted:
		return int64(s.MaxActiveBoostPriority)
	case TierSubscribed:
		return s.AgencySubscriptionAmount
	default:
		return 0
	}
}

// rankLess orders by tier ascending, then secondary key, views and creation
// time descending.
func rankLess(a, b AdSnapshot) bool {
	if ta, tb := a.Tier(), b.Tier(); ta != tb {
		return ta < tb
	}
	if ka, kb := a.secondaryKey(), b.secondaryKey(); ka != kb {
		return ka > kb
	}
	if a.ViewsCount != b.ViewsCount {
		return a.ViewsCount > b.ViewsCount
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// Rank returns candidates in display order. The input slice is not
// modified. Candidates must already be eligible (published); Rank only
// orders. Fully tied candidates keep their input order, so identical input
// always yields identical output.
func Rank(candidates []AdSnapshot) []AdSnapshot {
	ranked := make([]AdSnapshot, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankLess(ranked[i], ranked[j])
	})
	return ranked
}

// =============================================================================
// Badges
// =============================================================================

// Badge is the label shown next to a ranked ad.
type Badge struct {
	Label string
	Color string
	Level int // Boost priority for boosted ads, 0 otherwise
}

const (
	BadgeColorCyan   = "cyan"
	BadgeColorBlue   = "blue"
	BadgeColorPurple = "purple"
	BadgeColorAmber  = "amber"
)

// SubscriptionBadge maps a plan amount to its agency badge.
//
// Thresholds are checked as <=50, <=100, >=200 with a default, so amounts
// from 101 to 199 get the default "Partner Agency" badge.
func SubscriptionBadge(amount int64) Badge {
	switch {
	case amount <= 50:
		return Badge{Label: "Certified Agency", Color: BadgeColorCyan}
	case amount <= 100:
		return Badge{Label: "Premium Agency", Color: BadgeColorBlue}
	case amount >= 200:
		return Badge{Label: "Elite Agency", Color: BadgeColorPurple}
	default:
		return Badge{Label: "Partner Agency", Color: BadgeColorCyan}
	}
}

// BadgeFor returns the badge for a snapshot, or nil for standard ads.
func BadgeFor(s AdSnapshot) *Badge {
	switch s.Tier() {
	case TierBoosted:
		return &Badge{Label: "Boosted", Color: BadgeColorAmber, Level: s.MaxActiveBoostPriority}
	case TierSubscribed:
		b := SubscriptionBadge(s.AgencySubscriptionAmount)
		return &b
	}
	return nil
}

// =============================================================================
// Ranked Results
// =============================================================================

// RankedAd is an ad decorated with its ranking outcome.
type RankedAd struct {
	Ad       Ad
	Snapshot AdSnapshot
	Tier     Tier
	Badge    *Badge
	Position int // 1-based position in the full ranked list
}

// Candidate pairs an eligible ad with its ranking snapshot.
type Candidate struct {
	Ad       Ad
	Snapshot AdSnapshot
}

// NewCandidate builds a candidate from an ad and the boost and subscription
// figures loaded alongside it.
func NewCandidate(ad Ad, maxBoostPriority int, subscriptionAmount int64) Candidate {
	return Candidate{
		Ad: ad,
		Snapshot: AdSnapshot{
			AdID:                     ad.ID,
			ViewsCount:               ad.ViewsCount,
			CreatedAt:                ad.CreatedAt,
			MaxActiveBoostPriority:   maxBoostPriority,
			AgencySubscriptionAmount: subscriptionAmount,
		},
	}
}

// RankAds ranks candidates and decorates each with its tier, badge and
// position.
func RankAds(candidates []Candidate) []RankedAd {
	byID := make(map[uuid.UUID]Ad, len(candidates))
	snaps := make([]AdSnapshot, len(candidates))
	for i, c := range candidates {
		byID[c.Ad.ID] = c.Ad
		snaps[i] = c.Snapshot
	}

	ranked := Rank(snaps)
	out := make([]RankedAd, len(ranked))
	for i, snap := range ranked {
		out[i] = RankedAd{
			Ad:       byID[snap.AdID],
			Snapshot: snap,
			Tier:     snap.Tier(),
			Badge:    BadgeFor(snap),
			Position: i + 1,
		}
	}
	return out
}

// RankedPage is one page of a ranked listing.
type RankedPage struct {
	Items []RankedAd
	PageData
}

// PaginateRanked slices a ranked list into the requested page. Ranking is
// always applied to the full candidate set before paginating.
func PaginateRanked(ranked []RankedAd, page, perPage int) RankedPage {
	data := NewPageData(page, perPage, len(ranked))
	start := (data.CurrentPage - 1) * data.PerPage
	if start > len(ranked) {
		start = len(ranked)
	}
	end := start + data.PerPage
	if end > len(ranked) {
		end = len(ranked)
	}
	return RankedPage{Items: ranked[start:end], PageData: data}
}
