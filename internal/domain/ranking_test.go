package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rankBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func snap(views int64, age time.Duration, boost int, amount int64) AdSnapshot {
	return AdSnapshot{
		AdID:                     uuid.New(),
		ViewsCount:               views,
		CreatedAt:                rankBase.Add(-age),
		MaxActiveBoostPriority:   boost,
		AgencySubscriptionAmount: amount,
	}
}

func ids(snaps []AdSnapshot) []uuid.UUID {
	out := make([]uuid.UUID, len(snaps))
	for i, s := range snaps {
		out[i] = s.AdID
	}
	return out
}

func TestAdSnapshot_Tier(t *testing.T) {
	tests := []struct {
		name   string
		boost  int
		amount int64
		want   Tier
	}{
		{"boost only", 3, 0, TierBoosted},
		{"boost and subscription", 1, 150, TierBoosted},
		{"subscription only", 0, 150, TierSubscribed},
		{"neither", 0, 0, TierStandard},
		{"negative amount treated as none", 0, -5, TierStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snap(0, 0, tt.boost, tt.amount)
			assert.Equal(t, tt.want, s.Tier())
		})
	}
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.NotNil(t, Rank(nil))
	assert.Empty(t, Rank([]AdSnapshot{}))
}

func TestRank_BoostedThenSubscribedThenStandard(t *testing.T) {
	x := snap(0, 0, 3, 0)
	y := snap(0, 0, 0, 150)
	z := snap(0, 0, 0, 0)

	got := Rank([]AdSnapshot{z, y, x})

	assert.Equal(t, []uuid.UUID{x.AdID, y.AdID, z.AdID}, ids(got))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []AdSnapshot{snap(1, 0, 0, 0), snap(2, 0, 0, 0), snap(0, 0, 5, 0)}
	before := ids(in)

	_ = Rank(in)

	assert.Equal(t, before, ids(in))
}

func TestRank_TierOrderingInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		n := rng.Intn(30)
		in := make([]AdSnapshot, n)
		for i := range in {
			boost := 0
			if rng.Intn(3) == 0 {
				boost = rng.Intn(5) + 1
			}
			var amount int64
			if rng.Intn(2) == 0 {
				amount = int64(rng.Intn(300))
			}
			in[i] = snap(int64(rng.Intn(100)), time.Duration(rng.Intn(1000))*time.Hour, boost, amount)
		}

		got := Rank(in)
		require.Len(t, got, n)
		for i := 1; i < len(got); i++ {
			assert.LessOrEqual(t, got[i-1].Tier(), got[i].Tier(), "round %d position %d", round, i)
		}
	}
}

func TestRank_BoostPriorityBeatsViewsAndDate(t *testing.T) {
	low := snap(10_000, 0, 1, 0)            // popular and fresh
	high := snap(0, 365*24*time.Hour, 4, 0) // stale, no views

	got := Rank([]AdSnapshot{low, high})

	assert.Equal(t, []uuid.UUID{high.AdID, low.AdID}, ids(got))
}

func TestRank_SubscriptionAmountBeatsViews(t *testing.T) {
	small := snap(500, 0, 0, 50)
	big := snap(1, 0, 0, 200)

	got := Rank([]AdSnapshot{small, big})

	assert.Equal(t, []uuid.UUID{big.AdID, small.AdID}, ids(got))
}

func TestRank_TieBreakChain(t *testing.T) {
	t.Run("views then recency in standard tier", func(t *testing.T) {
		older := snap(100, 48*time.Hour, 0, 0)
		newer := snap(100, 24*time.Hour, 0, 0)
		popular := snap(101, 72*time.Hour, 0, 0)

		got := Rank([]AdSnapshot{older, newer, popular})

		assert.Equal(t, []uuid.UUID{popular.AdID, newer.AdID, older.AdID}, ids(got))
	})

	t.Run("equal amount and views sorts newer first", func(t *testing.T) {
		older := snap(100, 48*time.Hour, 0, 150)
		newer := snap(100, 24*time.Hour, 0, 150)

		got := Rank([]AdSnapshot{older, newer})

		assert.Equal(t, []uuid.UUID{newer.AdID, older.AdID}, ids(got))
	})

	t.Run("full ties are stable across calls", func(t *testing.T) {
		a := snap(100, time.Hour, 0, 0)
		b := snap(100, time.Hour, 0, 0)
		c := snap(100, time.Hour, 0, 0)
		in := []AdSnapshot{b, c, a}

		first := Rank(in)
		for i := 0; i < 10; i++ {
			assert.Equal(t, ids(first), ids(Rank(in)))
		}
		assert.Equal(t, ids(in), ids(first))
	})
}

func TestSubscriptionBadge(t *testing.T) {
	tests := []struct {
		amount int64
		label  string
		color  string
	}{
		{0, "Certified Agency", BadgeColorCyan},
		{50, "Certified Agency", BadgeColorCyan},
		{51, "Premium Agency", BadgeColorBlue},
		{100, "Premium Agency", BadgeColorBlue},
		{101, "Partner Agency", BadgeColorCyan},
		{150, "Partner Agency", BadgeColorCyan},
		{199, "Partner Agency", BadgeColorCyan},
		{200, "Elite Agency", BadgeColorPurple},
		{1000, "Elite Agency", BadgeColorPurple},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := SubscriptionBadge(tt.amount)
			assert.Equal(t, tt.label, got.Label, "amount %d", tt.amount)
			assert.Equal(t, tt.color, got.Color, "amount %d", tt.amount)
		})
	}
}

func TestBadgeFor(t *testing.T) {
	boosted := BadgeFor(snap(0, 0, 2, 300))
	require.NotNil(t, boosted)
	assert.Equal(t, "Boosted", boosted.Label)
	assert.Equal(t, 2, boosted.Level)

	subscribed := BadgeFor(snap(0, 0, 0, 300))
	require.NotNil(t, subscribed)
	assert.Equal(t, "Elite Agency", subscribed.Label)

	assert.Nil(t, BadgeFor(snap(0, 0, 0, 0)))
}

func TestRankAds(t *testing.T) {
	plain := Ad{ID: uuid.New(), ViewsCount: 5, CreatedAt: rankBase}
	boosted := Ad{ID: uuid.New(), ViewsCount: 0, CreatedAt: rankBase.Add(-time.Hour)}

	got := RankAds([]Candidate{
		NewCandidate(plain, 0, 0),
		NewCandidate(boosted, 1, 0),
	})

	require.Len(t, got, 2)
	assert.Equal(t, boosted.ID, got[0].Ad.ID)
	assert.Equal(t, TierBoosted, got[0].Tier)
	assert.Equal(t, 1, got[0].Position)
	assert.Equal(t, plain.ID, got[1].Ad.ID)
	assert.Equal(t, TierStandard, got[1].Tier)
	assert.Nil(t, got[1].Badge)
	assert.Equal(t, int64(5), got[1].Snapshot.ViewsCount)
}

func TestPaginateRanked(t *testing.T) {
	ranked := make([]RankedAd, 5)
	for i := range ranked {
		ranked[i] = RankedAd{Position: i + 1}
	}

	page := PaginateRanked(ranked, 2, 2)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Items[0].Position)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)

	last := PaginateRanked(ranked, 9, 2)
	require.Len(t, last.Items, 1)
	assert.Equal(t, 5, last.Items[0].Position)
	assert.Equal(t, 3, last.CurrentPage)

	empty := PaginateRanked(nil, 1, 20)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 1, empty.TotalPages)
}
