package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserSubscription_IsActiveAt(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status bool
		end    time.Time
		want   bool
	}{
		{"paid and running", true, now.Add(time.Hour), true},
		{"paid but ended", true, now.Add(-time.Hour), false},
		{"ends exactly now", true, now, false},
		{"unpaid", false, now.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			us := UserSubscription{Status: tt.status, EndDate: tt.end}
			assert.Equal(t, tt.want, us.IsActiveAt(now))
		})
	}
}

func TestPickActiveSubscription(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, PickActiveSubscription(nil))

	early := AgencySubscription{UserSubscription: UserSubscription{ID: uuid.New(), StartDate: now, EndDate: now.AddDate(0, 1, 0)}}
	late := AgencySubscription{UserSubscription: UserSubscription{ID: uuid.New(), StartDate: now, EndDate: now.AddDate(0, 2, 0)}}
	lateNewer := AgencySubscription{UserSubscription: UserSubscription{ID: uuid.New(), StartDate: now.Add(time.Hour), EndDate: now.AddDate(0, 2, 0)}}

	got := PickActiveSubscription([]AgencySubscription{early, late})
	require.NotNil(t, got)
	assert.Equal(t, late.ID, got.ID)

	got = PickActiveSubscription([]AgencySubscription{late, lateNewer, early})
	require.NotNil(t, got)
	assert.Equal(t, lateNewer.ID, got.ID)

	// Order of the input must not matter.
	again := PickActiveSubscription([]AgencySubscription{early, lateNewer, late})
	assert.Equal(t, got.ID, again.ID)
}

func TestSubscriptionTerm(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	plan := Subscription{ID: uuid.New(), DurationDays: 30}

	start, end := SubscriptionTerm(plan, nil, now)
	assert.Equal(t, now, start)
	assert.Equal(t, now.AddDate(0, 0, 30), end)

	current := &AgencySubscription{UserSubscription: UserSubscription{
		SubscriptionID: plan.ID,
		EndDate:        now.AddDate(0, 0, 5),
	}}
	start, end = SubscriptionTerm(plan, current, now)
	assert.Equal(t, now.AddDate(0, 0, 5), start, "renewal extends the running term")
	assert.Equal(t, now.AddDate(0, 0, 35), end)

	other := Subscription{ID: uuid.New(), DurationDays: 30}
	start, _ = SubscriptionTerm(other, current, now)
	assert.Equal(t, now, start, "switching plans starts immediately")
}

func TestQuotaArithmetic(t *testing.T) {
	assert.Equal(t, 0, Remaining(5, 5))
	assert.Equal(t, 1, Remaining(5, 4))
	assert.Equal(t, 0, Remaining(5, 8))
	assert.Equal(t, 0, Remaining(0, 0))

	assert.Equal(t, 3, Surplus(8, 5))
	assert.Equal(t, 0, Surplus(5, 5))
	assert.Equal(t, 0, Surplus(2, 5))
	assert.Equal(t, 4, Surplus(4, -1))

	u := QuotaUsage{AdsUsed: 4, AdsLimit: 5, SpacesUsed: 2, SpacesLimit: 1}
	assert.Equal(t, 1, u.AdsRemaining())
	assert.Equal(t, 0, u.SpacesRemaining())
}

func TestQuotaExceededError(t *testing.T) {
	err := QuotaExceeded("QuotaService.CreateAd", QuotaResourceAd, 5, 5)
	assert.Equal(t, EQUOTA, ErrorCode(err))
	assert.Contains(t, ErrorMessage(err), "5 active ads")

	none := QuotaExceeded("QuotaService.CreateSpace", QuotaResourceSpace, 0, 0)
	assert.Contains(t, ErrorMessage(none), "active subscription is required to create spaces")
}
