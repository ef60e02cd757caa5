// Package domain contains core business types and interfaces.
//
// This file defines subscription plans and the per-agency subscription rows
// that govern ad and space quotas.
package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Subscription is a purchasable agency plan from the catalog.
type Subscription struct {
	ID           uuid.UUID
	Label        string
	Amount       int64 // Plan price in whole currency units; drives tier-2 ranking
	MaxAds       int
	MaxSpaces    int
	DurationDays int
	IsActive     bool // Whether the plan is still offered
}

// Duration returns the plan length.
func (s *Subscription) Duration() time.Duration {
	return time.Duration(s.DurationDays) * 24 * time.Hour
}

// UserSubscription is one purchase of a Subscription by an agency.
type UserSubscription struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	SubscriptionID uuid.UUID
	Status         bool // true once paid/activated
	StartDate      time.Time
	EndDate        time.Time
	CreatedAt      time.Time
}

// IsActiveAt reports whether the row is the agency's live subscription at t.
func (us *UserSubscription) IsActiveAt(t time.Time) bool {
	return us.Status && us.EndDate.After(t)
}

// AgencySubscription joins a UserSubscription row with its plan.
type AgencySubscription struct {
	UserSubscription
	Plan Subscription
}

// PickActiveSubscription chooses one subscription when storage reports more
// than one live row for an agency. The latest EndDate wins, then the latest
// StartDate, then the highest ID, so the choice is stable across calls.
// Returns nil for an empty slice.
func PickActiveSubscription(subs []AgencySubscription) *AgencySubscription {
	if len(subs) == 0 {
		return nil
	}
	sorted := make([]AgencySubscription, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.EndDate.Equal(b.EndDate) {
			return a.EndDate.After(b.EndDate)
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		return a.ID.String() > b.ID.String()
	})
	return &sorted[0]
}

// SubscriptionTerm returns the start and end of a new purchase of plan made
// at now. Renewing the plan that is currently live extends from its end date
// so paid days are not lost.
func SubscriptionTerm(plan Subscription, current *AgencySubscription, now time.Time) (start, end time.Time) {
	start = now
	if current != nil && current.SubscriptionID == plan.ID && current.EndDate.After(now) {
		start = current.EndDate
	}
	return start, start.Add(plan.Duration())
}
