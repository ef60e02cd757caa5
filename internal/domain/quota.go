// Package domain contains core business types and interfaces.
//
// This file defines quota types for limiting how many ads and spaces an
// agency may keep active under its subscription.
package domain

import "github.com/google/uuid"

// QuotaResource identifies the type of quota being checked.
type QuotaResource string

const (
	QuotaResourceAd    QuotaResource = "ad"
	QuotaResourceSpace QuotaResource = "space"
)

// Plural returns the resource name for use in messages.
func (r QuotaResource) Plural() string {
	return string(r) + "s"
}

// QuotaUsage represents current usage against the active plan's limits.
// Limits are zero when the agency has no active subscription.
type QuotaUsage struct {
	AdsUsed     int
	AdsLimit    int
	SpacesUsed  int
	SpacesLimit int
	Plan        *Subscription
}

// AdsRemaining returns how many more ads may be published.
func (u *QuotaUsage) AdsRemaining() int {
	return Remaining(u.AdsLimit, u.AdsUsed)
}

// SpacesRemaining returns how many more spaces may be opened.
func (u *QuotaUsage) SpacesRemaining() int {
	return Remaining(u.SpacesLimit, u.SpacesUsed)
}

// Remaining returns max(0, limit-used).
func Remaining(limit, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}

// Surplus returns how many items must be deactivated to bring used down to
// limit. Never negative.
func Surplus(used, limit int) int {
	if limit < 0 {
		limit = 0
	}
	if used <= limit {
		return 0
	}
	return used - limit
}

// DowngradeResult reports what quota enforcement deactivated.
type DowngradeResult struct {
	AgencyID            uuid.UUID
	DeactivatedAdIDs    []uuid.UUID
	DeactivatedSpaceIDs []uuid.UUID
}

// Changed returns true if anything was deactivated.
func (r *DowngradeResult) Changed() bool {
	return len(r.DeactivatedAdIDs) > 0 || len(r.DeactivatedSpaceIDs) > 0
}
