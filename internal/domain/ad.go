// Package domain contains core business types and interfaces.
//
// This file defines the Ad domain type and its moderation status.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Ad Status
// =============================================================================

// AdStatus represents the moderation state of an ad.
type AdStatus string

const (
	// AdStatusPending indicates the ad is awaiting moderation. Ads pushed out
	// of an agency's quota also land here so they can be reviewed and
	// re-published once the plan allows it.
	AdStatusPending AdStatus = "pending"

	// AdStatusValid indicates the ad is published. Only valid ads are ranked
	// and only valid ads count against an agency's quota.
	AdStatusValid AdStatus = "valid"

	// AdStatusBlocked indicates the ad was rejected by moderation.
	AdStatusBlocked AdStatus = "blocked"

	// AdStatusTrash indicates the owner removed the ad.
	AdStatusTrash AdStatus = "trash"
)

// QuotaDeactivatedAdStatus is the status an ad receives when downgrade
// enforcement takes it out of circulation.
const QuotaDeactivatedAdStatus = AdStatusPending

// String returns the string representation of the status.
func (s AdStatus) String() string {
	return string(s)
}

// =============================================================================
// Ad Domain Type
// =============================================================================

// Ad represents a classifieds listing.
//
// Title, description and price are opaque to ranking and quota logic; they
// are carried so listing endpoints can return complete rows.
type Ad struct {
	ID          uuid.UUID
	UserID      uuid.UUID  // Creating user (agency, employee or admin)
	SpaceID     *uuid.UUID // Optional: agency space the ad is listed under
	Title       string
	Description string
	PriceCents  int64
	Category    string
	Location    string
	Status      AdStatus
	ViewsCount  int64
	Metadata    json.RawMessage // Free-form attributes (rooms, mileage, ...)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPublished returns true if the ad is visible in listings.
func (a *Ad) IsPublished() bool {
	return a.Status == AdStatusValid
}

// CreateAdParams contains validated parameters for creating an ad.
type CreateAdParams struct {
	Agency      AgencyContext // Agency the ad is created for
	CreatedBy   uuid.UUID     // Acting user; equals Agency.AgencyID for agency-owned ads
	Title       string
	Description string
	PriceCents  int64
	Category    string
	Location    string
	Metadata    json.RawMessage

	// RequireModeration creates the ad as pending instead of valid. Pending
	// ads do not consume quota until moderation publishes them.
	RequireModeration bool
}

// AdFilters narrows the set of eligible ads handed to the ranking engine.
// Zero values mean "no filter".
type AdFilters struct {
	Category      string
	Location      string
	Query         string // Case-insensitive substring of title or description
	MinPriceCents *int64
	MaxPriceCents *int64
	OwnerID       *uuid.UUID // Restrict to one owner (agency storefront)
	SpaceID       *uuid.UUID // Restrict to one agency space
	ExcludeID     *uuid.UUID // Drop one ad (similar-ads view)
	Page          int
	PageSize      int
}
