package domain

import (
	"time"

	"github.com/google/uuid"
)

// Agency is a user account that publishes ads under a subscription plan.
type Agency struct {
	ID        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
}

// AgencyContext identifies the agency (and optionally the space) a call acts
// on. Employees working for several agencies pass it explicitly with every
// request instead of relying on a session-selected agency.
type AgencyContext struct {
	AgencyID uuid.UUID
	SpaceID  *uuid.UUID
}

// HasSpace returns true if the context is scoped to a single agency space.
func (c AgencyContext) HasSpace() bool {
	return c.SpaceID != nil
}

// =============================================================================
// Agency Space
// =============================================================================

// SpaceStatus represents whether an agency space counts against quota.
type SpaceStatus string

const (
	SpaceStatusActive   SpaceStatus = "active"
	SpaceStatusInactive SpaceStatus = "inactive"
)

// AgencySpace is a storefront or sub-location owned by an agency.
type AgencySpace struct {
	ID        uuid.UUID
	AgencyID  uuid.UUID
	Name      string
	Address   string
	Status    SpaceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the space counts against the agency's quota.
func (s *AgencySpace) IsActive() bool {
	return s.Status == SpaceStatusActive
}

// CreateSpaceParams contains validated parameters for creating a space.
type CreateSpaceParams struct {
	AgencyID uuid.UUID
	Name     string
	Address  string
}
