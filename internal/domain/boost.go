// Package domain contains core business types and interfaces.
//
// This file defines the boost catalog and the lifecycle of a boost applied
// to a single ad.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Boost is a purchasable priority upgrade from the catalog.
type Boost struct {
	ID            uuid.UUID
	Label         string
	PriceCents    int64
	DurationDays  int
	PriorityLevel int // Higher is more prominent
}

// Duration returns the boost window length.
func (b *Boost) Duration() time.Duration {
	return time.Duration(b.DurationDays) * 24 * time.Hour
}

// =============================================================================
// Boost State
// =============================================================================

// BoostState represents the lifecycle state of an AdBoost.
type BoostState string

const (
	// BoostStatePending indicates the boost was ordered but payment has not
	// been confirmed. It has no effect on ranking.
	BoostStatePending BoostState = "pending"

	// BoostStateActive indicates the boost is paid and running. It affects
	// ranking only while its end date is in the future.
	BoostStateActive BoostState = "active"

	// BoostStateCancelled indicates the boost was withdrawn before or during
	// its window.
	BoostStateCancelled BoostState = "cancelled"

	// BoostStateExpired indicates the window has elapsed.
	BoostStateExpired BoostState = "expired"
)

// String returns the string representation of the state.
func (s BoostState) String() string {
	return string(s)
}

// IsTerminal returns true for states that allow no further transitions.
func (s BoostState) IsTerminal() bool {
	return s == BoostStateCancelled || s == BoostStateExpired
}

// CanTransitionTo checks if a boost can move to the target state.
//
// Valid transitions:
// - pending -> active (payment confirmed)
// - pending -> cancelled
// - active -> expired (window elapsed)
// - active -> cancelled
func (s BoostState) CanTransitionTo(target BoostState) bool {
	switch s {
	case BoostStatePending:
		return target == BoostStateActive || target == BoostStateCancelled
	case BoostStateActive:
		return target == BoostStateExpired || target == BoostStateCancelled
	}
	return false
}

// =============================================================================
// AdBoost Domain Type
// =============================================================================

// AdBoost is one Boost applied to one Ad.
type AdBoost struct {
	ID            uuid.UUID
	AdID          uuid.UUID
	BoostID       uuid.UUID
	PriorityLevel int // Copied from the catalog entry on read
	State         BoostState
	StartDate     *time.Time // Set on activation
	EndDate       *time.Time // Set on activation
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsEffectiveAt reports whether the boost lifts its ad into the boosted tier
// at t.
func (b *AdBoost) IsEffectiveAt(t time.Time) bool {
	return b.State == BoostStateActive && b.EndDate != nil && b.EndDate.After(t)
}

// TransitionTo moves the boost to target, returning an error if the
// transition is not allowed. The boost is left unchanged on error.
func (b *AdBoost) TransitionTo(target BoostState) error {
	if !b.State.CanTransitionTo(target) {
		return fmt.Errorf("cannot transition boost from %s to %s", b.State, target)
	}
	b.State = target
	return nil
}

// Activate marks a pending boost as running for the catalog duration
// starting at now.
func (b *AdBoost) Activate(boost Boost, now time.Time) error {
	if err := b.TransitionTo(BoostStateActive); err != nil {
		return err
	}
	start := now
	end := now.Add(boost.Duration())
	b.StartDate = &start
	b.EndDate = &end
	b.PriorityLevel = boost.PriorityLevel
	return nil
}

// Expire marks an active boost as expired once its window has elapsed.
// It reports false without error when the boost is still running.
func (b *AdBoost) Expire(now time.Time) (bool, error) {
	if b.State != BoostStateActive {
		return false, fmt.Errorf("cannot transition boost from %s to %s", b.State, BoostStateExpired)
	}
	if b.EndDate != nil && b.EndDate.After(now) {
		return false, nil
	}
	b.State = BoostStateExpired
	return true, nil
}

// MaxEffectivePriority returns the highest priority level among boosts
// effective at t, or 0 if none are.
func MaxEffectivePriority(boosts []AdBoost, t time.Time) int {
	top := 0
	for i := range boosts {
		if boosts[i].IsEffectiveAt(t) && boosts[i].PriorityLevel > top {
			top = boosts[i].PriorityLevel
		}
	}
	return top
}
