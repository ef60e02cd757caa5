package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DukeRupert/adboard/internal/repository"
	"github.com/google/uuid"
)

// Job type constants - these must match the JobHandler.Type() values
const (
	JobTypeExpireBoost        = "expire_boost"
	JobTypeExpireSubscription = "expire_subscription"
)

// Priority constants for job scheduling
const (
	PriorityLow    = 0
	PriorityNormal = 10
	PriorityHigh   = 20
)

// ExpireBoostPayload is the payload for boost expiry jobs.
type ExpireBoostPayload struct {
	AdBoostID uuid.UUID `json:"ad_boost_id"`
	AdID      uuid.UUID `json:"ad_id"`
}

// ExpireSubscriptionPayload is the payload for subscription expiry jobs.
type ExpireSubscriptionPayload struct {
	UserSubscriptionID uuid.UUID `json:"user_subscription_id"`
	AgencyID           uuid.UUID `json:"agency_id"`
}

// Validate reports a payload that names no ad boost.
func (p ExpireBoostPayload) Validate() error {
	if p.AdBoostID == uuid.Nil {
		return errors.New("missing ad_boost_id")
	}
	return nil
}

// Validate reports a payload that names no subscription.
func (p ExpireSubscriptionPayload) Validate() error {
	if p.UserSubscriptionID == uuid.Nil {
		return errors.New("missing user_subscription_id")
	}
	return nil
}

// EnqueueOption is a functional option for customizing job enqueue parameters.
type EnqueueOption func(*repository.EnqueueJobParams)

// WithPriority sets the job priority.
func WithPriority(priority int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.Priority = priority
	}
}

// WithMaxAttempts sets the maximum number of retry attempts.
func WithMaxAttempts(attempts int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.MaxAttempts = attempts
	}
}

// At schedules the job to run no earlier than t.
func At(t time.Time) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.ScheduledAt = t
	}
}

// NewJobParams builds the insert parameters for a job. Options are applied
// over the defaults of normal priority, five attempts and an immediate run.
func NewJobParams(jobType string, payload any, opts ...EnqueueOption) (repository.EnqueueJobParams, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return repository.EnqueueJobParams{}, fmt.Errorf("marshal payload: %w", err)
	}

	params := repository.EnqueueJobParams{
		JobType:     jobType,
		Payload:     payloadJSON,
		Priority:    PriorityNormal,
		MaxAttempts: 5,
		ScheduledAt: time.Now(),
	}

	for _, opt := range opts {
		opt(&params)
	}

	return params, nil
}

func insertJob(ctx context.Context, queries *repository.Queries, params repository.EnqueueJobParams) (repository.Job, error) {
	job, err := queries.EnqueueJob(ctx, params)
	if err != nil {
		return repository.Job{}, fmt.Errorf("enqueue job: %w", err)
	}
	return job, nil
}

// ExpireBoostJob builds the job that ends an ad boost at its end date.
func ExpireBoostJob(adBoostID, adID uuid.UUID, endDate time.Time) (repository.EnqueueJobParams, error) {
	payload := ExpireBoostPayload{AdBoostID: adBoostID, AdID: adID}
	return NewJobParams(JobTypeExpireBoost, payload, At(endDate))
}

// ExpireSubscriptionJob builds the job that deactivates a user subscription
// at its end date. It runs ahead of boost expiry since quota checks depend
// on it.
func ExpireSubscriptionJob(userSubscriptionID, agencyID uuid.UUID, endDate time.Time) (repository.EnqueueJobParams, error) {
	payload := ExpireSubscriptionPayload{UserSubscriptionID: userSubscriptionID, AgencyID: agencyID}
	return NewJobParams(JobTypeExpireSubscription, payload, At(endDate), WithPriority(PriorityHigh))
}

// EnqueueExpireBoost schedules the expiry of an ad boost at its end date.
func EnqueueExpireBoost(
	ctx context.Context,
	queries *repository.Queries,
	adBoostID, adID uuid.UUID,
	endDate time.Time,
) (repository.Job, error) {
	params, err := ExpireBoostJob(adBoostID, adID, endDate)
	if err != nil {
		return repository.Job{}, err
	}
	return insertJob(ctx, queries, params)
}

// EnqueueExpireSubscription schedules the deactivation of a user
// subscription at its end date.
func EnqueueExpireSubscription(
	ctx context.Context,
	queries *repository.Queries,
	userSubscriptionID, agencyID uuid.UUID,
	endDate time.Time,
) (repository.Job, error) {
	params, err := ExpireSubscriptionJob(userSubscriptionID, agencyID, endDate)
	if err != nil {
		return repository.Job{}, err
	}
	return insertJob(ctx, queries, params)
}
