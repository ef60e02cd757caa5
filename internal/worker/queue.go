package worker

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DukeRupert/adboard/internal/repository"
	"github.com/google/uuid"
)

// queue is the storage side of the worker. Claim returns sql.ErrNoRows when
// nothing is due.
type queue interface {
	Claim(ctx context.Context) (repository.Job, error)
	Complete(ctx context.Context, jobID uuid.UUID) error
	Fail(ctx context.Context, jobID uuid.UUID, jobErr error, permanent bool) error
	RecoverStale(ctx context.Context, thresholdSeconds float64) (int64, error)
}

// pgQueue is the Postgres jobs table. Claiming locks one due row with
// FOR UPDATE SKIP LOCKED so concurrent workers never share a job.
type pgQueue struct {
	db      *sql.DB
	queries *repository.Queries
}

func (q *pgQueue) Claim(ctx context.Context) (repository.Job, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return repository.Job{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := q.queries.WithTx(tx)

	job, err := qtx.DequeueJob(ctx)
	if err != nil {
		return repository.Job{}, err
	}

	if err := qtx.UpdateJobStarted(ctx, job.ID); err != nil {
		return repository.Job{}, fmt.Errorf("mark job started: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return repository.Job{}, fmt.Errorf("commit dequeue: %w", err)
	}
	return job, nil
}

func (q *pgQueue) Complete(ctx context.Context, jobID uuid.UUID) error {
	if err := q.queries.UpdateJobCompleted(ctx, jobID); err != nil {
		return fmt.Errorf("update job completed: %w", err)
	}
	return nil
}

// Fail records the error. Permanent failures and jobs out of attempts end in
// 'failed'; anything else is rescheduled with backoff by the query.
func (q *pgQueue) Fail(ctx context.Context, jobID uuid.UUID, jobErr error, permanent bool) error {
	err := q.queries.UpdateJobFailed(ctx, repository.UpdateJobFailedParams{
		ID:           jobID,
		Permanent:    permanent,
		ErrorMessage: sql.NullString{String: jobErr.Error(), Valid: true},
	})
	if err != nil {
		return fmt.Errorf("update job failed: %w", err)
	}
	return nil
}

func (q *pgQueue) RecoverStale(ctx context.Context, thresholdSeconds float64) (int64, error) {
	count, err := q.queries.RecoverStaleJobs(ctx, thresholdSeconds)
	if err != nil {
		return 0, fmt.Errorf("recover stale jobs: %w", err)
	}
	return count, nil
}
