package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/DukeRupert/adboard/internal/metrics"
	"github.com/DukeRupert/adboard/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Worker runs due boost and subscription expiry jobs from the jobs table
// with a fixed number of goroutines.
type Worker struct {
	queue    queue
	handlers map[string]JobHandler
	config   Config
	logger   *slog.Logger
}

// New creates a Worker backed by the Postgres jobs table.
// Register handlers, then call Run.
func New(db *sql.DB, queries *repository.Queries, config Config, logger *slog.Logger) (*Worker, error) {
	return newWorker(&pgQueue{db: db, queries: queries}, config, logger)
}

func newWorker(q queue, config Config, logger *slog.Logger) (*Worker, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Worker{
		queue:    q,
		handlers: make(map[string]JobHandler),
		config:   config,
		logger:   logger.With("component", "worker"),
	}, nil
}

// Register adds a job handler. The handler's Type() must be unique.
// Call this before Run.
func (w *Worker) Register(handler JobHandler) {
	jobType := handler.Type()
	if _, exists := w.handlers[jobType]; exists {
		w.logger.Warn("Overwriting existing handler", "job_type", jobType)
	}
	w.handlers[jobType] = handler
	w.logger.Debug("Registered job handler", "job_type", jobType)
}

// Run processes jobs until ctx is cancelled, then waits up to
// ShutdownTimeout for running jobs. Jobs abandoned by a crashed process are
// reset to pending at startup and every StaleJobThreshold after that.
func (w *Worker) Run(ctx context.Context) error {
	w.recoverStaleJobs(ctx)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < w.config.Concurrency; i++ {
		workerID := i + 1
		g.Go(func() error {
			w.poll(gctx, workerID)
			return nil
		})
	}
	g.Go(func() error {
		w.sweepStaleJobs(gctx)
		return nil
	})

	w.logger.Info("Worker started", "concurrency", w.config.Concurrency, "handlers", len(w.handlers))

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	<-ctx.Done()
	w.logger.Info("Stopping worker...")

	select {
	case <-done:
		w.logger.Info("Worker stopped gracefully")
	case <-time.After(w.config.ShutdownTimeout):
		w.logger.Warn("Worker shutdown timeout exceeded, some jobs may still be running")
	}
	return nil
}

// poll is the loop of one worker goroutine. After a job finishes it claims
// the next one immediately, so a batch of expiries due at the same instant
// drains without waiting a full interval per job.
func (w *Worker) poll(ctx context.Context, workerID int) {
	logger := w.logger.With("worker_id", workerID)
	logger.Debug("Worker goroutine started")

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Worker goroutine stopping")
			return
		case <-ticker.C:
		}

		for ctx.Err() == nil {
			err := w.processNextJob(ctx, logger)
			if errors.Is(err, sql.ErrNoRows) {
				break
			}
			if err != nil && !errors.Is(err, errJobFailed) {
				logger.Error("Failed to process job", "error", err)
				break
			}
		}
	}
}

// errJobFailed marks a job whose handler failed; the failure is already
// recorded and the worker moves on to the next job.
var errJobFailed = errors.New("job failed")

// processNextJob claims and runs one job.
// Returns sql.ErrNoRows if nothing is due.
func (w *Worker) processNextJob(ctx context.Context, logger *slog.Logger) error {
	job, err := w.queue.Claim(ctx)
	if err != nil {
		return err
	}

	logger = logger.With("job_id", job.ID, "job_type", job.JobType, "attempt", job.Attempts+1)
	logger.Info("Processing job")

	// A claimed job runs to completion even if shutdown starts meanwhile;
	// JobTimeout still bounds it.
	jobCtx := context.WithoutCancel(ctx)

	started := time.Now()
	if jobErr := w.executeJob(jobCtx, job, logger); jobErr != nil {
		permanent := IsPermanent(jobErr)
		logger.Error("Job failed", "error", jobErr, "permanent", permanent)
		metrics.JobFailed(job.JobType)
		if err := w.queue.Fail(jobCtx, job.ID, jobErr, permanent); err != nil {
			logger.Error("Failed to mark job as failed", "error", err)
		}
		return errJobFailed
	}

	metrics.JobCompleted(job.JobType, time.Since(started))
	logger.Info("Job completed", "duration", time.Since(started))
	return w.queue.Complete(jobCtx, job.ID)
}

// executeJob runs the handler for the job type under JobTimeout. A panic in
// the handler is turned into a retryable error.
func (w *Worker) executeJob(ctx context.Context, job repository.Job, logger *slog.Logger) (err error) {
	handler, ok := w.handlers[job.JobType]
	if !ok {
		return NewPermanentError(fmt.Errorf("no handler registered for job type: %s", job.JobType))
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.config.JobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job handler panicked", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return handler.Handle(jobCtx, job.Payload)
}

func (w *Worker) sweepStaleJobs(ctx context.Context) {
	ticker := time.NewTicker(w.config.StaleJobThreshold)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.recoverStaleJobs(ctx)
		}
	}
}

func (w *Worker) recoverStaleJobs(ctx context.Context) {
	count, err := w.queue.RecoverStale(ctx, w.config.StaleJobThreshold.Seconds())
	if err != nil {
		w.logger.Error("Failed to recover stale jobs", "error", err)
		return
	}
	if count > 0 {
		w.logger.Warn("Recovered stale jobs", "count", count, "threshold", w.config.StaleJobThreshold)
	}
}
