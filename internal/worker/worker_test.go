package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DukeRupert/adboard/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid default config", mutate: func(c *Config) {}},
		{name: "concurrency too low", mutate: func(c *Config) { c.Concurrency = 0 }, wantErr: true},
		{name: "concurrency too high", mutate: func(c *Config) { c.Concurrency = 101 }, wantErr: true},
		{name: "poll interval too short", mutate: func(c *Config) { c.PollInterval = 500 * time.Millisecond }, wantErr: true},
		{name: "job timeout too short", mutate: func(c *Config) { c.JobTimeout = 0 }, wantErr: true},
		{name: "stale threshold too short", mutate: func(c *Config) { c.StaleJobThreshold = time.Second }, wantErr: true},
		{name: "poll interval too long for expiry", mutate: func(c *Config) { c.PollInterval = 10 * time.Minute }, wantErr: true},
		{name: "job timeout reaches stale threshold", mutate: func(c *Config) { c.JobTimeout = c.StaleJobThreshold }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsPermanent(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"permanent error", NewPermanentError(context.Canceled), true},
		{"wrapped permanent error", errors.Join(errors.New("outer"), NewPermanentError(context.Canceled)), true},
		{"regular error", context.Canceled, false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPermanent(tt.err))
		})
	}
}

type stubHandler struct {
	jobType string
	err     error
	got     []byte
}

func (h *stubHandler) Type() string { return h.jobType }

func (h *stubHandler) Handle(ctx context.Context, payload []byte) error {
	h.got = payload
	return h.err
}

type panicHandler struct{}

func (panicHandler) Type() string { return JobTypeExpireBoost }

func (panicHandler) Handle(ctx context.Context, payload []byte) error {
	panic("nil boost")
}

// fakeQueue is an in-memory queue that hands out jobs in order.
type fakeQueue struct {
	mu        sync.Mutex
	pending   []repository.Job
	completed []uuid.UUID
	failed    map[uuid.UUID]bool // job ID -> permanent
	recovered int
}

func newFakeQueue(jobs ...repository.Job) *fakeQueue {
	return &fakeQueue{pending: jobs, failed: make(map[uuid.UUID]bool)}
}

func (q *fakeQueue) Claim(ctx context.Context) (repository.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return repository.Job{}, sql.ErrNoRows
	}
	job := q.pending[0]
	q.pending = q.pending[1:]
	return job, nil
}

func (q *fakeQueue) Complete(ctx context.Context, jobID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.completed = append(q.completed, jobID)
	return nil
}

func (q *fakeQueue) Fail(ctx context.Context, jobID uuid.UUID, jobErr error, permanent bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.failed[jobID] = permanent
	return nil
}

func (q *fakeQueue) RecoverStale(ctx context.Context, thresholdSeconds float64) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.recovered++
	return 0, nil
}

func newTestWorker(t *testing.T) *Worker {
	t.Helper()
	w, err := newWorker(newFakeQueue(), DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return w
}

func TestWorker_ExecuteJob(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("dispatches to the registered handler", func(t *testing.T) {
		w := newTestWorker(t)
		h := &stubHandler{jobType: JobTypeExpireBoost}
		w.Register(h)

		payload := json.RawMessage(`{"ad_boost_id":"x"}`)
		err := w.executeJob(context.Background(), repository.Job{JobType: JobTypeExpireBoost, Payload: payload}, logger)

		require.NoError(t, err)
		assert.JSONEq(t, string(payload), string(h.got))
	})

	t.Run("unknown job type is permanent", func(t *testing.T) {
		w := newTestWorker(t)

		err := w.executeJob(context.Background(), repository.Job{JobType: "nope"}, logger)

		require.Error(t, err)
		assert.True(t, IsPermanent(err))
	})

	t.Run("handler panic becomes a retryable error", func(t *testing.T) {
		w := newTestWorker(t)
		w.Register(panicHandler{})

		err := w.executeJob(context.Background(), repository.Job{JobType: JobTypeExpireBoost}, logger)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil boost")
		assert.False(t, IsPermanent(err))
	})

	t.Run("handler errors are returned", func(t *testing.T) {
		w := newTestWorker(t)
		w.Register(&stubHandler{jobType: JobTypeExpireSubscription, err: errors.New("db down")})

		err := w.executeJob(context.Background(), repository.Job{JobType: JobTypeExpireSubscription}, logger)

		require.Error(t, err)
		assert.False(t, IsPermanent(err))
	})
}

func TestWorker_ProcessNextJob(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := repository.Job{ID: uuid.New(), JobType: JobTypeExpireBoost}
	retry := repository.Job{ID: uuid.New(), JobType: JobTypeExpireSubscription}
	unknown := repository.Job{ID: uuid.New(), JobType: "resize_photo"}
	q := newFakeQueue(ok, retry, unknown)

	w, err := newWorker(q, DefaultConfig(), logger)
	require.NoError(t, err)
	w.Register(&stubHandler{jobType: JobTypeExpireBoost})
	w.Register(&stubHandler{jobType: JobTypeExpireSubscription, err: errors.New("db down")})

	require.NoError(t, w.processNextJob(context.Background(), logger))
	assert.ErrorIs(t, w.processNextJob(context.Background(), logger), errJobFailed)
	assert.ErrorIs(t, w.processNextJob(context.Background(), logger), errJobFailed)
	assert.ErrorIs(t, w.processNextJob(context.Background(), logger), sql.ErrNoRows)

	assert.Equal(t, []uuid.UUID{ok.ID}, q.completed)
	assert.Equal(t, map[uuid.UUID]bool{retry.ID: false, unknown.ID: true}, q.failed)
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	q := newFakeQueue()
	w, err := newWorker(q, DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 1, q.recovered, "stale jobs are recovered at startup")
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(nil, nil, Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestPayloadJSON(t *testing.T) {
	id, agency := uuid.New(), uuid.New()

	b, err := json.Marshal(ExpireSubscriptionPayload{UserSubscriptionID: id, AgencyID: agency})
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, id.String(), decoded["user_subscription_id"])
	assert.Equal(t, agency.String(), decoded["agency_id"])
}
