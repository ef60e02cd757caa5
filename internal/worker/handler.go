package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// JobHandler runs one job type. Type must match the job_type column the job
// was enqueued with.
type JobHandler interface {
	Type() string
	Handle(ctx context.Context, payload []byte) error
}

// PermanentError marks a job failure that retrying cannot fix, such as a
// malformed payload or a boost that no longer exists.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// NewPermanentError wraps err so the job is marked failed without retry.
func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err (or any error it wraps) is a PermanentError.
func IsPermanent(err error) bool {
	var permErr *PermanentError
	return errors.As(err, &permErr)
}

// payload is implemented by the expiry payload types.
type payload interface {
	Validate() error
}

// DecodePayload unmarshals and validates a job payload. Both failures are
// permanent: the same bytes will never decode on a later attempt.
func DecodePayload[T any, P interface {
	*T
	payload
}](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, NewPermanentError(fmt.Errorf("invalid payload: %w", err))
	}
	if err := P(&v).Validate(); err != nil {
		return v, NewPermanentError(err)
	}
	return v, nil
}
