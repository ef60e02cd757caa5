package domain

import (
	"errors"
	"fmt"
)

// Application error codes
const (
	EINVALID   = "invalid"        // Invalid input or validation failure
	EFORBIDDEN = "forbidden"      // Permission denied
	ENOTFOUND  = "not_found"      // Resource not found
	ECONFLICT  = "conflict"       // Resource conflict (e.g., illegal state transition)
	EQUOTA     = "quota_exceeded" // Subscription quota exhausted
	EINTERNAL  = "internal"       // Internal server error
)

// Error represents an application error with structured information.
type Error struct {
	Code    string // Machine-readable error code
	Op      string // Operation that failed (e.g., "QuotaService.CreateAd")
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates a new Error with the given code, operation, and formatted message.
func Errorf(code, op, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode returns the code of the root error, or EINTERNAL if none.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the human-readable message of the error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Code == EINTERNAL {
			return "An internal error occurred. Please try again later."
		}
		return e.Message
	}
	return "An internal error occurred. Please try again later."
}

// ErrorOp returns the operation of the root error, if any.
func ErrorOp(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// IsNotFound reports whether err carries the ENOTFOUND code.
func IsNotFound(err error) bool {
	return ErrorCode(err) == ENOTFOUND
}

// NotFound creates a not found error.
func NotFound(op, resource, id string) *Error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("%s with ID %q not found", resource, id),
	}
}

// Invalid creates a validation error.
func Invalid(op, message string) *Error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: message,
	}
}

// Forbidden creates a permission error.
func Forbidden(op, message string) *Error {
	return &Error{
		Code:    EFORBIDDEN,
		Op:      op,
		Message: message,
	}
}

// Conflict creates a conflict error.
func Conflict(op, message string) *Error {
	return &Error{
		Code:    ECONFLICT,
		Op:      op,
		Message: message,
	}
}

// Internal creates an internal error, wrapping the underlying error.
func Internal(err error, op, message string) *Error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// QuotaExceeded creates an error for a create attempt that would exceed the
// agency's subscription limit. A limit of zero means no active subscription.
func QuotaExceeded(op string, resource QuotaResource, used, limit int) *Error {
	if limit == 0 {
		return &Error{
			Code:    EQUOTA,
			Op:      op,
			Message: fmt.Sprintf("An active subscription is required to create %s", resource.Plural()),
		}
	}
	return &Error{
		Code:    EQUOTA,
		Op:      op,
		Message: fmt.Sprintf("Your plan allows %d active %s (%d in use)", limit, resource.Plural(), used),
	}
}
