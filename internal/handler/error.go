package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/adboard/internal/domain"
	"github.com/DukeRupert/adboard/internal/middleware"
)

// ErrorResponse writes an error response to the client.
// It maps domain error codes to HTTP status codes and always answers with a
// JSON error envelope.
func ErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	// Extract structured info from error
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	op := domain.ErrorOp(err)

	// Map to HTTP status
	status := ErrorCodeToHTTPStatus(code)

	// Log error with context
	logError(logger, r, err, code, op, status)

	writeJSONError(w, status, code, message)
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.EQUOTA:
		return http.StatusPaymentRequired // 402
	case domain.EFORBIDDEN:
		return http.StatusForbidden // 403
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

// BadRequestResponse is a convenience wrapper for malformed input that never
// reached a service.
func BadRequestResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op, message string) {
	ErrorResponse(w, r, logger, domain.Invalid(op, message))
}

// NotFoundResponse is a convenience wrapper for 404 errors.
func NotFoundResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	err := domain.Errorf(domain.ENOTFOUND, "", "The requested resource was not found")
	ErrorResponse(w, r, logger, err)
}

// InternalErrorResponse logs the error and returns a generic 500 response.
// The underlying error details are hidden from the user.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	wrappedErr := domain.Internal(err, "", "An unexpected error occurred")
	ErrorResponse(w, r, logger, wrappedErr)
}

// logError logs the error with appropriate level based on status code.
func logError(logger *slog.Logger, r *http.Request, err error, code, op string, status int) {
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
	}

	// Add operation if present
	if op != "" {
		attrs = append(attrs, "op", op)
	}

	// Log level based on status code:
	// - 5xx errors are server-side issues
	// - 4xx errors are info (client errors, expected)
	if status >= 500 {
		logger.Error("server error", attrs...)
	} else if status >= 400 {
		logger.Info("client error", attrs...)
	}
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	middleware.WriteJSONError(w, status, code, message)
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	middleware.WriteJSON(w, status, v)
}

// JSONError is the error envelope shared with the middleware.
type JSONError = middleware.JSONError
