package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// RequestLogger logs HTTP requests with timing, status and agency scope.
type RequestLogger struct {
	logger    *slog.Logger
	skipPaths []string
}

// NewRequestLogger creates a request logger. Requests to /health and
// /metrics are not logged.
func NewRequestLogger(logger *slog.Logger) *RequestLogger {
	return &RequestLogger{
		logger:    logger,
		skipPaths: []string{"/health", "/metrics"},
	}
}

// Handler returns middleware that logs every request once it completes.
func (m *RequestLogger) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, skip := range m.skipPaths {
			if strings.HasPrefix(r.URL.Path, skip) {
				next.ServeHTTP(w, r)
				return
			}
		}

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		attrs := []any{
			"method", r.Method,
			"path", sanitizePath(r.URL.Path, r.URL.RawQuery),
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", getClientIP(r),
		}
		if space := r.Header.Get(AgencySpaceHeader); space != "" {
			attrs = append(attrs, "agency_space", space)
		}

		if wrapped.statusCode >= 500 {
			m.logger.Warn("request", attrs...)
		} else {
			m.logger.Info("request", attrs...)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// sensitiveParams are query parameters redacted from logged paths.
var sensitiveParams = map[string]bool{
	"token":        true,
	"key":          true,
	"secret":       true,
	"password":     true,
	"api_key":      true,
	"access_token": true,
}

// sanitizePath appends the query string with sensitive values redacted.
func sanitizePath(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}

	var safe []string
	for _, part := range strings.Split(rawQuery, "&") {
		k, _, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		if sensitiveParams[strings.ToLower(k)] {
			safe = append(safe, k+"=[REDACTED]")
		} else {
			safe = append(safe, part)
		}
	}

	if len(safe) == 0 {
		return path
	}
	return path + "?" + strings.Join(safe, "&")
}

// getClientIP returns the originating client address, honouring proxy
// headers.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
