package restapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"buswatch.transitkit.org/internal/logging"
)

// RequestMetrics counts served requests by endpoint pattern and status.
type RequestMetrics interface {
	HTTPRequestInc(endpoint, status string)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// NewRequestLoggingMiddleware creates middleware that logs HTTP requests
// and, when metrics is non-nil, counts them.
func NewRequestLoggingMiddleware(logger *slog.Logger, metrics RequestMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := logging.WithLogger(r.Context(), logger)
			r = r.WithContext(ctx)

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)

			if metrics != nil {
				// The mux fills in r.Pattern while routing; unmatched
				// requests fall back to the raw path.
				endpoint := r.Pattern
				if endpoint == "" {
					endpoint = r.URL.Path
				}
				metrics.HTTPRequestInc(endpoint, strconv.Itoa(wrapped.statusCode))
			}

			logging.LogHTTPRequest(logger,
				r.Method,
				r.URL.Path, // Path without query parameters
				wrapped.statusCode,
				float64(duration.Nanoseconds())/1e6,
				slog.String("user_agent", r.Header.Get("User-Agent")),
				slog.String("component", "http_server"))
		})
	}
}
