// Package restapi exposes the tracking engine over HTTP. Every endpoint
// speaks the same JSON envelope and sits behind API key validation, rate
// limiting, gzip, and security headers.
package restapi

import (
	"net/http"
	"time"

	"buswatch.transitkit.org/internal/app"
)

type RestAPI struct {
	*app.Application
	metrics     RequestMetrics
	rateLimiter func(http.Handler) http.Handler
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter.
// metrics may be nil.
func NewRestAPI(app *app.Application, metrics RequestMetrics) *RestAPI {
	return &RestAPI{
		Application: app,
		metrics:     metrics,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
	}
}
