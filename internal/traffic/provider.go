// Package traffic consults an external traffic-aware routing provider and
// degrades to a local great-circle estimate when the provider is
// unavailable. Provider failure is an expected mode, carried as an explicit
// result state rather than an error.
package traffic

import (
	"context"
	"time"

	"buswatch.transitkit.org/internal/models"
)

// RouteEstimate is a provider's answer for one origin/destination pair.
// HasTrafficDuration is false when the provider returned no
// traffic-augmented duration.
type RouteEstimate struct {
	DistanceMeters           float64
	DurationSeconds          int
	DurationInTrafficSeconds int
	HasTrafficDuration       bool
}

// Provider is the external routing contract. Implementations make a single
// attempt; retries belong to the integrator, not this package. Any error
// means "provider unavailable".
type Provider interface {
	Route(ctx context.Context, origin, destination models.Coordinate, departure time.Time) (RouteEstimate, error)
}

// ProviderResult makes the two outcomes of a provider consultation
// explicit: a usable estimate, or unavailable. There is no third state.
type ProviderResult struct {
	OK       bool
	Estimate RouteEstimate
}
