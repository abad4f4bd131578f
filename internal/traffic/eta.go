package traffic

import (
	"context"
	"log/slog"
	"math"
	"time"

	"buswatch.transitkit.org/internal/logging"
	"buswatch.transitkit.org/internal/models"
)

// Traffic condition bands over the delay implied by the traffic-aware
// duration, in minutes.
const (
	lightTrafficMaxDelayMinutes    = 5
	moderateTrafficMaxDelayMinutes = 15
)

// ServiceMetrics is the optional instrumentation hook for provider
// consultations.
type ServiceMetrics interface {
	ProviderCallInc()
	ProviderFallbackInc()
}

// ETAService produces traffic-aware arrival estimates, falling back to a
// local great-circle estimate whenever the provider is unavailable. Every
// call returns a complete ETAResult; the degraded path is never an error.
type ETAService struct {
	provider Provider
	logger   *slog.Logger
	metrics  ServiceMetrics
}

// NewETAService builds the service. A nil provider means every estimate
// uses the local fallback, which is a valid deployment (no credentials).
func NewETAService(provider Provider, logger *slog.Logger, metrics ServiceMetrics) *ETAService {
	return &ETAService{
		provider: provider,
		logger:   logger,
		metrics:  metrics,
	}
}

// EstimateWithTraffic consults the provider once and builds an ETAResult
// from its answer, or from the fallback estimate when the consultation
// comes back Unavailable. Cancellation of ctx counts as provider failure
// and still yields a complete fallback result.
func (s *ETAService) EstimateWithTraffic(ctx context.Context, origin, destination models.Coordinate, departure time.Time) models.ETAResult {
	if departure.IsZero() {
		departure = time.Now()
	}

	result := s.consult(ctx, origin, destination, departure)
	if !result.OK {
		if s.metrics != nil {
			s.metrics.ProviderFallbackInc()
		}
		return FallbackEstimate(origin, destination)
	}

	return buildResult(result.Estimate)
}

func (s *ETAService) consult(ctx context.Context, origin, destination models.Coordinate, departure time.Time) ProviderResult {
	if s.provider == nil {
		return ProviderResult{}
	}

	if s.metrics != nil {
		s.metrics.ProviderCallInc()
	}

	estimate, err := s.provider.Route(ctx, origin, destination, departure)
	if err != nil {
		logging.LogError(s.logger, "routing provider unavailable", err,
			slog.String("component", "traffic"))
		return ProviderResult{}
	}

	return ProviderResult{OK: true, Estimate: estimate}
}

func buildResult(estimate RouteEstimate) models.ETAResult {
	result := models.ETAResult{
		DistanceMeters:   estimate.DistanceMeters,
		DistanceText:     models.FormatDistance(estimate.DistanceMeters),
		DurationSeconds:  estimate.DurationSeconds,
		ETAText:          models.FormatDuration(estimate.DurationSeconds),
		TrafficCondition: models.TrafficUnknown,
	}

	if !estimate.HasTrafficDuration {
		result.ETAWithTrafficText = result.ETAText
		return result
	}

	result.DurationWithTrafficSeconds = estimate.DurationInTrafficSeconds
	result.ETAWithTrafficText = models.FormatDuration(estimate.DurationInTrafficSeconds)

	delayMinutes := int(math.Round(float64(estimate.DurationInTrafficSeconds-estimate.DurationSeconds) / 60))
	result.TrafficDelayMinutes = delayMinutes
	result.TrafficCondition = classifyTraffic(delayMinutes)

	return result
}

func classifyTraffic(delayMinutes int) models.TrafficCondition {
	switch {
	case delayMinutes <= lightTrafficMaxDelayMinutes:
		return models.TrafficLight
	case delayMinutes <= moderateTrafficMaxDelayMinutes:
		return models.TrafficModerate
	default:
		return models.TrafficHeavy
	}
}
