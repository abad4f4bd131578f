package traffic

import (
	"buswatch.transitkit.org/internal/geo"
	"buswatch.transitkit.org/internal/models"
)

// fallbackSpeedKmh is the assumed average bus speed when no routing
// provider is reachable.
const fallbackSpeedKmh = 30.0

// FallbackEstimate computes a local arrival estimate from the great-circle
// distance between the two points at the assumed average speed. It carries
// no traffic information: the condition is unknown and the delay is zero.
func FallbackEstimate(origin, destination models.Coordinate) models.ETAResult {
	distance := geo.Haversine(origin.Lat, origin.Lon, destination.Lat, destination.Lon)

	speedMps := fallbackSpeedKmh * 1000 / 3600
	durationSeconds := int(distance/speedMps + 0.5)

	etaText := models.FormatDuration(durationSeconds)

	return models.ETAResult{
		DistanceMeters:     distance,
		DistanceText:       models.FormatDistance(distance),
		DurationSeconds:    durationSeconds,
		ETAText:            etaText,
		ETAWithTrafficText: etaText,
		TrafficCondition:   models.TrafficUnknown,
	}
}
