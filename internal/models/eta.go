package models

import (
	"fmt"
	"math"
)

// TrafficCondition classifies the congestion implied by a traffic-aware
// duration. Unknown is used only when no traffic-augmented duration exists.
type TrafficCondition string

const (
	TrafficLight    TrafficCondition = "light"
	TrafficModerate TrafficCondition = "moderate"
	TrafficHeavy    TrafficCondition = "heavy"
	TrafficUnknown  TrafficCondition = "unknown"
)

// ETAResult is a complete arrival estimate. The degraded (fallback) path
// produces the same shape as the provider path so callers never
// special-case it.
type ETAResult struct {
	DistanceMeters             float64          `json:"distanceMeters"`
	DistanceText               string           `json:"distanceText"`
	DurationSeconds            int              `json:"durationSeconds"`
	DurationWithTrafficSeconds int              `json:"durationWithTrafficSeconds,omitempty"`
	ETAText                    string           `json:"etaText"`
	ETAWithTrafficText         string           `json:"etaWithTrafficText"`
	TrafficDelayMinutes        int              `json:"trafficDelayMinutes"`
	TrafficCondition           TrafficCondition `json:"trafficCondition"`
}

// FormatDuration renders a duration in seconds as whole minutes, rolling
// over to hours past 60 minutes.
func FormatDuration(seconds int) string {
	minutes := int(math.Round(float64(seconds) / 60))
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// FormatDistance renders meters as "412 m" or "1.3 km".
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatSpeedKmh renders a speed in m/s as a whole km/h figure.
func FormatSpeedKmh(metersPerSecond float64) string {
	return fmt.Sprintf("%d km/h", int(math.Round(metersPerSecond*3.6)))
}
