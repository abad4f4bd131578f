// Package tracking implements the live bus matching engine: resolving an
// ambiguous lookup key against the feed snapshot, classifying how much a
// report can be trusted, deriving speed and ETA from successive reports,
// and disambiguating which direction of a bidirectional route a vehicle is
// traversing.
package tracking

import (
	"buswatch.transitkit.org/internal/models"
)

// Resolve finds the live report matching a lookup key, which may be a
// driver id, a route id, or a bus number. Matching runs in strict priority
// order, first match wins:
//
//  1. direct vehicle-key lookup
//  2. scan for a routeId match
//  3. scan for a busNumber match
//  4. scan for a vehicleKey match
//
// Route-id matches outrank bus-number matches because callers usually hold
// a route context and rarely know the exact driver id; this ordering is a
// fixed policy and callers depend on it. A false second return means no
// report matched, a normal "nothing assigned" state.
func Resolve(key string, snapshot models.LiveFeedSnapshot) (models.PositionReport, bool) {
	if report, ok := snapshot[key]; ok {
		return report, true
	}

	for _, report := range snapshot {
		if report.RouteID == key {
			return report, true
		}
	}

	for _, report := range snapshot {
		if report.BusNumber == key {
			return report, true
		}
	}

	for _, report := range snapshot {
		if report.DriverID == key {
			return report, true
		}
	}

	return models.PositionReport{}, false
}
