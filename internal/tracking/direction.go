package tracking

import (
	"buswatch.transitkit.org/internal/geo"
	"buswatch.transitkit.org/internal/models"
)

// Direction heuristic constants, tuned empirically against live fleet
// traces. Changing them changes observable behavior.
const (
	// directionMarginMeters is the distance by which one route's nearest
	// stop must beat the other's. The margin is strict: a tie at exactly
	// 500 m falls through to the progress heuristic.
	directionMarginMeters = 500.0

	earlyRouteProgress = 0.3
	lateRouteProgress  = 0.7
)

type nearestStop struct {
	index          int
	distanceMeters float64
	found          bool
}

func nearestStopTo(lat, lon float64, stops []models.RouteStop) nearestStop {
	result := nearestStop{}
	for i, stop := range stops {
		if !geo.IsValidCoordinate(stop.Latitude, stop.Longitude) {
			continue
		}
		d := geo.Haversine(lat, lon, stop.Latitude, stop.Longitude)
		if !result.found || d < result.distanceMeters {
			result = nearestStop{index: i, distanceMeters: d, found: true}
		}
	}
	return result
}

// DetectDirection decides which of two opposite-direction geometries a
// vehicle is traversing. When only one geometry is known it wins
// unconditionally. Otherwise the nearest stop in each geometry is compared:
// the side that is more than 500 m closer wins. When neither dominates, the
// nearest stops' normalized positions along their routes break the tie
// (early outbound + late return reads as going, and vice versa), defaulting
// to going when still ambiguous.
//
// This is a heuristic, not a proof. Empty stop lists and positions without
// a fix are normal states and fall back to the defaults.
func DetectDirection(lat, lon float64, outbound, inbound *models.RouteGeometry) models.Direction {
	if outbound == nil || inbound == nil {
		if outbound != nil {
			return models.DirectionGoing
		}
		return models.DirectionComing
	}

	if !geo.IsValidCoordinate(lat, lon) {
		return models.DirectionGoing
	}

	nearestGoing := nearestStopTo(lat, lon, outbound.Stops)
	nearestComing := nearestStopTo(lat, lon, inbound.Stops)

	if !nearestGoing.found || !nearestComing.found {
		return models.DirectionGoing
	}

	if nearestGoing.distanceMeters < nearestComing.distanceMeters-directionMarginMeters {
		return models.DirectionGoing
	}
	if nearestComing.distanceMeters < nearestGoing.distanceMeters-directionMarginMeters {
		return models.DirectionComing
	}

	goingProgress := float64(nearestGoing.index) / float64(len(outbound.Stops))
	comingProgress := float64(nearestComing.index) / float64(len(inbound.Stops))

	if goingProgress < earlyRouteProgress && comingProgress > lateRouteProgress {
		return models.DirectionGoing
	}
	if goingProgress > lateRouteProgress && comingProgress < earlyRouteProgress {
		return models.DirectionComing
	}

	return models.DirectionGoing
}

// RouteForDirection picks the geometry and terminal stops to present for a
// detected direction. Stops are stored in travel order per direction, so
// both directions read origin-first.
func RouteForDirection(direction models.Direction, outbound, inbound *models.RouteGeometry) (route *models.RouteGeometry, from, to *models.RouteStop) {
	if direction == models.DirectionComing {
		if inbound == nil {
			return nil, nil, nil
		}
		return inbound, inbound.OriginStop(), inbound.TerminusStop()
	}
	if outbound == nil {
		return nil, nil, nil
	}
	return outbound, outbound.OriginStop(), outbound.TerminusStop()
}
