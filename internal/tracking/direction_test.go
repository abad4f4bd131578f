package tracking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"buswatch.transitkit.org/internal/geo"
	"buswatch.transitkit.org/internal/models"
)

// metersPerDegreeLat converts a north-south distance to degrees of
// latitude; along a meridian the great-circle distance is exactly
// R * delta-phi, which keeps these fixtures precise.
const metersPerDegreeLat = geo.EarthRadiusMeters * math.Pi / 180

func degLat(meters float64) float64 {
	return meters / metersPerDegreeLat
}

func stopsAlongMeridian(baseLat, lon float64, count int, spacingMeters float64) []models.RouteStop {
	stops := make([]models.RouteStop, 0, count)
	for i := 0; i < count; i++ {
		stops = append(stops, models.RouteStop{
			ID:        string(rune('a' + i)),
			Latitude:  baseLat + degLat(float64(i)*spacingMeters),
			Longitude: lon,
			Sequence:  i + 1,
		})
	}
	return stops
}

func reversed(stops []models.RouteStop) []models.RouteStop {
	out := make([]models.RouteStop, 0, len(stops))
	for i := len(stops) - 1; i >= 0; i-- {
		s := stops[i]
		s.Sequence = len(stops) - i
		out = append(out, s)
	}
	return out
}

func TestDetectDirectionSingleRouteShortCircuits(t *testing.T) {
	outbound := &models.RouteGeometry{Direction: models.DirectionGoing,
		Stops: stopsAlongMeridian(13.0, 80.0, 5, 1000)}

	// Position is irrelevant when only one geometry is known.
	assert.Equal(t, models.DirectionGoing, DetectDirection(13.0, 80.0, outbound, nil))
	assert.Equal(t, models.DirectionGoing, DetectDirection(99.0, 99.0, outbound, nil))

	inbound := &models.RouteGeometry{Direction: models.DirectionComing,
		Stops: stopsAlongMeridian(13.0, 80.0, 5, 1000)}
	assert.Equal(t, models.DirectionComing, DetectDirection(13.0, 80.0, nil, inbound))
	assert.Equal(t, models.DirectionComing, DetectDirection(13.0, 80.0, nil, nil))
}

func TestDetectDirectionByDistanceMargin(t *testing.T) {
	// Outbound runs along longitude 80.0, return along 80.1 (~10.8 km
	// away). A position on the outbound road wins by far more than the
	// 500 m margin.
	outbound := &models.RouteGeometry{Stops: stopsAlongMeridian(13.0, 80.0, 6, 1000)}
	inbound := &models.RouteGeometry{Stops: stopsAlongMeridian(13.0, 80.1, 6, 1000)}

	assert.Equal(t, models.DirectionGoing, DetectDirection(13.001, 80.0, outbound, inbound))
	assert.Equal(t, models.DirectionComing, DetectDirection(13.001, 80.1, outbound, inbound))
}

func TestDetectDirectionMarginIsStrict(t *testing.T) {
	// Nearest return stop is 499 m closer than the nearest outbound stop:
	// inside the margin, so the distance rule must NOT fire. The progress
	// heuristic then reads "late in outbound list, early in return list"
	// as coming.
	outbound := &models.RouteGeometry{Stops: []models.RouteStop{
		{ID: "g1", Latitude: 13.0 - degLat(30_000), Longitude: 80.0, Sequence: 1},
		{ID: "g2", Latitude: 13.0 - degLat(20_000), Longitude: 80.0, Sequence: 2},
		{ID: "g3", Latitude: 13.0 - degLat(10_000), Longitude: 80.0, Sequence: 3},
		{ID: "g4", Latitude: 13.0 + degLat(999), Longitude: 80.0, Sequence: 4},
	}}
	inbound := &models.RouteGeometry{Stops: []models.RouteStop{
		{ID: "c1", Latitude: 13.0 + degLat(500), Longitude: 80.0, Sequence: 1},
		{ID: "c2", Latitude: 13.0 + degLat(10_000), Longitude: 80.0, Sequence: 2},
		{ID: "c3", Latitude: 13.0 + degLat(20_000), Longitude: 80.0, Sequence: 3},
		{ID: "c4", Latitude: 13.0 + degLat(30_000), Longitude: 80.0, Sequence: 4},
	}}

	// Nearest outbound stop g4 is 999 m away (index 3 of 4, progress
	// 0.75); nearest return stop c1 is 500 m away (index 0, progress 0).
	assert.Equal(t, models.DirectionComing, DetectDirection(13.0, 80.0, outbound, inbound))
}

func TestDetectDirectionOutsideMarginIgnoresProgress(t *testing.T) {
	// Same shape as above, but the return stop is now 501+ m closer than
	// the outbound one, so distance decides and progress never runs.
	outbound := &models.RouteGeometry{Stops: []models.RouteStop{
		{ID: "g1", Latitude: 13.0 - degLat(30_000), Longitude: 80.0, Sequence: 1},
		{ID: "g2", Latitude: 13.0 + degLat(1100), Longitude: 80.0, Sequence: 2},
	}}
	inbound := &models.RouteGeometry{Stops: []models.RouteStop{
		{ID: "c1", Latitude: 13.0 + degLat(400), Longitude: 80.0, Sequence: 1},
		{ID: "c2", Latitude: 13.0 + degLat(30_000), Longitude: 80.0, Sequence: 2},
	}}

	assert.Equal(t, models.DirectionComing, DetectDirection(13.0, 80.0, outbound, inbound))
}

func TestDetectDirectionProgressHeuristic(t *testing.T) {
	// Both geometries describe the same physical road, so nearest-stop
	// distances tie and progress decides. Near the southern end the
	// vehicle is early in the outbound list and late in the return list.
	going := stopsAlongMeridian(13.0, 80.0, 10, 1000)
	outbound := &models.RouteGeometry{Stops: going}
	inbound := &models.RouteGeometry{Stops: reversed(going)}

	nearSouthEnd := 13.0 + degLat(100)
	assert.Equal(t, models.DirectionGoing, DetectDirection(nearSouthEnd, 80.0, outbound, inbound))

	nearNorthEnd := 13.0 + degLat(8900)
	assert.Equal(t, models.DirectionComing, DetectDirection(nearNorthEnd, 80.0, outbound, inbound))

	// Mid-route is genuinely ambiguous: default to going.
	midRoute := 13.0 + degLat(4500)
	assert.Equal(t, models.DirectionGoing, DetectDirection(midRoute, 80.0, outbound, inbound))
}

func TestDetectDirectionEmptyStopListsDefaultGoing(t *testing.T) {
	outbound := &models.RouteGeometry{}
	inbound := &models.RouteGeometry{Stops: stopsAlongMeridian(13.0, 80.0, 3, 1000)}

	assert.Equal(t, models.DirectionGoing, DetectDirection(13.0, 80.0, outbound, inbound))
}

func TestDetectDirectionInvalidPositionDefaultsGoing(t *testing.T) {
	outbound := &models.RouteGeometry{Stops: stopsAlongMeridian(13.0, 80.0, 3, 1000)}
	inbound := &models.RouteGeometry{Stops: stopsAlongMeridian(13.0, 80.1, 3, 1000)}

	assert.Equal(t, models.DirectionGoing, DetectDirection(0, 0, outbound, inbound))
}

func TestRouteForDirection(t *testing.T) {
	outbound := &models.RouteGeometry{ID: "r570_going", Stops: stopsAlongMeridian(13.0, 80.0, 3, 1000)}
	inbound := &models.RouteGeometry{ID: "r570_coming", Stops: stopsAlongMeridian(13.0, 80.0, 3, 1000)}

	route, from, to := RouteForDirection(models.DirectionGoing, outbound, inbound)
	assert.Equal(t, "r570_going", route.ID)
	assert.Equal(t, "a", from.ID)
	assert.Equal(t, "c", to.ID)

	route, from, to = RouteForDirection(models.DirectionComing, outbound, inbound)
	assert.Equal(t, "r570_coming", route.ID)
	assert.Equal(t, "a", from.ID)
	assert.Equal(t, "c", to.ID)

	route, from, to = RouteForDirection(models.DirectionComing, outbound, nil)
	assert.Nil(t, route)
	assert.Nil(t, from)
	assert.Nil(t, to)
}
