package models

import "sort"

// RouteStop is one stop along a route geometry. Sequence is strictly
// increasing along the direction of travel.
type RouteStop struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Sequence  int     `json:"sequence"`
}

// RouteGeometry is an ordered stop sequence for one direction of travel.
// Two geometries with the same RouteNumber and opposite Direction describe
// the same physical road traversed in opposite stop order. The first stop
// is the route's nominal origin for its direction.
type RouteGeometry struct {
	ID               string      `json:"id"`
	RouteNumber      string      `json:"routeNumber"`
	Name             string      `json:"name"`
	Origin           string      `json:"origin,omitempty"`
	Destination      string      `json:"destination,omitempty"`
	Direction        Direction   `json:"direction"`
	DistanceKm       float64     `json:"distanceKm,omitempty"`
	EstimatedMinutes int         `json:"estimatedMinutes,omitempty"`
	Fare             float64     `json:"fare,omitempty"`
	Active           bool        `json:"active"`
	Stops            []RouteStop `json:"stops,omitempty"`
}

// SortStops orders the stop list by sequence, restoring the geometry
// invariant after a load from storage.
func (g *RouteGeometry) SortStops() {
	sort.Slice(g.Stops, func(i, j int) bool {
		return g.Stops[i].Sequence < g.Stops[j].Sequence
	})
}

// OriginStop returns the first stop of the geometry, or nil when the route
// has no stops. Zero stops is a normal state, not an error.
func (g *RouteGeometry) OriginStop() *RouteStop {
	if len(g.Stops) == 0 {
		return nil
	}
	return &g.Stops[0]
}

// TerminusStop returns the last stop of the geometry, or nil when the route
// has no stops.
func (g *RouteGeometry) TerminusStop() *RouteStop {
	if len(g.Stops) == 0 {
		return nil
	}
	return &g.Stops[len(g.Stops)-1]
}

// BusAssignment records which bus (and driver) serves a route.
type BusAssignment struct {
	BusID     string `json:"busId"`
	BusNumber string `json:"busNumber"`
	BusName   string `json:"busName,omitempty"`
	BusType   string `json:"busType,omitempty"`
	Capacity  int    `json:"capacity,omitempty"`
	RouteID   string `json:"routeId"`
	DriverID  string `json:"driverId,omitempty"`
}
