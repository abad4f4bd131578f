package routedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"

	"buswatch.transitkit.org/internal/geo"
	"buswatch.transitkit.org/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Queries wraps the read and write statements over the route schema.
type Queries struct {
	db *sql.DB
}

const routeColumns = `route_id, route_number, name, origin, destination,
	direction, distance_km, estimated_minutes, fare, active`

func scanRoute(row interface{ Scan(...any) error }) (models.RouteGeometry, error) {
	var g models.RouteGeometry
	var direction string
	err := row.Scan(&g.ID, &g.RouteNumber, &g.Name, &g.Origin, &g.Destination,
		&direction, &g.DistanceKm, &g.EstimatedMinutes, &g.Fare, &g.Active)
	if err != nil {
		return models.RouteGeometry{}, err
	}
	g.Direction = models.Direction(direction)
	return g, nil
}

// GetRoute loads one route geometry with its stops in sequence order.
func (q *Queries) GetRoute(ctx context.Context, routeID string) (*models.RouteGeometry, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+routeColumns+` FROM routes WHERE route_id = ?`, routeID)

	g, err := scanRoute(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	stops, err := q.GetStopsForRoute(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.Stops = stops
	return &g, nil
}

// GetRoutePair loads both directions of a route number. Either side may be
// nil when only one direction is defined; callers handle the single-route
// case themselves.
func (q *Queries) GetRoutePair(ctx context.Context, routeNumber string) (outbound, inbound *models.RouteGeometry, err error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+routeColumns+` FROM routes WHERE route_number = ? AND active = 1`, routeNumber)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		g, err := scanRoute(rows)
		if err != nil {
			return nil, nil, err
		}
		switch g.Direction {
		case models.DirectionGoing:
			outbound = &g
		case models.DirectionComing:
			inbound = &g
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	for _, g := range []*models.RouteGeometry{outbound, inbound} {
		if g == nil {
			continue
		}
		stops, err := q.GetStopsForRoute(ctx, g.ID)
		if err != nil {
			return nil, nil, err
		}
		g.Stops = stops
	}

	return outbound, inbound, nil
}

// GetRoutePairForRoute resolves the route id to its route number, then
// loads both directions.
func (q *Queries) GetRoutePairForRoute(ctx context.Context, routeID string) (outbound, inbound *models.RouteGeometry, err error) {
	var routeNumber string
	err = q.db.QueryRowContext(ctx,
		`SELECT route_number FROM routes WHERE route_id = ?`, routeID).Scan(&routeNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return q.GetRoutePair(ctx, routeNumber)
}

// ListRoutes returns every route geometry without stops, ordered by route
// number then direction.
func (q *Queries) ListRoutes(ctx context.Context) ([]models.RouteGeometry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+routeColumns+` FROM routes ORDER BY route_number, direction`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []models.RouteGeometry
	for rows.Next() {
		g, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, g)
	}
	return routes, rows.Err()
}

// GetStopsForRoute returns the route's stops in sequence order.
func (q *Queries) GetStopsForRoute(ctx context.Context, routeID string) ([]models.RouteStop, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT stop_id, name, lat, lon, sequence FROM stops
		 WHERE route_id = ? ORDER BY sequence`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stops []models.RouteStop
	for rows.Next() {
		var s models.RouteStop
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.Sequence); err != nil {
			return nil, err
		}
		stops = append(stops, s)
	}
	return stops, rows.Err()
}

// AssignmentsForRoute returns the buses assigned to a route.
func (q *Queries) AssignmentsForRoute(ctx context.Context, routeID string) ([]models.BusAssignment, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT bus_id, bus_number, bus_name, bus_type, capacity, route_id, driver_id
		 FROM assignments WHERE route_id = ? ORDER BY bus_number`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.BusAssignment
	for rows.Next() {
		var a models.BusAssignment
		if err := rows.Scan(&a.BusID, &a.BusNumber, &a.BusName, &a.BusType,
			&a.Capacity, &a.RouteID, &a.DriverID); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// RoutesBetween returns routes that pass fromStop before toStop, matching
// stop names case-insensitively. Order along the route matters: a route
// that serves both stops in the wrong order does not connect them.
func (q *Queries) RoutesBetween(ctx context.Context, fromStop, toStop string) ([]models.RouteGeometry, error) {
	rows, err := q.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM routes r
		WHERE r.active = 1
		  AND EXISTS (
			SELECT 1 FROM stops a, stops b
			WHERE a.route_id = r.route_id AND b.route_id = r.route_id
			  AND LOWER(a.name) = LOWER(?) AND LOWER(b.name) = LOWER(?)
			  AND a.sequence < b.sequence
		  )
		ORDER BY r.route_number`, routeColumns), fromStop, toStop)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []models.RouteGeometry
	for rows.Next() {
		g, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, g)
	}
	return routes, rows.Err()
}

// StopsNear returns stops within radius meters of the point, closest
// first. The bounding box narrows the candidate set; the precise filter is
// the great-circle distance.
func (q *Queries) StopsNear(ctx context.Context, lat, lon, radius float64) ([]models.RouteStop, error) {
	if radius <= 0 {
		radius = 1000
	}

	// 1 degree latitude is about 111km; longitude shrinks with latitude.
	latDegreeInMeters := 111000.0
	lonDegreeInMeters := 111000.0 * math.Cos(lat*math.Pi/180)

	latRadiusDegrees := radius / latDegreeInMeters
	lonRadiusDegrees := radius / lonDegreeInMeters

	rows, err := q.db.QueryContext(ctx,
		`SELECT stop_id, name, lat, lon, sequence FROM stops
		 WHERE lat BETWEEN ? AND ? AND lon BETWEEN ? AND ?`,
		lat-latRadiusDegrees, lat+latRadiusDegrees,
		lon-lonRadiusDegrees, lon+lonRadiusDegrees)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type stopWithDistance struct {
		stop     models.RouteStop
		distance float64
	}
	var candidates []stopWithDistance

	for rows.Next() {
		var s models.RouteStop
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.Sequence); err != nil {
			return nil, err
		}
		distance := geo.Haversine(lat, lon, s.Latitude, s.Longitude)
		if distance <= radius {
			candidates = append(candidates, stopWithDistance{s, distance})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	stops := make([]models.RouteStop, 0, len(candidates))
	for _, c := range candidates {
		stops = append(stops, c.stop)
	}
	return stops, nil
}
