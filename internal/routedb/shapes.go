package routedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/twpayne/go-polyline"

	"buswatch.transitkit.org/internal/models"
)

// SetShape stores the route's geometry as an encoded polyline.
func (q *Queries) SetShape(ctx context.Context, routeID string, points []models.Coordinate) error {
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	encoded := string(polyline.EncodeCoords(coords))

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO shapes (route_id, encoded_polyline) VALUES (?, ?)
		ON CONFLICT(route_id) DO UPDATE SET encoded_polyline = excluded.encoded_polyline`,
		routeID, encoded)
	if err != nil {
		return fmt.Errorf("error storing shape: %w", err)
	}
	return nil
}

// GetShape returns the route's decoded shape points.
func (q *Queries) GetShape(ctx context.Context, routeID string) ([]models.Coordinate, error) {
	var encoded string
	err := q.db.QueryRowContext(ctx,
		`SELECT encoded_polyline FROM shapes WHERE route_id = ?`, routeID).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("error decoding shape: %w", err)
	}

	points := make([]models.Coordinate, 0, len(coords))
	for _, c := range coords {
		points = append(points, models.Coordinate{Lat: c[0], Lon: c[1]})
	}
	return points, nil
}

// GetEncodedShape returns the stored polyline without decoding, for
// handlers that pass it straight through.
func (q *Queries) GetEncodedShape(ctx context.Context, routeID string) (string, error) {
	var encoded string
	err := q.db.QueryRowContext(ctx,
		`SELECT encoded_polyline FROM shapes WHERE route_id = ?`, routeID).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return encoded, err
}
