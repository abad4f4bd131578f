package routedb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"buswatch.transitkit.org/internal/models"
)

type seedFile struct {
	Routes      []seedRoute            `json:"routes"`
	Assignments []models.BusAssignment `json:"assignments"`
}

type seedRoute struct {
	models.RouteGeometry
	Shape []models.Coordinate `json:"shape,omitempty"`
}

// ImportFromFile loads a JSON seed into the database. Existing rows with
// the same ids are replaced, so re-importing the same file is harmless.
func (c *Client) ImportFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("error parsing route seed: %w", err)
	}

	ctx := context.Background()

	for _, route := range seed.Routes {
		if err := c.insertRoute(ctx, route.RouteGeometry); err != nil {
			return err
		}
		if len(route.Shape) > 0 {
			if err := c.Queries.SetShape(ctx, route.ID, route.Shape); err != nil {
				return err
			}
		}
	}

	for _, assignment := range seed.Assignments {
		if err := c.insertAssignment(ctx, assignment); err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) insertRoute(ctx context.Context, g models.RouteGeometry) error {
	_, err := c.DB.ExecContext(ctx, `
		INSERT OR REPLACE INTO routes (
			route_id, route_number, name, origin, destination,
			direction, distance_km, estimated_minutes, fare, active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		g.ID, g.RouteNumber, g.Name, g.Origin, g.Destination,
		string(g.Direction), g.DistanceKm, g.EstimatedMinutes, g.Fare, g.Active)
	if err != nil {
		return fmt.Errorf("error inserting route %s: %w", g.ID, err)
	}

	for _, stop := range g.Stops {
		_, err := c.DB.ExecContext(ctx, `
			INSERT OR REPLACE INTO stops (stop_id, route_id, name, lat, lon, sequence)
			VALUES (?, ?, ?, ?, ?, ?);`,
			stop.ID, g.ID, stop.Name, stop.Latitude, stop.Longitude, stop.Sequence)
		if err != nil {
			return fmt.Errorf("error inserting stop %s: %w", stop.ID, err)
		}
	}

	return nil
}

func (c *Client) insertAssignment(ctx context.Context, a models.BusAssignment) error {
	_, err := c.DB.ExecContext(ctx, `
		INSERT OR REPLACE INTO assignments (
			bus_id, bus_number, bus_name, bus_type, capacity, route_id, driver_id
		) VALUES (?, ?, ?, ?, ?, ?, ?);`,
		a.BusID, a.BusNumber, a.BusName, a.BusType, a.Capacity, a.RouteID, a.DriverID)
	if err != nil {
		return fmt.Errorf("error inserting assignment %s: %w", a.BusID, err)
	}
	return nil
}
