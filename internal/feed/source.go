// Package feed maintains the live position snapshot: a map from vehicle
// key to the latest report, refreshed by polling a source in the
// background. Readers always get a consistent copy; a failed refresh
// keeps the previous snapshot in place.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jamespfennell/gtfs"

	"buswatch.transitkit.org/internal/logging"
	"buswatch.transitkit.org/internal/models"
)

// Source produces one complete snapshot per call. Implementations make a
// single attempt; retry cadence belongs to the Manager.
type Source interface {
	Fetch(ctx context.Context) (models.LiveFeedSnapshot, error)
}

// HTTPSource reads a JSON object keyed by driver id, each value a
// position report. This is the native wire format of the live feed.
type HTTPSource struct {
	url        string
	headers    map[string]string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPSource(url string, headers map[string]string, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		url:     url,
		headers: headers,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) (models.LiveFeedSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.url, nil)
	if err != nil {
		return nil, err
	}
	for key, value := range s.headers {
		req.Header.Add(key, value)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer logging.SafeCloseWithLogging(resp.Body, s.logger, "feed_response_body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned HTTP %d", resp.StatusCode)
	}

	var snapshot models.LiveFeedSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, err
	}

	// The feed keys entries by driver id; some publishers leave the id
	// out of the body. Fill it from the key so resolution always works.
	for key, report := range snapshot {
		if report.DriverID == "" {
			report.DriverID = key
			snapshot[key] = report
		}
	}

	return snapshot, nil
}

// GTFSRealtimeSource adapts a GTFS-RT vehicle positions endpoint into the
// snapshot shape. Entities without an id or position are skipped.
type GTFSRealtimeSource struct {
	url        string
	headers    map[string]string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewGTFSRealtimeSource(url string, headers map[string]string, logger *slog.Logger) *GTFSRealtimeSource {
	return &GTFSRealtimeSource{
		url:     url,
		headers: headers,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

func (s *GTFSRealtimeSource) Fetch(ctx context.Context) (models.LiveFeedSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.url, nil)
	if err != nil {
		return nil, err
	}
	for key, value := range s.headers {
		req.Header.Add(key, value)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer logging.SafeCloseWithLogging(resp.Body, s.logger, "gtfsrt_response_body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gtfs-rt feed returned HTTP %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	realtime, err := gtfs.ParseRealtime(b, &gtfs.ParseRealtimeOptions{})
	if err != nil {
		return nil, err
	}

	return snapshotFromVehicles(realtime.Vehicles, time.Now()), nil
}

func snapshotFromVehicles(vehicles []gtfs.Vehicle, now time.Time) models.LiveFeedSnapshot {
	snapshot := models.LiveFeedSnapshot{}

	for _, v := range vehicles {
		if v.ID == nil || v.ID.ID == "" || v.Position == nil {
			continue
		}
		if v.Position.Latitude == nil || v.Position.Longitude == nil {
			continue
		}

		report := models.PositionReport{
			DriverID:  v.ID.ID,
			BusNumber: v.ID.Label,
			Latitude:  float64(*v.Position.Latitude),
			Longitude: float64(*v.Position.Longitude),
			IsOnDuty:  true,
			IsOnline:  true,
		}
		if v.Position.Bearing != nil {
			report.Heading = float64(*v.Position.Bearing)
		}
		if v.Trip != nil {
			report.RouteID = v.Trip.ID.RouteID
		}
		if v.Timestamp != nil {
			report.Timestamp = v.Timestamp.UnixMilli()
		} else {
			report.Timestamp = now.UnixMilli()
		}
		report.LastSeen = report.Timestamp

		snapshot[report.DriverID] = report
	}

	return snapshot
}

// StaticSource serves a fixed snapshot. Used by tests and by in-process
// integrators that push updates themselves.
type StaticSource struct {
	snapshot models.LiveFeedSnapshot
}

func NewStaticSource(snapshot models.LiveFeedSnapshot) *StaticSource {
	return &StaticSource{snapshot: snapshot}
}

func (s *StaticSource) Fetch(ctx context.Context) (models.LiveFeedSnapshot, error) {
	return s.snapshot, nil
}
