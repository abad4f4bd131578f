package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buswatch.transitkit.org/internal/app"
	"buswatch.transitkit.org/internal/appconf"
	"buswatch.transitkit.org/internal/feed"
	"buswatch.transitkit.org/internal/models"
	"buswatch.transitkit.org/internal/routedb"
	"buswatch.transitkit.org/internal/tracking"
	"buswatch.transitkit.org/internal/traffic"
)

const testAPIKey = "TEST"

func createTestApi(t *testing.T, snapshot models.LiveFeedSnapshot) *RestAPI {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	routeClient, err := routedb.NewClient(routedb.Config{
		DBPath:   ":memory:",
		SeedPath: "testdata/routes.json",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = routeClient.Close() })

	manager := feed.NewManager(feed.NewStaticSource(snapshot),
		feed.Config{RefreshInterval: time.Hour}, logger, nil)
	t.Cleanup(manager.Shutdown)

	application := &app.Application{
		Config: appconf.Config{
			Env:       appconf.Test,
			ApiKeys:   []string{testAPIKey},
			RateLimit: 1000,
		},
		Logger:      logger,
		FeedManager: manager,
		RouteDB:     routeClient,
		Estimator:   tracking.NewKinematicEstimator(),
		ETAService:  traffic.NewETAService(nil, logger, nil),
	}

	return NewRestAPI(application, nil)
}

func newStaticManager(t *testing.T, snapshot models.LiveFeedSnapshot) *feed.Manager {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	manager := feed.NewManager(feed.NewStaticSource(snapshot),
		feed.Config{RefreshInterval: time.Hour}, logger, nil)
	t.Cleanup(manager.Shutdown)
	return manager
}

func serveAPIRequest(t *testing.T, api *RestAPI, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	mux := http.NewServeMux()
	api.SetRoutes(mux)
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func entryFrom(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "response has no data object")
	entry, ok := data["entry"].(map[string]any)
	require.True(t, ok, "response data has no entry object")
	return entry
}

func listFrom(t *testing.T, body map[string]any) []any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "response has no data object")
	list, ok := data["list"].([]any)
	require.True(t, ok, "response data has no list")
	return list
}

func liveSnapshot(timestamp time.Time) models.LiveFeedSnapshot {
	return models.LiveFeedSnapshot{
		"driver-1": {
			DriverID:   "driver-1",
			DriverName: "Kumar",
			BusNumber:  "TN-01-1234",
			RouteID:    "route-570-going",
			RouteName:  "570 Koyambedu - Kelambakkam",
			Latitude:   13.0067,
			Longitude:  80.2206,
			IsOnDuty:   true,
			IsOnline:   true,
			Timestamp:  timestamp.UnixMilli(),
		},
		"driver-2": {
			DriverID:  "driver-2",
			BusNumber: "TN-01-5678",
			RouteID:   "route-570-coming",
			Latitude:  12.9165,
			Longitude: 80.1920,
			IsOnDuty:  true,
			IsOnline:  false,
			Timestamp: timestamp.UnixMilli(),
		},
	}
}

func TestRequestWithoutAPIKeyIsRejected(t *testing.T) {
	api := createTestApi(t, models.LiveFeedSnapshot{})

	rec := serveAPIRequest(t, api, "/api/where/current-time.json")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, "permission denied", body["text"])
}

func TestCurrentTimeHandler(t *testing.T) {
	api := createTestApi(t, models.LiveFeedSnapshot{})

	rec := serveAPIRequest(t, api, "/api/where/current-time.json?key="+testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code)

	entry := entryFrom(t, decodeResponse(t, rec))
	assert.NotEmpty(t, entry["readableTime"])
	assert.InDelta(t, float64(time.Now().UnixMilli()), entry["time"].(float64), 5000)
}

func TestRouteHandler(t *testing.T) {
	api := createTestApi(t, models.LiveFeedSnapshot{})

	rec := serveAPIRequest(t, api, "/api/where/route/route-570-going.json?key="+testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code)

	entry := entryFrom(t, decodeResponse(t, rec))
	assert.Equal(t, "570", entry["routeNumber"])
	assert.Equal(t, "going", entry["direction"])
	assert.Len(t, entry["stops"], 4)
}

func TestRouteHandlerNotFound(t *testing.T) {
	api := createTestApi(t, models.LiveFeedSnapshot{})

	rec := serveAPIRequest(t, api, "/api/where/route/route-999?key="+testAPIKey)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutesHandler(t *testing.T) {
	api := createTestApi(t, models.LiveFeedSnapshot{})

	rec := serveAPIRequest(t, api, "/api/where/routes.json?key="+testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, listFrom(t, decodeResponse(t, rec)), 3)
}

func TestStopsForRouteHandler(t *testing.T) {
	api := createTestApi(t, models.LiveFeedSnapshot{})

	rec := serveAPIRequest(t, api, "/api/where/stops-for-route/route-570-going.json?key="+testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code)

	list := listFrom(t, decodeResponse(t, rec))
	require.Len(t, list, 4)
	first := list[0].(map[string]any)
	assert.Equal(t, "Koyambedu", first["name"])
}

func TestRoutesBetweenHandler(t *testing.T) {
	api := createTestApi(t, models.LiveFeedSnapshot{})

	rec := serveAPIRequest(t, api,
		"/api/where/routes-between.json?from=Koyambedu&to=Kelambakkam&key="+testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code)

	list := listFrom(t, decodeResponse(t, rec))
	require.Len(t, list, 1)
	route := list[0].(map[string]any)
	assert.Equal(t, "route-570-going", route["id"])
}

func TestRoutesBetweenHandlerRequiresStops(t *testing.T) {
	api := createTestApi(t, models.LiveFeedSnapshot{})

	rec := serveAPIRequest(t, api, "/api/where/routes-between.json?from=Koyambedu&key="+testAPIKey)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeResponse(t, rec)
	fieldErrors := body["fieldErrors"].(map[string]any)
	assert.Contains(t, fieldErrors, "to")
}

func TestStopsForLocationHandler(t *testing.T) {
	api := createTestApi(t, models.LiveFeedSnapshot{})

	rec := serveAPIRequest(t, api,
		"/api/where/stops-for-location.json?lat=13.0067&lon=80.2206&radius=500&key="+testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code)

	list := listFrom(t, decodeResponse(t, rec))
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	assert.Equal(t, "Guindy", first["name"])
}

func TestStopsForLocationHandlerValidation(t *testing.T) {
	api := createTestApi(t, models.LiveFeedSnapshot{})

	rec := serveAPIRequest(t, api,
		"/api/where/stops-for-location.json?lat=91&lon=80.2&key="+testAPIKey)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShapeHandler(t *testing.T) {
	api := createTestApi(t, models.LiveFeedSnapshot{})

	rec := serveAPIRequest(t, api, "/api/where/shape/route-570-going.json?key="+testAPIKey)
	require.Equal(t, http.StatusOK, rec.Code)

	entry := entryFrom(t, decodeResponse(t, rec))
	assert.Equal(t, "route-570-going", entry["routeId"])
	assert.NotEmpty(t, entry["encodedPolyline"])
	assert.Equal(t, float64(4), entry["length"])
}

func TestShapeHandlerNotFound(t *testing.T) {
	api := createTestApi(t, models.LiveFeedSnapshot{})

	rec := serveAPIRequest(t, api, "/api/where/shape/route-21g-going?key="+testAPIKey)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
