package restapi

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/url"
	"time"

	"buswatch.transitkit.org/internal/geo"
	"buswatch.transitkit.org/internal/models"
	"buswatch.transitkit.org/internal/routedb"
	"buswatch.transitkit.org/internal/tracking"
	"buswatch.transitkit.org/internal/utils"
)

// vehicleStatusHandler resolves a vehicle by any identity the caller has
// (driver id, route id, bus number) and returns its live status. Kinematic
// signals are only derived when the report is trusted; a stale report
// still exposes its last known position. Callers may pass targetLat and
// targetLon to get an ETA to their own point instead of the route
// terminus.
func (api *RestAPI) vehicleStatusHandler(w http.ResponseWriter, r *http.Request) {
	key := utils.ExtractIDFromParams(r, "key")
	if err := utils.ValidateID(key); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"key": {err.Error()}})
		return
	}

	target, fieldErrors := parseTargetParams(r.URL.Query())
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	snapshot := api.FeedManager.Snapshot()
	report, found := tracking.Resolve(key, snapshot)

	if !found {
		entry := models.VehicleStatusEntry{
			Status: tracking.Classify(nil, time.Now()),
		}
		api.sendResponse(w, r, models.NewEntryResponse(entry))
		return
	}

	entry := api.buildVehicleStatus(r.Context(), report, target)
	api.sendResponse(w, r, models.NewEntryResponse(entry))
}

// parseTargetParams reads the optional targetLat/targetLon pair. Both must
// be present together and within coordinate bounds.
func parseTargetParams(queryParams url.Values) (*models.Coordinate, map[string][]string) {
	if queryParams.Get("targetLat") == "" && queryParams.Get("targetLon") == "" {
		return nil, nil
	}

	targetLat, fieldErrors := utils.ParseFloatParam(queryParams, "targetLat", nil)
	targetLon, _ := utils.ParseFloatParam(queryParams, "targetLon", fieldErrors)

	if queryParams.Get("targetLat") == "" {
		fieldErrors["targetLat"] = append(fieldErrors["targetLat"], "targetLat is required when targetLon is supplied")
	}
	if queryParams.Get("targetLon") == "" {
		fieldErrors["targetLon"] = append(fieldErrors["targetLon"], "targetLon is required when targetLat is supplied")
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}

	if err := utils.ValidateLatitude(targetLat); err != nil {
		fieldErrors["targetLat"] = append(fieldErrors["targetLat"], err.Error())
	}
	if err := utils.ValidateLongitude(targetLon); err != nil {
		fieldErrors["targetLon"] = append(fieldErrors["targetLon"], err.Error())
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}

	return &models.Coordinate{Lat: targetLat, Lon: targetLon}, nil
}

func (api *RestAPI) buildVehicleStatus(ctx context.Context, report models.PositionReport, callerTarget *models.Coordinate) models.VehicleStatusEntry {
	classification := tracking.Classify(&report, time.Now())

	entry := models.VehicleStatusEntry{
		DriverID:       report.DriverID,
		DriverName:     report.DriverName,
		BusNumber:      report.BusNumber,
		RouteID:        report.RouteID,
		RouteName:      report.RouteName,
		Status:         classification,
		LastUpdateTime: report.Timestamp,
	}
	if report.Latitude != 0 || report.Longitude != 0 {
		entry.Position = &models.Coordinate{Lat: report.Latitude, Lon: report.Longitude}
	}

	if !classification.Trusted() {
		return entry
	}

	outbound, inbound := api.routePairFor(ctx, report.RouteID)

	target := callerTarget
	if outbound != nil || inbound != nil {
		direction := tracking.DetectDirection(report.Latitude, report.Longitude, outbound, inbound)
		entry.Direction = direction

		if target == nil {
			if _, _, to := tracking.RouteForDirection(direction, outbound, inbound); to != nil {
				target = &models.Coordinate{Lat: to.Latitude, Lon: to.Longitude}
			}
		}
	}

	est := api.Estimator.Estimate(report.DriverID, report, target)
	entry.SpeedMps = est.SpeedMps
	if est.SpeedMps > 0 {
		entry.SpeedText = models.FormatSpeedKmh(est.SpeedMps)
	}
	entry.HeadingCompass = est.HeadingCompass
	if est.HasETA {
		entry.ETASeconds = int(math.Round(est.ETASeconds))
		entry.ETAText = est.ETAText
		if target != nil {
			distance := geo.Haversine(report.Latitude, report.Longitude, target.Lat, target.Lon)
			entry.DistanceText = models.FormatDistance(distance)
		}
	}

	return entry
}

// routePairFor loads both directions of the report's route. A report with
// no route, or a route this deployment does not know, simply yields no
// direction signal.
func (api *RestAPI) routePairFor(ctx context.Context, routeID string) (outbound, inbound *models.RouteGeometry) {
	if routeID == "" || api.RouteDB == nil {
		return nil, nil
	}
	outbound, inbound, err := api.RouteDB.Queries.GetRoutePairForRoute(ctx, routeID)
	if err != nil && !errors.Is(err, routedb.ErrNotFound) {
		api.Logger.Error("route pair lookup failed", "route_id", routeID, "error", err)
	}
	return outbound, inbound
}
