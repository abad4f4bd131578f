package restapi

import (
	"errors"
	"net/http"
	"time"

	"buswatch.transitkit.org/internal/models"
	"buswatch.transitkit.org/internal/routedb"
	"buswatch.transitkit.org/internal/tracking"
	"buswatch.transitkit.org/internal/utils"
)

// vehiclesForRouteHandler lists the live status of every bus serving a
// route: assigned buses whether or not they are reporting, plus any
// unassigned vehicle whose reports carry the route id.
func (api *RestAPI) vehiclesForRouteHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	ctx := r.Context()

	if _, err := api.RouteDB.Queries.GetRoute(ctx, id); err != nil {
		if errors.Is(err, routedb.ErrNotFound) {
			api.sendNotFound(w, r)
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	assignments, err := api.RouteDB.Queries.AssignmentsForRoute(ctx, id)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	snapshot := api.FeedManager.Snapshot()
	entries := []models.VehicleStatusEntry{}
	covered := map[string]bool{}

	for _, assignment := range assignments {
		key := assignment.DriverID
		if key == "" {
			key = assignment.BusNumber
		}

		report, found := tracking.Resolve(key, snapshot)
		if !found {
			entries = append(entries, models.VehicleStatusEntry{
				BusNumber: assignment.BusNumber,
				RouteID:   assignment.RouteID,
				Status:    tracking.Classify(nil, time.Now()),
			})
			continue
		}

		covered[report.DriverID] = true
		entry := api.buildVehicleStatus(ctx, report, nil)
		if entry.BusNumber == "" {
			entry.BusNumber = assignment.BusNumber
		}
		entries = append(entries, entry)
	}

	for _, report := range snapshot {
		if report.RouteID != id || covered[report.DriverID] {
			continue
		}
		entries = append(entries, api.buildVehicleStatus(ctx, report, nil))
	}

	api.sendResponse(w, r, models.NewListResponse(entries))
}
