package restapi

import (
	"errors"
	"net/http"

	"buswatch.transitkit.org/internal/models"
	"buswatch.transitkit.org/internal/routedb"
	"buswatch.transitkit.org/internal/tracking"
	"buswatch.transitkit.org/internal/utils"
)

type directionEntry struct {
	RouteNumber string           `json:"routeNumber"`
	Direction   models.Direction `json:"direction"`
	RouteID     string           `json:"routeId,omitempty"`
	From        string           `json:"from,omitempty"`
	To          string           `json:"to,omitempty"`
}

// directionHandler decides which direction of a route number a position
// belongs to and names the terminal stops of that traversal.
func (api *RestAPI) directionHandler(w http.ResponseWriter, r *http.Request) {
	routeNumber := utils.ExtractIDFromParams(r, "routeNumber")
	if err := utils.ValidateID(routeNumber); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"routeNumber": {err.Error()}})
		return
	}

	queryParams := r.URL.Query()
	lat, fieldErrors := utils.ParseFloatParam(queryParams, "lat", nil)
	lon, _ := utils.ParseFloatParam(queryParams, "lon", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	outbound, inbound, err := api.RouteDB.Queries.GetRoutePair(r.Context(), routeNumber)
	if err != nil && !errors.Is(err, routedb.ErrNotFound) {
		api.serverErrorResponse(w, r, err)
		return
	}
	if outbound == nil && inbound == nil {
		api.sendNotFound(w, r)
		return
	}

	direction := tracking.DetectDirection(lat, lon, outbound, inbound)
	route, from, to := tracking.RouteForDirection(direction, outbound, inbound)

	entry := directionEntry{
		RouteNumber: routeNumber,
		Direction:   direction,
	}
	if route != nil {
		entry.RouteID = route.ID
	}
	if from != nil {
		entry.From = from.Name
	}
	if to != nil {
		entry.To = to.Name
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry))
}
