package restapi

import (
	"net/http"
	"strconv"
	"time"

	"buswatch.transitkit.org/internal/models"
	"buswatch.transitkit.org/internal/utils"
)

// etaHandler returns a traffic-aware arrival estimate between two points.
// The estimate never fails: with no provider configured or reachable it is
// computed locally at an assumed average speed.
func (api *RestAPI) etaHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	originLat, fieldErrors := utils.ParseFloatParam(queryParams, "originLat", nil)
	originLon, _ := utils.ParseFloatParam(queryParams, "originLon", fieldErrors)
	destLat, _ := utils.ParseFloatParam(queryParams, "destLat", fieldErrors)
	destLon, _ := utils.ParseFloatParam(queryParams, "destLon", fieldErrors)

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	for key, value := range map[string]float64{"originLat": originLat, "destLat": destLat} {
		if err := utils.ValidateLatitude(value); err != nil {
			fieldErrors[key] = append(fieldErrors[key], err.Error())
		}
	}
	for key, value := range map[string]float64{"originLon": originLon, "destLon": destLon} {
		if err := utils.ValidateLongitude(value); err != nil {
			fieldErrors[key] = append(fieldErrors[key], err.Error())
		}
	}

	// departureTime is optional epoch milliseconds; omitted means now.
	departure := time.Now()
	if raw := queryParams.Get("departureTime"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ms <= 0 {
			fieldErrors["departureTime"] = append(fieldErrors["departureTime"], `Invalid field value for field "departureTime".`)
		} else {
			departure = time.UnixMilli(ms)
		}
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	origin := models.Coordinate{Lat: originLat, Lon: originLon}
	destination := models.Coordinate{Lat: destLat, Lon: destLon}

	result := api.ETAService.EstimateWithTraffic(r.Context(), origin, destination, departure)
	api.sendResponse(w, r, models.NewEntryResponse(result))
}
