package restapi

import (
	"net/http"

	"buswatch.transitkit.org/internal/models"
	"buswatch.transitkit.org/internal/utils"
)

func (api *RestAPI) stopsForLocationHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	lat, fieldErrors := utils.ParseFloatParam(queryParams, "lat", nil)
	lon, _ := utils.ParseFloatParam(queryParams, "lon", fieldErrors)
	radius, _ := utils.ParseFloatParam(queryParams, "radius", fieldErrors)

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	locationErrors := utils.ValidateLocationParams(lat, lon, radius)
	if len(locationErrors) > 0 {
		api.validationErrorResponse(w, r, locationErrors)
		return
	}

	stops, err := api.RouteDB.Queries.StopsNear(r.Context(), lat, lon, radius)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	if stops == nil {
		stops = []models.RouteStop{}
	}

	api.sendResponse(w, r, models.NewListResponse(stops))
}
