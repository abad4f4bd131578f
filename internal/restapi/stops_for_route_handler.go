package restapi

import (
	"errors"
	"net/http"

	"buswatch.transitkit.org/internal/models"
	"buswatch.transitkit.org/internal/routedb"
	"buswatch.transitkit.org/internal/utils"
)

func (api *RestAPI) stopsForRouteHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(id); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"id": {err.Error()}})
		return
	}

	route, err := api.RouteDB.Queries.GetRoute(r.Context(), id)
	if errors.Is(err, routedb.ErrNotFound) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	stops := route.Stops
	if stops == nil {
		stops = []models.RouteStop{}
	}

	api.sendResponse(w, r, models.NewListResponse(stops))
}
