package restapi

import (
	"errors"
	"net/http"

	"buswatch.transitkit.org/internal/models"
	"buswatch.transitkit.org/internal/routedb"
	"buswatch.transitkit.org/internal/utils"
)

func (api *RestAPI) routeHandler(w http.ResponseWriter, r *http.Request) {
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

	api.sendResponse(w, r, models.NewEntryResponse(route))
}

func (api *RestAPI) routesHandler(w http.ResponseWriter, r *http.Request) {
	routes, err := api.RouteDB.Queries.ListRoutes(r.Context())
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	if routes == nil {
		routes = []models.RouteGeometry{}
	}

	api.sendResponse(w, r, models.NewListResponse(routes))
}
