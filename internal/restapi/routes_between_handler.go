package restapi

import (
	"net/http"

	"buswatch.transitkit.org/internal/models"
)

// routesBetweenHandler lists routes that pass the "from" stop before the
// "to" stop, matched by stop name. Service order matters: the opposite
// direction of the same road does not connect the stops.
func (api *RestAPI) routesBetweenHandler(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()
	from := queryParams.Get("from")
	to := queryParams.Get("to")

	fieldErrors := map[string][]string{}
	if from == "" {
		fieldErrors["from"] = append(fieldErrors["from"], "from stop is required")
	}
	if to == "" {
		fieldErrors["to"] = append(fieldErrors["to"], "to stop is required")
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	routes, err := api.RouteDB.Queries.RoutesBetween(r.Context(), from, to)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	if routes == nil {
		routes = []models.RouteGeometry{}
	}

	api.sendResponse(w, r, models.NewListResponse(routes))
}
