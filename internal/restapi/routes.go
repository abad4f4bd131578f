package restapi

import (
	"net/http"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/where/current-time.json", validateAPIKey(api, api.currentTimeHandler))
	mux.Handle("GET /api/where/route/{id}", validateAPIKey(api, api.routeHandler))
	mux.Handle("GET /api/where/routes.json", validateAPIKey(api, api.routesHandler))
	mux.Handle("GET /api/where/stops-for-route/{id}", validateAPIKey(api, api.stopsForRouteHandler))
	mux.Handle("GET /api/where/vehicles-for-route/{id}", validateAPIKey(api, api.vehiclesForRouteHandler))
	mux.Handle("GET /api/where/routes-between.json", validateAPIKey(api, api.routesBetweenHandler))
	mux.Handle("GET /api/where/stops-for-location.json", validateAPIKey(api, api.stopsForLocationHandler))
	mux.Handle("GET /api/where/shape/{routeId}", validateAPIKey(api, api.shapeHandler))
	mux.Handle("GET /api/live/vehicle-status/{key}", validateAPIKey(api, api.vehicleStatusHandler))
	mux.Handle("GET /api/live/eta.json", validateAPIKey(api, api.etaHandler))
	mux.Handle("GET /api/live/direction/{routeNumber}", validateAPIKey(api, api.directionHandler))
}

// Handler assembles the full middleware chain around the route mux.
func (api *RestAPI) Handler() http.Handler {
	mux := http.NewServeMux()
	api.SetRoutes(mux)

	var handler http.Handler = mux
	handler = api.rateLimiter(handler)
	handler = applyGzipMiddleware(handler)
	handler = securityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.Logger, api.metrics)(handler)
	return handler
}
