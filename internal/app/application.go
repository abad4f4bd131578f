package app

import (
	"log/slog"

	"buswatch.transitkit.org/internal/appconf"
	"buswatch.transitkit.org/internal/feed"
	"buswatch.transitkit.org/internal/routedb"
	"buswatch.transitkit.org/internal/tracking"
	"buswatch.transitkit.org/internal/traffic"
)

// Application holds the dependencies for our HTTP handlers, helpers, and
// middleware: configuration, the structured logger, the live feed manager,
// the route/stop store, the kinematic estimator, and the traffic-aware ETA
// service.
type Application struct {
	Config      appconf.Config
	Logger      *slog.Logger
	FeedManager *feed.Manager
	RouteDB     *routedb.Client
	Estimator   *tracking.KinematicEstimator
	ETAService  *traffic.ETAService
}
