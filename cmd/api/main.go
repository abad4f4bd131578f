package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"buswatch.transitkit.org/internal/app"
	"buswatch.transitkit.org/internal/appconf"
	"buswatch.transitkit.org/internal/feed"
	"buswatch.transitkit.org/internal/logging"
	"buswatch.transitkit.org/internal/metrics"
	"buswatch.transitkit.org/internal/publisher"
	"buswatch.transitkit.org/internal/restapi"
	"buswatch.transitkit.org/internal/routedb"
	"buswatch.transitkit.org/internal/tracking"
	"buswatch.transitkit.org/internal/traffic"
)

type serverConfig struct {
	port           int
	envFlag        string
	apiKeys        string
	feedURL        string
	gtfsRTURL      string
	authHeaderKey  string
	authHeaderVal  string
	refreshSeconds int
	dbPath         string
	seedPath       string
	trafficBaseURL string
	trafficAPIKey  string
	natsURL        string
	rateLimit      int
}

// envDefault prefers the environment (including values loaded from .env)
// over the flag's built-in default.
func envDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	var cfg serverConfig
	flag.IntVar(&cfg.port, "port", 4000, "API server port")
	flag.StringVar(&cfg.envFlag, "env", envDefault("BUSWATCH_ENV", "development"), "Environment (development|test|production)")
	flag.StringVar(&cfg.apiKeys, "api-keys", envDefault("API_KEYS", "test"), "Comma separated API keys")
	flag.StringVar(&cfg.feedURL, "feed-url", os.Getenv("FEED_URL"), "URL of the live position feed (JSON)")
	flag.StringVar(&cfg.gtfsRTURL, "gtfsrt-url", os.Getenv("GTFSRT_URL"), "URL of a GTFS-RT vehicle positions feed (used when no feed-url is set)")
	flag.StringVar(&cfg.authHeaderKey, "feed-auth-header", os.Getenv("FEED_AUTH_HEADER"), "Optional auth header name for the feed")
	flag.StringVar(&cfg.authHeaderVal, "feed-auth-value", os.Getenv("FEED_AUTH_VALUE"), "Optional auth header value for the feed")
	flag.IntVar(&cfg.refreshSeconds, "refresh-interval", 30, "Feed refresh interval in seconds")
	flag.StringVar(&cfg.dbPath, "db-path", envDefault("DB_PATH", "routes.db"), "Path to the SQLite route database")
	flag.StringVar(&cfg.seedPath, "seed-path", os.Getenv("SEED_PATH"), "Optional JSON route seed imported on startup")
	flag.StringVar(&cfg.trafficBaseURL, "traffic-base-url", envDefault("TRAFFIC_BASE_URL", "https://maps.googleapis.com/maps/api/distancematrix/json"), "Distance matrix API base URL")
	flag.StringVar(&cfg.trafficAPIKey, "traffic-api-key", os.Getenv("TRAFFIC_API_KEY"), "Distance matrix API key (empty disables the provider)")
	flag.StringVar(&cfg.natsURL, "nats-url", os.Getenv("NATS_URL"), "NATS server URL (empty disables publishing)")
	flag.IntVar(&cfg.rateLimit, "rate-limit", 100, "Requests per second per API key (negative disables limiting)")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)

	appConfig := appconf.Config{
		Port:      cfg.port,
		Env:       appconf.EnvFlagToEnvironment(cfg.envFlag),
		RateLimit: cfg.rateLimit,
	}
	for _, key := range strings.Split(cfg.apiKeys, ",") {
		if key = strings.TrimSpace(key); key != "" {
			appConfig.ApiKeys = append(appConfig.ApiKeys, key)
		}
	}

	collector := metrics.NewCollector()

	routeClient, err := routedb.NewClient(routedb.Config{
		DBPath:   cfg.dbPath,
		SeedPath: cfg.seedPath,
	})
	if err != nil {
		logger.Error("failed to open route database", "error", err)
		os.Exit(1)
	}
	defer logging.SafeCloseWithLogging(routeClient, logger, "route_database")

	feedConfig := feed.Config{
		FeedURL:         cfg.feedURL,
		GTFSRTURL:       cfg.gtfsRTURL,
		AuthHeaderKey:   cfg.authHeaderKey,
		AuthHeaderValue: cfg.authHeaderVal,
		RefreshInterval: time.Duration(cfg.refreshSeconds) * time.Second,
	}
	source := buildFeedSource(feedConfig, logger)
	manager := feed.NewManager(source, feedConfig, logger, collector)
	defer manager.Shutdown()

	if cfg.natsURL != "" {
		natsPublisher, err := publisher.NewNATSPublisher(cfg.natsURL, logger, collector)
		if err != nil {
			logger.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsPublisher.Close()
		manager.Subscribe(natsPublisher.PublishSnapshot)
	}

	var provider traffic.Provider
	if cfg.trafficAPIKey != "" {
		provider = traffic.NewMatrixClient(cfg.trafficBaseURL, cfg.trafficAPIKey, logger)
	}
	etaService := traffic.NewETAService(provider, logger, collector)

	application := &app.Application{
		Config:      appConfig,
		Logger:      logger,
		FeedManager: manager,
		RouteDB:     routeClient,
		Estimator:   tracking.NewKinematicEstimator(),
		ETAService:  etaService,
	}

	api := restapi.NewRestAPI(application, collector)

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.Handle("/", api.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.port),
		Handler:      mux,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownErr := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	logger.Info("starting server", "addr", srv.Addr, "env", appConfig.Env.String())
	err = srv.ListenAndServe()
	if err != http.ErrServerClosed {
		logger.Error(err.Error())
		os.Exit(1)
	}

	if err := <-shutdownErr; err != nil {
		logger.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped server")
}

// buildFeedSource picks the live feed implementation. A JSON feed URL wins
// over GTFS-RT; with neither configured the service starts with an empty
// static snapshot, which keeps the route endpoints usable.
func buildFeedSource(config feed.Config, logger *slog.Logger) feed.Source {
	headers := map[string]string{}
	if config.AuthHeaderKey != "" && config.AuthHeaderValue != "" {
		headers[config.AuthHeaderKey] = config.AuthHeaderValue
	}

	switch {
	case config.FeedURL != "":
		return feed.NewHTTPSource(config.FeedURL, headers, logger)
	case config.GTFSRTURL != "":
		return feed.NewGTFSRealtimeSource(config.GTFSRTURL, headers, logger)
	default:
		logger.Warn("no live feed configured, starting with an empty snapshot")
		return feed.NewStaticSource(nil)
	}
}
