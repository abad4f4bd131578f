// Package metrics exposes the service's Prometheus collector. It
// implements the instrumentation interfaces declared by the feed, traffic,
// and publisher packages so those packages never import Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	FeedRefreshes    prometheus.Counter
	FeedRefreshErrs  prometheus.Counter
	FeedVehicles     prometheus.Gauge
	ProviderCalls    prometheus.Counter
	ProviderFallback prometheus.Counter
	NATSPublished    prometheus.Counter
	NATSPublishErrs  prometheus.Counter
	NATSConnected    prometheus.Gauge
	HTTPRequests     *prometheus.CounterVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		FeedRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "buswatch_feed_refreshes_total",
			Help: "Total successful live feed refreshes.",
		}),
		FeedRefreshErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "buswatch_feed_refresh_errors_total",
			Help: "Total failed live feed refreshes.",
		}),
		FeedVehicles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "buswatch_feed_vehicles",
			Help: "Vehicles in the current live feed snapshot.",
		}),
		ProviderCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "buswatch_traffic_provider_calls_total",
			Help: "Total routing provider consultations.",
		}),
		ProviderFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "buswatch_traffic_fallbacks_total",
			Help: "Total ETAs computed via the local fallback.",
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "buswatch_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "buswatch_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "buswatch_nats_connected",
			Help: "1 if the NATS connection is established, 0 otherwise.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "buswatch_http_requests_total",
			Help: "Total HTTP requests by endpoint and status.",
		}, []string{"endpoint", "status"}),
	}

	reg.MustRegister(
		c.FeedRefreshes, c.FeedRefreshErrs, c.FeedVehicles,
		c.ProviderCalls, c.ProviderFallback,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected,
		c.HTTPRequests,
	)

	return c
}

func (c *Collector) FeedRefreshInc()      { c.FeedRefreshes.Inc() }
func (c *Collector) FeedRefreshErrorInc() { c.FeedRefreshErrs.Inc() }
func (c *Collector) FeedVehicleCount(count int) {
	c.FeedVehicles.Set(float64(count))
}

func (c *Collector) ProviderCallInc()     { c.ProviderCalls.Inc() }
func (c *Collector) ProviderFallbackInc() { c.ProviderFallback.Inc() }

func (c *Collector) NATSPublishedInc()  { c.NATSPublished.Inc() }
func (c *Collector) NATSPublishErrInc() { c.NATSPublishErrs.Inc() }
func (c *Collector) NATSSetConnected(connected bool) {
	if connected {
		c.NATSConnected.Set(1)
	} else {
		c.NATSConnected.Set(0)
	}
}

func (c *Collector) HTTPRequestInc(endpoint, status string) {
	c.HTTPRequests.WithLabelValues(endpoint, status).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
