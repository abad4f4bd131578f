// Package publisher fans position updates out to NATS so downstream
// consumers (display boards, analytics) can follow buses without polling
// the REST surface.
package publisher

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"buswatch.transitkit.org/internal/models"
)

// PublisherMetrics is the optional instrumentation hook for publish
// outcomes and connection state.
type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	NATSSetConnected(connected bool)
}

// NATSPublisher publishes one message per position report on the subject
// "bus.<route>.<driver>". Consumers subscribe with wildcards, so both
// tokens are sanitized to valid NATS subject tokens.
type NATSPublisher struct {
	nc      *nats.Conn
	logger  *slog.Logger
	metrics PublisherMetrics
}

func NewNATSPublisher(url string, logger *slog.Logger, metrics PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("buswatch"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if metrics != nil {
				metrics.NATSSetConnected(false)
			}
			logger.Warn("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if metrics != nil {
				metrics.NATSSetConnected(true)
			}
			logger.Info("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if metrics != nil {
				metrics.NATSSetConnected(false)
			}
			logger.Info("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if metrics != nil {
		metrics.NATSSetConnected(true)
	}
	return &NATSPublisher{nc: nc, logger: logger, metrics: metrics}, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}

// PublishSnapshot publishes every report in the snapshot. Used as a feed
// subscriber: each successful refresh streams the whole snapshot out.
func (p *NATSPublisher) PublishSnapshot(snapshot models.LiveFeedSnapshot) {
	for _, report := range snapshot {
		if err := p.PublishReport(report); err != nil {
			p.logger.Error("nats publish failed",
				slog.String("driver_id", report.DriverID),
				slog.String("error", err.Error()))
		}
	}
}

func (p *NATSPublisher) PublishReport(report models.PositionReport) error {
	subject := fmt.Sprintf("bus.%s.%s", subjectToken(report.RouteID), subjectToken(report.DriverID))
	b, err := json.Marshal(report)
	if err != nil {
		return err
	}

	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	return err
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS tokens cannot contain spaces, '>', '*', or '.'.
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
