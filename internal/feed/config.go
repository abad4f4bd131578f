package feed

import "time"

// DefaultRefreshInterval is how often the manager polls its source when no
// interval is configured.
const DefaultRefreshInterval = 30 * time.Second

// Config holds the live feed source settings. Exactly one of FeedURL or
// GTFSRTURL selects the source kind; FeedURL wins if both are set.
type Config struct {
	FeedURL         string
	GTFSRTURL       string
	AuthHeaderKey   string
	AuthHeaderValue string
	RefreshInterval time.Duration
}

func (c Config) refreshInterval() time.Duration {
	if c.RefreshInterval <= 0 {
		return DefaultRefreshInterval
	}
	return c.RefreshInterval
}
