package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"buswatch.transitkit.org/internal/logging"
	"buswatch.transitkit.org/internal/models"
)

// ManagerMetrics is the optional instrumentation hook for refresh
// outcomes.
type ManagerMetrics interface {
	FeedRefreshInc()
	FeedRefreshErrorInc()
	FeedVehicleCount(count int)
}

// Subscriber is called after every successful refresh with the new
// snapshot. Subscribers run on the refresh goroutine and must not block.
type Subscriber func(snapshot models.LiveFeedSnapshot)

// Manager owns the current snapshot and refreshes it from its source in
// the background. All access goes through Snapshot, which returns a copy.
type Manager struct {
	source  Source
	config  Config
	logger  *slog.Logger
	metrics ManagerMetrics

	mu          sync.RWMutex
	snapshot    models.LiveFeedSnapshot
	lastUpdated time.Time

	subMu       sync.Mutex
	subscribers []Subscriber

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewManager builds a manager over the given source, runs one immediate
// refresh, and starts the background polling loop.
func NewManager(source Source, config Config, logger *slog.Logger, metrics ManagerMetrics) *Manager {
	manager := &Manager{
		source:       source,
		config:       config,
		logger:       logger,
		metrics:      metrics,
		snapshot:     models.LiveFeedSnapshot{},
		shutdownChan: make(chan struct{}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	manager.refresh(ctx)

	manager.wg.Add(1)
	go manager.refreshPeriodically()

	return manager
}

// Shutdown stops the polling loop and waits for it to exit. Safe to call
// more than once.
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
	})
}

// Snapshot returns a copy of the current snapshot. Callers may read it
// freely; it never changes under them.
func (manager *Manager) Snapshot() models.LiveFeedSnapshot {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	snapshot := make(models.LiveFeedSnapshot, len(manager.snapshot))
	for key, report := range manager.snapshot {
		snapshot[key] = report
	}
	return snapshot
}

// LastUpdated reports when the snapshot last refreshed successfully. Zero
// means it never has.
func (manager *Manager) LastUpdated() time.Time {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.lastUpdated
}

// Subscribe registers fn to run after every successful refresh.
func (manager *Manager) Subscribe(fn Subscriber) {
	manager.subMu.Lock()
	defer manager.subMu.Unlock()
	manager.subscribers = append(manager.subscribers, fn)
}

func (manager *Manager) refresh(ctx context.Context) {
	snapshot, err := manager.source.Fetch(ctx)
	if err != nil {
		logging.LogError(manager.logger, "Error refreshing live feed", err,
			slog.String("component", "feed"))
		if manager.metrics != nil {
			manager.metrics.FeedRefreshErrorInc()
		}
		return
	}
	if snapshot == nil {
		snapshot = models.LiveFeedSnapshot{}
	}

	manager.mu.Lock()
	manager.snapshot = snapshot
	manager.lastUpdated = time.Now()
	manager.mu.Unlock()

	if manager.metrics != nil {
		manager.metrics.FeedRefreshInc()
		manager.metrics.FeedVehicleCount(len(snapshot))
	}

	manager.notify()
}

func (manager *Manager) notify() {
	snapshot := manager.Snapshot()

	manager.subMu.Lock()
	subscribers := make([]Subscriber, len(manager.subscribers))
	copy(subscribers, manager.subscribers)
	manager.subMu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

func (manager *Manager) refreshPeriodically() {
	defer manager.wg.Done()

	logger := manager.logger.With(slog.String("component", "feed_updater"))

	ticker := time.NewTicker(manager.config.refreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			ctx = logging.WithLogger(ctx, logger)

			logging.LogOperation(logger, "refreshing_live_feed")
			manager.refresh(ctx)
			cancel()
		case <-manager.shutdownChan:
			logging.LogOperation(logger, "shutting_down_feed_updates")
			return
		}
	}
}
