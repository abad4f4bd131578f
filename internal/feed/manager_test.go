package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buswatch.transitkit.org/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type flakySource struct {
	mu       sync.Mutex
	snapshot models.LiveFeedSnapshot
	err      error
	fetches  int
}

func (s *flakySource) Fetch(ctx context.Context) (models.LiveFeedSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

func (s *flakySource) set(snapshot models.LiveFeedSnapshot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	s.err = err
}

func testSnapshot() models.LiveFeedSnapshot {
	return models.LiveFeedSnapshot{
		"driver-1": {
			DriverID:  "driver-1",
			BusNumber: "TN-01-1234",
			RouteID:   "route-570",
			Latitude:  13.07,
			Longitude: 80.19,
			IsOnDuty:  true,
			IsOnline:  true,
			Timestamp: time.Now().UnixMilli(),
		},
	}
}

func TestManagerInitialRefresh(t *testing.T) {
	source := &flakySource{snapshot: testSnapshot()}
	manager := NewManager(source, Config{RefreshInterval: time.Hour}, discardLogger(), nil)
	defer manager.Shutdown()

	snapshot := manager.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "TN-01-1234", snapshot["driver-1"].BusNumber)
	assert.False(t, manager.LastUpdated().IsZero())
}

func TestManagerSnapshotIsACopy(t *testing.T) {
	source := &flakySource{snapshot: testSnapshot()}
	manager := NewManager(source, Config{RefreshInterval: time.Hour}, discardLogger(), nil)
	defer manager.Shutdown()

	first := manager.Snapshot()
	delete(first, "driver-1")

	second := manager.Snapshot()
	assert.Len(t, second, 1)
}

func TestManagerFailedRefreshKeepsSnapshot(t *testing.T) {
	source := &flakySource{snapshot: testSnapshot()}
	manager := NewManager(source, Config{RefreshInterval: time.Hour}, discardLogger(), nil)
	defer manager.Shutdown()

	source.set(nil, errors.New("feed down"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	manager.refresh(ctx)

	snapshot := manager.Snapshot()
	assert.Len(t, snapshot, 1, "failed refresh must not clear the snapshot")
}

func TestManagerSubscribersNotified(t *testing.T) {
	source := &flakySource{snapshot: testSnapshot()}
	manager := NewManager(source, Config{RefreshInterval: time.Hour}, discardLogger(), nil)
	defer manager.Shutdown()

	var mu sync.Mutex
	var seen []int
	manager.Subscribe(func(snapshot models.LiveFeedSnapshot) {
		mu.Lock()
		seen = append(seen, len(snapshot))
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	manager.refresh(ctx)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, 1, seen[0])
}

func TestManagerShutdownIdempotent(t *testing.T) {
	source := &flakySource{snapshot: testSnapshot()}
	manager := NewManager(source, Config{RefreshInterval: 10 * time.Millisecond}, discardLogger(), nil)

	manager.Shutdown()
	manager.Shutdown()
}

func TestManagerPeriodicRefresh(t *testing.T) {
	source := &flakySource{snapshot: testSnapshot()}
	manager := NewManager(source, Config{RefreshInterval: 10 * time.Millisecond}, discardLogger(), nil)
	defer manager.Shutdown()

	assert.Eventually(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.fetches >= 3
	}, 2*time.Second, 10*time.Millisecond)
}
