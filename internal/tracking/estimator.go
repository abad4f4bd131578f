package tracking

import (
	"math"
	"sync"

	"buswatch.transitkit.org/internal/geo"
	"buswatch.transitkit.org/internal/models"
)

// CoordinateEpsilon is the jitter floor in degrees (~0.1 m). Successive
// reports whose latitude and longitude both move less than this are treated
// as stationary rather than GPS noise.
const CoordinateEpsilon = 1e-6

// Estimate is the kinematic output for one report. HasETA is false when
// speed is zero or no target was supplied; an ETA of zero is never emitted.
type Estimate struct {
	SpeedMps       float64
	HeadingCompass string
	HasETA         bool
	ETASeconds     float64
	ETAText        string
}

// KinematicEstimator derives speed and ETA from successive position
// reports. It owns the only mutable state in the engine: one previous
// report slot per vehicle key. Slots are guarded per key, so concurrent
// updates for distinct vehicles never serialize against each other.
type KinematicEstimator struct {
	mu    sync.Mutex
	slots map[string]*vehicleSlot
}

type vehicleSlot struct {
	mu   sync.Mutex
	prev *models.PositionReport
}

func NewKinematicEstimator() *KinematicEstimator {
	return &KinematicEstimator{
		slots: make(map[string]*vehicleSlot),
	}
}

func (e *KinematicEstimator) slot(vehicleKey string) *vehicleSlot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.slots[vehicleKey]
	if !ok {
		s = &vehicleSlot{}
		e.slots[vehicleKey] = s
	}
	return s
}

// Estimate computes instantaneous speed from the previous and current
// report for a vehicle, and an ETA to target when one is supplied. The
// first sample for a vehicle yields speed 0 and no ETA. Reports without a
// coordinate fix are rejected before any distance math and leave the
// stored previous report untouched.
//
// When two updates for one vehicle race, the later-timestamped report wins
// the slot; speed is always computed against whatever was stored at read
// time.
func (e *KinematicEstimator) Estimate(vehicleKey string, current models.PositionReport, target *models.Coordinate) Estimate {
	if !geo.IsValidCoordinate(current.Latitude, current.Longitude) {
		return Estimate{}
	}

	s := e.slot(vehicleKey)
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.prev
	if prev == nil || current.Timestamp >= prev.Timestamp {
		stored := current
		s.prev = &stored
	}

	if prev == nil {
		return Estimate{}
	}

	est := Estimate{}

	latDiff := math.Abs(current.Latitude - prev.Latitude)
	lonDiff := math.Abs(current.Longitude - prev.Longitude)
	if latDiff >= CoordinateEpsilon || lonDiff >= CoordinateEpsilon {
		distance := geo.Haversine(prev.Latitude, prev.Longitude, current.Latitude, current.Longitude)
		elapsedSeconds := float64(current.Timestamp-prev.Timestamp) / 1000

		// Guards against clock skew and duplicate timestamps.
		if elapsedSeconds > 0 && distance > 0 {
			est.SpeedMps = distance / elapsedSeconds
			est.HeadingCompass = geo.CompassDirection(prev.Latitude, prev.Longitude, current.Latitude, current.Longitude)
		}
	}

	if est.SpeedMps > 0 && target != nil && geo.IsValidCoordinate(target.Lat, target.Lon) {
		distanceToTarget := geo.Haversine(current.Latitude, current.Longitude, target.Lat, target.Lon)
		est.HasETA = true
		est.ETASeconds = distanceToTarget / est.SpeedMps
		est.ETAText = models.FormatDuration(int(math.Round(est.ETASeconds)))
	}

	return est
}

// Forget drops the stored previous report for a vehicle, e.g. when it
// disappears from the feed.
func (e *KinematicEstimator) Forget(vehicleKey string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.slots, vehicleKey)
}
