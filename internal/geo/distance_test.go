package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineZeroDistance(t *testing.T) {
	distance := Haversine(13.0827, 80.2707, 13.0827, 80.2707)
	assert.Equal(t, 0.0, distance)
}

func TestHaversineOneThousandthDegreeOfLatitude(t *testing.T) {
	// 0.001° of latitude is ~111.19 m everywhere on the sphere.
	distance := Haversine(13.0, 80.0, 13.001, 80.0)
	assert.InDelta(t, 111.19, distance, 0.5)
}

func TestHaversineIsSymmetric(t *testing.T) {
	forward := Haversine(13.0718, 80.2124, 12.8249, 80.0461)
	backward := Haversine(12.8249, 80.0461, 13.0718, 80.2124)
	assert.InDelta(t, forward, backward, 1e-9)
}

func TestHaversineKnownCityPair(t *testing.T) {
	// Koyambedu CMBT to Kelambakkam is roughly 32.5 km as the crow flies.
	distance := Haversine(13.0718, 80.2124, 12.8249, 80.0461)
	assert.InDelta(t, 32500, distance, 1000)
}

func TestHaversinePropagatesNaN(t *testing.T) {
	distance := Haversine(math.NaN(), 80.0, 13.0, 80.0)
	assert.True(t, math.IsNaN(distance))
}

func TestIsValidCoordinate(t *testing.T) {
	assert.True(t, IsValidCoordinate(13.0827, 80.2707))
	assert.True(t, IsValidCoordinate(-33.8688, 151.2093))

	// (0,0) means "no fix" in the live feed.
	assert.False(t, IsValidCoordinate(0, 0))
	assert.False(t, IsValidCoordinate(91, 80))
	assert.False(t, IsValidCoordinate(-91, 80))
	assert.False(t, IsValidCoordinate(13, 181))
	assert.False(t, IsValidCoordinate(13, -181))

	// (0, lon) and (lat, 0) are unusual but geometrically valid.
	assert.True(t, IsValidCoordinate(0, 80.27))
	assert.True(t, IsValidCoordinate(13.08, 0))
}
