package geo

// IsValidCoordinate reports whether a latitude/longitude pair is usable for
// distance math. The live feed emits (0,0) when a device has no fix, so an
// exact (0,0) is treated as absent data rather than a point off the coast of
// Africa.
func IsValidCoordinate(lat, lon float64) bool {
	if lat == 0 && lon == 0 {
		return false
	}
	if lat < -90 || lat > 90 {
		return false
	}
	if lon < -180 || lon > 180 {
		return false
	}
	return true
}
