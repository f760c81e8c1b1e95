package geodesy

import "math"

// DetectCRS guesses whether a bounding box's corner coordinates are
// WGS84 geographic degrees or a projected grid, and if projected,
// whether it's ITM or ICS. The detector is advisory only — an explicit
// CRS on upload always overrides it.
func DetectCRS(west, south, east, north float64) string {
	minCoord := math.Min(math.Min(math.Abs(west), math.Abs(south)), math.Min(math.Abs(east), math.Abs(north)))
	maxCoord := math.Max(math.Max(math.Abs(west), math.Abs(south)), math.Max(math.Abs(east), math.Abs(north)))

	if !(minCoord > 1000 && maxCoord > 50000) {
		return "WGS84"
	}

	// Projected. Any northing below 400,000 marks the legacy ICS grid.
	if south < 400_000 || north < 400_000 {
		return "ICS"
	}
	return "ITM"
}
