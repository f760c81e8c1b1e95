package engine

import (
	"math"

	"github.com/kestrelrf/losengine/internal/geodesy"
	"github.com/kestrelrf/losengine/internal/grid"
	"github.com/kestrelrf/losengine/internal/raster"
)

// sectorBounds derives the WGS84 bounding rectangle of a sector by
// sampling its boundary: both radii at 73 evenly spaced azimuths across
// the arc, plus the origin. Cardinal directions (N/E/S/W) inside the arc
// are not sampled separately, so the box can fall slightly short of the
// arc's true extent there. Not exact for pathological resolutions, but comfortably covers every
// grid point PointAt can produce (cross-checked by the DSM membership
// test at query time, which is what actually matters for correctness).
func sectorBounds(cfg grid.Config) raster.Bounds {
	start, width := cfg.Arc()

	const boundarySamples = 72
	west, south := math.Inf(1), math.Inf(1)
	east, north := math.Inf(-1), math.Inf(-1)

	grow := func(lat, lon float64) {
		if lon < west {
			west = lon
		}
		if lon > east {
			east = lon
		}
		if lat < south {
			south = lat
		}
		if lat > north {
			north = lat
		}
	}

	radii := []float64{cfg.MinDistance, cfg.MaxDistance}
	for i := 0; i <= boundarySamples; i++ {
		theta := geodesy.NormaliseAzimuth(start + width*float64(i)/float64(boundarySamples))
		for _, d := range radii {
			lat, lon := geodesy.DestinationPoint(cfg.Origin.Lat, cfg.Origin.Lon, theta, d)
			grow(lat, lon)
		}
	}
	// Always include the origin itself: a sector with minDistance > 0
	// never visits it, but it anchors the bounding box sensibly for
	// narrow arcs and is cheap to add.
	grow(cfg.Origin.Lat, cfg.Origin.Lon)

	return raster.Bounds{West: west, South: south, East: east, North: north}
}
