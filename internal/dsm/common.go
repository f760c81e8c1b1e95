package dsm

import (
	"fmt"
	"math"

	"github.com/kestrelrf/losengine/internal/geodesy"
)

func errParseMsg(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// geodesyDetectCRS applies the advisory CRS heuristic to a layer's raw
// header bounds, used only when no explicit CRS override is supplied to
// the parser.
func geodesyDetectCRS(b Bounds) string {
	return geodesy.DetectCRS(b.West, b.South, b.East, b.North)
}

// applyBounds fills in layer.WGS84Bounds, layer.NativeBounds and
// layer.Projected from the raw header bounds nativeRaw, which are
// expressed in whatever units layer.CRS names. For a WGS84 layer this is
// a no-op copy; for a projected layer the four corners are inverse-
// projected to obtain the WGS84 membership box while nativeRaw is kept
// verbatim for pixel indexing.
func applyBounds(layer *Layer, nativeRaw Bounds) {
	if layer.CRS == "" || layer.CRS == "WGS84" {
		layer.CRS = "WGS84"
		layer.WGS84Bounds = nativeRaw
		layer.NativeBounds = nativeRaw
		layer.Projected = false
		return
	}

	layer.Projected = true
	layer.NativeBounds = nativeRaw

	proj := geodesy.ForCRS(layer.CRS)
	corners := [4][2]float64{
		{nativeRaw.West, nativeRaw.South},
		{nativeRaw.West, nativeRaw.North},
		{nativeRaw.East, nativeRaw.South},
		{nativeRaw.East, nativeRaw.North},
	}

	west, south := math.Inf(1), math.Inf(1)
	east, north := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		lon, lat := proj.ToWGS84(c[0], c[1])
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
	layer.WGS84Bounds = Bounds{West: west, South: south, East: east, North: north}
}

// computeMinMax scans layer.Data and sets MinElevation/MaxElevation over
// valid (non-sentinel, finite) samples.
func computeMinMax(layer *Layer) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range layer.Data {
		if layer.isNoData(v) {
			continue
		}
		fv := float64(v)
		if fv < min {
			min = fv
		}
		if fv > max {
			max = fv
		}
	}
	layer.MinElevation = min
	layer.MaxElevation = max
}
