// Package raster maintains the streaming pixel grid a calculation sweep
// folds its results into: a fixed-size state buffer with a totally
// ordered merge rule, and periodic PNG snapshot publication.
package raster

import "math"

// MaxDimension bounds both axes of the pixel grid.
const MaxDimension = 4096

// Bounds is an axis-aligned WGS84 rectangle.
type Bounds struct {
	West, South, East, North float64
}

// Mapping derives a fixed pixel grid from a sector's bounding rectangle
// and a target linear resolution, clamping each axis to MaxDimension and
// recomputing the effective per-pixel step *after* clamping so no pixel
// index generated from PixelFor can ever overflow [0,W)×[0,H).
type Mapping struct {
	Bounds                 Bounds
	W, H                   int
	EffLonStep, EffLatStep float64
	EffResXMetres          float64
	EffResYMetres          float64
}

// NewMapping builds a Mapping for bounds at the given linear resolution
// in metres.
func NewMapping(bounds Bounds, resolutionMetres float64) Mapping {
	midLat := (bounds.North + bounds.South) / 2
	reqLatStep := resolutionMetres / 111320.0
	reqLonStep := resolutionMetres / (111320.0 * math.Cos(midLat*math.Pi/180.0))

	w := clampDim(int(math.Ceil((bounds.East - bounds.West) / reqLonStep)))
	h := clampDim(int(math.Ceil((bounds.North - bounds.South) / reqLatStep)))

	effLonStep := (bounds.East - bounds.West) / float64(w)
	effLatStep := (bounds.North - bounds.South) / float64(h)

	return Mapping{
		Bounds:        bounds,
		W:             w,
		H:             h,
		EffLonStep:    effLonStep,
		EffLatStep:    effLatStep,
		EffResXMetres: effLonStep * 111320.0 * math.Cos(midLat*math.Pi/180.0),
		EffResYMetres: effLatStep * 111320.0,
	}
}

func clampDim(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxDimension {
		return MaxDimension
	}
	return n
}

// PixelFor maps a WGS84 point to its pixel index, clamped into the grid.
func (m Mapping) PixelFor(lat, lon float64) (px, py int) {
	px = int(math.Floor((lon - m.Bounds.West) / m.EffLonStep))
	py = int(math.Floor((m.Bounds.North - lat) / m.EffLatStep))

	if px < 0 {
		px = 0
	}
	if px >= m.W {
		px = m.W - 1
	}
	if py < 0 {
		py = 0
	}
	if py >= m.H {
		py = m.H - 1
	}
	return px, py
}
