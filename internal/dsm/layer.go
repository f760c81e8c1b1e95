// Package dsm ingests heterogenous gridded-elevation files (GeoTIFF, ESRI
// ASCII grid, SRTM HGT, legacy RES) into a uniform Layer shape and
// answers nearest-neighbour elevation queries against the registered set.
// IMG files are recognised by extension and always rejected.
package dsm

import "time"

// Bounds is an axis-aligned rectangle in some coordinate system.
type Bounds struct {
	West, South, East, North float64
}

func (b Bounds) contains(x, y float64) bool {
	return x >= b.West && x <= b.East && y >= b.South && y <= b.North
}

// Layer is an immutable snapshot of a single ingested raster.
type Layer struct {
	ID          string
	DisplayName string
	CreatedAt   time.Time

	Width, Height int
	// Data is row-major, length Width*Height, metres.
	Data []float32

	NoDataSentinel float32
	MinElevation   float64
	MaxElevation   float64

	// CRS is one of "WGS84", "ITM", "ICS".
	CRS string
	// WGS84Bounds is always expressed in WGS84 degrees and is used for the
	// membership test in elevationAt, regardless of the layer's native CRS.
	WGS84Bounds Bounds
	// Projected is true when CRS != "WGS84". NativeBounds is then expressed
	// in the layer's native projected units (metres) and is what pixel
	// indexing is computed against; for unprojected layers NativeBounds
	// equals WGS84Bounds.
	Projected    bool
	NativeBounds Bounds

	SourceAttribution string
	Format            string // "asc", "hgt", "geotiff", "res"
}

// isNoData reports whether v should be treated as missing data: equal to
// the sentinel or non-finite.
func (l *Layer) isNoData(v float32) bool {
	return v == l.NoDataSentinel || isNonFinite32(v)
}

func isNonFinite32(v float32) bool {
	return v != v || v > maxFinite32 || v < -maxFinite32
}

const maxFinite32 = 3.4028235e38
