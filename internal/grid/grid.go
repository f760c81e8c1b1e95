// Package grid expands a polar sector configuration into grid points
// without ever materialising the full set: a lazy enumerator over a
// polar (radius, angle) index instead of a Cartesian one.
package grid

import (
	"math"

	"github.com/kestrelrf/losengine/internal/geodesy"
)

// Origin is the sector's apex: a geographic point plus antenna height AGL.
type Origin struct {
	Lat, Lon  float64
	HeightAGL float64
}

// Config describes a sector sweep: an origin, a radial band, an azimuth
// arc, and the linear resolution driving both the radial step count and
// the angular step at each shell.
type Config struct {
	Origin Origin
	// MinDistance/MaxDistance bound the sweep radius in metres. Invariant:
	// 0 < MinDistance < MaxDistance.
	MinDistance, MaxDistance float64
	// MinAzimuth/MaxAzimuth define the arc [minAz, maxAz) in degrees
	// clockwise from true north; wrapping through 360 is permitted. Both
	// are normalised to [0, 360) before use.
	MinAzimuth, MaxAzimuth float64
	// Resolution is the target linear spacing in metres, both radially
	// and (approximately) along each angular shell.
	Resolution float64
}

// Arc returns the azimuth arc's normalised start and its width in
// degrees, per spec's "(maxAz-minAz+360) mod 360, or 360 when equal" rule.
func (c Config) Arc() (start, width float64) {
	start = geodesy.NormaliseAzimuth(c.MinAzimuth)
	end := geodesy.NormaliseAzimuth(c.MaxAzimuth)
	width = math.Mod(end-start+360, 360)
	if width == 0 {
		width = 360
	}
	return start, width
}

// RadialSteps returns K, the number of radial shells the sweep visits.
func (c Config) RadialSteps() int {
	return int(math.Ceil((c.MaxDistance - c.MinDistance) / c.Resolution))
}

// angularStep returns the angular spacing at radius d that keeps arc
// length along that shell close to Resolution, with a 1-degree floor so
// a sector near the origin never demands an unbounded sample count.
func angularStep(d, resolution float64) float64 {
	step := (resolution / (2 * math.Pi * d)) * 360
	if step < 1 {
		return 1
	}
	return step
}

// SamplesAtShell returns M_k, the number of angular samples taken at
// radius d for the configured arc width.
func (c Config) SamplesAtShell(d float64) int {
	_, width := c.Arc()
	return int(math.Ceil(width / angularStep(d, c.Resolution)))
}

// Estimate returns the point-count estimate used for progress
// reporting: K · ceil(width / Δθ(avgD)). It approximates the count the
// Iterator produces and is not a strict bound: narrow arcs, where each
// shell's sample count rounds up, can produce more points than this.
func (c Config) Estimate() int {
	k := c.RadialSteps()
	if k <= 0 {
		return 0
	}
	avgD := (c.MinDistance + c.MaxDistance) / 2
	_, width := c.Arc()
	return k * int(math.Ceil(width/angularStep(avgD, c.Resolution)))
}

// Point is one derived grid sample. Identity depends only on (Config,
// Index), never on floating-point comparison.
type Point struct {
	Index    int
	Lat, Lon float64
	Distance float64
	Bearing  float64
}

// Index identifies a single grid point by its radial shell k and its
// angular sample m within that shell — the two integers the iterator
// needs to deterministically regenerate a point, per spec's "workers
// regenerate their chunk from (gridConfig, chunkRange)" contract.
type Index struct {
	K, M int
}

// PointAt derives the geographic point for shell k, angular sample m.
func (c Config) PointAt(k, m int) Point {
	start, _ := c.Arc()
	d := c.MinDistance + float64(k)*c.Resolution
	theta := start + float64(m)*angularStep(d, c.Resolution)
	lat, lon := geodesy.DestinationPoint(c.Origin.Lat, c.Origin.Lon, geodesy.NormaliseAzimuth(theta), d)
	return Point{Lat: lat, Lon: lon, Distance: d, Bearing: geodesy.NormaliseAzimuth(theta)}
}

// Iterator lazily walks a Config's grid points in shell-major order,
// without ever holding more than the current (k, m) cursor — the global
// point index assigned to each sample only depends on cursor position,
// so an Iterator reset to any (k, m) is exactly equivalent to one that
// walked there step by step (restartable).
type Iterator struct {
	cfg     Config
	k, m    int
	samples int // M_k for the current shell, recomputed on shell change
	index   int
}

// NewIterator returns an Iterator positioned before the first point.
func NewIterator(cfg Config) *Iterator {
	it := &Iterator{cfg: cfg}
	it.samples = cfg.SamplesAtShell(cfg.MinDistance)
	return it
}

// Seek repositions the iterator to shell k, sample m, index idx — used by
// a worker to deterministically resume at the start of its assigned chunk
// without replaying every point before it.
func (it *Iterator) Seek(k, m, idx int) {
	it.k, it.m, it.index = k, m, idx
	d := it.cfg.MinDistance + float64(k)*it.cfg.Resolution
	it.samples = it.cfg.SamplesAtShell(d)
}

// Next returns the next grid point and advances the cursor. ok is false
// once every radial shell has been exhausted.
func (it *Iterator) Next() (Point, bool) {
	k := it.cfg.RadialSteps()
	if it.k >= k {
		return Point{}, false
	}

	p := it.cfg.PointAt(it.k, it.m)
	p.Index = it.index

	it.m++
	it.index++
	if it.m >= it.samples {
		it.m = 0
		it.k++
		if it.k < k {
			d := it.cfg.MinDistance + float64(it.k)*it.cfg.Resolution
			it.samples = it.cfg.SamplesAtShell(d)
		}
	}
	return p, true
}

// Reset returns the iterator to its initial position.
func (it *Iterator) Reset() {
	it.k, it.m, it.index = 0, 0, 0
	it.samples = it.cfg.SamplesAtShell(it.cfg.MinDistance)
}
