package engine

import "github.com/kestrelrf/losengine/internal/grid"

// DirectThreshold is the estimate below which a sweep returns its full
// point list directly instead of switching to streaming raster mode.
const DirectThreshold = 50_000

// minChunkSize/maxChunkSize bound the chunk size clamp.
const (
	minChunkSize = 256
	maxChunkSize = 16_384
)

// chunkSize computes C = clamp(estimate/(workers·32), 256, 16384).
func chunkSize(estimate, workers int) int {
	if workers < 1 {
		workers = 1
	}
	c := estimate / (workers * 32)
	if c < minChunkSize {
		return minChunkSize
	}
	if c > maxChunkSize {
		return maxChunkSize
	}
	return c
}

// chunkRange is the deterministic resume key a worker needs to regenerate
// its assigned slice of grid points without the coordinator ever
// materialising the full point list.
type chunkRange struct {
	id         int
	k, m, idx  int // iterator Seek position at the chunk's first point
	count      int // number of points in this chunk (may be less than the
	// nominal chunk size for the final, partial chunk)
}

// planChunks walks cfg's iterator once — cheap integer bookkeeping, no
// elevation lookups — recording a Seek position every size points, so the
// coordinator holds only one (k, m, idx) tuple per chunk rather than every
// point in the sweep.
func planChunks(cfg grid.Config, size int) []chunkRange {
	var chunks []chunkRange
	chunkID := 0
	count := 0
	startK, startM, startIdx := 0, 0, 0

	flush := func() {
		if count > 0 {
			chunks = append(chunks, chunkRange{id: chunkID, k: startK, m: startM, idx: startIdx, count: count})
			chunkID++
		}
	}

	// Mirrors the shell/sample bookkeeping grid.Iterator.Next performs
	// internally, but only to record chunk boundaries — cfg.PointAt /
	// DestinationPoint are never invoked here, so planning a sweep's
	// chunks costs integer arithmetic only, regardless of sweep size.
	k, m, idx := 0, 0, 0
	K := cfg.RadialSteps()
	samples := cfg.SamplesAtShell(cfg.MinDistance)

	for k < K {
		if count == 0 {
			startK, startM, startIdx = k, m, idx
		}
		count++
		idx++
		m++
		if m >= samples {
			m = 0
			k++
			if k < K {
				d := cfg.MinDistance + float64(k)*cfg.Resolution
				samples = cfg.SamplesAtShell(d)
			}
		}
		if count >= size {
			flush()
			count = 0
		}
	}
	flush()

	return chunks
}
