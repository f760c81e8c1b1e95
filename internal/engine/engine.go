// Package engine runs a line-of-sight sector sweep across a grid,
// classifying every point into a raster state and reporting progress,
// batch results, and a final summary through caller-supplied callbacks.
package engine

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kestrelrf/losengine/internal/grid"
	"github.com/kestrelrf/losengine/internal/los"
	"github.com/kestrelrf/losengine/internal/raster"
	"github.com/kestrelrf/losengine/internal/rferr"
)

// progressInterval bounds how often OnProgress fires.
const progressInterval = 100 * time.Millisecond

// flushInterval and flushDirtyThreshold bound how often a streaming
// sweep publishes a raster snapshot: 500 ms or 50 000 dirty cells,
// whichever comes first.
const (
	flushInterval       = 500 * time.Millisecond
	flushDirtyThreshold = 50_000
)

// TaskConfig describes one sweep: an antenna sector (with its own
// origin and height AGL), the height AGL of the point being illuminated
// at every grid sample, and an optional frequency enabling Fresnel-zone
// evaluation (<=0 skips it, matching los.Kernel.Evaluate).
type TaskConfig struct {
	Grid            grid.Config
	TargetHeightAGL float64
	FrequencyMHz    float64
}

// Batch is one completed chunk's classified points, reported verbatim to
// OnBatchResult and folded by the coordinator into the running totals.
type Batch struct {
	ChunkID                int
	Processed              int
	Clear, Blocked, NoData int
	Points                 []uint32 // px:12|py:12|state:8, see PackPoint
}

// Summary is delivered to OnComplete exactly once, whether the sweep
// ran to completion or was cancelled.
type Summary struct {
	Mode      string // "direct" or "streaming"
	Stats     raster.Snapshot
	Points    []uint32               // populated only in direct mode
	Snapshot  raster.SnapshotResult  // last published snapshot, streaming mode only
	Cancelled bool
}

// Callbacks are invoked from the coordinator goroutine, never
// concurrently with one another.
type Callbacks struct {
	OnBoundsReady func(bounds raster.Bounds, estimate int)
	OnProgress    func(percent float64)
	OnBatchResult func(batch Batch, percent float64)
	OnSnapshot    func(raster.SnapshotResult)
	OnComplete    func(Summary)
	OnError       func(error)
}

// Handle lets a caller cancel a running sweep.
type Handle struct {
	cancelled atomic.Bool
}

// Cancel requests that the sweep stop. Workers observe the flag at
// their next point, so a chunk in flight stops early; batches that
// reach the coordinator after the flag is set are discarded.
func (h *Handle) Cancel() {
	h.cancelled.Store(true)
}

// Run dispatches a sector sweep across workers and returns immediately
// with a Handle; all Callbacks fire asynchronously from a single
// coordinator goroutine. workers <= 0 uses runtime.NumCPU().
func Run(cfg TaskConfig, source los.ElevationSource, workers int, cb Callbacks) *Handle {
	h := &Handle{}

	if cfg.Grid.MinDistance <= 0 || cfg.Grid.MaxDistance <= cfg.Grid.MinDistance || cfg.Grid.Resolution <= 0 {
		if cb.OnError != nil {
			cb.OnError(rferr.New(rferr.KindConfig, "engine.Run", nil))
		}
		return h
	}

	go run(cfg, source, workers, cb, h)
	return h
}

// run is the coordinator goroutine started by Run: it dispatches chunks
// to the worker pool, folds their batches in one at a time, and fires
// every callback.
func run(cfg TaskConfig, source los.ElevationSource, workers int, cb Callbacks, h *Handle) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	bounds := sectorBounds(cfg.Grid)
	estimate := cfg.Grid.Estimate()
	if cb.OnBoundsReady != nil {
		cb.OnBoundsReady(bounds, estimate)
	}

	mapping := raster.NewMapping(bounds, cfg.Grid.Resolution)

	mode := "direct"
	var buffer *raster.Buffer
	var publisher *raster.Publisher
	if estimate > DirectThreshold {
		mode = "streaming"
		buffer = raster.NewBuffer(mapping.W, mapping.H)
		publisher = raster.NewPublisher(mapping, buffer)
	}

	size := chunkSize(estimate, workers)
	chunks := planChunks(cfg.Grid, size)

	jobs := make(chan chunkRange, workers*2)
	results := make(chan Batch, workers*4)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kernel := los.Kernel{Source: source}
			origin := los.Point{
				Lat:       cfg.Grid.Origin.Lat,
				Lon:       cfg.Grid.Origin.Lon,
				HeightAGL: cfg.Grid.Origin.HeightAGL,
			}
			for chunk := range jobs {
				results <- evaluateChunk(chunk, cfg, kernel, origin, mapping, &h.cancelled)
			}
		}()
	}

	go func() {
		for _, c := range chunks {
			jobs <- c
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	stats := &raster.Stats{}
	var directPoints []uint32
	var processed int
	var lastProgress time.Time
	var dirty int
	var lastFlush time.Time
	var lastSnapshot raster.SnapshotResult

	for batch := range results {
		if h.cancelled.Load() {
			continue
		}

		stats.Add(batch.Clear, batch.Blocked, batch.NoData)
		processed += batch.Processed

		if mode == "direct" {
			directPoints = append(directPoints, batch.Points...)
		} else {
			for _, word := range batch.Points {
				px, py, state := UnpackPoint(word)
				buffer.Merge(px, py, state)
			}
			dirty += len(batch.Points)
			if dirty >= flushDirtyThreshold || time.Since(lastFlush) >= flushInterval {
				if snap, err := publisher.Flush(); err == nil && snap.URL != "" {
					lastSnapshot = snap
					if cb.OnSnapshot != nil {
						cb.OnSnapshot(snap)
					}
				}
				dirty = 0
				lastFlush = time.Now()
			}
		}

		percent := 0.0
		if estimate > 0 {
			percent = float64(processed) / float64(estimate) * 100
			if percent > 100 {
				percent = 100
			}
		}

		if cb.OnBatchResult != nil {
			cb.OnBatchResult(batch, percent)
		}
		if cb.OnProgress != nil && time.Since(lastProgress) >= progressInterval {
			cb.OnProgress(percent)
			lastProgress = time.Now()
		}
	}

	cancelled := h.cancelled.Load()
	if mode == "streaming" && !cancelled {
		if snap, err := publisher.Flush(); err == nil && snap.URL != "" {
			lastSnapshot = snap
		}
	}

	summary := Summary{
		Mode:      mode,
		Stats:     stats.Snapshot(),
		Points:    directPoints,
		Snapshot:  lastSnapshot,
		Cancelled: cancelled,
	}
	if cb.OnComplete != nil {
		cb.OnComplete(summary)
	}
}

// evaluateChunk regenerates one chunk's grid points via Seek and
// classifies each with the LOS kernel, checking the cancellation flag
// between points so a cancelled sweep stops burning CPU on work whose
// result will be discarded.
func evaluateChunk(chunk chunkRange, cfg TaskConfig, kernel los.Kernel, origin los.Point, mapping raster.Mapping, cancelled *atomic.Bool) Batch {
	it := grid.NewIterator(cfg.Grid)
	it.Seek(chunk.k, chunk.m, chunk.idx)

	batch := Batch{ChunkID: chunk.id, Points: make([]uint32, 0, chunk.count)}

	for i := 0; i < chunk.count; i++ {
		if cancelled.Load() {
			break
		}
		p, ok := it.Next()
		if !ok {
			break
		}

		target := los.Point{Lat: p.Lat, Lon: p.Lon, HeightAGL: cfg.TargetHeightAGL}
		result := kernel.Evaluate(origin, target, cfg.FrequencyMHz, false)
		state := classify(result, cfg.FrequencyMHz)

		switch state {
		case raster.Clear:
			batch.Clear++
		case raster.Blocked:
			batch.Blocked++
		case raster.NoData:
			batch.NoData++
		}
		batch.Processed++

		px, py := mapping.PixelFor(p.Lat, p.Lon)
		batch.Points = append(batch.Points, PackPoint(px, py, state))
	}

	return batch
}

// classify maps one LOS result to a raster state. Fresnel clearance
// folds into the verdict whenever a frequency was supplied; otherwise
// optical clearance alone decides.
func classify(r los.Result, freqMHz float64) raster.State {
	if r.NoData {
		return raster.NoData
	}
	clear := r.Clear
	if freqMHz > 0 {
		clear = r.FresnelClear
	}
	if clear {
		return raster.Clear
	}
	return raster.Blocked
}
