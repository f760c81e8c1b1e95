package raster

import "sync/atomic"

// Stats holds running cell-granularity counters, independent of pixel
// resolution: many grid cells can land on the same pixel, so these are
// tracked from the raw per-point classification a worker batch reports,
// not derived from the (lossy) pixel Buffer.
type Stats struct {
	clear   atomic.Int64
	blocked atomic.Int64
	noData  atomic.Int64
}

// Add folds one worker batch's counts into the running totals. Safe for
// concurrent use by multiple reporting workers.
func (s *Stats) Add(clear, blocked, noData int) {
	s.clear.Add(int64(clear))
	s.blocked.Add(int64(blocked))
	s.noData.Add(int64(noData))
}

// Snapshot is an immutable read of the counters at one instant,
// satisfying total = clear + blocked + noData by construction.
type Snapshot struct {
	Total, Clear, Blocked, NoData int64
}

func (s *Stats) Snapshot() Snapshot {
	clear := s.clear.Load()
	blocked := s.blocked.Load()
	noData := s.noData.Load()
	return Snapshot{
		Total:   clear + blocked + noData,
		Clear:   clear,
		Blocked: blocked,
		NoData:  noData,
	}
}
