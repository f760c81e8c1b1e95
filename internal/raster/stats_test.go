package raster

import (
	"sync"
	"testing"
)

func TestStatsTotalEqualsSum(t *testing.T) {
	var s Stats
	s.Add(10, 3, 2)
	s.Add(5, 0, 1)

	snap := s.Snapshot()
	if snap.Total != snap.Clear+snap.Blocked+snap.NoData {
		t.Fatalf("Total = %d, want Clear+Blocked+NoData = %d", snap.Total, snap.Clear+snap.Blocked+snap.NoData)
	}
	if snap.Clear != 15 || snap.Blocked != 3 || snap.NoData != 3 {
		t.Errorf("snapshot = %+v, want Clear=15 Blocked=3 NoData=3", snap)
	}
}

func TestStatsConcurrentAddIsRaceFree(t *testing.T) {
	var s Stats
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(1, 1, 1)
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	if snap.Clear != 50 || snap.Blocked != 50 || snap.NoData != 50 {
		t.Errorf("snapshot = %+v, want 50/50/50", snap)
	}
	if snap.Total != 150 {
		t.Errorf("Total = %d, want 150", snap.Total)
	}
}
