package raster

// State is one pixel's totally-ordered coverage state. The ordering
// itself is the merge function: folding two states together always
// keeps the higher one.
type State byte

const (
	Empty State = iota
	NoData
	Blocked
	Clear
)

// Buffer is a fixed-size grid of States, exclusively owned by a single
// coordinator goroutine: workers produce packed result batches and the
// coordinator folds them in one at a time via Merge, so Buffer itself
// holds no internal lock — callers that fold from multiple goroutines
// must serialize their own access rather than relying on Buffer to pick
// a lock granularity for them.
type Buffer struct {
	W, H  int
	cells []State
}

// NewBuffer allocates a Buffer of the given dimensions, all cells Empty.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{W: w, H: h, cells: make([]State, w*h)}
}

// Merge folds incoming into the cell at (x, y) using
// newState = max(currentState, incoming), the commutative, associative
// rule that makes the final buffer independent of batch interleaving.
func (b *Buffer) Merge(x, y int, incoming State) {
	i := y*b.W + x
	if incoming > b.cells[i] {
		b.cells[i] = incoming
	}
}

// At returns the state at (x, y).
func (b *Buffer) At(x, y int) State {
	return b.cells[y*b.W+x]
}

// Snapshot returns a copy of the cell slice, safe for the caller to read
// without racing a subsequent Merge.
func (b *Buffer) Snapshot() []State {
	out := make([]State, len(b.cells))
	copy(out, b.cells)
	return out
}
