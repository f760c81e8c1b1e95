package raster

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/kestrelrf/losengine/internal/encode"
)

var palette = [4]color.RGBA{
	Empty:   {0, 0, 0, 0},
	NoData:  {102, 102, 102, 102}, // grey, 40% alpha
	Blocked: {204, 0, 0, 204},     // red, 80% alpha
	Clear:   {0, 153, 0, 204},     // green, 80% alpha
}

// SnapshotResult is a published view of the buffer at one flush, plus the
// corner coordinates and resolution a renderer needs to place it.
type SnapshotResult struct {
	URL                    string
	West, South, East, North float64
	W, H                   int
	EffResXMetres          float64
	EffResYMetres          float64
	PNG                    []byte
}

// Publisher renders Buffer snapshots to PNG and hands back a short-lived,
// revocable handle in place of actually serving bytes over HTTP — the
// external renderer that displays a snapshot is out of scope here.
//
// Flush is single-flight: a flush already in progress absorbs any
// concurrent callers into one more run that starts right after, so
// callers never pile up redundant encodes of a buffer that's still
// changing.
type Publisher struct {
	mapping Mapping
	buffer  *Buffer
	encoder encode.PNGEncoder

	mu          sync.Mutex
	flushing    bool
	pending     bool
	lastURL     string
	nextTokenID atomic.Int64
}

// NewPublisher returns a Publisher for the given mapping and buffer. The
// buffer must already be sized to mapping.W × mapping.H.
func NewPublisher(mapping Mapping, buffer *Buffer) *Publisher {
	return &Publisher{mapping: mapping, buffer: buffer}
}

// Flush renders the current buffer state and publishes it, revoking any
// prior snapshot. If a flush is already running, this call is folded into
// one pending follow-up flush rather than running concurrently with it.
func (p *Publisher) Flush() (SnapshotResult, error) {
	p.mu.Lock()
	if p.flushing {
		p.pending = true
		p.mu.Unlock()
		return SnapshotResult{}, nil
	}
	p.flushing = true
	p.mu.Unlock()

	result, err := p.render()

	p.mu.Lock()
	p.flushing = false
	runPending := p.pending
	p.pending = false
	p.mu.Unlock()

	if runPending {
		go p.Flush()
	}
	return result, err
}

func (p *Publisher) render() (SnapshotResult, error) {
	img := image.NewRGBA(image.Rect(0, 0, p.mapping.W, p.mapping.H))
	cells := p.buffer.Snapshot()
	for y := 0; y < p.mapping.H; y++ {
		for x := 0; x < p.mapping.W; x++ {
			img.SetRGBA(x, y, palette[cells[y*p.mapping.W+x]])
		}
	}

	png, err := p.encoder.Encode(img)
	if err != nil {
		return SnapshotResult{}, fmt.Errorf("encoding raster snapshot: %w", err)
	}

	token := p.nextTokenID.Add(1)
	url := fmt.Sprintf("snapshot://%d", token)

	p.mu.Lock()
	p.lastURL = url
	p.mu.Unlock()

	b := p.mapping.Bounds
	return SnapshotResult{
		URL: url, West: b.West, South: b.South, East: b.East, North: b.North,
		W: p.mapping.W, H: p.mapping.H,
		EffResXMetres: p.mapping.EffResXMetres, EffResYMetres: p.mapping.EffResYMetres,
		PNG: png,
	}, nil
}
