package raster

import (
	"bytes"
	"image/png"
	"testing"
)

func TestFlushProducesDecodablePNG(t *testing.T) {
	m := NewMapping(Bounds{West: 34, South: 32, East: 34.1, North: 32.1}, 100)
	buf := NewBuffer(m.W, m.H)
	buf.Merge(0, 0, Clear)
	buf.Merge(1, 1, Blocked)

	pub := NewPublisher(m, buf)
	result, err := pub.Flush()
	if err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if result.URL == "" {
		t.Fatal("Flush() returned empty URL")
	}
	if result.W != m.W || result.H != m.H {
		t.Errorf("result dims = %dx%d, want %dx%d", result.W, result.H, m.W, m.H)
	}

	img, err := png.Decode(bytes.NewReader(result.PNG))
	if err != nil {
		t.Fatalf("decoding published PNG: %v", err)
	}
	if img.Bounds().Dx() != m.W || img.Bounds().Dy() != m.H {
		t.Errorf("decoded PNG dims = %dx%d, want %dx%d", img.Bounds().Dx(), img.Bounds().Dy(), m.W, m.H)
	}
}

func TestFlushRevokesPriorURL(t *testing.T) {
	m := NewMapping(Bounds{West: 34, South: 32, East: 34.1, North: 32.1}, 100)
	buf := NewBuffer(m.W, m.H)
	pub := NewPublisher(m, buf)

	first, err := pub.Flush()
	if err != nil {
		t.Fatalf("first Flush() error = %v", err)
	}
	second, err := pub.Flush()
	if err != nil {
		t.Fatalf("second Flush() error = %v", err)
	}
	if first.URL == second.URL {
		t.Errorf("second Flush() reused the same URL %q, want a fresh one", second.URL)
	}
}

func TestConcurrentFlushIsSingleFlight(t *testing.T) {
	m := NewMapping(Bounds{West: 34, South: 32, East: 34.1, North: 32.1}, 100)
	buf := NewBuffer(m.W, m.H)
	pub := NewPublisher(m, buf)

	pub.mu.Lock()
	pub.flushing = true
	pub.mu.Unlock()

	result, err := pub.Flush()
	if err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if result.URL != "" {
		t.Errorf("Flush() while another is in-flight should collapse into a pending follow-up, not run immediately; got URL %q", result.URL)
	}

	pub.mu.Lock()
	pending := pub.pending
	pub.mu.Unlock()
	if !pending {
		t.Errorf("expected the collapsed call to set pending=true")
	}
}
