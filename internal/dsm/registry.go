package dsm

import (
	"math"
	"sync"

	"github.com/kestrelrf/losengine/internal/geodesy"
)

// ChangeEvent describes a registry mutation delivered to subscribers.
type ChangeEvent struct {
	Kind string // "added", "removed", "cleared"
	ID   string
}

// Registry is an insertion-ordered set of Layers plus a change-observer
// list; lookups visit layers in insertion order.
// Layers are added by ingest, removed individually or en masse, and never
// mutated in place. A Registry is safe for concurrent use; callers must
// still avoid mutating the Registry (add/remove) during an active sweep,
// per the concurrency contract in SPEC_FULL.md — in-flight reads are
// unaffected since Layer values are immutable.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	layers map[string]*Layer

	subMu       sync.Mutex
	subscribers map[int]func(ChangeEvent)
	nextSubID   int
}

// NewRegistry returns an empty Registry. Callers construct and own their
// own instance rather than reaching for a process-global one.
func NewRegistry() *Registry {
	return &Registry{
		layers:      make(map[string]*Layer),
		subscribers: make(map[int]func(ChangeEvent)),
	}
}

// Add registers layer, replacing any prior layer with the same ID.
func (r *Registry) Add(layer *Layer) {
	r.mu.Lock()
	if _, exists := r.layers[layer.ID]; !exists {
		r.order = append(r.order, layer.ID)
	}
	r.layers[layer.ID] = layer
	r.mu.Unlock()

	r.notify(ChangeEvent{Kind: "added", ID: layer.ID})
}

// Remove deletes the layer with the given ID, if present.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	if _, exists := r.layers[id]; !exists {
		r.mu.Unlock()
		return
	}
	delete(r.layers, id)
	for i, existingID := range r.order {
		if existingID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.notify(ChangeEvent{Kind: "removed", ID: id})
}

// ClearAll removes every registered layer.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	r.layers = make(map[string]*Layer)
	r.order = nil
	r.mu.Unlock()

	r.notify(ChangeEvent{Kind: "cleared"})
}

// Layers returns a snapshot slice of all registered layers, in insertion
// order, safe for the caller to range over without holding any lock.
func (r *Registry) Layers() []*Layer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Layer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.layers[id])
	}
	return out
}

// Subscribe registers cb to be invoked on every future Add/Remove/ClearAll
// and returns an unsubscribe function.
func (r *Registry) Subscribe(cb func(ChangeEvent)) (unsub func()) {
	r.subMu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = cb
	r.subMu.Unlock()

	return func() {
		r.subMu.Lock()
		delete(r.subscribers, id)
		r.subMu.Unlock()
	}
}

func (r *Registry) notify(evt ChangeEvent) {
	r.subMu.Lock()
	cbs := make([]func(ChangeEvent), 0, len(r.subscribers))
	for _, cb := range r.subscribers {
		cbs = append(cbs, cb)
	}
	r.subMu.Unlock()

	for _, cb := range cbs {
		cb(evt)
	}
}

// ElevationAt implements the nearest-neighbour sampling contract: iterate
// registered layers, find the first whose WGS84 bounds contain (lat, lon),
// map the point into the layer's native CRS when projected, compute the
// pixel index, and return its value; a no-data value there falls through
// to the next containing layer.
func (r *Registry) ElevationAt(lat, lon float64) (metres float64, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		layer := r.layers[id]
		if !layer.WGS84Bounds.contains(lon, lat) {
			continue
		}

		nativeX, nativeY := lon, lat
		if layer.Projected {
			proj := geodesy.ForCRS(layer.CRS)
			nativeX, nativeY = proj.FromWGS84(lon, lat)
		}

		if !layer.NativeBounds.contains(nativeX, nativeY) {
			continue
		}

		x, y := pixelIndex(layer, nativeX, nativeY)
		value := layer.Data[y*layer.Width+x]
		if layer.isNoData(value) {
			continue
		}
		return float64(value), true
	}

	return 0, false
}

// pixelIndex maps a point in native-CRS units to a clamped (x, y) pixel
// index.
func pixelIndex(layer *Layer, nativeX, nativeY float64) (x, y int) {
	b := layer.NativeBounds
	width := b.East - b.West
	height := b.North - b.South

	fx := (nativeX - b.West) / width * float64(layer.Width)
	fy := (b.North - nativeY) / height * float64(layer.Height)

	x = int(math.Floor(fx))
	y = int(math.Floor(fy))

	if x < 0 {
		x = 0
	}
	if x >= layer.Width {
		x = layer.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= layer.Height {
		y = layer.Height - 1
	}
	return x, y
}
