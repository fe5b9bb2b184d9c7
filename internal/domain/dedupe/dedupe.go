// Package dedupe provides idempotency tracking for observation IDs.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records observation IDs so replays are processed at most once.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen before and
	// records it if not. Returns true when id is a duplicate.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets an ID so it can be retried. Intended for the case
	// where an observation was recorded but could not be enqueued.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper keeps seen IDs in a map with a FIFO ring over insertion
// order. When the map reaches maxSize the oldest entry is evicted, so a
// replay older than the window may be processed twice; arrival dedupe is a
// throughput guard, not a correctness guarantee.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	next    int
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates an in-memory deduper with configuration options.
// A non-positive max size disables eviction entirely.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		if old := d.ring[d.next]; old != "" {
			if _, exists := d.seen[old]; exists {
				delete(d.seen, old)
				d.size.Add(-1)
			}
		}
		d.ring[d.next] = id
		d.next = (d.next + 1) % d.maxSize
	}

	d.seen[id] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; !exists {
		return
	}
	delete(d.seen, id)
	d.size.Add(-1)
	// The ring slot keeps the stale ID; eviction tolerates IDs that are no
	// longer in the map.
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
