// Package queue provides the buffered hand-off between observation intake
// and the worker pool.
package queue

import (
	"context"
	"sync"

	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/pkg/metrics"
)

// defaultCapacity bounds the queue when no option overrides it.
const defaultCapacity = 50000

// Observation is the payload type flowing through the queue.
type Observation = model.Observation

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an observation to the queue. Returns false when the
	// queue is full or closed; the caller decides whether to retry.
	Enqueue(ctx context.Context, obs Observation) bool

	// Dequeue returns the channel observations arrive on. The channel is
	// closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Observation

	// Len returns the current number of queued observations.
	Len(ctx context.Context) int

	// Close stops the queue. Enqueues after Close are rejected.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue over a single buffered channel. The channel
// buffer is the capacity; a full buffer means backpressure, not blocking.
type InMemoryQueue struct {
	observations chan Observation
	capacity     int
	mu           sync.RWMutex
	closed       bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.observations = make(chan Observation, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

// Enqueue adds an observation to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, obs Observation) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.observations <- obs:
		metrics.RecordQueueEnqueue()
		q.publishGauges()
		return true
	case <-ctx.Done():
		metrics.RecordQueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns the channel observations arrive on. Consumers range over
// it and record their own dequeue metrics; the queue only accounts for what
// it holds.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Observation {
	return q.observations
}

// Len returns the current number of queued observations.
func (q *InMemoryQueue) Len(_ context.Context) int {
	q.publishGauges()
	return len(q.observations)
}

// Close stops the queue and closes the dequeue channel.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.observations)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) publishGauges() {
	size := len(q.observations)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
