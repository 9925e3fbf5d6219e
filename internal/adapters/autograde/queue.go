package autograde

import (
	"context"
	"sync"

	"github.com/fantabet/fantabet/pkg/metrics"
)

// Queue provides non-blocking enqueue and channel-based dequeue of round ids.
type Queue interface {
	// Enqueue adds a round id to the queue.
	// Returns false if the queue is full and the id was not enqueued.
	Enqueue(ctx context.Context, roundID string) bool

	// Dequeue returns a channel that receives round ids as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan string

	// Len returns the current number of queued round ids.
	Len(ctx context.Context) int

	// Close shuts down the queue. After closing, no new ids can be
	// enqueued and the dequeue channel drains then closes.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	rounds   chan string
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...QueueOption) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.rounds = make(chan string, q.capacity)

	metrics.UpdateAutogradeQueueSize(0)
	return q
}

// Enqueue adds a round id to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, roundID string) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("autograde", "queue_closed")
		return false
	}

	select {
	case q.rounds <- roundID:
		metrics.UpdateAutogradeQueueSize(len(q.rounds))
		return true
	case <-ctx.Done():
		metrics.RecordErrorByComponent("autograde", "context_cancelled")
		return false
	default:
		metrics.RecordErrorByComponent("autograde", "queue_full")
		return false
	}
}

// Dequeue returns a channel that receives round ids as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for id := range q.rounds {
			select {
			case out <- id:
				metrics.UpdateAutogradeQueueSize(len(q.rounds))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued round ids.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.rounds)
}

// Close shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.rounds)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
