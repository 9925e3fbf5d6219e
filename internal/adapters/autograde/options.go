package autograde

import (
	"time"

	"github.com/fantabet/fantabet/internal/domain/dedupe"
	"github.com/fantabet/fantabet/pkg/logger"
)

// Option applies a configuration option to the Autograder.
type Option func(*Autograder)

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) Option {
	return func(a *Autograder) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithWorkerCount sets the number of grading workers.
func WithWorkerCount(n int) Option {
	return func(a *Autograder) {
		if n > 0 {
			a.workerCount = n
		}
	}
}

// WithQueue sets a custom queue.
func WithQueue(q Queue) Option {
	return func(a *Autograder) {
		if q != nil {
			a.queue = q
		}
	}
}

// WithTracker sets a custom in-flight tracker.
func WithTracker(t dedupe.Deduper) Option {
	return func(a *Autograder) {
		if t != nil {
			a.tracker = t
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Autograder) {
		if l != nil {
			a.logger = l
		}
	}
}

// QueueOption applies a configuration option to the InMemoryQueue.
type QueueOption func(*InMemoryQueue)

// WithQueueCapacity sets the maximum capacity of the queue.
func WithQueueCapacity(capacity int) QueueOption {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}
