// Package autograde schedules grading runs for rounds whose matches are
// fully resulted. A poller scans the store on an interval and feeds round
// ids through a bounded queue to grading workers. An in-flight tracker
// keeps a round from being queued twice while a run is pending.
package autograde

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fantabet/fantabet/internal/domain/dedupe"
	"github.com/fantabet/fantabet/internal/grading"
	"github.com/fantabet/fantabet/pkg/logger"
	"github.com/fantabet/fantabet/pkg/metrics"
)

// Default scheduler configuration constants.
const (
	defaultInterval      = 15 * time.Second
	defaultQueueCapacity = 1024
	defaultWorkerCount   = 2
	shutdownTimeout      = 10 * time.Second
)

// Lister reports which rounds are ready to grade.
type Lister interface {
	GradableRounds(ctx context.Context) ([]string, error)
}

// Grader settles a single round.
type Grader interface {
	GradeRound(ctx context.Context, roundID string) (grading.Outcome, error)
}

// Autograder polls for gradable rounds and settles them in the background.
type Autograder struct {
	lister  Lister
	grader  Grader
	queue   Queue
	tracker dedupe.Deduper

	interval    time.Duration
	workerCount int

	shutdown chan struct{}
	wg       sync.WaitGroup

	logger logger.Logger
}

// New creates an autograder with configuration options. Call Start to
// begin polling.
func New(lister Lister, grader Grader, opts ...Option) *Autograder {
	a := &Autograder{
		lister:      lister,
		grader:      grader,
		interval:    defaultInterval,
		workerCount: defaultWorkerCount,
		shutdown:    make(chan struct{}),
		logger:      logger.Get().Named("autograde"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.queue == nil {
		a.queue = NewInMemoryQueue()
	}
	if a.tracker == nil {
		a.tracker = dedupe.NewInMemoryDeduper()
	}
	return a
}

// Start launches the poller and the grading workers. They run until ctx
// is canceled or Shutdown is called.
func (a *Autograder) Start(ctx context.Context) {
	a.wg.Add(1)
	go a.poll(ctx)

	for i := 0; i < a.workerCount; i++ {
		a.wg.Add(1)
		go a.work(ctx, a.queue.Dequeue(ctx))
	}
}

// Shutdown stops the poller, closes the queue and waits for the workers
// to drain it.
func (a *Autograder) Shutdown(ctx context.Context) error {
	close(a.shutdown)
	if err := a.queue.Close(); err != nil {
		a.logger.Error(ctx, "error closing queue", logger.Error(err))
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	select {
	case <-done:
		return nil
	case <-shutdownCtx.Done():
		a.logger.Warn(ctx, "autograder shutdown timed out")
		return fmt.Errorf("autograde.Shutdown: %w", shutdownCtx.Err())
	}
}

// poll scans for gradable rounds on the configured interval.
func (a *Autograder) poll(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.shutdown:
			return
		case <-ticker.C:
			a.sweep(ctx)
		}
	}
}

// sweep enqueues every gradable round that is not already in flight.
func (a *Autograder) sweep(ctx context.Context) {
	metrics.RecordAutogradeRun()

	ids, err := a.lister.GradableRounds(ctx)
	if err != nil {
		metrics.RecordAutogradeError()
		metrics.RecordErrorByComponent("autograde", "list_error")
		a.logger.Error(ctx, "listing gradable rounds failed", logger.Error(err))
		return
	}

	for _, id := range ids {
		if a.tracker.SeenAndRecord(ctx, id) {
			continue
		}
		if !a.queue.Enqueue(ctx, id) {
			// Backpressure: release the id so the next sweep retries it.
			a.tracker.Unrecord(ctx, id)
			metrics.RecordAutogradeError()
			a.logger.Warn(ctx, "autograde queue full, round deferred",
				logger.String("round_id", id))
		}
	}
}

// work settles queued rounds until the queue closes.
func (a *Autograder) work(ctx context.Context, rounds <-chan string) {
	defer a.wg.Done()

	for id := range rounds {
		out, err := a.grader.GradeRound(ctx, id)
		if err != nil {
			metrics.RecordAutogradeError()
			metrics.RecordErrorByComponent("autograde", "grading_error")
			a.logger.Error(ctx, "autograde run failed",
				logger.String("round_id", id),
				logger.Error(err),
			)
			// Allow the next sweep to pick the round up again.
			a.tracker.Unrecord(ctx, id)
			continue
		}
		a.logger.Info(ctx, "round autograded",
			logger.String("round_id", id),
			logger.Any("already", out.Already),
			logger.Int("selections", out.Selections),
			logger.Int("tickets", out.Tickets),
		)
	}
}
