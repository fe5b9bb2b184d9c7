// Package worker defines worker contracts for asynchronous observation
// processing.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/skillbench/skillbench/internal/adapters/repository"
	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/types"
	"github.com/skillbench/skillbench/pkg/logger"
	"github.com/skillbench/skillbench/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
)

// Observation abstracts what workers read off the queue.
type Observation = model.Observation

// Progress applies an observation to the user's skill snapshot and returns
// the user's classified experience level after the update.
type Progress interface {
	Record(ctx context.Context, obs Observation) (types.ExperienceLevel, error)
}

// Scorer turns a raw observation into a normalized score.
type Scorer interface {
	Score(level, experiencePoints int) float64
}

// Perturber adds privacy noise to a score before cohort aggregation.
type Perturber interface {
	Perturb(score float64) float64
}

// Cohorts receives perturbed scores for aggregate bucketing.
type Cohorts interface {
	AddScore(ctx context.Context, key repository.Key, userID string, score float64) error
}

// Queue defines how workers receive observations.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Observation
}

// Worker processes observations from the queue until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing observations.
type InMemoryWorker struct {
	queue     Queue
	progress  Progress
	scorer    Scorer
	perturber Perturber
	cohorts   Cohorts
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, progress Progress, scorer Scorer, perturber Perturber, cohorts Cohorts, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		progress:  progress,
		scorer:    scorer,
		perturber: perturber,
		cohorts:   cohorts,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	observations := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case obs, ok := <-observations:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			if err := w.process(ctx, obs); err != nil {
				w.logger.Error(ctx, "error processing observation", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process applies a single observation: update the snapshot, then feed the
// perturbed score into the cohort aggregate for the user's current level.
func (w *InMemoryWorker) process(ctx context.Context, obs Observation) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	level, err := w.progress.Record(ctx, obs)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "progress_error")
		w.logger.Error(ctx, "snapshot update failed",
			logger.String("observationID", obs.ObservationID),
			logger.Error(err),
		)
		return fmt.Errorf("record observation %s: %w", obs.ObservationID, err)
	}

	score := w.scorer.Score(obs.Level, obs.ExperiencePoints)
	perturbed := w.perturber.Perturb(score)

	key := repository.Key{SkillID: obs.SkillID, ExperienceLevel: level}
	if err := w.cohorts.AddScore(ctx, key, obs.UserID, perturbed); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "cohort_error")
		w.logger.Error(ctx, "cohort update failed",
			logger.String("observationID", obs.ObservationID),
			logger.String("skillID", obs.SkillID),
			logger.Error(err),
		)
		return fmt.Errorf("cohort update for %s: %w", obs.SkillID, err)
	}

	metrics.RecordObservationProcessed()
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a worker pool. A non-positive count defaults to a
// multiple of the CPU count.
func NewPool(workerCount int, queue Queue, progress Progress, scorer Scorer, perturber Perturber, cohorts Cohorts) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue, progress, scorer, perturber, cohorts,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start launches every worker in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown stops every worker, waiting for in-flight observations.
func (p *Pool) Shutdown(ctx context.Context) error {
	close(p.shutdown)

	var firstErr error
	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	metrics.UpdateWorkerCount(0)
	return firstErr
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}
