// Package worker defines worker contracts for asynchronous metrics extraction.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/rlcoach/internal/adapters/mq/queue"
	"github.com/okian/rlcoach/internal/domain/stats"
	"github.com/okian/rlcoach/pkg/logger"
	"github.com/okian/rlcoach/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Extractor derives a normalized metrics tuple from raw match bytes.
type Extractor interface {
	Extract(raw []byte) stats.Tuple
}

// ExtractorFunc adapts a plain extraction function to the Extractor interface.
type ExtractorFunc func(raw []byte) stats.Tuple

func (f ExtractorFunc) Extract(raw []byte) stats.Tuple { return f(raw) }

// MetricsWriter persists a derived tuple next to its raw match record.
type MetricsWriter interface {
	SaveMetrics(ctx context.Context, matchID string, t stats.Tuple) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes upload jobs and writes derived metrics.
type Worker struct {
	queue     Queue
	extractor Extractor
	writer    MetricsWriter
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a new worker with configuration options.
func NewWorker(q Queue, extractor Extractor, writer MetricsWriter, opts ...Option) *Worker {
	w := &Worker{
		queue:     q,
		extractor: extractor,
		writer:    writer,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing upload", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob extracts metrics for one stored match and persists them.
// Extraction itself is total; only the store write can fail.
func (w *Worker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	extractStart := time.Now()
	tuple := w.extractor.Extract(job.Raw)
	metrics.RecordExtractionLatency(float64(time.Since(extractStart).Milliseconds()))

	if err := w.writer.SaveMetrics(ctx, job.MatchID, tuple); err != nil {
		metrics.RecordStoreError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		w.logger.Error(ctx, "storing metrics failed",
			logger.String("matchID", job.MatchID),
			logger.String("playerID", job.PlayerID),
			logger.Error(err),
		)
		return fmt.Errorf("store metrics for match %s: %w", job.MatchID, err)
	}

	metrics.RecordMetricsStored()
	w.logger.Debug(ctx, "metrics stored",
		logger.String("matchID", job.MatchID),
		logger.Float64("boostUsage", tuple.BoostUsage),
		logger.Float64("flipCount", tuple.FlipCount),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*Worker
	queue   Queue

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, extractor Extractor, writer MetricsWriter) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*Worker, workerCount),
		queue:    q,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewWorker(q, extractor, writer, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
