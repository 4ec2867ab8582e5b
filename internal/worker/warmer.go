package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vladislavprovich/omnix-dataservice/pkg/cache"
	"github.com/vladislavprovich/omnix-dataservice/pkg/optimizer"
)

var (
	ErrNotRunning     = errors.New("warmer is not running")
	ErrAlreadyRunning = errors.New("warmer is already running")
	ErrQueueFull      = errors.New("warm queue is full")
	ErrMissingQuery   = errors.New("query name is required")
)

// Executor runs a named query. It is satisfied by the data service.
type Executor interface {
	Execute(ctx context.Context, name string, params cache.Params, opts cache.Options) (any, error)
}

// Job asks the warmer to refresh one query with the given params.
type Job struct {
	ID     string       `json:"id"`
	Query  string       `json:"query"`
	Params cache.Params `json:"params,omitempty"`

	result chan *Result
}

type Result struct {
	ID          string        `json:"id"`
	Query       string        `json:"query"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	ProcessedAt time.Time     `json:"processedAt"`
	Duration    time.Duration `json:"duration"`
}

type Stats struct {
	Running   bool      `json:"running"`
	Processed int64     `json:"processed"`
	Succeeded int64     `json:"succeeded"`
	Failed    int64     `json:"failed"`
	Active    int64     `json:"active"`
	QueueSize int       `json:"queueSize"`
	LastTick  time.Time `json:"lastTick,omitempty"`
}

// Warmer keeps hot queries in the result cache by re-executing them with
// forceFresh, on a schedule and on demand.
type Warmer struct {
	logger   *slog.Logger
	executor Executor
	cfg      Config

	jobs chan *Job
	wg   sync.WaitGroup

	mu      sync.RWMutex
	runCtx  context.Context
	cancel  context.CancelFunc
	running bool

	seq       atomic.Int64
	processed atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	active    atomic.Int64
	lastTick  atomic.Int64
}

func NewWarmer(logger *slog.Logger, executor Executor, cfg Config) *Warmer {
	cfg = cfg.withDefaults()

	return &Warmer{
		logger:   logger,
		executor: executor,
		cfg:      cfg,
		jobs:     make(chan *Job, cfg.QueueSize),
	}
}

// Start launches the worker goroutines and, when an interval is configured,
// the scheduler. The warmer runs until Stop or until ctx is cancelled.
func (w *Warmer) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrAlreadyRunning
	}

	w.runCtx, w.cancel = context.WithCancel(ctx)
	w.running = true

	w.logger.InfoContext(ctx, "starting cache warmer",
		slog.Int("concurrency", w.cfg.Concurrency),
		slog.Any("queries", w.cfg.Queries),
	)

	for id := range w.cfg.Concurrency {
		w.wg.Add(1)
		go w.workerLoop(w.runCtx, id)
	}

	if w.cfg.Interval > 0 && len(w.cfg.Queries) > 0 {
		w.wg.Add(1)
		go w.scheduleLoop(w.runCtx)
	}

	return nil
}

// Stop cancels the workers and waits for them. Jobs still queued are
// dropped and their submitters get ErrNotRunning.
func (w *Warmer) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return ErrNotRunning
	}
	w.running = false
	w.cancel()
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.InfoContext(ctx, "cache warmer stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit queues job and waits for its result.
func (w *Warmer) Submit(ctx context.Context, job *Job) (*Result, error) {
	if job.Query == "" {
		return nil, ErrMissingQuery
	}
	if job.ID == "" {
		job.ID = w.nextID()
	}
	job.result = make(chan *Result, 1)

	w.mu.RLock()
	running, runCtx := w.running, w.runCtx
	w.mu.RUnlock()
	if !running {
		return nil, ErrNotRunning
	}

	select {
	case w.jobs <- job:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-runCtx.Done():
		return nil, ErrNotRunning
	}

	select {
	case res := <-job.result:
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-runCtx.Done():
		return nil, ErrNotRunning
	}
}

func (w *Warmer) Stats() Stats {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	stats := Stats{
		Running:   running,
		Processed: w.processed.Load(),
		Succeeded: w.succeeded.Load(),
		Failed:    w.failed.Load(),
		Active:    w.active.Load(),
		QueueSize: len(w.jobs),
	}
	if tick := w.lastTick.Load(); tick > 0 {
		stats.LastTick = time.Unix(0, tick)
	}

	return stats
}

func (w *Warmer) workerLoop(ctx context.Context, id int) {
	defer w.wg.Done()

	w.logger.DebugContext(ctx, "warmer worker started", slog.Int("worker_id", id))

	for {
		select {
		case job := <-w.jobs:
			res := w.process(ctx, id, job)
			if job.result != nil {
				job.result <- res
			}
		case <-ctx.Done():
			w.logger.DebugContext(ctx, "warmer worker stopping", slog.Int("worker_id", id))
			return
		}
	}
}

func (w *Warmer) process(ctx context.Context, workerID int, job *Job) *Result {
	start := time.Now()
	w.active.Add(1)
	w.processed.Add(1)
	defer w.active.Add(-1)

	res := &Result{
		ID:          job.ID,
		Query:       job.Query,
		ProcessedAt: start,
	}

	execCtx, cancel := context.WithTimeout(ctx, w.cfg.RequestTimeout)
	defer cancel()

	opts := cache.Options{optimizer.OptionForceFresh: true}
	_, err := w.executor.Execute(execCtx, job.Query, job.Params, opts)
	res.Duration = time.Since(start)
	if err != nil {
		w.failed.Add(1)
		res.Error = err.Error()
		w.logger.WarnContext(ctx, "warm query failed",
			slog.Int("worker_id", workerID),
			slog.String("job_id", job.ID),
			slog.String("query", job.Query),
			slog.Any("error", err),
		)
		return res
	}

	w.succeeded.Add(1)
	res.Success = true
	w.logger.DebugContext(ctx, "warm query refreshed",
		slog.String("query", job.Query),
		slog.Duration("duration", res.Duration),
	)

	return res
}

func (w *Warmer) scheduleLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// tick enqueues every configured query without waiting for results. A full
// queue skips the query until the next tick.
func (w *Warmer) tick(ctx context.Context) {
	w.lastTick.Store(time.Now().UnixNano())

	for _, query := range w.cfg.Queries {
		job := &Job{ID: w.nextID(), Query: query}
		select {
		case w.jobs <- job:
		default:
			w.logger.WarnContext(ctx, "skipping warm query", slog.String("query", query), slog.Any("error", ErrQueueFull))
		}
	}
}

func (w *Warmer) nextID() string {
	return fmt.Sprintf("warm-%s", strconv.FormatInt(w.seq.Add(1), 10))
}
