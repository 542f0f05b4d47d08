package engine

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/pl728/taskengine/pkg/types"
)

// Pool owns a fixed-size set of workers sharing one task queue, one result
// channel and one stats aggregate. Once the queue is closed and drained every
// worker stops on its own and Join returns; the result channel is closed when
// the last worker exits, so a consumer can range over it to exhaustion.
type Pool[P any] struct {
	config  *Config
	workers []*Worker[P]
	queue   *Queue[P]
	results chan types.Outcome
	stats   *Stats

	// state management
	state int32 // 0: created, 1: running, 2: stopped
	eg    *errgroup.Group
}

// NewPool creates a pool of cfg.Workers workers bound to the given queue,
// result channel and stats handles.
func NewPool[P any](cfg *Config, queue *Queue[P], results chan types.Outcome, stats *Stats, exec types.ExecFunc[P]) (*Pool[P], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if queue == nil {
		queue = NewQueue[P](cfg.QueueSize)
	}
	if results == nil {
		results = make(chan types.Outcome, cfg.ResultBuffer)
	}
	if stats == nil {
		stats = NewStats()
	}
	if exec == nil {
		return nil, types.ErrNilExecFunc
	}

	workers := make([]*Worker[P], cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		w := newWorker(i, queue, results, stats, exec, cfg.Clock)
		if cfg.ErrorHandler != nil {
			w.SetErrorHandler(cfg.ErrorHandler)
		}
		workers[i] = w
	}

	return &Pool[P]{
		config:  cfg,
		workers: workers,
		queue:   queue,
		results: results,
		stats:   stats,
	}, nil
}

// Start spawns all workers. It may only be called once per pool.
func (p *Pool[P]) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.state, 0, 1) {
		if atomic.LoadInt32(&p.state) == 1 {
			return types.ErrPoolRunning
		}
		return types.ErrPoolStopped
	}

	p.eg = &errgroup.Group{}
	for _, worker := range p.workers {
		w := worker
		p.eg.Go(func() error {
			return w.run(ctx)
		})
	}

	// close the result channel once every worker has stopped, the Go
	// equivalent of dropping the last sender handle. The state flips here so
	// IsRunning tracks worker liveness rather than whether Join was called.
	go func() {
		_ = p.eg.Wait()
		atomic.StoreInt32(&p.state, 2)
		close(p.results)
	}()

	return nil
}

// Join blocks until every worker has observed end-of-stream and returned.
// It must be called after the queue is closed; it then completes in bounded
// time for any worker count, including pools larger than the task count. The
// returned error is an engine-level fault (context cancellation), never a
// task failure.
func (p *Pool[P]) Join() error {
	if atomic.LoadInt32(&p.state) == 0 {
		return types.ErrPoolNotStarted
	}

	err := p.eg.Wait()
	// the closing goroutine also stores this; repeating it here keeps the
	// stopped state visible the moment Join returns
	atomic.StoreInt32(&p.state, 2)
	return err
}

// Results returns the receive side of the shared result channel.
func (p *Pool[P]) Results() <-chan types.Outcome {
	return p.results
}

// Queue returns the shared task queue.
func (p *Pool[P]) Queue() *Queue[P] {
	return p.queue
}

// Stats returns the shared stats aggregate.
func (p *Pool[P]) Stats() *Stats {
	return p.stats
}

// Size returns the worker pool size
func (p *Pool[P]) Size() int {
	return p.config.Workers
}

// IsRunning checks if the pool is running
func (p *Pool[P]) IsRunning() bool {
	return atomic.LoadInt32(&p.state) == 1
}

// WorkerStats gets statistics of all workers
func (p *Pool[P]) WorkerStats() []WorkerStats {
	stats := make([]WorkerStats, len(p.workers))
	for i, worker := range p.workers {
		stats[i] = worker.Stats()
	}
	return stats
}
