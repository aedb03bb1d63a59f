package executor

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/harrison/rclean/internal/models"
)

// Cleaner runs the clean action for one project.
type Cleaner interface {
	Clean(ctx context.Context, path string) models.CleanResult
}

// Pool runs clean actions on a fixed number of workers fed from a bounded
// queue. Once the dispatch context is cancelled no new clean starts, but
// cleans already running are left to finish.
type Pool struct {
	cleaner  Cleaner
	workers  int
	onResult func(models.CleanResult)

	tasks   chan string
	wg      sync.WaitGroup
	started bool
	dropped atomic.Int64
}

// NewPool creates a pool with the given number of workers (minimum 1).
// onResult is called from worker goroutines and must be safe for concurrent
// use.
func NewPool(cleaner Cleaner, workers int, onResult func(models.CleanResult)) *Pool {
	if workers < 1 {
		workers = 1
	}
	if onResult == nil {
		onResult = func(models.CleanResult) {}
	}
	return &Pool{
		cleaner:  cleaner,
		workers:  workers,
		onResult: onResult,
		tasks:    make(chan string, workers),
	}
}

// Workers returns the number of workers.
func (p *Pool) Workers() int {
	return p.workers
}

// Start launches the workers. ctx is the dispatch context: cancelling it stops
// queued projects from starting.
func (p *Pool) Start(ctx context.Context) {
	if p.started {
		return
	}
	p.started = true

	// running processes must not be killed by an abort
	runCtx := context.WithoutCancel(ctx)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for path := range p.tasks {
				if ctx.Err() != nil {
					p.dropped.Add(1)
					continue
				}
				p.onResult(p.cleaner.Clean(runCtx, path))
			}
		}()
	}
}

// Submit queues path, blocking while all workers are busy and the queue is
// full. It returns false without queuing once ctx is cancelled.
func (p *Pool) Submit(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case p.tasks <- path:
		return true
	}
}

// Wait closes the queue and blocks until every worker has exited.
func (p *Pool) Wait() {
	close(p.tasks)
	p.wg.Wait()
}

// Dropped returns how many queued projects were discarded after an abort.
func (p *Pool) Dropped() int {
	return int(p.dropped.Load())
}
