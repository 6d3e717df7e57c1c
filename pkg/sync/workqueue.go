// Package sync provides concurrency primitives for background work.
package sync

import (
	"context"
	"sync"
)

// WorkPool is a pool of deduplicated jobs run by a fixed number of workers.
type WorkPool struct {
	ctx     context.Context
	workers int
	logger  func(string, ...any)

	mtx  sync.RWMutex
	jobs map[string]func()
}

// WorkPoolOption is a function that configures a WorkPool.
type WorkPoolOption func(*WorkPool)

// WithWorkPoolLogger sets the logger used to report panics recovered from
// jobs.
func WithWorkPoolLogger(logger func(string, ...any)) WorkPoolOption {
	return func(wp *WorkPool) {
		wp.logger = logger
	}
}

// NewWorkPool creates a new work pool with the given number of workers.
func NewWorkPool(ctx context.Context, workers int, opts ...WorkPoolOption) *WorkPool {
	wp := &WorkPool{
		ctx:     ctx,
		workers: workers,
		jobs:    make(map[string]func()),
	}

	for _, opt := range opts {
		opt(wp)
	}

	if wp.workers <= 0 {
		wp.workers = 1
	}

	return wp
}

// Add queues a job under the given id. Jobs are deduplicated by id; adding
// an id that is already queued is a no-op.
func (wp *WorkPool) Add(id string, fn func()) {
	wp.mtx.Lock()
	defer wp.mtx.Unlock()
	if _, ok := wp.jobs[id]; ok {
		return
	}
	wp.jobs[id] = fn
}

// Run runs all queued jobs and blocks until they have finished. Jobs left
// unprocessed when the pool's context is canceled stay queued.
func (wp *WorkPool) Run() {
	queue := make(chan string)
	var wg sync.WaitGroup

	wg.Add(wp.workers)
	for i := 0; i < wp.workers; i++ {
		go func() {
			defer wg.Done()
			for id := range queue {
				wp.run(id)
			}
		}()
	}

	wp.mtx.RLock()
	ids := make([]string, 0, len(wp.jobs))
	for id := range wp.jobs {
		ids = append(ids, id)
	}
	wp.mtx.RUnlock()

loop:
	for _, id := range ids {
		select {
		case <-wp.ctx.Done():
			break loop
		default:
		}

		select {
		case <-wp.ctx.Done():
			break loop
		case queue <- id:
		}
	}

	close(queue)
	wg.Wait()
}

func (wp *WorkPool) run(id string) {
	wp.mtx.RLock()
	fn, ok := wp.jobs[id]
	wp.mtx.RUnlock()
	if !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil && wp.logger != nil {
			wp.logger("job %s panicked: %v", id, r)
		}
		wp.mtx.Lock()
		delete(wp.jobs, id)
		wp.mtx.Unlock()
	}()

	fn()
}

// Status returns whether a job with the given id is queued or running.
func (wp *WorkPool) Status(id string) bool {
	wp.mtx.RLock()
	defer wp.mtx.RUnlock()
	_, ok := wp.jobs[id]
	return ok
}
