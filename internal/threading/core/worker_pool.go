// Package core provides the worker pool that frame stages fan out over.
package core

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool runs submitted jobs on a fixed set of goroutines.
type WorkerPool struct {
	numWorkers int
	jobQueue   chan func()
	wg         sync.WaitGroup
	quit       chan struct{}
	stopOnce   sync.Once

	// mu orders Submit against Stop so no job is queued after the drain.
	mu      sync.RWMutex
	stopped bool
}

// NewWorkerPool creates a pool with numWorkers goroutines. Zero or less means
// one per CPU. The pool does nothing until Start.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
		jobQueue:   make(chan func(), numWorkers*2),
		quit:       make(chan struct{}),
	}
}

// NewStartedPool is NewWorkerPool followed by Start.
func NewStartedPool(numWorkers int) *WorkerPool {
	pool := NewWorkerPool(numWorkers)
	pool.Start()
	return pool
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	for {
		select {
		case job := <-wp.jobQueue:
			job()
			wp.wg.Done()
		case <-wp.quit:
			return
		}
	}
}

// Submit queues a job. It blocks while the queue is full. Jobs submitted
// after Stop are dropped.
func (wp *WorkerPool) Submit(job func()) {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.stopped {
		return
	}
	wp.wg.Add(1)
	wp.jobQueue <- job
}

// Wait blocks until every submitted job has finished.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop shuts the workers down. Queued jobs that have not started are dropped
// and count as done, so Wait never hangs on them. Calling Stop more than once
// is harmless.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		wp.mu.Lock()
		wp.stopped = true
		close(wp.quit)
		wp.mu.Unlock()

		for {
			select {
			case <-wp.jobQueue:
				wp.wg.Done()
			default:
				return
			}
		}
	})
}

// ParallelForChunked calls fn for every index in [start, end), one job per run
// of chunkSize indices, and returns once all jobs are done. Runs stop early
// once ctx is done.
func (wp *WorkerPool) ParallelForChunked(ctx context.Context, start, end, chunkSize int, fn func(int)) {
	if start >= end {
		return
	}
	chunkSize = max(1, chunkSize)

	for i := start; i < end; i += chunkSize {
		chunkStart := i
		chunkEnd := min(i+chunkSize, end)
		wp.Submit(func() {
			for j := chunkStart; j < chunkEnd; j++ {
				if ctx.Err() != nil {
					return
				}
				fn(j)
			}
		})
	}
	wp.Wait()
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}
