// Package rendering spreads per-column frame work across goroutines.
package rendering

import (
	"context"

	"portalcaster/internal/threading/core"
)

const (
	// Below this many columns the work runs on the calling goroutine.
	inlineColumns = 8

	minBatch = 4
	maxBatch = 32
)

// ColumnRenderer runs a function once per screen column on a worker pool.
// The function must only touch state belonging to its own column.
type ColumnRenderer struct {
	workerPool *core.WorkerPool
}

// NewColumnRenderer starts a pool of the given size (0 means one per CPU).
func NewColumnRenderer(workers int) *ColumnRenderer {
	return &ColumnRenderer{
		workerPool: core.NewStartedPool(workers),
	}
}

// Workers returns the size of the underlying pool.
func (cr *ColumnRenderer) Workers() int {
	return cr.workerPool.GetNumWorkers()
}

// RenderColumns calls fn for every column in [0, numCols) and returns when
// all of them are done.
func (cr *ColumnRenderer) RenderColumns(numCols int, fn func(col int)) {
	if numCols <= inlineColumns {
		for col := 0; col < numCols; col++ {
			fn(col)
		}
		return
	}

	// Batches keep per-job overhead low without starving workers.
	batchSize := numCols / cr.workerPool.GetNumWorkers()
	if batchSize < minBatch {
		batchSize = minBatch
	}
	if batchSize > maxBatch {
		batchSize = maxBatch
	}
	cr.workerPool.ParallelForChunked(context.Background(), 0, numCols, batchSize, fn)
}

// Stop shuts down the worker pool.
func (cr *ColumnRenderer) Stop() {
	cr.workerPool.Stop()
}
