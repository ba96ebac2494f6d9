// Package threading bundles the optional parallel frame helpers.
package threading

import (
	"portalcaster/internal/config"
	"portalcaster/internal/threading/monitoring"
	"portalcaster/internal/threading/rendering"
)

// ThreadingComponents holds the column fan-out and the frame timer.
type ThreadingComponents struct {
	// ColumnRenderer is nil when parallel rendering is disabled.
	ColumnRenderer     *rendering.ColumnRenderer
	PerformanceMonitor *monitoring.PerformanceMonitor
}

// NewThreadingComponents creates the components the config asks for.
func NewThreadingComponents(cfg config.ThreadingConfig) *ThreadingComponents {
	tc := &ThreadingComponents{
		PerformanceMonitor: monitoring.NewPerformanceMonitor(),
	}
	if cfg.Parallel {
		tc.ColumnRenderer = rendering.NewColumnRenderer(cfg.Workers)
	}
	return tc
}

// ForEachColumn runs fn for every column, in parallel when a renderer exists.
func (tc *ThreadingComponents) ForEachColumn(numCols int, fn func(col int)) {
	if tc.ColumnRenderer != nil {
		tc.ColumnRenderer.RenderColumns(numCols, fn)
		return
	}
	for col := 0; col < numCols; col++ {
		fn(col)
	}
}

// Shutdown stops any worker goroutines.
func (tc *ThreadingComponents) Shutdown() {
	if tc.ColumnRenderer != nil {
		tc.ColumnRenderer.Stop()
	}
	if tc.PerformanceMonitor != nil {
		tc.PerformanceMonitor.Reset()
	}
}
