package monitoring

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"portalcaster/internal/threading/core"
	"portalcaster/internal/threading/rendering"
)

// =============================================================================
// PERFORMANCE MONITOR TESTS
// =============================================================================

func TestNewPerformanceMonitor(t *testing.T) {
	pm := NewPerformanceMonitor()

	if pm == nil {
		t.Fatal("NewPerformanceMonitor returned nil")
	}
	if !pm.enableDetailed {
		t.Error("Expected enableDetailed to be true")
	}
	if pm.SampleInterval() != time.Second {
		t.Error("Expected sampleInterval to be 1 second")
	}
	if time.Since(pm.startTime) > time.Second {
		t.Error("Start time should be recent")
	}
}

func TestPerformanceMonitorFrameTiming(t *testing.T) {
	pm := NewPerformanceMonitor()

	frameTimer := pm.StartFrame()
	time.Sleep(10 * time.Millisecond)
	frameTimer.EndFrame()

	if pm.frameCount.Load() != 1 {
		t.Errorf("Expected frame count to be 1, got %d", pm.frameCount.Load())
	}

	frameTime := pm.frameTime.Load()
	minExpectedTime := uint64(10 * time.Millisecond)
	if frameTime < minExpectedTime {
		t.Errorf("Expected frame time to be at least %d ns, got %d ns", minExpectedTime, frameTime)
	}
	if pm.avgFrameTime != float64(frameTime) {
		t.Errorf("First sample should seed the average: %v vs %v", pm.avgFrameTime, frameTime)
	}

	metrics := pm.GetCurrentMetrics()
	if metrics.FramesPerSecond <= 0 || metrics.FramesPerSecond > 100 {
		t.Errorf("Expected FPS at most 100 after a 10ms frame, got %v", metrics.FramesPerSecond)
	}
}

func TestPerformanceMonitorStages(t *testing.T) {
	pm := NewPerformanceMonitor()

	st := pm.StartStage(StageCast)
	time.Sleep(2 * time.Millisecond)
	if d := st.EndStage(); d < 2*time.Millisecond {
		t.Errorf("Expected cast stage of at least 2ms, got %v", d)
	}

	pm.ProfiledFunction(StageProject, func() { time.Sleep(time.Millisecond) })
	pm.RecordLayers(1234)

	metrics := pm.GetCurrentMetrics()
	if metrics.CastTime < 2*time.Millisecond {
		t.Errorf("Expected cast time to be recorded, got %v", metrics.CastTime)
	}
	if metrics.ProjectTime < time.Millisecond {
		t.Errorf("Expected project time to be recorded, got %v", metrics.ProjectTime)
	}
	if metrics.MoveTime != 0 {
		t.Errorf("Move stage was never timed, got %v", metrics.MoveTime)
	}
	if metrics.LayersPerFrame != 1234 {
		t.Errorf("Expected 1234 layers, got %d", metrics.LayersPerFrame)
	}

	stats := pm.GetDetailedStats()
	for _, key := range []string{"avg_fps", "avg_cast_time_ms", "avg_project_time_ms", "layers", "goroutines"} {
		if _, ok := stats[key]; !ok {
			t.Errorf("Detailed stats missing %q", key)
		}
	}

	// Out of range stages are ignored.
	pm.ProfiledFunction(Stage(42), func() {})
}

func TestPerformanceMonitorAlerts(t *testing.T) {
	pm := NewPerformanceMonitor()
	if alerts := pm.CheckPerformanceAlerts(); len(alerts) != 0 {
		t.Fatalf("Expected no alerts on a fresh monitor, got %v", alerts)
	}

	pm.frameTime.Store(uint64(50 * time.Millisecond))
	pm.stageTime[StageCast].Store(uint64(20 * time.Millisecond))

	alerts := pm.CheckPerformanceAlerts()
	types := map[string]bool{}
	for _, a := range alerts {
		types[a.Type] = true
	}
	if !types["low_fps"] || !types["slow_cast"] {
		t.Errorf("Expected low_fps and slow_cast alerts, got %v", alerts)
	}
	if types["slow_project"] {
		t.Error("Project stage was not slow")
	}

	pm.Reset()
	if alerts := pm.CheckPerformanceAlerts(); len(alerts) != 0 {
		t.Errorf("Expected no alerts after reset, got %v", alerts)
	}
}

func TestPerformanceMonitorConcurrency(t *testing.T) {
	pm := NewPerformanceMonitor()
	done := make(chan bool, 5)

	for i := 0; i < 5; i++ {
		go func() {
			for j := 0; j < 20; j++ {
				frameTimer := pm.StartFrame()
				pm.ProfiledFunction(StageCast, func() { time.Sleep(100 * time.Microsecond) })
				frameTimer.EndFrame()
			}
			done <- true
		}()
	}
	for i := 0; i < 5; i++ {
		<-done
	}

	if pm.frameCount.Load() != 100 {
		t.Errorf("Expected 100 frames, got %d", pm.frameCount.Load())
	}
}

// =============================================================================
// WORKER POOL TESTS
// =============================================================================

func TestWorkerPoolCreation(t *testing.T) {
	wp := core.NewWorkerPool(0)
	if wp.GetNumWorkers() != runtime.NumCPU() {
		t.Errorf("Expected %d workers (CPU count), got %d", runtime.NumCPU(), wp.GetNumWorkers())
	}

	wp2 := core.NewWorkerPool(4)
	if wp2.GetNumWorkers() != 4 {
		t.Errorf("Expected 4 workers, got %d", wp2.GetNumWorkers())
	}
}

func TestWorkerPoolJobExecution(t *testing.T) {
	wp := core.NewStartedPool(2)
	defer wp.Stop()

	var counter int32
	for i := 0; i < 10; i++ {
		wp.Submit(func() {
			atomic.AddInt32(&counter, 1)
		})
	}
	wp.Wait()

	if counter != 10 {
		t.Errorf("Expected counter to be 10, got %d", counter)
	}
}

func TestWorkerPoolParallelForChunked(t *testing.T) {
	wp := core.NewStartedPool(3)
	defer wp.Stop()

	var results [10]int32
	wp.ParallelForChunked(context.Background(), 0, 10, 3, func(i int) {
		atomic.StoreInt32(&results[i], int32(i*2))
		time.Sleep(time.Millisecond)
	})

	for i := 0; i < 10; i++ {
		expected := int32(i * 2)
		if atomic.LoadInt32(&results[i]) != expected {
			t.Errorf("Expected results[%d] = %d, got %d", i, expected, results[i])
		}
	}

	// Empty ranges return immediately.
	wp.ParallelForChunked(context.Background(), 5, 5, 3, func(int) { t.Error("fn called for an empty range") })
}

func TestWorkerPoolCancelledContext(t *testing.T) {
	wp := core.NewStartedPool(2)
	defer wp.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	wp.ParallelForChunked(ctx, 0, 100, 10, func(int) {
		atomic.AddInt32(&calls, 1)
	})
	if calls != 0 {
		t.Errorf("Expected no calls with a cancelled context, got %d", calls)
	}
}

func TestWorkerPoolStopDropsQueuedJobs(t *testing.T) {
	// Never started, so both jobs stay queued until Stop drains them.
	wp := core.NewWorkerPool(1)

	var ran int32
	wp.Submit(func() { atomic.AddInt32(&ran, 1) })
	wp.Submit(func() { atomic.AddInt32(&ran, 1) })
	wp.Stop()

	// Submitting after Stop must not block or be waited on.
	wp.Submit(func() { atomic.AddInt32(&ran, 1) })

	done := make(chan struct{})
	go func() {
		wp.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait hung on jobs dropped by Stop")
	}
	if n := atomic.LoadInt32(&ran); n != 0 {
		t.Errorf("Expected dropped jobs not to run, got %d", n)
	}
}

func TestWorkerPoolConcurrentAccess(t *testing.T) {
	wp := core.NewStartedPool(4)
	defer wp.Stop()

	var counter int64
	numGoroutines := 10
	jobsPerGoroutine := 50

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < jobsPerGoroutine; j++ {
				wp.Submit(func() {
					atomic.AddInt64(&counter, 1)
				})
			}
		}()
	}

	wg.Wait()
	wp.Wait()

	expected := int64(numGoroutines * jobsPerGoroutine)
	if atomic.LoadInt64(&counter) != expected {
		t.Errorf("Expected counter to be %d, got %d", expected, counter)
	}
}

func TestWorkerPoolStopTwice(t *testing.T) {
	wp := core.NewStartedPool(1)
	wp.Stop()
	wp.Stop()
}

// =============================================================================
// COLUMN RENDERER TESTS
// =============================================================================

func TestColumnRenderer(t *testing.T) {
	cr := rendering.NewColumnRenderer(4)
	defer cr.Stop()

	for _, numCols := range []int{0, 3, 8, 9, 640} {
		visits := make([]int32, numCols)
		cr.RenderColumns(numCols, func(col int) {
			atomic.AddInt32(&visits[col], 1)
		})
		for col, v := range visits {
			if v != 1 {
				t.Fatalf("%d columns: column %d visited %d times", numCols, col, v)
			}
		}
	}
}

func TestColumnRendererRepeatedFrames(t *testing.T) {
	cr := rendering.NewColumnRenderer(0)
	defer cr.Stop()

	if cr.Workers() != runtime.NumCPU() {
		t.Errorf("Expected %d workers, got %d", runtime.NumCPU(), cr.Workers())
	}

	var total int64
	for frame := 0; frame < 50; frame++ {
		cr.RenderColumns(100, func(int) { atomic.AddInt64(&total, 1) })
	}
	if total != 5000 {
		t.Errorf("Expected 5000 column calls, got %d", total)
	}
}

// =============================================================================
// BENCHMARKS
// =============================================================================

func BenchmarkWorkerPoolSubmit(b *testing.B) {
	wp := core.NewStartedPool(4)
	defer wp.Stop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wp.Submit(func() {})
	}
	wp.Wait()
}

func BenchmarkPerformanceMonitorFrameTiming(b *testing.B) {
	pm := NewPerformanceMonitor()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pm.StartFrame().EndFrame()
	}
}

func BenchmarkColumnRenderer(b *testing.B) {
	cr := rendering.NewColumnRenderer(0)
	defer cr.Stop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cr.RenderColumns(640, func(int) {})
	}
}
