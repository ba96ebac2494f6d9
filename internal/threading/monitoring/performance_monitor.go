// Package monitoring times the stages of each frame.
package monitoring

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Stage is one step of the frame pipeline.
type Stage int

const (
	StageMove Stage = iota
	StageCast
	StageProject
	numStages
)

func (s Stage) String() string {
	switch s {
	case StageMove:
		return "move"
	case StageCast:
		return "cast"
	case StageProject:
		return "project"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Weight of the newest sample in the running averages.
const smoothing = 0.1

// PerformanceMonitor tracks frame and stage timings. Timers may be ended from
// any goroutine.
type PerformanceMonitor struct {
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds, last frame
	stageTime  [numStages]atomic.Uint64
	layers     atomic.Uint64 // hits recorded in the last frame

	mutex        sync.RWMutex
	avgFrameTime float64 // nanoseconds
	avgStageTime [numStages]float64
	startTime    time.Time

	enableDetailed bool
	sampleInterval time.Duration
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		startTime:      time.Now(),
		enableDetailed: true,
		sampleInterval: time.Second,
	}
}

// SampleInterval is how often callers are expected to report metrics.
func (pm *PerformanceMonitor) SampleInterval() time.Duration {
	return pm.sampleInterval
}

// FrameTimer measures one whole frame.
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	pm := ft.monitor
	elapsed := uint64(time.Since(ft.startTime).Nanoseconds())
	pm.frameTime.Store(elapsed)
	count := pm.frameCount.Add(1)

	if pm.detailed() {
		pm.mutex.Lock()
		pm.avgFrameTime = average(pm.avgFrameTime, float64(elapsed), count)
		pm.mutex.Unlock()
	}
}

// StageTimer measures one stage of a frame.
type StageTimer struct {
	monitor   *PerformanceMonitor
	stage     Stage
	startTime time.Time
}

// StartStage begins timing a stage.
func (pm *PerformanceMonitor) StartStage(stage Stage) *StageTimer {
	return &StageTimer{
		monitor:   pm,
		stage:     stage,
		startTime: time.Now(),
	}
}

// EndStage records the stage's duration and returns it.
func (st *StageTimer) EndStage() time.Duration {
	d := time.Since(st.startTime)
	st.monitor.recordStage(st.stage, d)
	return d
}

// ProfiledFunction runs fn and records its duration under stage.
func (pm *PerformanceMonitor) ProfiledFunction(stage Stage, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	pm.recordStage(stage, d)
	return d
}

func (pm *PerformanceMonitor) recordStage(stage Stage, d time.Duration) {
	if stage < 0 || stage >= numStages {
		return
	}
	ns := uint64(d.Nanoseconds())
	pm.stageTime[stage].Store(ns)

	if pm.detailed() {
		pm.mutex.Lock()
		pm.avgStageTime[stage] = average(pm.avgStageTime[stage], float64(ns), pm.frameCount.Load()+1)
		pm.mutex.Unlock()
	}
}

// RecordLayers stores how many hits the last frame's rays recorded in total.
func (pm *PerformanceMonitor) RecordLayers(n int) {
	pm.layers.Store(uint64(n))
}

func (pm *PerformanceMonitor) detailed() bool {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()
	return pm.enableDetailed
}

// average seeds with the first sample and smooths afterwards.
func average(prev, sample float64, count uint64) float64 {
	if count <= 1 || prev == 0 {
		return sample
	}
	return prev + smoothing*(sample-prev)
}

// FrameMetrics is a snapshot of the latest timings.
type FrameMetrics struct {
	FramesPerSecond float64
	FrameTime       time.Duration
	MoveTime        time.Duration
	CastTime        time.Duration
	ProjectTime     time.Duration
	LayersPerFrame  uint64
	MemoryUsageMB   uint64
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() FrameMetrics {
	frameTime := pm.frameTime.Load()
	fps := 0.0
	if frameTime > 0 {
		fps = float64(time.Second) / float64(frameTime)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return FrameMetrics{
		FramesPerSecond: fps,
		FrameTime:       time.Duration(frameTime),
		MoveTime:        time.Duration(pm.stageTime[StageMove].Load()),
		CastTime:        time.Duration(pm.stageTime[StageCast].Load()),
		ProjectTime:     time.Duration(pm.stageTime[StageProject].Load()),
		LayersPerFrame:  pm.layers.Load(),
		MemoryUsageMB:   memStats.Alloc / 1024 / 1024,
	}
}

// GetDetailedStats returns the averaged statistics keyed for structured
// logging.
func (pm *PerformanceMonitor) GetDetailedStats() map[string]interface{} {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	avgFPS := 0.0
	if pm.avgFrameTime > 0 {
		avgFPS = float64(time.Second) / pm.avgFrameTime
	}

	return map[string]interface{}{
		"uptime_seconds":      time.Since(pm.startTime).Seconds(),
		"frame_count":         pm.frameCount.Load(),
		"avg_fps":             avgFPS,
		"avg_frame_time_ms":   pm.avgFrameTime / 1e6,
		"avg_move_time_ms":    pm.avgStageTime[StageMove] / 1e6,
		"avg_cast_time_ms":    pm.avgStageTime[StageCast] / 1e6,
		"avg_project_time_ms": pm.avgStageTime[StageProject] / 1e6,
		"layers":              pm.layers.Load(),
		"memory_alloc_mb":     memStats.Alloc / 1024 / 1024,
		"gc_cycles":           memStats.NumGC,
		"goroutines":          runtime.NumGoroutine(),
	}
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

const (
	lowFPSThreshold      = 30
	slowStageThresholdMS = 8
)

// CheckPerformanceAlerts reports a low frame rate and any stage eating more
// than half of a 60 FPS frame.
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	var alerts []PerformanceAlert
	now := time.Now()

	if frameTime := pm.frameTime.Load(); frameTime > 0 {
		fps := float64(time.Second) / float64(frameTime)
		if fps < lowFPSThreshold {
			alerts = append(alerts, PerformanceAlert{
				Type:      "low_fps",
				Message:   fmt.Sprintf("Frame rate is below %d FPS", lowFPSThreshold),
				Value:     fps,
				Threshold: lowFPSThreshold,
				Timestamp: now,
			})
		}
	}

	for s := Stage(0); s < numStages; s++ {
		ms := float64(pm.stageTime[s].Load()) / 1e6
		if ms > slowStageThresholdMS {
			alerts = append(alerts, PerformanceAlert{
				Type:      "slow_" + s.String(),
				Message:   fmt.Sprintf("%s stage took more than %d ms", s, slowStageThresholdMS),
				Value:     ms,
				Threshold: slowStageThresholdMS,
				Timestamp: now,
			})
		}
	}

	return alerts
}

// EnableDetailedLogging turns the running averages on or off.
func (pm *PerformanceMonitor) EnableDetailedLogging(enabled bool) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.enableDetailed = enabled
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.layers.Store(0)
	for i := range pm.stageTime {
		pm.stageTime[i].Store(0)
	}

	pm.mutex.Lock()
	pm.avgFrameTime = 0
	pm.avgStageTime = [numStages]float64{}
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}
