// Package engine runs the per-frame pipeline: movement, ray casting and
// projection into a frame buffer the presenter reads.
package engine

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"portalcaster/internal/config"
	"portalcaster/internal/player"
	"portalcaster/internal/raycast"
	"portalcaster/internal/render"
	"portalcaster/internal/threading"
	"portalcaster/internal/threading/monitoring"
	"portalcaster/internal/world"
)

// Engine owns everything a frame touches. It is not safe for concurrent use;
// the parallel column stages are internal.
type Engine struct {
	grid      *world.Grid
	mapName   string
	player    *player.Player
	caster    *raycast.Caster
	projector *render.Projector
	buffer    *render.FrameBuffer
	rays      []raycast.Ray
	threads   *threading.ThreadingComponents
	frames    uint64
}

// New builds an engine for a loaded map. The view matches the map's pixel
// extent.
func New(cfg *config.Config, md *world.MapData) (*Engine, error) {
	grid, err := md.Grid()
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", md.Name, err)
	}

	width, height := int(grid.PixelWidth()), int(grid.PixelHeight())
	e := &Engine{
		grid:      grid,
		mapName:   md.Name,
		player:    player.New(md.StartX, md.StartY, md.StartAngle, cfg.GetWalkSpeed(), cfg.GetTurnSpeed()),
		caster:    raycast.NewCaster(grid, cfg.GetMaxHits()),
		projector: render.NewProjector(width, height, grid.TileSize(), cfg.GetFOV(), render.NewPalette(cfg.Graphics.Colors)),
		buffer:    render.NewFrameBuffer(width, height),
		rays:      make([]raycast.Ray, width),
		threads:   threading.NewThreadingComponents(cfg.Threading),
	}
	e.buffer.Clear(e.projector.Palette.Clear)

	fields := log.Fields{
		"map":      md.Name,
		"cells":    fmt.Sprintf("%dx%d", grid.Width(), grid.Height()),
		"view":     fmt.Sprintf("%dx%d", width, height),
		"portals":  len(grid.Portals()),
		"max_hits": e.caster.MaxHits(),
	}
	if r := e.threads.ColumnRenderer; r != nil {
		fields["workers"] = r.Workers()
	}
	log.WithFields(fields).Info("engine ready")

	return e, nil
}

// Tick advances the player by dt seconds and renders the frame into the
// buffer. Call Present before the next Tick.
func (e *Engine) Tick(dt float64) player.MoveResult {
	pm := e.threads.PerformanceMonitor
	frameTimer := pm.StartFrame()
	defer frameTimer.EndFrame()

	var result player.MoveResult
	pm.ProfiledFunction(monitoring.StageMove, func() {
		result = e.movePlayer(dt)
	})

	view := e.View()
	projPlane := e.projector.ProjPlane
	pm.ProfiledFunction(monitoring.StageCast, func() {
		e.threads.ForEachColumn(len(e.rays), func(col int) {
			e.caster.CastColumn(e.rays, col, view, projPlane)
		})
	})

	pm.ProfiledFunction(monitoring.StageProject, func() {
		e.threads.ForEachColumn(len(e.rays), func(col int) {
			e.projector.ProjectColumn(e.buffer, col, &e.rays[col], view.Angle)
		})
	})

	layers := 0
	for i := range e.rays {
		layers += e.rays[i].Count
	}
	pm.RecordLayers(layers)
	e.frames++

	return result
}

func (e *Engine) movePlayer(dt float64) player.MoveResult {
	p := e.player
	fromX, fromY := p.X, p.Y
	result := p.Move(e.grid, dt)
	if result == player.Teleported {
		log.WithFields(log.Fields{
			"from": fmt.Sprintf("(%.1f, %.1f)", fromX, fromY),
			"to":   fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y),
		}).Debug("player went through a portal")
	}
	return result
}

// Present hands the finished frame to fn, then clears the buffer for the next
// frame. fn must not keep the buffer.
func (e *Engine) Present(fn func(*render.FrameBuffer)) {
	fn(e.buffer)
	e.buffer.Clear(e.projector.Palette.Clear)
}

// View returns the point rays are cast from this frame.
func (e *Engine) View() raycast.ViewPoint {
	return raycast.ViewPoint{X: e.player.X, Y: e.player.Y, Angle: e.player.Angle}
}

// Player returns the player for input handling.
func (e *Engine) Player() *player.Player { return e.player }

// Grid returns the map being rendered.
func (e *Engine) Grid() *world.Grid { return e.grid }

// MapName returns the name of the loaded map.
func (e *Engine) MapName() string { return e.mapName }

// Rays returns the hit lists of the last Tick, one per column.
func (e *Engine) Rays() []raycast.Ray { return e.rays }

// Size returns the frame size in pixels.
func (e *Engine) Size() (width, height int) {
	return e.buffer.Width, e.buffer.Height
}

// Frames returns how many frames have been rendered.
func (e *Engine) Frames() uint64 { return e.frames }

// Monitor returns the frame timer.
func (e *Engine) Monitor() *monitoring.PerformanceMonitor {
	return e.threads.PerformanceMonitor
}

// LogStats writes the averaged frame statistics at debug level and any
// performance alerts as warnings.
func (e *Engine) LogStats() {
	pm := e.threads.PerformanceMonitor
	if log.IsLevelEnabled(log.DebugLevel) {
		log.WithFields(log.Fields(pm.GetDetailedStats())).Debug("frame stats")
	}
	for _, a := range pm.CheckPerformanceAlerts() {
		log.WithFields(log.Fields{"value": a.Value, "threshold": a.Threshold}).Warn(a.Message)
	}
}

// Close stops the worker pool.
func (e *Engine) Close() {
	e.threads.Shutdown()
}
