// Package game presents the engine's frames in an ebiten window.
package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"

	"portalcaster/internal/config"
	"portalcaster/internal/engine"
	"portalcaster/internal/render"
)

// Longest step fed to the movement resolver. Larger gaps (window drags,
// breakpoints) would otherwise tunnel the player through walls.
const maxFrameDelta = 0.1

// Game implements ebiten.Game on top of an engine.
type Game struct {
	config  *config.Config
	engine  *engine.Engine
	input   *InputHandler
	minimap *Minimap

	frame  *ebiten.Image
	pixels []byte

	showMinimap bool
	showFPS     bool

	lastTick  time.Time
	lastStats time.Time
}

// NewGame wraps an engine for display.
func NewGame(cfg *config.Config, eng *engine.Engine) *Game {
	w, h := eng.Size()
	return &Game{
		config:      cfg,
		engine:      eng,
		input:       NewInputHandler(),
		minimap:     NewMinimap(eng.Grid(), cfg.Graphics.Minimap.Scale),
		frame:       ebiten.NewImage(w, h),
		showMinimap: cfg.Display.ShowMinimap,
		showFPS:     cfg.Display.ShowFPS,
	}
}

// Update runs one frame of the pipeline and uploads the result.
func (g *Game) Update() error {
	toggles := g.input.PollToggles()
	if toggles.Quit {
		return ebiten.Termination
	}
	if toggles.Minimap {
		g.showMinimap = !g.showMinimap
	}
	if toggles.FPS {
		g.showFPS = !g.showFPS
	}

	g.input.HandleMovement(g.engine.Player())
	g.engine.Tick(g.delta())
	g.engine.Present(func(fb *render.FrameBuffer) {
		g.pixels = fb.RGBA(g.pixels)
		g.frame.WritePixels(g.pixels)
	})

	g.maybeLogStats()
	return nil
}

// delta returns the seconds since the previous tick.
func (g *Game) delta() float64 {
	now := time.Now()
	if g.lastTick.IsZero() {
		g.lastTick = now
		return 0
	}
	dt := now.Sub(g.lastTick).Seconds()
	g.lastTick = now
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	return dt
}

func (g *Game) maybeLogStats() {
	now := time.Now()
	if now.Sub(g.lastStats) < g.engine.Monitor().SampleInterval() {
		return
	}
	g.lastStats = now
	g.engine.LogStats()
	log.WithField("tps", ebiten.ActualTPS()).Trace("tick rate")
}

// Draw shows the last uploaded frame and the enabled overlays.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.frame, nil)

	if g.showMinimap {
		g.minimap.Draw(screen, g.engine.View(), g.engine.Rays())
	}
	if g.showFPS {
		drawHUD(screen, g.engine)
	}
}

// Layout keeps the logical screen at the frame size; ebiten scales the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.engine.Size()
}
