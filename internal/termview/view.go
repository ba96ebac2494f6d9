// Package termview renders the engine's frames into a terminal with tcell.
package termview

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"

	"portalcaster/internal/engine"
	"portalcaster/internal/render"
)

const (
	// Upper half block: the foreground paints the top half of a cell and the
	// background the bottom half, doubling vertical resolution.
	halfBlock = '▀'

	maxFrameDelta = 0.1
)

var statusStyle = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)

// View draws frames into a tcell screen and feeds key presses to the player.
// The caller owns the screen's Init and Fini.
type View struct {
	screen  tcell.Screen
	engine  *engine.Engine
	intents *timedIntents
	tick    time.Duration

	lastFrame time.Time
	lastStats time.Time
}

// New creates a view that renders one frame every tick.
func New(screen tcell.Screen, eng *engine.Engine, tick, hold time.Duration) *View {
	if tick <= 0 {
		tick = time.Second / 30
	}
	return &View{
		screen:  screen,
		engine:  eng,
		intents: newTimedIntents(hold),
		tick:    tick,
	}
}

// Run renders frames until ctx is done or the user quits.
func (v *View) Run(ctx context.Context) error {
	v.screen.HideCursor()
	v.screen.Clear()

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(v.tick)
	defer ticker.Stop()
	v.lastFrame = time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if v.HandleEvent(ev, time.Now()) {
				log.Info("quit requested")
				return nil
			}
		case now := <-ticker.C:
			v.Frame(now)
		}
	}
}

// HandleEvent applies one terminal event and reports whether to quit.
func (v *View) HandleEvent(ev tcell.Event, now time.Time) bool {
	p := v.engine.Player()
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyUp:
			v.intents.pressWalk(p, 1, now)
		case tcell.KeyDown:
			v.intents.pressWalk(p, -1, now)
		case tcell.KeyRight:
			v.intents.pressTurn(p, 1, now)
		case tcell.KeyLeft:
			v.intents.pressTurn(p, -1, now)
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return true
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return false
}

// Frame runs the pipeline for the time elapsed since the last frame and shows
// the result.
func (v *View) Frame(now time.Time) {
	v.intents.expire(v.engine.Player(), now)

	dt := now.Sub(v.lastFrame).Seconds()
	v.lastFrame = now
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	if dt < 0 {
		dt = 0
	}

	v.engine.Tick(dt)
	v.engine.Present(v.Draw)
	v.screen.Show()

	if now.Sub(v.lastStats) >= v.engine.Monitor().SampleInterval() {
		v.lastStats = now
		v.engine.LogStats()
	}
}

// Draw box-samples fb onto the screen, keeping the last row for status text.
func (v *View) Draw(fb *render.FrameBuffer) {
	cols, rows := v.screen.Size()
	viewRows := rows - 1
	if cols <= 0 || viewRows <= 0 {
		return
	}

	// Two pixel rows per cell.
	subRows := viewRows * 2
	for cy := 0; cy < viewRows; cy++ {
		for cx := 0; cx < cols; cx++ {
			x0, x1 := span(cx, cols, fb.Width)
			ty0, ty1 := span(cy*2, subRows, fb.Height)
			by0, by1 := span(cy*2+1, subRows, fb.Height)

			style := tcell.StyleDefault.
				Foreground(boxColor(fb, x0, ty0, x1, ty1)).
				Background(boxColor(fb, x0, by0, x1, by1))
			v.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}

	v.drawStatus(cols, rows-1)
}

func (v *View) drawStatus(cols, row int) {
	p := v.engine.Player()
	m := v.engine.Monitor().GetCurrentMetrics()
	status := fmt.Sprintf(" %s  %.0f fps  layers %d  pos %.0f,%.0f  arrows move, q quits",
		v.engine.MapName(), m.FramesPerSecond, m.LayersPerFrame, p.X, p.Y)
	if p.InTransit {
		status += "  [portal]"
	}

	runes := []rune(status)
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		v.screen.SetContent(x, row, r, nil, statusStyle)
	}
}

// span returns the [from, to) pixel range covered by cell i of n over size
// pixels. Every range holds at least one pixel.
func span(i, n, size int) (int, int) {
	from := i * size / n
	to := (i + 1) * size / n
	if to <= from {
		to = from + 1
	}
	if to > size {
		to = size
		from = min(from, size-1)
	}
	return from, to
}

// boxColor averages the pixels of a rectangle. Alpha is ignored; composed
// frames are opaque.
func boxColor(fb *render.FrameBuffer, x0, y0, x1, y1 int) tcell.Color {
	r, g, b := boxAverage(fb, x0, y0, x1, y1)
	return tcell.NewRGBColor(r, g, b)
}

func boxAverage(fb *render.FrameBuffer, x0, y0, x1, y1 int) (r, g, b int32) {
	var sr, sg, sb, n int64
	for y := y0; y < y1; y++ {
		row := y * fb.Width
		for x := x0; x < x1; x++ {
			p := fb.Pix[row+x]
			sr += int64(p >> 16 & 0xFF)
			sg += int64(p >> 8 & 0xFF)
			sb += int64(p & 0xFF)
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	return int32(sr / n), int32(sg / n), int32(sb / n)
}
