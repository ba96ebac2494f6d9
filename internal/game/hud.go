package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"portalcaster/internal/engine"
	"portalcaster/internal/raycast"
)

var (
	hudBackground = color.RGBA{0, 0, 0, 160}
	hudText       = color.RGBA{230, 230, 230, 255}
	hudTransit    = color.RGBA{200, 120, 255, 255}
)

// hudLines formats the metrics overlay.
func hudLines(eng *engine.Engine) []string {
	m := eng.Monitor().GetCurrentMetrics()
	p := eng.Player()
	lines := []string{
		fmt.Sprintf("FPS %.0f  TPS %.0f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		fmt.Sprintf("cast %.2fms  project %.2fms", ms(m.CastTime.Seconds()), ms(m.ProjectTime.Seconds())),
		fmt.Sprintf("layers %d  pos %.0f,%.0f", m.LayersPerFrame, p.X, p.Y),
	}
	lines = append(lines, aheadLine(eng.Rays()))
	if p.InTransit {
		lines = append(lines, "in portal")
	}
	return lines
}

// aheadLine describes the nearest surface under the centre column.
func aheadLine(rays []raycast.Ray) string {
	if len(rays) == 0 {
		return "ahead: -"
	}
	hit, ok := rays[len(rays)/2].Nearest()
	if !ok {
		return "ahead: -"
	}
	return fmt.Sprintf("ahead: %s %.0fpx", hit.Content, hit.Distance)
}

func ms(seconds float64) float64 { return seconds * 1000 }

func drawHUD(screen *ebiten.Image, eng *engine.Engine) {
	face := basicfont.Face7x13
	lines := hudLines(eng)

	width := 0
	for _, l := range lines {
		width = max(width, font.MeasureString(face, l).Round())
	}
	lineHeight := face.Metrics().Height.Round()
	vector.DrawFilledRect(screen, 6, 6, float32(width+8), float32(len(lines)*lineHeight+6), hudBackground, false)

	for i, l := range lines {
		clr := hudText
		if l == "in portal" {
			clr = hudTransit
		}
		ebitext.Draw(screen, l, face, 10, 10+face.Ascent+i*lineHeight, clr)
	}
}
