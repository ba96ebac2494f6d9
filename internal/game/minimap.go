package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"portalcaster/internal/raycast"
	"portalcaster/internal/world"
)

var (
	minimapEmpty       = colornames.Black
	minimapWall        = colornames.White
	minimapTranslucent = colornames.Lightskyblue
	minimapPortal      = colornames.Mediumorchid
	minimapUnknown     = colornames.Magenta
	minimapRay         = color.RGBA{255, 60, 60, 90}
	minimapPlayer      = colornames.Yellow
)

// rayStride draws every n-th column's ray to keep the overlay readable.
const rayStride = 8

// Minimap draws a scaled top-down view of the grid, the rays and the player.
type Minimap struct {
	grid  *world.Grid
	scale float32
	// Static tiles are drawn once.
	tiles *ebiten.Image
}

// NewMinimap prepares a minimap at the given scale of map pixels.
func NewMinimap(grid *world.Grid, scale float64) *Minimap {
	return &Minimap{grid: grid, scale: float32(scale)}
}

func tileColor(code world.TileCode) color.Color {
	switch code.Kind() {
	case world.KindEmpty:
		return minimapEmpty
	case world.KindOpaque:
		return minimapWall
	case world.KindTranslucent:
		return minimapTranslucent
	case world.KindPortal:
		return minimapPortal
	default:
		return minimapUnknown
	}
}

func (m *Minimap) buildTiles() {
	ts := float32(m.grid.TileSize()) * m.scale
	w := int(math.Ceil(float64(float32(m.grid.Width()) * ts)))
	h := int(math.Ceil(float64(float32(m.grid.Height()) * ts)))
	m.tiles = ebiten.NewImage(max(w, 1), max(h, 1))

	for cy := 0; cy < m.grid.Height(); cy++ {
		for cx := 0; cx < m.grid.Width(); cx++ {
			vector.DrawFilledRect(m.tiles, float32(cx)*ts, float32(cy)*ts, ts, ts, tileColor(m.grid.TileAtCell(cx, cy)), false)
		}
	}
}

// Draw renders the overlay in the top-left corner of screen.
func (m *Minimap) Draw(screen *ebiten.Image, view raycast.ViewPoint, rays []raycast.Ray) {
	if m.tiles == nil {
		m.buildTiles()
	}
	screen.DrawImage(m.tiles, nil)

	s := m.scale
	for col := 0; col < len(rays); col += rayStride {
		ray := &rays[col]
		if ray.Count == 0 {
			continue
		}
		// Each segment runs from its own origin, so portal jumps show as
		// separate strokes.
		for _, h := range ray.Layers() {
			vector.StrokeLine(screen, float32(h.OriginX)*s, float32(h.OriginY)*s, float32(h.HitX)*s, float32(h.HitY)*s, 1, minimapRay, false)
		}
	}

	px, py := float32(view.X)*s, float32(view.Y)*s
	vector.DrawFilledCircle(screen, px, py, 3, minimapPlayer, true)
	dx, dy := math.Cos(view.Angle), math.Sin(view.Angle)
	vector.StrokeLine(screen, px, py, px+float32(dx)*12, py+float32(dy)*12, 1, minimapPlayer, true)
}
