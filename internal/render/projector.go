package render

import (
	"math"

	"portalcaster/internal/raycast"
)

// Projector maps hit lists onto screen columns.
type Projector struct {
	TileSize  float64
	Width     int
	Height    int
	FOV       float64
	ProjPlane float64 // eye to projection plane, in pixels
	Palette   Palette
}

// NewProjector sets up a projector for a width×height view.
func NewProjector(width, height int, tileSize, fov float64, palette Palette) *Projector {
	return &Projector{
		TileSize:  tileSize,
		Width:     width,
		Height:    height,
		FOV:       fov,
		ProjPlane: raycast.ProjectionPlane(width, fov),
		Palette:   palette,
	}
}

// Strip returns the clamped [top, bottom) rows covered by a wall seen at
// distance along rayAngle while facing playerAngle.
func (p *Projector) Strip(distance, rayAngle, playerAngle float64) (top, bottom int) {
	perp := distance * math.Cos(rayAngle-playerAngle)
	// Anything taller than twice the screen clamps the same way.
	height := 2 * float64(p.Height)
	if perp > 0 {
		height = math.Min(p.TileSize/perp*p.ProjPlane, height)
	}
	strip := int(height)

	top = p.Height/2 - strip/2
	if top < 0 {
		top = 0
	}
	bottom = p.Height/2 + strip/2
	if bottom > p.Height {
		bottom = p.Height
	}
	return top, bottom
}

// Project composes every column. rays must hold one entry per column.
func (p *Projector) Project(buf *FrameBuffer, rays []raycast.Ray, playerAngle float64) {
	for col := range rays {
		p.ProjectColumn(buf, col, &rays[col], playerAngle)
	}
}

// ProjectColumn composites one ray's layers into column col, farthest first.
// The farthest layer overwrites, nearer layers blend over it and the nearest
// one ends up fully opaque.
func (p *Projector) ProjectColumn(buf *FrameBuffer, col int, ray *raycast.Ray, playerAngle float64) {
	layers := ray.Layers()
	for w := len(layers) - 1; w >= 0; w-- {
		hit := layers[w]
		farthest := w == len(layers)-1
		nearest := w == 0

		top, bottom := p.Strip(hit.Distance, ray.Angle, playerAngle)

		p.band(buf, col, 0, top, p.Palette.Ceiling, farthest, nearest)
		if c, ok := p.Palette.Wall(hit); ok {
			p.band(buf, col, top, bottom, c, farthest, nearest)
		} else if nearest {
			// Nothing of the portal itself is drawn; what shows through it
			// still has to end up opaque.
			for y := top; y < bottom; y++ {
				buf.Pix[buf.Offset(col, y)] |= Opaque
			}
		}
		p.band(buf, col, bottom, p.Height, p.Palette.Floor, farthest, nearest)
	}
}

func (p *Projector) band(buf *FrameBuffer, col, from, to int, c uint32, farthest, nearest bool) {
	for y := from; y < to; y++ {
		off := buf.Offset(col, y)
		if farthest {
			buf.Set(off, c, nearest)
		} else {
			buf.Mix(off, c, nearest)
		}
	}
}
