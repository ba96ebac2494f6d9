package raycast

import (
	"math"

	"portalcaster/internal/mathutil"
	"portalcaster/internal/world"
)

// Grid is the part of the map the caster reads.
type Grid interface {
	TileSize() float64
	InBounds(x, y float64) bool
	TileAt(x, y float64) world.TileCode
	CellOf(x, y float64) (int, int)
	PortalAt(cx, cy int) (world.Portal, bool)
	DestinationOf(p world.Portal) world.Portal
}

// axisEpsilon below which a sine or cosine counts as zero. The scan along that
// axis is switched off instead of stepping by an infinite amount.
const axisEpsilon = 1e-12

type traversalState int

const (
	stateScanning traversalState = iota
	// The origin was just moved to the destination portal. The crossing axis
	// starts on the destination cell's own boundary, which is not an obstruction.
	stateJustTeleported
	stateTerminated
)

// Caster casts rays against one grid. It holds no per-ray state and is safe
// for concurrent use on distinct Ray values.
type Caster struct {
	grid    Grid
	maxHits int
}

// NewCaster creates a caster recording at most maxHits layers per ray.
// Values outside [1, MaxHitsPerRay] are clamped.
func NewCaster(grid Grid, maxHits int) *Caster {
	return &Caster{
		grid:    grid,
		maxHits: mathutil.IntClamp(maxHits, 1, MaxHitsPerRay),
	}
}

// MaxHits returns the effective per-ray layer cap.
func (c *Caster) MaxHits() int {
	return c.maxHits
}

// CastAll fills rays with one column each, spread across the field of view
// described by projPlane.
func (c *Caster) CastAll(rays []Ray, view ViewPoint, projPlane float64) {
	for col := range rays {
		c.CastColumn(rays, col, view, projPlane)
	}
}

// CastColumn casts the ray for a single column. Distinct columns touch
// distinct slots so callers may run them in parallel.
func (c *Caster) CastColumn(rays []Ray, col int, view ViewPoint, projPlane float64) {
	angle := ColumnAngle(view.Angle, col, len(rays), projPlane)
	c.Cast(&rays[col], angle, view.X, view.Y)
}

// stepper walks the intersections of the ray with one family of grid lines.
type stepper struct {
	nextX, nextY float64
	stepX, stepY float64
	enabled      bool
}

func (s *stepper) advance() {
	s.nextX += s.stepX
	s.nextY += s.stepY
}

// candidate is the nearest non-empty crossing found along one axis.
type candidate struct {
	found        bool
	x, y         float64
	cellX, cellY int
	content      world.TileCode
	distance     float64
}

type traversal struct {
	grid     Grid
	tileSize float64
	ray      *Ray
	tan      float64

	originX, originY float64
	accumulated      float64

	horz, vert stepper

	// Whether each axis can be stepped at all for this angle.
	horzUsable, vertUsable bool

	// Axis of the crossing that led into the last portal.
	crossedVertical bool
}

// Cast walks the grid from (x, y) along angle and fills ray.
func (c *Caster) Cast(ray *Ray, angle, x, y float64) {
	angle = mathutil.NormalizeAngle(angle)

	ray.Angle = angle
	ray.Count = 0
	ray.FacingDown = angle > 0 && angle < math.Pi
	ray.FacingUp = !ray.FacingDown
	ray.FacingRight = angle < 0.5*math.Pi || angle > 1.5*math.Pi
	ray.FacingLeft = !ray.FacingRight

	t := traversal{
		grid:     c.grid,
		tileSize: c.grid.TileSize(),
		ray:      ray,
		tan:      math.Tan(angle),
	}
	sin, cos := math.Sincos(angle)
	t.horzUsable = math.Abs(sin) > axisEpsilon
	t.vertUsable = math.Abs(cos) > axisEpsilon
	t.relocate(x, y)

	state := stateScanning
	for state != stateTerminated {
		if state == stateJustTeleported {
			t.crossingStepper().advance()
			state = stateScanning
			continue
		}

		h := t.scanHorizontal()
		v := t.scanVertical()
		if !h.found && !v.found {
			break
		}

		vertical := chooseVertical(h, v)
		win := h
		if vertical {
			win = v
		}

		ray.Hits[ray.Count] = Hit{
			GridX:    win.cellX,
			GridY:    win.cellY,
			HitX:     win.x,
			HitY:     win.y,
			OriginX:  t.originX,
			OriginY:  t.originY,
			Distance: win.distance,
			Vertical: vertical,
			Content:  win.content,
		}
		ray.Count++

		state = t.next(&ray.Hits[ray.Count-1], ray.Count >= c.maxHits)
	}
}

// next decides what follows a recorded hit.
func (t *traversal) next(hit *Hit, full bool) traversalState {
	if full {
		return stateTerminated
	}
	switch hit.Content.Kind() {
	case world.KindTranslucent:
		// Keep the origin so later distances stack on top of this one.
		if hit.Vertical {
			t.vert.advance()
		} else {
			t.horz.advance()
		}
		return stateScanning
	case world.KindPortal:
		if !t.teleport(hit) {
			return stateTerminated
		}
		return stateJustTeleported
	default:
		// Opaque walls and any unrecognized code stop the ray.
		return stateTerminated
	}
}

// chooseVertical reports whether the vertical candidate wins. The horizontal
// one only wins when strictly nearer.
func chooseVertical(h, v candidate) bool {
	if !v.found {
		return false
	}
	if !h.found {
		return true
	}
	return !(h.distance < v.distance)
}

// relocate starts a new ray segment at (x, y) and rebuilds both steppers.
func (t *traversal) relocate(x, y float64) {
	t.originX, t.originY = x, y
	t.horz.enabled = t.horzUsable
	t.vert.enabled = t.vertUsable
	ts := t.tileSize
	ray := t.ray

	if t.horz.enabled {
		yIntercept := math.Floor(y/ts) * ts
		if ray.FacingDown {
			yIntercept += ts
		}
		t.horz.nextY = yIntercept
		t.horz.nextX = x + (yIntercept-y)/t.tan

		t.horz.stepY = ts
		if ray.FacingUp {
			t.horz.stepY = -ts
		}
		t.horz.stepX = ts / t.tan
		if (ray.FacingLeft && t.horz.stepX > 0) || (ray.FacingRight && t.horz.stepX < 0) {
			t.horz.stepX = -t.horz.stepX
		}
	}

	if t.vert.enabled {
		xIntercept := math.Floor(x/ts) * ts
		if ray.FacingRight {
			xIntercept += ts
		}
		t.vert.nextX = xIntercept
		t.vert.nextY = y + (xIntercept-x)*t.tan

		t.vert.stepX = ts
		if ray.FacingLeft {
			t.vert.stepX = -ts
		}
		t.vert.stepY = ts * t.tan
		if (ray.FacingUp && t.vert.stepY > 0) || (ray.FacingDown && t.vert.stepY < 0) {
			t.vert.stepY = -t.vert.stepY
		}
	}
}

func (t *traversal) crossingStepper() *stepper {
	if t.crossedVertical {
		return &t.vert
	}
	return &t.horz
}

// teleport moves the segment origin from the struck portal to the matching
// point on its destination and continues in the same direction. It returns
// false when the struck cell has no portal record.
func (t *traversal) teleport(hit *Hit) bool {
	src, ok := t.grid.PortalAt(hit.GridX, hit.GridY)
	if !ok {
		return false
	}
	dst := t.grid.DestinationOf(src)

	t.accumulated = hit.Distance
	t.crossedVertical = hit.Vertical

	ts := t.tileSize
	t.relocate(
		hit.HitX+float64(dst.X-src.X)*ts,
		hit.HitY+float64(dst.Y-src.Y)*ts,
	)
	// The crossing axis restarts on the origin itself: the boundary of the
	// destination cell.
	s := t.crossingStepper()
	s.nextX, s.nextY = t.originX, t.originY
	return true
}

// scanHorizontal advances along horizontal grid lines until a non-empty tile
// is entered. Leaving the map abandons the axis for the rest of the ray.
func (t *traversal) scanHorizontal() candidate {
	s := &t.horz
	for s.enabled {
		if !t.grid.InBounds(s.nextX, s.nextY) {
			s.enabled = false
			break
		}
		checkX, checkY := s.nextX, s.nextY
		if t.ray.FacingUp {
			checkY--
		}
		if c, ok := t.sample(s.nextX, s.nextY, checkX, checkY); ok {
			return c
		}
		s.advance()
	}
	return candidate{}
}

// scanVertical is scanHorizontal for vertical grid lines.
func (t *traversal) scanVertical() candidate {
	s := &t.vert
	for s.enabled {
		if !t.grid.InBounds(s.nextX, s.nextY) {
			s.enabled = false
			break
		}
		checkX, checkY := s.nextX, s.nextY
		if t.ray.FacingLeft {
			checkX--
		}
		if c, ok := t.sample(s.nextX, s.nextY, checkX, checkY); ok {
			return c
		}
		s.advance()
	}
	return candidate{}
}

// sample looks at the tile being entered at (checkX, checkY), one unit past
// the grid line at (x, y).
func (t *traversal) sample(x, y, checkX, checkY float64) (candidate, bool) {
	code := t.grid.TileAt(checkX, checkY)
	if code == world.TileEmpty {
		return candidate{}, false
	}
	cx, cy := t.grid.CellOf(checkX, checkY)
	return candidate{
		found:    true,
		x:        x,
		y:        y,
		cellX:    cx,
		cellY:    cy,
		content:  code,
		distance: mathutil.Distance(t.originX, t.originY, x, y) + t.accumulated,
	}, true
}
