// Package player holds the viewer's position and resolves its movement against
// the map, including walking through portals.
package player

import (
	"fmt"
	"math"

	"portalcaster/internal/mathutil"
	"portalcaster/internal/world"
)

// Grid is the part of the map movement is resolved against.
type Grid interface {
	TileSize() float64
	TileAt(x, y float64) world.TileCode
	CellOf(x, y float64) (int, int)
	IsTileBlocking(cx, cy int) bool
	PortalAt(cx, cy int) (world.Portal, bool)
	DestinationOf(p world.Portal) world.Portal
}

// MoveResult says what a call to Move did with the proposed step.
type MoveResult int

const (
	Moved MoveResult = iota
	Blocked
	Teleported
)

func (r MoveResult) String() string {
	switch r {
	case Moved:
		return "moved"
	case Blocked:
		return "blocked"
	case Teleported:
		return "teleported"
	default:
		return fmt.Sprintf("MoveResult(%d)", int(r))
	}
}

// Player is the viewer. Only Move changes its position.
type Player struct {
	X, Y  float64
	Angle float64 // radians, left unbounded

	WalkDirection int // -1 back, 0 still, +1 forward
	TurnDirection int // -1 left, 0 still, +1 right

	WalkSpeed float64 // map pixels per second
	TurnSpeed float64 // radians per second

	// InTransit is set while the player stands inside the portal they just
	// came out of, so it does not fire again.
	InTransit bool
}

// New creates a still player at (x, y) facing angle.
func New(x, y, angle, walkSpeed, turnSpeed float64) *Player {
	return &Player{
		X:         x,
		Y:         y,
		Angle:     angle,
		WalkSpeed: walkSpeed,
		TurnSpeed: turnSpeed,
	}
}

// SetWalk starts walking forward (+1) or backward (-1).
func (p *Player) SetWalk(dir int) { p.WalkDirection = mathutil.IntSign(dir) }

// SetTurn starts turning right (+1) or left (-1).
func (p *Player) SetTurn(dir int) { p.TurnDirection = mathutil.IntSign(dir) }

// ReleaseWalk stops walking, unless a later key already changed direction.
func (p *Player) ReleaseWalk(dir int) {
	if p.WalkDirection == mathutil.IntSign(dir) {
		p.WalkDirection = 0
	}
}

// ReleaseTurn stops turning, unless a later key already changed direction.
func (p *Player) ReleaseTurn(dir int) {
	if p.TurnDirection == mathutil.IntSign(dir) {
		p.TurnDirection = 0
	}
}

// Move applies dt seconds of the current intent. The target tile decides the
// outcome: empty tiles are entered, portals teleport the player below their
// counterpart, and walls of either kind refuse the step.
func (p *Player) Move(g Grid, dt float64) MoveResult {
	p.Angle += float64(p.TurnDirection) * p.TurnSpeed * dt

	step := float64(p.WalkDirection) * p.WalkSpeed * dt
	sin, cos := math.Sincos(p.Angle)
	newX := p.X + cos*step
	newY := p.Y + sin*step

	switch g.TileAt(newX, newY).Kind() {
	case world.KindEmpty:
		p.X, p.Y = newX, newY
		p.InTransit = false
		return Moved
	case world.KindPortal:
		if p.InTransit {
			p.X, p.Y = newX, newY
			return Moved
		}
		return p.teleport(g, newX, newY, sin*step)
	default:
		return Blocked
	}
}

// teleport drops the player into the cell below the destination portal. The
// x offset inside the cell is kept and the step's y component is applied again
// from the top of that cell.
func (p *Player) teleport(g Grid, newX, newY, stepY float64) MoveResult {
	cx, cy := g.CellOf(newX, newY)
	src, ok := g.PortalAt(cx, cy)
	if !ok {
		panic(fmt.Sprintf("portal tile (%d,%d) has no portal record", cx, cy))
	}
	dst := g.DestinationOf(src)

	ts := g.TileSize()
	x := float64(dst.X)*ts + (newX - float64(cx)*ts)
	y := float64(dst.Y+1)*ts + stepY

	tx, ty := g.CellOf(x, y)
	if g.IsTileBlocking(tx, ty) {
		return Blocked
	}

	p.X, p.Y = x, y
	p.InTransit = true
	return Teleported
}
