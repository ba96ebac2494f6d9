package world

import "fmt"

// Portal is one end of a bidirectional portal link.
type Portal struct {
	ID   int // index into the grid's portal table
	X, Y int // grid cell
	Link int // index of the link this end belongs to
}

// Cell returns the portal's grid cell.
func (p Portal) Cell() Cell {
	return Cell{X: p.X, Y: p.Y}
}

// PortalLink joins two cells carrying TilePortal.
type PortalLink [2]Cell

// PortalAt returns the portal whose cell is (cx, cy).
func (g *Grid) PortalAt(cx, cy int) (Portal, bool) {
	id, ok := g.portalIndex[Cell{X: cx, Y: cy}]
	if !ok {
		return Portal{}, false
	}
	return g.portals[id], true
}

// DestinationOf returns the other end of p's link. A grid that passed NewGrid
// always has one, so a missing counterpart is a programming error and panics.
func (g *Grid) DestinationOf(p Portal) Portal {
	if len(g.portals) < 2 {
		panic(fmt.Sprintf("portal (%d,%d) has no destination: %d portal(s) configured", p.X, p.Y, len(g.portals)))
	}
	if p.ID < 0 || p.ID >= len(g.portals) || g.portals[p.ID].Cell() != p.Cell() {
		panic(fmt.Sprintf("portal (%d,%d) is not part of this grid", p.X, p.Y))
	}
	// Link ends are stored in pairs: 2k and 2k+1.
	return g.portals[p.ID^1]
}

// Portals returns a copy of the portal table.
func (g *Grid) Portals() []Portal {
	out := make([]Portal, len(g.portals))
	copy(out, g.portals)
	return out
}
