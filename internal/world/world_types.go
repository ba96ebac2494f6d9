package world

// TileCode is the small integer stored in every map cell.
type TileCode int

const (
	TileEmpty       TileCode = iota // walkable, rays pass freely
	TileWall                        // opaque wall, stops rays and movement
	TileTranslucent                 // see-through wall, rays continue, movement blocked
	TilePortal                      // one end of a portal link
)

// Kind groups tile codes by how the raycaster treats them.
type Kind int

const (
	KindEmpty Kind = iota
	KindOpaque
	KindTranslucent
	KindPortal
	KindUnknown
)

// Kind reports how rays and movement treat the code.
func (c TileCode) Kind() Kind {
	switch c {
	case TileEmpty:
		return KindEmpty
	case TileWall:
		return KindOpaque
	case TileTranslucent:
		return KindTranslucent
	case TilePortal:
		return KindPortal
	default:
		return KindUnknown
	}
}

// IsKnown reports whether the code is one of the four map codes.
func (c TileCode) IsKnown() bool {
	return c.Kind() != KindUnknown
}

func (c TileCode) String() string {
	switch c {
	case TileEmpty:
		return "empty"
	case TileWall:
		return "wall"
	case TileTranslucent:
		return "translucent"
	case TilePortal:
		return "portal"
	default:
		return "unknown"
	}
}

// Cell addresses a grid cell by column and row.
type Cell struct {
	X, Y int
}
