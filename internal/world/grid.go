package world

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyMap        = errors.New("map has no tiles")
	ErrRaggedMap       = errors.New("map rows have inconsistent width")
	ErrUnknownTile     = errors.New("unknown tile code")
	ErrOpenBorder      = errors.New("map border is not fully opaque")
	ErrUnpairedPortal  = errors.New("portal tile has no counterpart")
	ErrPortalNotOnTile = errors.New("portal link does not sit on a portal tile")
	ErrBadTileSize     = errors.New("tile size must be positive")
)

// Grid is the immutable tile map. Coordinates passed to TileAt and IsWall are
// continuous map pixels; cell indices are column (x) and row (y).
type Grid struct {
	width, height int
	tileSize      float64
	tiles         [][]TileCode

	portals     []Portal
	portalIndex map[Cell]int
}

// NewGrid validates tiles and links and builds the grid. The tile rows are
// copied so later edits by the caller do not leak in.
func NewGrid(tiles [][]TileCode, tileSize float64, links []PortalLink) (*Grid, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadTileSize, tileSize)
	}
	if len(tiles) == 0 || len(tiles[0]) == 0 {
		return nil, ErrEmptyMap
	}
	height := len(tiles)
	width := len(tiles[0])

	g := &Grid{
		width:       width,
		height:      height,
		tileSize:    tileSize,
		tiles:       make([][]TileCode, height),
		portalIndex: make(map[Cell]int),
	}
	for y, row := range tiles {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, expected %d", ErrRaggedMap, y, len(row), width)
		}
		for x, code := range row {
			if !code.IsKnown() {
				return nil, fmt.Errorf("%w: %d at (%d,%d)", ErrUnknownTile, code, x, y)
			}
			onBorder := x == 0 || y == 0 || x == width-1 || y == height-1
			if onBorder && code != TileWall {
				return nil, fmt.Errorf("%w: %s at (%d,%d)", ErrOpenBorder, code, x, y)
			}
		}
		g.tiles[y] = append([]TileCode(nil), row...)
	}

	for i, link := range links {
		if link[0] == link[1] {
			return nil, fmt.Errorf("%w: link %d joins (%d,%d) to itself", ErrUnpairedPortal, i, link[0].X, link[0].Y)
		}
		for _, c := range link {
			if g.TileAtCell(c.X, c.Y) != TilePortal {
				return nil, fmt.Errorf("%w: link %d end (%d,%d)", ErrPortalNotOnTile, i, c.X, c.Y)
			}
			if _, dup := g.portalIndex[c]; dup {
				return nil, fmt.Errorf("%w: (%d,%d) appears in more than one link", ErrUnpairedPortal, c.X, c.Y)
			}
			g.portalIndex[c] = len(g.portals)
			g.portals = append(g.portals, Portal{ID: len(g.portals), X: c.X, Y: c.Y, Link: i})
		}
	}

	for y, row := range g.tiles {
		for x, code := range row {
			if code != TilePortal {
				continue
			}
			if _, ok := g.portalIndex[Cell{X: x, Y: y}]; !ok {
				return nil, fmt.Errorf("%w: (%d,%d)", ErrUnpairedPortal, x, y)
			}
		}
	}

	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// TileSize returns the edge length of one cell in map pixels.
func (g *Grid) TileSize() float64 { return g.tileSize }

// PixelWidth returns the map extent along x in map pixels.
func (g *Grid) PixelWidth() float64 { return float64(g.width) * g.tileSize }

// PixelHeight returns the map extent along y in map pixels.
func (g *Grid) PixelHeight() float64 { return float64(g.height) * g.tileSize }

// InBounds reports whether (x, y) lies inside the playable pixel rectangle.
func (g *Grid) InBounds(x, y float64) bool {
	return x >= 0 && x <= g.PixelWidth() && y >= 0 && y <= g.PixelHeight()
}

// CellOf returns the cell containing the continuous point (x, y).
func (g *Grid) CellOf(x, y float64) (int, int) {
	return int(math.Floor(x / g.tileSize)), int(math.Floor(y / g.tileSize))
}

// TileAtCell returns the code at cell (cx, cy); cells outside the grid read as
// walls.
func (g *Grid) TileAtCell(cx, cy int) TileCode {
	if cx < 0 || cx >= g.width || cy < 0 || cy >= g.height {
		return TileWall
	}
	return g.tiles[cy][cx]
}

// TileAt returns the code of the tile containing (x, y). Anything outside the
// pixel rectangle is a wall so every traversal loop terminates.
func (g *Grid) TileAt(x, y float64) TileCode {
	if !g.InBounds(x, y) {
		return TileWall
	}
	return g.TileAtCell(g.CellOf(x, y))
}

// IsWall reports whether the tile containing (x, y) is anything but empty.
func (g *Grid) IsWall(x, y float64) bool {
	return g.TileAt(x, y) != TileEmpty
}

// IsTileBlocking reports whether movement into the cell is refused outright.
func (g *Grid) IsTileBlocking(cx, cy int) bool {
	switch g.TileAtCell(cx, cy).Kind() {
	case KindEmpty, KindPortal:
		return false
	default:
		return true
	}
}
