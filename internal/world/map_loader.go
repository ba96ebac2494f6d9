package world

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNoStart = errors.New("map start position is not on an empty tile")

// mapFile is the on-disk YAML layout.
type mapFile struct {
	Name     string      `yaml:"name"`
	TileSize float64     `yaml:"tile_size"`
	Rows     []string    `yaml:"rows"`
	Portals  [][2][2]int `yaml:"portals"`
	Start    startFile   `yaml:"start"`
}

type startFile struct {
	X        float64 `yaml:"x"` // tile units
	Y        float64 `yaml:"y"`
	AngleDeg float64 `yaml:"angle_deg"`
}

// MapData contains the loaded map information
type MapData struct {
	Name     string
	TileSize float64
	Tiles    [][]TileCode
	Links    []PortalLink
	// Start position in map pixels and facing in radians.
	StartX, StartY, StartAngle float64
}

// LoadMap loads a map from the specified YAML file
func LoadMap(mapPath string) (*MapData, error) {
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file %s: %w", mapPath, err)
	}
	md, err := ParseMap(data)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", mapPath, err)
	}
	return md, nil
}

// ParseMap decodes a YAML map document. Row strings that are blank or start
// with '#' are skipped; every other character must be a tile digit.
func ParseMap(data []byte) (*MapData, error) {
	var mf mapFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("error reading map file: %w", err)
	}
	if mf.TileSize == 0 {
		mf.TileSize = 32
	}

	md := &MapData{
		Name:       mf.Name,
		TileSize:   mf.TileSize,
		StartX:     mf.Start.X * mf.TileSize,
		StartY:     mf.Start.Y * mf.TileSize,
		StartAngle: mf.Start.AngleDeg * math.Pi / 180,
	}

	for _, line := range mf.Rows {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		row := make([]TileCode, 0, len(line))
		for i, ch := range line {
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("%w: %q at row %d column %d", ErrUnknownTile, ch, len(md.Tiles), i)
			}
			row = append(row, TileCode(ch-'0'))
		}
		md.Tiles = append(md.Tiles, row)
	}
	if len(md.Tiles) == 0 {
		return nil, fmt.Errorf("map file contains no valid map data: %w", ErrEmptyMap)
	}

	for _, p := range mf.Portals {
		md.Links = append(md.Links, PortalLink{
			{X: p[0][0], Y: p[0][1]},
			{X: p[1][0], Y: p[1][1]},
		})
	}
	return md, nil
}

// Grid validates the map data and builds the immutable grid. The start
// position must sit on an empty tile.
func (md *MapData) Grid() (*Grid, error) {
	g, err := NewGrid(md.Tiles, md.TileSize, md.Links)
	if err != nil {
		return nil, err
	}
	if g.TileAt(md.StartX, md.StartY) != TileEmpty {
		return nil, fmt.Errorf("%w: (%.1f, %.1f)", ErrNoStart, md.StartX, md.StartY)
	}
	return g, nil
}
