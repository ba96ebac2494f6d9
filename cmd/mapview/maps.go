package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"portalcaster/internal/world"
)

type mapInfo struct {
	Key  string
	Path string
	Data *world.MapData
	Grid *world.Grid
	Err  error
}

var (
	floorColor       = color.RGBA{35, 35, 48, 255}
	wallColor        = color.RGBA{200, 200, 210, 255}
	translucentColor = color.RGBA{90, 160, 220, 255}
	portalColor      = color.RGBA{170, 80, 200, 255}
	unknownColor     = color.RGBA{255, 0, 255, 255}
)

// loadMaps reads every YAML map in dir. A map that fails to parse or
// validate is still listed so the viewer can show why.
func loadMaps(dir string) ([]mapInfo, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list maps in %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no maps found in %s: %w", dir, os.ErrNotExist)
	}
	sort.Strings(paths)

	maps := make([]mapInfo, 0, len(paths))
	for _, path := range paths {
		m := mapInfo{
			Key:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Path: path,
		}
		m.Data, m.Err = world.LoadMap(path)
		if m.Err == nil {
			m.Grid, m.Err = m.Data.Grid()
		}
		if m.Err != nil {
			log.WithField("map", path).Warnf("Map failed validation: %v", m.Err)
		}
		maps = append(maps, m)
	}
	return maps, nil
}

func mapTileColor(code world.TileCode) color.RGBA {
	switch code.Kind() {
	case world.KindEmpty:
		return floorColor
	case world.KindOpaque:
		return wallColor
	case world.KindTranslucent:
		return translucentColor
	case world.KindPortal:
		return portalColor
	default:
		return unknownColor
	}
}

// fitTileSize picks the largest on-screen cell size that fits a cols x rows
// map into a w x h panel.
func fitTileSize(w, h, cols, rows int) int {
	if cols <= 0 || rows <= 0 {
		return 0
	}
	size := min(w/cols, h/rows)
	if size < 2 {
		size = 2
	}
	return size
}

func infoLines(m mapInfo) []string {
	if m.Data == nil {
		return []string{"Failed to load:", m.Err.Error()}
	}
	rows := len(m.Data.Tiles)
	cols := 0
	for _, row := range m.Data.Tiles {
		cols = max(cols, len(row))
	}
	counts := make(map[world.Kind]int)
	for _, row := range m.Data.Tiles {
		for _, code := range row {
			counts[code.Kind()]++
		}
	}

	name := m.Data.Name
	if name == "" {
		name = m.Key
	}
	lines := []string{
		fmt.Sprintf("Name: %s", name),
		fmt.Sprintf("Tiles: %dx%d @ %gpx", cols, rows, m.Data.TileSize),
		fmt.Sprintf("Walls: %d", counts[world.KindOpaque]),
		fmt.Sprintf("Translucent: %d", counts[world.KindTranslucent]),
		fmt.Sprintf("Portal links: %d", len(m.Data.Links)),
		fmt.Sprintf("Start: (%.1f, %.1f) tiles", m.Data.StartX/m.Data.TileSize, m.Data.StartY/m.Data.TileSize),
		fmt.Sprintf("Facing: %.0f deg", m.Data.StartAngle*180/math.Pi),
	}
	if n := counts[world.KindUnknown]; n > 0 {
		lines = append(lines, fmt.Sprintf("Unknown codes: %d", n))
	}
	if m.Err != nil {
		lines = append(lines, "", "INVALID:")
		lines = append(lines, wrap(m.Err.Error(), 40)...)
	}
	return lines
}

func legendLines() []string {
	lines := []string{
		"Tiles (code -> kind)",
		"--------------------",
	}
	for _, code := range []world.TileCode{world.TileEmpty, world.TileWall, world.TileTranslucent, world.TilePortal} {
		lines = append(lines, fmt.Sprintf("%d -> %s", int(code), code))
	}
	return append(lines,
		"",
		"Markers",
		"-------",
		"Cyan circle = start",
		"Yellow tick = start facing",
		"Violet line = portal link",
	)
}

// wrap splits s into lines of at most width runes, breaking on spaces.
func wrap(s string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
