package world

import "testing"

// parseRows turns digit strings into tile rows for fixtures.
func parseRows(t *testing.T, rows ...string) [][]TileCode {
	t.Helper()
	tiles := make([][]TileCode, len(rows))
	for y, r := range rows {
		for _, ch := range r {
			tiles[y] = append(tiles[y], TileCode(ch-'0'))
		}
	}
	return tiles
}

func mustGrid(t *testing.T, tileSize float64, links []PortalLink, rows ...string) *Grid {
	t.Helper()
	g, err := NewGrid(parseRows(t, rows...), tileSize, links)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}
