package player

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"portalcaster/internal/world"
)

func newGrid(t *testing.T, links []world.PortalLink, rows ...string) *world.Grid {
	t.Helper()
	tiles := make([][]world.TileCode, len(rows))
	for y, r := range rows {
		for _, ch := range r {
			tiles[y] = append(tiles[y], world.TileCode(ch-'0'))
		}
	}
	g, err := world.NewGrid(tiles, 32, links)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func portalRoom(t *testing.T, belowExit string) *world.Grid {
	return newGrid(t, []world.PortalLink{{{X: 3, Y: 1}, {X: 4, Y: 3}}},
		"1111111",
		"1003001",
		"1000001",
		"1000301",
		belowExit,
		"1111111",
	)
}

func TestMove_RotationIsNotNormalized(t *testing.T) {
	g := newGrid(t, nil, "111", "101", "111")
	p := New(48, 48, 0, 100, math.Pi)
	p.SetTurn(1)

	p.Move(g, 3)
	if math.Abs(p.Angle-3*math.Pi) > 1e-9 {
		t.Fatalf("expected angle 3π, got %v", p.Angle)
	}
	if p.X != 48 || p.Y != 48 {
		t.Fatalf("turning must not move the player, got (%v,%v)", p.X, p.Y)
	}
}

func TestMove_WalksIntoEmptyTile(t *testing.T) {
	g := newGrid(t, nil, "11111", "10001", "11111")
	p := New(48, 48, 0, 32, 0)
	p.InTransit = true
	p.SetWalk(1)

	if got := p.Move(g, 0.5); got != Moved {
		t.Fatalf("expected Moved, got %v", got)
	}
	if math.Abs(p.X-64) > 1e-9 || math.Abs(p.Y-48) > 1e-9 {
		t.Fatalf("expected (64,48), got (%v,%v)", p.X, p.Y)
	}
	if p.InTransit {
		t.Fatal("entering an empty tile should clear transit")
	}

	p.SetWalk(-1)
	p.Move(g, 0.5)
	if math.Abs(p.X-48) > 1e-9 {
		t.Fatalf("expected to walk back to 48, got %v", p.X)
	}
}

func TestMove_RejectionIsIdempotent(t *testing.T) {
	g := newGrid(t, nil, "111", "101", "111")
	p := New(48, 48, 0, 16, 0)
	p.SetWalk(1)

	// The step ends exactly on the east wall's edge.
	for i := 0; i < 3; i++ {
		if got := p.Move(g, 1); got != Blocked {
			t.Fatalf("attempt %d: expected Blocked, got %v", i, got)
		}
		if p.X != 48 || p.Y != 48 {
			t.Fatalf("attempt %d: position changed to (%v,%v)", i, p.X, p.Y)
		}
	}
}

func TestMove_TranslucentBlocks(t *testing.T) {
	g := newGrid(t, nil, "11111", "10201", "11111")
	p := New(48, 48, 0, 32, 0)
	p.SetWalk(1)
	if got := p.Move(g, 0.75); got != Blocked {
		t.Fatalf("translucent tiles must block, got %v", got)
	}
	if p.X != 48 {
		t.Fatalf("position changed to %v", p.X)
	}
}

func TestMove_TeleportsBelowDestination(t *testing.T) {
	g := portalRoom(t, "1000001")
	p := New(80, 48, 0, 32, 0)
	p.SetWalk(1)

	if got := p.Move(g, 0.5); got != Teleported {
		t.Fatalf("expected Teleported, got %v", got)
	}
	if p.X != 128 || p.Y != 128 {
		t.Fatalf("expected (128,128) below the exit portal, got (%v,%v)", p.X, p.Y)
	}
	if !p.InTransit {
		t.Fatal("teleport should set transit")
	}

	if got := p.Move(g, 0.5); got != Moved {
		t.Fatalf("expected a plain move after arriving, got %v", got)
	}
	if p.InTransit {
		t.Fatal("stepping onto an empty tile should clear transit")
	}
}

func TestMove_KeepsOffsetInsideCell(t *testing.T) {
	g := portalRoom(t, "1000001")
	p := New(90, 40, 0, 20, 0)
	p.SetWalk(1)

	// Lands at x=110, 14 pixels into the portal cell.
	if got := p.Move(g, 1); got != Teleported {
		t.Fatalf("expected Teleported, got %v", got)
	}
	if math.Abs(p.X-(4*32+14)) > 1e-9 {
		t.Fatalf("expected the x offset to be kept, got %v", p.X)
	}
}

func TestMove_PortalInTransitIsWalkable(t *testing.T) {
	g := portalRoom(t, "1000001")
	p := New(80, 48, 0, 32, 0)
	p.InTransit = true
	p.SetWalk(1)

	if got := p.Move(g, 0.5); got != Moved {
		t.Fatalf("expected to walk into the portal while in transit, got %v", got)
	}
	if p.X != 96 || !p.InTransit {
		t.Fatalf("expected to stand in the portal still in transit, got x=%v transit=%v", p.X, p.InTransit)
	}
}

func TestMove_TeleportIntoWallIsRejected(t *testing.T) {
	g := portalRoom(t, "1000101")
	p := New(80, 48, 0, 32, 0)
	p.SetWalk(1)

	if got := p.Move(g, 0.5); got != Blocked {
		t.Fatalf("expected Blocked when the exit is walled off, got %v", got)
	}
	if p.X != 80 || p.Y != 48 || p.InTransit {
		t.Fatalf("rejected teleport changed state: %+v", p)
	}
}

type brokenGrid struct{ *world.Grid }

func (brokenGrid) PortalAt(int, int) (world.Portal, bool) { return world.Portal{}, false }

func TestMove_PortalWithoutRecordPanics(t *testing.T) {
	g := portalRoom(t, "1000001")
	p := New(80, 48, 0, 32, 0)
	p.SetWalk(1)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a portal tile without a record")
		}
	}()
	p.Move(brokenGrid{g}, 0.5)
}

func TestIntents_ReleaseOnlyClearsOwnDirection(t *testing.T) {
	p := New(0, 0, 0, 1, 1)

	p.SetWalk(1)
	p.SetWalk(-1)
	p.ReleaseWalk(1)
	if p.WalkDirection != -1 {
		t.Errorf("releasing forward should keep backward, got %d", p.WalkDirection)
	}
	p.ReleaseWalk(-1)
	if p.WalkDirection != 0 {
		t.Errorf("expected walk cleared, got %d", p.WalkDirection)
	}

	p.SetTurn(5)
	if p.TurnDirection != 1 {
		t.Errorf("turn intent should be clamped to +1, got %d", p.TurnDirection)
	}
	p.ReleaseTurn(-1)
	if p.TurnDirection != 1 {
		t.Errorf("releasing left should keep right, got %d", p.TurnDirection)
	}
	p.ReleaseTurn(1)
	if p.TurnDirection != 0 {
		t.Errorf("expected turn cleared, got %d", p.TurnDirection)
	}
}

func TestMove_NeverEntersSolidTile(t *testing.T) {
	md, err := world.LoadMap(filepath.Join("..", "..", "assets", "maps", "portal_hall.yaml"))
	if err != nil {
		t.Fatalf("load map: %v", err)
	}
	g, err := md.Grid()
	if err != nil {
		t.Fatalf("grid: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	p := New(md.StartX, md.StartY, md.StartAngle, 200, 110*math.Pi/180)
	teleports := 0
	for i := 0; i < 20000; i++ {
		if i%20 == 0 {
			p.SetWalk(rng.Intn(3) - 1)
			p.SetTurn(rng.Intn(3) - 1)
		}
		if p.Move(g, 1.0/60) == Teleported {
			teleports++
		}
		switch g.TileAt(p.X, p.Y).Kind() {
		case world.KindOpaque, world.KindTranslucent:
			t.Fatalf("step %d left the player inside a solid tile at (%v,%v)", i, p.X, p.Y)
		}
	}
	t.Logf("%d teleports", teleports)
}
