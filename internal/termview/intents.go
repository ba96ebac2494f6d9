package termview

import (
	"time"

	"portalcaster/internal/player"
)

// Terminals report key presses, repeats included, but never releases. A held
// key keeps its intent alive by repeating; once the repeats stop for longer
// than the hold time the intent is released.
const defaultHold = 300 * time.Millisecond

type heldKey struct {
	dir   int
	until time.Time
}

// timedIntents drives a player's walk and turn intents from key presses.
type timedIntents struct {
	hold       time.Duration
	walk, turn heldKey
}

func newTimedIntents(hold time.Duration) *timedIntents {
	if hold <= 0 {
		hold = defaultHold
	}
	return &timedIntents{hold: hold}
}

func (ti *timedIntents) pressWalk(p *player.Player, dir int, now time.Time) {
	p.SetWalk(dir)
	ti.walk = heldKey{dir: p.WalkDirection, until: now.Add(ti.hold)}
}

func (ti *timedIntents) pressTurn(p *player.Player, dir int, now time.Time) {
	p.SetTurn(dir)
	ti.turn = heldKey{dir: p.TurnDirection, until: now.Add(ti.hold)}
}

// expire releases intents whose key has not repeated in time.
func (ti *timedIntents) expire(p *player.Player, now time.Time) {
	if ti.walk.dir != 0 && now.After(ti.walk.until) {
		p.ReleaseWalk(ti.walk.dir)
		ti.walk = heldKey{}
	}
	if ti.turn.dir != 0 && now.After(ti.turn.until) {
		p.ReleaseTurn(ti.turn.dir)
		ti.turn = heldKey{}
	}
}
