package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"portalcaster/internal/game/keytracker"
	"portalcaster/internal/player"
)

// intentAxis says which player intent a key drives.
type intentAxis int

const (
	axisWalk intentAxis = iota
	axisTurn
)

// binding ties one key to one direction of one intent.
type binding struct {
	tracker keytracker.KeyStateTracker
	axis    intentAxis
	dir     int
}

// InputHandler turns key edges into player intents and view toggles.
type InputHandler struct {
	bindings []binding
}

// NewInputHandler binds the arrow keys.
func NewInputHandler() *InputHandler {
	bind := func(key ebiten.Key, axis intentAxis, dir int) binding {
		return binding{tracker: keytracker.KeyStateTracker{Key: key}, axis: axis, dir: dir}
	}
	return &InputHandler{
		bindings: []binding{
			bind(ebiten.KeyArrowUp, axisWalk, 1),
			bind(ebiten.KeyArrowDown, axisWalk, -1),
			bind(ebiten.KeyArrowRight, axisTurn, 1),
			bind(ebiten.KeyArrowLeft, axisTurn, -1),
		},
	}
}

// HandleMovement polls the arrow keys and updates p's intents.
func (ih *InputHandler) HandleMovement(p *player.Player) {
	for i := range ih.bindings {
		b := &ih.bindings[i]
		applyEdge(p, b.axis, b.dir, b.tracker.Poll())
	}
}

// applyEdge sets an intent on press and clears it on release.
func applyEdge(p *player.Player, axis intentAxis, dir int, edge keytracker.Edge) {
	switch edge {
	case keytracker.Pressed:
		if axis == axisWalk {
			p.SetWalk(dir)
		} else {
			p.SetTurn(dir)
		}
	case keytracker.Released:
		if axis == axisWalk {
			p.ReleaseWalk(dir)
		} else {
			p.ReleaseTurn(dir)
		}
	}
}

// Toggles reports which overlay keys were pressed this tick.
type Toggles struct {
	Minimap bool
	FPS     bool
	Quit    bool
}

// PollToggles reads the one-shot keys.
func (ih *InputHandler) PollToggles() Toggles {
	return Toggles{
		Minimap: inpututil.IsKeyJustPressed(ebiten.KeyTab),
		FPS:     inpututil.IsKeyJustPressed(ebiten.KeyF),
		Quit:    inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}
}
