// Package keytracker turns polled key states into press and release edges.
// Ebiten only reports whether a key is down, so the previous state is kept per
// key.
package keytracker

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Edge is a change in a key's state between two polls.
type Edge int

const (
	NoEdge Edge = iota
	Pressed
	Released
)

// KeyStateTracker tracks the previous state of a key.
type KeyStateTracker struct {
	Key         ebiten.Key
	prevPressed bool
}

// Poll reads the key from ebiten and reports the edge since the last poll.
func (k *KeyStateTracker) Poll() Edge {
	return k.Observe(ebiten.IsKeyPressed(k.Key))
}

// Observe records a key state and reports the edge since the previous one.
func (k *KeyStateTracker) Observe(pressed bool) Edge {
	prev := k.prevPressed
	k.prevPressed = pressed
	switch {
	case pressed && !prev:
		return Pressed
	case !pressed && prev:
		return Released
	default:
		return NoEdge
	}
}

// Down reports the last observed state.
func (k *KeyStateTracker) Down() bool {
	return k.prevPressed
}
