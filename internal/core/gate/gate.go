// Package gate tracks whether the user has interacted with the session.
// Audio cues are held back until the first interaction, mirroring the
// autoplay policies this client grew up under.
package gate

import "sync"

// State is the latch state.
type State string

const (
	// StateArmed means no interaction has been observed yet.
	StateArmed State = "armed"
	// StateTriggered is terminal for the session; the latch never re-arms.
	StateTriggered State = "triggered"
)

// Gate is a one-shot interaction latch. It starts armed and transitions to
// triggered on the first interaction. The triggered state persists for the
// lifetime of the process and is never persisted to disk.
type Gate struct {
	mu    sync.Mutex
	state State
}

// New creates an armed gate.
func New() *Gate {
	return &Gate{state: StateArmed}
}

// Trigger records an interaction. It returns true only on the armed to
// triggered transition; subsequent calls have no observable effect.
func (g *Gate) Trigger() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateTriggered {
		return false
	}
	g.state = StateTriggered
	return true
}

// Interacted reports whether the latch has triggered.
func (g *Gate) Interacted() bool {
	return g.State() == StateTriggered
}

// State returns the current latch state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
