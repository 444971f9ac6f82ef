package states

import "fmt"

// GamePhase represents the current phase of a game
type GamePhase int

const (
	// PhaseRunning - moves are being played
	PhaseRunning GamePhase = iota

	// PhaseEnded - all piles are empty and a winner is recorded
	PhaseEnded
)

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	switch p {
	case PhaseRunning:
		return "Running"
	case PhaseEnded:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p GamePhase) IsTerminal() bool {
	return p == PhaseEnded
}

// CanReceiveActions returns true if the game can process player actions in this phase
func (p GamePhase) CanReceiveActions() bool {
	return p == PhaseRunning
}

// AllowedTransitions returns the valid phases this phase can transition to.
// Ended is absorbing.
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseRunning:
		return []GamePhase{PhaseEnded}
	default:
		return []GamePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}
