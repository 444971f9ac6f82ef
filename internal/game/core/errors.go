package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPile   = errors.New("invalid pile index")
	ErrInvalidCount  = errors.New("invalid removal count")
	ErrInvalidPiles  = errors.New("invalid pile configuration")
	ErrGameOver      = errors.New("game is over")
	ErrInvalidPlayer = errors.New("invalid player ID")
)

// WrapActionError adds player and action context to an error.
// Returns nil when err is nil.
func WrapActionError(playerID int, action Action, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("player %d: %s: %w", playerID, action, err)
}

// WrapGameStateError adds move number and phase context to an error.
func WrapGameStateError(move int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("game move %d [%s]: %w", move, phase, err)
}
