package experience

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidReward is returned for NaN or infinite reward values
var ErrInvalidReward = errors.New("reward must be a finite number")

// RewardConfig holds configurable reward values
type RewardConfig struct {
	WinGame  float64 // credited to the opponent of the player who emptied the piles
	LoseGame float64 // credited to the player who emptied the piles
	Step     float64 // every non-terminal move
}

// DefaultRewardConfig returns the default reward configuration
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		WinGame:  1.0,
		LoseGame: -1.0,
		Step:     0.0,
	}
}

// TerminalRewards returns the rewards for the move that ended the game and
// for the opponent's preceding move.
func (rc RewardConfig) TerminalRewards() (mover, opponent float64) {
	return rc.LoseGame, rc.WinGame
}

// Validate rejects rewards that would poison the value table.
func (rc RewardConfig) Validate() error {
	for _, r := range []struct {
		name  string
		value float64
	}{
		{"win", rc.WinGame},
		{"lose", rc.LoseGame},
		{"step", rc.Step},
	} {
		if math.IsNaN(r.value) || math.IsInf(r.value, 0) {
			return fmt.Errorf("%s reward %v: %w", r.name, r.value, ErrInvalidReward)
		}
	}
	return nil
}
