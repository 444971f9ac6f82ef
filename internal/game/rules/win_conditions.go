package rules

import (
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/rs/zerolog"
)

// WinConditionChecker handles game over detection and winner determination
type WinConditionChecker struct {
	logger zerolog.Logger
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger) *WinConditionChecker {
	return &WinConditionChecker{
		logger: logger.With().Str("component", "WinConditionChecker").Logger(),
	}
}

// IsTerminal reports whether every pile has been emptied.
func IsTerminal(piles core.Piles) bool {
	return piles.IsEmpty()
}

// CheckGameOver is called after the player to move has already been switched.
// When the piles are empty the winner is that player, i.e. the opponent of
// whoever took the last object. Returns (isGameOver, winnerID) with winnerID
// -1 while the game continues.
func (wc *WinConditionChecker) CheckGameOver(piles core.Piles, playerToMove int) (bool, int) {
	if !IsTerminal(piles) {
		return false, -1
	}
	wc.logger.Debug().
		Int("winner_player_id", playerToMove).
		Int("last_mover", OtherPlayer(playerToMove)).
		Msg("Winner determined")
	return true, playerToMove
}
