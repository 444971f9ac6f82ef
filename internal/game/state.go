package game

import "github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"

// DefaultPiles is the starting position used when none is configured.
var DefaultPiles = core.Piles{4, 4, 4, 4}

// GameState is a snapshot of a game in progress.
type GameState struct {
	Piles  core.Piles
	Player int // player to move
	Winner int // -1 until the piles are empty
	Move   int // moves applied so far
}

// IsGameOver reports whether a winner has been recorded.
func (gs *GameState) IsGameOver() bool {
	return gs.Winner >= 0
}

func (gs *GameState) clone() *GameState {
	c := *gs
	c.Piles = gs.Piles.Clone()
	return &c
}
