package rules

import "github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"

// AvailableActions returns every legal action for the position: (i, j) for
// each pile i and each 1 <= j <= piles[i]. Empty piles contribute nothing, so
// the result is empty exactly when the position is terminal.
//
// Actions come back pile-major with ascending counts. That order is an
// implementation detail; callers must not depend on it.
func AvailableActions(piles core.Piles) []core.Action {
	actions := make([]core.Action, 0, piles.Total())
	for i, n := range piles {
		for j := 1; j <= n; j++ {
			actions = append(actions, core.Action{Pile: i, Count: j})
		}
	}
	return actions
}

// OtherPlayer flips between player 0 and player 1.
func OtherPlayer(player int) int {
	if player == 1 {
		return 0
	}
	return 1
}

// ValidPlayer reports whether id names one of the two players.
func ValidPlayer(id int) bool {
	return id == 0 || id == 1
}
