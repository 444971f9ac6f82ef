package testutil

import (
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

// FixtureState is a near-terminal position with two legal moves.
var FixtureState = core.Piles{0, 0, 0, 2}

// SeedFixtureValues stores hand-picked values for FixtureState: taking one
// object is worth 10, taking both is worth -1.
func SeedFixtureValues(ag *agent.Agent) {
	ag.Table().Set(FixtureState, core.Action{Pile: 3, Count: 2}, -1)
	ag.Table().Set(FixtureState, core.Action{Pile: 3, Count: 1}, 10)
}
