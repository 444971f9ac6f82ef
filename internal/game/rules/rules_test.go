package rules

import (
	"testing"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestAvailableActions(t *testing.T) {
	tests := []struct {
		name     string
		piles    core.Piles
		expected []core.Action
	}{
		{
			name:  "single non-empty pile",
			piles: core.Piles{0, 0, 0, 2},
			expected: []core.Action{
				{Pile: 3, Count: 1},
				{Pile: 3, Count: 2},
			},
		},
		{
			name:  "two piles",
			piles: core.Piles{1, 2},
			expected: []core.Action{
				{Pile: 0, Count: 1},
				{Pile: 1, Count: 1},
				{Pile: 1, Count: 2},
			},
		},
		{
			name:     "terminal position",
			piles:    core.Piles{0, 0, 0},
			expected: []core.Action{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.expected, AvailableActions(tt.piles))
		})
	}
}

func TestAvailableActions_OnlyLegalActions(t *testing.T) {
	positions := []core.Piles{
		{4, 4, 4, 4},
		{1, 3, 5, 7},
		{0, 2, 0, 1},
		{0, 0, 0, 0},
		{6},
	}

	for _, piles := range positions {
		actions := AvailableActions(piles)
		assert.Len(t, actions, piles.Total(), "one action per object per pile for %v", piles)
		assert.Equal(t, piles.IsEmpty(), len(actions) == 0, "empty iff terminal for %v", piles)

		seen := make(map[core.Action]bool)
		for _, a := range actions {
			assert.NoError(t, a.Validate(piles))
			assert.False(t, seen[a], "duplicate action %v", a)
			seen[a] = true
		}
	}
}

func TestOtherPlayer(t *testing.T) {
	assert.Equal(t, 1, OtherPlayer(0))
	assert.Equal(t, 0, OtherPlayer(1))
	for _, p := range []int{0, 1} {
		assert.Equal(t, p, OtherPlayer(OtherPlayer(p)))
	}
}

func TestValidPlayer(t *testing.T) {
	assert.True(t, ValidPlayer(0))
	assert.True(t, ValidPlayer(1))
	assert.False(t, ValidPlayer(2))
	assert.False(t, ValidPlayer(-1))
}

func TestCheckGameOver(t *testing.T) {
	wc := NewWinConditionChecker(zerolog.Nop())

	over, winner := wc.CheckGameOver(core.Piles{0, 1}, 1)
	assert.False(t, over)
	assert.Equal(t, -1, winner)

	over, winner = wc.CheckGameOver(core.Piles{0, 0}, 1)
	assert.True(t, over)
	assert.Equal(t, 1, winner, "winner is the player to move after the emptying move")
}
