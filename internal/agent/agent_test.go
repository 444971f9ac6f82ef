package agent

import (
	"math/rand"
	"testing"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAgent(t *testing.T, cfg Config) *Agent {
	t.Helper()
	a, err := New(cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	return a
}

// seedFixture installs the two hand-set values used throughout these tests.
func seedFixture(a *Agent) core.Piles {
	state := core.Piles{0, 0, 0, 2}
	a.Table().Set(state, core.Action{Pile: 3, Count: 2}, -1)
	a.Table().Set(state, core.Action{Pile: 3, Count: 1}, 10)
	return state
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		err  error
	}{
		{"defaults", DefaultConfig(), nil},
		{"alpha one", Config{Alpha: 1, Epsilon: 0}, nil},
		{"epsilon one", Config{Alpha: 0.1, Epsilon: 1}, nil},
		{"zero alpha", Config{Alpha: 0, Epsilon: 0.1}, ErrInvalidAlpha},
		{"alpha above one", Config{Alpha: 1.5, Epsilon: 0.1}, ErrInvalidAlpha},
		{"negative epsilon", Config{Alpha: 0.5, Epsilon: -0.1}, ErrInvalidEpsilon},
		{"epsilon above one", Config{Alpha: 0.5, Epsilon: 1.1}, ErrInvalidEpsilon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{Alpha: 0, Epsilon: 0.1}, nil)
	assert.ErrorIs(t, err, ErrInvalidAlpha)
}

func TestNew_DefaultsRNG(t *testing.T) {
	a, err := New(DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = a.ChooseAction(core.Piles{3}, true)
	assert.NoError(t, err)
}

func TestAgent_ValueUnknownPairIsZero(t *testing.T) {
	a := newTestAgent(t, DefaultConfig())

	assert.Equal(t, 0.0, a.Value(core.Piles{4, 4, 4, 4}, core.Action{Pile: 0, Count: 1}))
	assert.Equal(t, 0, a.TableSize())
}

func TestAgent_Value(t *testing.T) {
	a := newTestAgent(t, DefaultConfig())
	state := seedFixture(a)

	assert.Equal(t, -1.0, a.Value(state, core.Action{Pile: 3, Count: 2}))
	assert.Equal(t, 10.0, a.Value(state, core.Action{Pile: 3, Count: 1}))
}

func TestAgent_UpdateValue(t *testing.T) {
	a := newTestAgent(t, Config{Alpha: 0.5, Epsilon: 0.1})
	state := core.Piles{0, 0, 0, 2}
	action := core.Action{Pile: 3, Count: 2}

	a.UpdateValue(state, action, -1, 10, 5)

	// -1 + 0.5*(10 + 5 - (-1)) = 7
	assert.InDelta(t, 7.0, a.Value(state, action), 1e-12)
	assert.Equal(t, 1, a.TableSize())
}

func TestAgent_Update(t *testing.T) {
	a := newTestAgent(t, Config{Alpha: 0.5, Epsilon: 0})
	next := seedFixture(a)
	prev := core.Piles{0, 0, 1, 2}
	action := core.Action{Pile: 2, Count: 1}

	a.Update(prev, action, next, 0)

	// old 0, future max(10, -1) = 10, reward 0: 0 + 0.5*(0 + 10 - 0) = 5
	assert.InDelta(t, 5.0, a.Value(prev, action), 1e-12)

	a.Update(prev, action, next, -1)
	// 5 + 0.5*(-1 + 10 - 5) = 7
	assert.InDelta(t, 7.0, a.Value(prev, action), 1e-12)
}

func TestAgent_UpdateIntoTerminalState(t *testing.T) {
	a := newTestAgent(t, Config{Alpha: 0.5, Epsilon: 0})
	prev := core.Piles{0, 1}
	action := core.Action{Pile: 1, Count: 1}

	a.Update(prev, action, core.Piles{0, 0}, -1)

	assert.InDelta(t, -0.5, a.Value(prev, action), 1e-12)
}

func TestAgent_BestFutureTerminal(t *testing.T) {
	a := newTestAgent(t, DefaultConfig())

	value, _, ok := a.BestFuture(core.Piles{0, 0, 0, 0})

	assert.False(t, ok)
	assert.Equal(t, 0.0, value)
}

func TestAgent_BestFuture(t *testing.T) {
	a := newTestAgent(t, DefaultConfig())
	state := seedFixture(a)

	value, action, ok := a.BestFuture(state)

	require.True(t, ok)
	assert.Equal(t, 10.0, value)
	assert.Equal(t, core.Action{Pile: 3, Count: 1}, action)
}

func TestAgent_BestFutureAllNegative(t *testing.T) {
	a := newTestAgent(t, DefaultConfig())
	state := core.Piles{2}
	a.Table().Set(state, core.Action{Pile: 0, Count: 1}, -3)
	a.Table().Set(state, core.Action{Pile: 0, Count: 2}, -2)

	value, action, ok := a.BestFuture(state)

	require.True(t, ok)
	assert.Equal(t, -2.0, value)
	assert.Equal(t, core.Action{Pile: 0, Count: 2}, action)
}

func TestAgent_BestFutureUntriedReturnsSomeAction(t *testing.T) {
	a := newTestAgent(t, DefaultConfig())
	state := core.Piles{1, 3}

	value, action, ok := a.BestFuture(state)

	require.True(t, ok)
	assert.Equal(t, 0.0, value)
	assert.NoError(t, action.Validate(state))
}

func TestAgent_BestFutureRandomTieBreak(t *testing.T) {
	a := newTestAgent(t, Config{Alpha: 0.5, Epsilon: 0, RandomTieBreak: true})
	state := core.Piles{3, 3}
	a.Table().Set(state, core.Action{Pile: 0, Count: 1}, -1)

	seen := make(map[core.Action]bool)
	for i := 0; i < 200; i++ {
		value, action, ok := a.BestFuture(state)
		require.True(t, ok)
		assert.Equal(t, 0.0, value)
		assert.NotEqual(t, core.Action{Pile: 0, Count: 1}, action, "Lower-valued action must never be chosen")
		seen[action] = true
	}
	assert.Len(t, seen, 5, "Every tied action should eventually be picked")
}

func TestAgent_ChooseActionGreedy(t *testing.T) {
	a := newTestAgent(t, Config{Alpha: 0.5, Epsilon: 1})
	state := seedFixture(a)

	for i := 0; i < 20; i++ {
		action, err := a.ChooseAction(state, false)
		require.NoError(t, err)
		assert.Equal(t, core.Action{Pile: 3, Count: 1}, action, "explore=false ignores epsilon")
	}
}

func TestAgent_ChooseActionExploreZeroEpsilon(t *testing.T) {
	a := newTestAgent(t, Config{Alpha: 0.5, Epsilon: 0})
	state := seedFixture(a)

	action, err := a.ChooseAction(state, true)
	require.NoError(t, err)
	assert.Equal(t, core.Action{Pile: 3, Count: 1}, action)
}

func TestAgent_ChooseActionFullExploration(t *testing.T) {
	a := newTestAgent(t, Config{Alpha: 0.5, Epsilon: 1})
	state := seedFixture(a)

	counts := make(map[core.Action]int)
	for i := 0; i < 400; i++ {
		action, err := a.ChooseAction(state, true)
		require.NoError(t, err)
		counts[action]++
	}

	assert.Len(t, counts, 2)
	assert.Greater(t, counts[core.Action{Pile: 3, Count: 2}], 100, "Random moves should pick the worse action regularly")
}

func TestAgent_ChooseActionAlwaysLegal(t *testing.T) {
	a := newTestAgent(t, Config{Alpha: 0.5, Epsilon: 0.3})
	state := core.Piles{1, 3, 5, 7}

	for i := 0; i < 100; i++ {
		action, err := a.ChooseAction(state, true)
		require.NoError(t, err)
		assert.Contains(t, rules.AvailableActions(state), action)
	}
}

func TestAgent_ChooseActionTerminal(t *testing.T) {
	a := newTestAgent(t, DefaultConfig())

	_, err := a.ChooseAction(core.Piles{0, 0}, false)
	assert.ErrorIs(t, err, ErrNoLegalActions)

	_, err = a.ChooseAction(core.Piles{0, 0}, true)
	assert.ErrorIs(t, err, ErrNoLegalActions)
}
