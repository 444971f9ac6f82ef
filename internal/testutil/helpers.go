package testutil

import (
	"math/rand"
	"testing"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/agent"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// NewTestAgent creates an agent with a seeded RNG.
func NewTestAgent(t *testing.T, cfg agent.Config, seed int64) *agent.Agent {
	t.Helper()
	ag, err := agent.New(cfg, NewTestRNG(seed))
	require.NoError(t, err)
	return ag
}
