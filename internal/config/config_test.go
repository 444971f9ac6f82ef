package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals() {
	cfg = nil
	v = nil
}

func TestInit(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
game:
  initial_piles: [1, 3, 5, 7]
agent:
  alpha: 0.3
  epsilon: 0.2
  random_tie_break: true
training:
  episodes: 2500
  seed: 42
rewards:
  win: 2
  lose: -2
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	resetGlobals()

	err = Init(configFile)
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, []int{1, 3, 5, 7}, c.Game.InitialPiles)
	assert.Equal(t, 0.3, c.Agent.Alpha)
	assert.Equal(t, 0.2, c.Agent.Epsilon)
	assert.True(t, c.Agent.RandomTieBreak)
	assert.Equal(t, 2500, c.Training.Episodes)
	assert.Equal(t, int64(42), c.Training.Seed)
	assert.Equal(t, 2.0, c.Rewards.Win)
	assert.Equal(t, -2.0, c.Rewards.Lose)
	// Untouched keys keep their defaults
	assert.Equal(t, 0.0, c.Rewards.Step)
	assert.Equal(t, 1000, c.Evaluation.Games)
	assert.Equal(t, configFile, ConfigFilePath())
}

func TestInitWithDefaults(t *testing.T) {
	resetGlobals()

	// Initialize with non-existent config (should use defaults)
	err := Init("/non/existent/path/config.yaml")
	require.NoError(t, err)

	c := Get()
	require.NotNil(t, c)
	assert.Equal(t, []int{4, 4, 4, 4}, c.Game.InitialPiles)
	assert.Equal(t, 0.5, c.Agent.Alpha)
	assert.Equal(t, 0.1, c.Agent.Epsilon)
	assert.False(t, c.Agent.RandomTieBreak)
	assert.Equal(t, 10000, c.Training.Episodes)
	assert.Equal(t, 1.0, c.Rewards.Win)
	assert.Equal(t, -1.0, c.Rewards.Lose)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "console", c.Logging.Format)
}

func TestInitRejectsInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("agent:\n  alpha: 0\n"), 0644))

	resetGlobals()

	err := Init(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent.alpha")
}

func TestEnvironmentVariables(t *testing.T) {
	resetGlobals()

	t.Setenv("NIM_TRAINING_EPISODES", "500")
	t.Setenv("NIM_AGENT_EPSILON", "0.25")
	t.Setenv("NIM_LOGGING_LEVEL", "debug")

	err := Init("/non/existent/config.yaml")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 500, c.Training.Episodes)
	assert.Equal(t, 0.25, c.Agent.Epsilon)
	assert.Equal(t, "debug", c.Logging.Level)
}

func TestSet(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init("/non/existent/config.yaml"))

	require.NoError(t, Set("training.episodes", 123))
	assert.Equal(t, 123, Get().Training.Episodes)
	assert.Equal(t, 123, GetInt("training.episodes"))

	// Invalid updates are rejected and the previous config survives
	err := Set("agent.epsilon", 1.5)
	require.Error(t, err)
	assert.Equal(t, 0.1, Get().Agent.Epsilon)
}

func TestGetHelpers(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init("/non/existent/config.yaml"))

	assert.Equal(t, "info", GetString("logging.level"))
	assert.Equal(t, 10000, GetInt("training.episodes"))
	assert.False(t, GetBool("agent.random_tie_break"))
	assert.Equal(t, 0.5, GetFloat64("agent.alpha"))
	assert.NotNil(t, GetViper())
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	base := `
training:
  episodes: 1000
logging:
  level: info
`
	prod := `
training:
  episodes: 50000
logging:
  level: warn
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(base), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.prod.yaml"), []byte(prod), 0644))

	oldDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(oldDir)

	resetGlobals()
	require.NoError(t, Init(""))
	assert.Equal(t, 1000, Get().Training.Episodes)

	require.NoError(t, LoadEnvironmentConfig("prod"))
	c := Get()
	assert.Equal(t, 50000, c.Training.Episodes)
	assert.Equal(t, "warn", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)

	// Missing environment files are not an error
	require.NoError(t, LoadEnvironmentConfig("staging"))
	require.NoError(t, LoadEnvironmentConfig(""))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Game:       GameConfig{InitialPiles: []int{4, 4, 4, 4}},
			Agent:      AgentConfig{Alpha: 0.5, Epsilon: 0.1},
			Training:   TrainingConfig{Episodes: 10},
			Rewards:    RewardsConfig{Win: 1, Lose: -1},
			Evaluation: EvaluationConfig{Games: 10},
			Logging:    LoggingConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty piles", func(c *Config) { c.Game.InitialPiles = nil }, "must not be empty"},
		{"negative pile", func(c *Config) { c.Game.InitialPiles = []int{1, -1} }, "non-negative"},
		{"all zero piles", func(c *Config) { c.Game.InitialPiles = []int{0, 0} }, "at least one object"},
		{"zero alpha", func(c *Config) { c.Agent.Alpha = 0 }, "agent.alpha"},
		{"alpha above one", func(c *Config) { c.Agent.Alpha = 1.1 }, "agent.alpha"},
		{"negative epsilon", func(c *Config) { c.Agent.Epsilon = -0.1 }, "agent.epsilon"},
		{"negative episodes", func(c *Config) { c.Training.Episodes = -1 }, "training.episodes"},
		{"negative capacity", func(c *Config) { c.Training.ExperienceCapacity = -1 }, "experience_capacity"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := Validate(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
