package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game       GameConfig       `mapstructure:"game"`
	Agent      AgentConfig      `mapstructure:"agent"`
	Training   TrainingConfig   `mapstructure:"training"`
	Rewards    RewardsConfig    `mapstructure:"rewards"`
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// GameConfig holds the starting position
type GameConfig struct {
	InitialPiles []int `mapstructure:"initial_piles"`
}

// AgentConfig holds Q-learning parameters
type AgentConfig struct {
	Alpha          float64 `mapstructure:"alpha"`
	Epsilon        float64 `mapstructure:"epsilon"`
	RandomTieBreak bool    `mapstructure:"random_tie_break"`
}

// TrainingConfig holds self-play settings
type TrainingConfig struct {
	Episodes           int   `mapstructure:"episodes"`
	Seed               int64 `mapstructure:"seed"` // 0 means time-seeded
	ProgressInterval   int   `mapstructure:"progress_interval"`
	CurveInterval      int   `mapstructure:"curve_interval"`
	CurveGames         int   `mapstructure:"curve_games"`
	ExperienceCapacity int   `mapstructure:"experience_capacity"` // 0 disables collection
}

// RewardsConfig holds terminal and step rewards
type RewardsConfig struct {
	Win  float64 `mapstructure:"win"`
	Lose float64 `mapstructure:"lose"`
	Step float64 `mapstructure:"step"`
}

// EvaluationConfig holds settings for matches against a random opponent
type EvaluationConfig struct {
	Games int `mapstructure:"games"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
	mu  sync.RWMutex
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("game.initial_piles", []int{4, 4, 4, 4})

	v.SetDefault("agent.alpha", 0.5)
	v.SetDefault("agent.epsilon", 0.1)
	v.SetDefault("agent.random_tie_break", false)

	v.SetDefault("training.episodes", 10000)
	v.SetDefault("training.seed", 0)
	v.SetDefault("training.progress_interval", 1000)
	v.SetDefault("training.curve_interval", 0)
	v.SetDefault("training.curve_games", 100)
	v.SetDefault("training.experience_capacity", 0)

	v.SetDefault("rewards.win", 1.0)
	v.SetDefault("rewards.lose", -1.0)
	v.SetDefault("rewards.step", 0.0)

	v.SetDefault("evaluation.games", 1000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Init initializes the configuration. An explicit configPath that does not
// exist falls back to defaults; a file that exists but cannot be parsed is
// an error.
func Init(configPath string) error {
	mu.Lock()
	defer mu.Unlock()

	v = viper.New()
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/nim-rl")
	}

	v.SetEnvPrefix("NIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	loaded, err := decode(v)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// Get returns the global config instance
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c != nil {
		return c
	}

	if err := Init(""); err != nil {
		panic("failed to initialize config with defaults: " + err.Error())
	}
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	envFile := fmt.Sprintf("config.%s.yaml", env)
	baseFile := v.ConfigFileUsed()
	v.SetConfigFile(envFile)
	err := v.MergeInConfig()
	if baseFile != "" {
		v.SetConfigFile(baseFile)
	}
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	merged, err := decode(v)
	if err != nil {
		return err
	}
	cfg = merged
	return nil
}

// Set allows runtime config updates. The value must keep the config valid.
func Set(key string, value interface{}) error {
	mu.Lock()
	defer mu.Unlock()

	prev := v.Get(key)
	v.Set(key, value)
	updated, err := decode(v)
	if err != nil {
		v.Set(key, prev)
		return err
	}
	cfg = updated
	return nil
}

// GetString gets a string value from config
func GetString(key string) string {
	return GetViper().GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return GetViper().GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return GetViper().GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return GetViper().GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return GetViper().ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. A reload that fails
// validation keeps the previous config and reports the error to onChange.
func WatchConfig(onChange func(*Config, error)) {
	w := GetViper()
	w.OnConfigChange(func(e fsnotify.Event) {
		mu.Lock()
		reloaded, err := decode(w)
		if err == nil {
			cfg = reloaded
		}
		current := cfg
		mu.Unlock()

		if onChange != nil {
			onChange(current, err)
		}
	})
	w.WatchConfig()
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if len(c.Game.InitialPiles) == 0 {
		return fmt.Errorf("game.initial_piles must not be empty")
	}
	total := 0
	for i, n := range c.Game.InitialPiles {
		if n < 0 {
			return fmt.Errorf("game.initial_piles[%d] must be non-negative", i)
		}
		total += n
	}
	if total == 0 {
		return fmt.Errorf("game.initial_piles must contain at least one object")
	}

	if c.Agent.Alpha <= 0 || c.Agent.Alpha > 1 {
		return fmt.Errorf("agent.alpha must be in (0, 1]")
	}
	if c.Agent.Epsilon < 0 || c.Agent.Epsilon > 1 {
		return fmt.Errorf("agent.epsilon must be between 0 and 1")
	}

	if c.Training.Episodes < 0 {
		return fmt.Errorf("training.episodes must be non-negative")
	}
	if c.Training.ProgressInterval < 0 {
		return fmt.Errorf("training.progress_interval must be non-negative")
	}
	if c.Training.CurveInterval < 0 {
		return fmt.Errorf("training.curve_interval must be non-negative")
	}
	if c.Training.CurveGames < 0 {
		return fmt.Errorf("training.curve_games must be non-negative")
	}
	if c.Training.ExperienceCapacity < 0 {
		return fmt.Errorf("training.experience_capacity must be non-negative")
	}

	if c.Evaluation.Games < 0 {
		return fmt.Errorf("evaluation.games must be non-negative")
	}

	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error")
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json")
	}

	return nil
}
