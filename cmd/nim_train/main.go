package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/events"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/report"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/training"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	episodes := flag.Int("episodes", -1, "Self-play episodes (-1 to use config default)")
	evalGames := flag.Int("eval-games", -1, "Games against a random opponent after training (-1 to use config default)")
	seed := flag.Int64("seed", -1, "RNG seed (-1 to use config default, 0 for time-seeded)")
	logLevel := flag.String("log-level", "", "Log level (trace, debug, info, warn, error) (empty to use config default)")
	chartPath := flag.String("chart", "", "Write the learning curve to this HTML file")
	watch := flag.Bool("watch", false, "Reload the log level when the config file changes")
	flag.Parse()

	// NIM_* overrides may also come from a local .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(os.Getenv("APP_ENV")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}

	cfg := config.Get()

	// Use config defaults if not overridden by flags
	if *episodes == -1 {
		*episodes = cfg.Training.Episodes
	}
	if *evalGames == -1 {
		*evalGames = cfg.Evaluation.Games
	}
	if *seed == -1 {
		*seed = cfg.Training.Seed
	}
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	setupLogging(*logLevel, cfg.Logging.Format)

	if *watch {
		config.WatchConfig(func(c *config.Config, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("Ignoring invalid config change")
				return
			}
			zerolog.SetGlobalLevel(parseLevel(c.Logging.Level))
			log.Info().Str("level", c.Logging.Level).Msg("Config reloaded")
		})
	}

	log.Info().
		Int("episodes", *episodes).
		Int("eval_games", *evalGames).
		Int64("seed", *seed).
		Str("config_file", config.ConfigFilePath()).
		Msg("Starting Nim training")

	rng := rand.New(rand.NewSource(*seed))

	ag, err := agent.New(agent.Config{
		Alpha:          cfg.Agent.Alpha,
		Epsilon:        cfg.Agent.Epsilon,
		RandomTieBreak: cfg.Agent.RandomTieBreak,
	}, rand.New(rand.NewSource(rng.Int63())))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create agent")
	}
	ag.SetLogger(log.Logger)

	bus := events.NewEventBusWithLogger(log.Logger)
	eventLogger := subscribers.NewLoggerSubscriber("training-log", log.Logger, zerolog.DebugLevel)
	eventLogger.SetEventFilter([]string{events.TypeEpisodeCompleted, events.TypeTrainingCompleted})
	eventLogger.SetDevMode(os.Getenv("APP_ENV") != "production")
	bus.Subscribe(eventLogger)

	var collector *experience.SimpleCollector
	trainerCfg := training.TrainerConfig{
		InitialPiles:     core.Piles(cfg.Game.InitialPiles),
		Rewards:          &experience.RewardConfig{WinGame: cfg.Rewards.Win, LoseGame: cfg.Rewards.Lose, Step: cfg.Rewards.Step},
		ProgressInterval: cfg.Training.ProgressInterval,
		CurveInterval:    cfg.Training.CurveInterval,
		CurveGames:       cfg.Training.CurveGames,
		Logger:           log.Logger,
		EventBus:         bus,
		Rng:              rand.New(rand.NewSource(rng.Int63())),
	}
	if cfg.Training.ExperienceCapacity > 0 {
		collector = experience.NewSimpleCollector(cfg.Training.ExperienceCapacity, log.Logger)
		trainerCfg.Collector = collector
	}

	trainer, err := training.NewTrainer(ag, trainerCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create trainer")
	}

	stats, err := trainer.Run(*episodes)
	if err != nil {
		log.Fatal().Err(err).Msg("Training failed")
	}

	result, err := training.Evaluate(ag, trainerCfg.InitialPiles, *evalGames, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("Evaluation failed")
	}

	printSummary(stats, result, ag, trainerCfg.InitialPiles, collector)

	if *chartPath != "" {
		if err := report.SaveLearningCurve(*chartPath, stats.Curve); err != nil {
			log.Error().Err(err).Str("path", *chartPath).Msg("Failed to write learning curve")
		} else {
			log.Info().Str("path", *chartPath).Msg("Learning curve written")
		}
	}
}

func printSummary(stats *training.Stats, result training.EvalResult, ag *agent.Agent, initial core.Piles, collector *experience.SimpleCollector) {
	fmt.Println(aurora.Bold("Training summary"))
	fmt.Printf("  run:        %s\n", stats.RunID)
	fmt.Printf("  episodes:   %d (%d moves, %s)\n", stats.Episodes, stats.Moves, stats.Duration.Round(time.Millisecond))
	fmt.Printf("  seat wins:  %d / %d\n", stats.Wins[0], stats.Wins[1])
	fmt.Printf("  table size: %d\n", stats.TableSize)
	if collector != nil {
		fmt.Printf("  recorded:   %d transitions (%d dropped)\n", collector.Len(), collector.Dropped())
	}

	if result.Games > 0 {
		rate := fmt.Sprintf("%.1f%%", 100*result.WinRate())
		var colored aurora.Value
		switch {
		case result.WinRate() >= 0.75:
			colored = aurora.Green(rate)
		case result.WinRate() >= 0.5:
			colored = aurora.Yellow(rate)
		default:
			colored = aurora.Red(rate)
		}
		fmt.Printf("  vs random:  %d-%d over %d games, win rate %s\n", result.Wins, result.Losses(), result.Games, colored)
		lo, hi := result.ConfidenceInterval(0.95)
		fmt.Printf("  95%% CI:     [%.3f, %.3f]\n", lo, hi)
	}

	if value, action, ok := ag.BestFuture(initial); ok {
		fmt.Printf("  opening:    %s from %s (value %s)\n", action, initial, aurora.Cyan(fmt.Sprintf("%.3f", value)))
	}
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func setupLogging(level, format string) {
	zerolog.SetGlobalLevel(parseLevel(level))

	if os.Getenv("APP_ENV") == "production" || format == "json" {
		// JSON output for production
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Pretty console output for development
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}
