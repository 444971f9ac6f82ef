// Package training runs self-play episodes that teach an agent.Agent to play
// Nim, and measures the result against a random opponent.
package training

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/events"
	"github.com/rs/zerolog"
)

// TrainerConfig holds the settings for a training run
type TrainerConfig struct {
	InitialPiles     core.Piles               // nil means game.DefaultPiles
	Rewards          *experience.RewardConfig // nil means DefaultRewardConfig
	ProgressInterval int                      // log progress every N episodes, 0 disables
	CurveInterval    int                      // sample the learning curve every N episodes, 0 disables
	CurveGames       int                      // evaluation games per curve sample
	Logger           zerolog.Logger
	EventBus         events.Publisher     // optional
	Collector        experience.Collector // optional
	Rng              *rand.Rand           // evaluation randomness; nil means time-seeded
}

// CurvePoint is one learning-curve sample
type CurvePoint struct {
	Episode   int
	WinRate   float64
	TableSize int
}

// Stats summarizes a training run
type Stats struct {
	RunID     string
	Episodes  int
	Moves     int
	Wins      [2]int // episodes won by each seat
	TableSize int
	Duration  time.Duration
	Curve     []CurvePoint
}

// Trainer drives self-play for one agent, which plays both seats.
type Trainer struct {
	agent   *agent.Agent
	cfg     TrainerConfig
	rewards experience.RewardConfig
	rng     *rand.Rand
	runID   string
	logger  zerolog.Logger
}

// NewTrainer validates cfg and prepares a run.
func NewTrainer(ag *agent.Agent, cfg TrainerConfig) (*Trainer, error) {
	if ag == nil {
		return nil, errors.New("trainer requires an agent")
	}
	if cfg.InitialPiles == nil {
		cfg.InitialPiles = game.DefaultPiles
	}
	if err := cfg.InitialPiles.Validate(); err != nil {
		return nil, fmt.Errorf("trainer: %w", err)
	}
	if cfg.InitialPiles.IsEmpty() {
		return nil, fmt.Errorf("trainer: starting position has no objects: %w", core.ErrInvalidPiles)
	}
	if cfg.ProgressInterval < 0 || cfg.CurveInterval < 0 || cfg.CurveGames < 0 {
		return nil, errors.New("trainer: intervals must be non-negative")
	}
	if cfg.CurveInterval > 0 && cfg.CurveGames == 0 {
		cfg.CurveGames = 100
	}

	rewards := experience.DefaultRewardConfig()
	if cfg.Rewards != nil {
		rewards = *cfg.Rewards
	}
	if err := rewards.Validate(); err != nil {
		return nil, fmt.Errorf("trainer: %w", err)
	}
	rng := cfg.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	runID := uuid.NewString()
	return &Trainer{
		agent:   ag,
		cfg:     cfg,
		rewards: rewards,
		rng:     rng,
		runID:   runID,
		logger:  cfg.Logger.With().Str("component", "Trainer").Str("run_id", runID).Logger(),
	}, nil
}

// RunID identifies this trainer's run in logs and events.
func (t *Trainer) RunID() string {
	return t.runID
}

// Run plays n self-play episodes. An episode that fails aborts the run; the
// updates committed before the failure stay in the agent's table.
func (t *Trainer) Run(n int) (*Stats, error) {
	if n < 0 {
		return nil, fmt.Errorf("episode count %d must be non-negative", n)
	}

	start := time.Now()
	stats := &Stats{RunID: t.runID}

	t.logger.Info().
		Int("episodes", n).
		Ints("initial_piles", t.cfg.InitialPiles).
		Float64("alpha", t.agent.Alpha()).
		Float64("epsilon", t.agent.Epsilon()).
		Msg("Training started")

	for episode := 1; episode <= n; episode++ {
		winner, moves, err := t.playEpisode()
		if err != nil {
			stats.TableSize = t.agent.TableSize()
			stats.Duration = time.Since(start)
			t.logger.Error().Err(err).Int("episode", episode).Msg("Training episode failed")
			return stats, fmt.Errorf("episode %d: %w", episode, err)
		}

		stats.Episodes++
		stats.Moves += moves
		stats.Wins[winner]++
		t.publish(events.NewEpisodeCompletedEvent(t.runID, episode, winner, moves, t.agent.TableSize()))

		if t.cfg.ProgressInterval > 0 && episode%t.cfg.ProgressInterval == 0 {
			t.logger.Info().
				Int("episode", episode).
				Int("table_size", t.agent.TableSize()).
				Msg("Playing training games")
		}

		if t.cfg.CurveInterval > 0 && episode%t.cfg.CurveInterval == 0 {
			point, err := t.sampleCurve(episode)
			if err != nil {
				return stats, fmt.Errorf("learning curve at episode %d: %w", episode, err)
			}
			stats.Curve = append(stats.Curve, point)
		}
	}

	stats.TableSize = t.agent.TableSize()
	stats.Duration = time.Since(start)

	t.logger.Info().
		Int("episodes", stats.Episodes).
		Int("table_size", stats.TableSize).
		Dur("duration", stats.Duration).
		Msg("Done training")
	t.publish(events.NewTrainingCompletedEvent(t.runID, stats.Episodes, stats.TableSize, stats.Duration))

	return stats, nil
}

type lastMove struct {
	state  core.Piles
	action core.Action
	set    bool
}

// playEpisode plays one game against itself. Each player's move is credited
// once the opponent has replied, or when the game ends: the player who
// empties the piles is charged the losing reward and the opponent's last move
// the winning one.
func (t *Trainer) playEpisode() (winner, moves int, err error) {
	g, err := game.NewEngine(game.GameConfig{
		InitialPiles: t.cfg.InitialPiles,
		Logger:       t.logger,
		EventBus:     t.cfg.EventBus,
	})
	if err != nil {
		return -1, 0, err
	}
	episodeID := g.GameID()

	var last [2]lastMove
	for {
		state := g.Piles()
		mover := g.CurrentPlayer()

		action, err := t.agent.ChooseAction(state, true)
		if err != nil {
			return -1, g.MoveCount(), err
		}
		last[mover] = lastMove{state: state, action: action, set: true}

		if err := g.ApplyMove(action); err != nil {
			return -1, g.MoveCount(), err
		}
		newState := g.Piles()

		if g.IsGameOver() {
			moverReward, opponentReward := t.rewards.TerminalRewards()
			if err := t.update(episodeID, mover, state, action, newState, moverReward, true); err != nil {
				return -1, g.MoveCount(), err
			}
			opponent := g.CurrentPlayer()
			if prev := last[opponent]; prev.set {
				if err := t.update(episodeID, opponent, prev.state, prev.action, newState, opponentReward, true); err != nil {
					return -1, g.MoveCount(), err
				}
			}
			return g.Winner(), g.MoveCount(), nil
		}

		next := g.CurrentPlayer()
		if prev := last[next]; prev.set {
			if err := t.update(episodeID, next, prev.state, prev.action, newState, t.rewards.Step, false); err != nil {
				return -1, g.MoveCount(), err
			}
		}
	}
}

func (t *Trainer) update(episodeID string, player int, state core.Piles, action core.Action, newState core.Piles, reward float64, done bool) error {
	t.agent.Update(state, action, newState, reward)
	if t.cfg.Collector == nil {
		return nil
	}
	err := t.cfg.Collector.Record(experience.Transition{
		EpisodeID: episodeID,
		PlayerID:  player,
		State:     state,
		Action:    action,
		NextState: newState,
		Reward:    reward,
		Done:      done,
	})
	if err != nil && !errors.Is(err, experience.ErrCollectorFull) {
		return fmt.Errorf("record transition: %w", err)
	}
	return nil
}

func (t *Trainer) sampleCurve(episode int) (CurvePoint, error) {
	result, err := Evaluate(t.agent, t.cfg.InitialPiles, t.cfg.CurveGames, t.rng)
	if err != nil {
		return CurvePoint{}, err
	}
	point := CurvePoint{Episode: episode, WinRate: result.WinRate(), TableSize: t.agent.TableSize()}
	t.logger.Debug().
		Int("episode", episode).
		Float64("win_rate", point.WinRate).
		Msg("Learning curve sample")
	return point, nil
}

func (t *Trainer) publish(event events.Event) {
	if t.cfg.EventBus != nil {
		t.cfg.EventBus.Publish(event)
	}
}

// Train runs n self-play episodes from the default position with a default
// agent and returns the trained agent. It logs nothing; use NewTrainer with a
// Logger to observe a run.
func Train(n int) (*agent.Agent, error) {
	ag, err := agent.New(agent.DefaultConfig(), nil)
	if err != nil {
		return nil, err
	}
	trainer, err := NewTrainer(ag, TrainerConfig{Logger: zerolog.Nop()})
	if err != nil {
		return nil, err
	}
	if _, err := trainer.Run(n); err != nil {
		return nil, err
	}
	return ag, nil
}
