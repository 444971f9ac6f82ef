// Package agent implements a tabular Q-learning player for Nim.
//
// The agent keeps one value per (position, action) pair and learns from
// rewards with the temporal-difference rule
//
//	Q(s, a) <- Q(s, a) + alpha * (reward + max_a' Q(s', a') - Q(s, a))
//
// with no discount. Actions are chosen epsilon-greedily over the legal moves
// the rules package enumerates.
package agent

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/rules"
	"github.com/rs/zerolog"
)

var (
	ErrNoLegalActions = errors.New("no legal actions in terminal position")
	ErrInvalidAlpha   = errors.New("alpha must be in (0, 1]")
	ErrInvalidEpsilon = errors.New("epsilon must be in [0, 1]")
)

// Config holds the learning parameters
type Config struct {
	Alpha   float64 // learning rate, step size of each update
	Epsilon float64 // probability of a random move while exploring
	// RandomTieBreak picks uniformly among equally valued best actions
	// instead of the first one enumerated.
	RandomTieBreak bool
}

// DefaultConfig returns alpha 0.5, epsilon 0.1.
func DefaultConfig() Config {
	return Config{Alpha: 0.5, Epsilon: 0.1}
}

// Validate checks parameter ranges.
func (c Config) Validate() error {
	if !(c.Alpha > 0 && c.Alpha <= 1) {
		return fmt.Errorf("alpha %v: %w", c.Alpha, ErrInvalidAlpha)
	}
	if !(c.Epsilon >= 0 && c.Epsilon <= 1) {
		return fmt.Errorf("epsilon %v: %w", c.Epsilon, ErrInvalidEpsilon)
	}
	return nil
}

// Agent is a Q-learning player. It is not safe for concurrent use.
type Agent struct {
	cfg    Config
	q      *Table
	rng    *rand.Rand
	logger zerolog.Logger
}

// New creates an agent with an empty table. A nil rng is replaced by a
// time-seeded one.
func New(cfg Config, rng *rand.Rand) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Agent{
		cfg:    cfg,
		q:      NewTable(),
		rng:    rng,
		logger: zerolog.Nop(),
	}, nil
}

// SetLogger attaches a logger for per-update debug output.
func (a *Agent) SetLogger(logger zerolog.Logger) {
	a.logger = logger.With().Str("component", "QAgent").Logger()
}

// Alpha returns the learning rate.
func (a *Agent) Alpha() float64 { return a.cfg.Alpha }

// Epsilon returns the exploration probability.
func (a *Agent) Epsilon() float64 { return a.cfg.Epsilon }

// Table exposes the value table.
func (a *Agent) Table() *Table { return a.q }

// TableSize returns the number of learned (state, action) entries.
func (a *Agent) TableSize() int { return a.q.Len() }

// Value returns Q(state, action), 0 for pairs never updated.
func (a *Agent) Value(state core.Piles, action core.Action) float64 {
	return a.q.Get(state, action)
}

// BestFuture returns the highest value over the legal actions in state and
// an action achieving it. ok is false, with value 0, when state is terminal.
//
// Ties go to the first action in enumeration order unless RandomTieBreak is
// set. Callers should not rely on which of several tied actions is returned.
func (a *Agent) BestFuture(state core.Piles) (value float64, action core.Action, ok bool) {
	actions := rules.AvailableActions(state)
	if len(actions) == 0 {
		return 0, core.Action{}, false
	}

	key := state.Key()
	best := math.Inf(-1)
	ties := 0
	for _, candidate := range actions {
		v := a.q.getKeyed(key, candidate)
		switch {
		case v > best:
			best, action, ties = v, candidate, 1
		case v == best && a.cfg.RandomTieBreak:
			// reservoir sampling over the tied actions
			ties++
			if a.rng.Intn(ties) == 0 {
				action = candidate
			}
		}
	}
	return best, action, true
}

// Update applies one temporal-difference step for taking action in oldState
// and landing in newState with the given reward.
func (a *Agent) Update(oldState core.Piles, action core.Action, newState core.Piles, reward float64) {
	oldQ := a.Value(oldState, action)
	futureQ, _, _ := a.BestFuture(newState)
	a.UpdateValue(oldState, action, oldQ, reward, futureQ)
}

// UpdateValue stores oldQ + alpha*(reward + futureQ - oldQ) for the pair.
func (a *Agent) UpdateValue(state core.Piles, action core.Action, oldQ, reward, futureQ float64) {
	newQ := oldQ + a.cfg.Alpha*(reward+futureQ-oldQ)
	a.q.Set(state, action, newQ)

	if e := a.logger.Trace(); e.Enabled() {
		e.Ints("state", state).
			Int("pile", action.Pile).
			Int("count", action.Count).
			Float64("old_q", oldQ).
			Float64("reward", reward).
			Float64("future_q", futureQ).
			Float64("new_q", newQ).
			Msg("Q-value updated")
	}
}

// ChooseAction picks a move for state. With explore set, a uniformly random
// legal action is taken with probability epsilon; otherwise the best known
// action is returned. A terminal state yields ErrNoLegalActions.
func (a *Agent) ChooseAction(state core.Piles, explore bool) (core.Action, error) {
	if explore && a.rng.Float64() < a.cfg.Epsilon {
		return a.randomAction(state)
	}
	if _, action, ok := a.BestFuture(state); ok {
		return action, nil
	}
	return a.randomAction(state)
}

func (a *Agent) randomAction(state core.Piles) (core.Action, error) {
	actions := rules.AvailableActions(state)
	if len(actions) == 0 {
		return core.Action{}, fmt.Errorf("choose action in %v: %w", state, ErrNoLegalActions)
	}
	return actions[a.rng.Intn(len(actions))], nil
}
