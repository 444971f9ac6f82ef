package training

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/rules"
	"gonum.org/v1/gonum/stat/distuv"
)

// Policy picks a move for a position.
type Policy interface {
	ChooseAction(state core.Piles) (core.Action, error)
}

// RandomPolicy plays a uniformly random legal move.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy creates a random policy. A nil rng is replaced by a
// time-seeded one.
func NewRandomPolicy(rng *rand.Rand) *RandomPolicy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomPolicy{rng: rng}
}

func (p *RandomPolicy) ChooseAction(state core.Piles) (core.Action, error) {
	actions := rules.AvailableActions(state)
	if len(actions) == 0 {
		return core.Action{}, fmt.Errorf("random move in %v: %w", state, agent.ErrNoLegalActions)
	}
	return actions[p.rng.Intn(len(actions))], nil
}

// GreedyPolicy plays the agent's best known move without exploring.
type GreedyPolicy struct {
	Agent *agent.Agent
}

func (p GreedyPolicy) ChooseAction(state core.Piles) (core.Action, error) {
	return p.Agent.ChooseAction(state, false)
}

// PlayMatch plays one game from initial with players[0] moving first and
// returns the winning seat.
func PlayMatch(initial core.Piles, players [2]Policy) (int, error) {
	g, err := game.NewEngine(game.GameConfig{InitialPiles: initial})
	if err != nil {
		return -1, err
	}
	for !g.IsGameOver() {
		seat := g.CurrentPlayer()
		action, err := players[seat].ChooseAction(g.Piles())
		if err != nil {
			return -1, fmt.Errorf("seat %d: %w", seat, err)
		}
		if err := g.ApplyMoveFor(seat, action); err != nil {
			return -1, err
		}
	}
	return g.Winner(), nil
}

// EvalResult counts games won by the agent under evaluation
type EvalResult struct {
	Games       int
	Wins        int
	WinsAsFirst int
	GamesFirst  int
}

// Losses returns the number of games the agent lost.
func (r EvalResult) Losses() int {
	return r.Games - r.Wins
}

// WinRate returns Wins/Games, 0 when no games were played.
func (r EvalResult) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games)
}

// ConfidenceInterval returns the Wilson score interval for the win rate at
// the given two-sided confidence level, e.g. 0.95. With no games played the
// interval is [0, 1].
func (r EvalResult) ConfidenceInterval(level float64) (lo, hi float64) {
	if r.Games == 0 || level <= 0 || level >= 1 {
		return 0, 1
	}
	z := distuv.UnitNormal.Quantile(1 - (1-level)/2)
	n := float64(r.Games)
	p := r.WinRate()

	denom := 1 + z*z/n
	center := (p + z*z/(2*n)) / denom
	margin := z * math.Sqrt(p*(1-p)/n+z*z/(4*n*n)) / denom
	return math.Max(0, center-margin), math.Min(1, center+margin)
}

// Evaluate pits the greedy agent against a random opponent for the given
// number of games. The agent alternates seats, taking the first move in even
// numbered games.
func Evaluate(ag *agent.Agent, initial core.Piles, games int, rng *rand.Rand) (EvalResult, error) {
	if ag == nil {
		return EvalResult{}, errors.New("evaluate requires an agent")
	}
	if initial == nil {
		initial = game.DefaultPiles
	}

	learned := GreedyPolicy{Agent: ag}
	opponent := NewRandomPolicy(rng)

	var result EvalResult
	for i := 0; i < games; i++ {
		seat := i % 2
		var players [2]Policy
		players[seat] = learned
		players[rules.OtherPlayer(seat)] = opponent

		winner, err := PlayMatch(initial, players)
		if err != nil {
			return result, fmt.Errorf("evaluation game %d: %w", i+1, err)
		}

		result.Games++
		if seat == 0 {
			result.GamesFirst++
		}
		if winner == seat {
			result.Wins++
			if seat == 0 {
				result.WinsAsFirst++
			}
		}
	}
	return result, nil
}
