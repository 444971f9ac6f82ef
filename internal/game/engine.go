package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/events"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/rules"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/states"
	"github.com/rs/zerolog"
)

// GameConfig holds the settings for a single game
type GameConfig struct {
	InitialPiles core.Piles       // nil means DefaultPiles
	GameID       string           // empty means a generated UUID
	Logger       zerolog.Logger   // zero value discards
	EventBus     events.Publisher // optional
}

// Engine is a single Nim game. Player 0 moves first. It is not safe for
// concurrent use.
type Engine struct {
	gs         *GameState
	gameID     string
	phase      states.GamePhase
	winChecker *rules.WinConditionChecker
	eventBus   events.Publisher
	logger     zerolog.Logger
	startTime  time.Time
}

// NewEngine validates the configuration and starts a game. The initial piles
// are copied; later changes to the caller's slice do not affect the game.
func NewEngine(cfg GameConfig) (*Engine, error) {
	initial := cfg.InitialPiles
	if initial == nil {
		initial = DefaultPiles
	}
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	if initial.IsEmpty() {
		return nil, fmt.Errorf("new game: starting position has no objects: %w", core.ErrInvalidPiles)
	}

	gameID := cfg.GameID
	if gameID == "" {
		gameID = uuid.NewString()
	}
	logger := cfg.Logger.With().Str("component", "GameEngine").Str("game_id", gameID).Logger()

	e := &Engine{
		gs: &GameState{
			Piles:  initial.Clone(),
			Player: 0,
			Winner: -1,
		},
		gameID:     gameID,
		phase:      states.PhaseRunning,
		winChecker: rules.NewWinConditionChecker(logger),
		eventBus:   cfg.EventBus,
		logger:     logger,
		startTime:  time.Now(),
	}

	e.logger.Debug().Ints("initial_piles", e.gs.Piles).Msg("Game created")
	e.publish(events.NewGameStartedEvent(gameID, e.gs.Piles))
	return e, nil
}

// ApplyMove removes objects from a pile on behalf of the player to move and
// passes the turn. When the move empties every pile the game ends and the
// player now to move, not the one who just moved, is recorded as winner.
//
// Illegal actions and moves after the game has ended return an error and
// leave the game unchanged.
func (e *Engine) ApplyMove(action core.Action) error {
	mover := e.gs.Player
	if !e.phase.CanReceiveActions() {
		return core.WrapActionError(mover, action, core.WrapGameStateError(e.gs.Move, e.phase.String(), core.ErrGameOver))
	}
	if err := action.Validate(e.gs.Piles); err != nil {
		return core.WrapActionError(mover, action, err)
	}

	e.gs.Piles[action.Pile] -= action.Count
	e.gs.Move++
	e.gs.Player = rules.OtherPlayer(mover)

	e.logger.Debug().
		Int("player_id", mover).
		Int("pile", action.Pile).
		Int("count", action.Count).
		Ints("piles", e.gs.Piles).
		Msg("Move applied")
	e.publish(events.NewMoveAppliedEvent(e.gameID, mover, action, e.gs.Piles, e.gs.Move))

	if over, winner := e.winChecker.CheckGameOver(e.gs.Piles, e.gs.Player); over {
		e.end(winner)
	}
	return nil
}

// ApplyMoveFor is ApplyMove for a caller that plays a fixed seat. It returns
// ErrInvalidPlayer when player is not a seat or not the player to move.
func (e *Engine) ApplyMoveFor(player int, action core.Action) error {
	if !rules.ValidPlayer(player) {
		return core.WrapActionError(player, action, core.ErrInvalidPlayer)
	}
	if e.phase.CanReceiveActions() && player != e.gs.Player {
		return core.WrapActionError(player, action, fmt.Errorf("player %d is to move: %w", e.gs.Player, core.ErrInvalidPlayer))
	}
	return e.ApplyMove(action)
}

func (e *Engine) end(winner int) {
	if !e.phase.CanTransitionTo(states.PhaseEnded) {
		return
	}
	e.gs.Winner = winner
	e.phase = states.PhaseEnded

	duration := time.Since(e.startTime)
	e.logger.Debug().
		Int("winner", winner).
		Int("moves", e.gs.Move).
		Dur("duration", duration).
		Msg("Game over")
	e.publish(events.NewGameEndedEvent(e.gameID, winner, e.gs.Move, duration))
}

func (e *Engine) publish(event events.Event) {
	if e.eventBus != nil {
		e.eventBus.Publish(event)
	}
}

// LegalActions returns the actions available to the player to move.
func (e *Engine) LegalActions() []core.Action {
	return rules.AvailableActions(e.gs.Piles)
}

// Piles returns a copy of the current position.
func (e *Engine) Piles() core.Piles {
	return e.gs.Piles.Clone()
}

// CurrentPlayer returns the player to move.
func (e *Engine) CurrentPlayer() int {
	return e.gs.Player
}

// Winner returns the winning player, or -1 while the game is in progress.
func (e *Engine) Winner() int {
	return e.gs.Winner
}

func (e *Engine) IsGameOver() bool {
	return e.phase.IsTerminal()
}

func (e *Engine) Phase() states.GamePhase {
	return e.phase
}

func (e *Engine) MoveCount() int {
	return e.gs.Move
}

func (e *Engine) GameID() string {
	return e.gameID
}

// GameState returns a snapshot that the caller may modify freely.
func (e *Engine) GameState() *GameState {
	return e.gs.clone()
}
