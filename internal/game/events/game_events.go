package events

import (
	"time"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted       = "game.started"
	TypeMoveApplied       = "move.applied"
	TypeGameEnded         = "game.ended"
	TypeEpisodeCompleted  = "training.episode_completed"
	TypeTrainingCompleted = "training.completed"
)

// GameStartedEvent is published when a new game begins
type GameStartedEvent struct {
	BaseEvent
	InitialPiles core.Piles `json:"initial_piles"`
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, initial core.Piles) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:    newBaseEvent(TypeGameStarted, gameID),
		InitialPiles: initial.Clone(),
	}
}

// MoveAppliedEvent is published after a legal move has changed the piles
type MoveAppliedEvent struct {
	BaseEvent
	PlayerID int         `json:"player_id"`
	Action   core.Action `json:"action"`
	Piles    core.Piles  `json:"piles"`
	Move     int         `json:"move"`
}

// NewMoveAppliedEvent creates a new MoveAppliedEvent
func NewMoveAppliedEvent(gameID string, playerID int, action core.Action, piles core.Piles, move int) *MoveAppliedEvent {
	return &MoveAppliedEvent{
		BaseEvent: newBaseEvent(TypeMoveApplied, gameID),
		PlayerID:  playerID,
		Action:    action,
		Piles:     piles.Clone(),
		Move:      move,
	}
}

// GameEndedEvent is published when the last object is removed
type GameEndedEvent struct {
	BaseEvent
	Winner   int           `json:"winner"`
	Moves    int           `json:"moves"`
	Duration time.Duration `json:"duration"`
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID string, winner, moves int, duration time.Duration) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: newBaseEvent(TypeGameEnded, gameID),
		Winner:    winner,
		Moves:     moves,
		Duration:  duration,
	}
}

// EpisodeCompletedEvent is published by the trainer after each self-play episode
type EpisodeCompletedEvent struct {
	BaseEvent
	Episode   int `json:"episode"`
	Winner    int `json:"winner"`
	Moves     int `json:"moves"`
	TableSize int `json:"table_size"`
}

// NewEpisodeCompletedEvent creates a new EpisodeCompletedEvent. runID
// identifies the training run.
func NewEpisodeCompletedEvent(runID string, episode, winner, moves, tableSize int) *EpisodeCompletedEvent {
	return &EpisodeCompletedEvent{
		BaseEvent: newBaseEvent(TypeEpisodeCompleted, runID),
		Episode:   episode,
		Winner:    winner,
		Moves:     moves,
		TableSize: tableSize,
	}
}

// TrainingCompletedEvent is published once a training run finishes
type TrainingCompletedEvent struct {
	BaseEvent
	Episodes  int           `json:"episodes"`
	TableSize int           `json:"table_size"`
	Duration  time.Duration `json:"duration"`
}

// NewTrainingCompletedEvent creates a new TrainingCompletedEvent
func NewTrainingCompletedEvent(runID string, episodes, tableSize int, duration time.Duration) *TrainingCompletedEvent {
	return &TrainingCompletedEvent{
		BaseEvent: newBaseEvent(TypeTrainingCompleted, runID),
		Episodes:  episodes,
		TableSize: tableSize,
		Duration:  duration,
	}
}
