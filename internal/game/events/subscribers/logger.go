package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.logLevel)
	if logEvent == nil {
		return
	}

	logEvent.
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp())

	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.Ints("initial_piles", e.InitialPiles)

	case *events.MoveAppliedEvent:
		logEvent.
			Int("player_id", e.PlayerID).
			Int("pile", e.Action.Pile).
			Int("count", e.Action.Count).
			Ints("piles", e.Piles).
			Int("move", e.Move)

	case *events.GameEndedEvent:
		logEvent.
			Int("winner", e.Winner).
			Int("moves", e.Moves).
			Dur("duration", e.Duration)

	case *events.EpisodeCompletedEvent:
		logEvent.
			Int("episode", e.Episode).
			Int("winner", e.Winner).
			Int("moves", e.Moves).
			Int("table_size", e.TableSize)

	case *events.TrainingCompletedEvent:
		logEvent.
			Int("episodes", e.Episodes).
			Int("table_size", e.TableSize).
			Dur("duration", e.Duration)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Game event")
}
