package experience

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/rs/zerolog"
)

// ErrCollectorFull is returned when the collector is at capacity
var ErrCollectorFull = errors.New("experience collector is full")

// Transition is one value update issued during self-play: PlayerID took
// Action in State, and the update looked ahead from NextState.
type Transition struct {
	ID        string
	EpisodeID string
	PlayerID  int
	State     core.Piles
	Action    core.Action
	NextState core.Piles
	Reward    float64
	Done      bool
}

// Collector receives transitions from the trainer
type Collector interface {
	Record(t Transition) error
}

// SimpleCollector implements a bounded in-memory collector
type SimpleCollector struct {
	experiences []Transition
	mu          sync.Mutex
	maxSize     int
	dropped     int
	logger      zerolog.Logger
}

// NewSimpleCollector creates a collector holding at most maxSize transitions
func NewSimpleCollector(maxSize int, logger zerolog.Logger) *SimpleCollector {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &SimpleCollector{
		experiences: make([]Transition, 0, min(maxSize, 1024)),
		maxSize:     maxSize,
		logger:      logger.With().Str("component", "experience_collector").Logger(),
	}
}

// Record stores a copy of t, assigning an ID if it has none. When full the
// transition is dropped and ErrCollectorFull returned.
func (c *SimpleCollector) Record(t Transition) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.experiences) >= c.maxSize {
		c.dropped++
		if c.dropped == 1 {
			c.logger.Warn().
				Int("buffer_size", len(c.experiences)).
				Int("max_size", c.maxSize).
				Msg("Experience buffer full, dropping experiences")
		}
		return ErrCollectorFull
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.State = t.State.Clone()
	t.NextState = t.NextState.Clone()
	c.experiences = append(c.experiences, t)

	c.logger.Trace().
		Str("experience_id", t.ID).
		Int("player_id", t.PlayerID).
		Float64("reward", t.Reward).
		Bool("done", t.Done).
		Msg("Collected experience")
	return nil
}

// Experiences returns a copy of all collected transitions
func (c *SimpleCollector) Experiences() []Transition {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]Transition, len(c.experiences))
	copy(result, c.experiences)
	return result
}

// Len returns the current number of transitions
func (c *SimpleCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.experiences)
}

// Dropped returns how many transitions were rejected because the collector was full
func (c *SimpleCollector) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Clear removes all transitions
func (c *SimpleCollector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.experiences = c.experiences[:0]
	c.dropped = 0
}

// Latest returns the n most recent transitions
func (c *SimpleCollector) Latest(n int) []Transition {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n > len(c.experiences) {
		n = len(c.experiences)
	}

	start := len(c.experiences) - n
	result := make([]Transition, n)
	copy(result, c.experiences[start:])
	return result
}
