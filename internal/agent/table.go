package agent

import "github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"

type tableKey struct {
	state  string
	action core.Action
}

// Table maps (position, action) pairs to value estimates. Missing entries
// read as 0 and are only created by Set. Table is not safe for concurrent
// use; parallel training would need per-key locking since updates are
// read-modify-write.
type Table struct {
	values map[tableKey]float64
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{values: make(map[tableKey]float64)}
}

// Get returns the stored estimate, or 0 when the pair has never been set.
func (t *Table) Get(state core.Piles, action core.Action) float64 {
	return t.values[tableKey{state: state.Key(), action: action}]
}

func (t *Table) getKeyed(stateKey string, action core.Action) float64 {
	return t.values[tableKey{state: stateKey, action: action}]
}

// Set stores value for the pair.
func (t *Table) Set(state core.Piles, action core.Action, value float64) {
	t.values[tableKey{state: state.Key(), action: action}] = value
}

// Len returns the number of materialized entries.
func (t *Table) Len() int {
	return len(t.values)
}
