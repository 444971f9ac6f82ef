package core

import "fmt"

// Action removes Count objects from the pile at index Pile.
type Action struct {
	Pile  int
	Count int
}

func (a Action) String() string {
	return fmt.Sprintf("take %d from pile %d", a.Count, a.Pile)
}

// Validate checks the action against a specific position.
func (a Action) Validate(p Piles) error {
	if a.Pile < 0 || a.Pile >= len(p) {
		return fmt.Errorf("pile %d of %d: %w", a.Pile, len(p), ErrInvalidPile)
	}
	if a.Count < 1 || a.Count > p[a.Pile] {
		return fmt.Errorf("count %d with %d remaining: %w", a.Count, p[a.Pile], ErrInvalidCount)
	}
	return nil
}
