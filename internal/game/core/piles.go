package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Piles is a Nim position: one object count per pile. Order is significant
// and fixed for the lifetime of a game.
type Piles []int

// Clone returns an independent copy.
func (p Piles) Clone() Piles {
	if p == nil {
		return nil
	}
	out := make(Piles, len(p))
	copy(out, p)
	return out
}

// IsEmpty reports whether every pile is zero.
func (p Piles) IsEmpty() bool {
	for _, n := range p {
		if n != 0 {
			return false
		}
	}
	return true
}

// Total returns the number of objects left on the table.
func (p Piles) Total() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

// Key returns a canonical encoding of the ordered pile counts, suitable as a
// map key. Two positions with equal contents always produce the same key.
func (p Piles) Key() string {
	buf := make([]byte, 0, len(p)*3)
	for i, n := range p {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(n), 10)
	}
	return string(buf)
}

// Validate rejects an empty pile list and negative counts.
func (p Piles) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("no piles: %w", ErrInvalidPiles)
	}
	for i, n := range p {
		if n < 0 {
			return fmt.Errorf("pile %d has %d objects: %w", i, n, ErrInvalidPiles)
		}
	}
	return nil
}

// String renders the position as e.g. "[4 4 4 4]".
func (p Piles) String() string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
