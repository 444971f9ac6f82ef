package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test naming convention: TestFunction_Scenario_ExpectedBehavior
func TestAction_ValidateLegalMove_Success(t *testing.T) {
	piles := Piles{4, 4, 4, 4}

	err := Action{Pile: 0, Count: 4}.Validate(piles)

	assert.NoError(t, err, "Taking a whole pile should be legal")
}

func TestAction_ValidatePileOutOfRange_ReturnsError(t *testing.T) {
	piles := Piles{1, 2}

	assert.ErrorIs(t, Action{Pile: 2, Count: 1}.Validate(piles), ErrInvalidPile)
	assert.ErrorIs(t, Action{Pile: -1, Count: 1}.Validate(piles), ErrInvalidPile)
}

func TestAction_ValidateCountOutOfRange_ReturnsError(t *testing.T) {
	piles := Piles{0, 3}

	assert.ErrorIs(t, Action{Pile: 1, Count: 4}.Validate(piles), ErrInvalidCount)
	assert.ErrorIs(t, Action{Pile: 1, Count: 0}.Validate(piles), ErrInvalidCount)
	assert.ErrorIs(t, Action{Pile: 0, Count: 1}.Validate(piles), ErrInvalidCount, "Empty pile has no legal counts")
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "take 2 from pile 3", Action{Pile: 3, Count: 2}.String())
}
