package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("nil error stays nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "context"))
	})

	t.Run("wrapped sentinel still matches", func(t *testing.T) {
		err := Wrap(ErrNotFound, "token \"x\"")
		assert.EqualError(t, err, "token \"x\": not found")
		assert.True(t, Is(err, ErrNotFound))
		assert.False(t, Is(err, ErrIntegrity))
	})
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidInput,
		ErrIntegrity,
		ErrIncompleteFragmentSet,
		ErrFragmentSetMismatch,
		ErrNotFound,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(fmt.Errorf("ctx: %w", a), b), "%v should not match %v", a, b)
		}
	}
}
