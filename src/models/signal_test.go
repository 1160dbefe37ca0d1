package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSignal(t *testing.T) {
	t.Run("valid confidence", func(t *testing.T) {
		sig, err := NewSignal(SignalBuy, 0.75, 100.0, nil)
		assert.NoError(t, err)
		assert.Equal(t, SignalBuy, sig.Type)
		assert.Equal(t, 0.75, sig.Confidence)
		assert.Equal(t, 100.0, sig.Price)
	})

	t.Run("confidence bounds are inclusive", func(t *testing.T) {
		_, err := NewSignal(SignalSell, 0.0, 100.0, nil)
		assert.NoError(t, err)

		_, err = NewSignal(SignalSell, 1.0, 100.0, nil)
		assert.NoError(t, err)
	})

	t.Run("confidence out of range", func(t *testing.T) {
		_, err := NewSignal(SignalBuy, 1.01, 100.0, nil)
		assert.ErrorIs(t, err, ErrInvalidConfidence)

		_, err = NewSignal(SignalBuy, -0.5, 100.0, nil)
		assert.ErrorIs(t, err, ErrInvalidConfidence)
	})

	t.Run("hold signal carries no confidence", func(t *testing.T) {
		sig := NewHoldSignal(42.0)
		assert.Equal(t, SignalHold, sig.Type)
		assert.Equal(t, 0.0, sig.Confidence)
		assert.Equal(t, 42.0, sig.Price)
	})
}
