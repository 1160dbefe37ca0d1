package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const equalityThreshold = 1e-2

func TestRSI(t *testing.T) {
	// example taken from https://blog.quantinsti.com/rsi-indicator/
	closes := []float64{
		283.46, 280.69, 285.48, 294.08, 293.90, 299.92, 301.15, 284.45,
		294.09, 302.77, 301.97, 306.85, 305.02, 301.06, 291.97,
	}

	t.Run("example rsi", func(t *testing.T) {
		val := RSI(closes, 14)
		diff := math.Abs(val - 55.37)
		assert.Less(t, diff, equalityThreshold)
	})

	t.Run("wilder smoothing continues past the seed window", func(t *testing.T) {
		series := append(append([]float64{}, closes...), 284.18)
		val := RSI(series, 14)
		diff := math.Abs(val - 50.07)
		assert.Less(t, diff, equalityThreshold)

		series = append(series, 286.48)
		val = RSI(series, 14)
		diff = math.Abs(val - 51.55)
		assert.Less(t, diff, equalityThreshold)

		series = append(series, 284.54)
		val = RSI(series, 14)
		diff = math.Abs(val - 50.20)
		assert.Less(t, diff, equalityThreshold)
	})

	t.Run("too few closes", func(t *testing.T) {
		assert.Equal(t, 0.0, RSI([]float64{100.0}, 14))
		assert.Equal(t, 0.0, RSI(closes[:14], 14))
	})

	t.Run("all losers", func(t *testing.T) {
		val := RSI([]float64{10.0, 9.0, 5.0}, 2)
		assert.Equal(t, 0.0, val)
	})

	t.Run("all winners", func(t *testing.T) {
		val := RSI([]float64{10.0, 11.0, 15.0}, 2)
		assert.Equal(t, 100.0, val)
	})
}
