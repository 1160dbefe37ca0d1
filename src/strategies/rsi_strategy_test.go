package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantlab/marketreplay/src/models"
)

func TestNewRSIStrategy(t *testing.T) {
	t.Run("valid thresholds", func(t *testing.T) {
		s, err := NewRSIStrategy(14, 30, 70)
		assert.NoError(t, err)
		assert.Equal(t, "RSI_Strategy", s.Name())
		assert.Equal(t, 19, s.RequiredHistory())
	})

	t.Run("period must exceed one", func(t *testing.T) {
		_, err := NewRSIStrategy(1, 30, 70)
		assert.ErrorIs(t, err, ErrInvalidParameters)
	})

	t.Run("oversold must be below overbought", func(t *testing.T) {
		_, err := NewRSIStrategy(14, 70, 30)
		assert.ErrorIs(t, err, ErrInvalidParameters)

		_, err = NewRSIStrategy(14, 50, 50)
		assert.ErrorIs(t, err, ErrInvalidParameters)
	})
}

func TestRSIStrategySignals(t *testing.T) {
	strat, err := NewRSIStrategy(2, 30, 70)
	assert.NoError(t, err)

	t.Run("oversold buys", func(t *testing.T) {
		sig, err := strat.GenerateSignal(testCandles(100, 100, 100, 100, 100, 90, 80))
		assert.NoError(t, err)
		assert.Equal(t, models.SignalBuy, sig.Type)
		assert.Greater(t, sig.Confidence, 0.5)
		assert.Contains(t, sig.Metadata, "rsi")
	})

	t.Run("overbought sells", func(t *testing.T) {
		sig, err := strat.GenerateSignal(testCandles(100, 100, 100, 100, 100, 110, 120))
		assert.NoError(t, err)
		assert.Equal(t, models.SignalSell, sig.Type)
		assert.Greater(t, sig.Confidence, 0.5)
	})

	t.Run("neutral band holds", func(t *testing.T) {
		sig, err := strat.GenerateSignal(testCandles(100, 101, 100, 101, 100, 101, 100))
		assert.NoError(t, err)
		assert.Equal(t, models.SignalHold, sig.Type)
		assert.Equal(t, 0.0, sig.Confidence)
	})

	t.Run("short history holds", func(t *testing.T) {
		sig, err := strat.GenerateSignal(testCandles(100, 95))
		assert.NoError(t, err)
		assert.Equal(t, models.SignalHold, sig.Type)
	})
}

func TestRSIStrategyParameters(t *testing.T) {
	strat, err := NewRSIStrategy(14, 25, 75)
	assert.NoError(t, err)

	params := strat.Parameters()
	assert.Equal(t, 14, params["rsi_period"])
	assert.Equal(t, 25.0, params["oversold_threshold"])
	assert.Equal(t, 75.0, params["overbought_threshold"])
}
