package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantlab/marketreplay/src/models"
)

func TestNewVolatilityBreakout(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		s, err := NewVolatilityBreakout(20, 2.0, 1000)
		assert.NoError(t, err)
		assert.Equal(t, "Volatility_Breakout", s.Name())
		assert.Equal(t, 21, s.RequiredHistory())
	})

	t.Run("lookback must be at least two", func(t *testing.T) {
		_, err := NewVolatilityBreakout(1, 2.0, 1000)
		assert.ErrorIs(t, err, ErrInvalidParameters)
	})

	t.Run("multiplier must be positive", func(t *testing.T) {
		_, err := NewVolatilityBreakout(20, 0, 1000)
		assert.ErrorIs(t, err, ErrInvalidParameters)
	})
}

func TestVolatilityBreakoutSignals(t *testing.T) {
	strat, err := NewVolatilityBreakout(4, 1.0, 500)
	assert.NoError(t, err)

	t.Run("upside breakout buys", func(t *testing.T) {
		sig, err := strat.GenerateSignal(testCandles(100, 101, 99, 100, 120))
		assert.NoError(t, err)
		assert.Equal(t, models.SignalBuy, sig.Type)
		assert.GreaterOrEqual(t, sig.Confidence, 0.3)
		assert.Contains(t, sig.Metadata, "upper_band")
		assert.Contains(t, sig.Metadata, "volatility")
	})

	t.Run("downside breakout sells", func(t *testing.T) {
		sig, err := strat.GenerateSignal(testCandles(100, 101, 99, 100, 80))
		assert.NoError(t, err)
		assert.Equal(t, models.SignalSell, sig.Type)
		assert.GreaterOrEqual(t, sig.Confidence, 0.3)
	})

	t.Run("price inside the channel holds", func(t *testing.T) {
		sig, err := strat.GenerateSignal(testCandles(100, 101, 99, 100, 100))
		assert.NoError(t, err)
		assert.Equal(t, models.SignalHold, sig.Type)
	})

	t.Run("breakout on thin volume holds", func(t *testing.T) {
		candles := testCandlesWithVolume(100, 100, 101, 99, 100, 120)

		sig, err := strat.GenerateSignal(candles)
		assert.NoError(t, err)
		assert.Equal(t, models.SignalHold, sig.Type)
	})

	t.Run("heavier volume raises confidence", func(t *testing.T) {
		thin := testCandlesWithVolume(500, 100, 101, 99, 100, 120)
		heavy := testCandlesWithVolume(1000, 100, 101, 99, 100, 120)

		thinSig, err := strat.GenerateSignal(thin)
		assert.NoError(t, err)

		heavySig, err := strat.GenerateSignal(heavy)
		assert.NoError(t, err)

		assert.GreaterOrEqual(t, heavySig.Confidence, thinSig.Confidence)
	})
}

func TestVolatilityBreakoutParameters(t *testing.T) {
	strat, err := NewVolatilityBreakout(10, 1.5, 2000)
	assert.NoError(t, err)

	params := strat.Parameters()
	assert.Equal(t, 10, params["lookback_period"])
	assert.Equal(t, 1.5, params["volatility_multiplier"])
	assert.Equal(t, 2000.0, params["min_volume"])
}
