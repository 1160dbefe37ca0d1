package strategies

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quantlab/marketreplay/src/models"
)

const equalityThreshold = 1e-2

func testCandles(closes ...float64) []models.Candle {
	return testCandlesWithVolume(1000, closes...)
}

func testCandlesWithVolume(volume float64, closes ...float64) []models.Candle {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = *models.NewCandle(start.AddDate(0, 0, i), c, c, c, c, volume)
	}

	return candles
}

func TestNewSMACrossover(t *testing.T) {
	t.Run("valid windows", func(t *testing.T) {
		s, err := NewSMACrossover(10, 30)
		assert.NoError(t, err)
		assert.Equal(t, "SMA_Crossover", s.Name())
		assert.Equal(t, 31, s.RequiredHistory())
	})

	t.Run("short window must be positive", func(t *testing.T) {
		_, err := NewSMACrossover(0, 30)
		assert.ErrorIs(t, err, ErrInvalidParameters)
	})

	t.Run("short window must be below long window", func(t *testing.T) {
		_, err := NewSMACrossover(30, 30)
		assert.ErrorIs(t, err, ErrInvalidParameters)

		_, err = NewSMACrossover(40, 30)
		assert.ErrorIs(t, err, ErrInvalidParameters)
	})
}

func TestSMACrossoverSignals(t *testing.T) {
	strat, err := NewSMACrossover(2, 3)
	assert.NoError(t, err)

	t.Run("upward cross buys", func(t *testing.T) {
		sig, err := strat.GenerateSignal(testCandles(100, 100, 100, 100, 120))
		assert.NoError(t, err)
		assert.Equal(t, models.SignalBuy, sig.Type)

		// short ma 110 vs long ma 106.67
		assert.Less(t, math.Abs(sig.Confidence-0.3125), equalityThreshold)
		assert.Equal(t, 120.0, sig.Price)
		assert.Contains(t, sig.Metadata, "short_ma")
		assert.Contains(t, sig.Metadata, "crossover_strength")
	})

	t.Run("downward cross sells", func(t *testing.T) {
		sig, err := strat.GenerateSignal(testCandles(100, 100, 100, 100, 80))
		assert.NoError(t, err)
		assert.Equal(t, models.SignalSell, sig.Type)
		assert.GreaterOrEqual(t, sig.Confidence, 0.3)
	})

	t.Run("no cross holds", func(t *testing.T) {
		sig, err := strat.GenerateSignal(testCandles(100, 100, 100, 100, 100))
		assert.NoError(t, err)
		assert.Equal(t, models.SignalHold, sig.Type)
		assert.Equal(t, 0.0, sig.Confidence)
	})

	t.Run("sustained trend without a cross holds", func(t *testing.T) {
		// short ma already above long ma on the previous bar
		sig, err := strat.GenerateSignal(testCandles(100, 100, 100, 120, 140))
		assert.NoError(t, err)
		assert.Equal(t, models.SignalHold, sig.Type)
	})

	t.Run("short history holds", func(t *testing.T) {
		sig, err := strat.GenerateSignal(testCandles(100, 101))
		assert.NoError(t, err)
		assert.Equal(t, models.SignalHold, sig.Type)
	})
}

func TestSMACrossoverVolumeAdjustment(t *testing.T) {
	strat, err := NewSMACrossover(2, 3)
	assert.NoError(t, err)

	// same crossover shape, but the last five bars carry much heavier volume
	// than the series average
	heavy := testCandles(100, 100, 100, 100, 100, 100, 100, 100, 100, 120)
	for i := len(heavy) - 5; i < len(heavy); i++ {
		heavy[i].Volume = 5000
	}

	flat := testCandles(100, 100, 100, 100, 100, 100, 100, 100, 100, 120)

	heavySig, err := strat.GenerateSignal(heavy)
	assert.NoError(t, err)

	flatSig, err := strat.GenerateSignal(flat)
	assert.NoError(t, err)

	assert.Equal(t, models.SignalBuy, heavySig.Type)
	assert.Greater(t, heavySig.Confidence, flatSig.Confidence)
}

func TestSMACrossoverParameters(t *testing.T) {
	strat, err := NewSMACrossover(5, 20)
	assert.NoError(t, err)

	params := strat.Parameters()
	assert.Equal(t, 5, params["short_window"])
	assert.Equal(t, 20, params["long_window"])
	assert.Contains(t, params, "stop_loss_pct")
}
