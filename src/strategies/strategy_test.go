package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantlab/marketreplay/src/models"
)

func TestBaseStrategyPositionSize(t *testing.T) {
	base := NewBaseStrategy("base")

	sig := func(confidence float64) *models.Signal {
		s, err := models.NewSignal(models.SignalBuy, confidence, 100, nil)
		assert.NoError(t, err)
		return s
	}

	t.Run("scales with confidence", func(t *testing.T) {
		assert.Equal(t, 100.0, base.PositionSize(10000, 100, sig(1.0)))
		assert.Equal(t, 50.0, base.PositionSize(10000, 100, sig(0.5)))
	})

	t.Run("capped at a fraction of balance", func(t *testing.T) {
		// 10% of 500 caps the 100 base notional
		assert.Equal(t, 50.0, base.PositionSize(500, 100, sig(1.0)))
	})
}

func TestBaseStrategyShouldExit(t *testing.T) {
	base := NewBaseStrategy("base")

	t.Run("long stop loss", func(t *testing.T) {
		exit, reason := base.ShouldExit(nil, 100, 94.9, models.SideLong)
		assert.True(t, exit)
		assert.Equal(t, "stop_loss", reason)
	})

	t.Run("long take profit", func(t *testing.T) {
		exit, reason := base.ShouldExit(nil, 100, 110.1, models.SideLong)
		assert.True(t, exit)
		assert.Equal(t, "take_profit", reason)
	})

	t.Run("short side inverts the rule", func(t *testing.T) {
		exit, reason := base.ShouldExit(nil, 100, 105.1, models.SideShort)
		assert.True(t, exit)
		assert.Equal(t, "stop_loss", reason)

		exit, reason = base.ShouldExit(nil, 100, 89.9, models.SideShort)
		assert.True(t, exit)
		assert.Equal(t, "take_profit", reason)
	})

	t.Run("inside the band holds", func(t *testing.T) {
		exit, _ := base.ShouldExit(nil, 100, 97, models.SideLong)
		assert.False(t, exit)

		exit, _ = base.ShouldExit(nil, 100, 104, models.SideLong)
		assert.False(t, exit)
	})

	t.Run("zero entry price never exits", func(t *testing.T) {
		exit, _ := base.ShouldExit(nil, 0, 100, models.SideLong)
		assert.False(t, exit)
	})
}

func TestSetRiskLimits(t *testing.T) {
	base := NewBaseStrategy("base")

	base.SetRiskLimits(0.02, 0.2)
	assert.Equal(t, 0.02, base.StopLossPct)
	assert.Equal(t, 0.2, base.TakeProfitPct)

	// non-positive values keep the current thresholds
	base.SetRiskLimits(0, -1)
	assert.Equal(t, 0.02, base.StopLossPct)
	assert.Equal(t, 0.2, base.TakeProfitPct)

	exit, reason := base.ShouldExit(nil, 100, 97.9, models.SideLong)
	assert.True(t, exit)
	assert.Equal(t, "stop_loss", reason)
}
