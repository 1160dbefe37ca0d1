package strategies

import (
	"fmt"

	"github.com/quantlab/marketreplay/src/models"
)

var ErrInvalidParameters = fmt.Errorf("invalid strategy parameters")

// Strategy is the signal-generation contract the backtest engine consumes.
// GenerateSignal and ShouldExit must be pure functions of the history they
// are handed: bars after the last element are never reachable.
type Strategy interface {
	Name() string

	// RequiredHistory is the minimum number of bars needed before any
	// signal may be requested.
	RequiredHistory() int

	// Initialize is the one-time warmup call with the first
	// RequiredHistory bars.
	Initialize(history []models.Candle) error

	// GenerateSignal evaluates the series up to and including the current
	// bar. An error means no signal for this bar, not a failed run.
	GenerateSignal(history []models.Candle) (*models.Signal, error)

	// PositionSize proposes a trade notional in quote currency. The
	// execution simulator enforces the minimum-size floor and the
	// available-cash ceiling independently.
	PositionSize(availableCash, fillPrice float64, signal *models.Signal) float64

	// ShouldExit decides whether an open position should be closed at the
	// current bar, and why.
	ShouldExit(history []models.Candle, entryPrice, currentPrice float64, side models.Side) (bool, string)

	// Parameters reports the strategy's configuration for run provenance.
	Parameters() map[string]interface{}

	// SetRiskLimits overrides the stop-loss and take-profit thresholds.
	SetRiskLimits(stopLossPct, takeProfitPct float64)
}

// BaseStrategy carries the defaults shared by all concrete strategies:
// confidence-scaled position sizing capped at a fraction of balance, and a
// stop-loss/take-profit exit rule.
type BaseStrategy struct {
	StrategyName       string
	PositionSizeUSD    float64
	MaxBalanceFraction float64
	StopLossPct        float64
	TakeProfitPct      float64
}

func NewBaseStrategy(name string) BaseStrategy {
	return BaseStrategy{
		StrategyName:       name,
		PositionSizeUSD:    100.0,
		MaxBalanceFraction: 0.1,
		StopLossPct:        0.05,
		TakeProfitPct:      0.10,
	}
}

func (b *BaseStrategy) Name() string {
	return b.StrategyName
}

func (b *BaseStrategy) Initialize(history []models.Candle) error {
	return nil
}

func (b *BaseStrategy) SetRiskLimits(stopLossPct, takeProfitPct float64) {
	if stopLossPct > 0 {
		b.StopLossPct = stopLossPct
	}

	if takeProfitPct > 0 {
		b.TakeProfitPct = takeProfitPct
	}
}

// PositionSize scales the base notional by signal confidence, capped at
// MaxBalanceFraction of the available cash.
func (b *BaseStrategy) PositionSize(availableCash, fillPrice float64, signal *models.Signal) float64 {
	size := b.PositionSizeUSD * signal.Confidence

	if maxSize := availableCash * b.MaxBalanceFraction; size > maxSize {
		size = maxSize
	}

	return size
}

// ShouldExit applies the stop-loss/take-profit rule.
func (b *BaseStrategy) ShouldExit(history []models.Candle, entryPrice, currentPrice float64, side models.Side) (bool, string) {
	if entryPrice <= 0 {
		return false, ""
	}

	var pnlPct float64
	if side == models.SideLong {
		pnlPct = (currentPrice - entryPrice) / entryPrice
	} else {
		pnlPct = (entryPrice - currentPrice) / entryPrice
	}

	if pnlPct <= -b.StopLossPct {
		return true, "stop_loss"
	}

	if pnlPct >= b.TakeProfitPct {
		return true, "take_profit"
	}

	return false, ""
}

func (b *BaseStrategy) baseParameters() map[string]interface{} {
	return map[string]interface{}{
		"position_size":   b.PositionSizeUSD,
		"stop_loss_pct":   b.StopLossPct,
		"take_profit_pct": b.TakeProfitPct,
	}
}
