package strategies

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/quantlab/marketreplay/src/indicators"
	"github.com/quantlab/marketreplay/src/models"
)

// VolatilityBreakout signals when price escapes a rolling mean +/-
// multiplier * stddev channel on sufficient volume.
type VolatilityBreakout struct {
	BaseStrategy
	LookbackPeriod       int
	VolatilityMultiplier float64
	MinVolume            float64
}

func NewVolatilityBreakout(lookbackPeriod int, volatilityMultiplier, minVolume float64) (*VolatilityBreakout, error) {
	if lookbackPeriod < 2 {
		return nil, fmt.Errorf("%w: lookback period must be at least 2, got %d", ErrInvalidParameters, lookbackPeriod)
	}

	if volatilityMultiplier <= 0 {
		return nil, fmt.Errorf("%w: volatility multiplier must be positive, got %.2f", ErrInvalidParameters, volatilityMultiplier)
	}

	return &VolatilityBreakout{
		BaseStrategy:         NewBaseStrategy("Volatility_Breakout"),
		LookbackPeriod:       lookbackPeriod,
		VolatilityMultiplier: volatilityMultiplier,
		MinVolume:            minVolume,
	}, nil
}

func (s *VolatilityBreakout) RequiredHistory() int {
	return s.LookbackPeriod + 1
}

func (s *VolatilityBreakout) GenerateSignal(history []models.Candle) (*models.Signal, error) {
	closes := models.Closes(history)
	price := lastClose(history)

	if len(closes) < s.LookbackPeriod {
		return models.NewHoldSignal(price), nil
	}

	bands, err := indicators.VolatilityBands(closes, s.LookbackPeriod, s.VolatilityMultiplier)
	if err != nil {
		return nil, fmt.Errorf("volatility breakout: %w", err)
	}

	volume := history[len(history)-1].Volume

	signalType := models.SignalHold
	confidence := 0.0

	if price > bands.Upper && volume >= s.MinVolume {
		signalType = models.SignalBuy
		strength := (price - bands.Upper) / bands.Upper
		confidence = breakoutConfidence(strength, volume, s.MinVolume)
	} else if price < bands.Lower && volume >= s.MinVolume {
		signalType = models.SignalSell
		strength := (bands.Lower - price) / bands.Lower
		confidence = breakoutConfidence(strength, volume, s.MinVolume)
	}

	confidence = adjustForPriceTrend(confidence, signalType, closes)
	confidence = s.adjustForVolExpansion(confidence, closes)

	metadata := map[string]interface{}{
		"upper_band":  bands.Upper,
		"lower_band":  bands.Lower,
		"middle_band": bands.Middle,
		"volatility":  bands.Sigma,
	}

	return models.NewSignal(signalType, confidence, price, metadata)
}

func (s *VolatilityBreakout) Parameters() map[string]interface{} {
	params := s.baseParameters()
	params["lookback_period"] = s.LookbackPeriod
	params["volatility_multiplier"] = s.VolatilityMultiplier
	params["min_volume"] = s.MinVolume

	return params
}

func breakoutConfidence(strength, volume, minVolume float64) float64 {
	volumeStrength := 1.0
	if minVolume > 0 {
		volumeStrength = math.Min(2.0, volume/minVolume)
	}

	return math.Min(0.9, math.Max(0.3, strength*5*volumeStrength))
}

// adjustForPriceTrend rewards breakouts aligned with the last five bars'
// direction.
func adjustForPriceTrend(confidence float64, signalType models.SignalType, closes []float64) float64 {
	if confidence == 0 || signalType == models.SignalHold || len(closes) < 5 {
		return confidence
	}

	first := closes[len(closes)-5]
	last := closes[len(closes)-1]
	if first == 0 {
		return confidence
	}

	trend := (last - first) / first

	if (signalType == models.SignalBuy && trend > 0) || (signalType == models.SignalSell && trend < 0) {
		confidence *= 1.2
	} else {
		confidence *= 0.8
	}

	return math.Min(1.0, confidence)
}

// adjustForVolExpansion prefers signals fired while volatility is expanding
// versus its recent baseline.
func (s *VolatilityBreakout) adjustForVolExpansion(confidence float64, closes []float64) float64 {
	if confidence == 0 || len(closes) < s.LookbackPeriod*2 {
		return confidence
	}

	recent := indicators.RollingSigma(closes, s.LookbackPeriod, 5)
	baseline := indicators.RollingSigma(closes, s.LookbackPeriod, s.LookbackPeriod*2)

	recentMean, err := stats.Mean(recent)
	if err != nil {
		return confidence
	}

	baselineMean, err := stats.Mean(baseline)
	if err != nil || baselineMean <= 0 {
		return confidence
	}

	expansion := recentMean / baselineMean
	if expansion > 1.2 {
		confidence *= 1.1
	} else if expansion < 0.8 {
		confidence *= 0.9
	}

	return math.Min(1.0, confidence)
}
