package strategies

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/quantlab/marketreplay/src/indicators"
	"github.com/quantlab/marketreplay/src/models"
)

// RSIStrategy buys oversold bars and sells overbought bars, with confidence
// growing as the index moves deeper past its threshold.
type RSIStrategy struct {
	BaseStrategy
	Period     int
	Oversold   float64
	Overbought float64
}

func NewRSIStrategy(period int, oversold, overbought float64) (*RSIStrategy, error) {
	if period <= 1 {
		return nil, fmt.Errorf("%w: rsi period must be greater than 1, got %d", ErrInvalidParameters, period)
	}

	if oversold >= overbought {
		return nil, fmt.Errorf("%w: oversold threshold (%.1f) must be less than overbought threshold (%.1f)", ErrInvalidParameters, oversold, overbought)
	}

	return &RSIStrategy{
		BaseStrategy: NewBaseStrategy("RSI_Strategy"),
		Period:       period,
		Oversold:     oversold,
		Overbought:   overbought,
	}, nil
}

func (s *RSIStrategy) RequiredHistory() int {
	// enough bars to evaluate the index at each of the last five bars for
	// trend confirmation
	return s.Period + 5
}

func (s *RSIStrategy) GenerateSignal(history []models.Candle) (*models.Signal, error) {
	closes := models.Closes(history)
	price := lastClose(history)

	currentRSI := indicators.RSI(closes, s.Period)
	if currentRSI == 0 && len(closes) < s.Period+1 {
		return models.NewHoldSignal(price), nil
	}

	signalType := models.SignalHold
	confidence := 0.0

	if currentRSI < s.Oversold {
		signalType = models.SignalBuy
		strength := (s.Oversold - currentRSI) / s.Oversold
		confidence = math.Min(0.9, math.Max(0.3, strength))
	} else if currentRSI > s.Overbought {
		signalType = models.SignalSell
		strength := (currentRSI - s.Overbought) / (100 - s.Overbought)
		confidence = math.Min(0.9, math.Max(0.3, strength))
	}

	confidence = s.adjustForTrend(confidence, signalType, closes, currentRSI)
	confidence = adjustForRecentVolume(confidence, history)

	metadata := map[string]interface{}{
		"rsi":                  currentRSI,
		"oversold_threshold":   s.Oversold,
		"overbought_threshold": s.Overbought,
	}

	return models.NewSignal(signalType, confidence, price, metadata)
}

func (s *RSIStrategy) Parameters() map[string]interface{} {
	params := s.baseParameters()
	params["rsi_period"] = s.Period
	params["oversold_threshold"] = s.Oversold
	params["overbought_threshold"] = s.Overbought

	return params
}

// adjustForTrend nudges confidence by whether the index has been moving in
// the signal's direction over the last five bars.
func (s *RSIStrategy) adjustForTrend(confidence float64, signalType models.SignalType, closes []float64, currentRSI float64) float64 {
	if confidence == 0 || len(closes) < s.Period+5 {
		return confidence
	}

	recent := make([]float64, 0, 5)
	for k := 4; k >= 0; k-- {
		recent = append(recent, indicators.RSI(closes[:len(closes)-k], s.Period))
	}

	recentMean, err := stats.Mean(recent)
	if err != nil || recentMean == 0 {
		return confidence
	}

	trend := (currentRSI - recentMean) / recentMean

	if (signalType == models.SignalBuy && trend > 0) || (signalType == models.SignalSell && trend < 0) {
		confidence *= 1.1
	} else {
		confidence *= 0.9
	}

	return math.Min(1.0, confidence)
}

// adjustForRecentVolume compares the last three bars' volume with the
// trailing ten-bar average.
func adjustForRecentVolume(confidence float64, history []models.Candle) float64 {
	if confidence == 0 || len(history) < 10 {
		return confidence
	}

	volumes := models.Volumes(history)

	recent, err := stats.Mean(volumes[len(volumes)-3:])
	if err != nil {
		return confidence
	}

	avg, err := stats.Mean(volumes[len(volumes)-10:])
	if err != nil || avg <= 0 {
		return confidence
	}

	ratio := recent / avg
	if ratio > 1.2 {
		confidence *= 1.1
	} else if ratio < 0.8 {
		confidence *= 0.9
	}

	return math.Min(1.0, confidence)
}
