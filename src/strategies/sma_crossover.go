package strategies

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/quantlab/marketreplay/src/indicators"
	"github.com/quantlab/marketreplay/src/models"
)

// SMACrossover signals BUY when the short moving average crosses above the
// long one, SELL when it crosses below, and HOLD otherwise.
type SMACrossover struct {
	BaseStrategy
	ShortWindow int
	LongWindow  int
}

func NewSMACrossover(shortWindow, longWindow int) (*SMACrossover, error) {
	if shortWindow <= 0 {
		return nil, fmt.Errorf("%w: short window must be positive, got %d", ErrInvalidParameters, shortWindow)
	}

	if shortWindow >= longWindow {
		return nil, fmt.Errorf("%w: short window (%d) must be less than long window (%d)", ErrInvalidParameters, shortWindow, longWindow)
	}

	return &SMACrossover{
		BaseStrategy: NewBaseStrategy("SMA_Crossover"),
		ShortWindow:  shortWindow,
		LongWindow:   longWindow,
	}, nil
}

func (s *SMACrossover) RequiredHistory() int {
	// one extra bar so the previous averages exist for crossover detection
	return s.LongWindow + 1
}

func (s *SMACrossover) GenerateSignal(history []models.Candle) (*models.Signal, error) {
	if len(history) < s.LongWindow+1 {
		return models.NewHoldSignal(lastClose(history)), nil
	}

	closes := models.Closes(history)

	currentShort, err := indicators.SMA(closes, s.ShortWindow)
	if err != nil {
		return nil, fmt.Errorf("sma crossover: %w", err)
	}

	currentLong, err := indicators.SMA(closes, s.LongWindow)
	if err != nil {
		return nil, fmt.Errorf("sma crossover: %w", err)
	}

	prevShort, err := indicators.SMA(closes[:len(closes)-1], s.ShortWindow)
	if err != nil {
		return nil, fmt.Errorf("sma crossover: %w", err)
	}

	prevLong, err := indicators.SMA(closes[:len(closes)-1], s.LongWindow)
	if err != nil {
		return nil, fmt.Errorf("sma crossover: %w", err)
	}

	price := closes[len(closes)-1]
	strength := math.Abs(currentShort-currentLong) / currentLong

	signalType := models.SignalHold
	confidence := 0.0

	if prevShort <= prevLong && currentShort > currentLong {
		signalType = models.SignalBuy
		confidence = math.Min(0.8, math.Max(0.3, strength*10))
	} else if prevShort >= prevLong && currentShort < currentLong {
		signalType = models.SignalSell
		confidence = math.Min(0.8, math.Max(0.3, strength*10))
	}

	confidence = adjustForVolume(confidence, history)

	metadata := map[string]interface{}{
		"short_ma":           currentShort,
		"long_ma":            currentLong,
		"crossover_strength": strength,
		"trend_strength":     (currentShort - currentLong) / currentLong,
	}

	return models.NewSignal(signalType, confidence, price, metadata)
}

func (s *SMACrossover) Parameters() map[string]interface{} {
	params := s.baseParameters()
	params["short_window"] = s.ShortWindow
	params["long_window"] = s.LongWindow

	return params
}

// adjustForVolume scales confidence up when recent volume runs above the
// series average and down when it runs below.
func adjustForVolume(confidence float64, history []models.Candle) float64 {
	if confidence == 0 || len(history) < 5 {
		return confidence
	}

	volumes := models.Volumes(history)

	recent, err := stats.Mean(volumes[len(volumes)-5:])
	if err != nil {
		return confidence
	}

	avg, err := stats.Mean(volumes)
	if err != nil || avg <= 0 {
		return confidence
	}

	ratio := recent / avg
	if ratio > 1.2 {
		confidence *= 1.2
	} else if ratio < 0.8 {
		confidence *= 0.8
	}

	return math.Min(1.0, confidence)
}

func lastClose(history []models.Candle) float64 {
	if len(history) == 0 {
		return 0
	}

	return history[len(history)-1].Close
}
