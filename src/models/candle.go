package models

import (
	"fmt"
	"time"
)

type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

func NewCandle(timestamp time.Time, open, high, low, close, volume float64) *Candle {
	return &Candle{
		Timestamp: timestamp,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
	}
}

// ValidateSeries checks that candles are ordered by timestamp ascending.
func ValidateSeries(candles []Candle) error {
	for i := 1; i < len(candles); i++ {
		if !candles[i].Timestamp.After(candles[i-1].Timestamp) {
			return fmt.Errorf("candle series out of order at index %d: %s >= %s", i, candles[i-1].Timestamp.Format(time.RFC3339), candles[i].Timestamp.Format(time.RFC3339))
		}
	}

	return nil
}

// FilterByDateRange returns the subset of candles within [start, end]. A nil
// bound leaves that side open.
func FilterByDateRange(candles []Candle, start, end *time.Time) []Candle {
	filtered := make([]Candle, 0, len(candles))
	for _, c := range candles {
		if start != nil && c.Timestamp.Before(*start) {
			continue
		}

		if end != nil && c.Timestamp.After(*end) {
			continue
		}

		filtered = append(filtered, c)
	}

	return filtered
}

// Closes extracts the close prices of a series.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	return closes
}

// Volumes extracts the volumes of a series.
func Volumes(candles []Candle) []float64 {
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		volumes[i] = c.Volume
	}

	return volumes
}
