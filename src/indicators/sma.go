package indicators

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// SMA returns the simple moving average of the trailing period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("sma period must be positive, got %d", period)
	}

	if len(values) < period {
		return 0, fmt.Errorf("sma needs %d values, have %d", period, len(values))
	}

	mean, err := stats.Mean(values[len(values)-period:])
	if err != nil {
		return 0, fmt.Errorf("failed to calculate mean: %v", err)
	}

	return mean, nil
}
