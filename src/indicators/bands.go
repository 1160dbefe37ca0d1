package indicators

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Bands are volatility bands around the trailing moving average.
type Bands struct {
	Upper  float64
	Lower  float64
	Middle float64
	Sigma  float64
}

// VolatilityBands computes middle +/- multiplier * stddev over the trailing
// period values. The standard deviation is the sample deviation.
func VolatilityBands(values []float64, period int, multiplier float64) (Bands, error) {
	if period < 2 {
		return Bands{}, fmt.Errorf("bands period must be at least 2, got %d", period)
	}

	if len(values) < period {
		return Bands{}, fmt.Errorf("bands need %d values, have %d", period, len(values))
	}

	window := values[len(values)-period:]

	middle, err := stats.Mean(window)
	if err != nil {
		return Bands{}, fmt.Errorf("failed to calculate mean: %v", err)
	}

	sigma, err := stats.StandardDeviationSample(window)
	if err != nil {
		return Bands{}, fmt.Errorf("failed to calculate the standard deviation: %v", err)
	}

	return Bands{
		Upper:  middle + multiplier*sigma,
		Lower:  middle - multiplier*sigma,
		Middle: middle,
		Sigma:  sigma,
	}, nil
}

// RollingSigma returns the trailing sample deviations for the last count
// complete windows, oldest first.
func RollingSigma(values []float64, period, count int) []float64 {
	sigmas := make([]float64, 0, count)

	for k := count - 1; k >= 0; k-- {
		end := len(values) - k
		if end < period {
			continue
		}

		sigma, err := stats.StandardDeviationSample(values[end-period : end])
		if err != nil {
			continue
		}

		sigmas = append(sigmas, sigma)
	}

	return sigmas
}
