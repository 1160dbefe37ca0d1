package indicators

import "math"

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// RSI computes the Wilder relative strength index over the full closes slice:
// the average gain/loss is seeded with a simple average of the first period
// deltas, then smoothed recursively over the rest. Returns 0 until period+1
// closes are available.
//
// Being a pure function of the slice, the value at bar i can never depend on
// bars after i.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 0
	}

	gains := make([]float64, 0, len(closes)-1)
	losses := make([]float64, 0, len(closes)-1)

	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains = append(gains, delta)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, math.Abs(delta))
		}
	}

	avgGain := average(gains[:period])
	avgLoss := average(losses[:period])

	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*(float64(period)-1.0) + gains[i]) / float64(period)
		avgLoss = (avgLoss*(float64(period)-1.0) + losses[i]) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	if rs == 0 {
		return 0
	}

	return 100 - (100 / (1 + rs))
}
