package backtest

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/quantlab/marketreplay/src/models"
	"github.com/quantlab/marketreplay/src/portfolio"
)

// DefaultAnnualizationFactor assumes daily bars with 252 trading periods per
// year. Callers running other bar frequencies must set their own factor.
const DefaultAnnualizationFactor = 252.0

// Metrics is the fixed performance report of one run. Every field is defined
// for degenerate inputs: an empty trade log or zero-variance returns produce
// zeros, never NaN or Inf.
type Metrics struct {
	TotalReturnPct          float64   `json:"total_return_pct"`
	BuyHoldReturnPct        float64   `json:"buy_hold_return_pct"`
	ExcessReturnPct         float64   `json:"excess_return_pct"`
	AnnualizedVolatilityPct float64   `json:"annualized_volatility_pct"`
	SharpeRatio             float64   `json:"sharpe_ratio"`
	MaxDrawdownPct          float64   `json:"max_drawdown_pct"`
	InitialCapital          float64   `json:"initial_capital"`
	FinalValue              float64   `json:"final_value"`
	MaxValue                float64   `json:"max_value"`
	MinValue                float64   `json:"min_value"`
	TotalTrades             int       `json:"total_trades"`
	WinningTrades           int       `json:"winning_trades"`
	LosingTrades            int       `json:"losing_trades"`
	WinRatePct              float64   `json:"win_rate_pct"`
	AvgWin                  float64   `json:"avg_win"`
	AvgLoss                 float64   `json:"avg_loss"`
	ProfitFactor            float64   `json:"profit_factor"`
	TotalSignals            int       `json:"total_signals"`
	BuySignals              int       `json:"buy_signals"`
	SellSignals             int       `json:"sell_signals"`
	HoldSignals             int       `json:"hold_signals"`
	AvgConfidence           float64   `json:"avg_confidence"`
	StartDate               time.Time `json:"start_date"`
	EndDate                 time.Time `json:"end_date"`
	DurationDays            int       `json:"duration_days"`
}

// StepReturns is the percentage change between consecutive equity snapshots.
func StepReturns(equity []EquityPlotRecord) []float64 {
	if len(equity) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}

		returns = append(returns, (equity[i].Equity-prev)/prev)
	}

	return returns
}

// CumulativeReturns is the running product of (1 + step return).
func CumulativeReturns(returns []float64) []float64 {
	cumulative := make([]float64, len(returns))
	acc := 1.0
	for i, r := range returns {
		acc *= 1 + r
		cumulative[i] = acc
	}

	return cumulative
}

// ComputeMetrics derives the full report from the recorded equity curve,
// signal log and closed-lot trade log. It is a pure function of its inputs.
func ComputeMetrics(equity []EquityPlotRecord, signals []SignalRecord, trades []*portfolio.TradeRecord, initialCapital, firstClose, lastClose, annualizationFactor float64) Metrics {
	m := Metrics{
		InitialCapital: initialCapital,
		FinalValue:     initialCapital,
	}

	if firstClose > 0 {
		m.BuyHoldReturnPct = (lastClose - firstClose) / firstClose * 100
	}

	if len(equity) > 0 {
		m.FinalValue = equity[len(equity)-1].Equity
		m.StartDate = equity[0].Timestamp
		m.EndDate = equity[len(equity)-1].Timestamp
		m.DurationDays = int(m.EndDate.Sub(m.StartDate).Hours() / 24)

		m.MaxValue = equity[0].Equity
		m.MinValue = equity[0].Equity
		for _, record := range equity[1:] {
			m.MaxValue = math.Max(m.MaxValue, record.Equity)
			m.MinValue = math.Min(m.MinValue, record.Equity)
		}
	}

	if initialCapital > 0 {
		m.TotalReturnPct = (m.FinalValue - initialCapital) / initialCapital * 100
	}

	m.ExcessReturnPct = m.TotalReturnPct - m.BuyHoldReturnPct

	returns := StepReturns(equity)
	mean := meanOrZero(returns)
	sd := sampleStdevOrZero(returns)

	if sd > 0 {
		m.AnnualizedVolatilityPct = sd * math.Sqrt(annualizationFactor) * 100
		m.SharpeRatio = mean / sd * math.Sqrt(annualizationFactor)
	}

	m.MaxDrawdownPct = maxDrawdown(equity)

	m.computeTradeStats(trades)
	m.computeSignalStats(signals)

	return m
}

// maxDrawdown is the deepest peak-to-trough decline of the equity curve as a
// percentage of the peak; always <= 0.
func maxDrawdown(equity []EquityPlotRecord) float64 {
	drawdown := 0.0
	peak := 0.0

	for _, record := range equity {
		if record.Equity > peak {
			peak = record.Equity
		}

		if peak > 0 {
			dd := (record.Equity - peak) / peak * 100
			if dd < drawdown {
				drawdown = dd
			}
		}
	}

	return drawdown
}

func (m *Metrics) computeTradeStats(trades []*portfolio.TradeRecord) {
	m.TotalTrades = len(trades)
	if len(trades) == 0 {
		return
	}

	var winningPnls, losingPnls []float64
	for _, trade := range trades {
		if trade.PnL > 0 {
			winningPnls = append(winningPnls, trade.PnL)
		} else if trade.PnL < 0 {
			losingPnls = append(losingPnls, trade.PnL)
		}
	}

	m.WinningTrades = len(winningPnls)
	m.LosingTrades = len(losingPnls)
	m.WinRatePct = float64(m.WinningTrades) / float64(m.TotalTrades) * 100
	m.AvgWin = meanOrZero(winningPnls)
	m.AvgLoss = meanOrZero(losingPnls)

	lossSum, _ := stats.Sum(losingPnls)
	if len(losingPnls) > 0 && lossSum != 0 {
		winSum, _ := stats.Sum(winningPnls)
		m.ProfitFactor = math.Abs(winSum / lossSum)
	}
}

func (m *Metrics) computeSignalStats(signals []SignalRecord) {
	m.TotalSignals = len(signals)
	if len(signals) == 0 {
		return
	}

	confidences := make([]float64, 0, len(signals))
	for _, record := range signals {
		confidences = append(confidences, record.Confidence)

		switch record.Type {
		case models.SignalBuy:
			m.BuySignals++
		case models.SignalSell:
			m.SellSignals++
		case models.SignalHold:
			m.HoldSignals++
		}
	}

	m.AvgConfidence = meanOrZero(confidences)
}

func meanOrZero(values []float64) float64 {
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}

	return mean
}

func sampleStdevOrZero(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	sd, err := stats.StandardDeviationSample(values)
	if err != nil {
		return 0
	}

	return sd
}
