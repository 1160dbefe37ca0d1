package backtest

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quantlab/marketreplay/src/models"
	"github.com/quantlab/marketreplay/src/portfolio"
)

// Report is the complete outcome of one run: the recorded logs, the computed
// metrics and the strategy parameters for provenance.
type Report struct {
	RunID          uuid.UUID                `json:"run_id"`
	EngineID       uuid.UUID                `json:"engine_id"`
	StrategyName   string                   `json:"strategy_name"`
	StrategyParams map[string]interface{}   `json:"strategy_params"`
	Instrument     models.Instrument        `json:"instrument"`
	EquityCurve    []EquityPlotRecord       `json:"equity_curve"`
	Signals        []SignalRecord           `json:"signals"`
	Executions     []*ExecutionEvent        `json:"executions"`
	Trades         []*portfolio.TradeRecord `json:"trades"`
	Metrics        Metrics                  `json:"metrics"`
}

// Summary renders the report as formatted text.
func (r *Report) Summary() string {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)
	m := r.Metrics

	display.WriteString("=== Backtest Results Summary ===\n")
	display.WriteString(fmt.Sprintf("Strategy: %s on %s\n", r.StrategyName, r.Instrument))
	if !m.StartDate.IsZero() {
		display.WriteString(fmt.Sprintf("Period: %s to %s (%d days)\n",
			m.StartDate.Format("2006-01-02"), m.EndDate.Format("2006-01-02"), m.DurationDays))
	}

	display.WriteString("\nPerformance:\n")
	perf := tablewriter.NewWriter(display)
	perf.SetAlignment(tablewriter.ALIGN_RIGHT)
	perf.SetColumnSeparator("")
	perf.Append([]string{"Total Return", fmt.Sprintf("%.2f%%", m.TotalReturnPct)})
	perf.Append([]string{"Buy & Hold Return", fmt.Sprintf("%.2f%%", m.BuyHoldReturnPct)})
	perf.Append([]string{"Excess Return", fmt.Sprintf("%.2f%%", m.ExcessReturnPct)})
	perf.Append([]string{"Volatility", fmt.Sprintf("%.2f%%", m.AnnualizedVolatilityPct)})
	perf.Append([]string{"Sharpe Ratio", fmt.Sprintf("%.2f", m.SharpeRatio)})
	perf.Append([]string{"Max Drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdownPct)})
	perf.Render()

	display.WriteString("\nPortfolio:\n")
	port := tablewriter.NewWriter(display)
	port.SetAlignment(tablewriter.ALIGN_RIGHT)
	port.SetColumnSeparator("")
	port.Append([]string{"Initial Capital", p.Sprintf("$%.2f", m.InitialCapital)})
	port.Append([]string{"Final Value", p.Sprintf("$%.2f", m.FinalValue)})
	port.Append([]string{"Max Value", p.Sprintf("$%.2f", m.MaxValue)})
	port.Append([]string{"Min Value", p.Sprintf("$%.2f", m.MinValue)})
	port.Render()

	display.WriteString("\nTrades:\n")
	trades := tablewriter.NewWriter(display)
	trades.SetAlignment(tablewriter.ALIGN_RIGHT)
	trades.SetColumnSeparator("")
	trades.Append([]string{"Total Trades", fmt.Sprintf("%d", m.TotalTrades)})
	trades.Append([]string{"Winning Trades", fmt.Sprintf("%d", m.WinningTrades)})
	trades.Append([]string{"Losing Trades", fmt.Sprintf("%d", m.LosingTrades)})
	trades.Append([]string{"Win Rate", fmt.Sprintf("%.1f%%", m.WinRatePct)})
	trades.Append([]string{"Average Win", p.Sprintf("$%.2f", m.AvgWin)})
	trades.Append([]string{"Average Loss", p.Sprintf("$%.2f", m.AvgLoss)})
	trades.Append([]string{"Profit Factor", fmt.Sprintf("%.2f", m.ProfitFactor)})
	trades.Render()

	display.WriteString("\nSignals:\n")
	signals := tablewriter.NewWriter(display)
	signals.SetAlignment(tablewriter.ALIGN_RIGHT)
	signals.SetColumnSeparator("")
	signals.Append([]string{"Total Signals", fmt.Sprintf("%d", m.TotalSignals)})
	signals.Append([]string{"Buy Signals", fmt.Sprintf("%d", m.BuySignals)})
	signals.Append([]string{"Sell Signals", fmt.Sprintf("%d", m.SellSignals)})
	signals.Append([]string{"Hold Signals", fmt.Sprintf("%d", m.HoldSignals)})
	signals.Append([]string{"Average Confidence", fmt.Sprintf("%.2f", m.AvgConfidence)})
	signals.Render()

	return display.String()
}
