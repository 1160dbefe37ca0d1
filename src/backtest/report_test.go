package backtest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/quantlab/marketreplay/src/models"
	"github.com/quantlab/marketreplay/src/portfolio"
)

func sampleReport() *Report {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	curve := equityCurve(start, 10000, 10100, 10300)
	signals := []SignalRecord{
		{Timestamp: start, Type: models.SignalBuy, Confidence: 0.8, Price: 100},
		{Timestamp: start.AddDate(0, 0, 1), Type: models.SignalHold, Confidence: 0, Price: 101},
	}
	trades := []*portfolio.TradeRecord{
		portfolio.NewTradeRecord("AAPL", models.SideLong, 10, 100, 103, start, start.AddDate(0, 0, 2), 30, "take_profit"),
	}

	return &Report{
		RunID:        uuid.New(),
		EngineID:     uuid.New(),
		StrategyName: "SMA_Crossover",
		Instrument:   "AAPL",
		EquityCurve:  curve,
		Signals:      signals,
		Trades:       trades,
		Metrics:      ComputeMetrics(curve, signals, trades, 10000, 100, 103, DefaultAnnualizationFactor),
	}
}

func TestReportSummary(t *testing.T) {
	summary := sampleReport().Summary()

	assert.Contains(t, summary, "Backtest Results Summary")
	assert.Contains(t, summary, "SMA_Crossover on AAPL")
	assert.Contains(t, summary, "Total Return")
	assert.Contains(t, summary, "Sharpe Ratio")
	assert.Contains(t, summary, "Win Rate")
	assert.Contains(t, summary, "Total Signals")
	assert.Contains(t, summary, "$10,000.00")
}

func TestReportExport(t *testing.T) {
	report := sampleReport()
	prefix := filepath.Join(t.TempDir(), "run")

	assert.NoError(t, report.Export(prefix))

	for _, suffix := range []string{"_summary.txt", "_portfolio.csv", "_signals.csv", "_trades.csv"} {
		_, err := os.Stat(prefix + suffix)
		assert.NoError(t, err, suffix)
	}

	trades, err := os.ReadFile(prefix + "_trades.csv")
	assert.NoError(t, err)
	assert.Contains(t, string(trades), "take_profit")

	portfolioCsv, err := os.ReadFile(prefix + "_portfolio.csv")
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(portfolioCsv)), "\n")
	// header plus one row per snapshot
	assert.Len(t, lines, 4)
}
