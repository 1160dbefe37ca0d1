package backtest

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"
)

type equityRow struct {
	Timestamp string  `csv:"timestamp"`
	Equity    float64 `csv:"equity"`
	Cash      float64 `csv:"cash"`
	Invested  float64 `csv:"invested"`
}

type signalRow struct {
	Timestamp  string  `csv:"timestamp"`
	Type       string  `csv:"type"`
	Confidence float64 `csv:"confidence"`
	Price      float64 `csv:"price"`
}

type tradeRow struct {
	Instrument string  `csv:"instrument"`
	Side       string  `csv:"side"`
	Quantity   float64 `csv:"quantity"`
	EntryPrice float64 `csv:"entry_price"`
	ExitPrice  float64 `csv:"exit_price"`
	EntryTime  string  `csv:"entry_time"`
	ExitTime   string  `csv:"exit_time"`
	PnL        float64 `csv:"pnl"`
	ReturnPct  float64 `csv:"return_pct"`
	Reason     string  `csv:"reason"`
}

// Export writes the report to disk under the given path prefix. It produces
// {prefix}_summary.txt, {prefix}_portfolio.csv, {prefix}_signals.csv and
// {prefix}_trades.csv.
func (r *Report) Export(prefix string) error {
	summaryPath := fmt.Sprintf("%s_summary.txt", prefix)
	if err := os.WriteFile(summaryPath, []byte(r.Summary()), 0644); err != nil {
		return fmt.Errorf("Export: failed to write summary: %w", err)
	}

	equity := make([]*equityRow, 0, len(r.EquityCurve))
	for _, rec := range r.EquityCurve {
		equity = append(equity, &equityRow{
			Timestamp: rec.Timestamp.Format(time.RFC3339),
			Equity:    rec.Equity,
			Cash:      rec.Cash,
			Invested:  rec.Invested,
		})
	}
	if err := writeCsv(fmt.Sprintf("%s_portfolio.csv", prefix), equity); err != nil {
		return err
	}

	signals := make([]*signalRow, 0, len(r.Signals))
	for _, rec := range r.Signals {
		signals = append(signals, &signalRow{
			Timestamp:  rec.Timestamp.Format(time.RFC3339),
			Type:       string(rec.Type),
			Confidence: rec.Confidence,
			Price:      rec.Price,
		})
	}
	if err := writeCsv(fmt.Sprintf("%s_signals.csv", prefix), signals); err != nil {
		return err
	}

	trades := make([]*tradeRow, 0, len(r.Trades))
	for _, t := range r.Trades {
		trades = append(trades, &tradeRow{
			Instrument: t.Instrument.String(),
			Side:       string(t.Side),
			Quantity:   t.Quantity,
			EntryPrice: t.EntryPrice,
			ExitPrice:  t.ExitPrice,
			EntryTime:  t.EntryTime.Format(time.RFC3339),
			ExitTime:   t.ExitTime.Format(time.RFC3339),
			PnL:        t.PnL,
			ReturnPct:  t.ReturnPct,
			Reason:     t.Reason,
		})
	}
	if err := writeCsv(fmt.Sprintf("%s_trades.csv", prefix), trades); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"prefix": prefix,
		"run_id": r.RunID,
	}).Info("Export: report written")

	return nil
}

func writeCsv(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writeCsv: failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("writeCsv: failed to marshal %s: %w", path, err)
	}

	return nil
}
