package backtest

import (
	"time"

	"github.com/quantlab/marketreplay/src/models"
)

// EquityPlotRecord is one snapshot of the portfolio taken after the
// mark-to-market step of a bar and before anything else happens on that bar.
type EquityPlotRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Equity    float64   `json:"equity"`
	Cash      float64   `json:"cash"`
	Invested  float64   `json:"invested"`
}

// SignalRecord is one entry of the signal log.
type SignalRecord struct {
	Timestamp  time.Time         `json:"timestamp"`
	Type       models.SignalType `json:"signal"`
	Confidence float64           `json:"confidence"`
	Price      float64           `json:"price"`
}

// ExecutionEvent is one simulated execution applied to the ledger.
// RealizedPnL is set when the fill reduced, closed or reversed an existing
// position.
type ExecutionEvent struct {
	Timestamp   time.Time         `json:"timestamp"`
	Instrument  models.Instrument `json:"instrument"`
	Action      models.SignalType `json:"action"`
	Price       float64           `json:"price"`
	Quantity    float64           `json:"quantity"`
	Notional    float64           `json:"notional"`
	Commission  float64           `json:"commission"`
	Confidence  float64           `json:"confidence"`
	RealizedPnL *float64          `json:"realized_pnl,omitempty"`
}
