package portfolio

import (
	"time"

	"github.com/quantlab/marketreplay/src/models"
)

// TradeRecord is one closed lot. Records are append-only and never mutated
// after being recorded.
type TradeRecord struct {
	Instrument models.Instrument `json:"instrument"`
	Side       models.Side       `json:"side"`
	Quantity   float64           `json:"quantity"`
	EntryPrice float64           `json:"entry_price"`
	ExitPrice  float64           `json:"exit_price"`
	EntryTime  time.Time         `json:"entry_time"`
	ExitTime   time.Time         `json:"exit_time"`
	PnL        float64           `json:"pnl"`
	ReturnPct  float64           `json:"return_pct"`
	Reason     string            `json:"reason,omitempty"`
}

func NewTradeRecord(instrument models.Instrument, side models.Side, quantity, entryPrice, exitPrice float64, entryTime, exitTime time.Time, pnl float64, reason string) *TradeRecord {
	returnPct := 0.0
	if entryPrice > 0 && quantity > 0 {
		returnPct = pnl / (entryPrice * quantity) * 100.0
	}

	return &TradeRecord{
		Instrument: instrument,
		Side:       side,
		Quantity:   quantity,
		EntryPrice: entryPrice,
		ExitPrice:  exitPrice,
		EntryTime:  entryTime,
		ExitTime:   exitTime,
		PnL:        pnl,
		ReturnPct:  returnPct,
		Reason:     reason,
	}
}
