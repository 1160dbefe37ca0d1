package portfolio

import (
	"time"

	"github.com/quantlab/marketreplay/src/models"
)

// Position is one open exposure to a single instrument. A portfolio holds at
// most one Position per instrument; an opposite-side fill reduces, closes or
// reverses it rather than creating a second one.
type Position struct {
	Instrument    models.Instrument `json:"instrument"`
	Side          models.Side       `json:"side"`
	Quantity      float64           `json:"quantity"`
	EntryPrice    float64           `json:"entry_price"`
	EntryTime     time.Time         `json:"entry_time"`
	MarkPrice     *float64          `json:"mark_price,omitempty"`
	UnrealizedPnL float64           `json:"unrealized_pnl"`
	RealizedPnL   float64           `json:"realized_pnl"`
}

func NewPosition(instrument models.Instrument, side models.Side, quantity, entryPrice float64, entryTime time.Time) *Position {
	return &Position{
		Instrument: instrument,
		Side:       side,
		Quantity:   quantity,
		EntryPrice: entryPrice,
		EntryTime:  entryTime,
	}
}

// UpdateMarkPrice revalues the position at the current price. No cash moves.
func (p *Position) UpdateMarkPrice(price float64) {
	p.MarkPrice = &price

	if p.Side == models.SideLong {
		p.UnrealizedPnL = (price - p.EntryPrice) * p.Quantity
	} else {
		p.UnrealizedPnL = (p.EntryPrice - price) * p.Quantity
	}
}

// remark recomputes the unrealized PnL at the last mark after the quantity
// or entry price changed. A position that was never marked stays at zero.
func (p *Position) remark() {
	if p.MarkPrice != nil {
		p.UpdateMarkPrice(*p.MarkPrice)
	}
}

func (p *Position) markOrEntryPrice() float64 {
	if p.MarkPrice != nil {
		return *p.MarkPrice
	}

	return p.EntryPrice
}

// MarketValue is the signed value the position contributes to total equity:
// positive for longs, negative for shorts. The sign is what keeps
// cash + market value conserved across short round trips.
func (p *Position) MarketValue() float64 {
	value := p.markOrEntryPrice() * p.Quantity
	if p.Side == models.SideShort {
		return -value
	}

	return value
}

// Notional is the unsigned quantity * price exposure.
func (p *Position) Notional() float64 {
	return p.markOrEntryPrice() * p.Quantity
}

func (p *Position) TotalPnL() float64 {
	return p.RealizedPnL + p.UnrealizedPnL
}

// pnlFor prices an exit of the given quantity at exitPrice.
func (p *Position) pnlFor(exitPrice, quantity float64) float64 {
	if p.Side == models.SideLong {
		return (exitPrice - p.EntryPrice) * quantity
	}

	return (p.EntryPrice - exitPrice) * quantity
}
