package portfolio

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/quantlab/marketreplay/src/models"
)

// Limits are the risk caps applied to every incoming fill.
type Limits struct {
	MaxPositionNotional float64
	MaxPortfolioRisk    float64
}

func DefaultLimits() Limits {
	return Limits{
		MaxPositionNotional: 1000.0,
		MaxPortfolioRisk:    0.02,
	}
}

// Portfolio owns the cash balance and all open positions for one simulation
// run. It is the single source of truth for money: all fills and marks flow
// through it, and the conservation law
//
//	cash + sum(market value) == initial capital + realized + unrealized - commissions
//
// holds after every operation.
type Portfolio struct {
	initialCapital  float64
	cash            float64
	positions       map[models.Instrument]*Position
	trades          []*TradeRecord
	commissionsPaid float64
	limits          Limits
}

func NewPortfolio(initialCapital float64, limits Limits) *Portfolio {
	return &Portfolio{
		initialCapital: initialCapital,
		cash:           initialCapital,
		positions:      make(map[models.Instrument]*Position),
		trades:         make([]*TradeRecord, 0),
		limits:         limits,
	}
}

func (p *Portfolio) InitialCapital() float64 {
	return p.initialCapital
}

func (p *Portfolio) AvailableCash() float64 {
	return p.cash
}

// TotalInvested is the summed signed market value of all open positions.
func (p *Portfolio) TotalInvested() float64 {
	total := 0.0
	for _, position := range p.positions {
		total += position.MarketValue()
	}

	return total
}

func (p *Portfolio) TotalValue() float64 {
	return p.cash + p.TotalInvested()
}

func (p *Portfolio) CommissionsPaid() float64 {
	return p.commissionsPaid
}

func (p *Portfolio) GetPosition(instrument models.Instrument) *Position {
	return p.positions[instrument]
}

func (p *Portfolio) OpenPositionCount() int {
	return len(p.positions)
}

// Trades returns the closed-lot history in record order.
func (p *Portfolio) Trades() []*TradeRecord {
	return p.trades
}

// RealizedPnL is the summed PnL of all closed lots.
func (p *Portfolio) RealizedPnL() float64 {
	total := 0.0
	for _, trade := range p.trades {
		total += trade.PnL
	}

	return total
}

// UnrealizedPnL is the summed unrealized PnL of all open positions.
func (p *Portfolio) UnrealizedPnL() float64 {
	total := 0.0
	for _, position := range p.positions {
		total += position.UnrealizedPnL
	}

	return total
}

// Mark revalues the instrument's position at the current price. No cash is
// created or destroyed by marking.
func (p *Portfolio) Mark(instrument models.Instrument, price float64) {
	if position, ok := p.positions[instrument]; ok {
		position.UpdateMarkPrice(price)
	}
}

// OpenOrAdd applies a fill to the portfolio. Same-side fills open or grow a
// position with quantity-weighted average pricing; opposite-side fills reduce,
// close or reverse it. Returns the PnL realized by any closing leg.
//
// A rejected fill (insufficient funds, position limit) leaves cash, positions
// and trade history untouched.
func (p *Portfolio) OpenOrAdd(instrument models.Instrument, side models.Side, quantity, price float64, timestamp time.Time) (float64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: got %.6f", ErrInvalidQuantity, quantity)
	}

	notional := quantity * price

	existing, ok := p.positions[instrument]
	if !ok {
		if err := p.checkOpen(side, notional, p.cash); err != nil {
			return 0, err
		}

		p.positions[instrument] = NewPosition(instrument, side, quantity, price, timestamp)
		p.applyFillCash(side, notional)

		log.WithFields(log.Fields{
			"instrument": instrument,
			"side":       side,
			"quantity":   quantity,
			"price":      price,
		}).Debug("opened position")

		return 0, nil
	}

	if existing.Side == side {
		if err := p.checkOpen(side, notional, p.cash); err != nil {
			return 0, err
		}

		totalQuantity := existing.Quantity + quantity
		existing.EntryPrice = (existing.EntryPrice*existing.Quantity + price*quantity) / totalQuantity
		existing.Quantity = totalQuantity
		existing.remark()
		p.applyFillCash(side, notional)

		log.WithFields(log.Fields{
			"instrument":  instrument,
			"side":        side,
			"quantity":    totalQuantity,
			"entry_price": existing.EntryPrice,
		}).Debug("added to position")

		return 0, nil
	}

	return p.reduceOrReverse(existing, side, quantity, price, timestamp)
}

// reduceOrReverse handles an opposite-side fill of size quantity against an
// existing position of size Q: quantity < Q reduces it, quantity == Q closes
// it, quantity > Q closes it and reopens the residual on the new side.
func (p *Portfolio) reduceOrReverse(existing *Position, side models.Side, quantity, price float64, timestamp time.Time) (float64, error) {
	if quantity < existing.Quantity {
		pnl := existing.pnlFor(price, quantity)

		p.recordTrade(existing, quantity, price, timestamp, "reduce")
		p.applyFillCash(side, quantity*price)
		existing.Quantity -= quantity
		existing.RealizedPnL += pnl
		existing.remark()

		return pnl, nil
	}

	residual := quantity - existing.Quantity

	if residual > 0 {
		// the residual leg opens a fresh position, so it is subject to the
		// same policy checks as any open. Funds are checked against the cash
		// balance as it will stand after the closing leg settles: covering a
		// short debits the buyback notional before the residual long opens.
		available := p.cash
		if side == models.SideLong {
			available -= existing.Quantity * price
		}

		if err := p.checkOpen(side, residual*price, available); err != nil {
			return 0, err
		}
	}

	pnl, err := p.closeLocked(existing, price, timestamp, "reversal")
	if err != nil {
		return 0, err
	}

	if residual > 0 {
		p.positions[existing.Instrument] = NewPosition(existing.Instrument, side, residual, price, timestamp)
		p.applyFillCash(side, residual*price)

		log.WithFields(log.Fields{
			"instrument": existing.Instrument,
			"side":       side,
			"quantity":   residual,
			"price":      price,
		}).Debug("reversed position")
	}

	return pnl, nil
}

// Close fully closes the instrument's position at the given price, realizes
// its PnL and appends a closed-lot record. A missing position is a reported
// condition, not a crash.
func (p *Portfolio) Close(instrument models.Instrument, price float64, timestamp time.Time, reason string) (float64, error) {
	position, ok := p.positions[instrument]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoPositionFound, instrument)
	}

	return p.closeLocked(position, price, timestamp, reason)
}

func (p *Portfolio) closeLocked(position *Position, price float64, timestamp time.Time, reason string) (float64, error) {
	pnl := position.pnlFor(price, position.Quantity)

	p.recordTrade(position, position.Quantity, price, timestamp, reason)

	// the closing fill settles at notional: sale proceeds for a long,
	// buyback cost for a short, leaving a net cash effect equal to the
	// realized PnL over the lot's round trip
	p.applyFillCash(position.Side.Opposite(), position.Quantity*price)

	delete(p.positions, position.Instrument)

	log.WithFields(log.Fields{
		"instrument": position.Instrument,
		"pnl":        pnl,
		"reason":     reason,
	}).Debug("closed position")

	return pnl, nil
}

// DebitCommission charges an execution friction against cash.
func (p *Portfolio) DebitCommission(amount float64) {
	p.cash -= amount
	p.commissionsPaid += amount
}

// Reset restores the portfolio to the empty, fully-capitalized state.
func (p *Portfolio) Reset() {
	p.cash = p.initialCapital
	p.positions = make(map[models.Instrument]*Position)
	p.trades = make([]*TradeRecord, 0)
	p.commissionsPaid = 0
}

// checkOpen enforces the local risk policy on a fill that opens or grows a
// position against the given cash balance. Violations are reported to the
// caller; the fill is never applied.
func (p *Portfolio) checkOpen(side models.Side, notional, available float64) error {
	if side == models.SideLong && notional > available {
		return fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientFunds, notional, available)
	}

	if notional > p.limits.MaxPositionNotional {
		return fmt.Errorf("%w: %.2f > %.2f", ErrPositionLimitExceeded, notional, p.limits.MaxPositionNotional)
	}

	return nil
}

// applyFillCash moves cash by the fill's signed notional: buys debit,
// sells credit.
func (p *Portfolio) applyFillCash(side models.Side, notional float64) {
	if side == models.SideLong {
		p.cash -= notional
	} else {
		p.cash += notional
	}
}

func (p *Portfolio) recordTrade(position *Position, quantity, exitPrice float64, exitTime time.Time, reason string) {
	pnl := position.pnlFor(exitPrice, quantity)
	p.trades = append(p.trades, NewTradeRecord(position.Instrument, position.Side, quantity, position.EntryPrice, exitPrice, position.EntryTime, exitTime, pnl, reason))
}
