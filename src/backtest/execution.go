package backtest

import (
	"fmt"
	"time"

	"github.com/quantlab/marketreplay/src/models"
	"github.com/quantlab/marketreplay/src/portfolio"
	"github.com/quantlab/marketreplay/src/strategies"
)

// DefaultMinTradeSize is the smallest notional, in quote currency, the
// simulator will send to the ledger. Anything below it is dust and silently
// dropped.
const DefaultMinTradeSize = 10.0

// ExecutionSimulator turns a strategy signal into a simulated fill: it
// worsens the quoted price by slippage, sizes the trade through the
// strategy's sizing contract, charges commission and applies the result to
// the ledger.
type ExecutionSimulator struct {
	commissionRate float64
	slippageRate   float64
	minTradeSize   float64
}

func NewExecutionSimulator(commissionRate, slippageRate, minTradeSize float64) *ExecutionSimulator {
	return &ExecutionSimulator{
		commissionRate: commissionRate,
		slippageRate:   slippageRate,
		minTradeSize:   minTradeSize,
	}
}

// FillPrice applies slippage against the taker: buys fill above the quote,
// sells below it.
func (s *ExecutionSimulator) FillPrice(action models.SignalType, price float64) float64 {
	if action == models.SignalBuy {
		return price * (1 + s.slippageRate)
	}

	return price * (1 - s.slippageRate)
}

// Execute applies a signal to the ledger. It returns a nil event for HOLD
// signals and for proposals below the minimum trade size; a policy rejection
// by the ledger is returned as an error with the ledger left untouched.
func (s *ExecutionSimulator) Execute(port *portfolio.Portfolio, strat strategies.Strategy, signal *models.Signal, instrument models.Instrument, price float64, timestamp time.Time, observer RunObserver) (*ExecutionEvent, error) {
	if signal.Type == models.SignalHold {
		return nil, nil
	}

	fillPrice := s.FillPrice(signal.Type, price)

	notional := strat.PositionSize(port.AvailableCash(), fillPrice, signal)
	if notional < s.minTradeSize {
		return nil, nil
	}

	quantity := notional / fillPrice
	commission := notional * s.commissionRate

	side := models.SideLong
	if signal.Type == models.SignalSell {
		side = models.SideShort
	}

	existing := port.GetPosition(instrument)
	closesExisting := existing != nil && existing.Side != side

	// a buy must fit within available cash with its commission on top,
	// unless it is covering an existing short
	if side == models.SideLong && !closesExisting && notional+commission > port.AvailableCash() {
		err := fmt.Errorf("%w: need %.2f, have %.2f", portfolio.ErrInsufficientFunds, notional+commission, port.AvailableCash())
		observer.OnRejection(instrument, timestamp, signal.Type, err)
		return nil, err
	}

	realized, err := port.OpenOrAdd(instrument, side, quantity, fillPrice, timestamp)
	if err != nil {
		observer.OnRejection(instrument, timestamp, signal.Type, err)
		return nil, err
	}

	port.DebitCommission(commission)

	event := &ExecutionEvent{
		Timestamp:  timestamp,
		Instrument: instrument,
		Action:     signal.Type,
		Price:      fillPrice,
		Quantity:   quantity,
		Notional:   notional,
		Commission: commission,
		Confidence: signal.Confidence,
	}

	if closesExisting {
		event.RealizedPnL = &realized
	}

	observer.OnFill(event)

	return event, nil
}
