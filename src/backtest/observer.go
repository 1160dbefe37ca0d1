package backtest

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/quantlab/marketreplay/src/models"
)

// RunObserver hears every notable event of a simulation run: marks, fills,
// policy rejections and rule-driven exits. It replaces ambient logging inside
// the core; the engine is handed one at construction.
type RunObserver interface {
	OnMark(instrument models.Instrument, timestamp time.Time, price, equity float64)
	OnFill(event *ExecutionEvent)
	OnRejection(instrument models.Instrument, timestamp time.Time, action models.SignalType, err error)
	OnExit(instrument models.Instrument, timestamp time.Time, pnl float64, reason string)
}

// LogObserver reports run events through logrus.
type LogObserver struct{}

func NewLogObserver() *LogObserver {
	return &LogObserver{}
}

func (o *LogObserver) OnMark(instrument models.Instrument, timestamp time.Time, price, equity float64) {
	log.WithFields(log.Fields{
		"instrument": instrument,
		"price":      price,
		"equity":     equity,
	}).Trace("mark")
}

func (o *LogObserver) OnFill(event *ExecutionEvent) {
	fields := log.Fields{
		"instrument": event.Instrument,
		"action":     event.Action,
		"price":      event.Price,
		"quantity":   event.Quantity,
		"notional":   event.Notional,
		"commission": event.Commission,
	}

	if event.RealizedPnL != nil {
		fields["pnl"] = *event.RealizedPnL
	}

	log.WithFields(fields).Info("fill")
}

func (o *LogObserver) OnRejection(instrument models.Instrument, timestamp time.Time, action models.SignalType, err error) {
	log.WithFields(log.Fields{
		"instrument": instrument,
		"action":     action,
	}).Warnf("fill rejected: %v", err)
}

func (o *LogObserver) OnExit(instrument models.Instrument, timestamp time.Time, pnl float64, reason string) {
	log.WithFields(log.Fields{
		"instrument": instrument,
		"pnl":        pnl,
		"reason":     reason,
	}).Info("position exited")
}
