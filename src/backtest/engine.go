package backtest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/quantlab/marketreplay/src/models"
	"github.com/quantlab/marketreplay/src/portfolio"
	"github.com/quantlab/marketreplay/src/strategies"
)

var (
	ErrInsufficientData = fmt.Errorf("insufficient data for required history")
	ErrEngineNotReset   = fmt.Errorf("engine must be reset before running again")
)

// RunState tracks where a run is in its lifecycle.
type RunState string

const (
	StateUninitialized RunState = "uninitialized"
	StateWarmingUp     RunState = "warming-up"
	StateRunning       RunState = "running"
	StateCompleted     RunState = "completed"
	StateFailed        RunState = "failed"
)

// DefaultConfidenceThreshold is the minimum signal confidence the engine will
// act on.
const DefaultConfidenceThreshold = 0.5

// Config holds the per-run simulation parameters.
type Config struct {
	InitialCapital      float64
	CommissionRate      float64
	SlippageRate        float64
	MinTradeSize        float64
	ConfidenceThreshold float64
	AnnualizationFactor float64
	Limits              portfolio.Limits
}

func DefaultConfig() Config {
	return Config{
		InitialCapital:      10000.0,
		CommissionRate:      0.005,
		SlippageRate:        0.001,
		MinTradeSize:        DefaultMinTradeSize,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		AnnualizationFactor: DefaultAnnualizationFactor,
		Limits:              portfolio.DefaultLimits(),
	}
}

// Engine replays a candle series through a strategy bar by bar, simulating
// execution frictions against a single ledger. Each bar is processed in
// strict order: mark, snapshot, signal, execute, exit check. An engine owns
// its portfolio exclusively and must not be shared across concurrent runs.
type Engine struct {
	ID        uuid.UUID
	config    Config
	portfolio *portfolio.Portfolio
	simulator *ExecutionSimulator
	observer  RunObserver
	state     RunState
}

func NewEngine(config Config) *Engine {
	return &Engine{
		ID:        uuid.New(),
		config:    config,
		portfolio: portfolio.NewPortfolio(config.InitialCapital, config.Limits),
		simulator: NewExecutionSimulator(config.CommissionRate, config.SlippageRate, config.MinTradeSize),
		observer:  NewLogObserver(),
		state:     StateUninitialized,
	}
}

// SetObserver replaces the default logrus observer.
func (e *Engine) SetObserver(observer RunObserver) {
	e.observer = observer
}

func (e *Engine) State() RunState {
	return e.state
}

func (e *Engine) Portfolio() *portfolio.Portfolio {
	return e.portfolio
}

// RunArgs are the inputs of one backtest run. Start and End optionally
// restrict the series before validation.
type RunArgs struct {
	Strategy   strategies.Strategy
	Candles    []models.Candle
	Instrument models.Instrument
	Start      *time.Time
	End        *time.Time
}

// Run replays the series through the strategy and produces the final report.
// A completed or failed engine must be Reset before running again; state
// never leaks between runs.
func (e *Engine) Run(args RunArgs) (*Report, error) {
	if e.state != StateUninitialized {
		return nil, fmt.Errorf("%w: state is %s", ErrEngineNotReset, e.state)
	}

	candles := args.Candles
	if args.Start != nil || args.End != nil {
		candles = models.FilterByDateRange(candles, args.Start, args.End)
	}

	minHistory := args.Strategy.RequiredHistory()

	if len(candles) == 0 || len(candles) < minHistory {
		e.state = StateFailed
		return nil, fmt.Errorf("%w: need %d bars, have %d", ErrInsufficientData, minHistory, len(candles))
	}

	if err := models.ValidateSeries(candles); err != nil {
		e.state = StateFailed
		return nil, fmt.Errorf("invalid candle series: %w", err)
	}

	e.portfolio.Reset()
	e.state = StateWarmingUp

	if err := args.Strategy.Initialize(candles[:minHistory]); err != nil {
		e.state = StateFailed
		return nil, fmt.Errorf("failed to initialize strategy %s: %w", args.Strategy.Name(), err)
	}

	log.WithFields(log.Fields{
		"strategy":   args.Strategy.Name(),
		"instrument": args.Instrument,
		"bars":       len(candles),
		"from":       candles[0].Timestamp,
		"to":         candles[len(candles)-1].Timestamp,
	}).Info("starting backtest")

	e.state = StateRunning

	equityCurve := make([]EquityPlotRecord, 0, len(candles)-minHistory)
	signalLog := make([]SignalRecord, 0, len(candles)-minHistory)
	executions := make([]*ExecutionEvent, 0)

	for i := minHistory; i < len(candles); i++ {
		current := candles[i]
		history := candles[:i+1]

		// 1. mark open positions at the bar's close
		e.portfolio.Mark(args.Instrument, current.Close)
		e.observer.OnMark(args.Instrument, current.Timestamp, current.Close, e.portfolio.TotalValue())

		// 2. snapshot before anything else can move money on this bar
		equityCurve = append(equityCurve, EquityPlotRecord{
			Timestamp: current.Timestamp,
			Equity:    e.portfolio.TotalValue(),
			Cash:      e.portfolio.AvailableCash(),
			Invested:  e.portfolio.TotalInvested(),
		})

		// 3. signal from bars[0..i] only; a bad bar never aborts the run
		signal, err := args.Strategy.GenerateSignal(history)
		if err != nil {
			log.WithFields(log.Fields{
				"strategy":  args.Strategy.Name(),
				"timestamp": current.Timestamp,
			}).Errorf("error generating signal: %v", err)
			signal = nil
		}

		if signal != nil {
			signalLog = append(signalLog, SignalRecord{
				Timestamp:  current.Timestamp,
				Type:       signal.Type,
				Confidence: signal.Confidence,
				Price:      current.Close,
			})

			// 4. execute when confidence clears the threshold
			if signal.Confidence > e.config.ConfidenceThreshold {
				event, err := e.simulator.Execute(e.portfolio, args.Strategy, signal, args.Instrument, current.Close, current.Timestamp, e.observer)
				if err != nil {
					log.WithFields(log.Fields{
						"timestamp": current.Timestamp,
						"action":    signal.Type,
					}).Warnf("fill rejected: %v", err)
				} else if event != nil {
					executions = append(executions, event)
				}
			}
		}

		// 5. ask the strategy whether to exit whatever is still open
		if position := e.portfolio.GetPosition(args.Instrument); position != nil {
			shouldExit, reason := args.Strategy.ShouldExit(history, position.EntryPrice, current.Close, position.Side)
			if shouldExit {
				pnl, err := e.portfolio.Close(args.Instrument, current.Close, current.Timestamp, reason)
				if err != nil {
					log.Warnf("exit close failed: %v", err)
				} else {
					e.observer.OnExit(args.Instrument, current.Timestamp, pnl, reason)
				}
			}
		}
	}

	e.state = StateCompleted

	metrics := ComputeMetrics(
		equityCurve,
		signalLog,
		e.portfolio.Trades(),
		e.config.InitialCapital,
		candles[0].Close,
		candles[len(candles)-1].Close,
		e.config.AnnualizationFactor,
	)

	report := &Report{
		RunID:          uuid.New(),
		EngineID:       e.ID,
		StrategyName:   args.Strategy.Name(),
		StrategyParams: args.Strategy.Parameters(),
		Instrument:     args.Instrument,
		EquityCurve:    equityCurve,
		Signals:        signalLog,
		Executions:     executions,
		Trades:         e.portfolio.Trades(),
		Metrics:        metrics,
	}

	log.WithFields(log.Fields{
		"strategy":     args.Strategy.Name(),
		"total_return": fmt.Sprintf("%.2f%%", metrics.TotalReturnPct),
		"trades":       metrics.TotalTrades,
	}).Info("backtest completed")

	return report, nil
}

// Reset restores the engine and its portfolio for a fresh run.
func (e *Engine) Reset() {
	e.portfolio.Reset()
	e.state = StateUninitialized
}
