package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/quantlab/marketreplay/src/backtest"
	"github.com/quantlab/marketreplay/src/logger"
)

type RunRecord struct {
	gorm.Model
	RunID          uuid.UUID `gorm:"column:run_id;type:uuid;not null;index:idx_run_id"`
	EngineID       uuid.UUID `gorm:"column:engine_id;type:uuid;not null"`
	StrategyName   string    `gorm:"column:strategy_name;type:text;not null"`
	Instrument     string    `gorm:"column:instrument;type:text;not null"`
	InitialCapital float64   `gorm:"column:initial_capital;type:numeric;not null"`
	FinalValue     float64   `gorm:"column:final_value;type:numeric;not null"`
	TotalReturnPct float64   `gorm:"column:total_return_pct;type:numeric;not null"`
	SharpeRatio    float64   `gorm:"column:sharpe_ratio;type:numeric;not null"`
	MaxDrawdownPct float64   `gorm:"column:max_drawdown_pct;type:numeric;not null"`
	TotalTrades    int       `gorm:"column:total_trades;not null"`
	WinRatePct     float64   `gorm:"column:win_rate_pct;type:numeric;not null"`
	StartDate      time.Time `gorm:"column:start_date;type:timestamptz"`
	EndDate        time.Time `gorm:"column:end_date;type:timestamptz"`
}

type TradeRow struct {
	gorm.Model
	RunID      uuid.UUID `gorm:"column:run_id;type:uuid;not null;index:idx_run_trade"`
	Instrument string    `gorm:"column:instrument;type:text;not null"`
	Side       string    `gorm:"column:side;type:text;not null"`
	Quantity   float64   `gorm:"column:quantity;type:numeric;not null"`
	EntryPrice float64   `gorm:"column:entry_price;type:numeric;not null"`
	ExitPrice  float64   `gorm:"column:exit_price;type:numeric;not null"`
	EntryTime  time.Time `gorm:"column:entry_time;type:timestamptz;not null"`
	ExitTime   time.Time `gorm:"column:exit_time;type:timestamptz;not null"`
	Pnl        float64   `gorm:"column:pnl;type:numeric;not null"`
	ReturnPct  float64   `gorm:"column:return_pct;type:numeric;not null"`
	Reason     string    `gorm:"column:reason;type:text"`
}

type EquityRow struct {
	gorm.Model
	RunID     uuid.UUID `gorm:"column:run_id;type:uuid;not null;index:idx_run_equity"`
	Timestamp time.Time `gorm:"column:timestamp;type:timestamptz;not null"`
	Equity    float64   `gorm:"column:equity;type:numeric;not null"`
	Cash      float64   `gorm:"column:cash;type:numeric;not null"`
	Invested  float64   `gorm:"column:invested;type:numeric;not null"`
}

// ResultsDB persists completed run reports to postgres.
type ResultsDB struct {
	db *gorm.DB
}

func NewResultsDB(url string) (*ResultsDB, error) {
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.NewLogrusLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&RunRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := db.AutoMigrate(&TradeRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := db.AutoMigrate(&EquityRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &ResultsDB{db: db}, nil
}

// SaveRun writes the report header, its trades and its equity curve in a
// single transaction.
func (r *ResultsDB) SaveRun(report *backtest.Report) error {
	m := report.Metrics

	return r.db.Transaction(func(tx *gorm.DB) error {
		run := &RunRecord{
			RunID:          report.RunID,
			EngineID:       report.EngineID,
			StrategyName:   report.StrategyName,
			Instrument:     report.Instrument.String(),
			InitialCapital: m.InitialCapital,
			FinalValue:     m.FinalValue,
			TotalReturnPct: m.TotalReturnPct,
			SharpeRatio:    m.SharpeRatio,
			MaxDrawdownPct: m.MaxDrawdownPct,
			TotalTrades:    m.TotalTrades,
			WinRatePct:     m.WinRatePct,
			StartDate:      m.StartDate,
			EndDate:        m.EndDate,
		}

		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("failed to save run record: %w", err)
		}

		for _, t := range report.Trades {
			row := &TradeRow{
				RunID:      report.RunID,
				Instrument: t.Instrument.String(),
				Side:       string(t.Side),
				Quantity:   t.Quantity,
				EntryPrice: t.EntryPrice,
				ExitPrice:  t.ExitPrice,
				EntryTime:  t.EntryTime,
				ExitTime:   t.ExitTime,
				Pnl:        t.PnL,
				ReturnPct:  t.ReturnPct,
				Reason:     t.Reason,
			}

			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("failed to save trade row: %w", err)
			}
		}

		for _, e := range report.EquityCurve {
			row := &EquityRow{
				RunID:     report.RunID,
				Timestamp: e.Timestamp,
				Equity:    e.Equity,
				Cash:      e.Cash,
				Invested:  e.Invested,
			}

			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("failed to save equity row: %w", err)
			}
		}

		return nil
	})
}
