package main

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/quantlab/marketreplay/src/backtest"
	"github.com/quantlab/marketreplay/src/database"
	"github.com/quantlab/marketreplay/src/logger"
	"github.com/quantlab/marketreplay/src/models"
	"github.com/quantlab/marketreplay/src/portfolio"
	"github.com/quantlab/marketreplay/src/strategies"
	"github.com/quantlab/marketreplay/src/utils"
)

type RunArgs struct {
	CandlesFile string
	Strategy    string
	ConfigFile  string
	OutDir      string
	Instrument  string
	StartDate   string
	EndDate     string
}

type RunResult struct {
	Report *backtest.Report
}

var runCmd = &cobra.Command{
	Use:   "backtester --candles data/candles.csv --strategy sma",
	Short: "Replay an OHLCV series through a trading strategy and report the results",
	Run: func(cmd *cobra.Command, args []string) {
		runArgs := RunArgs{}

		var err error
		if runArgs.CandlesFile, err = cmd.Flags().GetString("candles"); err != nil {
			log.Fatalf("error getting candles: %v", err)
		}

		if runArgs.Strategy, err = cmd.Flags().GetString("strategy"); err != nil {
			log.Fatalf("error getting strategy: %v", err)
		}

		if runArgs.ConfigFile, err = cmd.Flags().GetString("config"); err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		if runArgs.OutDir, err = cmd.Flags().GetString("outDir"); err != nil {
			log.Fatalf("error getting outDir: %v", err)
		}

		if runArgs.Instrument, err = cmd.Flags().GetString("instrument"); err != nil {
			log.Fatalf("error getting instrument: %v", err)
		}

		if runArgs.StartDate, err = cmd.Flags().GetString("start"); err != nil {
			log.Fatalf("error getting start: %v", err)
		}

		if runArgs.EndDate, err = cmd.Flags().GetString("end"); err != nil {
			log.Fatalf("error getting end: %v", err)
		}

		result, err := Run(runArgs)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		fmt.Println(result.Report.Summary())
	},
}

func newStrategy(name string, cfg *utils.Config) (strategies.Strategy, error) {
	s := cfg.Strategies

	switch name {
	case "sma":
		return strategies.NewSMACrossover(s.ShortWindow, s.LongWindow)
	case "rsi":
		return strategies.NewRSIStrategy(s.RsiPeriod, s.RsiOversold, s.RsiOverbought)
	case "breakout":
		return strategies.NewVolatilityBreakout(s.LookbackPeriod, s.VolatilityMultiplier, s.MinVolume)
	default:
		return nil, fmt.Errorf("unknown strategy %q: expected sma, rsi or breakout", name)
	}
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", value, err)
	}

	return &t, nil
}

func Run(args RunArgs) (RunResult, error) {
	if err := utils.InitEnvironmentVariables(); err != nil {
		return RunResult{}, fmt.Errorf("error loading environment variables: %w", err)
	}

	cfg, err := utils.LoadConfig(args.ConfigFile)
	if err != nil {
		return RunResult{}, fmt.Errorf("error loading config: %w", err)
	}

	logger.SetLevel(cfg.LogLevel)

	candles, err := utils.ImportCandles(args.CandlesFile)
	if err != nil {
		return RunResult{}, fmt.Errorf("error importing candles: %w", err)
	}

	strat, err := newStrategy(args.Strategy, cfg)
	if err != nil {
		return RunResult{}, err
	}

	strat.SetRiskLimits(cfg.Risk.StopLossPct, cfg.Risk.TakeProfitPct)

	start, err := parseDate(args.StartDate)
	if err != nil {
		return RunResult{}, err
	}

	end, err := parseDate(args.EndDate)
	if err != nil {
		return RunResult{}, err
	}

	engineCfg := backtest.Config{
		InitialCapital:      cfg.Backtest.InitialCapital,
		CommissionRate:      cfg.Backtest.CommissionRate,
		SlippageRate:        cfg.Backtest.SlippageRate,
		MinTradeSize:        cfg.Backtest.MinTradeSize,
		ConfidenceThreshold: cfg.Backtest.ConfidenceThreshold,
		AnnualizationFactor: cfg.Backtest.AnnualizationFactor,
		Limits: portfolio.Limits{
			MaxPositionNotional: cfg.Risk.MaxPositionNotional,
			MaxPortfolioRisk:    cfg.Risk.MaxPortfolioRisk,
		},
	}

	engine := backtest.NewEngine(engineCfg)
	engine.SetObserver(&backtest.LogObserver{})

	report, err := engine.Run(backtest.RunArgs{
		Strategy:   strat,
		Candles:    candles,
		Instrument: models.Instrument(args.Instrument),
		Start:      start,
		End:        end,
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("error running backtest: %w", err)
	}

	if args.OutDir != "" {
		if _, err := os.Stat(args.OutDir); os.IsNotExist(err) {
			if err := os.MkdirAll(args.OutDir, 0755); err != nil {
				return RunResult{}, fmt.Errorf("error creating output directory: %w", err)
			}
		}

		prefix := fmt.Sprintf("%s/%s_%s", args.OutDir, args.Strategy, report.RunID)
		if err := report.Export(prefix); err != nil {
			return RunResult{}, fmt.Errorf("error exporting report: %w", err)
		}
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		db, err := database.NewResultsDB(url)
		if err != nil {
			return RunResult{}, fmt.Errorf("error connecting to results database: %w", err)
		}

		if err := db.SaveRun(report); err != nil {
			return RunResult{}, fmt.Errorf("error saving run: %w", err)
		}
	}

	return RunResult{Report: report}, nil
}

func main() {
	runCmd.PersistentFlags().String("candles", "", "Path to an OHLCV csv file")
	runCmd.PersistentFlags().String("strategy", "sma", "Strategy to run: sma, rsi or breakout")
	runCmd.PersistentFlags().String("config", "", "Optional yaml config file")
	runCmd.PersistentFlags().String("outDir", "", "Directory for exported results")
	runCmd.PersistentFlags().String("instrument", "UNKNOWN", "Instrument symbol for the series")
	runCmd.PersistentFlags().String("start", "", "Inclusive start date (YYYY-MM-DD)")
	runCmd.PersistentFlags().String("end", "", "Inclusive end date (YYYY-MM-DD)")

	runCmd.MarkPersistentFlagRequired("candles")

	if err := runCmd.Execute(); err != nil {
		log.Fatalf("error executing command: %v", err)
	}
}
