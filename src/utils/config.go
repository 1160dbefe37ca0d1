package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type BacktestConfig struct {
	InitialCapital      float64 `yaml:"initial_capital"`
	CommissionRate      float64 `yaml:"commission_rate"`
	SlippageRate        float64 `yaml:"slippage_rate"`
	MinTradeSize        float64 `yaml:"min_trade_size"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	AnnualizationFactor float64 `yaml:"annualization_factor"`
}

type RiskConfig struct {
	MaxPositionNotional float64 `yaml:"max_position_notional"`
	MaxPortfolioRisk    float64 `yaml:"max_portfolio_risk"`
	StopLossPct         float64 `yaml:"stop_loss_pct"`
	TakeProfitPct       float64 `yaml:"take_profit_pct"`
}

type StrategyConfig struct {
	ShortWindow          int     `yaml:"short_window"`
	LongWindow           int     `yaml:"long_window"`
	RsiPeriod            int     `yaml:"rsi_period"`
	RsiOversold          float64 `yaml:"rsi_oversold"`
	RsiOverbought        float64 `yaml:"rsi_overbought"`
	LookbackPeriod       int     `yaml:"lookback_period"`
	VolatilityMultiplier float64 `yaml:"volatility_multiplier"`
	MinVolume            float64 `yaml:"min_volume"`
}

type Config struct {
	LogLevel   string         `yaml:"log_level"`
	Backtest   BacktestConfig `yaml:"backtest"`
	Risk       RiskConfig     `yaml:"risk"`
	Strategies StrategyConfig `yaml:"strategies"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Backtest: BacktestConfig{
			InitialCapital:      10000,
			CommissionRate:      0.005,
			SlippageRate:        0.001,
			MinTradeSize:        10,
			ConfidenceThreshold: 0.5,
			AnnualizationFactor: 252,
		},
		Risk: RiskConfig{
			MaxPositionNotional: 1000,
			MaxPortfolioRisk:    0.02,
			StopLossPct:         0.05,
			TakeProfitPct:       0.10,
		},
		Strategies: StrategyConfig{
			ShortWindow:          10,
			LongWindow:           30,
			RsiPeriod:            14,
			RsiOversold:          30,
			RsiOverbought:        70,
			LookbackPeriod:       20,
			VolatilityMultiplier: 2.0,
			MinVolume:            1000,
		},
	}
}

// LoadConfig reads a yaml config file, layering its values over the defaults.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadConfig: failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("LoadConfig: failed to parse %s: %w", path, err)
	}

	return cfg, nil
}
