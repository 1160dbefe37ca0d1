package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		assert.NoError(t, err)
		assert.Equal(t, 10000.0, cfg.Backtest.InitialCapital)
		assert.Equal(t, 0.005, cfg.Backtest.CommissionRate)
		assert.Equal(t, 252.0, cfg.Backtest.AnnualizationFactor)
		assert.Equal(t, 1000.0, cfg.Risk.MaxPositionNotional)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("file values layer over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
log_level: debug
backtest:
  initial_capital: 50000
  commission_rate: 0.001
strategies:
  short_window: 5
`
		assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadConfig(path)
		assert.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 50000.0, cfg.Backtest.InitialCapital)
		assert.Equal(t, 0.001, cfg.Backtest.CommissionRate)
		assert.Equal(t, 5, cfg.Strategies.ShortWindow)

		// untouched keys keep their defaults
		assert.Equal(t, 0.001, cfg.Backtest.SlippageRate)
		assert.Equal(t, 30, cfg.Strategies.LongWindow)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		assert.NoError(t, os.WriteFile(path, []byte("backtest: ["), 0644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}
