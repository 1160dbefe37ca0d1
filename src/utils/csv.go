package utils

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/quantlab/marketreplay/src/models"
)

// ImportCandles loads an OHLCV series from a csv file and validates that it
// is sorted in ascending time order.
func ImportCandles(path string) ([]models.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ImportCandles: failed to open %s: %w", path, err)
	}
	defer f.Close()

	var rows []*models.CandleDTO
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("ImportCandles: failed to parse %s: %w", path, err)
	}

	candles := make([]models.Candle, 0, len(rows))
	for i, row := range rows {
		c, err := row.ToModel()
		if err != nil {
			return nil, fmt.Errorf("ImportCandles: row %d: %w", i+1, err)
		}

		candles = append(candles, *c)
	}

	if err := models.ValidateSeries(candles); err != nil {
		return nil, fmt.Errorf("ImportCandles: %s: %w", path, err)
	}

	log.Infof("Imported %d candles from %s", len(candles), path)

	return candles, nil
}
