package indicator

import (
	"math"

	"StockInsight/internal/model"
)

// HighLow scans the most recent lookback bars and returns the highest high
// and the lowest low. A lookback of 0 or more than the series length scans
// every bar.
func HighLow(s *model.Series, lookback int) (high, low float64, err error) {
	if lookback < 0 {
		return 0, 0, invalid("lookback must not be negative, got %d", lookback)
	}
	if s.Len() == 0 {
		return 0, 0, insufficient("high/low", 1, 0)
	}
	n := s.Len()
	start := 0
	if lookback > 0 && lookback < n {
		start = n - lookback
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if s.Bars[i].High > high {
			high = s.Bars[i].High
		}
		if s.Bars[i].Low < low {
			low = s.Bars[i].Low
		}
	}
	return high, low, nil
}

// RangePosition returns where price sits within [low, high], clamped to 0..1.
// A flat range reports the midpoint.
func RangePosition(price, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, invalid("high %v is below low %v", high, low)
	}
	pos := (price - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
