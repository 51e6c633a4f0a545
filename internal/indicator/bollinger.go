package indicator

import (
	"math"

	"StockInsight/internal/model"
)

const (
	DefaultBollingerWindow = 20
	DefaultBollingerK      = 2.0
)

// Bollinger computes center = SMA(window) and upper/lower = center ± k times
// the sample standard deviation of the same window of closes.
func Bollinger(s *model.Series, window int, k float64) (*model.Bands, error) {
	if window < 2 {
		return nil, invalid("Bollinger window must be at least 2, got %d", window)
	}
	if k < 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, invalid("Bollinger multiplier must be a non-negative number, got %v", k)
	}
	if s.Len() < window {
		return nil, insufficient("Bollinger", window, s.Len())
	}

	closes := s.Closes()
	times := s.Times()
	middle := sma(times, closes, window)
	bands := &model.Bands{
		Upper:  make(model.IndicatorSeries, len(closes)),
		Middle: middle,
		Lower:  make(model.IndicatorSeries, len(closes)),
	}
	for i := range closes {
		bands.Upper[i].Time = times[i]
		bands.Lower[i].Time = times[i]
		if !middle[i].Valid {
			continue
		}
		band := k * stddev(closes[i-window+1:i+1], middle[i].Value)
		bands.Upper[i].Value = middle[i].Value + band
		bands.Upper[i].Valid = true
		bands.Lower[i].Value = middle[i].Value - band
		bands.Lower[i].Valid = true
	}
	return bands, nil
}

// stddev is the sample (n-1) standard deviation around a precomputed mean.
func stddev(values []float64, mean float64) float64 {
	sq := 0.0
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}
