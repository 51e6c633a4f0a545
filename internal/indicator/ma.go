package indicator

import (
	"time"

	"StockInsight/internal/model"
)

// SMA computes the simple moving average of close prices over window bars.
// Points before index window-1 are undefined.
func SMA(s *model.Series, window int) (model.IndicatorSeries, error) {
	if window <= 0 {
		return nil, invalid("SMA window must be positive, got %d", window)
	}
	if s.Len() < window {
		return nil, insufficient("SMA", window, s.Len())
	}
	return sma(s.Times(), s.Closes(), window), nil
}

// EMA computes the exponential moving average of close prices with
// alpha = 2/(span+1), seeded with the first close (no warm-up gap).
func EMA(s *model.Series, span int) (model.IndicatorSeries, error) {
	if span <= 0 {
		return nil, invalid("EMA span must be positive, got %d", span)
	}
	if s.Len() == 0 {
		return nil, insufficient("EMA", 1, 0)
	}
	return ema(s.Times(), s.Closes(), span), nil
}

// EMAOf smooths an already derived series. Every point of src must be defined.
func EMAOf(src model.IndicatorSeries, span int) (model.IndicatorSeries, error) {
	if span <= 0 {
		return nil, invalid("EMA span must be positive, got %d", span)
	}
	if len(src) == 0 {
		return nil, insufficient("EMA", 1, 0)
	}
	times := make([]time.Time, len(src))
	for i, p := range src {
		if !p.Valid {
			return nil, invalid("EMA input undefined at index %d", i)
		}
		times[i] = p.Time
	}
	return ema(times, src.Values(), span), nil
}

func sma(times []time.Time, values []float64, window int) model.IndicatorSeries {
	out := make(model.IndicatorSeries, len(values))
	for i := range values {
		out[i].Time = times[i]
		if i < window-1 {
			continue
		}
		out[i].Value = mean(values[i-window+1 : i+1])
		out[i].Valid = true
	}
	return out
}

func ema(times []time.Time, values []float64, span int) model.IndicatorSeries {
	alpha := 2.0 / float64(span+1)
	out := make(model.IndicatorSeries, len(values))
	for i, v := range values {
		out[i].Time = times[i]
		out[i].Valid = true
		if i == 0 {
			out[i].Value = v
			continue
		}
		out[i].Value = alpha*v + (1-alpha)*out[i-1].Value
	}
	return out
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
