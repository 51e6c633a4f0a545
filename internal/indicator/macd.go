package indicator

import "StockInsight/internal/model"

const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

// LowConfidence reports whether n bars are too few for the slow MACD EMA to
// have settled. MACD is still computed; callers should flag the result.
func LowConfidence(n int) bool { return n < MACDSlow }

// MACD returns the MACD line (EMA12 - EMA26) and its EMA9 signal line.
// Both cover the full series.
func MACD(s *model.Series) (macd, signal model.IndicatorSeries, err error) {
	fast, err := EMA(s, MACDFast)
	if err != nil {
		return nil, nil, err
	}
	slow, err := EMA(s, MACDSlow)
	if err != nil {
		return nil, nil, err
	}

	macd = make(model.IndicatorSeries, len(fast))
	for i := range fast {
		macd[i] = model.Point{Time: fast[i].Time, Value: fast[i].Value - slow[i].Value, Valid: true}
	}
	signal, err = EMAOf(macd, MACDSignal)
	if err != nil {
		return nil, nil, err
	}
	return macd, signal, nil
}

// MACDHistogram returns macd - signal for every index where both are defined.
func MACDHistogram(macd, signal model.IndicatorSeries) model.IndicatorSeries {
	n := len(macd)
	if len(signal) < n {
		n = len(signal)
	}
	out := make(model.IndicatorSeries, n)
	for i := 0; i < n; i++ {
		out[i].Time = macd[i].Time
		if macd[i].Valid && signal[i].Valid {
			out[i].Value = macd[i].Value - signal[i].Value
			out[i].Valid = true
		}
	}
	return out
}
