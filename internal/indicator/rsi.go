package indicator

import "StockInsight/internal/model"

// DefaultRSIPeriods is the conventional RSI lookback.
const DefaultRSIPeriods = 14

// RSI computes the relative strength index from simple rolling means of
// gains and losses over the last periods close-to-close changes.
// Points before index periods are undefined. A window without losses
// resolves to 100.
func RSI(s *model.Series, periods int) (model.IndicatorSeries, error) {
	if periods <= 0 {
		return nil, invalid("RSI periods must be positive, got %d", periods)
	}
	if s.Len() < periods+1 {
		return nil, insufficient("RSI", periods+1, s.Len())
	}

	closes := s.Closes()
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	out := make(model.IndicatorSeries, len(closes))
	for i, b := range s.Bars {
		out[i].Time = b.Time
		if i < periods {
			continue
		}
		avgGain := mean(gains[i-periods+1 : i+1])
		avgLoss := mean(losses[i-periods+1 : i+1])
		out[i].Value = rsiValue(avgGain, avgLoss)
		out[i].Valid = true
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
