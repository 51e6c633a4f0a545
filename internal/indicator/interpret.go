package indicator

import "StockInsight/internal/model"

const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// InterpretSMA is Bullish when the close is above its moving average.
func InterpretSMA(price, sma float64) model.Signal {
	if price > sma {
		return model.SignalBullish
	}
	return model.SignalBearish
}

// InterpretRSI labels readings above 70 Overbought and below 30 Oversold.
// The thresholds themselves are Neutral.
func InterpretRSI(rsi float64) model.Signal {
	switch {
	case rsi > RSIOverbought:
		return model.SignalOverbought
	case rsi < RSIOversold:
		return model.SignalOversold
	default:
		return model.SignalNeutral
	}
}

// InterpretMACD is Bullish only when the MACD line is strictly above the signal line.
func InterpretMACD(macd, signal float64) model.Signal {
	if macd > signal {
		return model.SignalBullish
	}
	return model.SignalBearish
}

// PriceChange returns the signed percentage move from prev to current.
func PriceChange(prev, current float64) (float64, error) {
	if prev == 0 {
		return 0, invalid("previous close is zero")
	}
	return (current - prev) / prev * 100, nil
}

// LatestChange returns the percentage move between the last two closes.
func LatestChange(s *model.Series) (float64, error) {
	if s.Len() < 2 {
		return 0, insufficient("price change", 2, s.Len())
	}
	n := s.Len()
	return PriceChange(s.Bars[n-2].Close, s.Bars[n-1].Close)
}
