package insight

import (
	"fmt"

	"StockInsight/internal/indicator"
	"StockInsight/internal/model"
)

// readSMA reads the latest SMA(20) and compares it with the current close.
func readSMA(s *model.Series, price float64) (model.Reading, model.IndicatorSeries, error) {
	series, err := indicator.SMA(s, SMAWindow)
	if err != nil {
		return model.Reading{}, nil, fmt.Errorf("SMA(%d): %w", SMAWindow, err)
	}
	last, ok := series.Last()
	if !ok {
		return model.Reading{}, series, fmt.Errorf("SMA(%d): %w", SMAWindow, indicator.ErrInsufficientData)
	}
	return model.Reading{
		Value:     last.Value,
		Available: true,
		Signal:    indicator.InterpretSMA(price, last.Value),
	}, series, nil
}

// readRSI reads the latest RSI(14).
func readRSI(s *model.Series) (model.Reading, error) {
	series, err := indicator.RSI(s, indicator.DefaultRSIPeriods)
	if err != nil {
		return model.Reading{}, fmt.Errorf("RSI(%d): %w", indicator.DefaultRSIPeriods, err)
	}
	last, ok := series.Last()
	if !ok {
		return model.Reading{}, fmt.Errorf("RSI(%d): %w", indicator.DefaultRSIPeriods, indicator.ErrInsufficientData)
	}
	return model.Reading{
		Value:     last.Value,
		Available: true,
		Signal:    indicator.InterpretRSI(last.Value),
	}, nil
}

// readMACD reads the latest MACD and signal line values.
func readMACD(s *model.Series) (model.Reading, float64, error) {
	macd, signal, err := indicator.MACD(s)
	if err != nil {
		return model.Reading{}, 0, fmt.Errorf("MACD: %w", err)
	}
	m, okM := macd.Last()
	sig, okS := signal.Last()
	if !okM || !okS {
		return model.Reading{}, 0, fmt.Errorf("MACD: %w", indicator.ErrInsufficientData)
	}
	return model.Reading{
		Value:     m.Value,
		Available: true,
		Signal:    indicator.InterpretMACD(m.Value, sig.Value),
	}, sig.Value, nil
}

// readBollinger reads the latest Bollinger(20, 2) envelope.
func readBollinger(s *model.Series) (model.BandReading, *model.Bands, error) {
	bands, err := indicator.Bollinger(s, indicator.DefaultBollingerWindow, indicator.DefaultBollingerK)
	if err != nil {
		return model.BandReading{}, nil, fmt.Errorf("Bollinger(%d): %w", indicator.DefaultBollingerWindow, err)
	}
	upper, okU := bands.Upper.Last()
	middle, okM := bands.Middle.Last()
	lower, okL := bands.Lower.Last()
	if !okU || !okM || !okL {
		return model.BandReading{}, bands, fmt.Errorf("Bollinger(%d): %w", indicator.DefaultBollingerWindow, indicator.ErrInsufficientData)
	}
	return model.BandReading{
		Upper:     upper.Value,
		Middle:    middle.Value,
		Lower:     lower.Value,
		Available: true,
	}, bands, nil
}
