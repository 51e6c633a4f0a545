package model

import "time"

// Signal is the qualitative reading of an indicator's latest value.
type Signal string

const (
	SignalBullish    Signal = "Bullish"
	SignalBearish    Signal = "Bearish"
	SignalOverbought Signal = "Overbought"
	SignalOversold   Signal = "Oversold"
	SignalNeutral    Signal = "Neutral"
	SignalNone       Signal = ""
)

// Advice returns the trading hint shown next to an RSI reading.
func (s Signal) Advice() string {
	switch s {
	case SignalOverbought:
		return "Consider Selling"
	case SignalOversold:
		return "Consider Buying"
	default:
		return ""
	}
}

// Reading is the latest value of one indicator and its interpretation.
type Reading struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
	Signal    Signal  `json:"signal,omitempty"`
}

// BandReading holds the latest Bollinger values.
type BandReading struct {
	Upper     float64 `json:"upper"`
	Middle    float64 `json:"middle"`
	Lower     float64 `json:"lower"`
	Available bool    `json:"available"`
}

// ChartData carries the full series needed to draw a price chart.
type ChartData struct {
	Times  []time.Time
	Closes []float64
	Volume []float64
	SMA    IndicatorSeries
	Bands  *Bands
}

// Insights is the point-in-time analysis of one Series.
type Insights struct {
	Symbol        string      `json:"symbol"`
	Name          string      `json:"name"`
	Currency      string      `json:"currency"`
	AsOf          time.Time   `json:"as_of"`
	Bars          int         `json:"bars"`
	Price         float64     `json:"price"`
	PreviousClose float64     `json:"previous_close"`
	ChangePct     float64     `json:"change_pct"`
	SMA           Reading     `json:"sma_20"`
	RSI           Reading     `json:"rsi_14"`
	MACD          Reading     `json:"macd"`
	MACDSignal    float64     `json:"macd_signal"`
	Bollinger     BandReading `json:"bollinger"`
	PeriodHigh    float64     `json:"period_high"`
	PeriodLow     float64     `json:"period_low"`
	RangePosition float64     `json:"range_position"`
	LowConfidence bool        `json:"low_confidence"`
	Warnings      []string    `json:"warnings,omitempty"`
	Chart         ChartData   `json:"-"`
}
