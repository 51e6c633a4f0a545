package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"StockInsight/internal/indicator"
	"StockInsight/internal/insight"
	"StockInsight/internal/model"
)

const unavailable = "n/a"

// Table formats the insights as a grid with Metric, Value and Analysis columns.
func Table(ins *model.Insights) string {
	rows := [][]string{
		{"Metric", "Value", "Analysis"},
		{"Current Price", Money(ins.Currency, ins.Price), fmt.Sprintf("%+.2f%% from previous close", ins.ChangePct)},
		smaRow(ins),
		rsiRow(ins),
		macdRow(ins),
		bollingerRow(ins),
		{"Period Range", Money(ins.Currency, ins.PeriodLow) + " - " + Money(ins.Currency, ins.PeriodHigh),
			fmt.Sprintf("at %.0f%% of range", ins.RangePosition*100)},
	}
	return grid(rows)
}

func smaRow(ins *model.Insights) []string {
	label := fmt.Sprintf("SMA (%d)", insight.SMAWindow)
	if !ins.SMA.Available {
		return []string{label, unavailable, "Insufficient data"}
	}
	return []string{label, Money(ins.Currency, ins.SMA.Value), string(ins.SMA.Signal)}
}

func rsiRow(ins *model.Insights) []string {
	label := fmt.Sprintf("RSI (%d)", indicator.DefaultRSIPeriods)
	if !ins.RSI.Available {
		return []string{label, unavailable, "Insufficient data"}
	}
	return []string{label, fmt.Sprintf("%.2f", ins.RSI.Value), rsiAnalysis(ins.RSI.Signal)}
}

func macdRow(ins *model.Insights) []string {
	if !ins.MACD.Available {
		return []string{"MACD", unavailable, "Insufficient data"}
	}
	return []string{"MACD", fmt.Sprintf("%.2f", ins.MACD.Value), string(ins.MACD.Signal) + " Signal"}
}

func bollingerRow(ins *model.Insights) []string {
	label := fmt.Sprintf("Bollinger (%d, %.0f)", indicator.DefaultBollingerWindow, indicator.DefaultBollingerK)
	if !ins.Bollinger.Available {
		return []string{label, unavailable, "Insufficient data"}
	}
	value := Money(ins.Currency, ins.Bollinger.Lower) + " - " + Money(ins.Currency, ins.Bollinger.Upper)
	return []string{label, value, bandPosition(ins)}
}

func rsiAnalysis(s model.Signal) string {
	if advice := s.Advice(); advice != "" {
		return string(s) + " - " + advice
	}
	return string(s)
}

func bandPosition(ins *model.Insights) string {
	switch {
	case ins.Price > ins.Bollinger.Upper:
		return "Above upper band"
	case ins.Price < ins.Bollinger.Lower:
		return "Below lower band"
	default:
		return "Inside bands"
	}
}

// grid renders rows with the first row as header, in the
// "+---+" / "+===+" style of a classic console grid.
func grid(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	sep := func(fill string) string {
		var b strings.Builder
		b.WriteString("+")
		for _, w := range widths {
			b.WriteString(strings.Repeat(fill, w+2))
			b.WriteString("+")
		}
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	b.WriteString(sep("-"))
	for r, row := range rows {
		b.WriteString("|")
		for i, cell := range row {
			pad := widths[i] - utf8.RuneCountInString(cell)
			b.WriteString(" " + cell + strings.Repeat(" ", pad) + " |")
		}
		b.WriteString("\n")
		if r == 0 {
			b.WriteString(sep("="))
		} else {
			b.WriteString(sep("-"))
		}
	}
	return b.String()
}
