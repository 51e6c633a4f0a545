package render

import (
	"fmt"
	"html"
	"math"
	"strings"

	"StockInsight/internal/indicator"
	"StockInsight/internal/insight"
	"StockInsight/internal/model"
)

// Title returns "Company Name (SYMBOL)", or just the symbol when they match.
func Title(ins *model.Insights) string {
	if ins.Name == "" || ins.Name == ins.Symbol {
		return ins.Symbol
	}
	return fmt.Sprintf("%s (%s)", ins.Name, ins.Symbol)
}

// Panel formats the insights as the indicator panel text.
func Panel(ins *model.Insights) string {
	var b strings.Builder
	b.WriteString(Title(ins) + "\n")
	b.WriteString(fmt.Sprintf("As of %s, %d bars\n\n", ins.AsOf.Format("2006-01-02"), ins.Bars))

	b.WriteString(fmt.Sprintf("Current Price: %s (%+.2f%%)\n\n", Money(ins.Currency, ins.Price), ins.ChangePct))

	if ins.SMA.Available {
		b.WriteString(fmt.Sprintf("SMA (%d): %s (%s)\n\n", insight.SMAWindow, Money(ins.Currency, ins.SMA.Value), ins.SMA.Signal))
	} else {
		b.WriteString(fmt.Sprintf("SMA (%d): %s\n\n", insight.SMAWindow, unavailable))
	}

	if ins.RSI.Available {
		b.WriteString(fmt.Sprintf("RSI (%d): %.2f (%s)\n\n", indicator.DefaultRSIPeriods, ins.RSI.Value, rsiAnalysis(ins.RSI.Signal)))
	} else {
		b.WriteString(fmt.Sprintf("RSI (%d): %s\n\n", indicator.DefaultRSIPeriods, unavailable))
	}

	if ins.MACD.Available {
		b.WriteString(fmt.Sprintf("MACD: %.2f (%s Signal)\n\n", ins.MACD.Value, ins.MACD.Signal))
	} else {
		b.WriteString(fmt.Sprintf("MACD: %s\n\n", unavailable))
	}

	if ins.Bollinger.Available {
		b.WriteString(fmt.Sprintf("Bollinger Bands (%d, %.0f): upper %s, middle %s, lower %s (%s)\n",
			indicator.DefaultBollingerWindow, indicator.DefaultBollingerK,
			Money(ins.Currency, ins.Bollinger.Upper), Money(ins.Currency, ins.Bollinger.Middle),
			Money(ins.Currency, ins.Bollinger.Lower), bandPosition(ins)))
	} else {
		b.WriteString(fmt.Sprintf("Bollinger Bands (%d, %.0f): %s\n",
			indicator.DefaultBollingerWindow, indicator.DefaultBollingerK, unavailable))
	}

	for _, w := range ins.Warnings {
		b.WriteString("\nWarning: " + w)
	}
	if len(ins.Warnings) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

var sparks = []rune("▁▂▃▄▅▆▇█")

// Chart draws the close and volume series as terminal sparklines no wider than width.
func Chart(ins *model.Insights, width int) string {
	if len(ins.Chart.Closes) == 0 {
		return ""
	}
	closes := sample(ins.Chart.Closes, width)
	volume := sample(ins.Chart.Volume, width)
	low, high := bounds(ins.Chart.Closes)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Price  %s  %s - %s\n", sparkline(closes), Money(ins.Currency, low), Money(ins.Currency, high)))
	if ins.Chart.SMA.Defined() > 1 {
		var defined []float64
		for _, p := range ins.Chart.SMA {
			if p.Valid {
				defined = append(defined, p.Value)
			}
		}
		b.WriteString(fmt.Sprintf("SMA    %s\n", sparkline(sample(defined, width))))
	}
	if len(volume) > 0 {
		_, vmax := bounds(ins.Chart.Volume)
		b.WriteString(fmt.Sprintf("Volume %s  max %.0f\n", sparkline(volume), vmax))
	}
	if ins.Chart.Bands != nil {
		upper, okU := ins.Chart.Bands.Upper.Last()
		lower, okL := ins.Chart.Bands.Lower.Last()
		if okU && okL {
			b.WriteString(fmt.Sprintf("Bands  %s .. %s\n", Money(ins.Currency, lower.Value), Money(ins.Currency, upper.Value)))
		}
	}
	return b.String()
}

// sample picks at most width evenly spaced values, always keeping the last one.
func sample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	if width == 1 {
		return values[len(values)-1:]
	}
	out := make([]float64, width)
	step := float64(len(values)-1) / float64(width-1)
	for i := range out {
		out[i] = values[int(math.Round(float64(i)*step))]
	}
	return out
}

func bounds(values []float64) (low, high float64) {
	low, high = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	return low, high
}

func sparkline(values []float64) string {
	low, high := bounds(values)
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if high > low {
			idx = int((v - low) / (high - low) * float64(len(sparks)-1))
		}
		b.WriteRune(sparks[idx])
	}
	return b.String()
}

// TelegramReport formats the panel as Telegram HTML.
func TelegramReport(ins *model.Insights) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(Title(ins)), ins.AsOf.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Current Price: %s (%+.2f%%)\n", html.EscapeString(Money(ins.Currency, ins.Price)), ins.ChangePct))
	if ins.SMA.Available {
		b.WriteString(fmt.Sprintf("SMA (%d): %s <b>%s</b>\n", insight.SMAWindow, html.EscapeString(Money(ins.Currency, ins.SMA.Value)), ins.SMA.Signal))
	}
	if ins.RSI.Available {
		b.WriteString(fmt.Sprintf("RSI (%d): %.2f <b>%s</b>\n", indicator.DefaultRSIPeriods, ins.RSI.Value, html.EscapeString(rsiAnalysis(ins.RSI.Signal))))
	}
	if ins.MACD.Available {
		b.WriteString(fmt.Sprintf("MACD: %.2f <b>%s Signal</b>\n", ins.MACD.Value, ins.MACD.Signal))
	}
	if ins.Bollinger.Available {
		b.WriteString(fmt.Sprintf("Bollinger: %s - %s\n",
			html.EscapeString(Money(ins.Currency, ins.Bollinger.Lower)), html.EscapeString(Money(ins.Currency, ins.Bollinger.Upper))))
	}
	for _, w := range ins.Warnings {
		b.WriteString("\n⚠️ " + html.EscapeString(w))
	}
	return b.String()
}
