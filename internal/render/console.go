package render

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"StockInsight/internal/model"
)

// Console layouts.
const (
	ModeTable = "table"
	ModePanel = "panel"
)

// DefaultChartWidth is the sparkline width used by the console sink.
const DefaultChartWidth = 60

// ConsoleSink writes insights to a terminal. Writes are serialized so
// concurrent refreshes never interleave their output.
type ConsoleSink struct {
	W     io.Writer
	Mode  string
	Chart bool

	mu sync.Mutex
}

// NewConsoleSink creates a sink; an unknown mode falls back to the table layout.
func NewConsoleSink(w io.Writer, mode string, chart bool) *ConsoleSink {
	if mode != ModePanel {
		mode = ModeTable
	}
	return &ConsoleSink{W: w, Mode: mode, Chart: chart}
}

// Present prints one insights snapshot.
func (c *ConsoleSink) Present(_ context.Context, ins *model.Insights) error {
	var out string
	if c.Mode == ModePanel {
		out = Panel(ins)
	} else {
		out = fmt.Sprintf("\nAnalysis for %s (%s)\n", Title(ins), ins.AsOf.Format(time.DateOnly)) + Table(ins)
		for _, w := range ins.Warnings {
			out += "Warning: " + w + "\n"
		}
	}
	if c.Chart {
		out += "\n" + Chart(ins, DefaultChartWidth)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.W, out)
	return err
}

// PresentError prints a failed refresh for symbol.
func (c *ConsoleSink) PresentError(_ context.Context, symbol string, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, werr := fmt.Fprintf(c.W, "Error analyzing %s: %v\n", symbol, err)
	return werr
}
