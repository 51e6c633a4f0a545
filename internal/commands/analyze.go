package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"StockInsight/internal/model"
	"StockInsight/internal/render"
)

var (
	analyzePeriod string
	analyzeFormat string
	analyzeChart  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [SYMBOL]",
	Short: "Analyze a stock once and print the indicators",
	Long: `Fetch the price history for SYMBOL and print the indicator table.

Examples:
  stockinsight analyze AAPL
  stockinsight analyze TSLA --period 6mo --format panel --chart
  stockinsight analyze RELIANCE.NS --currency INR --multiplier 1 --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		symbol := a.cfg.Stock.Symbol
		if len(args) == 1 {
			symbol = args[0]
		}
		if symbol == "" {
			return fmt.Errorf("no symbol given and stock.symbol is not configured")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		ins, err := a.collector.Collect(ctx, symbol, a.periodOrDefault(analyzePeriod))
		if err != nil {
			return fmt.Errorf("analyze %s: %w", strings.ToUpper(symbol), err)
		}
		return writeInsights(cmd.OutOrStdout(), ins, analyzeFormat, analyzeChart)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzePeriod, "period", "p", "", "lookback period (1d, 5d, 1mo, 3mo, 6mo, 1y)")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", render.ModeTable, "output format (table, panel, json)")
	analyzeCmd.Flags().BoolVar(&analyzeChart, "chart", false, "append a price and volume chart")
}

func writeInsights(w io.Writer, ins *model.Insights, format string, chart bool) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ins)
	}
	if format != render.ModeTable && format != render.ModePanel {
		return fmt.Errorf("unknown format %q", format)
	}
	return render.NewConsoleSink(w, format, chart).Present(context.Background(), ins)
}
