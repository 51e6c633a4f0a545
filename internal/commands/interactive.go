package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"StockInsight/internal/collector"
	"StockInsight/internal/render"
	"StockInsight/internal/scheduler"
)

var interactiveFormat string

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"repl"},
	Short:   "Prompt for symbols and print their indicators",
	Long: `Prompt for a stock symbol and an optional period, print the analysis,
and repeat until "quit".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return runInteractive(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a.collector, a.cfg.Stock.Period, interactiveFormat)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
	interactiveCmd.Flags().StringVarP(&interactiveFormat, "format", "f", render.ModeTable, "output format (table, panel)")
}

// runInteractive reads "SYMBOL [period]" lines until quit or EOF.
func runInteractive(ctx context.Context, in io.Reader, out io.Writer, analyzer scheduler.Analyzer, defaultPeriod, format string) error {
	sink := render.NewConsoleSink(out, format, false)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "\nEnter stock symbol [period] (or 'quit' to exit): ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		symbol := strings.ToUpper(fields[0])
		if symbol == "QUIT" || symbol == "EXIT" {
			return nil
		}
		period := defaultPeriod
		if len(fields) > 1 {
			period = fields[1]
		}
		if err := collector.ValidatePeriod(period); err != nil {
			fmt.Fprintf(out, "Unknown period %q, choose one of %s\n", period, strings.Join(collector.Periods, ", "))
			continue
		}

		fmt.Fprintf(out, "\nFetching market insights for %s...\n", symbol)
		ins, err := analyzer.Collect(ctx, symbol, period)
		if err != nil {
			_ = sink.PresentError(ctx, symbol, err)
			continue
		}
		if err := sink.Present(ctx, ins); err != nil {
			return err
		}
	}
}
