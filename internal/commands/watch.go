package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"StockInsight/internal/render"
	"StockInsight/internal/scheduler"
)

var (
	watchPeriod   string
	watchInterval time.Duration
	watchFormat   string
	watchChart    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [SYMBOL]",
	Short: "Re-analyze a stock on a fixed interval",
	Long: `Analyze SYMBOL now and again every interval until interrupted.

Examples:
  stockinsight watch AAPL
  stockinsight watch MSFT --period 3mo --interval 5m --format panel`,
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

		sink := render.NewConsoleSink(cmd.OutOrStdout(), watchFormat, watchChart)
		r := scheduler.NewRefresher(a.collector, a.intervalOrDefault(watchInterval), a.log, sink)
		r.Metrics = a.metrics
		if err := r.Watch(symbol, a.periodOrDefault(watchPeriod)); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Show the first result without waiting a full interval; failures
		// are printed by the sink.
		_ = r.RefreshNow(ctx)
		if err := r.Start(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Refreshing every %s. Press Ctrl+C to stop.\n", r.Interval)

		<-ctx.Done()
		r.Stop()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchPeriod, "period", "p", "", "lookback period (1d, 5d, 1mo, 3mo, 6mo, 1y)")
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 0, "refresh interval (default stock.refresh_interval)")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", render.ModeTable, "output format (table, panel)")
	watchCmd.Flags().BoolVar(&watchChart, "chart", false, "append a price and volume chart")
}
