package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"StockInsight/internal/api"
	"StockInsight/internal/notifier"
	"StockInsight/internal/render"
	"StockInsight/internal/scheduler"
)

var (
	serveAddr       string
	serveConsole    bool
	serveRunOnStart bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the refresh driver and the Telegram bot",
	Long: `Start the long-running service:

• HTTP API with insights, watch target and Prometheus metrics
• refresh driver re-analyzing stock.symbol every stock.refresh_interval
• Telegram bot answering /analyze, /watch, /unwatch, /refresh and /status
  (only when telegram.bot_token is set)

Examples:
  stockinsight serve
  stockinsight serve --addr :9090 --console`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (default http.addr)")
	serveCmd.Flags().BoolVar(&serveConsole, "console", false, "also print every refresh to stdout")
	serveCmd.Flags().BoolVar(&serveRunOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "refresh the watched symbol immediately")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		a.cfg.HTTP.Addr = serveAddr
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var sinks []scheduler.Sink
	if serveConsole {
		sinks = append(sinks, render.NewConsoleSink(cmd.OutOrStdout(), render.ModeTable, false))
	}

	var tn *notifier.TelegramNotifier
	if a.cfg.TelegramEnabled() {
		if err := a.cfg.ValidateTelegram(); err != nil {
			return err
		}
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log)
		sinks = append(sinks, tn)
	} else {
		a.log.Warn("telegram.bot_token not set, chat bot disabled")
	}

	refresher := scheduler.NewRefresher(a.collector, a.cfg.Stock.RefreshInterval, a.log, sinks...)
	refresher.Metrics = a.metrics
	refresher.Format = render.TelegramReport
	if a.cfg.Stock.Symbol != "" {
		if err := refresher.Watch(a.cfg.Stock.Symbol, a.cfg.Stock.Period); err != nil {
			return err
		}
	}
	if err := refresher.Start(ctx); err != nil {
		return err
	}
	defer refresher.Stop()

	if serveRunOnStart {
		a.log.Info("run-on-start enabled, refreshing now")
		go func() { _ = refresher.RefreshNow(ctx) }()
	}

	if tn != nil {
		go tn.StartPolling(ctx, refresher.HandleCommand)
		a.log.Info("telegram polling started")
	}

	router := api.SetupRoutes(api.NewHandler(a.collector, refresher, a.log), a.metrics, a.log)
	server := api.NewServer(a.cfg.HTTP.Addr, router, a.log)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	a.log.Info("stockinsight is running, press Ctrl+C to stop")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	select {
	case sig := <-interrupt:
		a.log.WithField("signal", sig.String()).Info("shutdown signal received, stopping")
	case err := <-errCh:
		if err != nil {
			a.log.WithError(err).Error("http server failed")
			return err
		}
	}

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.log.WithError(err).Warn("http server shutdown")
	}
	a.log.Info("stockinsight stopped")
	return nil
}
