// Package commands implements the stockinsight command line.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	dataSource string
	currency   string
	multiplier float64
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockinsight",
	Short: "Technical indicators for a single stock",
	Long: `StockInsight fetches daily price history for a ticker and reports
classic technical indicators with a plain-language reading:

• SMA (20) trend: Bullish / Bearish
• RSI (14): Overbought / Oversold / Neutral
• MACD (12, 26, 9) signal crossover
• Bollinger Bands (20, 2)

Results go to the console, an HTTP API or a Telegram chat.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dataSource, "source", "", "market data source (yahoo, rest, mock)")
	rootCmd.PersistentFlags().StringVar(&currency, "currency", "", "display currency code, e.g. INR")
	rootCmd.PersistentFlags().Float64Var(&multiplier, "multiplier", 0, "price multiplier into the display currency")
}
