package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"trading-signalsv1/config"
	"trading-signalsv1/internal/logger"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "signalengine",
		Short: "Technical-analysis trading signals for crypto assets",
		Long: `signalengine turns recent OHLCV candles into a BUY/SELL/HOLD recommendation
with confidence, entry range, take-profit levels, stop loss and reasons.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				loaded.LogLevel = slog.LevelDebug
			}
			cfg = loaded
			logger.InitWriter(cmd.ErrOrStderr(), "signalengine", cfg.LogLevel)
			return nil
		},
	}

	rootCmd.AddCommand(newServeCmd(func() *config.Config { return cfg }))
	rootCmd.AddCommand(newAnalyzeCmd(func() *config.Config { return cfg }))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "signalengine %s\n", version)
		},
	}
}
