package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trading-signalsv1/config"
	"trading-signalsv1/internal/logger"
	"trading-signalsv1/internal/model"
)

// newAnalyzeCmd creates the analyze command
func newAnalyzeCmd(cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "Compute a signal for one symbol and print it",
		Long: `Compute a trading signal for a symbol and render it in the terminal.
Example: signalengine analyze BTC --timeframe 1h --type scalp --risk aggressive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			tfRaw, _ := flags.GetString("timeframe")
			stRaw, _ := flags.GetString("type")
			rtRaw, _ := flags.GetString("risk")
			asJSON, _ := flags.GetBool("json")
			noContext, _ := flags.GetBool("no-context")

			tf, err := model.ParseTimeframe(tfRaw)
			if err != nil {
				return err
			}
			st, err := model.ParseSignalType(stRaw)
			if err != nil {
				return err
			}
			rt, err := model.ParseRiskTolerance(rtRaw)
			if err != nil {
				return err
			}

			req := model.Request{Symbol: args[0], Timeframe: tf, SignalType: st, RiskTolerance: rt}
			ctx := logger.WithTraceID(context.Background(), logger.GenerateTraceID(args[0], time.Now()))

			p := buildPipeline(ctx, cfg(), wireOptions{withContext: !noContext})
			defer p.Close()

			sig, err := p.analyzer.Analyze(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sig)
			}
			fmt.Fprintln(out, renderSignal(sig))
			return nil
		},
	}

	cmd.Flags().String("timeframe", string(model.DefaultTimeframe), "Candle timeframe (15m, 1h, 4h, 1d)")
	cmd.Flags().String("type", string(model.DefaultSignalType), "Signal horizon (scalp, swing, position)")
	cmd.Flags().String("risk", string(model.DefaultRiskTolerance), "Risk tolerance (conservative, moderate, aggressive)")
	cmd.Flags().Bool("json", false, "Print the signal as JSON")
	cmd.Flags().Bool("no-context", false, "Skip futures and sentiment context")

	return cmd
}
