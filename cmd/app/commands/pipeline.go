package commands

import (
	"context"

	"github.com/spf13/cobra"

	applogger "StockPulse/pkg/logger"
)

var pipelineCMD = &cobra.Command{
	Use:   "pipeline [ticker...]",
	Short: "Run the full collection and training pipeline once",
	Long: `Collect prices and news, score sentiment, and retrain models for the
given tickers (default: the configured universe). Each ticker is processed
independently; one failure never aborts the batch.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := container()
		defer c.Close()

		tickers := c.Cfg.Pipeline.Tickers
		if len(args) > 0 {
			tickers = args
		}
		c.Logger.Info("pipeline run", applogger.Strings("tickers", tickers))
		c.Pipeline.Run(context.Background(), tickers)
	},
}
