package commands

import (
	"context"

	"github.com/spf13/cobra"

	"StockPulse/internal/usecase"
	applogger "StockPulse/pkg/logger"
)

var trainCMD = &cobra.Command{
	Use:   "train [ticker...]",
	Short: "Retrain models from already collected data",
	Long: `Rebuild the labeled dataset from stored bars and articles and retrain
the classifier for the given tickers (default: the configured universe),
without fetching anything from upstream sources.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := container()
		defer c.Close()

		tickers := c.Cfg.Pipeline.Tickers
		if len(args) > 0 {
			tickers = args
		}
		ctx := context.Background()
		for _, ticker := range tickers {
			if err := c.Trainer.Train(ctx, ticker); err != nil {
				if usecase.IsSkip(err) {
					c.Logger.Info("training skipped",
						applogger.String("ticker", ticker),
						applogger.String("reason", err.Error()),
					)
					continue
				}
				c.Logger.Error("training failed",
					applogger.String("ticker", ticker),
					applogger.Error(err),
				)
			}
		}
	},
}
