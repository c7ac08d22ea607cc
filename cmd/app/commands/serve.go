package commands

import (
	"log"

	"github.com/spf13/cobra"

	"StockPulse/internal/di"
)

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Load persisted models for the configured tickers, serve predictions,
backtests and recommendations over HTTP, and run the collection pipeline on
the configured interval. Blocks until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		app, err := di.InitializeApp(cfg)
		if err != nil {
			log.Fatalf("app initialization failed: %v", err)
		}
		if err := app.Run(); err != nil {
			log.Fatalf("app error: %v", err)
		}
	},
}
