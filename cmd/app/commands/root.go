package commands

import (
	"log"

	"github.com/spf13/cobra"

	"StockPulse/internal/di"
	"StockPulse/pkg/config"
)

var configPath string

var rootCMD = &cobra.Command{
	Use:   "stockpulse",
	Short: "Equity signal prediction pipeline",
	Long: `StockPulse collects daily prices and news, derives technical and
sentiment features, trains a per-ticker BUY/HOLD/SELL classifier, and serves
live predictions and backtests over HTTP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCMD.Execute()
}

func init() {
	rootCMD.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "config file path")
	rootCMD.AddCommand(serveCMD)
	rootCMD.AddCommand(pipelineCMD)
	rootCMD.AddCommand(trainCMD)
	rootCMD.AddCommand(predictCMD)
	rootCMD.AddCommand(backtestCMD)
}

func loadConfig() *config.Config {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	return cfg
}

func container() *di.Container {
	c, err := di.InitializeContainer(loadConfig())
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}
	return c
}
