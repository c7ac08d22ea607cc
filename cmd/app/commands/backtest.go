package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	backtestCash       float64
	backtestCommission float64
)

var backtestCMD = &cobra.Command{
	Use:   "backtest <ticker>",
	Short: "Replay a ticker's history through its trained model",
	Long: `Simulate day-by-day trading of the model's signals over the ticker's
full stored history and print the resulting performance report.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := container()
		defer c.Close()

		cash := backtestCash
		if cash == 0 {
			cash = c.Cfg.Backtest.InitialCash
		}
		commission := backtestCommission
		if commission < 0 {
			commission = c.Cfg.Backtest.Commission
		}

		report, err := c.Backtester.Run(context.Background(), args[0], cash, commission)
		if err != nil {
			log.Fatalf("backtest failed: %v", err)
		}
		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(out))
	},
}

func init() {
	backtestCMD.Flags().Float64Var(&backtestCash, "cash", 0, "initial cash (default: config)")
	backtestCMD.Flags().Float64Var(&backtestCommission, "commission", -1, "commission rate per side (default: config)")
}
