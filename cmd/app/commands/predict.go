package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var predictCMD = &cobra.Command{
	Use:   "predict <ticker>",
	Short: "Print the current signal for a ticker",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := container()
		defer c.Close()

		pred, err := c.Predictor.Predict(context.Background(), args[0])
		if err != nil {
			log.Fatalf("predict failed: %v", err)
		}
		out, _ := json.MarshalIndent(pred, "", "  ")
		fmt.Println(string(out))
	},
}
