package main

import (
	"os"

	"StockPulse/cmd/app/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
