package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "questionfeed",
	Short: "Prediction-market question feed",
	Long: `Question feed daemon that keeps an in-memory view of a prediction
market backend: it materializes markets into questions with probability
history, keeps them fresh through reload-driven sync cycles, and serves
the result over HTTP.

Subcommands talk to the markets backend directly for inspection and
one-off writes.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
