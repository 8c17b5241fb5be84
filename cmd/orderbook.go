package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/forekast/questionfeed/internal/ledger"
	"github.com/forekast/questionfeed/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var orderbookCmd = &cobra.Command{
	Use:   "orderbook <market-id>",
	Short: "Show the order book for a market",
	Long:  `Fetches and displays the central limit order book for one market.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runOrderbook,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(orderbookCmd)
}

func runOrderbook(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Load .env
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found\n")
	}

	// Load config
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Create logger
	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	marketID := args[0]

	client := ledger.NewClient(&ledger.Config{
		BaseURL: cfg.MarketsAPIURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})

	clob, err := client.GetClob(ctx, marketID)
	if err != nil {
		return fmt.Errorf("get clob: %w", err)
	}

	if clob.Midpoint != nil {
		fmt.Printf("Market %s, midpoint %.2f\n\n", marketID, *clob.Midpoint)
	} else {
		fmt.Printf("Market %s, no midpoint\n\n", marketID)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SIDE\tPRICE\tQTY\n")
	fmt.Fprintf(w, "----\t-----\t---\n")

	for _, level := range clob.Bids {
		fmt.Fprintf(w, "bid\t%.2f\t%.2f\n", level.Price, level.Quantity)
	}
	for _, level := range clob.Asks {
		fmt.Fprintf(w, "ask\t%.2f\t%.2f\n", level.Price, level.Quantity)
	}

	w.Flush()

	return nil
}
