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
var userTradesCmd = &cobra.Command{
	Use:   "user-trades",
	Short: "List a user's trades across all markets",
	Long:  `Fetches and displays every trade recorded for a user, most recent last.`,
	RunE:  runUserTrades,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(userTradesCmd)
	userTradesCmd.Flags().StringP("user", "u", "", "User id (defaults to the configured session user)")
}

func runUserTrades(cmd *cobra.Command, args []string) error {
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

	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		userID = cfg.UserID
	}
	if userID == "" {
		return fmt.Errorf("no user id: pass --user or set USER_ID")
	}

	client := ledger.NewClient(&ledger.Config{
		BaseURL: cfg.MarketsAPIURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})

	trades, err := client.GetUserTrades(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user trades: %w", err)
	}

	if len(trades.Trades) == 0 {
		fmt.Printf("No trades for user %s.\n", userID)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "MARKET\tSIDE\tPRICE\tQTY\tTIME\n")
	fmt.Fprintf(w, "------\t----\t-----\t---\t----\n")

	for _, trade := range trades.Trades {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%s\n",
			trade.MarketID, trade.Side, trade.Price, trade.Quantity,
			trade.Time.Format(time.RFC3339))
	}

	w.Flush()

	fmt.Printf("\nTotal: %d trades\n", len(trades.Trades))

	return nil
}
