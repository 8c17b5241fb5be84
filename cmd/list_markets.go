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
var listMarketsCmd = &cobra.Command{
	Use:   "list-markets",
	Short: "List markets from the markets backend",
	Long:  `Fetches and displays markets from the markets backend for debugging purposes.`,
	RunE:  runListMarkets,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(listMarketsCmd)
	listMarketsCmd.Flags().StringP("user", "u", "", "Scope the list to a user's visible markets")
}

func runListMarkets(cmd *cobra.Command, args []string) error {
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

	client := ledger.NewClient(&ledger.Config{
		BaseURL: cfg.MarketsAPIURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})

	list, err := client.ListMarkets(ctx, userID)
	if err != nil {
		return fmt.Errorf("list markets: %w", err)
	}

	if len(list.Markets) == 0 {
		fmt.Println("No markets found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tCREATED\n")
	fmt.Fprintf(w, "--\t----\t-------\n")

	for i := range list.Markets {
		market := &list.Markets[i]

		name := market.Name
		if len(name) > 60 {
			name = name[:57] + "..."
		}

		fmt.Fprintf(w, "%s\t%s\t%s\n", market.ID, name, market.CreatedAt.Format(time.RFC3339))
	}

	w.Flush()

	fmt.Printf("\nTotal: %d markets\n", len(list.Markets))

	return nil
}
