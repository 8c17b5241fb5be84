package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/forekast/questionfeed/internal/ledger"
	"github.com/forekast/questionfeed/internal/reload"
	"github.com/forekast/questionfeed/internal/scheduler"
	"github.com/forekast/questionfeed/internal/store"
	"github.com/forekast/questionfeed/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var addQuestionCmd = &cobra.Command{
	Use:   "add-question <text>",
	Short: "Create a question with a seed prediction",
	Long: `Creates a market for the question on the markets backend and places
the seed bid that anchors its initial probability.`,
	Args: cobra.ExactArgs(1),
	RunE: runAddQuestion,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(addQuestionCmd)
	addQuestionCmd.Flags().Float64P("probability", "p", 50, "Initial probability in percent (0-100)")
}

func runAddQuestion(cmd *cobra.Command, args []string) error {
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

	probability, _ := cmd.Flags().GetFloat64("probability")

	client := ledger.NewClient(&ledger.Config{
		BaseURL: cfg.MarketsAPIURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})

	// The store owns the create-and-seed sequence; build a one-shot
	// instance around the client so the CLI shares it with the daemon.
	questionStore := store.New(&store.Config{
		Ledger: client,
		Hydrator: scheduler.New(&scheduler.Config{
			Trades:      client,
			EagerLimit:  0,
			Concurrency: 1,
			Logger:      logger,
		}),
		Bus:    reload.NewBus(logger),
		UserID: cfg.UserID,
		Logger: logger,
	})

	question, err := questionStore.AddQuestion(ctx, args[0], probability)
	if err != nil {
		return fmt.Errorf("add question: %w", err)
	}

	fmt.Printf("Created question %s (%q) at %.1f%%\n", question.ID, question.Text, probability)

	return nil
}
