// Package scheduler decides how much network work materializing a batch
// of markets is allowed to do. The first EagerLimit markets get their
// trade history fetched immediately and in parallel; the rest are
// materialized empty and upgraded on demand (selection, trade
// completion, or scrolling into view). This bounds concurrent calls by
// the initially visible content, not the total market count.
package scheduler

import (
	"context"
	"sync"

	"github.com/forekast/questionfeed/internal/ledger"
	"github.com/forekast/questionfeed/internal/series"
	"github.com/forekast/questionfeed/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Scheduler materializes markets into question view-models.
type Scheduler struct {
	trades      ledger.TradeReader
	eagerLimit  int
	concurrency int64
	logger      *zap.Logger
}

// Config holds scheduler configuration.
type Config struct {
	Trades      ledger.TradeReader
	EagerLimit  int // number of questions hydrated eagerly per batch
	Concurrency int // parallel trade-history fetches
	Logger      *zap.Logger
}

// New creates a new fetch scheduler.
func New(cfg *Config) *Scheduler {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Scheduler{
		trades:      cfg.Trades,
		eagerLimit:  cfg.EagerLimit,
		concurrency: int64(concurrency),
		logger:      cfg.Logger,
	}
}

// Materialize converts a batch of markets into questions. The eager
// prefix is hydrated in parallel, each market inside an independent
// failure boundary: one market's fetch failing never affects its
// neighbors, the failed entry is kept with empty data and a nil
// probability so the list length is stable for the UI.
func (s *Scheduler) Materialize(ctx context.Context, markets []types.Market) []*types.Question {
	questions := make([]*types.Question, len(markets))
	for i, m := range markets {
		questions[i] = &types.Question{
			ID:   m.ID,
			Text: m.Name,
			Data: []types.DataPoint{},
		}
	}

	eager := s.eagerLimit
	if eager > len(questions) {
		eager = len(questions)
	}

	sem := semaphore.NewWeighted(s.concurrency)
	var wg sync.WaitGroup

	for i := 0; i < eager; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context gone; remaining entries stay unhydrated.
			break
		}

		wg.Add(1)
		go func(q *types.Question) {
			defer wg.Done()
			defer sem.Release(1)

			EagerFetchesTotal.Inc()

			err := s.Hydrate(ctx, q)
			if err != nil {
				s.logger.Warn("eager-fetch-failed",
					zap.String("market-id", q.ID),
					zap.Error(err))
			}
		}(questions[i])
	}

	wg.Wait()

	s.logger.Debug("batch-materialized",
		zap.Int("markets", len(markets)),
		zap.Int("eager", eager))

	return questions
}

// Hydrate fetches and projects the trade history for one question,
// updating it in place. On failure the question is left untouched, so a
// previously hydrated question stays stale-but-present rather than
// entering an error state.
func (s *Scheduler) Hydrate(ctx context.Context, q *types.Question) error {
	history, err := s.trades.GetTrades(ctx, q.ID)
	if err != nil {
		FetchFailuresTotal.Inc()
		return err
	}

	proj := series.Project(history.Trades, history.Midpoint)

	q.Data = proj.Data
	q.Probability = proj.Probability
	q.TotalPredictions = len(proj.Data)

	return nil
}
