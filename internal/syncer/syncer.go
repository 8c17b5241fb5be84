// Package syncer owns the fetch cycles that keep the question store
// consistent with the trade ledger. Each cycle is an async task keyed
// by (userID, reload token) and carries a generation id: when a reload
// bump supersedes a cycle that is still in flight, the older cycle's
// results are detected at commit time and discarded, so a slow stale
// response can never overwrite fresher state.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/forekast/questionfeed/internal/reload"
	"github.com/forekast/questionfeed/pkg/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Markets is the read side of the ledger the syncer drives.
type Markets interface {
	ListMarkets(ctx context.Context, userID string) (*types.MarketList, error)
}

// Orders is the write side of the ledger the syncer drives.
type Orders interface {
	SubmitOrder(ctx context.Context, marketID string, info types.OrderCreateInfo) (*types.Order, error)
}

// Materializer turns markets into question view-models.
type Materializer interface {
	Materialize(ctx context.Context, markets []types.Market) []*types.Question
}

// Committer receives the result of a completed, still-current cycle.
type Committer interface {
	Replace(questions []*types.Question)
}

// ArticleFetcher provides the content attached to hydrated questions.
type ArticleFetcher interface {
	ArticlesForQuestion(ctx context.Context, questionID string) ([]types.Article, error)
}

// CacheClearer drops cached ledger responses before a refetch.
type CacheClearer interface {
	Clear()
}

// Syncer reconciles the store with the backend.
type Syncer struct {
	markets      Markets
	orders       Orders
	materializer Materializer
	committer    Committer
	articles     ArticleFetcher
	cache        CacheClearer
	bus          *reload.Bus
	userID       string
	pollInterval time.Duration
	logger       *zap.Logger

	mu         sync.Mutex
	generation int64
	loading    bool
	lastErr    error
	tasks      sync.WaitGroup

	commit    sync.Mutex
	committed int64 // newest generation that has reached the committer
}

// Config holds syncer dependencies.
type Config struct {
	Markets      Markets
	Orders       Orders
	Materializer Materializer
	Committer    Committer
	Articles     ArticleFetcher // optional
	Cache        CacheClearer   // optional
	Bus          *reload.Bus
	UserID       string
	PollInterval time.Duration // 0 disables background polling
	Logger       *zap.Logger
}

// New creates a new syncer.
func New(cfg *Config) *Syncer {
	return &Syncer{
		markets:      cfg.Markets,
		orders:       cfg.Orders,
		materializer: cfg.Materializer,
		committer:    cfg.Committer,
		articles:     cfg.Articles,
		cache:        cfg.Cache,
		bus:          cfg.Bus,
		userID:       cfg.UserID,
		pollInterval: cfg.PollInterval,
		logger:       cfg.Logger,
	}
}

// Run subscribes to the reload bus and keeps the store reconciled until
// the context is cancelled. Blocking; run in its own goroutine.
func (s *Syncer) Run(ctx context.Context) error {
	notifications, unsubscribe := s.bus.Subscribe()
	defer unsubscribe()

	var tick <-chan time.Time
	if s.pollInterval > 0 {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	s.Trigger(ctx)

	for {
		select {
		case <-ctx.Done():
			s.tasks.Wait()
			return ctx.Err()

		case token := <-notifications:
			s.logger.Debug("reload-notification", zap.Int64("token", token))
			if s.cache != nil {
				s.cache.Clear()
			}
			s.Trigger(ctx)

		case <-tick:
			s.Trigger(ctx)
		}
	}
}

// Trigger starts a new sync cycle without waiting for it. A cycle
// already in flight keeps running but its result will be discarded at
// commit time, having been superseded by this one.
func (s *Syncer) Trigger(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	s.mu.Unlock()

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		s.sync(ctx, gen)
	}()
}

// Wait blocks until all in-flight cycles finish. Intended for tests and
// shutdown paths.
func (s *Syncer) Wait() {
	s.tasks.Wait()
}

func (s *Syncer) sync(ctx context.Context, gen int64) {
	taskID := uuid.NewString()
	token := s.bus.Token()
	start := time.Now()

	CyclesTotal.Inc()

	s.logger.Debug("sync-cycle-started",
		zap.String("task-id", taskID),
		zap.Int64("generation", gen),
		zap.Int64("token", token))

	list, err := s.markets.ListMarkets(ctx, s.userID)
	if err != nil {
		s.finish(gen, err)
		CycleFailuresTotal.Inc()
		s.logger.Error("sync-cycle-failed",
			zap.String("task-id", taskID),
			zap.Error(err))
		return
	}

	questions := s.materializer.Materialize(ctx, list.Markets)
	s.attachArticles(ctx, questions)

	// Commit rule: only the most recent generation may mutate the
	// store, and never after the owner has been torn down. The
	// freshness check and the commit share one critical section, so a
	// cycle that passes the check cannot be overtaken mid-commit and
	// then land its batch on top of a newer one.
	if ctx.Err() != nil {
		return
	}

	s.commit.Lock()
	if !s.current(gen) || gen <= s.committed {
		s.commit.Unlock()
		StaleDiscardsTotal.Inc()
		s.logger.Info("sync-cycle-superseded",
			zap.String("task-id", taskID),
			zap.Int64("generation", gen))
		return
	}

	s.committer.Replace(questions)
	s.committed = gen
	s.commit.Unlock()

	s.finish(gen, nil)

	CycleDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("sync-cycle-committed",
		zap.String("task-id", taskID),
		zap.Int64("generation", gen),
		zap.Int("questions", len(questions)),
		zap.Duration("elapsed", time.Since(start)))
}

// attachArticles fetches content for questions that already carry trade
// data (the eager prefix). Failures are isolated per question: the
// article list stays empty and the cycle continues.
func (s *Syncer) attachArticles(ctx context.Context, questions []*types.Question) {
	if s.articles == nil {
		return
	}

	for _, q := range questions {
		if !q.HasTrades() {
			continue
		}

		articles, err := s.articles.ArticlesForQuestion(ctx, q.ID)
		if err != nil {
			s.logger.Warn("article-fetch-failed",
				zap.String("question-id", q.ID),
				zap.Error(err))
			continue
		}

		q.Articles = articles
	}
}

func (s *Syncer) current(gen int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generation == gen
}

func (s *Syncer) finish(gen int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		return
	}

	s.loading = false
	if err != nil {
		// Previously loaded data stays visible; the error is surfaced
		// alongside it, stale-but-available over empty-but-correct.
		s.lastErr = err
	} else {
		s.lastErr = nil
	}
}

// Loading reports whether the latest cycle is still in flight.
func (s *Syncer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

// Err returns the error of the latest completed cycle, nil after a
// successful one.
func (s *Syncer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

// SubmitOrder places an order and, on success, invalidates cached trade
// history and bumps the reload bus so every consumer refetches. This is
// the write path of the layer.
func (s *Syncer) SubmitOrder(ctx context.Context, marketID string, info types.OrderCreateInfo) (*types.Order, error) {
	order, err := s.orders.SubmitOrder(ctx, marketID, info)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Clear()
	}

	s.bus.Bump()

	return order, nil
}
