package app

import (
	"context"
	"fmt"

	"github.com/forekast/questionfeed/internal/ledger"
	"github.com/forekast/questionfeed/internal/news"
	"github.com/forekast/questionfeed/internal/reload"
	"github.com/forekast/questionfeed/internal/scheduler"
	"github.com/forekast/questionfeed/internal/store"
	"github.com/forekast/questionfeed/internal/syncer"
	"github.com/forekast/questionfeed/internal/window"
	"github.com/forekast/questionfeed/pkg/cache"
	"github.com/forekast/questionfeed/pkg/config"
	"github.com/forekast/questionfeed/pkg/healthprobe"
	"github.com/forekast/questionfeed/pkg/httpserver"
	"github.com/forekast/questionfeed/pkg/types"
	"go.uber.org/zap"
)

// syncCommitter fans a committed batch out to the store and the
// windowed list adapter, so both surfaces observe the same cycle.
type syncCommitter struct {
	store   *store.Store
	adapter *window.Adapter
}

func (c *syncCommitter) Replace(questions []*types.Question) {
	c.store.Replace(questions)
	c.adapter.SetItems(c.store.All())
}

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := setupHealthChecker()

	tradeCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	ledgerClient := setupLedgerClient(cfg, logger)
	cachedTrades := ledger.NewCachedTradeReader(ledgerClient, tradeCache, cfg.TradesCacheTTL)
	newsClient := setupNewsClient(cfg, logger)

	bus := reload.NewBus(logger)
	fetchScheduler := setupScheduler(cfg, logger, cachedTrades)
	questionStore := setupStore(cfg, logger, ledgerClient, fetchScheduler, bus)
	windowAdapter := setupWindowAdapter(logger, questionStore)
	committer := &syncCommitter{store: questionStore, adapter: windowAdapter}
	feedSyncer := setupSyncer(cfg, logger, ledgerClient, fetchScheduler, committer, newsClient, cachedTrades, bus)

	httpServer := setupHTTPServer(cfg, logger, healthChecker, questionStore, feedSyncer)

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		tradeCache:    tradeCache,
		ledgerClient:  ledgerClient,
		cachedTrades:  cachedTrades,
		newsClient:    newsClient,
		bus:           bus,
		scheduler:     fetchScheduler,
		store:         questionStore,
		syncer:        feedSyncer,
		windowAdapter: windowAdapter,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupHealthChecker() *healthprobe.HealthChecker {
	return healthprobe.New()
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10000, // 10x expected max items (1000 markets)
		MaxCost:     1000,  // Maximum 1000 items in cache
		BufferItems: 64,    // Buffer size for Get operations
		Logger:      logger,
	})
}

func setupLedgerClient(cfg *config.Config, logger *zap.Logger) *ledger.Client {
	return ledger.NewClient(&ledger.Config{
		BaseURL: cfg.MarketsAPIURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})
}

func setupNewsClient(cfg *config.Config, logger *zap.Logger) *news.Client {
	return news.NewClient(&news.Config{
		BaseURL: cfg.NewsAPIURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})
}

func setupScheduler(cfg *config.Config, logger *zap.Logger, trades ledger.TradeReader) *scheduler.Scheduler {
	return scheduler.New(&scheduler.Config{
		Trades:      trades,
		EagerLimit:  cfg.EagerFetchLimit,
		Concurrency: cfg.FetchConcurrency,
		Logger:      logger,
	})
}

func setupStore(
	cfg *config.Config,
	logger *zap.Logger,
	ledgerClient *ledger.Client,
	fetchScheduler *scheduler.Scheduler,
	bus *reload.Bus,
) *store.Store {
	return store.New(&store.Config{
		Ledger:   ledgerClient,
		Hydrator: fetchScheduler,
		Bus:      bus,
		UserID:   cfg.UserID,
		Logger:   logger,
	})
}

func setupSyncer(
	cfg *config.Config,
	logger *zap.Logger,
	ledgerClient *ledger.Client,
	fetchScheduler *scheduler.Scheduler,
	committer syncer.Committer,
	newsClient *news.Client,
	cachedTrades *ledger.CachedTradeReader,
	bus *reload.Bus,
) *syncer.Syncer {
	return syncer.New(&syncer.Config{
		Markets:      ledgerClient,
		Orders:       ledgerClient,
		Materializer: fetchScheduler,
		Committer:    committer,
		Articles:     newsClient,
		Cache:        cachedTrades,
		Bus:          bus,
		UserID:       cfg.UserID,
		PollInterval: cfg.SyncPollInterval,
		Logger:       logger,
	})
}

func setupWindowAdapter(logger *zap.Logger, questionStore *store.Store) *window.Adapter {
	return window.New(&window.Config{
		Requester: questionStore,
		Logger:    logger,
	})
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	questionStore *store.Store,
	feedSyncer *syncer.Syncer,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Questions:     questionStore,
		Status:        feedSyncer,
	})
}
