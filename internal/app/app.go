package app

import (
	"context"
	"sync"

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
	"go.uber.org/zap"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	tradeCache    cache.Cache
	ledgerClient  *ledger.Client
	cachedTrades  *ledger.CachedTradeReader
	newsClient    *news.Client
	bus           *reload.Bus
	scheduler     *scheduler.Scheduler
	store         *store.Store
	syncer        *syncer.Syncer
	windowAdapter *window.Adapter
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Window returns the windowed list adapter for the current session.
func (a *App) Window() *window.Adapter {
	return a.windowAdapter
}

// Store returns the question store for the current session.
func (a *App) Store() *store.Store {
	return a.store
}
