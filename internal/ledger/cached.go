package ledger

import (
	"context"
	"time"

	"github.com/forekast/questionfeed/pkg/cache"
	"github.com/forekast/questionfeed/pkg/types"
)

// TradeReader is the read side of the ledger used by the fetch pipeline.
type TradeReader interface {
	GetTrades(ctx context.Context, marketID string) (*types.MarketTrades, error)
}

// CachedTradeReader wraps a TradeReader with a short-TTL response cache.
// It exists so that a hydration triggered by scrolling does not refetch a
// history that the eager batch loaded moments earlier. The cache is
// cleared wholesale on revalidation, so staleness is bounded by both the
// TTL and the reload token.
type CachedTradeReader struct {
	client TradeReader
	cache  cache.Cache
	ttl    time.Duration
}

// NewCachedTradeReader creates a caching wrapper around a TradeReader.
func NewCachedTradeReader(client TradeReader, c cache.Cache, ttl time.Duration) *CachedTradeReader {
	return &CachedTradeReader{
		client: client,
		cache:  c,
		ttl:    ttl,
	}
}

// GetTrades returns the trade history for a market, from cache when fresh.
func (c *CachedTradeReader) GetTrades(ctx context.Context, marketID string) (*types.MarketTrades, error) {
	key := "trades:" + marketID

	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			if trades, ok := cached.(*types.MarketTrades); ok {
				TradeHistoryCacheHitsTotal.Inc()
				return trades, nil
			}
		}
		TradeHistoryCacheMissesTotal.Inc()
	}

	trades, err := c.client.GetTrades(ctx, marketID)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(key, trades, c.ttl)
	}

	return trades, nil
}

// InvalidateMarket drops the cached history for one market.
func (c *CachedTradeReader) InvalidateMarket(marketID string) {
	if c.cache == nil {
		return
	}

	c.cache.Delete("trades:" + marketID)
}

// Clear drops all cached histories. Called when the reload token bumps:
// every consumer is about to refetch, so nothing cached is trustworthy.
func (c *CachedTradeReader) Clear() {
	if c.cache == nil {
		return
	}

	c.cache.Clear()
}
