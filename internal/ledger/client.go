package ledger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/forekast/questionfeed/pkg/types"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Client is the HTTP client for the markets backend (the trade ledger).
// It is pure transport: stateless, no caching, no implicit retry. Retry
// and batching policy belong to the fetch scheduler.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds ledger client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a new markets backend client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: cfg.Logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	var reader io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		RequestsTotal.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	RequestsTotal.WithLabelValues(method, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &types.APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if respBody == nil {
		return nil
	}

	err = json.Unmarshal(body, respBody)
	if err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// CreateUser creates a new backend user.
func (c *Client) CreateUser(ctx context.Context) (*types.User, error) {
	var user types.User
	err := c.do(ctx, http.MethodPost, "/users", nil, &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUser fetches a user by id.
func (c *Client) GetUser(ctx context.Context, userID string) (*types.User, error) {
	var user types.User
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// ListMarkets fetches all markets. An optional userID scopes the list to
// markets relevant to that user; empty means all markets.
func (c *Client) ListMarkets(ctx context.Context, userID string) (*types.MarketList, error) {
	path := "/markets"
	if userID != "" {
		path = "/markets?userId=" + url.QueryEscape(userID)
	}

	var list types.MarketList
	err := c.do(ctx, http.MethodGet, path, nil, &list)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetched-markets", zap.Int("count", len(list.Markets)))

	return &list, nil
}

// GetMarket fetches a single market by id.
func (c *Client) GetMarket(ctx context.Context, marketID string) (*types.Market, error) {
	var market types.Market
	err := c.do(ctx, http.MethodGet, "/markets/"+url.PathEscape(marketID), nil, &market)
	if err != nil {
		return nil, err
	}

	return &market, nil
}

// CreateMarket creates a new market on the backend.
func (c *Client) CreateMarket(ctx context.Context, info types.MarketCreateInfo) (*types.Market, error) {
	var market types.Market
	err := c.do(ctx, http.MethodPost, "/markets/", info, &market)
	if err != nil {
		return nil, err
	}

	c.logger.Info("market-created",
		zap.String("market-id", market.ID),
		zap.String("name", market.Name))

	return &market, nil
}

// GetTrades fetches the trade history and current midpoint for a market.
// Trades are not guaranteed to arrive in chronological order.
func (c *Client) GetTrades(ctx context.Context, marketID string) (*types.MarketTrades, error) {
	var trades types.MarketTrades
	err := c.do(ctx, http.MethodGet, "/markets/"+url.PathEscape(marketID)+"/trades", nil, &trades)
	if err != nil {
		return nil, err
	}

	return &trades, nil
}

// GetUserTrades fetches trades across all markets for a user. Each trade
// carries its market_id.
func (c *Client) GetUserTrades(ctx context.Context, userID string) (*types.UserTrades, error) {
	var trades types.UserTrades
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/trades", nil, &trades)
	if err != nil {
		return nil, err
	}

	return &trades, nil
}

// SubmitOrder places an order on a market. A successful submission is
// the only write this layer performs against the ledger; callers are
// expected to bump the reload bus afterwards.
func (c *Client) SubmitOrder(ctx context.Context, marketID string, info types.OrderCreateInfo) (*types.Order, error) {
	var order types.Order
	err := c.do(ctx, http.MethodPost, "/markets/"+url.PathEscape(marketID)+"/order", info, &order)
	if err != nil {
		return nil, err
	}

	c.logger.Info("order-submitted",
		zap.String("market-id", marketID),
		zap.String("order-id", order.ID),
		zap.String("side", string(info.Side)),
		zap.Float64("price", info.Price),
		zap.Float64("quantity", info.Quantity))

	return &order, nil
}

// CancelOrder cancels a resting order. Returns nil when the backend
// reports the order as already gone.
func (c *Client) CancelOrder(ctx context.Context, marketID, orderID string) (*types.Order, error) {
	var order *types.Order
	path := "/markets/" + url.PathEscape(marketID) + "/order/" + url.PathEscape(orderID)
	err := c.do(ctx, http.MethodDelete, path, nil, &order)
	if err != nil {
		return nil, err
	}

	return order, nil
}

// GetClob fetches the current order book (bids, asks, midpoint) for a market.
func (c *Client) GetClob(ctx context.Context, marketID string) (*types.Clob, error) {
	var clob types.Clob
	err := c.do(ctx, http.MethodGet, "/markets/"+url.PathEscape(marketID)+"/clob", nil, &clob)
	if err != nil {
		return nil, err
	}

	return &clob, nil
}
