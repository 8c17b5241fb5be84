package types

import "time"

// OrderSide is the side of an order or trade.
type OrderSide string

const (
	SideBid OrderSide = "bid"
	SideAsk OrderSide = "ask"
)

// Trade is an immutable, timestamped execution record. Trades are the
// append-only source of truth for a market's probability history.
// The transport does not guarantee chronological order.
type Trade struct {
	MarketID string    `json:"market_id"`
	Side     OrderSide `json:"side"`
	Time     time.Time `json:"time"`
	Price    float64   `json:"price"`
	Quantity float64   `json:"quantity"`
}

// MarketTrades represents the response from GET /markets/{id}/trades.
// Midpoint is nil when the order book has no defined mid-price.
type MarketTrades struct {
	MarketID string   `json:"market_id"`
	Midpoint *float64 `json:"midpoint"`
	Trades   []Trade  `json:"trades"`
}

// UserTrades represents the response from GET /users/{id}/trades.
// Each trade carries its market_id.
type UserTrades struct {
	UserID string  `json:"user_id"`
	Trades []Trade `json:"trades"`
}

// OrderCreateInfo is the request body for placing an order.
type OrderCreateInfo struct {
	UserID   string    `json:"user_id"`
	Side     OrderSide `json:"side"`
	Price    float64   `json:"price"`
	Quantity float64   `json:"quantity"`
}

// Order represents a resting or executed order as returned by the backend.
type Order struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
	Side      OrderSide `json:"side"`
	Price     float64   `json:"price"`
	Quantity  float64   `json:"quantity"`
}

// ClobLevel is one price level of the order book.
type ClobLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// Clob represents the response from GET /markets/{id}/clob.
type Clob struct {
	Midpoint *float64    `json:"midpoint"`
	Bids     []ClobLevel `json:"bids"`
	Asks     []ClobLevel `json:"asks"`
}
