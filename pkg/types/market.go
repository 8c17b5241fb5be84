package types

import "time"

// Market represents a tradable venue on the markets backend.
// A market is immutable once created except through new trades.
type Market struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// MarketCreateInfo is the request body for creating a market.
type MarketCreateInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MarketList represents the response from GET /markets.
type MarketList struct {
	Markets []Market `json:"markets"`
}

// User represents a backend user. Only the identifier is meaningful
// to this layer; there is no auth.
type User struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
