package types

import "time"

// DataPoint is a UI-facing projection of one trade, with price
// reinterpreted as a 0-100 probability. Recomputed on every fetch of a
// market's trade history; never persisted.
type DataPoint struct {
	Date        time.Time `json:"date"`
	Probability float64   `json:"probability"`
}

// Question is the view-model unit consumed by the rendering surface.
// ID corresponds 1:1 to a Market ID once the question is materialized
// into a tradable market.
//
// Probability is nil until at least one trade exists; consumers apply
// their own fallback for display. Data is chronologically
// non-decreasing by Date.
type Question struct {
	ID               string      `json:"id"`
	Text             string      `json:"question"`
	Probability      *float64    `json:"probability"`
	Data             []DataPoint `json:"data"`
	Articles         []Article   `json:"articles"`
	TotalPredictions int         `json:"totalPredictions,omitempty"`
	Category         string      `json:"category,omitempty"`
	IsFollowing      bool        `json:"isFollowing,omitempty"`
	IsUserQuestion   bool        `json:"isUserQuestion,omitempty"`
}

// HasTrades reports whether the question has any projected trade data.
func (q *Question) HasTrades() bool {
	return len(q.Data) > 0
}

// Clone returns a deep copy of the question. The store hands out clones
// so callers can never mutate the backing collection directly.
func (q *Question) Clone() *Question {
	c := *q
	if q.Probability != nil {
		p := *q.Probability
		c.Probability = &p
	}
	if q.Data != nil {
		c.Data = make([]DataPoint, len(q.Data))
		copy(c.Data, q.Data)
	}
	if q.Articles != nil {
		c.Articles = make([]Article, len(q.Articles))
		copy(c.Articles, q.Articles)
	}
	return &c
}
