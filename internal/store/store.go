// Package store holds the in-memory question view-models for the
// lifetime of a session. It is the only mutable shared resource in the
// sync layer: all mutation goes through its named operations, and no
// other component may reorder its backing collection.
//
// The collection is an ordered map: questions keyed by id plus a
// separate insertion-order list, so "merge preserves position" is a
// data-structure invariant rather than index arithmetic.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/forekast/questionfeed/pkg/types"
	"go.uber.org/zap"
)

// Ledger is the slice of the markets backend the store needs for its
// write operations.
type Ledger interface {
	ListMarkets(ctx context.Context, userID string) (*types.MarketList, error)
	GetMarket(ctx context.Context, marketID string) (*types.Market, error)
	CreateMarket(ctx context.Context, info types.MarketCreateInfo) (*types.Market, error)
	SubmitOrder(ctx context.Context, marketID string, info types.OrderCreateInfo) (*types.Order, error)
}

// Hydrator upgrades questions with fresh trade history.
type Hydrator interface {
	Materialize(ctx context.Context, markets []types.Market) []*types.Question
	Hydrate(ctx context.Context, q *types.Question) error
}

// Bumper is the reload signal raised after a successful write.
type Bumper interface {
	Bump()
}

// Store is the per-session question collection. Authored and followed
// are views over the same entities, implemented as boolean metadata on
// the question, never as copies.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]*types.Question
	order []string

	ledger   Ledger
	hydrator Hydrator
	bus      Bumper
	userID   string
	logger   *zap.Logger
}

// Config holds store dependencies.
type Config struct {
	Ledger   Ledger
	Hydrator Hydrator
	Bus      Bumper
	UserID   string
	Logger   *zap.Logger
}

// New creates an empty question store.
func New(cfg *Config) *Store {
	return &Store{
		byID:     make(map[string]*types.Question),
		ledger:   cfg.Ledger,
		hydrator: cfg.Hydrator,
		bus:      cfg.Bus,
		userID:   cfg.UserID,
		logger:   cfg.Logger,
	}
}

// Replace swaps in a freshly materialized question list, preserving the
// follow and authorship flags of entries that survive the rebuild. Used
// by the sync cycle; user state must not be lost to a refetch.
func (s *Store) Replace(questions []*types.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]*types.Question, len(questions))
	order := make([]string, 0, len(questions))

	for _, q := range questions {
		if _, dup := byID[q.ID]; dup {
			s.logger.Warn("duplicate-question-dropped", zap.String("question-id", q.ID))
			continue
		}

		if prev, ok := s.byID[q.ID]; ok {
			q.IsFollowing = prev.IsFollowing
			q.IsUserQuestion = prev.IsUserQuestion
		}

		byID[q.ID] = q
		order = append(order, q.ID)
	}

	s.byID = byID
	s.order = order

	QuestionCount.Set(float64(len(order)))
}

// All returns every question in insertion order. Clones are returned so
// callers can never mutate the backing collection.
func (s *Store) All() []*types.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot(func(q *types.Question) bool { return true })
}

// Authored returns the questions created by the current user.
func (s *Store) Authored() []*types.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot(func(q *types.Question) bool { return q.IsUserQuestion })
}

// Followed returns the questions the user is following.
func (s *Store) Followed() []*types.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot(func(q *types.Question) bool { return q.IsFollowing })
}

// GetByCategory returns the questions in a category. Pure filter.
func (s *Store) GetByCategory(category string) []*types.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot(func(q *types.Question) bool { return q.Category == category })
}

// Get returns a clone of one question by id.
func (s *Store) Get(id string) (*types.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.byID[id]
	if !ok {
		return nil, false
	}

	return q.Clone(), true
}

// Len returns the number of questions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

// snapshot must be called with at least the read lock held.
func (s *Store) snapshot(keep func(*types.Question) bool) []*types.Question {
	result := make([]*types.Question, 0, len(s.order))
	for _, id := range s.order {
		q := s.byID[id]
		if keep(q) {
			result = append(result, q.Clone())
		}
	}

	return result
}

// SetQuestionData refetches the trade history for one question,
// re-projects it, and merges the result back at the question's existing
// position. Every other entry keeps its place: this is a merge, not a
// re-sort. An id the store has never seen is treated as a newly
// materialized market and appended.
func (s *Store) SetQuestionData(ctx context.Context, id string) (*types.Question, error) {
	existing, member := s.Get(id)

	var fresh *types.Question
	if member {
		fresh = existing
	} else {
		market, err := s.ledger.GetMarket(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetch market %s: %w", id, err)
		}

		fresh = &types.Question{
			ID:   market.ID,
			Text: market.Name,
			Data: []types.DataPoint{},
		}
	}

	err := s.hydrator.Hydrate(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("hydrate question %s: %w", id, err)
	}

	if !s.merge(fresh, member) {
		// A rebuild dropped the id while we were fetching; the next
		// cycle owns the collection, do not resurrect the entry.
		s.logger.Debug("merge-dropped-question", zap.String("question-id", id))
		return fresh.Clone(), nil
	}

	MergesTotal.Inc()

	return fresh.Clone(), nil
}

// merge installs a hydrated question at its existing position, or
// appends it when the id has never been a member. wasMember guards the
// fetch window: a question that was a member when the fetch started but
// has since been dropped by a rebuild must not be re-appended. Follow
// and authorship flags always come from the current member, never the
// fetched copy.
func (s *Store) merge(q *types.Question, wasMember bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, present := s.byID[q.ID]
	if !present && wasMember {
		return false
	}

	if present {
		q.IsFollowing = cur.IsFollowing
		q.IsUserQuestion = cur.IsUserQuestion
	} else {
		s.order = append(s.order, q.ID)
	}

	s.byID[q.ID] = q
	QuestionCount.Set(float64(len(s.order)))

	return true
}

// ToggleFollow flips the follow flag on a question. Toggling an unknown
// id is a logged no-op.
func (s *Store) ToggleFollow(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.byID[id]
	if !ok {
		s.logger.Warn("toggle-follow-unknown-question", zap.String("question-id", id))
		return
	}

	q.IsFollowing = !q.IsFollowing
	FollowTogglesTotal.Inc()
}

// AddQuestion creates a market for a new question, seeds its midpoint
// with a single order at the requested probability, and re-runs the
// materialization pipeline so the list reflects the new entry. The new
// question is flagged as authored by the current user.
func (s *Store) AddQuestion(ctx context.Context, text string, initialProbability float64) (*types.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &types.ValidationError{Field: "question", Reason: "text cannot be empty"}
	}

	if initialProbability < 0 || initialProbability > 100 {
		return nil, &types.ValidationError{
			Field:  "initialProbability",
			Reason: fmt.Sprintf("must be in [0,100], got %g", initialProbability),
		}
	}

	market, err := s.ledger.CreateMarket(ctx, types.MarketCreateInfo{
		Name:        text,
		Description: "Created via UI",
	})
	if err != nil {
		return nil, fmt.Errorf("create market: %w", err)
	}

	// Seed order sets the initial midpoint and provides initial liquidity.
	_, err = s.ledger.SubmitOrder(ctx, market.ID, types.OrderCreateInfo{
		UserID:   s.userID,
		Side:     types.SideBid,
		Price:    initialProbability,
		Quantity: 100,
	})
	if err != nil {
		return nil, fmt.Errorf("seed order: %w", err)
	}

	err = s.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh after add: %w", err)
	}

	s.mu.Lock()
	if q, ok := s.byID[market.ID]; ok {
		q.IsUserQuestion = true
	}
	s.mu.Unlock()

	QuestionsAddedTotal.Inc()

	if s.bus != nil {
		s.bus.Bump()
	}

	s.logger.Info("question-added",
		zap.String("market-id", market.ID),
		zap.Float64("initial-probability", initialProbability))

	q, ok := s.Get(market.ID)
	if !ok {
		// Backend accepted the market but did not list it back yet.
		return nil, fmt.Errorf("market %s missing after refresh", market.ID)
	}

	return q, nil
}

// Refresh re-runs the full market-to-question materialization pipeline
// and replaces the collection, carrying user flags over.
func (s *Store) Refresh(ctx context.Context) error {
	list, err := s.ledger.ListMarkets(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("list markets: %w", err)
	}

	questions := s.hydrator.Materialize(ctx, list.Markets)
	s.Replace(questions)

	return nil
}
