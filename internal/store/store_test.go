package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/forekast/questionfeed/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeLedger records write calls and serves a static market list.
type fakeLedger struct {
	markets      []types.Market
	createCalls  int
	orderCalls   []types.OrderCreateInfo
	orderMarkets []string
	nextMarketID string
}

func (f *fakeLedger) ListMarkets(ctx context.Context, userID string) (*types.MarketList, error) {
	return &types.MarketList{Markets: f.markets}, nil
}

func (f *fakeLedger) GetMarket(ctx context.Context, marketID string) (*types.Market, error) {
	for _, m := range f.markets {
		if m.ID == marketID {
			return &m, nil
		}
	}
	return nil, &types.APIError{Method: "GET", Path: "/markets/" + marketID, StatusCode: 404}
}

func (f *fakeLedger) CreateMarket(ctx context.Context, info types.MarketCreateInfo) (*types.Market, error) {
	f.createCalls++
	market := types.Market{
		ID:          f.nextMarketID,
		Name:        info.Name,
		Description: info.Description,
		CreatedAt:   time.Now(),
	}
	f.markets = append(f.markets, market)

	return &market, nil
}

func (f *fakeLedger) SubmitOrder(ctx context.Context, marketID string, info types.OrderCreateInfo) (*types.Order, error) {
	f.orderCalls = append(f.orderCalls, info)
	f.orderMarkets = append(f.orderMarkets, marketID)

	return &types.Order{ID: "o1", UserID: info.UserID, Side: info.Side, Price: info.Price, Quantity: info.Quantity}, nil
}

// fakeHydrator materializes questions empty and hydrates them with a
// single data point at the seeded price. onHydrate, when set, runs at
// the start of each Hydrate so tests can interleave store mutations
// with an in-flight fetch.
type fakeHydrator struct {
	prices    map[string]float64
	onHydrate func(id string)
}

func (f *fakeHydrator) Materialize(ctx context.Context, markets []types.Market) []*types.Question {
	questions := make([]*types.Question, 0, len(markets))
	for _, m := range markets {
		q := &types.Question{ID: m.ID, Text: m.Name, Data: []types.DataPoint{}}
		_ = f.Hydrate(ctx, q)
		questions = append(questions, q)
	}
	return questions
}

func (f *fakeHydrator) Hydrate(ctx context.Context, q *types.Question) error {
	if f.onHydrate != nil {
		f.onHydrate(q.ID)
	}

	price, ok := f.prices[q.ID]
	if !ok {
		return nil
	}

	q.Data = []types.DataPoint{{Date: time.Now(), Probability: price}}
	q.Probability = &price
	q.TotalPredictions = 1

	return nil
}

type fakeBumper struct {
	bumps int
}

func (f *fakeBumper) Bump() { f.bumps++ }

func seededStore(t *testing.T, n int) (*Store, *fakeLedger, *fakeHydrator, *fakeBumper) {
	t.Helper()

	ledger := &fakeLedger{nextMarketID: "m-new"}
	hydrator := &fakeHydrator{prices: map[string]float64{}}
	bumper := &fakeBumper{}

	for i := 0; i < n; i++ {
		id := fmt.Sprintf("m%d", i)
		ledger.markets = append(ledger.markets, types.Market{ID: id, Name: fmt.Sprintf("Question %d?", i)})
		hydrator.prices[id] = float64(30 + i)
	}

	s := New(&Config{
		Ledger:   ledger,
		Hydrator: hydrator,
		Bus:      bumper,
		UserID:   "u1",
		Logger:   zap.NewNop(),
	})

	require.NoError(t, s.Refresh(context.Background()))

	return s, ledger, hydrator, bumper
}

func ids(questions []*types.Question) []string {
	result := make([]string, 0, len(questions))
	for _, q := range questions {
		result = append(result, q.ID)
	}
	return result
}

func TestSetQuestionData_MergePreservesOrder(t *testing.T) {
	s, _, hydrator, _ := seededStore(t, 5)

	before := ids(s.All())

	hydrator.prices["m2"] = 75
	_, err := s.SetQuestionData(context.Background(), "m2")
	require.NoError(t, err)

	after := ids(s.All())
	assert.Equal(t, before, after, "merge must not move any question")

	q, ok := s.Get("m2")
	require.True(t, ok)
	require.NotNil(t, q.Probability)
	assert.Equal(t, 75.0, *q.Probability)
}

func TestSetQuestionData_UnknownIDAppends(t *testing.T) {
	s, ledger, hydrator, _ := seededStore(t, 3)

	ledger.markets = append(ledger.markets, types.Market{ID: "m99", Name: "Late arrival?"})
	hydrator.prices["m99"] = 60

	q, err := s.SetQuestionData(context.Background(), "m99")
	require.NoError(t, err)
	assert.Equal(t, "Late arrival?", q.Text)

	all := ids(s.All())
	assert.Equal(t, []string{"m0", "m1", "m2", "m99"}, all)
}

func TestSetQuestionData_DroppedDuringFetchIsNotResurrected(t *testing.T) {
	s, _, hydrator, _ := seededStore(t, 3)

	// A rebuild lands while the hydrate fetch is in flight; the new
	// batch no longer contains m1.
	hydrator.onHydrate = func(id string) {
		if id != "m1" {
			return
		}
		s.Replace([]*types.Question{
			{ID: "m0", Text: "Question 0?", Data: []types.DataPoint{}},
			{ID: "m2", Text: "Question 2?", Data: []types.DataPoint{}},
		})
	}

	q, err := s.SetQuestionData(context.Background(), "m1")
	require.NoError(t, err)
	require.NotNil(t, q)

	assert.Equal(t, []string{"m0", "m2"}, ids(s.All()), "dropped id must not be re-appended")
}

func TestToggleFollow_Idempotent(t *testing.T) {
	s, _, _, _ := seededStore(t, 3)

	s.ToggleFollow("m1")

	q, _ := s.Get("m1")
	assert.True(t, q.IsFollowing)
	assert.Equal(t, []string{"m1"}, ids(s.Followed()))

	s.ToggleFollow("m1")

	q, _ = s.Get("m1")
	assert.False(t, q.IsFollowing)
	assert.Empty(t, s.Followed())
}

func TestToggleFollow_UnknownIDIsNoOp(t *testing.T) {
	s, _, _, _ := seededStore(t, 3)

	s.ToggleFollow("nope")

	assert.Equal(t, 3, s.Len())
	assert.Empty(t, s.Followed())
}

func TestAddQuestion_Validation(t *testing.T) {
	s, ledger, _, _ := seededStore(t, 0)

	tests := []struct {
		name        string
		text        string
		probability float64
	}{
		{name: "empty-text", text: "   ", probability: 40},
		{name: "probability-below-range", text: "Will X happen?", probability: -1},
		{name: "probability-above-range", text: "Will X happen?", probability: 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddQuestion(context.Background(), tt.text, tt.probability)

			var validationErr *types.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Zero(t, ledger.createCalls, "validation must reject before any network call")
			assert.Empty(t, ledger.orderCalls)
		})
	}
}

func TestAddQuestion_CreatesMarketAndSeedOrder(t *testing.T) {
	s, ledger, hydrator, bumper := seededStore(t, 2)
	hydrator.prices["m-new"] = 40

	q, err := s.AddQuestion(context.Background(), "Will X happen?", 40)
	require.NoError(t, err)

	assert.Equal(t, 1, ledger.createCalls)
	require.Len(t, ledger.orderCalls, 1)

	seed := ledger.orderCalls[0]
	assert.Equal(t, types.SideBid, seed.Side)
	assert.Equal(t, 40.0, seed.Price)
	assert.Equal(t, 100.0, seed.Quantity)
	assert.Equal(t, "m-new", ledger.orderMarkets[0])

	assert.Equal(t, "Will X happen?", q.Text)
	require.Len(t, q.Data, 1)
	assert.Equal(t, 40.0, q.Data[0].Probability)

	assert.Contains(t, ids(s.All()), "m-new")
	assert.Equal(t, []string{"m-new"}, ids(s.Authored()))
	assert.Equal(t, 1, bumper.bumps)
}

func TestReplace_PreservesUserFlags(t *testing.T) {
	s, ledger, _, _ := seededStore(t, 3)

	s.ToggleFollow("m1")

	// A sync cycle rebuilds the list from scratch.
	require.NoError(t, s.Refresh(context.Background()))

	q, ok := s.Get("m1")
	require.True(t, ok)
	assert.True(t, q.IsFollowing, "follow flag must survive a rebuild")

	// Markets gone from the backend drop out entirely.
	ledger.markets = ledger.markets[:2]
	require.NoError(t, s.Refresh(context.Background()))
	assert.Equal(t, 2, s.Len())
}

func TestViews_ReturnClones(t *testing.T) {
	s, _, _, _ := seededStore(t, 1)

	q := s.All()[0]
	q.Text = "mutated"
	q.Data = append(q.Data, types.DataPoint{Probability: 99})

	fresh, _ := s.Get("m0")
	assert.Equal(t, "Question 0?", fresh.Text)
	assert.Len(t, fresh.Data, 1)
}

func TestGetByCategory(t *testing.T) {
	s, _, _, _ := seededStore(t, 3)

	assert.Empty(t, s.GetByCategory("AI"))
	assert.Len(t, s.GetByCategory(""), 3)
}
