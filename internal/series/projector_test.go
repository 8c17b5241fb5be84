package series

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/forekast/questionfeed/pkg/types"
)

func tradeAt(offsetMinutes int, price float64) types.Trade {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return types.Trade{
		MarketID: "m1",
		Side:     types.SideBid,
		Time:     base.Add(time.Duration(offsetMinutes) * time.Minute),
		Price:    price,
		Quantity: 10,
	}
}

func TestProject_SortsByTime(t *testing.T) {
	trades := []types.Trade{
		tradeAt(30, 55),
		tradeAt(10, 40),
		tradeAt(20, 48),
	}

	proj := Project(trades, nil)

	if len(proj.Data) != 3 {
		t.Fatalf("expected 3 data points, got %d", len(proj.Data))
	}

	for i := 1; i < len(proj.Data); i++ {
		if proj.Data[i].Date.Before(proj.Data[i-1].Date) {
			t.Errorf("data point %d is before its predecessor", i)
		}
	}

	wantPrices := []float64{40, 48, 55}
	for i, want := range wantPrices {
		if proj.Data[i].Probability != want {
			t.Errorf("data[%d].Probability = %v, want %v", i, proj.Data[i].Probability, want)
		}
	}
}

func TestProject_DeterministicUnderShuffle(t *testing.T) {
	trades := make([]types.Trade, 0, 50)
	for i := 0; i < 50; i++ {
		trades = append(trades, tradeAt(i, float64(i%100)))
	}

	want := Project(trades, nil)

	rng := rand.New(rand.NewSource(42))
	for j := 0; j < 10; j++ {
		shuffled := make([]types.Trade, len(trades))
		copy(shuffled, trades)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := Project(shuffled, nil)
		if !reflect.DeepEqual(got, want) {
			t.Fatal("projection differs after shuffling input")
		}
	}
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	trades := []types.Trade{
		tradeAt(30, 55),
		tradeAt(10, 40),
	}

	original := make([]types.Trade, len(trades))
	copy(original, trades)

	Project(trades, nil)

	if !reflect.DeepEqual(trades, original) {
		t.Error("input slice was mutated")
	}
}

func TestProject_MidpointWins(t *testing.T) {
	mid := 62.5
	proj := Project([]types.Trade{tradeAt(0, 40)}, &mid)

	if proj.Probability == nil || *proj.Probability != 62.5 {
		t.Errorf("expected probability 62.5, got %v", proj.Probability)
	}
}

func TestProject_FallsBackToLastTrade(t *testing.T) {
	proj := Project([]types.Trade{
		tradeAt(10, 40),
		tradeAt(20, 48),
	}, nil)

	if proj.Probability == nil || *proj.Probability != 48 {
		t.Errorf("expected probability 48, got %v", proj.Probability)
	}
}

func TestProject_ZeroTrades(t *testing.T) {
	proj := Project(nil, nil)

	if proj.Probability != nil {
		t.Errorf("expected nil probability, got %v", *proj.Probability)
	}

	if len(proj.Data) != 0 {
		t.Errorf("expected empty data, got %d points", len(proj.Data))
	}
}

func TestProject_PrefixConsistency(t *testing.T) {
	trades := []types.Trade{
		tradeAt(10, 40),
		tradeAt(20, 48),
		tradeAt(30, 55),
	}

	full := Project(trades, nil)
	prefix := Project(trades[:2], nil)

	if !reflect.DeepEqual(full.Data[:2], prefix.Data) {
		t.Error("projecting a prefix is inconsistent with the full projection")
	}
}
