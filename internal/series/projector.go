// Package series converts raw trade history into the probability series
// consumed by question view-models. Projection is pure: no I/O, no
// global state, same input always yields the same output.
package series

import (
	"sort"

	"github.com/forekast/questionfeed/pkg/types"
)

// Projection is the derived view of one market's trade history.
type Projection struct {
	Data []types.DataPoint

	// Probability is the current probability: the book midpoint when
	// defined, otherwise the price of the last trade, otherwise nil.
	// The nil fallback value shown to users is a presentation concern.
	Probability *float64
}

// Project converts a trade list into a chronological probability series.
// The input order does not matter and the input slice is not mutated:
// trades are copied and sorted ascending by execution time before
// mapping each to a data point with price reinterpreted as a 0-100
// probability.
func Project(trades []types.Trade, midpoint *float64) Projection {
	sorted := make([]types.Trade, len(trades))
	copy(sorted, trades)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	data := make([]types.DataPoint, 0, len(sorted))
	for _, trade := range sorted {
		data = append(data, types.DataPoint{
			Date:        trade.Time,
			Probability: trade.Price,
		})
	}

	probability := midpoint
	if probability == nil && len(sorted) > 0 {
		last := sorted[len(sorted)-1].Price
		probability = &last
	}

	return Projection{
		Data:        data,
		Probability: probability,
	}
}
