// Package window maps a virtualized viewport onto the question store.
// It implements the windowing contract {visible range, item access,
// enter-view notification} without depending on any particular
// virtualization library: rows outside the eagerly fetched prefix
// render as placeholders and request their data the first time they
// scroll into view, at most once per item per mount.
package window

import (
	"context"
	"sync"

	"github.com/forekast/questionfeed/pkg/types"
	"go.uber.org/zap"
)

// DataRequester upgrades a question with fresh data when it enters the
// viewport. The store's single-question merge satisfies this.
type DataRequester interface {
	SetQuestionData(ctx context.Context, id string) (*types.Question, error)
}

// RowRenderer produces the current item for one row. Its identity is
// stable across re-renders unless the underlying item changes, which is
// what windowing implementations key row reuse on.
type RowRenderer func() *types.Question

// Windower is the contract a virtualized rendering surface consumes:
// item access by index, visible-range notification and stable row
// renderers. Adapter is the canonical implementation.
type Windower interface {
	Len() int
	Item(index int) *types.Question
	OnRangeChange(ctx context.Context, start, end int) []int
	RenderRow(index int) RowRenderer
}

// Adapter adapts the question list to a windowed rendering surface.
type Adapter struct {
	requester DataRequester
	logger    *zap.Logger

	mu        sync.Mutex
	items     []*types.Question
	requested map[string]bool
	renderers map[int]RowRenderer
	rendered  map[int]*types.Question // item backing each cached renderer
}

// Config holds adapter dependencies.
type Config struct {
	Requester DataRequester
	Logger    *zap.Logger
}

var _ Windower = (*Adapter)(nil)

// New creates a windowed list adapter for a fresh mount.
func New(cfg *Config) *Adapter {
	return &Adapter{
		requester: cfg.Requester,
		logger:    cfg.Logger,
		requested: make(map[string]bool),
		renderers: make(map[int]RowRenderer),
		rendered:  make(map[int]*types.Question),
	}
}

// SetItems replaces the backing item list after a sync cycle. Cached
// renderers whose item is unchanged keep their identity; the
// once-per-mount request bookkeeping is preserved.
func (a *Adapter) SetItems(items []*types.Question) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.items = items
}

// Len returns the number of backing items.
func (a *Adapter) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.items)
}

// Item returns the item at an index, or nil when out of range. Callers
// render a placeholder for items that have no data yet.
func (a *Adapter) Item(index int) *types.Question {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.itemAtLocked(index)
}

func (a *Adapter) itemAtLocked(index int) *types.Question {
	if index < 0 || index >= len(a.items) {
		return nil
	}

	return a.items[index]
}

// OnRangeChange reports a new visible index range [start, end) and
// returns the indices whose items still need data. Each such item gets
// an asynchronous data request, at most once per item per mount; a
// request failure leaves the placeholder in place and the item eligible
// again only after Reset.
func (a *Adapter) OnRangeChange(ctx context.Context, start, end int) []int {
	a.mu.Lock()

	if start < 0 {
		start = 0
	}
	if end > len(a.items) {
		end = len(a.items)
	}

	var needy []int
	var toRequest []*types.Question

	for i := start; i < end; i++ {
		q := a.items[i]
		if q.HasTrades() || a.requested[q.ID] {
			continue
		}

		a.requested[q.ID] = true
		needy = append(needy, i)
		toRequest = append(toRequest, q)
	}

	a.mu.Unlock()

	for _, q := range toRequest {
		EnterViewRequestsTotal.Inc()

		go func(id string) {
			if ctx.Err() != nil {
				return
			}

			_, err := a.requester.SetQuestionData(ctx, id)
			if err != nil {
				a.logger.Warn("enter-view-fetch-failed",
					zap.String("question-id", id),
					zap.Error(err))
			}
		}(q.ID)
	}

	return needy
}

// RenderRow returns the renderer for one row. The same RowRenderer
// value is handed back until the item at that index changes, so a
// windowing implementation can skip re-rendering unchanged rows.
func (a *Adapter) RenderRow(index int) RowRenderer {
	a.mu.Lock()
	defer a.mu.Unlock()

	current := a.itemAtLocked(index)
	if cached, ok := a.renderers[index]; ok && a.rendered[index] == current {
		return cached
	}

	renderer := func() *types.Question {
		return a.Item(index)
	}

	a.renderers[index] = renderer
	a.rendered[index] = current

	return renderer
}

// Reset clears per-mount state. Called when the consuming surface
// unmounts and remounts; items may be requested once again.
func (a *Adapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requested = make(map[string]bool)
	a.renderers = make(map[int]RowRenderer)
	a.rendered = make(map[int]*types.Question)
}
