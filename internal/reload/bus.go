// Package reload implements the coarse revalidation signal used after a
// trade is submitted: a process-wide monotonic token that tells every
// consumer its cached view of the ledger is possibly stale.
//
// The bus is an explicit, injectable object rather than package-level
// state so tests can construct isolated instances.
package reload

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Bus carries the reload token. The token only ever increases; bumping
// it is the sole externally visible effect of a successful order
// submission. Invalidation is deliberately coarse: every subscriber
// refetches, correctness over fetch efficiency.
type Bus struct {
	token  atomic.Int64
	logger *zap.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]chan int64
}

// NewBus creates a new revalidation bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		logger: logger,
		subs:   make(map[int]chan int64),
	}
}

// Token returns the current reload token. Side-effect free.
func (b *Bus) Token() int64 {
	return b.token.Load()
}

// Bump increments the token and notifies all subscribers. Notifications
// coalesce: a subscriber that has not drained its channel sees only the
// latest token, which is all it needs to schedule one refetch.
func (b *Bus) Bump() {
	token := b.token.Add(1)
	BumpsTotal.Inc()

	b.logger.Debug("reload-bumped", zap.Int64("token", token))

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- token:
		default:
			// Channel holds a stale token; replace it with the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- token:
			default:
			}
		}
	}
}

// Subscribe registers a consumer. The returned channel receives the
// token after each bump; the cancel func must be called on teardown.
func (b *Bus) Subscribe() (<-chan int64, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan int64, 1)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}

	return ch, cancel
}
