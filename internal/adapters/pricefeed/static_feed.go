package pricefeed

import (
	"context"
	"sync"
	"time"

	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/shopspring/decimal"
)

// StaticFeed serves an operator-set quote from memory. Used in development
// mode and in tests; SetPrice refreshes the timestamp so the quote stays
// within the staleness window.
type StaticFeed struct {
	mu       sync.RWMutex
	snapshot domain.PriceSnapshot
}

var _ ports.PriceFeed = (*StaticFeed)(nil)

// NewStaticFeed creates a feed pinned at the given price, stamped now.
func NewStaticFeed(price decimal.Decimal) *StaticFeed {
	return &StaticFeed{snapshot: domain.PriceSnapshot{Price: price, UpdatedAt: time.Now().UTC()}}
}

// SetPrice replaces the quote and refreshes its timestamp.
func (f *StaticFeed) SetPrice(price decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot = domain.PriceSnapshot{Price: price, UpdatedAt: time.Now().UTC()}
}

// SetSnapshot replaces the quote verbatim, timestamp included.
func (f *StaticFeed) SetSnapshot(snapshot domain.PriceSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot = snapshot
}

// LatestPrice returns the current in-memory quote.
func (f *StaticFeed) LatestPrice(ctx context.Context) (domain.PriceSnapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshot, nil
}

// Source identifies the feed as in-process.
func (f *StaticFeed) Source() string {
	return "static"
}
