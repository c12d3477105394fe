package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodix/bankcore/internal/apperrors"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/shopspring/decimal"
)

// DefaultOracleHeartbeat is the freshness window applied when none is configured.
const DefaultOracleHeartbeat = 3600 * time.Second

// OracleService wraps the raw price feed with the validity and staleness
// checks the accounting core relies on. It never caches: price and staleness
// are time-sensitive per operation, so every call re-queries the feed.
type OracleService struct {
	mu        sync.RWMutex
	feed      ports.PriceFeed
	heartbeat time.Duration
}

// NewOracleService creates a new OracleService around the given feed.
// A non-positive heartbeat falls back to DefaultOracleHeartbeat.
func NewOracleService(feed ports.PriceFeed, heartbeat time.Duration) *OracleService {
	if heartbeat <= 0 {
		heartbeat = DefaultOracleHeartbeat
	}
	return &OracleService{
		feed:      feed,
		heartbeat: heartbeat,
	}
}

// ValueAssetPrice returns the current native-asset price in PriceDecimals
// precision. It fails closed: a non-positive price or a quote older than the
// heartbeat rejects the surrounding operation rather than retrying.
func (s *OracleService) ValueAssetPrice(ctx context.Context) (decimal.Decimal, error) {
	s.mu.RLock()
	feed := s.feed
	heartbeat := s.heartbeat
	s.mu.RUnlock()

	snapshot, err := feed.LatestPrice(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query price feed %s: %w", feed.Source(), err)
	}

	if snapshot.Price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: reported price %s", apperrors.ErrOracleInvalidPrice, snapshot.Price)
	}

	age := time.Since(snapshot.UpdatedAt)
	if age > heartbeat {
		return decimal.Zero, fmt.Errorf("%w: last update %s ago exceeds heartbeat %s",
			apperrors.ErrOracleStalePrice, age.Truncate(time.Second), heartbeat)
	}

	return snapshot.Price, nil
}

// ReplaceFeed swaps the underlying feed and returns the previous source.
func (s *OracleService) ReplaceFeed(feed ports.PriceFeed) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.feed.Source()
	s.feed = feed
	return previous
}

// FeedSource returns the identifier of the currently configured feed.
func (s *OracleService) FeedSource() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feed.Source()
}
