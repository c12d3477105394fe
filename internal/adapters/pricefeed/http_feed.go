// Package pricefeed provides PriceFeed implementations: an HTTP client for
// external oracle endpoints and an in-process static feed for development.
package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodix/bankcore/internal/core/domain"
	"github.com/custodix/bankcore/internal/core/ports"
	"github.com/shopspring/decimal"
)

// HTTPDoer is the minimal HTTP client surface the feed needs. *http.Client
// satisfies it; tests substitute their own.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const defaultRequestTimeout = 10 * time.Second

// HTTPFeed fetches the latest price quote from a JSON endpoint. The endpoint
// is expected to respond with {"price": "<decimal>", "updatedAt": <unix>}
// where price carries the oracle's fixed-point decimals.
type HTTPFeed struct {
	client  HTTPDoer
	feedURL string
}

var _ ports.PriceFeed = (*HTTPFeed)(nil)

// NewHTTPFeed creates a feed against the given URL. A nil client falls back
// to a default http.Client with a request timeout.
func NewHTTPFeed(feedURL string, client HTTPDoer) *HTTPFeed {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &HTTPFeed{client: client, feedURL: feedURL}
}

type quotePayload struct {
	Price     string `json:"price"`
	UpdatedAt int64  `json:"updatedAt"`
}

// LatestPrice fetches and decodes the current quote. Transport or decode
// failures surface as errors; staleness and validity are judged upstream.
func (f *HTTPFeed) LatestPrice(ctx context.Context) (domain.PriceSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
	if err != nil {
		return domain.PriceSnapshot{}, fmt.Errorf("failed to build price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.PriceSnapshot{}, fmt.Errorf("price feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return domain.PriceSnapshot{}, fmt.Errorf("price feed returned status %d", resp.StatusCode)
	}

	var payload quotePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.PriceSnapshot{}, fmt.Errorf("failed to decode price payload: %w", err)
	}

	price, err := decimal.NewFromString(payload.Price)
	if err != nil {
		return domain.PriceSnapshot{}, fmt.Errorf("failed to parse price %q: %w", payload.Price, err)
	}

	return domain.PriceSnapshot{
		Price:     price,
		UpdatedAt: time.Unix(payload.UpdatedAt, 0).UTC(),
	}, nil
}

// Source identifies the feed by its URL.
func (f *HTTPFeed) Source() string {
	return f.feedURL
}
