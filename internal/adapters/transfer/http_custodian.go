// Package transfer provides TransferMechanism implementations that move
// asset value between owners and the custody account.
package transfer

import (
	"bytes"
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

const defaultRequestTimeout = 15 * time.Second

// HTTPCustodian settles transfers through an external custodian service.
// PullFrom posts to /transfers/pull and PushTo to /transfers/push; any
// non-2xx response is a failed transfer.
type HTTPCustodian struct {
	client  *http.Client
	baseURL string
}

var _ ports.TransferMechanism = (*HTTPCustodian)(nil)

// NewHTTPCustodian creates a custodian client for the given base URL.
func NewHTTPCustodian(baseURL string, client *http.Client) *HTTPCustodian {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &HTTPCustodian{client: client, baseURL: baseURL}
}

type transferPayload struct {
	OwnerID string `json:"ownerID"`
	AssetID string `json:"assetID"`
	Amount  string `json:"amount"`
}

// PullFrom requests the custodian to move funds from the owner into custody.
func (c *HTTPCustodian) PullFrom(ctx context.Context, ownerID string, assetID domain.AssetID, rawAmount decimal.Decimal) error {
	return c.post(ctx, "/transfers/pull", ownerID, assetID, rawAmount)
}

// PushTo requests the custodian to move funds from custody to the owner.
func (c *HTTPCustodian) PushTo(ctx context.Context, ownerID string, assetID domain.AssetID, rawAmount decimal.Decimal) error {
	return c.post(ctx, "/transfers/push", ownerID, assetID, rawAmount)
}

func (c *HTTPCustodian) post(ctx context.Context, path, ownerID string, assetID domain.AssetID, rawAmount decimal.Decimal) error {
	body, err := json.Marshal(transferPayload{
		OwnerID: ownerID,
		AssetID: assetID.String(),
		Amount:  rawAmount.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode transfer payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("transfer request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("custodian rejected transfer with status %d", resp.StatusCode)
	}
	return nil
}
