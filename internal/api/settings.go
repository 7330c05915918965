package api

import (
	"context"
	"net/http"
)

// Settings is the shop-level configuration owned by the backend.
//
// PendingExchangeRate is a rate scheduled to take effect at midnight; the
// terminal surfaces it for display but never feeds it into live pricing.
type Settings struct {
	Currency            string  `json:"currency,omitempty"`
	ExchangeRate        float64 `json:"exchangeRate,omitempty"`
	PendingExchangeRate float64 `json:"pendingExchangeRate,omitempty"`
	ReceiptHeader       string  `json:"receiptHeader,omitempty"`
	ReceiptFooter       string  `json:"receiptFooter,omitempty"`
	ReceiptLogo         string  `json:"receiptLogo,omitempty"`
}

// Settings fetches the current shop settings.
func (c *Client) Settings(ctx context.Context) (Settings, error) {
	var s Settings
	if err := c.do(ctx, http.MethodGet, "/settings", nil, &s, nil); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// UpdateSettings saves shop settings through the admin endpoint. The
// response may carry a pendingExchangeRate instead of an immediate change.
func (c *Client) UpdateSettings(ctx context.Context, s Settings) (Settings, error) {
	var updated Settings
	if err := c.do(ctx, http.MethodPut, "/admin/settings", s, &updated, nil); err != nil {
		return Settings{}, err
	}
	return updated, nil
}
