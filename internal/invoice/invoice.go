// Package invoice holds the invoice wire entity and the reconciliation
// between it and the in-memory cart.
//
// The invoice record is owned by the backend; this package only builds
// payloads on checkout and rehydrates a cart from a fetched record on
// resume-edit. Field names are a fixed external contract and must
// round-trip exactly.
package invoice

import (
	"time"
)

// Status is the lifecycle state of an invoice.
type Status string

const (
	// StatusPending marks an order saved for later; the only state the
	// terminal may edit or delete.
	StatusPending Status = "pending"

	// StatusPaid marks a settled order.
	StatusPaid Status = "paid"

	// StatusDeleted marks a soft-deleted invoice.
	StatusDeleted Status = "deleted"

	// StatusCancelled is produced by the admin dashboard; the terminal
	// hides cancelled invoices from its listing.
	StatusCancelled Status = "cancelled"
)

// Item is one invoice line on the wire. Price is the effective unit price
// the customer paid (promo price when active); Total is the line total
// after the line's discount.
type Item struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

// Invoice is the wire entity exchanged with the backend.
//
// ExchangeRate is the rate pinned at creation time. Rendering a historical
// invoice must use this value, never the live rate, so old receipts stay
// numerically self-consistent after the shop's rate changes.
type Invoice struct {
	InvoiceID      string    `json:"invoiceId,omitempty"`
	Date           time.Time `json:"date,omitempty"`
	Table          int       `json:"table,omitempty"`
	PaymentMethod  string    `json:"paymentMethod,omitempty"`
	Items          []Item    `json:"items"`
	Subtotal       float64   `json:"subtotal"`
	Discount       float64   `json:"discount"`
	Total          float64   `json:"total"`
	ExchangeRate   float64   `json:"exchangeRate,omitempty"`
	Status         Status    `json:"status"`
	CreatedBy      string    `json:"createdBy,omitempty"`
	LastModifiedAt time.Time `json:"lastModifiedAt,omitempty"`
}

// PinnedRate returns the invoice's historical exchange rate, falling back
// to the supplied live rate for records created before rates were pinned.
func (inv Invoice) PinnedRate(liveRate float64) float64 {
	if inv.ExchangeRate > 0 {
		return inv.ExchangeRate
	}
	return liveRate
}

// Editable reports whether the terminal may modify this invoice.
func (inv Invoice) Editable() bool {
	return inv.Status == StatusPending
}
