package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/paintbistro/posterm/internal/invoice"
)

// Invoices fetches every invoice on record.
func (c *Client) Invoices(ctx context.Context) ([]invoice.Invoice, error) {
	var records []invoice.Invoice
	if err := c.do(ctx, http.MethodGet, "/invoices", nil, &records, nil); err != nil {
		return nil, err
	}
	return records, nil
}

// Invoice fetches one invoice by id.
func (c *Client) Invoice(ctx context.Context, id string) (invoice.Invoice, error) {
	var rec invoice.Invoice
	if err := c.do(ctx, http.MethodGet, "/invoices/"+url.PathEscape(id), nil, &rec, nil); err != nil {
		return invoice.Invoice{}, err
	}
	return rec, nil
}

// CreateInvoice submits a new invoice and returns the stored record,
// including the server-assigned id.
func (c *Client) CreateInvoice(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	var rec invoice.Invoice
	if err := c.do(ctx, http.MethodPost, "/invoices", inv, &rec, nil); err != nil {
		return invoice.Invoice{}, err
	}
	return rec, nil
}

// UpdateInvoice replaces an existing invoice, used when a resumed pending
// order is checked out or re-saved.
func (c *Client) UpdateInvoice(ctx context.Context, id string, inv invoice.Invoice) (invoice.Invoice, error) {
	var rec invoice.Invoice
	if err := c.do(ctx, http.MethodPut, "/invoices/"+url.PathEscape(id), inv, &rec, nil); err != nil {
		return invoice.Invoice{}, err
	}
	return rec, nil
}

// DeleteInvoice removes an invoice. The terminal's role rides along so the
// backend can refuse deletes the role is not allowed to make; the server's
// refusal message surfaces verbatim as a permission error.
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	headers := map[string]string{"x-user-role": c.role}
	return c.do(ctx, http.MethodDelete, "/invoices/"+url.PathEscape(id), nil, nil, headers)
}
