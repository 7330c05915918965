package invoice

import (
	"log/slog"
	"time"

	"github.com/paintbistro/posterm/internal/cart"
	"github.com/paintbistro/posterm/internal/catalog"
	"github.com/paintbistro/posterm/internal/poserr"
	"github.com/paintbistro/posterm/internal/pricing"
)

// Build serializes the cart into an invoice payload.
//
// The payload pins the current exchange rate and carries the computed
// totals. A paid invoice requires a selected payment method; a pending one
// defaults to cash when none is selected. An empty cart is a validation
// error for either status.
func Build(c *cart.Cart, cat *catalog.Cache, rate float64, status Status) (Invoice, error) {
	if c.IsEmpty() {
		return Invoice{}, poserr.Validation("cannot submit an empty order")
	}

	method := c.Payment()
	switch status {
	case StatusPaid:
		if method == cart.PaymentNone {
			return Invoice{}, poserr.Validation("no payment method selected")
		}
	case StatusPending:
		if method == cart.PaymentNone {
			method = cart.PaymentCash
		}
	default:
		return Invoice{}, poserr.Validation("cannot submit an invoice with status %q", status)
	}

	lines := c.Lines()
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, Item{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    pricing.EffectiveUnitPrice(line, cat),
			Total:    pricing.LinePrice(line, cat, rate),
		})
	}

	totals := pricing.Compute(c, cat, rate)
	return Invoice{
		Date:          time.Now(),
		Table:         c.Table(),
		PaymentMethod: string(method),
		Items:         items,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Total:         totals.TotalUSD,
		ExchangeRate:  rate,
		Status:        status,
	}, nil
}

// Resume rehydrates the cart from a pending invoice for further editing.
//
// Items are re-joined against the current catalog by name (the wire record
// stores names, not ids) and re-priced at current catalog prices; items no
// longer on the menu are skipped with a warning. Quantities are restored,
// but per-line customizations and the global discount were not serialized
// onto the invoice and come back as defaults.
func Resume(inv Invoice, c *cart.Cart, cat *catalog.Cache, logger *slog.Logger) error {
	if !inv.Editable() {
		return poserr.Permission("only pending invoices can be edited, invoice %s is %s",
			inv.InvoiceID, inv.Status)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c.Clear()
	for _, item := range inv.Items {
		menuItem, ok := cat.ByName(item.Name)
		if !ok {
			logger.Warn("invoice item no longer on the menu, skipping",
				"invoice_id", inv.InvoiceID, "item_name", item.Name)
			continue
		}
		c.AddRestoredLine(menuItem, item.Quantity)
	}

	c.SetTable(inv.Table)
	if inv.PaymentMethod != "" {
		c.SetPayment(cart.PaymentMethod(inv.PaymentMethod))
	}
	c.SetEditingInvoice(inv.InvoiceID)
	return nil
}
