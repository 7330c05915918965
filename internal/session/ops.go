package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/paintbistro/posterm/internal/cart"
	"github.com/paintbistro/posterm/internal/invoice"
	"github.com/paintbistro/posterm/internal/poserr"
	"github.com/paintbistro/posterm/internal/pricing"
	"github.com/paintbistro/posterm/internal/render"
	"github.com/paintbistro/posterm/internal/store"
)

// AddItem adds one unit of a menu item to the order.
func (s *Session) AddItem(menuItemID string) {
	s.cart.AddItem(menuItemID)
}

// ChangeQuantity adjusts a line's quantity by delta.
func (s *Session) ChangeQuantity(lineID string, delta int) {
	s.cart.ChangeQuantity(lineID, delta)
}

// UpdateLine applies a line edit, optionally splitting the customized
// unit off into its own line.
func (s *Session) UpdateLine(lineID string, edit cart.LineEdit, split bool) error {
	return s.cart.UpdateLine(lineID, edit, split)
}

// SetGlobalDiscount sets the order-level discount.
func (s *Session) SetGlobalDiscount(value float64, unit cart.Unit) error {
	return s.cart.SetGlobalDiscount(value, unit)
}

// ClearGlobalDiscount removes the order-level discount.
func (s *Session) ClearGlobalDiscount() {
	s.cart.ClearGlobalDiscount()
}

// SetTable selects the table.
func (s *Session) SetTable(table int) {
	s.cart.SetTable(table)
}

// SetPayment selects the payment method. An empty cart refuses a
// selection, matching the terminal's payment buttons.
func (s *Session) SetPayment(method cart.PaymentMethod) error {
	if s.cart.IsEmpty() {
		return poserr.Validation("add items to the order first")
	}
	s.cart.SetPayment(method)
	return nil
}

// SetDeliveryApp selects the delivery platform label.
func (s *Session) SetDeliveryApp(app string) {
	s.cart.SetDeliveryApp(app)
}

// ClearCart abandons the current order entirely.
func (s *Session) ClearCart() {
	s.cart.Clear()
}

// Checkout settles the order with the selected non-cash payment method
// and submits it as paid. On success the stored invoice is returned and
// the cart resets for the next customer.
func (s *Session) Checkout(ctx context.Context) (invoice.Invoice, error) {
	if s.cart.Payment() == cart.PaymentCash {
		return invoice.Invoice{}, poserr.Validation("cash orders settle through PayCash")
	}
	return s.submit(ctx, invoice.StatusPaid)
}

// PayCash settles the order with cash. The tendered amount must cover the
// total within a one-cent tolerance; on success the change to give back
// is returned along with the stored invoice.
func (s *Session) PayCash(ctx context.Context, tendered pricing.CashTendered) (invoice.Invoice, pricing.Change, error) {
	if s.cart.IsEmpty() {
		return invoice.Invoice{}, pricing.Change{}, poserr.Validation("cannot submit an empty order")
	}

	rate := s.rates.Current()
	totals := s.Totals()
	if !pricing.Sufficient(totals.TotalUSD, tendered, rate) {
		return invoice.Invoice{}, pricing.Change{}, poserr.Validation("insufficient payment").
			WithDetail("due_usd", fmt.Sprintf("%.2f", totals.TotalUSD))
	}
	change := pricing.ChangeFor(totals.TotalUSD, tendered, rate)

	prev := s.cart.Payment()
	s.cart.SetPayment(cart.PaymentCash)
	inv, err := s.submit(ctx, invoice.StatusPaid)
	if err != nil {
		// The order was not stored; put the selection back too.
		s.cart.SetPayment(prev)
		return invoice.Invoice{}, pricing.Change{}, err
	}
	return inv, change, nil
}

// SavePending parks the order on the backend for later editing. Payment
// defaults to cash when none was selected.
func (s *Session) SavePending(ctx context.Context) (invoice.Invoice, error) {
	return s.submit(ctx, invoice.StatusPending)
}

// submit builds the payload, sends it, and only then clears the cart.
// A resumed order updates its invoice; anything else creates a new one.
func (s *Session) submit(ctx context.Context, status invoice.Status) (invoice.Invoice, error) {
	rate := s.rates.Current()
	payload, err := invoice.Build(s.cart, s.catalog, rate, status)
	if err != nil {
		return invoice.Invoice{}, err
	}
	payload.CreatedBy = s.cfg.Cashier

	var stored invoice.Invoice
	if editingID := s.cart.EditingInvoiceID(); editingID != "" {
		stored, err = s.client.UpdateInvoice(ctx, editingID, payload)
	} else {
		stored, err = s.client.CreateInvoice(ctx, payload)
	}
	if err != nil {
		return invoice.Invoice{}, err
	}

	s.logger.Info("invoice submitted",
		"invoice_id", stored.InvoiceID, "status", stored.Status,
		"total_usd", stored.Total)
	s.cart.Clear()
	return stored, nil
}

// ResumeEdit loads a pending invoice back into the cart for editing.
func (s *Session) ResumeEdit(ctx context.Context, invoiceID string) error {
	inv, err := s.client.Invoice(ctx, invoiceID)
	if err != nil {
		return err
	}
	return invoice.Resume(inv, s.cart, s.catalog, s.logger)
}

// DeleteInvoice removes an invoice on the backend. The backend enforces
// who may delete what; its refusal surfaces as a permission error.
func (s *Session) DeleteInvoice(ctx context.Context, invoiceID string) error {
	return s.client.DeleteInvoice(ctx, invoiceID)
}

// Invoices lists the invoices the terminal shows: everything except
// cancelled ones, newest data the backend has. A successful fetch
// refreshes the local snapshot; when the backend is unreachable the
// snapshot answers instead.
func (s *Session) Invoices(ctx context.Context) ([]invoice.Invoice, error) {
	list, err := s.client.Invoices(ctx)
	if err != nil {
		if !poserr.IsNetwork(err) || s.store == nil {
			return nil, err
		}
		s.logger.Warn("backend unreachable, serving invoice snapshot", "error", err)
		cached, cacheErr := s.store.Invoices(ctx)
		if cacheErr != nil {
			return nil, err // the network error is the root cause
		}
		return visibleInvoices(cached), nil
	}

	if s.store != nil {
		if err := s.store.ReplaceSnapshot(ctx, list); err != nil {
			s.logger.Warn("snapshot refresh failed", "error", err)
		}
	}
	return visibleInvoices(list), nil
}

// SearchInvoices filters the invoice list by a free-text term.
func (s *Session) SearchInvoices(ctx context.Context, term string) ([]invoice.Invoice, error) {
	list, err := s.Invoices(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]invoice.Invoice, 0, len(list))
	for _, inv := range list {
		if matchesInvoice(inv, term) {
			out = append(out, inv)
		}
	}
	return out, nil
}

// Stats returns the invoice counters, refreshing the snapshot on the way.
func (s *Session) Stats(ctx context.Context) (store.Stats, error) {
	list, err := s.Invoices(ctx)
	if err != nil {
		return store.Stats{}, err
	}

	var st store.Stats
	for _, inv := range list {
		st.Total++
		switch inv.Status {
		case invoice.StatusPaid:
			st.Paid++
			st.Revenue += inv.Total
		case invoice.StatusPending:
			st.Pending++
		}
	}
	return st, nil
}

// Receipt writes a printable receipt for an invoice to w. The backend is
// asked first so the receipt reflects the stored record; the snapshot
// answers during an outage.
func (s *Session) Receipt(ctx context.Context, invoiceID string, w io.Writer) error {
	inv, err := s.client.Invoice(ctx, invoiceID)
	if err != nil {
		if !poserr.IsNetwork(err) || s.store == nil {
			return err
		}
		s.logger.Warn("backend unreachable, serving receipt from snapshot",
			"invoice_id", invoiceID, "error", err)
		if inv, err = s.store.Invoice(ctx, invoiceID); err != nil {
			return err
		}
	}

	return render.New(w).Receipt(inv, s.priceMap(), render.ReceiptOptions{
		Header:   s.receiptHeader(),
		Footer:   s.receiptFooter(),
		Cashier:  s.cfg.Cashier,
		LiveRate: s.rates.Current(),
	})
}

// DailyReport writes the end-of-day report for today to w.
func (s *Session) DailyReport(ctx context.Context, w io.Writer) error {
	list, err := s.Invoices(ctx)
	if err != nil {
		return err
	}
	rep := render.BuildDailyReport(list, s.priceMap(), s.rates.Current(), time.Now())
	return render.New(w).DailyReport(rep, s.cfg.Cashier)
}

// BuildDailyReport aggregates the report for an arbitrary day without
// rendering it, for the JSON output path.
func (s *Session) BuildDailyReport(ctx context.Context, day time.Time) (render.DailyReport, error) {
	list, err := s.Invoices(ctx)
	if err != nil {
		return render.DailyReport{}, err
	}
	return render.BuildDailyReport(list, s.priceMap(), s.rates.Current(), day), nil
}

func (s *Session) receiptHeader() string {
	if s.settings.ReceiptHeader != "" {
		return s.settings.ReceiptHeader
	}
	return s.cfg.ReceiptHeader
}

func (s *Session) receiptFooter() string {
	if s.settings.ReceiptFooter != "" {
		return s.settings.ReceiptFooter
	}
	return s.cfg.ReceiptFooter
}
