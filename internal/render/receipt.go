package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/paintbistro/posterm/internal/invoice"
	"github.com/paintbistro/posterm/internal/pricing"
)

// ReceiptOptions carries the shop-level receipt context. Zero values fall
// back to the historical defaults.
type ReceiptOptions struct {
	// Header is the multi-line shop banner printed at the top.
	Header string

	// Footer is the slogan printed at the bottom.
	Footer string

	// Cashier overrides the invoice's createdBy when that is empty.
	Cashier string

	// LiveRate backs PinnedRate for records that predate rate pinning.
	LiveRate float64

	// Now supplies the end time for invoices without lastModifiedAt.
	Now time.Time
}

const (
	defaultReceiptHeader = "Paint Coffee\nART & BISTRO"
	defaultReceiptFooter = "Thank you!"
)

// Receipt reconstructs a printable receipt from an invoice record.
//
// The record stores net line totals only, so gross prices are rebuilt from
// the current menu by name; items missing from the menu fall back to their
// sold price, and a sold price above the menu price wins so the discount
// line can never go negative. KHR totals use the invoice's pinned rate.
func (r *Renderer) Receipt(inv invoice.Invoice, priceMap map[string]float64, opts ReceiptOptions) error {
	header := opts.Header
	if header == "" {
		header = defaultReceiptHeader
	}
	footer := opts.Footer
	if footer == "" {
		footer = defaultReceiptFooter
	}
	cashier := inv.CreatedBy
	if cashier == "" {
		cashier = opts.Cashier
	}
	if cashier == "" {
		cashier = "Staff"
	}

	for _, line := range strings.Split(header, "\n") {
		fmt.Fprintln(r.w, line)
	}
	fmt.Fprintln(r.w)

	fmt.Fprintf(r.w, "INV: %s | %s\n", inv.InvoiceID, inv.Date.Format("02-01-2006"))
	fmt.Fprintf(r.w, "Cashier: %s\n", cashier)

	end := inv.LastModifiedAt
	if end.IsZero() {
		end = opts.Now
		if end.IsZero() {
			end = time.Now()
		}
	}
	duration := int(math.Max(0, end.Sub(inv.Date).Minutes()))
	fmt.Fprintf(r.w, "Start: %s  End: %s  Duration: %d mn\n",
		inv.Date.Format("03:04 PM"), end.Format("03:04 PM"), duration)
	fmt.Fprintln(r.w)

	totalGross := 0.0
	for i, item := range inv.Items {
		original, ok := priceMap[item.Name]
		if !ok {
			original = item.Price
		}
		if item.Price > original {
			original = item.Price
		}
		lineGross := original * float64(item.Quantity)
		totalGross += lineGross
		fmt.Fprintf(r.w, " %d. %s  %s x%d  %s\n",
			i+1, item.Name, usd(original), item.Quantity, usd(lineGross))
	}

	rate := inv.PinnedRate(opts.LiveRate)
	totalNet := inv.Total
	discount := totalGross - totalNet

	fmt.Fprintf(r.w, "Subtotal: %s\n", usd(totalGross))
	if discount > pricing.Epsilon {
		fmt.Fprintf(r.w, "Discount: -%s\n", usd(discount))
	}
	fmt.Fprintf(r.w, "TOTAL $: %s\n", usd(totalNet))
	fmt.Fprintf(r.w, "Total ៛: %s\n", r.khr(pricing.RoundRiel(totalNet*rate)))
	fmt.Fprintln(r.w)

	payBy := "Cash"
	if inv.PaymentMethod == "card" {
		payBy = "ABA"
	}
	fmt.Fprintf(r.w, "Pay by %s\n", payBy)
	if inv.Table > 0 {
		fmt.Fprintf(r.w, "Table: %d\n", inv.Table)
	} else {
		fmt.Fprintln(r.w, "Table: N/A")
	}
	fmt.Fprintf(r.w, "Waiting #%s\n", waitingNumber(inv.InvoiceID))
	fmt.Fprintln(r.w, footer)
	r.p.Fprintf(r.w, "1$=%dR\n", int64(math.Round(rate)))
	return nil
}

// waitingNumber is the last four characters of the invoice id, shown large
// on the printed receipt so customers can match their order.
func waitingNumber(invoiceID string) string {
	if invoiceID == "" {
		return "0000"
	}
	if len(invoiceID) <= 4 {
		return invoiceID
	}
	return invoiceID[len(invoiceID)-4:]
}
