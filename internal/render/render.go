// Package render projects the order state and invoice records into plain
// text. Projection is one-directional: renderers read the cart and totals,
// never mutate them, and every write goes through a single io.Writer so
// output order matches mutation order.
package render

import (
	"fmt"
	"io"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/paintbistro/posterm/internal/cart"
	"github.com/paintbistro/posterm/internal/catalog"
	"github.com/paintbistro/posterm/internal/pricing"
)

// Renderer writes text projections of the terminal's state.
type Renderer struct {
	w io.Writer
	p *message.Printer
}

// New returns a renderer targeting w.
func New(w io.Writer) *Renderer {
	return &Renderer{
		w: w,
		p: message.NewPrinter(language.English),
	}
}

// usd formats a dollar amount.
func usd(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// khr formats a riel amount with thousands separators and the riel sign,
// e.g. 16000 -> "16,000៛".
func (r *Renderer) khr(v float64) string {
	return r.p.Sprintf("%d៛", int64(math.Round(v)))
}

// annotations renders the per-line suffix: custom discount, sugar level
// when not default, free-text notes.
func (r *Renderer) annotations(line *cart.Line) string {
	out := ""
	if line.Discount.Value > 0 {
		switch line.Discount.Unit {
		case cart.UnitPercent:
			out += fmt.Sprintf(" (-%g%%)", line.Discount.Value)
		case cart.UnitUSD:
			out += fmt.Sprintf(" (-$%.2f)", line.Discount.Value)
		case cart.UnitKHR:
			out += r.p.Sprintf(" (-%d៛)", int64(math.Round(line.Discount.Value)))
		}
	}
	if line.SugarLevel != "" && line.SugarLevel != cart.DefaultSugarLevel {
		out += " / Sugar: " + line.SugarLevel
	}
	if line.Notes != "" {
		out += " / " + line.Notes
	}
	return out
}

// OrderPanel writes the live order view: one row per line in insertion
// order, then the totals block. An empty cart shows the empty state but
// still prints zero totals.
func (r *Renderer) OrderPanel(c *cart.Cart, cat *catalog.Cache, rate float64) error {
	if table := c.Table(); table > 0 {
		fmt.Fprintf(r.w, "Order / Table %d\n", table)
	} else {
		fmt.Fprintln(r.w, "Order")
	}

	if c.IsEmpty() {
		fmt.Fprintln(r.w, "  (no items)")
	}
	for _, line := range c.Lines() {
		unit := pricing.EffectiveUnitPrice(line, cat)
		total := pricing.LinePrice(line, cat, rate)
		fmt.Fprintf(r.w, "  %dx %s @ %s%s = %s\n",
			line.Quantity, line.Name, usd(unit), r.annotations(line), usd(total))
	}

	totals := pricing.Compute(c, cat, rate)
	fmt.Fprintf(r.w, "Subtotal: %s\n", usd(totals.Subtotal))
	if totals.HasDiscount() {
		fmt.Fprintf(r.w, "Discount: -%s\n", usd(totals.Discount))
	}
	fmt.Fprintf(r.w, "Total: %s\n", usd(totals.TotalUSD))
	fmt.Fprintf(r.w, "Total ៛: %s\n", r.khr(totals.TotalKHR))

	if method := c.Payment(); method != cart.PaymentNone {
		label := string(method)
		if method == cart.PaymentDelivery {
			label = fmt.Sprintf("%s (%s)", method, c.DeliveryApp())
		}
		fmt.Fprintf(r.w, "Payment: %s\n", label)
	}
	return nil
}

// Change writes the cash change block shown after a cash payment.
func (r *Renderer) Change(ch pricing.Change) error {
	fmt.Fprintf(r.w, "Change: %s / %s\n", usd(ch.USD), r.khr(ch.KHR))
	return nil
}
