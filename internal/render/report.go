package render

import (
	"fmt"
	"sort"
	"time"

	"github.com/paintbistro/posterm/internal/invoice"
	"github.com/paintbistro/posterm/internal/pricing"
)

// ItemSales is one menu item's aggregated sales for the day. UnitPrice is
// the official menu price, Revenue is what was actually collected.
type ItemSales struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
	Gross     float64 `json:"gross"`
}

// DailyReport is the end-of-day summary over one calendar day's paid
// invoices.
type DailyReport struct {
	Date         time.Time   `json:"date"`
	Orders       int         `json:"orders"`
	CashRevenue  float64     `json:"cashRevenue"`
	CardRevenue  float64     `json:"cardRevenue"`
	TotalRevenue float64     `json:"totalRevenue"`
	Gross        float64     `json:"gross"`
	Discount     float64     `json:"discount"`
	TotalKHR     float64     `json:"totalKhr"`
	Items        []ItemSales `json:"items"`
}

// BuildDailyReport aggregates the paid invoices dated on day's calendar
// date. Gross revenue per item is rebuilt from the menu price map the same
// way receipts do it; discount is the gap between gross and collected.
// Card and "aba" settle together; revenue counts cash and card only.
func BuildDailyReport(invoices []invoice.Invoice, priceMap map[string]float64, rate float64, day time.Time) DailyReport {
	rep := DailyReport{Date: day}
	y, m, d := day.Date()

	stats := make(map[string]*ItemSales)
	var order []string

	for _, inv := range invoices {
		if inv.Status != invoice.StatusPaid || inv.Date.IsZero() {
			continue
		}
		iy, im, id := inv.Date.In(day.Location()).Date()
		if iy != y || im != m || id != d {
			continue
		}

		rep.Orders++
		switch inv.PaymentMethod {
		case "cash":
			rep.CashRevenue += inv.Total
		case "card", "aba":
			rep.CardRevenue += inv.Total
		}

		for _, item := range inv.Items {
			net := item.Total
			if net == 0 {
				net = item.Price * float64(item.Quantity)
			}

			original, ok := priceMap[item.Name]
			if !ok {
				original = item.Price
			}
			if item.Price > original {
				original = item.Price
			}

			s, ok := stats[item.Name]
			if !ok {
				s = &ItemSales{Name: item.Name, UnitPrice: original}
				stats[item.Name] = s
				order = append(order, item.Name)
			}
			s.Quantity += item.Quantity
			s.Revenue += net
			s.Gross += original * float64(item.Quantity)
		}
	}

	rep.Items = make([]ItemSales, 0, len(order))
	for _, name := range order {
		rep.Gross += stats[name].Gross
		rep.Items = append(rep.Items, *stats[name])
	}
	sort.SliceStable(rep.Items, func(i, j int) bool {
		return rep.Items[i].Quantity > rep.Items[j].Quantity
	})

	rep.TotalRevenue = rep.CashRevenue + rep.CardRevenue
	rep.Discount = rep.Gross - rep.TotalRevenue
	rep.TotalKHR = pricing.RoundRiel(rep.TotalRevenue * rate)
	return rep
}

// DailyReport writes the end-of-day report in receipt form.
func (r *Renderer) DailyReport(rep DailyReport, cashier string) error {
	if cashier == "" {
		cashier = "Staff"
	}
	fmt.Fprintln(r.w, "Daily Report")
	fmt.Fprintln(r.w, rep.Date.Format("02-01-2006"))
	fmt.Fprintf(r.w, "Cashier: %s\n", cashier)
	fmt.Fprintln(r.w)

	fmt.Fprintf(r.w, "Orders: %d\n", rep.Orders)
	fmt.Fprintf(r.w, "Cash: %s\n", usd(rep.CashRevenue))
	fmt.Fprintf(r.w, "ABA / Card: %s\n", usd(rep.CardRevenue))
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "ITEM SALES")
	if len(rep.Items) == 0 {
		fmt.Fprintln(r.w, " (no sales today)")
	}
	for _, item := range rep.Items {
		fmt.Fprintf(r.w, " %s  %s x%d  %s\n",
			item.Name, usd(item.UnitPrice), item.Quantity, usd(item.Revenue))
	}

	fmt.Fprintf(r.w, "Subtotal: %s\n", usd(rep.Gross))
	if rep.Discount > pricing.Epsilon {
		fmt.Fprintf(r.w, "Discount: -%s\n", usd(rep.Discount))
	}
	fmt.Fprintf(r.w, "Total: %s\n", usd(rep.TotalRevenue))
	fmt.Fprintf(r.w, "( %s )\n", r.khr(rep.TotalKHR))
	return nil
}
