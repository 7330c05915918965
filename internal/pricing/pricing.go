// Package pricing derives line and order totals from the cart, the
// catalog snapshot and the current exchange rate.
//
// Everything here is pure and deterministic: no state, no clock, no I/O.
// Discount arithmetic runs in two stages: per-line first (promo price,
// then the line's custom discount), then the order-level global discount
// over the remaining amount. Discounts are clamped so no line and no order
// ever goes negative.
//
// KHR totals are rounded to the nearest 100 riel. That is a business rule
// (physical coin denominations), not a float nicety, and it applies to
// every customer-facing riel amount.
package pricing

import (
	"math"

	"github.com/paintbistro/posterm/internal/cart"
	"github.com/paintbistro/posterm/internal/catalog"
)

// Epsilon is the tolerance for money comparisons. Binary floating point
// makes exact equality on computed dollar amounts meaningless.
const Epsilon = 0.01

// RoundRiel rounds a riel amount to the nearest 100.
func RoundRiel(amount float64) float64 {
	return math.Round(amount/100) * 100
}

// LineBase is the gross amount of a line: pinned unit price times
// quantity, ignoring promo and discounts.
func LineBase(line *cart.Line) float64 {
	return line.UnitPrice * float64(line.Quantity)
}

// EffectiveUnitPrice is the price one unit actually sells for: the
// catalog's promo price when the line is promotional, otherwise the
// pinned unit price. The pinned price is also the fallback when the
// catalog no longer carries the item.
func EffectiveUnitPrice(line *cart.Line, cat *catalog.Cache) float64 {
	if line.IsPromo {
		if item, ok := cat.ByID(line.MenuItemID); ok && item.PromoPrice > 0 {
			return item.PromoPrice
		}
	}
	return line.UnitPrice
}

// DiscountAmount converts a discount to a USD amount against the given
// base, clamped so it never exceeds the base.
func DiscountAmount(d cart.Discount, base, rate float64) float64 {
	var amount float64
	switch d.Unit {
	case cart.UnitPercent:
		amount = base * d.Value / 100
	case cart.UnitUSD:
		amount = d.Value
	case cart.UnitKHR:
		amount = d.Value / rate
	}
	return math.Min(amount, base)
}

// LinePrice is the effective USD price of a line: promo-adjusted base
// minus the line's custom discount, never below zero.
func LinePrice(line *cart.Line, cat *catalog.Cache, rate float64) float64 {
	base := EffectiveUnitPrice(line, cat) * float64(line.Quantity)
	return math.Max(0, base-DiscountAmount(line.Discount, base, rate))
}

// Totals are the order-level aggregates projected into the totals panel
// and serialized onto invoices.
type Totals struct {
	// Subtotal is the gross sum of pinned unit prices times quantities,
	// before promo and discounts.
	Subtotal float64

	// LineDiscount is the sum of per-line reductions, promo included.
	LineDiscount float64

	// PreGlobal is Subtotal - LineDiscount.
	PreGlobal float64

	// GlobalDiscount is the order-level discount amount in USD, clamped
	// to PreGlobal.
	GlobalDiscount float64

	// Discount is the total reduction shown to the customer:
	// LineDiscount + GlobalDiscount.
	Discount float64

	// TotalUSD is the amount due in dollars, never negative.
	TotalUSD float64

	// TotalKHR is TotalUSD at the given rate, rounded to the nearest
	// 100 riel.
	TotalKHR float64
}

// Compute aggregates the whole cart. An empty cart yields all zeros.
func Compute(c *cart.Cart, cat *catalog.Cache, rate float64) Totals {
	var t Totals
	for _, line := range c.Lines() {
		base := LineBase(line)
		t.Subtotal += base
		t.LineDiscount += base - LinePrice(line, cat, rate)
	}
	t.PreGlobal = t.Subtotal - t.LineDiscount

	if global := c.GlobalDiscount(); global.Value > 0 {
		t.GlobalDiscount = DiscountAmount(global, t.PreGlobal, rate)
	}

	t.Discount = t.LineDiscount + t.GlobalDiscount
	t.TotalUSD = math.Max(0, t.PreGlobal-t.GlobalDiscount)
	t.TotalKHR = math.Max(0, RoundRiel(t.TotalUSD*rate))
	return t
}

// HasDiscount reports whether the order carries a visible discount,
// using Epsilon to avoid false positives from float rounding.
func (t Totals) HasDiscount() bool {
	return t.Discount > Epsilon
}
