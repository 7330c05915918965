package cart

// Unit is the denomination of a discount value.
type Unit string

const (
	// UnitPercent discounts by a percentage of the line or order base.
	UnitPercent Unit = "percent"

	// UnitUSD discounts by a flat dollar amount.
	UnitUSD Unit = "usd"

	// UnitKHR discounts by a flat riel amount, converted at the live rate.
	UnitKHR Unit = "khr"
)

// ValidUnit reports whether u is one of the three discount denominations.
func ValidUnit(u Unit) bool {
	return u == UnitPercent || u == UnitUSD || u == UnitKHR
}

// Discount is a value/unit pair. The zero value means no discount.
type Discount struct {
	Value float64
	Unit  Unit
}

// None is the cleared discount state.
func None() Discount {
	return Discount{Value: 0, Unit: UnitPercent}
}

// IsZero reports whether the discount has no effect.
func (d Discount) IsZero() bool {
	return d.Value == 0
}

// DefaultSugarLevel marks a line without a sugar customization.
const DefaultSugarLevel = "Default"

// PaymentMethod identifies how the order will be settled.
type PaymentMethod string

const (
	PaymentNone     PaymentMethod = "none"
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentDelivery PaymentMethod = "delivery"
)

// Line is one row of the order: possibly multiple units of the same
// catalog item sharing a customization.
//
// UnitPrice and IsPromo are copied from the menu item at add-time. The
// line is price-pinned: a later catalog refresh never silently updates it.
type Line struct {
	UniqueID   string
	MenuItemID string
	Name       string
	UnitPrice  float64
	Quantity   int
	IsPromo    bool
	Notes      string
	Discount   Discount
	SugarLevel string
}

// Clean reports whether the line carries no customization and is therefore
// a valid consolidation target for a fresh tap of the same catalog item.
func (l *Line) Clean() bool {
	return l.Notes == "" && l.Discount.IsZero() && (l.SugarLevel == "" || l.SugarLevel == DefaultSugarLevel)
}
