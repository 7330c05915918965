package cart

import (
	"fmt"
	"log/slog"

	"github.com/paintbistro/posterm/internal/catalog"
	"github.com/paintbistro/posterm/internal/poserr"
)

// Cart is the mutable order model: a mapping of line ids to lines plus the
// order-level selections (global discount, table, payment method).
//
// Mutating operations finish by invoking the change hook, which the owning
// session uses to recompute totals and re-render.
type Cart struct {
	catalog *catalog.Cache
	logger  *slog.Logger

	lines map[string]*Line
	order []string // display order: insertion sequence of line ids
	seq   int

	global      Discount
	table       int
	payment     PaymentMethod
	deliveryApp string

	// editingInvoiceID is set while resuming a pending invoice; checkout
	// then updates that invoice instead of creating a new one.
	editingInvoiceID string

	onChange func()
}

// New creates an empty cart resolving items against the given catalog.
func New(cat *catalog.Cache, logger *slog.Logger) *Cart {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cart{
		catalog:     cat,
		logger:      logger,
		lines:       make(map[string]*Line),
		global:      None(),
		payment:     PaymentNone,
		deliveryApp: "Delivery",
	}
}

// OnChange registers the hook invoked after every mutation.
func (c *Cart) OnChange(fn func()) {
	c.onChange = fn
}

// AddItem adds one unit of a catalog item to the order.
//
// If a clean line for the same item exists its quantity is incremented;
// otherwise a new line is created. An unknown id is a logged no-op.
func (c *Cart) AddItem(menuItemID string) {
	item, ok := c.catalog.ByID(menuItemID)
	if !ok {
		c.logger.Warn("menu item not in catalog, ignoring tap", "menu_item_id", menuItemID)
		return
	}

	if line := c.cleanLineFor(menuItemID); line != nil {
		line.Quantity++
		c.notify()
		return
	}

	c.insertLine(&Line{
		MenuItemID: menuItemID,
		Name:       item.Name,
		UnitPrice:  item.OriginalPrice,
		Quantity:   1,
		IsPromo:    item.IsPromo,
		Discount:   None(),
		SugarLevel: DefaultSugarLevel,
	})
	c.notify()
}

// AddRestoredLine appends a default-customization line with an explicit
// quantity. Used when rehydrating a cart from a pending invoice: quantity
// is restored, per-line customizations are not.
func (c *Cart) AddRestoredLine(item catalog.MenuItem, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	c.insertLine(&Line{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.OriginalPrice,
		Quantity:   quantity,
		IsPromo:    item.IsPromo,
		Discount:   None(),
		SugarLevel: DefaultSugarLevel,
	})
	c.notify()
}

// ChangeQuantity adjusts a line's quantity by delta, removing the line
// when the result drops to zero or below. An unknown id is a logged no-op.
func (c *Cart) ChangeQuantity(uniqueID string, delta int) {
	line, ok := c.lines[uniqueID]
	if !ok {
		c.logger.Warn("quantity change for unknown line", "line_id", uniqueID)
		return
	}
	line.Quantity += delta
	if line.Quantity <= 0 {
		c.removeLine(uniqueID)
	}
	c.notify()
}

// LineEdit carries the full editor state applied by UpdateLine.
type LineEdit struct {
	Quantity   int
	Notes      string
	Discount   Discount
	SugarLevel string
}

// UpdateLine applies the line editor's result.
//
// With split=false the line is mutated in place (and removed if the edited
// quantity is zero or below). With split=true the edited customization
// becomes its own line with quantity 1, and any remaining quantity is
// re-created as a fresh default line; a split of a single-unit line
// degenerates to an in-place edit.
func (c *Cart) UpdateLine(uniqueID string, edit LineEdit, split bool) error {
	line, ok := c.lines[uniqueID]
	if !ok {
		return poserr.NotFound("order line %s not found", uniqueID)
	}
	if edit.Discount.Value < 0 {
		return poserr.Validation("discount value cannot be negative: %v", edit.Discount.Value)
	}
	if edit.Discount.Unit == "" {
		edit.Discount.Unit = UnitPercent
	}
	if !ValidUnit(edit.Discount.Unit) {
		return poserr.Validation("unknown discount unit %q", edit.Discount.Unit)
	}
	if edit.SugarLevel == "" {
		edit.SugarLevel = DefaultSugarLevel
	}

	if split {
		remainder := line.Quantity - 1

		line.Quantity = 1
		line.Notes = edit.Notes
		line.Discount = edit.Discount
		line.SugarLevel = edit.SugarLevel

		if remainder > 0 {
			if item, ok := c.catalog.ByID(line.MenuItemID); ok {
				c.insertLine(&Line{
					MenuItemID: line.MenuItemID,
					Name:       line.Name,
					UnitPrice:  item.OriginalPrice,
					Quantity:   remainder,
					IsPromo:    item.IsPromo,
					Discount:   None(),
					SugarLevel: DefaultSugarLevel,
				})
			} else {
				c.logger.Warn("menu item missing during split, remainder dropped",
					"menu_item_id", line.MenuItemID, "remainder", remainder)
			}
		}
	} else {
		line.Quantity = edit.Quantity
		line.Notes = edit.Notes
		line.Discount = edit.Discount
		line.SugarLevel = edit.SugarLevel
		if line.Quantity <= 0 {
			c.removeLine(uniqueID)
		}
	}

	c.notify()
	return nil
}

// SetGlobalDiscount replaces the order-level discount.
func (c *Cart) SetGlobalDiscount(value float64, unit Unit) error {
	if value < 0 {
		return poserr.Validation("discount value cannot be negative: %v", value)
	}
	if !ValidUnit(unit) {
		return poserr.Validation("unknown discount unit %q", unit)
	}
	c.global = Discount{Value: value, Unit: unit}
	c.notify()
	return nil
}

// ClearGlobalDiscount resets the order-level discount to none.
func (c *Cart) ClearGlobalDiscount() {
	c.global = None()
	c.notify()
}

// GlobalDiscount returns the current order-level discount.
func (c *Cart) GlobalDiscount() Discount {
	return c.global
}

// Clear empties the order and resets every order-level selection,
// including the line-sequence counter.
func (c *Cart) Clear() {
	c.lines = make(map[string]*Line)
	c.order = c.order[:0]
	c.seq = 0
	c.global = None()
	c.table = 0
	c.payment = PaymentNone
	c.editingInvoiceID = ""
	c.notify()
}

// Lines returns the order lines in display (insertion) order.
func (c *Cart) Lines() []*Line {
	out := make([]*Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.lines[id])
	}
	return out
}

// Line looks up a single line by id.
func (c *Cart) Line(uniqueID string) (*Line, bool) {
	line, ok := c.lines[uniqueID]
	return line, ok
}

// Len returns the number of order lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the order has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// TotalUnits sums the quantities of all lines.
func (c *Cart) TotalUnits() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// SetTable selects the table number, zero meaning none.
func (c *Cart) SetTable(table int) {
	c.table = table
	c.notify()
}

// Table returns the selected table number.
func (c *Cart) Table() int {
	return c.table
}

// SetPayment selects the payment method.
func (c *Cart) SetPayment(method PaymentMethod) {
	c.payment = method
	c.notify()
}

// Payment returns the selected payment method.
func (c *Cart) Payment() PaymentMethod {
	return c.payment
}

// SetDeliveryApp records the delivery app label shown on the delivery
// payment button.
func (c *Cart) SetDeliveryApp(app string) {
	if app != "" {
		c.deliveryApp = app
	}
}

// DeliveryApp returns the selected delivery app label.
func (c *Cart) DeliveryApp() string {
	return c.deliveryApp
}

// SetEditingInvoice marks the cart as editing an existing pending invoice.
func (c *Cart) SetEditingInvoice(invoiceID string) {
	c.editingInvoiceID = invoiceID
}

// EditingInvoiceID returns the invoice being edited, or "".
func (c *Cart) EditingInvoiceID() string {
	return c.editingInvoiceID
}

// cleanLineFor finds a consolidation target: a line for the same catalog
// item with no customization. Scanned in display order so the earliest
// clean line wins deterministically.
func (c *Cart) cleanLineFor(menuItemID string) *Line {
	for _, id := range c.order {
		line := c.lines[id]
		if line.MenuItemID == menuItemID && line.Clean() {
			return line
		}
	}
	return nil
}

// insertLine assigns a unique id and appends the line to the display order.
func (c *Cart) insertLine(line *Line) {
	c.seq++
	line.UniqueID = fmt.Sprintf("%s-%d", line.MenuItemID, c.seq)
	c.lines[line.UniqueID] = line
	c.order = append(c.order, line.UniqueID)
}

func (c *Cart) removeLine(uniqueID string) {
	delete(c.lines, uniqueID)
	for i, id := range c.order {
		if id == uniqueID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// notify applies the empty-cart reset rule and fires the change hook.
// When the last line disappears the global discount and payment selection
// are cleared; the sequence counter and table selection survive until an
// explicit Clear.
func (c *Cart) notify() {
	if len(c.lines) == 0 {
		c.global = None()
		c.payment = PaymentNone
	}
	if c.onChange != nil {
		c.onChange()
	}
}
