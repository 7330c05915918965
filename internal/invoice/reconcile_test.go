package invoice_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintbistro/posterm/internal/cart"
	"github.com/paintbistro/posterm/internal/invoice"
	"github.com/paintbistro/posterm/internal/poserr"
	"github.com/paintbistro/posterm/internal/testutil"
)

// TestBuild_PaidInvoiceCarriesComputedTotals verifies the checkout payload:
// per-line effective prices, discount folded into a single USD amount, and
// the live exchange rate pinned onto the record.
func TestBuild_PaidInvoiceCarriesComputedTotals(t *testing.T) {
	cat := testutil.Catalog()
	c := cart.New(cat, slog.Default())

	c.AddItem("2") // Pepsi, promo 2.00 (original 2.50)
	c.AddItem("2")
	c.SetTable(7)
	c.SetPayment(cart.PaymentCard)
	require.NoError(t, c.SetGlobalDiscount(10, cart.UnitPercent))

	inv, err := invoice.Build(c, cat, 4000, invoice.StatusPaid)
	require.NoError(t, err)

	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Pepsi", inv.Items[0].Name)
	assert.Equal(t, 2, inv.Items[0].Quantity)
	assert.InDelta(t, 2.00, inv.Items[0].Price, 1e-9)
	assert.InDelta(t, 4.00, inv.Items[0].Total, 1e-9)

	// Subtotal is gross of promo; the promo saving counts as discount.
	assert.InDelta(t, 5.00, inv.Subtotal, 1e-9)
	assert.InDelta(t, 1.40, inv.Discount, 1e-9) // 1.00 promo saving + 0.40 global
	assert.InDelta(t, 3.60, inv.Total, 1e-9)

	assert.Equal(t, 7, inv.Table)
	assert.Equal(t, "card", inv.PaymentMethod)
	assert.InDelta(t, 4000, inv.ExchangeRate, 1e-9)
	assert.Equal(t, invoice.StatusPaid, inv.Status)
	assert.False(t, inv.Date.IsZero())
}

// TestBuild_EmptyCartRejected verifies an empty order cannot be submitted.
func TestBuild_EmptyCartRejected(t *testing.T) {
	cat := testutil.Catalog()
	c := cart.New(cat, slog.Default())

	for _, status := range []invoice.Status{invoice.StatusPaid, invoice.StatusPending} {
		_, err := invoice.Build(c, cat, 4000, status)
		assert.True(t, poserr.IsValidation(err), "status %s", status)
	}
}

// TestBuild_PaidRequiresPaymentMethod verifies paid checkout fails without a
// selected payment method, while a pending save silently defaults to cash.
func TestBuild_PaidRequiresPaymentMethod(t *testing.T) {
	cat := testutil.Catalog()
	c := cart.New(cat, slog.Default())
	c.AddItem("1")

	_, err := invoice.Build(c, cat, 4000, invoice.StatusPaid)
	assert.True(t, poserr.IsValidation(err))

	inv, err := invoice.Build(c, cat, 4000, invoice.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, "cash", inv.PaymentMethod)
	assert.Equal(t, invoice.StatusPending, inv.Status)
}

// TestBuild_RejectsTerminalStatuses verifies the terminal never creates
// deleted or cancelled records directly.
func TestBuild_RejectsTerminalStatuses(t *testing.T) {
	cat := testutil.Catalog()
	c := cart.New(cat, slog.Default())
	c.AddItem("1")
	c.SetPayment(cart.PaymentCash)

	for _, status := range []invoice.Status{invoice.StatusDeleted, invoice.StatusCancelled} {
		_, err := invoice.Build(c, cat, 4000, status)
		assert.True(t, poserr.IsValidation(err), "status %s", status)
	}
}

// TestResume_RestoresQuantitiesAndContext verifies resume-edit rebuilds the
// cart from a pending record: quantities come back, per-line customizations
// do not (they are not serialized), and the cart is flagged as editing.
func TestResume_RestoresQuantitiesAndContext(t *testing.T) {
	cat := testutil.Catalog()
	c := cart.New(cat, slog.Default())
	c.AddItem("1") // stale contents that must be cleared

	inv := testutil.PendingInvoice()
	require.NoError(t, invoice.Resume(inv, c, cat, slog.Default()))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Burger", lines[0].Name)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, "Coffee", lines[1].Name)
	assert.Equal(t, 2, lines[1].Quantity)
	for _, line := range lines {
		assert.True(t, line.Clean(), "restored lines carry default customization")
	}

	assert.Equal(t, 4, c.Table())
	assert.Equal(t, cart.PaymentCash, c.Payment())
	assert.Equal(t, inv.InvoiceID, c.EditingInvoiceID())
}

// TestResume_RepricesAtCurrentCatalog verifies restored lines pick up the
// current menu price rather than the price stored on the invoice.
func TestResume_RepricesAtCurrentCatalog(t *testing.T) {
	cat := testutil.Catalog()
	c := cart.New(cat, slog.Default())

	inv := testutil.PendingInvoice()
	inv.Items = []invoice.Item{{Name: "Coffee", Quantity: 1, Price: 9.99, Total: 9.99}}
	require.NoError(t, invoice.Resume(inv, c, cat, slog.Default()))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.InDelta(t, 3.50, lines[0].UnitPrice, 1e-9)
}

// TestResume_SkipsItemsMissingFromMenu verifies items whose name no longer
// matches the catalog are dropped instead of aborting the resume.
func TestResume_SkipsItemsMissingFromMenu(t *testing.T) {
	cat := testutil.Catalog()
	c := cart.New(cat, slog.Default())

	inv := testutil.PendingInvoice()
	inv.Items = append(inv.Items, invoice.Item{Name: "Discontinued Special", Quantity: 3, Price: 5, Total: 15})
	require.NoError(t, invoice.Resume(inv, c, cat, slog.Default()))

	assert.Equal(t, 2, c.Len())
}

// TestResume_OnlyPendingEditable verifies paid, deleted and cancelled
// invoices refuse to resume and leave the cart untouched.
func TestResume_OnlyPendingEditable(t *testing.T) {
	cat := testutil.Catalog()
	c := cart.New(cat, slog.Default())
	c.AddItem("1")

	inv := testutil.PaidInvoice()
	err := invoice.Resume(inv, c, cat, slog.Default())
	assert.True(t, poserr.IsPermission(err))
	assert.Equal(t, 1, c.Len())
}

// TestPinnedRate_FallsBackToLive covers records created before rates were
// stored on invoices.
func TestPinnedRate_FallsBackToLive(t *testing.T) {
	inv := testutil.PaidInvoice()
	assert.InDelta(t, 4100, inv.PinnedRate(4000), 1e-9)

	inv.ExchangeRate = 0
	assert.InDelta(t, 4000, inv.PinnedRate(4000), 1e-9)
}
