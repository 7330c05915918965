// Package testutil provides shared fixtures for terminal tests: a small
// fixed menu, invoice records, and an in-process backend stub.
package testutil

import (
	"time"

	"github.com/paintbistro/posterm/internal/catalog"
	"github.com/paintbistro/posterm/internal/invoice"
)

// Menu returns the standard six-item test menu. Two items carry an active
// promo so promo pricing paths are always exercised.
func Menu() []catalog.MenuItem {
	return []catalog.MenuItem{
		{ID: "1", Name: "Coca-Cola", OriginalPrice: 2.50, Category: "Drink", Type: "Cold", IsActive: true},
		{ID: "2", Name: "Pepsi", OriginalPrice: 2.50, PromoPrice: 2.00, IsPromo: true, Badge: "PROMO", Category: "Drink", Type: "Cold", IsActive: true},
		{ID: "3", Name: "Burger", OriginalPrice: 8.99, Category: "Food", Type: "Hot", IsActive: true},
		{ID: "4", Name: "French Fries", OriginalPrice: 3.99, PromoPrice: 2.99, IsPromo: true, Badge: "SALE", Category: "Food", Type: "Hot", IsActive: true},
		{ID: "5", Name: "Coffee", OriginalPrice: 3.50, Category: "Drink", Type: "Hot", IsActive: true},
		{ID: "6", Name: "Tea", OriginalPrice: 2.50, Category: "Drink", Type: "Hot", IsActive: true},
	}
}

// Catalog returns a cache pre-loaded with the standard test menu.
func Catalog() *catalog.Cache {
	cache := catalog.NewCache()
	cache.Replace(Menu())
	return cache
}

// PendingInvoice returns a saved order that is still editable: one Burger
// and two Coffees at table 4, rate pinned at 4000.
func PendingInvoice() invoice.Invoice {
	return invoice.Invoice{
		InvoiceID:     "665f1c2e9b1d8a0012ab3456",
		Date:          time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Table:         4,
		PaymentMethod: "cash",
		Items: []invoice.Item{
			{Name: "Burger", Quantity: 1, Price: 8.99, Total: 8.99},
			{Name: "Coffee", Quantity: 2, Price: 3.50, Total: 7.00},
		},
		Subtotal:     15.99,
		Discount:     0,
		Total:        15.99,
		ExchangeRate: 4000,
		Status:       invoice.StatusPending,
	}
}

// PaidInvoice returns a settled order with a discount and a pinned
// exchange rate that differs from the usual live rate.
func PaidInvoice() invoice.Invoice {
	return invoice.Invoice{
		InvoiceID:     "665f1c2e9b1d8a0012ab9999",
		Date:          time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Table:         2,
		PaymentMethod: "card",
		Items: []invoice.Item{
			{Name: "Pepsi", Quantity: 2, Price: 2.00, Total: 4.00},
		},
		Subtotal:     5.00,
		Discount:     1.00,
		Total:        4.00,
		ExchangeRate: 4100,
		Status:       invoice.StatusPaid,
	}
}
