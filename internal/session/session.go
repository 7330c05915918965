// Package session is the terminal's single-owner orchestrator. One
// Session owns the catalog cache, the rate provider, the cart, the REST
// client, the local snapshot store, and the renderer; every user-level
// operation goes through it from one goroutine.
//
// Mutations follow a strict order: validate first, then call the backend,
// and only clear or change local state after the backend accepted. A
// network failure therefore never half-applies an operation; the cart
// stays intact and the operation can be retried.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/paintbistro/posterm/internal/api"
	"github.com/paintbistro/posterm/internal/cart"
	"github.com/paintbistro/posterm/internal/catalog"
	"github.com/paintbistro/posterm/internal/config"
	"github.com/paintbistro/posterm/internal/invoice"
	"github.com/paintbistro/posterm/internal/pricing"
	"github.com/paintbistro/posterm/internal/rates"
	"github.com/paintbistro/posterm/internal/render"
	"github.com/paintbistro/posterm/internal/store"
)

// Session is one terminal's live state.
type Session struct {
	cfg    config.Config
	logger *slog.Logger

	client *api.Client
	store  *store.Store // nil disables the local snapshot

	catalog *catalog.Cache
	rates   *rates.Provider
	cart    *cart.Cart

	settings         api.Settings
	serverCategories []string

	// view, when set, receives a fresh order panel after every cart
	// mutation. The projection is one-directional: state changes drive
	// renders, never the other way around.
	view *render.Renderer
}

// New assembles a session. The store may be nil when no snapshot path is
// configured; a nil logger falls back to slog.Default.
func New(cfg config.Config, client *api.Client, st *store.Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Role != "" {
		client.SetRole(cfg.Role)
	}

	s := &Session{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		store:   st,
		catalog: catalog.NewCache(),
		rates:   rates.NewProvider(),
	}
	if cfg.FallbackRate > 0 {
		if err := s.rates.Set(cfg.FallbackRate); err != nil {
			logger.Warn("invalid fallback rate, keeping default", "rate", cfg.FallbackRate)
		}
	}

	s.cart = cart.New(s.catalog, logger)
	s.cart.OnChange(s.cartChanged)
	return s
}

// SetView directs the live order panel at w. Passing nil detaches it.
func (s *Session) SetView(w io.Writer) {
	if w == nil {
		s.view = nil
		return
	}
	s.view = render.New(w)
}

// cartChanged is the cart's change hook: recompute, log, re-render.
func (s *Session) cartChanged() {
	totals := pricing.Compute(s.cart, s.catalog, s.rates.Current())
	s.logger.Debug("cart changed",
		"lines", s.cart.Len(), "units", s.cart.TotalUnits(),
		"total_usd", totals.TotalUSD, "total_khr", totals.TotalKHR)

	if s.view != nil {
		if err := s.view.OrderPanel(s.cart, s.catalog, s.rates.Current()); err != nil {
			s.logger.Warn("order panel render failed", "error", err)
		}
	}
}

// Init loads settings, menu, and categories from the backend.
//
// Settings and categories degrade gracefully: a failure keeps the
// configured fallbacks and logs a warning. The menu does not; a terminal
// without a menu cannot take orders, so that error propagates.
func (s *Session) Init(ctx context.Context) error {
	settings, err := s.client.Settings(ctx)
	if err != nil {
		s.logger.Warn("settings unavailable, using fallback rate",
			"rate", s.rates.Current(), "error", err)
	} else {
		s.applySettings(settings)
	}

	items, err := s.client.Menu(ctx)
	if err != nil {
		return err
	}
	s.catalog.Replace(items)

	// Validation needs the server's category list; without it every
	// category would look unknown, so a failed fetch skips the check.
	cats, err := s.client.Categories(ctx)
	if err != nil {
		s.logger.Warn("categories unavailable, cannot validate menu; deriving tabs from menu",
			"error", err)
	} else {
		s.serverCategories = cats
		for _, issue := range s.catalog.Validate(cats) {
			s.logger.Warn("menu item with unknown category",
				"item", issue.ItemName, "category", issue.Category)
		}
	}

	s.logger.Info("session ready",
		"menu_items", s.catalog.Len(), "rate", s.rates.Current())
	return nil
}

func (s *Session) applySettings(settings api.Settings) {
	s.settings = settings
	if settings.ExchangeRate > 0 {
		if err := s.rates.Set(settings.ExchangeRate); err != nil {
			s.logger.Warn("rejecting server exchange rate", "rate", settings.ExchangeRate)
		}
	}
	// Unconditional: zero means the backend promoted or dropped a
	// previously scheduled rate, and the display must clear with it.
	s.rates.SetPending(settings.PendingExchangeRate)
}

// Settings returns the last loaded shop settings.
func (s *Session) Settings() api.Settings {
	return s.settings
}

// UpdateSettings saves shop settings through the admin endpoint and
// applies what the backend reports back. A pending rate is surfaced for
// display but the live rate only moves if the backend moved it.
func (s *Session) UpdateSettings(ctx context.Context, settings api.Settings) (api.Settings, error) {
	updated, err := s.client.UpdateSettings(ctx, settings)
	if err != nil {
		return api.Settings{}, err
	}
	s.applySettings(updated)
	return updated, nil
}

// Rate returns the live USD to KHR rate.
func (s *Session) Rate() float64 {
	return s.rates.Current()
}

// PendingRate returns a scheduled rate change, if the backend announced one.
func (s *Session) PendingRate() (float64, bool) {
	return s.rates.Pending()
}

// Cart exposes the order model for read access; mutations should go
// through the session's operations.
func (s *Session) Cart() *cart.Cart {
	return s.cart
}

// Totals computes the current order totals at the live rate.
func (s *Session) Totals() pricing.Totals {
	return pricing.Compute(s.cart, s.catalog, s.rates.Current())
}

// Menu returns the active menu items.
func (s *Session) Menu() []catalog.MenuItem {
	return s.catalog.Active()
}

// MenuCategories returns the category tabs: the union of server-managed
// categories and those present on menu items, All first.
func (s *Session) MenuCategories() []string {
	return s.catalog.Categories(s.serverCategories)
}

// FilterMenu returns the active items of one category tab.
func (s *Session) FilterMenu(category string) []catalog.MenuItem {
	return s.catalog.FilterCategory(category)
}

// SearchMenu returns the active items matching a search term.
func (s *Session) SearchMenu(term string) []catalog.MenuItem {
	return s.catalog.Search(term)
}

// priceMap builds the name-to-menu-price lookup used by receipts and the
// daily report.
func (s *Session) priceMap() map[string]float64 {
	return s.catalog.PriceMap()
}

// visibleInvoices hides what the terminal never shows.
func visibleInvoices(list []invoice.Invoice) []invoice.Invoice {
	out := make([]invoice.Invoice, 0, len(list))
	for _, inv := range list {
		if inv.Status == invoice.StatusCancelled {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// matchesInvoice implements the invoices-page text search: id, table,
// total, status, and payment method all participate.
func matchesInvoice(inv invoice.Invoice, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	fields := []string{
		strings.ToLower(inv.InvoiceID),
		strings.ToLower(string(inv.Status)),
		strings.ToLower(inv.PaymentMethod),
		inv.Date.Format("02-01-2006"),
		strconv.Itoa(inv.Table),
		fmt.Sprintf("%.2f", inv.Total),
	}
	for _, f := range fields {
		if strings.Contains(f, term) {
			return true
		}
	}
	return false
}
