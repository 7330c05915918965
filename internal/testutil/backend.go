package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/paintbistro/posterm/internal/api"
	"github.com/paintbistro/posterm/internal/catalog"
	"github.com/paintbistro/posterm/internal/invoice"
)

// Backend is an in-process stand-in for the POS backend, covering the
// endpoints the terminal uses. A mutex guards state because httptest
// serves requests on their own goroutines.
type Backend struct {
	mu sync.Mutex

	Settings   api.Settings
	MenuItems  []catalog.MenuItem
	Categories []string

	invoices map[string]invoice.Invoice
	order    []string
	nextID   int

	// Down makes every endpoint answer 500, simulating an outage.
	Down bool
}

// NewBackend returns a backend seeded with the standard menu and settings.
func NewBackend() *Backend {
	return &Backend{
		Settings: api.Settings{
			ExchangeRate:  4000,
			ReceiptHeader: "Paint Coffee\nART & BISTRO",
			ReceiptFooter: "Thank you!",
		},
		MenuItems:  Menu(),
		Categories: []string{"Drink", "Food"},
		invoices:   make(map[string]invoice.Invoice),
	}
}

// Seed stores an invoice directly, bypassing the HTTP surface.
func (b *Backend) Seed(inv invoice.Invoice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.invoices[inv.InvoiceID]; !ok {
		b.order = append(b.order, inv.InvoiceID)
	}
	b.invoices[inv.InvoiceID] = inv
}

// Invoice returns a stored invoice by id.
func (b *Backend) Invoice(id string) (invoice.Invoice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	inv, ok := b.invoices[id]
	return inv, ok
}

// InvoiceCount returns how many invoices the backend holds.
func (b *Backend) InvoiceCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.invoices)
}

// Handler returns the backend's HTTP surface.
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /settings", b.guard(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, b.Settings)
	}))
	mux.HandleFunc("PUT /admin/settings", b.guard(func(w http.ResponseWriter, r *http.Request) {
		var s api.Settings
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			writeError(w, http.StatusBadRequest, "invalid settings payload")
			return
		}
		// rate changes take effect at midnight
		b.Settings.PendingExchangeRate = s.ExchangeRate
		b.Settings.ReceiptHeader = s.ReceiptHeader
		b.Settings.ReceiptFooter = s.ReceiptFooter
		writeJSON(w, b.Settings)
	}))

	mux.HandleFunc("GET /menu", b.guard(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, b.MenuItems)
	}))
	mux.HandleFunc("GET /categories", b.guard(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, b.Categories)
	}))

	mux.HandleFunc("GET /invoices", b.guard(func(w http.ResponseWriter, r *http.Request) {
		out := make([]invoice.Invoice, 0, len(b.order))
		for _, id := range b.order {
			if inv, ok := b.invoices[id]; ok {
				out = append(out, inv)
			}
		}
		writeJSON(w, out)
	}))
	mux.HandleFunc("GET /invoices/{id}", b.guard(func(w http.ResponseWriter, r *http.Request) {
		inv, ok := b.invoices[r.PathValue("id")]
		if !ok {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		writeJSON(w, inv)
	}))
	mux.HandleFunc("POST /invoices", b.guard(func(w http.ResponseWriter, r *http.Request) {
		var inv invoice.Invoice
		if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
			writeError(w, http.StatusBadRequest, "invalid invoice payload")
			return
		}
		b.nextID++
		inv.InvoiceID = fmt.Sprintf("665f000000000000000%05d", b.nextID)
		b.invoices[inv.InvoiceID] = inv
		b.order = append(b.order, inv.InvoiceID)
		writeJSON(w, inv)
	}))
	mux.HandleFunc("PUT /invoices/{id}", b.guard(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if _, ok := b.invoices[id]; !ok {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		var inv invoice.Invoice
		if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
			writeError(w, http.StatusBadRequest, "invalid invoice payload")
			return
		}
		inv.InvoiceID = id
		b.invoices[id] = inv
		writeJSON(w, inv)
	}))
	mux.HandleFunc("DELETE /invoices/{id}", b.guard(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		inv, ok := b.invoices[id]
		if !ok {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		if inv.Status == invoice.StatusPaid && r.Header.Get("x-user-role") != "admin" {
			writeError(w, http.StatusForbidden, "Only administrators can delete paid invoices")
			return
		}
		delete(b.invoices, id)
		writeJSON(w, map[string]string{"message": "deleted"})
	}))

	return mux
}

// guard serializes handlers and applies the outage switch.
func (b *Backend) guard(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.Down {
			writeError(w, http.StatusInternalServerError, "backend down")
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
