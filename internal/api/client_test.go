package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintbistro/posterm/internal/invoice"
	"github.com/paintbistro/posterm/internal/poserr"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, nil)
}

// TestMenu_TransformDefaults verifies the normalization of sparse menu
// records: legacy price field, missing category, implicit isActive, and id
// fallback chain ending in a generated id.
func TestMenu_TransformDefaults(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/menu", r.URL.Path)
		w.Write([]byte(`[
			{"_id": "abc123", "name": "Latte", "originalPrice": 3.25, "category": "Drink", "isActive": true},
			{"id": 7, "name": "Bagel", "price": 1.75},
			{"name": "Mystery", "originalPrice": 1.00, "isActive": false}
		]`))
	}))

	items, err := c.Menu(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "abc123", items[0].ID)
	assert.InDelta(t, 3.25, items[0].OriginalPrice, 1e-9)

	assert.Equal(t, "7", items[1].ID)
	assert.InDelta(t, 1.75, items[1].OriginalPrice, 1e-9) // legacy price field
	assert.Equal(t, "Uncategorized", items[1].Category)
	assert.True(t, items[1].IsActive)

	assert.NotEmpty(t, items[2].ID) // generated
	assert.False(t, items[2].IsActive)
}

// TestMenu_ObjectID verifies extended-JSON object ids decode.
func TestMenu_ObjectID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id": {"$oid": "665f1c2e9b1d8a0012ab0001"}, "name": "Mocha", "originalPrice": 3.75}]`))
	}))

	items, err := c.Menu(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "665f1c2e9b1d8a0012ab0001", items[0].ID)
}

// TestCategories_MixedShapes verifies the endpoint's two historical
// response shapes decode to the same list.
func TestCategories_MixedShapes(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["Drink", {"name": "Food"}]`))
	}))

	cats, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Drink", "Food"}, cats)
}

// TestSettings_PendingRate verifies the pending rate rides along without
// touching the live one.
func TestSettings_PendingRate(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"exchangeRate": 4000, "pendingExchangeRate": 4100, "receiptHeader": "Paint Coffee"}`))
	}))

	s, err := c.Settings(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 4000, s.ExchangeRate, 1e-9)
	assert.InDelta(t, 4100, s.PendingExchangeRate, 1e-9)
}

// TestDeleteInvoice_SendsRoleHeader verifies the role header and the
// per-request correlation id are attached.
func TestDeleteInvoice_SendsRoleHeader(t *testing.T) {
	var gotRole, gotRequestID string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotRole = r.Header.Get("x-user-role")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))

	require.NoError(t, c.DeleteInvoice(context.Background(), "inv-1"))
	assert.Equal(t, DefaultRole, gotRole)
	assert.NotEmpty(t, gotRequestID)
}

// TestDeleteInvoice_PermissionDenied verifies a 403 surfaces the server's
// message verbatim as a permission error.
func TestDeleteInvoice_PermissionDenied(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "Only administrators can delete paid invoices"}`))
	}))

	err := c.DeleteInvoice(context.Background(), "inv-1")
	require.Error(t, err)
	assert.True(t, poserr.IsPermission(err))
	assert.Contains(t, err.Error(), "Only administrators can delete paid invoices")
}

// TestInvoice_NotFound maps 404 onto the not-found code.
func TestInvoice_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "invoice not found"}`))
	}))

	_, err := c.Invoice(context.Background(), "missing")
	assert.True(t, poserr.IsNotFound(err))
}

// TestServerError_IsNetwork maps 5xx onto the network code.
func TestServerError_IsNetwork(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.Invoices(context.Background())
	assert.True(t, poserr.IsNetwork(err))
}

// TestTransportFailure_IsNetwork verifies an unreachable backend maps onto
// the network code rather than leaking a url.Error.
func TestTransportFailure_IsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // immediately unreachable
	c := New(srv.URL, nil)

	_, err := c.Invoices(context.Background())
	assert.True(t, poserr.IsNetwork(err))
}

// TestCreateInvoice_RoundTrip verifies the payload goes out as JSON and the
// stored record, id included, comes back.
func TestCreateInvoice_RoundTrip(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var rec invoice.Invoice
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		rec.InvoiceID = "665f1c2e9b1d8a0012ab0042"
		json.NewEncoder(w).Encode(rec)
	}))

	created, err := c.CreateInvoice(context.Background(), invoice.Invoice{
		Items:  []invoice.Item{{Name: "Coffee", Quantity: 1, Price: 3.50, Total: 3.50}},
		Total:  3.50,
		Status: invoice.StatusPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, "665f1c2e9b1d8a0012ab0042", created.InvoiceID)
	assert.InDelta(t, 3.50, created.Total, 1e-9)
}
