package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintbistro/posterm/internal/invoice"
	"github.com/paintbistro/posterm/internal/poserr"
	"github.com/paintbistro/posterm/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// TestOpen_Idempotent verifies reopening an existing database works.
func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

// TestReplaceSnapshot_RoundTrip verifies invoices survive the store intact,
// items included, and come back newest first.
func TestReplaceSnapshot_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	pending := testutil.PendingInvoice()
	paid := testutil.PaidInvoice()
	require.NoError(t, s.ReplaceSnapshot(ctx, []invoice.Invoice{pending, paid}))

	got, err := s.Invoices(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// paid is dated later than pending
	assert.Equal(t, paid.InvoiceID, got[0].InvoiceID)
	assert.Equal(t, pending.InvoiceID, got[1].InvoiceID)

	assert.Equal(t, pending.Items, got[1].Items)
	assert.Equal(t, invoice.StatusPending, got[1].Status)
	assert.InDelta(t, pending.Total, got[1].Total, 1e-9)
	assert.InDelta(t, pending.ExchangeRate, got[1].ExchangeRate, 1e-9)
	assert.True(t, pending.Date.Equal(got[1].Date))
}

// TestReplaceSnapshot_Wholesale verifies a new snapshot fully replaces the
// previous one rather than merging into it.
func TestReplaceSnapshot_Wholesale(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceSnapshot(ctx, []invoice.Invoice{
		testutil.PendingInvoice(), testutil.PaidInvoice(),
	}))
	require.NoError(t, s.ReplaceSnapshot(ctx, []invoice.Invoice{
		testutil.PaidInvoice(),
	}))

	got, err := s.Invoices(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, testutil.PaidInvoice().InvoiceID, got[0].InvoiceID)

	fetched, err := s.FetchedAt(ctx)
	require.NoError(t, err)
	assert.False(t, fetched.IsZero())
}

// TestReplaceSnapshot_SkipsUnsavedInvoices verifies records without a
// server id are not cached.
func TestReplaceSnapshot_SkipsUnsavedInvoices(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	unsaved := testutil.PendingInvoice()
	unsaved.InvoiceID = ""
	require.NoError(t, s.ReplaceSnapshot(ctx, []invoice.Invoice{unsaved}))

	got, err := s.Invoices(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestInvoice_NotFound maps a missing row onto the not-found code.
func TestInvoice_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Invoice(context.Background(), "nope")
	assert.True(t, poserr.IsNotFound(err))
}

// TestStats_ExcludesCancelled verifies the counters: cancelled invoices
// are invisible, revenue counts paid totals only.
func TestStats_ExcludesCancelled(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	cancelled := testutil.PaidInvoice()
	cancelled.InvoiceID = "665f1c2e9b1d8a0012ab0001"
	cancelled.Status = invoice.StatusCancelled

	require.NoError(t, s.ReplaceSnapshot(ctx, []invoice.Invoice{
		testutil.PendingInvoice(), // pending, 15.99
		testutil.PaidInvoice(),    // paid, 4.00
		cancelled,
	}))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 2, Paid: 1, Pending: 1, Revenue: 4.00}, st)
}
