package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/paintbistro/posterm/internal/invoice"
	"github.com/paintbistro/posterm/internal/poserr"
)

// ReplaceSnapshot atomically replaces the cached invoices with the given
// set. Invoices without a server id are skipped; they cannot be keyed.
func (s *Store) ReplaceSnapshot(ctx context.Context, invoices []invoice.Invoice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM invoices"); err != nil {
		return fmt.Errorf("clear previous snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO invoices (
			invoice_id, date, table_no, payment_method, status,
			subtotal, discount, total, exchange_rate, created_by,
			last_modified_at, items
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, inv := range invoices {
		if inv.InvoiceID == "" {
			continue
		}
		items, err := json.Marshal(inv.Items)
		if err != nil {
			return fmt.Errorf("encode items of %s: %w", inv.InvoiceID, err)
		}
		lastModified := ""
		if !inv.LastModifiedAt.IsZero() {
			lastModified = inv.LastModifiedAt.Format(time.RFC3339Nano)
		}
		if _, err := stmt.ExecContext(ctx,
			inv.InvoiceID, inv.Date.Format(time.RFC3339Nano), inv.Table,
			inv.PaymentMethod, string(inv.Status),
			inv.Subtotal, inv.Discount, inv.Total, inv.ExchangeRate,
			inv.CreatedBy, lastModified, string(items),
		); err != nil {
			return fmt.Errorf("insert invoice %s: %w", inv.InvoiceID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshot_meta (id, fetched_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET fetched_at = excluded.fetched_at
	`, time.Now().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("record snapshot time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// FetchedAt returns when the snapshot was last replaced, or the zero time
// for an empty database.
func (s *Store) FetchedAt(ctx context.Context) (time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT fetched_at FROM snapshot_meta WHERE id = 1").Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read snapshot time: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse snapshot time %q: %w", raw, err)
	}
	return t, nil
}

// Invoices returns the cached invoices, newest first.
func (s *Store) Invoices(ctx context.Context) ([]invoice.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT invoice_id, date, table_no, payment_method, status,
		       subtotal, discount, total, exchange_rate, created_by,
		       last_modified_at, items
		FROM invoices
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	var out []invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot: %w", err)
	}
	return out, nil
}

// Invoice returns one cached invoice by id.
func (s *Store) Invoice(ctx context.Context, id string) (invoice.Invoice, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT invoice_id, date, table_no, payment_method, status,
		       subtotal, discount, total, exchange_rate, created_by,
		       last_modified_at, items
		FROM invoices
		WHERE invoice_id = ?
	`, id)

	inv, err := scanInvoice(row)
	if err == sql.ErrNoRows {
		return invoice.Invoice{}, poserr.NotFound("invoice %s not in local snapshot", id)
	}
	if err != nil {
		return invoice.Invoice{}, err
	}
	return inv, nil
}

// Stats are the invoice counters shown above the invoices list. Cancelled
// invoices are hidden from the terminal and excluded here too; Revenue is
// the paid total only.
type Stats struct {
	Total   int     `json:"total"`
	Paid    int     `json:"paid"`
	Pending int     `json:"pending"`
	Revenue float64 `json:"revenue"`
}

// Stats computes the counters from the cached snapshot.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'paid' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'paid' THEN total ELSE 0 END), 0)
		FROM invoices
		WHERE status != 'cancelled'
	`).Scan(&st.Total, &st.Paid, &st.Pending, &st.Revenue)
	if err != nil {
		return Stats{}, fmt.Errorf("compute invoice stats: %w", err)
	}
	return st, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row scanner) (invoice.Invoice, error) {
	var (
		inv          invoice.Invoice
		date         string
		status       string
		lastModified string
		items        string
	)
	err := row.Scan(&inv.InvoiceID, &date, &inv.Table, &inv.PaymentMethod,
		&status, &inv.Subtotal, &inv.Discount, &inv.Total, &inv.ExchangeRate,
		&inv.CreatedBy, &lastModified, &items)
	if err != nil {
		return invoice.Invoice{}, err
	}

	inv.Status = invoice.Status(status)
	if inv.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
		return invoice.Invoice{}, fmt.Errorf("parse date of %s: %w", inv.InvoiceID, err)
	}
	if lastModified != "" {
		if inv.LastModifiedAt, err = time.Parse(time.RFC3339Nano, lastModified); err != nil {
			return invoice.Invoice{}, fmt.Errorf("parse last modified of %s: %w", inv.InvoiceID, err)
		}
	}
	if err := json.Unmarshal([]byte(items), &inv.Items); err != nil {
		return invoice.Invoice{}, fmt.Errorf("decode items of %s: %w", inv.InvoiceID, err)
	}
	return inv, nil
}
