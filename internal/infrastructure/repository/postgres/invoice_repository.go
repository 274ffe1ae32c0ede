package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avosseler/vendormind/internal/core/domain"
)

type InvoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082802)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS invoices (
	id TEXT PRIMARY KEY,
	vendor TEXT NOT NULL,
	fields JSONB NOT NULL,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	raw_text TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS process_results (
	invoice_id TEXT PRIMARY KEY REFERENCES invoices(id),
	vendor TEXT NOT NULL,
	payload JSONB NOT NULL,
	requires_review BOOLEAN NOT NULL,
	confidence_score DOUBLE PRECISION NOT NULL,
	processed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status);
CREATE INDEX IF NOT EXISTS idx_invoices_vendor ON invoices(vendor);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	fieldsJSON, err := json.Marshal(inv.Fields)
	if err != nil {
		return fmt.Errorf("marshal invoice fields: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO invoices (id, vendor, fields, confidence, raw_text, status, error_message, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, inv.ID, inv.Vendor, fieldsJSON, inv.Confidence, inv.RawText, string(inv.Status), inv.Error, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, vendor, fields, confidence, raw_text, status, error_message, created_at, updated_at
FROM invoices
WHERE id = $1
`, id)

	inv, err := scanInvoice(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrInvoiceNotFound, "get invoice", fmt.Errorf("id %s", id))
		}
		return nil, err
	}
	return inv, nil
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus, errMessage string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE invoices
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// ListProcessed returns every invoice already through the engine, the
// population the duplicate detector compares against.
func (r *InvoiceRepository) ListProcessed(ctx context.Context) ([]domain.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, vendor, fields, confidence, raw_text, status, error_message, created_at, updated_at
FROM invoices
WHERE status IN ($1, $2)
ORDER BY created_at
`, string(domain.StatusProcessed), string(domain.StatusNeedsReview))
	if err != nil {
		return nil, fmt.Errorf("query processed invoices: %w", err)
	}
	defer rows.Close()

	var out []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processed invoices: %w", err)
	}
	return out, nil
}

func (r *InvoiceRepository) SaveResult(ctx context.Context, result *domain.ProcessResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal process result: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO process_results (invoice_id, vendor, payload, requires_review, confidence_score, processed_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (invoice_id) DO UPDATE SET
	payload = EXCLUDED.payload,
	requires_review = EXCLUDED.requires_review,
	confidence_score = EXCLUDED.confidence_score,
	processed_at = EXCLUDED.processed_at
`, result.InvoiceID, result.Vendor, payload, result.RequiresHumanReview, result.ConfidenceScore, result.ProcessedAt)
	if err != nil {
		return fmt.Errorf("save process result: %w", err)
	}
	return nil
}

func scanInvoice(scan func(dest ...any) error) (*domain.Invoice, error) {
	var inv domain.Invoice
	var fieldsRaw []byte
	var status string
	var errMessage sql.NullString

	err := scan(&inv.ID, &inv.Vendor, &fieldsRaw, &inv.Confidence, &inv.RawText,
		&status, &errMessage, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fieldsRaw, &inv.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal invoice fields: %w", err)
	}
	inv.Status = domain.InvoiceStatus(status)
	inv.Error = errMessage.String
	return &inv, nil
}
