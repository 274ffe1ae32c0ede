package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avosseler/vendormind/internal/core/domain"
)

// MemoryRepository is the database-backed vendor memory store. Upserts
// are atomic ON CONFLICT statements so concurrent learns for the same
// vendor cannot lose usage counts or confidence reinforcements.
type MemoryRepository struct {
	db *sql.DB
}

func NewMemoryRepository(db *sql.DB) *MemoryRepository {
	return &MemoryRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *MemoryRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS vendor_patterns (
	vendor TEXT NOT NULL,
	field TEXT NOT NULL,
	regex TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	usage_count INTEGER NOT NULL DEFAULT 1,
	last_used TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (vendor, field, regex)
);

CREATE TABLE IF NOT EXISTS vendor_value_corrections (
	vendor TEXT NOT NULL,
	field TEXT NOT NULL,
	trigger_value TEXT NOT NULL DEFAULT '',
	corrected_value TEXT NOT NULL,
	condition TEXT NOT NULL DEFAULT '',
	confidence DOUBLE PRECISION NOT NULL,
	usage_count INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (vendor, field, trigger_value, corrected_value)
);

CREATE INDEX IF NOT EXISTS idx_vendor_patterns_vendor ON vendor_patterns(vendor);
CREATE INDEX IF NOT EXISTS idx_vendor_value_corrections_vendor ON vendor_value_corrections(vendor);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *MemoryRepository) GetVendorMemory(ctx context.Context, vendor string) (domain.VendorMemory, error) {
	mem := domain.VendorMemory{Vendor: vendor}

	rows, err := r.db.QueryContext(ctx, `
SELECT field, regex, confidence, usage_count, last_used
FROM vendor_patterns
WHERE vendor = $1
ORDER BY field, regex
`, vendor)
	if err != nil {
		return domain.VendorMemory{}, fmt.Errorf("query vendor patterns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.ExtractionPattern
		if err := rows.Scan(&p.Field, &p.Regex, &p.Confidence, &p.UsageCount, &p.LastUsed); err != nil {
			return domain.VendorMemory{}, fmt.Errorf("scan pattern: %w", err)
		}
		mem.Patterns = append(mem.Patterns, p)
	}
	if err := rows.Err(); err != nil {
		return domain.VendorMemory{}, fmt.Errorf("iterate patterns: %w", err)
	}

	corrRows, err := r.db.QueryContext(ctx, `
SELECT field, trigger_value, corrected_value, condition, confidence, usage_count
FROM vendor_value_corrections
WHERE vendor = $1
ORDER BY field, trigger_value, corrected_value
`, vendor)
	if err != nil {
		return domain.VendorMemory{}, fmt.Errorf("query vendor corrections: %w", err)
	}
	defer corrRows.Close()

	for corrRows.Next() {
		var c domain.ValueCorrection
		if err := corrRows.Scan(&c.Field, &c.TriggerValue, &c.CorrectedValue, &c.Condition, &c.Confidence, &c.UsageCount); err != nil {
			return domain.VendorMemory{}, fmt.Errorf("scan correction: %w", err)
		}
		mem.Corrections = append(mem.Corrections, c)
	}
	if err := corrRows.Err(); err != nil {
		return domain.VendorMemory{}, fmt.Errorf("iterate corrections: %w", err)
	}

	return mem, nil
}

func (r *MemoryRepository) AddPattern(ctx context.Context, vendor string, pattern domain.ExtractionPattern) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO vendor_patterns (vendor, field, regex, confidence, usage_count, last_used)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (vendor, field, regex) DO UPDATE SET
	usage_count = vendor_patterns.usage_count + 1,
	last_used = EXCLUDED.last_used,
	confidence = LEAST(1.0, vendor_patterns.confidence + $7)
`, vendor, pattern.Field, pattern.Regex, pattern.Confidence, pattern.UsageCount, pattern.LastUsed,
		domain.ConfidenceReinforcement)
	if err != nil {
		return fmt.Errorf("upsert pattern for vendor %q: %w", vendor, err)
	}
	return nil
}

func (r *MemoryRepository) AddStaticCorrection(ctx context.Context, vendor string, corr domain.ValueCorrection) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO vendor_value_corrections (vendor, field, trigger_value, corrected_value, condition, confidence, usage_count)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (vendor, field, trigger_value, corrected_value) DO UPDATE SET
	usage_count = vendor_value_corrections.usage_count + 1,
	confidence = LEAST(1.0, vendor_value_corrections.confidence + $8)
`, vendor, corr.Field, corr.TriggerValue, corr.CorrectedValue, corr.Condition, corr.Confidence, corr.UsageCount,
		domain.ConfidenceReinforcement)
	if err != nil {
		return fmt.Errorf("upsert static correction for vendor %q: %w", vendor, err)
	}
	return nil
}

func (r *MemoryRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `TRUNCATE vendor_patterns, vendor_value_corrections`); err != nil {
		return fmt.Errorf("reset vendor memory: %w", err)
	}
	return nil
}
