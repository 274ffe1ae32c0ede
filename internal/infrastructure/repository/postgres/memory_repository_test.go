package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avosseler/vendormind/internal/core/domain"
)

func TestMemoryRepositoryGetVendorMemory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewMemoryRepository(db)

	patternRows := sqlmock.NewRows([]string{"field", "regex", "confidence", "usage_count", "last_used"}).
		AddRow("serviceDate", `Leistungsdatum:?\s*(\d{2}\.\d{2}\.\d{4})`, 0.6, 3, time.Now())
	corrRows := sqlmock.NewRows([]string{"field", "trigger_value", "corrected_value", "condition", "confidence", "usage_count"}).
		AddRow("lineItems[0].sku", "Seefracht", "FREIGHT", "", 0.8, 1)

	mock.ExpectQuery("FROM vendor_patterns").
		WithArgs("Hanseatic Logistik GmbH").
		WillReturnRows(patternRows)
	mock.ExpectQuery("FROM vendor_value_corrections").
		WithArgs("Hanseatic Logistik GmbH").
		WillReturnRows(corrRows)

	mem, err := repo.GetVendorMemory(context.Background(), "Hanseatic Logistik GmbH")
	if err != nil {
		t.Fatalf("GetVendorMemory() error = %v", err)
	}
	if len(mem.Patterns) != 1 || len(mem.Corrections) != 1 {
		t.Fatalf("unexpected memory: %+v", mem)
	}
	if mem.Corrections[0].TriggerValue != "Seefracht" {
		t.Fatalf("TriggerValue = %q", mem.Corrections[0].TriggerValue)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMemoryRepositoryGetVendorMemoryEmptyForUnknownVendor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewMemoryRepository(db)

	mock.ExpectQuery("FROM vendor_patterns").
		WithArgs("Unknown").
		WillReturnRows(sqlmock.NewRows([]string{"field", "regex", "confidence", "usage_count", "last_used"}))
	mock.ExpectQuery("FROM vendor_value_corrections").
		WithArgs("Unknown").
		WillReturnRows(sqlmock.NewRows([]string{"field", "trigger_value", "corrected_value", "condition", "confidence", "usage_count"}))

	mem, err := repo.GetVendorMemory(context.Background(), "Unknown")
	if err != nil {
		t.Fatalf("GetVendorMemory() error = %v", err)
	}
	if len(mem.Patterns) != 0 || len(mem.Corrections) != 0 {
		t.Fatalf("unknown vendor must yield empty memory, got %+v", mem)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMemoryRepositoryAddPatternUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewMemoryRepository(db)
	pattern := domain.ExtractionPattern{
		Field:      "serviceDate",
		Regex:      `Leistungsdatum:?\s*(\d{2}\.\d{2}\.\d{4})`,
		Confidence: 0.6,
		UsageCount: 1,
		LastUsed:   time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO vendor_patterns").
		WithArgs("ACME", pattern.Field, pattern.Regex, pattern.Confidence, pattern.UsageCount, pattern.LastUsed,
			domain.ConfidenceReinforcement).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.AddPattern(context.Background(), "ACME", pattern); err != nil {
		t.Fatalf("AddPattern() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMemoryRepositoryReset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewMemoryRepository(db)
	mock.ExpectExec("TRUNCATE vendor_patterns").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
