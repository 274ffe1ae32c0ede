package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/avosseler/vendormind/internal/core/domain"
)

func testInvoice() *domain.Invoice {
	return &domain.Invoice{
		ID:         "inv-1",
		Vendor:     "Hanseatic Logistik GmbH",
		Confidence: 0.9,
		Fields: domain.InvoiceFields{
			InvoiceNumber: "R-2024-001",
			InvoiceDate:   "2024-01-15",
			Currency:      "EUR",
			NetTotal:      100,
			TaxTotal:      19,
			GrossTotal:    119,
			TaxRate:       0.19,
		},
	}
}

func TestProcessCleanInvoicePasses(t *testing.T) {
	uc := NewProcessInvoiceUseCase(newMemoryStoreFake())

	res, err := uc.Process(context.Background(), testInvoice(), domain.ReferenceData{}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if res.RequiresHumanReview {
		t.Fatalf("clean invoice flagged for review: %s", res.Reasoning)
	}
	if res.ConfidenceScore != 0.9 {
		t.Fatalf("ConfidenceScore = %v", res.ConfidenceScore)
	}
	if len(res.Corrections) != 0 {
		t.Fatalf("unexpected corrections: %+v", res.Corrections)
	}
	if len(res.AuditTrail) == 0 {
		t.Fatalf("expected audit trail entries")
	}
}

func TestProcessNeverMutatesInput(t *testing.T) {
	store := newMemoryStoreFake()
	store.vendor("Hanseatic Logistik GmbH").Corrections = []domain.ValueCorrection{
		{Field: domain.FieldCurrency, CorrectedValue: "USD", Condition: domain.ConditionAlways, Confidence: 0.9},
	}
	uc := NewProcessInvoiceUseCase(store)

	inv := testInvoice()
	res, err := uc.Process(context.Background(), inv, domain.ReferenceData{}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if res.NormalizedFields.Currency != "USD" {
		t.Fatalf("normalized currency = %q", res.NormalizedFields.Currency)
	}
	if inv.Fields.Currency != "EUR" {
		t.Fatalf("input invoice was mutated: %q", inv.Fields.Currency)
	}
}

func TestProcessDuplicateShortCircuits(t *testing.T) {
	uc := NewProcessInvoiceUseCase(newMemoryStoreFake())

	inv := testInvoice()
	// A tax inconsistency that would normally emit corrections.
	inv.Fields.NetTotal = 119
	inv.Fields.TaxTotal = 0
	inv.RawText = "Gesamtbetrag incl. VAT"
	prior := []domain.Invoice{
		{ID: "inv-0", Vendor: inv.Vendor, Fields: domain.InvoiceFields{InvoiceNumber: inv.Fields.InvoiceNumber}},
	}

	res, err := uc.Process(context.Background(), inv, domain.ReferenceData{}, prior)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !res.RequiresHumanReview {
		t.Fatalf("duplicate must require review")
	}
	if res.ConfidenceScore != 0.0 {
		t.Fatalf("duplicate confidence = %v", res.ConfidenceScore)
	}
	if len(res.Corrections) != 1 {
		t.Fatalf("expected only the duplicate flag correction, got %+v", res.Corrections)
	}
}

func TestProcessDuplicateExcludesSelf(t *testing.T) {
	uc := NewProcessInvoiceUseCase(newMemoryStoreFake())
	inv := testInvoice()
	prior := []domain.Invoice{*inv}

	res, err := uc.Process(context.Background(), inv, domain.ReferenceData{}, prior)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if res.RequiresHumanReview {
		t.Fatalf("self comparison must not trigger the duplicate check")
	}
}

func TestProcessPropagatesStoreFailure(t *testing.T) {
	store := newMemoryStoreFake()
	store.getErr = errors.New("connection refused")
	uc := NewProcessInvoiceUseCase(store)

	_, err := uc.Process(context.Background(), testInvoice(), domain.ReferenceData{}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrStoreFailure) {
		t.Fatalf("expected store failure kind, got %v", err)
	}
}
