package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/avosseler/vendormind/internal/core/domain"
)

func sampleResults() []domain.ProcessResult {
	return []domain.ProcessResult{
		{
			InvoiceID:           "inv-1",
			Vendor:              "Hanseatic Logistik GmbH",
			NormalizedFields:    domain.InvoiceFields{InvoiceNumber: "R-2024-001"},
			RequiresHumanReview: true,
			ConfidenceScore:     0.55,
			Reasoning:           "tax calculation invalid",
			ProcessedAt:         time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC),
		},
		{
			InvoiceID:           "inv-2",
			Vendor:              "Nordsee Catering AG",
			NormalizedFields:    domain.InvoiceFields{InvoiceNumber: "NC-77"},
			RequiresHumanReview: false,
			ConfidenceScore:     0.95,
			ProcessedAt:         time.Date(2024, 1, 20, 11, 0, 0, 0, time.UTC),
		},
		{
			InvoiceID:           "inv-3",
			Vendor:              "Nordsee Catering AG",
			NormalizedFields:    domain.InvoiceFields{InvoiceNumber: "NC-78"},
			RequiresHumanReview: true,
			ConfidenceScore:     0.40,
			Reasoning:           "missing required field invoiceDate",
			ProcessedAt:         time.Date(2024, 1, 20, 11, 15, 0, 0, time.UTC),
		},
	}
}

func TestWriteReviewReportOnlyFlaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review_queue.xlsx")
	writer := NewReviewReportWriter(path)

	if err := writer.Write(sampleResults()); err != nil {
		t.Fatalf("write report: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(reviewSheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 flagged rows, got %d rows", len(rows))
	}
	if rows[0][0] != "Invoice ID" {
		t.Fatalf("expected header row, got %v", rows[0])
	}
	if rows[1][0] != "inv-1" || rows[2][0] != "inv-3" {
		t.Fatalf("expected flagged invoices inv-1 and inv-3, got %v / %v", rows[1], rows[2])
	}
	if rows[1][5] != "tax calculation invalid" {
		t.Fatalf("expected reasoning column, got %q", rows[1][5])
	}
}

func TestWriteReviewReportEmptyBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	writer := NewReviewReportWriter(path)

	if err := writer.Write(nil); err != nil {
		t.Fatalf("write empty report: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(reviewSheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}

func TestSummaryLine(t *testing.T) {
	line := SummaryLine(sampleResults())
	want := "2 invoices flagged across 2 vendors: Hanseatic Logistik GmbH, Nordsee Catering AG"
	if line != want {
		t.Fatalf("unexpected summary line: %q", line)
	}
}
