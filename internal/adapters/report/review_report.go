package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/avosseler/vendormind/internal/core/domain"
)

const reviewSheet = "Review Queue"

// ReviewReportWriter exports the invoices flagged for human review as an
// XLSX workbook for the accounting team.
type ReviewReportWriter struct {
	path string
}

func NewReviewReportWriter(path string) *ReviewReportWriter {
	return &ReviewReportWriter{path: path}
}

var reviewHeader = []string{
	"Invoice ID",
	"Vendor",
	"Invoice Number",
	"Confidence",
	"Corrections",
	"Reasoning",
	"Processed At",
}

func (w *ReviewReportWriter) Write(results []domain.ProcessResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reviewSheet); err != nil {
		return fmt.Errorf("rename report sheet: %w", err)
	}

	for col, title := range reviewHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(reviewSheet, cell, title); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	for _, result := range results {
		if !result.RequiresHumanReview {
			continue
		}
		values := []any{
			result.InvoiceID,
			result.Vendor,
			result.NormalizedFields.InvoiceNumber,
			result.ConfidenceScore,
			len(result.Corrections),
			result.Reasoning,
			result.ProcessedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("data cell name: %w", err)
			}
			if err := f.SetCellValue(reviewSheet, cell, value); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
		row++
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save review report %s: %w", w.path, err)
	}
	return nil
}

// SummaryLine is a log-friendly digest of what the workbook contains.
func SummaryLine(results []domain.ProcessResult) string {
	flagged := 0
	vendors := map[string]struct{}{}
	for _, result := range results {
		if result.RequiresHumanReview {
			flagged++
			vendors[result.Vendor] = struct{}{}
		}
	}
	names := make([]string, 0, len(vendors))
	for vendor := range vendors {
		names = append(names, vendor)
	}
	sort.Strings(names)
	return fmt.Sprintf("%d invoices flagged across %d vendors: %s", flagged, len(vendors), strings.Join(names, ", "))
}
