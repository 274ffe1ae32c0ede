package ports

import (
	"context"
	"io"

	"github.com/avosseler/vendormind/internal/core/domain"
)

// InvoiceProcessor is the inbound contract for normalizing one invoice.
// Processing reads vendor memory but never writes to it.
type InvoiceProcessor interface {
	Process(ctx context.Context, inv *domain.Invoice, refs domain.ReferenceData, prior []domain.Invoice) (*domain.ProcessResult, error)
}

// CorrectionTrainer is the inbound contract for learning from operator
// feedback. Learning writes vendor memory but never touches the invoice.
type CorrectionTrainer interface {
	Learn(ctx context.Context, inv *domain.Invoice, log domain.HumanCorrectionLog) error
}

// InvoiceJobProcessor drives the full load, normalize, persist cycle for
// one stored invoice and settles its terminal status.
type InvoiceJobProcessor interface {
	ProcessByID(ctx context.Context, invoiceID string) (*domain.ProcessResult, error)
}

// InvoiceIngestor accepts a new source document or pre-extracted invoice.
type InvoiceIngestor interface {
	IngestDocument(ctx context.Context, vendor, filename string, body io.Reader) (*domain.Invoice, error)
	IngestInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
}
