package ports

import (
	"context"
	"io"

	"github.com/avosseler/vendormind/internal/core/domain"
)

// MemoryStore persists per-vendor learned rules. GetVendorMemory returns
// an empty record for unknown vendors; both Add methods upsert by the
// rule's identity key and reinforce confidence on repeats.
type MemoryStore interface {
	GetVendorMemory(ctx context.Context, vendor string) (domain.VendorMemory, error)
	AddPattern(ctx context.Context, vendor string, pattern domain.ExtractionPattern) error
	AddStaticCorrection(ctx context.Context, vendor string, correction domain.ValueCorrection) error
	Reset(ctx context.Context) error
}

// InvoiceRepository persists invoices and their processing results.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus, errMessage string) error
	ListProcessed(ctx context.Context) ([]domain.Invoice, error)
	SaveResult(ctx context.Context, result *domain.ProcessResult) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes invoice-received events.
type MessageQueue interface {
	PublishInvoiceReceived(ctx context.Context, invoiceID string) error
	SubscribeInvoiceReceived(ctx context.Context, handler func(context.Context, string) error) error
}

// ReferenceSource supplies the externally maintained purchase orders and
// delivery notes the heuristics compare against.
type ReferenceSource interface {
	Load(ctx context.Context) (domain.ReferenceData, error)
}

// TextExtractor pulls raw text out of an uploaded source document.
type TextExtractor interface {
	Extract(ctx context.Context, data io.Reader) (string, error)
}
