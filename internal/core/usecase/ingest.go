package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avosseler/vendormind/internal/core/domain"
	"github.com/avosseler/vendormind/internal/core/ports"
)

// IngestInvoiceUseCase accepts new invoices, either as a source PDF that
// still needs its text pulled and scraped, or as a pre-extracted invoice
// payload. Either way the invoice is persisted and queued for the engine.
type IngestInvoiceUseCase struct {
	repo      ports.InvoiceRepository
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	queue     ports.MessageQueue
}

func NewIngestInvoiceUseCase(
	repo ports.InvoiceRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	queue ports.MessageQueue,
) *IngestInvoiceUseCase {
	return &IngestInvoiceUseCase{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		queue:     queue,
	}
}

func (uc *IngestInvoiceUseCase) IngestDocument(
	ctx context.Context,
	vendor, filename string,
	body io.Reader,
) (*domain.Invoice, error) {
	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))

	var buffered bytes.Buffer
	tee := io.TeeReader(body, &buffered)
	if err := uc.storage.Save(ctx, storageKey, tee); err != nil {
		return nil, fmt.Errorf("save document to object storage: %w", err)
	}

	rawText, err := uc.extractor.Extract(ctx, bytes.NewReader(buffered.Bytes()))
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract document text", err)
	}

	now := time.Now().UTC()
	inv := &domain.Invoice{
		ID:         id,
		Vendor:     vendor,
		Fields:     scrapeFields(rawText),
		Confidence: upstreamConfidence,
		RawText:    rawText,
		Status:     domain.StatusReceived,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return uc.persistAndEnqueue(ctx, inv)
}

func (uc *IngestInvoiceUseCase) IngestInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	if inv == nil || inv.Vendor == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest invoice", fmt.Errorf("vendor is required"))
	}
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	inv.Status = domain.StatusReceived
	inv.CreatedAt = now
	inv.UpdatedAt = now
	return uc.persistAndEnqueue(ctx, inv)
}

func (uc *IngestInvoiceUseCase) persistAndEnqueue(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	if err := uc.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invoice record: %w", err)
	}
	if err := uc.queue.PublishInvoiceReceived(ctx, inv.ID); err != nil {
		return nil, fmt.Errorf("publish invoice event: %w", err)
	}
	return inv, nil
}

// upstreamConfidence is the baseline score attached to invoices built by
// the naive document scrape below. Pre-extracted payloads carry their
// own confidence.
const upstreamConfidence = 0.75

var (
	scrapeInvoiceNumberRe = regexp.MustCompile(`(?i)(?:Rechnungsnummer|Rechnungs-Nr\.?|Invoice\s*(?:No|Number)\.?):?\s*([A-Za-z0-9/-]+)`)
	scrapeInvoiceDateRe   = regexp.MustCompile(`(?i)(?:Rechnungsdatum|Invoice\s*Date):?\s*(\d{2}\.\d{2}\.\d{4}|\d{4}-\d{2}-\d{2})`)
	scrapeCurrencyRe      = regexp.MustCompile(`\b(EUR|USD|GBP|CHF)\b`)
	scrapeGrossRe         = regexp.MustCompile(`(?i)(?:Gesamtbetrag|Bruttobetrag|Total):?\s*([\d.,]+)`)
)

// scrapeFields is the deliberately naive upstream extraction: anything it
// misses is exactly what the vendor-memory engine exists to recover.
func scrapeFields(rawText string) domain.InvoiceFields {
	fields := domain.InvoiceFields{}
	if m := scrapeInvoiceNumberRe.FindStringSubmatch(rawText); m != nil {
		fields.InvoiceNumber = m[1]
	}
	if m := scrapeInvoiceDateRe.FindStringSubmatch(rawText); m != nil {
		fields.InvoiceDate = m[1]
	}
	if m := scrapeCurrencyRe.FindStringSubmatch(rawText); m != nil {
		fields.Currency = m[1]
	}
	if m := scrapeGrossRe.FindStringSubmatch(rawText); m != nil {
		fields.GrossTotal = parseAmount(m[1])
	}
	return fields
}

// parseAmount reads German (1.234,56) and English (1,234.56) number
// formats, preferring the interpretation implied by the last separator.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	if lastComma > lastDot {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.pdf"
	}
	return base
}
