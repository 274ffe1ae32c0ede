package domain

import "time"

type InvoiceStatus string

const (
	StatusReceived    InvoiceStatus = "received"
	StatusProcessing  InvoiceStatus = "processing"
	StatusProcessed   InvoiceStatus = "processed"
	StatusNeedsReview InvoiceStatus = "needs_review"
	StatusFailed      InvoiceStatus = "failed"
)

// Invoice is the document as produced by the upstream extraction step.
// The engine treats it as read-only: process works on a cloned copy of
// the fields and never touches the original.
type Invoice struct {
	ID         string        `json:"id"`
	Vendor     string        `json:"vendor"`
	Fields     InvoiceFields `json:"fields"`
	Confidence float64       `json:"confidence"`
	RawText    string        `json:"raw_text"`
	Status     InvoiceStatus `json:"status"`
	Error      string        `json:"error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type InvoiceFields struct {
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceDate   string     `json:"invoice_date"`
	ServiceDate   string     `json:"service_date,omitempty"`
	Currency      string     `json:"currency,omitempty"`
	PONumber      string     `json:"po_number,omitempty"`
	NetTotal      float64    `json:"net_total"`
	TaxTotal      float64    `json:"tax_total"`
	GrossTotal    float64    `json:"gross_total"`
	TaxRate       float64    `json:"tax_rate"`
	LineItems     []LineItem `json:"line_items"`
	DiscountTerms string     `json:"discount_terms,omitempty"`
}

type LineItem struct {
	SKU         string  `json:"sku,omitempty" yaml:"sku,omitempty"`
	Description string  `json:"description" yaml:"description"`
	Quantity    float64 `json:"quantity" yaml:"quantity"`
	UnitPrice   float64 `json:"unit_price" yaml:"unit_price"`
}

// Clone returns a deep copy safe to mutate during normalization.
func (f InvoiceFields) Clone() InvoiceFields {
	out := f
	out.LineItems = make([]LineItem, len(f.LineItems))
	copy(out.LineItems, f.LineItems)
	return out
}
