package domain

// PurchaseOrder is external reference data; the engine only reads it.
type PurchaseOrder struct {
	PONumber  string     `json:"po_number" yaml:"po_number"`
	Vendor    string     `json:"vendor" yaml:"vendor"`
	Date      string     `json:"date" yaml:"date"`
	LineItems []LineItem `json:"line_items" yaml:"line_items"`
}

// DeliveryNote is external reference data; the engine only reads it.
type DeliveryNote struct {
	NoteNumber string     `json:"note_number" yaml:"note_number"`
	Vendor     string     `json:"vendor" yaml:"vendor"`
	Date       string     `json:"date" yaml:"date"`
	PONumber   string     `json:"po_number,omitempty" yaml:"po_number,omitempty"`
	LineItems  []LineItem `json:"line_items" yaml:"line_items"`
}

// ReferenceData bundles all reference records known for the current run.
type ReferenceData struct {
	PurchaseOrders []PurchaseOrder `json:"purchase_orders" yaml:"purchase_orders"`
	DeliveryNotes  []DeliveryNote  `json:"delivery_notes" yaml:"delivery_notes"`
}
