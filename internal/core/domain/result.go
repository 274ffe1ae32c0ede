package domain

import "time"

// AuditEntry records one phase of an engine run.
type AuditEntry struct {
	Step      string    `json:"step"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
}

// ProcessResult is the outcome of one process call: the normalized field
// set, every change the engine proposed, and the review decision.
type ProcessResult struct {
	InvoiceID           string        `json:"invoice_id"`
	Vendor              string        `json:"vendor"`
	NormalizedFields    InvoiceFields `json:"normalized_fields"`
	Corrections         []Correction  `json:"corrections"`
	RequiresHumanReview bool          `json:"requires_human_review"`
	Reasoning           string        `json:"reasoning"`
	ConfidenceScore     float64       `json:"confidence_score"`
	MemoryUpdates       []string      `json:"memory_updates,omitempty"`
	AuditTrail          []AuditEntry  `json:"audit_trail"`
	ProcessedAt         time.Time     `json:"processed_at"`
}
