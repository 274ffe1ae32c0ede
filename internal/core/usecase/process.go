package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avosseler/vendormind/internal/core/domain"
	"github.com/avosseler/vendormind/internal/core/ports"
)

const (
	totalsTolerance   = 1.0
	reviewThreshold   = 0.80
	correctionBonus   = 0.10
	confidenceCeiling = 0.99
)

// ProcessInvoiceUseCase normalizes one invoice against the vendor's
// learned memory and the deterministic heuristics. It only ever reads
// from the memory store.
type ProcessInvoiceUseCase struct {
	memory ports.MemoryStore
}

func NewProcessInvoiceUseCase(memory ports.MemoryStore) *ProcessInvoiceUseCase {
	return &ProcessInvoiceUseCase{memory: memory}
}

// processRun carries the mutable working state of a single Process call:
// a cloned field set plus the result being accumulated. The input invoice
// is never written to.
type processRun struct {
	inv     *domain.Invoice
	fields  domain.InvoiceFields
	result  *domain.ProcessResult
	reasons []string
}

func (r *processRun) audit(step, details string) {
	r.result.AuditTrail = append(r.result.AuditTrail, domain.AuditEntry{
		Step:      step,
		Timestamp: time.Now().UTC(),
		Details:   details,
	})
}

func (r *processRun) propose(field string, from, to domain.Value, reason string) {
	r.result.Corrections = append(r.result.Corrections, domain.Correction{
		Field:  field,
		From:   from,
		To:     to,
		Reason: reason,
	})
}

func (r *processRun) reason(text string) {
	r.reasons = append(r.reasons, text)
}

func (uc *ProcessInvoiceUseCase) Process(
	ctx context.Context,
	inv *domain.Invoice,
	refs domain.ReferenceData,
	prior []domain.Invoice,
) (*domain.ProcessResult, error) {
	if inv == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "process invoice", fmt.Errorf("nil invoice"))
	}

	run := &processRun{
		inv:    inv,
		fields: inv.Fields.Clone(),
		result: &domain.ProcessResult{
			InvoiceID:   inv.ID,
			Vendor:      inv.Vendor,
			ProcessedAt: time.Now().UTC(),
		},
	}

	mem, err := uc.memory.GetVendorMemory(ctx, inv.Vendor)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreFailure,
			fmt.Sprintf("recall memory for vendor %q", inv.Vendor), err)
	}
	run.audit("recall_memory", fmt.Sprintf("vendor %q: %d patterns, %d corrections",
		inv.Vendor, len(mem.Patterns), len(mem.Corrections)))

	// Memory runs before the duplicate check so a recovered invoice
	// number still counts as a resubmission.
	applyPatterns(run, mem.Patterns)
	applyStaticCorrections(run, mem.Corrections)

	if dup := findDuplicate(inv, run.fields.InvoiceNumber, prior); dup != nil {
		uc.finishDuplicate(run, dup)
		return run.result, nil
	}
	run.audit("duplicate_check", "no duplicate found")

	if run.fields.PONumber == "" {
		matchPurchaseOrder(run, refs)
	}

	reconcileTax(run)
	scoreAndDecide(run)

	run.result.NormalizedFields = run.fields
	run.result.Reasoning = strings.Join(run.reasons, "; ")
	return run.result, nil
}

// finishDuplicate short-circuits processing: a resubmitted invoice goes
// straight to a human, no further heuristics run.
func (uc *ProcessInvoiceUseCase) finishDuplicate(run *processRun, dup *domain.Invoice) {
	run.propose(domain.FieldInvoiceNumber,
		domain.StringValue(run.fields.InvoiceNumber),
		domain.StringValue(run.fields.InvoiceNumber),
		fmt.Sprintf("duplicate of already processed invoice %s", dup.ID))
	run.reason(fmt.Sprintf("duplicate invoice number %q for vendor %q", run.fields.InvoiceNumber, run.inv.Vendor))
	run.audit("duplicate_check", fmt.Sprintf("duplicate of invoice %s", dup.ID))

	run.result.RequiresHumanReview = true
	run.result.ConfidenceScore = 0.0
	run.result.NormalizedFields = run.fields
	run.result.Reasoning = strings.Join(run.reasons, "; ")
}
