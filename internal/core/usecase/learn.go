package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avosseler/vendormind/internal/core/domain"
	"github.com/avosseler/vendormind/internal/core/ports"
)

// LearnUseCase turns operator corrections into reusable vendor memory.
// It reads the original invoice and writes to the store; the invoice is
// never modified.
type LearnUseCase struct {
	memory ports.MemoryStore
}

func NewLearnUseCase(memory ports.MemoryStore) *LearnUseCase {
	return &LearnUseCase{memory: memory}
}

// Learn induces extraction patterns and static SKU mappings from one
// correction log. Rejected logs are skipped entirely. Corrections are
// processed in log order; the first failed store write aborts the call so
// a learn batch is never half-applied silently.
func (uc *LearnUseCase) Learn(ctx context.Context, inv *domain.Invoice, log domain.HumanCorrectionLog) error {
	if inv == nil {
		return domain.WrapError(domain.ErrInvalidInput, "learn", fmt.Errorf("nil invoice"))
	}
	if log.FinalDecision == domain.DecisionRejected {
		slog.Info("skipping rejected correction log", "invoice_id", inv.ID, "vendor", inv.Vendor)
		return nil
	}

	for _, corr := range log.Corrections {
		if pattern, ok := inducePattern(inv.RawText, corr); ok {
			if err := uc.memory.AddPattern(ctx, inv.Vendor, pattern); err != nil {
				return domain.WrapError(domain.ErrStoreFailure,
					fmt.Sprintf("persist pattern for vendor %q field %q", inv.Vendor, pattern.Field), err)
			}
			slog.Info("learned extraction pattern",
				"vendor", inv.Vendor, "field", pattern.Field, "regex", pattern.Regex)
		}

		if rule, ok := induceSKURule(&inv.Fields, corr); ok {
			if err := uc.memory.AddStaticCorrection(ctx, inv.Vendor, rule); err != nil {
				return domain.WrapError(domain.ErrStoreFailure,
					fmt.Sprintf("persist SKU mapping for vendor %q trigger %q", inv.Vendor, rule.TriggerValue), err)
			}
			slog.Info("learned SKU mapping",
				"vendor", inv.Vendor, "trigger", rule.TriggerValue, "sku", rule.CorrectedValue)
		}
	}
	return nil
}
