package usecase

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/avosseler/vendormind/internal/core/domain"
)

// applyPatterns fills missing fields from learned extraction patterns.
// Patterns only ever recover empty fields; existing values are kept.
func applyPatterns(run *processRun, patterns []domain.ExtractionPattern) {
	for _, pat := range patterns {
		path, err := domain.ParseFieldPath(pat.Field)
		if err != nil {
			continue
		}
		current := path.Get(&run.fields)
		if !current.IsEmpty() {
			continue
		}

		// A stored pattern that no longer compiles is treated as
		// "no match", never as a processing failure.
		re, err := regexp.Compile("(?i)" + pat.Regex)
		if err != nil {
			slog.Debug("skipping malformed stored pattern",
				"vendor", run.inv.Vendor, "field", pat.Field, "error", err)
			continue
		}
		m := re.FindStringSubmatch(run.inv.RawText)
		if len(m) == 0 {
			continue
		}
		// Labeled patterns capture the value; flexible token patterns
		// have no group, so the whole match is the recovered text.
		matched := m[0]
		if len(m) > 1 && m[1] != "" {
			matched = m[1]
		}

		recovered := domain.StringValue(matched)
		if err := path.Set(&run.fields, recovered); err != nil {
			continue
		}
		run.propose(pat.Field, current, recovered,
			fmt.Sprintf("recovered from document text via learned pattern (confidence %.2f)", pat.Confidence))
		run.result.MemoryUpdates = append(run.result.MemoryUpdates,
			fmt.Sprintf("pattern %s applied for field %s", pat.Regex, pat.Field))
		run.audit("apply_pattern", fmt.Sprintf("field %s recovered as %q", pat.Field, matched))
	}
}

// applyStaticCorrections applies the vendor's deterministic value rules.
func applyStaticCorrections(run *processRun, corrections []domain.ValueCorrection) {
	for _, corr := range corrections {
		path, err := domain.ParseFieldPath(corr.Field)
		if err != nil {
			continue
		}
		if path.IsLineItemSKU() && corr.TriggerValue != "" {
			applySKUMapping(run, corr)
			continue
		}
		if path.IsLineItem() {
			continue
		}

		current := path.Get(&run.fields)
		if !current.IsEmpty() && corr.Condition != domain.ConditionAlways {
			continue
		}
		corrected := domain.StringValue(corr.CorrectedValue)
		if err := path.Set(&run.fields, corrected); err != nil {
			continue
		}
		run.propose(corr.Field, current, corrected,
			fmt.Sprintf("static vendor correction (confidence %.2f)", corr.Confidence))
		run.result.MemoryUpdates = append(run.result.MemoryUpdates,
			fmt.Sprintf("static correction applied for field %s", corr.Field))
		run.audit("apply_correction", fmt.Sprintf("field %s set to %q", corr.Field, corr.CorrectedValue))
	}
}

// applySKUMapping sets the learned SKU on every line item whose
// description contains the trigger and whose SKU is still missing. The
// index in the stored field path is irrelevant: the rule was learned from
// one line but applies wherever the description recurs.
func applySKUMapping(run *processRun, corr domain.ValueCorrection) {
	for i := range run.fields.LineItems {
		item := &run.fields.LineItems[i]
		if item.SKU != "" || !strings.Contains(item.Description, corr.TriggerValue) {
			continue
		}
		item.SKU = corr.CorrectedValue
		field := fmt.Sprintf("lineItems[%d].sku", i)
		run.propose(field, domain.NullValue(), domain.StringValue(corr.CorrectedValue),
			fmt.Sprintf("SKU mapped from description %q (confidence %.2f)", corr.TriggerValue, corr.Confidence))
		run.result.MemoryUpdates = append(run.result.MemoryUpdates,
			fmt.Sprintf("SKU mapping %q -> %q applied", corr.TriggerValue, corr.CorrectedValue))
		run.audit("apply_correction", fmt.Sprintf("%s set to %q via description trigger", field, corr.CorrectedValue))
	}
}
