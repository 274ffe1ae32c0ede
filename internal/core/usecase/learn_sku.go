package usecase

import (
	"github.com/avosseler/vendormind/internal/core/domain"
)

const skuMappingConfidence = 0.8

// induceSKURule turns a line-item SKU correction into a permanent
// description→SKU mapping, keyed on the description the operator saw on
// the original document.
func induceSKURule(original *domain.InvoiceFields, corr domain.Correction) (domain.ValueCorrection, bool) {
	path, err := domain.ParseFieldPath(corr.Field)
	if err != nil || !path.IsLineItemSKU() {
		return domain.ValueCorrection{}, false
	}
	if corr.To.Kind != domain.KindString || corr.To.Str == "" {
		return domain.ValueCorrection{}, false
	}
	if path.LineItem >= len(original.LineItems) {
		return domain.ValueCorrection{}, false
	}

	description := original.LineItems[path.LineItem].Description
	if description == "" {
		return domain.ValueCorrection{}, false
	}

	return domain.ValueCorrection{
		Field:          corr.Field,
		TriggerValue:   description,
		CorrectedValue: corr.To.Str,
		Confidence:     skuMappingConfidence,
		UsageCount:     1,
	}, true
}
