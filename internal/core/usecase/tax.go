package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/avosseler/vendormind/internal/core/domain"
)

var inclusiveVATMarkers = []string{"incl. vat", "mwst. inkl"}

// reconcileTax validates Net+Tax=Gross and Net*(1+Rate)=Gross within one
// currency unit. The two checks are independent: a document can fail both.
// When the calculation check fails but the document declares VAT-inclusive
// pricing, the extracted gross is trusted and net/tax are recomputed.
func reconcileTax(run *processRun) {
	f := &run.fields

	sumDiff := math.Abs(f.NetTotal + f.TaxTotal - f.GrossTotal)
	if sumDiff > totalsTolerance {
		run.result.RequiresHumanReview = true
		run.reason(fmt.Sprintf("totals do not sum: net %.2f + tax %.2f != gross %.2f", f.NetTotal, f.TaxTotal, f.GrossTotal))
		run.audit("tax_check", fmt.Sprintf("sum mismatch %.2f", sumDiff))
	}

	calcDiff := math.Abs(f.NetTotal*(1+f.TaxRate) - f.GrossTotal)
	if calcDiff <= totalsTolerance {
		run.audit("tax_check", "tax calculation consistent")
		return
	}

	if hasInclusiveVATMarker(run.inv.RawText) {
		newNet := round2(f.GrossTotal / (1 + f.TaxRate))
		newTax := round2(f.GrossTotal - newNet)
		run.propose(domain.FieldNetTotal, domain.NumberValue(f.NetTotal), domain.NumberValue(newNet),
			"recalculated net from VAT-inclusive gross")
		run.propose(domain.FieldTaxTotal, domain.NumberValue(f.TaxTotal), domain.NumberValue(newTax),
			"recalculated tax from VAT-inclusive gross")
		f.NetTotal = newNet
		f.TaxTotal = newTax
		run.reason("recomputed net/tax under inclusive-VAT reading")
		run.audit("tax_check", fmt.Sprintf("inclusive VAT: net %.2f, tax %.2f", newNet, newTax))
		return
	}

	run.result.RequiresHumanReview = true
	run.reason(fmt.Sprintf("tax calculation invalid: net %.2f * (1+%.2f) != gross %.2f", f.NetTotal, f.TaxRate, f.GrossTotal))
	run.audit("tax_check", fmt.Sprintf("calculation mismatch %.2f", calcDiff))
}

func hasInclusiveVATMarker(rawText string) bool {
	lower := strings.ToLower(rawText)
	for _, marker := range inclusiveVATMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
