package usecase

import (
	"fmt"

	"github.com/avosseler/vendormind/internal/core/domain"
)

// scoreAndDecide aggregates the final confidence and the review decision.
// The upstream extraction confidence is the baseline; engine corrections
// raise it slightly because the document got closer to ground truth.
func scoreAndDecide(run *processRun) {
	score := run.inv.Confidence
	if len(run.result.Corrections) > 0 {
		score += correctionBonus
		if score > confidenceCeiling {
			score = confidenceCeiling
		}
		run.reason(fmt.Sprintf("%d corrections applied", len(run.result.Corrections)))
	}

	for _, required := range []string{domain.FieldInvoiceNumber, domain.FieldInvoiceDate, domain.FieldCurrency} {
		path, _ := domain.ParseFieldPath(required)
		if path.Get(&run.fields).IsEmpty() {
			run.result.RequiresHumanReview = true
			run.reason(fmt.Sprintf("required field %s missing", required))
		}
	}

	if score < reviewThreshold {
		run.result.RequiresHumanReview = true
		run.reason(fmt.Sprintf("confidence %.2f below threshold %.2f", score, reviewThreshold))
	}

	run.result.ConfidenceScore = score
	run.audit("decide", fmt.Sprintf("confidence %.2f, review=%t", score, run.result.RequiresHumanReview))
}
