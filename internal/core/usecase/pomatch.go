package usecase

import (
	"fmt"
	"math"
	"time"

	"github.com/avosseler/vendormind/internal/core/domain"
)

const (
	poWindowDays       = 60
	unitPriceTolerance = 0.01
)

var dateLayouts = []string{"02.01.2006", "2006-01-02"}

// parseFlexibleDate accepts DD.MM.YYYY and ISO dates.
func parseFlexibleDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// matchPurchaseOrder assigns a PO number from reference data when the
// document has none. A candidate must belong to the same vendor, be dated
// at or before the invoice within a 60-day window, and share line-item
// evidence: an exact SKU, or a fuzzy line with equal quantity and a unit
// price within tolerance. The first satisfying candidate wins.
func matchPurchaseOrder(run *processRun, refs domain.ReferenceData) {
	invDate, ok := parseFlexibleDate(run.fields.InvoiceDate)
	if !ok {
		run.audit("po_match", "invoice date unparseable, skipped")
		return
	}

	for _, po := range refs.PurchaseOrders {
		if po.Vendor != run.inv.Vendor {
			continue
		}
		poDate, ok := parseFlexibleDate(po.Date)
		if !ok {
			continue
		}
		gap := invDate.Sub(poDate)
		if gap < 0 || gap >= poWindowDays*24*time.Hour {
			continue
		}
		if !lineItemEvidence(run.fields.LineItems, po.LineItems) {
			continue
		}

		run.fields.PONumber = po.PONumber
		run.propose(domain.FieldPONumber, domain.NullValue(), domain.StringValue(po.PONumber),
			"heuristic PO match")
		run.reason(fmt.Sprintf("matched purchase order %s by date window and line items", po.PONumber))
		run.audit("po_match", fmt.Sprintf("matched %s (gap %d days)", po.PONumber, int(gap.Hours()/24)))
		return
	}
	run.audit("po_match", "no candidate purchase order matched")
}

func lineItemEvidence(invItems, poItems []domain.LineItem) bool {
	for _, inv := range invItems {
		if inv.SKU == "" {
			continue
		}
		for _, po := range poItems {
			if po.SKU == inv.SKU {
				return true
			}
		}
	}
	for _, inv := range invItems {
		for _, po := range poItems {
			if inv.Quantity == po.Quantity && math.Abs(inv.UnitPrice-po.UnitPrice) <= unitPriceTolerance {
				return true
			}
		}
	}
	return false
}
