package usecase

import "github.com/avosseler/vendormind/internal/core/domain"

// findDuplicate reports the first earlier invoice in the run with the
// same (vendor, invoice number), excluding the invoice itself by id.
// invoiceNumber is the working-copy value so numbers recovered by memory
// patterns participate in the check.
func findDuplicate(inv *domain.Invoice, invoiceNumber string, prior []domain.Invoice) *domain.Invoice {
	if invoiceNumber == "" {
		return nil
	}
	for i := range prior {
		p := &prior[i]
		if p.ID == inv.ID {
			continue
		}
		if p.Vendor == inv.Vendor && p.Fields.InvoiceNumber == invoiceNumber {
			return p
		}
	}
	return nil
}
