package usecase

import (
	"regexp"
	"testing"

	"github.com/avosseler/vendormind/internal/core/domain"
)

func TestInducePatternFromDottedDate(t *testing.T) {
	rawText := "Rechnung R-2024-001\nLeistungsdatum: 01.01.2024\nSumme: 119,00"
	corr := domain.Correction{Field: domain.FieldServiceDate, To: domain.StringValue("2024-01-01")}

	pattern, ok := inducePattern(rawText, corr)
	if !ok {
		t.Fatalf("expected pattern")
	}
	if pattern.Regex != `Leistungsdatum:?\s*(\d{2}\.\d{2}\.\d{4})` {
		t.Fatalf("Regex = %q", pattern.Regex)
	}
	if pattern.Confidence != labeledPatternConfidence {
		t.Fatalf("Confidence = %v", pattern.Confidence)
	}

	// The induced regex must recover the value on the next document.
	re := regexp.MustCompile("(?i)" + pattern.Regex)
	m := re.FindStringSubmatch("Anlage\nLeistungsdatum: 05.01.2024")
	if len(m) != 2 || m[1] != "05.01.2024" {
		t.Fatalf("induced regex match = %v", m)
	}
}

func TestInducePatternGeneralizesDigits(t *testing.T) {
	rawText := "Kundennummer: KD-4711\nRechnungsnummer: R-2024-001"
	corr := domain.Correction{Field: domain.FieldInvoiceNumber, To: domain.StringValue("R-2024-001")}

	pattern, ok := inducePattern(rawText, corr)
	if !ok {
		t.Fatalf("expected pattern")
	}
	re := regexp.MustCompile("(?i)" + pattern.Regex)
	m := re.FindStringSubmatch("Rechnungsnummer: R-2025-042")
	if len(m) != 2 || m[1] != "R-2025-042" {
		t.Fatalf("digit-generalized regex match = %v", m)
	}
}

func TestInducePatternRejectsShortValues(t *testing.T) {
	if _, ok := inducePattern("Betrag: 5", domain.Correction{Field: domain.FieldNetTotal, To: domain.StringValue("5")}); ok {
		t.Fatalf("short value must not induce a pattern")
	}
	// Currency has the lower minimum of 3.
	if _, ok := inducePattern("Währung: EUR", domain.Correction{Field: domain.FieldCurrency, To: domain.StringValue("EUR")}); !ok {
		t.Fatalf("three-letter currency must induce a pattern")
	}
}

func TestInducePatternIgnoresNumericCorrections(t *testing.T) {
	if _, ok := inducePattern("Netto: 100,00", domain.Correction{Field: domain.FieldNetTotal, To: domain.NumberValue(100)}); ok {
		t.Fatalf("numeric target must not induce a pattern")
	}
}

func TestInduceFlexiblePatternFallback(t *testing.T) {
	rawText := "Zahlungsbedingungen: 2% Skonto bei Zahlung innerhalb von 10 Tagen"
	corr := domain.Correction{
		Field: domain.FieldDiscountTerms,
		To:    domain.StringValue("2% Skonto innerhalb 10 Tagen"),
	}

	pattern, ok := inducePattern(rawText, corr)
	if !ok {
		t.Fatalf("expected flexible pattern")
	}
	if pattern.Confidence != flexiblePatternConfidence {
		t.Fatalf("Confidence = %v", pattern.Confidence)
	}
	re := regexp.MustCompile("(?i)" + pattern.Regex)
	if !re.MatchString(rawText) {
		t.Fatalf("flexible pattern must match original text")
	}
	if !re.MatchString("2% SKONTO bei fristgerechter Zahlung innerhalb von 10 Tagen") {
		t.Fatalf("flexible pattern must tolerate paraphrased wording")
	}
}

func TestInduceFlexiblePatternNeedsEnoughWords(t *testing.T) {
	rawText := "irgendein Text ohne die Phrase"
	corr := domain.Correction{Field: domain.FieldDiscountTerms, To: domain.StringValue("zwei Worte")}
	if _, ok := inducePattern(rawText, corr); ok {
		t.Fatalf("two-word value must not induce a flexible pattern")
	}
}

func TestVerbatimValueWithoutLabelInducesNothing(t *testing.T) {
	// Value is present word for word but only digits precede it, so no
	// label anchor exists. The loose token fallback must not kick in.
	rawText := "4711 Frei Haus Lieferung ohne Skonto"
	corr := domain.Correction{
		Field: domain.FieldDiscountTerms,
		To:    domain.StringValue("Frei Haus Lieferung ohne Skonto"),
	}

	if pattern, ok := inducePattern(rawText, corr); ok {
		t.Fatalf("expected no pattern for unlabeled verbatim value, got %q", pattern.Regex)
	}
}
