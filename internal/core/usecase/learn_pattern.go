package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/avosseler/vendormind/internal/core/domain"
)

const (
	labeledPatternConfidence  = 0.6
	flexiblePatternConfidence = 0.5

	// How much text before a matched value is searched for a label token.
	labelWindow = 25

	minValueLen         = 4
	minCurrencyValueLen = 3
	minFlexibleWords    = 3
)

var (
	trailingLabelRe = regexp.MustCompile(`([A-Za-zÄÖÜäöüß]+):?\s*$`)
	digitRunRe      = regexp.MustCompile(`\d+`)
	dottedDateRe    = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
	slashedDateRe   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	newlineReplacer = strings.NewReplacer("\n", " ", "\r", " ")
)

// inducePattern derives a reusable extraction regex from one correction.
// It looks for the corrected value verbatim in the document (including
// date-format variants), anchors the pattern on the label token that
// precedes it, and generalizes the value into a shape. When no verbatim
// occurrence exists, a flexible token match over the value's distinctive
// words serves as fallback.
func inducePattern(rawText string, corr domain.Correction) (domain.ExtractionPattern, bool) {
	if corr.To.Kind != domain.KindString {
		return domain.ExtractionPattern{}, false
	}
	value := corr.To.Str

	minLen := minValueLen
	if corr.Field == domain.FieldCurrency {
		minLen = minCurrencyValueLen
	}
	if len(value) < minLen {
		return domain.ExtractionPattern{}, false
	}

	verbatimFound := false
	for _, candidate := range valueRepresentations(value) {
		idx := strings.Index(rawText, candidate)
		if idx < 0 {
			continue
		}
		verbatimFound = true
		label, ok := precedingLabel(rawText, idx)
		if !ok {
			continue
		}
		regex := fmt.Sprintf(`%s:?\s*(%s)`, regexp.QuoteMeta(label), valueShape(candidate))
		return domain.ExtractionPattern{
			Field:      corr.Field,
			Regex:      regex,
			Confidence: labeledPatternConfidence,
			UsageCount: 1,
			LastUsed:   time.Now().UTC(),
		}, true
	}

	// The flexible fallback only covers values absent from the document.
	// A verbatim occurrence without a usable label stays pattern-free
	// rather than producing a loose token match.
	if verbatimFound {
		return domain.ExtractionPattern{}, false
	}
	return induceFlexiblePattern(rawText, corr.Field, value)
}

// valueRepresentations lists the textual forms the value may take in the
// document. ISO dates commonly appear as DD.MM.YYYY or DD/MM/YYYY on
// German invoices.
func valueRepresentations(value string) []string {
	reps := []string{value}
	if d, err := time.Parse("2006-01-02", value); err == nil {
		reps = append(reps, d.Format("02.01.2006"), d.Format("02/01/2006"))
	}
	return reps
}

// precedingLabel extracts the letters-only token directly before the
// value occurrence, tolerating a trailing colon and whitespace.
func precedingLabel(rawText string, idx int) (string, bool) {
	start := idx - labelWindow
	if start < 0 {
		start = 0
	}
	window := newlineReplacer.Replace(rawText[start:idx])
	m := trailingLabelRe.FindStringSubmatch(window)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// valueShape generalizes a concrete value into a matching pattern: dates
// keep their full shape, everything else is escaped with digit runs
// widened so the pattern survives changing numbers.
func valueShape(value string) string {
	switch {
	case dottedDateRe.MatchString(value):
		return `\d{2}\.\d{2}\.\d{4}`
	case slashedDateRe.MatchString(value):
		return `\d{2}/\d{2}/\d{4}`
	default:
		return digitRunRe.ReplaceAllString(regexp.QuoteMeta(value), `\d+`)
	}
}

// induceFlexiblePattern anchors on the value's distinctive words with
// wildcard connectors, tolerating paraphrased surrounding text such as
// reworded discount clauses.
func induceFlexiblePattern(rawText, field, value string) (domain.ExtractionPattern, bool) {
	if !strings.ContainsAny(value, " \t") {
		return domain.ExtractionPattern{}, false
	}

	var words []string
	for _, w := range strings.Fields(value) {
		if len(w) > 1 {
			words = append(words, regexp.QuoteMeta(w))
		}
	}
	if len(words) < minFlexibleWords {
		return domain.ExtractionPattern{}, false
	}

	pattern := strings.Join(words, `[\s\S]{0,40}?`)
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil || !re.MatchString(rawText) {
		return domain.ExtractionPattern{}, false
	}

	return domain.ExtractionPattern{
		Field:      field,
		Regex:      pattern,
		Confidence: flexiblePatternConfidence,
		UsageCount: 1,
		LastUsed:   time.Now().UTC(),
	}, true
}
