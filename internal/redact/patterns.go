package redact

import "regexp"

// categoryPattern pairs a PII category with its compiled regular expression.
type categoryPattern struct {
	category Category
	re       *regexp.Regexp
}

// patternSet holds the fixed category matchers in detection priority order.
// Matches are category-independent: the same character range may match more
// than one category (a phone-like digit run is also SSN-like) and every
// match is recorded without deduplication.
var patternSet = []categoryPattern{
	{CategoryCreditCard, regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)},
	{CategorySSN, regexp.MustCompile(`\b\d{3}[-\s]?\d{2}[-\s]?\d{4}\b`)},
	{CategoryPhone, regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)},
	{CategoryEmail, regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
}

// PatternDetector finds structured PII via regular expressions. It is a pure
// function over its input and safe for concurrent use.
type PatternDetector struct{}

// NewPatternDetector creates a pattern detector with the fixed category set.
func NewPatternDetector() *PatternDetector {
	return &PatternDetector{}
}

// Detect scans text and returns one span per non-overlapping regex match,
// category by category in priority order (CREDIT_CARD, SSN, PHONE, EMAIL),
// ascending offsets within each category. The input is never mutated.
func (d *PatternDetector) Detect(text string) []Span {
	var spans []Span
	for _, p := range patternSet {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			spans = append(spans, Span{
				Category:     p.category,
				OriginalText: text[loc[0]:loc[1]],
				StartOffset:  loc[0],
				EndOffset:    loc[1],
				Source:       SourcePattern,
			})
		}
	}
	return spans
}
