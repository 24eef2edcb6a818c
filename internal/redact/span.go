// Package redact detects and removes personally identifiable information
// from transcript text. Detection runs in two passes: a pattern pass using
// fixed regular expressions for structured PII (credit cards, SSNs, phone
// numbers, email addresses) and an entity pass using a named-entity
// recognition model for person names and dates.
//
// Every detected span carries character offsets that are only valid against
// the exact text snapshot it was detected on. Replacement within a snapshot
// is applied in descending start-offset order so that inserting a
// placeholder never shifts the stored offsets of a span still pending.
package redact

// Category classifies the kind of PII a span contains.
type Category string

// PII categories handled by the detectors. Pattern categories are listed in
// their detection priority order.
const (
	CategoryCreditCard Category = "CREDIT_CARD"
	CategorySSN        Category = "SSN"
	CategoryPhone      Category = "PHONE"
	CategoryEmail      Category = "EMAIL"
	CategoryPerson     Category = "PERSON"
	CategoryDate       Category = "DATE"
)

// Source identifies which detector produced a span.
type Source string

const (
	// SourcePattern marks spans found by the regex pattern detector.
	SourcePattern Source = "PATTERN"

	// SourceEntity marks spans found by the named-entity detector.
	SourceEntity Source = "ENTITY"
)

// Span is a detected PII substring within one specific text snapshot.
// StartOffset and EndOffset are byte offsets into that snapshot; they are
// meaningless against any other string state.
type Span struct {
	Category     Category `json:"category"`
	OriginalText string   `json:"original_text"`
	StartOffset  int      `json:"start_offset"`
	EndOffset    int      `json:"end_offset"`
	Source       Source   `json:"source"`
}

// Placeholder returns the literal replacement text for the span's category,
// e.g. "[REDACTED_PHONE]".
func (s Span) Placeholder() string {
	return "[REDACTED_" + string(s.Category) + "]"
}

// Ledger is the ordered record of all redactions from one run: all pattern
// spans in detection order (category priority, ascending offsets), followed
// by all entity spans in descending-offset order as produced by the entity
// detector. It is never mutated after the run completes.
type Ledger []Span
