package redact

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xranano/AI-audio-pipeline/pkg/logger"
)

// ErrDetectionUnavailable indicates that a detector could not run. The
// engine never returns a partially redacted result in that case: a partial
// redaction under a redacted-looking output is not a safe failure mode.
var ErrDetectionUnavailable = errors.New("redaction detection unavailable")

// PatternSource finds structured PII spans in a text snapshot. It must not
// mutate its input. Implementations are pure and cannot fail.
type PatternSource interface {
	Detect(text string) []Span
}

// EntitySource finds named-entity PII spans (persons, dates) in a text
// snapshot via an external model. Offsets in the returned spans are only
// valid against the exact string passed in. Implementations must be safe
// for concurrent use.
type EntitySource interface {
	Detect(ctx context.Context, text string) ([]Span, error)
}

// Result is the outcome of one redaction run.
type Result struct {
	// Text is the final redacted text after both passes.
	Text string

	// Ledger lists every detected span: pattern spans in detection order,
	// then entity spans in descending-offset order.
	Ledger Ledger
}

// Engine orchestrates the two redaction passes. The pattern pass runs over
// the original text; the entity pass always runs over the post-pattern
// intermediate text, never the original, because entity offsets are only
// valid against the string the model saw.
type Engine struct {
	patterns PatternSource
	entities EntitySource
	logger   *logger.Logger
}

// NewEngine creates a redaction engine with the given detectors.
func NewEngine(patterns PatternSource, entities EntitySource, log *logger.Logger) *Engine {
	return &Engine{
		patterns: patterns,
		entities: entities,
		logger:   log.Named("redact"),
	}
}

// Redact produces the final redacted text and the complete ledger for text.
//
// Each detector runs exactly once per snapshot; no fixed-point iteration is
// performed, so a category can reappear incidentally if another category's
// placeholder happens to satisfy its pattern. That is accepted to bound cost.
func (e *Engine) Redact(ctx context.Context, text string) (*Result, error) {
	patternSpans := e.patterns.Detect(text)
	intermediate := applySpans(text, patternSpans)

	entitySpans, err := e.entities.Detect(ctx, intermediate)
	if err != nil {
		return nil, fmt.Errorf("%w: entity detector: %v", ErrDetectionUnavailable, err)
	}
	// Entity spans are applied and recorded in descending start-offset
	// order, mirroring how they are consumed during replacement.
	sortSpansDescending(entitySpans)
	final := applySpans(intermediate, entitySpans)

	ledger := make(Ledger, 0, len(patternSpans)+len(entitySpans))
	ledger = append(ledger, patternSpans...)
	ledger = append(ledger, entitySpans...)

	e.logger.Debug("redaction complete",
		logger.Int("pattern_spans", len(patternSpans)),
		logger.Int("entity_spans", len(entitySpans)),
		logger.Int("input_len", len(text)),
		logger.Int("output_len", len(final)))

	return &Result{Text: final, Ledger: ledger}, nil
}

// applySpans replaces every span's substring in text with its placeholder.
// Spans must all have been detected against text itself. Replacement runs in
// descending start-offset order so earlier offsets stay valid while later
// spans are rewritten. A span overlapping one that was already applied is
// skipped: its range no longer exists in the text. The input slice is not
// reordered.
func applySpans(text string, spans []Span) string {
	ordered := make([]Span, len(spans))
	copy(ordered, spans)
	sortSpansDescending(ordered)

	out := text
	lastStart := len(text)
	for _, sp := range ordered {
		if sp.StartOffset < 0 || sp.EndOffset > len(text) || sp.StartOffset >= sp.EndOffset {
			continue
		}
		if sp.EndOffset > lastStart {
			continue
		}
		out = out[:sp.StartOffset] + sp.Placeholder() + out[sp.EndOffset:]
		lastStart = sp.StartOffset
	}
	return out
}

// sortSpansDescending orders spans by start offset, highest first. The sort
// is stable so spans sharing a start offset keep their detection order.
func sortSpansDescending(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].StartOffset > spans[j].StartOffset
	})
}
