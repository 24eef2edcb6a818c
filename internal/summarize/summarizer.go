// Package summarize provides a naive extractive summarizer that keeps the
// first N sentence-delimited chunks of a text. It is a pluggable strategy
// with no language-understanding guarantee.
package summarize

import "strings"

// Summarizer is the summarization strategy used by the pipeline.
type Summarizer interface {
	Summarize(text string) string
}

// LeadingSentences picks the first MaxSentences sentence chunks.
type LeadingSentences struct {
	// MaxSentences is the number of sentence chunks to keep. Values below 1
	// are treated as 1.
	MaxSentences int
}

var _ Summarizer = (*LeadingSentences)(nil)

// Summarize returns the first MaxSentences ". "-delimited chunks of text,
// joined back together and terminated with a period.
func (s *LeadingSentences) Summarize(text string) string {
	max := s.MaxSentences
	if max < 1 {
		max = 1
	}

	sentences := strings.Split(text, ". ")
	if len(sentences) > max {
		sentences = sentences[:max]
	}
	summary := strings.Join(sentences, ". ")
	if !strings.HasSuffix(summary, ".") {
		summary += "."
	}
	return summary
}
