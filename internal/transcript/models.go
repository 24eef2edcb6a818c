// Package transcript defines the transcript data model shared by the
// transcription, confidence, and redaction stages.
package transcript

// WordInfo holds per-word metadata reported by the speech recognizer.
type WordInfo struct {
	// Token is the recognized word.
	Token string `json:"token"`

	// Confidence is the recognizer's word-level confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// StartTime and EndTime are offsets in seconds from the start of the
	// audio. StartTime is never greater than EndTime.
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// Transcript represents the result of transcribing one audio input.
type Transcript struct {
	// Text is the full transcript text.
	Text string `json:"text"`

	// Confidence is the recognizer's overall confidence for the transcript,
	// in [0,1]. May be zero if the recognizer does not report one.
	Confidence float64 `json:"confidence"`

	// Words are the per-word details in spoken order. Their concatenation
	// (with inferred whitespace) is consistent with Text.
	Words []WordInfo `json:"words"`
}
