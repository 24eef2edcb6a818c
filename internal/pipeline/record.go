package pipeline

import (
	"time"

	"github.com/xranano/AI-audio-pipeline/internal/confidence"
	"github.com/xranano/AI-audio-pipeline/internal/redact"
)

// Record is the audit log entry for one pipeline run. It is assembled once
// after all stages complete and never mutated afterwards.
type Record struct {
	// ID is assigned by the audit store; zero when unpersisted.
	ID int64 `json:"id,omitempty"`

	// AudioFile is the input reference the run was invoked with.
	AudioFile string `json:"audio_file"`

	// Artifact references written for this run.
	TranscriptFile         string `json:"transcript_file"`
	RedactedTranscriptFile string `json:"redacted_transcript_file"`
	SummaryAudioFile       string `json:"summary_audio_file"`

	TranscriptText string `json:"transcript_text"`
	RedactedText   string `json:"redacted_text"`

	// ConfidenceAvailable is false when a confidence signal could not be
	// computed (empty word list, unmeasurable SNR); the run still completes
	// and Score/Level are zero values.
	ConfidenceAvailable bool              `json:"confidence_available"`
	ConfidenceScore     float64           `json:"confidence_score"`
	ConfidenceLevel     confidence.Level  `json:"confidence_level,omitempty"`
	Confidence          *confidence.Score `json:"confidence,omitempty"`

	// Redactions is the full ledger: pattern spans first, then entity spans.
	Redactions redact.Ledger `json:"redactions"`

	SummaryText string    `json:"summary_text"`
	CreatedAt   time.Time `json:"created_at"`
}
