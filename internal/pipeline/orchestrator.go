// Package pipeline sequences one audio input through transcription,
// confidence scoring, PII redaction, summarization, and speech synthesis,
// then assembles and persists the audit record. Each stage's output is the
// next stage's sole input; runs share no mutable state, so independent
// inputs may be processed concurrently with one Orchestrator.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xranano/AI-audio-pipeline/internal/audio"
	"github.com/xranano/AI-audio-pipeline/internal/confidence"
	"github.com/xranano/AI-audio-pipeline/internal/redact"
	"github.com/xranano/AI-audio-pipeline/internal/stt"
	"github.com/xranano/AI-audio-pipeline/internal/summarize"
	"github.com/xranano/AI-audio-pipeline/internal/transcript"
	"github.com/xranano/AI-audio-pipeline/internal/tts"
	"github.com/xranano/AI-audio-pipeline/pkg/logger"
)

// Artifact file names within the output directory, matching the legacy
// pipeline layout.
const (
	transcriptFileName   = "raw_transcript.txt"
	redactedFileName     = "output_transcript.txt"
	summaryAudioFileName = "output_summary.mp3"
	auditLogFileName     = "audit.log"
)

// RecordStore persists completed audit records.
type RecordStore interface {
	StoreRecord(ctx context.Context, record *Record) (int64, error)
}

// Config holds orchestrator settings.
type Config struct {
	// OutputDir is where artifact files are written.
	OutputDir string
}

// Orchestrator runs the pipeline stages in order.
type Orchestrator struct {
	transcriber stt.Transcriber
	scorer      *confidence.Engine
	redactor    *redact.Engine
	summarizer  summarize.Summarizer
	synthesizer tts.Synthesizer
	store       RecordStore // nil disables persistence
	config      Config
	logger      *logger.Logger
}

// New creates an orchestrator. store may be nil to skip audit persistence.
func New(
	transcriber stt.Transcriber,
	scorer *confidence.Engine,
	redactor *redact.Engine,
	summarizer summarize.Summarizer,
	synthesizer tts.Synthesizer,
	store RecordStore,
	config Config,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		transcriber: transcriber,
		scorer:      scorer,
		redactor:    redactor,
		summarizer:  summarizer,
		synthesizer: synthesizer,
		store:       store,
		config:      config,
		logger:      log.Named("pipeline"),
	}
}

// Run processes one audio file end to end and returns its audit record.
// Stage failures are returned as a StageError and abort the run before any
// artifact is written; no stage is retried.
func (o *Orchestrator) Run(ctx context.Context, audioPath string) (*Record, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, &StageError{Stage: StageInput, Err: fmt.Errorf("%w: %v", ErrInputNotFound, err)}
	}

	encoding := stt.EncodingForFile(audioPath)
	o.logger.Info("transcribing audio",
		logger.String("file", audioPath),
		logger.String("encoding", string(encoding)),
		logger.Int("bytes", len(data)))

	tr, err := o.transcriber.Transcribe(ctx, data, encoding)
	if err != nil {
		return nil, &StageError{Stage: StageTranscription, Err: err}
	}

	score, scoreErr := o.scoreConfidence(audioPath, data, tr)
	if scoreErr != nil {
		return nil, scoreErr
	}

	redacted, err := o.redactor.Redact(ctx, tr.Text)
	if err != nil {
		return nil, &StageError{Stage: StageRedaction, Err: err}
	}

	summary := o.summarizer.Summarize(redacted.Text)

	summaryAudio, err := o.synthesizer.Synthesize(ctx, summary)
	if err != nil {
		return nil, &StageError{Stage: StageSynthesis, Err: err}
	}

	record := &Record{
		AudioFile:              audioPath,
		TranscriptFile:         filepath.Join(o.config.OutputDir, transcriptFileName),
		RedactedTranscriptFile: filepath.Join(o.config.OutputDir, redactedFileName),
		SummaryAudioFile:       filepath.Join(o.config.OutputDir, summaryAudioFileName),
		TranscriptText:         tr.Text,
		RedactedText:           redacted.Text,
		Redactions:             redacted.Ledger,
		SummaryText:            summary,
		CreatedAt:              time.Now().UTC(),
	}
	if score != nil {
		record.ConfidenceAvailable = true
		record.ConfidenceScore = score.Combined
		record.ConfidenceLevel = score.Level
		record.Confidence = score
	}

	if err := o.writeArtifacts(record, summaryAudio); err != nil {
		return nil, &StageError{Stage: StageAudit, Err: err}
	}

	if o.store != nil {
		id, err := o.store.StoreRecord(ctx, record)
		if err != nil {
			return nil, &StageError{Stage: StageAudit, Err: err}
		}
		record.ID = id
	}

	o.logger.Info("pipeline complete",
		logger.String("file", audioPath),
		logger.Int("redactions", len(record.Redactions)),
		logger.Bool("confidence_available", record.ConfidenceAvailable),
		logger.Float64("confidence_score", record.ConfidenceScore))

	return record, nil
}

// scoreConfidence computes the combined confidence score for the transcript.
// A signal that cannot be computed (non-PCM container, empty word list) does
// not fail the run: a nil score is returned and the record is marked
// confidence-unavailable, since nothing downstream depends on the score.
// Unexpected scoring errors still abort the run.
func (o *Orchestrator) scoreConfidence(audioPath string, data []byte, tr *transcript.Transcript) (*confidence.Score, error) {
	snrDB, err := audio.AnalyzeBytes(audioPath, data)
	if err != nil {
		if errors.Is(err, audio.ErrUnsupportedAudio) {
			o.logger.Warn("SNR not measurable for this input, confidence marked unavailable",
				logger.String("file", audioPath),
				logger.Error(err))
			return nil, nil
		}
		return nil, &StageError{Stage: StageConfidence, Err: err}
	}

	score, err := o.scorer.Score(tr, snrDB)
	if err != nil {
		if errors.Is(err, confidence.ErrInsufficientData) {
			o.logger.Warn("transcript has no word-level data, confidence marked unavailable",
				logger.String("file", audioPath))
			return nil, nil
		}
		return nil, &StageError{Stage: StageConfidence, Err: err}
	}
	return score, nil
}

// writeArtifacts writes the transcript, redacted transcript, summary audio,
// and JSON audit record. Artifacts are only ever written for a fully
// successful run, so a redacted-looking file never holds unredacted text.
func (o *Orchestrator) writeArtifacts(record *Record, summaryAudio []byte) error {
	if err := os.MkdirAll(o.config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(record.TranscriptFile, []byte(record.TranscriptText), 0o644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	if err := os.WriteFile(record.RedactedTranscriptFile, []byte(record.RedactedText), 0o644); err != nil {
		return fmt.Errorf("failed to write redacted transcript: %w", err)
	}
	if err := os.WriteFile(record.SummaryAudioFile, summaryAudio, 0o644); err != nil {
		return fmt.Errorf("failed to write summary audio: %w", err)
	}

	auditJSON, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}
	auditPath := filepath.Join(o.config.OutputDir, auditLogFileName)
	if err := os.WriteFile(auditPath, auditJSON, 0o644); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
