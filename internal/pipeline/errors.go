package pipeline

import (
	"errors"
	"fmt"
)

// ErrInputNotFound indicates the input audio file is missing or unreadable.
var ErrInputNotFound = errors.New("input audio file not found")

// Stage names a pipeline stage for error attribution.
type Stage string

const (
	StageInput         Stage = "input"
	StageTranscription Stage = "transcription"
	StageConfidence    Stage = "confidence"
	StageRedaction     Stage = "redaction"
	StageSummarization Stage = "summarization"
	StageSynthesis     Stage = "synthesis"
	StageAudit         Stage = "audit"
)

// StageError tags a failure with the stage it occurred in. The pipeline
// never retries a failed stage and never writes partial output for a
// failed run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage recorded in err's chain, or an empty string
// if err carries no stage attribution.
func FailedStage(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
