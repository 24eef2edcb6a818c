// Package tts defines the speech-synthesis collaborator interface.
package tts

import (
	"context"
	"errors"
)

// ErrSynthesisFailed indicates the remote synthesis service could not
// produce audio for the input text.
var ErrSynthesisFailed = errors.New("speech synthesis failed")

// Synthesizer converts plain text into encoded audio bytes. Implementations
// must be safe for concurrent use; the call blocks until the service
// responds or ctx is cancelled.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
