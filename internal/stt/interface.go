// Package stt defines the transcription collaborator interface and the
// audio encoding hint inferred from file names.
package stt

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/xranano/AI-audio-pipeline/internal/transcript"
)

// ErrTranscriptionFailed indicates the remote recognizer could not produce
// a transcript for the input.
var ErrTranscriptionFailed = errors.New("transcription failed")

// Encoding is the audio encoding hint passed to the recognizer.
type Encoding string

const (
	// EncodingUnspecified lets the recognizer auto-detect the encoding.
	EncodingUnspecified Encoding = "ENCODING_UNSPECIFIED"
	EncodingLinear16    Encoding = "LINEAR16"
	EncodingMP3         Encoding = "MP3"
)

// EncodingForFile infers the encoding hint from the file extension:
// .mp3 maps to MP3, .wav/.pcm/.raw to LINEAR16, anything else is left
// unspecified for the recognizer to auto-detect.
func EncodingForFile(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return EncodingMP3
	case ".wav", ".pcm", ".raw":
		return EncodingLinear16
	default:
		return EncodingUnspecified
	}
}

// Transcriber converts raw audio bytes into a transcript with per-word
// confidence and timing. Implementations must be safe for concurrent use;
// the call blocks until the recognizer responds or ctx is cancelled.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, encoding Encoding) (*transcript.Transcript, error)
}
