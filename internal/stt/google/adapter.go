// Package google provides a Transcriber backed by Google Cloud
// Speech-to-Text synchronous recognition. Credentials are taken from the
// GOOGLE_APPLICATION_CREDENTIALS environment variable.
package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/xranano/AI-audio-pipeline/internal/stt"
	"github.com/xranano/AI-audio-pipeline/internal/transcript"
	"github.com/xranano/AI-audio-pipeline/pkg/logger"
)

// Config holds recognition settings for the Google adapter.
type Config struct {
	LanguageCode    string        // BCP-47 tag, e.g. "en-US"
	SampleRateHertz int           // 0 lets the API read it from the container header
	Timeout         time.Duration // per-call deadline; 0 disables
}

// Adapter implements stt.Transcriber using Google Cloud Speech-to-Text.
type Adapter struct {
	client *speech.Client
	config Config
	logger *logger.Logger
}

// New creates a new Google STT adapter.
func New(ctx context.Context, config Config, log *logger.Logger) (*Adapter, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &Adapter{
		client: client,
		config: config,
		logger: log.Named("stt-google"),
	}, nil
}

var _ stt.Transcriber = (*Adapter)(nil)

// Close releases the underlying gRPC connection.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// Transcribe performs one synchronous recognition call with word-level
// confidence and time offsets enabled.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, encoding stt.Encoding) (*transcript.Transcript, error) {
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   mapEncoding(encoding),
			SampleRateHertz:            int32(a.config.SampleRateHertz),
			LanguageCode:               a.config.LanguageCode,
			EnableWordConfidence:       true,
			EnableWordTimeOffsets:      true,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	resp, err := a.client.Recognize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", stt.ErrTranscriptionFailed, err)
	}

	tr := FromRecognizeResponse(resp)
	if tr == nil {
		return nil, fmt.Errorf("%w: recognizer returned no results", stt.ErrTranscriptionFailed)
	}

	a.logger.Debug("transcription complete",
		logger.Int("chars", len(tr.Text)),
		logger.Int("words", len(tr.Words)),
		logger.Float64("confidence", tr.Confidence))

	return tr, nil
}

// FromRecognizeResponse flattens a recognize response into a Transcript.
// Longer audio yields several sequential results; their top alternatives
// are concatenated and the overall confidence is the mean across them.
// Returns nil when the response carries no usable alternatives.
func FromRecognizeResponse(resp *speechpb.RecognizeResponse) *transcript.Transcript {
	var (
		parts   []string
		words   []transcript.WordInfo
		confSum float64
		nAlts   int
	)
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		top := alts[0]
		parts = append(parts, strings.TrimSpace(top.GetTranscript()))
		confSum += float64(top.GetConfidence())
		nAlts++
		for _, w := range top.GetWords() {
			words = append(words, transcript.WordInfo{
				Token:      w.GetWord(),
				Confidence: float64(w.GetConfidence()),
				StartTime:  w.GetStartTime().AsDuration().Seconds(),
				EndTime:    w.GetEndTime().AsDuration().Seconds(),
			})
		}
	}
	if nAlts == 0 {
		return nil
	}
	return &transcript.Transcript{
		Text:       strings.Join(parts, " "),
		Confidence: confSum / float64(nAlts),
		Words:      words,
	}
}

// mapEncoding translates the pipeline encoding hint to the API enum.
func mapEncoding(encoding stt.Encoding) speechpb.RecognitionConfig_AudioEncoding {
	switch encoding {
	case stt.EncodingLinear16:
		return speechpb.RecognitionConfig_LINEAR16
	case stt.EncodingMP3:
		return speechpb.RecognitionConfig_MP3
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
