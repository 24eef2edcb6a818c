// Package openai provides a Synthesizer backed by the OpenAI speech
// endpoint, producing MP3 audio.
package openai

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/xranano/AI-audio-pipeline/internal/tts"
	"github.com/xranano/AI-audio-pipeline/pkg/logger"
)

// Config holds synthesis settings.
type Config struct {
	APIKey string
	Model  string // e.g. "tts-1"
	Voice  string // e.g. "alloy"
}

// Synthesizer implements tts.Synthesizer using the OpenAI API.
type Synthesizer struct {
	client openai.Client
	config Config
	logger *logger.Logger
}

// New creates a new OpenAI synthesizer.
func New(config Config, log *logger.Logger) *Synthesizer {
	if config.APIKey == "" {
		log.Warn("OpenAI API key is empty - speech synthesis will not work")
	}
	return &Synthesizer{
		client: openai.NewClient(option.WithAPIKey(config.APIKey)),
		config: config,
		logger: log.Named("tts-openai"),
	}
}

var _ tts.Synthesizer = (*Synthesizer)(nil)

// Synthesize renders text as MP3 audio bytes.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(s.config.Model),
		Voice:          openai.AudioSpeechNewParamsVoice(s.config.Voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tts.ErrSynthesisFailed, err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading audio stream: %v", tts.ErrSynthesisFailed, err)
	}

	s.logger.Debug("synthesis complete",
		logger.Int("input_chars", len(text)),
		logger.Int("audio_bytes", len(audio)))

	return audio, nil
}
