// Package confidence combines independent transcript quality signals into a
// single normalized score with a discrete level. The three signals are the
// recognizer's own confidence, the audio signal-to-noise ratio, and a
// perplexity heuristic derived from word-level confidence. Each signal is
// clamped into [0,1] before weighting, so the combined score is always in
// [0,1] and undefined inputs (infinite SNR, zero average confidence) map to
// a defined boundary instead of propagating NaN or Inf.
package confidence

import (
	"errors"
	"math"

	"github.com/xranano/AI-audio-pipeline/internal/transcript"
)

// ErrInsufficientData indicates the transcript carries no word-level data,
// so the perplexity signal is undefined and no score can be produced.
var ErrInsufficientData = errors.New("insufficient data for confidence scoring")

// Level is the discrete confidence bucket for a combined score.
type Level string

const (
	LevelHigh   Level = "HIGH"
	LevelMedium Level = "MEDIUM"
	LevelLow    Level = "LOW"
)

// Weights holds the relative weight of each signal. They should sum to 1;
// the engine normalizes them if they do not.
type Weights struct {
	ASR        float64
	SNR        float64
	Perplexity float64
}

// DefaultWeights are the standard signal weights: recognizer confidence 50%,
// audio quality 30%, perplexity 20%.
var DefaultWeights = Weights{ASR: 0.5, SNR: 0.3, Perplexity: 0.2}

// Components records each raw signal alongside its normalized value, for
// the audit record.
type Components struct {
	ASRConfidence  float64 `json:"asr_confidence"`
	SNRDb          float64 `json:"snr_db"`
	Perplexity     float64 `json:"perplexity"`
	ASRNorm        float64 `json:"asr_norm"`
	SNRNorm        float64 `json:"snr_norm"`
	PerplexityNorm float64 `json:"perplexity_norm"`
}

// Score is the combined confidence result. It is immutable once computed.
type Score struct {
	Combined   float64    `json:"combined"`
	Level      Level      `json:"level"`
	Components Components `json:"components"`
}

// Engine computes combined confidence scores.
type Engine struct {
	weights Weights
}

// NewEngine creates a confidence engine with the given weights.
func NewEngine(weights Weights) *Engine {
	total := weights.ASR + weights.SNR + weights.Perplexity
	if total <= 0 {
		weights = DefaultWeights
		total = 1
	}
	weights.ASR /= total
	weights.SNR /= total
	weights.Perplexity /= total
	return &Engine{weights: weights}
}

// Score combines the recognizer confidence, the measured SNR in dB, and the
// transcript's word-level confidence into one normalized score. It fails
// with ErrInsufficientData when the transcript has no words, rather than
// silently producing 0 or NaN.
func (e *Engine) Score(tr *transcript.Transcript, snrDB float64) (*Score, error) {
	if len(tr.Words) == 0 {
		return nil, ErrInsufficientData
	}

	var sum float64
	for _, w := range tr.Words {
		sum += w.Confidence
	}
	avgConf := sum / float64(len(tr.Words))

	perplexity := math.Inf(1)
	if avgConf > 0 {
		perplexity = 1 / avgConf
	}

	components := Components{
		ASRConfidence:  tr.Confidence,
		SNRDb:          snrDB,
		Perplexity:     perplexity,
		ASRNorm:        clamp01(tr.Confidence),
		SNRNorm:        normalizeSNR(snrDB),
		PerplexityNorm: normalizePerplexity(perplexity),
	}

	combined := e.weights.ASR*components.ASRNorm +
		e.weights.SNR*components.SNRNorm +
		e.weights.Perplexity*components.PerplexityNorm

	return &Score{
		Combined:   combined,
		Level:      levelFor(combined),
		Components: components,
	}, nil
}

// normalizeSNR maps 10 dB to 0.0 and 30 dB to 1.0, clamped outside that
// range. The anchors are an empirical heuristic for "usable" versus
// "excellent" recording quality, not a calibrated statistic. An infinite
// SNR (zero noise variance) lands on the upper clamp.
func normalizeSNR(snrDB float64) float64 {
	return clamp01((snrDB - 10) / 20)
}

// normalizePerplexity maps a perplexity of 1.0 (perfect average word
// confidence) to 1.0 and anything at or above 2.0 to 0.0. An infinite
// perplexity (zero average confidence) lands on the lower clamp.
func normalizePerplexity(perplexity float64) float64 {
	if math.IsInf(perplexity, 1) {
		return 0
	}
	return clamp01(1 - (perplexity - 1))
}

// levelFor buckets a combined score. Thresholds are strict: exactly 0.85 is
// MEDIUM, exactly 0.70 is LOW.
func levelFor(combined float64) Level {
	switch {
	case combined > 0.85:
		return LevelHigh
	case combined > 0.70:
		return LevelMedium
	default:
		return LevelLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
