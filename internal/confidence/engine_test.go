package confidence_test

import (
	"errors"
	"math"
	"testing"

	"github.com/xranano/AI-audio-pipeline/internal/confidence"
	"github.com/xranano/AI-audio-pipeline/internal/transcript"
)

func wordsWithConfidence(confs ...float64) []transcript.WordInfo {
	words := make([]transcript.WordInfo, len(confs))
	for i, c := range confs {
		words[i] = transcript.WordInfo{Token: "w", Confidence: c}
	}
	return words
}

func TestEngine_WorkedExample(t *testing.T) {
	t.Parallel()

	engine := confidence.NewEngine(confidence.DefaultWeights)
	tr := &transcript.Transcript{
		Text:       "two words",
		Confidence: 0.85,
		Words:      wordsWithConfidence(0.9, 0.8),
	}

	score, err := engine.Score(tr, 25)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}

	if got, want := score.Components.SNRNorm, 0.75; math.Abs(got-want) > 1e-9 {
		t.Errorf("SNRNorm = %v, want %v", got, want)
	}
	if got, want := score.Components.Perplexity, 1/0.85; math.Abs(got-want) > 1e-9 {
		t.Errorf("Perplexity = %v, want %v", got, want)
	}
	if got, want := score.Components.PerplexityNorm, 1-(1/0.85-1); math.Abs(got-want) > 1e-9 {
		t.Errorf("PerplexityNorm = %v, want %v", got, want)
	}
	if got, want := score.Combined, 0.5*0.85+0.3*0.75+0.2*(1-(1/0.85-1)); math.Abs(got-want) > 1e-9 {
		t.Errorf("Combined = %v, want %v", got, want)
	}
	// ≈ 0.814: below the 0.85 HIGH threshold.
	if score.Level != confidence.LevelMedium {
		t.Errorf("Level = %s, want MEDIUM", score.Level)
	}
}

func TestEngine_ThresholdsAreStrict(t *testing.T) {
	t.Parallel()

	// An ASR-only weighting makes the combined score equal the ASR input,
	// so the boundary values can be hit exactly.
	engine := confidence.NewEngine(confidence.Weights{ASR: 1})

	tests := []struct {
		combined float64
		want     confidence.Level
	}{
		{0.86, confidence.LevelHigh},
		{0.85, confidence.LevelMedium}, // exactly 0.85 is not HIGH
		{0.71, confidence.LevelMedium},
		{0.70, confidence.LevelLow}, // exactly 0.70 is not MEDIUM
		{0.10, confidence.LevelLow},
	}
	for _, tt := range tests {
		tr := &transcript.Transcript{Confidence: tt.combined, Words: wordsWithConfidence(0.9)}
		score, err := engine.Score(tr, 20)
		if err != nil {
			t.Fatalf("Score(%v) returned error: %v", tt.combined, err)
		}
		if score.Combined != tt.combined {
			t.Errorf("Combined = %v, want exactly %v", score.Combined, tt.combined)
		}
		if score.Level != tt.want {
			t.Errorf("Level for %v = %s, want %s", tt.combined, score.Level, tt.want)
		}
	}
}

func TestEngine_CombinedInUnitInterval(t *testing.T) {
	t.Parallel()

	engine := confidence.NewEngine(confidence.DefaultWeights)
	extremes := []struct {
		asr  float64
		snr  float64
		conf float64
	}{
		{0, -100, 0.01},
		{1, 1000, 1},
		{1, math.Inf(1), 1},
		{0.5, 0, 0},
	}
	for _, e := range extremes {
		tr := &transcript.Transcript{Confidence: e.asr, Words: wordsWithConfidence(e.conf)}
		score, err := engine.Score(tr, e.snr)
		if err != nil {
			t.Fatalf("Score(%+v) returned error: %v", e, err)
		}
		if score.Combined < 0 || score.Combined > 1 {
			t.Errorf("Combined = %v for %+v, want within [0,1]", score.Combined, e)
		}
		if math.IsNaN(score.Combined) || math.IsInf(score.Combined, 0) {
			t.Errorf("Combined = %v for %+v, want finite", score.Combined, e)
		}
	}
}

func TestEngine_Monotonic(t *testing.T) {
	t.Parallel()

	engine := confidence.NewEngine(confidence.DefaultWeights)

	score := func(asr, snr, wordConf float64) float64 {
		tr := &transcript.Transcript{Confidence: asr, Words: wordsWithConfidence(wordConf)}
		s, err := engine.Score(tr, snr)
		if err != nil {
			t.Fatalf("Score returned error: %v", err)
		}
		return s.Combined
	}

	prev := -1.0
	for asr := 0.0; asr <= 1.0; asr += 0.05 {
		if got := score(asr, 20, 0.8); got < prev {
			t.Fatalf("combined decreased as ASR confidence rose: %v then %v", prev, got)
		} else {
			prev = got
		}
	}

	prev = -1.0
	for snr := 0.0; snr <= 40; snr += 2 {
		if got := score(0.8, snr, 0.8); got < prev {
			t.Fatalf("combined decreased as SNR rose: %v then %v", prev, got)
		} else {
			prev = got
		}
	}

	prev = -1.0
	for conf := 0.05; conf <= 1.0; conf += 0.05 {
		if got := score(0.8, 20, conf); got < prev {
			t.Fatalf("combined decreased as word confidence rose: %v then %v", prev, got)
		} else {
			prev = got
		}
	}
}

func TestEngine_InfiniteSNRClampsToOne(t *testing.T) {
	t.Parallel()

	engine := confidence.NewEngine(confidence.DefaultWeights)
	tr := &transcript.Transcript{Confidence: 0.9, Words: wordsWithConfidence(0.9)}

	score, err := engine.Score(tr, math.Inf(1))
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if score.Components.SNRNorm != 1 {
		t.Errorf("SNRNorm = %v for infinite SNR, want 1", score.Components.SNRNorm)
	}
}

func TestEngine_ZeroAverageConfidence(t *testing.T) {
	t.Parallel()

	engine := confidence.NewEngine(confidence.DefaultWeights)
	tr := &transcript.Transcript{Confidence: 0.9, Words: wordsWithConfidence(0, 0)}

	score, err := engine.Score(tr, 20)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if !math.IsInf(score.Components.Perplexity, 1) {
		t.Errorf("Perplexity = %v, want +Inf", score.Components.Perplexity)
	}
	if score.Components.PerplexityNorm != 0 {
		t.Errorf("PerplexityNorm = %v, want 0", score.Components.PerplexityNorm)
	}
	if math.IsNaN(score.Combined) {
		t.Error("Combined is NaN, want a finite clamped value")
	}
}

func TestEngine_EmptyWordsIsInsufficientData(t *testing.T) {
	t.Parallel()

	engine := confidence.NewEngine(confidence.DefaultWeights)
	tr := &transcript.Transcript{Confidence: 0.9}

	if _, err := engine.Score(tr, 20); !errors.Is(err, confidence.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
}

func TestNewEngine_NormalizesWeights(t *testing.T) {
	t.Parallel()

	// Doubled weights must produce the same combined score as the defaults.
	doubled := confidence.NewEngine(confidence.Weights{ASR: 1.0, SNR: 0.6, Perplexity: 0.4})
	standard := confidence.NewEngine(confidence.DefaultWeights)

	tr := &transcript.Transcript{Confidence: 0.8, Words: wordsWithConfidence(0.9, 0.7)}
	a, err := doubled.Score(tr, 22)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	b, err := standard.Score(tr, 22)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	if math.Abs(a.Combined-b.Combined) > 1e-12 {
		t.Errorf("doubled weights combined = %v, standard = %v", a.Combined, b.Combined)
	}
}
