package audio

import (
	"math"
	"path/filepath"
	"strings"
)

// SNR computes the signal-to-noise ratio in dB over normalized samples:
// 10·log10(mean(s²) / variance(s)). A zero noise variance yields +Inf,
// meaning no measurable noise; the confidence engine clamps it.
func SNR(samples []int16) float64 {
	if len(samples) == 0 {
		return math.Inf(1)
	}

	n := float64(len(samples))
	var sum, sumSquares float64
	for _, s := range samples {
		v := float64(s) / 32768.0
		sum += v
		sumSquares += v * v
	}

	signalPower := sumSquares / n
	mean := sum / n
	variance := signalPower - mean*mean
	if variance <= 0 {
		return math.Inf(1)
	}

	return 10 * math.Log10(signalPower/variance)
}

// AnalyzeBytes decodes the given audio file contents and returns the SNR in
// dB. The container is inferred from the file name extension: .wav is parsed
// as a WAV container, .pcm and .raw as bare little-endian 16-bit PCM.
// Everything else returns ErrUnsupportedAudio.
func AnalyzeBytes(path string, data []byte) (float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		samples, err := DecodeWAV(data)
		if err != nil {
			return 0, err
		}
		return SNR(samples), nil
	case ".pcm", ".raw":
		return SNR(DecodePCM16(data)), nil
	default:
		return 0, ErrUnsupportedAudio
	}
}
