package audio_test

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/xranano/AI-audio-pipeline/internal/audio"
)

// buildWAV assembles a minimal mono 16-bit PCM WAV file around the given
// samples.
func buildWAV(t *testing.T, samples []int16) []byte {
	t.Helper()

	pcm := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(s))
	}

	var buf []byte
	u32 := func(v uint32) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b
	}
	u16 := func(v uint16) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		return b
	}

	buf = append(buf, "RIFF"...)
	buf = append(buf, u32(uint32(36+len(pcm)))...)
	buf = append(buf, "WAVE"...)

	buf = append(buf, "fmt "...)
	buf = append(buf, u32(16)...)
	buf = append(buf, u16(1)...)           // PCM
	buf = append(buf, u16(1)...)           // mono
	buf = append(buf, u32(16000)...)       // sample rate
	buf = append(buf, u32(16000*2)...)     // byte rate
	buf = append(buf, u16(2)...)           // block align
	buf = append(buf, u16(16)...)          // bits per sample

	buf = append(buf, "data"...)
	buf = append(buf, u32(uint32(len(pcm)))...)
	buf = append(buf, pcm...)

	return buf
}

func TestSNR_ConstantSignalIsInfinite(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 100)
	for i := range samples {
		samples[i] = 1000
	}
	if got := audio.SNR(samples); !math.IsInf(got, 1) {
		t.Errorf("SNR of constant signal = %v, want +Inf", got)
	}
}

func TestSNR_ZeroMeanAlternatingIsZeroDB(t *testing.T) {
	t.Parallel()

	// ±v around zero: signal power equals variance, so the ratio is 1.
	samples := make([]int16, 100)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 4000
		} else {
			samples[i] = -4000
		}
	}
	if got := audio.SNR(samples); math.Abs(got) > 1e-9 {
		t.Errorf("SNR = %v dB, want 0", got)
	}
}

func TestSNR_DCOffsetRaisesSNR(t *testing.T) {
	t.Parallel()

	// m±a: power = m²+a², variance = a².
	const m, a = 8000, 2000
	samples := make([]int16, 100)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = m + a
		} else {
			samples[i] = m - a
		}
	}
	want := 10 * math.Log10((float64(m)*m+float64(a)*a)/(float64(a)*a))
	if got := audio.SNR(samples); math.Abs(got-want) > 1e-6 {
		t.Errorf("SNR = %v dB, want %v", got, want)
	}
}

func TestSNR_Empty(t *testing.T) {
	t.Parallel()

	if got := audio.SNR(nil); !math.IsInf(got, 1) {
		t.Errorf("SNR of no samples = %v, want +Inf", got)
	}
}

func TestDecodeWAV_RoundTrip(t *testing.T) {
	t.Parallel()

	want := []int16{0, 1000, -1000, 32767, -32768}
	got, err := audio.DecodeWAV(buildWAV(t, want))
	if err != nil {
		t.Fatalf("DecodeWAV returned error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDecodeWAV_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte("RIFF")},
		{"not riff", append([]byte("JUNKxxxxWAVE"), make([]byte, 64)...)},
		{"mp3 magic", append([]byte{0xFF, 0xFB, 0x90, 0x00}, make([]byte, 64)...)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := audio.DecodeWAV(tt.data); !errors.Is(err, audio.ErrUnsupportedAudio) {
				t.Errorf("DecodeWAV err = %v, want ErrUnsupportedAudio", err)
			}
		})
	}
}

func TestDecodePCM16(t *testing.T) {
	t.Parallel()

	data := []byte{0x01, 0x00, 0xFF, 0xFF, 0x00, 0x80, 0xAB} // trailing odd byte dropped
	got := audio.DecodePCM16(data)
	want := []int16{1, -1, -32768}
	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAnalyzeBytes_Routing(t *testing.T) {
	t.Parallel()

	wav := buildWAV(t, []int16{100, -100, 100, -100})

	if _, err := audio.AnalyzeBytes("call.wav", wav); err != nil {
		t.Errorf("AnalyzeBytes(.wav) returned error: %v", err)
	}
	if _, err := audio.AnalyzeBytes("CALL.WAV", wav); err != nil {
		t.Errorf("AnalyzeBytes with uppercase extension returned error: %v", err)
	}
	if _, err := audio.AnalyzeBytes("call.pcm", []byte{0x01, 0x00, 0xFF, 0x7F}); err != nil {
		t.Errorf("AnalyzeBytes(.pcm) returned error: %v", err)
	}
	if _, err := audio.AnalyzeBytes("call.raw", []byte{0x01, 0x00, 0xFF, 0x7F}); err != nil {
		t.Errorf("AnalyzeBytes(.raw) returned error: %v", err)
	}
	if _, err := audio.AnalyzeBytes("call.mp3", []byte{0xFF, 0xFB}); !errors.Is(err, audio.ErrUnsupportedAudio) {
		t.Errorf("AnalyzeBytes(.mp3) err = %v, want ErrUnsupportedAudio", err)
	}
}
