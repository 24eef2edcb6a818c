// Package audio measures recording quality from raw audio samples. It
// decodes 16-bit PCM (bare or inside a WAV container) and computes the
// signal-to-noise ratio used by the confidence engine.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnsupportedAudio indicates the input is not a format the analyzer can
// decode into PCM samples (e.g. MP3). Callers may proceed without an SNR
// measurement.
var ErrUnsupportedAudio = errors.New("unsupported audio format for SNR analysis")

// wavHeader is the fixed 12-byte RIFF descriptor at the start of a WAV file.
type wavHeader struct {
	ChunkID [4]byte // "RIFF"
	Size    uint32
	Format  [4]byte // "WAVE"
}

// DecodeWAV extracts the 16-bit PCM samples from a WAV file's bytes.
// Multi-channel audio is returned interleaved; SNR is channel-agnostic so
// no downmix is performed.
func DecodeWAV(data []byte) ([]int16, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: file shorter than RIFF header", ErrUnsupportedAudio)
	}

	var hdr wavHeader
	copy(hdr.ChunkID[:], data[0:4])
	hdr.Size = binary.LittleEndian.Uint32(data[4:8])
	copy(hdr.Format[:], data[8:12])

	if string(hdr.ChunkID[:]) != "RIFF" || string(hdr.Format[:]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrUnsupportedAudio)
	}

	// Walk the sub-chunks for "fmt " and "data". Other chunks (LIST, fact)
	// are skipped.
	var (
		bitsPerSample uint16
		audioFormat   uint16
		pcm           []byte
	)
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("%w: truncated fmt chunk", ErrUnsupportedAudio)
			}
			audioFormat = binary.LittleEndian.Uint16(data[body : body+2])
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
		case "data":
			pcm = data[body : body+chunkSize]
		}

		// Chunks are word-aligned; odd sizes carry a pad byte.
		offset = body + chunkSize + chunkSize%2
	}

	if audioFormat != 1 || bitsPerSample != 16 {
		return nil, fmt.Errorf("%w: need 16-bit PCM, got format %d with %d bits", ErrUnsupportedAudio, audioFormat, bitsPerSample)
	}
	if pcm == nil {
		return nil, fmt.Errorf("%w: missing data chunk", ErrUnsupportedAudio)
	}

	return DecodePCM16(pcm), nil
}

// DecodePCM16 interprets data as little-endian 16-bit PCM samples. A
// trailing odd byte is dropped.
func DecodePCM16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[2*i : 2*i+2]))
	}
	return samples
}
