package audio

import (
	"bytes"
	"encoding/binary"
	"io"
)

// wavHeader is the canonical 44-byte RIFF/WAVE preamble for PCM payloads.
// Field order and widths match the on-disk layout so binary.Write emits it
// verbatim.
type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

func fourCC(s string) (id [4]byte) {
	copy(id[:], s)
	return id
}

// WriteWAV writes raw little-endian PCM bytes with a minimal WAV header.
func WriteWAV(w io.Writer, pcm []byte, sampleRate int, channels int) error {
	if channels < 1 {
		channels = 1
	}
	const sampleBits = 16
	bytesPerFrame := channels * sampleBits / 8

	hdr := wavHeader{
		ChunkID:       fourCC("RIFF"),
		ChunkSize:     uint32(36 + len(pcm)),
		Format:        fourCC("WAVE"),
		Subchunk1ID:   fourCC("fmt "),
		Subchunk1Size: 16,
		AudioFormat:   1, // uncompressed integer PCM
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * bytesPerFrame),
		BlockAlign:    uint16(bytesPerFrame),
		BitsPerSample: sampleBits,
		Subchunk2ID:   fourCC("data"),
		Subchunk2Size: uint32(len(pcm)),
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}
	_, err := w.Write(pcm)
	return err
}

// EncodeWAV wraps mono 16-bit PCM in an in-memory WAV container.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))
	_ = WriteWAV(&buf, pcm, sampleRate, 1)
	return buf.Bytes()
}
