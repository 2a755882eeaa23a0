// Package speech transcribes captured utterance audio into text.
package speech

import "context"

// Transcription is one recognized utterance with engine confidence.
type Transcription struct {
	Text       string
	Language   string
	Confidence float64
}

// Engine converts a WAV-encoded utterance into a transcription.
type Engine interface {
	Transcribe(ctx context.Context, wav []byte) (Transcription, error)
}
