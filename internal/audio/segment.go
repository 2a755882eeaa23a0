package audio

import (
	"encoding/binary"
	"math"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/config"
)

// Segmenter cuts a continuous PCM stream into utterances using RMS energy:
// a chunk above the threshold opens an utterance and a sustained run of
// quiet chunks closes it. A short preroll of pre-speech audio is kept so
// the first syllable is not clipped.
type Segmenter struct {
	threshold float64

	silenceBytes int // quiet run that closes an utterance
	minVoiced    int // minimum voiced bytes for a valid utterance
	maxBytes     int // hard cap on utterance bytes
	prerollBytes int // leading audio kept from before speech onset

	utterance []byte
	preroll   []byte
	voiced    bool
	silentRun int
}

// NewSegmenter derives byte thresholds from audio config.
func NewSegmenter(cfg config.AudioConfig) *Segmenter {
	bytesPerMS := cfg.SampleRate * 2 / 1000
	return &Segmenter{
		threshold:    float64(cfg.EnergyThreshold),
		silenceBytes: cfg.SilenceMS * bytesPerMS,
		minVoiced:    cfg.MinUtteranceMS * bytesPerMS,
		maxBytes:     cfg.MaxUtteranceMS * bytesPerMS,
		prerollBytes: cfg.PrerollMS * bytesPerMS,
	}
}

// Feed consumes one capture chunk and returns a completed utterance when
// the silence window or the utterance cap is reached.
func (s *Segmenter) Feed(chunk []byte) ([]byte, bool) {
	if len(chunk) == 0 {
		return nil, false
	}

	loud := rmsEnergy(chunk) >= s.threshold

	if !s.voiced {
		if !loud {
			s.pushPreroll(chunk)
			return nil, false
		}
		s.utterance = append(s.utterance, s.preroll...)
		s.preroll = nil
		s.voiced = true
		s.silentRun = 0
	}

	s.utterance = append(s.utterance, chunk...)
	if loud {
		s.silentRun = 0
	} else {
		s.silentRun += len(chunk)
	}

	if s.silenceBytes > 0 && s.silentRun >= s.silenceBytes {
		return s.cut()
	}
	if s.maxBytes > 0 && len(s.utterance) >= s.maxBytes {
		return s.cut()
	}
	return nil, false
}

// Flush returns any buffered utterance when the stream ends.
func (s *Segmenter) Flush() ([]byte, bool) {
	if !s.voiced {
		s.preroll = nil
		return nil, false
	}
	return s.cut()
}

// cut closes the current utterance, discarding it when the voiced portion
// is too short to be speech.
func (s *Segmenter) cut() ([]byte, bool) {
	utterance := s.utterance
	voicedLen := len(utterance) - s.silentRun
	s.utterance = nil
	s.voiced = false
	s.silentRun = 0

	if voicedLen < s.minVoiced {
		return nil, false
	}
	return utterance, true
}

func (s *Segmenter) pushPreroll(chunk []byte) {
	if s.prerollBytes <= 0 {
		return
	}
	s.preroll = append(s.preroll, chunk...)
	if overflow := len(s.preroll) - s.prerollBytes; overflow > 0 {
		s.preroll = append([]byte(nil), s.preroll[overflow:]...)
	}
}

// rmsEnergy computes RMS amplitude over little-endian 16-bit samples.
func rmsEnergy(chunk []byte) float64 {
	sampleCount := len(chunk) / 2
	if sampleCount == 0 {
		return 0
	}

	sum := 0.0
	for i := 0; i+1 < len(chunk); i += 2 {
		sample := float64(int16(binary.LittleEndian.Uint16(chunk[i : i+2])))
		sum += sample * sample
	}
	return math.Sqrt(sum / float64(sampleCount))
}
