package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/config"
)

// HTTPEngine transcribes utterances through a whisper inference server
// speaking the multipart /inference protocol.
type HTTPEngine struct {
	baseURL       string
	inferencePath string
	language      string
	timeout       time.Duration
	client        *http.Client
	logger        *slog.Logger
}

// NewHTTPEngine constructs an engine client from engine config.
func NewHTTPEngine(cfg config.EngineConfig, logger *slog.Logger) *HTTPEngine {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPEngine{
		baseURL:       "http://" + strings.TrimSpace(cfg.HTTP),
		inferencePath: cfg.InferencePath,
		language:      cfg.Language,
		timeout:       timeout,
		client:        &http.Client{},
		logger:        logger,
	}
}

// inferencePayload mirrors the server's verbose_json response shape.
type inferencePayload struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []segmentPayload `json:"segments"`
}

type segmentPayload struct {
	Text         string   `json:"text"`
	NoSpeechProb *float64 `json:"no_speech_prob"`
}

// Transcribe posts WAV audio to the inference endpoint and converts the
// verbose response into a transcription.
func (e *HTTPEngine) Transcribe(ctx context.Context, wav []byte) (Transcription, error) {
	if len(wav) == 0 {
		return Transcription{}, errors.New("audio payload is empty")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "utterance.wav")
	if err != nil {
		return Transcription{}, fmt.Errorf("build inference request: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return Transcription{}, fmt.Errorf("build inference request: %w", err)
	}
	_ = writer.WriteField("response_format", "verbose_json")
	_ = writer.WriteField("temperature", "0.0")
	if e.language != "" {
		_ = writer.WriteField("language", e.language)
	}
	if err := writer.Close(); err != nil {
		return Transcription{}, fmt.Errorf("build inference request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, e.baseURL+e.inferencePath, body)
	if err != nil {
		return Transcription{}, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return Transcription{}, fmt.Errorf("inference request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Transcription{}, fmt.Errorf("inference request failed with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var payload inferencePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Transcription{}, fmt.Errorf("decode inference response: %w", err)
	}

	transcription := Transcription{
		Text:       strings.TrimSpace(payload.Text),
		Language:   payload.Language,
		Confidence: confidenceFrom(payload.Segments),
	}
	if transcription.Text == "" {
		transcription.Text = assembleSegments(payload.Segments)
	}
	if transcription.Language == "" {
		transcription.Language = e.language
	}

	if e.logger != nil {
		e.logger.Debug("utterance transcribed",
			"text", transcription.Text,
			"confidence", transcription.Confidence)
	}
	return transcription, nil
}

// assembleSegments joins segment texts and collapses whitespace runs.
func assembleSegments(segments []segmentPayload) string {
	if len(segments) == 0 {
		return ""
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// confidenceFrom derives utterance confidence from the mean segment
// no-speech probability. Segments that do not report one are skipped;
// with no reporting segments at all the engine is treated as ambivalent.
func confidenceFrom(segments []segmentPayload) float64 {
	sum := 0.0
	count := 0
	for _, seg := range segments {
		if seg.NoSpeechProb == nil {
			continue
		}
		sum += *seg.NoSpeechProb
		count++
	}

	noSpeech := 0.5
	if count > 0 {
		noSpeech = sum / float64(count)
	}

	confidence := 1.0 - noSpeech
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}
