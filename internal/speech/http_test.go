package speech

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/config"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }

func engineForServer(t *testing.T, srv *httptest.Server) *HTTPEngine {
	t.Helper()

	cfg := config.Default().Engine
	cfg.HTTP = strings.TrimPrefix(srv.URL, "http://")
	return NewHTTPEngine(cfg, nil)
}

func TestTranscribeSendsMultipartRequest(t *testing.T) {
	var gotPath, gotFormat, gotLanguage string
	var gotAudio []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFormat = r.FormValue("response_format")
		gotLanguage = r.FormValue("language")

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		gotAudio, err = io.ReadAll(file)
		require.NoError(t, err)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"text":     " Go to line 42. ",
			"language": "en",
			"segments": []map[string]any{
				{"text": " Go to line 42.", "no_speech_prob": 0.2},
				{"text": "", "no_speech_prob": 0.4},
			},
		})
	}))
	defer srv.Close()

	engine := engineForServer(t, srv)

	got, err := engine.Transcribe(context.Background(), []byte("RIFF-audio"))
	require.NoError(t, err)

	require.Equal(t, "/inference", gotPath)
	require.Equal(t, "verbose_json", gotFormat)
	require.Equal(t, "en", gotLanguage)
	require.Equal(t, []byte("RIFF-audio"), gotAudio)

	require.Equal(t, "Go to line 42.", got.Text)
	require.Equal(t, "en", got.Language)
	require.InDelta(t, 0.7, got.Confidence, 1e-9)
}

func TestTranscribeAssemblesSegmentsWhenTextMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text": "",
			"segments": []map[string]any{
				{"text": " go to "},
				{"text": " line 7"},
			},
		})
	}))
	defer srv.Close()

	engine := engineForServer(t, srv)

	got, err := engine.Transcribe(context.Background(), []byte("RIFF-audio"))
	require.NoError(t, err)
	require.Equal(t, "go to line 7", got.Text)
	require.Equal(t, "en", got.Language)
	require.InDelta(t, 0.5, got.Confidence, 1e-9)
}

func TestTranscribeRejectsEmptyAudio(t *testing.T) {
	engine := NewHTTPEngine(config.Default().Engine, nil)

	_, err := engine.Transcribe(context.Background(), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "audio payload is empty")
}

func TestTranscribeSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("model not loaded"))
	}))
	defer srv.Close()

	engine := engineForServer(t, srv)

	_, err := engine.Transcribe(context.Background(), []byte("RIFF-audio"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
	require.Contains(t, err.Error(), "model not loaded")
}

func TestConfidenceFrom(t *testing.T) {
	require.InDelta(t, 0.5, confidenceFrom(nil), 1e-9)
	require.InDelta(t, 0.5, confidenceFrom([]segmentPayload{{Text: "hi"}}), 1e-9)
	require.InDelta(t, 0.9, confidenceFrom([]segmentPayload{{NoSpeechProb: float64Ptr(0.1)}}), 1e-9)
	require.Equal(t, 0.0, confidenceFrom([]segmentPayload{{NoSpeechProb: float64Ptr(1.8)}}))
}

func TestAssembleSegmentsCollapsesWhitespace(t *testing.T) {
	got := assembleSegments([]segmentPayload{
		{Text: "  hello   there "},
		{Text: ""},
		{Text: " world"},
	})
	require.Equal(t, "hello there world", got)
	require.Equal(t, "", assembleSegments(nil))
}
