package config

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeJSONC(t *testing.T) {
	input := `{
  // engine endpoints
  "engine": { "grpc": "127.0.0.1:50051", }, /* inline note */
  "list": [ 1, 2, ],
}`

	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)

	// Comments and trailing commas are blanked in place, so every byte
	// keeps its original offset.
	require.Equal(t, len(input), len(normalized))
	require.NotContains(t, normalized, "//")
	require.NotContains(t, normalized, "/*")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(normalized), &decoded))
	require.Contains(t, decoded, "engine")
	require.Contains(t, decoded, "list")
}

func TestNormalizeJSONCLeavesStringsAlone(t *testing.T) {
	input := `{"note":"urls like http://x and // or /* stay */","tail":"a\"b // c",}`

	normalized, err := normalizeJSONC(input)
	require.NoError(t, err)
	require.Contains(t, normalized, `http://x and // or /* stay */`)
	require.Contains(t, normalized, `a\"b // c`)
}

func TestNormalizeJSONCRejectsUnterminatedBlockComment(t *testing.T) {
	_, err := normalizeJSONC("{\n/* never closed")
	require.ErrorContains(t, err, "unterminated block comment")
}

func TestTrailingPayloadAfterFirstValueIsRejected(t *testing.T) {
	decoder := json.NewDecoder(strings.NewReader(`{"a":true}[2]`))
	require.NoError(t, decoder.Decode(&map[string]any{}))

	require.ErrorContains(t, ensureSingleJSONValue(decoder), "multiple JSON values")
}

func TestOffsetToLineColPositions(t *testing.T) {
	content := "alpha\nbravo\ncharlie"
	cases := []struct {
		offset    int64
		line, col int
	}{
		{offset: 1, line: 1, col: 1},
		{offset: 8, line: 2, col: 2},
		{offset: 999, line: 3, col: 7},
	}
	for _, tc := range cases {
		line, col := offsetToLineCol(content, tc.offset)
		require.Equal(t, tc.line, line, "offset %d", tc.offset)
		require.Equal(t, tc.col, col, "offset %d", tc.offset)
	}
}

func TestParseJSONCRejectsUnknownField(t *testing.T) {
	_, _, err := parseJSONC(`{"whisper": {"model": "base"}}`, Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown field")
}

func TestParseJSONCRejectsUnparseableCommandStrings(t *testing.T) {
	for _, field := range []string{"type_cmd", "key_cmd"} {
		doc := `{"automation":{"` + field + `":"unterminated ' quote"}}`
		_, _, err := parseJSONC(doc, Default())
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid automation."+field)
	}
}

func TestParseJSONCTrimsStringFields(t *testing.T) {
	cfg, _, err := parseJSONC(`{
  "engine": {"http": "  127.0.0.1:9090  ", "language": " en "},
  "notifications": {"app_name": "  serenade-dev  "}
}`, Default())
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", cfg.Engine.HTTP)
	require.Equal(t, "en", cfg.Engine.Language)
	require.Equal(t, "serenade-dev", cfg.Notifications.AppName)
}

func TestParseJSONCRejectsTwoDocuments(t *testing.T) {
	_, _, err := parseJSONC(`{"server":{"enable":false}}{"server":{"enable":true}}`, Default())
	require.Error(t, err)

	acceptable := strings.Contains(err.Error(), "multiple JSON values") ||
		strings.Contains(err.Error(), "unknown field")
	require.True(t, acceptable, "unexpected error: %v", err)
}

func TestParseJSONCReportsErrorLocation(t *testing.T) {
	_, _, err := parseJSONC("{\n  \"engine\": {\"grpc\": 123}\n}", Default())
	require.ErrorContains(t, err, "line")
	require.ErrorContains(t, err, "column")
}
