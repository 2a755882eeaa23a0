package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	cfg := base

	cleaned, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}
	payload, err := decodeStrict(cleaned)
	if err != nil {
		return Config{}, nil, err
	}
	if err := payload.applyTo(&cfg); err != nil {
		return Config{}, nil, err
	}

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

// decodeStrict unmarshals exactly one JSON value, rejecting unknown fields
// and trailing payloads, and annotates errors with line and column.
func decodeStrict(normalized string) (filePayload, error) {
	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload filePayload
	if err := decoder.Decode(&payload); err != nil {
		return filePayload{}, locateJSONError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return filePayload{}, locateJSONError(normalized, err)
	}
	return payload, nil
}

// normalizeJSONC rewrites JSONC into strict JSON in a single pass,
// preserving byte offsets: comments and trailing commas are blanked with
// spaces so decode errors still point at the user's line and column.
func normalizeJSONC(content string) (string, error) {
	const (
		modeCode = iota
		modeString
		modeStringEscape
		modeLineComment
		modeBlockComment
	)

	out := []byte(content)
	mode := modeCode

	// Index of a comma that may turn out to be trailing; blanked once the
	// next significant byte is a closing brace or bracket.
	pendingComma := -1

	blank := func(i int) {
		switch out[i] {
		case '\n', '\r', '\t':
		default:
			out[i] = ' '
		}
	}

	for i := 0; i < len(out); i++ {
		ch := out[i]

		switch mode {
		case modeString:
			if ch == '\\' {
				mode = modeStringEscape
			} else if ch == '"' {
				mode = modeCode
			}

		case modeStringEscape:
			mode = modeString

		case modeLineComment:
			if ch == '\n' || ch == '\r' {
				mode = modeCode
			} else {
				blank(i)
			}

		case modeBlockComment:
			if ch == '*' && i+1 < len(out) && out[i+1] == '/' {
				blank(i)
				i++
				blank(i)
				mode = modeCode
			} else {
				blank(i)
			}

		default:
			switch {
			case ch == '"':
				mode = modeString
				pendingComma = -1
			case ch == '/' && i+1 < len(out) && out[i+1] == '/':
				blank(i)
				i++
				blank(i)
				mode = modeLineComment
			case ch == '/' && i+1 < len(out) && out[i+1] == '*':
				blank(i)
				i++
				blank(i)
				mode = modeBlockComment
			case ch == ',':
				pendingComma = i
			case ch == '}' || ch == ']':
				if pendingComma >= 0 {
					out[pendingComma] = ' '
				}
				pendingComma = -1
			case isSpaceByte(ch):
			default:
				pendingComma = -1
			}
		}
	}

	if mode == modeBlockComment {
		return "", errors.New("unterminated block comment in JSONC")
	}
	return string(out), nil
}

func isSpaceByte(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// ensureSingleJSONValue fails when more JSON follows the first value.
func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	switch err := decoder.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	}
	return errors.New("multiple JSON values are not allowed")
}

// locateJSONError prefixes decode errors with the line and column their
// offset points at; errors without an offset pass through unchanged.
func locateJSONError(content string, err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		offset    int64
	)
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return err
	}

	line, col := offsetToLineCol(content, offset)
	return fmt.Errorf("line %d column %d: %w", line, col, err)
}

// offsetToLineCol maps a byte offset reported by the JSON decoder to
// 1-based line and column numbers, clamping out-of-range offsets.
func offsetToLineCol(content string, offset int64) (int, int) {
	limit := min(int(offset), len(content))
	if limit < 1 {
		return 1, 1
	}

	prefix := content[:limit-1]
	newlines := strings.Count(prefix, "\n")
	return newlines + 1, limit - strings.LastIndex(prefix, "\n") - 1
}
