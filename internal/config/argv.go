package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// parseArgv splits a configured command line into argv parts, honoring
// single and double quotes and backslash escapes. Blank input and lines
// starting with '#' yield no command.
func parseArgv(input string) ([]string, error) {
	rest := strings.TrimSpace(input)
	if rest == "" || strings.HasPrefix(rest, "#") {
		return nil, nil
	}

	var argv []string
	for {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			return argv, nil
		}

		token, remainder, err := scanArgvToken(rest)
		if err != nil {
			return nil, fmt.Errorf("%s in command: %q", err, input)
		}
		if token != "" {
			argv = append(argv, token)
		}
		rest = remainder
	}
}

// scanArgvToken consumes one whitespace-delimited token from the front of s.
func scanArgvToken(s string) (string, string, error) {
	var token strings.Builder
	var quote rune

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)

		if r == '\\' {
			s = s[size:]
			if s == "" {
				return "", "", errors.New("unterminated escape sequence")
			}
			escaped, escapedSize := utf8.DecodeRuneInString(s)
			token.WriteRune(escaped)
			s = s[escapedSize:]
			continue
		}

		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				token.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case unicode.IsSpace(r):
			return token.String(), s, nil
		default:
			token.WriteRune(r)
		}
		s = s[size:]
	}

	if quote != 0 {
		return "", "", errors.New("unterminated quote")
	}
	return token.String(), "", nil
}

// mustParseArgv is for built-in defaults known to be well formed.
func mustParseArgv(input string) []string {
	argv, err := parseArgv(input)
	if err != nil {
		panic(fmt.Sprintf("built-in command %q: %v", input, err))
	}
	return argv
}
