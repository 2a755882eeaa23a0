package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseArgvSplitsTokens(t *testing.T) {
	tests := map[string]struct {
		input string
		want  []string
	}{
		"empty input":       {input: "", want: nil},
		"whitespace only":   {input: " \t  ", want: nil},
		"comment line":      {input: `# xdotool key --clearmodifiers`, want: nil},
		"plain tokens":      {input: "xdotool key --clearmodifiers", want: []string{"xdotool", "key", "--clearmodifiers"}},
		"run of spaces":     {input: "notify-send   serenade", want: []string{"notify-send", "serenade"}},
		"double quotes":     {input: `mycmd --name "hello world"`, want: []string{"mycmd", "--name", "hello world"}},
		"single quotes":     {input: `mycmd --name 'hello world'`, want: []string{"mycmd", "--name", "hello world"}},
		"quote mid token":   {input: `mycmd --name="x y"`, want: []string{"mycmd", "--name=x y"}},
		"escaped space":     {input: `mycmd hello\ world`, want: []string{"mycmd", "hello world"}},
		"escaped quote":     {input: `mycmd \"hi\"`, want: []string{"mycmd", `"hi"`}},
		"empty quotes drop": {input: `mycmd ""`, want: []string{"mycmd"}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseArgv(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseArgvRejectsDanglingQuoteAndEscape(t *testing.T) {
	_, err := parseArgv(`mycmd "oops`)
	require.ErrorContains(t, err, "unterminated quote")

	_, err = parseArgv(`mycmd hello\`)
	require.ErrorContains(t, err, "unterminated escape")
}

func TestParseArgvErrorNamesOffendingCommand(t *testing.T) {
	_, err := parseArgv(`busctl --user "call`)
	require.ErrorContains(t, err, `busctl --user \"call`)
}

func TestMustParseArgvPanicsOnBadCommand(t *testing.T) {
	require.Panics(t, func() {
		mustParseArgv(`notify-send "unbalanced`)
	})
	require.Equal(t, []string{"notify-send", "done"}, mustParseArgv("notify-send done"))
}
