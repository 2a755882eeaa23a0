package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEmptyArgsShowsHelp(t *testing.T) {
	parsed, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Parsed{Command: CommandHelp, ShowHelp: true}, parsed)
}

func TestParseAcceptsCommandsAndFlags(t *testing.T) {
	tests := []struct {
		args []string
		want Parsed
	}{
		{[]string{"-h"}, Parsed{Command: CommandHelp, ShowHelp: true}},
		{[]string{"--help"}, Parsed{Command: CommandHelp, ShowHelp: true}},
		{[]string{"help"}, Parsed{Command: CommandHelp, ShowHelp: true}},
		{[]string{"--version"}, Parsed{Command: CommandVersion}},
		{[]string{"listen"}, Parsed{Command: CommandListen}},
		{[]string{"last"}, Parsed{Command: CommandLast}},
		{[]string{"--config", "/tmp/cfg", "stop"}, Parsed{Command: CommandStop, ConfigPath: "/tmp/cfg"}},
		{[]string{"--config", "/tmp/serenade.conf", "doctor"}, Parsed{Command: CommandDoctor, ConfigPath: "/tmp/serenade.conf"}},
		// a command after -h wins over the help flag
		{[]string{"-h", "devices"}, Parsed{Command: CommandDevices}},
	}

	for _, tc := range tests {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			parsed, err := Parse(tc.args)
			require.NoError(t, err)
			require.Equal(t, tc.want, parsed)
		})
	}
}

func TestParseUtteranceText(t *testing.T) {
	tests := map[string]struct {
		args []string
		want Parsed
	}{
		"process joins words": {
			args: []string{"process", "go", "to", "line", "42"},
			want: Parsed{Command: CommandProcess, Text: "go to line 42"},
		},
		"process keeps casing": {
			args: []string{"process", "Save", "As", "notes.txt"},
			want: Parsed{Command: CommandProcess, Text: "Save As notes.txt"},
		},
		"suggest with config flag": {
			args: []string{"--config", "/tmp/cfg", "suggest", "go", "to", "lime"},
			want: Parsed{Command: CommandSuggest, ConfigPath: "/tmp/cfg", Text: "go to lime"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			parsed, err := Parse(tc.args)
			require.NoError(t, err)
			require.Equal(t, tc.want, parsed)
		})
	}
}

func TestParseRejectsBadArgv(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr string
	}{
		{[]string{"--config"}, "requires a path"},
		{[]string{"--bogus"}, "unknown flag"},
		{[]string{"bogus"}, "unknown command"},
		{[]string{"doctor", "extra"}, "unexpected arguments"},
		{[]string{"status", "--config", "/tmp/cfg"}, "unexpected arguments after command"},
		{[]string{"process"}, "requires utterance text"},
		{[]string{"suggest"}, "requires utterance text"},
	}

	for _, tc := range tests {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			_, err := Parse(tc.args)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestHelpTextListsEverySubcommand(t *testing.T) {
	text := HelpText("serenade")
	require.Contains(t, text, "Usage:\n  serenade [--config PATH] <command>")
	require.Contains(t, text, "--config PATH")

	for _, s := range commandSpecs {
		require.Contains(t, text, s.usage)
		require.Contains(t, text, s.summary)
	}
}
