package cli

import (
	"errors"
	"fmt"
	"strings"
)

// Command names a serenade subcommand.
type Command string

const (
	CommandListen   Command = "listen"
	CommandProcess  Command = "process"
	CommandStatus   Command = "status"
	CommandLast     Command = "last"
	CommandStop     Command = "stop"
	CommandSuggest  Command = "suggest"
	CommandCommands Command = "commands"
	CommandDevices  Command = "devices"
	CommandDoctor   Command = "doctor"
	CommandVersion  Command = "version"
	CommandHelp     Command = "help"
)

// commandSpec drives parsing and the help listing for one subcommand.
// wantsText marks commands whose trailing words form an utterance.
type commandSpec struct {
	cmd       Command
	usage     string
	summary   string
	wantsText bool
}

var commandSpecs = []commandSpec{
	{cmd: CommandListen, usage: "listen", summary: "Hold the microphone and run voice commands continuously"},
	{cmd: CommandProcess, usage: "process TEXT", summary: "Interpret one utterance without the microphone", wantsText: true},
	{cmd: CommandStatus, usage: "status", summary: "Print the listener state"},
	{cmd: CommandLast, usage: "last", summary: "Print the most recent dispatched utterance"},
	{cmd: CommandStop, usage: "stop", summary: "Ask the running listener to wind down"},
	{cmd: CommandSuggest, usage: "suggest TEXT", summary: "Show vocabulary phrases close to an utterance", wantsText: true},
	{cmd: CommandCommands, usage: "commands", summary: "List the recognized voice command vocabulary"},
	{cmd: CommandDevices, usage: "devices", summary: "List available input devices"},
	{cmd: CommandDoctor, usage: "doctor", summary: "Run configuration and environment checks"},
	{cmd: CommandVersion, usage: "version", summary: "Print version information"},
	{cmd: CommandHelp, usage: "help", summary: "Show this help"},
}

func findSpec(name string) (commandSpec, bool) {
	for _, s := range commandSpecs {
		if string(s.cmd) == name {
			return s, true
		}
	}
	return commandSpec{}, false
}

// Parsed is the result of a successful argv parse.
type Parsed struct {
	Command    Command
	ConfigPath string
	Text       string
	ShowHelp   bool
}

// Parse reads flags up to the first bare word, then treats that word as
// the subcommand. Words after a wantsText command become the utterance;
// any other command must be the final argument.
func Parse(args []string) (Parsed, error) {
	out := Parsed{Command: CommandHelp, ShowHelp: true}

	rest := args
	for len(rest) > 0 && strings.HasPrefix(rest[0], "-") {
		flag := rest[0]
		rest = rest[1:]

		switch flag {
		case "-h", "--help":
			out.Command = CommandHelp
			out.ShowHelp = true
		case "--version":
			out.Command = CommandVersion
			out.ShowHelp = false
		case "--config":
			if len(rest) == 0 {
				return Parsed{}, errors.New("--config requires a path")
			}
			out.ConfigPath = rest[0]
			rest = rest[1:]
		default:
			return Parsed{}, fmt.Errorf("unknown flag: %s", flag)
		}
	}
	if len(rest) == 0 {
		return out, nil
	}

	name := rest[0]
	spec, ok := findSpec(name)
	if !ok {
		return Parsed{}, fmt.Errorf("unknown command: %s", name)
	}
	out.Command = spec.cmd
	out.ShowHelp = spec.cmd == CommandHelp

	words := rest[1:]
	switch {
	case spec.wantsText && len(words) == 0:
		return Parsed{}, fmt.Errorf("%s requires utterance text", name)
	case spec.wantsText:
		out.Text = strings.Join(words, " ")
	case len(words) > 0:
		return Parsed{}, fmt.Errorf("unexpected arguments after command %q", name)
	}
	return out, nil
}

// HelpText renders the usage summary shown by help and on parse errors.
func HelpText(binaryName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage:\n  %s [--config PATH] <command>\n\nCommands:\n", binaryName)
	for _, s := range commandSpecs {
		fmt.Fprintf(&b, "  %-15s %s\n", s.usage, s.summary)
	}
	b.WriteString(`
Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/serenade/config.conf)
  -h, --help      Show help
  --version       Show version
`)
	return b.String()
}
