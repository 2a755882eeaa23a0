package automation

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/config"
)

// Driver injects text and key chords into the focused application.
type Driver interface {
	TypeText(ctx context.Context, text string) error
	PressKeys(ctx context.Context, chord string) error
}

// ExecDriver shells out to the configured injection commands: text is piped
// to the type command's stdin, chords are appended to the key command's argv.
type ExecDriver struct {
	typeArgv []string
	keyArgv  []string
}

// NewExecDriver constructs a driver from automation config.
func NewExecDriver(cfg config.AutomationConfig) *ExecDriver {
	return &ExecDriver{
		typeArgv: append([]string(nil), cfg.TypeCmd.Argv...),
		keyArgv:  append([]string(nil), cfg.KeyCmd.Argv...),
	}
}

// TypeText pipes text to the type command's stdin. Empty text is a no-op.
func (d *ExecDriver) TypeText(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if err := runCommandWithInput(ctx, d.typeArgv, text); err != nil {
		return fmt.Errorf("type text: %w", err)
	}
	return nil
}

// PressKeys invokes the key command with the chord appended to its argv.
func (d *ExecDriver) PressKeys(ctx context.Context, chord string) error {
	if strings.TrimSpace(chord) == "" {
		return fmt.Errorf("key chord cannot be empty")
	}
	argv := append(append([]string(nil), d.keyArgv...), chord)
	if err := runCommandWithInput(ctx, argv, ""); err != nil {
		return fmt.Errorf("press %s: %w", chord, err)
	}
	return nil
}

// runCommandWithInput executes argv, feeding input to stdin when non-empty.
// Stderr and stdout are folded into the error on failure.
func runCommandWithInput(ctx context.Context, argv []string, input string) error {
	if len(argv) == 0 {
		return errors.New("command argv cannot be empty")
	}

	name, rest := argv[0], argv[1:]
	cmd := exec.CommandContext(ctx, name, rest...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return fmt.Errorf("run %s: %w (%s)", name, err, msg)
	}
	return fmt.Errorf("run %s: %w", name, err)
}
