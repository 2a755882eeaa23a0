// Package doctor runs runtime readiness diagnostics for config, tools, audio,
// and the speech engine.
package doctor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/audio"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/config"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/logging"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/speech"
)

const probeTimeout = 2 * time.Second

// Check is one probe outcome.
type Check struct {
	Name    string
	Message string
	Pass    bool
}

// String renders the check in the "[STATUS] name: message" report form.
func (c Check) String() string {
	status := "OK"
	if !c.Pass {
		status = "FAIL"
	}
	return fmt.Sprintf("[%s] %s: %s", status, c.Name, c.Message)
}

func pass(name, format string, args ...any) Check {
	return Check{Name: name, Pass: true, Message: fmt.Sprintf(format, args...)}
}

func fail(name, format string, args ...any) Check {
	return Check{Name: name, Pass: false, Message: fmt.Sprintf(format, args...)}
}

// Report is the ordered probe outcomes of one doctor run.
type Report struct{ Checks []Check }

// OK reports whether every check passed.
func (r Report) OK() bool {
	return !slices.ContainsFunc(r.Checks, func(c Check) bool { return !c.Pass })
}

func (r Report) String() string {
	lines := make([]string, len(r.Checks))
	for i, c := range r.Checks {
		lines[i] = c.String()
	}
	return strings.Join(lines, "\n")
}

// Run probes the desktop environment, automation tooling, audio devices,
// and engine endpoints for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{
		checkConfig(cfg),
		checkStateDir(),
		checkDisplay(),
		checkCommand(cfg.Config.Automation.TypeCmd.Argv, "type_cmd"),
		checkCommand(cfg.Config.Automation.KeyCmd.Argv, "key_cmd"),
	}

	if cfg.Config.Notifications.Enable {
		checks = append(checks, checkBinary("busctl", "desktop notifications use busctl"))
	}

	checks = append(checks,
		checkAudioSelection(cfg.Config),
		checkEngineHTTP(cfg.Config),
		checkEngineGRPC(cfg.Config),
	)
	return Report{Checks: checks}
}

func checkConfig(cfg config.Loaded) Check {
	msg := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		msg = fmt.Sprintf("file %q absent; using defaults", cfg.Path)
	}
	if n := len(cfg.Warnings); n > 0 {
		msg += fmt.Sprintf(" (%d warnings)", n)
	}
	return pass("config", "%s", msg)
}

// checkStateDir verifies the runtime log location accepts writes.
func checkStateDir() Check {
	dir, err := logging.StateDir()
	if err != nil {
		return fail("state_dir", "cannot resolve state directory: %v", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fail("state_dir", "cannot create %s: %v", dir, err)
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, nil, 0o600); err != nil {
		return fail("state_dir", "%s is not writable: %v", dir, err)
	}
	_ = os.Remove(probe)
	return pass("state_dir", "%s is writable", dir)
}

// checkDisplay verifies an X session is reachable for key injection.
func checkDisplay() Check {
	if strings.TrimSpace(os.Getenv("DISPLAY")) != "" {
		return pass("DISPLAY", "X11 display available")
	}
	return fail("DISPLAY", "DISPLAY is empty; key injection needs an X session")
}

// checkCommand validates that argv names a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return fail(name, "command is empty")
	}
	return checkBinary(argv[0], name+" command is available")
}

func checkBinary(bin, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return fail(bin, "binary not found in PATH: %s", bin)
	}
	return pass(bin, "found at %s (%s)", path, okMsg)
}

// checkAudioSelection runs live device selection to surface fallback issues.
func checkAudioSelection(cfg config.Config) Check {
	selection, err := audio.SelectDevice(context.Background(), cfg.Audio.Input, cfg.Audio.Fallback)
	if err != nil {
		return fail("audio.device", "%s", err.Error())
	}
	if selection.Warning != "" {
		return pass("audio.device", "selected %q (%s)", selection.Device.ID, selection.Warning)
	}
	return pass("audio.device", "selected %q", selection.Device.ID)
}

// checkEngineHTTP probes the transcription server health endpoint.
func checkEngineHTTP(cfg config.Config) Check {
	const name = "engine.http"

	base := strings.TrimSpace(cfg.Engine.HTTP)
	if base == "" {
		return fail(name, "engine http address is empty")
	}
	url := strings.TrimRight(ensureScheme(base), "/") + cfg.Engine.HealthPath

	client := http.Client{Timeout: probeTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return fail(name, "request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(name, "HTTP %d from %s", resp.StatusCode, url)
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	text := strings.ToLower(strings.TrimSpace(string(body)))
	if text != "" && !strings.Contains(text, "ok") && !strings.Contains(text, "ready") {
		// The endpoint answered 2xx but the body does not claim readiness.
		return pass(name, "HTTP %d from %s", resp.StatusCode, url)
	}
	return pass(name, "ready at %s", url)
}

func ensureScheme(base string) string {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return base
	}
	return "http://" + base
}

// checkEngineGRPC verifies the engine health service over gRPC when configured.
func checkEngineGRPC(cfg config.Config) Check {
	const name = "engine.grpc"

	endpoint := strings.TrimSpace(cfg.Engine.GRPC)
	if endpoint == "" {
		return pass(name, "endpoint not configured; skipped")
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if err := speech.ProbeReady(ctx, endpoint, probeTimeout); err != nil {
		return fail(name, "%s", err.Error())
	}
	return pass(name, "serving at %s", endpoint)
}
