// Package app dispatches CLI commands and owns process wiring for the
// listener: config, logging, speech engine, automation, and control surfaces.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/audio"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/automation"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/cli"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/config"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/doctor"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/ipc"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/logging"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/notify"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/pipeline"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/processor"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/server"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/speech"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/version"
)

const (
	binaryName     = "serenade"
	forwardTimeout = 220 * time.Millisecond
)

// Runner executes a single CLI invocation against the process environment.
type Runner struct {
	// Logger, when set, replaces the file-backed runtime logger.
	Logger *slog.Logger

	Stdout io.Writer
	Stderr io.Writer
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := &Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r *Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	switch {
	case err != nil:
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText(binaryName))
		return 2
	case parsed.ShowHelp:
		fmt.Fprint(r.Stdout, cli.HelpText(binaryName))
		return 0
	case parsed.Command == cli.CommandVersion:
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}
	return r.run(ctx, parsed)
}

func (r *Runner) run(ctx context.Context, parsed cli.Parsed) int {
	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		return r.fail(err)
	}

	logRuntime, err := logging.New(cfgLoaded.Config.Logging)
	if err != nil {
		return r.fail(fmt.Errorf("setup logging: %w", err))
	}
	defer func() { _ = logRuntime.Close() }()

	logger := logRuntime.Logger
	if r.Logger != nil {
		logger = r.Logger
	}

	r.reportConfigWarnings(cfgLoaded, logger)
	logger.Info("command start", "command", parsed.Command, "config", cfgLoaded.Path, "log", logRuntime.Path)

	switch parsed.Command {
	case cli.CommandDoctor:
		return r.runDoctor(cfgLoaded)
	case cli.CommandDevices:
		return r.runDevices(ctx)
	case cli.CommandStatus:
		return r.runStatus(ctx)
	case cli.CommandLast:
		return r.runLast(ctx)
	case cli.CommandStop:
		return r.runStop(ctx)
	case cli.CommandCommands:
		return r.runVocabulary()
	case cli.CommandSuggest:
		return r.runSuggest(parsed.Text)
	case cli.CommandProcess:
		return r.runProcess(ctx, cfgLoaded.Config, parsed.Text, logger)
	case cli.CommandListen:
		return r.runListen(ctx, cfgLoaded.Config, logger)
	}

	fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
	return 2
}

// fail prints err on stderr in the standard error: prefix form.
func (r *Runner) fail(err error) int {
	fmt.Fprintf(r.Stderr, "error: %v\n", err)
	return 1
}

func (r *Runner) reportConfigWarnings(loaded config.Loaded, logger *slog.Logger) {
	for _, w := range loaded.Warnings {
		if w.Line > 0 {
			fmt.Fprintf(r.Stderr, "warning: line %d: %s\n", w.Line, w.Message)
		} else {
			fmt.Fprintf(r.Stderr, "warning: %s\n", w.Message)
		}
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}
}

func (r *Runner) runDoctor(loaded config.Loaded) int {
	report := doctor.Run(loaded)
	fmt.Fprintln(r.Stdout, report.String())
	if !report.OK() {
		return 1
	}
	return 0
}

func (r *Runner) runDevices(ctx context.Context) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		return r.fail(err)
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no input sources reported by PulseAudio")
		return 1
	}
	for _, device := range devices {
		fmt.Fprintln(r.Stdout, deviceLine(device))
	}
	return 0
}

// deviceLine renders one source row for the devices listing. The leading
// star marks the server default source.
func deviceLine(d audio.Device) string {
	mark := ' '
	if d.Default {
		mark = '*'
	}
	return fmt.Sprintf("%c id=%s | description=%q | state=%s | available=%s | muted=%s",
		mark, d.ID, d.Description, d.State, yesNo(d.Available), yesNo(d.Muted))
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func (r *Runner) runStatus(ctx context.Context) int {
	state := "idle"
	if socketPath, err := ipc.RuntimeSocketPath(); err == nil {
		resp, handled, fwdErr := tryForward(ctx, socketPath, ipc.Request{Command: ipc.CommandStatus})
		switch {
		case handled && fwdErr != nil:
			return r.fail(fwdErr)
		case handled && resp.State != "":
			state = resp.State
		}
	}
	fmt.Fprintln(r.Stdout, state)
	return 0
}

func (r *Runner) runLast(ctx context.Context) int {
	resp, code := r.forwardControl(ctx, ipc.CommandLast)
	if code != 0 {
		return code
	}
	if resp.Message == "" {
		fmt.Fprintln(r.Stdout, "(none)")
		return 0
	}
	fmt.Fprintln(r.Stdout, resp.Message)
	return 0
}

func (r *Runner) runStop(ctx context.Context) int {
	resp, code := r.forwardControl(ctx, ipc.CommandStop)
	if code != 0 {
		return code
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

// forwardControl sends a control command to the active listener. A zero
// code means the response came from a live listener and carried no error.
func (r *Runner) forwardControl(ctx context.Context, cmd string) (ipc.Response, int) {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		return ipc.Response{}, r.fail(err)
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: cmd})
	if !handled {
		fmt.Fprintln(r.Stderr, "error: no active serenade listener")
		return ipc.Response{}, 1
	}
	if err != nil {
		return ipc.Response{}, r.fail(err)
	}
	return resp, 0
}

func (r *Runner) runVocabulary() int {
	parser, err := command.Compile(command.DefaultTable())
	if err != nil {
		return r.fail(err)
	}

	for _, entry := range parser.Entries() {
		fmt.Fprintf(r.Stdout, "%-17s %-13s %s\n", entry.Action, entry.Shape, entry.Pattern)
	}
	return 0
}

func (r *Runner) runSuggest(text string) int {
	parser, err := command.Compile(command.DefaultTable())
	if err != nil {
		return r.fail(err)
	}

	suggestions := parser.Suggest(text, 5)
	if len(suggestions) == 0 {
		fmt.Fprintln(r.Stdout, "no similar commands")
		return 0
	}
	for _, suggestion := range suggestions {
		fmt.Fprintln(r.Stdout, suggestion)
	}
	return 0
}

func (r *Runner) runProcess(ctx context.Context, cfg config.Config, text string, logger *slog.Logger) int {
	// A running listener owns dispatch state, so forward when one is up.
	if socketPath, err := ipc.RuntimeSocketPath(); err == nil {
		resp, sendErr := ipc.Send(ctx, socketPath, ipc.Request{Command: ipc.CommandProcess, Text: text}, forwardTimeout)
		if sendErr == nil {
			return r.printForwardedResult(resp)
		}
		if !listenerUnreachable(sendErr) {
			return r.fail(fmt.Errorf("forward utterance: %w", sendErr))
		}
	}

	parser, err := command.Compile(command.DefaultTable())
	if err != nil {
		return r.fail(err)
	}

	backend := automation.NewBackend(cfg.Automation)
	executor := automation.NewExecutor(backend.Registry(), logger)
	proc := processor.New(parser, executor, r.buildNotifiers(cfg, logger, nil), logger)

	result := proc.Process(ctx, text)
	return r.printResult(result, parser.Suggest(text, 3))
}

func (r *Runner) printResult(result command.Result, suggestions []string) int {
	if result.Success {
		fmt.Fprintf(r.Stdout, "executed %s\n", result.Action)
		return 0
	}

	fmt.Fprintf(r.Stderr, "error: %s\n", result.Error)
	if len(suggestions) > 0 {
		fmt.Fprintf(r.Stderr, "did you mean: %s\n", strings.Join(suggestions, ", "))
	}
	return 1
}

func (r *Runner) printForwardedResult(resp ipc.Response) int {
	if resp.Result != nil {
		return r.printResult(*resp.Result, resp.Suggestions)
	}
	if resp.Error != "" {
		fmt.Fprintf(r.Stderr, "error: %s\n", resp.Error)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

func (r *Runner) runListen(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		return r.fail(err)
	}

	sock, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8, nil)
	if errors.Is(err, ipc.ErrAlreadyRunning) {
		fmt.Fprintln(r.Stderr, "error: serenade listener already running")
		return 1
	}
	if err != nil {
		return r.fail(err)
	}
	defer func() {
		_ = sock.Close()
		_ = os.Remove(socketPath)
	}()

	if err := waitForEngine(ctx, cfg, logger); err != nil {
		return r.fail(err)
	}

	parser, err := command.Compile(command.DefaultTable())
	if err != nil {
		return r.fail(err)
	}

	engine := speech.NewHTTPEngine(cfg.Engine, logger)
	backend := automation.NewBackend(cfg.Automation)
	executor := automation.NewExecutor(backend.Registry(), logger)

	var srv *server.Server
	if cfg.Server.Enable {
		srv = server.New(cfg.Server, parser, logger)
	}

	proc := processor.New(parser, executor, r.buildNotifiers(cfg, logger, srv), logger)
	listener := pipeline.NewListener(cfg, parser, engine, proc, logger)
	if srv != nil {
		srv.Attach(proc, func() string { return string(listener.State()) })
	}

	serveCtx, serveCancel := context.WithCancel(ctx)
	defer serveCancel()

	ipcErrCh := make(chan error, 1)
	go func() { ipcErrCh <- ipc.Serve(serveCtx, sock, listener, logger) }()

	httpErrCh := make(chan error, 1)
	if srv != nil {
		go func() { httpErrCh <- srv.Run(serveCtx) }()
	}

	summary, runErr := listener.Run(ctx)

	serveCancel()
	if serveErr := <-ipcErrCh; serveErr != nil {
		return r.fail(fmt.Errorf("control server failed: %w", serveErr))
	}
	if srv != nil {
		if httpErr := <-httpErrCh; httpErr != nil {
			logger.Error("http server failed", "error", httpErr.Error())
		}
	}

	logListenSummary(logger, summary, runErr)

	if runErr != nil {
		return r.fail(runErr)
	}

	fmt.Fprintf(r.Stdout, "processed %d utterances (%d executed, %d failed)\n",
		summary.Utterances, summary.Executed, summary.Failed)
	return 0
}

func (r *Runner) buildNotifiers(cfg config.Config, logger *slog.Logger, srv *server.Server) notify.Notifier {
	notifiers := notify.Multi{notify.NewLogNotifier(logger)}
	if cfg.Notifications.Enable {
		notifiers = append(notifiers, notify.NewDesktopNotifier(cfg.Notifications, logger))
	}
	if srv != nil {
		notifiers = append(notifiers, srv)
	}
	return notifiers
}

// waitForEngine blocks until the speech engine health service reports
// serving, bounded by the configured engine timeout.
func waitForEngine(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	endpoint := strings.TrimSpace(cfg.Engine.GRPC)
	if endpoint == "" {
		return nil
	}

	timeout := time.Duration(cfg.Engine.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	if logger != nil {
		logger.Info("waiting for speech engine", "endpoint", endpoint, "timeout", timeout.String())
	}

	readyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := speech.ProbeReady(readyCtx, endpoint, timeout); err != nil {
		return fmt.Errorf("speech engine not ready: %w", err)
	}
	return nil
}

func logListenSummary(logger *slog.Logger, summary pipeline.Summary, runErr error) {
	if logger == nil {
		return
	}

	duration := summary.FinishedAt.Sub(summary.StartedAt)
	fields := []any{
		"device", summary.Device,
		"bytes_captured", summary.BytesCaptured,
		"utterances", summary.Utterances,
		"executed", summary.Executed,
		"failed", summary.Failed,
		"low_confidence", summary.LowConfidence,
		"engine_errors", summary.EngineErrors,
		"started_at", summary.StartedAt.Format(time.RFC3339Nano),
		"finished_at", summary.FinishedAt.Format(time.RFC3339Nano),
		"duration_ms", duration.Milliseconds(),
	}

	if runErr != nil {
		logger.Error("listen failed", append(fields, "error", runErr.Error())...)
		return
	}
	logger.Info("listen complete", fields...)
}

// tryForward relays req to the listener socket. handled reports whether a
// listener answered; an unreachable socket is not an error so callers can
// fall back to local behavior.
func tryForward(ctx context.Context, socketPath string, req ipc.Request) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, req, forwardTimeout)
	switch {
	case err == nil && resp.OK:
		return resp, true, nil
	case err == nil:
		return resp, true, errors.New(resp.Error)
	case listenerUnreachable(err):
		return ipc.Response{}, false, nil
	}
	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", req.Command, err)
}

// listenerUnreachable reports whether err means no listener owns the
// socket: the path is gone, or nothing is accepting on it.
func listenerUnreachable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(err.Error(), "no such file or directory")
}
