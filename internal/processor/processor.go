// Package processor drives the transcription-to-command flow and reports
// each outcome to observers exactly once.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/notify"
)

// Executor runs a parsed command and reports the outcome as a result value.
// Failures ride on the result; Execute never returns an error.
type Executor interface {
	Execute(ctx context.Context, cmd command.Command) command.Result
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, cmd command.Command) command.Result

// Execute invokes the wrapped function.
func (f ExecutorFunc) Execute(ctx context.Context, cmd command.Command) command.Result {
	return f(ctx, cmd)
}

// Processor turns raw transcriptions into dispatched commands. Every
// utterance yields exactly one result; failures are values on the result,
// never returned errors.
type Processor struct {
	parser   *command.Parser
	executor Executor
	notifier notify.Notifier
	logger   *slog.Logger

	mu          sync.RWMutex
	lastCommand string
}

// New constructs a processor over a parser, an executor, and an outcome
// notifier. The notifier may be nil.
func New(parser *command.Parser, executor Executor, notifier notify.Notifier, logger *slog.Logger) *Processor {
	return &Processor{parser: parser, executor: executor, notifier: notifier, logger: logger}
}

// Process normalizes a transcription, parses it against the vocabulary,
// dispatches the parsed command, and notifies observers of the outcome.
// Empty and unrecognized utterances return failure results without
// reaching the executor or the observers. A panic anywhere in the flow,
// observers included, is converted into a failure result.
func (p *Processor) Process(ctx context.Context, transcript string) (result command.Result) {
	normalized := command.Normalize(transcript)

	defer func() {
		if r := recover(); r != nil {
			if p.logger != nil {
				p.logger.Error("command processing panicked", "error", fmt.Sprint(r))
			}
			result = command.Result{Success: false, Command: normalized, Error: fmt.Sprint(r)}
		}
	}()

	if normalized == "" {
		return command.Result{Success: false, Error: "empty transcription"}
	}

	cmd, ok := p.parser.Parse(normalized)
	if !ok {
		return command.Result{Success: false, Command: normalized, Error: "command not recognized"}
	}

	result = p.executor.Execute(ctx, cmd)
	result.Command = normalized

	p.mu.Lock()
	p.lastCommand = normalized
	p.mu.Unlock()

	p.notifyOutcome(ctx, result)
	return result
}

// LastCommand returns the most recent utterance that reached the executor.
func (p *Processor) LastCommand() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastCommand
}

func (p *Processor) notifyOutcome(ctx context.Context, result command.Result) {
	if p.notifier == nil {
		return
	}
	if result.Success {
		p.notifier.CommandExecuted(ctx, result.Command, result.Data)
		return
	}

	errText := result.Error
	if errText == "" {
		errText = "unknown error"
	}
	p.notifier.CommandFailed(ctx, result.Command, errText)
}
