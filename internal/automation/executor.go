// Package automation performs parsed voice commands against the focused
// application by injecting key chords and typed text.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
)

// ErrUnsupportedAction marks actions with no registered backend operation.
var ErrUnsupportedAction = errors.New("unsupported action")

// Executor resolves parsed commands to registered operations and runs them.
type Executor struct {
	registry *Registry
	logger   *slog.Logger
}

// NewExecutor constructs an executor over a populated registry.
func NewExecutor(registry *Registry, logger *slog.Logger) *Executor {
	return &Executor{registry: registry, logger: logger}
}

// Execute runs the operation registered for the command's action. Missing
// operations and operation failures become failure results; nothing escapes
// this boundary as a returned error.
func (e *Executor) Execute(ctx context.Context, cmd command.Command) command.Result {
	op, ok := e.registry.Lookup(cmd.Action)
	if !ok {
		reason := fmt.Errorf("%w: %s", ErrUnsupportedAction, cmd.Action)
		return command.Result{Action: cmd.Action, Error: reason.Error()}
	}

	data, err := op(ctx, cmd)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("action failed", "action", string(cmd.Action), "error", err)
		}
		return command.Result{Action: cmd.Action, Error: err.Error()}
	}

	if e.logger != nil {
		e.logger.Debug("action executed", "action", string(cmd.Action))
	}
	return command.Result{Success: true, Action: cmd.Action, Data: data}
}
