// Package notify delivers command outcome notifications to observers.
package notify

import (
	"context"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
)

// Notifier observes the outcome of processed utterances. Delivery is
// synchronous on the processing path, so implementations should return
// quickly and must not panic.
type Notifier interface {
	CommandExecuted(ctx context.Context, commandText string, data command.Payload)
	CommandFailed(ctx context.Context, commandText string, errMsg string)
}

// Funcs adapts plain functions to the Notifier interface. Nil fields are
// skipped.
type Funcs struct {
	Executed func(ctx context.Context, commandText string, data command.Payload)
	Failed   func(ctx context.Context, commandText string, errMsg string)
}

func (f Funcs) CommandExecuted(ctx context.Context, commandText string, data command.Payload) {
	if f.Executed != nil {
		f.Executed(ctx, commandText, data)
	}
}

func (f Funcs) CommandFailed(ctx context.Context, commandText string, errMsg string) {
	if f.Failed != nil {
		f.Failed(ctx, commandText, errMsg)
	}
}

// Multi fans one outcome out to every observer, in order. Each observer
// sees the outcome exactly once.
type Multi []Notifier

func (m Multi) CommandExecuted(ctx context.Context, commandText string, data command.Payload) {
	for _, n := range m {
		if n != nil {
			n.CommandExecuted(ctx, commandText, data)
		}
	}
}

func (m Multi) CommandFailed(ctx context.Context, commandText string, errMsg string) {
	for _, n := range m {
		if n != nil {
			n.CommandFailed(ctx, commandText, errMsg)
		}
	}
}
