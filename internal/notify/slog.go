package notify

import (
	"context"
	"log/slog"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
)

// LogNotifier records command outcomes through a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a log-backed observer. A nil logger disables it.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) CommandExecuted(ctx context.Context, commandText string, data command.Payload) {
	if n == nil || n.logger == nil {
		return
	}
	args := []any{"command", commandText}
	if len(data) > 0 {
		args = append(args, "data", data)
	}
	n.logger.InfoContext(ctx, "command executed", args...)
}

func (n *LogNotifier) CommandFailed(ctx context.Context, commandText string, errMsg string) {
	if n == nil || n.logger == nil {
		return
	}
	n.logger.WarnContext(ctx, "command failed", "command", commandText, "error", errMsg)
}
