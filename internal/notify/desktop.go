package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/config"
)

const (
	notifyCallTimeout    = 2 * time.Second
	successTimeoutMS     = 1200
	fallbackErrTimeoutMS = 1600
)

// DesktopNotifier surfaces command outcomes as freedesktop notifications
// over DBus via busctl. Consecutive outcomes replace the previous
// notification instead of stacking.
type DesktopNotifier struct {
	appName        string
	errorTimeoutMS int
	logger         *slog.Logger

	mu     sync.Mutex
	lastID uint32
}

// NewDesktopNotifier constructs a desktop observer from notification config.
func NewDesktopNotifier(cfg config.NotifyConfig, logger *slog.Logger) *DesktopNotifier {
	errorTimeout := cfg.ErrorTimeoutMS
	if errorTimeout <= 0 {
		errorTimeout = fallbackErrTimeoutMS
	}
	return &DesktopNotifier{
		appName:        cfg.AppName,
		errorTimeoutMS: errorTimeout,
		logger:         logger,
	}
}

func (n *DesktopNotifier) CommandExecuted(ctx context.Context, commandText string, data command.Payload) {
	n.send(ctx, commandText, successTimeoutMS)
}

func (n *DesktopNotifier) CommandFailed(ctx context.Context, commandText string, errMsg string) {
	summary := errMsg
	if commandText != "" {
		summary = fmt.Sprintf("%s: %s", commandText, errMsg)
	}
	n.send(ctx, summary, n.errorTimeoutMS)
}

func (n *DesktopNotifier) send(ctx context.Context, summary string, timeoutMS int) {
	if n == nil {
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, notifyCallTimeout)
	defer cancel()

	n.mu.Lock()
	defer n.mu.Unlock()

	id, err := desktopNotify(callCtx, n.appName, n.lastID, summary, timeoutMS)
	if err != nil {
		if n.logger != nil {
			n.logger.Warn("desktop notification failed", "error", err.Error())
		}
		return
	}
	n.lastID = id
}

const (
	notifyService    = "org.freedesktop.Notifications"
	notifyObjectPath = "/org/freedesktop/Notifications"
)

// desktopNotify calls Notify on the session notification service through
// busctl and returns the server-assigned notification ID.
func desktopNotify(ctx context.Context, appName string, replaceID uint32, summary string, timeoutMS int) (uint32, error) {
	// Body signature susssasa{sv}i: app, replaces_id, icon, summary, body,
	// actions, hints, expire_timeout. Actions and hints stay empty.
	out, err := runBusctl(ctx, "Notify", "susssasa{sv}i",
		appName,
		strconv.FormatUint(uint64(replaceID), 10),
		"",
		summary,
		"",
		"0",
		"0",
		strconv.Itoa(timeoutMS),
	)
	if err != nil {
		return 0, fmt.Errorf("desktop notify failed: %w", err)
	}
	return parseNotificationID(out)
}

// runBusctl invokes one method on the notification service and returns the
// combined output, folding any stderr detail into the error.
func runBusctl(ctx context.Context, method, signature string, body ...string) (string, error) {
	argv := append([]string{
		"--user", "call",
		notifyService, notifyObjectPath, notifyService,
		method, signature,
	}, body...)

	out, err := exec.CommandContext(ctx, "busctl", argv...).CombinedOutput()
	if err != nil {
		if detail := strings.TrimSpace(string(out)); detail != "" {
			return "", fmt.Errorf("%w (%s)", err, detail)
		}
		return "", err
	}
	return string(out), nil
}

// parseNotificationID extracts the assigned ID from a busctl "u <id>" reply.
func parseNotificationID(output string) (uint32, error) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) < 2 || fields[0] != "u" {
		return 0, fmt.Errorf("desktop notify invalid response: %q", strings.TrimSpace(output))
	}

	value, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("desktop notify parse id %q: %w", fields[1], err)
	}
	return uint32(value), nil
}
