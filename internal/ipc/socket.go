package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrAlreadyRunning = errors.New("serenade listener already running")

// RuntimeSocketPath resolves the per-user control socket location.
func RuntimeSocketPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); dir != "" {
		return filepath.Join(dir, "serenade.sock"), nil
	}
	return "", errors.New("XDG_RUNTIME_DIR is not set")
}

// Acquire binds the control socket for a new listener. A socket file left
// behind by a crashed process is probed and reclaimed; a responsive owner
// yields ErrAlreadyRunning. reclaim, when non-nil, runs after each stale
// socket removal.
func Acquire(ctx context.Context, path string, probeTimeout time.Duration, retries int, reclaim func(context.Context) error) (net.Listener, error) {
	sockDir := filepath.Dir(path)
	if err := os.MkdirAll(sockDir, 0o700); err != nil {
		return nil, fmt.Errorf("ensure runtime socket dir: %w", err)
	}

	for attempt := 0; attempt < retries+1; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(25*attempt) * time.Millisecond):
			}
		}

		switch listener, err := net.Listen("unix", path); {
		case err == nil:
			_ = os.Chmod(path, 0o600)
			return listener, nil
		case !strings.Contains(err.Error(), "address already in use"):
			return nil, fmt.Errorf("listen unix %s: %w", path, err)
		}

		if err := reclaimStaleSocket(ctx, path, probeTimeout, reclaim); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("socket %s still busy after %d retries", path, retries)
}

// reclaimStaleSocket verifies no live listener answers on path, then unlinks
// the leftover socket file.
func reclaimStaleSocket(ctx context.Context, path string, probeTimeout time.Duration, reclaim func(context.Context) error) error {
	alive, err := Probe(ctx, path, probeTimeout)
	if alive {
		return ErrAlreadyRunning
	}
	if err != nil {
		return fmt.Errorf("probe existing socket %s: %w", path, err)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket %s: %w", path, err)
	}
	if reclaim != nil {
		_ = reclaim(ctx)
	}
	return nil
}
