package ipc

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRuntimeSocketPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	path, err := RuntimeSocketPath()
	require.NoError(t, err)
	require.Equal(t, "/run/user/1000/serenade.sock", path)

	t.Setenv("XDG_RUNTIME_DIR", "")
	_, err = RuntimeSocketPath()
	require.Error(t, err)
	require.Contains(t, err.Error(), "XDG_RUNTIME_DIR")
}

func TestAcquireFreshPath(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "serenade.sock")

	listener, err := Acquire(context.Background(), socketPath, 50*time.Millisecond, 1, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	info, err := os.Stat(socketPath)
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&os.ModeSocket)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestAcquireReclaimsStaleSocketFile(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "serenade.sock")
	require.NoError(t, os.WriteFile(socketPath, []byte("stale"), 0o600))

	reclaimed := 0
	reclaim := func(context.Context) error {
		reclaimed++
		return nil
	}

	listener, err := Acquire(context.Background(), socketPath, 50*time.Millisecond, 2, reclaim)
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	require.Equal(t, 1, reclaimed)

	info, err := os.Stat(socketPath)
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&os.ModeSocket, "stale file should be replaced by a live socket")
}

func TestAcquireRefusesLiveListener(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "serenade.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	handler := HandlerFunc(func(context.Context, Request) Response {
		return Response{OK: true, State: "listening"}
	})
	serveDone := make(chan error, 1)
	go func() { serveDone <- Serve(ctx, listener, handler, nil) }()

	_, err = Acquire(context.Background(), socketPath, 80*time.Millisecond, 1, nil)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	cancel()
	require.NoError(t, <-serveDone)
}

func TestAcquireKeepsSocketWhenProbeInconclusive(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "serenade.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	// A listener that accepts but never answers makes the probe time out
	// instead of deciding dead-or-alive.
	stop := holdConnectionsSilent(listener)
	defer stop()

	_, err = Acquire(context.Background(), socketPath, 30*time.Millisecond, 0, nil)
	require.ErrorContains(t, err, "probe existing socket")
	require.NotErrorIs(t, err, ErrAlreadyRunning)

	_, statErr := os.Stat(socketPath)
	require.NoError(t, statErr, "inconclusive probe must not unlink the socket")
}

// holdConnectionsSilent accepts on listener and leaves each connection
// unanswered long enough for client deadlines to fire. The returned stop
// closes the listener and waits for the acceptor to exit.
func holdConnectionsSilent(listener net.Listener) func() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func() {
				time.Sleep(250 * time.Millisecond)
				_ = conn.Close()
			}()
		}
	}()
	return func() {
		_ = listener.Close()
		<-done
	}
}
