package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
)

// serveOnSocket runs handler on a fresh unix socket. The returned stop shuts
// the server down and asserts a clean Serve exit.
func serveOnSocket(t *testing.T, handler Handler) (string, func()) {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "serenade.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err, "listen on %s", socketPath)

	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() { serveDone <- Serve(ctx, listener, handler, nil) }()

	return socketPath, func() {
		cancel()
		require.NoError(t, <-serveDone)
	}
}

// startServer is serveOnSocket with shutdown deferred to test cleanup.
func startServer(t *testing.T, handler Handler) string {
	t.Helper()

	socketPath, stop := serveOnSocket(t, handler)
	t.Cleanup(stop)
	return socketPath
}

// startRawSocket accepts one connection and hands it to serve, for tests
// that need a misbehaving peer.
func startRawSocket(t *testing.T, serve func(net.Conn)) string {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "serenade.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err, "listen on %s", socketPath)
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		if conn, acceptErr := listener.Accept(); acceptErr == nil {
			serve(conn)
		}
	}()
	return socketPath
}

// rawExchange dials the socket, writes payload verbatim, and decodes the
// single-line reply.
func rawExchange(t *testing.T, socketPath, payload string) Response {
	t.Helper()

	conn, err := net.Dial("unix", socketPath)
	require.NoError(t, err, "dial %s", socketPath)
	defer conn.Close()

	_, err = io.WriteString(conn, payload)
	require.NoError(t, err, "write payload")

	var resp Response
	require.NoError(t, json.NewDecoder(conn).Decode(&resp), "decode reply")
	return resp
}

func TestSendRoundTrip(t *testing.T) {
	socketPath := startServer(t, HandlerFunc(func(_ context.Context, req Request) Response {
		require.Equal(t, CommandStatus, req.Command)
		return Response{OK: true, State: "listening", Message: "ok"}
	}))

	resp, err := Send(context.Background(), socketPath, Request{Command: CommandStatus}, 200*time.Millisecond)
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.Equal(t, "listening", resp.State)
	require.Equal(t, "ok", resp.Message)
}

func TestSendCarriesTextAndResult(t *testing.T) {
	socketPath := startServer(t, HandlerFunc(func(_ context.Context, req Request) Response {
		require.Equal(t, CommandProcess, req.Command)
		require.Equal(t, "go to line 42", req.Text)
		return Response{
			OK:    true,
			State: "listening",
			Result: &command.Result{
				Success: true,
				Command: req.Text,
				Action:  command.ActionGotoLine,
				Data:    command.Payload{"line": 42},
			},
		}
	}))

	resp, err := Send(context.Background(), socketPath, Request{Command: CommandProcess, Text: "go to line 42"}, 200*time.Millisecond)
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.NotNil(t, resp.Result)
	require.Equal(t, command.ActionGotoLine, resp.Result.Action)
	require.Equal(t, "go to line 42", resp.Result.Command)
}

func TestSendRejectsMalformedResponse(t *testing.T) {
	socketPath := startRawSocket(t, func(conn net.Conn) {
		defer conn.Close()
		_, _ = bufio.NewReader(conn).ReadBytes('\n')
		_, _ = conn.Write([]byte("not-json\n"))
	})

	_, err := Send(context.Background(), socketPath, Request{Command: CommandStatus}, 200*time.Millisecond)
	require.ErrorContains(t, err, "decode response")
}

func TestSendReportsClosedConnection(t *testing.T) {
	socketPath := startRawSocket(t, func(conn net.Conn) {
		_ = conn.Close()
	})

	_, err := Send(context.Background(), socketPath, Request{Command: CommandStatus}, 200*time.Millisecond)
	require.ErrorContains(t, err, "read response")
}

func TestServeAnswersMalformedRequestWithError(t *testing.T) {
	socketPath := startServer(t, HandlerFunc(func(context.Context, Request) Response {
		return Response{OK: true}
	}))

	resp := rawExchange(t, socketPath, "not-json\n")
	require.False(t, resp.OK)
	require.Contains(t, resp.Error, "decode request")
}

func TestProbe(t *testing.T) {
	socketPath, stop := serveOnSocket(t, HandlerFunc(func(context.Context, Request) Response {
		return Response{OK: true, State: "idle"}
	}))

	alive, err := Probe(context.Background(), socketPath, 200*time.Millisecond)
	require.NoError(t, err)
	require.True(t, alive)

	// Shutting the server down unlinks the socket; the probe reads dead.
	stop()

	alive, err = Probe(context.Background(), socketPath, 100*time.Millisecond)
	require.NoError(t, err)
	require.False(t, alive)
}
