package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// Handler processes one control request.
type Handler interface {
	Handle(ctx context.Context, req Request) Response
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(context.Context, Request) Response

// Handle implements Handler by calling fn itself.
func (fn HandlerFunc) Handle(ctx context.Context, req Request) Response { return fn(ctx, req) }

// Serve accepts control clients on listener until ctx is canceled or the
// listener closes. Each connection carries a single request.
func Serve(ctx context.Context, listener net.Listener, handler Handler, logger *slog.Logger) error {
	go closeOnDone(ctx, listener)

	var active sync.WaitGroup
	defer active.Wait()

	for {
		conn, err := listener.Accept()
		switch {
		case err == nil:
		case errors.Is(err, net.ErrClosed), ctx.Err() != nil:
			return nil
		default:
			return fmt.Errorf("accept control connection: %w", err)
		}

		active.Add(1)
		go func(c net.Conn) {
			defer active.Done()
			defer c.Close()
			serveConn(ctx, c, handler, logger)
		}(conn)
	}
}

func closeOnDone(ctx context.Context, listener net.Listener) {
	<-ctx.Done()
	_ = listener.Close()
}

func serveConn(ctx context.Context, conn net.Conn, handler Handler, logger *slog.Logger) {
	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		writeResponse(conn, Response{OK: false, Error: fmt.Sprintf("read request: %v", err)}, logger)
		return
	}

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		writeResponse(conn, Response{OK: false, Error: fmt.Sprintf("decode request: %v", err)}, logger)
		return
	}

	writeResponse(conn, handler.Handle(ctx, req), logger)
}

func writeResponse(conn net.Conn, resp Response, logger *slog.Logger) {
	if err := json.NewEncoder(conn).Encode(resp); err != nil && logger != nil {
		logger.Warn("write control response failed", "error", err)
	}
}
