// Package server exposes the listener over HTTP: command outcomes stream out
// as server-sent events, and utterances can be submitted for dispatch without
// touching the microphone.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/r3labs/sse/v2"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/config"
)

const (
	eventStream     = "events"
	suggestionLimit = 5
	shutdownTimeout = 3 * time.Second
)

// Dispatcher turns submitted text into a command outcome.
type Dispatcher interface {
	Process(ctx context.Context, transcript string) command.Result
	LastCommand() string
}

// Server publishes command outcomes and accepts text utterances over HTTP.
// It implements notify.Notifier so the processor can feed it directly.
type Server struct {
	cfg    config.ServerConfig
	parser *command.Parser
	logger *slog.Logger

	events *sse.Server

	mu         sync.RWMutex
	dispatcher Dispatcher
	state      func() string
}

// New builds a server with its event stream ready for subscribers.
func New(cfg config.ServerConfig, parser *command.Parser, logger *slog.Logger) *Server {
	events := sse.New()
	events.CreateStream(eventStream)

	return &Server{
		cfg:    cfg,
		parser: parser,
		logger: logger,
		events: events,
	}
}

// Attach connects the running listener once it exists. The server is built
// before the processor because the processor notifies it, so the dispatch
// direction arrives late.
func (s *Server) Attach(dispatcher Dispatcher, state func() string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher = dispatcher
	s.state = state
}

// Run serves HTTP until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	defer s.events.Close()

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	if s.logger != nil {
		s.logger.Info("http server listening", "addr", addr)
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}

// Handler builds the route table; split out so tests can drive it directly.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/process", s.handleProcess)
	mux.HandleFunc("/api/commands", s.handleCommands)
	mux.HandleFunc("/api/suggest", s.handleSuggest)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/healthz", s.handleHealthz)

	var handler http.Handler = mux
	if s.cfg.EnableCORS {
		handler = withCORS(handler)
	}
	return handler
}

// outcomeEvent is the SSE payload for one processed utterance.
type outcomeEvent struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Success   bool            `json:"success"`
	Command   string          `json:"command"`
	Error     string          `json:"error,omitempty"`
	Data      command.Payload `json:"data,omitempty"`
}

// CommandExecuted publishes a successful outcome to stream subscribers.
func (s *Server) CommandExecuted(_ context.Context, commandText string, data command.Payload) {
	s.publish(outcomeEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Success:   true,
		Command:   commandText,
		Data:      data,
	})
}

// CommandFailed publishes a failed outcome to stream subscribers.
func (s *Server) CommandFailed(_ context.Context, commandText string, errMsg string) {
	s.publish(outcomeEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Success:   false,
		Command:   commandText,
		Error:     errMsg,
	})
}

func (s *Server) publish(event outcomeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("marshal outcome event failed", "error", err)
		}
		return
	}

	s.events.Publish(eventStream, &sse.Event{
		ID:    []byte(event.ID),
		Event: []byte("command"),
		Data:  payload,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	// Subscribers do not need to know the internal stream id.
	q := r.URL.Query()
	if q.Get("stream") == "" {
		q.Set("stream", eventStream)
		r.URL.RawQuery = q.Encode()
	}
	s.events.ServeHTTP(w, r)
}

type processRequest struct {
	Text string `json:"text"`
}

type processResponse struct {
	Result      command.Result `json:"result"`
	Suggestions []string       `json:"suggestions,omitempty"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	s.mu.RLock()
	dispatcher := s.dispatcher
	s.mu.RUnlock()
	if dispatcher == nil {
		writeError(w, http.StatusServiceUnavailable, "no listener attached")
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result := dispatcher.Process(r.Context(), req.Text)
	if s.logger != nil {
		s.logger.Debug("http utterance processed", "command", result.Command, "success", result.Success)
	}

	resp := processResponse{Result: result}
	if !result.Success {
		resp.Suggestions = s.parser.Suggest(req.Text, suggestionLimit)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]command.Entry{"commands": s.parser.Entries()})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}

	suggestions := s.parser.Suggest(r.URL.Query().Get("q"), suggestionLimit)
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

type statusPayload struct {
	State       string `json:"state"`
	LastCommand string `json:"last_command,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}

	s.mu.RLock()
	dispatcher, state := s.dispatcher, s.state
	s.mu.RUnlock()

	payload := statusPayload{State: "unknown"}
	if state != nil {
		payload.State = state()
	}
	if dispatcher != nil {
		payload.LastCommand = dispatcher.LastCommand()
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
