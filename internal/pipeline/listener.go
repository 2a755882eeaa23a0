// Package pipeline runs the continuous dictation loop: capture audio, segment
// utterances, transcribe them, and dispatch recognized commands.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/audio"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/config"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/fsm"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/ipc"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/speech"
)

const suggestionLimit = 5

// Dispatcher turns one finished transcript into a command outcome.
type Dispatcher interface {
	Process(ctx context.Context, transcript string) command.Result
	LastCommand() string
}

// Source supplies PCM chunks from a live capture.
type Source interface {
	Chunks() <-chan []byte
	Device() audio.Device
	BytesCaptured() int64
	Stop() error
}

// Summary reports one listener run.
type Summary struct {
	Device        string
	BytesCaptured int64
	Utterances    int
	Executed      int
	Failed        int
	LowConfidence int
	EngineErrors  int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// openFunc abstracts capture startup so tests can substitute a fake source.
type openFunc func(ctx context.Context) (Source, audio.Selection, error)

// Listener owns the microphone for one dictation run and serves control
// requests while running.
type Listener struct {
	cfg        config.Config
	parser     *command.Parser
	engine     speech.Engine
	dispatcher Dispatcher
	logger     *slog.Logger

	open openFunc

	mu    sync.RWMutex
	state fsm.State

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewListener wires a listener from its collaborators.
func NewListener(cfg config.Config, parser *command.Parser, engine speech.Engine, dispatcher Dispatcher, logger *slog.Logger) *Listener {
	l := &Listener{
		cfg:        cfg,
		parser:     parser,
		engine:     engine,
		dispatcher: dispatcher,
		logger:     logger,
		state:      fsm.StateIdle,
		stopCh:     make(chan struct{}),
	}
	l.open = l.openCapture
	return l
}

// Run captures until the context is cancelled or Stop is called. A listener
// runs once; construct a fresh one for each run.
func (l *Listener) Run(ctx context.Context) (Summary, error) {
	summary := Summary{StartedAt: time.Now()}

	if err := l.transition(fsm.EventStart); err != nil {
		summary.FinishedAt = time.Now()
		return summary, err
	}

	source, selection, err := l.open(ctx)
	if err != nil {
		l.toErrorAndReset()
		summary.FinishedAt = time.Now()
		return summary, fmt.Errorf("open audio source: %w", err)
	}

	summary.Device = describeDevice(selection.Device)
	if selection.Warning != "" && l.logger != nil {
		l.logger.Warn("audio device fallback", "detail", selection.Warning)
	}
	if l.logger != nil {
		l.logger.Info("listening", "device", summary.Device, "sample_rate", l.cfg.Audio.SampleRate)
	}

	segmenter := audio.NewSegmenter(l.cfg.Audio)

	for {
		select {
		case <-ctx.Done():
			return l.finish(source, &summary), nil
		case <-l.stopCh:
			return l.finish(source, &summary), nil
		case chunk, ok := <-source.Chunks():
			if !ok {
				if l.stopRequested(ctx) {
					return l.finish(source, &summary), nil
				}
				_ = source.Stop()
				l.toErrorAndReset()
				summary.BytesCaptured = source.BytesCaptured()
				summary.FinishedAt = time.Now()
				return summary, errors.New("capture stream ended unexpectedly")
			}
			if utterance, ready := segmenter.Feed(chunk); ready {
				l.handleUtterance(ctx, utterance, &summary)
			}
		}
	}
}

// Stop asks a running listener to wind down after the current utterance.
func (l *Listener) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// State reports the current lifecycle state.
func (l *Listener) State() fsm.State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Handle serves one control request against the running listener.
func (l *Listener) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	state := string(l.State())

	switch req.Command {
	case ipc.CommandStatus:
		return ipc.Response{OK: true, State: state}
	case ipc.CommandLast:
		return ipc.Response{OK: true, State: state, Message: l.dispatcher.LastCommand()}
	case ipc.CommandProcess:
		result := l.dispatcher.Process(ctx, req.Text)
		resp := ipc.Response{OK: result.Success, State: string(l.State()), Error: result.Error, Result: &result}
		if !result.Success {
			resp.Suggestions = l.parser.Suggest(req.Text, suggestionLimit)
		}
		return resp
	case ipc.CommandSuggest:
		return ipc.Response{OK: true, State: state, Suggestions: l.parser.Suggest(req.Text, suggestionLimit)}
	case ipc.CommandStop:
		if l.State() == fsm.StateIdle {
			return ipc.Response{OK: false, State: state, Error: "listener is not running"}
		}
		l.Stop()
		return ipc.Response{OK: true, State: state, Message: "stop requested"}
	default:
		return ipc.Response{OK: false, State: state, Error: fmt.Sprintf("unknown command %q", req.Command)}
	}
}

func (l *Listener) handleUtterance(ctx context.Context, pcm []byte, summary *Summary) {
	summary.Utterances++
	if err := l.transition(fsm.EventUtterance); err != nil {
		if l.logger != nil {
			l.logger.Warn("utterance outside listening state dropped", "error", err)
		}
		return
	}
	defer func() { _ = l.transition(fsm.EventProcessed) }()

	wav := audio.EncodeWAV(pcm, l.cfg.Audio.SampleRate)
	transcription, err := l.engine.Transcribe(ctx, wav)
	if err != nil {
		summary.EngineErrors++
		if l.logger != nil {
			l.logger.Warn("transcription failed", "error", err)
		}
		return
	}

	if transcription.Confidence < l.cfg.Commands.ConfidenceThreshold {
		summary.LowConfidence++
		if l.logger != nil {
			l.logger.Debug("utterance below confidence threshold",
				"text", transcription.Text,
				"confidence", transcription.Confidence,
			)
		}
		return
	}

	result := l.dispatcher.Process(ctx, transcription.Text)
	if result.Success {
		summary.Executed++
	} else {
		summary.Failed++
	}
}

// finish stops the source, settles the state machine, and stamps the summary.
// Audio still sitting in the segmenter is deliberately discarded: a stop
// request means the user wants the microphone released now.
func (l *Listener) finish(source Source, summary *Summary) Summary {
	_ = source.Stop()
	_ = l.transition(fsm.EventStop)
	summary.BytesCaptured = source.BytesCaptured()
	summary.FinishedAt = time.Now()
	if l.logger != nil {
		l.logger.Info("listener stopped",
			"utterances", summary.Utterances,
			"executed", summary.Executed,
			"failed", summary.Failed,
			"bytes_captured", summary.BytesCaptured,
		)
	}
	return *summary
}

func (l *Listener) stopRequested(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	select {
	case <-l.stopCh:
		return true
	default:
		return false
	}
}

func (l *Listener) transition(event fsm.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next, err := fsm.Transition(l.state, event)
	if err != nil {
		return err
	}
	l.state = next
	return nil
}

func (l *Listener) toErrorAndReset() {
	_ = l.transition(fsm.EventFail)
	_ = l.transition(fsm.EventReset)
}

func (l *Listener) openCapture(ctx context.Context) (Source, audio.Selection, error) {
	selection, err := audio.SelectDevice(ctx, l.cfg.Audio.Input, l.cfg.Audio.Fallback)
	if err != nil {
		return nil, audio.Selection{}, err
	}

	capture, err := audio.StartCapture(ctx, selection.Device, l.cfg.Audio.SampleRate)
	if err != nil {
		return nil, audio.Selection{}, err
	}
	return capture, selection, nil
}

func describeDevice(device audio.Device) string {
	if device.Description != "" {
		return fmt.Sprintf("%s (%s)", device.Description, device.ID)
	}
	return device.ID
}
