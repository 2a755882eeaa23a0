package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
	"github.com/prarthanadoshi7/serenade-whisperai/internal/config"
)

// stepTimeout bounds a single injection command so a stuck type or key
// process cannot hang an utterance.
const stepTimeout = 10 * time.Second

// Backend realizes the action vocabulary as key and text sequences driven
// through an injection driver.
type Backend struct {
	driver   Driver
	pause    time.Duration
	registry *Registry
}

// NewBackend wires the default keymap to the configured injection commands.
func NewBackend(cfg config.AutomationConfig) *Backend {
	return newBackend(NewExecDriver(cfg), time.Duration(cfg.PauseMS)*time.Millisecond)
}

func newBackend(driver Driver, pause time.Duration) *Backend {
	b := &Backend{driver: driver, pause: pause, registry: NewRegistry()}
	for action, seq := range defaultKeymap {
		mustRegister(b.registry, action, b.sequenceOp(seq))
	}
	mustRegister(b.registry, command.ActionScroll, b.directionOp("ctrl+Up", "ctrl+Down"))
	mustRegister(b.registry, command.ActionPage, b.directionOp("Prior", "Next"))
	return b
}

func mustRegister(r *Registry, action command.Action, op Operation) {
	if err := r.Register(action, op); err != nil {
		panic(err)
	}
}

// Registry exposes the populated operation registry.
func (b *Backend) Registry() *Registry { return b.registry }

// sequenceOp performs a fixed step sequence, pausing between steps.
func (b *Backend) sequenceOp(seq Sequence) Operation {
	return func(ctx context.Context, cmd command.Command) (command.Payload, error) {
		for i, step := range seq {
			if i > 0 {
				if err := b.pauseBetween(ctx); err != nil {
					return nil, err
				}
			}
			if err := b.perform(ctx, step, cmd); err != nil {
				return nil, err
			}
		}
		return commandPayload(cmd), nil
	}
}

// directionOp presses upChord or downChord based on the command's
// direction target.
func (b *Backend) directionOp(upChord, downChord string) Operation {
	return func(ctx context.Context, cmd command.Command) (command.Payload, error) {
		direction, ok := cmd.Target()
		if !ok {
			return nil, fmt.Errorf("command %s has no direction", cmd.Action)
		}

		var pressed string
		switch direction {
		case "up":
			pressed = upChord
		case "down":
			pressed = downChord
		default:
			return nil, fmt.Errorf("unknown direction %q", direction)
		}

		if err := b.press(ctx, pressed); err != nil {
			return nil, err
		}
		return commandPayload(cmd), nil
	}
}

func (b *Backend) perform(ctx context.Context, step Step, cmd command.Command) error {
	if step.Chord != "" {
		return b.press(ctx, step.Chord)
	}
	expanded, err := expand(step.Text, cmd)
	if err != nil {
		return err
	}
	return b.typeText(ctx, expanded)
}

func (b *Backend) press(ctx context.Context, chord string) error {
	stepCtx, cancel := context.WithTimeout(ctx, stepTimeout)
	defer cancel()
	return b.driver.PressKeys(stepCtx, chord)
}

func (b *Backend) typeText(ctx context.Context, text string) error {
	stepCtx, cancel := context.WithTimeout(ctx, stepTimeout)
	defer cancel()
	return b.driver.TypeText(stepCtx, text)
}

// pauseBetween waits the configured inter-step pause unless ctx ends first.
func (b *Backend) pauseBetween(ctx context.Context) error {
	if b.pause <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.pause):
		return nil
	}
}

// commandPayload reports the params bound to the performed command.
func commandPayload(cmd command.Command) command.Payload {
	payload := command.Payload{}
	if target, ok := cmd.Target(); ok {
		payload["target"] = target
	}
	if value, ok := cmd.Value(); ok {
		payload["value"] = value
	}
	if line, ok := cmd.Line(); ok {
		payload["line"] = line
	}
	if len(payload) == 0 {
		return nil
	}
	return payload
}
