package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	calls  []string
	err    error
	onCall func()
}

func (d *fakeDriver) TypeText(ctx context.Context, text string) error {
	d.calls = append(d.calls, "type "+text)
	if d.onCall != nil {
		d.onCall()
	}
	return d.err
}

func (d *fakeDriver) PressKeys(ctx context.Context, chord string) error {
	d.calls = append(d.calls, "press "+chord)
	if d.onCall != nil {
		d.onCall()
	}
	return d.err
}

func paramsFor(shape command.Shape) command.Params {
	switch shape {
	case command.ShapeTarget:
		return command.TargetParams{Target: "up"}
	case command.ShapeValue:
		return command.ValueParams{Value: "sample"}
	case command.ShapeLine:
		return command.LineParams{Line: 12}
	case command.ShapeTargetValue:
		return command.TargetValueParams{Target: "old", Value: "new"}
	default:
		return command.NoParams{}
	}
}

func TestBackendCoversEntireVocabulary(t *testing.T) {
	backend := newBackend(&fakeDriver{}, 0)

	for _, entry := range command.DefaultTable() {
		op, ok := backend.Registry().Lookup(entry.Action)
		require.True(t, ok, "action %s has no operation", entry.Action)

		cmd := command.Command{Action: entry.Action, Params: paramsFor(entry.Shape)}
		_, err := op(context.Background(), cmd)
		require.NoError(t, err, "action %s failed", entry.Action)
	}
}

func TestBackendGotoLineSequence(t *testing.T) {
	driver := &fakeDriver{}
	backend := newBackend(driver, 0)

	op, ok := backend.Registry().Lookup(command.ActionGotoLine)
	require.True(t, ok)

	payload, err := op(context.Background(), command.Command{
		Action: command.ActionGotoLine,
		Params: command.LineParams{Line: 42},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"press ctrl+g", "type 42", "press Return"}, driver.calls)
	require.Equal(t, command.Payload{"line": 42}, payload)
}

func TestBackendNoParamPayloadIsNil(t *testing.T) {
	driver := &fakeDriver{}
	backend := newBackend(driver, 0)

	op, ok := backend.Registry().Lookup(command.ActionUndo)
	require.True(t, ok)

	payload, err := op(context.Background(), command.Command{Action: command.ActionUndo, Params: command.NoParams{}})
	require.NoError(t, err)
	require.Nil(t, payload)
	require.Equal(t, []string{"press ctrl+z"}, driver.calls)
}

func TestBackendScrollAndPageDirections(t *testing.T) {
	driver := &fakeDriver{}
	backend := newBackend(driver, 0)

	scrollOp, ok := backend.Registry().Lookup(command.ActionScroll)
	require.True(t, ok)
	_, err := scrollOp(context.Background(), command.Command{Action: command.ActionScroll, Params: command.TargetParams{Target: "down"}})
	require.NoError(t, err)

	pageOp, ok := backend.Registry().Lookup(command.ActionPage)
	require.True(t, ok)
	_, err = pageOp(context.Background(), command.Command{Action: command.ActionPage, Params: command.TargetParams{Target: "up"}})
	require.NoError(t, err)

	require.Equal(t, []string{"press ctrl+Down", "press Prior"}, driver.calls)
}

func TestBackendRejectsUnknownDirection(t *testing.T) {
	backend := newBackend(&fakeDriver{}, 0)

	op, ok := backend.Registry().Lookup(command.ActionScroll)
	require.True(t, ok)

	_, err := op(context.Background(), command.Command{Action: command.ActionScroll, Params: command.TargetParams{Target: "sideways"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown direction")
}

func TestBackendSurfacesDriverError(t *testing.T) {
	driverErr := errors.New("injection failed")
	backend := newBackend(&fakeDriver{err: driverErr}, 0)

	op, ok := backend.Registry().Lookup(command.ActionSave)
	require.True(t, ok)

	_, err := op(context.Background(), command.Command{Action: command.ActionSave, Params: command.NoParams{}})
	require.ErrorIs(t, err, driverErr)
}

func TestBackendPauseStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	driver := &fakeDriver{onCall: cancel}
	backend := newBackend(driver, 50*time.Millisecond)

	op, ok := backend.Registry().Lookup(command.ActionGotoLine)
	require.True(t, ok)

	_, err := op(ctx, command.Command{Action: command.ActionGotoLine, Params: command.LineParams{Line: 7}})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, []string{"press ctrl+g"}, driver.calls)
}

func TestBackendMissingParamFailsSequence(t *testing.T) {
	backend := newBackend(&fakeDriver{}, 0)

	op, ok := backend.Registry().Lookup(command.ActionInsert)
	require.True(t, ok)

	_, err := op(context.Background(), command.Command{Action: command.ActionInsert, Params: command.NoParams{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "{value}")
}
