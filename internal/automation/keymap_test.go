package automation

import (
	"testing"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
	"github.com/stretchr/testify/require"
)

func TestKeymapStepsAreWellFormed(t *testing.T) {
	for action, seq := range defaultKeymap {
		require.NotEmpty(t, seq, "action %s has an empty sequence", action)
		for i, step := range seq {
			hasChord := step.Chord != ""
			hasText := step.Text != ""
			require.True(t, hasChord != hasText, "action %s step %d must set exactly one of chord or text", action, i)
		}
	}
}

func TestKeymapLeavesDirectionActionsToBackend(t *testing.T) {
	_, hasScroll := defaultKeymap[command.ActionScroll]
	_, hasPage := defaultKeymap[command.ActionPage]
	require.False(t, hasScroll)
	require.False(t, hasPage)
}

func TestExpandSubstitutesTokens(t *testing.T) {
	cmd := command.Command{
		Action: command.ActionChange,
		Params: command.TargetValueParams{Target: "foo", Value: "bar"},
	}

	out, err := expand("swap {target} for {value}", cmd)
	require.NoError(t, err)
	require.Equal(t, "swap foo for bar", out)
}

func TestExpandLineToken(t *testing.T) {
	cmd := command.Command{Action: command.ActionGotoLine, Params: command.LineParams{Line: 7}}

	out, err := expand("{line}", cmd)
	require.NoError(t, err)
	require.Equal(t, "7", out)
}

func TestExpandMissingParamFails(t *testing.T) {
	cmd := command.Command{Action: command.ActionUndo, Params: command.NoParams{}}

	_, err := expand("{target}", cmd)
	require.Error(t, err)
	require.Contains(t, err.Error(), "{target}")
}

func TestExpandLeavesPlainTextAlone(t *testing.T) {
	cmd := command.Command{Action: command.ActionUndo, Params: command.NoParams{}}

	out, err := expand("plain text", cmd)
	require.NoError(t, err)
	require.Equal(t, "plain text", out)
}
