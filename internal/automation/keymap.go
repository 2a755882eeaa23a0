package automation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
)

// Step is one unit of a key sequence: a key chord when Chord is set,
// otherwise a text template typed into the application.
type Step struct {
	Chord string
	Text  string
}

// Sequence is the ordered steps performed for one action.
type Sequence []Step

func chord(c string) Step { return Step{Chord: c} }
func text(t string) Step  { return Step{Text: t} }

// defaultKeymap binds vocabulary actions to editor key sequences. Chord
// names follow X keysym conventions. Text templates expand {target},
// {value}, and {line} from the command's params before typing. Scroll and
// page are bound separately because their chord depends on a direction.
var defaultKeymap = map[command.Action]Sequence{
	// Navigation
	command.ActionGotoLine:     {chord("ctrl+g"), text("{line}"), chord("Return")},
	command.ActionGotoFunction: {chord("ctrl+shift+o"), text("{target}"), chord("Return")},
	command.ActionGotoClass:    {chord("ctrl+shift+o"), text("{target}"), chord("Return")},
	command.ActionGotoMethod:   {chord("ctrl+shift+o"), text("{target}"), chord("Return")},
	command.ActionNextFunction: {chord("alt+Down")},
	command.ActionPrevFunction: {chord("alt+Up")},
	command.ActionNextLine:     {chord("Down")},
	command.ActionPrevLine:     {chord("Up")},

	// Editing
	command.ActionAddFunction:    {text("def {target}():"), chord("Return")},
	command.ActionAddClass:       {text("class {target}:"), chord("Return")},
	command.ActionAddMethod:      {text("def {target}(self):"), chord("Return")},
	command.ActionDeleteLine:     {chord("ctrl+shift+k")},
	command.ActionDeleteFunction: {chord("ctrl+shift+o"), text("{target}"), chord("Return"), chord("ctrl+shift+k")},
	command.ActionDeleteClass:    {chord("ctrl+shift+o"), text("{target}"), chord("Return"), chord("ctrl+shift+k")},
	command.ActionInsert:         {text("{value}")},
	command.ActionType:           {text("{value}")},
	command.ActionAddComment:     {text("# {value}")},

	// Selection
	command.ActionSelectLine:        {chord("ctrl+g"), text("{line}"), chord("Return"), chord("Home"), chord("shift+End")},
	command.ActionSelectFunction:    {chord("ctrl+shift+o"), text("{target}"), chord("Return"), chord("shift+alt+Right")},
	command.ActionSelectClass:       {chord("ctrl+shift+o"), text("{target}"), chord("Return"), chord("shift+alt+Right")},
	command.ActionSelectAll:         {chord("ctrl+a")},
	command.ActionSelectWord:        {chord("ctrl+d")},
	command.ActionSelectCurrentLine: {chord("Home"), chord("shift+End")},

	// Change/Replace
	command.ActionChange:  {chord("ctrl+h"), text("{target}"), chord("Tab"), text("{value}"), chord("Return"), chord("Escape")},
	command.ActionRename:  {chord("ctrl+shift+o"), text("{target}"), chord("Return"), chord("F2"), chord("ctrl+a"), text("{value}"), chord("Return")},
	command.ActionReplace: {chord("ctrl+h"), text("{target}"), chord("Tab"), text("{value}"), chord("Return"), chord("Escape")},

	// Clipboard
	command.ActionCopy:          {chord("ctrl+c")},
	command.ActionCut:           {chord("ctrl+x")},
	command.ActionPaste:         {chord("ctrl+v")},
	command.ActionDuplicateLine: {chord("shift+alt+Down")},
	command.ActionCopyLine:      {chord("Home"), chord("shift+End"), chord("ctrl+c")},

	// Undo/Redo
	command.ActionUndo: {chord("ctrl+z")},
	command.ActionRedo: {chord("ctrl+shift+z")},

	// Save/Open
	command.ActionSave:      {chord("ctrl+s")},
	command.ActionSaveAs:    {chord("ctrl+shift+s"), text("{value}"), chord("Return")},
	command.ActionOpenFile:  {chord("ctrl+o"), text("{value}"), chord("Return")},
	command.ActionCloseFile: {chord("ctrl+w")},
	command.ActionNewFile:   {chord("ctrl+n")},

	// Search/Find
	command.ActionFind:         {chord("ctrl+f"), text("{value}"), chord("Return")},
	command.ActionSearch:       {chord("ctrl+shift+f"), text("{value}"), chord("Return")},
	command.ActionFindNext:     {chord("F3")},
	command.ActionFindPrevious: {chord("shift+F3")},

	// Format
	command.ActionFormatDocument:  {chord("ctrl+shift+i")},
	command.ActionFormatSelection: {chord("ctrl+k"), chord("ctrl+f")},
	command.ActionIndent:          {chord("ctrl+bracketright")},
	command.ActionUnindent:        {chord("ctrl+bracketleft")},
	command.ActionCommentOut:      {chord("ctrl+slash")},
	command.ActionUncomment:       {chord("ctrl+slash")},
}

// expand substitutes {target}, {value}, and {line} tokens in a text
// template with the command's bound params.
func expand(tpl string, cmd command.Command) (string, error) {
	out := tpl
	for _, token := range []string{"{target}", "{value}", "{line}"} {
		if !strings.Contains(out, token) {
			continue
		}
		val, err := tokenValue(token, cmd)
		if err != nil {
			return "", err
		}
		out = strings.ReplaceAll(out, token, val)
	}
	return out, nil
}

func tokenValue(token string, cmd command.Command) (string, error) {
	switch token {
	case "{target}":
		if target, ok := cmd.Target(); ok {
			return target, nil
		}
	case "{value}":
		if value, ok := cmd.Value(); ok {
			return value, nil
		}
	case "{line}":
		if line, ok := cmd.Line(); ok {
			return strconv.Itoa(line), nil
		}
	}
	return "", fmt.Errorf("command %s has no %s param", cmd.Action, token)
}
