package command

// defaultTable is the built-in vocabulary in match order. Order is part of
// the contract: earlier entries win, and some entries deliberately shadow
// later ones ("save" before "save as (.+)", "copy" before "copy line",
// "find (.+)" before "find next").
var defaultTable = []Entry{
	// Navigation
	{Pattern: `go to line (\d+)`, Action: ActionGotoLine, Shape: ShapeLine},
	{Pattern: `go to function (.+)`, Action: ActionGotoFunction, Shape: ShapeTarget},
	{Pattern: `go to class (.+)`, Action: ActionGotoClass, Shape: ShapeTarget},
	{Pattern: `go to method (.+)`, Action: ActionGotoMethod, Shape: ShapeTarget},
	{Pattern: `next function`, Action: ActionNextFunction, Shape: ShapeNone},
	{Pattern: `previous function`, Action: ActionPrevFunction, Shape: ShapeNone},
	{Pattern: `next line`, Action: ActionNextLine, Shape: ShapeNone},
	{Pattern: `previous line`, Action: ActionPrevLine, Shape: ShapeNone},
	{Pattern: `scroll (up|down)`, Action: ActionScroll, Shape: ShapeTarget},
	{Pattern: `page (up|down)`, Action: ActionPage, Shape: ShapeTarget},

	// Editing
	{Pattern: `add function (.+)`, Action: ActionAddFunction, Shape: ShapeTarget},
	{Pattern: `add class (.+)`, Action: ActionAddClass, Shape: ShapeTarget},
	{Pattern: `add method (.+)`, Action: ActionAddMethod, Shape: ShapeTarget},
	{Pattern: `create function (.+)`, Action: ActionAddFunction, Shape: ShapeTarget},
	{Pattern: `create class (.+)`, Action: ActionAddClass, Shape: ShapeTarget},
	{Pattern: `delete line`, Action: ActionDeleteLine, Shape: ShapeNone},
	{Pattern: `delete function (.+)`, Action: ActionDeleteFunction, Shape: ShapeTarget},
	{Pattern: `delete class (.+)`, Action: ActionDeleteClass, Shape: ShapeTarget},
	{Pattern: `remove line`, Action: ActionDeleteLine, Shape: ShapeNone},
	{Pattern: `insert (.+)`, Action: ActionInsert, Shape: ShapeValue},
	{Pattern: `type (.+)`, Action: ActionType, Shape: ShapeValue},
	{Pattern: `add comment (.+)`, Action: ActionAddComment, Shape: ShapeValue},

	// Selection
	{Pattern: `select line (\d+)`, Action: ActionSelectLine, Shape: ShapeLine},
	{Pattern: `select function (.+)`, Action: ActionSelectFunction, Shape: ShapeTarget},
	{Pattern: `select class (.+)`, Action: ActionSelectClass, Shape: ShapeTarget},
	{Pattern: `select all`, Action: ActionSelectAll, Shape: ShapeNone},
	{Pattern: `select word`, Action: ActionSelectWord, Shape: ShapeNone},
	{Pattern: `select line`, Action: ActionSelectCurrentLine, Shape: ShapeNone},

	// Change/Replace
	{Pattern: `change (.+) to (.+)`, Action: ActionChange, Shape: ShapeTargetValue},
	{Pattern: `rename (.+) to (.+)`, Action: ActionRename, Shape: ShapeTargetValue},
	{Pattern: `replace (.+) with (.+)`, Action: ActionReplace, Shape: ShapeTargetValue},

	// Clipboard
	{Pattern: `copy`, Action: ActionCopy, Shape: ShapeNone},
	{Pattern: `cut`, Action: ActionCut, Shape: ShapeNone},
	{Pattern: `paste`, Action: ActionPaste, Shape: ShapeNone},
	{Pattern: `duplicate line`, Action: ActionDuplicateLine, Shape: ShapeNone},
	{Pattern: `copy line`, Action: ActionCopyLine, Shape: ShapeNone},

	// Undo/Redo
	{Pattern: `undo`, Action: ActionUndo, Shape: ShapeNone},
	{Pattern: `redo`, Action: ActionRedo, Shape: ShapeNone},

	// Save/Open
	{Pattern: `save file`, Action: ActionSave, Shape: ShapeNone},
	{Pattern: `save`, Action: ActionSave, Shape: ShapeNone},
	{Pattern: `save as (.+)`, Action: ActionSaveAs, Shape: ShapeValue},
	{Pattern: `open file (.+)`, Action: ActionOpenFile, Shape: ShapeValue},
	{Pattern: `close file`, Action: ActionCloseFile, Shape: ShapeNone},
	{Pattern: `new file`, Action: ActionNewFile, Shape: ShapeNone},

	// Search/Find
	{Pattern: `find (.+)`, Action: ActionFind, Shape: ShapeValue},
	{Pattern: `search (.+)`, Action: ActionSearch, Shape: ShapeValue},
	{Pattern: `find next`, Action: ActionFindNext, Shape: ShapeNone},
	{Pattern: `find previous`, Action: ActionFindPrevious, Shape: ShapeNone},

	// Format
	{Pattern: `format document`, Action: ActionFormatDocument, Shape: ShapeNone},
	{Pattern: `format selection`, Action: ActionFormatSelection, Shape: ShapeNone},
	{Pattern: `indent`, Action: ActionIndent, Shape: ShapeNone},
	{Pattern: `unindent`, Action: ActionUnindent, Shape: ShapeNone},
	{Pattern: `comment out`, Action: ActionCommentOut, Shape: ShapeNone},
	{Pattern: `uncomment`, Action: ActionUncomment, Shape: ShapeNone},
}

// DefaultTable returns a copy of the built-in vocabulary in match order.
func DefaultTable() []Entry {
	return append([]Entry(nil), defaultTable...)
}
