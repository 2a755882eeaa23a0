package command

// Action identifies one editor side effect the vocabulary can request.
type Action string

const (
	// Navigation
	ActionGotoLine     Action = "goto_line"
	ActionGotoFunction Action = "goto_function"
	ActionGotoClass    Action = "goto_class"
	ActionGotoMethod   Action = "goto_method"
	ActionNextFunction Action = "next_function"
	ActionPrevFunction Action = "prev_function"
	ActionNextLine     Action = "next_line"
	ActionPrevLine     Action = "prev_line"
	ActionScroll       Action = "scroll"
	ActionPage         Action = "page"

	// Editing
	ActionAddFunction    Action = "add_function"
	ActionAddClass       Action = "add_class"
	ActionAddMethod      Action = "add_method"
	ActionDeleteLine     Action = "delete_line"
	ActionDeleteFunction Action = "delete_function"
	ActionDeleteClass    Action = "delete_class"
	ActionInsert         Action = "insert"
	ActionType           Action = "type"
	ActionAddComment     Action = "add_comment"

	// Selection
	ActionSelectLine        Action = "select_line"
	ActionSelectFunction    Action = "select_function"
	ActionSelectClass       Action = "select_class"
	ActionSelectAll         Action = "select_all"
	ActionSelectWord        Action = "select_word"
	ActionSelectCurrentLine Action = "select_current_line"

	// Change/Replace
	ActionChange  Action = "change"
	ActionRename  Action = "rename"
	ActionReplace Action = "replace"

	// Clipboard
	ActionCopy          Action = "copy"
	ActionCut           Action = "cut"
	ActionPaste         Action = "paste"
	ActionDuplicateLine Action = "duplicate_line"
	ActionCopyLine      Action = "copy_line"

	// Undo/Redo
	ActionUndo Action = "undo"
	ActionRedo Action = "redo"

	// Save/Open
	ActionSave      Action = "save"
	ActionSaveAs    Action = "save_as"
	ActionOpenFile  Action = "open_file"
	ActionCloseFile Action = "close_file"
	ActionNewFile   Action = "new_file"

	// Search/Find
	ActionFind         Action = "find"
	ActionSearch       Action = "search"
	ActionFindNext     Action = "find_next"
	ActionFindPrevious Action = "find_previous"

	// Format
	ActionFormatDocument  Action = "format_document"
	ActionFormatSelection Action = "format_selection"
	ActionIndent          Action = "indent"
	ActionUnindent        Action = "unindent"
	ActionCommentOut      Action = "comment_out"
	ActionUncomment       Action = "uncomment"
)
