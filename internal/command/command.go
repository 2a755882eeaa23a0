// Package command defines the voice-command vocabulary: an ordered pattern
// table, the parser that binds utterances to structured commands, and the
// result type dispatch produces.
package command

// Command is one parsed utterance: the action to perform plus the
// parameters its pattern captured. Commands compare with ==, so repeated
// parses of the same utterance yield equal values.
type Command struct {
	Action Action
	Params Params
}

// Shape reports the parameter shape of the command.
func (c Command) Shape() Shape {
	if c.Params == nil {
		return ShapeNone
	}
	return c.Params.Shape()
}

// Target returns the captured target, if the shape carries one.
func (c Command) Target() (string, bool) {
	switch p := c.Params.(type) {
	case TargetParams:
		return p.Target, true
	case TargetValueParams:
		return p.Target, true
	default:
		return "", false
	}
}

// Value returns the captured value text, if the shape carries one.
func (c Command) Value() (string, bool) {
	switch p := c.Params.(type) {
	case ValueParams:
		return p.Value, true
	case TargetValueParams:
		return p.Value, true
	default:
		return "", false
	}
}

// Line returns the captured line number, if the shape carries one.
func (c Command) Line() (int, bool) {
	if p, ok := c.Params.(LineParams); ok {
		return p.Line, true
	}
	return 0, false
}
