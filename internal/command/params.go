package command

// Shape names the parameter layout a pattern's captures bind to.
type Shape string

const (
	ShapeNone        Shape = "none"
	ShapeTarget      Shape = "target"
	ShapeValue       Shape = "value"
	ShapeLine        Shape = "line_number"
	ShapeTargetValue Shape = "target_value"
)

func (s Shape) valid() bool {
	switch s {
	case ShapeNone, ShapeTarget, ShapeValue, ShapeLine, ShapeTargetValue:
		return true
	default:
		return false
	}
}

// groups is the capture-group count a pattern of this shape must have.
func (s Shape) groups() int {
	switch s {
	case ShapeTarget, ShapeValue, ShapeLine:
		return 1
	case ShapeTargetValue:
		return 2
	default:
		return 0
	}
}

// Params carries the bound captures of a parsed command. Exactly one
// variant exists per shape, so a command cannot hold parameters its
// pattern never captured.
type Params interface {
	Shape() Shape
}

// NoParams is the parameter set of literal commands ("undo", "save").
type NoParams struct{}

// TargetParams names the thing a command operates on ("go to function X").
type TargetParams struct {
	Target string
}

// ValueParams carries free text for the command to place ("insert X").
type ValueParams struct {
	Value string
}

// LineParams carries a non-negative line number ("go to line 42").
type LineParams struct {
	Line int
}

// TargetValueParams pairs a target with replacement text ("rename X to Y").
type TargetValueParams struct {
	Target string
	Value  string
}

func (NoParams) Shape() Shape          { return ShapeNone }
func (TargetParams) Shape() Shape      { return ShapeTarget }
func (ValueParams) Shape() Shape       { return ShapeValue }
func (LineParams) Shape() Shape        { return ShapeLine }
func (TargetValueParams) Shape() Shape { return ShapeTargetValue }
