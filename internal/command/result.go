package command

// Payload is optional structured data describing an executed side effect,
// such as the line number jumped to.
type Payload map[string]any

// Result reports the outcome of processing one utterance. Failures travel
// through this type as ordinary values; nothing downstream of dispatch
// panics across the processing boundary.
type Result struct {
	Success bool    `json:"success"`
	Command string  `json:"command"`
	Action  Action  `json:"action,omitempty"`
	Error   string  `json:"error,omitempty"`
	Data    Payload `json:"data,omitempty"`
}
