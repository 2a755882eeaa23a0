package ipc

import "github.com/prarthanadoshi7/serenade-whisperai/internal/command"

// Control commands a running listener understands.
const (
	CommandStatus  = "status"
	CommandLast    = "last"
	CommandProcess = "process"
	CommandSuggest = "suggest"
	CommandStop    = "stop"
)

type Request struct {
	Command string `json:"command"`
	Text    string `json:"text,omitempty"`
}

type Response struct {
	OK          bool            `json:"ok"`
	State       string          `json:"state,omitempty"`
	Message     string          `json:"message,omitempty"`
	Error       string          `json:"error,omitempty"`
	Result      *command.Result `json:"result,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
}
