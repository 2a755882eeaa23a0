package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle       State = "idle"
	StateListening  State = "listening"
	StateProcessing State = "processing"
	StateError      State = "error"
)

const (
	EventStart     Event = "start"
	EventUtterance Event = "utterance"
	EventProcessed Event = "processed"
	EventStop      Event = "stop"
	EventFail      Event = "fail"
	EventReset     Event = "reset"
)

// transitions holds the events each state accepts. EventFail is handled
// before the lookup so any state can fail into StateError.
var transitions = map[State]map[Event]State{
	StateIdle: {
		EventStart: StateListening,
	},
	StateListening: {
		EventUtterance: StateProcessing,
		EventStop:      StateIdle,
	},
	StateProcessing: {
		EventProcessed: StateListening,
		EventStop:      StateIdle,
	},
	StateError: {
		EventReset: StateIdle,
	},
}

// Transition computes the next listener state. The listener is continuous:
// a processed utterance returns to listening, not idle.
func Transition(current State, event Event) (State, error) {
	if event == EventFail {
		return StateError, nil
	}

	accepted, ok := transitions[current]
	if !ok {
		return current, fmt.Errorf("unknown state %q", current)
	}
	next, ok := accepted[event]
	if !ok {
		return current, fmt.Errorf("invalid transition: %s --(%s)--> ?", current, event)
	}
	return next, nil
}
