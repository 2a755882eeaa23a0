package automation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/command"
)

// Operation performs the desktop side effect behind one vocabulary action
// and reports payload details for observers.
type Operation func(ctx context.Context, cmd command.Command) (command.Payload, error)

// Registry maps vocabulary actions to backend operations.
type Registry struct {
	mu  sync.RWMutex
	ops map[command.Action]Operation
}

// NewRegistry constructs an empty operation registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[command.Action]Operation)}
}

// Register binds an operation to an action. Rebinding an action or
// registering a nil operation is an error.
func (r *Registry) Register(action command.Action, op Operation) error {
	if op == nil {
		return fmt.Errorf("operation for %s cannot be nil", action)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ops[action]; exists {
		return fmt.Errorf("operation for %s already registered", action)
	}
	r.ops[action] = op
	return nil
}

// Lookup returns the operation bound to action.
func (r *Registry) Lookup(action command.Action) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[action]
	return op, ok
}

// Actions lists the registered actions in sorted order.
func (r *Registry) Actions() []command.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := make([]command.Action, 0, len(r.ops))
	for action := range r.ops {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}
