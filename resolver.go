package engine

import (
	"errors"
	"fmt"
)

// ActionID identifies a game action.
type ActionID uint32

var (
	errNilHandler      = errors.New("handler must not be nil")
	errZeroActionID    = errors.New("action id must not be zero")
	errDuplicateAction = errors.New("action id already registered")
)

// Handler decides which concrete action a requested base action maps to given
// the current state. Implementations must be pure and allocation-free: they
// run on the per-tick decision path for every intercepted action.
type Handler interface {
	Execute(action ActionID, state *StateCache, targetEffects, playerEffects *EffectTracker, actionStates *ReadinessSet) ActionID
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(action ActionID, state *StateCache, targetEffects, playerEffects *EffectTracker, actionStates *ReadinessSet) ActionID

// Execute calls f.
func (f HandlerFunc) Execute(action ActionID, state *StateCache, targetEffects, playerEffects *EffectTracker, actionStates *ReadinessSet) ActionID {
	return f(action, state, targetEffects, playerEffects, actionStates)
}

// Resolver dispatches requested actions to registered handlers. Actions with
// no handler pass through unchanged, so Resolve is total over every id the
// interception layer can hand it. Registration happens once at startup; the
// dispatch table is read-only afterwards.
type Resolver struct {
	handlers map[ActionID]Handler
}

// NewResolver returns a resolver with an empty dispatch table.
func NewResolver() *Resolver {
	return &Resolver{handlers: make(map[ActionID]Handler)}
}

// Register binds handler to the base action id. Each id takes exactly one
// handler; rebinding is a wiring bug and errors out.
func (r *Resolver) Register(id ActionID, handler Handler) error {
	if id == 0 {
		return errZeroActionID
	}
	if handler == nil {
		return errNilHandler
	}
	if _, exists := r.handlers[id]; exists {
		return fmt.Errorf("%w: %d", errDuplicateAction, id)
	}
	r.handlers[id] = handler
	return nil
}

// MustRegister registers and panics on error. Startup wiring only.
func (r *Resolver) MustRegister(id ActionID, handler Handler) {
	if err := r.Register(id, handler); err != nil {
		panic(err)
	}
}

// Registered reports whether id has a handler bound.
func (r *Resolver) Registered(id ActionID) bool {
	_, ok := r.handlers[id]
	return ok
}

// Resolve maps the requested action to the action that should actually be
// issued. Unregistered ids return unchanged.
func (r *Resolver) Resolve(action ActionID, state *StateCache, targetEffects, playerEffects *EffectTracker, actionStates *ReadinessSet) ActionID {
	handler, ok := r.handlers[action]
	if !ok {
		return action
	}
	return handler.Execute(action, state, targetEffects, playerEffects, actionStates)
}

// ResolveBatch resolves each id in actions element-wise into out and returns
// how many results were written, bounded by the shorter slice. Elements are
// independent; no state crosses between them.
func (r *Resolver) ResolveBatch(actions []ActionID, out []ActionID, state *StateCache, targetEffects, playerEffects *EffectTracker, actionStates *ReadinessSet) int {
	n := len(actions)
	if len(out) < n {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] = r.Resolve(actions[i], state, targetEffects, playerEffects, actionStates)
	}
	return n
}
