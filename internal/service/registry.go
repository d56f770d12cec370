package service

import (
	"sync"

	"github.com/growthframe/agentcore/internal/domain/action"
)

// Registry tracks all in-flight actions by id. The pipeline registers an
// action when it dispatches it for execution and removes it when a result is
// produced; the lifecycle controller reads it during shutdown. Both paths
// can run concurrently, so every access goes through the mutex.
type Registry struct {
	mu      sync.Mutex
	actions map[string]action.Action
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]action.Action)}
}

// Put inserts an action. Re-inserting an id overwrites the previous entry,
// preserving the one-entry-per-id invariant.
func (r *Registry) Put(a action.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[a.ID] = a
}

// Remove deletes the action with the given id, if present.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.actions, id)
}

// Get returns the action with the given id.
func (r *Registry) Get(id string) (action.Action, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.actions[id]
	return a, ok
}

// List returns a snapshot of all registered actions.
func (r *Registry) List() []action.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]action.Action, 0, len(r.actions))
	for _, a := range r.actions {
		out = append(out, a)
	}
	return out
}

// ListByPriority returns a snapshot of registered actions with the given priority.
func (r *Registry) ListByPriority(p action.Priority) []action.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []action.Action
	for _, a := range r.actions {
		if a.Priority == p {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actions)
}
