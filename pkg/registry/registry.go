// Package registry holds the immutable dialog definitions a bot can run.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/wicker/pkg/domain"
)

// Registry manages the registered dialog definitions. Definitions are
// immutable once registered; re-registering a name overwrites it, which is
// intended for wiring-time composition, not for runtime mutation.
type Registry struct {
	mu      sync.RWMutex
	dialogs map[string]*domain.DialogDefinition
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		dialogs: make(map[string]*domain.DialogDefinition),
	}
}

// Register adds a dialog under its name.
func (r *Registry) Register(name string, steps ...domain.Step) error {
	if name == "" {
		return fmt.Errorf("dialog name cannot be empty")
	}
	if len(steps) == 0 {
		return fmt.Errorf("dialog %q has no steps", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dialogs[name] = &domain.DialogDefinition{Name: name, Steps: steps}
	return nil
}

// Get looks up a dialog definition by name.
func (r *Registry) Get(name string) (*domain.DialogDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.dialogs[name]
	return def, ok
}

// Names returns the registered dialog names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.dialogs))
	for name := range r.dialogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
