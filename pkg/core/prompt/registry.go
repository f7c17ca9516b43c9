package prompt

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps prompt IDs to templates. It only knows the built-in IDs;
// overrides replace those and never add new ones.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

var (
	globalRegistry *Registry
	once           sync.Once
)

// Get returns the process-wide registry.
func Get() *Registry {
	once.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// NewRegistry creates a registry holding only the built-in prompts.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Override replaces the built-in template with the same ID. Fields left empty
// in t are inherited from the built-in, so a file may carry only the text it
// changes.
func (r *Registry) Override(t *Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	base, ok := r.templates[t.ID]
	if !ok {
		return fmt.Errorf("unknown prompt id %q (known: %s)", t.ID, strings.Join(r.idsLocked(), ", "))
	}
	merged := t.mergeOver(base)
	if _, err := merged.parse(); err != nil {
		return err
	}
	r.templates[t.ID] = merged
	return nil
}

// Lookup returns the template registered under id.
func (r *Registry) Lookup(id string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.templates[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("prompt not found: %s", id)
}

// Overrides lists the IDs currently served from a file, sorted.
func (r *Registry) Overrides() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, t := range r.templates {
		if t.Source != SourceBuiltin {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered prompts.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// Reset drops every override.
func (r *Registry) Reset() {
	templates := make(map[string]*Template)
	for _, t := range builtinPrompts() {
		t.Source = SourceBuiltin
		templates[t.ID] = t
	}
	r.mu.Lock()
	r.templates = templates
	r.mu.Unlock()
}

func (r *Registry) idsLocked() []string {
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
