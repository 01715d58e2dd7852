package toolclient

import (
	"fmt"
	"sort"
	"sync"
)

// Handler answers one tool call given its raw JSON input and returns a
// JSON-encodable output value.
type Handler func(input []byte) (any, error)

// Registry dispatches tool calls to Handlers by tool name. Its shape
// (mutex-guarded map, Register/MustRegister returning a duplicate error,
// sorted IDs) mirrors the module registry the rest of this codebase uses
// for pluggable units, keyed here by tool name instead of module id.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

// Register installs a handler for toolName. Returns an error if toolName is
// already registered.
func (r *Registry) Register(toolName string, h Handler) error {
	if toolName == "" {
		return fmt.Errorf("toolclient: tool name is required")
	}
	if h == nil {
		return fmt.Errorf("toolclient: handler is required for %s", toolName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[toolName]; exists {
		return fmt.Errorf("toolclient: %s already registered", toolName)
	}
	r.handlers[toolName] = h
	return nil
}

// MustRegister panics if Register fails; used for the stub's fixed,
// known-good handler set at construction time.
func (r *Registry) MustRegister(toolName string, h Handler) {
	if err := r.Register(toolName, h); err != nil {
		panic(err)
	}
}

// Resolve looks up the handler for toolName. Returns ErrUnknownTool if absent.
func (r *Registry) Resolve(toolName string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[toolName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, toolName)
	}
	return h, nil
}

// IDs returns the registered tool names, sorted ascending.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
