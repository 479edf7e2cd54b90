// Package registry implements the plugin lookup collaborator: it maps
// module paths to named plugin members and resolves textual references of
// the form "path/to/module" or "path/to/module:member".
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/conjurekit/conjure/pkg/pipeline"
	"github.com/conjurekit/conjure/pkg/utils"
)

// Sentinel errors for lookup failures. These enable reliable error
// checking with errors.Is()
var (
	// ErrModuleNotFound indicates the referenced module path is not registered
	ErrModuleNotFound = errors.New("module not registered")

	// ErrMemberNotFound indicates the module has no member under that name
	ErrMemberNotFound = errors.New("member not registered")

	// ErrModuleNotAllowed indicates the module path is outside the allow-list
	ErrModuleNotAllowed = errors.New("module not in allow-list")
)

// Registry maps module paths to named plugin members. Safe for concurrent use.
type Registry[T any] struct {
	mu      sync.RWMutex
	modules map[string]map[string]*pipeline.Plugin[T]
}

// New returns an empty plugin registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{modules: make(map[string]map[string]*pipeline.Plugin[T])}
}

// Register adds plugin under the given module path and member name.
// Overwrites any existing registration.
func (r *Registry[T]) Register(path, member string, plugin *pipeline.Plugin[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.modules[path]
	if !ok {
		members = make(map[string]*pipeline.Plugin[T])
		r.modules[path] = members
	}
	members[member] = plugin
}

// Lookup resolves a textual plugin reference. It implements
// pipeline.LookupFunc: the reference is a module path with an optional
// ":member" suffix, defaultMember applies when the suffix is absent, and a
// non-empty allowlist restricts module paths by glob pattern.
func (r *Registry[T]) Lookup(ref, defaultMember string, allowlist []string) (*pipeline.Plugin[T], error) {
	path, member := SplitRef(ref, defaultMember)
	if path == "" {
		return nil, fmt.Errorf("empty module path in reference %q", ref)
	}

	if len(allowlist) > 0 {
		matcher, err := utils.NewPatternMatcher(allowlist)
		if err != nil {
			return nil, fmt.Errorf("invalid allow-list: %w", err)
		}
		if !matcher.Match(path) {
			return nil, fmt.Errorf("%q: %w", path, ErrModuleNotAllowed)
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.modules[path]
	if !ok {
		return nil, fmt.Errorf("%q: %w", path, ErrModuleNotFound)
	}
	plugin, ok := members[member]
	if !ok {
		return nil, fmt.Errorf("%q has no member %q: %w", path, member, ErrMemberNotFound)
	}
	return plugin, nil
}

// Refs returns all registered references as "path:member", sorted.
func (r *Registry[T]) Refs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var refs []string
	for path, members := range r.modules {
		for member := range members {
			refs = append(refs, path+":"+member)
		}
	}
	sort.Strings(refs)
	return refs
}

// SplitRef splits a textual reference into module path and member name,
// applying defaultMember when the reference has no ":member" part.
func SplitRef(ref, defaultMember string) (path, member string) {
	if idx := strings.LastIndex(ref, ":"); idx >= 0 {
		return ref[:idx], ref[idx+1:]
	}
	return ref, defaultMember
}
