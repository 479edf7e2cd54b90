package pipeline

import (
	"errors"
	"fmt"
)

// DefaultMember is the member name used when a textual plugin reference
// names only a module.
const DefaultMember = "plugin_default"

// LookupFunc resolves a textual plugin reference. The reference is a module
// path with an optional ":member" suffix; defaultMember applies when the
// suffix is absent. A non-empty allowlist restricts which module paths may
// be referenced.
type LookupFunc[T any] func(ref, defaultMember string, allowlist []string) (*Plugin[T], error)

// Options configures a Pipeline.
type Options struct {
	// DefaultMember overrides the member name used for textual references
	// without an explicit ":member" part. Empty means DefaultMember.
	DefaultMember string

	// Allowlist restricts which module paths textual references may name.
	// Nil or empty allows everything.
	Allowlist []string
}

// Pipeline executes plugins over one shared context. It owns the set of
// already-activated plugins and the stack of suspended tasks awaiting
// resumption. A Pipeline is single-threaded: calling Require or Run from
// multiple goroutines is a caller error.
type Pipeline[T any] struct {
	ctx           T
	lookup        LookupFunc[T]
	defaultMember string
	allowlist     []string

	activated map[*Plugin[T]]struct{}
	pending   []*Task[T]
}

// New returns a pipeline over the shared context ctx. Textual plugin
// references are resolved through lookup; a nil lookup restricts specs to
// direct *Plugin values.
func New[T any](ctx T, lookup LookupFunc[T], opts Options) *Pipeline[T] {
	member := opts.DefaultMember
	if member == "" {
		member = DefaultMember
	}
	return &Pipeline[T]{
		ctx:           ctx,
		lookup:        lookup,
		defaultMember: member,
		allowlist:     opts.Allowlist,
		activated:     make(map[*Plugin[T]]struct{}),
	}
}

// Context returns the shared context. The engine never copies or replaces
// it; every plugin invocation sees this exact value.
func (p *Pipeline[T]) Context() T { return p.ctx }

// Pending returns the number of suspended tasks awaiting resumption.
func (p *Pipeline[T]) Pending() int { return len(p.pending) }

// Require activates each spec in argument order. A spec is either a
// *Plugin[T] or a textual reference string. Already-activated plugins are
// skipped; freshly activated plugins are stepped once, and pushed on the
// pending stack if they suspended.
//
// On error, plugins activated before the failure stay activated: partial
// activation is visible, not rolled back.
func (p *Pipeline[T]) Require(specs ...any) error {
	for _, spec := range specs {
		plugin, err := p.Resolve(spec)
		if err != nil {
			return err
		}
		if _, done := p.activated[plugin]; done {
			continue
		}
		p.activated[plugin] = struct{}{}

		task := NewTask(plugin)
		more, err := task.Advance(p.ctx, nil)
		if err != nil {
			return err
		}
		if more {
			p.pending = append(p.pending, task)
		}
	}
	return nil
}

// Resolve returns the plugin for spec. Direct *Plugin values are returned
// unchanged; strings are handed to the lookup collaborator. Lookup failures
// are wrapped as a ResolveError naming the original spec, except errors
// carrying the Bubble marker, which propagate unchanged.
func (p *Pipeline[T]) Resolve(spec any) (*Plugin[T], error) {
	switch ref := spec.(type) {
	case *Plugin[T]:
		return ref, nil
	case string:
		if p.lookup == nil {
			return nil, &ResolveError{Spec: spec, Err: errors.New("no lookup configured for textual references")}
		}
		plugin, err := p.lookup(ref, p.defaultMember, p.allowlist)
		if err != nil {
			if IsBubble(err) {
				return nil, err
			}
			return nil, &ResolveError{Spec: spec, Err: err}
		}
		return plugin, nil
	default:
		return nil, &ResolveError{Spec: spec, Err: fmt.Errorf("unsupported plugin reference type %T", spec)}
	}
}

// Run activates specs, then drains the pending stack to completion.
//
// Suspended tasks are resumed most-recently-suspended first. When a step
// fails, the error is not surfaced immediately: it is delivered into the
// next task popped from the stack, so each suspended plugin's teardown may
// absorb, replace, or re-raise it. An error still pending once the stack
// empties is returned to the caller; if every task absorbed it, Run returns
// nil.
func (p *Pipeline[T]) Run(specs ...any) error {
	pending := p.Require(specs...)

	for len(p.pending) > 0 {
		last := len(p.pending) - 1
		task := p.pending[last]
		p.pending = p.pending[:last]

		more, err := task.Advance(p.ctx, pending)
		pending = err
		if more {
			p.pending = append(p.pending, task)
		}
	}

	return pending
}
