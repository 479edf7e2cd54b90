package pipeline

import (
	"errors"
	"fmt"
)

// Bubbler tags errors that must never be wrapped by the engine: they
// propagate verbatim through every layer, including into suspended plugins.
// Used for user-facing errors that must not be misreported as plugin bugs.
type Bubbler interface {
	Bubble()
}

// Bubble marks err so the engine propagates it unwrapped. A nil or
// already-marked error is returned unchanged.
func Bubble(err error) error {
	if err == nil || IsBubble(err) {
		return err
	}
	return &bubbled{err: err}
}

// IsBubble reports whether err carries the escape-hatch marker anywhere in
// its chain.
func IsBubble(err error) bool {
	var b Bubbler
	return errors.As(err, &b)
}

type bubbled struct {
	err error
}

func (b *bubbled) Error() string { return b.err.Error() }
func (b *bubbled) Unwrap() error { return b.err }
func (b *bubbled) Bubble()       {}

// ExecError reports that a plugin's execution raised an error. It is
// created exactly once, at the step where the plugin failed, and then
// propagates unchanged.
type ExecError struct {
	// Plugin is the *Plugin value that failed.
	Plugin fmt.Stringer
	Err    error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("plugin %s failed: %v", e.Plugin, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Bubble marks ExecError as wrapped-exactly-once: subsequent layers
// propagate it verbatim.
func (e *ExecError) Bubble() {}

// ResolveError reports that a plugin reference could not be resolved to a
// plugin. The failing spec is preserved alongside the underlying cause.
type ResolveError struct {
	Spec any
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("cannot resolve plugin %v: %v", e.Spec, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Bubble marks ResolveError as wrapped-exactly-once.
func (e *ResolveError) Bubble() {}
