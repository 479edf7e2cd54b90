// Package pipeline implements Conjure's plugin execution engine.
//
// A plugin is a unit of work invoked with a shared context. Plugins run in
// the order they are required, may suspend partway through to let the
// plugins they triggered run, and are resumed in reverse order of
// suspension once the rest of the pipeline has drained. This mirrors nested
// enter/exit semantics: a plugin that requires other plugins mid-execution
// finishes its own teardown only after everything it triggered completed.
//
// The engine is strictly single-threaded and cooperative. Suspension is a
// plugin returning a Cursor from its invocation; there is no preemption and
// no goroutine per plugin. A Pipeline must not be shared between goroutines.
//
// Errors raised by a suspended plugin are delivered into the next plugin to
// be resumed, giving its teardown a chance to absorb or transform them
// before they reach the caller of Run.
package pipeline
