package pipeline

// Func is the unit of work executed by the engine. Invoking it runs the
// plugin's setup phase against the shared context and returns a cursor for
// the remaining phases, or nil when the plugin finished in one step.
type Func[T any] func(ctx T) (Cursor[T], error)

// Plugin is an identifiable unit of work. The engine deduplicates
// activation by pointer identity, so the same *Plugin obtained directly and
// through a textual reference executes exactly once per Pipeline.
type Plugin[T any] struct {
	Name string
	Run  Func[T]
}

// NewPlugin returns a named plugin wrapping fn.
func NewPlugin[T any](name string, fn Func[T]) *Plugin[T] {
	return &Plugin[T]{Name: name, Run: fn}
}

// OneShot returns a plugin that never suspends: fn runs to completion on
// the first step.
func OneShot[T any](name string, fn func(ctx T) error) *Plugin[T] {
	return &Plugin[T]{
		Name: name,
		Run: func(ctx T) (Cursor[T], error) {
			return nil, fn(ctx)
		},
	}
}

// String returns the plugin name for error messages and logs.
func (p *Plugin[T]) String() string {
	if p == nil || p.Name == "" {
		return "<anonymous plugin>"
	}
	return p.Name
}
