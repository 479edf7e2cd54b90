package pipeline

// Task wraps one plugin invocation as a steppable unit of work. A task is
// Unstarted until its first Advance, Suspended while its cursor has phases
// left, and Finished once the cursor is exhausted. The engine never steps a
// Finished task again.
type Task[T any] struct {
	plugin  *Plugin[T]
	cursor  Cursor[T]
	started bool
}

// NewTask returns an unstarted task for plugin.
func NewTask[T any](plugin *Plugin[T]) *Task[T] {
	return &Task[T]{plugin: plugin}
}

// Plugin returns the plugin this task is stepping.
func (t *Task[T]) Plugin() *Plugin[T] { return t.plugin }

// Advance makes progress on the task by one step and reports whether more
// work remains.
//
// The first step invokes the plugin and keeps its cursor. A step with a
// non-nil injected error delivers it into the cursor when it implements
// Thrower, even on the first step; a cursor that cannot receive errors
// re-raises injected without being stepped.
//
// Any error escaping a step that does not carry the Bubble marker is
// wrapped as an ExecError identifying the plugin, with the original error
// as cause. Marked errors propagate unchanged.
func (t *Task[T]) Advance(ctx T, injected error) (bool, error) {
	if !t.started {
		t.started = true
		cursor, err := t.plugin.Run(ctx)
		if err != nil {
			return false, t.wrap(err)
		}
		t.cursor = cursor
		if t.cursor == nil {
			// Plugin ran to completion in one step.
			if injected != nil {
				return false, t.wrap(injected)
			}
			return false, nil
		}
		if injected == nil {
			return true, nil
		}
		// An error was already pending when the plugin first ran;
		// deliver it at the fresh suspension point.
		return t.deliver(ctx, injected)
	}

	if injected != nil {
		return t.deliver(ctx, injected)
	}
	more, err := t.cursor.Next(ctx)
	if err != nil {
		return false, t.wrap(err)
	}
	return more, nil
}

func (t *Task[T]) deliver(ctx T, injected error) (bool, error) {
	thrower, ok := t.cursor.(Thrower[T])
	if !ok {
		// The cursor cannot observe the error; re-raise without stepping.
		return false, t.wrap(injected)
	}
	more, err := thrower.Throw(ctx, injected)
	if err != nil {
		return false, t.wrap(err)
	}
	return more, nil
}

func (t *Task[T]) wrap(err error) error {
	if IsBubble(err) {
		return err
	}
	return &ExecError{Plugin: t.plugin, Err: err}
}
