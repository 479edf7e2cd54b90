package pipeline

// Cursor is the lazily stepped remainder of a plugin invocation: a sequence
// of resumption phases the engine advances one at a time. A Cursor holds at
// least one phase; plugins with no remaining work return a nil cursor
// instead.
//
// Next runs the next phase and reports whether further phases remain. The
// engine never calls Next again once it returned false or an error.
type Cursor[T any] interface {
	Next(ctx T) (more bool, err error)
}

// Thrower is implemented by cursors that can receive an error raised
// elsewhere in the pipeline at their current suspension point. Throw takes
// the place of Next for that step: the cursor may absorb the error by
// returning nil, replace it, or return it unchanged to keep it propagating.
//
// Cursors that do not implement Thrower never observe downstream errors;
// an injected error skips their remaining phases.
type Thrower[T any] interface {
	Throw(ctx T, injected error) (more bool, err error)
}

// Steps returns a cursor that runs each fn at successive resumption points.
// It does not implement Thrower. Returns nil when fns is empty.
func Steps[T any](fns ...func(ctx T) error) Cursor[T] {
	if len(fns) == 0 {
		return nil
	}
	return &stepCursor[T]{fns: fns}
}

type stepCursor[T any] struct {
	fns  []func(ctx T) error
	next int
}

func (c *stepCursor[T]) Next(ctx T) (bool, error) {
	fn := c.fns[c.next]
	c.next++
	if err := fn(ctx); err != nil {
		return false, err
	}
	return c.next < len(c.fns), nil
}

// Cleanup returns a single-phase cursor whose fn runs when the plugin is
// resumed during teardown. fn receives the error injected at the suspension
// point, or nil on normal resumption. Returning nil absorbs an injected
// error; returning an error (the same or a new one) keeps it propagating.
func Cleanup[T any](fn func(ctx T, downstream error) error) Cursor[T] {
	return &cleanupCursor[T]{fn: fn}
}

type cleanupCursor[T any] struct {
	fn func(ctx T, downstream error) error
}

func (c *cleanupCursor[T]) Next(ctx T) (bool, error) {
	return false, c.fn(ctx, nil)
}

func (c *cleanupCursor[T]) Throw(ctx T, injected error) (bool, error) {
	return false, c.fn(ctx, injected)
}

// Phases returns a cursor like Steps whose phases additionally observe
// downstream errors: each fn receives the error injected at its suspension
// point, or nil on normal resumption. Returns nil when fns is empty.
func Phases[T any](fns ...func(ctx T, downstream error) error) Cursor[T] {
	if len(fns) == 0 {
		return nil
	}
	return &phaseCursor[T]{fns: fns}
}

type phaseCursor[T any] struct {
	fns  []func(ctx T, downstream error) error
	next int
}

func (c *phaseCursor[T]) Next(ctx T) (bool, error) {
	return c.step(ctx, nil)
}

func (c *phaseCursor[T]) Throw(ctx T, injected error) (bool, error) {
	return c.step(ctx, injected)
}

func (c *phaseCursor[T]) step(ctx T, downstream error) (bool, error) {
	fn := c.fns[c.next]
	c.next++
	if err := fn(ctx, downstream); err != nil {
		return false, err
	}
	return c.next < len(c.fns), nil
}
