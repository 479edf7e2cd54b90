package pipeline_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/conjurekit/conjure/pkg/pipeline"
)

// scratch is the shared context used by the tests: an append-only trace of
// plugin phases plus a hook for transitive activation.
type scratch struct {
	trace   []string
	require func(specs ...any) error
}

func (s *scratch) add(entry string) {
	s.trace = append(s.trace, entry)
}

// phased returns a plugin that records "<name>.A", suspends, then records
// "<name>.B" on resumption, re-raising any downstream error.
func phased(name string) *pipeline.Plugin[*scratch] {
	return pipeline.NewPlugin(name, func(ctx *scratch) (pipeline.Cursor[*scratch], error) {
		ctx.add(name + ".A")
		return pipeline.Cleanup(func(ctx *scratch, downstream error) error {
			ctx.add(name + ".B")
			return downstream
		}), nil
	})
}

func TestRun_LIFOOrdering(t *testing.T) {
	ctx := &scratch{}
	engine := pipeline.New(ctx, nil, pipeline.Options{})

	if err := engine.Run(phased("P1"), phased("P2")); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := []string{"P1.A", "P2.A", "P2.B", "P1.B"}
	if !reflect.DeepEqual(ctx.trace, want) {
		t.Errorf("expected trace %v, got %v", want, ctx.trace)
	}
}

func TestRun_EndToEnd(t *testing.T) {
	ctx := &scratch{}
	engine := pipeline.New(ctx, nil, pipeline.Options{})

	a := pipeline.NewPlugin("a", func(ctx *scratch) (pipeline.Cursor[*scratch], error) {
		ctx.add("A-start")
		return pipeline.Steps(func(ctx *scratch) error {
			ctx.add("A-end")
			return nil
		}), nil
	})
	b := pipeline.OneShot("b", func(ctx *scratch) error {
		ctx.add("B")
		return nil
	})

	if err := engine.Run(a, b); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := []string{"A-start", "B", "A-end"}
	if !reflect.DeepEqual(ctx.trace, want) {
		t.Errorf("expected trace %v, got %v", want, ctx.trace)
	}
}

func TestRequire_IdempotentActivation(t *testing.T) {
	ctx := &scratch{}
	engine := pipeline.New(ctx, nil, pipeline.Options{})

	count := 0
	p := pipeline.OneShot("counted", func(ctx *scratch) error {
		count++
		return nil
	})

	if err := engine.Require(p, p); err != nil {
		t.Fatalf("require failed: %v", err)
	}
	if err := engine.Require(p); err != nil {
		t.Fatalf("repeated require failed: %v", err)
	}

	if count != 1 {
		t.Errorf("expected plugin to execute once, executed %d times", count)
	}
}

func TestRequire_DedupAcrossTextualReference(t *testing.T) {
	ctx := &scratch{}

	count := 0
	p := pipeline.OneShot("counted", func(ctx *scratch) error {
		count++
		return nil
	})
	lookup := func(ref, defaultMember string, allowlist []string) (*pipeline.Plugin[*scratch], error) {
		if ref == "tools/counted" {
			return p, nil
		}
		return nil, fmt.Errorf("unknown module %q", ref)
	}

	engine := pipeline.New(ctx, lookup, pipeline.Options{})

	if err := engine.Require(p, "tools/counted"); err != nil {
		t.Fatalf("require failed: %v", err)
	}

	if count != 1 {
		t.Errorf("expected plugin to execute once, executed %d times", count)
	}
}

func TestRequire_TransitiveActivation(t *testing.T) {
	ctx := &scratch{}
	engine := pipeline.New(ctx, nil, pipeline.Options{})
	ctx.require = engine.Require

	inner := phased("inner")
	outer := pipeline.NewPlugin("outer", func(ctx *scratch) (pipeline.Cursor[*scratch], error) {
		ctx.add("outer.A")
		if err := ctx.require(inner); err != nil {
			return nil, err
		}
		return pipeline.Cleanup(func(ctx *scratch, downstream error) error {
			ctx.add("outer.B")
			return downstream
		}), nil
	})

	// inner is also requested at top level; the transitive activation
	// already covered it.
	if err := engine.Run(outer, inner); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := []string{"outer.A", "inner.A", "outer.B", "inner.B"}
	if !reflect.DeepEqual(ctx.trace, want) {
		t.Errorf("expected trace %v, got %v", want, ctx.trace)
	}
}

func TestRun_ErrorInjectedIntoSuspendedPlugin(t *testing.T) {
	ctx := &scratch{}
	engine := pipeline.New(ctx, nil, pipeline.Options{})

	boom := errors.New("boom")
	var seen error

	p1 := pipeline.NewPlugin("p1", func(ctx *scratch) (pipeline.Cursor[*scratch], error) {
		return pipeline.Cleanup(func(ctx *scratch, downstream error) error {
			seen = downstream
			return downstream
		}), nil
	})
	p2 := pipeline.NewPlugin("p2", func(ctx *scratch) (pipeline.Cursor[*scratch], error) {
		return pipeline.Steps(func(ctx *scratch) error {
			return boom
		}), nil
	})

	err := engine.Run(p1, p2)
	if err == nil {
		t.Fatal("expected run to fail")
	}

	var execErr *pipeline.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecError, got %T: %v", err, err)
	}
	if execErr.Plugin.(*pipeline.Plugin[*scratch]) != p2 {
		t.Errorf("expected error to identify p2, got %v", execErr.Plugin)
	}
	if !errors.Is(err, boom) {
		t.Error("expected original cause to be preserved")
	}
	if seen != err {
		t.Errorf("expected p1 teardown to receive the pending error, got %v", seen)
	}
}

func TestRun_SuspendedPluginAbsorbsError(t *testing.T) {
	ctx := &scratch{}
	engine := pipeline.New(ctx, nil, pipeline.Options{})

	guard := pipeline.NewPlugin("guard", func(ctx *scratch) (pipeline.Cursor[*scratch], error) {
		return pipeline.Cleanup(func(ctx *scratch, downstream error) error {
			return nil // absorb
		}), nil
	})
	failing := pipeline.OneShot("failing", func(ctx *scratch) error {
		return errors.New("boom")
	})

	// guard suspends before failing runs, so it is resumed with the
	// pending error and absorbs it.
	if err := engine.Run(guard, failing); err != nil {
		t.Errorf("expected absorbed error, got %v", err)
	}
}

func TestRun_BubbleErrorPassesThroughUnwrapped(t *testing.T) {
	ctx := &scratch{}
	engine := pipeline.New(ctx, nil, pipeline.Options{})

	cause := errors.New("bad user config")
	p := pipeline.OneShot("strict", func(ctx *scratch) error {
		return pipeline.Bubble(cause)
	})

	err := engine.Run(p)
	if !errors.Is(err, cause) {
		t.Fatalf("expected bubbled cause, got %v", err)
	}

	var execErr *pipeline.ExecError
	if errors.As(err, &execErr) {
		t.Error("bubbled error must not be wrapped as ExecError")
	}
}

func TestRun_BubbleErrorDeliveredIntoTeardown(t *testing.T) {
	ctx := &scratch{}
	engine := pipeline.New(ctx, nil, pipeline.Options{})

	cause := errors.New("bad user config")
	var seen error

	watcher := pipeline.NewPlugin("watcher", func(ctx *scratch) (pipeline.Cursor[*scratch], error) {
		return pipeline.Cleanup(func(ctx *scratch, downstream error) error {
			seen = downstream
			return downstream
		}), nil
	})
	strict := pipeline.OneShot("strict", func(ctx *scratch) error {
		return pipeline.Bubble(cause)
	})

	err := engine.Run(watcher, strict)
	if !errors.Is(err, cause) {
		t.Fatalf("expected bubbled cause, got %v", err)
	}
	if !errors.Is(seen, cause) {
		t.Errorf("expected teardown to observe the bubbled error, got %v", seen)
	}
}

func TestRequire_NonGeneratorPluginLeavesNothingPending(t *testing.T) {
	ctx := &scratch{}
	engine := pipeline.New(ctx, nil, pipeline.Options{})

	p := pipeline.OneShot("oneshot", func(ctx *scratch) error { return nil })

	if err := engine.Require(p); err != nil {
		t.Fatalf("require failed: %v", err)
	}
	if engine.Pending() != 0 {
		t.Errorf("expected empty pending stack, got %d tasks", engine.Pending())
	}
}

func TestRequire_ResolutionFailureBeforeExecution(t *testing.T) {
	ctx := &scratch{}

	invoked := false
	lookup := func(ref, defaultMember string, allowlist []string) (*pipeline.Plugin[*scratch], error) {
		return nil, fmt.Errorf("unknown module %q", ref)
	}
	engine := pipeline.New(ctx, lookup, pipeline.Options{})

	err := engine.Require("bad/module:fn", pipeline.OneShot("after", func(ctx *scratch) error {
		invoked = true
		return nil
	}))

	var resolveErr *pipeline.ResolveError
	if !errors.As(err, &resolveErr) {
		t.Fatalf("expected ResolveError, got %T: %v", err, err)
	}
	if resolveErr.Spec != "bad/module:fn" {
		t.Errorf("expected spec to be preserved, got %v", resolveErr.Spec)
	}
	if invoked {
		t.Error("plugins after the failing spec must not run")
	}
}

func TestRequire_UnsupportedSpecType(t *testing.T) {
	ctx := &scratch{}
	engine := pipeline.New(ctx, nil, pipeline.Options{})

	var resolveErr *pipeline.ResolveError
	if err := engine.Require(42); !errors.As(err, &resolveErr) {
		t.Fatalf("expected ResolveError for unsupported spec, got %v", err)
	}
}

func TestRun_ActivationErrorDeliveredIntoSuspendedTasks(t *testing.T) {
	ctx := &scratch{}

	lookup := func(ref, defaultMember string, allowlist []string) (*pipeline.Plugin[*scratch], error) {
		return nil, fmt.Errorf("unknown module %q", ref)
	}
	engine := pipeline.New(ctx, lookup, pipeline.Options{})

	var seen error
	guard := pipeline.NewPlugin("guard", func(ctx *scratch) (pipeline.Cursor[*scratch], error) {
		return pipeline.Cleanup(func(ctx *scratch, downstream error) error {
			seen = downstream
			return downstream
		}), nil
	})

	err := engine.Run(guard, "bad/module")
	var resolveErr *pipeline.ResolveError
	if !errors.As(err, &resolveErr) {
		t.Fatalf("expected ResolveError, got %v", err)
	}
	if seen != err {
		t.Errorf("expected suspended plugin to observe the activation error, got %v", seen)
	}
}

func TestRun_StepsCursorCannotObserveErrors(t *testing.T) {
	ctx := &scratch{}
	engine := pipeline.New(ctx, nil, pipeline.Options{})

	resumed := false
	plain := pipeline.NewPlugin("plain", func(ctx *scratch) (pipeline.Cursor[*scratch], error) {
		return pipeline.Steps(
			func(ctx *scratch) error { resumed = true; return nil },
		), nil
	})
	failing := pipeline.OneShot("failing", func(ctx *scratch) error {
		return errors.New("boom")
	})

	err := engine.Run(plain, failing)
	if err == nil {
		t.Fatal("expected error to keep propagating past a Steps cursor")
	}
	if resumed {
		t.Error("a Steps cursor must not be stepped when an error is pending")
	}
}
