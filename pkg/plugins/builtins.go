// Package plugins ships the built-in plugins registered under the
// conjure/plugins/ namespace.
package plugins

import (
	"fmt"
	"time"

	"github.com/conjurekit/conjure/pkg/logger"
	"github.com/conjurekit/conjure/pkg/pipeline"
	"github.com/conjurekit/conjure/pkg/project"
	"github.com/conjurekit/conjure/pkg/registry"
)

// Metadata keys written by the built-in plugins
const (
	MetaElapsed   = "timing.elapsed"
	MetaRecovered = "recovery.error"
	MetaStartedAt = "stamp.startedAt"
)

// Timing measures how long the rest of the pipeline takes. It suspends
// immediately and logs the elapsed time during teardown, after every
// plugin activated below it has finished.
func Timing() *pipeline.Plugin[*project.Context] {
	return pipeline.NewPlugin("timing", func(ctx *project.Context) (pipeline.Cursor[*project.Context], error) {
		start := time.Now()

		return pipeline.Cleanup(func(ctx *project.Context, downstream error) error {
			elapsed := time.Since(start)
			ctx.Set(MetaElapsed, elapsed)
			ctx.Log.WithPlugin("timing").Info("Pipeline finished",
				logger.WithField("elapsed", elapsed.Round(time.Millisecond)))
			return downstream
		}), nil
	})
}

// Recovery absorbs errors raised by plugins activated after it. The
// error is logged and stored in context metadata instead of failing
// the run. Escaped errors pass through untouched.
func Recovery() *pipeline.Plugin[*project.Context] {
	return pipeline.NewPlugin("recovery", func(ctx *project.Context) (pipeline.Cursor[*project.Context], error) {
		return pipeline.Cleanup(func(ctx *project.Context, downstream error) error {
			if downstream == nil {
				return nil
			}
			if pipeline.IsBubble(downstream) {
				return downstream
			}
			ctx.Set(MetaRecovered, downstream.Error())
			ctx.Log.WithPlugin("recovery").Warn("Recovered from plugin failure",
				logger.WithField("error", downstream))
			return nil
		}), nil
	})
}

// Stamp records the run start time in context metadata
func Stamp() *pipeline.Plugin[*project.Context] {
	return pipeline.OneShot("stamp", func(ctx *project.Context) error {
		ctx.Set(MetaStartedAt, time.Now().UTC())
		return nil
	})
}

// Banner prints a short activation message, mostly useful for smoke
// testing a fresh project.
func Banner() *pipeline.Plugin[*project.Context] {
	return pipeline.OneShot("banner", func(ctx *project.Context) error {
		ctx.Log.Info(fmt.Sprintf("Conjure running in %s", ctx.Root))
		return nil
	})
}

// RegisterBuiltins registers every built-in plugin under its module path
func RegisterBuiltins(r *registry.Registry[*project.Context]) {
	r.Register("conjure/plugins/timing", pipeline.DefaultMember, Timing())
	r.Register("conjure/plugins/recovery", pipeline.DefaultMember, Recovery())
	r.Register("conjure/plugins/stamp", pipeline.DefaultMember, Stamp())
	r.Register("conjure/plugins/banner", pipeline.DefaultMember, Banner())
}
