// Package project defines the execution context handed to every plugin.
// A Context carries the project root, a scoped logger, and a shared
// metadata map that plugins use to pass results to one another.
package project

import (
	"fmt"
	"sync"

	"github.com/conjurekit/conjure/pkg/logger"
)

// RequireFunc activates additional plugins from inside a running plugin.
type RequireFunc func(specs ...any) error

// Context is the shared state for one pipeline run
type Context struct {
	Root string
	Log  logger.Logger

	mu      sync.RWMutex
	meta    map[string]any
	require RequireFunc
}

// NewContext creates a context rooted at the given project directory
func NewContext(root string, log logger.Logger) *Context {
	return &Context{
		Root: root,
		Log:  log,
		meta: make(map[string]any),
	}
}

// BindRequire installs the activation hook. The engine binds itself here
// so plugins can pull in further plugins mid-run.
func (c *Context) BindRequire(fn RequireFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.require = fn
}

// Require activates the given plugins through the bound engine
func (c *Context) Require(specs ...any) error {
	c.mu.RLock()
	fn := c.require
	c.mu.RUnlock()

	if fn == nil {
		return fmt.Errorf("no pipeline bound to this context")
	}
	return fn(specs...)
}

// Set stores a metadata value
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta[key] = value
}

// Value retrieves a metadata value
func (c *Context) Value(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.meta[key]
	return v, ok
}

// Meta returns a copy of the metadata map
func (c *Context) Meta() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]any, len(c.meta))
	for k, v := range c.meta {
		out[k] = v
	}
	return out
}
