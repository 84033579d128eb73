package cmdline

import (
	"context"
	"maps"
	"reflect"
	"sync"

	"github.com/dzonerzy/go-cmdline/console"
)

// InvocationContext is shared by every middleware and the handler of a
// single invocation.
type InvocationContext struct {
	// ExitCode is the code the invocation ends with unless a handler or
	// middleware returns another one.
	ExitCode int

	parseResult  *ParseResult
	console      *console.Console
	helpRenderer HelpRenderer

	base       context.Context
	ctx        context.Context
	cancel     context.CancelFunc
	ctxOnce    sync.Once
	onCreate   []func(ctx context.Context, cancel context.CancelFunc) func()
	releases   []func()
	releasesMu sync.Mutex

	metadata map[string]any
	services map[reflect.Type]func(*InvocationContext) any
}

// NewInvocationContext creates a context for one invocation. base is the
// parent of the cancellation context handed to handlers; nil means
// context.Background.
func NewInvocationContext(base context.Context, result *ParseResult, con *console.Console) *InvocationContext {
	if base == nil {
		base = context.Background()
	}
	if con == nil {
		con = console.New()
	}
	return &InvocationContext{
		parseResult: result,
		console:     con,
		base:        base,
		metadata:    make(map[string]any),
		services:    make(map[reflect.Type]func(*InvocationContext) any),
	}
}

// ParseResult returns the parse being invoked.
func (c *InvocationContext) ParseResult() *ParseResult { return c.parseResult }

// SetParseResult replaces the parse result. Middleware that re-parses uses it.
func (c *InvocationContext) SetParseResult(r *ParseResult) { c.parseResult = r }

// Console returns the console handlers write to.
func (c *InvocationContext) Console() *console.Console { return c.console }

// HelpRenderer returns the renderer used for help output, or nil.
func (c *InvocationContext) HelpRenderer() HelpRenderer { return c.helpRenderer }

// SetHelpRenderer sets the renderer used for help output.
func (c *InvocationContext) SetHelpRenderer(r HelpRenderer) { c.helpRenderer = r }

// OnContextCreated registers fn to run when the cancellation context is
// first requested. The function it returns, if any, is released when the
// invocation ends. Hooks added after the context exists run immediately.
func (c *InvocationContext) OnContextCreated(fn func(ctx context.Context, cancel context.CancelFunc) func()) {
	if c.ctx != nil {
		if release := fn(c.ctx, c.cancel); release != nil {
			c.Defer(release)
		}
		return
	}
	c.onCreate = append(c.onCreate, fn)
}

// Context returns the cancellation context of the invocation. It is created
// on first call and shared afterwards.
func (c *InvocationContext) Context() context.Context {
	c.ctxOnce.Do(func() {
		c.ctx, c.cancel = context.WithCancel(c.base)
		c.Defer(c.cancel)
		for _, fn := range c.onCreate {
			if release := fn(c.ctx, c.cancel); release != nil {
				c.Defer(release)
			}
		}
		c.onCreate = nil
	})
	return c.ctx
}

// ContextCreated reports whether Context has been called.
func (c *InvocationContext) ContextCreated() bool { return c.ctx != nil }

// Defer registers fn to run when the invocation ends, in reverse order.
func (c *InvocationContext) Defer(fn func()) {
	c.releasesMu.Lock()
	c.releases = append(c.releases, fn)
	c.releasesMu.Unlock()
}

// Release runs the deferred functions. It is safe to call more than once.
func (c *InvocationContext) Release() {
	c.releasesMu.Lock()
	releases := c.releases
	c.releases = nil
	c.releasesMu.Unlock()
	for i := len(releases) - 1; i >= 0; i-- {
		releases[i]()
	}
}

// Fork returns a context for running the rest of an invocation on another
// goroutine. The fork shares the parse result, console and cancellation
// context of c and starts with copies of its metadata and services. Its exit
// code, metadata and deferred functions stay separate until Join.
func (c *InvocationContext) Fork() *InvocationContext {
	ctx := c.Context()
	f := &InvocationContext{
		ExitCode:     c.ExitCode,
		parseResult:  c.parseResult,
		console:      c.console,
		helpRenderer: c.helpRenderer,
		base:         c.base,
		ctx:          ctx,
		cancel:       c.cancel,
		metadata:     maps.Clone(c.metadata),
		services:     maps.Clone(c.services),
	}
	f.ctxOnce.Do(func() {})
	return f
}

// Join adopts the exit code, parse result and metadata of a finished fork
// and takes over its deferred functions. The fork must not be used after.
func (c *InvocationContext) Join(f *InvocationContext) {
	c.ExitCode = f.ExitCode
	c.parseResult = f.parseResult
	maps.Copy(c.metadata, f.metadata)

	f.releasesMu.Lock()
	releases := f.releases
	f.releases = nil
	f.releasesMu.Unlock()

	c.releasesMu.Lock()
	c.releases = append(c.releases, releases...)
	c.releasesMu.Unlock()
}

// Set stores a metadata value.
func (c *InvocationContext) Set(key string, value any) { c.metadata[key] = value }

// Get returns a metadata value.
func (c *InvocationContext) Get(key string) (any, bool) {
	v, ok := c.metadata[key]
	return v, ok
}

// AddService registers a factory for values of typ. Handlers and the model
// binder resolve services by type.
func (c *InvocationContext) AddService(typ reflect.Type, factory func(*InvocationContext) any) {
	c.services[typ] = factory
}

// Service returns the service registered for typ. The context itself, its
// parse result, console and cancellation context are always available.
func (c *InvocationContext) Service(typ reflect.Type) (any, bool) {
	if f, ok := c.services[typ]; ok {
		return f(c), true
	}
	switch typ {
	case reflect.TypeFor[*InvocationContext]():
		return c, true
	case reflect.TypeFor[*ParseResult]():
		return c.parseResult, true
	case reflect.TypeFor[*console.Console]():
		return c.console, true
	case reflect.TypeFor[context.Context]():
		return c.Context(), true
	}
	return nil, false
}

// AddService registers a typed service factory on c.
func AddService[T any](c *InvocationContext, factory func(*InvocationContext) T) {
	c.AddService(reflect.TypeFor[T](), func(ic *InvocationContext) any { return factory(ic) })
}

// GetService returns the service of type T.
func GetService[T any](c *InvocationContext) (T, bool) {
	v, ok := c.Service(reflect.TypeFor[T]())
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
