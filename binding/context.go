package binding

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"reflect"

	"github.com/dzonerzy/go-cmdline/cmdline"
)

// BindingContext carries the value sources available while binding one
// invocation: the parse result, registered services and an optional
// configuration file.
type BindingContext struct {
	parseResult *cmdline.ParseResult
	invocation  *cmdline.InvocationContext
	convert     *cmdline.Configuration
	services    map[reflect.Type]func(*BindingContext) any
	config      *ConfigSource
	configErr   error
	logger      *slog.Logger
	maxDepth    int
}

// ContextOption configures a BindingContext.
type ContextOption func(*BindingContext)

// WithLogger sets the logger receiving debug records for each bound slot.
func WithLogger(l *slog.Logger) ContextOption {
	return func(bc *BindingContext) {
		if l != nil {
			bc.logger = l
		}
	}
}

// WithConfig adds a configuration source below tokens and environment
// variables and above default values.
func WithConfig(src *ConfigSource) ContextOption {
	return func(bc *BindingContext) { bc.config = src }
}

// WithConfigFile loads path as a configuration source. A missing file is
// ignored; any other load failure is reported by the first bind.
func WithConfigFile(path string) ContextOption {
	return func(bc *BindingContext) {
		src, err := LoadConfigFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			bc.configErr = err
		default:
			bc.config = src
		}
	}
}

// WithMaxDepth limits how deep nested structs are bound. Default 4.
func WithMaxDepth(depth int) ContextOption {
	return func(bc *BindingContext) { bc.maxDepth = depth }
}

// WithService registers factory for values of typ.
func WithService(typ reflect.Type, factory func(*BindingContext) any) ContextOption {
	return func(bc *BindingContext) { bc.services[typ] = factory }
}

// NewBindingContext returns a context binding from result. result may be
// nil when only services and configuration are wanted.
func NewBindingContext(result *cmdline.ParseResult, opts ...ContextOption) *BindingContext {
	bc := &BindingContext{
		parseResult: result,
		services:    make(map[reflect.Type]func(*BindingContext) any),
		logger:      slog.New(slog.DiscardHandler),
		maxDepth:    4,
	}
	if result != nil && result.Parser() != nil {
		bc.convert = result.Parser().Configuration()
	} else {
		bc.convert = cmdline.NewConfiguration(nil)
	}
	for _, opt := range opts {
		opt(bc)
	}
	return bc
}

// FromInvocation returns a context for the parse result and services of ic.
func FromInvocation(ic *cmdline.InvocationContext, opts ...ContextOption) *BindingContext {
	bc := NewBindingContext(ic.ParseResult(), opts...)
	bc.invocation = ic
	return bc
}

// ParseResult returns the parse result being bound, possibly nil.
func (bc *BindingContext) ParseResult() *cmdline.ParseResult { return bc.parseResult }

// InvocationContext returns the invocation, or nil outside the pipeline.
func (bc *BindingContext) InvocationContext() *cmdline.InvocationContext { return bc.invocation }

// Config returns the configuration source, or nil.
func (bc *BindingContext) Config() *ConfigSource { return bc.config }

// Logger returns the debug logger.
func (bc *BindingContext) Logger() *slog.Logger { return bc.logger }

// AddService registers factory for values of typ.
func (bc *BindingContext) AddService(typ reflect.Type, factory func(*BindingContext) any) {
	bc.services[typ] = factory
}

// Service resolves a value of typ from the registered services, then the
// invocation's services, then the built-in ones.
func (bc *BindingContext) Service(typ reflect.Type) (any, bool) {
	if f, ok := bc.services[typ]; ok {
		return f(bc), true
	}
	if bc.invocation != nil {
		if v, ok := bc.invocation.Service(typ); ok {
			return v, true
		}
	}
	switch typ {
	case bindingContextType:
		return bc, true
	case parseResultType:
		if bc.parseResult != nil {
			return bc.parseResult, true
		}
	case contextType:
		return context.Background(), true
	}
	return nil, false
}

// AddService registers a typed service factory on bc.
func AddService[T any](bc *BindingContext, factory func(*BindingContext) T) {
	bc.AddService(reflect.TypeFor[T](), func(bc *BindingContext) any { return factory(bc) })
}

var (
	bindingContextType = reflect.TypeFor[*BindingContext]()
	parseResultType    = reflect.TypeFor[*cmdline.ParseResult]()
	contextType        = reflect.TypeFor[context.Context]()
)
