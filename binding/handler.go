package binding

import (
	"context"
	"fmt"
	"reflect"

	"github.com/dzonerzy/go-cmdline/cmdline"
)

var intType = reflect.TypeFor[int]()

// Handler invokes a function whose parameters are bound by name for each
// invocation. The function may return nothing, an error, an exit code, or
// an exit code and an error.
type Handler struct {
	fn       reflect.Value
	params   []*ParameterDescriptor
	bindings map[string]ValueSource
	opts     []ContextOption
	code     bool
	err      bool
}

var _ cmdline.Handler = (*Handler)(nil)

// HandlerFunc wraps fn. paramNames name its parameters in order; parameters
// of service types such as context.Context need no name.
//
//	cmd.SetHandler(binding.HandlerFunc(func(ctx context.Context, jobs int, target string) error {
//		return build(ctx, target, jobs)
//	}, "", "jobs", "target"))
func HandlerFunc(fn any, paramNames ...string) *Handler {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		panic(fmt.Sprintf("binding: handler must be a function, got %T", fn))
	}
	t := v.Type()
	h := &Handler{fn: v, params: parametersOf(t, paramNames), bindings: make(map[string]ValueSource)}
	switch {
	case t.NumOut() == 0:
	case t.NumOut() == 1 && t.Out(0) == errorType:
		h.err = true
	case t.NumOut() == 1 && t.Out(0) == intType:
		h.code = true
	case t.NumOut() == 2 && t.Out(0) == intType && t.Out(1) == errorType:
		h.code, h.err = true, true
	default:
		panic(fmt.Sprintf("binding: handler %s must return nothing, error, int or (int, error)", t))
	}
	return h
}

// BindParameter binds the named parameter to src.
func (h *Handler) BindParameter(name string, src ValueSource) *Handler {
	h.bindings[normalizeName(name)] = src
	return h
}

// WithOptions sets the options of the binding context built per invocation.
func (h *Handler) WithOptions(opts ...ContextOption) *Handler {
	h.opts = append(h.opts, opts...)
	return h
}

// Invoke binds the parameters from ic and calls the function.
func (h *Handler) Invoke(ic *cmdline.InvocationContext) (int, error) {
	bc := FromInvocation(ic, h.opts...)
	if bc.configErr != nil {
		return ic.ExitCode, &BindingError{Type: h.fn.Type(), Err: bc.configErr}
	}
	args, missing, err := bc.resolveParameters(h.params, h.bindings, 0)
	if err != nil {
		return ic.ExitCode, err
	}
	if missing != "" {
		return ic.ExitCode, &BindingError{Type: h.fn.Type(), Name: missing, Err: ErrUnresolved}
	}
	out := h.fn.Call(args)
	code := ic.ExitCode
	if h.code {
		code = int(out[0].Int())
	}
	if h.err {
		if e := out[len(out)-1]; !e.IsNil() {
			return code, e.Interface().(error)
		}
	}
	return code, nil
}

// TypedHandler binds a T for each invocation and passes it to a function.
type TypedHandler[T any] struct {
	binder *ModelBinder
	fn     func(context.Context, T) error
	opts   []ContextOption
}

var _ cmdline.Handler = (*TypedHandler[struct{}])(nil)

// HandlerFor returns a handler binding T and calling fn with the
// invocation's context.
//
//	build.SetHandler(binding.HandlerFor(func(ctx context.Context, cfg BuildConfig) error {
//		return run(ctx, cfg)
//	}))
func HandlerFor[T any](fn func(context.Context, T) error, opts ...ContextOption) *TypedHandler[T] {
	return &TypedHandler[T]{binder: NewModelBinderFor[T](), fn: fn, opts: opts}
}

// Binder returns the model binder, for registering constructors and
// explicit bindings.
func (h *TypedHandler[T]) Binder() *ModelBinder { return h.binder }

// Invoke binds T from ic and calls the function.
func (h *TypedHandler[T]) Invoke(ic *cmdline.InvocationContext) (int, error) {
	v, err := h.binder.CreateInstance(FromInvocation(ic, h.opts...))
	if err != nil {
		return ic.ExitCode, err
	}
	model, _ := v.(T)
	return ic.ExitCode, h.fn(ic.Context(), model)
}
