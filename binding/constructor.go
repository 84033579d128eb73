package binding

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// Constructor is a factory function whose parameters are bound by name.
// The function returns T or (T, error).
type Constructor struct {
	fn         reflect.Value
	result     reflect.Type
	params     []*ParameterDescriptor
	returnsErr bool
}

// NewConstructor wraps fn. paramNames name the parameters in order; an
// unnamed parameter binds only from services, its default or a nested model.
//
//	binding.NewConstructor(func(jobs int, target string) *Build {
//		return &Build{Jobs: jobs, Target: target}
//	}, "jobs", "target")
func NewConstructor(fn any, paramNames ...string) *Constructor {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		panic(fmt.Sprintf("binding: constructor must be a function, got %T", fn))
	}
	t := v.Type()
	c := &Constructor{fn: v, params: parametersOf(t, paramNames)}
	switch {
	case t.NumOut() == 1 && t.Out(0) != errorType:
	case t.NumOut() == 2 && t.Out(1) == errorType:
		c.returnsErr = true
	default:
		panic(fmt.Sprintf("binding: constructor %s must return T or (T, error)", t))
	}
	c.result = t.Out(0)
	return c
}

func parametersOf(t reflect.Type, names []string) []*ParameterDescriptor {
	if t.IsVariadic() {
		panic(fmt.Sprintf("binding: variadic function %s cannot be bound", t))
	}
	if len(names) > t.NumIn() {
		panic(fmt.Sprintf("binding: %d names given for %d parameters of %s", len(names), t.NumIn(), t))
	}
	params := make([]*ParameterDescriptor, t.NumIn())
	for i := range params {
		params[i] = &ParameterDescriptor{Type: t.In(i)}
		if i < len(names) {
			params[i].Name = names[i]
		}
	}
	return params
}

// WithDefault sets the value used when the named parameter has no source.
func (c *Constructor) WithDefault(name string, value any) *Constructor {
	for _, p := range c.params {
		if p.Name == name {
			p.HasDefault = true
			p.DefaultValue = value
			return c
		}
	}
	panic(fmt.Sprintf("binding: constructor has no parameter %q", name))
}

// Parameters returns the parameter descriptors in order.
func (c *Constructor) Parameters() []*ParameterDescriptor { return c.params }

// ResultType returns the constructed type.
func (c *Constructor) ResultType() reflect.Type { return c.result }

func (c *Constructor) call(args []reflect.Value) (reflect.Value, error) {
	out := c.fn.Call(args)
	if c.returnsErr && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}
	return out[0], nil
}
