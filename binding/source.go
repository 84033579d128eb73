package binding

import (
	"reflect"

	"github.com/dzonerzy/go-cmdline/cmdline"
)

// ValueSource supplies a value for an explicitly bound slot.
type ValueSource interface {
	// Value returns the value and whether one was available.
	Value(bc *BindingContext) (any, bool)
}

// ValueSourceFunc adapts a function to ValueSource.
type ValueSourceFunc func(bc *BindingContext) (any, bool)

// Value calls f.
func (f ValueSourceFunc) Value(bc *BindingContext) (any, bool) { return f(bc) }

// FromOption reads the converted value of o, including a default or an
// environment value.
func FromOption(o *cmdline.Option) ValueSource {
	return ValueSourceFunc(func(bc *BindingContext) (any, bool) {
		if bc.parseResult == nil {
			return nil, false
		}
		or := bc.parseResult.FindResultForOption(o)
		if or == nil {
			return nil, false
		}
		c := or.ArgumentResult().GetArgumentConversionResult()
		return c.Value, c.IsSuccess()
	})
}

// FromArgument reads the converted value of a.
func FromArgument(a *cmdline.Argument) ValueSource {
	return ValueSourceFunc(func(bc *BindingContext) (any, bool) {
		if bc.parseResult == nil {
			return nil, false
		}
		ar := bc.parseResult.FindResultForArgument(a)
		if ar == nil {
			return nil, false
		}
		c := ar.GetArgumentConversionResult()
		return c.Value, c.IsSuccess()
	})
}

// FromValue always supplies v.
func FromValue(v any) ValueSource {
	return ValueSourceFunc(func(*BindingContext) (any, bool) { return v, true })
}

// FromFunc supplies whatever fn returns.
func FromFunc(fn func(bc *BindingContext) any) ValueSource {
	return ValueSourceFunc(func(bc *BindingContext) (any, bool) { return fn(bc), true })
}

// FromService supplies the service registered for T.
func FromService[T any]() ValueSource {
	return ValueSourceFunc(func(bc *BindingContext) (any, bool) {
		return bc.Service(reflect.TypeFor[T]())
	})
}
