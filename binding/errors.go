package binding

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNoConstructor means no registered constructor had every parameter resolved.
	ErrNoConstructor = errors.New("no constructor could be satisfied")
	// ErrUnresolved means a handler parameter had no value source.
	ErrUnresolved = errors.New("no value source")
)

// BindingError reports a failure to bind a model, parameter or member.
type BindingError struct {
	Type reflect.Type
	Name string
	Err  error
}

func (e *BindingError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("binding %v: %s: %v", e.Type, e.Name, e.Err)
	}
	return fmt.Sprintf("binding %v: %v", e.Type, e.Err)
}

func (e *BindingError) Unwrap() error { return e.Err }
