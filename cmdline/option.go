package cmdline

import (
	"fmt"
	"reflect"
)

// Option is a named symbol carrying at most one argument.
type Option struct {
	identifier
	argument   *Argument
	required   bool
	envVars    []string
	validators []func(*OptionResult) error
}

func newOption(aliases []string) *Option {
	if len(aliases) == 0 {
		panic("cmdline: an option needs at least one alias")
	}
	o := &Option{}
	for _, a := range aliases {
		o.addAlias(a)
	}
	return o
}

// NewOption creates an option whose argument converts to T.
//
//	verbosity := cmdline.NewOption[string]("-v", "--verbose")
func NewOption[T any](aliases ...string) *Option {
	o := newOption(aliases)
	o.attach(newArgument(o.Name(), reflect.TypeFor[T]()))
	return o
}

// NewFlag creates a boolean option. Given bare it converts to true; it also
// accepts an explicit boolean token such as "--force false".
func NewFlag(aliases ...string) *Option {
	return NewOption[bool](aliases...)
}

// NewOptionWithArgument creates an option around an existing argument.
func NewOptionWithArgument(arg *Argument, aliases ...string) *Option {
	o := newOption(aliases)
	if arg == nil {
		arg = ArgumentNone()
	}
	o.attach(arg)
	return o
}

// NewEnumOption creates an option accepting one of values by name. Names are
// the fmt representation of each value and match case-insensitively.
func NewEnumOption[T comparable](values []T, aliases ...string) *Option {
	o := newOption(aliases)
	a := newArgument(o.Name(), reflect.TypeFor[T]())
	a.setEnumValues(enumValuesOf(values))
	o.attach(a)
	return o
}

// NewEnumSliceOption creates a repeatable option collecting values by name.
func NewEnumSliceOption[T comparable](values []T, aliases ...string) *Option {
	o := newOption(aliases)
	a := newArgument(o.Name(), reflect.TypeFor[[]T]())
	a.setEnumValues(enumValuesOf(values))
	o.attach(a)
	return o
}

func (o *Option) attach(a *Argument) {
	o.argument = a
	a.addParent(o)
}

// Argument returns the option's argument. It is never nil.
func (o *Option) Argument() *Argument { return o.argument }

// Children returns the option's argument.
func (o *Option) Children() []Symbol { return []Symbol{o.argument} }

// AddAlias adds an alias. It panics when the alias collides with a sibling.
func (o *Option) AddAlias(alias string) *Option {
	notifyAliasAdded(o, alias)
	o.addAlias(alias)
	if !o.argument.explicitName {
		o.argument.name = o.name
	}
	return o
}

// WithName overrides the name derived from the longest alias. The name is
// used for binding and diagnostics, never for matching tokens.
func (o *Option) WithName(name string) *Option {
	o.name = name
	o.explicitName = true
	if !o.argument.explicitName {
		o.argument.name = name
	}
	return o
}

// WithDescription sets the description shown in help.
func (o *Option) WithDescription(description string) *Option {
	o.description = description
	return o
}

// Required marks the option as mandatory.
func (o *Option) Required() *Option {
	o.required = true
	return o
}

// IsRequired reports whether the option is mandatory.
func (o *Option) IsRequired() bool { return o.required }

// Hidden hides the option from help and suggestions.
func (o *Option) Hidden() *Option {
	o.hidden = true
	return o
}

// Default sets the default value of the option's argument.
func (o *Option) Default(value any) *Option {
	o.argument.Default(value)
	return o
}

// DefaultFunc sets a factory producing the option's default value.
func (o *Option) DefaultFunc(fn func() (any, error)) *Option {
	o.argument.DefaultFunc(fn)
	return o
}

// WithArity overrides the arity of the option's argument.
func (o *Option) WithArity(arity Arity) *Option {
	o.argument.WithArity(arity)
	return o
}

// FromAmong restricts accepted tokens to values.
func (o *Option) FromAmong(values ...string) *Option {
	o.argument.FromAmong(values...)
	return o
}

// WithParser installs a custom converter on the option's argument.
func (o *Option) WithParser(fn func(*ArgumentResult) (any, error)) *Option {
	o.argument.WithParser(fn)
	return o
}

// ExistingOnly rejects values naming paths that do not exist.
func (o *Option) ExistingOnly() *Option {
	o.argument.ExistingOnly()
	return o
}

// MatchRegex rejects values that do not match pattern.
func (o *Option) MatchRegex(pattern string) *Option {
	o.argument.MatchRegex(pattern)
	return o
}

// FromEnv names environment variables consulted, in order, when the option
// is absent from the command line.
func (o *Option) FromEnv(vars ...string) *Option {
	o.envVars = append(o.envVars, vars...)
	return o
}

// EnvVars returns the environment variables bound to the option.
func (o *Option) EnvVars() []string { return o.envVars }

// AddValidator registers a validator run against the option's result.
func (o *Option) AddValidator(fn func(*OptionResult) error) *Option {
	o.validators = append(o.validators, fn)
	return o
}

// TakesValue reports whether the option consumes any argument tokens.
func (o *Option) TakesValue() bool { return o.argument.Arity().Max > 0 }

// requiresValue reports whether the option needs at least one token.
func (o *Option) requiresValue() bool { return o.argument.Arity().Min > 0 }

func (o *Option) String() string {
	return fmt.Sprintf("Option(%s)", o.longestAlias())
}
