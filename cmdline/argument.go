package cmdline

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
)

// MaxArity is the upper bound used for arguments accepting any number of tokens.
const MaxArity = 100_000

// Arity is the minimum and maximum number of tokens an argument consumes.
type Arity struct {
	Min int
	Max int
}

// Common arities.
var (
	ArityZero       = Arity{0, 0}
	ArityZeroOrOne  = Arity{0, 1}
	ArityExactlyOne = Arity{1, 1}
	ArityZeroOrMore = Arity{0, MaxArity}
	ArityOneOrMore  = Arity{1, MaxArity}
)

// NewArity validates and returns an arity.
func NewArity(minimum, maximum int) Arity {
	if minimum < 0 || maximum < minimum {
		panic(fmt.Sprintf("cmdline: invalid arity %d..%d", minimum, maximum))
	}
	return Arity{Min: minimum, Max: maximum}
}

func (a Arity) String() string {
	if a.Max >= MaxArity {
		return fmt.Sprintf("%d..*", a.Min)
	}
	return fmt.Sprintf("%d..%d", a.Min, a.Max)
}

// ConversionStrategy selects how an argument converts its tokens. It is fixed
// when the argument is built.
type ConversionStrategy int

const (
	// StrategyScalar converts a single token with the registered converters.
	StrategyScalar ConversionStrategy = iota
	// StrategyCustom hands the whole result to a user supplied parser.
	StrategyCustom
	// StrategyCollection converts every token into one slice element.
	StrategyCollection
	// StrategyEnum matches a single token against a fixed set of names.
	StrategyEnum
)

func (s ConversionStrategy) String() string {
	switch s {
	case StrategyScalar:
		return "scalar"
	case StrategyCustom:
		return "custom"
	case StrategyCollection:
		return "collection"
	case StrategyEnum:
		return "enum"
	}
	return "unknown"
}

type enumValue struct {
	name  string
	value any
}

// Argument is a typed value slot of a command or option.
type Argument struct {
	symbol
	explicitName bool

	valueType     reflect.Type
	arity         Arity
	arityExplicit bool

	defaultFactory func() (any, error)
	validators     []func(*ArgumentResult) error
	allowed        []string
	enumValues     []enumValue
	strategy       ConversionStrategy
	parse          func(*ArgumentResult) (any, error)
	none           bool
}

func newArgument(name string, typ reflect.Type) *Argument {
	a := &Argument{valueType: typ}
	a.name = name
	a.strategy = StrategyScalar
	if isCollectionType(typ) {
		a.strategy = StrategyCollection
	}
	return a
}

// NewArgument creates a positional argument converting to T.
func NewArgument[T any](name string) *Argument {
	a := newArgument(name, reflect.TypeFor[T]())
	a.explicitName = true
	return a
}

// NewEnumArgument creates a positional argument accepting one of values by name.
func NewEnumArgument[T comparable](name string, values []T) *Argument {
	a := NewArgument[T](name)
	a.setEnumValues(enumValuesOf(values))
	return a
}

// ArgumentNone returns an argument that accepts no tokens. An option carrying
// it converts to true when present.
func ArgumentNone() *Argument {
	a := newArgument("", reflect.TypeFor[bool]())
	a.arity = ArityZero
	a.arityExplicit = true
	a.none = true
	return a
}

func isCollectionType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	return (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) && t.Elem().Kind() != reflect.Uint8
}

func enumValuesOf[T comparable](values []T) []enumValue {
	out := make([]enumValue, 0, len(values))
	for _, v := range values {
		out = append(out, enumValue{name: fmt.Sprint(v), value: v})
	}
	return out
}

func (a *Argument) setEnumValues(values []enumValue) {
	a.enumValues = values
	if a.strategy != StrategyCollection {
		a.strategy = StrategyEnum
	}
}

// Children returns nil; arguments are leaves.
func (a *Argument) Children() []Symbol { return nil }

// ValueType returns the type produced by a successful conversion.
func (a *Argument) ValueType() reflect.Type { return a.valueType }

// Strategy returns the conversion strategy.
func (a *Argument) Strategy() ConversionStrategy { return a.strategy }

// IsNone reports whether this is an argument accepting nothing.
func (a *Argument) IsNone() bool { return a.none }

// WithName renames the argument.
func (a *Argument) WithName(name string) *Argument {
	a.name = name
	a.explicitName = true
	return a
}

// WithDescription sets the description shown in help.
func (a *Argument) WithDescription(description string) *Argument {
	a.description = description
	return a
}

// Hidden hides the argument from help.
func (a *Argument) Hidden() *Argument {
	a.hidden = true
	return a
}

// WithArity sets an explicit arity.
func (a *Argument) WithArity(arity Arity) *Argument {
	a.arity = NewArity(arity.Min, arity.Max)
	a.arityExplicit = true
	return a
}

// Arity returns the explicit arity, or the default derived from the value
// type and the first parent.
func (a *Argument) Arity() Arity {
	if a.arityExplicit {
		return a.arity
	}
	_, underCommand := a.firstParent().(*Command)
	switch {
	case isCollectionType(a.valueType):
		if underCommand {
			return ArityZeroOrMore
		}
		return ArityOneOrMore
	case a.valueType != nil && a.valueType.Kind() == reflect.Bool:
		return ArityZeroOrOne
	case underCommand && a.HasDefault():
		return ArityZeroOrOne
	}
	return ArityExactlyOne
}

// Default sets a fixed default value. It panics when value is not assignable
// to the argument's value type.
func (a *Argument) Default(value any) *Argument {
	if value != nil && a.valueType != nil {
		if vt := reflect.TypeOf(value); !vt.AssignableTo(a.valueType) && !vt.ConvertibleTo(a.valueType) {
			panic(fmt.Sprintf("cmdline: default %T is not assignable to %s", value, a.valueType))
		}
	}
	a.defaultFactory = func() (any, error) { return value, nil }
	return a
}

// DefaultFunc sets a factory invoked each time a default is needed.
func (a *Argument) DefaultFunc(fn func() (any, error)) *Argument {
	a.defaultFactory = fn
	return a
}

// HasDefault reports whether a default value is configured.
func (a *Argument) HasDefault() bool { return a.defaultFactory != nil }

// DefaultValue invokes the default factory. It returns nil without a factory.
func (a *Argument) DefaultValue() (any, error) {
	if a.defaultFactory == nil {
		return nil, nil
	}
	v, err := a.defaultFactory()
	if err != nil {
		return nil, err
	}
	if v != nil && a.valueType != nil {
		rv := reflect.ValueOf(v)
		if !rv.Type().AssignableTo(a.valueType) && rv.Type().ConvertibleTo(a.valueType) {
			v = rv.Convert(a.valueType).Interface()
		}
	}
	return v, nil
}

// WithParser installs a custom converter. It switches the argument to the
// custom conversion strategy.
func (a *Argument) WithParser(fn func(*ArgumentResult) (any, error)) *Argument {
	a.parse = fn
	a.strategy = StrategyCustom
	return a
}

// FromAmong restricts the accepted tokens to values.
func (a *Argument) FromAmong(values ...string) *Argument {
	for _, v := range values {
		if !slices.Contains(a.allowed, v) {
			a.allowed = append(a.allowed, v)
		}
	}
	return a
}

// AllowedValues returns the allow-list, or the enum names for enum arguments.
func (a *Argument) AllowedValues() []string {
	if len(a.allowed) > 0 {
		return a.allowed
	}
	names := make([]string, 0, len(a.enumValues))
	for _, ev := range a.enumValues {
		names = append(names, ev.name)
	}
	return names
}

// AddValidator registers a validator run before conversion.
func (a *Argument) AddValidator(fn func(*ArgumentResult) error) *Argument {
	a.validators = append(a.validators, fn)
	return a
}

// ExistingOnly rejects tokens naming paths that do not exist. File and
// Directory value types check the matching kind.
func (a *Argument) ExistingOnly() *Argument {
	elem := a.valueType
	if isCollectionType(elem) {
		elem = elem.Elem()
	}
	return a.AddValidator(func(r *ArgumentResult) error {
		res, stat := r.resources(), r.rootResult.config.stat
		for _, tok := range r.Tokens() {
			info, err := stat(tok.Value)
			switch {
			case elem == fileType && (err != nil || info.IsDir()):
				return errors.New(res.FileDoesNotExist(tok.Value))
			case elem == directoryType && (err != nil || !info.IsDir()):
				return errors.New(res.DirectoryDoesNotExist(tok.Value))
			case err != nil:
				return errors.New(res.FileOrDirectoryDoesNotExist(tok.Value))
			}
		}
		return nil
	})
}

// MatchRegex rejects tokens that do not match pattern.
func (a *Argument) MatchRegex(pattern string) *Argument {
	re := regexp.MustCompile(pattern)
	return a.AddValidator(func(r *ArgumentResult) error {
		for _, tok := range r.Tokens() {
			if !re.MatchString(tok.Value) {
				return fmt.Errorf("value %q does not match pattern %q", tok.Value, pattern)
			}
		}
		return nil
	})
}

// enumLookup resolves name against the enum values, ignoring case.
func (a *Argument) enumLookup(name string) (any, bool) {
	for _, ev := range a.enumValues {
		if ev.name == name {
			return ev.value, true
		}
	}
	for _, ev := range a.enumValues {
		if strings.EqualFold(ev.name, name) {
			return ev.value, true
		}
	}
	return nil, false
}

func (a *Argument) String() string {
	return fmt.Sprintf("Argument(%s %s)", a.name, a.valueType)
}
