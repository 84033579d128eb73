package cmdline

import (
	"errors"
	"fmt"
	"reflect"
)

// ConversionResultKind tags an ArgumentConversionResult.
type ConversionResultKind int

const (
	// ConversionNone means no token and no default applied.
	ConversionNone ConversionResultKind = iota
	// ConversionSuccessful carries a converted value.
	ConversionSuccessful
	// ConversionFailed means a token could not be converted.
	ConversionFailed
	// ConversionMissing means fewer tokens than the minimum arity.
	ConversionMissing
	// ConversionTooMany means more tokens than the maximum arity.
	ConversionTooMany
)

func (k ConversionResultKind) String() string {
	switch k {
	case ConversionNone:
		return "None"
	case ConversionSuccessful:
		return "Successful"
	case ConversionFailed:
		return "Failed"
	case ConversionMissing:
		return "Missing"
	case ConversionTooMany:
		return "TooMany"
	}
	return "Unknown"
}

// ArgumentConversionResult is the outcome of converting an argument's tokens.
type ArgumentConversionResult struct {
	Kind         ConversionResultKind
	Argument     *Argument
	Value        any
	ErrorMessage string
}

// IsSuccess reports whether a value was produced.
func (r *ArgumentConversionResult) IsSuccess() bool { return r.Kind == ConversionSuccessful }

// IsError reports whether the conversion failed for any reason.
func (r *ArgumentConversionResult) IsError() bool {
	return r.Kind == ConversionFailed || r.Kind == ConversionMissing || r.Kind == ConversionTooMany
}

func successful(a *Argument, v any) ArgumentConversionResult {
	return ArgumentConversionResult{Kind: ConversionSuccessful, Argument: a, Value: v}
}

func failed(a *Argument, kind ConversionResultKind, msg string) ArgumentConversionResult {
	return ArgumentConversionResult{Kind: kind, Argument: a, ErrorMessage: msg}
}

// GetArgumentConversionResult converts the tokens on first call and returns
// the same result on every later call.
func (r *ArgumentResult) GetArgumentConversionResult() *ArgumentConversionResult {
	if r.conversion == nil {
		c := r.convert()
		r.conversion = &c
	}
	return r.conversion
}

func (r *ArgumentResult) convert() ArgumentConversionResult {
	arg := r.argument
	arity := arg.Arity()
	owner := r.owner()
	res := r.resources()
	n := len(r.tokens)
	useDefault := r.useDefaultValue()

	if n < arity.Min && !(useDefault && arg.HasDefault()) {
		return failed(arg, ConversionMissing, res.RequiredArgumentMissing(owner))
	}
	if n > arity.Max {
		if arity.Max == 1 {
			return failed(arg, ConversionTooMany, res.ExpectsOneArgument(owner, n))
		}
		return failed(arg, ConversionTooMany, res.ExpectsFewerArguments(owner, n, arity.Max))
	}

	if useDefault {
		if !arg.HasDefault() {
			return ArgumentConversionResult{Kind: ConversionNone, Argument: arg}
		}
		v, err := arg.DefaultValue()
		if err != nil {
			return failed(arg, ConversionFailed, err.Error())
		}
		return successful(arg, v)
	}

	switch arg.strategy {
	case StrategyCustom:
		v, err := arg.parse(r)
		if err != nil {
			return failed(arg, ConversionFailed, err.Error())
		}
		if r.errorMessage != "" {
			return failed(arg, ConversionFailed, r.errorMessage)
		}
		return successful(arg, v)
	case StrategyCollection:
		return r.convertCollection()
	}

	switch n {
	case 0:
		if arg.valueType.Kind() == reflect.Bool {
			return successful(arg, reflect.ValueOf(true).Convert(arg.valueType).Interface())
		}
		return ArgumentConversionResult{Kind: ConversionNone, Argument: arg}
	case 1:
		v, err := r.convertSingle(arg.valueType, r.tokens[0].Value)
		if err != nil {
			return failed(arg, ConversionFailed, r.cannotParse(r.tokens[0].Value, arg.valueType))
		}
		return successful(arg, v)
	}
	return failed(arg, ConversionTooMany, res.ExpectsOneArgument(owner, n))
}

func (r *ArgumentResult) convertCollection() ArgumentConversionResult {
	arg := r.argument
	typ := arg.valueType
	elem := typ.Elem()

	var out reflect.Value
	if typ.Kind() == reflect.Array {
		if len(r.tokens) > typ.Len() {
			return failed(arg, ConversionTooMany, r.resources().ExpectsFewerArguments(r.owner(), len(r.tokens), typ.Len()))
		}
		out = reflect.New(typ).Elem()
	} else {
		out = reflect.MakeSlice(typ, 0, len(r.tokens))
	}
	for i, tok := range r.tokens {
		v, err := r.convertSingle(elem, tok.Value)
		if err != nil {
			return failed(arg, ConversionFailed, r.cannotParse(tok.Value, elem))
		}
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			rv = reflect.Zero(elem)
		}
		if typ.Kind() == reflect.Array {
			out.Index(i).Set(rv)
		} else {
			out = reflect.Append(out, rv)
		}
	}
	return successful(arg, out.Interface())
}

// convertSingle converts one token to typ: enum names first for enum
// arguments, then the configured converters.
func (r *ArgumentResult) convertSingle(typ reflect.Type, value string) (any, error) {
	return r.rootResult.config.convertValue(r.argument, typ, value)
}

// ConvertArgumentValue converts value the way a single token for a is
// converted. Collection arguments yield their element type.
func (c *Configuration) ConvertArgumentValue(a *Argument, value string) (any, error) {
	typ := a.valueType
	if isCollectionType(typ) {
		typ = typ.Elem()
	}
	v, err := c.convertValue(a, typ, value)
	if err != nil && len(a.enumValues) > 0 {
		return nil, errors.New(c.resources.UnrecognizedArgument(value, a.AllowedValues()))
	}
	return v, err
}

func (c *Configuration) convertValue(a *Argument, typ reflect.Type, value string) (any, error) {
	if len(a.enumValues) > 0 {
		v, ok := a.enumLookup(value)
		if !ok {
			return nil, fmt.Errorf("unknown value %q", value)
		}
		return v, nil
	}
	v, err := c.ConvertString(typ, value)
	if err != nil {
		return nil, err
	}
	if v != nil {
		if rv := reflect.ValueOf(v); !rv.Type().AssignableTo(typ) {
			if !rv.Type().ConvertibleTo(typ) {
				return nil, fmt.Errorf("%T is not convertible to %s", v, typ)
			}
			v = rv.Convert(typ).Interface()
		}
	}
	return v, nil
}

// cannotParse builds the failure message, naming the owning option alias or
// command when there is one.
func (r *ArgumentResult) cannotParse(value string, typ reflect.Type) string {
	res := r.resources()
	if len(r.argument.enumValues) > 0 {
		return res.UnrecognizedArgument(value, r.argument.AllowedValues())
	}
	switch p := r.parent.(type) {
	case *OptionResult:
		return res.ArgumentConversionCannotParseForOption(value, p.token.Value, typ)
	case *CommandResult:
		return res.ArgumentConversionCannotParseForCommand(value, p.command.Name(), typ)
	}
	return res.ArgumentConversionCannotParse(value, typ)
}

// owner returns the option result owning the argument, or the argument
// result itself for command arguments.
func (r *ArgumentResult) owner() SymbolResult {
	if p, ok := r.parent.(*OptionResult); ok {
		return p
	}
	if p, ok := r.parent.(*CommandResult); ok {
		return p
	}
	return r
}
