package binding

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/dzonerzy/go-cmdline/cmdline"
)

// slot is a named, typed destination: a parameter or a member.
type slot struct {
	name  string
	typ   reflect.Type
	path  string
	depth int
}

// symbolMatch is the option or argument whose name matches a slot.
type symbolMatch struct {
	arg      *cmdline.Argument
	option   *cmdline.OptionResult
	argument *cmdline.ArgumentResult
}

// given returns the value typed on the command line or read from the
// environment.
func (m *symbolMatch) given() (any, bool) {
	switch {
	case m.option != nil:
		if m.option.IsImplicit() && !m.option.FromEnv() {
			return nil, false
		}
		return converted(m.option.ArgumentResult())
	case m.argument != nil && len(m.argument.Tokens()) > 0:
		return converted(m.argument)
	}
	return nil, false
}

// defaulted returns the symbol's default value.
func (m *symbolMatch) defaulted() (any, bool) {
	switch {
	case m.option != nil && m.option.IsImplicit() && !m.option.FromEnv():
		return converted(m.option.ArgumentResult())
	case m.argument != nil && len(m.argument.Tokens()) == 0:
		return converted(m.argument)
	}
	return nil, false
}

func converted(r *cmdline.ArgumentResult) (any, bool) {
	c := r.GetArgumentConversionResult()
	return c.Value, c.IsSuccess()
}

// findSymbol searches the innermost command and its ancestors for an
// option or argument matching name by declared name or alias.
func (bc *BindingContext) findSymbol(name string) *symbolMatch {
	if bc.parseResult == nil || name == "" {
		return nil
	}
	for cr := bc.parseResult.CommandResult(); cr != nil; cr = cr.ParentCommand() {
		cmd := cr.Command()
		for _, o := range cmd.Options() {
			if !namesMatch(o.Name(), name) && !hasAlias(o, name) {
				continue
			}
			return &symbolMatch{arg: o.Argument(), option: bc.parseResult.FindResultForOption(o)}
		}
		for _, a := range cmd.Arguments() {
			if namesMatch(a.Name(), name) {
				return &symbolMatch{arg: a, argument: cr.ArgumentResult(a)}
			}
		}
	}
	return nil
}

func hasAlias(o *cmdline.Option, name string) bool {
	for _, alias := range o.Aliases() {
		if namesMatch(alias, name) {
			return true
		}
	}
	return false
}

// bindSlot resolves s from, in order: services, tokens and environment
// values, the configuration file, default values and finally a nested model.
func (bc *BindingContext) bindSlot(s slot) (reflect.Value, bool, error) {
	if v, ok := bc.Service(s.typ); ok {
		return bc.bound(s, v, nil, "service")
	}
	m := bc.findSymbol(s.name)
	var arg *cmdline.Argument
	if m != nil {
		arg = m.arg
		if v, ok := m.given(); ok {
			return bc.bound(s, v, arg, "token")
		}
	}
	if v, ok := bc.config.Lookup(s.path); ok {
		return bc.bound(s, v, arg, "config")
	}
	if m != nil {
		if v, ok := m.defaulted(); ok {
			return bc.bound(s, v, arg, "default")
		}
	}
	if isModelType(s.typ) && s.depth < bc.maxDepth {
		rv, err := NewModelBinder(s.typ).create(bc, s.path+".", s.depth+1)
		if err != nil {
			return reflect.Value{}, false, err
		}
		return rv, true, nil
	}
	return reflect.Value{}, false, nil
}

func (bc *BindingContext) bound(s slot, v any, arg *cmdline.Argument, source string) (reflect.Value, bool, error) {
	rv, err := bc.convertTo(v, s.typ, arg)
	if err != nil {
		return reflect.Value{}, false, &BindingError{Type: s.typ, Name: s.name, Err: err}
	}
	bc.logger.Debug("bound slot",
		slog.String("name", s.name),
		slog.String("type", s.typ.String()),
		slog.String("source", source))
	return rv, true, nil
}

// convertTo converts v to typ. Strings convert the way a token for arg
// would, or with the registered converters when arg is nil; decoded lists
// convert element by element.
func (bc *BindingContext) convertTo(v any, typ reflect.Type, arg *cmdline.Argument) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(typ), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(typ) {
		out := reflect.New(typ).Elem()
		out.Set(rv)
		return out, nil
	}
	if s, ok := v.(string); ok {
		var (
			x   any
			err error
		)
		if arg != nil && arg.Strategy() != cmdline.StrategyCustom {
			x, err = bc.convert.ConvertArgumentValue(arg, s)
		} else {
			x, err = bc.convert.ConvertString(typ, s)
		}
		if err != nil {
			return reflect.Value{}, err
		}
		if _, still := x.(string); still && typ.Kind() != reflect.String {
			return reflect.Value{}, fmt.Errorf("cannot convert %q to %s", s, typ)
		}
		return bc.convertTo(x, typ, nil)
	}
	if typ.Kind() == reflect.Pointer {
		elem, err := bc.convertTo(v, typ.Elem(), arg)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}
	if convertible(rv.Type(), typ) {
		return rv.Convert(typ), nil
	}
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && typ.Kind() == reflect.Slice {
		out := reflect.MakeSlice(typ, 0, rv.Len())
		for i := range rv.Len() {
			ev, err := bc.convertTo(rv.Index(i).Interface(), typ.Elem(), arg)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out = reflect.Append(out, ev)
		}
		return out, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %T to %s", v, typ)
}

// convertible excludes reflect's integer to string conversion.
func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	return (from.Kind() == reflect.String) == (to.Kind() == reflect.String)
}

// resolveParameters binds every parameter. It returns the name of the
// first parameter without a source when binding is not possible.
func (bc *BindingContext) resolveParameters(params []*ParameterDescriptor, explicit map[string]ValueSource, depth int) ([]reflect.Value, string, error) {
	args := make([]reflect.Value, len(params))
	for i, p := range params {
		if src, ok := explicit[normalizeName(p.Name)]; ok && p.Name != "" {
			if v, found := src.Value(bc); found {
				rv, _, err := bc.bound(slot{name: p.Name, typ: p.Type}, v, nil, "explicit")
				if err != nil {
					return nil, "", err
				}
				args[i] = rv
				continue
			}
		}
		rv, found, err := bc.bindSlot(slot{name: p.Name, typ: p.Type, path: p.Name, depth: depth})
		if err != nil {
			return nil, "", err
		}
		switch {
		case found:
			args[i] = rv
		case p.HasDefault:
			if args[i], err = bc.convertTo(p.DefaultValue, p.Type, nil); err != nil {
				return nil, "", &BindingError{Type: p.Type, Name: p.Name, Err: err}
			}
		case p.AllowsNil():
			args[i] = reflect.Zero(p.Type)
		default:
			name := p.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, name, nil
		}
	}
	return args, "", nil
}
