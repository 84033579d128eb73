// Package binding creates typed values from a parse result: constructor
// parameters and struct members are bound by name to options and arguments,
// services, a configuration file and default values.
package binding

import (
	"fmt"
	"reflect"
	"slices"
)

// ModelBinder creates and fills instances of one type.
//
// Construction tries the registered constructors with the most parameters
// first and uses the first whose parameters all resolve. Struct types also
// have an implicit zero-value constructor. After construction every member
// that resolves is assigned; the others keep their constructed value.
type ModelBinder struct {
	typ          reflect.Type
	descriptor   *ModelDescriptor
	constructors []*Constructor
	parameters   map[string]ValueSource
	members      map[string]ValueSource
}

// NewModelBinder returns a binder for t.
func NewModelBinder(t reflect.Type) *ModelBinder {
	return &ModelBinder{
		typ:        t,
		descriptor: DescriptorFor(t),
		parameters: make(map[string]ValueSource),
		members:    make(map[string]ValueSource),
	}
}

// NewModelBinderFor returns a binder for T.
func NewModelBinderFor[T any]() *ModelBinder { return NewModelBinder(reflect.TypeFor[T]()) }

// Type returns the bound type.
func (b *ModelBinder) Type() reflect.Type { return b.typ }

// Descriptor returns the member descriptor of the bound type.
func (b *ModelBinder) Descriptor() *ModelDescriptor { return b.descriptor }

// AddConstructor registers c. It panics when c does not produce the bound type.
func (b *ModelBinder) AddConstructor(c *Constructor) *ModelBinder {
	if c.ResultType() != b.typ {
		panic(fmt.Sprintf("binding: constructor returns %s, binder is for %s", c.ResultType(), b.typ))
	}
	b.constructors = append(b.constructors, c)
	return b
}

// BindParameter binds the named constructor parameter to src. Explicit
// bindings take precedence over every other source.
func (b *ModelBinder) BindParameter(name string, src ValueSource) *ModelBinder {
	b.parameters[normalizeName(name)] = src
	return b
}

// BindMember binds the named member to src. It panics when the type has no
// such member.
func (b *ModelBinder) BindMember(name string, src ValueSource) *ModelBinder {
	if _, ok := b.descriptor.Member(name); !ok {
		panic(fmt.Sprintf("binding: %s has no member %q", b.typ, name))
	}
	b.members[normalizeName(name)] = src
	return b
}

// CreateInstance constructs a value of the bound type and fills its members.
func (b *ModelBinder) CreateInstance(bc *BindingContext) (any, error) {
	v, err := b.create(bc, "", 0)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// UpdateInstance fills the members of instance, a pointer to the bound
// struct type.
func (b *ModelBinder) UpdateInstance(instance any, bc *BindingContext) error {
	if bc.configErr != nil {
		return &BindingError{Type: b.typ, Err: bc.configErr}
	}
	rv := reflect.ValueOf(instance)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return &BindingError{Type: b.typ, Err: fmt.Errorf("target must be a non-nil pointer to struct, got %T", instance)}
	}
	return b.update(rv, bc, "", 0)
}

func (b *ModelBinder) create(bc *BindingContext, prefix string, depth int) (reflect.Value, error) {
	if bc.configErr != nil {
		return reflect.Value{}, &BindingError{Type: b.typ, Err: bc.configErr}
	}
	if v, ok := bc.Service(b.typ); ok {
		rv, _, err := bc.bound(slot{name: b.typ.String(), typ: b.typ}, v, nil, "service")
		return rv, err
	}
	inst, err := b.construct(bc, depth)
	if err != nil {
		return reflect.Value{}, err
	}
	if err := b.update(inst, bc, prefix, depth); err != nil {
		return reflect.Value{}, err
	}
	return inst, nil
}

func (b *ModelBinder) construct(bc *BindingContext, depth int) (reflect.Value, error) {
	ctors := slices.Clone(b.constructors)
	slices.SortStableFunc(ctors, func(x, y *Constructor) int {
		return len(y.params) - len(x.params)
	})
	missing := ""
	for _, c := range ctors {
		args, unresolved, err := bc.resolveParameters(c.params, b.parameters, depth)
		if err != nil {
			return reflect.Value{}, err
		}
		if unresolved != "" {
			if missing == "" {
				missing = unresolved
			}
			continue
		}
		v, err := c.call(args)
		if err != nil {
			return reflect.Value{}, &BindingError{Type: b.typ, Err: err}
		}
		if v.Kind() != reflect.Pointer {
			out := reflect.New(v.Type()).Elem()
			out.Set(v)
			v = out
		}
		return v, nil
	}
	if isModelType(b.typ) {
		if b.typ.Kind() == reflect.Pointer {
			return reflect.New(b.typ.Elem()), nil
		}
		return reflect.New(b.typ).Elem(), nil
	}
	return reflect.Value{}, &BindingError{Type: b.typ, Name: missing, Err: ErrNoConstructor}
}

// update assigns every resolvable member of inst, a struct or a pointer to
// one. Nested structs are filled in place.
func (b *ModelBinder) update(inst reflect.Value, bc *BindingContext, prefix string, depth int) error {
	target := inst
	if target.Kind() == reflect.Pointer {
		if target.IsNil() {
			return nil
		}
		target = target.Elem()
	}
	if target.Kind() != reflect.Struct {
		return nil
	}
	for _, m := range b.descriptor.Members {
		field, err := target.FieldByIndexErr(m.index)
		if err != nil || !field.CanSet() {
			continue
		}
		if src, ok := b.members[normalizeName(m.Name)]; ok {
			if v, found := src.Value(bc); found {
				rv, _, err := bc.bound(slot{name: m.Name, typ: m.Type}, v, nil, "explicit")
				if err != nil {
					return err
				}
				field.Set(rv)
				continue
			}
		}
		path := prefix + m.Name
		if isModelType(m.Type) {
			if depth+1 >= bc.maxDepth {
				continue
			}
			if v, ok := bc.Service(m.Type); ok {
				rv, _, err := bc.bound(slot{name: m.Name, typ: m.Type}, v, nil, "service")
				if err != nil {
					return err
				}
				field.Set(rv)
				continue
			}
			if m.Type.Kind() == reflect.Pointer && field.IsNil() {
				field.Set(reflect.New(m.Type.Elem()))
			}
			if err := NewModelBinder(m.Type).update(field, bc, path+".", depth+1); err != nil {
				return err
			}
			continue
		}
		rv, found, err := bc.bindSlot(slot{name: m.Name, typ: m.Type, path: path, depth: depth + 1})
		if err != nil {
			return err
		}
		if found {
			field.Set(rv)
		}
	}
	return nil
}

// Bind creates a T from bc.
func Bind[T any](bc *BindingContext) (T, error) {
	var zero T
	v, err := NewModelBinderFor[T]().CreateInstance(bc)
	if err != nil {
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}
