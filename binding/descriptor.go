package binding

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"
)

// TagName is the struct tag naming a member for binding. A value of "-"
// excludes the field.
//
//	type Options struct {
//		Versions []string `cmd:"fbver"`
//		Secret   string   `cmd:"-"`
//	}
const TagName = "cmd"

// ModelDescriptor describes the settable members of a struct type.
type ModelDescriptor struct {
	Type    reflect.Type
	Members []*MemberDescriptor
}

// MemberDescriptor describes one exported, settable struct field.
type MemberDescriptor struct {
	Name  string
	Type  reflect.Type
	index []int
}

// ParameterDescriptor describes one parameter of a constructor or handler.
type ParameterDescriptor struct {
	Name         string
	Type         reflect.Type
	HasDefault   bool
	DefaultValue any
}

// AllowsNil reports whether the parameter may bind to an absent value.
func (p *ParameterDescriptor) AllowsNil() bool { return nillable(p.Type) }

var descriptors sync.Map // map[reflect.Type]*ModelDescriptor

// DescriptorFor returns the cached descriptor of t. Pointer types describe
// their element.
func DescriptorFor(t reflect.Type) *ModelDescriptor {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if d, ok := descriptors.Load(t); ok {
		return d.(*ModelDescriptor)
	}
	d, _ := descriptors.LoadOrStore(t, describe(t))
	return d.(*ModelDescriptor)
}

// DescriptorOf returns the descriptor of T.
func DescriptorOf[T any]() *ModelDescriptor { return DescriptorFor(reflect.TypeFor[T]()) }

func describe(t reflect.Type) *ModelDescriptor {
	d := &ModelDescriptor{Type: t}
	if t.Kind() != reflect.Struct {
		return d
	}
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup(TagName); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		d.Members = append(d.Members, &MemberDescriptor{Name: name, Type: f.Type, index: f.Index})
	}
	return d
}

// Member returns the member matching name, ignoring case and separators.
func (d *ModelDescriptor) Member(name string) (*MemberDescriptor, bool) {
	for _, m := range d.Members {
		if namesMatch(m.Name, name) {
			return m, true
		}
	}
	return nil, false
}

func (d *ModelDescriptor) String() string {
	return fmt.Sprintf("ModelDescriptor(%s, %d members)", d.Type, len(d.Members))
}

var (
	timeType            = reflect.TypeFor[time.Time]()
	urlType             = reflect.TypeFor[url.URL]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// isModelType reports whether t is a struct bound member by member rather
// than converted as a single value.
func isModelType(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == timeType || t == urlType {
		return false
	}
	return !reflect.PointerTo(t).Implements(textUnmarshalerType)
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// namesMatch compares names ignoring case, option prefixes, dashes and
// underscores, so "--dry-run" matches "DryRun".
func namesMatch(a, b string) bool {
	return normalizeName(a) == normalizeName(b)
}

func normalizeName(s string) string {
	s = strings.TrimLeft(s, "-/")
	return strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(s))
}
