package cmdline

import (
	"encoding"
	"errors"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ConvertFunc converts a single token to a value.
type ConvertFunc func(string) (any, error)

// FileSystemEntry is the value type for arguments that accept either a file
// or a directory. Conversion picks the concrete kind: an existing directory
// or a path with a trailing separator becomes a Directory, anything else a File.
type FileSystemEntry interface {
	Path() string
	IsDir() bool
}

// File is a path expected to name a file.
type File string

// Path returns the path.
func (f File) Path() string { return string(f) }

// IsDir reports false.
func (f File) IsDir() bool { return false }

// Directory is a path expected to name a directory.
type Directory string

// Path returns the path.
func (d Directory) Path() string { return string(d) }

// IsDir reports true.
func (d Directory) IsDir() bool { return true }

var (
	fileType            = reflect.TypeFor[File]()
	directoryType       = reflect.TypeFor[Directory]()
	fileSystemEntryType = reflect.TypeFor[FileSystemEntry]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	errNoConverter      = errors.New("no converter")
)

func builtinConverters() map[reflect.Type]ConvertFunc {
	m := map[reflect.Type]ConvertFunc{
		reflect.TypeFor[string]():        func(s string) (any, error) { return s, nil },
		reflect.TypeFor[bool]():          func(s string) (any, error) { return strconv.ParseBool(s) },
		reflect.TypeFor[time.Duration](): func(s string) (any, error) { return ParseDuration(s) },
		reflect.TypeFor[time.Time]():     parseTime,
		reflect.TypeFor[*url.URL]():      func(s string) (any, error) { return url.Parse(s) },
		reflect.TypeFor[File]():          func(s string) (any, error) { return File(s), nil },
		reflect.TypeFor[Directory]():     func(s string) (any, error) { return Directory(s), nil },
		reflect.TypeFor[net.IP](): func(s string) (any, error) {
			ip := net.ParseIP(s)
			if ip == nil {
				return nil, fmt.Errorf("invalid IP address %q", s)
			}
			return ip, nil
		},
	}
	for _, t := range []reflect.Type{
		reflect.TypeFor[int](), reflect.TypeFor[int8](), reflect.TypeFor[int16](),
		reflect.TypeFor[int32](), reflect.TypeFor[int64](),
		reflect.TypeFor[uint](), reflect.TypeFor[uint8](), reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](), reflect.TypeFor[uint64](),
		reflect.TypeFor[float32](), reflect.TypeFor[float64](),
	} {
		m[t] = kindConverter(t)
	}
	return m
}

// kindConverter parses s according to the kind of t and converts the result
// to t, so named numeric types work too. Integers accept 0x, 0o and 0b prefixes.
func kindConverter(t reflect.Type) ConvertFunc {
	return func(s string) (any, error) {
		v := reflect.New(t).Elem()
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(s, 0, t.Bits())
			if err != nil {
				return nil, err
			}
			v.SetInt(n)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(s, 0, t.Bits())
			if err != nil {
				return nil, err
			}
			v.SetUint(n)
		case reflect.Float32, reflect.Float64:
			f, err := strconv.ParseFloat(s, t.Bits())
			if err != nil {
				return nil, err
			}
			v.SetFloat(f)
		case reflect.Bool:
			b, err := strconv.ParseBool(s)
			if err != nil {
				return nil, err
			}
			v.SetBool(b)
		case reflect.String:
			v.SetString(s)
		default:
			return nil, errNoConverter
		}
		return v.Interface(), nil
	}
}

func parseTime(s string) (any, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("invalid time %q", s)
}

// ConvertString converts value to typ. It tries, in order: the registered
// converter for typ, the file system heuristic, encoding.TextUnmarshaler,
// and finally the kind of typ for named scalar types. Pointer types convert
// their element.
func (c *Configuration) ConvertString(typ reflect.Type, value string) (any, error) {
	if fn, ok := c.converters[typ]; ok {
		return fn(value)
	}
	if typ == fileSystemEntryType {
		return c.fileSystemEntry(value), nil
	}
	if reflect.PointerTo(typ).Implements(textUnmarshalerType) {
		ptr := reflect.New(typ)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value)); err != nil {
			return nil, err
		}
		return ptr.Elem().Interface(), nil
	}
	if typ.Kind() == reflect.Pointer {
		elem, err := c.ConvertString(typ.Elem(), value)
		if err != nil {
			return nil, err
		}
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(reflect.ValueOf(elem))
		return ptr.Interface(), nil
	}
	if typ.Kind() == reflect.Interface && reflect.TypeFor[string]().Implements(typ) {
		return value, nil
	}
	return kindConverter(typ)(value)
}

func (c *Configuration) fileSystemEntry(value string) FileSystemEntry {
	if info, err := c.stat(value); err == nil && info.IsDir() {
		return Directory(value)
	}
	if strings.HasSuffix(value, string(filepath.Separator)) || strings.HasSuffix(value, "/") {
		return Directory(value)
	}
	return File(value)
}

// ParseDuration extends time.ParseDuration with "MM:SS" and "HH:MM:SS"
// clock forms and the d (day), w (week), M (month, 30 days) and y (year,
// 365 days) units.
//
//	ParseDuration("01:30:15") // 1h30m15s
//	ParseDuration("2w")       // 336h
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if strings.Contains(s, ":") {
		return parseClockDuration(s)
	}
	if d, ok := parseExtendedDuration(s); ok {
		return d, nil
	}
	return time.ParseDuration(s)
}

func parseClockDuration(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock duration %q", s)
	}
	units := []time.Duration{time.Second, time.Minute, time.Hour}
	var d time.Duration
	for i := range parts {
		part := parts[len(parts)-1-i]
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid clock duration %q", s)
		}
		d += time.Duration(n) * units[i]
	}
	return d, nil
}

func parseExtendedDuration(s string) (time.Duration, bool) {
	if len(s) < 2 {
		return 0, false
	}
	var unit time.Duration
	switch last := s[len(s)-1]; last {
	case 'd', 'D':
		unit = 24 * time.Hour
	case 'w', 'W':
		unit = 7 * 24 * time.Hour
	case 'M':
		unit = 30 * 24 * time.Hour
	case 'y', 'Y':
		unit = 365 * 24 * time.Hour
	default:
		return 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, false
	}
	return time.Duration(n) * unit, true
}
