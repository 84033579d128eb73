package cmdline

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/dzonerzy/go-cmdline/internal/pool"
)

// Diagram renders the result tree on one line, for example
//
//	[ tool [ build [ --type <Rebuild> ] *[ --jobs <4> ] ] ]   ???--> extra
//
// A "!" marks results with errors and "*" marks options filled implicitly.
func (r *ParseResult) Diagram() string {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	writeResult(buf, r.root.CommandResult)
	if len(r.unmatched) > 0 {
		buf.WriteString("   ???-->")
		for _, tok := range r.unmatched {
			buf.WriteByte(' ')
			buf.WriteString(tok.Value)
		}
	}
	return buf.String()
}

// String returns the diagram.
func (r *ParseResult) String() string { return r.Diagram() }

func writeResult(buf *bytes.Buffer, res SymbolResult) {
	if res.ErrorMessage() != "" {
		buf.WriteByte('!')
	}
	switch r := res.(type) {
	case *CommandResult:
		buf.WriteString("[ ")
		buf.WriteString(r.token.Value)
		for _, child := range r.children {
			if ar, ok := child.(*ArgumentResult); ok && skipArgument(ar) {
				continue
			}
			buf.WriteByte(' ')
			writeResult(buf, child)
		}
		buf.WriteString(" ]")
	case *OptionResult:
		if r.implicit {
			buf.WriteByte('*')
		}
		buf.WriteString("[ ")
		buf.WriteString(r.token.Value)
		for _, v := range argumentValues(r.argumentResult) {
			buf.WriteByte(' ')
			buf.WriteString(v)
		}
		buf.WriteString(" ]")
	case *ArgumentResult:
		cmd, named := r.parent.(*CommandResult)
		named = named && len(cmd.command.arguments) > 1
		values := strings.Join(argumentValues(r), " ")
		if named {
			fmt.Fprintf(buf, "[ %s %s ]", r.argument.Name(), values)
		} else {
			buf.WriteString(values)
		}
	}
}

// skipArgument drops command arguments that matched nothing and have no
// default to show.
func skipArgument(ar *ArgumentResult) bool {
	if ar.argument.Arity().Max == 0 {
		return true
	}
	return len(ar.tokens) == 0 && !ar.argument.HasDefault()
}

// argumentValues returns the tokens of ar as "<value>" items, or its
// default when the argument is filled implicitly.
func argumentValues(ar *ArgumentResult) []string {
	var out []string
	if len(ar.tokens) > 0 {
		for _, tok := range ar.tokens {
			out = append(out, "<"+tok.Value+">")
		}
		return out
	}
	if !ar.useDefaultValue() || !ar.argument.HasDefault() {
		return nil
	}
	v := ar.Value()
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			out = append(out, fmt.Sprintf("<%v>", rv.Index(i).Interface()))
		}
		return out
	}
	return append(out, fmt.Sprintf("<%v>", v))
}
