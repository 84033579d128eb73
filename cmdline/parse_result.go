package cmdline

import "fmt"

// ParseResult is the outcome of a parse: the result tree, the token stream
// and every error collected along the way.
type ParseResult struct {
	parser          *Parser
	root            *RootCommandResult
	command         *CommandResult
	directives      *Directives
	tokens          []Token
	unmatched       []Token
	unparsed        []Token
	errors          []*ParseError
	rootSynthesized bool
}

// Parser returns the parser that produced the result.
func (r *ParseResult) Parser() *Parser { return r.parser }

// RootCommandResult returns the root of the result tree.
func (r *ParseResult) RootCommandResult() *RootCommandResult { return r.root }

// CommandResult returns the innermost matched command.
func (r *ParseResult) CommandResult() *CommandResult { return r.command }

// Directives returns the directives that preceded the arguments.
func (r *ParseResult) Directives() *Directives { return r.directives }

// Tokens returns the token stream. A root token inserted by the tokenizer is
// not included.
func (r *ParseResult) Tokens() []Token { return r.tokens }

// UnmatchedTokens returns tokens no symbol accepted.
func (r *ParseResult) UnmatchedTokens() []Token { return r.unmatched }

// UnparsedTokens returns the tokens after "--".
func (r *ParseResult) UnparsedTokens() []Token { return r.unparsed }

// UnmatchedValues returns the raw values of the unmatched tokens.
func (r *ParseResult) UnmatchedValues() []string { return tokenValues(r.unmatched) }

// UnparsedValues returns the raw values of the unparsed tokens.
func (r *ParseResult) UnparsedValues() []string { return tokenValues(r.unparsed) }

// Errors returns every tokenize, validation and unmatched token error.
func (r *ParseResult) Errors() []*ParseError { return r.errors }

// HasErrors reports whether the parse produced any error.
func (r *ParseResult) HasErrors() bool { return len(r.errors) > 0 }

// Err returns the errors as a single error value, or nil.
func (r *ParseResult) Err() error {
	if len(r.errors) == 0 {
		return nil
	}
	return ParseErrors(r.errors)
}

// FindResultFor returns the result recorded for sym anywhere in the tree.
func (r *ParseResult) FindResultFor(sym Symbol) (SymbolResult, bool) {
	return r.root.FindResultFor(sym)
}

// FindResultForOption returns the option result for o, or nil.
func (r *ParseResult) FindResultForOption(o *Option) *OptionResult {
	res, ok := r.root.FindResultFor(o)
	if !ok {
		return nil
	}
	return res.(*OptionResult)
}

// FindResultForArgument returns the argument result for a, or nil.
func (r *ParseResult) FindResultForArgument(a *Argument) *ArgumentResult {
	res, ok := r.root.FindResultFor(a)
	if !ok {
		return nil
	}
	return res.(*ArgumentResult)
}

// HasOption reports whether o was given on the command line or from the
// environment. Options filled only by their default do not count.
func (r *ParseResult) HasOption(o *Option) bool {
	or := r.FindResultForOption(o)
	return or != nil && (!or.implicit || or.fromEnv)
}

// ValueForOption returns the converted value of o, or nil.
func (r *ParseResult) ValueForOption(o *Option) any {
	if or := r.FindResultForOption(o); or != nil {
		return or.Value()
	}
	return nil
}

// ValueForArgument returns the converted value of a, or nil.
func (r *ParseResult) ValueForArgument(a *Argument) any {
	if ar := r.FindResultForArgument(a); ar != nil {
		return ar.Value()
	}
	return nil
}

// GetValueForOption returns the value of o as T. A missing result or a
// failed conversion yields the zero value; a type mismatch is an error.
func GetValueForOption[T any](r *ParseResult, o *Option) (T, error) {
	return valueAs[T](r.ValueForOption(o), o.Name())
}

// GetValueForArgument returns the value of a as T.
func GetValueForArgument[T any](r *ParseResult, a *Argument) (T, error) {
	return valueAs[T](r.ValueForArgument(a), a.Name())
}

func valueAs[T any](v any, name string) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cmdline: value of %q is %T, not %T", name, v, zero)
	}
	return t, nil
}

// Directives is the ordered set of parsed directives. A directive given
// more than once keeps all of its values.
type Directives struct {
	names  []string
	values map[string][]string
}

func newDirectives(nodes []*DirectiveNode) *Directives {
	d := &Directives{values: make(map[string][]string)}
	for _, n := range nodes {
		if _, ok := d.values[n.name]; !ok {
			d.names = append(d.names, n.name)
			d.values[n.name] = nil
		}
		if v, ok := n.Value(); ok {
			d.values[n.name] = append(d.values[n.name], v)
		}
	}
	return d
}

// Names returns directive names in first-seen order.
func (d *Directives) Names() []string { return d.names }

// Len returns the number of distinct directives.
func (d *Directives) Len() int { return len(d.names) }

// Contains reports whether the named directive was given.
func (d *Directives) Contains(name string) bool {
	_, ok := d.values[name]
	return ok
}

// Values returns the values given for name.
func (d *Directives) Values(name string) ([]string, bool) {
	v, ok := d.values[name]
	return v, ok
}
