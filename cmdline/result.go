package cmdline

// SymbolResult is a node of the result tree. Results mirror the syntax tree
// and carry the tokens matched to each symbol.
type SymbolResult interface {
	// Symbol returns the command, option or argument the result is for.
	Symbol() Symbol
	// Parent returns the enclosing result, nil for the root.
	Parent() SymbolResult
	// Tokens returns the argument tokens attributed to the result.
	Tokens() []Token
	// ErrorMessage returns the validation message recorded on the result.
	ErrorMessage() string
	// Children returns nested results.
	Children() []SymbolResult

	root() *RootCommandResult
}

type symbolResult struct {
	parent       SymbolResult
	rootResult   *RootCommandResult
	tokens       []Token
	errorMessage string
	children     []SymbolResult
}

func (r *symbolResult) Parent() SymbolResult          { return r.parent }
func (r *symbolResult) Tokens() []Token               { return r.tokens }
func (r *symbolResult) ErrorMessage() string          { return r.errorMessage }
func (r *symbolResult) Children() []SymbolResult      { return r.children }
func (r *symbolResult) root() *RootCommandResult      { return r.rootResult }
func (r *symbolResult) resources() Resources          { return r.rootResult.config.resources }
func (r *symbolResult) setError(message string)       { r.errorMessage = message }
func (r *symbolResult) appendToken(tok Token)         { r.tokens = append(r.tokens, tok) }
func (r *symbolResult) addChildResult(c SymbolResult) { r.children = append(r.children, c) }

// CommandResult is the result for a command token.
type CommandResult struct {
	symbolResult
	command *Command
	token   Token
}

func newCommandResult(cmd *Command, tok Token, parent *CommandResult, root *RootCommandResult) *CommandResult {
	r := &CommandResult{command: cmd, token: tok}
	if parent != nil {
		r.parent = parent
	}
	r.rootResult = root
	return r
}

// Symbol returns the command.
func (r *CommandResult) Symbol() Symbol { return r.command }

// Command returns the command.
func (r *CommandResult) Command() *Command { return r.command }

// Token returns the token that selected the command.
func (r *CommandResult) Token() Token { return r.token }

// ParentCommand returns the enclosing command result, or nil at the root.
func (r *CommandResult) ParentCommand() *CommandResult {
	p, _ := r.parent.(*CommandResult)
	return p
}

func (r *CommandResult) addChild(child SymbolResult) {
	r.addChildResult(child)
	r.rootResult.register(child)
}

// OptionResult returns the child result for o, or nil.
func (r *CommandResult) OptionResult(o *Option) *OptionResult {
	for _, c := range r.children {
		if or, ok := c.(*OptionResult); ok && or.option == o {
			return or
		}
	}
	return nil
}

// ArgumentResult returns the child result for a, or nil.
func (r *CommandResult) ArgumentResult(a *Argument) *ArgumentResult {
	for _, c := range r.children {
		if ar, ok := c.(*ArgumentResult); ok && ar.argument == a {
			return ar
		}
	}
	return nil
}

// RootCommandResult is the root command result plus an index of every
// result in the tree by symbol.
type RootCommandResult struct {
	*CommandResult
	config *Configuration
	index  map[Symbol]SymbolResult
}

func newRootCommandResult(cmd *Command, tok Token, cfg *Configuration) *RootCommandResult {
	root := &RootCommandResult{config: cfg, index: make(map[Symbol]SymbolResult)}
	root.CommandResult = newCommandResult(cmd, tok, nil, root)
	root.index[cmd] = root.CommandResult
	return root
}

func (r *RootCommandResult) register(res SymbolResult) {
	r.index[res.Symbol()] = res
	if or, ok := res.(*OptionResult); ok && or.argumentResult != nil {
		r.index[or.argumentResult.argument] = or.argumentResult
	}
}

// FindResultFor returns the result recorded for sym. When a symbol matched
// in more than one command scope the latest result wins.
func (r *RootCommandResult) FindResultFor(sym Symbol) (SymbolResult, bool) {
	res, ok := r.index[sym]
	return res, ok
}

// OptionResult is the result for an option. Repeated occurrences of the
// same option within one command scope share a single result.
type OptionResult struct {
	symbolResult
	option         *Option
	token          Token
	implicit       bool
	fromEnv        bool
	argumentResult *ArgumentResult
}

func newOptionResult(o *Option, tok Token, parent *CommandResult) *OptionResult {
	r := &OptionResult{option: o, token: tok}
	r.parent = parent
	r.rootResult = parent.rootResult
	r.argumentResult = newArgumentResult(o.argument, r)
	r.addChildResult(r.argumentResult)
	return r
}

// Symbol returns the option.
func (r *OptionResult) Symbol() Symbol { return r.option }

// Option returns the option.
func (r *OptionResult) Option() *Option { return r.option }

// Token returns the option token; implicit results carry a synthesized one.
func (r *OptionResult) Token() Token { return r.token }

// IsImplicit reports whether the option was filled from a default value or
// an environment variable instead of the command line.
func (r *OptionResult) IsImplicit() bool { return r.implicit }

// FromEnv reports whether the value came from an environment variable.
func (r *OptionResult) FromEnv() bool { return r.fromEnv }

// ArgumentResult returns the result of the option's argument.
func (r *OptionResult) ArgumentResult() *ArgumentResult { return r.argumentResult }

// Value returns the converted value, or nil when conversion did not succeed.
func (r *OptionResult) Value() any { return r.argumentResult.Value() }

func (r *OptionResult) addToken(tok Token) {
	r.appendToken(tok)
	r.argumentResult.appendToken(tok)
}

// ArgumentResult is the result for an argument. Conversion happens on first
// request and is memoized for the lifetime of the parse.
type ArgumentResult struct {
	symbolResult
	argument   *Argument
	conversion *ArgumentConversionResult
}

func newArgumentResult(a *Argument, parent SymbolResult) *ArgumentResult {
	r := &ArgumentResult{argument: a}
	r.parent = parent
	r.rootResult = parent.root()
	return r
}

// Symbol returns the argument.
func (r *ArgumentResult) Symbol() Symbol { return r.argument }

// Argument returns the argument.
func (r *ArgumentResult) Argument() *Argument { return r.argument }

// SetErrorMessage records a failure from a custom parser. A custom parser
// that sets a message produces a failed conversion.
func (r *ArgumentResult) SetErrorMessage(message string) { r.errorMessage = message }

// Value returns the converted value, or nil when conversion did not succeed.
func (r *ArgumentResult) Value() any {
	c := r.GetArgumentConversionResult()
	if c.Kind != ConversionSuccessful {
		return nil
	}
	return c.Value
}

func (r *ArgumentResult) addToken(tok Token) { r.appendToken(tok) }

// useDefaultValue reports whether the argument should take its default:
// the option was not typed, or the command argument received no tokens.
func (r *ArgumentResult) useDefaultValue() bool {
	switch p := r.parent.(type) {
	case *OptionResult:
		return p.implicit && !p.fromEnv
	case *CommandResult:
		return len(r.tokens) == 0
	}
	return false
}
