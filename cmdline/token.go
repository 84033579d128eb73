package cmdline

// TokenType classifies a token produced by the tokenizer.
type TokenType int

const (
	TokenArgument TokenType = iota
	TokenCommand
	TokenOption
	TokenOperand
	TokenDirective
	TokenEndOfArguments
	TokenInvalid
)

func (t TokenType) String() string {
	switch t {
	case TokenArgument:
		return "Argument"
	case TokenCommand:
		return "Command"
	case TokenOption:
		return "Option"
	case TokenOperand:
		return "Operand"
	case TokenDirective:
		return "Directive"
	case TokenEndOfArguments:
		return "EndOfArguments"
	}
	return "Invalid"
}

// Token is an immutable lexical unit: raw value, unprefixed value and kind.
type Token struct {
	Value           string
	UnprefixedValue string
	Type            TokenType

	symbol   Symbol
	implicit bool
}

// NewToken creates a token. Option tokens get their prefix removed in
// UnprefixedValue; other kinds keep the raw value.
func NewToken(value string, typ TokenType) Token {
	t := Token{Value: value, UnprefixedValue: value, Type: typ}
	if typ == TokenOption {
		t.UnprefixedValue = RemovePrefix(value)
	}
	return t
}

func newSymbolToken(value string, typ TokenType, sym Symbol) Token {
	t := NewToken(value, typ)
	t.symbol = sym
	return t
}

// implicitToken stands in for an option that was filled without appearing
// on the command line.
func implicitToken(o *Option) Token {
	t := newSymbolToken(o.longestAlias(), TokenOption, o)
	t.implicit = true
	return t
}

// Symbol returns the symbol the tokenizer resolved the token to, if any.
func (t Token) Symbol() Symbol { return t.symbol }

// IsImplicit reports whether the token was synthesized rather than typed.
func (t Token) IsImplicit() bool { return t.implicit }

// Equal compares value and kind.
func (t Token) Equal(other Token) bool {
	return t.Value == other.Value && t.Type == other.Type
}

func (t Token) String() string { return t.Value }

// tokenValues returns the raw values of tokens.
func tokenValues(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Value
	}
	return out
}
