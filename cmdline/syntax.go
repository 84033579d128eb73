package cmdline

import "strings"

// SyntaxNode is a node of the parse tree: a pure mapping from tokens to
// symbols, before any value conversion.
type SyntaxNode interface {
	Token() Token
	syntaxNode()
}

// CommandNode is a command token and the nodes parsed in its scope.
type CommandNode struct {
	token    Token
	command  *Command
	parent   *CommandNode
	children []SyntaxNode
}

func (n *CommandNode) Token() Token           { return n.token }
func (n *CommandNode) Command() *Command      { return n.command }
func (n *CommandNode) Parent() *CommandNode   { return n.parent }
func (n *CommandNode) Children() []SyntaxNode { return n.children }
func (n *CommandNode) syntaxNode()            {}

func (n *CommandNode) add(child SyntaxNode) { n.children = append(n.children, child) }

// RootCommandNode is the root command node plus the directives preceding
// the first non-directive token.
type RootCommandNode struct {
	CommandNode
	directives []*DirectiveNode
}

// Directives returns the directive nodes in order.
func (n *RootCommandNode) Directives() []*DirectiveNode { return n.directives }

// OptionNode is an option token and the argument tokens it consumed.
type OptionNode struct {
	token    Token
	option   *Option
	parent   *CommandNode
	children []*OptionArgumentNode
}

func (n *OptionNode) Token() Token                    { return n.token }
func (n *OptionNode) Option() *Option                 { return n.option }
func (n *OptionNode) Parent() *CommandNode            { return n.parent }
func (n *OptionNode) Children() []*OptionArgumentNode { return n.children }
func (n *OptionNode) syntaxNode()                     {}

// OptionArgumentNode is an argument token consumed by an option.
type OptionArgumentNode struct {
	token    Token
	argument *Argument
	parent   *OptionNode
}

func (n *OptionArgumentNode) Token() Token        { return n.token }
func (n *OptionArgumentNode) Argument() *Argument { return n.argument }
func (n *OptionArgumentNode) Parent() *OptionNode { return n.parent }
func (n *OptionArgumentNode) syntaxNode()         {}

// CommandArgumentNode is a positional token assigned to a command argument.
type CommandArgumentNode struct {
	token    Token
	argument *Argument
	parent   *CommandNode
}

func (n *CommandArgumentNode) Token() Token         { return n.token }
func (n *CommandArgumentNode) Argument() *Argument  { return n.argument }
func (n *CommandArgumentNode) Parent() *CommandNode { return n.parent }
func (n *CommandArgumentNode) syntaxNode()          {}

// DirectiveNode is a "[name]" or "[name:value]" token.
type DirectiveNode struct {
	token    Token
	name     string
	value    string
	hasValue bool
}

func newDirectiveNode(tok Token) *DirectiveNode {
	body := tok.Value[1 : len(tok.Value)-1]
	n := &DirectiveNode{token: tok, name: body}
	if name, value, ok := strings.Cut(body, ":"); ok {
		n.name, n.value, n.hasValue = name, value, true
	}
	return n
}

func (n *DirectiveNode) Token() Token { return n.token }

// Name returns the directive name.
func (n *DirectiveNode) Name() string { return n.name }

// Value returns the text after the first colon and whether there was one.
func (n *DirectiveNode) Value() (string, bool) { return n.value, n.hasValue }

func (n *DirectiveNode) syntaxNode() {}
