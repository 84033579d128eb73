package cmdline

import (
	"os"
	"reflect"
	"slices"
	"strconv"
)

// Parser parses argument lists against a command tree. Building a Parser
// publishes the tree: global options are propagated and alias scopes are
// indexed. A Parser is safe for concurrent use as long as the tree is not
// modified afterwards.
type Parser struct {
	config *Configuration
	scopes map[*Command]map[string]knownToken
}

// NewParser builds a parser for root.
func NewParser(root *Command, opts ...ConfigOption) *Parser {
	if root == nil {
		panic("cmdline: nil root command")
	}
	cfg := newConfiguration(root, opts)
	root.propagateGlobalOptions(nil)
	p := &Parser{config: cfg, scopes: make(map[*Command]map[string]knownToken)}
	root.walk(func(c *Command) { p.scopes[c] = validTokens(c) })
	return p
}

// Configuration returns the parser configuration.
func (p *Parser) Configuration() *Configuration { return p.config }

// RootCommand returns the root of the command tree.
func (p *Parser) RootCommand() *Command { return p.config.root }

// Tokenize runs only the tokenizer.
func (p *Parser) Tokenize(args []string) *TokenizeResult {
	return newTokenizer(p.config, p.scopes).tokenize(args)
}

// Parse tokenizes and parses args. Problems are reported on the result,
// never returned or panicked.
func (p *Parser) Parse(args []string) *ParseResult {
	tr := p.Tokenize(args)
	op := &parseOperation{tokens: tr.Tokens, counts: make(map[*Argument]int)}
	op.parse(p.config.root)

	b := &resultBuilder{parser: p, cfg: p.config}
	return b.build(op, tr)
}

// ParseString splits line like a shell would and parses the result.
func (p *Parser) ParseString(line string) *ParseResult {
	return p.Parse(SplitCommandLine(line))
}

// parseOperation is a single left-to-right pass over the tokens.
type parseOperation struct {
	tokens    []Token
	index     int
	counts    map[*Argument]int
	root      *RootCommandNode
	unmatched []Token
	unparsed  []Token
}

func (op *parseOperation) more() bool     { return op.index < len(op.tokens) }
func (op *parseOperation) current() Token { return op.tokens[op.index] }
func (op *parseOperation) advance()       { op.index++ }

// isFull reports whether a has consumed its maximum number of tokens. The
// count is kept per argument so repeated options fill one argument.
func (op *parseOperation) isFull(a *Argument) bool {
	return op.counts[a] >= a.Arity().Max
}

func (op *parseOperation) parse(root *Command) {
	op.root = &RootCommandNode{CommandNode: CommandNode{token: op.current(), command: root}}
	op.advance()
	op.parseDirectives()
	op.parseCommandChildren(&op.root.CommandNode)
	op.parseRemainingTokens()
}

func (op *parseOperation) parseDirectives() {
	for op.more() && op.current().Type == TokenDirective {
		op.root.directives = append(op.root.directives, newDirectiveNode(op.current()))
		op.advance()
	}
}

func (op *parseOperation) parseCommandChildren(parent *CommandNode) {
	for op.more() && op.current().Type != TokenEndOfArguments {
		if child := op.parseCommandChild(parent); child != nil {
			parent.add(child)
			continue
		}
		op.unmatched = append(op.unmatched, op.current())
		op.advance()
	}
}

func (op *parseOperation) parseCommandChild(parent *CommandNode) SyntaxNode {
	if n := op.parseSubcommand(parent); n != nil {
		return n
	}
	if n := op.parseOption(parent); n != nil {
		return n
	}
	if n := op.parseCommandArgument(parent); n != nil {
		return n
	}
	return nil
}

func (op *parseOperation) parseSubcommand(parent *CommandNode) *CommandNode {
	tok := op.current()
	if tok.Type != TokenCommand {
		return nil
	}
	cmd, ok := parent.command.Subcommand(tok.Value)
	if !ok {
		return nil
	}
	node := &CommandNode{token: tok, command: cmd, parent: parent}
	op.advance()
	op.parseCommandChildren(node)
	return node
}

func (op *parseOperation) parseOption(parent *CommandNode) *OptionNode {
	tok := op.current()
	if tok.Type != TokenOption {
		return nil
	}
	opt, ok := parent.command.Option(tok.Value)
	if !ok {
		return nil
	}
	node := &OptionNode{token: tok, option: opt, parent: parent}
	op.advance()
	op.parseOptionArguments(node)
	return node
}

// parseOptionArguments greedily consumes argument tokens for an option. It
// stops when the argument is full and has taken a token in this run, when
// the argument takes no tokens, or when a boolean argument meets a token
// that is not a boolean.
func (op *parseOperation) parseOptionArguments(node *OptionNode) {
	arg := node.option.argument
	arity := arg.Arity()
	contiguous := 0
	for op.more() && op.current().Type == TokenArgument {
		tok := op.current()
		if op.isFull(arg) {
			if contiguous > 0 || arity.Max == 0 {
				return
			}
		} else if arg.valueType.Kind() == reflect.Bool && arg.strategy != StrategyCustom {
			if _, err := strconv.ParseBool(tok.Value); err != nil {
				return
			}
		}
		node.children = append(node.children, &OptionArgumentNode{token: tok, argument: arg, parent: node})
		op.counts[arg]++
		contiguous++
		op.advance()
	}
}

func (op *parseOperation) parseCommandArgument(parent *CommandNode) *CommandArgumentNode {
	tok := op.current()
	if tok.Type != TokenArgument {
		return nil
	}
	for _, arg := range parent.command.arguments {
		if op.isFull(arg) {
			continue
		}
		op.counts[arg]++
		op.advance()
		return &CommandArgumentNode{token: tok, argument: arg, parent: parent}
	}
	return nil
}

// parseRemainingTokens drains what the command scopes left: everything after
// "--" is unparsed, anything else is unmatched.
func (op *parseOperation) parseRemainingTokens() {
	seenEnd := false
	for ; op.more(); op.advance() {
		tok := op.current()
		switch {
		case tok.Type == TokenEndOfArguments:
			seenEnd = true
		case seenEnd || tok.Type == TokenOperand:
			op.unparsed = append(op.unparsed, tok)
		default:
			op.unmatched = append(op.unmatched, tok)
		}
	}
}

// resultBuilder turns the syntax tree into the result tree, fills implicit
// results and collects validation errors.
type resultBuilder struct {
	parser    *Parser
	cfg       *Configuration
	root      *RootCommandResult
	innermost *CommandResult
	errors    []*ParseError
}

func (b *resultBuilder) build(op *parseOperation, tr *TokenizeResult) *ParseResult {
	b.root = newRootCommandResult(op.root.command, op.root.token, b.cfg)
	b.innermost = b.root.CommandResult
	for _, child := range op.root.children {
		b.visit(child)
	}

	chain := b.commandChain()
	for _, cr := range chain {
		b.populateDefaults(cr)
	}
	b.validateRequiredOptions(chain)
	b.validateInnermostCommand()
	b.validateCommand(b.root.CommandResult)

	var errs []*ParseError
	for _, te := range tr.Errors {
		errs = append(errs, &ParseError{Type: ErrorTypeResponseFile, Message: te.Message})
	}
	errs = append(errs, b.errors...)
	if b.innermost.command.treatUnmatchedTokensAsErrors {
		for _, tok := range op.unmatched {
			errs = append(errs, &ParseError{
				Type:    ErrorTypeUnmatchedToken,
				Message: b.cfg.resources.UnrecognizedCommandOrArgument(tok.Value),
			})
		}
	}

	tokens := tr.Tokens
	if tr.rootSynthesized && len(tokens) > 0 {
		tokens = tokens[1:]
	}

	return &ParseResult{
		parser:          b.parser,
		root:            b.root,
		command:         b.innermost,
		directives:      newDirectives(op.root.directives),
		tokens:          tokens,
		unmatched:       op.unmatched,
		unparsed:        op.unparsed,
		errors:          errs,
		rootSynthesized: tr.rootSynthesized,
	}
}

func (b *resultBuilder) visit(node SyntaxNode) {
	switch n := node.(type) {
	case *CommandNode:
		cr := newCommandResult(n.command, n.token, b.innermost, b.root)
		b.innermost.addChild(cr)
		b.innermost = cr
		for _, child := range n.children {
			b.visit(child)
		}
	case *OptionNode:
		or := b.innermost.OptionResult(n.option)
		if or == nil {
			or = newOptionResult(n.option, n.token, b.innermost)
			b.innermost.addChild(or)
		}
		for _, an := range n.children {
			or.addToken(an.token)
		}
	case *CommandArgumentNode:
		ar := b.innermost.ArgumentResult(n.argument)
		if ar == nil {
			ar = newArgumentResult(n.argument, b.innermost)
			b.innermost.addChild(ar)
		}
		ar.addToken(n.token)
	}
}

// commandChain returns the command results from the root to the innermost.
func (b *resultBuilder) commandChain() []*CommandResult {
	var chain []*CommandResult
	for cr := b.innermost; cr != nil; cr = cr.ParentCommand() {
		chain = append([]*CommandResult{cr}, chain...)
	}
	return chain
}

// populateDefaults adds implicit option results for absent options that have
// an environment value or a default, and empty results for absent command
// arguments so arity and defaults are checked.
func (b *resultBuilder) populateDefaults(cr *CommandResult) {
	for _, o := range cr.command.options {
		if _, seen := b.root.index[o]; seen {
			continue
		}
		if value, ok := lookupEnv(o.envVars); ok {
			or := newOptionResult(o, implicitToken(o), cr)
			or.implicit, or.fromEnv = true, true
			or.addToken(NewToken(value, TokenArgument))
			cr.addChild(or)
			continue
		}
		if o.argument.HasDefault() {
			or := newOptionResult(o, implicitToken(o), cr)
			or.implicit = true
			cr.addChild(or)
		}
	}
	for _, a := range cr.command.arguments {
		if cr.ArgumentResult(a) == nil {
			cr.addChild(newArgumentResult(a, cr))
		}
	}
}

func lookupEnv(vars []string) (string, bool) {
	for _, name := range vars {
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
	}
	return "", false
}

func (b *resultBuilder) validateRequiredOptions(chain []*CommandResult) {
	seen := make(map[*Option]bool)
	for _, cr := range chain {
		for _, o := range cr.command.options {
			if !o.required || seen[o] {
				continue
			}
			seen[o] = true
			res, ok := b.root.index[o]
			if ok {
				if or := res.(*OptionResult); !or.implicit || or.fromEnv {
					continue
				}
			}
			b.addError(ErrorTypeMissingRequired, b.cfg.resources.RequiredOptionWasNotProvided(o), cr)
		}
	}
}

func (b *resultBuilder) validateInnermostCommand() {
	cmd := b.innermost.command
	if cmd.handler == nil && len(cmd.subcommands) > 0 {
		b.addError(ErrorTypeMissingCommand, b.cfg.resources.RequiredCommandWasNotProvided(), b.innermost)
	}
}

func (b *resultBuilder) validateCommand(cr *CommandResult) {
	for _, v := range cr.command.validators {
		if err := v(cr); err != nil {
			b.addError(ErrorTypeValidation, err.Error(), cr)
		}
	}
	for _, child := range cr.children {
		switch r := child.(type) {
		case *CommandResult:
			b.validateCommand(r)
		case *OptionResult:
			b.validateOption(r)
		case *ArgumentResult:
			b.validateArgument(r)
		}
	}
}

func (b *resultBuilder) validateOption(or *OptionResult) {
	for _, v := range or.option.validators {
		if err := v(or); err != nil {
			b.addError(ErrorTypeValidation, err.Error(), or)
			return
		}
	}
	b.validateArgument(or.argumentResult)
}

// validateArgument checks the allow-list, runs validators and finally
// converts. Errors attach to the owning option result when there is one.
func (b *resultBuilder) validateArgument(ar *ArgumentResult) {
	target := SymbolResult(ar)
	if or, ok := ar.parent.(*OptionResult); ok {
		target = or
	}
	arg := ar.argument

	if len(arg.allowed) > 0 {
		for _, tok := range ar.tokens {
			if !slices.Contains(arg.allowed, tok.Value) {
				b.addError(ErrorTypeInvalidValue, b.cfg.resources.UnrecognizedArgument(tok.Value, arg.allowed), target)
				return
			}
		}
	}

	for _, v := range arg.validators {
		if len(ar.tokens) == 0 {
			break
		}
		if err := v(ar); err != nil {
			b.addError(ErrorTypeValidation, err.Error(), target)
			return
		}
	}

	conv := ar.GetArgumentConversionResult()
	switch conv.Kind {
	case ConversionFailed:
		b.addError(ErrorTypeInvalidValue, conv.ErrorMessage, target)
	case ConversionMissing:
		b.addError(ErrorTypeMissingArgument, conv.ErrorMessage, target)
	case ConversionTooMany:
		b.addError(ErrorTypeTooManyArguments, conv.ErrorMessage, target)
	}
}

func (b *resultBuilder) addError(typ ErrorType, message string, target SymbolResult) {
	if r, ok := target.(interface{ setError(string) }); ok {
		r.setError(message)
	}
	b.errors = append(b.errors, &ParseError{Type: typ, Message: message, SymbolResult: target})
}

