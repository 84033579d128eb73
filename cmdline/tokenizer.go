package cmdline

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

// maxResponseFileDepth bounds nested @file expansion.
const maxResponseFileDepth = 32

// TokenizeResult is the output of the tokenizer.
type TokenizeResult struct {
	Tokens []Token
	Errors []*TokenizeError

	rootSynthesized bool
}

// RootSynthesized reports whether the root token was inserted because the
// first argument did not name the root command.
func (r *TokenizeResult) RootSynthesized() bool { return r.rootSynthesized }

type knownToken struct {
	typ    TokenType
	symbol Symbol
}

// tokenizer turns raw arguments into tokens. The set of known aliases
// follows the command scope as subcommands are entered.
type tokenizer struct {
	cfg     *Configuration
	scopes  map[*Command]map[string]knownToken
	known   map[string]knownToken
	current *Command
	tokens  []Token
	errors  []*TokenizeError
}

func newTokenizer(cfg *Configuration, scopes map[*Command]map[string]knownToken) *tokenizer {
	return &tokenizer{
		cfg:     cfg,
		scopes:  scopes,
		current: cfg.root,
		known:   scopes[cfg.root],
	}
}

// validTokens returns the aliases recognized while c is the current scope:
// its own aliases, its subcommands and its options, inherited globals included.
func validTokens(c *Command) map[string]knownToken {
	m := make(map[string]knownToken)
	for _, a := range c.aliases {
		m[a] = knownToken{TokenCommand, c}
	}
	for _, sub := range c.subcommands {
		for _, a := range sub.aliases {
			m[a] = knownToken{TokenCommand, sub}
		}
	}
	for _, o := range c.options {
		for _, a := range o.aliases {
			m[a] = knownToken{TokenOption, o}
		}
	}
	return m
}

func (t *tokenizer) tokenize(args []string) *TokenizeResult {
	argList, synthesized := normalizeRootCommand(t.cfg.root, args)

	endOfArguments := false
	endOfDirectives := !t.cfg.directives
	for i := 0; i < len(argList); i++ {
		arg := argList[i]

		if i == 0 {
			t.add(newSymbolToken(arg, TokenCommand, t.cfg.root))
			continue
		}

		if endOfArguments {
			t.add(NewToken(arg, TokenOperand))
			continue
		}

		if arg == "--" {
			t.add(NewToken(arg, TokenEndOfArguments))
			endOfArguments = true
			continue
		}

		if !endOfDirectives {
			if isDirective(arg) {
				t.add(NewToken(arg, TokenDirective))
				continue
			}
			if !t.cfg.root.HasAlias(arg) {
				endOfDirectives = true
			}
		}

		if t.cfg.responseFiles != ResponseFilesDisabled && strings.HasPrefix(arg, "@") {
			expanded, err := t.expandResponseFile(arg)
			if err != nil {
				t.errors = append(t.errors, err)
				continue
			}
			argList = slices.Insert(argList, i+1, expanded...)
			continue
		}

		if t.cfg.posixBundling && t.tryUnbundle(arg) {
			continue
		}

		if alias, value, ok := t.trySplit(arg); ok {
			t.add(newSymbolToken(alias, TokenOption, t.known[alias].symbol))
			t.add(NewToken(value, TokenArgument))
			continue
		}

		if kt, ok := t.known[arg]; ok {
			switch kt.typ {
			case TokenOption:
				t.add(newSymbolToken(arg, TokenOption, kt.symbol))
			case TokenCommand:
				cmd := kt.symbol.(*Command)
				if cmd == t.current {
					t.add(NewToken(arg, TokenArgument))
				} else {
					t.enter(cmd)
					t.add(newSymbolToken(arg, TokenCommand, cmd))
				}
			}
			continue
		}

		t.add(NewToken(arg, TokenArgument))
	}

	return &TokenizeResult{Tokens: t.tokens, Errors: t.errors, rootSynthesized: synthesized}
}

func (t *tokenizer) add(tok Token) { t.tokens = append(t.tokens, tok) }

func (t *tokenizer) enter(cmd *Command) {
	t.current = cmd
	known, ok := t.scopes[cmd]
	if !ok {
		known = validTokens(cmd)
	}
	t.known = known
}

// normalizeRootCommand guarantees the argument list starts with the root
// command. The root is accepted by alias, executable path or executable name.
func normalizeRootCommand(root *Command, args []string) ([]string, bool) {
	list := make([]string, 0, len(args)+1)
	if len(args) > 0 && root.acceptsAsRoot(args[0]) {
		list = append(list, args...)
		if !root.HasAlias(list[0]) {
			list[0] = root.Name()
		}
		return list, false
	}
	list = append(list, root.Name())
	list = append(list, args...)
	return list, true
}

// isDirective matches "[key]" and "[key:value]".
func isDirective(arg string) bool {
	return len(arg) > 2 &&
		arg[0] == '[' &&
		arg[len(arg)-1] == ']' &&
		arg[1] != ']' &&
		arg[1] != ':'
}

// trySplit splits "--alias=value" and "--alias:value" when the left side is
// a known option alias.
func (t *tokenizer) trySplit(arg string) (string, string, bool) {
	i := strings.IndexAny(arg, ":=")
	if i <= 0 {
		return "", "", false
	}
	alias := arg[:i]
	kt, ok := t.known[alias]
	if !ok || kt.typ != TokenOption {
		return "", "", false
	}
	return alias, unquote(arg[i+1:]), true
}

// previousOptionExpectsArgument reports whether the last token is an option
// that requires a value. It looks at the option the token resolved to when
// it was produced.
func (t *tokenizer) previousOptionExpectsArgument() bool {
	if len(t.tokens) < 2 {
		return false
	}
	last := t.tokens[len(t.tokens)-1]
	if last.Type != TokenOption {
		return false
	}
	o, ok := last.symbol.(*Option)
	return ok && o.requiresValue()
}

// tryUnbundle splits "-abc" into "-a -b -c". It stops at the first option
// requiring a value and passes the rest of the token as that value. An
// unknown character ends unbundling with the rest as a value when the
// previous option accepts one; otherwise nothing is emitted.
func (t *tokenizer) tryUnbundle(arg string) bool {
	if len(arg) < 3 || arg[0] != '-' || arg[1] == '-' {
		return false
	}
	if _, known := t.known[arg]; known {
		return false
	}
	if t.previousOptionExpectsArgument() {
		return false
	}

	before := len(t.tokens)
	var last *Option
	for i := 1; i < len(arg); {
		r, size := utf8.DecodeRuneInString(arg[i:])
		if (r == ':' || r == '=') && last != nil {
			t.add(NewToken(unquote(arg[i+1:]), TokenArgument))
			return true
		}
		alias := "-" + string(r)
		kt, ok := t.known[alias]
		if !ok || kt.typ != TokenOption {
			if last != nil && last.TakesValue() {
				t.add(NewToken(arg[i:], TokenArgument))
				return true
			}
			t.tokens = t.tokens[:before]
			return false
		}
		opt := kt.symbol.(*Option)
		t.add(newSymbolToken(alias, TokenOption, opt))
		last = opt
		i += size
		if opt.requiresValue() {
			if rest := arg[i:]; rest != "" {
				if rest[0] == ':' || rest[0] == '=' {
					rest = unquote(rest[1:])
				}
				t.add(NewToken(rest, TokenArgument))
			}
			return true
		}
	}
	return true
}

// expandResponseFile reads the file named by an "@path" token and returns
// its tokens with nested references already expanded.
func (t *tokenizer) expandResponseFile(arg string) ([]string, *TokenizeError) {
	path := arg[1:]
	if path == "" {
		return nil, &TokenizeError{Message: t.cfg.resources.ResponseFileReferenceMalformed(arg), Token: arg}
	}
	return t.readResponseFile(arg, path, nil)
}

func (t *tokenizer) readResponseFile(arg, path string, stack []string) ([]string, *TokenizeError) {
	res := t.cfg.resources
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if slices.Contains(stack, abs) || len(stack) >= maxResponseFileDepth {
		return nil, &TokenizeError{Message: res.ResponseFileCycle(path), Token: arg}
	}

	data, err := t.cfg.readFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &TokenizeError{Message: res.ResponseFileNotFound(path), Token: arg, Err: err}
		}
		return nil, &TokenizeError{Message: res.ErrorReadingResponseFile(path, err), Token: arg, Err: err}
	}

	var out []string
	for _, tok := range t.splitResponseFile(string(data)) {
		if len(tok) > 1 && tok[0] == '@' {
			nested := tok[1:]
			if !filepath.IsAbs(nested) {
				nested = filepath.Join(filepath.Dir(path), nested)
			}
			expanded, terr := t.readResponseFile(tok, nested, append(stack, abs))
			if terr != nil {
				return nil, terr
			}
			out = append(out, expanded...)
			continue
		}
		out = append(out, tok)
	}
	return out, nil
}

func (t *tokenizer) splitResponseFile(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if t.cfg.responseFiles == ResponseFilesSpaceSeparated {
			out = append(out, SplitCommandLine(line)...)
			continue
		}
		out = append(out, line)
	}
	return out
}
