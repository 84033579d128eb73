package cmdline

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Command is a symbol owning arguments, options and subcommands.
type Command struct {
	identifier
	arguments   []*Argument
	options     []*Option
	subcommands []*Command
	globals     []*Option
	validators  []func(*CommandResult) error
	handler     Handler

	treatUnmatchedTokensAsErrors bool
	root                         bool
	executablePath               string
}

// NewCommand creates a command named name. The name is also its first alias.
func NewCommand(name, description string) *Command {
	if name == "" {
		panic("cmdline: command name must not be empty")
	}
	c := &Command{treatUnmatchedTokensAsErrors: true}
	c.description = description
	c.name = name
	c.explicitName = true
	c.addAlias(name)
	return c
}

// NewRootCommand creates the root of a command tree. An empty name binds the
// root to the running executable's name.
func NewRootCommand(name, description string) *Command {
	exe := ""
	if len(os.Args) > 0 {
		exe = os.Args[0]
	}
	if name == "" {
		name = ExecutableName(exe)
	}
	c := NewCommand(name, description)
	c.root = true
	c.executablePath = exe
	return c
}

// ExecutableName returns the base name of path without a platform executable
// extension.
func ExecutableName(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "app"
	}
	for _, ext := range []string{".exe", ".dll", ".EXE", ".DLL"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// IsRoot reports whether the command was created with NewRootCommand.
func (c *Command) IsRoot() bool { return c.root }

// AddAlias adds another name the command can be invoked by.
func (c *Command) AddAlias(alias string) *Command {
	notifyAliasAdded(c, alias)
	c.addAlias(alias)
	return c
}

// WithDescription sets the description shown in help.
func (c *Command) WithDescription(description string) *Command {
	c.description = description
	return c
}

// Hidden hides the command from help and suggestions.
func (c *Command) Hidden() *Command {
	c.hidden = true
	return c
}

// TreatUnmatchedTokensAsErrors controls whether unmatched tokens become parse
// errors when this command is the innermost command. Defaults to true.
func (c *Command) TreatUnmatchedTokensAsErrors(enabled bool) *Command {
	c.treatUnmatchedTokensAsErrors = enabled
	return c
}

// AddArgument appends a positional argument.
func (c *Command) AddArgument(a *Argument) *Command {
	if slices.Contains(c.arguments, a) {
		return c
	}
	c.arguments = append(c.arguments, a)
	a.addParent(c)
	return c
}

// AddOption adds an option local to this command.
func (c *Command) AddOption(o *Option) *Command {
	if slices.Contains(c.options, o) {
		return c
	}
	c.checkAliasesFree(o, o.aliases)
	c.options = append(c.options, o)
	o.addParent(c)
	return c
}

// AddGlobalOption adds an option to this command that is inherited by every
// descendant command not already defining a colliding alias.
func (c *Command) AddGlobalOption(o *Option) *Command {
	c.AddOption(o)
	if !slices.Contains(c.globals, o) {
		c.globals = append(c.globals, o)
	}
	return c
}

// AddCommand adds a subcommand.
func (c *Command) AddCommand(sub *Command) *Command {
	if sub.root {
		panic(fmt.Sprintf("cmdline: root command %q cannot be a subcommand", sub.Name()))
	}
	if slices.Contains(c.subcommands, sub) {
		return c
	}
	c.checkAliasesFree(sub, sub.aliases)
	c.subcommands = append(c.subcommands, sub)
	sub.addParent(c)
	return c
}

// AddValidator registers a validator run against the command's result.
func (c *Command) AddValidator(fn func(*CommandResult) error) *Command {
	c.validators = append(c.validators, fn)
	return c
}

// SetHandler sets the handler invoked when this command is the innermost
// command of a parse.
func (c *Command) SetHandler(h Handler) *Command {
	c.handler = h
	return c
}

// Action sets a plain action as the command handler.
func (c *Command) Action(fn ActionFunc) *Command {
	return c.SetHandler(fn)
}

// Handler returns the command handler or nil.
func (c *Command) Handler() Handler { return c.handler }

// Arguments returns the positional arguments in declaration order.
func (c *Command) Arguments() []*Argument { return c.arguments }

// Options returns local and inherited options.
func (c *Command) Options() []*Option { return c.options }

// GlobalOptions returns the options declared global on this command.
func (c *Command) GlobalOptions() []*Option { return c.globals }

// Subcommands returns the direct subcommands.
func (c *Command) Subcommands() []*Command { return c.subcommands }

// Children returns arguments, options and subcommands.
func (c *Command) Children() []Symbol {
	out := make([]Symbol, 0, len(c.arguments)+len(c.options)+len(c.subcommands))
	for _, a := range c.arguments {
		out = append(out, a)
	}
	for _, o := range c.options {
		out = append(out, o)
	}
	for _, s := range c.subcommands {
		out = append(out, s)
	}
	return out
}

// Subcommand returns the subcommand answering to alias.
func (c *Command) Subcommand(alias string) (*Command, bool) {
	for _, s := range c.subcommands {
		if s.HasAlias(alias) {
			return s, true
		}
	}
	return nil, false
}

// Option returns the option answering to alias.
func (c *Command) Option(alias string) (*Option, bool) {
	for _, o := range c.options {
		if o.HasAlias(alias) {
			return o, true
		}
	}
	return nil, false
}

func (c *Command) childByAlias(alias string) Symbol {
	if o, ok := c.Option(alias); ok {
		return o
	}
	if s, ok := c.Subcommand(alias); ok {
		return s
	}
	return nil
}

// Path returns the names of the command and its first-parent ancestors,
// root first.
func (c *Command) Path() []string {
	var path []string
	for cur := c; cur != nil; {
		path = append(path, cur.Name())
		parent, _ := cur.firstParent().(*Command)
		cur = parent
	}
	slices.Reverse(path)
	return path
}

// acceptsAsRoot reports whether arg names the root command as the first
// process argument.
func (c *Command) acceptsAsRoot(arg string) bool {
	if c.HasAlias(arg) {
		return true
	}
	if c.executablePath != "" && arg == c.executablePath {
		return true
	}
	return strings.EqualFold(ExecutableName(arg), c.Name()) && strings.ContainsAny(arg, `/\.`)
}

// propagateGlobalOptions copies inherited global options into every
// descendant that has no colliding alias. Calling it again is a no-op.
func (c *Command) propagateGlobalOptions(inherited []*Option) {
	for _, g := range inherited {
		if slices.Contains(c.options, g) || c.collides(g) {
			continue
		}
		c.options = append(c.options, g)
		g.addParent(c)
	}
	next := slices.Concat(inherited, c.globals)
	for _, sub := range c.subcommands {
		sub.propagateGlobalOptions(next)
	}
}

// walk visits c and every descendant command once.
func (c *Command) walk(fn func(*Command)) {
	seen := make(map[*Command]bool)
	var visit func(*Command)
	visit = func(cmd *Command) {
		if seen[cmd] {
			return
		}
		seen[cmd] = true
		fn(cmd)
		for _, sub := range cmd.subcommands {
			visit(sub)
		}
	}
	visit(c)
}
