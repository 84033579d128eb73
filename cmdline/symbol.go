package cmdline

import (
	"fmt"
	"slices"
	"strings"
)

// Symbol is the common identity shared by commands, options and arguments.
type Symbol interface {
	// Name returns the canonical name of the symbol.
	Name() string
	// Description returns the user facing description.
	Description() string
	// IsHidden reports whether the symbol is hidden from help and suggestions.
	IsHidden() bool
	// Parents returns every symbol this symbol has been added to.
	Parents() []Symbol
	// Children returns the direct children of the symbol.
	Children() []Symbol

	base() *symbol
}

// symbol holds the state common to every Symbol implementation.
type symbol struct {
	name        string
	description string
	hidden      bool
	parents     []Symbol
}

func (s *symbol) Name() string        { return s.name }
func (s *symbol) Description() string { return s.description }
func (s *symbol) IsHidden() bool      { return s.hidden }
func (s *symbol) Parents() []Symbol   { return s.parents }
func (s *symbol) base() *symbol       { return s }

func (s *symbol) addParent(p Symbol) {
	if !slices.Contains(s.parents, p) {
		s.parents = append(s.parents, p)
	}
}

// firstParent returns the symbol the receiver was first attached to, or nil.
func (s *symbol) firstParent() Symbol {
	if len(s.parents) == 0 {
		return nil
	}
	return s.parents[0]
}

// identifier is a symbol addressable by one or more aliases.
type identifier struct {
	symbol
	aliases      []string
	explicitName bool
}

// Aliases returns the raw aliases, prefixes included.
func (i *identifier) Aliases() []string { return i.aliases }

// UnprefixedAliases returns the aliases with their prefix removed.
func (i *identifier) UnprefixedAliases() []string {
	out := make([]string, len(i.aliases))
	for n, a := range i.aliases {
		out[n] = RemovePrefix(a)
	}
	return out
}

// HasAlias reports whether alias is one of the raw aliases.
func (i *identifier) HasAlias(alias string) bool {
	return slices.Contains(i.aliases, alias)
}

// HasUnprefixedAlias reports whether alias matches an alias with its prefix
// removed, ignoring case.
func (i *identifier) HasUnprefixedAlias(alias string) bool {
	alias = RemovePrefix(alias)
	for _, a := range i.aliases {
		if strings.EqualFold(RemovePrefix(a), alias) {
			return true
		}
	}
	return false
}

// longestAlias returns the longest raw alias; ties keep the first declared.
func (i *identifier) longestAlias() string {
	longest := ""
	for _, a := range i.aliases {
		if len(a) > len(longest) {
			longest = a
		}
	}
	return longest
}

func (i *identifier) addAlias(alias string) {
	if alias == "" || strings.TrimSpace(alias) != alias {
		panic(fmt.Sprintf("cmdline: invalid alias %q", alias))
	}
	if i.HasAlias(alias) {
		return
	}
	i.aliases = append(i.aliases, alias)
	if !i.explicitName {
		i.name = RemovePrefix(i.longestAlias())
	}
}

// RemovePrefix strips a leading "--", "-" or "/" from an alias.
func RemovePrefix(alias string) string {
	switch {
	case strings.HasPrefix(alias, "--") && len(alias) > 2:
		return alias[2:]
	case strings.HasPrefix(alias, "-") && len(alias) > 1:
		return alias[1:]
	case strings.HasPrefix(alias, "/") && len(alias) > 1:
		return alias[1:]
	}
	return alias
}

// checkAliasesFree panics when any of the aliases of sym collides with an
// alias already owned by a child of c other than sym itself.
func (c *Command) checkAliasesFree(sym Symbol, aliases []string) {
	for _, alias := range aliases {
		if owner := c.childByAlias(alias); owner != nil && owner != sym {
			panic(fmt.Sprintf("cmdline: alias %q is already in use in command %q by %q", alias, c.Name(), owner.Name()))
		}
	}
}

// collides reports whether any alias of o is already taken by a child of c.
func (c *Command) collides(o *Option) bool {
	for _, alias := range o.aliases {
		if owner := c.childByAlias(alias); owner != nil && owner != Symbol(o) {
			return true
		}
	}
	return false
}

func notifyAliasAdded(sym Symbol, alias string) {
	for _, p := range sym.Parents() {
		if cmd, ok := p.(*Command); ok {
			cmd.checkAliasesFree(sym, []string{alias})
		}
	}
}
