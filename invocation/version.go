package invocation

import (
	"errors"
	"fmt"

	"github.com/dzonerzy/go-cmdline/cmdline"
)

// versionOption adds the version option to root. It fails validation when
// anything else was given on the root command line.
func versionOption(root *cmdline.Command, res cmdline.Resources, aliases []string) *cmdline.Option {
	for _, alias := range aliases {
		if aliasTaken(root, alias) {
			return nil
		}
	}
	opt := cmdline.NewOptionWithArgument(cmdline.ArgumentNone(), aliases...).
		WithDescription(res.VersionOptionDescription())
	opt.AddValidator(func(or *cmdline.OptionResult) error {
		parent, ok := or.Parent().(*cmdline.CommandResult)
		if !ok {
			return nil
		}
		for _, child := range parent.Children() {
			if combined(child, or) {
				return errors.New(res.VersionOptionCannotBeCombinedWithOtherArguments(or.Token().Value))
			}
		}
		return nil
	})
	root.AddOption(opt)
	return opt
}

// combined reports whether child counts as something given alongside the
// version option.
func combined(child cmdline.SymbolResult, version *cmdline.OptionResult) bool {
	switch c := child.(type) {
	case *cmdline.OptionResult:
		return c != version && !c.IsImplicit()
	case *cmdline.ArgumentResult:
		return len(c.Tokens()) > 0
	case *cmdline.CommandResult:
		return true
	}
	return false
}

// versionMiddleware prints version and exits 0. When the version option
// itself is invalid the parse errors are left for error reporting.
func versionMiddleware(opt **cmdline.Option, version string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ic *cmdline.InvocationContext) error {
			r := ic.ParseResult()
			if *opt == nil || !r.HasOption(*opt) {
				return next(ic)
			}
			for _, e := range r.Errors() {
				if or, ok := e.SymbolResult.(*cmdline.OptionResult); ok && or.Option() == *opt {
					return next(ic)
				}
			}
			fmt.Fprintln(ic.Console().Out(), version)
			return cmdline.ExitWithError(cmdline.ErrVersionShown, 0)
		}
	}
}
