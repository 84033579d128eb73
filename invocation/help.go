package invocation

import (
	"github.com/dzonerzy/go-cmdline/cmdline"
)

var helpAliases = []string{"-h", "/h", "--help", "-?", "/?"}

// helpOption adds the help option to root as a global option, using only
// the aliases root leaves free.
func helpOption(root *cmdline.Command, res cmdline.Resources) *cmdline.Option {
	var free []string
	for _, alias := range helpAliases {
		if aliasTaken(root, alias) {
			continue
		}
		free = append(free, alias)
	}
	if len(free) == 0 {
		return nil
	}
	opt := cmdline.NewOptionWithArgument(cmdline.ArgumentNone(), free...).
		WithDescription(res.HelpOptionDescription())
	root.AddGlobalOption(opt)
	return opt
}

func aliasTaken(cmd *cmdline.Command, alias string) bool {
	if _, ok := cmd.Option(alias); ok {
		return true
	}
	_, ok := cmd.Subcommand(alias)
	return ok
}

// helpMiddleware shows help for the innermost command when the help option
// is present, whatever else the command line holds.
func helpMiddleware(opt **cmdline.Option) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ic *cmdline.InvocationContext) error {
			r := ic.ParseResult()
			if *opt == nil || !r.HasOption(*opt) {
				return next(ic)
			}
			if h := ic.HelpRenderer(); h != nil {
				h.Render(ic.Console().Out(), r.CommandResult().Command())
			}
			return cmdline.ExitWithError(cmdline.ErrHelpShown, 0)
		}
	}
}
