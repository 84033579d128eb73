package invocation

import (
	"fmt"

	"github.com/dzonerzy/go-cmdline/cmdline"
	"github.com/dzonerzy/go-cmdline/console"
)

// parseErrorReporting prints every parse error to stderr followed by help
// for the innermost command, then exits with the parse error code.
func parseErrorReporting() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ic *cmdline.InvocationContext) error {
			r := ic.ParseResult()
			if !r.HasErrors() {
				return next(ic)
			}
			con := ic.Console()
			style, profile := console.DefaultTheme().Error, con.ErrProfile()
			for _, e := range r.Errors() {
				fmt.Fprintln(con.Err(), style.Render(profile, e.Message))
			}
			if h := ic.HelpRenderer(); h != nil {
				fmt.Fprintln(con.Out())
				h.Render(con.Out(), r.CommandResult().Command())
			}
			return cmdline.Exit(exitCodesOf(ic).ResolveParseErrors(r.Errors()))
		}
	}
}
