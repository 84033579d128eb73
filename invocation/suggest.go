package invocation

import (
	"fmt"

	"github.com/dzonerzy/go-cmdline/cmdline"
	"github.com/dzonerzy/go-cmdline/internal/fuzzy"
	"github.com/dzonerzy/go-cmdline/internal/pool"
)

// typoCorrections prints suggestions for every unmatched token and carries
// on; whether the tokens are errors is up to the parse.
func typoCorrections(suggester func() *fuzzy.Suggester) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ic *cmdline.InvocationContext) error {
			r := ic.ParseResult()
			if unmatched := r.UnmatchedTokens(); len(unmatched) > 0 {
				s := suggester()
				buf := pool.GetStringSlice()
				defer pool.PutStringSlice(buf)
				*buf = appendCandidates(*buf, r.CommandResult().Command())
				res := resourcesOf(ic)
				out := ic.Console().Out()
				for _, tok := range unmatched {
					suggestions := s.Suggest(tok.Value, *buf)
					if len(suggestions) == 0 {
						continue
					}
					fmt.Fprintln(out, res.SuggestionsTokenNotMatched(tok.Value))
					for _, sg := range suggestions {
						fmt.Fprintln(out, sg)
					}
				}
			}
			return next(ic)
		}
	}
}

// appendCandidates appends the aliases of the visible subcommands and
// options of cmd, inherited global options included.
func appendCandidates(out []string, cmd *cmdline.Command) []string {
	for _, sub := range cmd.Subcommands() {
		if !sub.IsHidden() {
			out = append(out, sub.Aliases()...)
		}
	}
	for _, o := range cmd.Options() {
		if !o.IsHidden() {
			out = append(out, o.Aliases()...)
		}
	}
	return out
}
