package invocation

import (
	"fmt"
	"os"
	"strings"

	"github.com/dzonerzy/go-cmdline/cmdline"
)

// Directive names.
const (
	ParseDirectiveName = "parse"
	EnvDirectiveName   = "env"
)

// parseDirective prints the diagram of the parse and exits 0 for a valid
// command line and the parse error code otherwise.
func parseDirective() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ic *cmdline.InvocationContext) error {
			r := ic.ParseResult()
			if !r.Directives().Contains(ParseDirectiveName) {
				return next(ic)
			}
			fmt.Fprintln(ic.Console().Out(), r.Diagram())
			if r.HasErrors() {
				return cmdline.Exit(exitCodesOf(ic).ResolveParseErrors(r.Errors()))
			}
			return cmdline.Exit(0)
		}
	}
}

// environmentDirective sets the variables named by "[env:NAME=value]" for
// the rest of the invocation and parses again so options reading the
// environment see them. Previous values are restored afterwards.
func environmentDirective() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ic *cmdline.InvocationContext) error {
			r := ic.ParseResult()
			values, ok := r.Directives().Values(EnvDirectiveName)
			if !ok || len(values) == 0 {
				return next(ic)
			}

			changed := false
			for _, v := range values {
				name, value, found := strings.Cut(v, "=")
				name = strings.TrimSpace(name)
				if !found || name == "" {
					continue
				}
				restoreEnv(ic, name)
				if err := os.Setenv(name, value); err != nil {
					return err
				}
				changed = true
			}
			if changed && r.Parser() != nil {
				ic.SetParseResult(r.Parser().Parse(rawArgs(ic)))
			}
			return next(ic)
		}
	}
}

func restoreEnv(ic *cmdline.InvocationContext, name string) {
	prev, had := os.LookupEnv(name)
	ic.Defer(func() {
		if had {
			_ = os.Setenv(name, prev)
		} else {
			_ = os.Unsetenv(name)
		}
	})
}

// rawArgs returns the arguments the invocation was started with, or the
// token values when it was started from a parse result.
func rawArgs(ic *cmdline.InvocationContext) []string {
	if v, ok := ic.Get(argsKey); ok {
		if args, ok := v.([]string); ok {
			return args
		}
	}
	toks := ic.ParseResult().Tokens()
	args := make([]string, len(toks))
	for i, t := range toks {
		args[i] = t.Value
	}
	return args
}
