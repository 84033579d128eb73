package invocation

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/dzonerzy/go-cmdline/cmdline"
	"github.com/dzonerzy/go-cmdline/console"
)

const stackSize = 4096

func exceptionHandler(report func(ic *cmdline.InvocationContext, err error) int) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ic *cmdline.InvocationContext) (err error) {
			defer func() {
				if v := recover(); v != nil {
					err = handleError(ic, recovered(ic, v), report)
				}
			}()
			if err = next(ic); err != nil {
				err = handleError(ic, err, report)
			}
			return err
		}
	}
}

func recovered(ic *cmdline.InvocationContext, v any) *RecoveredPanic {
	stack := make([]byte, stackSize)
	stack = stack[:runtime.Stack(stack, false)]
	return &RecoveredPanic{Value: v, Command: commandName(ic), Stack: stack}
}

// handleError reports err and records its exit code. Requested exits and
// parse errors pass through untouched.
func handleError(ic *cmdline.InvocationContext, err error, report func(*cmdline.InvocationContext, error) int) error {
	var exit *cmdline.ExitError
	if errors.As(err, &exit) {
		return err
	}
	var perrs cmdline.ParseErrors
	if errors.As(err, &perrs) {
		return err
	}

	codes := exitCodesOf(ic)
	switch {
	case errors.Is(err, context.Canceled):
		ic.ExitCode = codes.Defaults().Canceled
	case report != nil:
		ic.ExitCode = report(ic, err)
	default:
		con := ic.Console()
		msg := resourcesOf(ic).UnhandledException() + err.Error()
		fmt.Fprintln(con.Err(), console.DefaultTheme().Error.Render(con.ErrProfile(), msg))
		ic.ExitCode = codes.Resolve(err)
	}
	return nil
}
