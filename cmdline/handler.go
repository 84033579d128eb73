package cmdline

import "io"

// Handler runs a command. The returned int is the process exit code; a
// non-nil error is resolved to an exit code by the invocation pipeline.
type Handler interface {
	Invoke(ctx *InvocationContext) (int, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx *InvocationContext) (int, error)

// Invoke calls f.
func (f HandlerFunc) Invoke(ctx *InvocationContext) (int, error) { return f(ctx) }

// ActionFunc is a handler that reports only an error. The exit code is
// whatever the context holds when it returns.
type ActionFunc func(ctx *InvocationContext) error

// Invoke calls f.
func (f ActionFunc) Invoke(ctx *InvocationContext) (int, error) {
	if err := f(ctx); err != nil {
		return ctx.ExitCode, err
	}
	return ctx.ExitCode, nil
}

// HelpRenderer writes help for a command.
type HelpRenderer interface {
	Render(w io.Writer, cmd *Command)
}
