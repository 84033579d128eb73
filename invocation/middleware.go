// Package invocation runs the handler of a parsed command through an
// ordered chain of middleware.
package invocation

import (
	"github.com/dzonerzy/go-cmdline/cmdline"
)

// HandlerFunc is one step of the pipeline.
type HandlerFunc func(ic *cmdline.InvocationContext) error

// Middleware wraps the rest of the pipeline. It may short-circuit by
// returning without calling next, usually with a *cmdline.ExitError.
type Middleware func(next HandlerFunc) HandlerFunc

// Order positions middleware in the pipeline. Lower orders run first, that
// is, further out. Middleware with equal order keep the order they were
// added in.
type Order int

// Orders of the built-in middleware.
const (
	OrderExceptionHandler     Order = -3000
	OrderCancellation         Order = -2800
	OrderEnvironmentDirective Order = -2600
	OrderLogging              Order = -2500
	OrderMetrics              Order = -2400
	OrderParseDirective       Order = -2000
	OrderTypoCorrection       Order = -1900
	OrderVersion              Order = -1200
	OrderHelp                 Order = -1100
	OrderDefault              Order = 0
	OrderParseErrorReporting  Order = 1000
	OrderTimeout              Order = 1500
)

// Chain is a list of middleware applied in order.
type Chain []Middleware

// Apply wraps h so that the first middleware of the chain runs first.
func (c Chain) Apply(h HandlerFunc) HandlerFunc {
	for i := len(c) - 1; i >= 0; i-- {
		h = c[i](h)
	}
	return h
}

// invokeHandler is the innermost step: it calls the handler of the
// innermost command. A parse with errors never reaches a handler.
func invokeHandler(ic *cmdline.InvocationContext) error {
	r := ic.ParseResult()
	if r.HasErrors() {
		return r.Err()
	}
	h := r.CommandResult().Command().Handler()
	if h == nil {
		return nil
	}
	code, err := h.Invoke(ic)
	ic.ExitCode = code
	return err
}
