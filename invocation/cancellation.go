package invocation

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/dzonerzy/go-cmdline/cmdline"
)

// cancelOnTermination installs the signal handler lazily, when the handler
// first asks for the invocation context.
func cancelOnTermination() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ic *cmdline.InvocationContext) error {
			var signaled atomic.Bool
			ic.OnContextCreated(func(_ context.Context, cancel context.CancelFunc) func() {
				sigs := make(chan os.Signal, 1)
				done := make(chan struct{})
				signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
				go func() {
					select {
					case <-sigs:
						signaled.Store(true)
						cancel()
					case <-done:
					}
				}()
				return func() {
					signal.Stop(sigs)
					close(done)
				}
			})

			err := next(ic)
			if signaled.Load() && (err == nil || errors.Is(err, context.Canceled)) {
				ic.ExitCode = exitCodesOf(ic).Defaults().Canceled
				return nil
			}
			return err
		}
	}
}
