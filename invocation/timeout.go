package invocation

import (
	"context"
	"time"

	"github.com/dzonerzy/go-cmdline/cmdline"
)

// timeout runs the rest of the pipeline on a forked context in a goroutine
// and gives up after d, cancelling the invocation context. A panic in the
// goroutine is returned as a *RecoveredPanic. Once the invocation has given
// up, whatever the goroutine still does stays on the fork, which releases
// itself when the goroutine ends.
func timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ic *cmdline.InvocationContext) error {
			var cancel context.CancelFunc
			ic.OnContextCreated(func(_ context.Context, c context.CancelFunc) func() {
				cancel = c
				return nil
			})
			ctx := ic.Context()
			fork := ic.Fork()

			timer := time.NewTimer(d)
			defer timer.Stop()

			resultChan := make(chan error, 1)
			go func() {
				defer func() {
					if v := recover(); v != nil {
						resultChan <- recovered(fork, v)
					}
				}()
				resultChan <- next(fork)
			}()

			abandon := func() {
				go func() {
					<-resultChan
					fork.Release()
				}()
			}

			select {
			case err := <-resultChan:
				ic.Join(fork)
				return err
			case <-timer.C:
				cancel()
				abandon()
				return &TimeoutError{Duration: d, Command: commandName(ic)}
			case <-ctx.Done():
				abandon()
				return context.Canceled
			}
		}
	}
}
