//go:build unix

package invocation

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dzonerzy/go-cmdline/cmdline"
)

// TestCancelOnProcessTermination tests that SIGINT cancels the invocation
// context and exits with the canceled code.
func TestCancelOnProcessTermination(t *testing.T) {
	h := newHarness(action(func(ic *cmdline.InvocationContext) error {
		ctx := ic.Context()
		if err := syscall.Kill(syscall.Getpid(), syscall.SIGINT); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	}))
	cl := h.builder().UseExceptionHandler().CancelOnProcessTermination().Build()

	assert.Equal(t, 130, cl.Invoke(context.Background(), []string{"build"}))
}
