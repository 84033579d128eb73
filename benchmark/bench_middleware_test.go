//nolint:testpackage // using package name 'benchmark' to share fixtures between files
package benchmark

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dzonerzy/go-cmdline/cmdline"
	"github.com/dzonerzy/go-cmdline/console"
	"github.com/dzonerzy/go-cmdline/invocation"
)

// Category: invocation pipeline

func buildPipelineRoot() *cmdline.Command {
	root := cmdline.NewRootCommand("bench", "bench")
	root.AddGlobalOption(cmdline.NewFlag("-v", "--verbose"))
	root.AddCommand(cmdline.NewCommand("run", "").
		Action(func(*cmdline.InvocationContext) error { return nil }))
	return root
}

func BenchmarkPipeline(b *testing.B) {
	cases := []struct {
		name  string
		setup func(*invocation.Builder) *invocation.Builder
	}{
		{"Bare", func(bl *invocation.Builder) *invocation.Builder { return bl }},
		{"Defaults", (*invocation.Builder).UseDefaults},
		{"Full", func(bl *invocation.Builder) *invocation.Builder {
			return bl.UseDefaults().
				UseLogging(slog.New(slog.DiscardHandler)).
				UseMetrics(prometheus.NewRegistry()).
				UseTimeout(10 * time.Second)
		}},
	}
	args := []string{"run", "-v"}
	ctx := context.Background()
	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			bl := invocation.NewBuilder(buildPipelineRoot()).
				WithConsole(console.Buffered(io.Discard, io.Discard))
			cl := tc.setup(bl).Build()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if code := cl.Invoke(ctx, args); code != 0 {
					b.Fatalf("exit code %d", code)
				}
			}
		})
	}
}
