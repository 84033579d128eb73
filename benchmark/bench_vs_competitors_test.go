package benchmark_test

import (
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/urfave/cli/v2"
	cli3 "github.com/urfave/cli/v3"

	"github.com/dzonerzy/go-cmdline/cmdline"
	"github.com/dzonerzy/go-cmdline/console"
	"github.com/dzonerzy/go-cmdline/invocation"
)

// Benchmark simple CLI with basic flags
// Tests parsing performance with int and bool flags
// Every framework executes a command with flags for fair comparison

func noop(*cmdline.InvocationContext) error { return nil }

func newCommandLine(root *cmdline.Command) *invocation.CommandLine {
	return invocation.NewBuilder(root).
		WithConsole(console.Buffered(io.Discard, io.Discard)).
		UseDefaults().
		Build()
}

func BenchmarkSimpleCLI_Cmdline(b *testing.B) {
	root := cmdline.NewRootCommand("bench", "benchmark app")
	run := cmdline.NewCommand("run", "Run benchmark").
		AddOption(cmdline.NewOption[int]("-p", "--port").Default(8080)).
		AddOption(cmdline.NewFlag("-v", "--verbose")).
		Action(noop)
	root.AddCommand(run)
	cl := newCommandLine(root)

	args := []string{"run", "--port", "9000", "--verbose"}
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if code := cl.Invoke(ctx, args); code != 0 {
			b.Fatalf("exit code %d", code)
		}
	}
}

func BenchmarkSimpleCLI_Cobra(b *testing.B) {
	args := []string{"run", "--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		runCmd := &cobra.Command{
			Use: "run",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		runCmd.Flags().IntP("port", "p", 8080, "Server port")
		runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
		rootCmd.AddCommand(runCmd)
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkSimpleCLI_Urfave(b *testing.B) {
	args := []string{"bench", "run", "--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "run",
					Flags: []cli.Flag{
						&cli.IntFlag{Name: "port", Value: 8080, Usage: "Server port"},
						&cli.BoolFlag{Name: "verbose", Usage: "Verbose output"},
					},
					Action: func(_ *cli.Context) error { return nil },
				},
			},
		}
		_ = app.Run(args)
	}
}

func BenchmarkSimpleCLI_UrfaveV3(b *testing.B) {
	args := []string{"bench", "run", "--port", "9000", "--verbose"}
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli3.Command{
			Name: "bench",
			Commands: []*cli3.Command{
				{
					Name: "run",
					Flags: []cli3.Flag{
						&cli3.IntFlag{Name: "port", Value: 8080, Usage: "Server port"},
						&cli3.BoolFlag{Name: "verbose", Usage: "Verbose output"},
					},
					Action: func(context.Context, *cli3.Command) error { return nil },
				},
			},
		}
		_ = app.Run(ctx, args)
	}
}

func BenchmarkSimpleCLI_Pflag(b *testing.B) {
	args := []string{"--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
		fs.IntP("port", "p", 8080, "Server port")
		fs.BoolP("verbose", "v", false, "Verbose output")
		_ = fs.Parse(args)
	}
}

// Benchmark with subcommands
// Tests command routing and flag parsing in subcommands

func BenchmarkSubcommands_Cmdline(b *testing.B) {
	root := cmdline.NewRootCommand("bench", "benchmark app")
	root.AddGlobalOption(cmdline.NewFlag("--global"))
	serve := cmdline.NewCommand("serve", "Start server").
		AddOption(cmdline.NewOption[int]("-p", "--port").Default(8080)).
		AddOption(cmdline.NewOption[string]("--host").Default("localhost")).
		Action(noop)
	root.AddCommand(serve)
	cl := newCommandLine(root)

	args := []string{"--global", "serve", "--port", "9000", "--host", "0.0.0.0"}
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if code := cl.Invoke(ctx, args); code != 0 {
			b.Fatalf("exit code %d", code)
		}
	}
}

func BenchmarkSubcommands_Cobra(b *testing.B) {
	args := []string{"--global", "serve", "--port", "9000", "--host", "0.0.0.0"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		rootCmd.PersistentFlags().Bool("global", false, "Global flag")

		serveCmd := &cobra.Command{
			Use: "serve",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		serveCmd.Flags().IntP("port", "p", 8080, "Server port")
		serveCmd.Flags().String("host", "localhost", "Server host")
		rootCmd.AddCommand(serveCmd)

		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkSubcommands_Urfave(b *testing.B) {
	args := []string{"bench", "--global", "serve", "--port", "9000", "--host", "0.0.0.0"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "global", Usage: "Global flag"},
			},
			Commands: []*cli.Command{
				{
					Name: "serve",
					Flags: []cli.Flag{
						&cli.IntFlag{Name: "port", Value: 8080, Usage: "Server port"},
						&cli.StringFlag{Name: "host", Value: "localhost", Usage: "Server host"},
					},
					Action: func(_ *cli.Context) error { return nil },
				},
			},
		}
		_ = app.Run(args)
	}
}

func BenchmarkSubcommands_UrfaveV3(b *testing.B) {
	args := []string{"bench", "--global", "serve", "--port", "9000", "--host", "0.0.0.0"}
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli3.Command{
			Name: "bench",
			Flags: []cli3.Flag{
				&cli3.BoolFlag{Name: "global", Usage: "Global flag"},
			},
			Commands: []*cli3.Command{
				{
					Name: "serve",
					Flags: []cli3.Flag{
						&cli3.IntFlag{Name: "port", Value: 8080, Usage: "Server port"},
						&cli3.StringFlag{Name: "host", Value: "localhost", Usage: "Server host"},
					},
					Action: func(context.Context, *cli3.Command) error { return nil },
				},
			},
		}
		_ = app.Run(ctx, args)
	}
}

// Benchmark many flags
// Tests performance with many flags (realistic CLI tool scenario)

var manyFlagArgs = []string{
	"--flag1", "test1",
	"--flag2", "test2",
	"--flag3", "test3",
	"--port", "9000",
	"--verbose",
	"--debug",
}

func BenchmarkManyFlags_Cmdline(b *testing.B) {
	root := cmdline.NewRootCommand("bench", "benchmark app")
	run := cmdline.NewCommand("run", "Run benchmark")
	for _, name := range []string{"flag1", "flag2", "flag3", "flag4", "flag5"} {
		run.AddOption(cmdline.NewOption[string]("--" + name).Default("value"))
	}
	run.AddOption(cmdline.NewOption[int]("-p", "--port").Default(8080))
	for _, name := range []string{"verbose", "debug", "quiet", "force"} {
		run.AddOption(cmdline.NewFlag("--" + name))
	}
	run.Action(noop)
	root.AddCommand(run)
	cl := newCommandLine(root)

	args := append([]string{"run"}, manyFlagArgs...)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if code := cl.Invoke(ctx, args); code != 0 {
			b.Fatalf("exit code %d", code)
		}
	}
}

func BenchmarkManyFlags_Cobra(b *testing.B) {
	args := append([]string{"run"}, manyFlagArgs...)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		runCmd := &cobra.Command{
			Use: "run",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		runCmd.Flags().String("flag1", "value", "Flag 1")
		runCmd.Flags().String("flag2", "value", "Flag 2")
		runCmd.Flags().String("flag3", "value", "Flag 3")
		runCmd.Flags().String("flag4", "value", "Flag 4")
		runCmd.Flags().String("flag5", "value", "Flag 5")
		runCmd.Flags().IntP("port", "p", 8080, "Port")
		runCmd.Flags().Bool("verbose", false, "Verbose")
		runCmd.Flags().Bool("debug", false, "Debug")
		runCmd.Flags().Bool("quiet", false, "Quiet")
		runCmd.Flags().Bool("force", false, "Force")
		rootCmd.AddCommand(runCmd)
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkManyFlags_Urfave(b *testing.B) {
	args := append([]string{"bench", "run"}, manyFlagArgs...)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "run",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "flag1", Value: "value"},
						&cli.StringFlag{Name: "flag2", Value: "value"},
						&cli.StringFlag{Name: "flag3", Value: "value"},
						&cli.StringFlag{Name: "flag4", Value: "value"},
						&cli.StringFlag{Name: "flag5", Value: "value"},
						&cli.IntFlag{Name: "port", Value: 8080},
						&cli.BoolFlag{Name: "verbose"},
						&cli.BoolFlag{Name: "debug"},
						&cli.BoolFlag{Name: "quiet"},
						&cli.BoolFlag{Name: "force"},
					},
					Action: func(_ *cli.Context) error { return nil },
				},
			},
		}
		_ = app.Run(args)
	}
}

func BenchmarkManyFlags_Pflag(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
		fs.String("flag1", "value", "Flag 1")
		fs.String("flag2", "value", "Flag 2")
		fs.String("flag3", "value", "Flag 3")
		fs.String("flag4", "value", "Flag 4")
		fs.String("flag5", "value", "Flag 5")
		fs.IntP("port", "p", 8080, "Port")
		fs.Bool("verbose", false, "Verbose")
		fs.Bool("debug", false, "Debug")
		fs.Bool("quiet", false, "Quiet")
		fs.Bool("force", false, "Force")
		_ = fs.Parse(manyFlagArgs)
	}
}

// Benchmark nested subcommands
// Tests deep command hierarchies (realistic for complex tools)

func BenchmarkNestedCommands_Cmdline(b *testing.B) {
	root := cmdline.NewRootCommand("bench", "benchmark app")
	server := cmdline.NewCommand("server", "Server management")
	server.AddCommand(cmdline.NewCommand("start", "Start server").Action(noop))
	root.AddCommand(server)
	cl := newCommandLine(root)

	args := []string{"server", "start"}
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if code := cl.Invoke(ctx, args); code != 0 {
			b.Fatalf("exit code %d", code)
		}
	}
}

func BenchmarkNestedCommands_Cobra(b *testing.B) {
	args := []string{"server", "start"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		serverCmd := &cobra.Command{Use: "server"}
		startCmd := &cobra.Command{
			Use: "start",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		serverCmd.AddCommand(startCmd)
		rootCmd.AddCommand(serverCmd)
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkNestedCommands_Urfave(b *testing.B) {
	args := []string{"bench", "server", "start"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "server",
					Subcommands: []*cli.Command{
						{
							Name:   "start",
							Action: func(_ *cli.Context) error { return nil },
						},
					},
				},
			},
		}
		_ = app.Run(args)
	}
}

func BenchmarkNestedCommands_UrfaveV3(b *testing.B) {
	args := []string{"bench", "server", "start"}
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli3.Command{
			Name: "bench",
			Commands: []*cli3.Command{
				{
					Name: "server",
					Commands: []*cli3.Command{
						{
							Name:   "start",
							Action: func(context.Context, *cli3.Command) error { return nil },
						},
					},
				},
			},
		}
		_ = app.Run(ctx, args)
	}
}
