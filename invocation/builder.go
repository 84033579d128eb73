package invocation

import (
	"cmp"
	"context"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dzonerzy/go-cmdline/cmdline"
	"github.com/dzonerzy/go-cmdline/console"
	"github.com/dzonerzy/go-cmdline/help"
	"github.com/dzonerzy/go-cmdline/internal/fuzzy"
)

// TimeoutExitCode is the exit code of an invocation that timed out.
const TimeoutExitCode = 124

type entry struct {
	order Order
	mw    Middleware
}

// Builder assembles a CommandLine from a command tree and middleware.
type Builder struct {
	root       *cmdline.Command
	parserOpts []cmdline.ConfigOption
	console    *console.Console
	help       cmdline.HelpRenderer
	exitCodes  *cmdline.ExitCodes
	suggester  *fuzzy.Suggester
	services   map[reflect.Type]func(*cmdline.InvocationContext) any
	middleware []entry
	// setup runs before the parser is built, while the tree may still change.
	setup []func(res cmdline.Resources)
}

// NewBuilder starts a builder for root.
func NewBuilder(root *cmdline.Command) *Builder {
	if root == nil {
		panic("invocation: nil root command")
	}
	return &Builder{
		root:      root,
		exitCodes: cmdline.NewExitCodes(),
		suggester: fuzzy.NewSuggester(),
		services:  make(map[reflect.Type]func(*cmdline.InvocationContext) any),
	}
}

// WithParserOptions appends parser configuration.
func (b *Builder) WithParserOptions(opts ...cmdline.ConfigOption) *Builder {
	b.parserOpts = append(b.parserOpts, opts...)
	return b
}

// WithConsole sets the console invocations write to.
func (b *Builder) WithConsole(con *console.Console) *Builder {
	b.console = con
	return b
}

// WithHelpRenderer replaces the help renderer.
func (b *Builder) WithHelpRenderer(r cmdline.HelpRenderer) *Builder {
	b.help = r
	return b
}

// WithExitCodes replaces the exit code mapping.
func (b *Builder) WithExitCodes(codes *cmdline.ExitCodes) *Builder {
	if codes != nil {
		b.exitCodes = codes
	}
	return b
}

// WithSuggester replaces the suggester used for typo corrections.
func (b *Builder) WithSuggester(s *fuzzy.Suggester) *Builder {
	if s != nil {
		b.suggester = s
	}
	return b
}

// AddService registers a service factory on every invocation.
func (b *Builder) AddService(typ reflect.Type, factory func(*cmdline.InvocationContext) any) *Builder {
	b.services[typ] = factory
	return b
}

// Use adds middleware at OrderDefault.
func (b *Builder) Use(mw ...Middleware) *Builder {
	for _, m := range mw {
		b.UseAt(OrderDefault, m)
	}
	return b
}

// UseAt adds middleware at the given order.
func (b *Builder) UseAt(order Order, mw Middleware) *Builder {
	b.middleware = append(b.middleware, entry{order: order, mw: mw})
	return b
}

// UseDefaults enables the exception handler, cancellation on process
// termination, both directives, typo corrections, help and parse error
// reporting. The version option needs a version string and is left to
// UseVersionOption.
func (b *Builder) UseDefaults() *Builder {
	return b.UseExceptionHandler().
		CancelOnProcessTermination().
		UseEnvironmentVariableDirective().
		UseParseDirective().
		UseTypoCorrections().
		UseHelp().
		UseParseErrorReporting()
}

// UseExceptionHandler reports errors and panics that escape the handler on
// stderr and maps them to an exit code.
func (b *Builder) UseExceptionHandler() *Builder {
	return b.UseExceptionHandlerFunc(nil)
}

// UseExceptionHandlerFunc is UseExceptionHandler with a custom reporter. fn
// returns the exit code.
func (b *Builder) UseExceptionHandlerFunc(fn func(ic *cmdline.InvocationContext, err error) int) *Builder {
	return b.UseAt(OrderExceptionHandler, exceptionHandler(fn))
}

// CancelOnProcessTermination cancels the invocation context on SIGINT or
// SIGTERM.
func (b *Builder) CancelOnProcessTermination() *Builder {
	return b.UseAt(OrderCancellation, cancelOnTermination())
}

// UseEnvironmentVariableDirective enables "[env:NAME=value]".
func (b *Builder) UseEnvironmentVariableDirective() *Builder {
	return b.UseAt(OrderEnvironmentDirective, environmentDirective())
}

// UseParseDirective enables "[parse]", which prints the parse diagram
// instead of invoking the handler.
func (b *Builder) UseParseDirective() *Builder {
	return b.UseAt(OrderParseDirective, parseDirective())
}

// UseTypoCorrections suggests close matches for unmatched tokens.
func (b *Builder) UseTypoCorrections() *Builder {
	return b.UseAt(OrderTypoCorrection, typoCorrections(b.suggesterFunc))
}

// UseVersionOption adds a root "--version" option printing version. Extra
// aliases replace the default alias.
func (b *Builder) UseVersionOption(version string, aliases ...string) *Builder {
	if len(aliases) == 0 {
		aliases = []string{"--version"}
	}
	opt := new(*cmdline.Option)
	b.setup = append(b.setup, func(res cmdline.Resources) {
		*opt = versionOption(b.root, res, aliases)
	})
	return b.UseAt(OrderVersion, versionMiddleware(opt, version))
}

// UseHelp adds a global "-h, /h, --help, -?, /?" option showing help for
// the innermost command. Aliases already taken on the root are skipped.
func (b *Builder) UseHelp() *Builder {
	opt := new(*cmdline.Option)
	b.setup = append(b.setup, func(res cmdline.Resources) {
		*opt = helpOption(b.root, res)
	})
	return b.UseAt(OrderHelp, helpMiddleware(opt))
}

// UseParseErrorReporting prints parse errors and help instead of invoking
// the handler of an invalid command line.
func (b *Builder) UseParseErrorReporting() *Builder {
	return b.UseAt(OrderParseErrorReporting, parseErrorReporting())
}

// UseLogging logs the start and end of every invocation. A nil logger
// means slog.Default at the time of each invocation.
func (b *Builder) UseLogging(logger *slog.Logger) *Builder {
	return b.UseAt(OrderLogging, logging(logger))
}

// UseMetrics records invocation counts and durations on reg.
func (b *Builder) UseMetrics(reg prometheus.Registerer) *Builder {
	return b.UseAt(OrderMetrics, NewMetrics(reg).Middleware())
}

// UseTimeout fails invocations running longer than d with a *TimeoutError,
// which exits with TimeoutExitCode.
func (b *Builder) UseTimeout(d time.Duration) *Builder {
	b.exitCodes.DefineError(&TimeoutError{}, TimeoutExitCode)
	return b.UseAt(OrderTimeout, timeout(d))
}

func (b *Builder) suggesterFunc() *fuzzy.Suggester { return b.suggester }

// Build publishes the command tree and returns the CommandLine. The tree
// must not change afterwards.
func (b *Builder) Build() *CommandLine {
	res := cmdline.NewConfiguration(nil, b.parserOpts...).Resources()
	for _, fn := range b.setup {
		fn(res)
	}
	b.setup = nil

	sorted := slices.Clone(b.middleware)
	slices.SortStableFunc(sorted, func(x, y entry) int { return cmp.Compare(x.order, y.order) })
	chain := make(Chain, len(sorted))
	for i, e := range sorted {
		chain[i] = e.mw
	}

	con := b.console
	if con == nil {
		con = console.New()
	}
	renderer := b.help
	if renderer == nil {
		renderer = help.New(con)
	}
	return &CommandLine{
		parser:    cmdline.NewParser(b.root, b.parserOpts...),
		pipeline:  chain.Apply(invokeHandler),
		console:   con,
		help:      renderer,
		exitCodes: b.exitCodes,
		services:  b.services,
	}
}

// CommandLine parses and invokes command lines against one command tree.
type CommandLine struct {
	parser    *cmdline.Parser
	pipeline  HandlerFunc
	console   *console.Console
	help      cmdline.HelpRenderer
	exitCodes *cmdline.ExitCodes
	services  map[reflect.Type]func(*cmdline.InvocationContext) any
}

// argsKey holds the raw arguments of an invocation in its metadata.
const argsKey = "invocation.args"

// Parser returns the parser of the command tree.
func (c *CommandLine) Parser() *cmdline.Parser { return c.parser }

// ExitCodes returns the exit code mapping.
func (c *CommandLine) ExitCodes() *cmdline.ExitCodes { return c.exitCodes }

// Parse parses args without invoking anything.
func (c *CommandLine) Parse(args []string) *cmdline.ParseResult { return c.parser.Parse(args) }

// Invoke parses args, runs the pipeline and returns the exit code.
func (c *CommandLine) Invoke(ctx context.Context, args []string) int {
	code, _ := c.Execute(ctx, args)
	return code
}

// InvokeString splits line like a shell and invokes it.
func (c *CommandLine) InvokeString(ctx context.Context, line string) int {
	return c.Invoke(ctx, cmdline.SplitCommandLine(line))
}

// Execute is Invoke returning the error that ended the pipeline, if any.
// Errors handled by the exception handler are not returned.
func (c *CommandLine) Execute(ctx context.Context, args []string) (int, error) {
	return c.run(ctx, c.parser.Parse(args), args)
}

// InvokeResult runs the pipeline for an existing parse result.
func (c *CommandLine) InvokeResult(ctx context.Context, r *cmdline.ParseResult) (int, error) {
	return c.run(ctx, r, nil)
}

func (c *CommandLine) run(ctx context.Context, r *cmdline.ParseResult, args []string) (int, error) {
	ic := cmdline.NewInvocationContext(ctx, r, c.console)
	defer ic.Release()

	ic.SetHelpRenderer(c.help)
	if args != nil {
		ic.Set(argsKey, args)
	}
	for typ, factory := range c.services {
		ic.AddService(typ, factory)
	}
	codes := c.exitCodes
	cmdline.AddService(ic, func(*cmdline.InvocationContext) *cmdline.ExitCodes { return codes })

	err := c.pipeline(ic)
	if err == nil {
		return ic.ExitCode, nil
	}
	return c.exitCodes.Resolve(err), err
}

// exitCodesOf returns the exit code mapping of the invocation.
func exitCodesOf(ic *cmdline.InvocationContext) *cmdline.ExitCodes {
	if codes, ok := cmdline.GetService[*cmdline.ExitCodes](ic); ok && codes != nil {
		return codes
	}
	return cmdline.NewExitCodes()
}

func resourcesOf(ic *cmdline.InvocationContext) cmdline.Resources {
	if p := ic.ParseResult().Parser(); p != nil {
		return p.Configuration().Resources()
	}
	return cmdline.DefaultResources{}
}

// commandName returns the space separated path of the innermost command.
func commandName(ic *cmdline.InvocationContext) string {
	cr := ic.ParseResult().CommandResult()
	if cr == nil {
		return ""
	}
	return strings.Join(cr.Command().Path(), " ")
}
