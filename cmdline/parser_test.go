package cmdline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

type buildType int

const (
	Build buildType = iota
	Rebuild
	Clean
)

func (b buildType) String() string {
	switch b {
	case Build:
		return "Build"
	case Rebuild:
		return "Rebuild"
	case Clean:
		return "Clean"
	}
	return fmt.Sprintf("buildType(%d)", int(b))
}

type fbVer string

const (
	V3 fbVer = "V3"
	V4 fbVer = "V4"
	V5 fbVer = "V5"
)

func noop(*InvocationContext) error { return nil }

func errorMessages(r *ParseResult) []string {
	var out []string
	for _, e := range r.Errors() {
		out = append(out, e.Message)
	}
	return out
}

// TestParseEndToEnd tests an enum option and a repeatable list option on a subcommand
func TestParseEndToEnd(t *testing.T) {
	typ := NewEnumOption([]buildType{Build, Rebuild, Clean}, "--type")
	versions := NewEnumSliceOption([]fbVer{V3, V4, V5}, "--fbver")

	root := NewRootCommand("tool", "")
	build := NewCommand("build", "Build the project").Action(noop)
	build.AddOption(typ).AddOption(versions)
	root.AddCommand(build)

	result := NewParser(root).Parse([]string{"tool", "build", "--type", "Rebuild", "--fbver", "V3", "--fbver", "V5"})
	if result.HasErrors() {
		t.Fatalf("Unexpected errors: %v", errorMessages(result))
	}
	if len(result.UnmatchedTokens()) != 0 {
		t.Fatalf("Expected no unmatched tokens, got %v", result.UnmatchedValues())
	}
	if result.CommandResult().Command() != build {
		t.Fatalf("Expected build to be the innermost command")
	}

	gotType, err := GetValueForOption[buildType](result, typ)
	if err != nil || gotType != Rebuild {
		t.Errorf("Expected Rebuild, got %v (err=%v)", gotType, err)
	}
	gotVersions, err := GetValueForOption[[]fbVer](result, versions)
	if err != nil || !reflect.DeepEqual(gotVersions, []fbVer{V3, V5}) {
		t.Errorf("Expected [V3 V5], got %v (err=%v)", gotVersions, err)
	}
}

// TestEnumIsCaseInsensitive tests enum name matching
func TestEnumIsCaseInsensitive(t *testing.T) {
	typ := NewEnumOption([]buildType{Build, Rebuild}, "--type")
	root := NewRootCommand("tool", "").Action(noop)
	root.AddOption(typ)

	result := NewParser(root).Parse([]string{"--type", "rebuild"})
	if got := result.ValueForOption(typ); got != Rebuild {
		t.Errorf("Expected Rebuild, got %v", got)
	}

	result = NewParser(root).Parse([]string{"--type", "Nope"})
	if !result.HasErrors() {
		t.Fatal("Expected error for unknown enum name")
	}
	want := "Argument 'Nope' not recognized. Must be one of:\n\t'Build'\n\t'Rebuild'"
	if result.Errors()[0].Message != want {
		t.Errorf("Expected %q, got %q", want, result.Errors()[0].Message)
	}
	if result.Errors()[0].Type != ErrorTypeInvalidValue {
		t.Errorf("Expected invalid value error, got %s", result.Errors()[0].Type)
	}
}

// TestArityMissingAndTooMany tests arity enforcement on a single valued argument
func TestArityMissingAndTooMany(t *testing.T) {
	name := NewArgument[string]("name")
	root := NewRootCommand("tool", "").Action(noop)
	root.AddArgument(name)
	p := NewParser(root)

	result := p.Parse(nil)
	conv := result.FindResultForArgument(name).GetArgumentConversionResult()
	if conv.Kind != ConversionMissing {
		t.Errorf("Expected Missing, got %s", conv.Kind)
	}
	if got := errorMessages(result); len(got) != 1 || got[0] != "Required argument missing for command: 'tool'." {
		t.Errorf("Unexpected errors: %q", got)
	}

	opt := NewOption[string]("--name")
	root2 := NewRootCommand("tool", "").Action(noop)
	root2.AddOption(opt)
	result = NewParser(root2).Parse([]string{"--name", "a", "--name", "b"})
	conv = result.FindResultForOption(opt).ArgumentResult().GetArgumentConversionResult()
	if conv.Kind != ConversionTooMany {
		t.Fatalf("Expected TooMany, got %s", conv.Kind)
	}
	if conv.ErrorMessage != "Option '--name' expects a single argument but 2 were provided." {
		t.Errorf("Unexpected message %q", conv.ErrorMessage)
	}
	if result.Errors()[0].Type != ErrorTypeTooManyArguments {
		t.Errorf("Expected too many arguments error, got %s", result.Errors()[0].Type)
	}
}

// TestOptionMissingArgument tests an option given without its required value
func TestOptionMissingArgument(t *testing.T) {
	opt := NewOption[int]("--count")
	root := NewRootCommand("tool", "").Action(noop)
	root.AddOption(opt)

	result := NewParser(root).Parse([]string{"--count"})
	got := errorMessages(result)
	if len(got) != 1 || got[0] != "Required argument missing for option: '--count'." {
		t.Errorf("Unexpected errors: %q", got)
	}
	if or := result.FindResultForOption(opt); or.ErrorMessage() == "" {
		t.Error("Expected the error to be recorded on the option result")
	}
}

// TestConversionIsMemoized tests that repeated conversion returns the same outcome
func TestConversionIsMemoized(t *testing.T) {
	calls := 0
	arg := NewArgument[int]("n").WithParser(func(r *ArgumentResult) (any, error) {
		calls++
		return len(r.Tokens()) * 10, nil
	})
	root := NewRootCommand("tool", "").Action(noop)
	root.AddArgument(arg)

	ar := NewParser(root).Parse([]string{"x"}).FindResultForArgument(arg)
	first := ar.GetArgumentConversionResult()
	_ = ar.Tokens()
	second := ar.GetArgumentConversionResult()

	if first != second {
		t.Error("Expected the identical conversion result")
	}
	if calls != 1 {
		t.Errorf("Expected parser to run once, ran %d times", calls)
	}
	if first.Value != 10 {
		t.Errorf("Expected 10, got %v", first.Value)
	}
}

// TestCustomParserErrorMessage tests that a custom parser can fail by setting a message
func TestCustomParserErrorMessage(t *testing.T) {
	arg := NewArgument[int]("port").WithParser(func(r *ArgumentResult) (any, error) {
		r.SetErrorMessage("port out of range")
		return 0, nil
	})
	root := NewRootCommand("tool", "").Action(noop)
	root.AddArgument(arg)

	result := NewParser(root).Parse([]string{"99999"})
	if got := errorMessages(result); len(got) != 1 || got[0] != "port out of range" {
		t.Errorf("Unexpected errors: %q", got)
	}
}

// TestFlagRoundTrip tests bare and explicit boolean flags
func TestFlagRoundTrip(t *testing.T) {
	force := NewFlag("--force")
	file := NewArgument[string]("file").WithArity(ArityZeroOrOne)
	root := NewRootCommand("tool", "").Action(noop)
	root.AddOption(force).AddArgument(file)
	p := NewParser(root)

	tests := []struct {
		args []string
		want bool
		file any
	}{
		{[]string{"--force"}, true, nil},
		{[]string{"--force", "false"}, false, nil},
		{[]string{"--force", "true"}, true, nil},
		{[]string{"--force", "out.txt"}, true, "out.txt"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			result := p.Parse(tt.args)
			if result.HasErrors() {
				t.Fatalf("Unexpected errors: %v", errorMessages(result))
			}
			if got := result.ValueForOption(force); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if got := result.ValueForArgument(file); got != tt.file {
				t.Errorf("Expected file %v, got %v", tt.file, got)
			}
		})
	}
}

// TestPosixBundleParses tests that unbundled flags and option values reach results
func TestPosixBundleParses(t *testing.T) {
	a := NewFlag("-a")
	b := NewOption[string]("-b")
	root := NewRootCommand("tool", "").Action(noop)
	root.AddOption(a).AddOption(b)

	result := NewParser(root).Parse([]string{"-ab", "value"})
	if result.HasErrors() {
		t.Fatalf("Unexpected errors: %v", errorMessages(result))
	}
	if result.ValueForOption(a) != true || result.ValueForOption(b) != "value" {
		t.Errorf("Expected -a=true -b=value, got %v %v", result.ValueForOption(a), result.ValueForOption(b))
	}
}

// TestResponseFileParsesLikeArguments tests that response file tokens are parsed as typed
func TestResponseFileParsesLikeArguments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "other.rsp", "--count\n7\n")
	main := writeFile(t, dir, "main.rsp", "--flag\nvalue\n@other.rsp\n")

	flag := NewOption[string]("--flag")
	count := NewOption[int]("--count")
	root := NewRootCommand("tool", "").Action(noop)
	root.AddOption(flag).AddOption(count)

	result := NewParser(root).Parse([]string{"@" + main})
	if result.HasErrors() {
		t.Fatalf("Unexpected errors: %v", errorMessages(result))
	}
	if result.ValueForOption(flag) != "value" || result.ValueForOption(count) != 7 {
		t.Errorf("Expected value/7, got %v/%v", result.ValueForOption(flag), result.ValueForOption(count))
	}
}

// TestResponseFileErrorsSurfaceOnResult tests that tokenizer errors become parse errors
func TestResponseFileErrorsSurfaceOnResult(t *testing.T) {
	root := NewRootCommand("tool", "").Action(noop)
	result := NewParser(root).Parse([]string{"@" + filepath.Join(t.TempDir(), "nope.rsp")})
	if !result.HasErrors() || result.Errors()[0].Type != ErrorTypeResponseFile {
		t.Fatalf("Expected a response file error, got %v", errorMessages(result))
	}
}

// TestUnmatchedTokens tests unmatched token reporting and opting out of it
func TestUnmatchedTokens(t *testing.T) {
	root := NewRootCommand("tool", "").Action(noop)
	result := NewParser(root).Parse([]string{"extra", "--what"})

	if got := result.UnmatchedValues(); !reflect.DeepEqual(got, []string{"extra", "--what"}) {
		t.Errorf("Expected unmatched [extra --what], got %v", got)
	}
	want := []string{"Unrecognized command or argument 'extra'.", "Unrecognized command or argument '--what'."}
	if got := errorMessages(result); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}

	root.TreatUnmatchedTokensAsErrors(false)
	result = NewParser(root).Parse([]string{"extra"})
	if result.HasErrors() {
		t.Errorf("Expected no errors, got %v", errorMessages(result))
	}
	if len(result.UnmatchedTokens()) != 1 {
		t.Errorf("Expected one unmatched token")
	}
}

// TestUnparsedTokens tests that tokens after "--" are kept aside
func TestUnparsedTokens(t *testing.T) {
	files := NewArgument[[]string]("files")
	root := NewRootCommand("tool", "").Action(noop)
	root.AddArgument(files)

	result := NewParser(root).Parse([]string{"a", "--", "b", "--c"})
	if result.HasErrors() {
		t.Fatalf("Unexpected errors: %v", errorMessages(result))
	}
	if got := result.UnparsedValues(); !reflect.DeepEqual(got, []string{"b", "--c"}) {
		t.Errorf("Expected unparsed [b --c], got %v", got)
	}
	if got := result.ValueForArgument(files); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Expected files [a], got %v", got)
	}
	if got := tokenValues(result.Tokens()); !reflect.DeepEqual(got, []string{"a", "--", "b", "--c"}) {
		t.Errorf("Expected tokens without the synthesized root, got %v", got)
	}
}

// TestRequiredCommand tests that a command without handler needs a subcommand
func TestRequiredCommand(t *testing.T) {
	root := NewRootCommand("tool", "")
	root.AddCommand(NewCommand("build", "").Action(noop))

	result := NewParser(root).Parse(nil)
	if got := errorMessages(result); len(got) != 1 || got[0] != "Required command was not provided." {
		t.Errorf("Unexpected errors: %q", got)
	}

	result = NewParser(root).Parse([]string{"build"})
	if result.HasErrors() {
		t.Errorf("Unexpected errors: %v", errorMessages(result))
	}
}

// TestRequiredOption tests required options satisfied by the command line or environment only
func TestRequiredOption(t *testing.T) {
	token := NewOption[string]("--token").Required().FromEnv("CMDLINE_TEST_TOKEN").Default("unused")
	root := NewRootCommand("tool", "").Action(noop)
	root.AddOption(token)

	t.Setenv("CMDLINE_TEST_TOKEN", "")
	os.Unsetenv("CMDLINE_TEST_TOKEN")
	result := NewParser(root).Parse(nil)
	if got := errorMessages(result); len(got) != 1 || got[0] != "Option '--token' is required." {
		t.Errorf("Unexpected errors: %q", got)
	}

	result = NewParser(root).Parse([]string{"--token", "abc"})
	if result.HasErrors() {
		t.Errorf("Unexpected errors: %v", errorMessages(result))
	}

	t.Setenv("CMDLINE_TEST_TOKEN", "from-env")
	result = NewParser(root).Parse(nil)
	if result.HasErrors() {
		t.Fatalf("Unexpected errors: %v", errorMessages(result))
	}
	if got := result.ValueForOption(token); got != "from-env" {
		t.Errorf("Expected from-env, got %v", got)
	}
	or := result.FindResultForOption(token)
	if !or.IsImplicit() || !or.FromEnv() {
		t.Error("Expected an implicit result filled from the environment")
	}
	if !result.HasOption(token) {
		t.Error("Expected HasOption to count environment values")
	}
}

// TestDefaultsAndPrecedence tests command line over environment over default
func TestDefaultsAndPrecedence(t *testing.T) {
	level := NewOption[int]("--level").Default(3).FromEnv("CMDLINE_TEST_LEVEL")
	root := NewRootCommand("tool", "").Action(noop)
	root.AddOption(level)
	p := NewParser(root)

	result := p.Parse(nil)
	if got := result.ValueForOption(level); got != 3 {
		t.Errorf("Expected default 3, got %v", got)
	}
	if result.HasOption(level) {
		t.Error("Expected a default-only option not to count as given")
	}

	t.Setenv("CMDLINE_TEST_LEVEL", "5")
	if got := p.Parse(nil).ValueForOption(level); got != 5 {
		t.Errorf("Expected env 5, got %v", got)
	}
	if got := p.Parse([]string{"--level", "9"}).ValueForOption(level); got != 9 {
		t.Errorf("Expected flag 9, got %v", got)
	}
}

// TestGlobalOptions tests that global options are recognized in subcommands
func TestGlobalOptions(t *testing.T) {
	verbose := NewFlag("-v", "--verbose")
	root := NewRootCommand("tool", "")
	root.AddGlobalOption(verbose)
	deploy := NewCommand("deploy", "").Action(noop)
	root.AddCommand(deploy)

	result := NewParser(root).Parse([]string{"deploy", "--verbose"})
	if result.HasErrors() {
		t.Fatalf("Unexpected errors: %v", errorMessages(result))
	}
	if result.ValueForOption(verbose) != true {
		t.Error("Expected --verbose to be set from the subcommand scope")
	}
	if _, ok := deploy.Option("-v"); !ok {
		t.Error("Expected the global option to be propagated to deploy")
	}
}

// TestGlobalOptionCollisionIsSkipped tests that a local alias wins over a global one
func TestGlobalOptionCollisionIsSkipped(t *testing.T) {
	global := NewOption[string]("--output")
	local := NewOption[int]("--output")
	root := NewRootCommand("tool", "")
	root.AddGlobalOption(global)
	sub := NewCommand("count", "").Action(noop)
	sub.AddOption(local)
	root.AddCommand(sub)

	result := NewParser(root).Parse([]string{"count", "--output", "4"})
	if result.HasErrors() {
		t.Fatalf("Unexpected errors: %v", errorMessages(result))
	}
	if got := result.ValueForOption(local); got != 4 {
		t.Errorf("Expected local option to receive 4, got %v", got)
	}
}

// TestDuplicateAliasPanics tests that siblings cannot share an alias
func TestDuplicateAliasPanics(t *testing.T) {
	tests := []struct {
		name  string
		build func()
	}{
		{"options", func() {
			NewRootCommand("tool", "").AddOption(NewFlag("-v", "--verbose")).AddOption(NewFlag("--verbose"))
		}},
		{"commands", func() {
			NewRootCommand("tool", "").AddCommand(NewCommand("run", "")).AddCommand(NewCommand("run", ""))
		}},
		{"option and command", func() {
			NewRootCommand("tool", "").AddCommand(NewCommand("run", "")).AddOption(NewFlag("run"))
		}},
		{"late alias", func() {
			root := NewRootCommand("tool", "")
			root.AddCommand(NewCommand("run", ""))
			b := NewCommand("build", "")
			root.AddCommand(b)
			b.AddAlias("run")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Expected a panic for duplicate aliases")
				}
			}()
			tt.build()
		})
	}
}

// TestCollectionArity tests list options and list arguments
func TestCollectionArity(t *testing.T) {
	tags := NewOption[[]string]("--tag")
	nums := NewArgument[[]int]("nums")
	root := NewRootCommand("tool", "").Action(noop)
	root.AddOption(tags).AddArgument(nums)

	result := NewParser(root).Parse([]string{"--tag", "a", "b", "--tag", "c", "1", "2"})
	if result.HasErrors() {
		t.Fatalf("Unexpected errors: %v", errorMessages(result))
	}
	if got := result.ValueForOption(tags); !reflect.DeepEqual(got, []string{"a", "b", "c", "1", "2"}) {
		t.Errorf("Expected all tokens on --tag, got %v", got)
	}

	result = NewParser(root).Parse([]string{"1", "2", "--tag", "x"})
	if got := result.ValueForArgument(nums); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Expected [1 2], got %v", got)
	}

	result = NewParser(root).Parse([]string{"--tag"})
	if got := errorMessages(result); len(got) != 1 || got[0] != "Required argument missing for option: '--tag'." {
		t.Errorf("Unexpected errors: %q", got)
	}
}

// TestMultipleCommandArguments tests positional filling in declaration order
func TestMultipleCommandArguments(t *testing.T) {
	src := NewArgument[string]("src")
	dst := NewArgument[string]("dst")
	mode := NewArgument[int]("mode").Default(644)
	root := NewRootCommand("cp", "").Action(noop)
	root.AddArgument(src).AddArgument(dst).AddArgument(mode)

	result := NewParser(root).Parse([]string{"a", "b"})
	if result.HasErrors() {
		t.Fatalf("Unexpected errors: %v", errorMessages(result))
	}
	if result.ValueForArgument(src) != "a" || result.ValueForArgument(dst) != "b" || result.ValueForArgument(mode) != 644 {
		t.Errorf("Unexpected values %v %v %v", result.ValueForArgument(src), result.ValueForArgument(dst), result.ValueForArgument(mode))
	}

	result = NewParser(root).Parse([]string{"a", "b", "600", "extra"})
	if got := result.UnmatchedValues(); !reflect.DeepEqual(got, []string{"extra"}) {
		t.Errorf("Expected [extra] unmatched, got %v", got)
	}
}

// TestConversionFailureMessages tests messages for values that cannot be converted
func TestConversionFailureMessages(t *testing.T) {
	port := NewOption[int]("--port")
	when := NewArgument[time.Duration]("when")
	root := NewRootCommand("tool", "").Action(noop)
	root.AddOption(port).AddArgument(when)

	result := NewParser(root).Parse([]string{"--port", "eighty", "soon"})
	want := []string{
		"Cannot parse argument 'eighty' for option '--port' as expected type 'int'.",
		"Cannot parse argument 'soon' for command 'tool' as expected type 'time.Duration'.",
	}
	if got := errorMessages(result); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

// TestFromAmongAndValidators tests allow-lists and validators
func TestFromAmongAndValidators(t *testing.T) {
	color := NewOption[string]("--color").FromAmong("red", "green")
	name := NewArgument[string]("name").MatchRegex(`^[a-z]+$`)
	root := NewRootCommand("tool", "").Action(noop)
	root.AddOption(color).AddArgument(name)
	root.AddValidator(func(r *CommandResult) error {
		if r.OptionResult(color) != nil && r.OptionResult(color).Value() == "green" {
			return errors.New("green is reserved")
		}
		return nil
	})
	p := NewParser(root)

	if result := p.Parse([]string{"--color", "red", "abc"}); result.HasErrors() {
		t.Errorf("Unexpected errors: %v", errorMessages(result))
	}

	result := p.Parse([]string{"--color", "blue", "abc"})
	if got := errorMessages(result); len(got) != 1 || !strings.HasPrefix(got[0], "Argument 'blue' not recognized.") {
		t.Errorf("Unexpected errors: %q", got)
	}

	result = p.Parse([]string{"--color", "green", "ABC"})
	got := errorMessages(result)
	if len(got) != 2 || got[0] != "green is reserved" || !strings.Contains(got[1], "does not match") {
		t.Errorf("Unexpected errors: %q", got)
	}
}

// TestExistingOnly tests file and directory existence checks
func TestExistingOnly(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.txt", "x")

	input := NewOption[File]("--in").ExistingOnly()
	out := NewOption[Directory]("--out").ExistingOnly()
	root := NewRootCommand("tool", "").Action(noop)
	root.AddOption(input).AddOption(out)
	p := NewParser(root)

	result := p.Parse([]string{"--in", file, "--out", dir})
	if result.HasErrors() {
		t.Fatalf("Unexpected errors: %v", errorMessages(result))
	}
	if got := result.ValueForOption(input); got != File(file) {
		t.Errorf("Expected %q, got %v", file, got)
	}

	result = p.Parse([]string{"--in", dir, "--out", file})
	want := []string{
		"File does not exist: '" + dir + "'.",
		"Directory does not exist: '" + file + "'.",
	}
	if got := errorMessages(result); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

// TestExistingOnlyUsesFileStat tests that path checks go through the configured stat function
func TestExistingOnlyUsesFileStat(t *testing.T) {
	fsys := fstest.MapFS{"data/a.txt": {Data: []byte("x")}}
	stat := func(name string) (os.FileInfo, error) { return fs.Stat(fsys, name) }

	input := NewOption[File]("--in").ExistingOnly()
	out := NewOption[Directory]("--out").ExistingOnly()
	entry := NewOption[FileSystemEntry]("--path")
	root := NewRootCommand("tool", "").Action(noop)
	root.AddOption(input).AddOption(out).AddOption(entry)
	p := NewParser(root, WithFileStat(stat))

	result := p.Parse([]string{"--in", "data/a.txt", "--out", "data", "--path", "data"})
	if result.HasErrors() {
		t.Fatalf("Unexpected errors: %v", errorMessages(result))
	}
	if got := result.ValueForOption(entry); got != Directory("data") {
		t.Errorf("Expected directory entry, got %#v", got)
	}

	result = p.Parse([]string{"--in", "data/missing.txt"})
	want := []string{"File does not exist: 'data/missing.txt'."}
	if got := errorMessages(result); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

// TestParseString tests parsing a whole command line
func TestParseString(t *testing.T) {
	msg := NewOption[string]("-m", "--message")
	root := NewRootCommand("git", "").Action(noop)
	root.AddOption(msg)

	result := NewParser(root).ParseString(`git -m "initial commit"`)
	if got := result.ValueForOption(msg); got != "initial commit" {
		t.Errorf("Expected 'initial commit', got %v", got)
	}
}

// TestOptionName tests the name derived from aliases
func TestOptionName(t *testing.T) {
	if got := NewOption[string]("-v", "--verbosity").Name(); got != "verbosity" {
		t.Errorf("Expected verbosity, got %q", got)
	}
	if got := NewOption[string]("-v", "--verbosity").WithName("level").Name(); got != "level" {
		t.Errorf("Expected level, got %q", got)
	}
}

// TestDirectivesOnResult tests directive values on the parse result
func TestDirectivesOnResult(t *testing.T) {
	root := NewRootCommand("tool", "").Action(noop)
	result := NewParser(root).Parse([]string{"[parse]", "[env:A=1]", "[env:B=2]"})

	d := result.Directives()
	if !d.Contains("parse") || !d.Contains("env") || d.Len() != 2 {
		t.Fatalf("Unexpected directives %v", d.Names())
	}
	if v, _ := d.Values("env"); !reflect.DeepEqual(v, []string{"A=1", "B=2"}) {
		t.Errorf("Expected env values [A=1 B=2], got %v", v)
	}
	if v, ok := d.Values("parse"); !ok || len(v) != 0 {
		t.Errorf("Expected parse without values, got %v", v)
	}
}

// TestDiagram tests the bracketed parse diagram
func TestDiagram(t *testing.T) {
	typ := NewEnumOption([]buildType{Build, Rebuild}, "--type")
	jobs := NewOption[int]("--jobs").Default(4)
	verbose := NewFlag("-v")
	root := NewRootCommand("tool", "")
	build := NewCommand("build", "").Action(noop)
	build.AddOption(typ).AddOption(jobs).AddOption(verbose)
	root.AddCommand(build)
	p := NewParser(root)

	result := p.Parse([]string{"build", "-v", "--type", "Rebuild", "extra"})
	want := "[ tool [ build [ -v ] [ --type <Rebuild> ] *[ --jobs <4> ] ] ]   ???--> extra"
	if got := result.Diagram(); got != want {
		t.Errorf("Expected\n%s\ngot\n%s", want, got)
	}

	result = p.Parse([]string{"build", "--type", "Nope"})
	want = "[ tool [ build ![ --type <Nope> ] *[ --jobs <4> ] ] ]"
	if got := result.Diagram(); got != want {
		t.Errorf("Expected\n%s\ngot\n%s", want, got)
	}
}

// TestDiagramNamesArgumentsWhenAmbiguous tests argument names for multi argument commands
func TestDiagramNamesArgumentsWhenAmbiguous(t *testing.T) {
	root := NewRootCommand("cp", "").Action(noop)
	root.AddArgument(NewArgument[string]("src")).AddArgument(NewArgument[string]("dst"))

	want := "[ cp [ src <a> ] [ dst <b> ] ]"
	if got := NewParser(root).Parse([]string{"a", "b"}).Diagram(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	single := NewRootCommand("cat", "").Action(noop)
	single.AddArgument(NewArgument[[]string]("files"))
	want = "[ cat <a> <b> ]"
	if got := NewParser(single).Parse([]string{"a", "b"}).Diagram(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

// TestParserIsReusable tests that one parser serves several independent parses
func TestParserIsReusable(t *testing.T) {
	n := NewOption[int]("-n")
	root := NewRootCommand("tool", "").Action(noop)
	root.AddOption(n)
	p := NewParser(root)

	for i := range 5 {
		result := p.Parse([]string{"-n", fmt.Sprint(i)})
		if got := result.ValueForOption(n); got != i {
			t.Errorf("Parse %d: expected %d, got %v", i, i, got)
		}
	}
}
