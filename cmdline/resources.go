package cmdline

import (
	"fmt"
	"reflect"
	"strings"
)

// Resources supplies every user facing message. Embed DefaultResources and
// override the methods to replace.
type Resources interface {
	RequiredArgumentMissing(result SymbolResult) string
	ExpectsOneArgument(result SymbolResult, provided int) string
	ExpectsFewerArguments(result SymbolResult, provided, maximum int) string
	RequiredCommandWasNotProvided() string
	RequiredOptionWasNotProvided(option *Option) string
	UnrecognizedCommandOrArgument(arg string) string
	UnrecognizedArgument(arg string, allowed []string) string
	ArgumentConversionCannotParse(value string, typ reflect.Type) string
	ArgumentConversionCannotParseForOption(value, alias string, typ reflect.Type) string
	ArgumentConversionCannotParseForCommand(value, command string, typ reflect.Type) string
	ResponseFileNotFound(path string) string
	ErrorReadingResponseFile(path string, err error) string
	ResponseFileReferenceMalformed(token string) string
	ResponseFileCycle(path string) string
	FileDoesNotExist(path string) string
	DirectoryDoesNotExist(path string) string
	FileOrDirectoryDoesNotExist(path string) string
	VersionOptionCannotBeCombinedWithOtherArguments(alias string) string
	HelpOptionDescription() string
	VersionOptionDescription() string
	SuggestionsTokenNotMatched(token string) string
	UnhandledException() string
}

// DefaultResources provides the built-in English messages.
type DefaultResources struct{}

var _ Resources = DefaultResources{}

func (DefaultResources) RequiredArgumentMissing(result SymbolResult) string {
	switch r := result.(type) {
	case *OptionResult:
		return fmt.Sprintf("Required argument missing for option: '%s'.", r.Token().Value)
	case *CommandResult:
		return fmt.Sprintf("Required argument missing for command: '%s'.", r.Token().Value)
	case *RootCommandResult:
		return fmt.Sprintf("Required argument missing for command: '%s'.", r.Token().Value)
	}
	return "Required argument missing."
}

func (DefaultResources) ExpectsOneArgument(result SymbolResult, n int) string {
	switch r := result.(type) {
	case *OptionResult:
		return fmt.Sprintf("Option '%s' expects a single argument but %d were provided.", r.Token().Value, n)
	case *CommandResult:
		return fmt.Sprintf("Command '%s' expects a single argument but %d were provided.", r.Token().Value, n)
	case *RootCommandResult:
		return fmt.Sprintf("Command '%s' expects a single argument but %d were provided.", r.Token().Value, n)
	}
	return fmt.Sprintf("Expected a single argument but %d were provided.", n)
}

func (DefaultResources) ExpectsFewerArguments(result SymbolResult, provided, maximum int) string {
	name := ""
	switch r := result.(type) {
	case *OptionResult:
		name = "Option '" + r.Token().Value + "'"
	case *CommandResult:
		name = "Command '" + r.Token().Value + "'"
	case *RootCommandResult:
		name = "Command '" + r.Token().Value + "'"
	default:
		name = "Argument"
	}
	return fmt.Sprintf("%s expects at most %d arguments but %d were provided.", name, maximum, provided)
}

func (DefaultResources) RequiredCommandWasNotProvided() string {
	return "Required command was not provided."
}

func (DefaultResources) RequiredOptionWasNotProvided(option *Option) string {
	return fmt.Sprintf("Option '%s' is required.", option.longestAlias())
}

func (DefaultResources) UnrecognizedCommandOrArgument(arg string) string {
	return fmt.Sprintf("Unrecognized command or argument '%s'.", arg)
}

func (DefaultResources) UnrecognizedArgument(arg string, allowed []string) string {
	quoted := make([]string, len(allowed))
	for i, v := range allowed {
		quoted[i] = "'" + v + "'"
	}
	return fmt.Sprintf("Argument '%s' not recognized. Must be one of:\n\t%s", arg, strings.Join(quoted, "\n\t"))
}

func (DefaultResources) ArgumentConversionCannotParse(value string, typ reflect.Type) string {
	return fmt.Sprintf("Cannot parse argument '%s' as expected type '%s'.", value, typ)
}

func (DefaultResources) ArgumentConversionCannotParseForOption(value, alias string, typ reflect.Type) string {
	return fmt.Sprintf("Cannot parse argument '%s' for option '%s' as expected type '%s'.", value, alias, typ)
}

func (DefaultResources) ArgumentConversionCannotParseForCommand(value, command string, typ reflect.Type) string {
	return fmt.Sprintf("Cannot parse argument '%s' for command '%s' as expected type '%s'.", value, command, typ)
}

func (DefaultResources) ResponseFileNotFound(path string) string {
	return fmt.Sprintf("Response file not found '%s'.", path)
}

func (DefaultResources) ErrorReadingResponseFile(path string, err error) string {
	return fmt.Sprintf("Error reading response file '%s': %v", path, err)
}

func (DefaultResources) ResponseFileReferenceMalformed(token string) string {
	return fmt.Sprintf("Response file reference '%s' does not name a file.", token)
}

func (DefaultResources) ResponseFileCycle(path string) string {
	return fmt.Sprintf("Response file '%s' references itself.", path)
}

func (DefaultResources) FileDoesNotExist(path string) string {
	return fmt.Sprintf("File does not exist: '%s'.", path)
}

func (DefaultResources) DirectoryDoesNotExist(path string) string {
	return fmt.Sprintf("Directory does not exist: '%s'.", path)
}

func (DefaultResources) FileOrDirectoryDoesNotExist(path string) string {
	return fmt.Sprintf("File or directory does not exist: '%s'.", path)
}

func (DefaultResources) VersionOptionCannotBeCombinedWithOtherArguments(alias string) string {
	return fmt.Sprintf("%s option cannot be combined with other arguments.", alias)
}

func (DefaultResources) HelpOptionDescription() string {
	return "Show help and usage information"
}

func (DefaultResources) VersionOptionDescription() string {
	return "Show version information"
}

func (DefaultResources) SuggestionsTokenNotMatched(token string) string {
	return fmt.Sprintf("'%s' was not matched. Did you mean one of the following?", token)
}

func (DefaultResources) UnhandledException() string {
	return "Unhandled exception: "
}
