package cmdline

import (
	"os"
	"reflect"
)

// ResponseFileTokenReplacement selects how @file references are expanded.
type ResponseFileTokenReplacement int

const (
	// ResponseFilesLineSeparated treats each non-blank, non-comment line as one token.
	ResponseFilesLineSeparated ResponseFileTokenReplacement = iota
	// ResponseFilesSpaceSeparated splits lines on whitespace, honoring double quotes.
	ResponseFilesSpaceSeparated
	// ResponseFilesDisabled passes @file tokens through unchanged.
	ResponseFilesDisabled
)

// Configuration holds parser behavior. It is immutable once a Parser is built.
type Configuration struct {
	root          *Command
	posixBundling bool
	directives    bool
	responseFiles ResponseFileTokenReplacement
	resources     Resources
	converters    map[reflect.Type]ConvertFunc
	readFile      func(string) ([]byte, error)
	stat          func(string) (os.FileInfo, error)
}

// ConfigOption configures a Parser.
type ConfigOption func(*Configuration)

// WithPosixBundling enables or disables unbundling of "-abc" into "-a -b -c".
// Enabled by default.
func WithPosixBundling(enabled bool) ConfigOption {
	return func(c *Configuration) { c.posixBundling = enabled }
}

// WithDirectives enables or disables "[key:value]" directives. Enabled by default.
func WithDirectives(enabled bool) ConfigOption {
	return func(c *Configuration) { c.directives = enabled }
}

// WithResponseFiles selects the response file mode. Line separated by default.
func WithResponseFiles(mode ResponseFileTokenReplacement) ConfigOption {
	return func(c *Configuration) { c.responseFiles = mode }
}

// WithResources replaces the message provider.
func WithResources(r Resources) ConfigOption {
	return func(c *Configuration) {
		if r != nil {
			c.resources = r
		}
	}
}

// WithFileReader replaces the function used to read response files.
func WithFileReader(fn func(string) ([]byte, error)) ConfigOption {
	return func(c *Configuration) {
		if fn != nil {
			c.readFile = fn
		}
	}
}

// WithFileStat replaces the function used to inspect paths, both for
// existence checks and for telling files from directories.
func WithFileStat(fn func(string) (os.FileInfo, error)) ConfigOption {
	return func(c *Configuration) {
		if fn != nil {
			c.stat = fn
		}
	}
}

// WithConverter registers a converter for values of type T, replacing any
// built-in converter for that exact type.
func WithConverter[T any](fn func(string) (T, error)) ConfigOption {
	return func(c *Configuration) {
		c.converters[reflect.TypeFor[T]()] = func(s string) (any, error) {
			return fn(s)
		}
	}
}

// NewConfiguration returns a configuration for root outside of a Parser,
// for converting values the way a parser built with the same options would.
// root may be nil.
func NewConfiguration(root *Command, opts ...ConfigOption) *Configuration {
	return newConfiguration(root, opts)
}

func newConfiguration(root *Command, opts []ConfigOption) *Configuration {
	cfg := &Configuration{
		root:          root,
		posixBundling: true,
		directives:    true,
		responseFiles: ResponseFilesLineSeparated,
		resources:     DefaultResources{},
		converters:    builtinConverters(),
		readFile:      os.ReadFile,
		stat:          os.Stat,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// RootCommand returns the root of the command tree.
func (c *Configuration) RootCommand() *Command { return c.root }

// EnablePosixBundling reports whether short option bundling is enabled.
func (c *Configuration) EnablePosixBundling() bool { return c.posixBundling }

// EnableDirectives reports whether directives are recognized.
func (c *Configuration) EnableDirectives() bool { return c.directives }

// ResponseFileTokenReplacement returns the response file mode.
func (c *Configuration) ResponseFileTokenReplacement() ResponseFileTokenReplacement {
	return c.responseFiles
}

// Resources returns the message provider.
func (c *Configuration) Resources() Resources { return c.resources }

// Converter returns the registered converter for typ.
func (c *Configuration) Converter(typ reflect.Type) (ConvertFunc, bool) {
	fn, ok := c.converters[typ]
	return fn, ok
}
