package binding

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format identifies a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatForPath infers the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported config format: %q", ext)
	}
}

// ConfigSource supplies member values from a configuration file. Nested
// tables are addressed with dotted keys; keys match ignoring case, dashes
// and underscores.
type ConfigSource struct {
	path   string
	values map[string]any
}

// LoadConfigFile reads and parses the file at path, choosing the format by
// extension.
func LoadConfigFile(path string) (*ConfigSource, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	src, err := ParseConfig(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	src.path = path
	return src, nil
}

// ParseConfig parses data in the given format.
func ParseConfig(data []byte, format Format) (*ConfigSource, error) {
	raw := make(map[string]any)
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %q", format)
	}
	return NewConfigSource(raw), nil
}

// NewConfigSource wraps already decoded values.
func NewConfigSource(values map[string]any) *ConfigSource {
	flat := make(map[string]any)
	flatten("", values, flat)
	return &ConfigSource{values: flat}
}

// Path returns the file the source was loaded from, if any.
func (c *ConfigSource) Path() string { return c.path }

// Lookup returns the value at the dotted key path.
func (c *ConfigSource) Lookup(path string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.values[normalizePath(path)]
	return v, ok
}

// Len returns the number of leaf values.
func (c *ConfigSource) Len() int { return len(c.values) }

// flatten converts nested maps to dotted keys ({"a":{"b":1}} => {"a.b":1}).
func flatten(prefix string, src map[string]any, dst map[string]any) {
	for k, v := range src {
		key := normalizeName(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(key, sub, dst)
			continue
		}
		dst[key] = v
	}
}

func normalizePath(path string) string {
	parts := strings.Split(path, ".")
	for i, p := range parts {
		parts[i] = normalizeName(p)
	}
	return strings.Join(parts, ".")
}
