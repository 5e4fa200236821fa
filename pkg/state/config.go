package state

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Configuration keys read by the envelope builder and the gateway client
const (
	KeyPresenterID    = "presenter-id"
	KeyAuthentication = "authentication"
	KeyURL            = "url"
	KeyEmail          = "email"
	KeyTestFlag       = "test-flag"
)

// Configuration keys read by the message bodies
const (
	KeyCompanyNumber             = "company-number"
	KeyCompanyAuthenticationCode = "company-authentication-code"
	KeyCompanyType               = "company-type"
	KeyCompanyName               = "company-name"
	KeyMadeUpDate                = "made-up-date"
	KeyPackageReference          = "package-reference"
	KeyContactName               = "contact-name"
	KeyContactNumber             = "contact-number"
	KeyDateSigned                = "date-signed"
	KeyDate                      = "date"
)

// Config is an immutable configuration mapping
type Config struct {
	values map[string]any
}

// NewConfig creates a Config from a map. The map and any nested maps and
// slices are copied.
func NewConfig(values map[string]any) *Config {
	c := &Config{values: make(map[string]any, len(values))}
	for k, v := range values {
		c.values[k] = cloneValue(v)
	}
	return c
}

// LoadConfig reads configuration from a JSON, YAML or TOML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnv(string(data))

	values := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal([]byte(expanded), &values); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		// JSON is a subset of YAML
		if err := yaml.Unmarshal([]byte(expanded), &values); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return &Config{values: values}, nil
}

var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references with the value of VAR. Any other
// use of '$', and references to unset variables, are left as written.
func expandEnv(s string) string {
	return envReference.ReplaceAllStringFunc(s, func(ref string) string {
		if v, ok := os.LookupEnv(ref[2 : len(ref)-1]); ok {
			return v
		}
		return ref
	})
}

// Lookup returns the value for key and whether it was present. Nested maps
// and slices are returned as copies.
func (c *Config) Lookup(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.values[key]
	return cloneValue(v), ok
}

// Get returns the value for key, or nil if the key is not configured
func (c *Config) Get(key string) any {
	v, _ := c.Lookup(key)
	return v
}

// GetString returns the value for key rendered as a string. Absent keys
// and null values yield "".
func (c *Config) GetString(key string) string {
	switch v := c.Get(key).(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Decode unmarshals the value for key into v using its yaml struct tags.
// Fields missing from the configured value keep their current contents.
// An absent key leaves v untouched.
func (c *Config) Decode(key string, v any) error {
	value, ok := c.Lookup(key)
	if !ok || value == nil {
		return nil
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// Keys returns the configured keys in no particular order
func (c *Config) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	return keys
}

// WithOverride returns a copy of c with key set to value
func (c *Config) WithOverride(key string, value any) *Config {
	var values map[string]any
	if c != nil {
		values = c.values
	}
	out := NewConfig(values)
	out.values[key] = value
	return out
}

// cloneValue deep-copies the container types produced by the YAML and TOML
// decoders. Scalars are returned as is.
func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case map[any]any:
		out := make(map[any]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e).(map[string]any)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
