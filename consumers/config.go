package consumers

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"go.yaml.in/yaml/v4"
)

// ErrInvalidConfig is the sentinel wrapped by every registry parsing failure.
var ErrInvalidConfig = errors.New("invalid consumers config")

// EndpointPattern matches operations a consumer depends on. Path is a glob
// where '*' matches any run of characters (including '/') and '?' matches a
// single character. Methods lists HTTP methods, with "*" accepting any.
type EndpointPattern struct {
	Path    string   `yaml:"path" json:"path"`
	Methods []string `yaml:"methods" json:"methods"`
}

// Matches reports whether the pattern covers the given path and method.
// Method comparison is case-insensitive; an empty method matches patterns
// that accept any method.
func (p EndpointPattern) Matches(path, method string) bool {
	if !globMatch(p.Path, path) {
		return false
	}
	for _, m := range p.Methods {
		if m == "*" {
			return true
		}
		if method != "" && strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// Consumer is one registered consumer of the API.
type Consumer struct {
	Name        string            `yaml:"-" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Endpoints   []EndpointPattern `yaml:"endpoints" json:"endpoints"`
}

// DependsOn reports whether any of the consumer's endpoint patterns covers
// the given path and method.
func (c Consumer) DependsOn(path, method string) bool {
	for _, pattern := range c.Endpoints {
		if pattern.Matches(path, method) {
			return true
		}
	}
	return false
}

// Registry holds all registered consumers, sorted by name.
type Registry struct {
	Consumers []Consumer
}

// registryFile is the on-disk shape of the registry.
type registryFile struct {
	Consumers map[string]Consumer `yaml:"consumers"`
}

// LoadRegistry reads and parses a registry YAML file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrInvalidConfig, path, err)
	}
	reg, err := ParseRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// ParseRegistry parses registry YAML. Every consumer must carry a
// description and at least one endpoint pattern with a path.
func ParseRegistry(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if file.Consumers == nil {
		return nil, fmt.Errorf("%w: missing 'consumers' section", ErrInvalidConfig)
	}

	reg := &Registry{Consumers: make([]Consumer, 0, len(file.Consumers))}
	for name, consumer := range file.Consumers {
		consumer.Name = name
		if consumer.Description == "" {
			return nil, fmt.Errorf("%w: consumer %q has no description", ErrInvalidConfig, name)
		}
		if len(consumer.Endpoints) == 0 {
			return nil, fmt.Errorf("%w: consumer %q has no endpoints", ErrInvalidConfig, name)
		}
		for i := range consumer.Endpoints {
			if consumer.Endpoints[i].Path == "" {
				return nil, fmt.Errorf("%w: consumer %q endpoint %d has no path", ErrInvalidConfig, name, i)
			}
			if len(consumer.Endpoints[i].Methods) == 0 {
				consumer.Endpoints[i].Methods = []string{"*"}
			}
		}
		reg.Consumers = append(reg.Consumers, consumer)
	}
	sort.Slice(reg.Consumers, func(i, j int) bool {
		return reg.Consumers[i].Name < reg.Consumers[j].Name
	})
	return reg, nil
}

// globMatch matches value against a shell-style pattern where '*' spans
// path separators. Unanchored regexp features in the pattern are escaped.
func globMatch(pattern, value string) bool {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(value)
}
