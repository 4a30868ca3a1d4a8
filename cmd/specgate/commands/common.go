// Package commands provides CLI command handlers for specgate.
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/specgate/specgate/differ"
)

// Output format constants
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML, FormatMarkdown:
		return nil
	}
	return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s, %s",
		format, FormatText, FormatJSON, FormatYAML, FormatMarkdown)
}

// OutputStructured marshals data in the specified format (json or yaml) to stdout.
func OutputStructured(data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	fmt.Println(string(bytes))
	return nil
}

// ResolveRules maps a preset name to a rules configuration.
func ResolveRules(name string) (*differ.RulesConfig, error) {
	switch name {
	case "", "default":
		return differ.DefaultRules(), nil
	case "strict":
		return differ.StrictRules(), nil
	case "lenient":
		return differ.LenientRules(), nil
	}
	return nil, fmt.Errorf("invalid rules '%s'. Valid presets: default, strict, lenient", name)
}

// IsURL reports whether the source should be fetched over HTTP rather
// than read from disk.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// sourceOption returns the differ option selecting the given source for
// the baseline or candidate side.
func sourceOption(source string, baseline bool) differ.Option {
	switch {
	case baseline && IsURL(source):
		return differ.WithBaselineURL(source)
	case baseline:
		return differ.WithBaselineFile(source)
	case IsURL(source):
		return differ.WithCandidateURL(source)
	default:
		return differ.WithCandidateFile(source)
	}
}
