package consumers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryYAML = `
consumers:
  mobile-app:
    description: iOS and Android clients
    endpoints:
      - path: /pets
        methods: [GET]
      - path: /pets/*
        methods: [GET, POST]
  billing:
    description: Internal billing service
    endpoints:
      - path: /invoices/*
`

func TestParseRegistry(t *testing.T) {
	reg, err := ParseRegistry([]byte(registryYAML))
	require.NoError(t, err)
	require.Len(t, reg.Consumers, 2)

	// Sorted by name.
	assert.Equal(t, "billing", reg.Consumers[0].Name)
	assert.Equal(t, "mobile-app", reg.Consumers[1].Name)

	// Omitted methods default to any.
	assert.Equal(t, []string{"*"}, reg.Consumers[0].Endpoints[0].Methods)
	assert.Equal(t, "Internal billing service", reg.Consumers[0].Description)
}

func TestParseRegistryErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"not yaml", "consumers: [}", "invalid consumers config"},
		{"missing section", "other: {}", "missing 'consumers' section"},
		{
			"missing description",
			"consumers:\n  a:\n    endpoints:\n      - path: /x\n",
			"no description",
		},
		{
			"missing endpoints",
			"consumers:\n  a:\n    description: d\n",
			"no endpoints",
		},
		{
			"missing path",
			"consumers:\n  a:\n    description: d\n    endpoints:\n      - methods: [GET]\n",
			"no path",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(tc.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consumers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(registryYAML), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, reg.Consumers, 2)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEndpointPatternMatches(t *testing.T) {
	cases := []struct {
		name    string
		pattern EndpointPattern
		path    string
		method  string
		want    bool
	}{
		{
			name:    "exact path and method",
			pattern: EndpointPattern{Path: "/pets", Methods: []string{"GET"}},
			path:    "/pets", method: "get", want: true,
		},
		{
			name:    "wildcard spans separators",
			pattern: EndpointPattern{Path: "/pets/*", Methods: []string{"*"}},
			path:    "/pets/123/toys", method: "delete", want: true,
		},
		{
			name:    "wildcard does not match the bare prefix",
			pattern: EndpointPattern{Path: "/pets/*", Methods: []string{"*"}},
			path:    "/pets", method: "get", want: false,
		},
		{
			name:    "method mismatch",
			pattern: EndpointPattern{Path: "/pets", Methods: []string{"POST"}},
			path:    "/pets", method: "get", want: false,
		},
		{
			name:    "question mark matches one character",
			pattern: EndpointPattern{Path: "/v?/pets", Methods: []string{"*"}},
			path:    "/v2/pets", method: "get", want: true,
		},
		{
			name:    "regexp metacharacters are literal",
			pattern: EndpointPattern{Path: "/pets.json", Methods: []string{"*"}},
			path:    "/petsXjson", method: "get", want: false,
		},
		{
			name:    "any-method probe matches wildcard methods only",
			pattern: EndpointPattern{Path: "/pets", Methods: []string{"GET"}},
			path:    "/pets", method: "", want: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.pattern.Matches(tc.path, tc.method))
		})
	}
}
