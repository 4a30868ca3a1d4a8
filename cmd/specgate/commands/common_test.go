package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specgate/specgate/differ"
)

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range []string{FormatText, FormatJSON, FormatYAML, FormatMarkdown} {
		assert.NoError(t, ValidateOutputFormat(format))
	}
	err := ValidateOutputFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format 'xml'")
}

func TestResolveRules(t *testing.T) {
	for _, name := range []string{"", "default", "strict", "lenient"} {
		rules, err := ResolveRules(name)
		require.NoError(t, err, "preset %q", name)
		require.NotNil(t, rules)
	}

	strict, err := ResolveRules("strict")
	require.NoError(t, err)
	rule := strict.Schema.PropertyAdded
	require.NotNil(t, rule)
	sev, _ := rule.Apply(differ.SeverityNonBreaking)
	assert.Equal(t, differ.SeverityBreaking, sev)

	_, err = ResolveRules("paranoid")
	require.Error(t, err)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("http://localhost:8000"))
	assert.True(t, IsURL("https://api.example.com"))
	assert.False(t, IsURL("openapi.yaml"))
	assert.False(t, IsURL("./specs/openapi.json"))
}
