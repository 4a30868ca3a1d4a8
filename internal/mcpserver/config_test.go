package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specgate/specgate/apispec"
)

func TestLoadConfigDefaults(t *testing.T) {
	c := loadConfig()
	assert.Equal(t, "default", c.Rules)
	assert.Equal(t, 0, c.Workers)
	assert.Equal(t, apispec.DefaultIntrospectionPath, c.IntrospectionPath)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SPECGATE_RULES", "strict")
	t.Setenv("SPECGATE_WORKERS", "8")
	t.Setenv("SPECGATE_INTROSPECTION_PATH", "/api/schema.json")

	c := loadConfig()
	assert.Equal(t, "strict", c.Rules)
	assert.Equal(t, 8, c.Workers)
	assert.Equal(t, "/api/schema.json", c.IntrospectionPath)
}

func TestLoadConfigInvalidValues(t *testing.T) {
	t.Setenv("SPECGATE_RULES", "paranoid")
	t.Setenv("SPECGATE_WORKERS", "-3")

	c := loadConfig()
	assert.Equal(t, "default", c.Rules)
	assert.Equal(t, 0, c.Workers)
}

func TestRulesFor(t *testing.T) {
	for _, name := range []string{"", "default", "strict", "lenient"} {
		rules, ok := rulesFor(name)
		require.True(t, ok, "preset %q", name)
		require.NotNil(t, rules)
	}

	_, ok := rulesFor("paranoid")
	assert.False(t, ok)
}
