package mcpserver

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/specgate/specgate/apispec"
	"github.com/specgate/specgate/differ"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	Rules             string
	Workers           int
	IntrospectionPath string
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from SPECGATE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		Rules:             envRules("SPECGATE_RULES"),
		Workers:           envInt("SPECGATE_WORKERS", 0),
		IntrospectionPath: envPath("SPECGATE_INTROSPECTION_PATH", apispec.DefaultIntrospectionPath),
	}
}

// rulesFor maps a preset name to a rules configuration, falling back to
// the configured server default when the request leaves it empty.
func rulesFor(name string) (*differ.RulesConfig, bool) {
	if name == "" {
		name = cfg.Rules
	}
	switch name {
	case "", "default":
		return differ.DefaultRules(), true
	case "strict":
		return differ.StrictRules(), true
	case "lenient":
		return differ.LenientRules(), true
	}
	return nil, false
}

func envRules(key string) string {
	v := os.Getenv(key)
	if v == "" {
		return "default"
	}
	switch v {
	case "default", "strict", "lenient":
		return v
	}
	slog.Warn("invalid rules env var, using default", "key", key, "value", v)
	return "default"
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envPath(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
