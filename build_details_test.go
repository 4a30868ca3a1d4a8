package specgate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	v := Version()
	assert.NotEmpty(t, v)
	// Development builds report "dev"; release builds inject a semver string.
	if v != "dev" {
		assert.NotContains(t, v, " ")
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	assert.True(t, strings.HasPrefix(ua, "specgate/"), "user agent %q should start with specgate/", ua)
	assert.True(t, strings.HasSuffix(ua, Version()))
}
