package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityInformational, "informational"},
		{SeverityNonBreaking, "non-breaking"},
		{SeverityBreaking, "breaking"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.severity.String())
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	// The report sorter relies on this ordering to put breaking changes first.
	assert.Less(t, int(SeverityInformational), int(SeverityNonBreaking))
	assert.Less(t, int(SeverityNonBreaking), int(SeverityBreaking))
}
