package commands

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDiffFlags(t *testing.T) {
	fs, flags := SetupDiffFlags()
	fs.SetOutput(io.Discard)

	require.NoError(t, fs.Parse([]string{
		"--format", "markdown",
		"--rules", "strict",
		"--workers", "4",
		"--fail-on-changes",
		"base.yaml", "cand.yaml",
	}))

	assert.Equal(t, FormatMarkdown, flags.Format)
	assert.Equal(t, "strict", flags.Rules)
	assert.Equal(t, 4, flags.Workers)
	assert.True(t, flags.FailOnChanges)
	assert.Equal(t, 2, fs.NArg())
}

func TestSetupDiffFlagsDefaults(t *testing.T) {
	fs, flags := SetupDiffFlags()
	fs.SetOutput(io.Discard)

	require.NoError(t, fs.Parse([]string{"base.yaml", "cand.yaml"}))
	assert.Equal(t, FormatText, flags.Format)
	assert.Equal(t, "default", flags.Rules)
	assert.Equal(t, 0, flags.Workers)
	assert.False(t, flags.FailOnChanges)
}

func TestHandleDiffArgumentErrors(t *testing.T) {
	t.Run("wrong arg count", func(t *testing.T) {
		err := HandleDiff([]string{"only-one.yaml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly two")
	})

	t.Run("bad format", func(t *testing.T) {
		err := HandleDiff([]string{"--format", "xml", "a.yaml", "b.yaml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})

	t.Run("bad rules", func(t *testing.T) {
		err := HandleDiff([]string{"--rules", "paranoid", "a.yaml", "b.yaml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid rules")
	})

	t.Run("missing file", func(t *testing.T) {
		err := HandleDiff([]string{"absent-a.yaml", "absent-b.yaml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "comparing descriptions")
	})
}
