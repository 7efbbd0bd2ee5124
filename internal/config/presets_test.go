package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePresetsBasic(t *testing.T) {
	src := `
[standard]
retentions = 1m:1h, 1h:1d, 1d:1y

[high-res]
retentions = 10s:1d
`
	presets, err := parsePresets(strings.NewReader(src))
	require.NoError(t, err)
	require.Contains(t, presets, "standard")
	require.Contains(t, presets, "high-res")

	assert.Equal(t, []string{"1m:1h", "1h:1d", "1d:1y"}, presets["standard"].Retentions)
	assert.Equal(t, []string{"10s:1d"}, presets["high-res"].Retentions)
}

func TestParsePresetsIgnoresBlankLinesAndComments(t *testing.T) {
	src := `
# a leading comment

[standard]
# comment inside a section
retentions = 1m:1h  # trailing comment
`
	presets, err := parsePresets(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"1m:1h"}, presets["standard"].Retentions)
}

func TestParsePresetsLaterSectionOverwritesEarlier(t *testing.T) {
	src := `
[standard]
retentions = 1m:1h

[standard]
retentions = 1m:1d
`
	presets, err := parsePresets(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, presets, 1)
	assert.Equal(t, []string{"1m:1d"}, presets["standard"].Retentions)
}

func TestParsePresetsRejectsMalformedLine(t *testing.T) {
	src := `
[standard]
not a key value line
`
	_, err := parsePresets(strings.NewReader(src))
	assert.Error(t, err)
}

func TestParsePresetsRejectsSectionWithNoRetentions(t *testing.T) {
	src := `
[standard]
[other]
retentions = 1m:1h
`
	_, err := parsePresets(strings.NewReader(src))
	assert.Error(t, err)
}

func TestParsePresetsEmptyInputYieldsNoPresets(t *testing.T) {
	presets, err := parsePresets(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, presets)
}

func TestLoadPresetsMissingFile(t *testing.T) {
	_, err := LoadPresets("/nonexistent/path/storage-schemas.conf")
	assert.Error(t, err)
}

func TestDefaultPresetsAreWellFormed(t *testing.T) {
	for name, preset := range DefaultPresets {
		assert.Equal(t, name, preset.Name)
		assert.NotEmpty(t, preset.Retentions)
	}
}
