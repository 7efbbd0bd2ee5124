package whisper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRetentionSpec(t *testing.T) {
	cases := []struct {
		in   string
		want RetentionSpec
	}{
		{"1m:1h", RetentionSpec{Precision: 60, Retention: 3600}},
		{"60:3600", RetentionSpec{Precision: 60, Retention: 3600}},
		{"1h:1d", RetentionSpec{Precision: 3600, Retention: 86400}},
		{"1d:1y", RetentionSpec{Precision: 86400, Retention: 31536000}},
		{"10s:1w", RetentionSpec{Precision: 10, Retention: 604800}},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseRetentionSpec(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestParseRetentionSpecRejectsZeroPrecision(t *testing.T) {
	_, err := ParseRetentionSpec("0s:1h")
	assert.ErrorIs(t, err, ErrSchemaInvalid)
}

func TestParseRetentionSpecRejectsNonDivisibleRetention(t *testing.T) {
	_, err := ParseRetentionSpec("7s:10s")
	assert.ErrorIs(t, err, ErrSchemaInvalid)
}

func TestParseRetentionSpecRejectsMalformed(t *testing.T) {
	for _, s := range []string{"1m", "1m:1h:1d", "x:1h", "1m:x"} {
		_, err := ParseRetentionSpec(s)
		assert.ErrorIsf(t, err, ErrSchemaInvalid, "input %q", s)
	}
}

func TestParseSchemaSortsByPrecision(t *testing.T) {
	schema, err := ParseSchema([]string{"1h:1w", "1m:1h"})
	require.NoError(t, err)
	require.Len(t, schema.Specs, 2)
	assert.Equal(t, uint32(60), schema.Specs[0].Precision)
	assert.Equal(t, uint32(3600), schema.Specs[1].Precision)
}

func TestParseSchemaRejectsNonDivisiblePrecisions(t *testing.T) {
	_, err := ParseSchema([]string{"60:3600", "90:9000"})
	assert.ErrorIs(t, err, ErrSchemaInvalid)
}

func TestParseSchemaRejectsDuplicatePrecision(t *testing.T) {
	_, err := ParseSchema([]string{"60:3600", "60:7200"})
	assert.ErrorIs(t, err, ErrSchemaInvalid)
}

func TestParseSchemaRejectsNonIncreasingRetention(t *testing.T) {
	_, err := ParseSchema([]string{"60:36000", "120:3600"})
	assert.ErrorIs(t, err, ErrSchemaInvalid)
}

func TestParseSchemaRejectsInsufficientPointsToConsolidate(t *testing.T) {
	// The 60:120 archive has only 2 points but the 3600:7200 archive needs
	// 60 of them to consolidate one of its own.
	_, err := ParseSchema([]string{"60:120", "3600:7200"})
	assert.ErrorIs(t, err, ErrSchemaInvalid)
}

func TestParseSchemaRejectsEmpty(t *testing.T) {
	_, err := ParseSchema(nil)
	assert.ErrorIs(t, err, ErrSchemaInvalid)
}

func TestSchemaSizeOnDisk(t *testing.T) {
	schema, err := ParseSchema([]string{"1m:1h"})
	require.NoError(t, err)

	assert.Equal(t, uint32(28), schema.HeaderSizeOnDisk())
	assert.Equal(t, uint32(748), schema.SizeOnDisk())
	assert.Equal(t, uint32(3600), schema.MaxRetention())
}

func TestSchemaArchiveInfos(t *testing.T) {
	schema, err := ParseSchema([]string{"1m:1h", "1h:1d"})
	require.NoError(t, err)

	archives := schema.ArchiveInfos()
	require.Len(t, archives, 2)
	assert.Equal(t, ArchiveInfo{Offset: 40, SecondsPerPoint: 60, Points: 60}, archives[0])
	assert.Equal(t, ArchiveInfo{Offset: 40 + 60*12, SecondsPerPoint: 3600, Points: 24}, archives[1])
}
