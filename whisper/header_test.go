package whisper

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	archives := []ArchiveInfo{
		{Offset: 40, SecondsPerPoint: 60, Points: 60},
		{Offset: 760, SecondsPerPoint: 3600, Points: 24},
	}
	metadata := Metadata{
		AggregationMethod: Average,
		MaxRetention:      archives[1].Retention(),
		XFilesFactor:      0.5,
		ArchiveCount:      uint32(len(archives)),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, metadata, archives))

	r := bytes.NewReader(buf.Bytes())
	header, err := ReadHeader(r)
	require.NoError(t, err)

	assert.Equal(t, metadata, header.Metadata)
	if diff := cmp.Diff(archives, header.Archives); diff != "" {
		t.Errorf("archives mismatch (-want +got):\n%s", diff)
	}
}

func TestReadHeaderRejectsZeroArchives(t *testing.T) {
	var buf bytes.Buffer
	metadata := Metadata{AggregationMethod: Average, ArchiveCount: 0}
	require.NoError(t, WriteHeader(&buf, metadata, nil))

	_, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrHeaderCorrupt)
}

func TestReadHeaderRejectsNonContiguousOffsets(t *testing.T) {
	archives := []ArchiveInfo{
		{Offset: 40, SecondsPerPoint: 60, Points: 60},
		{Offset: 9999, SecondsPerPoint: 3600, Points: 24}, // wrong, should be 760
	}
	metadata := Metadata{ArchiveCount: uint32(len(archives)), MaxRetention: archives[1].Retention()}

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, metadata, archives))

	_, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrHeaderCorrupt)
}

func TestReadHeaderRejectsMaxRetentionMismatch(t *testing.T) {
	archives := []ArchiveInfo{{Offset: 28, SecondsPerPoint: 60, Points: 60}}
	metadata := Metadata{ArchiveCount: 1, MaxRetention: 1234}

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, metadata, archives))

	_, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrHeaderCorrupt)
}

func TestAggregationMethodString(t *testing.T) {
	assert.Equal(t, "average", Average.String())
	assert.Equal(t, "sum", Sum.String())
	assert.Contains(t, AggregationMethod(99).String(), "unknown")
}
