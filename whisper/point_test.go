package whisper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointRoundTrip(t *testing.T) {
	cases := []struct {
		name      string
		timestamp uint32
		value     float64
	}{
		{"zero", 0, 0},
		{"small", 1, 0.5},
		{"epoch", 1000000000, 42.0},
		{"max timestamp", math.MaxUint32, 1.0},
		{"negative value", 100, -17.25},
		{"nan-ish large", 100, 1e308},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			buf := EncodePoint(c.timestamp, c.value)
			decoded, err := DecodePoint(buf[:])
			require.NoError(t, err)
			assert.Equal(t, c.timestamp, decoded.Timestamp)
			assert.Equal(t, c.value, decoded.Value)
		})
	}
}

func TestDecodePointShortBuffer(t *testing.T) {
	_, err := DecodePoint([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestPointIsEmpty(t *testing.T) {
	assert.True(t, Point{Timestamp: 0, Value: 99}.IsEmpty())
	assert.False(t, Point{Timestamp: 1, Value: 0}.IsEmpty())
}
