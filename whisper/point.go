package whisper

import (
	"encoding/binary"
	"fmt"
	"math"
)

// pointSize is the fixed on-disk width of a Point: a 4-byte timestamp
// followed by an 8-byte IEEE-754 value, both big-endian.
const pointSize = 12

// Point is a single sample: a Unix timestamp in seconds and its value.
// A Point with Timestamp == 0 is the sentinel "empty slot" marker and is
// never a real sample.
type Point struct {
	Timestamp uint32
	Value     float64
}

// IsEmpty reports whether p is the sentinel empty-slot marker.
func (p Point) IsEmpty() bool {
	return p.Timestamp == 0
}

// EncodePoint renders a point as its fixed 12-byte on-disk representation.
func EncodePoint(timestamp uint32, value float64) [pointSize]byte {
	var buf [pointSize]byte
	binary.BigEndian.PutUint32(buf[0:4], timestamp)
	binary.BigEndian.PutUint64(buf[4:12], math.Float64bits(value))
	return buf
}

// DecodePoint parses a 12-byte on-disk record. It fails only if buf is
// shorter than pointSize.
func DecodePoint(buf []byte) (Point, error) {
	if len(buf) < pointSize {
		return Point{}, fmt.Errorf("whisper: short point buffer: got %d bytes, want %d", len(buf), pointSize)
	}
	timestamp := binary.BigEndian.Uint32(buf[0:4])
	value := math.Float64frombits(binary.BigEndian.Uint64(buf[4:12]))
	return Point{Timestamp: timestamp, Value: value}, nil
}
