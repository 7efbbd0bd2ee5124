package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClockReturnsSameValue(t *testing.T) {
	clk := Fixed(1234567890)
	assert.EqualValues(t, 1234567890, clk.Now())
	assert.EqualValues(t, 1234567890, clk.Now())
}

func TestSystemClockTracksWallClock(t *testing.T) {
	clk := System{}
	before := uint32(time.Now().Unix())
	got := clk.Now()
	after := uint32(time.Now().Unix())

	assert.GreaterOrEqual(t, got, before)
	assert.LessOrEqual(t, got, after)
}
