//go:build !baremetal

package servo

import (
	"testing"

	"github.com/itohio/sailtrim/pkg/trim"
	"github.com/stretchr/testify/assert"
)

func TestRPiCounts(t *testing.T) {
	timing := Timing{ClockHz: 1000000, ServoHz: 50}

	tests := []struct {
		pulse trim.Pulse
		want  uint32
	}{
		{0, 0},
		{1200, 1200},
		{1700, 1700},
		{-5, 0},
		{30000, rpiRange},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rpiCounts(timing, tt.pulse), "pulse %d", tt.pulse)
	}
}

func TestRPiCounts_DefaultTiming(t *testing.T) {
	tm := DefaultTiming()
	assert.Equal(t, uint32(1545), rpiCounts(tm, 1700))
	assert.Equal(t, uint32(2000), rpiCounts(tm, 2200))
	assert.Equal(t, uint32(rpiRange), rpiCounts(Timing{ClockHz: 1000000, ServoHz: 10}, 50000))
}

func TestRPiCounts_TickRate(t *testing.T) {
	// Two ticks per microsecond
	timing := Timing{ClockHz: 2000000, ServoHz: 50}
	assert.Equal(t, uint32(850), rpiCounts(timing, 1700))
}
