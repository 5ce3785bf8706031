package servo

import (
	"github.com/chewxy/math32"
	"github.com/itohio/sailtrim/pkg/trim"
)

const (
	// DefaultClockHz is the approximate SMCLK of the reference MSP430 board.
	DefaultClockHz = 1100000
	// DefaultServoHz suits a Futaba FP-S148 class hobby servo.
	DefaultServoHz = 50
)

// Timing describes the PWM timer that produces the servo pulse. Pulse widths
// are counted in ticks of ClockHz.
type Timing struct {
	ClockHz uint32
	ServoHz uint32
}

// DefaultTiming returns the stock timer setup.
func DefaultTiming() Timing {
	return Timing{ClockHz: DefaultClockHz, ServoHz: DefaultServoHz}
}

// Period returns the PWM period in ticks.
func (t Timing) Period() trim.Pulse {
	if t.ServoHz == 0 {
		return 0
	}
	return trim.Pulse(t.ClockHz / t.ServoHz)
}

// Microseconds converts a pulse in ticks to microseconds.
func (t Timing) Microseconds(p trim.Pulse) float32 {
	if t.ClockHz == 0 {
		return 0
	}
	return float32(p) * 1e6 / float32(t.ClockHz)
}

// Ticks converts microseconds to the nearest pulse in ticks.
func (t Timing) Ticks(us float32) trim.Pulse {
	return trim.Pulse(math32.Round(us * float32(t.ClockHz) / 1e6))
}

// Clamp limits p to what the timer can emit, [0, Period-1]. The second
// result reports whether p had to be changed.
func (t Timing) Clamp(p trim.Pulse) (trim.Pulse, bool) {
	period := t.Period()
	switch {
	case p < 0:
		return 0, true
	case period > 0 && p >= period:
		return period - 1, true
	}
	return p, false
}

// Duty scales a pulse to a counter running from 0 to top over one period.
func (t Timing) Duty(p trim.Pulse, top uint32) uint32 {
	p, _ = t.Clamp(p)
	period := t.Period()
	if period <= 0 {
		return 0
	}
	return uint32(uint64(p) * uint64(top) / uint64(period))
}
