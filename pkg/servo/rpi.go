//go:build !baremetal

package servo

import (
	"fmt"
	"log"

	"github.com/hjkoskel/govattu"
	"github.com/itohio/sailtrim/pkg/trim"
)

func openRPi(pin uint8, t Timing) (Servo, error) {
	hw, err := govattu.Open()
	if err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}
	return NewRPi(hw, pin, t), nil
}

// rpiRange and rpiDivisor give a 50Hz PWM0 with one count per microsecond.
const (
	rpiRange   = 20000
	rpiDivisor = 19
)

// RPi drives a servo from the Raspberry Pi hardware PWM0 channel.
type RPi struct {
	hw     govattu.Vattu
	pin    uint8
	timing Timing
}

// NewRPi configures pin for PWM0. The servo moves on the first SetPulse.
func NewRPi(hw govattu.Vattu, pin uint8, t Timing) *RPi {
	hw.PinMode(pin, govattu.ALT5) // ALT5 for PWM0 on 12/18
	hw.PwmSetMode(true, true, false, false)
	hw.PwmSetClock(rpiDivisor)
	hw.Pwm0SetRange(rpiRange)

	return &RPi{
		hw:     hw,
		pin:    pin,
		timing: t,
	}
}

// SetPulse implements Servo.SetPulse.
func (s *RPi) SetPulse(p trim.Pulse) error {
	p, clamped := s.timing.Clamp(p)
	if clamped {
		log.Printf("servo: pulse clamped to %d ticks", p)
	}
	s.hw.Pwm0Set(rpiCounts(s.timing, p))
	return nil
}

// Release implements Servo.Release.
func (s *RPi) Release() error {
	return s.hw.Close()
}

// rpiCounts converts ticks to PWM0 counts, limited to the configured range.
func rpiCounts(t Timing, p trim.Pulse) uint32 {
	us := t.Microseconds(p)
	if us < 0 {
		return 0
	}
	if us > rpiRange {
		return rpiRange
	}
	return uint32(us + 0.5)
}
