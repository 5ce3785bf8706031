//go:build tinygo

package main

import (
	"machine"

	"github.com/itohio/sailtrim/pkg/servo"
	"github.com/itohio/sailtrim/pkg/trim"
)

// pwmServo drives the boom servo from one TCC channel.
type pwmServo struct {
	pwm    *machine.TCC
	ch     uint8
	timing servo.Timing
}

func newPWMServo(pwm *machine.TCC, pin machine.Pin, t servo.Timing) (*pwmServo, error) {
	err := pwm.Configure(machine.PWMConfig{
		Period: machine.GHz * 1 / uint64(t.ServoHz),
	})
	if err != nil {
		return nil, err
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return nil, err
	}
	return &pwmServo{pwm: pwm, ch: ch, timing: t}, nil
}

// SetPulse implements control.Actuator. Pulses beyond a frame saturate.
func (s *pwmServo) SetPulse(p trim.Pulse) error {
	s.pwm.Set(s.ch, s.timing.Duty(p, s.pwm.Top()))
	return nil
}
