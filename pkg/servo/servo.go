// Package servo drives the boom servo from pulse widths produced by trim.
package servo

import (
	"fmt"

	"github.com/itohio/sailtrim/pkg/trim"
)

// Servo accepts a pulse width in timer ticks.
type Servo interface {
	SetPulse(p trim.Pulse) error

	// Release releases any hardware resources.
	Release() error
}

// Config holds configuration for servo outputs.
type Config struct {
	Driver string `yaml:"driver"` // "bridge", "rpi", "none"
	Pin    uint8  `yaml:"pin"`    // BCM pin for the rpi driver, must be a PWM0 pin
}

// Driver names.
const (
	DriverBridge = "bridge"
	DriverRPi    = "rpi"
	DriverNone   = "none"
)

// New creates a host-side Servo for the rpi and none drivers. The bridge
// driver is served by the vane serial device and is not built here.
func New(cfg Config, t Timing) (Servo, error) {
	switch cfg.Driver {
	case DriverRPi:
		return openRPi(cfg.Pin, t)
	case DriverNone, "":
		return &Noop{}, nil
	}
	return nil, fmt.Errorf("unknown servo driver %q", cfg.Driver)
}

// Noop implements Servo but only remembers the last pulse.
// Used for dry runs with no servo attached.
type Noop struct {
	Last trim.Pulse
}

// SetPulse implements Servo.SetPulse.
func (n *Noop) SetPulse(p trim.Pulse) error {
	n.Last = p
	return nil
}

// Release implements Servo.Release.
func (n *Noop) Release() error {
	return nil
}
