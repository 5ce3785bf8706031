// Package vane provides the peripheral adapters of the trim controller: a
// serial bridge to a microcontroller that owns the ADC and the servo timer,
// and a simulated vane for development without hardware.
package vane

import (
	"errors"

	"github.com/itohio/sailtrim/pkg/control"
	"github.com/itohio/sailtrim/pkg/servo"
)

var (
	// ErrNotConnected is returned by operations on a closed device.
	ErrNotConnected = errors.New("not connected")
	// ErrAlreadyConnected is returned by Connect on an open device.
	ErrAlreadyConnected = errors.New("already connected")
)

// Device is a vane sensor that also drives the servo (real or mocked).
type Device interface {
	Connect() error
	Close() error
	IsConnected() bool

	control.Sensor
	servo.Servo
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
