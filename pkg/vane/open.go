package vane

import (
	"fmt"

	"github.com/itohio/sailtrim/pkg/config"
	"github.com/itohio/sailtrim/pkg/servo"
)

// Open builds the sensor device and the servo output selected by cfg. The
// device is not connected yet. With the bridge driver the servo is the
// device itself.
func Open(cfg *config.Config, mock bool) (Device, servo.Servo, error) {
	var dev Device
	if mock {
		mockCfg := cfg.Mock
		dev = NewMock(&mockCfg)
	} else {
		dev = New(cfg.Serial.Port, cfg.Serial.BaudRate, DefaultBufferSize)
	}

	if cfg.Servo.Driver == servo.DriverBridge {
		return dev, dev, nil
	}

	out, err := servo.New(cfg.Servo, cfg.Timing())
	if err != nil {
		return nil, nil, fmt.Errorf("servo: %w", err)
	}
	return dev, out, nil
}
