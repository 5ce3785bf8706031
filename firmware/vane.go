//go:build tinygo

package main

import (
	"context"
	"machine"

	"github.com/itohio/sailtrim/pkg/trim"
)

// adcVane reads the vane pot. A Get blocks for one conversion, so the
// trigger and the latch are the same call.
type adcVane struct {
	adc machine.ADC
}

func newADCVane(pin machine.Pin) *adcVane {
	pin.Configure(machine.PinConfig{Mode: machine.PinInput})
	v := &adcVane{adc: machine.ADC{Pin: pin}}
	v.adc.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})
	return v
}

func (v *adcVane) read() trim.Sample {
	return trim.Sample(v.adc.Get() >> ADC_SHIFT)
}

// Acquire implements control.Sensor.
func (v *adcVane) Acquire(ctx context.Context) (trim.Sample, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return v.read(), nil
}
