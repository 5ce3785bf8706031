//go:build tinygo

package main

import "machine"

const (
	// BRIDGE_MODE hands the vane and the servo to a host over UART instead of
	// running the trim loop on the board.
	BRIDGE_MODE = false

	// Loop configuration
	LOOP_INTERVAL_MS   = 20 // One iteration per servo frame
	ACQUIRE_TIMEOUT_MS = 50 // Vane conversion deadline before the fallback is written

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 12   // Hardware resolution, reduced to 10 bits per sample
	ADC_SHIFT        = 6    // ADC.Get is left aligned to 16 bits

	// Servo configuration
	SERVO_HZ       = 50      // Frame rate of the boom servo
	SERVO_CLOCK_HZ = 1100000 // Pulse tick rate the calibration is expressed in

	// Vane pot
	PIN_VANE = machine.A1

	// Boom servo, TCC0 channel
	PIN_SERVO = machine.D2

	// Serial configuration
	// Bridge traffic is one "A1023\n" or "P12582\n" line per frame each way,
	// 50 frames/sec * 7 bytes = 350 bytes/sec. 115200 leaves plenty of room
	// for trace output.
	UART_BAUD_RATE = 115200
)

var servoPWM = machine.TCC0
