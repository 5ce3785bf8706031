//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"context"
	"machine"
	"time"

	"github.com/itohio/sailtrim/pkg/control"
	"github.com/itohio/sailtrim/pkg/servo"
	"github.com/itohio/sailtrim/pkg/trim"
)

var uart = machine.UART0

func main() {
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	vane := newADCVane(PIN_VANE)

	timing := servo.Timing{ClockHz: SERVO_CLOCK_HZ, ServoHz: SERVO_HZ}
	out, err := newPWMServo(servoPWM, PIN_SERVO, timing)
	if err != nil {
		for {
			println("servo pwm:", err.Error())
			time.Sleep(time.Second)
		}
	}

	mapper := trim.New(trim.DefaultParams())
	out.SetPulse(mapper.ApparentCentre())

	if BRIDGE_MODE {
		runBridge(vane, out)
	}
	runLoop(vane, out, mapper)
}

func runBridge(vane *adcVane, out *pwmServo) {
	for {
		processBridge(vane, out)
		time.Sleep(100 * time.Microsecond)
	}
}

func runLoop(vane *adcVane, out *pwmServo, mapper *trim.Mapper) {
	loop := control.New(vane, out, mapper, control.Options{
		Interval:       LOOP_INTERVAL_MS * time.Millisecond,
		AcquireTimeout: ACQUIRE_TIMEOUT_MS * time.Millisecond,
		Fallback:       control.FallbackHold,
	})
	for {
		if err := loop.Run(context.Background()); err != nil {
			println("loop:", err.Error())
			time.Sleep(time.Second)
		}
	}
}
