//go:build baremetal

package servo

import "errors"

func openRPi(uint8, Timing) (Servo, error) {
	return nil, errors.New("rpi driver is not available on this target")
}
