//go:build tinygo

package main

import "github.com/itohio/sailtrim/pkg/trim"

var (
	// Serial buffer for reading lines
	serialBuffer [16]byte
	serialPos    int
)

// processBridge serves the host: "?<seq>" converts the vane and replies
// "A<seq>,<raw>", "P<ticks>" sets the servo pulse.
func processBridge(vane *adcVane, out *pwmServo) {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		if data == '\n' || data == '\r' {
			if serialPos > 0 {
				handleCommand(serialBuffer[:serialPos], vane, out)
			}
			serialPos = 0
			continue
		}

		if data == ' ' || data == '\t' {
			continue
		}

		if serialPos < len(serialBuffer) {
			serialBuffer[serialPos] = data
			serialPos++
		} else {
			// Overlong line, drop it
			serialPos = 0
		}
	}
}

func handleCommand(line []byte, vane *adcVane, out *pwmServo) {
	switch line[0] {
	case '?':
		seq, ok := parseUint(line[1:])
		if !ok || seq > 0xFFFF {
			println("E bad sequence")
			return
		}
		print("A")
		print(seq)
		print(",")
		print(uint16(vane.read()))
		print("\n")
	case 'P':
		p, ok := parseUint(line[1:])
		if !ok {
			println("E bad pulse")
			return
		}
		out.SetPulse(trim.Pulse(p))
	default:
		println("E unknown command")
	}
}

// parseUint parses up to six decimal digits without pulling in strconv.
func parseUint(b []byte) (uint32, bool) {
	if len(b) == 0 || len(b) > 6 {
		return 0, false
	}
	var v uint32
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + uint32(c-'0')
	}
	return v, true
}
