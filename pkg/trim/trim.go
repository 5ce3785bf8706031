// Package trim maps a vane angle code to a boom servo pulse width.
//
// The angle is a 10-bit code (0..1023 for 0..360 degrees of vane rotation).
// After calibration the code is classified into a sailing regime and the pulse
// is interpolated linearly inside that regime. Everything here is pure: the
// same input always gives the same pulse.
package trim

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Regime boundaries in wind codes. Each interval is open at the lower bound
// and closed at the upper bound, except in irons which includes 0.
const (
	BoundaryIrons     Wind = 0x47  // ~25 deg, end of in irons
	BoundaryPortRun   Wind = 0x1B8 // ~155 deg, end of port tack
	BoundaryGybe      Wind = 0x1E8 // ~172 deg, end of port run
	BoundaryStbdRun   Wind = 0x217 // ~188 deg, end of gybe
	BoundaryStbdTack  Wind = 0x246 // ~205 deg, end of starboard run
	BoundaryIronsStbd Wind = 0x3B8 // ~335 deg, end of starboard tack
	MaxCode           Wind = 0x3FF
)

const (
	// Codes is the number of distinct 10-bit codes.
	Codes = int(MaxCode) + 1
	// LegacyWrapModulus folds by 0x3FF like the legacy firmware.
	LegacyWrapModulus = 0x3FF
)

// Default pulse widths in PWM timer ticks.
const (
	DefaultCentre  Pulse = 1700
	DefaultPortRun Pulse = 1200
	DefaultStbdRun Pulse = 2200
)

// Sample is a raw 10-bit reading from the vane sensor.
type Sample uint16

// Wind is a calibrated apparent wind code in [0, MaxCode].
type Wind uint16

// Degrees converts the code to degrees of vane rotation.
func (w Wind) Degrees() float32 {
	return float32(w) * 360 / float32(Codes)
}

// Pulse is a servo pulse width in PWM timer ticks.
type Pulse int

// GybeMode selects the reference point of the gybe sweep.
type GybeMode uint8

const (
	// GybeLiteral multiplies the absolute wind code. This matches the legacy
	// firmware and jumps far past the starboard run position.
	GybeLiteral GybeMode = iota
	// GybeOffset multiplies the offset from BoundaryGybe, sweeping
	// continuously from the port run to the starboard run position.
	GybeOffset
)

func (g GybeMode) String() string {
	if g == GybeOffset {
		return "offset"
	}
	return "literal"
}

// ParseGybeMode parses "literal" or "offset". The empty string is literal.
func ParseGybeMode(s string) (GybeMode, error) {
	switch s {
	case "", "literal":
		return GybeLiteral, nil
	case "offset":
		return GybeOffset, nil
	}
	return GybeLiteral, fmt.Errorf("unknown gybe mode %q", s)
}

// Params holds the calibration of one boat. All pulses are in timer ticks.
type Params struct {
	Centre       Pulse
	CentreOffset Pulse
	PortRun      Pulse
	StbdRun      Pulse
	WindOffset   int
	WrapModulus  int // 0 means Codes
	Gybe         GybeMode
}

// DefaultParams returns the stock calibration.
func DefaultParams() Params {
	return Params{
		Centre:      DefaultCentre,
		PortRun:     DefaultPortRun,
		StbdRun:     DefaultStbdRun,
		WrapModulus: Codes,
		Gybe:        GybeLiteral,
	}
}

// Decision is the complete result of mapping one wind code.
type Decision struct {
	Wind     Wind
	Regime   Regime
	Downwind Downwind
	Pulse    Pulse
}

func (d Decision) String() string {
	if d.Regime == DownwindRunOrGybe {
		return fmt.Sprintf("wind=%#03x (%.1f deg) %s/%s pulse=%d", uint16(d.Wind), d.Wind.Degrees(), d.Regime, d.Downwind, d.Pulse)
	}
	return fmt.Sprintf("wind=%#03x (%.1f deg) %s pulse=%d", uint16(d.Wind), d.Wind.Degrees(), d.Regime, d.Pulse)
}

// Mapper evaluates the wind to pulse mapping for a fixed calibration.
// It holds no mutable state and is safe for concurrent use.
type Mapper struct {
	p Params
}

// New creates a Mapper. A zero WrapModulus is replaced by Codes.
func New(p Params) *Mapper {
	if p.WrapModulus <= 0 {
		p.WrapModulus = Codes
	}
	return &Mapper{p: p}
}

// Params returns the calibration the mapper was built with.
func (m *Mapper) Params() Params {
	return m.p
}

// ApparentCentre returns the pulse width that centres the boom.
func (m *Mapper) ApparentCentre() Pulse {
	return m.p.Centre + m.p.CentreOffset
}

// ApparentWind applies the wind offset to a raw sample.
func (m *Mapper) ApparentWind(raw Sample) Wind {
	return wrapWind(int(raw)+m.p.WindOffset, m.p.WrapModulus)
}

// Pulse returns the servo pulse for an apparent wind code.
func (m *Mapper) Pulse(w Wind) Pulse {
	return pulse(w, m.ApparentCentre(), m.p.PortRun, m.p.StbdRun, m.p.Gybe)
}

// Decide classifies w and computes its pulse.
func (m *Mapper) Decide(w Wind) Decision {
	return Decision{
		Wind:     w,
		Regime:   Classify(w),
		Downwind: ClassifyDownwind(w),
		Pulse:    m.Pulse(w),
	}
}

// Map calibrates a raw sample and decides it.
func (m *Mapper) Map(raw Sample) Decision {
	return m.Decide(m.ApparentWind(raw))
}

// Multipliers returns the pulse change per wind code of the port tack,
// starboard tack and gybe sweeps.
func (m *Mapper) Multipliers() (port, stbd, gybe float32) {
	c := m.ApparentCentre()
	port = float32(c-m.p.PortRun) / float32(BoundaryPortRun-BoundaryIrons)
	stbd = float32(m.p.StbdRun-c) / float32(BoundaryIronsStbd-BoundaryStbdTack)
	gybe = float32(m.p.StbdRun-m.p.PortRun) / float32(BoundaryStbdRun-BoundaryGybe)
	return port, stbd, gybe
}

// CalcApparentWind applies offset to raw and wraps the sum into [0, MaxCode].
func CalcApparentWind(raw Sample, offset int) Wind {
	return wrapWind(int(raw)+offset, Codes)
}

// ComputeServoPulse maps w to a pulse around centre with the default run
// positions and the literal gybe sweep.
func ComputeServoPulse(w Wind, centre Pulse) Pulse {
	return pulse(w, centre, DefaultPortRun, DefaultStbdRun, GybeLiteral)
}

// wrapWind returns v unchanged when it is a valid code, otherwise v modulo
// modulus, always non-negative.
func wrapWind(v, modulus int) Wind {
	if v >= 0 && v <= int(MaxCode) {
		return Wind(v)
	}
	v %= modulus
	if v < 0 {
		v += modulus
	}
	return Wind(v)
}

func pulse(w Wind, centre, portRun, stbdRun Pulse, gybe GybeMode) Pulse {
	switch Classify(w) {
	case PortTack:
		return lerp(centre, portRun, int(w-BoundaryIrons), int(BoundaryPortRun-BoundaryIrons))
	case StarboardTack:
		return lerp(centre, stbdRun, int(BoundaryIronsStbd-w), int(BoundaryIronsStbd-BoundaryStbdTack))
	case DownwindRunOrGybe:
		switch ClassifyDownwind(w) {
		case PortRun:
			return portRun
		case StarboardRun:
			return stbdRun
		}
		offset := int(w)
		if gybe == GybeOffset {
			offset -= int(BoundaryGybe)
		}
		return lerp(portRun, stbdRun, offset, int(BoundaryStbdRun-BoundaryGybe))
	}
	return centre
}

// lerp moves from a towards b by offset/span of the travel. The travel is
// multiplied before dividing so an offset equal to span lands exactly on b.
// The result is truncated toward zero.
func lerp(a, b Pulse, offset, span int) Pulse {
	v := float32(a) + float32(b-a)*float32(offset)/float32(span)
	return Pulse(math32.Trunc(v))
}
