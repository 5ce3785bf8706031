package trim

import (
	"fmt"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcApparentWind_ZeroOffsetIsIdentity(t *testing.T) {
	for raw := 0; raw < Codes; raw++ {
		require.Equal(t, Wind(raw), CalcApparentWind(Sample(raw), 0), "raw=%d", raw)
	}
}

func TestCalcApparentWind_Wrap(t *testing.T) {
	tests := []struct {
		name   string
		raw    Sample
		offset int
		want   Wind
	}{
		{name: "in range", raw: 100, offset: 20, want: 120},
		{name: "upper edge stays", raw: 1000, offset: 23, want: 1023},
		{name: "wraps past max", raw: 1000, offset: 30, want: 6},
		{name: "exactly one turn", raw: 1023, offset: 1, want: 0},
		{name: "negative offset wraps", raw: 5, offset: -10, want: 1019},
		{name: "negative offset in range", raw: 50, offset: -10, want: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalcApparentWind(tt.raw, tt.offset))
		})
	}
}

func TestMapper_ApparentWind_LegacyModulus(t *testing.T) {
	p := DefaultParams()
	p.WrapModulus = LegacyWrapModulus

	p.WindOffset = 30
	m := New(p)
	assert.Equal(t, Wind(7), m.ApparentWind(1000))
	assert.Equal(t, Wind(1023), m.ApparentWind(993))

	p.WindOffset = -10
	m = New(p)
	assert.Equal(t, Wind(1018), m.ApparentWind(5))
}

func TestApparentWind_AlwaysInRange(t *testing.T) {
	offsets := []int{-2048, -1024, -1, 0, 1, 513, 1023, 1024, 5000}
	moduli := []int{Codes, LegacyWrapModulus}

	for _, modulus := range moduli {
		for _, offset := range offsets {
			m := New(Params{WindOffset: offset, WrapModulus: modulus})
			for raw := 0; raw < Codes; raw++ {
				w := m.ApparentWind(Sample(raw))
				require.LessOrEqual(t, w, MaxCode, "modulus=%d offset=%d raw=%d", modulus, offset, raw)
			}
		}
	}
}

func TestNew_ZeroModulusDefaults(t *testing.T) {
	m := New(Params{})
	assert.Equal(t, Codes, m.Params().WrapModulus)
}

func TestClassify_Partition(t *testing.T) {
	inIrons := func(w Wind) bool { return w <= 0x47 || (w > 0x3B8 && w <= 0x3FF) }
	portTack := func(w Wind) bool { return w > 0x47 && w <= 0x1B8 }
	downwind := func(w Wind) bool { return w > 0x1B8 && w <= 0x246 }
	stbdTack := func(w Wind) bool { return w > 0x246 && w <= 0x3B8 }

	for w := Wind(0); w <= MaxCode; w++ {
		matched := 0
		var want Regime
		for r, pred := range []func(Wind) bool{inIrons, portTack, downwind, stbdTack} {
			if pred(w) {
				matched++
				want = Regimes[r]
			}
		}
		require.Equal(t, 1, matched, "wind=%#x matched %d regimes", w, matched)
		require.Equal(t, want, Classify(w), "wind=%#x", w)
	}
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		wind Wind
		want Regime
	}{
		{0, InIrons},
		{0x47, InIrons},
		{0x48, PortTack},
		{0x1B8, PortTack},
		{0x1B9, DownwindRunOrGybe},
		{0x246, DownwindRunOrGybe},
		{0x247, StarboardTack},
		{0x3B8, StarboardTack},
		{0x3B9, InIrons},
		{0x3FF, InIrons},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%#x", tt.wind), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.wind), "wind=%#x", tt.wind)
		})
	}
}

func TestClassifyDownwind(t *testing.T) {
	tests := []struct {
		wind Wind
		want Downwind
	}{
		{0x1B8, NotDownwind},
		{0x1B9, PortRun},
		{0x1D0, PortRun},
		{0x1E8, PortRun},
		{0x1E9, Gybe},
		{0x217, Gybe},
		{0x218, StarboardRun},
		{0x246, StarboardRun},
		{0x247, NotDownwind},
		{0, NotDownwind},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyDownwind(tt.wind), "wind=%#x", tt.wind)
	}
}

func TestComputeServoPulse_Examples(t *testing.T) {
	tests := []struct {
		name string
		wind Wind
		want Pulse
	}{
		{name: "in irons at zero", wind: 0, want: 1700},
		{name: "in irons at upper end", wind: 0x3FF, want: 1700},
		{name: "port tack midpoint", wind: 0x47 + (0x1B8-0x47)/2, want: 1450},
		{name: "port tack end", wind: 0x1B8, want: 1200},
		{name: "port run hold", wind: 0x1D0, want: 1200},
		{name: "starboard run hold", wind: 0x230, want: 2200},
		{name: "starboard tack end", wind: 0x3B8, want: 1700},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeServoPulse(tt.wind, 1700))
		})
	}
}

func TestMapper_MatchesComputeServoPulse(t *testing.T) {
	m := New(DefaultParams())
	for w := Wind(0); w <= MaxCode; w++ {
		require.Equal(t, ComputeServoPulse(w, DefaultCentre), m.Pulse(w), "wind=%#x", w)
	}
}

func TestPulse_Continuity(t *testing.T) {
	m := New(DefaultParams())
	c := m.ApparentCentre()
	portSpan := int(BoundaryPortRun - BoundaryIrons)
	stbdSpan := int(BoundaryIronsStbd - BoundaryStbdTack)

	// Tack formulas evaluated at the shared edges hit the neighbouring pulse.
	assert.Equal(t, m.Pulse(BoundaryIrons), lerp(c, DefaultPortRun, 0, portSpan))
	assert.Equal(t, m.Pulse(BoundaryPortRun+1), lerp(c, DefaultPortRun, portSpan, portSpan))
	assert.Equal(t, m.Pulse(BoundaryStbdTack), lerp(c, DefaultStbdRun, stbdSpan, stbdSpan))
	assert.Equal(t, m.Pulse(BoundaryIronsStbd+1), lerp(c, DefaultStbdRun, 0, stbdSpan))

	// One code across each top-level boundary moves the pulse by at most one step.
	port, stbd, _ := m.Multipliers()
	step := int(math32.Ceil(math32.Max(math32.Abs(port), math32.Abs(stbd)))) + 1
	for _, b := range []Wind{BoundaryIrons, BoundaryPortRun, BoundaryStbdTack, BoundaryIronsStbd} {
		diff := int(m.Pulse(b+1) - m.Pulse(b))
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, step, "boundary %#x", b)
	}
}

func TestPulse_ContinuityWithCentreOffset(t *testing.T) {
	p := DefaultParams()
	p.CentreOffset = -40
	m := New(p)

	assert.Equal(t, Pulse(1660), m.ApparentCentre())
	assert.Equal(t, Pulse(1660), m.Pulse(0))
	assert.Equal(t, Pulse(1200), m.Pulse(BoundaryPortRun))
	assert.Equal(t, Pulse(1660), m.Pulse(BoundaryIronsStbd))
}

// The literal gybe sweep multiplies the absolute wind code, so it does not
// start at the port run position. Legacy firmware behaves the same way.
func TestGybe_LiteralDoesNotMeetPortRun(t *testing.T) {
	_, _, gybeMult := New(DefaultParams()).Multipliers()
	atEdge := lerp(DefaultPortRun, DefaultStbdRun, int(BoundaryGybe), int(BoundaryStbdRun-BoundaryGybe))

	assert.Equal(t, Pulse(math32.Trunc(float32(DefaultPortRun)+gybeMult*float32(BoundaryGybe))), atEdge)
	assert.NotEqual(t, DefaultPortRun, atEdge)
	assert.Equal(t, Pulse(11582), atEdge)

	m := New(DefaultParams())
	assert.Equal(t, Pulse(11604), m.Pulse(BoundaryGybe+1))
	assert.Equal(t, Pulse(12582), m.Pulse(BoundaryStbdRun))
}

func TestGybe_OffsetIsContinuous(t *testing.T) {
	p := DefaultParams()
	p.Gybe = GybeOffset
	m := New(p)

	assert.Equal(t, DefaultPortRun, m.Pulse(BoundaryGybe))
	assert.Equal(t, Pulse(1221), m.Pulse(BoundaryGybe+1))
	assert.Equal(t, DefaultStbdRun, m.Pulse(BoundaryStbdRun))
	assert.Equal(t, DefaultStbdRun, m.Pulse(BoundaryStbdRun+1))

	prev := m.Pulse(BoundaryGybe)
	for w := BoundaryGybe + 1; w <= BoundaryStbdRun; w++ {
		cur := m.Pulse(w)
		require.GreaterOrEqual(t, cur, prev, "wind=%#x", w)
		prev = cur
	}
}

func TestPulse_Idempotent(t *testing.T) {
	m := New(DefaultParams())
	for w := Wind(0); w <= MaxCode; w++ {
		require.Equal(t, m.Pulse(w), m.Pulse(w))
		require.Equal(t, m.Map(Sample(w)), m.Map(Sample(w)))
	}
}

func TestMapper_Map(t *testing.T) {
	p := DefaultParams()
	p.WindOffset = 0x10
	m := New(p)

	d := m.Map(0x1C0)
	assert.Equal(t, Wind(0x1D0), d.Wind)
	assert.Equal(t, DownwindRunOrGybe, d.Regime)
	assert.Equal(t, PortRun, d.Downwind)
	assert.Equal(t, Pulse(1200), d.Pulse)
	assert.Contains(t, d.String(), "port run")
}

func TestMultipliers(t *testing.T) {
	port, stbd, gybe := New(DefaultParams()).Multipliers()
	assert.InDelta(t, 500.0/369.0, port, 1e-5)
	assert.InDelta(t, 500.0/370.0, stbd, 1e-5)
	assert.InDelta(t, 1000.0/47.0, gybe, 1e-4)
}

func TestWind_Degrees(t *testing.T) {
	assert.InDelta(t, 0.0, Wind(0).Degrees(), 1e-6)
	assert.InDelta(t, 24.96, Wind(BoundaryIrons).Degrees(), 0.01)
	assert.InDelta(t, 180.0, Wind(512).Degrees(), 1e-4)
	assert.InDelta(t, 334.7, Wind(BoundaryIronsStbd).Degrees(), 0.05)
}

func TestParseGybeMode(t *testing.T) {
	g, err := ParseGybeMode("")
	require.NoError(t, err)
	assert.Equal(t, GybeLiteral, g)

	g, err = ParseGybeMode("offset")
	require.NoError(t, err)
	assert.Equal(t, GybeOffset, g)
	assert.Equal(t, "offset", g.String())

	_, err = ParseGybeMode("sideways")
	assert.Error(t, err)
}
