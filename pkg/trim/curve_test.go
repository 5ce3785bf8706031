package trim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurve_CoversEveryCode(t *testing.T) {
	m := New(DefaultParams())
	curve := m.Curve()

	require.Len(t, curve, Codes)
	for i, d := range curve {
		assert.Equal(t, Wind(i), d.Wind)
		assert.Equal(t, m.Pulse(d.Wind), d.Pulse)
	}
}

func TestSegments(t *testing.T) {
	segs := New(DefaultParams()).Segments()
	require.Len(t, segs, 7)

	want := []struct {
		regime   Regime
		downwind Downwind
		from, to Wind
	}{
		{InIrons, NotDownwind, 0, BoundaryIrons},
		{PortTack, NotDownwind, BoundaryIrons + 1, BoundaryPortRun},
		{DownwindRunOrGybe, PortRun, BoundaryPortRun + 1, BoundaryGybe},
		{DownwindRunOrGybe, Gybe, BoundaryGybe + 1, BoundaryStbdRun},
		{DownwindRunOrGybe, StarboardRun, BoundaryStbdRun + 1, BoundaryStbdTack},
		{StarboardTack, NotDownwind, BoundaryStbdTack + 1, BoundaryIronsStbd},
		{InIrons, NotDownwind, BoundaryIronsStbd + 1, MaxCode},
	}

	for i, w := range want {
		assert.Equal(t, w.regime, segs[i].Regime, "segment %d", i)
		assert.Equal(t, w.downwind, segs[i].Downwind, "segment %d", i)
		assert.Equal(t, w.from, segs[i].From, "segment %d", i)
		assert.Equal(t, w.to, segs[i].To, "segment %d", i)
	}

	assert.Equal(t, Pulse(1200), segs[1].PulseTo)
	assert.Equal(t, Pulse(1200), segs[2].PulseFrom)
	assert.Equal(t, Pulse(2200), segs[4].PulseTo)
}

func TestPulseRange(t *testing.T) {
	lo, hi := New(DefaultParams()).PulseRange()
	assert.Equal(t, Pulse(1200), lo)
	assert.Equal(t, Pulse(12582), hi)

	p := DefaultParams()
	p.Gybe = GybeOffset
	lo, hi = New(p).PulseRange()
	assert.Equal(t, Pulse(1200), lo)
	assert.Equal(t, Pulse(2200), hi)
}
