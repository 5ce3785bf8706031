package scope

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"github.com/itohio/sailtrim/pkg/trim"
	"github.com/stretchr/testify/assert"
)

func TestPlotArea(t *testing.T) {
	area := newPlotArea(fyne.NewSize(520, 260))
	assert.True(t, area.valid())
	assert.Equal(t, fyne.NewPos(60, 220), area.pos(0, 0))
	assert.Equal(t, fyne.NewPos(460, 20), area.pos(1, 1))
	assert.Equal(t, fyne.NewPos(260, 120), area.pos(0.5, 0.5))

	assert.False(t, newPlotArea(fyne.NewSize(100, 50)).valid())
}

func TestFraction(t *testing.T) {
	assert.Equal(t, float32(0.5), fraction(5, 0, 10))
	assert.Equal(t, float32(0), fraction(5, 3, 3))
	assert.Equal(t, float32(0), windFraction(0))
	assert.Equal(t, float32(1), windFraction(trim.MaxCode))
}

func TestPulseScale(t *testing.T) {
	s := newPulseScale(1200, 2200)
	assert.InDelta(t, 1100, s.lo, 1e-3)
	assert.InDelta(t, 2300, s.hi, 1e-3)
	assert.InDelta(t, 0.5, s.fraction(1700), 1e-6)
	assert.InDelta(t, 1700, s.value(0.5), 1e-3)

	flat := newPulseScale(1700, 1700)
	assert.Less(t, flat.lo, flat.hi)
}

func TestTimeFraction(t *testing.T) {
	start := time.Unix(1700000000, 0)
	assert.InDelta(t, 0.25, timeFraction(start.Add(time.Second), start, start.Add(4*time.Second)), 1e-6)
}

func TestRegimeColor_Distinct(t *testing.T) {
	seen := map[[4]uint8]bool{}
	for _, c := range []struct {
		r trim.Regime
		d trim.Downwind
	}{
		{trim.InIrons, trim.NotDownwind},
		{trim.PortTack, trim.NotDownwind},
		{trim.DownwindRunOrGybe, trim.PortRun},
		{trim.DownwindRunOrGybe, trim.Gybe},
		{trim.StarboardTack, trim.NotDownwind},
	} {
		rgba := regimeColor(c.r, c.d)
		seen[[4]uint8{rgba.R, rgba.G, rgba.B, rgba.A}] = true
	}
	assert.Len(t, seen, 5)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0°", formatDegrees(0))
	assert.Equal(t, "180°", formatDegrees(512))
	assert.Equal(t, "1700", formatTicks(1700.2))
	assert.Equal(t, "0.50s", formatSeconds(0.5))
	assert.Equal(t, "2.5s", formatSeconds(2.5))
}
