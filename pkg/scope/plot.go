package scope

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/itohio/sailtrim/pkg/trim"
)

var (
	backgroundColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	gridColor       = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor      = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	windColor       = color.RGBA{R: 255, G: 165, B: 0, A: 255}   // Orange
	pulseColor      = color.RGBA{R: 100, G: 200, B: 255, A: 255} // Light blue
	fallbackColor   = color.RGBA{R: 220, G: 60, B: 60, A: 255}
	markerColor     = color.RGBA{R: 240, G: 240, B: 240, A: 255}
)

// plotArea is the rectangle inside the axis margins.
type plotArea struct {
	x, y, w, h float32
}

func newPlotArea(size fyne.Size) plotArea {
	const (
		marginLeft   = 60
		marginRight  = 60
		marginTop    = 20
		marginBottom = 40
	)
	return plotArea{
		x: marginLeft,
		y: marginTop,
		w: size.Width - marginLeft - marginRight,
		h: size.Height - marginTop - marginBottom,
	}
}

func (p plotArea) valid() bool {
	return p.w > 0 && p.h > 0
}

// pos converts fractions of the plot width and height to a position.
// fy grows upwards.
func (p plotArea) pos(fx, fy float32) fyne.Position {
	return fyne.NewPos(p.x+fx*p.w, p.y+p.h-fy*p.h)
}

// fraction returns where v lies between lo and hi, unclamped.
func fraction(v, lo, hi float32) float32 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

// windFraction places a wind code on the horizontal or vertical axis.
func windFraction(w trim.Wind) float32 {
	return fraction(float32(w), 0, float32(trim.MaxCode))
}

// pulseScale is the displayed pulse range with a 10% margin.
type pulseScale struct {
	lo, hi float32
}

func newPulseScale(lo, hi trim.Pulse) pulseScale {
	span := float32(hi - lo)
	if span == 0 {
		span = 100
	}
	margin := span * 0.1
	return pulseScale{lo: float32(lo) - margin, hi: float32(hi) + margin}
}

func (s pulseScale) fraction(p trim.Pulse) float32 {
	return fraction(float32(p), s.lo, s.hi)
}

func (s pulseScale) value(f float32) float32 {
	return s.lo + f*(s.hi-s.lo)
}

// regimeColor is the translucent band colour of a regime segment.
func regimeColor(r trim.Regime, d trim.Downwind) color.RGBA {
	switch r {
	case trim.PortTack:
		return color.RGBA{R: 120, G: 30, B: 30, A: 90}
	case trim.StarboardTack:
		return color.RGBA{R: 30, G: 110, B: 40, A: 90}
	case trim.DownwindRunOrGybe:
		if d == trim.Gybe {
			return color.RGBA{R: 110, G: 90, B: 20, A: 110}
		}
		return color.RGBA{R: 30, G: 60, B: 120, A: 90}
	}
	return color.RGBA{R: 60, G: 60, B: 60, A: 90}
}

func newLine(c color.Color, from, to fyne.Position, width float32) *canvas.Line {
	line := canvas.NewLine(c)
	line.Position1 = from
	line.Position2 = to
	line.StrokeWidth = width
	return line
}

func newLabel(s string, c color.Color, size float32, align fyne.TextAlign, at fyne.Position) *canvas.Text {
	text := canvas.NewText(s, c)
	text.TextSize = size
	text.Alignment = align
	text.Move(at)
	return text
}

func formatDegrees(w trim.Wind) string {
	return strconv.FormatFloat(float64(w.Degrees()), 'f', 0, 32) + "°"
}

func formatTicks(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 0, 32)
}

func formatSeconds(s float64) string {
	if s < 1 {
		return strconv.FormatFloat(s, 'f', 2, 64) + "s"
	}
	return strconv.FormatFloat(s, 'f', 1, 64) + "s"
}
