package scope

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/sailtrim/pkg/trim"
)

// CurveWidget plots the wind to pulse mapping over regime bands and marks
// the latest decision.
type CurveWidget struct {
	widget.BaseWidget

	mu          sync.RWMutex
	segments    []trim.Segment
	scale       pulseScale
	current     trim.Decision
	haveCurrent bool
}

// NewCurve creates a CurveWidget for the mapper's calibration.
func NewCurve(m *trim.Mapper) *CurveWidget {
	c := &CurveWidget{}
	c.ExtendBaseWidget(c)
	c.SetMapper(m)
	return c
}

// SetMapper replaces the plotted calibration.
func (c *CurveWidget) SetMapper(m *trim.Mapper) {
	lo, hi := m.PulseRange()

	c.mu.Lock()
	c.segments = m.Segments()
	c.scale = newPulseScale(lo, hi)
	c.mu.Unlock()

	c.Refresh()
}

// SetCurrent marks d on the curve. Call from the UI thread.
func (c *CurveWidget) SetCurrent(d trim.Decision) {
	c.mu.Lock()
	c.current = d
	c.haveCurrent = true
	c.mu.Unlock()

	c.Refresh()
}

// CreateRenderer creates the widget renderer.
func (c *CurveWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(backgroundColor)
	return &curveRenderer{
		curve:   c,
		bg:      bg,
		objects: []fyne.CanvasObject{bg},
	}
}

type curveRenderer struct {
	curve    *CurveWidget
	bg       *canvas.Rectangle
	objects  []fyne.CanvasObject
	lastSize fyne.Size
}

func (r *curveRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 250)
}

func (r *curveRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	if r.lastSize != size {
		r.lastSize = size
		r.curve.BaseWidget.Refresh()
	}
}

func (r *curveRenderer) Refresh() {
	r.curve.mu.RLock()
	segments := r.curve.segments
	scale := r.curve.scale
	current, haveCurrent := r.curve.current, r.curve.haveCurrent
	r.curve.mu.RUnlock()

	r.objects = []fyne.CanvasObject{r.bg}
	area := newPlotArea(r.curve.Size())
	if !area.valid() {
		return
	}

	for _, seg := range segments {
		r.drawBand(area, seg)
	}
	r.drawGrid(area, scale)
	for _, seg := range segments {
		from := area.pos(windFraction(seg.From), scale.fraction(seg.PulseFrom))
		to := area.pos(windFraction(seg.To), scale.fraction(seg.PulseTo))
		r.objects = append(r.objects, newLine(pulseColor, from, to, 2))
	}

	if haveCurrent {
		r.drawMarker(area, scale, current)
	}
}

// drawBand shades the wind range of one segment.
func (r *curveRenderer) drawBand(area plotArea, seg trim.Segment) {
	left := area.pos(windFraction(seg.From), 1)
	right := area.pos(windFraction(seg.To+1), 0)
	if seg.To == trim.MaxCode {
		right = area.pos(1, 0)
	}

	band := canvas.NewRectangle(regimeColor(seg.Regime, seg.Downwind))
	band.Move(left)
	band.Resize(fyne.NewSize(right.X-left.X, right.Y-left.Y))
	r.objects = append(r.objects, band)
}

func (r *curveRenderer) drawGrid(area plotArea, scale pulseScale) {
	const numHLines = 6
	for i := range numHLines + 1 {
		f := float32(i) / numHLines
		from, to := area.pos(0, f), area.pos(1, f)
		r.objects = append(r.objects,
			newLine(gridColor, from, to, 1),
			newLabel(formatTicks(scale.value(f)), labelColor, 10, fyne.TextAlignTrailing, fyne.NewPos(from.X-5, from.Y-6)),
		)
	}

	// One vertical line per 45 degrees
	for i := 0; i <= 8; i++ {
		w := trim.Wind(i * trim.Codes / 8)
		f := float32(i) / 8
		top, bottom := area.pos(f, 1), area.pos(f, 0)
		if i == 8 {
			w = trim.MaxCode
		}
		r.objects = append(r.objects,
			newLine(gridColor, top, bottom, 1),
			newLabel(formatDegrees(w), labelColor, 10, fyne.TextAlignCenter, fyne.NewPos(bottom.X-20, bottom.Y+5)),
		)
	}
}

func (r *curveRenderer) drawMarker(area plotArea, scale pulseScale, d trim.Decision) {
	x := windFraction(d.Wind)
	y := scale.fraction(d.Pulse)
	at := area.pos(x, y)

	dot := canvas.NewCircle(markerColor)
	dot.Move(fyne.NewPos(at.X-4, at.Y-4))
	dot.Resize(fyne.NewSize(8, 8))

	r.objects = append(r.objects,
		newLine(markerColor, area.pos(x, 0), area.pos(x, 1), 1),
		dot,
		newLabel(d.String(), markerColor, 11, fyne.TextAlignLeading, fyne.NewPos(area.x+10, area.y+5)),
	)
}

func (r *curveRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *curveRenderer) Destroy() {}
