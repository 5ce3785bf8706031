package scope

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/itohio/sailtrim/pkg/control"
	"github.com/itohio/sailtrim/pkg/trim"
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	// Background
	grid *canvas.Rectangle

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	// Background fills entire widget
	r.grid.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		// Size changed, redraw with new dimensions
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh updates the widget display.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	readings := r.scope.readings
	scale := r.scope.scale
	xMin := r.scope.xMin
	xMax := r.scope.xMax
	r.scope.mu.RUnlock()

	// Clear old objects (but keep grid)
	r.objects = []fyne.CanvasObject{r.grid}

	area := newPlotArea(r.scope.Size())
	if !area.valid() {
		return
	}

	r.drawGrid(area, scale, xMin, xMax)
	r.drawFallbacks(area, readings, xMin, xMax)

	if len(readings) > 1 {
		// Wind (orange)
		r.drawTrace(area, readings, xMin, xMax, windColor, 1.5, func(rd control.Reading) (float32, bool) {
			return windFraction(rd.Wind), !rd.Fallback
		})
		// Pulse (light blue, thicker)
		r.drawTrace(area, readings, xMin, xMax, pulseColor, 2.5, func(rd control.Reading) (float32, bool) {
			return scale.fraction(rd.Pulse), rd.Written
		})
	}

	if n := len(readings); n > 0 {
		last := readings[n-1]
		r.objects = append(r.objects,
			newLabel(last.Decision.String(), markerColor, 11, fyne.TextAlignLeading, fyne.NewPos(area.x+10, area.y+5)))
	}
}

// drawGrid draws wind labels on the left, pulse labels on the right and
// elapsed time along the bottom.
func (r *scopeRenderer) drawGrid(area plotArea, scale pulseScale, xMin, xMax time.Time) {
	const numHLines = 8
	for i := range numHLines + 1 {
		f := float32(i) / numHLines
		left, right := area.pos(0, f), area.pos(1, f)
		wind := trim.Wind(f * float32(trim.MaxCode))
		r.objects = append(r.objects,
			newLine(gridColor, left, right, 1),
			newLabel(formatDegrees(wind), windColor, 10, fyne.TextAlignTrailing, fyne.NewPos(left.X-5, left.Y-6)),
			newLabel(formatTicks(scale.value(f)), pulseColor, 10, fyne.TextAlignLeading, fyne.NewPos(right.X+5, right.Y-6)),
		)
	}

	const numVLines = 10
	span := xMax.Sub(xMin).Seconds()
	for i := range numVLines + 1 {
		f := float32(i) / numVLines
		top, bottom := area.pos(f, 1), area.pos(f, 0)
		r.objects = append(r.objects,
			newLine(gridColor, top, bottom, 1),
			newLabel(formatSeconds(float64(f)*span), labelColor, 10, fyne.TextAlignCenter, fyne.NewPos(bottom.X-20, bottom.Y+5)),
		)
	}
}

// drawTrace connects consecutive readings accepted by value.
func (r *scopeRenderer) drawTrace(area plotArea, readings []control.Reading, xMin, xMax time.Time, c color.Color, width float32, value func(control.Reading) (float32, bool)) {
	var prev fyne.Position
	havePrev := false
	for _, rd := range readings {
		y, ok := value(rd)
		if !ok {
			havePrev = false
			continue
		}
		p := area.pos(timeFraction(rd.Time, xMin, xMax), y)
		if havePrev {
			r.objects = append(r.objects, newLine(c, prev, p, width))
		}
		prev, havePrev = p, true
	}
}

// drawFallbacks draws a vertical line at every reading produced by an
// acquisition timeout.
func (r *scopeRenderer) drawFallbacks(area plotArea, readings []control.Reading, xMin, xMax time.Time) {
	for _, rd := range readings {
		if !rd.Fallback {
			continue
		}
		x := timeFraction(rd.Time, xMin, xMax)
		r.objects = append(r.objects, newLine(fallbackColor, area.pos(x, 0), area.pos(x, 1), 1))
	}
}

func timeFraction(t, xMin, xMax time.Time) float32 {
	return fraction(float32(t.Sub(xMin).Seconds()), 0, float32(xMax.Sub(xMin).Seconds()))
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {
	// Cleanup handled by Fyne
}
