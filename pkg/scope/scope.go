// Package scope provides Fyne widgets for watching the trim controller: an
// oscilloscope style trace of wind and pulse over time, and the mapping curve.
package scope

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/sailtrim/pkg/control"
	"github.com/itohio/sailtrim/pkg/trim"
)

// minWindow is the shortest time span shown on the trace.
const minWindow = 10 * time.Second

// ScopeWidget is a custom Fyne widget that displays the wind code and the
// servo pulse over time.
type ScopeWidget struct {
	widget.BaseWidget

	// Data (protected by mu)
	mu       sync.RWMutex
	readings []control.Reading
	scale    pulseScale

	// Time range
	xMin, xMax time.Time

	// Display settings
	maxDisplayPoints int
}

// New creates a new ScopeWidget instance. The pulse axis spans the mapper's
// pulse range.
func New(m *trim.Mapper) *ScopeWidget {
	s := &ScopeWidget{
		readings:         make([]control.Reading, 0, 1000),
		maxDisplayPoints: 1000, // Limit points for efficient rendering
	}
	s.ExtendBaseWidget(s)
	s.SetMapper(m)
	return s
}

// SetMapper rescales the pulse axis for a new calibration.
func (s *ScopeWidget) SetMapper(m *trim.Mapper) {
	lo, hi := m.PulseRange()
	s.mu.Lock()
	s.scale = newPulseScale(lo, hi)
	s.mu.Unlock()
	s.Refresh()
}

// UpdateData updates the widget with the reading history, oldest first.
// This should be called from the loop callback using fyne.Do().
func (s *ScopeWidget) UpdateData(readings []control.Reading) {
	s.mu.Lock()

	// Downsample for display (reuse buffers)
	s.readings = control.Downsample(s.readings, readings, s.maxDisplayPoints)
	s.updateTimeRange()

	s.mu.Unlock()

	// Refresh the widget (must be outside lock to avoid potential deadlock)
	s.Refresh()
}

func (s *ScopeWidget) updateTimeRange() {
	if len(s.readings) == 0 {
		s.xMin = time.Now()
		s.xMax = s.xMin.Add(minWindow)
		return
	}

	s.xMin = s.readings[0].Time
	s.xMax = s.readings[len(s.readings)-1].Time
	// Ensure minimum window
	if s.xMax.Sub(s.xMin) < minWindow {
		s.xMax = s.xMin.Add(minWindow)
	}
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(backgroundColor)
	return &scopeRenderer{
		scope:   s,
		grid:    grid,
		objects: []fyne.CanvasObject{grid},
	}
}
