package control

import "sync"

// History is a fixed-capacity ring of recent readings. It is safe for
// concurrent use, so a loop callback can push while a UI reads.
type History struct {
	mu    sync.RWMutex
	buf   []Reading
	pos   int
	count int
}

// NewHistory creates a history holding up to capacity readings.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{
		buf: make([]Reading, capacity),
	}
}

// Push adds a reading, overwriting the oldest when full.
func (h *History) Push(r Reading) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf[h.pos] = r
	h.pos = (h.pos + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// Readings returns all stored readings, oldest first.
func (h *History) Readings() []Reading {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.count == 0 {
		return nil
	}
	result := make([]Reading, h.count)
	if h.count < len(h.buf) {
		copy(result, h.buf[:h.count])
	} else {
		n := copy(result, h.buf[h.pos:])
		copy(result[n:], h.buf[:h.pos])
	}
	return result
}

// Last returns the most recent reading.
func (h *History) Last() (Reading, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.count == 0 {
		return Reading{}, false
	}
	return h.buf[(h.pos-1+len(h.buf))%len(h.buf)], true
}

// Len returns the number of stored readings.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Reset drops all readings.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pos = 0
	h.count = 0
}

// Downsample decimates readings to at most maxPoints for display.
// Destination-based: reuses dst if it has sufficient capacity, otherwise allocates new.
func Downsample(dst []Reading, readings []Reading, maxPoints int) []Reading {
	if maxPoints <= 0 || len(readings) <= maxPoints {
		if cap(dst) >= len(readings) {
			dst = dst[:len(readings)]
			copy(dst, readings)
			return dst
		}
		result := make([]Reading, len(readings))
		copy(result, readings)
		return result
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make([]Reading, 0, maxPoints)
	}

	step := float64(len(readings)) / float64(maxPoints)
	for i := range maxPoints {
		idx := int(float64(i) * step)
		if idx < len(readings) {
			dst = append(dst, readings[idx])
		}
	}

	return dst
}
