package vane

import (
	"context"
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/itohio/sailtrim/pkg/config"
	"github.com/itohio/sailtrim/pkg/trim"
)

// maxRecordedPulses bounds the pulse log kept by Mock.
const maxRecordedPulses = 1024

// Mock simulates a vane that turns at a constant rate, plus the servo it drives.
type Mock struct {
	cfg *config.MockConfig
	now func() time.Time

	mu        sync.RWMutex
	connected bool
	startTime time.Time
	acquired  int
	pulses    []trim.Pulse
}

// NewMock creates a new simulated vane.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		cfg = &config.Default().Mock
	}

	return &Mock{
		cfg: cfg,
		now: time.Now,
	}
}

// Connect starts the simulation clock.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrAlreadyConnected
	}

	m.connected = true
	m.startTime = m.now()
	m.acquired = 0

	return nil
}

// Close stops the simulated vane.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Acquire waits for the simulated conversion time and returns the vane
// position. After StallAfter samples conversions never complete.
func (m *Mock) Acquire(ctx context.Context) (trim.Sample, error) {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return 0, ErrNotConnected
	}
	m.acquired++
	n := m.acquired
	m.mu.Unlock()

	if m.cfg.StallAfter > 0 && n > m.cfg.StallAfter {
		<-ctx.Done()
		return 0, ctx.Err()
	}

	if m.cfg.ConversionTime > 0 {
		timer := time.NewTimer(m.cfg.ConversionTime)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-timer.C:
		}
	}

	return m.position(n), nil
}

// position computes the sample for the n-th conversion.
func (m *Mock) position(n int) trim.Sample {
	m.mu.RLock()
	elapsed := m.now().Sub(m.startTime)
	m.mu.RUnlock()

	pos := m.cfg.Start
	if m.cfg.SweepPeriod > 0 {
		turns := float32(elapsed%m.cfg.SweepPeriod) / float32(m.cfg.SweepPeriod)
		pos += int(turns * float32(trim.Codes))
	}

	// Deterministic noise
	if m.cfg.Noise > 0 {
		noise := (math32.Sin(float32(n)*1.3) + math32.Cos(float32(n)*0.7)) * 0.5
		pos += int(math32.Round(noise * float32(m.cfg.Noise)))
	}

	pos %= trim.Codes
	if pos < 0 {
		pos += trim.Codes
	}
	return trim.Sample(pos)
}

// SetPulse records the pulse (simulated).
func (m *Mock) SetPulse(p trim.Pulse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return ErrNotConnected
	}

	if len(m.pulses) == maxRecordedPulses {
		copy(m.pulses, m.pulses[1:])
		m.pulses = m.pulses[:len(m.pulses)-1]
	}
	m.pulses = append(m.pulses, p)

	return nil
}

// Release implements servo.Servo.
func (m *Mock) Release() error {
	return nil
}

// Pulses returns the recorded pulses, oldest first.
func (m *Mock) Pulses() []trim.Pulse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]trim.Pulse(nil), m.pulses...)
}

// LastPulse returns the most recent pulse written.
func (m *Mock) LastPulse() (trim.Pulse, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.pulses) == 0 {
		return 0, false
	}
	return m.pulses[len(m.pulses)-1], true
}
