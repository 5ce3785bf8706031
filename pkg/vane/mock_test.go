package vane

import (
	"context"
	"testing"
	"time"

	"github.com/itohio/sailtrim/pkg/config"
	"github.com/itohio/sailtrim/pkg/control"
	"github.com/itohio/sailtrim/pkg/trim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMock returns a connected mock with a clock controlled by the test.
func newTestMock(t *testing.T, cfg config.MockConfig) (*Mock, *time.Time) {
	t.Helper()
	clock := time.Unix(1700000000, 0)
	m := NewMock(&cfg)
	m.now = func() time.Time { return clock }
	require.NoError(t, m.Connect())
	return m, &clock
}

func TestNewMock_Defaults(t *testing.T) {
	m := NewMock(nil)
	assert.Equal(t, config.Default().Mock, *m.cfg)
	assert.False(t, m.IsConnected())
}

func TestMock_NotConnected(t *testing.T) {
	m := NewMock(&config.MockConfig{})

	_, err := m.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, m.SetPulse(1700), ErrNotConnected)
}

func TestMock_ConnectTwice(t *testing.T) {
	m, _ := newTestMock(t, config.MockConfig{})
	assert.ErrorIs(t, m.Connect(), ErrAlreadyConnected)
}

func TestMock_Stationary(t *testing.T) {
	m, _ := newTestMock(t, config.MockConfig{Start: 0x1D0})

	for range 5 {
		s, err := m.Acquire(context.Background())
		require.NoError(t, err)
		assert.Equal(t, trim.Sample(0x1D0), s)
	}
}

func TestMock_Sweep(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		elapsed time.Duration
		want    trim.Sample
	}{
		{"at start", 0, 0, 0},
		{"quarter turn", 0, 256 * time.Millisecond, 256},
		{"wraps past max code", 1000, 256 * time.Millisecond, 232},
		{"full turn", 100, 1024 * time.Millisecond, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, clock := newTestMock(t, config.MockConfig{
				SweepPeriod: 1024 * time.Millisecond,
				Start:       tt.start,
			})
			*clock = clock.Add(tt.elapsed)

			s, err := m.Acquire(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestMock_NoiseBounded(t *testing.T) {
	m, _ := newTestMock(t, config.MockConfig{Start: 512, Noise: 3})

	seen := map[trim.Sample]bool{}
	for range 100 {
		s, err := m.Acquire(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, int(s), 509)
		assert.LessOrEqual(t, int(s), 515)
		seen[s] = true
	}
	assert.Greater(t, len(seen), 1, "noise should move the reading")
}

func TestMock_NoiseWrapsBelowZero(t *testing.T) {
	m, _ := newTestMock(t, config.MockConfig{Start: 0, Noise: 50})

	for range 50 {
		s, err := m.Acquire(context.Background())
		require.NoError(t, err)
		assert.LessOrEqual(t, s, trim.Sample(trim.MaxCode))
	}
}

func TestMock_ConversionTime(t *testing.T) {
	m, _ := newTestMock(t, config.MockConfig{ConversionTime: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := m.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMock_Stall(t *testing.T) {
	m, _ := newTestMock(t, config.MockConfig{StallAfter: 2})

	for range 2 {
		_, err := m.Acquire(context.Background())
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := m.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMock_Pulses(t *testing.T) {
	m, _ := newTestMock(t, config.MockConfig{})

	_, ok := m.LastPulse()
	assert.False(t, ok)

	for _, p := range []trim.Pulse{1700, 1450, 1200} {
		require.NoError(t, m.SetPulse(p))
	}
	assert.Equal(t, []trim.Pulse{1700, 1450, 1200}, m.Pulses())
	last, ok := m.LastPulse()
	assert.True(t, ok)
	assert.Equal(t, trim.Pulse(1200), last)
}

func TestMock_PulsesBounded(t *testing.T) {
	m, _ := newTestMock(t, config.MockConfig{})

	for i := range maxRecordedPulses + 10 {
		require.NoError(t, m.SetPulse(trim.Pulse(i)))
	}
	pulses := m.Pulses()
	assert.Len(t, pulses, maxRecordedPulses)
	assert.Equal(t, trim.Pulse(10), pulses[0])
	assert.Equal(t, trim.Pulse(maxRecordedPulses+9), pulses[len(pulses)-1])
}

func TestMock_DrivesLoop(t *testing.T) {
	m, _ := newTestMock(t, config.MockConfig{Start: 0x1D0, StallAfter: 1})
	loop := control.New(m, m, trim.New(trim.DefaultParams()), control.Options{
		AcquireTimeout: 5 * time.Millisecond,
		Fallback:       control.FallbackCentre,
	})

	r, err := loop.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, trim.Pulse(1200), r.Pulse)

	r, err = loop.Step(context.Background())
	assert.ErrorIs(t, err, control.ErrTimeout)
	assert.True(t, r.Fallback)

	assert.Equal(t, []trim.Pulse{1200, 1700}, m.Pulses())
}

// TestMock_GracefulShutdown tests that a closed mock refuses further work.
func TestMock_GracefulShutdown(t *testing.T) {
	m, _ := newTestMock(t, config.MockConfig{})
	require.NoError(t, m.Close())
	assert.False(t, m.IsConnected())

	_, err := m.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)

	// Reconnect restarts the simulation
	require.NoError(t, m.Connect())
	_, err = m.Acquire(context.Background())
	assert.NoError(t, err)
}
