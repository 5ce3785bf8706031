package servo

import (
	"testing"

	"github.com/itohio/sailtrim/pkg/trim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Drivers(t *testing.T) {
	for _, driver := range []string{DriverNone, ""} {
		s, err := New(Config{Driver: driver}, DefaultTiming())
		require.NoError(t, err, driver)
		assert.IsType(t, &Noop{}, s)
	}

	_, err := New(Config{Driver: "stepper"}, DefaultTiming())
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	n := &Noop{}
	require.NoError(t, n.SetPulse(1450))
	assert.Equal(t, trim.Pulse(1450), n.Last)
	assert.NoError(t, n.Release())
}
