package control

import (
	"testing"

	"github.com/itohio/sailtrim/pkg/trim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reading(raw int) Reading {
	return Reading{Raw: trim.Sample(raw)}
}

func raws(readings []Reading) []int {
	out := make([]int, len(readings))
	for i, r := range readings {
		out[i] = int(r.Raw)
	}
	return out
}

func TestHistory_Partial(t *testing.T) {
	h := NewHistory(5)
	_, ok := h.Last()
	assert.False(t, ok)
	assert.Nil(t, h.Readings())

	for i := 1; i <= 3; i++ {
		h.Push(reading(i))
	}

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []int{1, 2, 3}, raws(h.Readings()))
	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, trim.Sample(3), last.Raw)
}

func TestHistory_Wraps(t *testing.T) {
	h := NewHistory(5)
	for i := 1; i <= 7; i++ {
		h.Push(reading(i))
	}

	assert.Equal(t, 5, h.Len())
	assert.Equal(t, []int{3, 4, 5, 6, 7}, raws(h.Readings()))
	last, _ := h.Last()
	assert.Equal(t, trim.Sample(7), last.Raw)

	h.Reset()
	assert.Equal(t, 0, h.Len())
	assert.Nil(t, h.Readings())
}

func TestNewHistory_MinimumCapacity(t *testing.T) {
	h := NewHistory(0)
	h.Push(reading(1))
	h.Push(reading(2))
	assert.Equal(t, []int{2}, raws(h.Readings()))
}

func TestDownsample(t *testing.T) {
	src := make([]Reading, 100)
	for i := range src {
		src[i] = reading(i)
	}

	t.Run("fewer than max copies", func(t *testing.T) {
		got := Downsample(nil, src[:10], 50)
		assert.Equal(t, raws(src[:10]), raws(got))
	})

	t.Run("decimates", func(t *testing.T) {
		got := Downsample(nil, src, 10)
		assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}, raws(got))
	})

	t.Run("reuses destination", func(t *testing.T) {
		dst := make([]Reading, 0, 20)
		got := Downsample(dst, src, 20)
		assert.Len(t, got, 20)
		assert.Same(t, &dst[:1][0], &got[0])
	})
}
