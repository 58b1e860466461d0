package oscillator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faiface/beepscope/oscillator"
)

func TestAdvancePeriodicity(t *testing.T) {
	cases := []struct {
		freq, sr float64
	}{
		{440, 48000},
		{440, 44100},
		{1000, 8000},
		{27.5, 96000},
		{12345.6, 48000},
		{1, 1},
	}

	for _, c := range cases {
		var o oscillator.Oscillator
		start := o.Phase()
		step := c.freq / c.sr
		steps := int(math.Round(c.sr / c.freq))
		for i := 0; i < steps; i++ {
			o.Advance(c.freq, c.sr)
		}
		// distance on the unit circle, so 0.999 and 0.001 are close
		d := math.Abs(o.Phase() - start)
		d = math.Min(d, 1-d)
		assert.LessOrEqualf(t, d, step+1e-9, "freq %v at %v Hz drifted by %v", c.freq, c.sr, d)
	}
}

func TestAdvanceRange(t *testing.T) {
	for _, freq := range []float64{1, 20, 440, 3000, 20000, 23999} {
		var o oscillator.Oscillator
		for i := 0; i < 10000; i++ {
			v := o.Advance(freq, 48000)
			require.GreaterOrEqual(t, v, -1.0)
			require.LessOrEqual(t, v, 1.0)
			require.GreaterOrEqual(t, o.Phase(), 0.0)
			require.Less(t, o.Phase(), 1.0)
		}
	}
}

func TestAdvanceWrapsLargeIncrements(t *testing.T) {
	var o oscillator.Oscillator
	o.Advance(2.25, 1)
	assert.InDelta(t, 0.25, o.Phase(), 1e-12)
	o.Advance(0.75, 1)
	assert.Equal(t, 0.0, o.Phase())
}

func TestAdvanceFirstSampleIsZeroPhase(t *testing.T) {
	var o oscillator.Oscillator
	assert.Equal(t, 0.0, o.Advance(440, 48000))
	assert.InDelta(t, 440.0/48000, o.Phase(), 1e-15)

	// quarter cycle per sample: 0, 1, 0, -1
	o.Reset()
	want := []float64{0, 1, 0, -1, 0}
	for i, w := range want {
		assert.InDeltaf(t, w, o.Advance(1, 4), 1e-12, "sample %d", i)
	}
}

func TestReset(t *testing.T) {
	var o oscillator.Oscillator
	for i := 0; i < 17; i++ {
		o.Advance(440, 48000)
	}
	require.NotZero(t, o.Phase())
	o.Reset()
	assert.Zero(t, o.Phase())
}

func TestClampSampleRate(t *testing.T) {
	assert.Equal(t, oscillator.MinSampleRate, oscillator.ClampSampleRate(0))
	assert.Equal(t, oscillator.MinSampleRate, oscillator.ClampSampleRate(-48000))
	assert.Equal(t, oscillator.MinSampleRate, oscillator.ClampSampleRate(math.NaN()))
	assert.Equal(t, 48000.0, oscillator.ClampSampleRate(48000))
}
