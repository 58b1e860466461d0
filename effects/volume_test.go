package effects_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/faiface/beepscope/effects"
)

func TestDecibels(t *testing.T) {
	assert.InDelta(t, 1.0, effects.Decibels(0).Gain(), 1e-12)
	assert.InDelta(t, math.Pow(10, -12.0/20), effects.Decibels(-12).Gain(), 1e-12)
	assert.InDelta(t, 0.5012, effects.Decibels(-6).Gain(), 1e-4)
	assert.InDelta(t, 10.0, effects.Decibels(20).Gain(), 1e-9)
}

func TestVolumeBase(t *testing.T) {
	assert.Equal(t, 2.0, effects.Volume{Base: 2, Volume: 1}.Gain())
	assert.Equal(t, 0.5, effects.Volume{Base: 2, Volume: -1}.Gain())
	assert.Equal(t, 1.0, effects.Volume{Base: 2}.Gain())
}

func TestSilent(t *testing.T) {
	v := effects.Decibels(-3)
	v.Silent = true
	assert.Zero(t, v.Gain())
}
