// Package effects holds the gain stage applied to the voice before fan-out.
package effects

import "math"

// Volume is an exponential gain: the signal is multiplied by Base to the power of Volume, or by 0
// when Silent is set.
//
// With Base 2, Volume 1 doubles the amplitude and Volume -1 halves it. Use Decibels to express the
// gain as a dBFS level.
type Volume struct {
	Base   float64
	Volume float64
	Silent bool
}

// dB is the amplitude ratio of one decibel.
var dB = math.Pow(10, 1.0/20)

// Decibels returns a Volume with the given level in dB. Decibels(-12) is the classic test tone level,
// about a quarter of full scale.
func Decibels(level float64) Volume {
	return Volume{Base: dB, Volume: level}
}

// Gain returns the linear factor the signal is multiplied by.
func (v Volume) Gain() float64 {
	if v.Silent {
		return 0
	}
	return math.Pow(v.Base, v.Volume)
}
