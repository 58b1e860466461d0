// Package oscillator implements the phase accumulator behind the sine voice.
package oscillator

import "math"

// MinSampleRate is the lowest sample rate Advance will divide by. Hosts that report a sample rate of
// zero (or less) are treated as running at MinSampleRate.
const MinSampleRate = 1.0

// ClampSampleRate floors sr to MinSampleRate.
func ClampSampleRate(sr float64) float64 {
	if !(sr >= MinSampleRate) {
		return MinSampleRate
	}
	return sr
}

// Oscillator is a sine phase accumulator. The zero value starts at phase 0 and is ready to use.
//
// An Oscillator holds no locks and never allocates, so it can be driven from an audio callback. It is
// not safe for concurrent use.
type Oscillator struct {
	phase float64
}

// Advance returns the sample at the current phase, then moves the phase forward by one sample of a
// frequency Hz wave played at sampleRate Hz.
//
// The phase is always kept in [0, 1). sampleRate must be positive, see ClampSampleRate.
func (o *Oscillator) Advance(frequency, sampleRate float64) float64 {
	v := math.Sin(2 * math.Pi * o.phase)
	o.phase += frequency / sampleRate
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}
	return v
}

// Phase returns the fractional cycle position of the oscillator.
func (o *Oscillator) Phase() float64 {
	return o.phase
}

// Reset moves the oscillator back to phase 0.
func (o *Oscillator) Reset() {
	o.phase = 0
}
