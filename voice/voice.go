// Package voice implements the single monophonic voice driven by NoteOn and NoteOff events.
package voice

import "github.com/faiface/beepscope/oscillator"

// Status is the on/off state of a Voice.
type Status uint8

const (
	// Idle voices produce silence.
	Idle Status = iota
	// Sounding voices produce a sine tone at their current frequency.
	Sounding
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sounding:
		return "sounding"
	default:
		return "unknown"
	}
}

// Voice is a state machine over {Idle, Sounding} owning one sine oscillator.
//
// NoteOn keeps the oscillator phase, so a NoteOn while Sounding glides to the new pitch without a
// jump in the waveform. NoteOff and Reset rewind the phase to 0, so the next NoteOn after silence
// always starts at a zero crossing.
//
// A Voice is owned by the audio thread and is not safe for concurrent use.
type Voice struct {
	status    Status
	frequency float64
	osc       oscillator.Oscillator
}

// New returns an Idle voice tuned to ReferenceFrequency.
func New() *Voice {
	return &Voice{frequency: ReferenceFrequency}
}

// Apply runs a single transition. Events must be applied in arrival order; since there is only one
// voice, the last event applied wins.
func (v *Voice) Apply(e Event) {
	switch e.Kind {
	case KindNoteOn:
		v.status = Sounding
		v.frequency = Frequency(e.Note)
	case KindNoteOff:
		v.status = Idle
		v.osc.Reset()
	}
}

// Sustain makes the voice sound at a fixed frequency until the next transition. It's used for the
// test tone, which is not driven by notes.
func (v *Voice) Sustain(frequency float64) {
	v.status = Sounding
	v.frequency = frequency
}

// Reset silences the voice and rewinds the oscillator, regardless of its state.
func (v *Voice) Reset() {
	v.status = Idle
	v.osc.Reset()
}

// Next returns the next sample of the voice at the given sample rate. Idle voices return 0 and do
// not advance their oscillator.
func (v *Voice) Next(sampleRate float64) float64 {
	if v.status != Sounding {
		return 0
	}
	return v.osc.Advance(v.frequency, sampleRate)
}

// Status returns the current state.
func (v *Voice) Status() Status {
	return v.status
}

// Frequency returns the frequency of the last NoteOn (or Sustain) in Hz.
func (v *Voice) Frequency() float64 {
	return v.frequency
}

// Phase returns the phase of the voice's oscillator.
func (v *Voice) Phase() float64 {
	return v.osc.Phase()
}
