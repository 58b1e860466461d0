// Package beepscope is a monophonic sine synthesizer built to run inside a real-time audio
// callback, with a lock-free telemetry feed for drawing the generated waveform.
//
// An Engine is a Session: the audio runtime calls Initialize when the stream starts, Render once per
// buffer and Reset when the stream stops. Pitch-control events reach the audio thread through Send,
// and every generated sample is copied into a bounded queue that a scope.Consumer drains at its own
// pace.
package beepscope

import (
	"math"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/faiface/beepscope/effects"
	"github.com/faiface/beepscope/oscillator"
	"github.com/faiface/beepscope/spsc"
	"github.com/faiface/beepscope/voice"
)

// Mode selects what drives the voice.
type Mode int

const (
	// ModeNotes plays NoteOn and NoteOff events. The voice starts Idle.
	ModeNotes Mode = iota
	// ModeTestTone sounds a constant tone and ignores events.
	ModeTestTone
)

func (m Mode) String() string {
	switch m {
	case ModeNotes:
		return "notes"
	case ModeTestTone:
		return "tone"
	default:
		return "unknown"
	}
}

// Options configure an Engine. Everything is fixed once the Engine is created.
type Options struct {
	Mode Mode

	// ToneFrequency is the test tone pitch in Hz, used in ModeTestTone.
	ToneFrequency float64

	// Level is the output level in dBFS applied to the voice.
	Level float64

	// TelemetryCapacity is the number of samples the telemetry queue holds before new samples are
	// dropped. It should cover roughly one display refresh of audio.
	TelemetryCapacity int

	// EventCapacity is the number of events that can be pending between two render calls.
	EventCapacity int
}

// DefaultOptions returns a note-driven engine at -12 dBFS with a 512 sample telemetry queue.
func DefaultOptions() Options {
	return Options{
		Mode:              ModeNotes,
		ToneFrequency:     voice.ReferenceFrequency,
		Level:             -12,
		TelemetryCapacity: 512,
		EventCapacity:     256,
	}
}

// Stats is a snapshot of an Engine's counters and published voice state.
type Stats struct {
	Mode       Mode
	SampleRate float64
	Status     voice.Status
	Frequency  float64

	Buffers          uint64
	Frames           uint64
	EventsApplied    uint64 // taken off the queue by Render
	EventsDropped    uint64 // rejected by Send
	EventsPending    int
	TelemetryDropped uint64
	TelemetryPending int
}

// Engine renders a single sine voice. See the package documentation for the threading model.
type Engine struct {
	opts Options
	gain float64

	// owned by the audio thread
	voice      *voice.Voice
	sampleRate float64

	events    *spsc.Ring[voice.Event]
	telemetry *spsc.Ring[float32]

	// published for other goroutines
	status           atomic.Uint32
	frequency        atomic.Uint64
	rate             atomic.Uint64
	buffers          atomic.Uint64
	frames           atomic.Uint64
	eventsApplied    atomic.Uint64
	eventsDropped    atomic.Uint64
	telemetryDropped atomic.Uint64
}

// New validates opts and allocates everything the Engine will ever use.
func New(opts Options) (*Engine, error) {
	if opts.Mode != ModeNotes && opts.Mode != ModeTestTone {
		return nil, errors.Errorf("beepscope: invalid mode: %d", opts.Mode)
	}
	if opts.Mode == ModeTestTone && !(opts.ToneFrequency > 0) {
		return nil, errors.Errorf("beepscope: invalid tone frequency: %v", opts.ToneFrequency)
	}
	if math.IsNaN(opts.Level) || math.IsInf(opts.Level, 0) {
		return nil, errors.Errorf("beepscope: invalid level: %v", opts.Level)
	}
	events, err := spsc.New[voice.Event](opts.EventCapacity)
	if err != nil {
		return nil, errors.Wrap(err, "beepscope: event queue")
	}
	telemetry, err := spsc.New[float32](opts.TelemetryCapacity)
	if err != nil {
		return nil, errors.Wrap(err, "beepscope: telemetry queue")
	}

	e := &Engine{
		opts:      opts,
		gain:      effects.Decibels(opts.Level).Gain(),
		voice:     voice.New(),
		events:    events,
		telemetry: telemetry,
	}
	e.Initialize(oscillator.MinSampleRate)
	return e, nil
}

// Options returns the options the Engine was created with.
func (e *Engine) Options() Options {
	return e.opts
}

// Initialize starts a session at the given sample rate. The voice is reset.
func (e *Engine) Initialize(sampleRate float64) {
	e.sampleRate = oscillator.ClampSampleRate(sampleRate)
	e.rate.Store(math.Float64bits(e.sampleRate))
	e.Reset()
}

// Reset silences the voice and rewinds its phase. Events still queued for the audio thread are
// discarded. In ModeTestTone the tone restarts from phase 0.
func (e *Engine) Reset() {
	for {
		if _, ok := e.events.TryPop(); !ok {
			break
		}
	}
	e.voice.Reset()
	if e.opts.Mode == ModeTestTone {
		e.voice.Sustain(e.opts.ToneFrequency)
	}
	e.publish()
}

// Send queues a pitch-control event for the next Render call and reports whether it fit. Send never
// blocks, but it must only be called from one goroutine at a time; use a Dispatcher to merge several
// event sources.
func (e *Engine) Send(ev voice.Event) bool {
	if !e.events.TryPush(ev) {
		e.eventsDropped.Add(1)
		return false
	}
	return true
}

// Render fills out with frames interleaved frames. Pending events are applied first, then every
// frame gets the same sample on each channel, and each sample is offered to the telemetry queue.
//
// frames is clamped to what fits in out. A non-positive sampleRate is treated as
// oscillator.MinSampleRate.
func (e *Engine) Render(out []float32, frames, channels int, sampleRate float64) {
	if channels <= 0 {
		return
	}
	if n := len(out) / channels; frames > n {
		frames = n
	}
	if frames < 0 {
		frames = 0
	}

	e.applyPending()

	sr := oscillator.ClampSampleRate(sampleRate)
	var dropped uint64
	for f := 0; f < frames; f++ {
		s := float32(e.voice.Next(sr) * e.gain)
		frame := out[f*channels : (f+1)*channels]
		for c := range frame {
			frame[c] = s
		}
		if !e.telemetry.TryPush(s) {
			dropped++
		}
	}

	if dropped > 0 {
		e.telemetryDropped.Add(dropped)
	}
	e.frames.Add(uint64(frames))
	e.buffers.Add(1)
	e.publish()
}

func (e *Engine) applyPending() {
	var applied uint64
	for {
		ev, ok := e.events.TryPop()
		if !ok {
			break
		}
		applied++
		if e.opts.Mode == ModeTestTone {
			continue
		}
		e.voice.Apply(ev)
	}
	if applied > 0 {
		e.eventsApplied.Add(applied)
	}
}

func (e *Engine) publish() {
	e.status.Store(uint32(e.voice.Status()))
	e.frequency.Store(math.Float64bits(e.voice.Frequency()))
}

// Telemetry returns the queue of generated samples. Only one goroutine may pop from it.
func (e *Engine) Telemetry() *spsc.Ring[float32] {
	return e.telemetry
}

// Stats returns a snapshot of the engine's counters. It's safe to call from any goroutine.
func (e *Engine) Stats() Stats {
	return Stats{
		Mode:             e.opts.Mode,
		SampleRate:       math.Float64frombits(e.rate.Load()),
		Status:           voice.Status(e.status.Load()),
		Frequency:        math.Float64frombits(e.frequency.Load()),
		Buffers:          e.buffers.Load(),
		Frames:           e.frames.Load(),
		EventsApplied:    e.eventsApplied.Load(),
		EventsDropped:    e.eventsDropped.Load(),
		EventsPending:    e.events.Len(),
		TelemetryDropped: e.telemetryDropped.Load(),
		TelemetryPending: e.telemetry.Len(),
	}
}
