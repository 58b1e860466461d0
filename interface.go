package beepscope

import "time"

// SampleRate is the number of frames per second.
type SampleRate int

// D returns the duration of n frames.
func (sr SampleRate) D(n int) time.Duration {
	return time.Second * time.Duration(n) / time.Duration(sr)
}

// N returns the number of whole frames that last for d.
func (sr SampleRate) N(d time.Duration) int {
	return int(d * time.Duration(sr) / time.Second)
}

// Renderer is the audio callback contract. An audio runtime calls Render once per buffer from its
// real-time thread.
//
// out holds frames interleaved frames of channels samples each. Render must fill them without
// blocking, locking or allocating, and must return well before frames/sampleRate seconds have
// passed. There's no way to report an error; anything that can fail has to fail before the stream
// starts.
type Renderer interface {
	Render(out []float32, frames, channels int, sampleRate float64)
}

// RendererFunc is a Renderer created from a function.
type RendererFunc func(out []float32, frames, channels int, sampleRate float64)

// Render calls f.
func (f RendererFunc) Render(out []float32, frames, channels int, sampleRate float64) {
	f(out, frames, channels, sampleRate)
}

// Session is a Renderer with lifecycle hooks. The runtime calls Initialize when a stream starts and
// Reset when it stops or is reconfigured. Neither is called concurrently with Render.
type Session interface {
	Renderer
	Initialize(sampleRate float64)
	Reset()
}
