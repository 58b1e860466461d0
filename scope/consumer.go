// Package scope drains the engine's telemetry on a normal goroutine and hands the samples to a
// waveform renderer.
package scope

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Source is the consumer side of a telemetry queue, typically an spsc.Ring[float32].
type Source interface {
	TryPop() (float32, bool)
}

// Sink receives the samples drained on each tick. The slice is only valid until Draw returns.
type Sink interface {
	Draw(samples []float32)
}

// SinkFunc is a Sink created from a function.
type SinkFunc func(samples []float32)

// Draw calls f.
func (f SinkFunc) Draw(samples []float32) {
	f(samples)
}

// Consumer pops telemetry samples. It never waits for the producer and applies no back-pressure:
// whatever the producer dropped while the consumer was away is simply gone.
type Consumer struct {
	src Source
	buf []float32
}

// NewConsumer returns a Consumer reading from src. capacity is a hint for how many samples one
// drain usually yields, normally the capacity of the queue.
func NewConsumer(src Source, capacity int) *Consumer {
	if capacity < 0 {
		capacity = 0
	}
	return &Consumer{
		src: src,
		buf: make([]float32, 0, capacity),
	}
}

// Drain pops every sample currently available, oldest first. The returned slice is reused by the
// next call to Drain.
func (c *Consumer) Drain() []float32 {
	c.buf = c.buf[:0]
	for {
		v, ok := c.src.TryPop()
		if !ok {
			return c.buf
		}
		c.buf = append(c.buf, v)
	}
}

// Run drains the source every interval and passes the samples to sink, until ctx is done.
func (c *Consumer) Run(ctx context.Context, interval time.Duration, sink Sink) error {
	if interval <= 0 {
		return errors.Errorf("scope: invalid refresh interval: %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sink.Draw(c.Drain())
		}
	}
}
