package beepscope

import (
	"context"

	"github.com/faiface/beepscope/voice"
)

// Dispatcher merges events from any number of goroutines into the single producer an Engine allows.
//
// Sources call Send; one goroutine runs Run and forwards everything to the Engine in arrival order.
// Only Run touches the engine's event queue, so the audio thread still sees a single producer.
type Dispatcher struct {
	engine *Engine
	in     chan voice.Event
}

// NewDispatcher returns a Dispatcher feeding e. backlog is the number of events Send can buffer
// before it starts blocking.
func NewDispatcher(e *Engine, backlog int) *Dispatcher {
	if backlog < 0 {
		backlog = 0
	}
	return &Dispatcher{
		engine: e,
		in:     make(chan voice.Event, backlog),
	}
}

// Send hands ev to the dispatcher. It blocks while the backlog is full and gives up when ctx is done.
// Send must not be called from the audio thread.
func (d *Dispatcher) Send(ctx context.Context, ev voice.Event) error {
	select {
	case d.in <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run forwards events to the engine until ctx is done. Events the engine has no room for are dropped
// and show up in Stats.EventsDropped.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case ev := <-d.in:
			d.engine.Send(ev)
		case <-ctx.Done():
			return nil
		}
	}
}
