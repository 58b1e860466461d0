// Package midiin decodes MIDI input into pitch-control events.
package midiin

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/faiface/beepscope/voice"
)

// Omni accepts notes on every channel.
const Omni = -1

// Decoder turns MIDI messages into events for the single voice.
type Decoder struct {
	// Channel is the MIDI channel (0-15) to listen on, or Omni.
	Channel int
}

// Decode returns the event for msg. Note-ons with a velocity above zero start a note; note-offs and
// zero-velocity note-ons stop it. ok is false for everything else, including notes on other
// channels.
func (d Decoder) Decode(msg midi.Message) (e voice.Event, ok bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		if !d.accepts(ch) || key > 127 {
			return e, false
		}
		return voice.NoteOn(key), true
	case msg.GetNoteEnd(&ch, &key):
		if !d.accepts(ch) {
			return e, false
		}
		return voice.NoteOff(), true
	}
	return e, false
}

func (d Decoder) accepts(ch uint8) bool {
	return d.Channel == Omni || int(ch) == d.Channel
}

// Sink receives decoded events. beepscope.Dispatcher implements it.
type Sink interface {
	Send(ctx context.Context, e voice.Event) error
}

// Listen opens in and forwards its notes to sink until ctx is done. The port is closed when Listen
// returns.
func Listen(ctx context.Context, in drivers.In, d Decoder, sink Sink, log *slog.Logger) error {
	if err := in.Open(); err != nil {
		return errors.Wrapf(err, "midiin: failed to open %q", in.String())
	}
	defer in.Close()

	failed := make(chan error, 1)
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		e, ok := d.Decode(msg)
		if !ok {
			return
		}
		log.Debug("midi note", "event", e.String(), "raw", msg.String())
		if err := sink.Send(ctx, e); err != nil && ctx.Err() == nil {
			log.Warn("dropped midi event", "event", e.String(), "error", err)
		}
	}, midi.HandleError(func(listenErr error) {
		select {
		case failed <- listenErr:
		default:
		}
	}))
	if err != nil {
		return errors.Wrapf(err, "midiin: failed to listen to %q", in.String())
	}
	defer stop()

	log.Info("midi input connected", "port", in.String(), "channel", d.Channel)
	select {
	case <-ctx.Done():
		return nil
	case err := <-failed:
		return errors.Wrapf(err, "midiin: %q disconnected", in.String())
	}
}

// FindIn returns the input port named name from ins.
func FindIn(ins []drivers.In, name string) (drivers.In, error) {
	for _, in := range ins {
		if in.String() == name {
			return in, nil
		}
	}
	return nil, errors.Errorf("midiin: input %q not found", name)
}
