package voice

import (
	"fmt"
	"math"
)

// Kind tags a pitch-control Event.
type Kind uint8

const (
	// KindNoteOff silences the voice.
	KindNoteOff Kind = iota
	// KindNoteOn starts the voice at the event's note.
	KindNoteOn
)

// Event is a pitch-control event. It is a plain value, so it can be queued and copied on the audio
// thread without allocating.
type Event struct {
	Kind Kind
	// Note is the note number, 0 to 127. It is only meaningful for KindNoteOn. Range checking is
	// the job of whatever decodes the events.
	Note uint8
}

// NoteOn returns an event starting the voice at the given note number.
func NoteOn(note uint8) Event {
	return Event{Kind: KindNoteOn, Note: note}
}

// NoteOff returns an event silencing the voice.
func NoteOff() Event {
	return Event{Kind: KindNoteOff}
}

func (e Event) String() string {
	if e.Kind == KindNoteOn {
		return fmt.Sprintf("NoteOn{note:%d}", e.Note)
	}
	return "NoteOff"
}

const (
	// ReferenceNote is the note number tuned to ReferenceFrequency.
	ReferenceNote = 69
	// ReferenceFrequency is the pitch of ReferenceNote in Hz.
	ReferenceFrequency = 440.0
)

// Frequency maps a note number to its equal-tempered frequency in Hz. Note 69 is 440 Hz and every
// 12 notes double the frequency.
func Frequency(note uint8) float64 {
	return ReferenceFrequency * math.Pow(2, (float64(note)-ReferenceNote)/12)
}
