package scope

import (
	"math"

	"github.com/gdamore/tcell"

	"github.com/faiface/beepscope/voice"
)

// Terminal draws the drained samples as a waveform across a tcell screen. The top row shows a title,
// the rest of the screen is the plot with 0 in the middle.
type Terminal struct {
	screen tcell.Screen
	title  func() string

	// Scale multiplies samples before plotting. 1 maps full scale to the edges of the plot.
	Scale float64

	textStyle tcell.Style
	waveStyle tcell.Style
	axisStyle tcell.Style
}

// NewTerminal returns a Terminal drawing on an initialized screen. title is called on every frame,
// so it can report live state; it may be nil.
func NewTerminal(screen tcell.Screen, title func() string) *Terminal {
	return &Terminal{
		screen:    screen,
		title:     title,
		Scale:     1,
		textStyle: tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true),
		waveStyle: tcell.StyleDefault.Foreground(tcell.ColorGreen),
		axisStyle: tcell.StyleDefault.Foreground(tcell.ColorDarkGray),
	}
}

func drawTextLine(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Draw renders one frame. Fewer than two samples leave the plot empty.
func (t *Terminal) Draw(samples []float32) {
	t.screen.Clear()
	w, h := t.screen.Size()
	if t.title != nil {
		drawTextLine(t.screen, 0, 0, t.title(), t.textStyle)
	}

	top, bottom := 1, h-1
	if w < 1 || bottom < top {
		t.screen.Show()
		return
	}
	mid := (top + bottom) / 2
	amp := float64(bottom-top) / 2

	for x := 0; x < w; x++ {
		t.screen.SetContent(x, mid, '-', nil, t.axisStyle)
	}

	if len(samples) >= 2 {
		for x := 0; x < w; x++ {
			i := 0
			if w > 1 {
				i = x * (len(samples) - 1) / (w - 1)
			}
			y := mid - int(math.Round(float64(samples[i])*t.Scale*amp))
			if y < top {
				y = top
			}
			if y > bottom {
				y = bottom
			}
			t.screen.SetContent(x, y, '*', nil, t.waveStyle)
		}
	}
	t.screen.Show()
}

// pianoRow is the computer keyboard laid out like one octave of piano keys, starting at C.
const pianoRow = "awsedftgyhujk"

// Keyboard turns key presses into pitch-control events. Terminals don't report key releases, so a
// key starts a note and space stops it.
type Keyboard struct {
	// Octave is the octave of the 'a' key; octave 4 puts 'a' on middle C (note 60).
	Octave int
}

// NewKeyboard returns a Keyboard starting at middle C.
func NewKeyboard() *Keyboard {
	return &Keyboard{Octave: 4}
}

// Handle interprets ev. It returns the event to send if ok is true, and quit is true for Esc or
// Ctrl-C. 'z' and 'x' move the keyboard one octave down or up.
func (k *Keyboard) Handle(ev tcell.Event) (e voice.Event, ok, quit bool) {
	key, isKey := ev.(*tcell.EventKey)
	if !isKey {
		return e, false, false
	}
	switch key.Key() {
	case tcell.KeyESC, tcell.KeyCtrlC:
		return e, false, true
	case tcell.KeyRune:
	default:
		return e, false, false
	}

	r := key.Rune()
	switch r {
	case ' ':
		return voice.NoteOff(), true, false
	case 'z':
		if k.Octave > -1 {
			k.Octave--
		}
		return e, false, false
	case 'x':
		if k.Octave < 9 {
			k.Octave++
		}
		return e, false, false
	}
	for i, p := range pianoRow {
		if p != r {
			continue
		}
		note := (k.Octave+1)*12 + i
		if note < 0 || note > 127 {
			return e, false, false
		}
		return voice.NoteOn(uint8(note)), true, false
	}
	return e, false, false
}
