// Command beepscope plays a sine voice and draws its waveform in the terminal.
//
//	beepscope tone             440 Hz test tone at -12 dBFS
//	beepscope play             play notes from the keyboard, a MIDI port or HTTP
//	beepscope ports            list MIDI input ports
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(newApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
