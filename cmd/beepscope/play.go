package main

import (
	"github.com/spf13/cobra"

	"github.com/faiface/beepscope"
)

func newPlayCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play notes",
		Long: `Play the sine voice from pitch-control events.

Notes come from the computer keyboard (a w s e d f t g y h u j k, space stops,
z/x change octave), from a MIDI input port with --midi-port, and from
POST /api/v1/notes/:note when --http is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), a, beepscope.ModeNotes)
		},
	}
	cmd.Flags().String("midi-port", "", "MIDI input port to listen on (see 'beepscope ports')")
	cmd.Flags().Int("midi-channel", -1, "MIDI channel 0-15, or -1 for all channels")
	if err := bindFlags(a.v, cmd.Flags(), map[string]string{
		"midi.port":    "midi-port",
		"midi.channel": "midi-channel",
	}); err != nil {
		panic(err)
	}
	return cmd
}
