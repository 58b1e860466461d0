package main

import (
	"github.com/spf13/cobra"

	"github.com/faiface/beepscope"
)

func newToneCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tone",
		Short: "Play a constant test tone",
		Long:  "Play a sine test tone (440 Hz at -12 dBFS unless configured otherwise) and draw it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), a, beepscope.ModeTestTone)
		},
	}
	cmd.Flags().Float64P("freq", "f", 440, "Test tone frequency in Hz")
	if err := bindFlags(a.v, cmd.Flags(), map[string]string{"engine.tone": "freq"}); err != nil {
		panic(err)
	}
	return cmd
}
