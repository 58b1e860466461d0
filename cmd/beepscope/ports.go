package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/faiface/beepscope/midiin"
)

func newPortsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List MIDI input ports",
		RunE: func(cmd *cobra.Command, args []string) error {
			drv, err := rtmididrv.New()
			if err != nil {
				return errors.Wrap(err, "failed to open MIDI driver")
			}
			defer drv.Close()

			ins, err := drv.Ins()
			if err != nil {
				return errors.Wrap(err, "failed to list MIDI inputs")
			}
			if len(ins) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no MIDI input ports")
				return nil
			}
			for _, in := range ins {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", in.Number(), in.String())
			}
			return nil
		},
	}
}

// openMIDIIn finds the named input port. The returned close function releases the driver.
func openMIDIIn(name string) (drivers.In, func(), error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open MIDI driver")
	}
	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return nil, nil, errors.Wrap(err, "failed to list MIDI inputs")
	}
	in, err := midiin.FindIn(ins, name)
	if err != nil {
		drv.Close()
		return nil, nil, err
	}
	return in, func() { drv.Close() }, nil
}
