package main

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/faiface/beepscope/config"
	"github.com/faiface/beepscope/logging"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	v          *viper.Viper
	configPath string
	settings   *config.Settings
	log        *slog.Logger
}

func newApp() *app {
	return &app{v: config.New()}
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "beepscope",
		Short:         "Real-time sine synthesizer with a terminal oscilloscope",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Int("samplerate", 48000, "Output sample rate in Hz")
	flags.Int("channels", 2, "Number of output channels")
	flags.Duration("buffer", 0, "Device buffer length, e.g. 10ms")
	flags.Float64("level", -12, "Output level in dBFS")
	flags.Int("telemetry", 512, "Telemetry queue capacity in samples")
	flags.Duration("refresh", 0, "Scope refresh interval, e.g. 33ms")
	flags.Bool("headless", false, "Don't draw the scope, only log levels")
	flags.Bool("http", false, "Serve status, metrics and the note API")
	flags.String("listen", "127.0.0.1:8089", "Listen address of the HTTP server")

	if err := bindFlags(a.v, flags, map[string]string{
		"debug":            "debug",
		"log.level":        "log-level",
		"audio.samplerate": "samplerate",
		"audio.channels":   "channels",
		"audio.buffer":     "buffer",
		"engine.level":     "level",
		"engine.telemetry": "telemetry",
		"scope.refresh":    "refresh",
		"scope.headless":   "headless",
		"http.enabled":     "http",
		"http.listen":      "listen",
	}); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		newToneCommand(a),
		newPlayCommand(a),
		newPortsCommand(a),
	)
	return rootCmd
}

// bindFlags binds viper keys to flags. A flag only overrides the config file when it's set on the
// command line.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, name := range keys {
		f := flags.Lookup(name)
		if f == nil {
			return errors.Errorf("no flag named %q", name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "error binding flag %q", name)
		}
	}
	return nil
}

func (a *app) load() error {
	settings, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(os.Stderr, settings.LogLevel())
	if err != nil {
		return err
	}
	a.settings, a.log = settings, log
	return nil
}
