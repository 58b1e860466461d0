// Package config loads beepscope settings from defaults, an optional config file, environment
// variables and command line flags, in increasing order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/faiface/beepscope"
	"github.com/faiface/beepscope/logging"
)

// EnvPrefix prefixes environment overrides, e.g. BEEPSCOPE_AUDIO_SAMPLERATE=44100.
const EnvPrefix = "BEEPSCOPE"

// Settings is the complete runtime configuration.
type Settings struct {
	Debug bool `mapstructure:"debug"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Audio struct {
		SampleRate int           `mapstructure:"samplerate"`
		Channels   int           `mapstructure:"channels"`
		Buffer     time.Duration `mapstructure:"buffer"`
	} `mapstructure:"audio"`

	Engine struct {
		Level     float64 `mapstructure:"level"` // dBFS
		Tone      float64 `mapstructure:"tone"`  // Hz
		Telemetry int     `mapstructure:"telemetry"`
		Events    int     `mapstructure:"events"`
	} `mapstructure:"engine"`

	Scope struct {
		Refresh  time.Duration `mapstructure:"refresh"`
		Headless bool          `mapstructure:"headless"`
	} `mapstructure:"scope"`

	MIDI struct {
		Port    string `mapstructure:"port"`
		Channel int    `mapstructure:"channel"`
	} `mapstructure:"midi"`

	HTTP struct {
		Enabled bool   `mapstructure:"enabled"`
		Listen  string `mapstructure:"listen"`
	} `mapstructure:"http"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("log.level", "info")

	v.SetDefault("audio.samplerate", 48000)
	v.SetDefault("audio.channels", 2)
	v.SetDefault("audio.buffer", 10*time.Millisecond)

	v.SetDefault("engine.level", -12.0)
	v.SetDefault("engine.tone", 440.0)
	v.SetDefault("engine.telemetry", 512)
	v.SetDefault("engine.events", 256)

	v.SetDefault("scope.refresh", time.Second/30)
	v.SetDefault("scope.headless", false)

	v.SetDefault("midi.port", "")
	v.SetDefault("midi.channel", -1)

	v.SetDefault("http.enabled", false)
	v.SetDefault("http.listen", "127.0.0.1:8089")
}

// New returns a viper instance with defaults and environment overrides wired up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (if not empty) into v and decodes the result.
func Load(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: failed to read %s", path)
		}
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "config: failed to decode settings")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every value that would otherwise only fail once the audio stream is set up.
func (s *Settings) Validate() error {
	switch {
	case s.Audio.SampleRate < 1:
		return errors.Errorf("config: audio.samplerate must be positive, got %d", s.Audio.SampleRate)
	case s.Audio.Channels < 1:
		return errors.Errorf("config: audio.channels must be positive, got %d", s.Audio.Channels)
	case s.BufferFrames() < 1:
		return errors.Errorf("config: audio.buffer %v is shorter than one frame", s.Audio.Buffer)
	case !(s.Engine.Tone > 0):
		return errors.Errorf("config: engine.tone must be positive, got %v", s.Engine.Tone)
	case float64(s.Audio.SampleRate) < 2*s.Engine.Tone:
		return errors.Errorf("config: engine.tone %v Hz is above the Nyquist frequency", s.Engine.Tone)
	case s.Engine.Telemetry < 1:
		return errors.Errorf("config: engine.telemetry must be positive, got %d", s.Engine.Telemetry)
	case s.Engine.Events < 1:
		return errors.Errorf("config: engine.events must be positive, got %d", s.Engine.Events)
	case s.Scope.Refresh <= 0:
		return errors.Errorf("config: scope.refresh must be positive, got %v", s.Scope.Refresh)
	case s.MIDI.Channel < -1 || s.MIDI.Channel > 15:
		return errors.Errorf("config: midi.channel must be -1 (omni) or 0-15, got %d", s.MIDI.Channel)
	case s.HTTP.Enabled && s.HTTP.Listen == "":
		return errors.New("config: http.listen is required when http.enabled is set")
	}
	if _, err := logging.ParseLevel(s.LogLevel()); err != nil {
		return errors.Wrap(err, "config: log.level")
	}
	return nil
}

// LogLevel returns the effective log level; debug overrides log.level.
func (s *Settings) LogLevel() string {
	if s.Debug {
		return "debug"
	}
	return s.Log.Level
}

// SampleRate returns the audio sample rate.
func (s *Settings) SampleRate() beepscope.SampleRate {
	return beepscope.SampleRate(s.Audio.SampleRate)
}

// BufferFrames returns the device buffer length in frames.
func (s *Settings) BufferFrames() int {
	return s.SampleRate().N(s.Audio.Buffer)
}

// EngineOptions returns the engine options for mode.
func (s *Settings) EngineOptions(mode beepscope.Mode) beepscope.Options {
	return beepscope.Options{
		Mode:              mode,
		ToneFrequency:     s.Engine.Tone,
		Level:             s.Engine.Level,
		TelemetryCapacity: s.Engine.Telemetry,
		EventCapacity:     s.Engine.Events,
	}
}
