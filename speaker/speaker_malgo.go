//go:build malgo

// Package speaker plays a beepscope.Session through the default audio output device.
//
// This is the miniaudio backend, selected with -tags malgo.
package speaker

import (
	"strings"

	"github.com/gen2brain/malgo"
	"github.com/pkg/errors"

	"github.com/faiface/beepscope"
)

// Player is an open output stream pulling audio from a Session.
type Player struct {
	session beepscope.Session
	reader  *sampleReader
	context *malgo.AllocatedContext
	device  *malgo.Device
	cfg     Config
}

// Open starts playback of s. It calls s.Initialize with the stream's sample rate before the first
// Render.
func Open(s beepscope.Session, cfg Config) (*Player, error) {
	format, err := cfg.format()
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize speaker")
	}
	log := cfg.logger()

	context, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Debug("miniaudio", "message", strings.TrimSpace(message))
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize speaker (context)")
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(format.NumChannels)
	deviceConfig.SampleRate = uint32(format.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(cfg.BufferSize)
	deviceConfig.Alsa.NoMMap = 1

	reader := newSampleReader(s, format, cfg.BufferSize)
	onSamples := func(pOutputSample, pInputSamples []byte, framecount uint32) {
		byteCount := int(framecount) * format.Width()
		if byteCount > len(pOutputSample) {
			byteCount = len(pOutputSample)
		}
		n, _ := reader.Read(pOutputSample[:byteCount])
		clear(pOutputSample[n:])
	}

	s.Initialize(float64(format.SampleRate))

	device, err := malgo.InitDevice(context.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
	})
	if err != nil {
		_ = context.Uninit()
		context.Free()
		return nil, errors.Wrap(err, "failed to initialize speaker (device)")
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		_ = context.Uninit()
		context.Free()
		return nil, errors.Wrap(err, "failed to initialize speaker (device start)")
	}

	log.Info("speaker opened",
		"backend", "miniaudio",
		"sample_rate", int(format.SampleRate),
		"channels", format.NumChannels,
		"buffer", format.SampleRate.D(cfg.BufferSize))

	return &Player{session: s, reader: reader, context: context, device: device, cfg: cfg}, nil
}

// Close stops playback, releases the device and resets the session.
func (p *Player) Close() error {
	p.reader.close()
	p.device.Uninit()
	p.session.Reset()
	err := p.context.Uninit()
	p.context.Free()
	p.cfg.logger().Info("speaker closed")
	if err != nil {
		return errors.Wrap(err, "failed to close speaker")
	}
	return nil
}

// Err always returns nil; miniaudio reports device failures through its log callback.
func (p *Player) Err() error {
	return nil
}
