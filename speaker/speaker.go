//go:build !malgo

// Package speaker plays a beepscope.Session through the default audio output device.
//
// The default backend is oto. Build with -tags malgo to use miniaudio instead.
package speaker

import (
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"

	"github.com/faiface/beepscope"
)

// oto supports a single context per process, so it's shared by every Player.
var (
	mu            sync.Mutex
	context       *oto.Context
	contextFormat beepscope.Format
)

// Player is an open output stream pulling audio from a Session.
type Player struct {
	session beepscope.Session
	reader  *sampleReader
	player  *oto.Player
	cfg     Config
}

// Open starts playback of s. It calls s.Initialize with the stream's sample rate before the first
// Render. Every Player in a process must use the same sample rate and channel count.
func Open(s beepscope.Session, cfg Config) (*Player, error) {
	format, err := cfg.format()
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize speaker")
	}

	mu.Lock()
	defer mu.Unlock()

	if context == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   int(format.SampleRate),
			ChannelCount: format.NumChannels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   format.SampleRate.D(cfg.BufferSize),
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize speaker")
		}
		<-ready
		context, contextFormat = ctx, format
	} else if contextFormat != format {
		return nil, errors.Errorf("speaker: already initialized at %d Hz with %d channels",
			contextFormat.SampleRate, contextFormat.NumChannels)
	}

	s.Initialize(float64(format.SampleRate))

	reader := newSampleReader(s, format, cfg.BufferSize)
	player := context.NewPlayer(reader)
	player.SetBufferSize(cfg.BufferSize * format.Width())
	player.Play()

	cfg.logger().Info("speaker opened",
		"backend", "oto",
		"sample_rate", int(format.SampleRate),
		"channels", format.NumChannels,
		"buffer", format.SampleRate.D(cfg.BufferSize))

	return &Player{session: s, reader: reader, player: player, cfg: cfg}, nil
}

// Close stops playback and resets the session. The session's Render is not called again once Close
// returns.
func (p *Player) Close() error {
	p.player.Pause()
	// oto keeps pulling from the reader after Player.Close, so rendering is stopped here
	p.reader.close()
	err := p.player.Close()
	p.session.Reset()
	p.cfg.logger().Info("speaker closed")
	if err != nil {
		return errors.Wrap(err, "failed to close speaker")
	}
	return nil
}

// Err returns the error that stopped playback, if any.
func (p *Player) Err() error {
	return p.player.Err()
}
