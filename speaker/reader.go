package speaker

import (
	"io"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/faiface/beepscope"
	"github.com/faiface/beepscope/pcm"
)

// bitDepthInBytes is the sample size both backends are opened with (signed 16-bit).
const bitDepthInBytes = 2

// Config describes the output stream.
type Config struct {
	SampleRate beepscope.SampleRate
	Channels   int

	// BufferSize is the number of frames in the device buffer. Bigger buffers mean lower CPU usage
	// and more reliable playback. Smaller buffers mean less latency between an event and the sound.
	BufferSize int

	// Logger receives setup and teardown messages. Nothing is logged from the audio callback.
	Logger *slog.Logger
}

func (c Config) format() (beepscope.Format, error) {
	format := beepscope.Format{
		SampleRate:  c.SampleRate,
		NumChannels: c.Channels,
		Precision:   bitDepthInBytes,
	}
	if err := format.Validate(); err != nil {
		return format, err
	}
	if c.BufferSize < 1 {
		return format, errors.Errorf("speaker: invalid buffer size: %d", c.BufferSize)
	}
	return format, nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

var errShortRead = errors.New("speaker: requested fewer bytes than one frame")

// sampleReader renders audio on demand and encodes it for the device. Its scratch buffer is
// allocated once, so Read never allocates.
//
// Once closed, Read returns io.EOF without rendering. The mutex is only contended while closing.
type sampleReader struct {
	r      beepscope.Renderer
	format beepscope.Format
	buf    []float32

	mu     sync.Mutex
	closed bool
}

func newSampleReader(r beepscope.Renderer, format beepscope.Format, bufferSize int) *sampleReader {
	return &sampleReader{
		r:      r,
		format: format,
		buf:    make([]float32, bufferSize*format.NumChannels),
	}
}

// Read renders as many whole frames as fit in buf and returns the number of bytes written. Requests
// bigger than the scratch buffer are rendered in several calls to the Renderer.
func (s *sampleReader) Read(buf []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, io.EOF
	}

	width := s.format.Width()
	frames := len(buf) / width
	if frames == 0 {
		return 0, errShortRead
	}

	channels := s.format.NumChannels
	chunkFrames := len(s.buf) / channels
	for frames > 0 {
		chunk := frames
		if chunk > chunkFrames {
			chunk = chunkFrames
		}
		samples := s.buf[:chunk*channels]
		s.r.Render(samples, chunk, channels, float64(s.format.SampleRate))
		m, err := pcm.Encode(buf[n:], samples, s.format)
		if err != nil {
			return n, err
		}
		n += m
		frames -= chunk
	}
	return n, nil
}

// close stops rendering. It waits for a Read in progress, so the Renderer is never called once close
// returns.
func (s *sampleReader) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
