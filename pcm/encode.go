// Package pcm converts rendered float samples into the raw integer PCM audio devices consume.
package pcm

import (
	"github.com/pkg/errors"

	"github.com/faiface/beepscope"
)

// ErrShortBuffer is returned by Encode when the destination can't hold all the samples.
var ErrShortBuffer = errors.New("pcm: buffer too small")

// Encode writes the interleaved samples to p in signed little-endian format and returns the number
// of bytes written. p must hold len(samples)*format.Precision bytes.
//
// Encode does not allocate, so it can run inside an audio callback.
func Encode(p []byte, samples []float32, format beepscope.Format) (n int, err error) {
	if len(p) < len(samples)*format.Precision {
		return 0, ErrShortBuffer
	}
	for _, s := range samples {
		n += format.EncodeSigned(p[n:], s)
	}
	return n, nil
}
