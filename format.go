package beepscope

import "github.com/pkg/errors"

// Format is the sample format of an audio device.
type Format struct {
	// SampleRate is the number of frames per second.
	SampleRate SampleRate

	// NumChannels is the number of channels. The value of 1 is mono, the value of 2 is stereo.
	// The samples are always interleaved.
	NumChannels int

	// Precision is the number of bytes used to encode a single sample.
	Precision int
}

// Width returns the number of bytes per one frame (all channels).
//
// This is equal to f.NumChannels * f.Precision.
func (f Format) Width() int {
	return f.NumChannels * f.Precision
}

// Validate reports whether a device can be opened with f.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return errors.Errorf("format: invalid sample rate: %d", f.SampleRate)
	}
	if f.NumChannels < 1 {
		return errors.Errorf("format: invalid number of channels: %d", f.NumChannels)
	}
	if f.Precision < 1 || f.Precision > 8 {
		return errors.Errorf("format: invalid precision: %d", f.Precision)
	}
	return nil
}

// EncodeSigned encodes a single channel sample in f.Precision bytes to p in signed little-endian
// format. Values outside [-1, 1] are clipped.
func (f Format) EncodeSigned(p []byte, sample float32) (n int) {
	return encodeFloat(p, f.Precision, norm(float64(sample)))
}

func encodeFloat(p []byte, precision int, x float64) (n int) {
	xUint64 := floatToSigned(precision, x)
	for i := 0; i < precision; i++ {
		p[i] = byte(xUint64)
		xUint64 >>= 8
	}
	return precision
}

func floatToSigned(precision int, x float64) uint64 {
	return uint64(int64(x * float64(uint64(1)<<uint(precision*8-1)-1)))
}

func norm(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > +1 {
		return +1
	}
	return x
}
