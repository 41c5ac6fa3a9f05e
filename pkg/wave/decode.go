package wave

import (
	"encoding/binary"
	"math"

	"github.com/olofson/audiality2-sub001/pkg/a2err"
)

// SampleFormat identifies the on-the-wire encoding of raw sample data
// handed to Decode, mirroring the upload contract's five supported
// formats.
type SampleFormat int

const (
	FormatI8 SampleFormat = iota
	FormatI16
	FormatI24
	FormatI32
	FormatF32
)

// bytesPerSample returns the encoded width of one sample in f.
func bytesPerSample(f SampleFormat) int {
	switch f {
	case FormatI8:
		return 1
	case FormatI16:
		return 2
	case FormatI24:
		return 3
	case FormatI32, FormatF32:
		return 4
	default:
		return 0
	}
}

// Decode converts raw, possibly interleaved PCM/float data into
// deinterleaved float32 sample slices, one per channel, normalized to
// [-1, 1]. This is the upload-time counterpart of the mipmap builders in
// wave.go: callers decode first, then feed a single channel's samples to
// NewWave or NewMipWave.
func Decode(data []byte, format SampleFormat, channels int, interleaved bool) ([][]float32, error) {
	if channels < 1 {
		return nil, a2err.Wrap(a2err.BadChannels, "channels=%d", channels)
	}
	width := bytesPerSample(format)
	if width == 0 {
		return nil, a2err.Wrap(a2err.BadFormat, "format=%d", format)
	}
	if len(data)%width != 0 {
		return nil, a2err.New(a2err.BufUnderflow)
	}
	total := len(data) / width
	if total%channels != 0 {
		return nil, a2err.Wrap(a2err.BadChannels, "sample count %d not divisible by %d channels", total, channels)
	}
	framesPerChannel := total / channels

	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, framesPerChannel)
	}

	readAt := func(i int) float32 {
		off := i * width
		switch format {
		case FormatI8:
			return float32(int8(data[off])) / 128
		case FormatI16:
			v := int16(binary.LittleEndian.Uint16(data[off : off+2]))
			return float32(v) / 32768
		case FormatI24:
			raw := int32(data[off]) | int32(data[off+1])<<8 | int32(data[off+2])<<16
			if raw&0x800000 != 0 {
				raw |= ^int32(0xffffff)
			}
			return float32(raw) / 8388608
		case FormatI32:
			v := int32(binary.LittleEndian.Uint32(data[off : off+4]))
			return float32(v) / 2147483648
		case FormatF32:
			bits := binary.LittleEndian.Uint32(data[off : off+4])
			return math.Float32frombits(bits)
		}
		return 0
	}

	if interleaved {
		for f := 0; f < framesPerChannel; f++ {
			for c := 0; c < channels; c++ {
				out[c][f] = readAt(f*channels + c)
			}
		}
	} else {
		for c := 0; c < channels; c++ {
			base := c * framesPerChannel
			for f := 0; f < framesPerChannel; f++ {
				out[c][f] = readAt(base + f)
			}
		}
	}
	return out, nil
}
