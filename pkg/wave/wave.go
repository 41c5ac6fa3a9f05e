// Package wave implements the engine's wavetable data model: single-shot
// and looped waves, and mipmapped wavetables with pre/post padding sized
// for the oscillator's interpolation kernel and the worst-case per-sample
// phase increment.
package wave

import "math"

// Type distinguishes the four kinds of wave data (mirrors A2_wavetypes).
type Type int

const (
	// TypeOff is silence; wtosc reads it without consulting any data.
	TypeOff Type = iota
	// TypeNoise is procedurally generated white noise, not sample data.
	TypeNoise
	// TypeWave is a single, unmipped cycle or one-shot sample.
	TypeWave
	// TypeMipWave is a full mipmap chain for anti-aliased pitched
	// playback across a wide frequency range.
	TypeMipWave
)

// Flags are per-wave behavior bits (mirrors A2_waveflags). Only
// FlagLooped is acted on in this module (padding and wtosc's wrapping);
// the other bits are stored with the wave, and nothing here normalizes,
// crossfades, reverse-mixes or clears a wave because of them.
type Flags uint32

const (
	FlagLooped    Flags = 1 << iota // wraps at the loop point instead of decaying to zero
	FlagNormalize                   // peak-normalize on upload
	FlagXFade                       // crossfade across the loop seam
	FlagRevMix                      // mix in a time-reversed copy (for seamless ping-pong style loops)
	FlagClear                       // newly allocated buffer is guaranteed to be pre-zeroed
	FlagUnprepared                  // mip levels have not yet been rendered
)

// Mip-mapping and padding constants, ported from a2_waves.h.
const (
	// MipLevels is the number of mipmap levels generated for a
	// TypeMipWave, each one octave lower in effective sample rate than
	// the last.
	MipLevels = 10

	// InterpRe is the number of samples a playback kernel reads before
	// the nominal start of the waveform (pre-padding).
	InterpRe = 1
	// InterpPost is the number of samples a playback kernel reads past
	// the nominal end of the waveform, before accounting for the
	// per-fragment phase increment budget (post-padding).
	InterpPost = 2

	// MaxPhInc is the largest per-sample phase increment the oscillator
	// supports, in 1/256 sample units (512 is two level samples per
	// output sample); above this, a mip level down-shift is required
	// instead.
	MaxPhInc = 512

	// MaxFrag is the largest number of samples processed in a single
	// engine buffer/fragment, used to size post-padding so a whole
	// fragment's worth of maximum-rate playback never reads past the
	// allocated buffer.
	MaxFrag = 4096

	// Pre is the number of guard samples kept before sample index 0.
	Pre = InterpRe
	// Post is the number of guard samples kept after the last sample.
	Post = InterpPost + (MaxFrag*MaxPhInc+255)>>8 + 1

	// Period is the number of samples in one cycle of a generated
	// periodic waveform; at pitch 0, wtosc advances one level-0 sample
	// per output sample, i.e. one such cycle per Period samples.
	Period = 2048
)

// MipLevel is one octave of a mipmapped wave's data, already padded with
// Pre guard samples before index 0 and Post guard samples after the
// last real sample.
type MipLevel struct {
	// Data holds Pre guard samples, then Size real samples, then Post
	// guard samples: len(Data) == Pre+Size+Post.
	Data []float32
	// Size is the number of real (non-guard) samples in this level.
	Size int
}

// Wave is a single wavetable object: either procedurally typed (off,
// noise) or backed by one or more MipLevel buffers.
type Wave struct {
	Type       Type
	Flags      Flags
	SampleRate int
	Channels   int
	Levels     []MipLevel // len 1 for TypeWave, MipLevels for TypeMipWave
}

// NewOff creates a TypeOff placeholder wave.
func NewOff() *Wave {
	return &Wave{Type: TypeOff}
}

// NewNoise creates a TypeNoise wave; noise is generated on the fly by
// the oscillator and carries no sample data.
func NewNoise(sampleRate int) *Wave {
	return &Wave{Type: TypeNoise, SampleRate: sampleRate}
}

// padSize returns the padded buffer length for size real samples.
func padSize(size int) int {
	return Pre + size + Post
}

// fillPadding mirrors the original engine's wrap-padding for looped
// waves (guard samples copy from the opposite end of the cycle, so
// interpolation across the loop seam reads continuous data) versus
// zero-padding for one-shot waves (guard samples are silence, so
// playback past the end decays instead of wrapping garbage).
func fillPadding(data []float32, size int, looped bool) {
	if !looped {
		for i := 0; i < Pre; i++ {
			data[i] = 0
		}
		for i := 0; i < Post; i++ {
			data[Pre+size+i] = 0
		}
		return
	}
	for i := 0; i < Pre; i++ {
		// Samples immediately before index 0 wrap to the tail of the
		// cycle.
		src := size - Pre + i
		data[i] = data[Pre+((src%size)+size)%size]
	}
	for i := 0; i < Post; i++ {
		data[Pre+size+i] = data[Pre+(i%size)]
	}
}

// NewWave builds a single, unmipped TypeWave from raw samples. The
// caller-supplied samples occupy the padded buffer's real region;
// padding is filled according to looped.
func NewWave(samples []float32, sampleRate int, looped bool) *Wave {
	size := len(samples)
	data := make([]float32, padSize(size))
	copy(data[Pre:Pre+size], samples)
	fillPadding(data, size, looped)
	flags := Flags(0)
	if looped {
		flags |= FlagLooped
	}
	return &Wave{
		Type:       TypeWave,
		Flags:      flags,
		SampleRate: sampleRate,
		Channels:   1,
		Levels:     []MipLevel{{Data: data, Size: size}},
	}
}

// NewMipWave builds a TypeMipWave by generating MipLevels octaves of
// progressively downsampled data from samples, each padded for
// interpolated playback. Level 0 is full rate; each subsequent level is
// downsampled by a factor of two from the previous one (box filter,
// matching the original renderer's simple averaging decimator).
func NewMipWave(samples []float32, sampleRate int, looped bool) *Wave {
	w := &Wave{
		Type:       TypeMipWave,
		SampleRate: sampleRate,
		Channels:   1,
		Levels:     make([]MipLevel, MipLevels),
	}
	if looped {
		w.Flags |= FlagLooped
	}
	cur := append([]float32(nil), samples...)
	for lvl := 0; lvl < MipLevels; lvl++ {
		size := len(cur)
		if size < 1 {
			size = 1
			cur = []float32{0}
		}
		data := make([]float32, padSize(size))
		copy(data[Pre:Pre+size], cur)
		fillPadding(data, size, looped)
		w.Levels[lvl] = MipLevel{Data: data, Size: size}
		cur = downsampleByTwo(cur)
	}
	return w
}

// downsampleByTwo halves the sample count with a simple two-tap box
// filter, matching the mip renderer's decimation approach; the last odd
// sample (if any) is dropped rather than read out of bounds.
func downsampleByTwo(in []float32) []float32 {
	n := len(in) / 2
	if n < 1 {
		n = 1
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		a := in[2*i]
		b := a
		if 2*i+1 < len(in) {
			b = in[2*i+1]
		}
		out[i] = (a + b) * 0.5
	}
	return out
}

// Normalize scales every level, padding included, by the factor that
// brings level 0's absolute peak sample value to 1.0. A no-op on
// silence.
func Normalize(w *Wave) {
	if len(w.Levels) == 0 {
		return
	}
	lvl := w.Levels[0]
	peak := float32(0)
	for i := 0; i < lvl.Size; i++ {
		v := lvl.Data[Pre+i]
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return
	}
	scale := 1 / peak
	for li := range w.Levels {
		l := &w.Levels[li]
		for i := range l.Data {
			l.Data[i] *= scale
		}
	}
}

// MipLevelForPhaseIncrement picks the finest mip level whose effective
// per-sample increment (phinc / 2^level) is below two level samples
// (MaxPhInc/256), capped at the last level, given a desired phase
// increment expressed in level-0 sample units per output sample. This avoids audible aliasing at high playback pitches by
// reading from a pre-downsampled level instead of skipping samples in
// level 0.
func (w *Wave) MipLevelForPhaseIncrement(phinc float64) int {
	if w.Type != TypeMipWave {
		return 0
	}
	lvl := 0
	for lvl < len(w.Levels)-1 && math.Abs(phinc) >= float64(int64(1)<<uint(lvl+1)) {
		lvl++
	}
	return lvl
}
