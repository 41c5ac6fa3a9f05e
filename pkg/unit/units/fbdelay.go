package units

import "github.com/olofson/audiality2-sub001/pkg/unit"

// FBDelayBufSize is the ring buffer length per channel, a power of two
// so the write/read index can be masked instead of computing a modulo.
const FBDelayBufSize = 131072
const fbDelayMask = FBDelayBufSize - 1

// FBDelayClass is a cross-feedback stereo delay: the left channel's
// feedback path feeds the right delay line and vice versa, giving a
// "ping-pong" character distinct from two independent mono delays.
var FBDelayClass = &unit.Class{
	Name:       "fbdelay",
	Flags:      unit.FlagStereo,
	MinInputs:  1,
	MaxInputs:  2,
	MinOutputs: 1,
	MaxOutputs: 2,
	Registers: []unit.RegisterDesc{
		{Name: "delay", Default: unit.FromFloat32(0.25)},
		{Name: "fbgain", Default: unit.FromFloat32(0.3)},
		{Name: "dry", Default: unit.FromFloat32(1)},
	},
	New: func() unit.Instance { return &fbdelayInstance{dry: 1, fbgain: 0.3} },
}

type fbdelayInstance struct {
	buf        [2][]float32
	bufpos     int32
	delaySmp   int32
	fbgain     float32
	dry        float32
	sampleRate int
	add        bool
	channels   int
}

func (u *fbdelayInstance) Initialize(ctx *unit.Context, ninputs, noutputs int, add bool) error {
	if err := FBDelayClass.ValidateArity(ninputs, noutputs); err != nil {
		return err
	}
	u.add = add
	u.channels = noutputs
	u.sampleRate = ctx.SampleRate
	u.buf[0] = make([]float32, FBDelayBufSize)
	u.buf[1] = make([]float32, FBDelayBufSize)
	if u.delaySmp == 0 {
		u.delaySmp = int32(float32(ctx.SampleRate) * 0.25)
	}
	return nil
}

// Deinitialize drops the ring buffers, mirroring the original's
// Deinitialize call to free() the calloc'd buffers: here the Go
// garbage collector reclaims them once the instance itself is
// released, so this just clears the references promptly.
func (u *fbdelayInstance) Deinitialize() {
	u.buf[0] = nil
	u.buf[1] = nil
}

func (u *fbdelayInstance) SetRegister(index int, value unit.Q16_16, rampFrames int32) {
	switch index {
	case 0: // delay, in seconds
		smp := int32(value.ToFloat32() * float32(u.sampleRate))
		if smp < 0 {
			smp = 0
		}
		if smp >= FBDelayBufSize {
			smp = FBDelayBufSize - 1
		}
		u.delaySmp = smp
	case 1:
		u.fbgain = value.ToFloat32()
	case 2:
		u.dry = value.ToFloat32()
	}
}

// wi computes the read index x samples behind the current write
// position, masked into the ring buffer (mirrors the original's
// WI(x) = (bufpos - x) & (BUFSIZE-1)).
func wi(pos, x, mask int32) int32 {
	return (pos - x) & mask
}

func (u *fbdelayInstance) Process(inputs, outputs [][]float32, frames int) {
	left := inputs[0]
	right := left
	if len(inputs) > 1 {
		right = inputs[1]
	}
	pos := u.bufpos
	for i := 0; i < frames; i++ {
		tapL := u.buf[0][wi(pos, u.delaySmp, fbDelayMask)]
		tapR := u.buf[1][wi(pos, u.delaySmp, fbDelayMask)]

		// Cross-feedback: left's delay line is fed from the right
		// input path and vice versa.
		u.buf[0][pos&fbDelayMask] = right[i] + tapR*u.fbgain
		u.buf[1][pos&fbDelayMask] = left[i] + tapL*u.fbgain

		accum(u.add, outputs[0], i, left[i]*u.dry+tapL)
		if u.channels > 1 {
			accum(u.add, outputs[1], i, right[i]*u.dry+tapR)
		}
		pos++
	}
	u.bufpos = pos
}
