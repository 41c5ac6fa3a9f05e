package units

import (
	"math"

	"github.com/olofson/audiality2-sub001/pkg/unit"
)

// DCBlockClass is a two-pole state-variable DC blocker: a gentle
// 12 dB/octave high-pass tuned well below the audible range, used to
// strip the DC offset a STEP-mode dc unit or an asymmetric waveshaper
// can introduce before it reaches a limiter or the output mix.
var DCBlockClass = &unit.Class{
	Name:       "dcblock",
	MinInputs:  1,
	MaxInputs:  2,
	MinOutputs: 1,
	MaxOutputs: 2,
	Registers: []unit.RegisterDesc{
		{Name: "f0", Default: unit.FromFloat32(10)},
	},
	New: func() unit.Instance { return &dcblockInstance{f0: 10} },
}

type dcblockState struct {
	d1, d2 float32
}

type dcblockInstance struct {
	f0         float32
	f          float32
	sampleRate int
	add        bool
	channels   int
	state      [2]dcblockState
}

func (u *dcblockInstance) Initialize(ctx *unit.Context, ninputs, noutputs int, add bool) error {
	if err := DCBlockClass.ValidateArity(ninputs, noutputs); err != nil {
		return err
	}
	u.add = add
	u.channels = noutputs
	u.sampleRate = ctx.SampleRate
	u.recalc()
	return nil
}

func (u *dcblockInstance) Deinitialize() {}

func (u *dcblockInstance) recalc() {
	f0 := u.f0
	maxF0 := float32(u.sampleRate) * 0.25
	if f0 > maxF0 {
		f0 = maxF0
	}
	u.f = float32(2 * math.Sin(math.Pi*float64(f0)/float64(u.sampleRate)))
}

func (u *dcblockInstance) SetRegister(index int, value unit.Q16_16, rampFrames int32) {
	if index == 0 {
		u.f0 = value.ToFloat32()
		u.recalc()
	}
}

func (u *dcblockInstance) Process(inputs, outputs [][]float32, frames int) {
	nch := len(inputs)
	if nch > u.channels {
		nch = u.channels
	}
	for c := 0; c < nch; c++ {
		st := &u.state[c]
		in := inputs[c]
		out := outputs[c]
		f := u.f
		d1, d2 := st.d1, st.d2
		for i := 0; i < frames; i++ {
			high := in[i]*0.5 - d2 - d1
			band := f*high + d1
			d1 = band
			low := f*band + d2
			d2 = low
			accum(u.add, out, i, in[i]-low*2)
		}
		st.d1, st.d2 = d1, d2
	}
}
