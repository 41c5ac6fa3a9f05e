package units

import "github.com/olofson/audiality2-sub001/pkg/unit"

// WaveshaperMaxChannels bounds the unit to mono or stereo operation.
const WaveshaperMaxChannels = 2

// WaveshaperClass applies a rational soft-clipping transfer function
// controlled by a single "amount" register. At amount==0 the transfer
// function reduces to the identity (y==x); increasing amount
// progressively rounds off the signal's peaks.
var WaveshaperClass = &unit.Class{
	Name:       "waveshaper",
	MinInputs:  1,
	MaxInputs:  WaveshaperMaxChannels,
	MinOutputs: 1,
	MaxOutputs: WaveshaperMaxChannels,
	Registers: []unit.RegisterDesc{
		{Name: "amount", Default: 0},
	},
	New: func() unit.Instance { return &waveshaperInstance{} },
}

type waveshaperInstance struct {
	amount   float32
	add      bool
	channels int
}

func (u *waveshaperInstance) Initialize(ctx *unit.Context, ninputs, noutputs int, add bool) error {
	if err := WaveshaperClass.ValidateArity(ninputs, noutputs); err != nil {
		return err
	}
	u.add = add
	u.channels = noutputs
	return nil
}

func (u *waveshaperInstance) Deinitialize() {}

func (u *waveshaperInstance) SetRegister(index int, value unit.Q16_16, rampFrames int32) {
	if index == 0 {
		u.amount = value.ToFloat32()
	}
}

// shape evaluates y = ((3a+1)x - 2a*x*|x|) / (a^2*x^2 + 1).
func shape(a, x float32) float32 {
	num := (3*a+1)*x - 2*a*x*absf(x)
	den := a*a*x*x + 1
	return num / den
}

func (u *waveshaperInstance) Process(inputs, outputs [][]float32, frames int) {
	a := u.amount
	nch := len(inputs)
	if nch > u.channels {
		nch = u.channels
	}
	for c := 0; c < nch; c++ {
		in := inputs[c]
		out := outputs[c]
		for i := 0; i < frames; i++ {
			accum(u.add, out, i, shape(a, in[i]))
		}
	}
}
