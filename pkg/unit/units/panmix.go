// Package units holds the engine's built-in DSP unit implementations:
// wtosc, panmix, env, dc, dcblock, fbdelay, limiter, waveshaper and
// xinsert. There is no separate xsink unit; xinsert's tap callback is
// the hook for such clients.
package units

import (
	"github.com/olofson/audiality2-sub001/pkg/dsp"
	"github.com/olofson/audiality2-sub001/pkg/unit"
)

// Pan constants exposed to scripts, matching the original's CENTER/
// LEFT/RIGHT constant registers.
const (
	PanCenter = 0
	PanLeft   = -1
	PanRight  = 1
)

// PanmixClass is the ramped volume/pan mixer: up to two inputs, up to
// two outputs, linearly ramping both volume and pan so parameter writes
// never click.
var PanmixClass = &unit.Class{
	Name:       "panmix",
	Flags:      unit.FlagStereo,
	MinInputs:  1,
	MaxInputs:  2,
	MinOutputs: 1,
	MaxOutputs: 2,
	Registers: []unit.RegisterDesc{
		{Name: "vol", Default: unit.FromFloat32(1)},
		{Name: "pan", Default: unit.FromFloat32(0)},
	},
	Constants: []unit.ConstantDesc{
		{Name: "CENTER", Value: PanCenter},
		{Name: "LEFT", Value: PanLeft},
		{Name: "RIGHT", Value: PanRight},
	},
	New: func() unit.Instance { return &panmixInstance{} },
}

type panmixInstance struct {
	vol, pan dsp.Ramper
	add      bool
	process  func(p *panmixInstance, in, out [][]float32, frames int)
}

func (p *panmixInstance) Initialize(ctx *unit.Context, ninputs, noutputs int, add bool) error {
	if err := PanmixClass.ValidateArity(ninputs, noutputs); err != nil {
		return err
	}
	p.vol.Init(1)
	p.pan.Init(0)
	p.add = add
	switch {
	case ninputs == 1 && noutputs == 1:
		p.process = process11
	case ninputs == 1 && noutputs == 2:
		p.process = process12
	case ninputs == 2 && noutputs == 1:
		p.process = process21
	default:
		p.process = process22
	}
	return nil
}

func (p *panmixInstance) Deinitialize() {}

func (p *panmixInstance) SetRegister(index int, value unit.Q16_16, rampFrames int32) {
	switch index {
	case 0:
		p.vol.Prepare(value.ToFloat32(), rampFrames)
	case 1:
		p.pan.Prepare(value.ToFloat32(), rampFrames)
	}
}

func (p *panmixInstance) Process(inputs, outputs [][]float32, frames int) {
	p.process(p, inputs, outputs, frames)
}

// panVols computes the left/right gain pair for one sample's vol/pan
// state, matching the original's v0=vol-vp, v1=vol+vp with vp=pan*vol,
// clamping both channels to 2*vol whenever either the current pan value
// or its ramp target has strayed outside [-1, 1].
func panVols(vol, pan, panTarget float32) (v0, v1 float32) {
	vp := pan * vol
	v0 = vol - vp
	v1 = vol + vp
	if abs32(pan) > 1 || abs32(panTarget) > 1 {
		lim := 2 * vol
		if v0 > lim {
			v0 = lim
		}
		if v1 > lim {
			v1 = lim
		}
	}
	return
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func accum(add bool, out []float32, i int, v float32) {
	if add {
		out[i] += v
	} else {
		out[i] = v
	}
}

func process11(p *panmixInstance, in, out [][]float32, frames int) {
	for i := 0; i < frames; i++ {
		vol := p.vol.Run()
		accum(p.add, out[0], i, in[0][i]*vol)
	}
}

func process12(p *panmixInstance, in, out [][]float32, frames int) {
	for i := 0; i < frames; i++ {
		vol := p.vol.Run()
		pan := p.pan.Run()
		v0, v1 := panVols(vol, pan, p.pan.Target)
		accum(p.add, out[0], i, in[0][i]*v0)
		accum(p.add, out[1], i, in[0][i]*v1)
	}
}

func process21(p *panmixInstance, in, out [][]float32, frames int) {
	for i := 0; i < frames; i++ {
		vol := p.vol.Run()
		accum(p.add, out[0], i, (in[0][i]+in[1][i])*0.5*vol)
	}
}

func process22(p *panmixInstance, in, out [][]float32, frames int) {
	for i := 0; i < frames; i++ {
		vol := p.vol.Run()
		pan := p.pan.Run()
		v0, v1 := panVols(vol, pan, p.pan.Target)
		accum(p.add, out[0], i, in[0][i]*v0)
		accum(p.add, out[1], i, in[1][i]*v1)
	}
}
