package units

import "github.com/olofson/audiality2-sub001/pkg/unit"

// DC ramp modes.
const (
	DCModeStep   = 0
	DCModeLinear = 1
)

// DCClass is a DC (constant) generator with two ramp modes: LINEAR
// glides smoothly to the new value like any other ramped register, STEP
// holds the old value, emits exactly one antialiasing transient sample
// at the midpoint of the ramp duration, then jumps to the new value.
// STEP exists because a true instantaneous step produces audible
// zipper noise when heard through downstream filtering; blending one
// sample softens the edge without smearing the transition the way a
// full LINEAR ramp would.
var DCClass = &unit.Class{
	Name:       "dc",
	MinInputs:  0,
	MaxInputs:  0,
	MinOutputs: 1,
	MaxOutputs: 2,
	Registers: []unit.RegisterDesc{
		{Name: "value", Default: 0},
		{Name: "mode", Default: unit.Q16_16(DCModeStep << 16)},
	},
	New: func() unit.Instance { return &dcInstance{mode: DCModeStep} },
}

type dcInstance struct {
	value    float32 // current output value
	target   float32
	mode     int
	timer    int32 // STEP mode: samples remaining until the switch point
	switchAt int32 // STEP mode: sample index (from timer's start) of the transient
	add      bool
	channels int
}

func (d *dcInstance) Initialize(ctx *unit.Context, ninputs, noutputs int, add bool) error {
	if err := DCClass.ValidateArity(ninputs, noutputs); err != nil {
		return err
	}
	d.add = add
	d.channels = noutputs
	return nil
}

func (d *dcInstance) Deinitialize() {}

func (d *dcInstance) SetRegister(index int, value unit.Q16_16, rampFrames int32) {
	switch index {
	case 0: // value
		d.target = value.ToFloat32()
		if d.mode == DCModeLinear {
			// LINEAR mode has no transient bookkeeping; Process just
			// interpolates value toward target directly.
			if rampFrames <= 0 {
				d.value = d.target
			}
			d.timer = rampFrames
		} else {
			if rampFrames <= 1 {
				d.value = d.target
				d.timer = 0
				return
			}
			// Transient lands at the midpoint of the ramp duration,
			// matching dc_Value's timer = (dur>>1) - start with
			// start==0 for a freshly issued command.
			d.switchAt = rampFrames >> 1
			d.timer = rampFrames
		}
	case 1: // mode
		d.mode = int(value.ToFloat32() + 0.5)
	}
}

func (d *dcInstance) Process(inputs, outputs [][]float32, frames int) {
	for i := 0; i < frames; i++ {
		var v float32
		if d.mode == DCModeLinear {
			v = d.linearStep()
		} else {
			v = d.stepStep()
		}
		for c := 0; c < d.channels; c++ {
			accum(d.add, outputs[c], i, v)
		}
	}
}

func (d *dcInstance) linearStep() float32 {
	if d.timer <= 0 {
		d.value = d.target
		return d.value
	}
	frac := float32(1) / float32(d.timer)
	d.value += (d.target - d.value) * frac
	d.timer--
	if d.timer == 0 {
		d.value = d.target
	}
	return d.value
}

func (d *dcInstance) stepStep() float32 {
	if d.timer <= 0 {
		return d.value
	}
	d.timer--
	if d.timer == d.switchAt {
		// One-sample antialiasing transient: blend old and new values
		// by how far through the ramp window we are.
		x := float32(d.switchAt) / 256
		if x > 1 {
			x = 1
		}
		blended := d.value*(1-x) + d.target*x
		d.value = d.target
		return blended
	}
	if d.timer < d.switchAt {
		return d.target
	}
	return d.value
}
