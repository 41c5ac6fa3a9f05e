package units

import (
	"math"

	"github.com/olofson/audiality2-sub001/pkg/unit"
	"github.com/olofson/audiality2-sub001/pkg/wave"
)

// WTOscClass is the wavetable oscillator: it reads through a wave's
// mipmap chain at a phase rate derived from the "pitch" register,
// picking whichever mip level keeps the per-sample phase increment
// within the interpolator's supported range.
var WTOscClass = &unit.Class{
	Name:       "wtosc",
	MinInputs:  0,
	MaxInputs:  0,
	MinOutputs: 1,
	MaxOutputs: 2,
	Registers: []unit.RegisterDesc{
		{Name: "pitch", Default: unit.FromFloat32(0)}, // linear pitch, 1.0 octave per unit
		{Name: "amp", Default: unit.FromFloat32(1)},
	},
	New: func() unit.Instance { return &wtoscInstance{amp: 1} },
}

// SetWave binds a wtosc instance to a specific wave, matching how the
// voice graph wires oscillators up after construction (a wtosc has no
// wave of its own until told which one to play).
type wtoscWaveSetter interface {
	SetWave(w *wave.Wave)
}

type wtoscInstance struct {
	w          *wave.Wave
	phase      float64 // in level-0 sample units
	pitch      float32 // octaves relative to the wave's nominal rate
	amp        float32
	sampleRate int
	add        bool
	channels   int
}

func (o *wtoscInstance) Initialize(ctx *unit.Context, ninputs, noutputs int, add bool) error {
	if err := WTOscClass.ValidateArity(ninputs, noutputs); err != nil {
		return err
	}
	o.add = add
	o.channels = noutputs
	o.sampleRate = ctx.SampleRate
	return nil
}

func (o *wtoscInstance) Deinitialize() {}

func (o *wtoscInstance) SetWave(w *wave.Wave) {
	o.w = w
	o.phase = 0
}

func (o *wtoscInstance) SetRegister(index int, value unit.Q16_16, rampFrames int32) {
	switch index {
	case 0:
		o.pitch = value.ToFloat32()
	case 1:
		o.amp = value.ToFloat32()
	}
}

// phaseIncrement converts the pitch register (octaves, base rate == one
// wave period per wave.Period output samples) into a per-sample advance
// in level-0 sample units.
func (o *wtoscInstance) phaseIncrement() float64 {
	base := float64(wave.Period) / float64(wave.Period)
	return base * math.Exp2(float64(o.pitch))
}

func (o *wtoscInstance) Process(inputs, outputs [][]float32, frames int) {
	if o.w == nil || o.w.Type == wave.TypeOff {
		for c := 0; c < o.channels; c++ {
			for i := 0; i < frames; i++ {
				accum(o.add, outputs[c], i, 0)
			}
		}
		return
	}
	if o.w.Type == wave.TypeNoise {
		o.processNoise(outputs, frames)
		return
	}

	phinc := o.phaseIncrement()
	lvl := 0
	if o.w.Type == wave.TypeMipWave {
		lvl = o.w.MipLevelForPhaseIncrement(phinc)
	}
	level := o.w.Levels[lvl]
	// phase and phinc are expressed in level-0 units; the read position
	// in a downshifted mip level is halved per level.
	scale := float64(int64(1) << uint(lvl))
	size := float64(o.w.Levels[0].Size)

	for i := 0; i < frames; i++ {
		samp := o.interpolate(level, o.phase/scale)
		v := samp * o.amp
		for c := 0; c < o.channels; c++ {
			accum(o.add, outputs[c], i, v)
		}
		o.phase += phinc
		if o.w.Flags&wave.FlagLooped != 0 {
			for o.phase >= size {
				o.phase -= size
			}
		} else if o.phase >= size {
			o.phase = size // pin; post-padding supplies silence beyond this
		}
	}
}

// interpolate performs linear interpolation between the two samples
// bracketing a fractional phase position, reading through the wave's
// pre-padding region so the very first real sample still interpolates
// correctly against its predecessor.
func (o *wtoscInstance) interpolate(level wave.MipLevel, phase float64) float32 {
	ip := int(phase)
	frac := float32(phase - float64(ip))
	a := level.Data[wave.Pre+ip]
	b := level.Data[wave.Pre+ip+1]
	return a + (b-a)*frac
}

func (o *wtoscInstance) processNoise(outputs [][]float32, frames int) {
	var x uint32 = 1
	for i := 0; i < frames; i++ {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		v := (float32(x) / float32(math.MaxUint32))*2 - 1
		v *= o.amp
		for c := 0; c < o.channels; c++ {
			accum(o.add, outputs[c], i, v)
		}
	}
}
