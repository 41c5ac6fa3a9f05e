package units

import "github.com/olofson/audiality2-sub001/pkg/unit"

// LimiterClass is a peak-follower limiter: it tracks a decaying peak
// level and scales its output down whenever that peak exceeds
// threshold, leaving signal below threshold untouched. The stereo
// variant tracks a single "smart" peak shared by both channels so a
// loud transient in one channel pulls both channels down together,
// preserving the stereo image instead of limiting each channel
// independently.
var LimiterClass = &unit.Class{
	Name:       "limiter",
	Flags:      unit.FlagStereo,
	MinInputs:  1,
	MaxInputs:  2,
	MinOutputs: 1,
	MaxOutputs: 2,
	Registers: []unit.RegisterDesc{
		{Name: "release", Default: unit.FromFloat32(0.5)},
		{Name: "threshold", Default: unit.FromFloat32(1)},
	},
	New: func() unit.Instance { return &limiterInstance{threshold: 1} },
}

// minThreshold is the floor the threshold register is clamped to, so a
// script that accidentally sets threshold to zero doesn't divide by
// zero or produce an infinite gain.
const minThreshold = 0.001

type limiterInstance struct {
	peak       float32
	release    float32 // per-sample decay coefficient (rate/samplerate)
	threshold  float32
	sampleRate int
	add        bool
	channels   int
	stereo     bool
}

func (u *limiterInstance) Initialize(ctx *unit.Context, ninputs, noutputs int, add bool) error {
	if err := LimiterClass.ValidateArity(ninputs, noutputs); err != nil {
		return err
	}
	u.add = add
	u.channels = noutputs
	u.sampleRate = ctx.SampleRate
	u.stereo = ninputs == 2
	if u.threshold < minThreshold {
		u.threshold = minThreshold
	}
	return nil
}

func (u *limiterInstance) Deinitialize() {}

func (u *limiterInstance) SetRegister(index int, value unit.Q16_16, rampFrames int32) {
	switch index {
	case 0:
		u.release = value.ToFloat32() / float32(u.sampleRate)
	case 1:
		t := value.ToFloat32()
		if t < minThreshold {
			t = minThreshold
		}
		u.threshold = t
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func (u *limiterInstance) Process(inputs, outputs [][]float32, frames int) {
	if u.stereo {
		u.processStereo(inputs, outputs, frames)
		return
	}
	in := inputs[0]
	out := outputs[0]
	peak := u.peak
	for i := 0; i < frames; i++ {
		level := absf(in[i])
		if level > peak {
			peak = level
		} else {
			peak += (level - peak) * u.release
		}
		gain := float32(1)
		if peak > u.threshold {
			gain = u.threshold / peak
		}
		accum(u.add, out, i, in[i]*gain)
	}
	u.peak = peak
}

func (u *limiterInstance) processStereo(inputs, outputs [][]float32, frames int) {
	l, r := inputs[0], inputs[1]
	peak := u.peak
	for i := 0; i < frames; i++ {
		al, ar := absf(l[i]), absf(r[i])
		m := al
		if ar > m {
			m = ar
		}
		// "Smart" stereo peak: the larger of the two channel levels
		// plus half of how far it exceeds the channel difference, so
		// in-phase (center) content weighs more than a hard-panned or
		// anti-phase signal of the same level.
		level := m + 0.5*(m-absf(l[i]-r[i]))
		if level > peak {
			peak = level
		} else {
			peak += (level - peak) * u.release
		}
		gain := float32(1)
		if peak > u.threshold {
			gain = u.threshold / peak
		}
		accum(u.add, outputs[0], i, l[i]*gain)
		accum(u.add, outputs[1], i, r[i]*gain)
	}
	u.peak = peak
}
