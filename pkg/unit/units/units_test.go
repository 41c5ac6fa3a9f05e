package units

import (
	"testing"

	"github.com/olofson/audiality2-sub001/pkg/unit"
)

func ctx() *unit.Context {
	return &unit.Context{SampleRate: 44100, MaxFrag: 64}
}

func TestWaveshaperIdentityAtZeroAmount(t *testing.T) {
	inst := WaveshaperClass.New()
	if err := inst.Initialize(ctx(), 1, 1, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	in := [][]float32{{0.1, -0.5, 0.9, 0}}
	out := [][]float32{make([]float32, 4)}
	inst.Process(in, out, 4)
	for i, v := range in[0] {
		if out[0][i] != v {
			t.Fatalf("sample %d: got %v, want identity %v", i, out[0][i], v)
		}
	}
}

func TestLimiterPassesSignalBelowThreshold(t *testing.T) {
	inst := LimiterClass.New().(*limiterInstance)
	if err := inst.Initialize(ctx(), 1, 1, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	inst.SetRegister(1, unit.FromFloat32(1), 0) // threshold=1
	inst.SetRegister(0, unit.FromFloat32(0.01), 0)
	in := [][]float32{{0.1, 0.2, 0.1}}
	out := [][]float32{make([]float32, 3)}
	inst.Process(in, out, 3)
	for i, v := range in[0] {
		if diff := out[0][i] - v; diff > 1e-5 || diff < -1e-5 {
			t.Fatalf("sample %d: got %v, want unattenuated %v (below threshold)", i, out[0][i], v)
		}
	}
}

func TestLimiterAttenuatesAboveThreshold(t *testing.T) {
	inst := LimiterClass.New().(*limiterInstance)
	if err := inst.Initialize(ctx(), 1, 1, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	inst.SetRegister(1, unit.FromFloat32(0.5), 0) // threshold=0.5
	in := [][]float32{{2.0}}
	out := [][]float32{make([]float32, 1)}
	inst.Process(in, out, 1)
	// peak jumps instantly to 2.0 on the first sample (attack is
	// immediate), so gain = threshold/peak = 0.25, output = 0.5.
	want := float32(0.5)
	if diff := out[0][0] - want; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("got %v, want %v", out[0][0], want)
	}
}

func TestDCStepEmitsSingleTransientThenHoldsTarget(t *testing.T) {
	inst := DCClass.New().(*dcInstance)
	if err := inst.Initialize(ctx(), 0, 1, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	inst.value = 0
	inst.SetRegister(0, unit.FromFloat32(1), 10) // ramp to 1.0 over 10 samples, STEP mode
	out := [][]float32{make([]float32, 12)}
	inst.Process(nil, out, 12)
	// Before the switch point, output should hold the old value (0);
	// the sample emitted as the timer reaches switchAt (index
	// switchAt-1) is the one-sample transient blend, so the check stops
	// before it.
	for i := 0; i < int(inst.switchAt)-1; i++ {
		if out[0][i] != 0 {
			t.Fatalf("sample %d before switch = %v, want 0", i, out[0][i])
		}
	}
	// After the switch, output should hold the new target (1).
	last := out[0][len(out[0])-1]
	if diff := last - 1; diff > 1e-5 || diff < -1e-5 {
		t.Fatalf("final sample = %v, want target 1.0", last)
	}
}

func TestDCLinearRampsSmoothly(t *testing.T) {
	inst := DCClass.New().(*dcInstance)
	if err := inst.Initialize(ctx(), 0, 1, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	inst.mode = DCModeLinear
	inst.SetRegister(0, unit.FromFloat32(1), 4)
	out := [][]float32{make([]float32, 4)}
	inst.Process(nil, out, 4)
	if diff := out[0][3] - 1; diff > 1e-5 || diff < -1e-5 {
		t.Fatalf("final linear sample = %v, want 1.0", out[0][3])
	}
	// Monotonically increasing toward the target.
	for i := 1; i < 4; i++ {
		if out[0][i] < out[0][i-1] {
			t.Fatalf("linear ramp not monotonic at sample %d: %v < %v", i, out[0][i], out[0][i-1])
		}
	}
}

func TestPanmixCenterPanEqualizesChannels(t *testing.T) {
	inst := PanmixClass.New().(*panmixInstance)
	if err := inst.Initialize(ctx(), 1, 2, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	inst.vol.Init(1)
	inst.pan.Init(0)
	in := [][]float32{{1, 1, 1}}
	out := [][]float32{make([]float32, 3), make([]float32, 3)}
	inst.Process(in, out, 3)
	for i := range out[0] {
		if out[0][i] != out[1][i] {
			t.Fatalf("sample %d: L=%v R=%v, want equal at center pan", i, out[0][i], out[1][i])
		}
	}
}

func TestEnvReachesTargetAtDurationEnd(t *testing.T) {
	inst := EnvClass.New().(*envInstance)
	c := ctx()
	var got float32
	c.WriteCtrl = func(index int, v unit.Q16_16) { got = v.ToFloat32() }
	if err := inst.Initialize(c, 0, 0, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	inst.SetRegister(1, unit.FromFloat32(8), 0) // time=8 samples
	inst.SetRegister(0, unit.FromFloat32(1), 8) // target=1
	// One extra sample past the duration so the segment has actually
	// completed (pos reaches dur) rather than stopping mid-curve.
	inst.Process(nil, nil, 9)
	if diff := got - 1; diff > 1e-3 || diff < -1e-3 {
		t.Fatalf("final envelope output = %v, want ~1.0", got)
	}
	inst.Deinitialize()
}

func TestXInsertPassesThroughAndTaps(t *testing.T) {
	inst := XInsertClass.New().(*xinsertInstance)
	if err := inst.Initialize(ctx(), 1, 1, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	var tapped []float32
	inst.SetTap(func(channels [][]float32, frames int) {
		tapped = append([]float32(nil), channels[0][:frames]...)
	})
	in := [][]float32{{1, 2, 3}}
	out := [][]float32{make([]float32, 3)}
	inst.Process(in, out, 3)
	for i, v := range in[0] {
		if out[0][i] != v {
			t.Fatalf("passthrough sample %d = %v, want %v", i, out[0][i], v)
		}
		if tapped[i] != v {
			t.Fatalf("tapped sample %d = %v, want %v", i, tapped[i], v)
		}
	}
}
