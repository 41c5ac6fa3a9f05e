package units

import (
	"math"
	"sync"

	"github.com/olofson/audiality2-sub001/pkg/unit"
)

// Envelope shapes. SPLINE is a raised-cosine segment; EXP1..EXP7 are
// increasingly tapered exponential attack/decay curves; IEXP1..IEXP7
// are their time-inverted counterparts (slow start, fast finish,
// instead of the other way around).
const (
	ShapeSpline = iota
	ShapeExp1
	ShapeExp2
	ShapeExp3
	ShapeExp4
	ShapeExp5
	ShapeExp6
	ShapeExp7
	ShapeIExp1
	ShapeIExp2
	ShapeIExp3
	ShapeIExp4
	ShapeIExp5
	ShapeIExp6
	ShapeIExp7
	numShapes
)

const lutSize = 64
const numExpDegrees = 7

// expDegrees mirrors the original engine's per-curve taper exponents.
var expDegrees = [numExpDegrees]float64{1, 2, 3, 4, 6, 9, 13}

// lutSet is the process-wide table of precomputed envelope curves,
// shared by every env instance so the (fairly expensive) curve
// generation happens once no matter how many envelopes are active.
type lutSet struct {
	spline [lutSize]float32
	exp    [numExpDegrees][lutSize]float32
	iexp   [numExpDegrees][lutSize]float32
}

func buildLUTs() *lutSet {
	ls := &lutSet{}
	for i := 0; i < lutSize; i++ {
		t := float64(i) / float64(lutSize-1)
		ls.spline[i] = float32(0.5 - 0.5*math.Cos(t*math.Pi))
	}
	for d := 0; d < numExpDegrees; d++ {
		deg := expDegrees[d]
		c := math.Pow(0.1, deg)
		rc := 0.002 + 0.1*math.Pow(0.8, deg)
		for i := 0; i < lutSize; i++ {
			t := float64(i) / float64(lutSize-1)
			v := (1 - math.Pow(c, t)) / (1 - c)
			v = v*(1-rc) + t*rc
			ls.exp[d][i] = float32(v)
			ls.iexp[d][lutSize-1-i] = float32(1 - v)
		}
	}
	return ls
}

var (
	lutsMu  sync.Mutex
	lutsRef int
	luts    *lutSet
)

// acquireLUTs increments the process-wide LUT cache's refcount,
// building the tables on the first call and reusing them thereafter.
// This mirrors the original engine's own global, refcounted "lutsrc"
// table construction in OpenState/CloseState: sync.Once cannot be
// "re-armed" once fired, so a plain mutex-guarded counter stands in for
// it here, matching the open/close/reopen lifecycle exactly.
func acquireLUTs() *lutSet {
	lutsMu.Lock()
	defer lutsMu.Unlock()
	if luts == nil {
		luts = buildLUTs()
	}
	lutsRef++
	return luts
}

func releaseLUTs() {
	lutsMu.Lock()
	defer lutsMu.Unlock()
	lutsRef--
	if lutsRef <= 0 {
		luts = nil
		lutsRef = 0
	}
}

// EnvClass is a control-rate envelope generator: it has no audio
// inputs or outputs of its own, instead driving a control output that
// downstream units' registers can be wired from.
var EnvClass = &unit.Class{
	Name:       "env",
	MinInputs:  0,
	MaxInputs:  0,
	MinOutputs: 0,
	MaxOutputs: 0,
	Registers: []unit.RegisterDesc{
		{Name: "target", Default: 0},
		{Name: "time", Default: unit.FromFloat32(0.1)},
		{Name: "shape", Default: 0},
	},
	ControlOutputs: []unit.ControlOutputDesc{
		{Name: "out"},
	},
	New: func() unit.Instance { return &envInstance{} },
}

type envInstance struct {
	luts *lutSet

	current float32
	start   float32
	target  float32
	shape   int
	dur     int32
	pos     int32

	writeCtrl unit.ControlOutputWriter
}

func (e *envInstance) Initialize(ctx *unit.Context, ninputs, noutputs int, add bool) error {
	if err := EnvClass.ValidateArity(ninputs, noutputs); err != nil {
		return err
	}
	e.luts = acquireLUTs()
	e.writeCtrl = ctx.WriteCtrl
	return nil
}

func (e *envInstance) Deinitialize() {
	releaseLUTs()
	e.luts = nil
}

func (e *envInstance) SetRegister(index int, value unit.Q16_16, rampFrames int32) {
	switch index {
	case 0: // target
		e.start = e.current
		e.target = value.ToFloat32()
		e.pos = 0
		if rampFrames > 0 {
			e.dur = rampFrames
		}
	case 1: // time, in samples
		e.dur = int32(value.ToFloat32())
		if e.dur < 1 {
			e.dur = 1
		}
	case 2: // shape
		e.shape = int(value.ToFloat32() + 0.5)
		if e.shape < 0 || e.shape >= numShapes {
			e.shape = ShapeSpline
		}
	}
}

// lookup maps a normalized [0,1] segment position to a curve value
// via the shared LUT, linearly interpolating between adjacent table
// entries.
func (e *envInstance) lookup(t float32) float32 {
	var table *[lutSize]float32
	switch {
	case e.shape == ShapeSpline:
		table = &e.luts.spline
	case e.shape >= ShapeExp1 && e.shape <= ShapeExp7:
		table = &e.luts.exp[e.shape-ShapeExp1]
	default:
		table = &e.luts.iexp[e.shape-ShapeIExp1]
	}
	pos := t * float32(lutSize-1)
	i0 := int(pos)
	if i0 >= lutSize-1 {
		return table[lutSize-1]
	}
	frac := pos - float32(i0)
	return table[i0]*(1-frac) + table[i0+1]*frac
}

// Process advances the envelope by frames samples, writing its current
// value to the bound control output after each sample (env drives other
// units' registers at control rate, not audio rate, but is stepped here
// once per sample for simplicity and precision).
func (e *envInstance) Process(inputs, outputs [][]float32, frames int) {
	for i := 0; i < frames; i++ {
		if e.pos >= e.dur {
			e.current = e.target
		} else {
			t := float32(e.pos) / float32(e.dur)
			curve := e.lookup(t)
			e.current = e.start + (e.target-e.start)*curve
			e.pos++
		}
		if e.writeCtrl != nil {
			e.writeCtrl(0, unit.FromFloat32(e.current))
		}
	}
}
