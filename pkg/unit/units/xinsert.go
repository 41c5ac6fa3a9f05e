package units

import "github.com/olofson/audiality2-sub001/pkg/unit"

// TapFunc receives a read-only view of the frames samples an xinsert
// instance just passed through, one slice per channel. It must not
// retain the slices past the call, since the backing buffers are reused
// by the engine's buffer pool.
type TapFunc func(channels [][]float32, frames int)

// XInsertClass passes its input straight through to its output
// unmodified while also handing every processed block to an optional
// tap callback, giving a visualization or stream client ("xsink") a
// view into the middle of a voice's unit chain without altering the
// signal.
var XInsertClass = &unit.Class{
	Name:       "xinsert",
	MinInputs:  1,
	MaxInputs:  2,
	MinOutputs: 1,
	MaxOutputs: 2,
	New:        func() unit.Instance { return &xinsertInstance{} },
}

type xinsertInstance struct {
	tap      TapFunc
	add      bool
	channels int
}

// SetTap binds (or clears, with nil) the callback invoked on every
// processed block.
func (u *xinsertInstance) SetTap(tap TapFunc) {
	u.tap = tap
}

func (u *xinsertInstance) Initialize(ctx *unit.Context, ninputs, noutputs int, add bool) error {
	if err := XInsertClass.ValidateArity(ninputs, noutputs); err != nil {
		return err
	}
	u.add = add
	u.channels = noutputs
	return nil
}

func (u *xinsertInstance) Deinitialize() {
	u.tap = nil
}

func (u *xinsertInstance) SetRegister(index int, value unit.Q16_16, rampFrames int32) {}

func (u *xinsertInstance) Process(inputs, outputs [][]float32, frames int) {
	nch := len(inputs)
	if nch > u.channels {
		nch = u.channels
	}
	for c := 0; c < nch; c++ {
		in := inputs[c]
		out := outputs[c]
		for i := 0; i < frames; i++ {
			accum(u.add, out, i, in[i])
		}
	}
	if u.tap != nil {
		u.tap(outputs[:nch], frames)
	}
}
