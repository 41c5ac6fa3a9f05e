// Package unit defines the DSP unit abstraction the engine wires voices
// together from: a Class descriptor (arity bounds, control registers,
// control outputs, constants) shared by every instance of a unit type,
// and an Instance that holds per-voice state.
//
// The voice calls Process through the Instance interface once per
// buffer. Nothing in the per-sample path performs a type switch or
// dispatch through the Class. panmix picks a Process variant by its
// (inputs, outputs) combination once, in Initialize; the other units
// keep their arity and accumulate flag in fields and branch on them
// inside Process.
package unit

import "github.com/olofson/audiality2-sub001/pkg/a2err"

// Q16_16 is the VM's 16.16 fixed-point register representation used for
// control register writes.
type Q16_16 int32

// ToFloat32 converts a 16.16 fixed-point value to float32.
func (q Q16_16) ToFloat32() float32 {
	return float32(q) / 65536
}

// FromFloat32 converts a float32 into a 16.16 fixed-point value.
func FromFloat32(v float32) Q16_16 {
	return Q16_16(v * 65536)
}

// Flags are per-class capability bits.
type Flags uint32

const (
	// FlagStereo marks a unit whose behavior depends on processing a
	// true stereo (not just dual-mono) signal, e.g. panmix and the
	// "smart" limiter.
	FlagStereo Flags = 1 << iota
)

// RegisterDesc describes one control register a unit instance exposes
// for VM writes (volume, pan, cutoff, ...).
type RegisterDesc struct {
	Name    string
	Default Q16_16
}

// ControlOutputDesc describes one control-rate output a unit instance
// can drive (used by env to report its current segment value upstream).
type ControlOutputDesc struct {
	Name string
}

// ConstantDesc is a named, class-wide integer constant exposed to
// scripts (e.g. panmix's CENTER/LEFT/RIGHT).
type ConstantDesc struct {
	Name  string
	Value int32
}

// Class is the shared, immutable descriptor for one kind of unit.
type Class struct {
	Name            string
	Flags           Flags
	MinInputs       int
	MaxInputs       int
	MinOutputs      int
	MaxOutputs      int
	Registers       []RegisterDesc
	ControlOutputs  []ControlOutputDesc
	Constants       []ConstantDesc
	New             func() Instance
}

// ControlOutputWriter lets a unit report a control-rate value upstream
// (env's segment-progress feedback).
type ControlOutputWriter func(index int, value Q16_16)

// Context carries the ambient configuration a unit needs at
// Initialize time: sample rate for filter/delay coefficient
// calculation, and the maximum fragment size for buffer sizing.
type Context struct {
	SampleRate int
	MaxFrag    int
	WriteCtrl  ControlOutputWriter
}

// Instance is one unit's per-voice state and processing entry point.
type Instance interface {
	// Initialize binds the instance to a concrete arity. add reports whether this instance must
	// accumulate into its outputs (PROCADD) rather than overwrite them.
	Initialize(ctx *Context, ninputs, noutputs int, add bool) error
	// Deinitialize releases any resources acquired in Initialize
	// (ring buffers, LUT references, ...).
	Deinitialize()
	// SetRegister writes a new value to the named control register,
	// by index into the Class's Registers slice.
	SetRegister(index int, value Q16_16, rampFrames int32)
	// Process runs frames samples of audio through the unit, reading
	// inputs (may be nil/empty if MinInputs==0) and writing outputs.
	Process(inputs, outputs [][]float32, frames int)
}

// ValidateArity checks that ninputs/noutputs fall within a Class's
// advertised bounds, returning a2err.IODontMatch otherwise.
func (c *Class) ValidateArity(ninputs, noutputs int) error {
	if ninputs < c.MinInputs || ninputs > c.MaxInputs {
		return a2err.Wrap(a2err.IODontMatch, "%s: %d inputs not in [%d,%d]", c.Name, ninputs, c.MinInputs, c.MaxInputs)
	}
	if noutputs < c.MinOutputs || noutputs > c.MaxOutputs {
		return a2err.Wrap(a2err.IODontMatch, "%s: %d outputs not in [%d,%d]", c.Name, noutputs, c.MinOutputs, c.MaxOutputs)
	}
	return nil
}

// RegisterIndex looks up a register by name, returning -1 if absent.
func (c *Class) RegisterIndex(name string) int {
	for i, r := range c.Registers {
		if r.Name == name {
			return i
		}
	}
	return -1
}
