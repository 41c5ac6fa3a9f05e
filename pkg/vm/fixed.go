// Package vm implements the per-voice byte-code interpreter: a small
// register machine whose programs drive unit control registers, wait
// for scheduled ticks, spawn and kill subvoices, and branch on
// conditions — the mechanism by which a compiled instrument script
// controls a voice's behavior over time.
package vm

import "github.com/olofson/audiality2-sub001/pkg/unit"

// Reg is a VM register value: 16.16 fixed point, matching the DSP unit
// register format the VM writes into (pkg/unit.Q16_16) so SETREG never
// needs a conversion.
type Reg = unit.Q16_16

// FromFloat32 is re-exported for callers that only import the vm
// package; ToFloat32 is available as a method on Reg.
func FromFloat32(v float32) Reg { return unit.FromFloat32(v) }
