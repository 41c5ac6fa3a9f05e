package a2

import (
	"github.com/olofson/audiality2-sub001/pkg/a2util"
	"github.com/olofson/audiality2-sub001/pkg/engine"
	"github.com/olofson/audiality2-sub001/pkg/timestamp"
)

// Interface is a table of closures bound to one open State, mirroring
// the original engine's function-pointer-table API: every operation an
// application performs after Open goes through one of these fields
// rather than a method on a concrete type, so a wrapper (a scripting
// language binding, a test double) can swap individual entries out.
type Interface struct {
	Release func()

	TimestampNow func() timestamp.T
	TimestampGet func() timestamp.T
	TimestampSet func(ts timestamp.T)

	MsToTimestamp func(ms float64) timestamp.T
	TimestampToMs func(ts timestamp.T) float64

	TimestampBump   func(minTicks int32)
	TimestampNudge  func(target timestamp.T, maxStep int32)

	// NewGroup creates a new root voice handle ready to receive unit
	// chain construction, returning its handle.
	NewGroup func() (int32, error)

	// Starta starts (plays with an indefinite lifetime) voice h.
	Starta func(h int32) error
	// Playa plays voice h with an associated note/pitch argument.
	Playa func(h int32, pitch float32) error
	// PlayNote is Playa addressed by MIDI note number instead of a raw
	// pitch register value, for hosts driving the engine from note-on
	// events rather than a score's native pitch units.
	PlayNote func(h int32, note int) error
	// Senda schedules a register write to voice h's unit at regIndex,
	// ramped over rampFrames, delivered at `when`.
	Senda func(h int32, regIndex int, value float32, rampFrames int32, when timestamp.T) error
	// SendSuba is Senda addressed at child index sub of voice h. The
	// write is applied immediately; `when` is not used.
	SendSuba func(h int32, sub int32, regIndex int, value float32, rampFrames int32, when timestamp.T) error

	// Kill stops voice h: it is detached, and the engine's next Process
	// sweeps it out and releases its handle before rendering.
	Kill func(h int32) error
	// KillSub stops every subvoice of h, leaving h itself running: the
	// children are detached and h no longer mixes them from the next
	// buffer on.
	// Idempotent: killing an already-empty subtree is a no-op, not an
	// error.
	KillSub func(h int32) error
}

// newInterface builds an Interface bound to st's engine.
func newInterface(st *State) *Interface {
	e := st.Engine
	return &Interface{
		Release: func() { st.Close() },

		TimestampNow: func() timestamp.T { return e.Now() },
		TimestampGet: func() timestamp.T { return e.Now() },
		TimestampSet: func(ts timestamp.T) { st.setNow(ts) },

		MsToTimestamp: func(ms float64) timestamp.T {
			return timestamp.FromSeconds(ms/1000, e.Config.SampleRate)
		},
		TimestampToMs: func(ts timestamp.T) float64 {
			return timestamp.ToSeconds(ts, e.Config.SampleRate) * 1000
		},

		TimestampBump: func(minTicks int32) { st.setNow(timestamp.Bump(e.Now(), minTicks)) },
		TimestampNudge: func(target timestamp.T, maxStep int32) {
			st.setNow(timestamp.Nudge(e.Now(), target, maxStep))
		},

		NewGroup: st.newGroup,
		Starta:   st.starta,
		Playa:    st.playa,
		PlayNote: func(h int32, note int) error {
			return st.playa(h, a2util.NoteToPitch(note))
		},
		Senda: st.senda,
		SendSuba: st.sendSuba,
		Kill:     st.kill,
		KillSub:  st.killSub,
	}
}

// command kinds reused from the engine package for Push calls.
const (
	kindSetReg = engine.KindSetReg
	kindKill   = engine.KindKill
)
