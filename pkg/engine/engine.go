package engine

import (
	"github.com/google/uuid"

	"github.com/olofson/audiality2-sub001/pkg/a2log"
	"github.com/olofson/audiality2-sub001/pkg/handle"
	"github.com/olofson/audiality2-sub001/pkg/timestamp"
	"github.com/olofson/audiality2-sub001/pkg/unit"
	"github.com/olofson/audiality2-sub001/pkg/voice"
)

// Command kinds.
const (
	KindSetReg = iota
	KindSend
	KindKill
)

// Engine is the audio-thread side of the system: it owns the voice
// tree, the handle registry's audio-thread-visible state, and the
// command queue commands arrive on. One Engine corresponds to one open
// audio context.
type Engine struct {
	ID     string
	Config Config
	Log    a2log.Logger

	Handles *handle.Manager
	Voices  *voice.Manager
	Queue   *CommandQueue
	pool    *VoicePool

	now timestamp.T

	unitCtx unit.Context
}

// New creates an Engine from cfg, wiring the handle registry, voice
// manager, command queue and voice pool together. The returned Engine's
// ID is a fresh UUID, suitable for correlating log lines across
// multiple concurrently open engines in one process.
func New(cfg Config, log a2log.Logger) *Engine {
	if log == nil {
		log = a2log.Nop{}
	}
	e := &Engine{
		ID:      uuid.NewString(),
		Config:  cfg,
		Log:     log,
		Handles: handle.New(),
		Voices:  voice.NewManager(),
		Queue:   NewCommandQueue(),
		pool:    NewVoicePool(cfg.Channels, cfg.BufferSize),
	}
	e.unitCtx = unit.Context{
		SampleRate: cfg.SampleRate,
		MaxFrag:    cfg.BufferSize,
	}
	return e
}

// UnitContext returns the Context new unit instances should be
// Initialize'd with.
func (e *Engine) UnitContext() *unit.Context {
	return &e.unitCtx
}

// Now returns the engine's current timestamp.
func (e *Engine) Now() timestamp.T {
	return e.now
}

// SetNow overrides the engine's clock, used by the API thread's
// timestamp control calls (TimestampSet/Bump/Nudge) to correct drift
// between its own clock and the audio thread's buffer-driven one.
func (e *Engine) SetNow(ts timestamp.T) {
	e.now = ts
}

// dispatch applies one command to the voice tree it targets. Unknown
// targets are silently ignored: a command can legitimately arrive after
// its target voice has already auto-stopped and been swept, and that is
// not an error condition.
func (e *Engine) dispatch(c Command, late bool) {
	if late {
		e.Log.Warning("late command for target %d (kind %d)", c.Target, c.Kind)
	}
	v, ok := e.Voices.Get(c.Target)
	if !ok {
		return
	}
	switch c.Kind {
	case KindSetReg:
		idx := int(c.Reg)
		if idx >= 0 && idx < len(v.Chain) {
			v.Chain[idx].Instance.SetRegister(0, unit.Q16_16(c.Value), c.Ramp)
		}
	case KindKill:
		v.Detach()
	}
}

// Process advances the engine by one buffer: it drains every command
// due at or before the current timestamp, runs the voice tree, mixes
// the result into out (which must have Config.Channels slices each at
// least Config.BufferSize long), sweeps any voices that have
// auto-stopped, and advances the engine clock by frames samples.
func (e *Engine) Process(out [][]float32, frames int) {
	e.Queue.PopReady(e.now, e.Config.TimestampMargin, e.dispatch)

	for c := range out {
		for i := 0; i < frames; i++ {
			out[c][i] = 0
		}
	}

	e.Voices.SweepStopped(func(h int32, v *voice.Voice) {
		if h >= 0 {
			e.Handles.Release(h)
		}
		for i := range v.Chain {
			v.Chain[i].Instance.Deinitialize()
		}
		v.Chain = nil
		e.pool.Put(v)
	})

	e.Voices.Range(func(h int32, v *voice.Voice) {
		buf := v.Process(frames)
		for c := 0; c < len(out) && c < len(buf); c++ {
			for i := 0; i < frames; i++ {
				out[c][i] += buf[c][i]
			}
		}
	})

	e.now = timestamp.Add(e.now, int32(frames)<<timestamp.FracBits)
}

// PoolStats reports the voice pool's reuse diagnostics.
func (e *Engine) PoolStats() Diagnostics {
	return e.pool.Stats()
}
