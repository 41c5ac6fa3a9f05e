package a2

import (
	"context"

	"github.com/olofson/audiality2-sub001/pkg/a2err"
	"github.com/olofson/audiality2-sub001/pkg/a2log"
	"github.com/olofson/audiality2-sub001/pkg/driver"
	"github.com/olofson/audiality2-sub001/pkg/engine"
	"github.com/olofson/audiality2-sub001/pkg/handle"
	"github.com/olofson/audiality2-sub001/pkg/timestamp"
	"github.com/olofson/audiality2-sub001/pkg/unit"
	"github.com/olofson/audiality2-sub001/pkg/voice"
)

// typeVoice is the handle type code used for root voice handles, the
// only handle kind this façade allocates directly (unit chains are
// addressed through the voice they belong to rather than getting their
// own handles).
const typeVoice = 11 // matches A2_otypes' TVOICE position in the original engine

// State is one open engine instance plus the drivers it was opened
// with.
type State struct {
	Engine *engine.Engine
	Audio  driver.Audio
	MIDI   driver.MIDI
	Sys    driver.System

	cancel context.CancelFunc
}

// Open creates an engine per cfg, selecting drivers by name, and returns
// an Interface bound to it. The audio driver's Run loop is started only
// when cfg.Flags has FlagRealtime; otherwise the engine advances only
// when its Process is called, as the render functions do. The caller
// should call Interface.Release (or State.Close) when done.
func Open(cfg Config, log a2log.Logger) (*Interface, *State, error) {
	e := engine.New(cfg.Engine, log)
	e.Handles.RegisterType(typeVoice, func(data interface{}) handle.Disposition {
		return handle.DispositionOK
	})

	var audio driver.Audio
	switch cfg.AudioDriver {
	case "", "dummy":
		audio = driver.NewDummyAudioDriver()
	default:
		return nil, nil, a2err.Wrap(a2err.DriverNotFound, "audio driver %q", cfg.AudioDriver)
	}
	if err := audio.Open(cfg.Engine.SampleRate, cfg.Engine.Channels, cfg.Engine.BufferSize); err != nil {
		return nil, nil, a2err.Wrap(a2err.DeviceOpen, "%v", err)
	}

	var midi driver.MIDI
	switch cfg.MIDIDriver {
	case "", "null":
		midi = driver.NewNullMIDI()
	default:
		return nil, nil, a2err.Wrap(a2err.DriverNotFound, "midi driver %q", cfg.MIDIDriver)
	}

	ctx, cancel := context.WithCancel(context.Background())
	st := &State{Engine: e, Audio: audio, MIDI: midi, Sys: driver.NewDummySystem(), cancel: cancel}

	if cfg.Flags&FlagRealtime != 0 {
		go audio.Run(ctx, func(out [][]float32, frames int) {
			e.Process(out, frames)
		})
	}

	return newInterface(st), st, nil
}

// Close stops the audio driver and releases the engine's resources.
func (st *State) Close() {
	if st.cancel != nil {
		st.cancel()
	}
	st.Audio.Close()
	st.MIDI.Close()
	st.Sys.Close()
}

func (st *State) setNow(ts timestamp.T) {
	st.Engine.SetNow(ts)
}

func (st *State) newGroup() (int32, error) {
	v := voice.NewVoice(st.Engine.Config.Channels, st.Engine.Config.BufferSize)
	v.SetSilenceParams(st.Engine.Config.SilenceLevel, st.Engine.Config.SilenceWindow)
	h, err := st.Engine.Handles.New(typeVoice, v)
	if err != nil {
		return 0, err
	}
	st.Engine.Voices.Register(h, v)
	return h, nil
}

func (st *State) starta(h int32) error {
	if _, ok := st.Engine.Voices.Get(h); !ok {
		return a2err.New(a2err.InvalidHandle)
	}
	return nil
}

func (st *State) playa(h int32, pitch float32) error {
	v, ok := st.Engine.Voices.Get(h)
	if !ok {
		return a2err.New(a2err.InvalidHandle)
	}
	for i := range v.Chain {
		v.Chain[i].Instance.SetRegister(0, unit.FromFloat32(pitch), 0)
	}
	return nil
}

func (st *State) senda(h int32, regIndex int, value float32, rampFrames int32, when timestamp.T) error {
	return st.Engine.Queue.Push(engine.Command{
		When:   when,
		Target: h,
		Reg:    int32(regIndex),
		Value:  int32(unit.FromFloat32(value)),
		Ramp:   rampFrames,
		Kind:   kindSetReg,
	})
}

func (st *State) sendSuba(h int32, sub int32, regIndex int, value float32, rampFrames int32, when timestamp.T) error {
	v, ok := st.Engine.Voices.Get(h)
	if !ok {
		return a2err.New(a2err.InvalidHandle)
	}
	if int(sub) < 0 || int(sub) >= len(v.Children) {
		return a2err.New(a2err.BadVoice)
	}
	// Subvoices aren't individually handled and the engine's command
	// dispatch only resolves root handles, so the write is applied
	// synchronously to the child here rather than queued; `when` is
	// not used.
	child := v.Children[sub]
	if regIndex >= 0 && regIndex < len(child.Chain) {
		child.Chain[regIndex].Instance.SetRegister(0, unit.FromFloat32(value), rampFrames)
	}
	return nil
}

func (st *State) kill(h int32) error {
	v, ok := st.Engine.Voices.Get(h)
	if !ok {
		return a2err.New(a2err.InvalidHandle)
	}
	v.Detach()
	return nil
}

// killSub stops every subvoice of h, leaving h itself untouched.
// Detaching an already-empty child list is simply a no-op loop, making
// repeated calls safe.
func (st *State) killSub(h int32) error {
	v, ok := st.Engine.Voices.Get(h)
	if !ok {
		return a2err.New(a2err.InvalidHandle)
	}
	for _, c := range v.Children {
		c.Detach()
	}
	return nil
}
