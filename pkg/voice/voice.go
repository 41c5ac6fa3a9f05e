// Package voice implements the voice tree: a parent/child hierarchy of
// playing notes, each running its own unit chain and byte-code VM, with
// buffers mixed down (or overwritten, per unit) into the parent's
// output bus.
package voice

import (
	"sync"

	"github.com/olofson/audiality2-sub001/pkg/a2err"
	"github.com/olofson/audiality2-sub001/pkg/unit"
	"github.com/olofson/audiality2-sub001/pkg/vm"
)

// UnitSlot is one unit instance wired into a voice's chain, along with
// the arity it was initialized with.
type UnitSlot struct {
	Class    *unit.Class
	Instance unit.Instance
	Inputs   int
	Outputs  int
	// Add reports whether this unit accumulates into the voice buffer
	// (PROCADD) instead of overwriting it; every unit after the first
	// in a chain accumulates, so multiple chains can share one voice.
	Add bool
}

// defaultSilenceWindow and defaultSilenceLevel bound the auto-stop
// heuristic: a voice whose output buffer has stayed below the silence
// level for the silence window's number of consecutive buffers is considered finished and is stopped to free its
// handle and VM state, matching the engine's PSILENCEWINDOW/
// PSILENCELEVEL properties.
const (
	defaultSilenceLevel  = float32(1.0 / 32768)
	defaultSilenceWindow = 4
)

// Voice is one node of the voice tree.
type Voice struct {
	Parent   *Voice
	Children []*Voice

	Channels int
	Chain    []UnitSlot
	VM       *vm.VM

	buf [][]float32

	silentBuffers int
	silenceLevel  float32
	silenceWindow int

	detached bool
	stopped  bool
}

// NewVoice creates a voice with the given channel count and buffer
// capacity (in frames), ready to have units appended to its Chain.
func NewVoice(channels, maxFrag int) *Voice {
	buf := make([][]float32, channels)
	for c := range buf {
		buf[c] = make([]float32, maxFrag)
	}
	return &Voice{
		Channels:      channels,
		buf:           buf,
		silenceLevel:  defaultSilenceLevel,
		silenceWindow: defaultSilenceWindow,
	}
}

// AddUnit appends a unit instance to the chain. The first unit in a
// chain always overwrites the voice buffer; every subsequent unit
// accumulates (PROCADD), so a chain behaves as a strict signal path but
// multiple independent chains feeding the same voice still sum
// correctly.
func (v *Voice) AddUnit(ctx *unit.Context, class *unit.Class, ninputs, noutputs int) (unit.Instance, error) {
	if err := class.ValidateArity(ninputs, noutputs); err != nil {
		return nil, err
	}
	if noutputs > v.Channels {
		return nil, a2err.Wrap(a2err.FewChannels, "%s needs %d channels, voice has %d", class.Name, noutputs, v.Channels)
	}
	add := len(v.Chain) > 0
	inst := class.New()
	if err := inst.Initialize(ctx, ninputs, noutputs, add); err != nil {
		return nil, a2err.Wrap(a2err.UnitInit, "%s: %v", class.Name, err)
	}
	v.Chain = append(v.Chain, UnitSlot{Class: class, Instance: inst, Inputs: ninputs, Outputs: noutputs, Add: add})
	return inst, nil
}

// AddChild attaches a new subvoice under v. It enforces no nesting
// depth limit of its own.
func (v *Voice) AddChild(child *Voice) {
	child.Parent = v
	v.Children = append(v.Children, child)
}

// RemoveChild detaches a fully-stopped child voice from the tree.
func (v *Voice) RemoveChild(child *Voice) {
	for i, c := range v.Children {
		if c == child {
			v.Children = append(v.Children[:i], v.Children[i+1:]...)
			return
		}
	}
}

// Detach marks the voice for teardown: from then on Stopped reports
// true, so the Manager's sweep removes a detached root voice and a
// parent stops mixing a detached child.
func (v *Voice) Detach() {
	v.detached = true
}

// Detached reports whether the voice has been detached.
func (v *Voice) Detached() bool {
	return v.detached
}

// Stopped reports whether the voice has been silent long enough to be
// reclaimed, or has been detached.
func (v *Voice) Stopped() bool {
	return v.stopped || v.detached
}

// Process runs the voice's unit chain for frames samples, then
// recursively mixes every child voice's output into its own buffer,
// and finally updates the silence-based auto-stop counter from its own
// (post-mix) buffer content.
func (v *Voice) Process(frames int) [][]float32 {
	for c := range v.buf {
		for i := 0; i < frames; i++ {
			v.buf[c][i] = 0
		}
	}
	for i := range v.Chain {
		slot := &v.Chain[i]
		ins := make([][]float32, slot.Inputs)
		for k := range ins {
			if k < len(v.buf) {
				ins[k] = v.buf[k]
			}
		}
		outs := make([][]float32, slot.Outputs)
		for k := range outs {
			if k < len(v.buf) {
				outs[k] = v.buf[k]
			}
		}
		slot.Instance.Process(ins, outs, frames)
	}
	for _, child := range v.Children {
		if child.detached {
			continue
		}
		childBuf := child.Process(frames)
		for c := 0; c < v.Channels && c < len(childBuf); c++ {
			for i := 0; i < frames; i++ {
				v.buf[c][i] += childBuf[c][i]
			}
		}
	}
	v.updateSilence(frames)
	return v.buf
}

func (v *Voice) updateSilence(frames int) {
	peak := float32(0)
	for c := range v.buf {
		for i := 0; i < frames; i++ {
			s := v.buf[c][i]
			if s < 0 {
				s = -s
			}
			if s > peak {
				peak = s
			}
		}
	}
	if peak < v.silenceLevel {
		v.silentBuffers++
	} else {
		v.silentBuffers = 0
	}
	if v.silentBuffers >= v.silenceWindow && len(v.Children) == 0 {
		v.stopped = true
	}
}

// SetSilenceParams overrides the auto-stop heuristic's threshold and
// window, matching the PSILENCELEVEL/PSILENCEWINDOW properties.
func (v *Voice) SetSilenceParams(level float32, window int) {
	v.silenceLevel = level
	v.silenceWindow = window
}

// Manager tracks every live voice so the engine can enumerate, count and
// sweep stopped voices each buffer. Its map is guarded by a RWMutex that
// both sides take: the API thread registers and looks up voices, and the
// engine's Process ranges over and sweeps them, so the audio thread can
// block on it while the API thread holds it.
type Manager struct {
	mu     sync.RWMutex
	voices map[int32]*Voice
	roots  []*Voice
}

// NewManager creates an empty voice Manager.
func NewManager() *Manager {
	return &Manager{voices: make(map[int32]*Voice)}
}

// Register adds a root voice under handle h.
func (m *Manager) Register(h int32, v *Voice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voices[h] = v
	m.roots = append(m.roots, v)
}

// Unregister removes a root voice by handle.
func (m *Manager) Unregister(h int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.voices[h]
	if !ok {
		return
	}
	delete(m.voices, h)
	for i, r := range m.roots {
		if r == v {
			m.roots = append(m.roots[:i], m.roots[i+1:]...)
			break
		}
	}
}

// Get looks up a root voice by handle.
func (m *Manager) Get(h int32) (*Voice, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.voices[h]
	return v, ok
}

// Count returns the number of currently registered root voices.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.roots)
}

// Range calls fn once for every currently registered root voice,
// handle alongside instance. fn must not register or unregister voices.
func (m *Manager) Range(fn func(h int32, v *Voice)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for h, v := range m.voices {
		fn(h, v)
	}
}

// SweepStopped removes every root voice that has auto-stopped, invoking
// onStop for each so the caller can release its handle.
func (m *Manager) SweepStopped(onStop func(h int32, v *Voice)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	remaining := m.roots[:0]
	for _, v := range m.roots {
		var h int32 = -1
		for hh, vv := range m.voices {
			if vv == v {
				h = hh
				break
			}
		}
		if v.Stopped() {
			if h >= 0 {
				delete(m.voices, h)
			}
			if onStop != nil {
				onStop(h, v)
			}
			continue
		}
		remaining = append(remaining, v)
	}
	m.roots = remaining
}
