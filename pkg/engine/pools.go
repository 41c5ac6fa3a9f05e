package engine

import (
	"sync"
	"sync/atomic"

	"github.com/olofson/audiality2-sub001/pkg/voice"
)

// VoicePool recycles *voice.Voice instances so steady-state note-on/
// note-off traffic doesn't allocate on the audio thread. It tracks
// hit/miss/high-water-mark counters the same way the teacher's event
// pool does, so a deployment can tell whether its configured MaxVoices
// is actually large enough.
type VoicePool struct {
	pool sync.Pool

	channels int
	maxFrag  int

	hits      uint64
	misses    uint64
	allocated int64
	highWater int64
}

// NewVoicePool creates a pool that hands out voices with the given
// channel count and per-buffer frame capacity.
func NewVoicePool(channels, maxFrag int) *VoicePool {
	p := &VoicePool{channels: channels, maxFrag: maxFrag}
	p.pool.New = func() interface{} {
		atomic.AddUint64(&p.misses, 1)
		n := atomic.AddInt64(&p.allocated, 1)
		for {
			hw := atomic.LoadInt64(&p.highWater)
			if n <= hw || atomic.CompareAndSwapInt64(&p.highWater, hw, n) {
				break
			}
		}
		return voice.NewVoice(channels, maxFrag)
	}
	return p
}

// Get returns a voice from the pool, freshly constructed if none were
// available for reuse.
func (p *VoicePool) Get() *voice.Voice {
	misses := atomic.LoadUint64(&p.misses)
	v := p.pool.Get().(*voice.Voice)
	if atomic.LoadUint64(&p.misses) == misses {
		atomic.AddUint64(&p.hits, 1)
	}
	return v
}

// Put returns a voice to the pool once it has fully stopped and its
// chain has been torn down by the caller.
func (p *VoicePool) Put(v *voice.Voice) {
	p.pool.Put(v)
}

// Diagnostics reports the pool's hit/miss/high-water-mark counters.
type Diagnostics struct {
	Hits      uint64
	Misses    uint64
	Allocated int64
	HighWater int64
}

// Stats returns a snapshot of the pool's counters.
func (p *VoicePool) Stats() Diagnostics {
	return Diagnostics{
		Hits:      atomic.LoadUint64(&p.hits),
		Misses:    atomic.LoadUint64(&p.misses),
		Allocated: atomic.LoadInt64(&p.allocated),
		HighWater: atomic.LoadInt64(&p.highWater),
	}
}
