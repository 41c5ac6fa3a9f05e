package driver

import (
	"context"
	"sync"
	"time"
)

// dummySystem is a System driver with no real realtime guarantees; it
// exists so the engine can be exercised without a platform memory
// allocator wired in.
type dummySystem struct{}

// NewDummySystem creates a System driver backed by the Go heap.
func NewDummySystem() System {
	return &dummySystem{}
}

func (d *dummySystem) RTAlloc(size int) []byte { return make([]byte, size) }
func (d *dummySystem) RTFree(buf []byte)       {}
func (d *dummySystem) Close() error            { return nil }

// dummyAudioDriver is an Audio driver that calls its process callback
// on a fixed-rate ticker instead of a real sound device, for testing and
// headless rendering.
//
// The original C engine's dummy/stream drivers had a latent bug: their
// Close functions took the address of their own *A2_driver parameter
// (effectively a **A2_driver) instead of the pointer itself, so the
// cast to the concrete driver type read through one extra level of
// indirection than intended. This port avoids the mistake entirely by
// holding the concrete *dummyAudioDriver receiver directly — there is no
// equivalent "driver handle" indirection to get wrong in Go.
type dummyAudioDriver struct {
	Common

	mu         sync.Mutex
	channels   int
	bufferSize int
	buf        [][]float32

	closed chan struct{}
}

// NewDummyAudioDriver creates an Audio driver with no real output.
func NewDummyAudioDriver() Audio {
	return &dummyAudioDriver{Common: Common{Name: "dummy"}, closed: make(chan struct{})}
}

func (d *dummyAudioDriver) Open(sampleRate, channels, bufferSize int) error {
	d.channels = channels
	d.bufferSize = bufferSize
	d.buf = make([][]float32, channels)
	for c := range d.buf {
		d.buf[c] = make([]float32, bufferSize)
	}
	return nil
}

func (d *dummyAudioDriver) Lock()   { d.mu.Lock() }
func (d *dummyAudioDriver) Unlock() { d.mu.Unlock() }

func (d *dummyAudioDriver) Buffers() ([][]float32, int) {
	return d.buf, d.bufferSize
}

func (d *dummyAudioDriver) Run(ctx context.Context, process func(out [][]float32, frames int)) error {
	interval := time.Duration(float64(d.bufferSize) / 44100 * float64(time.Second))
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-d.closed:
			return nil
		case <-ticker.C:
			d.Lock()
			process(d.buf, d.bufferSize)
			d.Unlock()
		}
	}
}

func (d *dummyAudioDriver) Close() error {
	select {
	case <-d.closed:
	default:
		close(d.closed)
	}
	d.Lock()
	for c := range d.buf {
		d.buf[c] = nil
	}
	d.buf = nil
	d.Unlock()
	return nil
}

// NullMIDI is a MIDI driver that never delivers any messages, used when
// an application needs the interface satisfied but has no MIDI input
// source.
type NullMIDI struct{}

// NewNullMIDI creates a no-op MIDI driver.
func NewNullMIDI() MIDI { return NullMIDI{} }

func (NullMIDI) Connect(port string) error { return nil }
func (NullMIDI) Poll() [][]byte            { return nil }
func (NullMIDI) Close() error              { return nil }
