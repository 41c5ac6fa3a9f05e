// Package driver defines the engine's backend contracts: System (realtime
// memory allocation), Audio (buffer exchange with the actual sound
// device) and MIDI (external control input). Only the dummy/null
// backends ship here; concrete hardware backends are a separate concern
// outside this package's scope, with one optional example (portaudio)
// behind a build tag.
package driver

import "context"

// Common holds the fields shared by every driver kind: a name for
// diagnostics and the set of option strings it was opened with.
type Common struct {
	Name string
	Opts []string
}

// System provides realtime-safe memory allocation for the audio thread.
// A real backend typically pre-allocates a pool at Open and serves
// RTAlloc from it; the dummy implementation here just wraps make(),
// which is NOT realtime-safe and exists purely so the rest of the
// engine has something to drive in tests.
type System interface {
	RTAlloc(size int) []byte
	RTFree(buf []byte)
	Close() error
}

// Audio exchanges interleaved or planar sample buffers with a sound
// device. Lock/Unlock bracket the window in which it is safe for the
// engine to touch the buffers Process returns; Run starts the
// background callback (or polling loop) driving Process.
type Audio interface {
	Open(sampleRate, channels, bufferSize int) error
	Lock()
	Unlock()
	// Buffers returns the driver's per-channel output buffers and their
	// length in frames; valid only while locked.
	Buffers() (out [][]float32, frames int)
	// Run starts the driver's processing loop, calling process for
	// each buffer until ctx is canceled or Close is called.
	Run(ctx context.Context, process func(out [][]float32, frames int)) error
	Close() error
}

// MIDI delivers external control events (note on/off, CC, pitch bend)
// into the engine.
type MIDI interface {
	Connect(port string) error
	// Poll returns any MIDI messages received since the last call,
	// each as a raw byte slice (status + data bytes).
	Poll() [][]byte
	Close() error
}
