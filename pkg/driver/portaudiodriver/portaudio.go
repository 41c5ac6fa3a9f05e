//go:build portaudio

// Package portaudiodriver is an optional Audio driver backed by
// gordonklaus/portaudio. It is gated behind the "portaudio" build tag
// because it links against the system PortAudio library, which isn't
// available in every build environment (CI, containers without audio
// hardware, ...).
package portaudiodriver

import (
	"context"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/olofson/audiality2-sub001/pkg/driver"
)

// Driver is a driver.Audio implementation using PortAudio's callback
// API for low-latency output.
type Driver struct {
	mu       sync.Mutex
	stream   *portaudio.Stream
	channels int
	frames   int
	buf      [][]float32
	process  func(out [][]float32, frames int)
}

// New creates an uninitialized PortAudio driver. Open must be called
// before Run.
func New() driver.Audio {
	return &Driver{}
}

func (d *Driver) Open(sampleRate, channels, bufferSize int) error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	d.channels = channels
	d.frames = bufferSize
	d.buf = make([][]float32, channels)
	for c := range d.buf {
		d.buf[c] = make([]float32, bufferSize)
	}
	interleaved := make([]float32, channels*bufferSize)
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), bufferSize, func(out []float32) {
		d.mu.Lock()
		if d.process != nil {
			d.process(d.buf, d.frames)
		}
		for i := 0; i < d.frames; i++ {
			for c := 0; c < d.channels; c++ {
				interleaved[i*d.channels+c] = d.buf[c][i]
			}
		}
		copy(out, interleaved)
		d.mu.Unlock()
	})
	if err != nil {
		return err
	}
	d.stream = stream
	return nil
}

func (d *Driver) Lock()   { d.mu.Lock() }
func (d *Driver) Unlock() { d.mu.Unlock() }

func (d *Driver) Buffers() ([][]float32, int) {
	return d.buf, d.frames
}

func (d *Driver) Run(ctx context.Context, process func(out [][]float32, frames int)) error {
	d.mu.Lock()
	d.process = process
	d.mu.Unlock()
	if err := d.stream.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return d.stream.Stop()
}

func (d *Driver) Close() error {
	if d.stream != nil {
		d.stream.Close()
	}
	return portaudio.Terminate()
}
