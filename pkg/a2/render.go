package a2

import "github.com/olofson/audiality2-sub001/pkg/wave"

// RenderToWave runs st's engine offline for frames samples without any
// audio driver involved, capturing the mixed output into a mono wave.
// This is how a host bakes a voice's output to a sample for reuse
// (e.g. an expensive synth patch rendered once and replayed by a simple
// sampler instrument) and how the test suite exercises the engine
// end-to-end without a real audio backend.
func RenderToWave(st *State, frames int, looped bool) (*wave.Wave, error) {
	channels := st.Engine.Config.Channels
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}

	bufSize := st.Engine.Config.BufferSize
	remaining := frames
	offset := 0
	chunk := make([][]float32, channels)
	for c := range chunk {
		chunk[c] = make([]float32, bufSize)
	}
	for remaining > 0 {
		n := bufSize
		if n > remaining {
			n = remaining
		}
		st.Engine.Process(chunk, n)
		for c := 0; c < channels; c++ {
			copy(out[c][offset:offset+n], chunk[c][:n])
		}
		offset += n
		remaining -= n
	}

	// Mix down to mono for the captured wave; a stereo capture would
	// need a second wave.Wave sharing the same timeline, which callers
	// needing stereo can build directly from RenderBuffers instead.
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += out[c][i]
		}
		mono[i] = sum / float32(channels)
	}
	return wave.NewWave(mono, st.Engine.Config.SampleRate, looped), nil
}

// RenderBuffers is like RenderToWave but returns the raw per-channel
// buffers instead of collapsing them into a wave, for callers that want
// to write a multichannel file themselves.
func RenderBuffers(st *State, frames int) [][]float32 {
	channels := st.Engine.Config.Channels
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}
	bufSize := st.Engine.Config.BufferSize
	remaining := frames
	offset := 0
	chunk := make([][]float32, channels)
	for c := range chunk {
		chunk[c] = make([]float32, bufSize)
	}
	for remaining > 0 {
		n := bufSize
		if n > remaining {
			n = remaining
		}
		st.Engine.Process(chunk, n)
		for c := 0; c < channels; c++ {
			copy(out[c][offset:offset+n], chunk[c][:n])
		}
		offset += n
		remaining -= n
	}
	return out
}
