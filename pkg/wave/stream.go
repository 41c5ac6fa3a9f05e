package wave

import "github.com/olofson/audiality2-sub001/pkg/a2err"

// Stream supports building a wave incrementally, one block of samples at
// a time, for callers that render or capture audio live (e.g. an xsink
// tap feeding a visualization, or a wave being recorded from a live
// input) rather than uploading a complete buffer up front.
type Stream struct {
	sampleRate int
	looped     bool
	mipped     bool
	samples    []float32
	closed     bool
}

// NewStream begins a new incremental wave recording.
func NewStream(sampleRate int, looped, mipped bool) *Stream {
	return &Stream{sampleRate: sampleRate, looped: looped, mipped: mipped}
}

// Write appends a block of mono samples to the stream. It is an error
// to Write after Close.
func (s *Stream) Write(block []float32) error {
	if s.closed {
		return a2err.New(a2err.StreamClosed)
	}
	s.samples = append(s.samples, block...)
	return nil
}

// Len reports how many samples have been written so far.
func (s *Stream) Len() int {
	return len(s.samples)
}

// Close finalizes the stream into a Wave, building a mipmap chain if the
// stream was opened with mipped set. The stream may not be written to
// again afterward.
func (s *Stream) Close() (*Wave, error) {
	if s.closed {
		return nil, a2err.New(a2err.StreamClosed)
	}
	s.closed = true
	if len(s.samples) == 0 {
		return NewOff(), nil
	}
	if s.mipped {
		return NewMipWave(s.samples, s.sampleRate, s.looped), nil
	}
	return NewWave(s.samples, s.sampleRate, s.looped), nil
}
