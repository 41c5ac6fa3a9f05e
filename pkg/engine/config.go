// Package engine ties the handle registry, voice tree, command queue
// and unit pools together into the audio-thread processing loop: the
// part of the system that actually renders buffers.
package engine

// Config holds the engine's immutable-after-Open parameters. It is
// built with functional options, matching the teacher's Config pattern
// for plugin instantiation.
type Config struct {
	SampleRate    int
	Channels      int
	BufferSize    int
	TimestampMargin int32 // 24.8 ticks of scheduling slack absorbed by the command queue
	MaxVoices     int
	MaxSubvoices  int
	SilenceLevel  float32
	SilenceWindow int
	RandSeed      uint32
}

// Option configures a Config.
type Option func(*Config)

// WithSampleRate sets the engine's audio sample rate in Hz.
func WithSampleRate(hz int) Option {
	return func(c *Config) { c.SampleRate = hz }
}

// WithChannels sets the number of output channels.
func WithChannels(n int) Option {
	return func(c *Config) { c.Channels = n }
}

// WithBufferSize sets the number of frames processed per Process call.
func WithBufferSize(frames int) Option {
	return func(c *Config) { c.BufferSize = frames }
}

// WithTimestampMargin sets how much scheduling slack (in 24.8 ticks) the
// command queue absorbs before a message is considered late.
func WithTimestampMargin(ticks int32) Option {
	return func(c *Config) { c.TimestampMargin = ticks }
}

// WithMaxVoices sets the root voice pool's capacity.
func WithMaxVoices(n int) Option {
	return func(c *Config) { c.MaxVoices = n }
}

// WithMaxSubvoices sets the maximum nesting depth of subvoices under a
// single root voice.
func WithMaxSubvoices(n int) Option {
	return func(c *Config) { c.MaxSubvoices = n }
}

// WithSilence sets the auto-stop heuristic's level and window.
func WithSilence(level float32, window int) Option {
	return func(c *Config) { c.SilenceLevel = level; c.SilenceWindow = window }
}

// WithRandSeed sets Config.RandSeed. No generator in this module reads
// it: wtosc's noise source starts from the same fixed state on every
// Process call.
func WithRandSeed(seed uint32) Option {
	return func(c *Config) { c.RandSeed = seed }
}

// DefaultConfig returns a Config with the engine's baseline defaults,
// then applies opts on top.
func DefaultConfig(opts ...Option) Config {
	c := Config{
		SampleRate:      44100,
		Channels:        2,
		BufferSize:      1024,
		TimestampMargin: 1 << 8, // one tick's worth of fractional slack
		MaxVoices:       256,
		MaxSubvoices:    8,
		SilenceLevel:    1.0 / 32768,
		SilenceWindow:   4,
		RandSeed:        1,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
