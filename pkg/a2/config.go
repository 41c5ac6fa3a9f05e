// Package a2 is the public façade: it opens an engine bound to a set of
// drivers and hands back an Interface of closures mirroring the
// original engine's function-pointer-table API, plus helpers for
// rendering directly to a wave without any audio device at all.
package a2

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/olofson/audiality2-sub001/pkg/engine"
)

// InitFlags mirror the engine's A2_initflags bits, controlling how Open
// behaves.
type InitFlags uint32

const (
	FlagTimestamp InitFlags = 1 << iota // caller supplies explicit timestamps for every command
	FlagNoAutoConnect
	FlagRealtime
	FlagSilent
	FlagRTSilent
	FlagNoShared
	FlagSubState
	FlagAutoClose
)

// Config is the top-level configuration for Open, wrapping the engine's
// own Config plus driver selection.
type Config struct {
	Engine engine.Config
	Flags  InitFlags

	AudioDriver string // "dummy", "portaudio", ...
	MIDIDriver  string // "null", ...
}

// fileConfig is the on-disk YAML shape Config is (de)serialized to/from;
// kept distinct from Config so the public struct can gain Go-only
// fields without breaking the file format.
type fileConfig struct {
	SampleRate      int     `yaml:"sample_rate"`
	Channels        int     `yaml:"channels"`
	BufferSize      int     `yaml:"buffer_size"`
	TimestampMargin int32   `yaml:"timestamp_margin"`
	MaxVoices       int     `yaml:"max_voices"`
	MaxSubvoices    int     `yaml:"max_subvoices"`
	SilenceLevel    float32 `yaml:"silence_level"`
	SilenceWindow   int     `yaml:"silence_window"`
	RandSeed        uint32  `yaml:"rand_seed"`
	AudioDriver     string  `yaml:"audio_driver"`
	MIDIDriver      string  `yaml:"midi_driver"`
}

// LoadConfig reads a YAML config file and returns a Config seeded from
// engine.DefaultConfig with the file's values overlaid.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, err
	}
	cfg := Config{
		Engine:      engine.DefaultConfig(),
		AudioDriver: "dummy",
		MIDIDriver:  "null",
	}
	if fc.SampleRate != 0 {
		cfg.Engine.SampleRate = fc.SampleRate
	}
	if fc.Channels != 0 {
		cfg.Engine.Channels = fc.Channels
	}
	if fc.BufferSize != 0 {
		cfg.Engine.BufferSize = fc.BufferSize
	}
	if fc.TimestampMargin != 0 {
		cfg.Engine.TimestampMargin = fc.TimestampMargin
	}
	if fc.MaxVoices != 0 {
		cfg.Engine.MaxVoices = fc.MaxVoices
	}
	if fc.MaxSubvoices != 0 {
		cfg.Engine.MaxSubvoices = fc.MaxSubvoices
	}
	if fc.SilenceLevel != 0 {
		cfg.Engine.SilenceLevel = fc.SilenceLevel
	}
	if fc.SilenceWindow != 0 {
		cfg.Engine.SilenceWindow = fc.SilenceWindow
	}
	if fc.RandSeed != 0 {
		cfg.Engine.RandSeed = fc.RandSeed
	}
	if fc.AudioDriver != "" {
		cfg.AudioDriver = fc.AudioDriver
	}
	if fc.MIDIDriver != "" {
		cfg.MIDIDriver = fc.MIDIDriver
	}
	return cfg, nil
}

// DefaultConfig returns a Config with engine defaults and the dummy/
// null drivers selected.
func DefaultConfig() Config {
	return Config{
		Engine:      engine.DefaultConfig(),
		AudioDriver: "dummy",
		MIDIDriver:  "null",
	}
}
