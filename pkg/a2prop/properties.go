// Package a2prop defines the property ID ranges objects expose through
// a uniform Get/Set surface, mirroring the engine's PGENERAL/PSTATE/
// PSTATISTICS property families.
package a2prop

import (
	"strconv"

	"github.com/olofson/audiality2-sub001/pkg/a2util"
)

// ID identifies a single property.
type ID int

// Property ranges, each offset from a distinct base so a single ID
// space can address any object's properties without collision.
const (
	baseGeneral    = 0x0000
	baseState      = 0x0100
	baseStatistics = 0x0200
)

// General properties (apply to most handle types).
const (
	PChannels ID = baseGeneral + iota
	PFlags
	PRefCount
	PSize
	PPosition
	PAvailable
	PSpace
)

// State properties (apply to an open engine context).
const (
	PSampleRate ID = baseState + iota
	PBuffer
	PTimestampMargin
	PTabSize
	POfflineBuffer
	PSilenceLevel
	PSilenceWindow
	PSilenceGrace
	PRandSeed
	PNoiseSeed
	PLogLevels
)

// Statistics properties (read-only, engine-wide counters).
const (
	PActiveVoices ID = baseStatistics + iota
	PActiveVoicesMax
	PFreeVoices
	PCPULoad
	PCPULoadMax
	PInstructions
	PCommandsSent
	PCommandsReceived
	PCommandsDropped
	PCommandsLate
)

// names backs String for diagnostics and property listing.
var names = map[ID]string{
	PChannels:  "channels",
	PFlags:     "flags",
	PRefCount:  "refcount",
	PSize:      "size",
	PPosition:  "position",
	PAvailable: "available",
	PSpace:     "space",

	PSampleRate:      "samplerate",
	PBuffer:          "buffer",
	PTimestampMargin: "timestampmargin",
	PTabSize:         "tabsize",
	POfflineBuffer:   "offlinebuffer",
	PSilenceLevel:    "silencelevel",
	PSilenceWindow:   "silencewindow",
	PSilenceGrace:    "silencegrace",
	PRandSeed:        "randseed",
	PNoiseSeed:       "noiseseed",
	PLogLevels:       "loglevels",

	PActiveVoices:     "activevoices",
	PActiveVoicesMax:  "activevoicesmax",
	PFreeVoices:       "freevoices",
	PCPULoad:          "cpuload",
	PCPULoadMax:       "cpuloadmax",
	PInstructions:     "instructions",
	PCommandsSent:     "commandssent",
	PCommandsReceived: "commandsreceived",
	PCommandsDropped:  "commandsdropped",
	PCommandsLate:     "commandslate",
}

func (id ID) String() string {
	if s, ok := names[id]; ok {
		return s
	}
	return "unknown"
}

// ReadOnly reports whether a property can only be read, never written
// (every Statistics property, plus a handful of General ones).
func (id ID) ReadOnly() bool {
	switch id {
	case PRefCount, PSize, PPosition, PAvailable, PSpace:
		return true
	}
	return id >= baseStatistics
}

// Getter is implemented by any object exposing a property surface.
type Getter interface {
	GetProperty(id ID) (int32, error)
}

// Setter is implemented by any object accepting property writes.
type Setter interface {
	SetProperty(id ID, value int32) error
}

// FormatValue renders a raw property value for display, picking units
// appropriate to the property: sample rates and tab sizes as Hz,
// silence level as dB (it is a linear peak threshold), everything else
// as a plain integer.
func FormatValue(id ID, raw int32) string {
	switch id {
	case PSampleRate, PTabSize:
		return a2util.FormatHz(float64(raw), 1)
	case PSilenceLevel:
		return a2util.FormatDb(float64(raw)/65536, 1)
	default:
		return strconv.Itoa(int(raw))
	}
}
