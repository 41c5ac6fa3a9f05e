// Package a2err defines the Audiality 2 error taxonomy.
//
// Every code here corresponds one-to-one with an entry of the original
// engine's A2_ALLERRORS table, grouped the same way: handle management,
// VM faults, I/O, graph construction, compiler diagnostics and
// compatibility. Handle-management codes are kept numerically first so
// they continue to line up with the handle package's own disposition
// values.
package a2err

import (
	"errors"
	"fmt"
)

// Code identifies a specific Audiality 2 error condition.
type Code int

const (
	OK Code = iota

	// Handle management (mirrors handle.Disposition where applicable).
	Refuse
	OutOfMemory
	OutOfHandles
	InvalidHandle
	FreeHandle
	DeadHandle

	// VM faults.
	End
	Overload
	IllegalOp
	LateMessage
	ManyArgs
	BufOverflow
	BufUnderflow
	DivByZero
	InfLoop
	Overflow
	Underflow
	ValueRange
	IndexRange
	OutOfRegs
	LargeFrame

	// I/O and device errors.
	NotImplemented
	Open
	NoDriver
	DriverNotFound
	DeviceOpen
	AlreadyOpen
	IsAssigned
	Read
	Write
	ReadOnly
	WriteOnly
	StreamClosed
	WrongType
	WrongFormat

	// Voice/unit graph construction.
	VoiceAlloc
	VoiceInit
	VoiceNest
	IODontMatch
	FewChannels
	UnitInit
	NotFound
	NoObject
	NoXInsert
	NoStreamClient
	NoReplace
	NotOutput
	NoUnits
	MultiInline
	ChainMismatch
	NoOutput
	BlindChain

	// Compiler/script diagnostics (out of scope for this core, kept for
	// API compatibility with the handle type that names TypeProgram).
	ExportDecl
	SymbolDef
	UndefSym
	MessageDef
	OnlyLocal
	DeclNoInit
	COutWired

	ExpEOS
	ExpStatement
	ExpClose
	ExpName
	ExpValue
	ExpValueHandle
	ExpInteger
	ExpString
	ExpStringOrName
	ExpVariable
	ExpCtrlRegister
	ExpLabel
	ExpProgram
	ExpFunction
	ExpUnit
	ExpBody
	ExpOp
	ExpBinOp
	ExpConstant
	ExpWaveType
	ExpExpression
	ExpVoiceEOS

	NExpEOF
	NExpName
	NExpValue
	NExpHandle
	NExpToken
	NExpElse
	NExpLabel
	NExpModifier
	NExpDecPoint

	BadFormat
	BadSampleRate
	BadBufSize
	BadChannels
	BadType
	BadBank
	BadWave
	BadProgram
	BadEntry
	BadVoice
	BadLabel
	BadValue
	BadJump
	BadOpcode
	BadRegister
	BadReg2
	BadImmArg
	BadVarDecl
	BadOctEscape
	BadDecEscape
	BadHexEscape
	BadIfNest
	BadElse
	BadLibVersion
	BadDelimiter

	CantExport
	CantInput
	CantOutput
	NoProgHere
	NoMsgHere
	NoFuncHere
	NotUnary
	NoCode
	NoTiming
	NoRun
	NoReturn
	NoExport
	NoWakeForce
	NoPort
	NoInput
	NoName

	Internal
)

var names = map[Code]string{
	OK:              "ok",
	Refuse:          "destruction refused",
	OutOfMemory:     "out of memory",
	OutOfHandles:    "out of handles",
	InvalidHandle:   "invalid handle",
	FreeHandle:      "handle already returned to the free pool",
	DeadHandle:      "released (not locked) handle used by API",
	End:             "VM program ended normally",
	Overload:        "VM overload; too many instructions back-to-back",
	IllegalOp:       "illegal VM opcode",
	LateMessage:     "API message arrived late to engine context",
	ManyArgs:        "too many arguments to VM program",
	BufOverflow:     "buffer overflow",
	BufUnderflow:    "buffer underflow",
	DivByZero:       "division by zero",
	InfLoop:         "jump would cause infinite loop",
	Overflow:        "value does not fit in numeric type",
	Underflow:       "value too small; would truncate to zero",
	ValueRange:      "value out of range",
	IndexRange:      "index out of range",
	OutOfRegs:       "out of VM registers",
	LargeFrame:      "function uses too many VM registers",
	NotImplemented:  "operation or feature not implemented",
	Open:            "error opening file",
	NoDriver:        "no driver of the required type available",
	DriverNotFound:  "specified driver not found",
	DeviceOpen:      "error opening device",
	AlreadyOpen:     "device is already open",
	IsAssigned:      "object is already assigned to this bank",
	Read:            "error reading file or stream",
	Write:           "error writing file or stream",
	ReadOnly:        "object is read-only",
	WriteOnly:       "object is write-only",
	StreamClosed:    "stream closed by the other party",
	WrongType:       "wrong type of data or object",
	WrongFormat:     "wrong stream data format",
	VoiceAlloc:      "could not allocate voice",
	VoiceInit:       "could not initialize voice",
	VoiceNest:       "subvoice nesting depth exceeded",
	IODontMatch:     "input and output counts don't match",
	FewChannels:     "voice has too few channels for unit",
	UnitInit:        "could not initialize unit instance",
	NotFound:        "object not found",
	NoObject:        "handle is not attached to an object",
	NoXInsert:       "no 'xinsert' unit found in voice structure",
	NoStreamClient:  "'xinsert' client not set up for streaming",
	NoReplace:       "unit does not implement replacing output mode",
	NotOutput:       "tried to wire inputs to voice output bus",
	NoUnits:         "voice has no units",
	MultiInline:     "voice cannot have multiple inline units",
	ChainMismatch:   "unit input count does not match chain",
	NoOutput:        "final unit must send to voice output",
	BlindChain:      "outputs wired to nothing, as there are no inputs downstream",
	BadLibVersion:   "linked A2 lib incompatible with application",
	Internal:        "internal error",
}

// String returns the human-readable description of the code, matching the
// original engine's A2_ALLERRORS message text where one exists.
func (c Code) String() string {
	if s, ok := names[c]; ok {
		return s
	}
	return "unknown error"
}

// Error wraps a Code as a Go error, optionally with additional context.
type Error struct {
	Code    Code
	Context string
}

func (e *Error) Error() string {
	if e.Context == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code.String(), e.Context)
}

// New creates an *Error for the given code with no extra context.
func New(c Code) error {
	if c == OK {
		return nil
	}
	return &Error{Code: c}
}

// Wrap creates an *Error for the given code with formatted context.
func Wrap(c Code, format string, args ...interface{}) error {
	return &Error{Code: c, Context: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the Code from err, if it is (or wraps) an *Error.
// Returns Internal if err is non-nil but not an *Error.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var ae *Error
	if !errors.As(err, &ae) {
		return Internal
	}
	return ae.Code
}
