package vm

import "github.com/olofson/audiality2-sub001/pkg/a2err"

// MaxRegs bounds how many registers a single VM frame may address.
const MaxRegs = 32

// MaxCallDepth bounds CALL nesting, guarding against runaway recursion
// in a malformed program.
const MaxCallDepth = 16

// MaxInstrPerRun bounds how many instructions a single Run call may
// execute without hitting a DELAY/TICK/END, catching a program stuck in
// a zero-length loop instead of hanging the audio thread.
const MaxInstrPerRun = 100000

// SetRegFunc is invoked for OpSetReg: target identifies which unit
// instance to write to (voice-local index), reg is the register index
// within that unit's Class, value is the register value, and rampTicks
// is how many control ticks the change should ramp over.
type SetRegFunc func(target int32, reg int32, value Reg, rampTicks int32)

// SendFunc is invoked for OpSend: it enqueues an asynchronous message
// addressed to target, carrying value.
type SendFunc func(target int32, value Reg)

// KillFunc is invoked for OpKill, naming the voice (sub)tree to kill.
type KillFunc func(target int32)

// SpawnFunc is invoked for OpSpawn: it starts a new sub-voice running
// program entry point A into child slot B, returning an error if the
// voice tree has no room.
type SpawnFunc func(programEntry int32, slot int32) error

// VM is one voice's byte-code interpreter state: registers, program
// counter, call stack, and the callbacks wiring its instructions to the
// surrounding voice/unit graph.
type VM struct {
	Regs    [MaxRegs]Reg
	Program []Instr
	PC      int32

	callStack [MaxCallDepth]int32
	callDepth int

	SetReg SetRegFunc
	Send   SendFunc
	Kill   KillFunc
	Spawn  SpawnFunc

	halted bool
}

// New creates a VM bound to program, ready to run from entry point 0.
func New(program []Instr) *VM {
	return &VM{Program: program}
}

// Halted reports whether the program has reached OpEnd.
func (v *VM) Halted() bool {
	return v.halted
}

// Run executes instructions starting at the current PC until the
// program suspends on OpDelay/OpTick, halts on OpEnd, or faults. It
// returns the number of ticks (24.8) the caller should wait before
// calling Run again, or 0 if the program ended or a single control-rate
// tick boundary suspension (OpTick) was hit.
func (v *VM) Run() (waitTicks int32, err error) {
	if v.halted {
		return 0, a2err.New(a2err.End)
	}
	for steps := 0; ; steps++ {
		if steps >= MaxInstrPerRun {
			return 0, a2err.New(a2err.Overload)
		}
		if v.PC < 0 || int(v.PC) >= len(v.Program) {
			return 0, a2err.Wrap(a2err.BadJump, "pc=%d", v.PC)
		}
		ins := v.Program[v.PC]
		switch ins.Op {
		case OpNop:
			v.PC++
		case OpEnd:
			v.halted = true
			return 0, nil
		case OpDelay:
			v.PC++
			return ins.A, nil
		case OpTick:
			v.PC++
			return 0, nil
		case OpLoadImm:
			if err := v.checkReg(ins.A); err != nil {
				return 0, err
			}
			v.Regs[ins.A] = Reg(ins.B)
			v.PC++
		case OpMove:
			if err := v.checkReg(ins.A); err != nil {
				return 0, err
			}
			if err := v.checkReg(ins.B); err != nil {
				return 0, err
			}
			v.Regs[ins.A] = v.Regs[ins.B]
			v.PC++
		case OpAdd, OpSub, OpMul, OpDiv:
			if err := v.arith(ins); err != nil {
				return 0, err
			}
			v.PC++
		case OpJump:
			if ins.A == v.PC {
				return 0, a2err.New(a2err.InfLoop)
			}
			v.PC = ins.A
		case OpJZ:
			if err := v.checkReg(ins.B); err != nil {
				return 0, err
			}
			if v.Regs[ins.B] == 0 {
				v.PC = ins.A
			} else {
				v.PC++
			}
		case OpJNZ:
			if err := v.checkReg(ins.B); err != nil {
				return 0, err
			}
			if v.Regs[ins.B] != 0 {
				v.PC = ins.A
			} else {
				v.PC++
			}
		case OpCall:
			if v.callDepth >= MaxCallDepth {
				return 0, a2err.New(a2err.LargeFrame)
			}
			v.callStack[v.callDepth] = v.PC + 1
			v.callDepth++
			v.PC = ins.A
		case OpRet:
			if v.callDepth == 0 {
				v.halted = true
				return 0, nil
			}
			v.callDepth--
			v.PC = v.callStack[v.callDepth]
		case OpSetReg:
			if v.SetReg != nil {
				val := v.Regs[0]
				if err := v.checkReg(ins.C); err == nil {
					val = v.Regs[ins.C]
				}
				v.SetReg(ins.A, ins.B, val, ins.D)
			}
			v.PC++
		case OpSend:
			if v.Send != nil {
				v.Send(ins.A, v.Regs[ins.B])
			}
			v.PC++
		case OpKill:
			if v.Kill != nil {
				v.Kill(ins.A)
			}
			v.PC++
		case OpSpawn:
			if v.Spawn != nil {
				if err := v.Spawn(ins.A, ins.B); err != nil {
					return 0, err
				}
			}
			v.PC++
		default:
			return 0, a2err.Wrap(a2err.IllegalOp, "opcode %d at pc %d", ins.Op, v.PC)
		}
	}
}

func (v *VM) checkReg(r int32) error {
	if r < 0 || int(r) >= MaxRegs {
		return a2err.Wrap(a2err.OutOfRegs, "register %d", r)
	}
	return nil
}

func (v *VM) arith(ins Instr) error {
	if err := v.checkReg(ins.A); err != nil {
		return err
	}
	if err := v.checkReg(ins.B); err != nil {
		return err
	}
	if err := v.checkReg(ins.C); err != nil {
		return err
	}
	b, c := v.Regs[ins.B], v.Regs[ins.C]
	switch ins.Op {
	case OpAdd:
		v.Regs[ins.A] = b + c
	case OpSub:
		v.Regs[ins.A] = b - c
	case OpMul:
		v.Regs[ins.A] = Reg((int64(b) * int64(c)) >> 16)
	case OpDiv:
		if c == 0 {
			return a2err.New(a2err.DivByZero)
		}
		v.Regs[ins.A] = Reg((int64(b) << 16) / int64(c))
	}
	return nil
}
