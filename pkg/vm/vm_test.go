package vm

import (
	"testing"

	"github.com/olofson/audiality2-sub001/pkg/a2err"
)

func TestRunEndsProgram(t *testing.T) {
	v := New([]Instr{{Op: OpEnd}})
	wait, err := v.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if wait != 0 || !v.Halted() {
		t.Fatalf("expected halted program with wait=0, got wait=%d halted=%v", wait, v.Halted())
	}
}

func TestDelaySuspendsAndReturnsTicks(t *testing.T) {
	v := New([]Instr{
		{Op: OpDelay, A: 100},
		{Op: OpEnd},
	})
	wait, err := v.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if wait != 100 {
		t.Fatalf("wait = %d, want 100", wait)
	}
	if v.Halted() {
		t.Fatal("program should not be halted after a DELAY")
	}
	wait2, err := v.Run()
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if wait2 != 0 || !v.Halted() {
		t.Fatalf("expected program to finish after resume, wait=%d halted=%v", wait2, v.Halted())
	}
}

func TestArithmetic(t *testing.T) {
	v := New([]Instr{
		{Op: OpLoadImm, A: 0, B: int32(FromFloat32(2))},
		{Op: OpLoadImm, A: 1, B: int32(FromFloat32(3))},
		{Op: OpAdd, A: 2, B: 0, C: 1},
		{Op: OpEnd},
	})
	if _, err := v.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := v.Regs[2].ToFloat32(); got != 5 {
		t.Fatalf("2+3 = %v, want 5", got)
	}
}

func TestDivByZeroFaults(t *testing.T) {
	v := New([]Instr{
		{Op: OpLoadImm, A: 0, B: int32(FromFloat32(1))},
		{Op: OpLoadImm, A: 1, B: 0},
		{Op: OpDiv, A: 2, B: 0, C: 1},
	})
	if _, err := v.Run(); a2err.CodeOf(err) != a2err.DivByZero {
		t.Fatalf("expected DivByZero, got %v", err)
	}
}

func TestJumpToSelfIsInfiniteLoop(t *testing.T) {
	v := New([]Instr{
		{Op: OpJump, A: 0},
	})
	if _, err := v.Run(); a2err.CodeOf(err) != a2err.InfLoop {
		t.Fatalf("expected InfLoop, got %v", err)
	}
}

func TestIllegalOpcode(t *testing.T) {
	v := New([]Instr{
		{Op: Op(999)},
	})
	if _, err := v.Run(); a2err.CodeOf(err) != a2err.IllegalOp {
		t.Fatalf("expected IllegalOp, got %v", err)
	}
}

func TestCallReturn(t *testing.T) {
	v := New([]Instr{
		{Op: OpCall, A: 3},
		{Op: OpLoadImm, A: 0, B: int32(FromFloat32(9))}, // after return
		{Op: OpEnd},
		{Op: OpLoadImm, A: 1, B: int32(FromFloat32(1))}, // subroutine
		{Op: OpRet},
	})
	if _, err := v.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v.Regs[1].ToFloat32() != 1 || v.Regs[0].ToFloat32() != 9 {
		t.Fatalf("subroutine did not run in order: R0=%v R1=%v", v.Regs[0].ToFloat32(), v.Regs[1].ToFloat32())
	}
}

func TestSetRegCallback(t *testing.T) {
	var gotTarget, gotReg int32
	var gotVal Reg
	v := New([]Instr{
		{Op: OpLoadImm, A: 0, B: int32(FromFloat32(0.5))},
		{Op: OpSetReg, A: 7, B: 2, C: 0, D: 10},
		{Op: OpEnd},
	})
	v.SetReg = func(target, reg int32, value Reg, rampTicks int32) {
		gotTarget, gotReg, gotVal = target, reg, value
	}
	if _, err := v.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotTarget != 7 || gotReg != 2 || gotVal.ToFloat32() != 0.5 {
		t.Fatalf("SetReg callback got target=%d reg=%d val=%v", gotTarget, gotReg, gotVal.ToFloat32())
	}
}
