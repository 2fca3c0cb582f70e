package engine_test

import (
	"context"
	"strings"
	"testing"

	"github.com/tvmkit/tvm/asm"
	"github.com/tvmkit/tvm/engine"
	"github.com/tvmkit/tvm/stack"
)

func run(t *testing.T, src string, opts ...engine.Option) *engine.Engine {
	t.Helper()
	code, err := asm.Compile("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	e := engine.New(code, opts...)
	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run(%q): %v", src, err)
	}
	return e
}

func checkTop(t *testing.T, e *engine.Engine, want int64) {
	t.Helper()
	if e.ExitCode() != 0 {
		t.Fatalf("ExitCode = %d, want 0", e.ExitCode())
	}
	v, err := e.Stack.Top()
	if err != nil {
		t.Fatalf("Stack.Top(): %v", err)
	}
	i, err := stack.AsInteger(v, "test")
	if err != nil {
		t.Fatalf("AsInteger: %v", err)
	}
	got, err := i.Int64()
	if err != nil {
		t.Fatalf("Int64(): %v", err)
	}
	if got != want {
		t.Errorf("top = %d, want %d", got, want)
	}
}

func TestAdd(t *testing.T) {
	checkTop(t, run(t, "5 7 ADD"), 12)
}

func TestSub(t *testing.T) {
	checkTop(t, run(t, "10 3 SUB"), 7)
}

func TestMul(t *testing.T) {
	checkTop(t, run(t, "6 7 MUL"), 42)
}

func TestAddConst(t *testing.T) {
	checkTop(t, run(t, "10 ADDCONST 5"), 15)
}

func TestPushDuplicatesStackEntry(t *testing.T) {
	checkTop(t, run(t, "1 2 3 PUSH s1"), 2)
}

func TestIfTakesTrueBranch(t *testing.T) {
	checkTop(t, run(t, "-1 PUSHCONT { 41 ADDCONST 1 } IF"), 42)
}

func TestIfSkipsFalseBranch(t *testing.T) {
	e := run(t, "0 PUSHCONT { 41 ADDCONST 1 } IF")
	if e.Stack.Depth() != 0 {
		t.Errorf("Depth = %d, want 0", e.Stack.Depth())
	}
}

func TestIfElsePicksBranchByFlag(t *testing.T) {
	checkTop(t, run(t, "PUSHCONT { 1 } PUSHCONT { 2 } -1 IFELSE"), 1)
	checkTop(t, run(t, "PUSHCONT { 1 } PUSHCONT { 2 } 0 IFELSE"), 2)
}

func TestRepeatAccumulates(t *testing.T) {
	checkTop(t, run(t, "0 PUSHCONT { ADDCONST 1 } 5 REPEAT"), 5)
}

func TestUntilRunsBodyOnceThenStopsOnTrueFlag(t *testing.T) {
	// the body always leaves a true (-1) flag, so UNTIL executes it
	// exactly once before exiting the loop.
	checkTop(t, run(t, "0 PUSHCONT { ADDCONST 1 -1 } UNTIL"), 1)
}

func TestThrowSetsExitCode(t *testing.T) {
	code, err := asm.Compile("test", strings.NewReader("THROW 42"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	e := engine.New(code)
	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.ExitCode() != 42 {
		t.Errorf("ExitCode = %d, want 42", e.ExitCode())
	}
}

func TestNewcStrefEndc(t *testing.T) {
	e := run(t, "NEWC NEWC ENDC STREF ENDC")
	if e.Stack.Depth() != 1 {
		t.Fatalf("Depth = %d, want 1", e.Stack.Depth())
	}
	v, err := e.Stack.Top()
	if err != nil {
		t.Fatalf("Stack.Top(): %v", err)
	}
	c, err := stack.AsCell(v, "test")
	if err != nil {
		t.Fatalf("AsCell: %v", err)
	}
	if c.RefsCount() != 1 {
		t.Errorf("RefsCount() = %d, want 1", c.RefsCount())
	}
}

func TestAcceptRaisesGasLimit(t *testing.T) {
	e := run(t, "ACCEPT", engine.WithGas(1000, 0, 1000000, 1))
	if e.ExitCode() != 0 {
		t.Fatalf("ExitCode = %d, want 0", e.ExitCode())
	}
	if e.Gas.Limit() != e.Gas.LimitMax() {
		t.Errorf("Limit() = %d, want LimitMax() = %d", e.Gas.Limit(), e.Gas.LimitMax())
	}
}

func TestBalanceReportsConfiguredValue(t *testing.T) {
	checkTop(t, run(t, "BALANCE", engine.WithBalance(777)), 777)
}
