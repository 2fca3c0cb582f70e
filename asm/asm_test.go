package asm_test

import (
	"strings"
	"testing"

	"github.com/tvmkit/tvm/asm"
)

func compile(t *testing.T, src string) []byte {
	t.Helper()
	c, err := asm.Compile("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return c.Bits()
}

func TestSimpleFixedOpcodes(t *testing.T) {
	cases := []struct {
		src  string
		want []byte
	}{
		{"NOP", []byte{0x00}},
		{"ADD", []byte{0xA0}},
		{"RET", []byte{0xDB, 0x30}},
		{"NEWC ENDC", []byte{0xC8, 0xC9}},
	}
	for _, c := range cases {
		got := compile(t, c.src)
		if string(got) != string(c.want) {
			t.Errorf("Compile(%q) = % x, want % x", c.src, got, c.want)
		}
	}
}

func TestPushIntEncodingChoice(t *testing.T) {
	cases := []struct {
		src  string
		want []byte
	}{
		{"PUSHINT 5", []byte{0x75 + 5}},
		{"PUSHINT -1", []byte{0x75 - 1}},
		{"PUSHINT 100", []byte{0x80, 100}},
		{"PUSHINT 1000", []byte{0x81, 0x03, 0xE8}},
	}
	for _, c := range cases {
		got := compile(t, c.src)
		if string(got) != string(c.want) {
			t.Errorf("Compile(%q) = % x, want % x", c.src, got, c.want)
		}
	}
}

func TestBareIntegerLiteralIsImplicitPushInt(t *testing.T) {
	got := compile(t, "5")
	want := []byte{0x75 + 5}
	if string(got) != string(want) {
		t.Errorf("Compile(\"5\") = % x, want % x", got, want)
	}
}

func TestXchgBacktracksOnTrailingNonRegisterToken(t *testing.T) {
	// "XCHG s3 100" greedily collects two params ("s3", 100); the
	// two-register handler rejects 100 as not a register, backtracks to
	// one param (swap s0,s3), and the leftover "100" is reprocessed as
	// a bare implicit PUSHINT.
	got := compile(t, "XCHG s3 100")
	want := []byte{0x03, 0x80, 100}
	if string(got) != string(want) {
		t.Errorf("Compile(\"XCHG s3 100\") = % x, want % x", got, want)
	}
}

func TestXchgTwoRegisterForm(t *testing.T) {
	got := compile(t, "XCHG s1, s2")
	want := []byte{0x10, 0x12}
	if string(got) != string(want) {
		t.Errorf("Compile(\"XCHG s1, s2\") = % x, want % x", got, want)
	}
}

func TestPushContNestedBlock(t *testing.T) {
	c, err := asm.Compile("test", strings.NewReader("PUSHCONT { ADD }"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if c.RefsCount() != 1 {
		t.Fatalf("RefsCount() = %d, want 1", c.RefsCount())
	}
	body, err := c.Reference(0)
	if err != nil {
		t.Fatal(err)
	}
	if string(body.Bits()) != string([]byte{0xA0}) {
		t.Errorf("block body = % x, want [a0]", body.Bits())
	}
}

func TestUnknownOperationReportsError(t *testing.T) {
	_, err := asm.Compile("test", strings.NewReader("FROBNICATE"))
	if err == nil {
		t.Fatal("expected an error for an unknown mnemonic")
	}
	asmErr, ok := err.(asm.ErrAsm)
	if !ok || len(asmErr) == 0 {
		t.Fatalf("expected a non-empty ErrAsm, got %T: %v", err, err)
	}
}

func TestAddConstOutOfRange(t *testing.T) {
	_, err := asm.Compile("test", strings.NewReader("ADDCONST 1000"))
	if err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestCellRolloverOnOversizedProgram(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 600; i++ {
		b.WriteString("ADD ")
	}
	c, err := asm.Compile("test", strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if c.RefsCount() == 0 {
		t.Fatal("expected the oversized program to roll over into a chained cell")
	}
}
