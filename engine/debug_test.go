package engine_test

import (
	"bytes"
	"testing"

	"github.com/tvmkit/tvm/engine"
)

// These exercise engine/debug.go's opcode dispatch (prefix 0xFE:
// DEBUGON/DEBUGOFF/DUMPSTK/STRDUMP/PRINTSTR), checking both that output
// only appears once debugging is switched on and that DEBUGOFF actually
// silences it again — the bug the sibling original_source implementation
// has (DEBUGOFF also enabling debug output) that this engine deliberately
// does not reproduce.

func TestDumpStkIsSilentUntilDebugOn(t *testing.T) {
	var buf bytes.Buffer
	run(t, "5 DUMPSTK DEBUGON 7 DUMPSTK", engine.WithDebugWriter(&buf))
	want := "7\n5\n2\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestDebugOffSilencesFurtherOutput(t *testing.T) {
	var buf bytes.Buffer
	run(t, "DEBUGON 1 DUMPSTK DEBUGOFF 2 DUMPSTK", engine.WithDebugWriter(&buf))
	want := "1\n1\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWithDebugEnabledStartsOn(t *testing.T) {
	var buf bytes.Buffer
	run(t, "42 STRDUMP", engine.WithDebugWriter(&buf), engine.WithDebugEnabled(true))
	if got := buf.String(); got != "42\n" {
		t.Errorf("output = %q, want %q", got, "42\n")
	}
}

func TestPrintStrOmitsTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	run(t, "9 PRINTSTR", engine.WithDebugWriter(&buf), engine.WithDebugEnabled(true))
	if got := buf.String(); got != "9" {
		t.Errorf("output = %q, want %q", got, "9")
	}
}
