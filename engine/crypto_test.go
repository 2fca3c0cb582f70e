package engine_test

import "testing"

// These exercise engine/crypto.go's opcode dispatch (prefix 0xF9: HASHCU/
// HASHSU/CHKSIGNU/CHKSIGNS), using NEWC/STU/STI to build the 512-bit
// signature slices and 256-bit integers those opcodes require — the gap
// that motivated adding the STI/STU mnemonics in the first place.

func TestHashCuIsDeterministic(t *testing.T) {
	checkTop(t, run(t, "NEWC 7 STU 8 ENDC HASHCU NEWC 7 STU 8 ENDC HASHCU SUB"), 0)
}

func TestHashSuHashesRemainingBits(t *testing.T) {
	checkTop(t, run(t, "NEWC 7 STU 8 ENDC CTOS HASHSU NEWC 7 STU 8 ENDC CTOS HASHSU SUB"), 0)
}

func TestChkSignUOnZeroSignatureFails(t *testing.T) {
	// hash, a 512-bit zero signature slice, then pubkey: all zero. A
	// zero Ed25519 public key never validates, so CHKSIGNU must report
	// false (0) rather than erroring, proving the slice/int plumbing
	// reaches ed25519.Verify without panicking on malformed input.
	e := run(t, `
		0
		NEWC 0 STU 256 0 STU 256 ENDC CTOS
		0
		CHKSIGNU
	`)
	checkTop(t, e, 0)
}

func TestChkSignSOnZeroSignatureFails(t *testing.T) {
	e := run(t, `
		NEWC 0 STU 256 ENDC CTOS
		NEWC 0 STU 256 0 STU 256 ENDC CTOS
		0
		CHKSIGNS
	`)
	checkTop(t, e, 0)
}
