package engine_test

import "testing"

// These exercise engine/dictionary.go's opcode dispatch (DICTSET/DICTGET/
// DICTMIN/DICTDEL wired to dispatchTable[0xFA]), distinct from
// dict/hashmap_test.go which only tests the underlying HashmapE algorithm.
// Every key here is 0 bits wide (an empty slice key) — enough to prove the
// opcode wiring pops its operands in the right order and drives
// dict.Dictionary correctly without also re-testing STI/STU-built keys,
// which engine/crypto_test.go already exercises for slice construction.

func TestDictSetThenGetFindsValue(t *testing.T) {
	e := run(t, `
		NEWC ENDC
		NEWC ENDC CTOS
		PUSHNULL
		0
		DICTSET
		NEWC ENDC CTOS
		PUSH s1
		0
		DICTGET
	`)
	checkTop(t, e, -1)
}

func TestDictGetOnNullDictReportsNotFound(t *testing.T) {
	e := run(t, `
		NEWC ENDC CTOS
		PUSHNULL
		0
		DICTGET
	`)
	checkTop(t, e, 0)
}

func TestDictMinOnNullDictReportsNotFound(t *testing.T) {
	e := run(t, "PUSHNULL 0 DICTMIN")
	checkTop(t, e, 0)
}

func TestDictDelOnNullDictReportsNotFound(t *testing.T) {
	e := run(t, `
		NEWC ENDC CTOS
		PUSHNULL
		0
		DICTDEL
	`)
	checkTop(t, e, 0)
}
