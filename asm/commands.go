package asm

import (
	"math/big"

	"github.com/tvmkit/tvm/serial"
)

// command is one registered mnemonic: how many parameter tokens to
// greedily collect at most, and how to turn whatever subset survives
// backtracking into bits/refs on a Writer. Grounded on
// original_source/src/assembler/mod.rs's CommandContext, where every
// mnemonic carries the same pair (a declared arity ceiling and a
// compile closure); the teacher's asm/parser.go has no analogue since
// Ngaro's instruction set is fixed-arity, but the table-of-structs
// shape mirrors the teacher's own opcodes/opcodeIndex tables.
type command struct {
	name      string
	maxParams int
	compile   func(w *Writer, params []param) error
}

// registry maps mnemonic text to its command, built once at package
// init the way the teacher's init() builds opcodeIndex from opcodes.
var registry = map[string]*command{}

func register(c *command) {
	registry[c.name] = c
}

func init() {
	addSimpleCommands()
	addComplexCommands()
	addExtendedCommands()
	addControlFlowCommands()
}

// registerFixed registers a zero-parameter mnemonic that compiles to a
// literal opcode byte sequence, the shared body behind the blockchain,
// crypto, dictionary and debug families below (spec.md's "F8..FB
// blockchain primitives ... FE <op> debug and dump family" and the
// FA/F9 families this module assigns for dictionary and crypto ops,
// since spec.md gives those as illustrative rather than exhaustive).
func registerFixed(name string, op ...byte) {
	register(&command{name: name, maxParams: 0, compile: func(w *Writer, params []param) error {
		if len(params) > 0 {
			return errTooManyParameters(name)
		}
		return writeBytes(w, name, op)
	}})
}

// addExtendedCommands registers the blockchain/crypto/dictionary/debug
// mnemonics that exercise engine/gasops.go, engine/crypto.go,
// engine/dictionary.go and engine/debug.go end to end. Two-byte forms
// follow the same "family tag then sub-op" shape spec.md already uses
// for THROW (F2 <kind> <n>) and dictionary family (F4 <op>).
func addExtendedCommands() {
	blockchain := []struct {
		name string
		sub  byte
	}{
		{"ACCEPT", 0x00}, {"SETGASLIMIT", 0x01}, {"BUYGAS", 0x02}, {"NOW", 0x03},
		{"GRAMTOGAS", 0x04}, {"GASTOGRAM", 0x05}, {"RAND", 0x06}, {"SENDRAWMSG", 0x07},
		{"BALANCE", 0x08}, {"SETCODE", 0x09}, {"RESERVE", 0x0A}, {"CHANGELIB", 0x0B},
		{"CONFIGDICT", 0x0C}, {"COMMIT", 0x0F},
	}
	for _, b := range blockchain {
		registerFixed(b.name, 0xF8, b.sub)
	}

	crypto := []struct {
		name string
		sub  byte
	}{
		{"HASHCU", 0x00}, {"HASHSU", 0x01}, {"CHKSIGNU", 0x02}, {"CHKSIGNS", 0x03},
	}
	for _, c := range crypto {
		registerFixed(c.name, 0xF9, c.sub)
	}

	dictionary := []struct {
		name string
		sub  byte
	}{
		{"DICTGET", 0x00}, {"DICTSET", 0x01}, {"DICTDEL", 0x02},
		{"DICTMIN", 0x03}, {"DICTMAX", 0x04}, {"DICTNEXT", 0x05},
	}
	for _, d := range dictionary {
		registerFixed(d.name, 0xFA, d.sub)
	}

	debug := []struct {
		name string
		sub  byte
	}{
		{"DEBUGON", 0x00}, {"DEBUGOFF", 0x01}, {"DUMPSTK", 0x02}, {"STRDUMP", 0x03}, {"PRINTSTR", 0x04},
	}
	for _, d := range debug {
		registerFixed(d.name, 0xFE, d.sub)
	}
}

// addControlFlowCommands registers the continuation-transfer and
// loop-helper mnemonics beyond the fixed RET/RETALT/IF family: all of
// them pop their continuation (and, for REPEAT/WHILE, an extra operand)
// off the data stack rather than taking an immediate, matching the
// original implementation's CALLX/JMPX/AGAIN/UNTIL/WHILE/REPEAT/TRY
// opcodes (original_source/src/executor/continuation.rs).
func addControlFlowCommands() {
	registerFixed("CALLX", 0xD8)
	registerFixed("JMPX", 0xD9)
	registerFixed("CALLCC", 0xDA)
	registerFixed("AGAIN", 0xE4)
	registerFixed("UNTIL", 0xE5)
	registerFixed("WHILE", 0xE6)
	registerFixed("REPEAT", 0xE7)
	registerFixed("TRY", 0xF1)
}

// regIndex reports whether p is an identifier of the form <prefix><digits>
// (e.g. "s3", "c2") and returns the parsed digits.
func regIndex(p param, prefix byte) (int, bool) {
	if p.kind != paramIdent || len(p.text) < 2 || p.text[0] != prefix {
		return 0, false
	}
	n, ok := parseIntLiteral(p.text[1:])
	if !ok || n < 0 || n > 15 {
		return 0, false
	}
	return int(n), true
}

func intParam(p param) (int64, bool) {
	if p.kind != paramInt {
		return 0, false
	}
	return p.i, true
}

// addSimpleCommands registers every fixed-shape mnemonic: those whose
// encoding is a literal opcode byte sequence plus, at most, one or two
// immediate fields of fixed width. Grounded on spec.md's bytecode table
// (the "## Bytecode (wire format)" section) and on the teacher's
// opcodes table of {name, immediate-width, byte value} triples
// (asm/asm.go's old opcodes var, before it was replaced wholesale).
func addSimpleCommands() {
	fixed := []struct {
		name string
		op   []byte
	}{
		{"NOP", []byte{0x00}},
		{"ADD", []byte{0xA0}},
		{"SUB", []byte{0xA1}},
		{"MUL", []byte{0xA8}},
		{"PUSHNULL", []byte{0x6D}},
		{"NEWC", []byte{0xC8}},
		{"ENDC", []byte{0xC9}},
		{"STREF", []byte{0xCC}},
		{"CTOS", []byte{0xD0}},
		{"ENDS", []byte{0xD1}},
		{"LDREF", []byte{0xD4}},
		{"RET", []byte{0xDB, 0x30}},
		{"RETALT", []byte{0xDB, 0x31}},
		{"IF", []byte{0xDE}},
		{"IFJMP", []byte{0xE0}},
		{"IFELSE", []byte{0xE2}},
	}
	for _, f := range fixed {
		f := f
		register(&command{name: f.name, maxParams: 0, compile: func(w *Writer, params []param) error {
			if len(params) > 0 {
				return errTooManyParameters(f.name)
			}
			return writeBytes(w, f.name, f.op)
		}})
	}

	// ADDCONST xx: signed 8-bit immediate.
	register(&command{name: "ADDCONST", maxParams: 1, compile: func(w *Writer, params []param) error {
		if len(params) != 1 {
			return errMissingRequiredParameters("ADDCONST")
		}
		n, ok := intParam(params[0])
		if !ok {
			return errParameter("ADDCONST", "n", ParamUnexpectedType)
		}
		if n < -128 || n > 127 {
			return errParameter("ADDCONST", "n", ParamOutOfRange)
		}
		if err := writeBytes(w, "ADDCONST", []byte{0xA6}); err != nil {
			return err
		}
		return w.WriteUint("ADDCONST", uint64(uint8(n)), 8)
	}})

	// LSHIFT/RSHIFT: bare mnemonic uses the stack operand form (AC/AD),
	// one immediate parameter selects the immediate form (AA/AB).
	shifts := []struct {
		name   string
		immOp  byte
		stkOp  byte
	}{
		{"LSHIFT", 0xAA, 0xAC},
		{"RSHIFT", 0xAB, 0xAD},
	}
	for _, s := range shifts {
		s := s
		register(&command{name: s.name, maxParams: 1, compile: func(w *Writer, params []param) error {
			switch len(params) {
			case 0:
				return writeBytes(w, s.name, []byte{s.stkOp})
			case 1:
				n, ok := intParam(params[0])
				if !ok {
					return errParameter(s.name, "n", ParamUnexpectedType)
				}
				if n < 1 || n > 256 {
					return errParameter(s.name, "n", ParamOutOfRange)
				}
				if err := writeBytes(w, s.name, []byte{s.immOp}); err != nil {
					return err
				}
				return w.WriteUint(s.name, uint64(n-1), 8)
			default:
				return errTooManyParameters(s.name)
			}
		}})
	}

	// LDI/LDU cc: load cc+1 bits, cc an 8-bit field.
	loads := []struct {
		name string
		op   byte
	}{{"LDI", 0xD2}, {"LDU", 0xD3}}
	for _, l := range loads {
		l := l
		register(&command{name: l.name, maxParams: 1, compile: func(w *Writer, params []param) error {
			if len(params) != 1 {
				return errMissingRequiredParameters(l.name)
			}
			n, ok := intParam(params[0])
			if !ok {
				return errParameter(l.name, "bits", ParamUnexpectedType)
			}
			if n < 1 || n > 256 {
				return errParameter(l.name, "bits", ParamOutOfRange)
			}
			if err := writeBytes(w, l.name, []byte{l.op}); err != nil {
				return err
			}
			return w.WriteUint(l.name, uint64(n-1), 8)
		}})
	}

	// STI/STU cc: store cc+1 bits from an Integer into a Builder, the
	// store-side counterpart of LDI/LDU.
	stores := []struct {
		name string
		op   byte
	}{{"STI", 0xCA}, {"STU", 0xCB}}
	for _, s := range stores {
		s := s
		register(&command{name: s.name, maxParams: 1, compile: func(w *Writer, params []param) error {
			if len(params) != 1 {
				return errMissingRequiredParameters(s.name)
			}
			n, ok := intParam(params[0])
			if !ok {
				return errParameter(s.name, "bits", ParamUnexpectedType)
			}
			if n < 1 || n > 256 {
				return errParameter(s.name, "bits", ParamOutOfRange)
			}
			if err := writeBytes(w, s.name, []byte{s.op}); err != nil {
				return err
			}
			return w.WriteUint(s.name, uint64(n-1), 8)
		}})
	}

	// CALL short: F0 nn.
	register(&command{name: "CALL", maxParams: 1, compile: func(w *Writer, params []param) error {
		if len(params) != 1 {
			return errMissingRequiredParameters("CALL")
		}
		n, ok := intParam(params[0])
		if !ok {
			return errParameter("CALL", "n", ParamUnexpectedType)
		}
		if n < 0 || n > 255 {
			return errParameter("CALL", "n", ParamNotSupported)
		}
		if err := writeBytes(w, "CALL", []byte{0xF0}); err != nil {
			return err
		}
		return w.WriteUint("CALL", uint64(n), 8)
	}})

	// THROW family: F2 <kind> <n>, n a 6-bit exception code.
	throws := []struct {
		name string
		kind byte
	}{{"THROW", 0x00}, {"THROWIF", 0x01}, {"THROWIFNOT", 0x02}}
	for _, th := range throws {
		th := th
		register(&command{name: th.name, maxParams: 1, compile: func(w *Writer, params []param) error {
			if len(params) != 1 {
				return errMissingRequiredParameters(th.name)
			}
			n, ok := intParam(params[0])
			if !ok {
				return errParameter(th.name, "n", ParamUnexpectedType)
			}
			if n < 0 || n > 63 {
				return errParameter(th.name, "n", ParamOutOfRange)
			}
			if err := writeBytes(w, th.name, []byte{0xF2, th.kind}); err != nil {
				return err
			}
			return w.WriteUint(th.name, uint64(n), 8)
		}})
	}

	// TRYARGS p,q: F3 packs two 4-bit counts into one byte.
	register(&command{name: "TRYARGS", maxParams: 2, compile: func(w *Writer, params []param) error {
		if len(params) != 2 {
			return errMissingRequiredParameters("TRYARGS")
		}
		p, ok1 := intParam(params[0])
		q, ok2 := intParam(params[1])
		if !ok1 || !ok2 {
			return errParameter("TRYARGS", "p,q", ParamUnexpectedType)
		}
		if p < 0 || p > 15 || q < 0 || q > 15 {
			return errParameter("TRYARGS", "p,q", ParamOutOfRange)
		}
		if err := writeBytes(w, "TRYARGS", []byte{0xF3}); err != nil {
			return err
		}
		return w.WriteUint("TRYARGS", uint64(p<<4|q), 8)
	}})

	// SETCP xx.
	register(&command{name: "SETCP", maxParams: 1, compile: func(w *Writer, params []param) error {
		if len(params) != 1 {
			return errMissingRequiredParameters("SETCP")
		}
		n, ok := intParam(params[0])
		if !ok || n < 0 || n > 255 {
			return errParameter("SETCP", "n", ParamOutOfRange)
		}
		if err := writeBytes(w, "SETCP", []byte{0xFF}); err != nil {
			return err
		}
		return w.WriteUint("SETCP", uint64(n), 8)
	}})

	// Quiet-mode prefix over the three plain arithmetic mnemonics:
	// B7 <op>, spec.md's "reinterpret the following opcode" form.
	quiet := []struct {
		name string
		op   byte
	}{{"QADD", 0xA0}, {"QSUB", 0xA1}, {"QMUL", 0xA8}}
	for _, q := range quiet {
		q := q
		register(&command{name: q.name, maxParams: 0, compile: func(w *Writer, params []param) error {
			if len(params) > 0 {
				return errTooManyParameters(q.name)
			}
			return writeBytes(w, q.name, []byte{0xB7, q.op})
		}})
	}
}

// writeBytes appends a literal opcode sequence byte by byte.
func writeBytes(w *Writer, op string, bs []byte) error {
	for _, b := range bs {
		if err := w.WriteUint(op, uint64(b), 8); err != nil {
			return err
		}
	}
	return nil
}

// addComplexCommands registers the mnemonics whose compiled shape
// depends on more than a fixed immediate width: PUSHINT's four
// encodings, PUSHCONT's nested block, and XCHG's genuinely ambiguous
// one-vs-two-register form — the concrete case the backtracking loop
// in compiler.go exists for (original_source/src/assembler/mod.rs's
// CommandContext.compile retries with one fewer parameter whenever a
// handler reports TooManyParameters).
func addComplexCommands() {
	register(&command{name: "PUSHINT", maxParams: 1, compile: func(w *Writer, params []param) error {
		if len(params) != 1 {
			return errMissingRequiredParameters("PUSHINT")
		}
		n, ok := intParam(params[0])
		if !ok {
			return errParameter("PUSHINT", "n", ParamUnexpectedType)
		}
		return compilePushIntLiteral(w, n)
	}})

	// PUSHCONT { ... }: a single compiled-block parameter, stored as a
	// reference the way STREF stores any other cell.
	register(&command{name: "PUSHCONT", maxParams: 1, compile: func(w *Writer, params []param) error {
		if len(params) != 1 || params[0].kind != paramBlock {
			return errMissingRequiredParameters("PUSHCONT")
		}
		if err := writeBytes(w, "PUSHCONT", []byte{0x8E}); err != nil {
			return err
		}
		return w.StoreRef("PUSHCONT", params[0].block)
	}})

	// XCHG: bare (swap s0,s1), one register (swap s0,si), or two
	// registers (swap si,sj). The two-register form is only valid when
	// BOTH collected tokens parse as register idents; a bare integer
	// greedily grabbed as the second token (meant to start the next
	// statement's implicit PUSHINT) makes the handler reject the full
	// set as TooManyParameters so the compiler retries with one fewer.
	register(&command{name: "XCHG", maxParams: 2, compile: func(w *Writer, params []param) error {
		switch len(params) {
		case 0:
			return writeBytes(w, "XCHG", []byte{0x01})
		case 1:
			i, ok := regIndex(params[0], 's')
			if !ok {
				return errParameter("XCHG", "s", ParamUnexpectedType)
			}
			if i == 0 || i > 15 {
				return errParameter("XCHG", "s", ParamOutOfRange)
			}
			return writeBytes(w, "XCHG", []byte{byte(i)})
		case 2:
			i, ok1 := regIndex(params[0], 's')
			j, ok2 := regIndex(params[1], 's')
			if !ok1 || !ok2 {
				return errTooManyParameters("XCHG")
			}
			if i > 15 || j > 15 {
				return errParameter("XCHG", "s,s", ParamOutOfRange)
			}
			if err := writeBytes(w, "XCHG", []byte{0x10}); err != nil {
				return err
			}
			return w.WriteUint("XCHG", uint64(i<<4|j), 8)
		default:
			return errTooManyParameters("XCHG")
		}
	}})

	// PUSH/POP si: single stack-register operand.
	register(&command{name: "PUSH", maxParams: 1, compile: func(w *Writer, params []param) error {
		if len(params) != 1 {
			return errMissingRequiredParameters("PUSH")
		}
		i, ok := regIndex(params[0], 's')
		if !ok {
			return errParameter("PUSH", "s", ParamUnexpectedType)
		}
		return writeBytes(w, "PUSH", []byte{byte(0x20 | i)})
	}})
	register(&command{name: "POP", maxParams: 1, compile: func(w *Writer, params []param) error {
		if len(params) != 1 {
			return errMissingRequiredParameters("POP")
		}
		i, ok := regIndex(params[0], 's')
		if !ok {
			return errParameter("POP", "s", ParamUnexpectedType)
		}
		return writeBytes(w, "POP", []byte{byte(0x30 | i)})
	}})
}

// compilePushIntLiteral picks the smallest of the four PUSHINT
// encodings spec.md's bytecode table lists: a 4-bit inline field for
// -5..10, a signed byte, a signed 16-bit word, or the variable-length
// big form from serial.EncodeVarInt.
func compilePushIntLiteral(w *Writer, n int64) error {
	switch {
	case n >= -5 && n <= 10:
		return writeBytes(w, "PUSHINT", []byte{byte(0x75 + n)})
	case n >= -128 && n <= 127:
		if err := writeBytes(w, "PUSHINT", []byte{0x80}); err != nil {
			return err
		}
		return w.WriteUint("PUSHINT", uint64(uint8(n)), 8)
	case n >= -32768 && n <= 32767:
		if err := writeBytes(w, "PUSHINT", []byte{0x81}); err != nil {
			return err
		}
		return w.WriteUint("PUSHINT", uint64(uint16(n)), 16)
	default:
		payload, err := serial.EncodeVarInt(big.NewInt(n))
		if err != nil {
			return errParameter("PUSHINT", "n", ParamOutOfRange)
		}
		if err := writeBytes(w, "PUSHINT", []byte{0x82}); err != nil {
			return err
		}
		return writeBytes(w, "PUSHINT", payload)
	}
}
