// Package asm compiles TVM mnemonic source into a bytecode cell tree.
//
// A program is a sequence of mnemonics, each optionally followed by
// parameters: integer literals, stack/control register names ("s3",
// "c2"), and "{ ... }" blocks for PUSHCONT-style nested continuations.
// Compile tokenizes the source once, resolves each mnemonic against a
// fixed registry (addSimpleCommands, addComplexCommands), and writes
// the resulting bits and cell references through a Writer that rolls
// over to a new cell whenever the current one runs out of room —
// mirroring the 1023-bit/4-ref limit a compiled program is bound by at
// runtime (cell.MaxDataBits, cell.MaxRefs).
//
// Parameter parsing is greedy with backtracking: the compiler collects
// up to a mnemonic's declared maximum parameter count before invoking
// its compile closure, and retracts one parameter at a time if the
// closure reports it was handed too many — the only way to resolve the
// occasional genuine ambiguity between "this token is my last operand"
// and "this token starts the next statement" without a lookahead
// grammar. See compiler.go and errors.go's errTooManyParameters.
package asm
