package asm

import (
	"strconv"
	"text/scanner"
	"unicode"

	"github.com/tvmkit/tvm/cell"
)

// isIdentRune accepts letters, digits and underscore anywhere in a
// token, plus a leading '-' so that negative integer literals ("-1")
// tokenize as one ident, the way the teacher's parser.go does for its
// own broader mnemonic alphabet (asm/parser.go's isIdentRune). Braces,
// commas and other punctuation are deliberately excluded so they surface
// as their own single-rune tokens: '{'/'}' delimit PUSHCONT blocks and
// ',' separates register-style parameters ("XCHG s1, s2").
func isIdentRune(ch rune, i int) bool {
	if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
		return true
	}
	return i == 0 && ch == '-'
}

// paramKind tags what a parsed parameter token turned out to be.
type paramKind int

const (
	paramInt paramKind = iota
	paramIdent
	paramBlock
)

// param is one accumulated mnemonic operand: an integer literal, a bare
// identifier (a control-register name like "c2" or a stack-register name
// like "s3"), or a recursively compiled { ... } block (PUSHCONT's body).
type param struct {
	kind  paramKind
	pos   scanner.Position
	i     int64
	text  string
	block cell.Cell
}

// newScanner builds a scanner.Scanner configured for TVM mnemonic
// source: identifiers plus a custom rune set so register names and
// negative literals tokenize as single idents, and "//" line comments
// silently dropped (scanner.ScanComments makes the scanner recognize
// them, scanner.SkipComments discards them instead of emitting tokens).
// Everything outside the ident alphabet — "{", "}", "," — falls through
// to the scanner's one-rune-per-token default, which is exactly what
// the compiler's block and separator handling wants.
func newScanner(name string) *scanner.Scanner {
	var s scanner.Scanner
	s.Mode = scanner.ScanIdents | scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	s.IsIdentRune = isIdentRune
	s.Filename = name
	return &s
}

// parseIntLiteral parses s as a Go integer literal (strconv base 0:
// decimal, 0x hex, 0 octal), the same conversion asm/parser.go applies to
// every identifier-shaped token before falling back to treating it as a
// genuine identifier.
func parseIntLiteral(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 0, 64)
	return n, err == nil
}
