package asm

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/tvmkit/tvm/cell"
)

// tokenRec is one lexed token along with the position it started at,
// kept around so it can be pushed back onto the front of the stream
// when a backtracking retry decides it over-collected (compiler.go's
// pushbackAll).
type tokenRec struct {
	tok  rune
	text string
	pos  scanner.Position
}

// Compiler drives one assembly pass: it pulls tokens from a
// text/scanner.Scanner, resolves each mnemonic against the registry,
// and greedily accumulates parameter tokens before handing them to the
// mnemonic's compile closure — backtracking one parameter at a time
// when the closure reports it collected too many.
//
// Grounded on original_source/src/assembler/mod.rs's CommandContext,
// translated from an AST-walking parser into a single-pass tokenizer
// the way the teacher's asm/parser.go (since deleted) drove its own
// single-pass Ngaro parse over a scanner.Scanner.
type Compiler struct {
	sc      *scanner.Scanner
	pending []tokenRec
	errs    ErrAsm
}

// scan returns the next token, preferring anything pushed back over
// pulling a fresh one from the underlying scanner.
func (c *Compiler) scan() tokenRec {
	if len(c.pending) > 0 {
		t := c.pending[0]
		c.pending = c.pending[1:]
		return t
	}
	tok := c.sc.Scan()
	pos := c.sc.Position
	if !pos.IsValid() {
		pos = c.sc.Pos()
	}
	return tokenRec{tok: tok, text: c.sc.TokenText(), pos: pos}
}

// pushback prepends a single token so the next scan() returns it again.
func (c *Compiler) pushback(t tokenRec) {
	c.pending = append([]tokenRec{t}, c.pending...)
}

// pushbackAll restores a whole run of tokens in original order —
// used when a backtracking retry shrinks the accepted parameter count
// and the surplus trailing tokens must be reprocessed as the start of
// the next statement.
func (c *Compiler) pushbackAll(raws []tokenRec) {
	for i := len(raws) - 1; i >= 0; i-- {
		c.pushback(raws[i])
	}
}

func (c *Compiler) abort() bool {
	return len(c.errs) >= maxErrors
}

func (c *Compiler) errorf(pos scanner.Position, format string, args ...interface{}) {
	c.errs = append(c.errs, &CompileError{Pos: pos, Err: fmt.Errorf(format, args...)})
}

// collectParams greedily pulls up to max parameter tokens for the
// command currently being compiled, stopping early at EOF, at a
// recognized mnemonic (which belongs to the next statement, not this
// one's parameter list), or at a bare "}" closing an enclosing block.
// A "{" opens a nested block, compiled recursively into its own Writer
// via compileStatements, and contributes one paramBlock. It returns
// both the typed params and the raw tokens they came from, so a
// backtracking retry can push back exactly the tokens it gives up.
func (c *Compiler) collectParams(max int) ([]param, []tokenRec) {
	var params []param
	var raw []tokenRec
	for len(params) < max {
		t := c.scan()
		switch {
		case t.tok == scanner.EOF:
			c.pushback(t)
			return params, raw
		case t.text == ",":
			continue
		case t.text == "}":
			c.pushback(t)
			return params, raw
		case t.text == "{":
			child := NewWriter()
			c.compileStatements(child, true)
			block, err := child.Finalize()
			if err != nil {
				c.errorf(t.pos, "compiling block: %s", err)
				block = nil
			}
			params = append(params, param{kind: paramBlock, pos: t.pos, block: block})
			raw = append(raw, t)
		default:
			if n, ok := parseIntLiteral(t.text); ok && t.tok == scanner.Ident {
				params = append(params, param{kind: paramInt, pos: t.pos, i: n})
				raw = append(raw, t)
				continue
			}
			if _, isCmd := registry[t.text]; isCmd {
				c.pushback(t)
				return params, raw
			}
			params = append(params, param{kind: paramIdent, pos: t.pos, text: t.text})
			raw = append(raw, t)
		}
	}
	return params, raw
}

// compileStatements runs the main mnemonic loop, writing into w, until
// EOF (stopAtBrace false, the top-level program) or a matching "}"
// (stopAtBrace true, a PUSHCONT-style nested block, whose opening "{"
// was already consumed by the caller in collectParams).
func (c *Compiler) compileStatements(w *Writer, stopAtBrace bool) {
	for {
		t := c.scan()
		switch {
		case t.tok == scanner.EOF:
			if stopAtBrace {
				c.errorf(t.pos, "unexpected end of input, expected }")
			}
			return
		case t.text == "}":
			if stopAtBrace {
				return
			}
			c.errorf(t.pos, "unexpected }")
			continue
		case t.text == "{":
			c.errorf(t.pos, "unexpected { (not a parameter of any mnemonic)")
			c.skipBlock()
			continue
		case t.text == ",":
			continue
		}

		if n, ok := parseIntLiteral(t.text); ok && t.tok == scanner.Ident {
			if err := compilePushIntLiteral(w, n); err != nil {
				c.errs = append(c.errs, &CompileError{Pos: t.pos, Op: "PUSHINT", Err: err})
				if c.abort() {
					return
				}
			}
			continue
		}

		cmd, ok := registry[t.text]
		if !ok {
			c.errorf(t.pos, "unknown operation %q", t.text)
			if c.abort() {
				return
			}
			continue
		}

		params, raw := c.collectParams(cmd.maxParams)
		n := len(params)
		var err error
		for {
			err = cmd.compile(w, params[:n])
			if err == nil {
				break
			}
			if isTooManyParameters(err) && n > 0 {
				n--
				continue
			}
			break
		}
		if err != nil {
			c.errs = append(c.errs, &CompileError{Pos: t.pos, Op: cmd.name, Err: err})
			if c.abort() {
				return
			}
		}
		if n < len(raw) {
			c.pushbackAll(raw[n:])
		}
	}
}

// skipBlock discards tokens up to (and including) the next "}",
// recovering from a stray "{" that did not belong to any mnemonic.
func (c *Compiler) skipBlock() {
	depth := 1
	for depth > 0 {
		t := c.scan()
		if t.tok == scanner.EOF {
			return
		}
		switch t.text {
		case "{":
			depth++
		case "}":
			depth--
		}
	}
}

// Compile assembles the mnemonic source read from r into a single
// bytecode cell tree, or returns an ErrAsm listing every diagnostic
// gathered along the way (up to maxErrors).
func Compile(name string, r io.Reader) (cell.Cell, error) {
	s := newScanner(name)
	s.Init(r)
	c := &Compiler{sc: s}
	s.Error = func(_ *scanner.Scanner, msg string) {
		pos := s.Position
		if !pos.IsValid() {
			pos = s.Pos()
		}
		c.errorf(pos, "%s", msg)
	}

	w := NewWriter()
	c.compileStatements(w, false)
	if len(c.errs) > 0 {
		return nil, c.errs
	}
	return w.Finalize()
}
