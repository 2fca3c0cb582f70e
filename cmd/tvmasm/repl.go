package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tvmkit/tvm/asm"
)

// runREPL reads one line of mnemonic source at a time from stdin, compiles
// and runs it as a standalone program in a fresh Engine, and prints the
// resulting top-of-stack value (or the error that stopped it).
//
// setRawIO (term.go/term_linux.go/term_windows.go) puts the terminal into
// the same raw mode Ngaro's main() used for its REPL (-noraw), which
// disables the kernel's line discipline; readRawLine below takes over
// backspace and CTRL-D handling that canonical mode would otherwise do,
// the same reason Ngaro's port1Handler/port2Handler existed.
func runREPL() {
	fmt.Fprintln(os.Stderr, "tvmasm interactive mode: one program per line, CTRL-D to quit.")
	tearDown, err := setRawIO()
	if err != nil {
		// not a terminal (e.g. piped input): fall back to canonical
		// line-buffered reads.
		runREPLBuffered()
		return
	}
	defer tearDown()
	for {
		line, err := readRawLine(os.Stdin, os.Stdout)
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "\nread error: %v\n", err)
			}
			fmt.Fprintln(os.Stdout)
			return
		}
		fmt.Fprintln(os.Stdout)
		evalLine(line)
	}
}

func runREPLBuffered() {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		evalLine(sc.Text())
	}
}

// readRawLine accumulates bytes until Enter, echoing printable input and
// handling backspace (0x7F/0x08) manually, since raw mode leaves the
// kernel's canonical line editing disabled. A CTRL-D (0x04) on an empty
// line reports io.EOF, matching Ngaro's port1Handler convention of
// turning CTRL-D into io.EOF rather than a 0-byte read.
func readRawLine(r io.Reader, w io.Writer) (string, error) {
	var b strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n == 0 {
			if err != nil {
				return "", err
			}
			continue
		}
		c := buf[0]
		switch c {
		case '\r', '\n':
			return b.String(), nil
		case 0x04: // CTRL-D
			if b.Len() == 0 {
				return "", io.EOF
			}
		case 0x7F, 0x08: // backspace/delete
			if s := b.String(); len(s) > 0 {
				b.Reset()
				b.WriteString(s[:len(s)-1])
				w.Write([]byte{' ', '\b'})
			}
		default:
			b.WriteByte(c)
			w.Write(buf)
		}
	}
}

func evalLine(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	code, err := asm.Compile("repl", strings.NewReader(line))
	if err != nil {
		fmt.Fprintf(os.Stdout, "error: %v\n", err)
		return
	}
	eng := newEngineForCode(code)
	if err := eng.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stdout, "error: %v\n", err)
		return
	}
	if eng.Stack.Depth() == 0 {
		fmt.Fprintln(os.Stdout, "ok")
		return
	}
	v, err := eng.Stack.Top()
	if err != nil {
		fmt.Fprintf(os.Stdout, "error: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stdout, "%v\n", v)
}
