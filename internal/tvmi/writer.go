// Package tvmi holds small helpers shared by this module's command-line
// tools, the way Ngaro's internal/ngi held helpers shared by its VM and
// retro binary.
package tvmi

import (
	"io"

	"github.com/pkg/errors"
)

// ErrWriter wraps an io.Writer and remembers its first write error: once
// set, every subsequent Write is a no-op that returns it again. cmd/tvmasm
// uses one around stdout so a long DUMPSTK/PRINTSTR session (engine.Option
// WithDebugWriter) can ignore per-write errors and check Err once at exit,
// instead of threading an error return through every debug opcode.
type ErrWriter struct {
	w   io.Writer
	Err error
}

func (w *ErrWriter) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err = w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}

// NewErrWriter returns a new ErrWriter wrapping w.
func NewErrWriter(w io.Writer) *ErrWriter {
	return &ErrWriter{w, nil}
}
