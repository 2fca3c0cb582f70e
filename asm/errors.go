package asm

import (
	"fmt"
	"strings"
	"text/scanner"
)

// maxErrors bounds how many diagnostics the compiler accumulates before
// giving up, matching the teacher's parser.maxErrors (asm/parser.go).
const maxErrors = 10

// ParameterError classifies what was wrong with one operand of a
// mnemonic, grounded on original_source/src/assembler/errors.rs's
// ParameterError enum.
type ParameterError int

const (
	ParamUnexpectedType ParameterError = iota
	ParamNotSupported
	ParamOutOfRange
)

func (e ParameterError) Error() string {
	switch e {
	case ParamUnexpectedType:
		return "unexpected parameter type"
	case ParamNotSupported:
		return "parameter value is correct, but not supported"
	case ParamOutOfRange:
		return "parameter value is out of range"
	default:
		return "parameter error"
	}
}

// OperationError classifies what was wrong when compiling one mnemonic's
// full parameter list, grounded on the same source's OperationError enum.
// errTooManyParameters is the signal the backtracking loop in
// compiler.go watches for: on seeing it, the loop retracts the last
// accumulated parameter and retries with one fewer.
type OperationError struct {
	Op        string
	Param     string // set when this wraps a ParameterError
	ParamErr  ParameterError
	kind      opErrKind
	Logic     string // set for LogicErrorInParameters
}

type opErrKind int

const (
	opErrParameter opErrKind = iota
	opErrTooManyParameters
	opErrLogic
	opErrMissingRequiredParameters
	opErrNotFitInSlice
)

func errTooManyParameters(op string) error {
	return &OperationError{Op: op, kind: opErrTooManyParameters}
}

func errMissingRequiredParameters(op string) error {
	return &OperationError{Op: op, kind: opErrMissingRequiredParameters}
}

func errParameter(op, param string, pe ParameterError) error {
	return &OperationError{Op: op, Param: param, ParamErr: pe, kind: opErrParameter}
}

func errLogic(op, explanation string) error {
	return &OperationError{Op: op, Logic: explanation, kind: opErrLogic}
}

func errNotFitInSlice(op string) error {
	return &OperationError{Op: op, kind: opErrNotFitInSlice}
}

// isTooManyParameters reports whether err is the specific condition the
// backtracking compile loop retries on.
func isTooManyParameters(err error) bool {
	oe, ok := err.(*OperationError)
	return ok && oe.kind == opErrTooManyParameters
}

func (e *OperationError) Error() string {
	switch e.kind {
	case opErrParameter:
		return fmt.Sprintf("%s: parameter %q: %s", e.Op, e.Param, e.ParamErr)
	case opErrTooManyParameters:
		return fmt.Sprintf("%s: too many parameters", e.Op)
	case opErrLogic:
		return fmt.Sprintf("%s: %s", e.Op, e.Logic)
	case opErrMissingRequiredParameters:
		return fmt.Sprintf("%s: missing required parameters", e.Op)
	case opErrNotFitInSlice:
		return fmt.Sprintf("%s: compiled form does not fit in a cell", e.Op)
	default:
		return fmt.Sprintf("%s: operation error", e.Op)
	}
}

// CompileError is one positioned diagnostic: a syntax error, a reference
// to an unknown mnemonic, or an OperationError for a recognized mnemonic
// whose parameters could not be compiled. Grounded on the same source's
// CompileError enum.
type CompileError struct {
	Pos scanner.Position
	Op  string // empty for Syntax
	Err error  // *OperationError, or a plain error for Syntax/UnknownOperation
}

func (e *CompileError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Op, e.Err)
}

// ErrAsm is the error type Compile returns: every diagnostic gathered up
// to maxErrors, rendered the way the teacher's asm.ErrAsm does.
type ErrAsm []*CompileError

func (e ErrAsm) Error() string {
	l := make([]string, 0, len(e))
	for _, err := range e {
		l = append(l, err.Error())
	}
	return strings.Join(l, "\n")
}
