// Package exception defines the structured fault taxonomy raised by the
// assembler and execution engine: a numeric code plus an attached value,
// carried as an ordinary Go error rather than unwound via panic/recover.
//
// This mirrors the original implementation's Exception/ExceptionCode pair
// (see original_source/src/types.rs and src/error.rs) but is rendered the
// Go way: Code is a small integer type with a String() method, and
// Exception implements the error interface directly so it composes with
// errors.Is/errors.As and with github.com/pkg/errors wrapping used
// elsewhere in this module.
package exception

import "fmt"

// Code identifies the class of VM fault. Values 0..31 are reserved for the
// built-in taxonomy of spec §7; user programs may THROW any code >= 32.
type Code int

// Built-in exception codes, in the numbering used throughout the TVM
// family (see spec.md §7 and original_source/src/types.rs).
const (
	NormalTermination      Code = 0
	AlternativeTermination Code = 1
	StackUnderflow         Code = 2
	StackOverflow          Code = 3
	IntegerOverflow        Code = 4
	RangeCheckError        Code = 5
	InvalidOpcode          Code = 6
	TypeCheckError         Code = 7
	CellOverflow           Code = 8
	CellUnderflow          Code = 9
	DictionaryError        Code = 10
	UnknownError           Code = 11
	FatalError             Code = 12
	OutOfGas               Code = 13
	// Codes 14..31 are reserved by the spec for future built-ins; 32+ are
	// free for user-defined THROW codes.
)

var codeNames = map[Code]string{
	NormalTermination:      "normal termination",
	AlternativeTermination: "alternative termination",
	StackUnderflow:         "stack underflow",
	StackOverflow:          "stack overflow",
	IntegerOverflow:        "integer overflow",
	RangeCheckError:        "range check error",
	InvalidOpcode:          "invalid opcode",
	TypeCheckError:         "type check error",
	CellOverflow:           "cell overflow",
	CellUnderflow:          "cell underflow",
	DictionaryError:        "dictionary error",
	UnknownError:           "unknown error",
	FatalError:             "fatal error",
	OutOfGas:               "out of gas",
}

// String returns the human readable name of a built-in code, or a generic
// "exception N" label for user-defined codes.
func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("exception %d", int(c))
}

// Value is the minimal payload contract an Exception carries alongside its
// code. The stack package's Value type satisfies this; it is expressed here
// as an interface to avoid a dependency cycle (exception is imported by
// stack).
type Value interface {
	fmt.Stringer
}

// Exception is a structured VM fault: a code plus the value pushed to the
// catching continuation's stack alongside it (spec.md §4.4, §7). It
// implements error so it can be returned and wrapped like any other Go
// error, and propagated up to the engine loop which consults c2.
type Exception struct {
	Code  Code
	Value Value
	// Where records the instruction mnemonic active when the fault was
	// raised, used to build the "<code> at line X"-style diagnostic.
	Where string
}

// New creates an Exception with no explicit payload value; the engine
// hands a catching continuation the integer 0 in its place, the default
// used by THROW when no explicit value is supplied.
func New(code Code) *Exception {
	return &Exception{Code: code}
}

// WithValue attaches an explicit payload value (THROWARG/THROWARGANY and
// friends push an explicit value rather than the default zero).
func (e *Exception) WithValue(v Value) *Exception {
	e.Value = v
	return e
}

// WithSite records the mnemonic that raised the exception for diagnostics.
func (e *Exception) WithSite(mnemonic string) *Exception {
	e.Where = mnemonic
	return e
}

func (e *Exception) Error() string {
	if e.Where != "" {
		return fmt.Sprintf("%s at %s", e.Code, e.Where)
	}
	return e.Code.String()
}

// Number reports the raw numeric code, the form THROW/TRY expect to place
// on the catching continuation's stack.
func (e *Exception) Number() int { return int(e.Code) }

// AsException unwraps err into an *Exception if it is one (directly, not
// via errors.Wrap chains — VM faults are never wrapped once raised, they
// are propagated verbatim to preserve the exact (code, value) pair THROW
// guarantees per spec.md Testable Properties).
func AsException(err error) (*Exception, bool) {
	e, ok := err.(*Exception)
	return e, ok
}
