package decompress

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceExhausted is returned when the stream ends before an
	// opcode and its operands have been read.
	ErrSourceExhausted = errors.New("decompress: source exhausted")

	// ErrMalformedOpcode is returned for an unsupported extended
	// sub-opcode.
	ErrMalformedOpcode = errors.New("decompress: malformed opcode")

	// ErrOutOfRange is returned when a back-reference addresses output
	// that has not been written yet.
	ErrOutOfRange = errors.New("decompress: reference out of range")
)

// DecodeError describes a fatal decoding failure. Output holds whatever was
// decoded before the failing opcode; it is not a valid result.
type DecodeError struct {
	Kind error

	// Op is the failing opcode and Pos the position of its control byte
	// relative to the start offset. Op is zero if the control byte itself
	// couldn't be read.
	Op  Opcode
	Pos int64

	Output []byte
	Err    error
}

func (e *DecodeError) Error() string {
	s := fmt.Sprintf("%s: control byte %#02x at position %#x (%d bytes decoded)", e.Kind, e.Op.Control, e.Pos, len(e.Output))
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the error kind and, if any, the underlying read error.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Tail returns up to the last n bytes of the partial output.
func (e *DecodeError) Tail(n int) []byte {
	if len(e.Output) < n {
		return e.Output
	}
	return e.Output[len(e.Output)-n:]
}
