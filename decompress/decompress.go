/*
Package decompress implements a decoder for the byte-oriented compression
format used to store tile graphics in cartridge ROM images.

A compressed stream is a sequence of opcodes terminated by a 0xFF control
byte. The top three bits of each control byte select one of eight opcode
families:

	000ccccc  copy c+1 literal bytes from the stream
	001ccccc  repeat the next stream byte c+1 times
	010ccccc  alternate the next two stream bytes for c+1 bytes
	011ccccc  emit c+1 bytes counting up from the next stream byte
	100ccccc  copy c+1 bytes from a 16-bit little-endian output offset
	101ccccc  as above but with every byte inverted
	110ccccc  copy c+1 bytes starting the next stream byte behind the end
	111sssaa  extended count, (aa << 8) + next stream byte + 1

The extended family supports literal, fill, pair and relative copy
sub-opcodes only. Relative copies may overlap the bytes they are producing
which repeats the last few bytes of output.
*/
package decompress

import (
	"bytes"
	"io"
)

// Result is the outcome of a successful decode.
type Result struct {
	// Data is the decoded output buffer
	Data []byte
	// CompressedSize is the number of stream bytes consumed, not
	// counting the terminating 0xFF
	CompressedSize int64
}

// Decoder decodes a single compressed stream.
type Decoder struct {
	c   *Cursor
	out []byte
}

// NewDecoder returns a Decoder reading the stream at offset in rs.
func NewDecoder(rs io.ReadSeeker, offset int64) (*Decoder, error) {
	c, err := NewCursor(rs, offset)
	if err != nil {
		return nil, err
	}
	return &Decoder{c: c}, nil
}

// Output returns the bytes decoded so far. After a failed Decode it holds
// the output produced before the failing opcode.
func (d *Decoder) Output() []byte {
	return d.out
}

// Decode runs until the terminating control byte is read or an error
// occurs. Any error returned is a *DecodeError.
func (d *Decoder) Decode() (*Result, error) {
	for {
		pos := d.c.Pos()
		b, err := d.c.ReadByte()
		if err != nil {
			return nil, d.fail(Opcode{}, pos, err)
		}
		if b == Terminator {
			return &Result{
				Data:           d.out,
				CompressedSize: pos,
			}, nil
		}

		op := ParseControl(b)
		if err := d.step(op); err != nil {
			return nil, d.fail(op, pos, err)
		}
	}
}

func (d *Decoder) step(op Opcode) error {
	switch op.Family {
	case LiteralRun:
		return d.literal(op.Count)
	case ByteFill:
		return d.fill(op.Count)
	case PairFill:
		return d.pair(op.Count)
	case Ramp:
		return d.ramp(op.Count)
	case AbsCopy:
		return d.copy(op.Count)
	case AbsCopyInverted:
		return d.invert(op.Count)
	case RelCopy:
		return d.back(op.Count)
	}

	lo, err := d.c.ReadByte()
	if err != nil {
		return err
	}
	n := op.ExtendedCount(lo)

	switch op.Sub {
	case SubLiteralRun:
		return d.literal(n)
	case SubByteFill:
		return d.fill(n)
	case SubPairFill:
		return d.pair(n)
	case SubRelCopy:
		return d.back(n)
	default:
		return ErrMalformedOpcode
	}
}

func (d *Decoder) literal(n int) error {
	b, err := d.c.ReadN(n)
	if err != nil {
		return err
	}
	d.out = append(d.out, b...)
	return nil
}

func (d *Decoder) fill(n int) error {
	v, err := d.c.ReadByte()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		d.out = append(d.out, v)
	}
	return nil
}

func (d *Decoder) pair(n int) error {
	p, err := d.c.ReadPair()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		d.out = append(d.out, p[i&1])
	}
	return nil
}

func (d *Decoder) ramp(n int) error {
	s, err := d.c.ReadByte()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		d.out = append(d.out, s+byte(i))
	}
	return nil
}

func (d *Decoder) copy(n int) error {
	o, err := d.c.ReadUint16()
	if err != nil {
		return err
	}
	start := int(o)
	if start+n > len(d.out) {
		return ErrOutOfRange
	}
	// The source is entirely behind the end so a slice copy is safe
	d.out = append(d.out, d.out[start:start+n]...)
	return nil
}

func (d *Decoder) invert(n int) error {
	o, err := d.c.ReadUint16()
	if err != nil {
		return err
	}
	start := int(o)
	if start >= len(d.out) {
		return ErrOutOfRange
	}
	for i := start; i < start+n; i++ {
		d.out = append(d.out, d.out[i]^0xff)
	}
	return nil
}

func (d *Decoder) back(n int) error {
	b, err := d.c.ReadByte()
	if err != nil {
		return err
	}
	if b == 0 || int(b) > len(d.out) {
		return ErrOutOfRange
	}
	// Byte at a time, each read may land on a byte appended by this loop
	start := len(d.out) - int(b)
	for i := start; i < start+n; i++ {
		d.out = append(d.out, d.out[i])
	}
	return nil
}

func (d *Decoder) fail(op Opcode, pos int64, err error) error {
	e := &DecodeError{
		Op:     op,
		Pos:    pos,
		Output: d.out,
	}
	switch err {
	case ErrMalformedOpcode, ErrOutOfRange:
		e.Kind = err
	case io.ErrUnexpectedEOF:
		e.Kind = ErrSourceExhausted
		e.Err = err
	default:
		e.Kind = err
	}
	return e
}

// Decode decodes the stream starting at offset in rs.
func Decode(rs io.ReadSeeker, offset int64) (*Result, error) {
	d, err := NewDecoder(rs, offset)
	if err != nil {
		return nil, err
	}
	return d.Decode()
}

// DecodeBytes decodes a stream held in memory, starting at its first byte.
func DecodeBytes(b []byte) (*Result, error) {
	return Decode(bytes.NewReader(b), 0)
}
