package decompress

import (
	"bufio"
	"encoding/binary"
	"io"
)

// Cursor reads a compressed stream sequentially from a starting offset and
// keeps track of how far into the stream it is.
type Cursor struct {
	r   *bufio.Reader
	pos int64
	tmp [2]byte
}

// NewCursor seeks rs to offset and returns a Cursor reading from there.
func NewCursor(rs io.ReadSeeker, offset int64) (*Cursor, error) {
	if _, err := rs.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	return &Cursor{r: bufio.NewReader(rs)}, nil
}

// Pos returns the number of bytes consumed since the starting offset.
func (c *Cursor) Pos() int64 {
	return c.pos
}

// ReadByte reads a single byte. Running out of input is reported as
// io.ErrUnexpectedEOF.
func (c *Cursor) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	c.pos++
	return b, nil
}

// ReadPair reads two bytes in stream order.
func (c *Cursor) ReadPair() ([2]byte, error) {
	if err := c.read(c.tmp[:]); err != nil {
		return [2]byte{}, err
	}
	return c.tmp, nil
}

// ReadUint16 reads a little-endian 16-bit value.
func (c *Cursor) ReadUint16() (uint16, error) {
	if err := c.read(c.tmp[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(c.tmp[:]), nil
}

// ReadN reads exactly n bytes.
func (c *Cursor) ReadN(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := c.read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Cursor) read(b []byte) error {
	n, err := io.ReadFull(c.r, b)
	c.pos += int64(n)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
