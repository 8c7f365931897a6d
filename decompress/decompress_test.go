package decompress

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBytes(t *testing.T) {
	tables := []struct {
		name   string
		stream []byte
		want   []byte
	}{
		{
			"terminator",
			[]byte{0xff},
			nil,
		},
		{
			"literal",
			[]byte{0x02, 0x11, 0x22, 0x33, 0xff},
			[]byte{0x11, 0x22, 0x33},
		},
		{
			"fill",
			[]byte{0x25, 0x7f, 0xff},
			[]byte{0x7f, 0x7f, 0x7f, 0x7f, 0x7f, 0x7f},
		},
		{
			"pair",
			[]byte{0x45, 0x01, 0x02, 0xff},
			[]byte{0x01, 0x02, 0x01, 0x02, 0x01, 0x02},
		},
		{
			"pair odd length",
			[]byte{0x42, 0xaa, 0x55, 0xff},
			[]byte{0xaa, 0x55, 0xaa},
		},
		{
			"ramp",
			[]byte{0x60, 0x10, 0xff},
			[]byte{0x10},
		},
		{
			"ramp wraps",
			[]byte{0x63, 0xfe, 0xff},
			[]byte{0xfe, 0xff, 0x00, 0x01},
		},
		{
			"absolute copy",
			[]byte{0x02, 0x11, 0x22, 0x33, 0x80, 0x00, 0x00, 0xff},
			[]byte{0x11, 0x22, 0x33, 0x11},
		},
		{
			"absolute copy high offset byte",
			append(append([]byte{0xe0, 0xff}, bytes.Repeat([]byte{0x00}, 255)...), 0x5a, 0x00, 0x77, 0x80, 0x00, 0x01, 0xff),
			append(bytes.Repeat([]byte{0x00}, 255), 0x5a, 0x77, 0x77),
		},
		{
			"inverted copy",
			[]byte{0x01, 0x0f, 0xf0, 0xa1, 0x00, 0x00, 0xff},
			[]byte{0x0f, 0xf0, 0xf0, 0x0f},
		},
		{
			"inverted copy reads its own output",
			[]byte{0x00, 0x0f, 0xa2, 0x00, 0x00, 0xff},
			[]byte{0x0f, 0xf0, 0x0f, 0xf0},
		},
		{
			"relative copy period 2",
			[]byte{0x03, 0x01, 0x02, 0xaa, 0xbb, 0xc3, 0x02, 0xff},
			[]byte{0x01, 0x02, 0xaa, 0xbb, 0xaa, 0xbb, 0xaa, 0xbb},
		},
		{
			"relative copy period 1",
			[]byte{0x00, 0x42, 0xc4, 0x01, 0xff},
			[]byte{0x42, 0x42, 0x42, 0x42, 0x42, 0x42},
		},
		{
			"relative copy without overlap",
			[]byte{0x03, 0x01, 0x02, 0x03, 0x04, 0xc1, 0x04, 0xff},
			[]byte{0x01, 0x02, 0x03, 0x04, 0x01, 0x02},
		},
		{
			"extended literal",
			[]byte{0xe0, 0x01, 0x99, 0x98, 0xff},
			[]byte{0x99, 0x98},
		},
		{
			"extended fill",
			[]byte{0xe5, 0x00, 0x33, 0xff},
			bytes.Repeat([]byte{0x33}, 257),
		},
		{
			"extended pair",
			[]byte{0xe8, 0x03, 0x0a, 0x0b, 0xff},
			[]byte{0x0a, 0x0b, 0x0a, 0x0b},
		},
		{
			"extended relative copy",
			[]byte{0x01, 0x01, 0x02, 0xf8, 0x04, 0x02, 0xff},
			[]byte{0x01, 0x02, 0x01, 0x02, 0x01, 0x02, 0x01},
		},
		{
			"extended maximum count",
			[]byte{0xe7, 0xff, 0x00, 0xff},
			bytes.Repeat([]byte{0x00}, 1024),
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			r, err := DecodeBytes(table.stream)
			require.NoError(t, err)
			assert.Equal(t, table.want, r.Data)
			assert.Equal(t, int64(len(table.stream)-1), r.CompressedSize)
		})
	}
}

func TestDecodeOffset(t *testing.T) {
	rom := []byte{0xde, 0xad, 0xbe, 0xef, 0x22, 0x01, 0xff, 0xca, 0xfe}

	r, err := Decode(bytes.NewReader(rom), 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x01, 0x01}, r.Data)
	assert.Equal(t, int64(2), r.CompressedSize)
}

func TestDecodeDeterministic(t *testing.T) {
	stream := []byte{0x03, 0x10, 0x20, 0x30, 0x40, 0xc7, 0x03, 0xa3, 0x02, 0x00, 0x7f, 0xf0, 0x2b, 0x0c, 0xff}

	r1, err := DecodeBytes(stream)
	require.NoError(t, err)
	r2, err := DecodeBytes(stream)
	require.NoError(t, err)
	assert.Equal(t, r1.Data, r2.Data)
}

func TestDecodeErrors(t *testing.T) {
	tables := []struct {
		name    string
		stream  []byte
		kind    error
		control byte
		pos     int64
		output  []byte
	}{
		{
			"missing terminator",
			[]byte{0x00, 0x01},
			ErrSourceExhausted,
			0x00,
			2,
			[]byte{0x01},
		},
		{
			"short literal",
			[]byte{0x00, 0x01, 0x03, 0x01, 0x02},
			ErrSourceExhausted,
			0x03,
			2,
			[]byte{0x01},
		},
		{
			"short pair",
			[]byte{0x41, 0x01},
			ErrSourceExhausted,
			0x41,
			0,
			nil,
		},
		{
			"short offset",
			[]byte{0x00, 0x01, 0x80, 0x00},
			ErrSourceExhausted,
			0x80,
			2,
			[]byte{0x01},
		},
		{
			"short extended count",
			[]byte{0xe0},
			ErrSourceExhausted,
			0xe0,
			0,
			nil,
		},
		{
			"unsupported extended sub-opcode",
			[]byte{0x01, 0xaa, 0xbb, 0xec, 0x00, 0x00, 0xff},
			ErrMalformedOpcode,
			0xec,
			3,
			[]byte{0xaa, 0xbb},
		},
		{
			"unsupported extended sub-opcode 0xfc",
			[]byte{0xfe, 0x00, 0xff},
			ErrMalformedOpcode,
			0xfe,
			0,
			nil,
		},
		{
			"absolute copy past end",
			[]byte{0x01, 0xaa, 0xbb, 0x81, 0x01, 0x00, 0xff},
			ErrOutOfRange,
			0x81,
			3,
			[]byte{0xaa, 0xbb},
		},
		{
			"absolute copy on empty output",
			[]byte{0x80, 0x00, 0x00, 0xff},
			ErrOutOfRange,
			0x80,
			0,
			nil,
		},
		{
			"inverted copy past end",
			[]byte{0x00, 0xaa, 0xa0, 0x01, 0x00, 0xff},
			ErrOutOfRange,
			0xa0,
			2,
			[]byte{0xaa},
		},
		{
			"relative copy too far back",
			[]byte{0x00, 0xaa, 0xc0, 0x02, 0xff},
			ErrOutOfRange,
			0xc0,
			2,
			[]byte{0xaa},
		},
		{
			"relative copy of zero distance",
			[]byte{0x00, 0xaa, 0xc0, 0x00, 0xff},
			ErrOutOfRange,
			0xc0,
			2,
			[]byte{0xaa},
		},
		{
			"extended relative copy too far back",
			[]byte{0x00, 0xaa, 0xf8, 0x10, 0x05, 0xff},
			ErrOutOfRange,
			0xf8,
			2,
			[]byte{0xaa},
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			r, err := DecodeBytes(table.stream)
			require.Error(t, err)
			assert.Nil(t, r)
			assert.True(t, errors.Is(err, table.kind))

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, table.control, de.Op.Control)
			assert.Equal(t, table.pos, de.Pos)
			assert.Equal(t, table.output, de.Output)
		})
	}
}

func TestDecodeErrorUnwrapsReadError(t *testing.T) {
	_, err := DecodeBytes([]byte{0x21})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceExhausted))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	_, err = DecodeBytes([]byte{0x00, 0x01, 0xc0, 0x05, 0xff})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.False(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestDecoderOutputAfterFailure(t *testing.T) {
	d, err := NewDecoder(bytes.NewReader([]byte{0x22, 0x07, 0xf4, 0x00, 0xff}), 0)
	require.NoError(t, err)

	_, err = d.Decode()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedOpcode))
	assert.Equal(t, []byte{0x07, 0x07, 0x07}, d.Output())
}

func TestDecodeErrorTail(t *testing.T) {
	e := &DecodeError{Kind: ErrOutOfRange, Output: bytes.Repeat([]byte{0x01}, 20)}
	assert.Len(t, e.Tail(16), 16)

	e = &DecodeError{Kind: ErrOutOfRange, Output: []byte{0x01, 0x02}}
	assert.Equal(t, []byte{0x01, 0x02}, e.Tail(16))
	assert.Contains(t, e.Error(), "reference out of range")
}

type failingSeeker struct {
	io.Reader
}

func (failingSeeker) Seek(int64, int) (int64, error) {
	return 0, errors.New("seek failed")
}

func TestDecodeSeekFailure(t *testing.T) {
	_, err := Decode(failingSeeker{bytes.NewReader(nil)}, 10)
	assert.EqualError(t, err, "seek failed")
}
