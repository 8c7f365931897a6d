package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"
)

// Format identifies how a color is packed into a 16-bit word.
type Format int

const (
	// BGR555 packs 5 bits per channel with red in the low bits
	BGR555 Format = iota
	// CRAM is the Mega Drive 0000BBB0GGG0RRR0 layout, stored big-endian
	CRAM
)

var formatNames = map[Format]string{
	BGR555: "bgr555",
	CRAM:   "cram",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// ParseFormat returns the Format with the given name.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("palette: unknown format %q", s)
}

func upperNibble(b byte) byte {
	return b & 0xf0
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

func (f Format) unpack(v uint16) (color.RGBA, error) {
	switch f {
	case BGR555:
		return color.RGBA{scale5(v), scale5(v >> 5), scale5(v >> 10), 0xff}, nil
	case CRAM:
		// Big-endian, so the low byte read holds blue
		b, gr := byte(v), byte(v>>8)
		return color.RGBA{
			lowerNibble(gr) << 4,
			upperNibble(gr),
			lowerNibble(b) << 4,
			0xff,
		}, nil
	}
	return color.RGBA{}, errors.New("palette: unsupported format")
}

func (f Format) pack(c color.RGBA) (uint16, error) {
	switch f {
	case BGR555:
		return uint16(c.R>>3) | uint16(c.G>>3)<<5 | uint16(c.B>>3)<<10, nil
	case CRAM:
		return uint16(c.G&0xe0|c.R>>4&0x0e)<<8 | uint16(c.B>>4&0x0e), nil
	}
	return 0, errors.New("palette: unsupported format")
}

// Decode reads packed colors from r until it is exhausted. A trailing odd
// byte is ignored. The result is not validated, see Palette.Validate.
func Decode(r io.Reader, f Format) (Palette, error) {
	var p Palette
	var tmp [2]byte
	for {
		if _, err := io.ReadFull(r, tmp[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return p, nil
			}
			return nil, err
		}
		c, err := f.unpack(binary.LittleEndian.Uint16(tmp[:]))
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
}

// Encode writes p to w, one packed little-endian word per color. Precision
// below the format's channel depth is lost.
func Encode(w io.Writer, p Palette, f Format) error {
	var tmp [2]byte
	for _, c := range p {
		v, err := f.pack(c)
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint16(tmp[:], v)
		if _, err := w.Write(tmp[:]); err != nil {
			return err
		}
	}
	return nil
}
