/*
Package palette implements the 16 color palettes used to map tile pixel
indices to colors.

Palettes are stored as a sequence of packed 16-bit words. Two packings are
supported: little-endian BGR555, where bits 0-4 are red, 5-9 green and 10-14
blue, and the big-endian Mega Drive CRAM layout 0000BBB0GGG0RRR0.
*/
package palette

import (
	"errors"
	"fmt"
	"image/color"
)

// Size is the number of colors a palette must provide.
const Size = 16

var (
	// ErrTooFewColors is returned when a palette has fewer than Size
	// entries.
	ErrTooFewColors = errors.New("palette: fewer than 16 colors")

	// ErrIndex is returned for a pixel index beyond the end of a
	// palette.
	ErrIndex = errors.New("palette: index out of range")
)

// Palette is an ordered list of colors indexed by pixel value.
type Palette []color.RGBA

// ColorOf returns the color for pixel index i.
func (p Palette) ColorOf(i uint8) (color.RGBA, error) {
	if int(i) >= len(p) {
		return color.RGBA{}, fmt.Errorf("%w: %d", ErrIndex, i)
	}
	return p[i], nil
}

// Validate checks the palette has enough colors for every pixel value.
func (p Palette) Validate() error {
	if len(p) < Size {
		return fmt.Errorf("%w: got %d", ErrTooFewColors, len(p))
	}
	return nil
}

// Model returns the palette as a color.Palette suitable for an
// image.Paletted.
func (p Palette) Model() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c
	}
	return cp
}

// FromModel converts a color.Palette, as returned by an image quantizer,
// into a Palette.
func FromModel(cp color.Palette) Palette {
	p := make(Palette, len(cp))
	for i, c := range cp {
		p[i] = color.RGBAModel.Convert(c).(color.RGBA)
	}
	return p
}

func scale5(v uint16) uint8 {
	return uint8(v&0x1f) * 8
}

var (
	grayscale = func() [Size]color.RGBA {
		var t [Size]color.RGBA
		for i := range t {
			v := uint8(i * 17)
			t[i] = color.RGBA{v, v, v, 0xff}
		}
		return t
	}()

	// Five bit channels, as found in the game's own palette
	legacy = func() [Size]color.RGBA {
		var t [Size]color.RGBA
		for i, c := range [Size][3]uint16{
			{0, 0, 14},
			{31, 30, 21},
			{31, 24, 8},
			{30, 20, 7},
			{29, 14, 0},
			{26, 9, 0},
			{21, 7, 0},
			{19, 5, 0},
			{16, 4, 0},
			{14, 2, 0},
			{11, 3, 0},
			{9, 3, 0},
			{8, 2, 0},
			{14, 8, 7},
			{10, 5, 5},
			{8, 2, 0},
		} {
			t[i] = color.RGBA{scale5(c[0]), scale5(c[1]), scale5(c[2]), 0xff}
		}
		return t
	}()
)

// Grayscale returns the default palette mapping index i to gray level
// i * 17.
func Grayscale() Palette {
	return append(Palette(nil), grayscale[:]...)
}

// Legacy returns the fixed palette used for the title graphics.
func Legacy() Palette {
	return append(Palette(nil), legacy[:]...)
}
