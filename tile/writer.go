package tile

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

type encoder struct {
	w io.Writer
}

// encode writes the tiles of m row by row, reading pixels relative to the
// image origin so sub-images work as-is
func (e *encoder) encode(m *image.Paletted) error {
	b := m.Bounds()
	for ty := b.Min.Y; ty < b.Max.Y; ty += Height {
		for tx := b.Min.X; tx < b.Max.X; tx += Width {
			var t Tile
			for y := 0; y < Height; y++ {
				for x := 0; x < Width; x++ {
					// Pixel values only have four bits
					t[y][x] = m.ColorIndexAt(tx+x, ty+y) & 0x0f
				}
			}
			p := t.Pack()
			if _, err := e.w.Write(p[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// indexed returns m with at most Colors palette entries. Paletted images
// that already fit are used directly, anything else goes through a median
// cut quantizer.
func indexed(m image.Image) *image.Paletted {
	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) <= Colors {
		return pm
	}
	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, Colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

// Encode writes the Image m to w as a sequence of planar tiles, left to
// right then top to bottom. Images using more than 16 colors are reduced
// first. The palette the tile pixels index into is returned.
func Encode(w io.Writer, m image.Image) (color.Palette, error) {
	b := m.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || b.Dx()%Width != 0 || b.Dy()%Height != 0 {
		return nil, errors.New("tile: image dimensions must be a multiple of 8")
	}

	pm := indexed(m)

	e := encoder{w: w}
	if err := e.encode(pm); err != nil {
		return nil, err
	}

	return pm.Palette, nil
}
