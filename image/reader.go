package image

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/ioutil"

	"github.com/bodgit/romgfx/palette"
	"github.com/bodgit/romgfx/tile"
)

var errEmpty = errors.New("image: no tile data")

// ErrPalette is returned when the palette can't be used to compose an image.
var ErrPalette = errors.New("image: invalid palette")

type decoder struct {
	b       []byte
	palette palette.Palette

	image *image.Paletted
}

func (d *decoder) decode(configOnly bool) error {
	if !configOnly {
		if err := d.palette.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrPalette, err)
		}
	}

	if Height(len(d.b)) == 0 {
		return errEmpty
	}

	if configOnly {
		return nil
	}

	d.image = image.NewPaletted(image.Rect(0, 0, Width, Height(len(d.b))), d.palette.Model())

	for i := 0; i < len(d.b)/tile.Size; i++ {
		t, err := tile.Expand(d.b[i*tile.Size:])
		if err != nil {
			return err
		}

		tx := i % TilesPerRow * tile.Width
		ty := i / TilesPerRow * tile.Height

		// Rows below the image are clipped by SetColorIndex
		for y := 0; y < tile.Height; y++ {
			for x := 0; x < tile.Width; x++ {
				d.image.SetColorIndex(tx+x, ty+y, t[y][x])
			}
		}
	}

	return nil
}

// Compose lays out the tiles in b using the colors in p. The palette must
// have at least 16 colors.
func Compose(b []byte, p palette.Palette) (*image.Paletted, error) {
	d := decoder{b: b, palette: p}
	if err := d.decode(false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// Decode reads raw tile data from r and composes it using the colors in p.
func Decode(r io.Reader, p palette.Palette) (image.Image, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Compose(b, p)
}

// DecodeConfig returns the dimensions of the image composed from the tile
// data in r without composing it.
func DecodeConfig(r io.Reader, p palette.Palette) (image.Config, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}
	d := decoder{b: b, palette: p}
	if err := d.decode(true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: p.Model(),
		Width:      Width,
		Height:     Height(len(b)),
	}, nil
}
