package romgfx

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/romgfx/decompress"
	romimage "github.com/bodgit/romgfx/image"
	"github.com/bodgit/romgfx/palette"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/draw"
)

// Summary describes a completed extraction.
type Summary struct {
	Address        int64
	CompressedSize int64
	DecodedSize    int
	Width, Height  int
	// Cached is true if the decoded data came from the catalogue
	Cached bool
}

func (e *Extractor) loadPalette(opts Options) (palette.Palette, error) {
	var p palette.Palette
	switch {
	case opts.Palette != "":
		f, err := os.Open(opts.Palette)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if p, err = palette.Decode(f, opts.PaletteFormat); err != nil {
			return nil, err
		}
	case opts.LegacyPalette:
		p = palette.Legacy()
	default:
		p = palette.Grayscale()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func scale(m *image.Paletted, n int) *image.Paletted {
	if n <= 1 {
		return m
	}
	b := m.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx()*n, b.Dy()*n), m.Palette)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}

func writeImage(file string, m image.Image) error {
	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png":
		encode = png.Encode
	case ".gif":
		encode = func(w io.Writer, m image.Image) error {
			return gif.Encode(w, m, nil)
		}
	case ".qoi":
		encode = qoi.Encode
	default:
		return fmt.Errorf("unsupported image format %q", filepath.Ext(file))
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := encode(f, m); err != nil {
		return err
	}
	return f.Close()
}

func (e *Extractor) decode(src io.ReadSeeker, opts Options) (*decompress.Result, error) {
	d, err := decompress.NewDecoder(src, opts.Address)
	if err != nil {
		return nil, err
	}

	r, err := d.Decode()
	if err != nil {
		var de *decompress.DecodeError
		if errors.As(err, &de) {
			e.logger.Printf("Decoding stopped at %#x with %s\n", opts.Address+de.Pos, de.Op)
			e.logger.Printf("Last output bytes: % X\n", de.Tail(16))
			if werr := ioutil.WriteFile(opts.Output+".partial.bin", de.Output, 0644); werr != nil {
				e.logger.Printf("Unable to write partial output: %v\n", werr)
			}
		}
		return nil, err
	}
	return r, nil
}

func (e *Extractor) extract(src *Source, sum string, opts Options) (*Summary, error) {
	p, err := e.loadPalette(opts)
	if err != nil {
		return nil, err
	}

	s := &Summary{Address: opts.Address}
	var data []byte

	if e.db != nil && !opts.NoCache {
		entry, err := e.db.Lookup(sum, opts.Address)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			e.logger.Printf("Found %#x in \"%s\" in catalogue\n", opts.Address, src.Name)
			data, s.CompressedSize, s.Cached = entry.Data, entry.CompressedSize, true
		}
	}

	if !s.Cached {
		r, err := e.decode(src, opts)
		if err != nil {
			return nil, err
		}
		data, s.CompressedSize = r.Data, r.CompressedSize
	}
	s.DecodedSize = len(data)

	e.logger.Printf("Start: %#x\n", opts.Address)
	e.logger.Printf("Compressed size: %#X (%d)\n", s.CompressedSize, s.CompressedSize)
	e.logger.Printf("Uncompressed size: %#X (%d)\n", s.DecodedSize, s.DecodedSize)

	if err := ioutil.WriteFile(opts.Output+".bin", data, 0644); err != nil {
		return nil, err
	}

	// Less than a full pixel row of tiles, nothing to draw
	if romimage.Height(len(data)) == 0 {
		e.logger.Printf("No image written for %#x, too little tile data\n", opts.Address)
	} else {
		m, err := romimage.Compose(data, p)
		if err != nil {
			return nil, err
		}
		s.Width, s.Height = m.Bounds().Dx(), m.Bounds().Dy()
		e.logger.Printf("Image size: %dx%d\n", s.Width, s.Height)

		if err := writeImage(opts.Output, scale(m, opts.Scale)); err != nil {
			return nil, err
		}
	}

	if e.db != nil && !s.Cached {
		if err := e.db.Record(Entry{
			SHA1:           sum,
			Name:           src.Name,
			Address:        opts.Address,
			CompressedSize: s.CompressedSize,
			Data:           data,
		}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Extract decodes the compressed stream at opts.Address in file and writes
// the decoded tile data and the composed image. No image is written when
// the data is too short for a single pixel row, Width and Height in the
// Summary are then zero. If decoding fails, whatever was decoded is written
// with a ".partial.bin" extension for inspection.
func (e *Extractor) Extract(file string, opts Options) (*Summary, error) {
	src, err := OpenSource(file)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var sum string
	if e.db != nil {
		if sum, err = src.Checksum(); err != nil {
			return nil, err
		}
	}

	return e.extract(src, sum, opts)
}
