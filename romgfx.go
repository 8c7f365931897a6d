/*
Package romgfx is a library for extracting compressed tile graphics from
cartridge ROM and CD images.

Graphics are stored as a compressed stream, see package decompress, which
decodes to a sequence of 4 bits per pixel planar tiles, see package tile.
The tiles are mapped through a 16 color palette and laid out in an image 16
tiles wide.
*/
package romgfx

import (
	"log"

	"github.com/bodgit/romgfx/palette"
)

// Options control a single extraction.
type Options struct {
	// Address is the offset of the compressed stream within the source
	Address int64
	// Output is the image file to write. The extension selects the
	// image format, the decoded tile data is written alongside it with
	// an additional ".bin" extension
	Output string

	// Palette is an optional file of packed colors in PaletteFormat.
	// Without one the Legacy palette or a grayscale ramp is used
	Palette       string
	PaletteFormat palette.Format
	LegacyPalette bool

	// Scale enlarges the image by an integer factor
	Scale int

	// NoCache skips looking up previous extractions in the catalogue
	NoCache bool
}

// Extractor extracts graphics, optionally recording them in a Catalog.
type Extractor struct {
	db     *Catalog
	logger *log.Logger
}

// New returns an Extractor. If db is non-empty the catalogue database at
// that path is opened, creating it if necessary.
func New(db string, logger *log.Logger) (*Extractor, error) {
	e := &Extractor{
		logger: logger,
	}
	if db != "" {
		c, err := NewCatalog(db)
		if err != nil {
			return nil, err
		}
		e.db = c
	}
	return e, nil
}

// Catalog returns the catalogue in use, if any.
func (e *Extractor) Catalog() *Catalog {
	return e.db
}

// Close closes the catalogue.
func (e *Extractor) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}
