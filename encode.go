package romgfx

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"os"

	"github.com/bodgit/romgfx/palette"
	"github.com/bodgit/romgfx/tile"
)

// EncodeTiles converts the image in file into uncompressed planar tile
// data, written to output with a ".bin" extension, and its palette, written
// with a ".pal" extension. The tile data can be viewed again with
// image.Compose or patched into a ROM with a suitable compressor.
func (e *Extractor) EncodeTiles(file, output string, f palette.Format) error {
	in, err := os.Open(file)
	if err != nil {
		return err
	}
	defer in.Close()

	m, format, err := image.Decode(in)
	if err != nil {
		return err
	}
	e.logger.Printf("Read %s image %dx%d from \"%s\"\n", format, m.Bounds().Dx(), m.Bounds().Dy(), file)

	b := new(bytes.Buffer)
	cp, err := tile.Encode(b, m)
	if err != nil {
		return err
	}

	// Pad palette to a full 16 colors
	p := palette.FromModel(cp)
	for len(p) < palette.Size {
		p = append(p, color.RGBA{0, 0, 0, 0xff})
	}

	pb := new(bytes.Buffer)
	if err := palette.Encode(pb, p, f); err != nil {
		return err
	}

	if err := ioutil.WriteFile(output+".bin", b.Bytes(), 0644); err != nil {
		return err
	}
	e.logger.Printf("Wrote %d tiles\n", b.Len()/tile.Size)

	return ioutil.WriteFile(output+".pal", pb.Bytes(), 0644)
}
