/*
Package image composes decoded tile data into a raster image.

The tile data is a sequence of 32 byte planar tiles as understood by package
tile. Tiles are laid out 16 to a row, giving an image 128 pixels wide. The
height in pixels is the length of the tile data divided by 64, so only
complete rows of tiles are guaranteed to be visible. Any trailing bytes that
don't form a complete tile are ignored.
*/
package image

import "github.com/bodgit/romgfx/tile"

const (
	// TilesPerRow is the number of tiles laid out horizontally
	TilesPerRow = 16
	// Width is the width of every composed image in pixels
	Width = TilesPerRow * tile.Width

	bytesPerLine = 64
)

// Height returns the height in pixels of the image composed from n bytes
// of tile data.
func Height(n int) int {
	return n / bytesPerLine
}
