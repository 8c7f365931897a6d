/*
Package tile implements the 4 bits per pixel planar tile format.

Each tile is 8 by 8 pixels stored in 32 bytes. Row y uses four bytes, one per
bit plane: bytes 2y and 2y+1 hold planes 0 and 1 and bytes 2y+16 and 2y+17
hold planes 2 and 3. Bit 7 of each plane byte is the leftmost pixel.
*/
package tile

import "errors"

const (
	// Width and Height are the tile dimensions in pixels
	Width  = 8
	Height = Width
	// Size is the number of bytes used to store a tile
	Size = 32

	// Colors is the number of distinct pixel values
	Colors = 16

	highPlanes = Size >> 1
)

var errShort = errors.New("tile: not enough tile data")

// Tile holds the palette index of each pixel, indexed by row then column.
type Tile [Height][Width]uint8

// Expand decodes the first Size bytes of b into a tile.
func Expand(b []byte) (Tile, error) {
	var t Tile
	if len(b) < Size {
		return t, errShort
	}
	for y := 0; y < Height; y++ {
		p0, p1 := b[y<<1], b[y<<1+1]
		p2, p3 := b[y<<1+highPlanes], b[y<<1+highPlanes+1]
		for x := 0; x < Width; x++ {
			s := uint(7 - x)
			t[y][x] = p0>>s&1 | p1>>s&1<<1 | p2>>s&1<<2 | p3>>s&1<<3
		}
	}
	return t, nil
}

// Pack encodes the tile back into planar form. Only the low four bits of
// each pixel are used.
func (t *Tile) Pack() [Size]byte {
	var b [Size]byte
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			s := uint(7 - x)
			p := t[y][x]
			b[y<<1] |= p & 1 << s
			b[y<<1+1] |= p >> 1 & 1 << s
			b[y<<1+highPlanes] |= p >> 2 & 1 << s
			b[y<<1+highPlanes+1] |= p >> 3 & 1 << s
		}
	}
	return b
}
