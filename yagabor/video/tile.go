package video

import "github.com/depechec0de/yagabor/yagabor/bit"

const (
	// TileCount is the number of tiles that fit in the tile data area (0x8000-0x97FF).
	TileCount = 384
	// TileBytes is the size of one tile in VRAM.
	TileBytes = 16
)

// Tile is an 8x8 grid of pre-palette pixel values (0-3), indexed [row][col].
//
// Game Boy tiles use 2 bits per pixel. Each tile row is stored in 2 bytes in a
// bit-plane format:
//
//	Byte 1 (Low):  Bit plane 0 - provides bit 0 of each pixel's color
//	Byte 2 (High): Bit plane 1 - provides bit 1 of each pixel's color
//
// Bit 7 represents the leftmost pixel, bit 0 the rightmost:
//
//	Bit:     7 6 5 4 3 2 1 0
//	Pixel:   0 1 2 3 4 5 6 7
//
// Example: Bytes $3C and $7E represent a row:
//
//	Low  (0x3C): 0 0 1 1 1 1 0 0
//	High (0x7E): 0 1 1 1 1 1 1 0
//	            -----------------
//	Colors:      0 2 3 3 3 3 2 0
//
// Reference: https://gbdev.io/pandocs/Tile_Data.html
type Tile [8][8]uint8

// decodeRow fills one row of the tile from its two bit planes.
func (t *Tile) decodeRow(row int, low, high byte) {
	for x := 0; x < 8; x++ {
		index := uint8(7 - x)
		t[row][x] = bit.Value(index, low) | bit.Value(index, high)<<1
	}
}

// Pixel returns the value at (x, y).
func (t *Tile) Pixel(x, y int) uint8 {
	return t[y][x]
}
