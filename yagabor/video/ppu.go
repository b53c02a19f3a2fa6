package video

import "github.com/depechec0de/yagabor/yagabor/addr"

const vramSize = addr.VRAMEnd - addr.VRAMStart + 1

// PPU owns video RAM and keeps a decoded copy of every tile in it.
// The tile cache is only ever updated through Write, so it can always be
// rebuilt from the raw bytes.
type PPU struct {
	vram  [vramSize]byte
	tiles [TileCount]Tile
}

// NewPPU returns a PPU with cleared VRAM.
func NewPPU() *PPU {
	return &PPU{}
}

// Read returns the VRAM byte at address (0x8000-0x9FFF).
func (p *PPU) Read(address uint16) byte {
	return p.vram[address&(vramSize-1)]
}

// Write stores a VRAM byte and refreshes the tile row it belongs to.
func (p *PPU) Write(address uint16, value byte) {
	offset := address & (vramSize - 1)
	p.vram[offset] = value

	// tile maps live above the tile data, nothing to decode there
	if offset >= TileCount*TileBytes {
		return
	}

	rowStart := offset &^ 1
	tile := int(offset / TileBytes)
	row := int(offset%TileBytes) / 2
	p.tiles[tile].decodeRow(row, p.vram[rowStart], p.vram[rowStart+1])
}

// Tile returns the cached tile with the given index (0-383).
func (p *PPU) Tile(index int) *Tile {
	return &p.tiles[index]
}

// TileIndex resolves a tile number read from a tile map into an index into
// the tile cache.
//
// With unsigned addressing (LCDC bit 4 set) tile numbers 0-255 start at
// 0x8000. With signed addressing they are int8 offsets from 0x9000, so 0-127
// map to tiles 256-383 and 128-255 to tiles 128-255.
func TileIndex(number byte, unsigned bool) int {
	if unsigned {
		return int(number)
	}
	return 256 + int(int8(number))
}

// TileAddress returns the VRAM address of a tile number.
func TileAddress(number byte, unsigned bool) uint16 {
	if unsigned {
		return addr.TileData0 + uint16(number)*TileBytes
	}
	return uint16(int(addr.TileData2) + int(int8(number))*TileBytes)
}

// MapEntry reads the tile number at (col, row) of the 32x32 tile map
// starting at base.
func (p *PPU) MapEntry(base uint16, col, row int) byte {
	return p.Read(base + uint16((row%32)*32+col%32))
}
