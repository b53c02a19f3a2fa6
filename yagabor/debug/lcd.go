package debug

import (
	"fmt"

	"github.com/depechec0de/yagabor/yagabor/addr"
	"github.com/depechec0de/yagabor/yagabor/bit"
	"github.com/depechec0de/yagabor/yagabor/video"
)

// MemoryReader gives debug tools read access to the bus.
type MemoryReader interface {
	Read(address uint16) uint8
}

// ReaderFunc adapts a function to MemoryReader.
type ReaderFunc func(address uint16) uint8

func (f ReaderFunc) Read(address uint16) uint8 { return f(address) }

// LCDState is a snapshot of the LCD registers as seen on the bus.
type LCDState struct {
	LCDC, STAT uint8
	LY, LYC    uint8
	SCX, SCY   uint8
	WX, WY     uint8
	BGP        video.Palette
	OBP0, OBP1 video.Palette
}

// ReadLCDState reads the LCD registers through reader.
func ReadLCDState(reader MemoryReader) LCDState {
	return LCDState{
		LCDC: reader.Read(addr.LCDC),
		STAT: reader.Read(addr.STAT),
		LY:   reader.Read(addr.LY),
		LYC:  reader.Read(addr.LYC),
		SCX:  reader.Read(addr.SCX),
		SCY:  reader.Read(addr.SCY),
		WX:   reader.Read(addr.WX),
		WY:   reader.Read(addr.WY),
		BGP:  video.PaletteFromByte(reader.Read(addr.BGP)),
		OBP0: video.PaletteFromByte(reader.Read(addr.OBP0)),
		OBP1: video.PaletteFromByte(reader.Read(addr.OBP1)),
	}
}

// Mode returns the mode bits of STAT.
func (s LCDState) Mode() video.Mode {
	return video.Mode(s.STAT & 0x03)
}

// FormatSummary describes the background setup in one line.
func (s LCDState) FormatSummary() string {
	status := "OFF"
	if bit.IsSet(uint8(video.Power), s.LCDC) {
		status = "ON"
	}

	mapBase := addr.TileMap0
	if bit.IsSet(uint8(video.BGTileMap), s.LCDC) {
		mapBase = addr.TileMap1
	}

	tiles := fmt.Sprintf("0x%04X signed", addr.TileData1)
	if bit.IsSet(uint8(video.BGWindowTileSet), s.LCDC) {
		tiles = fmt.Sprintf("0x%04X unsigned", addr.TileData0)
	}

	return fmt.Sprintf("LCD %s | Mode: %s LY: %d LYC: %d | Background Map: 0x%04X | Tiles: %s | Scroll: %d,%d | BGP: %v",
		status, s.Mode(), s.LY, s.LYC, mapBase, tiles, s.SCX, s.SCY, s.BGP)
}
