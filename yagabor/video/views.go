package video

// Sizes of the debug views, in tiles.
const (
	TileDataCols   = 16
	TileDataRows   = 24
	BackgroundCols = 32
	BackgroundRows = 32
)

// TileData renders every cached tile as a 16x24 grid (128x192 pixels) in the
// top-left corner of a frame, through BGP. The rest of the frame is white.
func (l *LCD) TileData() *Frame {
	var f Frame
	for index := 0; index < TileCount; index++ {
		ox := (index % TileDataCols) * 8
		oy := (index / TileDataCols) * 8
		l.drawTile(&f, l.ppu.Tile(index), ox, oy)
	}
	return &f
}

// Background renders the whole 32x32 background map (256x256 pixels) using
// the current tile map and tile data selection, through BGP.
func (l *LCD) Background() *Frame {
	var f Frame
	mapBase := l.backgroundTileMap()
	unsigned := l.Control(BGWindowTileSet)

	for row := 0; row < BackgroundRows; row++ {
		for col := 0; col < BackgroundCols; col++ {
			number := l.ppu.MapEntry(mapBase, col, row)
			l.drawTile(&f, l.ppu.Tile(TileIndex(number, unsigned)), col*8, row*8)
		}
	}
	return &f
}

func (l *LCD) drawTile(f *Frame, t *Tile, ox, oy int) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			f.Set(ox+x, oy+y, l.bgp.Apply(t.Pixel(x, y)))
		}
	}
}
