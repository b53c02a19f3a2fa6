package video

import (
	"github.com/depechec0de/yagabor/yagabor/addr"
	"github.com/depechec0de/yagabor/yagabor/bit"
)

// Mode is the LCD controller state. The values match the mode bits of STAT.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	SearchingOAM
	Transferring
)

var modeNames = [...]string{"HBlank", "VBlank", "SearchingOAM", "Transferring"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Invalid"
}

// Durations of each mode in system clocks. A full scanline is 456 clocks,
// which is also the length of every line spent in VBlank.
const (
	oamCycles      = 80
	transferCycles = 172
	hblankCycles   = 204
	scanlineCycles = oamCycles + transferCycles + hblankCycles

	vblankLine  = 144
	lastLine    = 153
	frameCycles = scanlineCycles * (lastLine + 1)
)

var modeCycles = [...]int{
	HBlank:       hblankCycles,
	VBlank:       scanlineCycles,
	SearchingOAM: oamCycles,
	Transferring: transferCycles,
}

// LCDC (LCD Control) Register bit values
// Bit 7 - LCD Display Enable (0=Off, 1=On)
// Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
// Bit 5 - Window Display Enable (0=Off, 1=On)
// Bit 4 - BG & Window Tile Data Select (0=8800-97FF, 1=8000-8FFF)
// Bit 3 - BG Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
// Bit 2 - OBJ (Sprite) Size (0=8x8, 1=8x16)
// Bit 1 - OBJ (Sprite) Display Enable (0=Off, 1=On)
// Bit 0 - BG Display (0=Off, 1=On)
type ControlFlag uint8

const (
	BGEnabled ControlFlag = iota
	SpritesEnabled
	SpriteSize
	BGTileMap
	BGWindowTileSet
	WindowEnable
	WindowTileMap
	Power
)

// STAT bits
const (
	statCoincidence    = 2
	statHBlankIRQ      = 3
	statVBlankIRQ      = 4
	statOAMIRQ         = 5
	statCoincidenceIRQ = 6

	statWritableMask = 0x78
)

// InterruptRequester is the part of the interrupt controller the LCD needs.
type InterruptRequester interface {
	Request(i addr.Interrupt)
}

// LCD is the display controller: it runs the mode state machine, renders the
// background one scanline at a time and raises VBlank/STAT interrupts.
type LCD struct {
	ppu *PPU
	irq InterruptRequester

	control  byte
	stat     byte // only the interrupt enable bits
	mode     Mode
	clock    int
	scanline uint8
	lyc      uint8
	scy, scx uint8
	wy, wx   uint8
	dma      byte

	bgp, obp0, obp1 Palette

	frame  Frame
	frames uint64
}

// NewLCD returns an LCD in SearchingOAM on scanline 0. The display is off
// until LCDC bit 7 is set.
func NewLCD(ppu *PPU, irq InterruptRequester) *LCD {
	return &LCD{
		ppu:  ppu,
		irq:  irq,
		mode: SearchingOAM,
	}
}

// Tick advances the state machine by the given amount of system clocks.
// Clocks in excess of a mode's duration are carried into the next mode.
func (l *LCD) Tick(cycles int) {
	l.clock += cycles

	if !l.Control(Power) {
		// LY holds at 0 and nothing is raised, but frames keep their pace
		for l.clock >= frameCycles {
			l.clock -= frameCycles
			l.frames++
		}
		return
	}

	for l.clock >= modeCycles[l.mode] {
		l.clock -= modeCycles[l.mode]

		switch l.mode {
		case SearchingOAM:
			l.setMode(Transferring)
		case Transferring:
			l.setMode(HBlank)
			l.renderScanline()
		case HBlank:
			l.nextScanline()
			if l.scanline == vblankLine {
				l.frames++
				l.irq.Request(addr.VBlankInterrupt)
				l.setMode(VBlank)
			} else {
				l.setMode(SearchingOAM)
			}
		case VBlank:
			l.nextScanline()
			if l.scanline == 0 {
				l.setMode(SearchingOAM)
			}
		}
	}
}

// nextScanline is the only place LY moves. It wraps to 0 past line 153.
func (l *LCD) nextScanline() {
	if l.scanline >= lastLine {
		l.scanline = 0
	} else {
		l.scanline++
	}
	l.compareLYC()
}

func (l *LCD) setMode(mode Mode) {
	l.mode = mode

	var source uint8
	switch mode {
	case HBlank:
		source = statHBlankIRQ
	case VBlank:
		source = statVBlankIRQ
	case SearchingOAM:
		source = statOAMIRQ
	default:
		return
	}

	if bit.IsSet(source, l.stat) {
		l.irq.Request(addr.LCDSTATInterrupt)
	}
}

func (l *LCD) compareLYC() {
	if l.scanline == l.lyc && bit.IsSet(statCoincidenceIRQ, l.stat) {
		l.irq.Request(addr.LCDSTATInterrupt)
	}
}

// renderScanline draws the background for the current scanline into the
// frame, through BGP.
func (l *LCD) renderScanline() {
	if !l.Control(BGEnabled) {
		return
	}

	mapBase := l.backgroundTileMap()
	unsigned := l.Control(BGWindowTileSet)

	y := l.scy + l.scanline
	row := int(y / 8)
	line := int(l.scanline)

	for x := 0; x < ScreenWidth; x++ {
		bx := l.scx + uint8(x)
		number := l.ppu.MapEntry(mapBase, int(bx/8), row)
		tile := l.ppu.Tile(TileIndex(number, unsigned))
		value := tile.Pixel(int(bx%8), int(y%8))
		l.frame.Set(x, line, l.bgp.Apply(value))
	}
}

func (l *LCD) backgroundTileMap() uint16 {
	if l.Control(BGTileMap) {
		return addr.TileMap1
	}
	return addr.TileMap0
}

// Control reports whether the given LCDC flag is set.
func (l *LCD) Control(flag ControlFlag) bool {
	return bit.IsSet(uint8(flag), l.control)
}

// Mode returns the current mode.
func (l *LCD) Mode() Mode {
	return l.mode
}

// Scanline returns LY.
func (l *LCD) Scanline() uint8 {
	return l.scanline
}

// Frame returns the screen buffer. Callers must only read it.
func (l *LCD) Frame() *Frame {
	return &l.frame
}

// FrameCount returns how many frames have completed: one per VBlank, or one
// every 70224 clocks while the display is off.
func (l *LCD) FrameCount() uint64 {
	return l.frames
}

// Read handles reads of the LCD registers (0xFF40-0xFF4B).
func (l *LCD) Read(address uint16) byte {
	switch address {
	case addr.LCDC:
		return l.control
	case addr.STAT:
		return 0x80 | bit.SetTo(statCoincidence, l.stat, l.scanline == l.lyc) | uint8(l.mode)
	case addr.SCY:
		return l.scy
	case addr.SCX:
		return l.scx
	case addr.LY:
		return l.scanline
	case addr.LYC:
		return l.lyc
	case addr.DMA:
		return l.dma
	case addr.BGP:
		return l.bgp.Byte()
	case addr.OBP0:
		return l.obp0.Byte()
	case addr.OBP1:
		return l.obp1.Byte()
	case addr.WY:
		return l.wy
	case addr.WX:
		return l.wx
	default:
		return 0xFF
	}
}

// Write handles writes to the LCD registers. LY is read-only.
func (l *LCD) Write(address uint16, value byte) {
	switch address {
	case addr.LCDC:
		l.setControl(value)
	case addr.STAT:
		l.stat = value & statWritableMask
	case addr.SCY:
		l.scy = value
	case addr.SCX:
		l.scx = value
	case addr.LYC:
		l.lyc = value
		l.compareLYC()
	case addr.DMA:
		// the copy itself is done by the bus
		l.dma = value
	case addr.BGP:
		l.bgp = PaletteFromByte(value)
	case addr.OBP0:
		l.obp0 = PaletteFromByte(value)
	case addr.OBP1:
		l.obp1 = PaletteFromByte(value)
	case addr.WY:
		l.wy = value
	case addr.WX:
		l.wx = value
	}
}

// setControl writes LCDC. Turning the display off blanks the screen and parks
// the controller on line 0 in HBlank; turning it on restarts line 0.
func (l *LCD) setControl(value byte) {
	wasOn := l.Control(Power)
	l.control = value
	on := l.Control(Power)
	if wasOn == on {
		return
	}

	l.clock = 0
	l.scanline = 0
	if on {
		l.mode = SearchingOAM
		l.compareLYC()
		return
	}
	l.mode = HBlank
	l.frame.Fill(White)
}
