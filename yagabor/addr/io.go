package addr

// memory regions
const (
	// ROMEnd is the last address mapped to the cartridge ROM.
	ROMEnd uint16 = 0x7FFF
	// VRAMStart is the first byte of video RAM.
	VRAMStart uint16 = 0x8000
	// VRAMEnd is the last byte of video RAM.
	VRAMEnd uint16 = 0x9FFF
	// ExtRAMStart is the first byte of cartridge RAM.
	ExtRAMStart uint16 = 0xA000
	// ExtRAMEnd is the last byte of cartridge RAM.
	ExtRAMEnd uint16 = 0xBFFF
	// WRAMStart is the first byte of work RAM.
	WRAMStart uint16 = 0xC000
	// EchoStart is the first byte of the work RAM mirror.
	EchoStart uint16 = 0xE000
	// EchoEnd is the last mirrored byte.
	EchoEnd uint16 = 0xFDFF
)

// gpu registers
const (
	// LCD Control register.
	LCDC uint16 = 0xFF40
	// LCDC Status register.
	STAT uint16 = 0xFF41
	// Scroll Y (SCY) register.
	SCY uint16 = 0xFF42
	// Scroll X (SCX) register.
	SCX uint16 = 0xFF43
	// LCDC Y-Coordinate (readonly) register.
	LY uint16 = 0xFF44
	// LY Compare register.
	LYC uint16 = 0xFF45
	// DMA Transfer and Start register.
	DMA uint16 = 0xFF46
	// BG Palette register.
	BGP uint16 = 0xFF47
	// Object Palette 0 register.
	OBP0 uint16 = 0xFF48
	// Object Palette 1 register.
	OBP1 uint16 = 0xFF49
	// Window Y Position register.
	WY uint16 = 0xFF4A
	// Window X Position register.
	WX uint16 = 0xFF4B
)

// OAM (Object Attribute Memory) - sprite data
const (
	// OAMStart is the start of OAM memory (40 sprites * 4 bytes each)
	OAMStart uint16 = 0xFE00
	// OAMEnd is the end of OAM memory
	OAMEnd uint16 = 0xFE9F
	// OAMSize is the amount of bytes copied by a DMA transfer.
	OAMSize uint16 = 0xA0
)

// tile data and tile maps
const (
	// TileData0 is the start of unsigned tile data (tiles 0-255)
	TileData0 uint16 = 0x8000
	// TileData1 is the start of the shared tile block (tiles 128-255 / -128 to -1)
	TileData1 uint16 = 0x8800
	// TileData2 is the base of signed tile data (tile 0 when using signed indices)
	TileData2 uint16 = 0x9000

	// TileMap0 is background/window tile map 0
	TileMap0 uint16 = 0x9800
	// TileMap1 is background/window tile map 1
	TileMap1 uint16 = 0x9C00
)

// interrupts
const (
	// IF is the address for the Interrupt Flags register.
	IF uint16 = 0xFF0F
	// IE is the address for the Interrupt Enable register.
	IE uint16 = 0xFFFF
)

// joypad
const (
	// P1 is used to read the Joypad state.
	P1 uint16 = 0xFF00
)

// serial I/O
const (
	// SB (Serial transfer data, 0xFF01)
	//
	// Holds the 8-bit data to be transmitted. After completion, SB contains the
	// received byte from the peer (0xFF when no peer is connected).
	SB uint16 = 0xFF01
	// SC (Serial transfer control, 0xFF02)
	//  - Bit 7 (Start): Writing 1 starts an 8-bit transfer; hardware clears to 0 when done.
	//  - Bit 0 (Clock): 1=internal clock, 0=external clock.
	SC uint16 = 0xFF02
)

// timers
const (
	// DIV is the divider register. Incremented 16384 times/s, writing to it resets it.
	DIV uint16 = 0xFF04
	// TIMA is the timer counter register. Generates an interrupt when it overflows.
	TIMA uint16 = 0xFF05
	// TMA is the timer modulo register. When TIMA overflows, this data will be loaded.
	TMA uint16 = 0xFF06
	// TAC is the timer control register. Used to start/stop and control the timer clock.
	TAC uint16 = 0xFF07
)

// BootROMDisable unmaps the boot ROM when written with a non-zero value.
const BootROMDisable uint16 = 0xFF50

// Interrupt is an enum that represents one of the possible interrupts.
// The value is the bit index inside the IE and IF registers, which is also
// the dispatch priority (lower fires first).
type Interrupt uint8

const (
	// VBlankInterrupt is fired when the LCD enters the vertical blank period.
	VBlankInterrupt Interrupt = iota
	// LCDSTATInterrupt is fired based on one of the conditions in the STAT register.
	LCDSTATInterrupt
	// TimerInterrupt is fired when the timer register (TIMA) overflows.
	TimerInterrupt
	// SerialInterrupt is fired when a serial transfer has completed on the game link port.
	SerialInterrupt
	// JoypadInterrupt is fired when any of the keypad inputs goes from high to low.
	JoypadInterrupt
)

// InterruptCount is the number of interrupt sources.
const InterruptCount = 5

var interruptNames = [InterruptCount]string{"VBlank", "LCD-STAT", "Timer", "Serial", "Joypad"}

func (i Interrupt) String() string {
	if int(i) < len(interruptNames) {
		return interruptNames[i]
	}
	return "Unknown"
}

// Vector returns the address of the service routine for the interrupt.
// Handlers are 8 bytes apart: 0x40 - 0x48 - 0x50 - 0x58 - 0x60.
func (i Interrupt) Vector() uint16 {
	return 0x40 + uint16(i)*8
}
