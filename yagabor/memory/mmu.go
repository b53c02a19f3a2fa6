// Package memory implements the system bus and the peripherals that live on
// it without belonging to the video or interrupt hardware.
package memory

import (
	"fmt"
	"log/slog"

	"github.com/depechec0de/yagabor/yagabor/addr"
	"github.com/depechec0de/yagabor/yagabor/cartridge"
	"github.com/depechec0de/yagabor/yagabor/interrupts"
	"github.com/depechec0de/yagabor/yagabor/serial"
	"github.com/depechec0de/yagabor/yagabor/video"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

const (
	bootROMSize = 0x100
	unusedStart = addr.OAMEnd + 1
	echoOffset  = addr.EchoStart - addr.WRAMStart
)

// SerialPort is a device connected to SB/SC.
type SerialPort interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	Tick(cycles int)
}

// MMU routes every bus access to the component that owns the address.
// Addresses nobody claims are plain storage.
type MMU struct {
	mbc        cartridge.MBC
	boot       []byte
	bootMapped bool

	irq    *interrupts.Controller
	ppu    *video.PPU
	lcd    *video.LCD
	timer  *Timer
	joypad *Joypad
	serial SerialPort

	memory    [0x10000]byte
	regionMap [256]memRegion
}

// Option configures an MMU.
type Option func(*MMU)

// WithCartridge maps a cartridge through its bank controller.
func WithCartridge(mbc cartridge.MBC) Option {
	return func(m *MMU) { m.mbc = mbc }
}

// WithBootROM overlays the first 256 bytes of ROM with a boot image until
// 0xFF50 is written.
func WithBootROM(data []byte) Option {
	return func(m *MMU) {
		m.boot = data
		m.bootMapped = len(data) > 0
	}
}

// WithSerial connects a device to the link port. The default is a LogSink.
func WithSerial(port SerialPort) Option {
	return func(m *MMU) { m.serial = port }
}

// New returns a bus wired to the given components. The timer, joypad and
// serial port raise their interrupts through irq.
func New(irq *interrupts.Controller, ppu *video.PPU, lcd *video.LCD, opts ...Option) *MMU {
	m := &MMU{
		irq: irq,
		ppu: ppu,
		lcd: lcd,
	}
	m.timer = NewTimer(func() { irq.Request(addr.TimerInterrupt) })
	m.joypad = NewJoypad(func() { irq.Request(addr.JoypadInterrupt) })

	for _, opt := range opts {
		opt(m)
	}
	if m.serial == nil {
		m.serial = serial.NewLogSink(func() { irq.Request(addr.SerialInterrupt) })
	}

	initRegionMap(m)
	return m
}

// initRegionMap assigns every 256 byte page to the region holding it.
func initRegionMap(m *MMU) {
	for i := range m.regionMap {
		page := uint16(i) << 8
		switch {
		case page <= addr.ROMEnd:
			m.regionMap[i] = regionROM
		case page <= addr.VRAMEnd:
			m.regionMap[i] = regionVRAM
		case page <= addr.ExtRAMEnd:
			m.regionMap[i] = regionExtRAM
		case page < addr.EchoStart:
			m.regionMap[i] = regionWRAM
		case page <= addr.EchoEnd:
			m.regionMap[i] = regionEcho
		case page <= addr.OAMEnd:
			m.regionMap[i] = regionOAM
		default:
			m.regionMap[i] = regionIO
		}
	}
}

// Tick advances the peripherals that count clocks.
func (m *MMU) Tick(cycles int) {
	m.timer.Tick(cycles)
	m.serial.Tick(cycles)
}

// Joypad returns the joypad attached to P1.
func (m *MMU) Joypad() *Joypad {
	return m.joypad
}

// BootROMMapped reports whether the boot image still overlays the ROM.
func (m *MMU) BootROMMapped() bool {
	return m.bootMapped
}

func (m *MMU) Read(address uint16) byte {
	switch m.regionMap[address>>8] {
	case regionROM:
		if m.bootMapped && int(address) < bootROMSize && int(address) < len(m.boot) {
			return m.boot[address]
		}
		return m.readCartridge(address)
	case regionVRAM:
		return m.ppu.Read(address)
	case regionExtRAM:
		return m.readCartridge(address)
	case regionWRAM:
		return m.memory[address]
	case regionEcho:
		return m.memory[address-echoOffset]
	case regionOAM:
		if address >= unusedStart {
			return 0x00
		}
		return m.memory[address]
	default:
		return m.readIO(address)
	}
}

func (m *MMU) readCartridge(address uint16) byte {
	if m.mbc == nil {
		return 0xFF
	}
	return m.mbc.Read(address)
}

func (m *MMU) readIO(address uint16) byte {
	switch {
	case address == addr.P1:
		return m.joypad.Read()
	case address == addr.SB || address == addr.SC:
		return m.serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return m.timer.Read(address)
	case address == addr.IF || address == addr.IE:
		return m.irq.Read(address)
	case address >= addr.LCDC && address <= addr.WX:
		return m.lcd.Read(address)
	default:
		return m.memory[address]
	}
}

func (m *MMU) Write(address uint16, value byte) {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if m.mbc == nil {
			slog.Debug("Write to cartridge space with no cartridge",
				"addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
			return
		}
		m.mbc.Write(address, value)
	case regionVRAM:
		m.ppu.Write(address, value)
	case regionWRAM:
		m.memory[address] = value
	case regionEcho:
		m.memory[address-echoOffset] = value
	case regionOAM:
		if address < unusedStart {
			m.memory[address] = value
		}
	default:
		m.writeIO(address, value)
	}
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch {
	case address == addr.P1:
		m.joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		m.serial.Write(address, value)
	case address >= addr.DIV && address <= addr.TAC:
		m.timer.Write(address, value)
	case address == addr.IF || address == addr.IE:
		m.irq.Write(address, value)
	case address == addr.DMA:
		m.dma(value)
		m.lcd.Write(address, value)
	case address >= addr.LCDC && address <= addr.WX:
		m.lcd.Write(address, value)
	case address == addr.BootROMDisable:
		if value != 0 && m.bootMapped {
			slog.Debug("Boot ROM unmapped")
			m.bootMapped = false
		}
		m.memory[address] = value
	default:
		m.memory[address] = value
	}
}

// dma copies 160 bytes from value<<8 into OAM in one go.
func (m *MMU) dma(value byte) {
	source := uint16(value) << 8
	for i := uint16(0); i < addr.OAMSize; i++ {
		m.memory[addr.OAMStart+i] = m.Read(source + i)
	}
}
