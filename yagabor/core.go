// Package yagabor wires the DMG components together and drives them.
package yagabor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/depechec0de/yagabor/yagabor/addr"
	"github.com/depechec0de/yagabor/yagabor/cartridge"
	"github.com/depechec0de/yagabor/yagabor/cpu"
	"github.com/depechec0de/yagabor/yagabor/disasm"
	"github.com/depechec0de/yagabor/yagabor/interrupts"
	"github.com/depechec0de/yagabor/yagabor/memory"
	"github.com/depechec0de/yagabor/yagabor/serial"
	"github.com/depechec0de/yagabor/yagabor/video"
)

const bootROMSize = 0x100

// ErrBootROMSize is returned when the boot image is not exactly 256 bytes.
var ErrBootROMSize = errors.New("boot ROM must be 256 bytes")

// Config holds the emulator settings that are fixed at construction.
type Config struct {
	// BootROM is the path of a DMG boot image. When empty the CPU and the
	// I/O registers start in the state the boot ROM leaves them in.
	BootROM string
	// Trace logs every executed instruction at debug level.
	Trace bool
	// SerialFixedTiming makes link transfers take 4096 clocks.
	SerialFixedTiming bool
}

// post-boot values of the I/O registers that are not zero
var postBootIO = []struct {
	address uint16
	value   byte
}{
	{addr.LCDC, 0x91},
	{addr.BGP, 0xFC},
	{addr.OBP0, 0xFF},
	{addr.OBP1, 0xFF},
}

// DMG is the whole console. It owns every component and is driven one
// instruction at a time by Step.
type DMG struct {
	cpu    *cpu.CPU
	mmu    *memory.MMU
	irq    *interrupts.Controller
	ppu    *video.PPU
	lcd    *video.LCD
	serial *serial.LogSink

	header       *cartridge.Header
	instructions uint64
}

// New returns a console with no cartridge inserted.
func New(cfg Config) (*DMG, error) {
	return build(cfg, nil, nil)
}

// NewWithFile loads the cartridge at path and returns a console running it.
func NewWithFile(path string, cfg Config) (*DMG, error) {
	cart, err := cartridge.Load(path)
	if err != nil {
		return nil, err
	}
	return NewWithCartridge(cart, cfg)
}

// NewWithCartridge returns a console running an already parsed cartridge.
func NewWithCartridge(cart *cartridge.Cartridge, cfg Config) (*DMG, error) {
	mbc, err := cart.MBC()
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", cart.Title, err)
	}

	slog.Info("Cartridge inserted", "title", cart.Title, "type", fmt.Sprintf("0x%02X", uint8(cart.Type)), "ram_banks", cart.RAMBanks())
	return build(cfg, mbc, &cart.Header)
}

func build(cfg Config, mbc cartridge.MBC, header *cartridge.Header) (*DMG, error) {
	d := &DMG{
		irq:    interrupts.New(),
		ppu:    video.NewPPU(),
		header: header,
	}
	d.lcd = video.NewLCD(d.ppu, d.irq)

	var sinkOpts []serial.LogSinkOption
	if cfg.SerialFixedTiming {
		sinkOpts = append(sinkOpts, serial.WithFixedTiming())
	}
	d.serial = serial.NewLogSink(func() { d.irq.Request(addr.SerialInterrupt) }, sinkOpts...)

	memOpts := []memory.Option{memory.WithSerial(d.serial)}
	if mbc != nil {
		memOpts = append(memOpts, memory.WithCartridge(mbc))
	}

	var cpuOpts []cpu.Option
	if cfg.BootROM != "" {
		boot, err := os.ReadFile(cfg.BootROM)
		if err != nil {
			return nil, fmt.Errorf("reading boot ROM: %w", err)
		}
		if len(boot) != bootROMSize {
			return nil, fmt.Errorf("%w: got %d", ErrBootROMSize, len(boot))
		}
		memOpts = append(memOpts, memory.WithBootROM(boot))
		cpuOpts = append(cpuOpts, cpu.WithBootROM())
	}
	if cfg.Trace {
		cpuOpts = append(cpuOpts, cpu.WithTrace())
	}

	d.mmu = memory.New(d.irq, d.ppu, d.lcd, memOpts...)
	d.cpu = cpu.New(d.mmu, d.irq, cpuOpts...)

	if cfg.BootROM == "" {
		for _, r := range postBootIO {
			d.mmu.Write(r.address, r.value)
		}
	}

	return d, nil
}

// Step executes one instruction, advances the peripherals and the LCD by the
// cycles it took, then services interrupts. Decode failures are returned and
// leave the console where it was.
func (d *DMG) Step() error {
	cycles, err := d.cpu.Step()
	if err != nil {
		return err
	}
	d.instructions++
	d.tick(cycles)

	if dispatch := d.cpu.ServiceInterrupts(); dispatch > 0 {
		d.tick(dispatch)
	}
	return nil
}

func (d *DMG) tick(cycles int) {
	d.mmu.Tick(cycles)
	d.lcd.Tick(cycles)
}

// RunUntilFrame steps until the LCD completes another frame. With the display
// off a frame still completes every 70224 clocks.
func (d *DMG) RunUntilFrame() error {
	target := d.lcd.FrameCount() + 1
	for d.lcd.FrameCount() < target {
		if err := d.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Frame returns the screen buffer. It is complete right after RunUntilFrame.
func (d *DMG) Frame() *video.Frame {
	return d.lcd.Frame()
}

// FrameCount returns the number of frames completed so far.
func (d *DMG) FrameCount() uint64 {
	return d.lcd.FrameCount()
}

// InstructionCount returns the number of instructions executed so far.
func (d *DMG) InstructionCount() uint64 {
	return d.instructions
}

// Cycles returns the system clocks elapsed in the CPU.
func (d *DMG) Cycles() uint64 {
	return d.cpu.Cycles()
}

// PC returns the address of the next instruction.
func (d *DMG) PC() uint16 {
	return d.cpu.PC()
}

// Registers returns a copy of the register file.
func (d *DMG) Registers() cpu.Registers {
	return d.cpu.Registers
}

// Header returns the header of the inserted cartridge, nil without one.
func (d *DMG) Header() *cartridge.Header {
	return d.header
}

// PressKey holds down a joypad key.
func (d *DMG) PressKey(key memory.JoypadKey) {
	d.mmu.Joypad().Press(key)
}

// ReleaseKey lets go of a joypad key.
func (d *DMG) ReleaseKey(key memory.JoypadKey) {
	d.mmu.Joypad().Release(key)
}

// SerialOutput returns every byte sent over the link port so far.
func (d *DMG) SerialOutput() string {
	return d.serial.Output()
}

// TileData renders the tile cache.
func (d *DMG) TileData() *video.Frame {
	return d.lcd.TileData()
}

// Background renders the whole background map.
func (d *DMG) Background() *video.Frame {
	return d.lcd.Background()
}

// Disassemble returns count instructions starting at PC.
func (d *DMG) Disassemble(count int) []disasm.Line {
	return disasm.DisassembleRange(d.mmu, d.cpu.PC(), count)
}

// Peek reads the bus without side effects on the CPU.
func (d *DMG) Peek(address uint16) byte {
	return d.mmu.Read(address)
}
