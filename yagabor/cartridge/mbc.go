package cartridge

import (
	"time"

	"github.com/depechec0de/yagabor/yagabor/addr"
)

const (
	romBankSize  = 0x4000
	ramBankSize  = 0x2000
	mbc2RAMSize  = 0x200
	rtcRegisters = 5
)

// MBC is the memory bank controller that sits between the bus and the
// cartridge data. It serves 0x0000-0x7FFF (ROM and control registers) and
// 0xA000-0xBFFF (external RAM).
type MBC interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// NoMBC serves cartridges of 32KB or less that map directly at 0x0000-0x7FFF.
// Writes are ignored and there is no external RAM.
type NoMBC struct {
	rom []uint8
}

// NewNoMBC returns a controller for a ROM-only cartridge.
func NewNoMBC(rom []uint8) *NoMBC {
	return &NoMBC{rom: rom}
}

func (m *NoMBC) Read(address uint16) uint8 {
	if int(address) < len(m.rom) && address <= 0x7FFF {
		return m.rom[address]
	}
	return 0xFF
}

func (m *NoMBC) Write(address uint16, value uint8) {}

// banked holds the ROM and RAM shared by every banking controller.
type banked struct {
	rom        []uint8
	ram        []uint8
	ramEnabled bool
}

// readROM wraps banks that lie past the end of the image.
func (b *banked) readROM(bank int, address uint16) uint8 {
	if len(b.rom) == 0 {
		return 0xFF
	}
	return b.rom[(bank*romBankSize+int(address&0x3FFF))%len(b.rom)]
}

func (b *banked) ramOffset(bank int, address uint16) (int, bool) {
	if !b.ramEnabled || len(b.ram) == 0 {
		return 0, false
	}
	offset := bank*ramBankSize + int(address-addr.ExtRAMStart)
	return offset % len(b.ram), true
}

func (b *banked) readRAM(bank int, address uint16) uint8 {
	if offset, ok := b.ramOffset(bank, address); ok {
		return b.ram[offset]
	}
	return 0xFF
}

func (b *banked) writeRAM(bank int, address uint16, value uint8) {
	if offset, ok := b.ramOffset(bank, address); ok {
		b.ram[offset] = value
	}
}

// MBC1 supports up to 2MB of ROM and 32KB of RAM:
//   - 0x0000-0x1FFF: RAM enable (0x0A in the low nibble)
//   - 0x2000-0x3FFF: BANK1, low 5 bits of the ROM bank (0 selects 1)
//   - 0x4000-0x5FFF: BANK2, 2 bits used as ROM bank bits 5-6 or the RAM bank
//   - 0x6000-0x7FFF: banking mode select
//
// BANK2 always feeds 0x4000-0x7FFF. In mode 1 it also banks 0x0000-0x3FFF
// and external RAM.
type MBC1 struct {
	banked
	bank1       uint8
	bank2       uint8
	bankingMode uint8
}

// NewMBC1 returns an MBC1 controller with ramBanks 8KB banks of external RAM.
func NewMBC1(rom []uint8, ramBanks int) *MBC1 {
	return &MBC1{
		banked: banked{rom: rom, ram: make([]uint8, ramBanks*ramBankSize)},
		bank1:  1,
	}
}

func (m *MBC1) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.readROM(m.lowBank(), address)
	case address <= 0x7FFF:
		return m.readROM(m.highBank(), address)
	case address >= 0xA000 && address <= 0xBFFF:
		return m.readRAM(m.ramBank(), address)
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		m.bank1 = value & 0x1F
		if m.bank1 == 0 {
			m.bank1 = 1
		}
	case address <= 0x5FFF:
		m.bank2 = value & 0x03
	case address <= 0x7FFF:
		m.bankingMode = value & 0x01
	case address >= 0xA000 && address <= 0xBFFF:
		m.writeRAM(m.ramBank(), address, value)
	}
}

func (m *MBC1) lowBank() int {
	if m.bankingMode == 1 {
		return int(m.bank2) << 5
	}
	return 0
}

func (m *MBC1) highBank() int {
	return int(m.bank2)<<5 | int(m.bank1)
}

func (m *MBC1) ramBank() int {
	if m.bankingMode == 1 {
		return int(m.bank2)
	}
	return 0
}

// MBC2 supports up to 256KB of ROM and has 512 half-bytes of built-in RAM.
// Bit 8 of the address picks the register written in 0x0000-0x3FFF: clear
// for RAM enable, set for the 4-bit ROM bank. The RAM echoes through
// 0xA000-0xBFFF and its upper nibble reads as 1s.
type MBC2 struct {
	banked
	romBank uint8
}

// NewMBC2 returns an MBC2 controller.
func NewMBC2(rom []uint8) *MBC2 {
	return &MBC2{
		banked:  banked{rom: rom, ram: make([]uint8, mbc2RAMSize)},
		romBank: 1,
	}
}

func (m *MBC2) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.readROM(0, address)
	case address <= 0x7FFF:
		return m.readROM(int(m.romBank), address)
	case address >= 0xA000 && address <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		return m.ram[address&0x1FF] | 0xF0
	default:
		return 0xFF
	}
}

func (m *MBC2) Write(address uint16, value uint8) {
	switch {
	case address <= 0x3FFF:
		if address&0x0100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
			return
		}
		m.romBank = value & 0x0F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case address >= 0xA000 && address <= 0xBFFF:
		if m.ramEnabled {
			m.ram[address&0x1FF] = value & 0x0F
		}
	}
}

// Clock is the time source of the MBC3 real time clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// RTC register indexes, selected by writing 0x08-0x0C to 0x4000-0x5FFF.
const (
	rtcSeconds = iota
	rtcMinutes
	rtcHours
	rtcDayLow
	rtcDayHigh
)

const (
	rtcDayHighBit = 0x01
	rtcHaltBit    = 0x40
	rtcCarryBit   = 0x80
	rtcMaxDays    = 512
)

// MBC3 supports up to 2MB of ROM, 32KB of RAM and an optional real time
// clock:
//   - 0x0000-0x1FFF: RAM and RTC enable
//   - 0x2000-0x3FFF: 7-bit ROM bank (0 selects 1)
//   - 0x4000-0x5FFF: RAM bank 0x00-0x03 or RTC register 0x08-0x0C
//   - 0x6000-0x7FFF: writing 0x00 then 0x01 latches the clock
//
// Reads of the RTC registers return the latched copy.
type MBC3 struct {
	banked
	romBank    uint8
	bankSelect uint8
	hasRTC     bool

	clock      Clock
	base       time.Time
	halted     time.Duration
	haltFlag   bool
	carry      bool
	latched    [rtcRegisters]uint8
	latchState uint8
}

// NewMBC3 returns an MBC3 controller. A nil clock uses the system time.
func NewMBC3(rom []uint8, ramBanks int, hasRTC bool, clock Clock) *MBC3 {
	if clock == nil {
		clock = systemClock{}
	}
	return &MBC3{
		banked:     banked{rom: rom, ram: make([]uint8, ramBanks*ramBankSize)},
		romBank:    1,
		hasRTC:     hasRTC,
		clock:      clock,
		base:       clock.Now(),
		latchState: 0xFF,
	}
}

func (m *MBC3) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.readROM(0, address)
	case address <= 0x7FFF:
		return m.readROM(int(m.romBank), address)
	case address >= 0xA000 && address <= 0xBFFF:
		if reg, ok := m.rtcRegister(); ok {
			if !m.ramEnabled {
				return 0xFF
			}
			return m.latched[reg]
		}
		if m.bankSelect > 0x03 {
			return 0xFF
		}
		return m.readRAM(int(m.bankSelect), address)
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		m.romBank = value & 0x7F
		if m.romBank == 0 {
			m.romBank = 1
		}
	case address <= 0x5FFF:
		m.bankSelect = value & 0x0F
	case address <= 0x7FFF:
		if m.latchState == 0x00 && value == 0x01 && m.hasRTC {
			m.latched = m.registers()
		}
		m.latchState = value
	case address >= 0xA000 && address <= 0xBFFF:
		if reg, ok := m.rtcRegister(); ok {
			if m.ramEnabled {
				m.setRegister(reg, value)
			}
			return
		}
		if m.bankSelect <= 0x03 {
			m.writeRAM(int(m.bankSelect), address, value)
		}
	}
}

// rtcRegister reports which clock register is mapped at 0xA000, if any.
func (m *MBC3) rtcRegister() (int, bool) {
	if !m.hasRTC || m.bankSelect < 0x08 || m.bankSelect > 0x0C {
		return 0, false
	}
	return int(m.bankSelect - 0x08), true
}

// elapsed is the running time of the clock, frozen while halted.
func (m *MBC3) elapsed() time.Duration {
	if m.haltFlag {
		return m.halted
	}
	return m.clock.Now().Sub(m.base)
}

// registers encodes the current time as the five clock registers.
func (m *MBC3) registers() [rtcRegisters]uint8 {
	total := int64(m.elapsed() / time.Second)
	days := total / 86400
	if days >= rtcMaxDays {
		m.carry = true
		days %= rtcMaxDays
		m.base = m.base.Add(time.Duration(total/86400-days) * 24 * time.Hour)
	}

	var regs [rtcRegisters]uint8
	regs[rtcSeconds] = uint8(total % 60)
	regs[rtcMinutes] = uint8(total / 60 % 60)
	regs[rtcHours] = uint8(total / 3600 % 24)
	regs[rtcDayLow] = uint8(days)
	regs[rtcDayHigh] = uint8(days>>8) & rtcDayHighBit
	if m.haltFlag {
		regs[rtcDayHigh] |= rtcHaltBit
	}
	if m.carry {
		regs[rtcDayHigh] |= rtcCarryBit
	}
	return regs
}

// setRegister rewrites one field of the clock and rebases it so the other
// fields keep their values.
func (m *MBC3) setRegister(reg int, value uint8) {
	regs := m.registers()
	regs[reg] = value
	m.carry = regs[rtcDayHigh]&rtcCarryBit != 0
	m.haltFlag = regs[rtcDayHigh]&rtcHaltBit != 0

	days := int64(regs[rtcDayHigh]&rtcDayHighBit)<<8 | int64(regs[rtcDayLow])
	total := time.Duration(days*86400+
		int64(regs[rtcHours])*3600+
		int64(regs[rtcMinutes])*60+
		int64(regs[rtcSeconds])) * time.Second

	m.halted = total
	m.base = m.clock.Now().Add(-total)
	m.latched[reg] = value
}

// MBC5 supports up to 8MB of ROM through a 9-bit bank number and 128KB of
// RAM. Unlike MBC1, bank 0 can be mapped at 0x4000.
type MBC5 struct {
	banked
	romBank uint16
	ramBank uint8
}

// NewMBC5 returns an MBC5 controller with ramBanks 8KB banks of external RAM.
func NewMBC5(rom []uint8, ramBanks int) *MBC5 {
	return &MBC5{
		banked:  banked{rom: rom, ram: make([]uint8, ramBanks*ramBankSize)},
		romBank: 1,
	}
}

func (m *MBC5) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		return m.readROM(0, address)
	case address <= 0x7FFF:
		return m.readROM(int(m.romBank), address)
	case address >= 0xA000 && address <= 0xBFFF:
		return m.readRAM(int(m.ramBank), address)
	default:
		return 0xFF
	}
}

func (m *MBC5) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x2FFF:
		m.romBank = m.romBank&0x100 | uint16(value)
	case address <= 0x3FFF:
		m.romBank = m.romBank&0xFF | uint16(value&0x01)<<8
	case address <= 0x5FFF:
		m.ramBank = value & 0x0F
	case address >= 0xA000 && address <= 0xBFFF:
		m.writeRAM(int(m.ramBank), address, value)
	}
}
