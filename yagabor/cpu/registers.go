package cpu

import "github.com/depechec0de/yagabor/yagabor/bit"

// Flag is one of the 4 possible flags used in the flag register (high part of AF)
type Flag uint8

const (
	ZeroFlag      Flag = 0x80
	SubFlag       Flag = 0x40
	HalfCarryFlag Flag = 0x20
	CarryFlag     Flag = 0x10

	flagMask = 0xF0
)

// Registers is the register file. The flag register is kept private so that
// its low nibble can never be set.
type Registers struct {
	A, B, C, D, E, H, L uint8
	f                   uint8
}

// F returns the flag register. Bits 3-0 always read 0.
func (r *Registers) F() uint8 { return r.f }

// SetF sets the flag register, dropping the low nibble.
func (r *Registers) SetF(value uint8) { r.f = value & flagMask }

// Flag reports whether the flag is set.
func (r *Registers) Flag(flag Flag) bool { return r.f&uint8(flag) != 0 }

// SetFlag sets or clears a single flag.
func (r *Registers) SetFlag(flag Flag, on bool) {
	if on {
		r.f |= uint8(flag)
	} else {
		r.f &^= uint8(flag)
	}
}

// setFlags writes all four flags at once.
func (r *Registers) setFlags(zero, sub, halfCarry, carry bool) {
	r.f = 0
	r.SetFlag(ZeroFlag, zero)
	r.SetFlag(SubFlag, sub)
	r.SetFlag(HalfCarryFlag, halfCarry)
	r.SetFlag(CarryFlag, carry)
}

// carryBit returns 1 if the carry flag is set, 0 otherwise
func (r *Registers) carryBit() uint8 {
	if r.Flag(CarryFlag) {
		return 1
	}
	return 0
}

func (r *Registers) AF() uint16 { return bit.Combine(r.A, r.f) }
func (r *Registers) BC() uint16 { return bit.Combine(r.B, r.C) }
func (r *Registers) DE() uint16 { return bit.Combine(r.D, r.E) }
func (r *Registers) HL() uint16 { return bit.Combine(r.H, r.L) }

// SetAF sets A and the flags. The low nibble of F is always 0.
func (r *Registers) SetAF(value uint16) {
	r.A = bit.High(value)
	r.SetF(bit.Low(value))
}

func (r *Registers) SetBC(value uint16) { r.B, r.C = bit.High(value), bit.Low(value) }
func (r *Registers) SetDE(value uint16) { r.D, r.E = bit.High(value), bit.Low(value) }
func (r *Registers) SetHL(value uint16) { r.H, r.L = bit.High(value), bit.Low(value) }

// FlagString returns the flags as ZNHC, with '-' for clear flags.
func (r *Registers) FlagString() string {
	flags := []byte("----")
	for i, f := range []struct {
		flag Flag
		name byte
	}{{ZeroFlag, 'Z'}, {SubFlag, 'N'}, {HalfCarryFlag, 'H'}, {CarryFlag, 'C'}} {
		if r.Flag(f.flag) {
			flags[i] = f.name
		}
	}
	return string(flags)
}
