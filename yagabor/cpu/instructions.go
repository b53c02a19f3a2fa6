package cpu

import "github.com/depechec0de/yagabor/yagabor/bit"

// reg8 reads an 8-bit operand by its index in the opcode: B C D E H L (HL) A.
func (c *CPU) reg8(r uint8) uint8 {
	switch r {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case indirectHL:
		return c.bus.Read(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) setReg8(r uint8, value uint8) {
	switch r {
	case 0:
		c.B = value
	case 1:
		c.C = value
	case 2:
		c.D = value
	case 3:
		c.E = value
	case 4:
		c.H = value
	case 5:
		c.L = value
	case indirectHL:
		c.bus.Write(c.HL(), value)
	default:
		c.A = value
	}
}

// reg16 reads BC DE HL SP by index.
func (c *CPU) reg16(p uint8) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.sp
	}
}

func (c *CPU) setReg16(p uint8, value uint16) {
	switch p {
	case 0:
		c.SetBC(value)
	case 1:
		c.SetDE(value)
	case 2:
		c.SetHL(value)
	default:
		c.sp = value
	}
}

// stackReg is reg16 with AF in place of SP, as PUSH and POP encode it.
func (c *CPU) stackReg(p uint8) uint16 {
	if p == 3 {
		return c.AF()
	}
	return c.reg16(p)
}

func (c *CPU) setStackReg(p uint8, value uint16) {
	if p == 3 {
		c.SetAF(value)
		return
	}
	c.setReg16(p, value)
}

// condition evaluates NZ Z NC C by index.
func (c *CPU) condition(cc uint8) bool {
	switch cc {
	case 0:
		return !c.Flag(ZeroFlag)
	case 1:
		return c.Flag(ZeroFlag)
	case 2:
		return !c.Flag(CarryFlag)
	default:
		return c.Flag(CarryFlag)
	}
}

// alu applies one of ADD ADC SUB SBC AND XOR OR CP to A.
func (c *CPU) alu(kind uint8, value uint8) {
	switch kind {
	case 0:
		c.add(value, false)
	case 1:
		c.add(value, true)
	case 2:
		c.A = c.sub(value, false)
	case 3:
		c.A = c.sub(value, true)
	case 4:
		c.A &= value
		c.setFlags(c.A == 0, false, true, false)
	case 5:
		c.A ^= value
		c.setFlags(c.A == 0, false, false, false)
	case 6:
		c.A |= value
		c.setFlags(c.A == 0, false, false, false)
	default:
		c.sub(value, false)
	}
}

// add sets A to A + value (+ carry), with half carry out of bit 3 and carry
// out of bit 7.
func (c *CPU) add(value uint8, withCarry bool) {
	var carry uint8
	if withCarry {
		carry = c.carryBit()
	}
	a := c.A
	result := uint16(a) + uint16(value) + uint16(carry)

	c.A = uint8(result)
	c.setFlags(c.A == 0, false, (a&0xF)+(value&0xF)+carry > 0xF, result > 0xFF)
}

// sub returns A - value (- carry) and sets the flags. CP uses it without
// storing the result.
func (c *CPU) sub(value uint8, withCarry bool) uint8 {
	var carry int
	if withCarry {
		carry = int(c.carryBit())
	}
	a := c.A
	result := int(a) - int(value) - carry

	c.setFlags(uint8(result) == 0, true, int(a&0xF)-int(value&0xF)-carry < 0, result < 0)
	return uint8(result)
}

func (c *CPU) inc(value uint8) uint8 {
	result := value + 1
	c.SetFlag(ZeroFlag, result == 0)
	c.SetFlag(SubFlag, false)
	c.SetFlag(HalfCarryFlag, result&0xF == 0)
	return result
}

func (c *CPU) dec(value uint8) uint8 {
	result := value - 1
	c.SetFlag(ZeroFlag, result == 0)
	c.SetFlag(SubFlag, true)
	c.SetFlag(HalfCarryFlag, result&0xF == 0xF)
	return result
}

// addHL adds to HL with half carry from bit 11 and carry from bit 15. Z is
// left alone.
func (c *CPU) addHL(value uint16) {
	hl := c.HL()
	result := uint32(hl) + uint32(value)

	c.SetFlag(SubFlag, false)
	c.SetFlag(HalfCarryFlag, (hl&0xFFF)+(value&0xFFF) > 0xFFF)
	c.SetFlag(CarryFlag, result > 0xFFFF)
	c.SetHL(uint16(result))
}

// addSP returns SP + offset. The flags come from adding the offset's low byte
// to SP's low byte as unsigned values.
func (c *CPU) addSP(offset int8) uint16 {
	value := uint16(int16(offset))
	c.setFlags(false, false,
		(c.sp&0xF)+(value&0xF) > 0xF,
		(c.sp&0xFF)+(value&0xFF) > 0xFF)
	return c.sp + value
}

// daa adjusts A to packed BCD after an addition or a subtraction.
func (c *CPU) daa() int {
	a := c.A
	carry := c.Flag(CarryFlag)
	var adjust uint8

	if !c.Flag(SubFlag) {
		if carry || a > 0x99 {
			adjust |= 0x60
			carry = true
		}
		if c.Flag(HalfCarryFlag) || a&0x0F > 0x09 {
			adjust |= 0x06
		}
		a += adjust
	} else {
		if carry {
			adjust |= 0x60
		}
		if c.Flag(HalfCarryFlag) {
			adjust |= 0x06
		}
		a -= adjust
	}

	c.A = a
	c.SetFlag(ZeroFlag, a == 0)
	c.SetFlag(HalfCarryFlag, false)
	c.SetFlag(CarryFlag, carry)
	return 4
}

func (c *CPU) cpl() int {
	c.A = ^c.A
	c.SetFlag(SubFlag, true)
	c.SetFlag(HalfCarryFlag, true)
	return 4
}

func (c *CPU) scf() int {
	c.SetFlag(SubFlag, false)
	c.SetFlag(HalfCarryFlag, false)
	c.SetFlag(CarryFlag, true)
	return 4
}

func (c *CPU) ccf() int {
	c.SetFlag(SubFlag, false)
	c.SetFlag(HalfCarryFlag, false)
	c.SetFlag(CarryFlag, !c.Flag(CarryFlag))
	return 4
}

// storeSP is LD (nn),SP.
func (c *CPU) storeSP() int {
	address := c.readImmediateWord()
	c.bus.Write(address, bit.Low(c.sp))
	c.bus.Write(address+1, bit.High(c.sp))
	return 20
}

// The operand is always read so PC ends up past the instruction.

func (c *CPU) jr(taken bool) int {
	offset := c.readSignedImmediate()
	if !taken {
		return 8
	}
	c.pc += uint16(int16(offset))
	return 12
}

func (c *CPU) jp(taken bool) int {
	address := c.readImmediateWord()
	if !taken {
		return 12
	}
	c.pc = address
	return 16
}

func (c *CPU) call(taken bool) int {
	address := c.readImmediateWord()
	if !taken {
		return 12
	}
	c.push(c.pc)
	c.pc = address
	return 24
}

func (c *CPU) ret(taken bool) int {
	if !taken {
		return 8
	}
	c.pc = c.pop()
	return 20
}

func (c *CPU) reti() int {
	c.pc = c.pop()
	c.irq.SetMasterEnabled(true)
	return 16
}

// di disables interrupts immediately and cancels a pending EI.
func (c *CPU) di() int {
	c.irq.SetMasterEnabled(false)
	c.imeDelay = 0
	return 4
}

// ei enables interrupts once the next instruction has run.
func (c *CPU) ei() int {
	if !c.irq.MasterEnabled() && c.imeDelay == 0 {
		c.imeDelay = 2
	}
	return 4
}

// halt stops fetching until an interrupt is pending. With IME clear and an
// interrupt already pending the CPU does not halt, and the next opcode byte
// is read twice instead.
func (c *CPU) halt() int {
	if !c.irq.MasterEnabled() && c.irq.Pending() {
		c.haltBug = true
		return 4
	}
	c.halted = true
	return 4
}

// stop skips its padding byte and waits for a button press.
func (c *CPU) stop() int {
	c.readImmediate()
	c.stopped = true
	return 4
}

// rotateA finishes RLCA/RLA/RRCA/RRA, which always clear Z unlike their CB
// counterparts.
func (c *CPU) rotateA(result uint8) uint8 {
	c.SetFlag(ZeroFlag, false)
	return result
}

func (c *CPU) shifted(result uint8, carry bool) uint8 {
	c.setFlags(result == 0, false, false, carry)
	return result
}

func (c *CPU) rlc(value uint8) uint8 {
	return c.shifted(value<<1|value>>7, value&0x80 != 0)
}

func (c *CPU) rrc(value uint8) uint8 {
	return c.shifted(value>>1|value<<7, value&0x01 != 0)
}

func (c *CPU) rl(value uint8) uint8 {
	return c.shifted(value<<1|c.carryBit(), value&0x80 != 0)
}

func (c *CPU) rr(value uint8) uint8 {
	return c.shifted(value>>1|c.carryBit()<<7, value&0x01 != 0)
}

func (c *CPU) sla(value uint8) uint8 {
	return c.shifted(value<<1, value&0x80 != 0)
}

func (c *CPU) sra(value uint8) uint8 {
	return c.shifted(value>>1|value&0x80, value&0x01 != 0)
}

func (c *CPU) swap(value uint8) uint8 {
	return c.shifted(value<<4|value>>4, false)
}

func (c *CPU) srl(value uint8) uint8 {
	return c.shifted(value>>1, value&0x01 != 0)
}

// testBit tests bit n: Z is set when the bit is clear, C is left alone.
func (c *CPU) testBit(n uint8, value uint8) {
	c.SetFlag(ZeroFlag, !bit.IsSet(n, value))
	c.SetFlag(SubFlag, false)
	c.SetFlag(HalfCarryFlag, true)
}
