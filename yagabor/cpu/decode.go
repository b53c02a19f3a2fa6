package cpu

import (
	"fmt"
	"strings"
)

const prefixCB = 0xCB

// Category groups instructions by what they do.
type Category uint8

const (
	Arithmetic Category = iota
	Load
	Control
	Stack
	Misc
	RotateShiftBit
)

var categoryNames = [...]string{"Arithmetic", "Load", "Control", "Stack", "Misc", "RotateShiftBit"}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Unknown"
}

// Instruction describes one entry of the opcode tables.
//
// Mnemonics use lowercase placeholders for operands:
//
//	d8  8-bit immediate
//	d16 16-bit immediate
//	a8  offset from 0xFF00
//	a16 absolute address
//	r8  signed jump offset
type Instruction struct {
	Opcode   uint8
	Extended bool
	Mnemonic string
	Category Category
	// Length in bytes, including the 0xCB prefix.
	Length int

	exec func(*CPU) int
}

// Format renders the mnemonic with its operand bytes, as returned by the bus
// after the opcode.
func (in *Instruction) Format(operands []byte) string {
	byteAt := func(i int) byte {
		if i < len(operands) {
			return operands[i]
		}
		return 0
	}

	s := in.Mnemonic
	switch {
	case strings.Contains(s, "d16"):
		return strings.Replace(s, "d16", fmt.Sprintf("$%02X%02X", byteAt(1), byteAt(0)), 1)
	case strings.Contains(s, "a16"):
		return strings.Replace(s, "a16", fmt.Sprintf("$%02X%02X", byteAt(1), byteAt(0)), 1)
	case strings.Contains(s, "d8"):
		return strings.Replace(s, "d8", fmt.Sprintf("$%02X", byteAt(0)), 1)
	case strings.Contains(s, "a8"):
		return strings.Replace(s, "a8", fmt.Sprintf("$FF%02X", byteAt(0)), 1)
	case strings.Contains(s, "r8"):
		return strings.Replace(s, "r8", fmt.Sprintf("%+d", int8(byteAt(0))), 1)
	default:
		return s
	}
}

// Decode failures are nil entries. Both tables are filled once by init.
var (
	baseTable     [256]*Instruction
	extendedTable [256]*Instruction
)

// Lookup returns the table entry for an opcode, nil if there is none.
func Lookup(opcode uint8, extended bool) *Instruction {
	if extended {
		return extendedTable[opcode]
	}
	return baseTable[opcode]
}

// Register operands in opcode bit order.
var (
	reg8Names  = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
	reg16Names = [4]string{"BC", "DE", "HL", "SP"}
	stackNames = [4]string{"BC", "DE", "HL", "AF"}
	condNames  = [4]string{"NZ", "Z", "NC", "C"}
)

const indirectHL = 6

func def(op uint8, mnemonic string, cat Category, length int, exec func(*CPU) int) {
	baseTable[op] = &Instruction{Opcode: op, Mnemonic: mnemonic, Category: cat, Length: length, exec: exec}
}

func defCB(op uint8, mnemonic string, exec func(*CPU) int) {
	extendedTable[op] = &Instruction{Opcode: op, Extended: true, Mnemonic: mnemonic, Category: RotateShiftBit, Length: 2, exec: exec}
}

// pick returns the (HL) cost when the operand is (HL), other otherwise.
func pick(r uint8, hl, other int) int {
	if r == indirectHL {
		return hl
	}
	return other
}

func init() {
	initLoads()
	initArithmetic()
	initControl()
	initMisc()
	initExtended()
}

func initLoads() {
	for op := 0x40; op <= 0x7F; op++ {
		if op == 0x76 {
			continue // HALT
		}
		dst, src := uint8(op>>3)&7, uint8(op)&7
		cycles := pick(dst, 8, pick(src, 8, 4))
		def(uint8(op), fmt.Sprintf("LD %s,%s", reg8Names[dst], reg8Names[src]), Load, 1, func(c *CPU) int {
			c.setReg8(dst, c.reg8(src))
			return cycles
		})
	}

	for r := uint8(0); r < 8; r++ {
		r := r // per-iteration copy for closures (pre-Go 1.22 loop semantics)
		cycles := pick(r, 12, 8)
		def(0x06+r<<3, fmt.Sprintf("LD %s,d8", reg8Names[r]), Load, 2, func(c *CPU) int {
			c.setReg8(r, c.readImmediate())
			return cycles
		})
	}

	for p := uint8(0); p < 4; p++ {
		p := p // per-iteration copy for closures (pre-Go 1.22 loop semantics)
		def(0x01+p<<4, fmt.Sprintf("LD %s,d16", reg16Names[p]), Load, 3, func(c *CPU) int {
			c.setReg16(p, c.readImmediateWord())
			return 12
		})
	}

	def(0x02, "LD (BC),A", Load, 1, func(c *CPU) int { c.bus.Write(c.BC(), c.A); return 8 })
	def(0x12, "LD (DE),A", Load, 1, func(c *CPU) int { c.bus.Write(c.DE(), c.A); return 8 })
	def(0x22, "LD (HL+),A", Load, 1, func(c *CPU) int { c.bus.Write(c.HL(), c.A); c.SetHL(c.HL() + 1); return 8 })
	def(0x32, "LD (HL-),A", Load, 1, func(c *CPU) int { c.bus.Write(c.HL(), c.A); c.SetHL(c.HL() - 1); return 8 })
	def(0x0A, "LD A,(BC)", Load, 1, func(c *CPU) int { c.A = c.bus.Read(c.BC()); return 8 })
	def(0x1A, "LD A,(DE)", Load, 1, func(c *CPU) int { c.A = c.bus.Read(c.DE()); return 8 })
	def(0x2A, "LD A,(HL+)", Load, 1, func(c *CPU) int { c.A = c.bus.Read(c.HL()); c.SetHL(c.HL() + 1); return 8 })
	def(0x3A, "LD A,(HL-)", Load, 1, func(c *CPU) int { c.A = c.bus.Read(c.HL()); c.SetHL(c.HL() - 1); return 8 })

	def(0x08, "LD (a16),SP", Load, 3, (*CPU).storeSP)
	def(0xE0, "LDH (a8),A", Load, 2, func(c *CPU) int { c.bus.Write(0xFF00+uint16(c.readImmediate()), c.A); return 12 })
	def(0xF0, "LDH A,(a8)", Load, 2, func(c *CPU) int { c.A = c.bus.Read(0xFF00 + uint16(c.readImmediate())); return 12 })
	def(0xE2, "LD (C),A", Load, 1, func(c *CPU) int { c.bus.Write(0xFF00+uint16(c.C), c.A); return 8 })
	def(0xF2, "LD A,(C)", Load, 1, func(c *CPU) int { c.A = c.bus.Read(0xFF00 + uint16(c.C)); return 8 })
	def(0xEA, "LD (a16),A", Load, 3, func(c *CPU) int { c.bus.Write(c.readImmediateWord(), c.A); return 16 })
	def(0xFA, "LD A,(a16)", Load, 3, func(c *CPU) int { c.A = c.bus.Read(c.readImmediateWord()); return 16 })
	def(0xF8, "LD HL,SP+r8", Load, 2, func(c *CPU) int { c.SetHL(c.addSP(c.readSignedImmediate())); return 12 })
	def(0xF9, "LD SP,HL", Load, 1, func(c *CPU) int { c.sp = c.HL(); return 8 })

	for p := uint8(0); p < 4; p++ {
		p := p // per-iteration copy for closures (pre-Go 1.22 loop semantics)
		def(0xC1+p<<4, "POP "+stackNames[p], Stack, 1, func(c *CPU) int {
			c.setStackReg(p, c.pop())
			return 12
		})
		def(0xC5+p<<4, "PUSH "+stackNames[p], Stack, 1, func(c *CPU) int {
			c.push(c.stackReg(p))
			return 16
		})
	}
}

var aluNames = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}

func initArithmetic() {
	for op := 0x80; op <= 0xBF; op++ {
		kind, src := uint8(op>>3)&7, uint8(op)&7
		cycles := pick(src, 8, 4)
		def(uint8(op), aluNames[kind]+reg8Names[src], Arithmetic, 1, func(c *CPU) int {
			c.alu(kind, c.reg8(src))
			return cycles
		})
	}

	for kind := uint8(0); kind < 8; kind++ {
		kind := kind // per-iteration copy for closures (pre-Go 1.22 loop semantics)
		def(0xC6+kind<<3, aluNames[kind]+"d8", Arithmetic, 2, func(c *CPU) int {
			c.alu(kind, c.readImmediate())
			return 8
		})
	}

	for r := uint8(0); r < 8; r++ {
		r := r // per-iteration copy for closures (pre-Go 1.22 loop semantics)
		cycles := pick(r, 12, 4)
		def(0x04+r<<3, "INC "+reg8Names[r], Arithmetic, 1, func(c *CPU) int {
			c.setReg8(r, c.inc(c.reg8(r)))
			return cycles
		})
		def(0x05+r<<3, "DEC "+reg8Names[r], Arithmetic, 1, func(c *CPU) int {
			c.setReg8(r, c.dec(c.reg8(r)))
			return cycles
		})
	}

	for p := uint8(0); p < 4; p++ {
		p := p // per-iteration copy for closures (pre-Go 1.22 loop semantics)
		def(0x03+p<<4, "INC "+reg16Names[p], Arithmetic, 1, func(c *CPU) int {
			c.setReg16(p, c.reg16(p)+1)
			return 8
		})
		def(0x0B+p<<4, "DEC "+reg16Names[p], Arithmetic, 1, func(c *CPU) int {
			c.setReg16(p, c.reg16(p)-1)
			return 8
		})
		def(0x09+p<<4, "ADD HL,"+reg16Names[p], Arithmetic, 1, func(c *CPU) int {
			c.addHL(c.reg16(p))
			return 8
		})
	}

	def(0xE8, "ADD SP,r8", Arithmetic, 2, func(c *CPU) int { c.sp = c.addSP(c.readSignedImmediate()); return 16 })
	def(0x27, "DAA", Arithmetic, 1, (*CPU).daa)
	def(0x2F, "CPL", Arithmetic, 1, (*CPU).cpl)
	def(0x37, "SCF", Arithmetic, 1, (*CPU).scf)
	def(0x3F, "CCF", Arithmetic, 1, (*CPU).ccf)
}

func initControl() {
	def(0x18, "JR r8", Control, 2, func(c *CPU) int { return c.jr(true) })
	def(0xC3, "JP a16", Control, 3, func(c *CPU) int { return c.jp(true) })
	def(0xCD, "CALL a16", Control, 3, func(c *CPU) int { return c.call(true) })
	def(0xC9, "RET", Control, 1, func(c *CPU) int { c.pc = c.pop(); return 16 })
	def(0xD9, "RETI", Control, 1, (*CPU).reti)
	def(0xE9, "JP HL", Control, 1, func(c *CPU) int { c.pc = c.HL(); return 4 })

	for cc := uint8(0); cc < 4; cc++ {
		cc := cc // per-iteration copy for closures (pre-Go 1.22 loop semantics)
		def(0x20+cc<<3, "JR "+condNames[cc]+",r8", Control, 2, func(c *CPU) int { return c.jr(c.condition(cc)) })
		def(0xC2+cc<<3, "JP "+condNames[cc]+",a16", Control, 3, func(c *CPU) int { return c.jp(c.condition(cc)) })
		def(0xC4+cc<<3, "CALL "+condNames[cc]+",a16", Control, 3, func(c *CPU) int { return c.call(c.condition(cc)) })
		def(0xC0+cc<<3, "RET "+condNames[cc], Control, 1, func(c *CPU) int { return c.ret(c.condition(cc)) })
	}

	for n := uint8(0); n < 8; n++ {
		vector := uint16(n) << 3
		def(0xC7+n<<3, fmt.Sprintf("RST $%02X", vector), Control, 1, func(c *CPU) int {
			c.push(c.pc)
			c.pc = vector
			return 16
		})
	}
}

func initMisc() {
	def(0x00, "NOP", Misc, 1, func(*CPU) int { return 4 })
	def(0x10, "STOP", Misc, 2, (*CPU).stop)
	def(0x76, "HALT", Misc, 1, (*CPU).halt)
	def(0xF3, "DI", Misc, 1, (*CPU).di)
	def(0xFB, "EI", Misc, 1, (*CPU).ei)
	// the prefix is resolved while decoding and never executed
	def(prefixCB, "PREFIX CB", Misc, 1, nil)

	def(0x07, "RLCA", RotateShiftBit, 1, func(c *CPU) int { c.A = c.rotateA(c.rlc(c.A)); return 4 })
	def(0x0F, "RRCA", RotateShiftBit, 1, func(c *CPU) int { c.A = c.rotateA(c.rrc(c.A)); return 4 })
	def(0x17, "RLA", RotateShiftBit, 1, func(c *CPU) int { c.A = c.rotateA(c.rl(c.A)); return 4 })
	def(0x1F, "RRA", RotateShiftBit, 1, func(c *CPU) int { c.A = c.rotateA(c.rr(c.A)); return 4 })
}

var shiftNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}

func initExtended() {
	shifts := [8]func(*CPU, uint8) uint8{
		(*CPU).rlc, (*CPU).rrc, (*CPU).rl, (*CPU).rr,
		(*CPU).sla, (*CPU).sra, (*CPU).swap, (*CPU).srl,
	}

	for op := 0x00; op <= 0xFF; op++ {
		r := uint8(op) & 7
		n := uint8(op>>3) & 7

		switch {
		case op < 0x40:
			shift := shifts[n]
			cycles := pick(r, 16, 8)
			defCB(uint8(op), shiftNames[n]+" "+reg8Names[r], func(c *CPU) int {
				c.setReg8(r, shift(c, c.reg8(r)))
				return cycles
			})
		case op < 0x80:
			cycles := pick(r, 12, 8)
			defCB(uint8(op), fmt.Sprintf("BIT %d,%s", n, reg8Names[r]), func(c *CPU) int {
				c.testBit(n, c.reg8(r))
				return cycles
			})
		case op < 0xC0:
			cycles := pick(r, 16, 8)
			defCB(uint8(op), fmt.Sprintf("RES %d,%s", n, reg8Names[r]), func(c *CPU) int {
				c.setReg8(r, c.reg8(r)&^(1<<n))
				return cycles
			})
		default:
			cycles := pick(r, 16, 8)
			defCB(uint8(op), fmt.Sprintf("SET %d,%s", n, reg8Names[r]), func(c *CPU) int {
				c.setReg8(r, c.reg8(r)|1<<n)
				return cycles
			})
		}
	}
}
