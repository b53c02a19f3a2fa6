// Package disasm renders instructions from memory as text.
package disasm

import (
	"fmt"

	"github.com/depechec0de/yagabor/yagabor/cpu"
)

// Reader is the part of the bus the disassembler needs.
type Reader interface {
	Read(address uint16) byte
}

// Line is a single disassembled instruction.
type Line struct {
	Address     uint16
	Instruction string
	Length      int
}

func (l Line) String() string {
	return fmt.Sprintf("%04X  %s", l.Address, l.Instruction)
}

// DisassembleAt disassembles the instruction at pc. Bytes that do not decode
// to an instruction are shown as data, one byte long.
func DisassembleAt(bus Reader, pc uint16) Line {
	opcode := bus.Read(pc)
	extended := false
	if opcode == 0xCB {
		opcode = bus.Read(pc + 1)
		extended = true
	}

	in := cpu.Lookup(opcode, extended)
	if in == nil {
		return Line{Address: pc, Instruction: fmt.Sprintf("DB $%02X", opcode), Length: 1}
	}

	operands := make([]byte, 0, 2)
	for i := 1; i < in.Length; i++ {
		if extended {
			break
		}
		operands = append(operands, bus.Read(pc+uint16(i)))
	}

	return Line{
		Address:     pc,
		Instruction: in.Format(operands),
		Length:      in.Length,
	}
}

// DisassembleRange disassembles count instructions starting at start. It stops
// early when the address space wraps.
func DisassembleRange(bus Reader, start uint16, count int) []Line {
	lines := make([]Line, 0, count)
	pc := uint32(start)

	for i := 0; i < count && pc <= 0xFFFF; i++ {
		line := DisassembleAt(bus, uint16(pc))
		lines = append(lines, line)
		pc += uint32(line.Length)
	}
	return lines
}
