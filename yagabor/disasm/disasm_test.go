package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type romBus []byte

func (b romBus) Read(address uint16) byte {
	if int(address) < len(b) {
		return b[address]
	}
	return 0
}

func TestDisassembleAt(t *testing.T) {
	tests := []struct {
		name   string
		bytes  []byte
		want   string
		length int
	}{
		{"no operands", []byte{0x00}, "NOP", 1},
		{"register load", []byte{0x78}, "LD A,B", 1},
		{"d8", []byte{0x3E, 0x42}, "LD A,$42", 2},
		{"d16", []byte{0x21, 0x34, 0x12}, "LD HL,$1234", 3},
		{"a16", []byte{0xC3, 0x50, 0x01}, "JP $0150", 3},
		{"a8", []byte{0xE0, 0x40}, "LDH ($FF40),A", 2},
		{"r8 backwards", []byte{0x20, 0xFE}, "JR NZ,-2", 2},
		{"rst", []byte{0xEF}, "RST $28", 1},
		{"extended", []byte{0xCB, 0x7C}, "BIT 7,H", 2},
		{"extended (HL)", []byte{0xCB, 0x36}, "SWAP (HL)", 2},
		{"illegal", []byte{0xD3}, "DB $D3", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := DisassembleAt(romBus(tt.bytes), 0)
			assert.Equal(t, tt.want, line.Instruction)
			assert.Equal(t, tt.length, line.Length)
			assert.Equal(t, uint16(0), line.Address)
		})
	}
}

func TestDisassembleRange(t *testing.T) {
	// LD SP,$FFFE; XOR A; LD HL,$9FFF; LD (HL-),A; BIT 7,H
	program := romBus{0x31, 0xFE, 0xFF, 0xAF, 0x21, 0xFF, 0x9F, 0x32, 0xCB, 0x7C}

	lines := DisassembleRange(program, 0, 5)
	require.Len(t, lines, 5)

	assert.Equal(t, "0000  LD SP,$FFFE", lines[0].String())
	assert.Equal(t, "0003  XOR A", lines[1].String())
	assert.Equal(t, "0004  LD HL,$9FFF", lines[2].String())
	assert.Equal(t, "0007  LD (HL-),A", lines[3].String())
	assert.Equal(t, "0008  BIT 7,H", lines[4].String())
}

func TestDisassembleRangeStopsAtEnd(t *testing.T) {
	var bus romBus = make([]byte, 0x10000)
	lines := DisassembleRange(bus, 0xFFFE, 10)
	assert.Len(t, lines, 2)
}
