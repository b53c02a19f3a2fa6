package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPairs(t *testing.T) {
	var r Registers

	r.SetBC(0x1234)
	r.SetDE(0x5678)
	r.SetHL(0x9ABC)

	assert.Equal(t, uint8(0x12), r.B)
	assert.Equal(t, uint8(0x34), r.C)
	assert.Equal(t, uint16(0x1234), r.BC())
	assert.Equal(t, uint16(0x5678), r.DE())
	assert.Equal(t, uint16(0x9ABC), r.HL())

	r.H = 0xFF
	assert.Equal(t, uint16(0xFFBC), r.HL())
}

func TestAFRoundTrip(t *testing.T) {
	var r Registers
	flags := []Flag{ZeroFlag, SubFlag, HalfCarryFlag, CarryFlag}

	for a := 0; a < 256; a++ {
		for combo := 0; combo < 16; combo++ {
			var f uint8
			for i, flag := range flags {
				if combo&(1<<i) != 0 {
					f |= uint8(flag)
				}
			}
			// garbage in the low nibble must be dropped
			packed := uint16(a)<<8 | uint16(f) | 0x0F

			r.SetAF(packed)

			assert.Equal(t, uint16(a)<<8|uint16(f), r.AF())
			assert.Equal(t, uint8(0), r.F()&0x0F)
			for i, flag := range flags {
				assert.Equal(t, combo&(1<<i) != 0, r.Flag(flag))
			}
		}
	}
}

func TestSetF(t *testing.T) {
	var r Registers
	r.SetF(0xFF)
	assert.Equal(t, uint8(0xF0), r.F())
	assert.Equal(t, "ZNHC", r.FlagString())

	r.SetFlag(SubFlag, false)
	r.SetFlag(CarryFlag, false)
	assert.Equal(t, uint8(0xA0), r.F())
	assert.Equal(t, "Z-H-", r.FlagString())
}
