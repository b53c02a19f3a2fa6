package interrupts

import (
	"testing"

	"github.com/depechec0de/yagabor/yagabor/addr"
	"github.com/stretchr/testify/assert"
)

func TestAcknowledge(t *testing.T) {
	t.Run("nothing fires while IME is clear", func(t *testing.T) {
		c := New()
		c.Write(addr.IE, 0x1F)
		c.Request(addr.VBlankInterrupt)

		_, ok := c.Acknowledge()
		assert.False(t, ok)
		assert.True(t, c.Pending(), "request stays latched")
		assert.True(t, c.Requested(addr.VBlankInterrupt))
	})

	t.Run("disabled interrupts are not selected", func(t *testing.T) {
		c := New()
		c.SetMasterEnabled(true)
		c.Write(addr.IE, 0x04)
		c.Request(addr.VBlankInterrupt)

		_, ok := c.Acknowledge()
		assert.False(t, ok)
		assert.True(t, c.MasterEnabled())
	})

	t.Run("priority order", func(t *testing.T) {
		c := New()
		c.Write(addr.IE, 0x1F)
		c.Write(addr.IF, 0x1F)

		want := []addr.Interrupt{
			addr.VBlankInterrupt,
			addr.LCDSTATInterrupt,
			addr.TimerInterrupt,
			addr.SerialInterrupt,
			addr.JoypadInterrupt,
		}
		for _, w := range want {
			c.SetMasterEnabled(true)
			got, ok := c.Acknowledge()
			assert.True(t, ok)
			assert.Equal(t, w, got)
			assert.False(t, c.Requested(w))
			assert.False(t, c.MasterEnabled())
		}
		assert.Equal(t, uint8(0xE0), c.Read(addr.IF))
	})
}

func TestRegisters(t *testing.T) {
	c := New()
	c.Write(addr.IF, 0xFF)
	assert.Equal(t, uint8(0xFF), c.Read(addr.IF))

	c.Write(addr.IF, 0x00)
	assert.Equal(t, uint8(0xE0), c.Read(addr.IF))

	c.Write(addr.IE, 0xAB)
	assert.Equal(t, uint8(0xAB), c.Read(addr.IE))
}

func TestVectors(t *testing.T) {
	assert.Equal(t, uint16(0x40), addr.VBlankInterrupt.Vector())
	assert.Equal(t, uint16(0x48), addr.LCDSTATInterrupt.Vector())
	assert.Equal(t, uint16(0x50), addr.TimerInterrupt.Vector())
	assert.Equal(t, uint16(0x58), addr.SerialInterrupt.Vector())
	assert.Equal(t, uint16(0x60), addr.JoypadInterrupt.Vector())
}

func TestRequestUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { New().Request(addr.Interrupt(7)) })
}
