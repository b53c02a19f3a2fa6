package cartridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// bankedROM returns a ROM of the given number of 16KB banks where every byte
// holds its bank number.
func bankedROM(banks int) []uint8 {
	rom := make([]uint8, banks*romBankSize)
	for i := range rom {
		rom[i] = uint8(i / romBankSize)
	}
	return rom
}

func TestNoMBC(t *testing.T) {
	rom := make([]uint8, 0x8000)
	for i := range rom {
		rom[i] = uint8(i)
	}
	mbc := NewNoMBC(rom)

	assert.Equal(t, uint8(0x34), mbc.Read(0x1234))
	mbc.Write(0x1234, 0xFF)
	assert.Equal(t, uint8(0x34), mbc.Read(0x1234), "ROM is read-only")
	assert.Equal(t, uint8(0xFF), mbc.Read(0xA000), "no external RAM")
}

func TestMBC1(t *testing.T) {
	t.Run("bank 0 is fixed", func(t *testing.T) {
		mbc := NewMBC1(bankedROM(4), 0)
		mbc.Write(0x2000, 3)
		assert.Equal(t, uint8(0), mbc.Read(0x0000))
		assert.Equal(t, uint8(0), mbc.Read(0x3FFF))
	})

	t.Run("rom bank switching", func(t *testing.T) {
		mbc := NewMBC1(bankedROM(4), 0)

		tests := []struct {
			name string
			bank uint8
			want uint8
		}{
			{"bank 2", 2, 2},
			{"bank 3", 3, 3},
			{"bank 0 selects 1", 0, 1},
			{"bank 1", 1, 1},
		}

		assert.Equal(t, uint8(1), mbc.Read(0x4000), "default bank")
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mbc.Write(0x2000, tt.bank)
				assert.Equal(t, tt.want, mbc.Read(0x4000))
				assert.Equal(t, tt.want, mbc.Read(0x7FFF))
			})
		}
	})

	t.Run("upper bank bits wrap", func(t *testing.T) {
		mbc := NewMBC1(bankedROM(8), 0)
		mbc.Write(0x2000, 5)
		mbc.Write(0x4000, 1)
		// bank 37 on an 8 bank ROM
		assert.Equal(t, uint8(5), mbc.Read(0x4000))
	})

	t.Run("ram disabled by default", func(t *testing.T) {
		mbc := NewMBC1(bankedROM(2), 1)
		mbc.Write(0xA000, 0x42)
		assert.Equal(t, uint8(0xFF), mbc.Read(0xA000))
	})

	t.Run("ram enable and disable", func(t *testing.T) {
		mbc := NewMBC1(bankedROM(2), 1)
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0xA000, 0x42)
		assert.Equal(t, uint8(0x42), mbc.Read(0xA000))

		mbc.Write(0x0000, 0x00)
		assert.Equal(t, uint8(0xFF), mbc.Read(0xA000))

		mbc.Write(0x0000, 0x0A)
		assert.Equal(t, uint8(0x42), mbc.Read(0xA000), "contents survive disable")
	})

	t.Run("ram banks", func(t *testing.T) {
		mbc := NewMBC1(bankedROM(2), 4)
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0x6000, 1)

		for bank := uint8(0); bank < 4; bank++ {
			mbc.Write(0x4000, bank)
			mbc.Write(0xA000, 0x40+bank)
		}
		for bank := uint8(0); bank < 4; bank++ {
			mbc.Write(0x4000, bank)
			assert.Equal(t, 0x40+bank, mbc.Read(0xA000), "bank %d", bank)
		}
	})

	t.Run("ram mode keeps rom bank low bits", func(t *testing.T) {
		mbc := NewMBC1(bankedROM(8), 4)
		mbc.Write(0x6000, 1)
		mbc.Write(0x2000, 5)
		mbc.Write(0x4000, 2)

		assert.Equal(t, uint8(5), mbc.bank1)
		assert.Equal(t, uint8(2), mbc.bank2)
		assert.Equal(t, 2, mbc.ramBank())
		assert.Equal(t, uint8(5), mbc.Read(0x4000))
	})

	t.Run("upper bank bits survive mode changes", func(t *testing.T) {
		mbc := NewMBC1(bankedROM(64), 0)
		mbc.Write(0x2000, 1)
		mbc.Write(0x4000, 1)

		tests := []struct {
			name     string
			mode     uint8
			wantHigh uint8
			wantLow  uint8
		}{
			{"mode 0", 0, 0x21, 0x00},
			{"mode 1", 1, 0x21, 0x20},
			{"back to mode 0", 0, 0x21, 0x00},
		}

		assert.Equal(t, uint8(0x21), mbc.Read(0x4000))
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mbc.Write(0x6000, tt.mode)
				assert.Equal(t, tt.wantHigh, mbc.Read(0x4000))
				assert.Equal(t, tt.wantLow, mbc.Read(0x0000))
			})
		}
	})

	t.Run("ram bank only applies in mode 1", func(t *testing.T) {
		mbc := NewMBC1(bankedROM(2), 4)
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0x4000, 2)
		mbc.Write(0xA000, 0x11)

		mbc.Write(0x6000, 1)
		assert.Equal(t, uint8(0x00), mbc.Read(0xA000), "bank 2 is empty")
		mbc.Write(0xA000, 0x22)

		mbc.Write(0x6000, 0)
		assert.Equal(t, uint8(0x11), mbc.Read(0xA000), "mode 0 wrote bank 0")
	})

	t.Run("no ram", func(t *testing.T) {
		mbc := NewMBC1(bankedROM(2), 0)
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0xA000, 0x42)
		assert.Equal(t, uint8(0xFF), mbc.Read(0xA000))
	})

	t.Run("outside cartridge range", func(t *testing.T) {
		mbc := NewMBC1(bankedROM(2), 0)
		assert.Equal(t, uint8(0xFF), mbc.Read(0xC000))
	})
}

func TestMBC2(t *testing.T) {
	t.Run("address bit 8 selects the register", func(t *testing.T) {
		mbc := NewMBC2(bankedROM(16))

		mbc.Write(0x2100, 0x07)
		assert.Equal(t, uint8(7), mbc.Read(0x4000))

		mbc.Write(0x2000, 0x03)
		assert.Equal(t, uint8(7), mbc.Read(0x4000), "bit 8 clear does not bank")

		mbc.Write(0x0100, 0x0A)
		mbc.Write(0xA000, 0x05)
		assert.Equal(t, uint8(0xFF), mbc.Read(0xA000), "bit 8 set does not enable ram")
	})

	t.Run("rom bank 0 selects 1", func(t *testing.T) {
		mbc := NewMBC2(bankedROM(16))
		mbc.Write(0x2100, 0x10)
		assert.Equal(t, uint8(1), mbc.Read(0x4000))
	})

	t.Run("ram holds nibbles and echoes", func(t *testing.T) {
		mbc := NewMBC2(bankedROM(2))
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0xA010, 0xAB)

		assert.Equal(t, uint8(0xFB), mbc.Read(0xA010))
		assert.Equal(t, uint8(0xFB), mbc.Read(0xA210))
		assert.Equal(t, uint8(0xFB), mbc.Read(0xBE10))
	})
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func latch(mbc *MBC3) {
	mbc.Write(0x6000, 0x00)
	mbc.Write(0x6000, 0x01)
}

func readRTC(mbc *MBC3, register uint8) uint8 {
	mbc.Write(0x4000, register)
	return mbc.Read(0xA000)
}

func TestMBC3(t *testing.T) {
	t.Run("rom bank switching", func(t *testing.T) {
		mbc := NewMBC3(bankedROM(128), 0, false, nil)

		tests := []struct {
			name string
			bank uint8
			want uint8
		}{
			{"bank 0 selects 1", 0x00, 1},
			{"bank 0x21 has no mbc1 gap", 0x21, 0x21},
			{"bank 0x7F", 0x7F, 0x7F},
			{"bit 7 ignored", 0x85, 0x05},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mbc.Write(0x2000, tt.bank)
				assert.Equal(t, tt.want, mbc.Read(0x4000))
			})
		}
	})

	t.Run("ram banks", func(t *testing.T) {
		mbc := NewMBC3(bankedROM(2), 4, false, nil)
		mbc.Write(0x0000, 0x0A)

		for bank := uint8(0); bank < 4; bank++ {
			mbc.Write(0x4000, bank)
			mbc.Write(0xBFFF, 0x50+bank)
		}
		for bank := uint8(0); bank < 4; bank++ {
			mbc.Write(0x4000, bank)
			assert.Equal(t, 0x50+bank, mbc.Read(0xBFFF), "bank %d", bank)
		}
	})

	t.Run("clock registers absent without timer", func(t *testing.T) {
		mbc := NewMBC3(bankedROM(2), 1, false, nil)
		mbc.Write(0x0000, 0x0A)
		assert.Equal(t, uint8(0xFF), readRTC(mbc, 0x08))
	})

	t.Run("latched clock", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		mbc := NewMBC3(bankedROM(2), 1, true, clock)
		mbc.Write(0x0000, 0x0A)

		clock.advance(300*24*time.Hour + 5*time.Hour + 4*time.Minute + 3*time.Second)
		assert.Equal(t, uint8(0), readRTC(mbc, 0x08), "not latched yet")

		latch(mbc)
		clock.advance(time.Hour)

		assert.Equal(t, uint8(3), readRTC(mbc, 0x08))
		assert.Equal(t, uint8(4), readRTC(mbc, 0x09))
		assert.Equal(t, uint8(5), readRTC(mbc, 0x0A))
		assert.Equal(t, uint8(300&0xFF), readRTC(mbc, 0x0B))
		assert.Equal(t, uint8(0x01), readRTC(mbc, 0x0C), "day bit 8")
	})

	t.Run("day counter overflow sets carry", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		mbc := NewMBC3(bankedROM(2), 0, true, clock)
		mbc.Write(0x0000, 0x0A)

		clock.advance(513 * 24 * time.Hour)
		latch(mbc)

		assert.Equal(t, uint8(1), readRTC(mbc, 0x0B))
		assert.Equal(t, uint8(0x80), readRTC(mbc, 0x0C))
	})

	t.Run("halted clock stops counting", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		mbc := NewMBC3(bankedROM(2), 0, true, clock)
		mbc.Write(0x0000, 0x0A)

		mbc.Write(0x4000, 0x08)
		mbc.Write(0xA000, 30)
		mbc.Write(0x4000, 0x0C)
		mbc.Write(0xA000, 0x40)

		clock.advance(10 * time.Minute)
		latch(mbc)
		assert.Equal(t, uint8(30), readRTC(mbc, 0x08))
		assert.Equal(t, uint8(0), readRTC(mbc, 0x09))
		assert.Equal(t, uint8(0x40), readRTC(mbc, 0x0C))

		mbc.Write(0xA000, 0x00)
		clock.advance(15 * time.Second)
		latch(mbc)
		assert.Equal(t, uint8(45), readRTC(mbc, 0x08))
	})
}

func TestMBC5(t *testing.T) {
	t.Run("nine bit rom bank", func(t *testing.T) {
		rom := make([]uint8, 0x101*romBankSize)
		rom[0x100*romBankSize] = 0xAA
		rom[0x0000] = 0x11
		mbc := NewMBC5(rom, 0)

		mbc.Write(0x2000, 0x00)
		mbc.Write(0x3000, 0x01)
		assert.Equal(t, uint8(0xAA), mbc.Read(0x4000))

		mbc.Write(0x3000, 0x00)
		assert.Equal(t, uint8(0x11), mbc.Read(0x4000), "bank 0 maps at 0x4000")
	})

	t.Run("rom bank switching", func(t *testing.T) {
		mbc := NewMBC5(bankedROM(64), 0)
		assert.Equal(t, uint8(1), mbc.Read(0x4000), "default bank")

		mbc.Write(0x2000, 0x21)
		assert.Equal(t, uint8(0x21), mbc.Read(0x4000))
		assert.Equal(t, uint8(0), mbc.Read(0x0000))
	})

	t.Run("ram banks", func(t *testing.T) {
		mbc := NewMBC5(bankedROM(2), 16)
		mbc.Write(0x0000, 0x0A)

		for bank := uint8(0); bank < 16; bank++ {
			mbc.Write(0x4000, bank)
			mbc.Write(0xA123, bank)
		}
		for bank := uint8(0); bank < 16; bank++ {
			mbc.Write(0x4000, bank)
			assert.Equal(t, bank, mbc.Read(0xA123), "bank %d", bank)
		}

		mbc.Write(0x0000, 0x00)
		assert.Equal(t, uint8(0xFF), mbc.Read(0xA123))
	})
}
