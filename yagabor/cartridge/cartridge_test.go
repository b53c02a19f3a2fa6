package cartridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildImage returns a 32KB image with the given title, type and RAM size and
// a correct header checksum.
func buildImage(title string, cartType Type, ramSize byte) []byte {
	data := make([]byte, 0x8000)
	copy(data[entryPointAddress:], []byte{0x00, 0xC3, 0x50, 0x01})
	copy(data[titleAddress:titleEnd], title)
	data[cartridgeTypeAddress] = byte(cartType)
	data[ramSizeAddress] = ramSize
	data[globalChecksumAddress] = 0x12
	data[globalChecksumAddress+1] = 0x34
	data[headerChecksumAddress] = headerChecksum(data)
	return data
}

func TestNewParsesHeader(t *testing.T) {
	data := buildImage("TETRIS", TypeMBC1RAMBattery, 0x03)

	cart, err := New(data)
	require.NoError(t, err)

	assert.Equal(t, "TETRIS", cart.Title)
	assert.Equal(t, TypeMBC1RAMBattery, cart.Type)
	assert.Equal(t, [4]byte{0x00, 0xC3, 0x50, 0x01}, cart.EntryPoint)
	assert.Equal(t, uint16(0x1234), cart.GlobalChecksum)
	assert.Equal(t, headerChecksum(data), cart.HeaderChecksum)
	assert.Equal(t, 4, cart.RAMBanks())
}

func TestNewCopiesData(t *testing.T) {
	data := buildImage("COPY", TypeROMOnly, 0)
	cart, err := New(data)
	require.NoError(t, err)

	data[0x0200] = 0xAB
	mbc, err := cart.MBC()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x00), mbc.Read(0x0200))
}

func TestNewErrors(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		_, err := New(make([]byte, 0x100))
		assert.ErrorIs(t, err, ErrTooShort)
	})

	t.Run("invalid title", func(t *testing.T) {
		data := buildImage("", TypeROMOnly, 0)
		data[titleAddress] = 0xC3
		data[titleAddress+1] = 0x28

		_, err := New(data)
		assert.ErrorIs(t, err, ErrInvalidTitle)
	})

	t.Run("checksum mismatch is not fatal", func(t *testing.T) {
		data := buildImage("BAD SUM", TypeROMOnly, 0)
		data[headerChecksumAddress]++

		cart, err := New(data)
		require.NoError(t, err)
		assert.Equal(t, "BAD SUM", cart.Title)
	})
}

func TestTitleTrimsPadding(t *testing.T) {
	data := buildImage("ABC", TypeROMOnly, 0)
	cart, err := New(data)
	require.NoError(t, err)
	assert.Equal(t, "ABC", cart.Title)
	assert.Len(t, cart.Title, 3)
}

func TestMBCSelection(t *testing.T) {
	tests := []struct {
		name     string
		cartType Type
		want     any
		wantErr  error
	}{
		{"rom only", TypeROMOnly, &NoMBC{}, nil},
		{"mbc1", TypeMBC1, &MBC1{}, nil},
		{"mbc1 ram", TypeMBC1RAM, &MBC1{}, nil},
		{"mbc1 ram battery", TypeMBC1RAMBattery, &MBC1{}, nil},
		{"mbc2", TypeMBC2, &MBC2{}, nil},
		{"mbc2 battery", TypeMBC2Battery, &MBC2{}, nil},
		{"mbc3 timer battery", TypeMBC3TimerBattery, &MBC3{}, nil},
		{"mbc3 timer ram battery", TypeMBC3TimerRAMBattery, &MBC3{}, nil},
		{"mbc3", TypeMBC3, &MBC3{}, nil},
		{"mbc3 ram", TypeMBC3RAM, &MBC3{}, nil},
		{"mbc3 ram battery", TypeMBC3RAMBattery, &MBC3{}, nil},
		{"mbc5", TypeMBC5, &MBC5{}, nil},
		{"mbc5 ram", TypeMBC5RAM, &MBC5{}, nil},
		{"mbc5 ram battery", TypeMBC5RAMBattery, &MBC5{}, nil},
		{"mbc5 rumble", TypeMBC5Rumble, &MBC5{}, nil},
		{"mbc5 rumble ram", TypeMBC5RumbleRAM, &MBC5{}, nil},
		{"mbc5 rumble ram battery", TypeMBC5RumbleRAMBattery, &MBC5{}, nil},
		{"mmm01", Type(0x0B), nil, ErrUnsupportedType},
		{"pocket camera", Type(0xFC), nil, ErrUnsupportedType},
		{"huc1", Type(0xFF), nil, ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := New(buildImage("MBC", tt.cartType, 0x02))
			require.NoError(t, err)

			mbc, err := cart.MBC()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, mbc)
		})
	}

	t.Run("mbc3 timer only on timer types", func(t *testing.T) {
		for cartType, wantRTC := range map[Type]bool{
			TypeMBC3TimerBattery:    true,
			TypeMBC3TimerRAMBattery: true,
			TypeMBC3RAMBattery:      false,
		} {
			cart, err := New(buildImage("RTC", cartType, 0x03))
			require.NoError(t, err)
			mbc, err := cart.MBC()
			require.NoError(t, err)
			assert.Equal(t, wantRTC, mbc.(*MBC3).hasRTC, "type 0x%02X", uint8(cartType))
		}
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.gb")
	require.NoError(t, os.WriteFile(path, buildImage("FROM DISK", TypeROMOnly, 0), 0o644))

	cart, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "FROM DISK", cart.Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.gb"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
