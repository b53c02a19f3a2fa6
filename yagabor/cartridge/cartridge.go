// Package cartridge parses cartridge images and provides the memory bank
// controllers that map them into the address space.
package cartridge

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/depechec0de/yagabor/yagabor/bit"
)

const (
	entryPointAddress     = 0x100
	logoAddress           = 0x104
	titleAddress          = 0x134
	titleEnd              = 0x144
	licenseeAddress       = 0x144
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	headerChecksumAddress = 0x14D
	globalChecksumAddress = 0x14E
	headerChecksumStart   = 0x134
	headerEnd             = 0x150
	entryPointLength      = 4
	logoLength            = 0x30
)

var (
	// ErrTooShort is returned for images that cannot hold a header.
	ErrTooShort = errors.New("cartridge image too short")
	// ErrInvalidTitle is returned when the title bytes are not valid text.
	ErrInvalidTitle = errors.New("cartridge title is not valid text")
	// ErrUnsupportedType is returned for memory bank controllers that are not emulated.
	ErrUnsupportedType = errors.New("unsupported cartridge type")
)

// Type is the cartridge type byte (0x147).
type Type uint8

const (
	TypeROMOnly              Type = 0x00
	TypeMBC1                 Type = 0x01
	TypeMBC1RAM              Type = 0x02
	TypeMBC1RAMBattery       Type = 0x03
	TypeMBC2                 Type = 0x05
	TypeMBC2Battery          Type = 0x06
	TypeMBC3TimerBattery     Type = 0x0F
	TypeMBC3TimerRAMBattery  Type = 0x10
	TypeMBC3                 Type = 0x11
	TypeMBC3RAM              Type = 0x12
	TypeMBC3RAMBattery       Type = 0x13
	TypeMBC5                 Type = 0x19
	TypeMBC5RAM              Type = 0x1A
	TypeMBC5RAMBattery       Type = 0x1B
	TypeMBC5Rumble           Type = 0x1C
	TypeMBC5RumbleRAM        Type = 0x1D
	TypeMBC5RumbleRAMBattery Type = 0x1E
)

// Header holds the fields of the cartridge header.
type Header struct {
	EntryPoint     [entryPointLength]byte
	Logo           [logoLength]byte
	Title          string
	Licensee       byte
	Type           Type
	ROMSize        byte
	RAMSize        byte
	HeaderChecksum byte
	GlobalChecksum uint16
}

// Cartridge is a parsed cartridge image.
type Cartridge struct {
	Header
	data []byte
}

// Load reads and parses the cartridge at path.
func Load(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cartridge: %w", err)
	}

	slog.Info("Loaded ROM data", "path", path, "bytes", len(data))
	return New(data)
}

// New parses a cartridge image held in memory.
func New(data []byte) (*Cartridge, error) {
	if len(data) < headerEnd {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooShort, len(data))
	}

	titleBytes := bytes.TrimRight(data[titleAddress:titleEnd], "\x00")
	if !utf8.Valid(titleBytes) {
		return nil, fmt.Errorf("%w: % X", ErrInvalidTitle, titleBytes)
	}

	cart := &Cartridge{
		Header: Header{
			Title:          string(titleBytes),
			Licensee:       data[licenseeAddress],
			Type:           Type(data[cartridgeTypeAddress]),
			ROMSize:        data[romSizeAddress],
			RAMSize:        data[ramSizeAddress],
			HeaderChecksum: data[headerChecksumAddress],
			GlobalChecksum: bit.Combine(data[globalChecksumAddress], data[globalChecksumAddress+1]),
		},
		data: make([]byte, len(data)),
	}
	copy(cart.EntryPoint[:], data[entryPointAddress:])
	copy(cart.Logo[:], data[logoAddress:])
	copy(cart.data, data)

	if sum := headerChecksum(data); sum != cart.HeaderChecksum {
		slog.Warn("Cartridge header checksum mismatch",
			"expected", fmt.Sprintf("0x%02X", cart.HeaderChecksum),
			"computed", fmt.Sprintf("0x%02X", sum))
	}

	return cart, nil
}

// headerChecksum computes the checksum of bytes 0x134-0x14C the way the boot
// ROM does.
func headerChecksum(data []byte) byte {
	var sum byte
	for _, b := range data[headerChecksumStart:headerChecksumAddress] {
		sum = sum - b - 1
	}
	return sum
}

// RAMBanks returns the number of 8KB external RAM banks declared in the header.
func (c *Cartridge) RAMBanks() int {
	switch c.RAMSize {
	case 0x02:
		return 1
	case 0x03:
		return 4
	case 0x04:
		return 16
	case 0x05:
		return 8
	default:
		return 0
	}
}

// MBC returns the memory bank controller for this cartridge.
func (c *Cartridge) MBC() (MBC, error) {
	switch c.Type {
	case TypeROMOnly:
		return NewNoMBC(c.data), nil
	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery:
		return NewMBC1(c.data, c.RAMBanks()), nil
	case TypeMBC2, TypeMBC2Battery:
		return NewMBC2(c.data), nil
	case TypeMBC3TimerBattery, TypeMBC3TimerRAMBattery:
		return NewMBC3(c.data, c.RAMBanks(), true, nil), nil
	case TypeMBC3, TypeMBC3RAM, TypeMBC3RAMBattery:
		return NewMBC3(c.data, c.RAMBanks(), false, nil), nil
	case TypeMBC5, TypeMBC5RAM, TypeMBC5RAMBattery,
		TypeMBC5Rumble, TypeMBC5RumbleRAM, TypeMBC5RumbleRAMBattery:
		return NewMBC5(c.data, c.RAMBanks()), nil
	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnsupportedType, uint8(c.Type))
	}
}
