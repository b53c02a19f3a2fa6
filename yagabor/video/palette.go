package video

// Shade is one of the four grey levels of the DMG screen.
type Shade uint8

const (
	White Shade = iota
	LightGray
	DarkGray
	Black
)

var shadeNames = [...]string{"White", "LightGray", "DarkGray", "Black"}

func (s Shade) String() string {
	if int(s) < len(shadeNames) {
		return shadeNames[s]
	}
	return "Invalid"
}

// Palette maps a 2 bit pixel value (0-3) to a shade.
//
// Palette registers (BGP, OBP0, OBP1) pack four 2 bit shades in one byte:
//
//	Bit 7-6 - shade for color 3
//	Bit 5-4 - shade for color 2
//	Bit 3-2 - shade for color 1
//	Bit 1-0 - shade for color 0
//
// Reference: https://gbdev.io/pandocs/Palettes.html
type Palette [4]Shade

// PaletteFromByte unpacks a palette register value.
func PaletteFromByte(b byte) Palette {
	return Palette{
		Shade(b & 0x03),
		Shade((b >> 2) & 0x03),
		Shade((b >> 4) & 0x03),
		Shade((b >> 6) & 0x03),
	}
}

// Byte packs the palette back into its register form.
func (p Palette) Byte() byte {
	return byte(p[3]&0x03)<<6 | byte(p[2]&0x03)<<4 | byte(p[1]&0x03)<<2 | byte(p[0]&0x03)
}

// Apply returns the shade for a pre-palette pixel value.
func (p Palette) Apply(value uint8) Shade {
	return p[value&0x03]
}
