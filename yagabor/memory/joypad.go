package memory

import "github.com/depechec0de/yagabor/yagabor/bit"

// JoypadKey is one of the eight buttons.
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

var keyNames = [...]string{"Right", "Left", "Up", "Down", "A", "B", "Select", "Start"}

func (k JoypadKey) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "Unknown"
}

const (
	selectDpad    = 4
	selectButtons = 5
)

// Joypad is the P1 register. Buttons are active low: a pressed key reads 0
// in the selected group.
type Joypad struct {
	dpad    uint8
	buttons uint8
	line    uint8

	onPress func()
}

// NewJoypad returns a joypad with every key released. onPress is called on a
// high to low transition of any key line.
func NewJoypad(onPress func()) *Joypad {
	return &Joypad{
		dpad:    0x0F,
		buttons: 0x0F,
		line:    0x30,
		onPress: onPress,
	}
}

// Read returns P1 with the lines of the selected groups.
func (j *Joypad) Read() uint8 {
	value := uint8(0x0F)
	if !bit.IsSet(selectDpad, j.line) {
		value &= j.dpad
	}
	if !bit.IsSet(selectButtons, j.line) {
		value &= j.buttons
	}
	return 0xC0 | j.line | value
}

// Write selects which group is visible in P1.
func (j *Joypad) Write(value uint8) {
	j.line = value & 0x30
}

// Press marks the key as held.
func (j *Joypad) Press(key JoypadKey) {
	group, index := j.group(key)
	if group == nil {
		return
	}
	wasHigh := bit.IsSet(index, *group)
	*group = bit.Clear(index, *group)
	if wasHigh && j.onPress != nil {
		j.onPress()
	}
}

// Release marks the key as not held.
func (j *Joypad) Release(key JoypadKey) {
	if group, index := j.group(key); group != nil {
		*group = bit.Set(index, *group)
	}
}

func (j *Joypad) group(key JoypadKey) (*uint8, uint8) {
	switch {
	case key <= JoypadDown:
		return &j.dpad, uint8(key)
	case key <= JoypadStart:
		return &j.buttons, uint8(key - JoypadA)
	default:
		return nil, 0
	}
}
