package yagabor

import (
	"github.com/depechec0de/yagabor/yagabor/memory"
	"github.com/depechec0de/yagabor/yagabor/video"
)

// Emulator is what front-ends drive: run a frame, show it, forward input.
type Emulator interface {
	RunUntilFrame() error
	Frame() *video.Frame
	PressKey(key memory.JoypadKey)
	ReleaseKey(key memory.JoypadKey)
}

var _ Emulator = (*DMG)(nil)
