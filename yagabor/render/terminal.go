// Package render contains the front-ends that put frames on a screen.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/depechec0de/yagabor/yagabor"
	"github.com/depechec0de/yagabor/yagabor/debug"
	"github.com/depechec0de/yagabor/yagabor/memory"
	"github.com/depechec0de/yagabor/yagabor/video"
	"github.com/gdamore/tcell/v2"
)

const (
	scaleX    = 2
	scaleY    = 1
	frameTime = time.Second / 60

	// terminals report key presses only, so a key is held for a few frames
	holdFrames = 6
)

var runeKeys = map[rune]memory.JoypadKey{
	'a': memory.JoypadA,
	's': memory.JoypadB,
	'q': memory.JoypadSelect,
}

var specialKeys = map[tcell.Key]memory.JoypadKey{
	tcell.KeyEnter: memory.JoypadStart,
	tcell.KeyRight: memory.JoypadRight,
	tcell.KeyLeft:  memory.JoypadLeft,
	tcell.KeyUp:    memory.JoypadUp,
	tcell.KeyDown:  memory.JoypadDown,
}

// Terminal draws the LCD in a terminal with one block glyph per pixel and
// forwards key presses to the joypad.
type Terminal struct {
	screen tcell.Screen
	emu    yagabor.Emulator

	held map[memory.JoypadKey]int
}

// NewTerminal takes over the controlling terminal.
func NewTerminal(emu yagabor.Emulator) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return NewTerminalWithScreen(emu, screen)
}

// NewTerminalWithScreen draws on the given screen, which is initialized here.
func NewTerminalWithScreen(emu yagabor.Emulator, screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	return &Terminal{
		screen: screen,
		emu:    emu,
		held:   make(map[memory.JoypadKey]int),
	}, nil
}

// Run emulates and draws one frame per tick until ctx is done, Escape is
// pressed or the emulator fails. The screen is released on return.
func (t *Terminal) Run(ctx context.Context) error {
	defer func() {
		slog.Info("Finishing terminal")
		t.screen.Fini()
	}()

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go t.pollEvents(events, done)

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Received signal to stop")
			return nil
		case ev := <-events:
			if t.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if err := t.emu.RunUntilFrame(); err != nil {
				return err
			}
			t.releaseExpired()
			t.Draw()
			t.screen.Show()
		}
	}
}

func (t *Terminal) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// handleEvent reacts to one terminal event and reports whether to quit.
func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		key, ok := specialKeys[ev.Key()]
		if ev.Key() == tcell.KeyRune {
			key, ok = runeKeys[ev.Rune()]
		}
		if ok {
			t.emu.PressKey(key)
			t.held[key] = holdFrames
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return false
}

func (t *Terminal) releaseExpired() {
	for key, frames := range t.held {
		if frames <= 1 {
			t.emu.ReleaseKey(key)
			delete(t.held, key)
			continue
		}
		t.held[key] = frames - 1
	}
}

// Draw copies the visible part of the current frame to the screen.
func (t *Terminal) Draw() {
	frame := t.emu.Frame()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	for y := 0; y < video.ScreenHeight; y++ {
		for x := 0; x < video.ScreenWidth; x++ {
			glyph := debug.Glyph(frame.At(x, y))
			for sx := 0; sx < scaleX; sx++ {
				t.screen.SetContent(x*scaleX+sx, y*scaleY, glyph, nil, style)
			}
		}
	}
}
